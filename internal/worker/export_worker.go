package worker

import (
	"context"
	"fmt"
	"log/slog"

	"vendas/internal/amqp"
	"vendas/internal/sheets"
	"vendas/internal/storage"
)

// ExportWorker consumes sale export messages and appends the
// corresponding joined rows to a spreadsheet.
type ExportWorker struct {
	storage  *storage.SQLiteRepository
	appender sheets.SaleAppender
}

func NewExportWorker(storage *storage.SQLiteRepository, appender sheets.SaleAppender) *ExportWorker {
	return &ExportWorker{
		storage:  storage,
		appender: appender,
	}
}

// HandleSaleMessage processes a single sale export message: load the
// joined row by id, then append it to the sheet.
func (w *ExportWorker) HandleSaleMessage(ctx context.Context, msg *amqp.SaleExportMessage) error {
	slog.InfoContext(ctx, "Processing sale export message", "sale_id", msg.ID)

	row, err := w.storage.GetSaleRow(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("load sale from storage: %w", err)
	}

	ref, err := w.appender.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("append sale to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Sale export complete", "sale_id", msg.ID, "ref", ref)
	return nil
}
