package sheets

import (
	"context"

	"vendas/internal/core"
)

// SaleAppender appends one recorded sale to an external spreadsheet.
type SaleAppender interface {
	Append(ctx context.Context, row core.SaleRow) (rowRef string, err error)
}
