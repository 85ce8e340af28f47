// Package services orchestrates the persistence layer, the snapshot
// caches, and the optional export queue.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vendas/internal/amqp"
	"vendas/internal/cache"
	"vendas/internal/core"
	"vendas/internal/storage"
)

// SalesService owns the two read snapshots and the cache invalidation
// rules: product writes drop the product snapshot, sale writes drop
// the sales snapshot, and price changes drop both since revenue is
// derived from the current price.
type SalesService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client

	products *cache.Snapshot[[]core.Product]
	sales    *cache.Snapshot[[]core.SaleRow]
}

// RangeReport summarizes a user-selected inclusive date range.
type RangeReport struct {
	Total     float64
	ByDay     []core.DayBucket
	ByProduct []core.ProductBucket
}

func NewSalesService(st *storage.SQLiteRepository, amqpClient *amqp.Client, cacheTTL time.Duration) *SalesService {
	return &SalesService{
		storage:    st,
		amqpClient: amqpClient,
		products:   cache.NewSnapshot[[]core.Product](cacheTTL),
		sales:      cache.NewSnapshot[[]core.SaleRow](cacheTTL),
	}
}

// AddProduct validates and stores a product. Duplicate names are
// silently ignored; the existing row comes back with created=false.
func (s *SalesService) AddProduct(ctx context.Context, name string, price float64) (core.Product, bool, error) {
	p := core.Product{Name: name, Price: price}
	if err := p.Validate(); err != nil {
		return core.Product{}, false, err
	}

	stored, created, err := s.storage.AddProduct(ctx, name, price)
	if err != nil {
		return core.Product{}, false, fmt.Errorf("add product: %w", err)
	}

	s.products.Invalidate()
	return stored, created, nil
}

// UpdateProductPrice overwrites the price of an existing product.
// Unknown ids are a no-op.
func (s *SalesService) UpdateProductPrice(ctx context.Context, id int64, price float64) error {
	if price < 0 {
		return core.ErrNegativePrice
	}
	if err := s.storage.UpdateProductPrice(ctx, id, price); err != nil {
		return fmt.Errorf("update product price: %w", err)
	}

	// Revenue is derived from the current price, so the sales
	// snapshot is stale too.
	s.products.Invalidate()
	s.sales.Invalidate()
	return nil
}

// DeleteProduct removes a product and, by cascade, its sales.
func (s *SalesService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.storage.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.products.Invalidate()
	s.sales.Invalidate()
	return nil
}

// AddSale validates and records a sale, then publishes an export
// message when a queue is configured. Publish failures never fail the
// request; the sale is already durably recorded.
func (s *SalesService) AddSale(ctx context.Context, productID, qty int64, soldAt time.Time) (core.Sale, error) {
	sale := core.Sale{ProductID: productID, Qty: qty, SoldAt: soldAt}
	if err := sale.Validate(); err != nil {
		return core.Sale{}, err
	}

	stored, err := s.storage.AddSale(ctx, productID, qty, soldAt)
	if err != nil {
		return core.Sale{}, fmt.Errorf("add sale: %w", err)
	}
	s.sales.Invalidate()

	if s.amqpClient != nil {
		if err := s.amqpClient.PublishSaleExport(ctx, stored.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sale export message",
				"sale_id", stored.ID, "error", err)
		}
	}

	return stored, nil
}

// ListProducts returns all products ordered by name, served from the
// snapshot cache when fresh.
func (s *SalesService) ListProducts(ctx context.Context) ([]core.Product, error) {
	if cached, ok := s.products.Get(); ok {
		slog.DebugContext(ctx, "Products cache hit", "count", len(cached))
		out := make([]core.Product, len(cached))
		copy(out, cached)
		return out, nil
	}

	products, err := s.storage.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.products.Set(products)

	// Callers get a copy so they cannot mutate the snapshot.
	out := make([]core.Product, len(products))
	copy(out, products)
	return out, nil
}

// ListSales returns the joined sale listing, most recent first,
// served from the snapshot cache when fresh.
func (s *SalesService) ListSales(ctx context.Context) ([]core.SaleRow, error) {
	if cached, ok := s.sales.Get(); ok {
		slog.DebugContext(ctx, "Sales cache hit", "count", len(cached))
		out := make([]core.SaleRow, len(cached))
		copy(out, cached)
		return out, nil
	}

	rows, err := s.storage.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	s.sales.Set(rows)

	out := make([]core.SaleRow, len(rows))
	copy(out, rows)
	return out, nil
}

// Overview derives the fixed reporting windows (today, last 7 days,
// month to date) from the sale listing.
func (s *SalesService) Overview(ctx context.Context, now time.Time) (core.Overview, error) {
	rows, err := s.ListSales(ctx)
	if err != nil {
		return core.Overview{}, fmt.Errorf("overview: %w", err)
	}
	return core.BuildOverview(rows, now), nil
}

// ReportRange aggregates sales within an inclusive calendar-date
// range. An empty range yields empty bucket sets.
func (s *SalesService) ReportRange(ctx context.Context, start, end time.Time) (RangeReport, error) {
	rows, err := s.ListSales(ctx)
	if err != nil {
		return RangeReport{}, fmt.Errorf("range report: %w", err)
	}
	filtered := core.FilterByDateRange(rows, start, end)
	return RangeReport{
		Total:     core.TotalRevenue(filtered),
		ByDay:     core.GroupByDay(filtered),
		ByProduct: core.GroupByProduct(filtered),
	}, nil
}

// Close releases storage and queue connections.
func (s *SalesService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close sales service: %v", errs)
	}
	return nil
}
