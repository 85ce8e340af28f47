package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"vendas/internal/core"
	"vendas/internal/storage"
)

func newTestService(t *testing.T) *SalesService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "vendas.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	svc := NewSalesService(repo, nil, 10*time.Second)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestAddProductValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.AddProduct(ctx, "   ", 1); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, _, err := svc.AddProduct(ctx, "Coffee", -1); !errors.Is(err, core.ErrNegativePrice) {
		t.Fatalf("expected ErrNegativePrice, got %v", err)
	}
}

func TestAddSaleValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, _, err := svc.AddProduct(ctx, "Coffee", 5)
	if err != nil {
		t.Fatalf("add product: %v", err)
	}

	if _, err := svc.AddSale(ctx, p.ID, 0, time.Now()); !errors.Is(err, core.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.AddSale(ctx, p.ID, 1, time.Time{}); !errors.Is(err, core.ErrZeroTimestamp) {
		t.Fatalf("expected ErrZeroTimestamp, got %v", err)
	}
	if _, err := svc.AddSale(ctx, 9999, 1, time.Now()); !errors.Is(err, storage.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestListProductsSeesOwnWriteThroughCache(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.AddProduct(ctx, "Coffee", 5); err != nil {
		t.Fatalf("add product: %v", err)
	}
	// Prime the cache.
	products, err := svc.ListProducts(ctx)
	if err != nil || len(products) != 1 {
		t.Fatalf("list: %v (%d rows)", err, len(products))
	}

	// A write within the TTL must invalidate the snapshot.
	if _, _, err := svc.AddProduct(ctx, "Tea", 3); err != nil {
		t.Fatalf("add second product: %v", err)
	}
	products, err = svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list after write: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("stale read after own mutation: got %d products", len(products))
	}
}

func TestListResultsAreDetachedFromSnapshot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.AddProduct(ctx, "Coffee", 5); err != nil {
		t.Fatalf("add product: %v", err)
	}
	if _, err := svc.AddSale(ctx, 1, 2, time.Now()); err != nil {
		t.Fatalf("add sale: %v", err)
	}

	// The first list fills the snapshot; scribbling on the returned
	// slice must not leak into later reads.
	products, err := svc.ListProducts(ctx)
	if err != nil || len(products) != 1 {
		t.Fatalf("list products: %v (%d rows)", err, len(products))
	}
	products[0].Name = "Mangled"
	products[0].Price = -1

	products, err = svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products again: %v", err)
	}
	if products[0].Name != "Coffee" || products[0].Price != 5 {
		t.Fatalf("snapshot corrupted by caller: %+v", products[0])
	}

	sales, err := svc.ListSales(ctx)
	if err != nil || len(sales) != 1 {
		t.Fatalf("list sales: %v (%d rows)", err, len(sales))
	}
	sales[0].Qty = 99

	sales, err = svc.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales again: %v", err)
	}
	if sales[0].Qty != 2 {
		t.Fatalf("snapshot corrupted by caller: %+v", sales[0])
	}
}

func TestPriceUpdateInvalidatesSalesSnapshot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, _, err := svc.AddProduct(ctx, "Coffee", 5)
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if _, err := svc.AddSale(ctx, p.ID, 2, time.Now()); err != nil {
		t.Fatalf("add sale: %v", err)
	}
	// Prime the sales snapshot.
	rows, err := svc.ListSales(ctx)
	if err != nil || rows[0].Revenue != 10 {
		t.Fatalf("list sales: %v, rows %+v", err, rows)
	}

	if err := svc.UpdateProductPrice(ctx, p.ID, 7); err != nil {
		t.Fatalf("update price: %v", err)
	}
	rows, err = svc.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales after update: %v", err)
	}
	if rows[0].Revenue != 14 {
		t.Fatalf("revenue = %v, want 14 (join-time pricing)", rows[0].Revenue)
	}
}

func TestDeleteProductCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, _, err := svc.AddProduct(ctx, "Coffee", 5)
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if _, err := svc.AddSale(ctx, p.ID, 1, time.Now()); err != nil {
		t.Fatalf("add sale: %v", err)
	}
	if err := svc.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	rows, err := svc.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no sales after cascade, got %d", len(rows))
	}
}

func TestOverviewSingleSale(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	coffee, _, err := svc.AddProduct(ctx, "Coffee", 5.00)
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if _, err := svc.AddSale(ctx, coffee.ID, 3, now); err != nil {
		t.Fatalf("add sale: %v", err)
	}

	rows, err := svc.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(rows) != 1 || rows[0].Revenue != 15.00 {
		t.Fatalf("unexpected listing: %+v", rows)
	}

	ov, err := svc.Overview(ctx, now)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(ov.TodayByProduct) != 1 || ov.TodayByProduct[0].Name != "Coffee" || ov.TodayByProduct[0].Revenue != 15.00 {
		t.Fatalf("unexpected today-by-product buckets: %+v", ov.TodayByProduct)
	}
}

func TestOverviewEmptyWindows(t *testing.T) {
	svc := newTestService(t)

	ov, err := svc.Overview(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("overview on empty store: %v", err)
	}
	if ov.TodayRevenue != 0 || ov.Last7Revenue != 0 || ov.MonthRevenue != 0 {
		t.Fatalf("expected zero KPIs, got %+v", ov)
	}
}

func TestReportRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	coffee, _, err := svc.AddProduct(ctx, "Coffee", 5)
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	tea, _, err := svc.AddProduct(ctx, "Tea", 3)
	if err != nil {
		t.Fatalf("add product: %v", err)
	}

	d1 := time.Date(2026, 8, 10, 9, 0, 0, 0, time.Local)
	d2 := time.Date(2026, 8, 11, 9, 0, 0, 0, time.Local)
	d3 := time.Date(2026, 8, 20, 9, 0, 0, 0, time.Local)
	if _, err := svc.AddSale(ctx, coffee.ID, 1, d1); err != nil {
		t.Fatalf("add sale: %v", err)
	}
	if _, err := svc.AddSale(ctx, tea.ID, 2, d2); err != nil {
		t.Fatalf("add sale: %v", err)
	}
	if _, err := svc.AddSale(ctx, coffee.ID, 4, d3); err != nil {
		t.Fatalf("add sale: %v", err)
	}

	report, err := svc.ReportRange(ctx, d1, d2)
	if err != nil {
		t.Fatalf("report range: %v", err)
	}
	if report.Total != 11 {
		t.Fatalf("total = %v, want 11", report.Total)
	}
	if len(report.ByDay) != 2 || len(report.ByProduct) != 2 {
		t.Fatalf("unexpected buckets: %+v", report)
	}
}
