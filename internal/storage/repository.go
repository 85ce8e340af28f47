// Package storage owns the SQLite persistence layer: schema
// migrations, the parameterized statements over the products and
// sales tables, and translation of driver-level constraint errors
// into the domain error taxonomy.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"vendas/internal/core"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrProductNotFound covers sales that reference a nonexistent
	// product (foreign key violation at the store).
	ErrProductNotFound = errors.New("referenced product does not exist")

	// ErrConstraintViolation covers store-level CHECK failures
	// (non-positive quantity, negative price).
	ErrConstraintViolation = errors.New("constraint violation")
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AddProduct inserts a product with a trimmed name. A duplicate name
// is a silent no-op: the existing row is returned unchanged, with the
// price it was first inserted with. The second return value reports
// whether a new row was created.
func (r *SQLiteRepository) AddProduct(ctx context.Context, name string, price float64) (core.Product, bool, error) {
	name = core.NormalizeName(name)

	res, err := r.queries.InsertProduct(ctx, name, price)
	if err != nil {
		return core.Product{}, false, translateError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return core.Product{}, false, fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		existing, err := r.queries.GetProductByName(ctx, name)
		if err != nil {
			return core.Product{}, false, fmt.Errorf("fetch existing product: %w", err)
		}
		slog.InfoContext(ctx, "Duplicate product ignored",
			"name", name,
			"id", existing.ID,
			"stored_price", existing.Price)
		return existing, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Product{}, false, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Product saved", "id", id, "name", name, "price", price)
	return core.Product{ID: id, Name: name, Price: price}, true, nil
}

// UpdateProductPrice overwrites the price for an existing product id.
// An unknown id is a no-op (zero rows updated).
func (r *SQLiteRepository) UpdateProductPrice(ctx context.Context, id int64, price float64) error {
	affected, err := r.queries.UpdateProductPrice(ctx, id, price)
	if err != nil {
		return translateError(err)
	}
	if affected == 0 {
		slog.WarnContext(ctx, "Price update matched no product", "id", id)
		return nil
	}
	slog.InfoContext(ctx, "Product price updated", "id", id, "price", price)
	return nil
}

// DeleteProduct removes a product; the store cascades deletion of its
// sales.
func (r *SQLiteRepository) DeleteProduct(ctx context.Context, id int64) error {
	affected, err := r.queries.DeleteProduct(ctx, id)
	if err != nil {
		return translateError(err)
	}
	slog.InfoContext(ctx, "Product deleted", "id", id, "found", affected > 0)
	return nil
}

// AddSale inserts a sale row. The referenced product must exist and
// qty must be positive; both are enforced by the store and translated
// to domain errors here.
func (r *SQLiteRepository) AddSale(ctx context.Context, productID, qty int64, soldAt time.Time) (core.Sale, error) {
	id, err := r.queries.InsertSale(ctx, productID, qty, soldAt)
	if err != nil {
		return core.Sale{}, translateError(err)
	}

	slog.InfoContext(ctx, "Sale saved",
		"id", id,
		"product_id", productID,
		"qty", qty,
		"sold_at", soldAt.Format(core.TimeLayout))

	return core.Sale{ID: id, ProductID: productID, Qty: qty, SoldAt: soldAt}, nil
}

// ListProducts returns all products ordered by name ascending.
func (r *SQLiteRepository) ListProducts(ctx context.Context) ([]core.Product, error) {
	products, err := r.queries.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListSales returns all sales joined with their product's current
// name and price, most recent first, with the revenue column
// computed. Revenue reflects the price at query time.
func (r *SQLiteRepository) ListSales(ctx context.Context) ([]core.SaleRow, error) {
	rows, err := r.queries.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return core.AttachRevenue(rows), nil
}

// GetSaleRow returns a single joined sale row by id.
func (r *SQLiteRepository) GetSaleRow(ctx context.Context, id int64) (core.SaleRow, error) {
	row, err := r.queries.GetSaleRow(ctx, id)
	if err != nil {
		return core.SaleRow{}, fmt.Errorf("get sale %d: %w", id, err)
	}
	rows := core.AttachRevenue([]core.SaleRow{row})
	return rows[0], nil
}

// translateError maps driver-level constraint errors onto the domain
// taxonomy so callers never see raw sqlite errors.
func translateError(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %v", ErrProductNotFound, err)
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
	}
	return err
}
