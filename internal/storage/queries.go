package storage

import (
	"context"
	"database/sql"
	"time"

	"vendas/internal/core"
)

// Queries wraps the parameterized SQL statements over the two tables.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

const insertProduct = `
INSERT OR IGNORE INTO products (name, price) VALUES (?, ?)
`

func (q *Queries) InsertProduct(ctx context.Context, name string, price float64) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertProduct, name, price)
}

const getProduct = `
SELECT id, name, price FROM products WHERE id = ?
`

func (q *Queries) GetProduct(ctx context.Context, id int64) (core.Product, error) {
	var p core.Product
	err := q.db.QueryRowContext(ctx, getProduct, id).Scan(&p.ID, &p.Name, &p.Price)
	return p, err
}

const getProductByName = `
SELECT id, name, price FROM products WHERE name = ?
`

func (q *Queries) GetProductByName(ctx context.Context, name string) (core.Product, error) {
	var p core.Product
	err := q.db.QueryRowContext(ctx, getProductByName, name).Scan(&p.ID, &p.Name, &p.Price)
	return p, err
}

const updateProductPrice = `
UPDATE products SET price = ? WHERE id = ?
`

func (q *Queries) UpdateProductPrice(ctx context.Context, id int64, price float64) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateProductPrice, price, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteProduct = `
DELETE FROM products WHERE id = ?
`

func (q *Queries) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listProducts = `
SELECT id, name, price FROM products ORDER BY name
`

func (q *Queries) ListProducts(ctx context.Context) ([]core.Product, error) {
	rows, err := q.db.QueryContext(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Product
	for rows.Next() {
		var p core.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const insertSale = `
INSERT INTO sales (product_id, qty, sold_at) VALUES (?, ?, ?)
`

func (q *Queries) InsertSale(ctx context.Context, productID, qty int64, soldAt time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertSale, productID, qty, soldAt.Format(core.TimeLayout))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listSales = `
SELECT s.id, s.product_id, p.name, p.price, s.qty, s.sold_at
FROM sales s
JOIN products p ON p.id = s.product_id
ORDER BY s.sold_at DESC, s.id DESC
`

func (q *Queries) ListSales(ctx context.Context) ([]core.SaleRow, error) {
	rows, err := q.db.QueryContext(ctx, listSales)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.SaleRow
	for rows.Next() {
		r, err := scanSaleRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const getSaleRow = `
SELECT s.id, s.product_id, p.name, p.price, s.qty, s.sold_at
FROM sales s
JOIN products p ON p.id = s.product_id
WHERE s.id = ?
`

func (q *Queries) GetSaleRow(ctx context.Context, id int64) (core.SaleRow, error) {
	return scanSaleRow(q.db.QueryRowContext(ctx, getSaleRow, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSaleRow(s rowScanner) (core.SaleRow, error) {
	var (
		r      core.SaleRow
		soldAt string
	)
	if err := s.Scan(&r.ID, &r.ProductID, &r.Product, &r.Price, &r.Qty, &soldAt); err != nil {
		return core.SaleRow{}, err
	}
	t, err := time.ParseInLocation(core.TimeLayout, soldAt, time.Local)
	if err != nil {
		return core.SaleRow{}, err
	}
	r.SoldAt = t
	return r, nil
}
