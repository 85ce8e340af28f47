package core

import (
	"errors"
	"strings"
	"time"
)

// TimeLayout is the sortable textual form used for sale timestamps,
// both in storage and on the wire.
const TimeLayout = "2006-01-02T15:04:05"

type (
	Product struct {
		ID    int64
		Name  string
		Price float64
	}

	Sale struct {
		ID        int64
		ProductID int64
		Qty       int64
		SoldAt    time.Time
	}

	// SaleRow is a sale joined with its product's current name and
	// price. Revenue is derived at query time, never stored.
	SaleRow struct {
		ID        int64
		ProductID int64
		Product   string
		Price     float64
		Qty       int64
		SoldAt    time.Time
		Revenue   float64
	}
)

var (
	ErrEmptyName       = errors.New("empty product name")
	ErrNegativePrice   = errors.New("negative price")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrZeroTimestamp   = errors.New("sale timestamp cannot be zero")
	ErrInvalidProduct  = errors.New("invalid product id")
)

// NormalizeName trims surrounding whitespace from a product name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func (p Product) Validate() error {
	if NormalizeName(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

func (s Sale) Validate() error {
	if s.ProductID <= 0 {
		return ErrInvalidProduct
	}
	if s.Qty <= 0 {
		return ErrInvalidQuantity
	}
	if s.SoldAt.IsZero() {
		return ErrZeroTimestamp
	}
	return nil
}

// AttachRevenue fills the derived Revenue column of each row
// (qty times the product's current price) and returns the slice.
func AttachRevenue(rows []SaleRow) []SaleRow {
	for i := range rows {
		rows[i].Revenue = float64(rows[i].Qty) * rows[i].Price
	}
	return rows
}
