package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vendas/internal/core"
	"vendas/internal/storage"
)

type saleView struct {
	ID      int64
	Product string
	Qty     int64
	Price   string
	Revenue string
	SoldAt  string
}

type salesPage struct {
	Sales    []saleView
	Products []productView
	Message  string
	Error    string
}

// handleSales serves the sale history on GET and records a sale on
// POST. The history comes back most recent first and each row carries
// the revenue at the product's current price.
func (s *Server) handleSales(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderSales(w, r, "", "", http.StatusOK)
	case http.MethodPost:
		s.createSale(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderSales(w http.ResponseWriter, r *http.Request, message, errMsg string, status int) {
	sales, err := s.app.ListSales(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List sales error", "error", err)
		http.Error(w, "erro ao listar vendas", http.StatusInternalServerError)
		return
	}
	products, err := s.app.ListProducts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List products error", "error", err)
		http.Error(w, "erro ao listar produtos", http.StatusInternalServerError)
		return
	}

	page := salesPage{Message: message, Error: errMsg}
	for _, row := range sales {
		page.Sales = append(page.Sales, saleView{
			ID:      row.ID,
			Product: row.Product,
			Qty:     row.Qty,
			Price:   formatBRL(row.Price),
			Revenue: formatBRL(row.Revenue),
			SoldAt:  row.SoldAt.Format("02/01/2006 15:04"),
		})
	}
	for _, p := range products {
		page.Products = append(page.Products, productView{
			ID:    p.ID,
			Name:  p.Name,
			Price: formatBRL(p.Price),
		})
	}
	s.renderTemplate(w, r, "sales.html", page, status)
}

func (s *Server) createSale(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		s.renderSales(w, r, "", "formato de requisição inválido", http.StatusBadRequest)
		return
	}

	productID, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("product_id")), 10, 64)
	if err != nil {
		s.renderSales(w, r, "", "produto inválido", http.StatusUnprocessableEntity)
		return
	}
	qty, err := core.ParseQuantity(r.Form.Get("qty"))
	if err != nil {
		s.renderSales(w, r, "", "quantidade inválida", http.StatusUnprocessableEntity)
		return
	}
	soldAt, err := parseSoldAt(r.Form.Get("sold_at"), time.Now())
	if err != nil {
		s.renderSales(w, r, "", "data da venda inválida", http.StatusUnprocessableEntity)
		return
	}

	_, err = s.app.AddSale(r.Context(), productID, qty, soldAt)
	switch {
	case errors.Is(err, core.ErrInvalidQuantity):
		s.renderSales(w, r, "", "a quantidade deve ser positiva", http.StatusUnprocessableEntity)
	case errors.Is(err, storage.ErrProductNotFound), errors.Is(err, core.ErrInvalidProduct):
		s.renderSales(w, r, "", "produto não encontrado", http.StatusUnprocessableEntity)
	case err != nil:
		slog.ErrorContext(r.Context(), "Add sale error", "error", err, "product_id", productID, "qty", qty)
		http.Error(w, "erro ao registrar a venda", http.StatusInternalServerError)
	default:
		s.renderSales(w, r, "venda registrada", "", http.StatusOK)
	}
}
