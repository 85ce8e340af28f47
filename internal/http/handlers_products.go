package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"vendas/internal/core"
)

type productView struct {
	ID    int64
	Name  string
	Price string
}

type productsPage struct {
	Products []productView
	Message  string
	Error    string
}

// handleProducts serves the product list on GET and registers a new
// product on POST. A duplicate name is not an error: the existing
// product is kept and the user is told so.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderProducts(w, r, "", "", http.StatusOK)
	case http.MethodPost:
		s.createProduct(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderProducts(w http.ResponseWriter, r *http.Request, message, errMsg string, status int) {
	products, err := s.app.ListProducts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List products error", "error", err)
		http.Error(w, "erro ao listar produtos", http.StatusInternalServerError)
		return
	}

	page := productsPage{Message: message, Error: errMsg}
	for _, p := range products {
		page.Products = append(page.Products, productView{
			ID:    p.ID,
			Name:  p.Name,
			Price: formatBRL(p.Price),
		})
	}
	s.renderTemplate(w, r, "products.html", page, status)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		s.renderProducts(w, r, "", "formato de requisição inválido", http.StatusBadRequest)
		return
	}

	name := sanitizeInput(r.Form.Get("name"))
	price, err := core.ParsePrice(r.Form.Get("price"))
	if err != nil {
		s.renderProducts(w, r, "", "preço inválido", http.StatusUnprocessableEntity)
		return
	}

	product, created, err := s.app.AddProduct(r.Context(), name, price)
	switch {
	case errors.Is(err, core.ErrEmptyName):
		s.renderProducts(w, r, "", "o nome do produto é obrigatório", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrNegativePrice):
		s.renderProducts(w, r, "", "o preço não pode ser negativo", http.StatusUnprocessableEntity)
	case err != nil:
		slog.ErrorContext(r.Context(), "Add product error", "error", err, "product", name)
		http.Error(w, "erro ao salvar o produto", http.StatusInternalServerError)
	case !created:
		s.renderProducts(w, r, "produto já cadastrado: "+product.Name, "", http.StatusOK)
	default:
		s.renderProducts(w, r, "produto cadastrado: "+product.Name, "", http.StatusOK)
	}
}

// handleUpdatePrice changes the price of an existing product.
func (s *Server) handleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderProducts(w, r, "", "formato de requisição inválido", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil {
		s.renderProducts(w, r, "", "produto inválido", http.StatusUnprocessableEntity)
		return
	}
	price, err := core.ParsePrice(r.Form.Get("price"))
	if err != nil {
		s.renderProducts(w, r, "", "preço inválido", http.StatusUnprocessableEntity)
		return
	}

	if err := s.app.UpdateProductPrice(r.Context(), id, price); err != nil {
		if errors.Is(err, core.ErrNegativePrice) {
			s.renderProducts(w, r, "", "o preço não pode ser negativo", http.StatusUnprocessableEntity)
			return
		}
		slog.ErrorContext(r.Context(), "Update price error", "error", err, "product_id", id)
		http.Error(w, "erro ao atualizar o preço", http.StatusInternalServerError)
		return
	}
	s.renderProducts(w, r, "preço atualizado", "", http.StatusOK)
}

// handleDeleteProduct removes a product and, by cascade, its sales.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderProducts(w, r, "", "formato de requisição inválido", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil {
		s.renderProducts(w, r, "", "produto inválido", http.StatusUnprocessableEntity)
		return
	}

	// Deleting an unknown id is an idempotent no-op at the store.
	if err := s.app.DeleteProduct(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete product error", "error", err, "product_id", id)
		http.Error(w, "erro ao remover o produto", http.StatusInternalServerError)
		return
	}
	s.renderProducts(w, r, "produto removido", "", http.StatusOK)
}
