package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vendas/internal/services"
	"vendas/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "vendas.db")
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	svc := services.NewSalesService(repo, nil, 10*time.Second)
	return NewServer(":0", svc)
}

func postForm(t *testing.T, srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := get(t, srv, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestDashboardRenders(t *testing.T) {
	srv := newTestServer(t)
	rr := get(t, srv, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Dashboard de Vendas") {
		t.Fatalf("dashboard body missing heading")
	}
}

func TestDashboardUnknownPathIs404(t *testing.T) {
	srv := newTestServer(t)
	rr := get(t, srv, "/nope")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreateProductFlow(t *testing.T) {
	srv := newTestServer(t)

	rr := postForm(t, srv, "/products", url.Values{"name": {"Café"}, "price": {"5,50"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "produto cadastrado") {
		t.Fatalf("expected success message, got: %s", rr.Body.String())
	}

	// Same name again is kept, not duplicated
	rr = postForm(t, srv, "/products", url.Values{"name": {"Café"}, "price": {"9,99"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("duplicate status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "produto já cadastrado") {
		t.Fatalf("expected duplicate message, got: %s", rr.Body.String())
	}
	// Original price survives
	if !strings.Contains(rr.Body.String(), "R$ 5,50") {
		t.Fatalf("expected original price in listing, got: %s", rr.Body.String())
	}
}

func TestCreateProductValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{"empty name", url.Values{"name": {"   "}, "price": {"1,00"}}},
		{"invalid price", url.Values{"name": {"Pão"}, "price": {"abc"}}},
		{"negative price", url.Values{"name": {"Pão"}, "price": {"-1,00"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postForm(t, srv, "/products", tt.form)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status=%d, want 422", rr.Code)
			}
		})
	}
}

func TestUpdatePriceAndDelete(t *testing.T) {
	srv := newTestServer(t)

	postForm(t, srv, "/products", url.Values{"name": {"Suco"}, "price": {"4,00"}})

	// The seeded product gets id 1 in a fresh database
	rr := postForm(t, srv, "/products/price", url.Values{"id": {"1"}, "price": {"6,00"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("update price status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "R$ 6,00") {
		t.Fatalf("expected updated price, got: %s", rr.Body.String())
	}

	rr = postForm(t, srv, "/products/delete", url.Values{"id": {"1"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Nenhum produto cadastrado") {
		t.Fatalf("expected empty catalog, got: %s", rr.Body.String())
	}
}

func TestDeleteUnknownProductIsNoop(t *testing.T) {
	srv := newTestServer(t)

	postForm(t, srv, "/products", url.Values{"name": {"Suco"}, "price": {"4,00"}})

	rr := postForm(t, srv, "/products/delete", url.Values{"id": {"999"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("delete unknown id status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "produto removido") {
		t.Fatalf("expected no-op confirmation, got: %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Suco") {
		t.Fatalf("existing product should survive, got: %s", rr.Body.String())
	}
}

func TestValidationResponseContentType(t *testing.T) {
	srv := newTestServer(t)

	// The rejected form still renders HTML, so the content type must
	// reach the client despite the non-200 status.
	rr := postForm(t, srv, "/products", url.Values{"name": {"Café"}, "price": {"abc"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	if !strings.Contains(rr.Body.String(), "preço inválido") {
		t.Fatalf("expected validation message, got: %s", rr.Body.String())
	}
}

func TestCreateSaleFlow(t *testing.T) {
	srv := newTestServer(t)

	postForm(t, srv, "/products", url.Values{"name": {"Bolo"}, "price": {"12,00"}})

	rr := postForm(t, srv, "/sales", url.Values{
		"product_id": {"1"},
		"qty":        {"3"},
		"sold_at":    {"2026-08-30T10:30"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("create sale status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "venda registrada") {
		t.Fatalf("expected success message, got: %s", rr.Body.String())
	}
	// Revenue at current price: 3 x 12,00
	if !strings.Contains(rr.Body.String(), "R$ 36,00") {
		t.Fatalf("expected revenue in history, got: %s", rr.Body.String())
	}
}

func TestCreateSaleValidation(t *testing.T) {
	srv := newTestServer(t)

	postForm(t, srv, "/products", url.Values{"name": {"Bolo"}, "price": {"12,00"}})

	tests := []struct {
		name string
		form url.Values
	}{
		{"unknown product", url.Values{"product_id": {"99"}, "qty": {"1"}}},
		{"zero qty", url.Values{"product_id": {"1"}, "qty": {"0"}}},
		{"bad qty", url.Values{"product_id": {"1"}, "qty": {"x"}}},
		{"bad product id", url.Values{"product_id": {"x"}, "qty": {"1"}}},
		{"bad date", url.Values{"product_id": {"1"}, "qty": {"1"}, "sold_at": {"not-a-date"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postForm(t, srv, "/sales", tt.form)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status=%d, want 422", rr.Code)
			}
		})
	}
}

func TestDashboardRangeReport(t *testing.T) {
	srv := newTestServer(t)

	postForm(t, srv, "/products", url.Values{"name": {"Café"}, "price": {"5,00"}})
	postForm(t, srv, "/sales", url.Values{
		"product_id": {"1"},
		"qty":        {"2"},
		"sold_at":    {"2026-08-10T09:00"},
	})

	rr := get(t, srv, "/?start=2026-08-01&end=2026-08-31")
	if rr.Code != http.StatusOK {
		t.Fatalf("range report status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "R$ 10,00") {
		t.Fatalf("expected range total, got: %s", rr.Body.String())
	}
}

func TestDashboardRangeReportInvertedDates(t *testing.T) {
	srv := newTestServer(t)
	rr := get(t, srv, "/?start=2026-08-31&end=2026-08-01")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "a data final deve ser posterior") {
		t.Fatalf("expected validation message, got: %s", rr.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	rr := get(t, srv, "/products/price")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d, want 405", rr.Code)
	}
}
