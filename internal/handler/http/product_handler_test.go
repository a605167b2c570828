package http

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"product-stock/internal/model"
	"product-stock/internal/repository"
	"product-stock/internal/service"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	repo := repository.NewMemoryProductRepository()
	svc := service.NewProductService(repo)
	router := NewRouter(NewProductHandler(svc), NewHealthHandler(service.NewHealthService(repo)))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/product", "application/json",
		strings.NewReader(`{"name":"Laptop","price":1000,"stock":10}`))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.ProductRecord
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return srv, created.ID.Hex()
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func reduce(t *testing.T, srv *httptest.Server, id, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/product/reduce-stock?id="+id, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	return resp
}

func TestGetProduct(t *testing.T) {
	srv, id := newTestServer(t)

	resp, err := http.Get(srv.URL + "/product?id=" + id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Trace-ID") == "" || resp.Header.Get("X-Request-ID") == "" {
		t.Errorf("expected trace and request id headers")
	}
	got := decode[model.ProductRecord](t, resp)
	if got.Name != "Laptop" || got.Price != 1000 || got.Stock != 10 {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestGetProductErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	for path, want := range map[string]int{
		"/product":                             http.StatusBadRequest,
		"/product?id=nope":                     http.StatusBadRequest,
		"/product?id=5f43a1b2c3d4e5f601234567": http.StatusNotFound,
		"/unknown":                             http.StatusNotFound,
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("%s: expected %d, got %d", path, want, resp.StatusCode)
		}
	}
}

func TestListProducts(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/products")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := decode[[]model.ProductRecord](t, resp)
	if len(got) != 1 {
		t.Fatalf("expected one product, got %d", len(got))
	}
}

func TestListProductsSearchAndPaging(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, body := range []string{
		`{"name":"Gaming LAPTOP","price":1500,"stock":2}`,
		`{"name":"Mouse","price":25,"stock":30}`,
	} {
		resp, err := http.Post(srv.URL+"/product", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		resp.Body.Close()
	}

	for _, tt := range []struct {
		query string
		want  []string
	}{
		{"?q=laptop", []string{"Laptop", "Gaming LAPTOP"}},
		{"?q=mou", []string{"Mouse"}},
		{"?q=keyboard", nil},
		{"?skip=1&limit=1", []string{"Gaming LAPTOP"}},
		{"?skip=5", nil},
		{"?limit=1000", []string{"Laptop", "Gaming LAPTOP", "Mouse"}},
	} {
		resp, err := http.Get(srv.URL + "/products" + tt.query)
		if err != nil {
			t.Fatalf("list %s: %v", tt.query, err)
		}
		got := decode[[]model.ProductRecord](t, resp)
		if len(got) != len(tt.want) {
			t.Errorf("%s: expected %v, got %+v", tt.query, tt.want, got)
			continue
		}
		for i, name := range tt.want {
			if got[i].Name != name {
				t.Errorf("%s: position %d expected %s, got %s", tt.query, i, name, got[i].Name)
			}
		}
	}

	for _, query := range []string{"?skip=x", "?limit=1.5"} {
		resp, err := http.Get(srv.URL + "/products" + query)
		if err != nil {
			t.Fatalf("list %s: %v", query, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", query, resp.StatusCode)
		}
	}
}

func TestReduceStockEndpoint(t *testing.T) {
	srv, id := newTestServer(t)

	got := decode[ReduceStockResponse](t, reduce(t, srv, id, `{"quantity":5}`))
	if !got.Success || got.Stock != 5 {
		t.Fatalf("expected success with stock 5, got %+v", got)
	}

	got = decode[ReduceStockResponse](t, reduce(t, srv, id, `{"quantity":-1}`))
	if got.Success || got.Stock != 5 {
		t.Fatalf("expected rejection with stock 5, got %+v", got)
	}

	got = decode[ReduceStockResponse](t, reduce(t, srv, id, `{"quantity":15}`))
	if got.Success || got.Stock != 5 {
		t.Fatalf("expected rejection with stock 5, got %+v", got)
	}

	resp := reduce(t, srv, id, `not json`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad payload, got %d", resp.StatusCode)
	}
}

func TestDiscountEndpoint(t *testing.T) {
	srv, id := newTestServer(t)

	resp, err := http.Get(srv.URL + "/product/discount?id=" + id + "&percentage=10")
	if err != nil {
		t.Fatalf("discount: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	got := decode[DiscountResponse](t, resp)
	if math.Abs(got.DiscountedPrice-900) > 0.001 || got.Price != 1000 || got.Percentage != 10 {
		t.Fatalf("unexpected discount: %+v", got)
	}

	for _, pct := range []string{"-10", "110", "abc", "NaN"} {
		resp, err := http.Get(srv.URL + "/product/discount?id=" + id + "&percentage=" + pct)
		if err != nil {
			t.Fatalf("discount: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("percentage %s: expected 400, got %d", pct, resp.StatusCode)
		}
	}
}

func TestDeleteProduct(t *testing.T) {
	srv, id := newTestServer(t)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/product?id="+id, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, _ = http.DefaultClient.Do(req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/product", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	health := decode[map[string]any](t, resp)
	if health["status"] != "UP" {
		t.Fatalf("unexpected health: %v", health)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	buf := new(strings.Builder)
	_, _ = io.Copy(buf, resp.Body)
	if !strings.Contains(buf.String(), "http_requests_total") {
		t.Fatalf("expected request counter in exposition")
	}
}
