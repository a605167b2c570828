package http

import (
	"net/http"

	middleware_http "product-stock/internal/middleware/http"
	"product-stock/internal/metrics"
)

func methods(handlers map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.Method]
		if !ok {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// NewRouter wires every route behind the tracing middleware.
func NewRouter(products *ProductHandler, health *HealthHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"data": "hello-world"})
	})

	mux.HandleFunc("/products", methods(map[string]http.HandlerFunc{
		http.MethodGet: products.GetAll,
	}))
	mux.HandleFunc("/product", methods(map[string]http.HandlerFunc{
		http.MethodGet:    products.GetByID,
		http.MethodPost:   products.Create,
		http.MethodDelete: products.Delete,
	}))
	mux.HandleFunc("/product/reduce-stock", methods(map[string]http.HandlerFunc{
		http.MethodPost: products.ReduceStock,
	}))
	mux.HandleFunc("/product/discount", methods(map[string]http.HandlerFunc{
		http.MethodGet: products.Discount,
	}))
	mux.HandleFunc("/healthz", methods(map[string]http.HandlerFunc{
		http.MethodGet: health.Check,
	}))
	mux.Handle("/metrics", metrics.Handler())

	return middleware_http.TraceMiddleware(mux)
}
