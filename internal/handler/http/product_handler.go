package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"product-stock/internal/logger"
	"product-stock/internal/model"
	"product-stock/internal/repository"
	"product-stock/internal/service"

	"go.opentelemetry.io/otel"
)

type ProductHandler struct {
	service *service.ProductService
}

type CreateProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type ReduceStockRequest struct {
	Quantity int `json:"quantity"`
}

type ReduceStockResponse struct {
	Success bool `json:"success"`
	Stock   int  `json:"stock"`
}

type DiscountResponse struct {
	Price           float64 `json:"price"`
	Percentage      float64 `json:"percentage"`
	DiscountedPrice float64 `json:"discounted_price"`
}

var HttpProductHandlerTracer = otel.Tracer("HttpProductHandler")

func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, model.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrProductNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func requireID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "ID is required", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

// listQuery reads q, skip and limit. Absent numbers are zero; the store
// applies defaults and caps.
func listQuery(r *http.Request) (model.ListQuery, error) {
	values := r.URL.Query()
	q := model.ListQuery{Search: values.Get("q")}
	for key, dst := range map[string]*int{"skip": &q.Skip, "limit": &q.Limit} {
		raw := values.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("%s must be an integer", key)
		}
		*dst = n
	}
	return q, nil
}

func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.GetAll")
	defer span.End()

	q, err := listQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	products, err := h.service.GetAll(ctx, q)
	if err != nil {
		logger.Error(ctx, "Failed to fetch products", slog.String("error", err.Error()))
		http.Error(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.GetByID")
	defer span.End()

	id, ok := requireID(w, r)
	if !ok {
		return
	}
	product, err := h.service.GetByID(ctx, id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Create")
	defer span.End()

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(ctx, req.Name, req.Price, req.Stock)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Delete")
	defer span.End()

	id, ok := requireID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, id); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// ReduceStock answers 200 for both outcomes; "success" carries the result.
func (h *ProductHandler) ReduceStock(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.ReduceStock")
	defer span.End()

	id, ok := requireID(w, r)
	if !ok {
		return
	}

	var req ReduceStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	success, product, err := h.service.ReduceStock(ctx, id, req.Quantity)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, ReduceStockResponse{Success: success, Stock: product.Stock})
}

func (h *ProductHandler) Discount(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Discount")
	defer span.End()

	id, ok := requireID(w, r)
	if !ok {
		return
	}

	percentage, err := strconv.ParseFloat(r.URL.Query().Get("percentage"), 64)
	if err != nil || math.IsNaN(percentage) {
		http.Error(w, "percentage must be a number", http.StatusBadRequest)
		return
	}

	product, discounted, err := h.service.CalculateDiscount(ctx, id, percentage)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, DiscountResponse{
		Price:           product.Price,
		Percentage:      percentage,
		DiscountedPrice: discounted,
	})
}
