package http

import (
	"net/http"

	"product-stock/internal/logger"
	"product-stock/internal/service"

	"go.opentelemetry.io/otel"
)

type HealthHandler struct {
	service *service.HealthService
}

var HttpHealthHandlerTracer = otel.Tracer("HttpHealthHandler")

func NewHealthHandler(service *service.HealthService) *HealthHandler {
	return &HealthHandler{
		service: service,
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpHealthHandlerTracer.Start(r.Context(), "HttpHealthHandler.Check")
	defer span.End()
	logger.Info(ctx, "HttpHealthHandler")

	status := h.service.Check(ctx)

	code := http.StatusOK
	overall := service.StatusUp
	if status.Store == service.StatusDown {
		overall = service.StatusDown
		code = http.StatusInternalServerError
	}

	writeJSON(w, code, map[string]interface{}{
		"status": overall,
		"data": map[string]string{
			"store": status.Store,
		},
	})
}
