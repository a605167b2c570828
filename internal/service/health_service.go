package service

import (
	"context"
	"time"

	"product-stock/internal/logger"

	"go.opentelemetry.io/otel"
)

const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	store Pinger
}

type HealthStatus struct {
	Store string
}

var HealthServiceTracer = otel.Tracer("HealthService")

func NewHealthService(store Pinger) *HealthService {
	return &HealthService{
		store: store,
	}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	ctx, span := HealthServiceTracer.Start(ctx, "HealthService.Check")
	defer span.End()
	logger.Info(ctx, "Service")

	status := HealthStatus{Store: StatusUp}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.store.Ping(pingCtx); err != nil {
		status.Store = StatusDown
	}

	return status
}
