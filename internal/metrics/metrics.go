package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	GRPCRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grpc_requests_total",
			Help: "Total number of unary gRPC calls",
		},
		[]string{"method", "code"},
	)
	GRPCRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grpc_request_duration_seconds",
			Help:    "Unary gRPC call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	StockReductions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_stock_reductions_total",
			Help: "Stock reduction attempts by outcome",
		},
		[]string{"result"},
	)
	DiscountRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_discount_requests_total",
			Help: "Discount calculations by outcome",
		},
		[]string{"result"},
	)
)

// NormalizePath keeps label cardinality bounded: "/product/discount" -> "product/discount".
func NormalizePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "root"
	}
	parts := strings.SplitN(p, "/", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, "/")
}

// Observe records one finished HTTP request.
func Observe(method, path string, status int, elapsed time.Duration) {
	if path == "/metrics" {
		return
	}
	np := NormalizePath(path)
	RequestTotal.WithLabelValues(method, np, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, np).Observe(elapsed.Seconds())
}

// ObserveGRPC records one finished unary call; method is the full method name.
func ObserveGRPC(method, code string, elapsed time.Duration) {
	GRPCRequestTotal.WithLabelValues(method, code).Inc()
	GRPCRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
