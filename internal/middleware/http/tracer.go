package middleware_http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"product-stock/internal/logger"
	"product-stock/internal/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

const RequestIDHeader = "X-Request-ID"

var tracer = otel.Tracer("HttpMiddleware")

// ResponseWriter captures status, size and body (up to logger.MaxBodyLogged).
type ResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int64
	wroteHeader bool
	buf         bytes.Buffer
}

func (rw *ResponseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)

	if rw.buf.Len() < logger.MaxBodyLogged {
		toCopy := logger.MaxBodyLogged - rw.buf.Len()
		if len(b) < toCopy {
			toCopy = len(b)
		}
		rw.buf.Write(b[:toCopy])
	}
	return n, err
}

// TraceMiddleware starts a span per request (continuing an incoming W3C
// trace), tags the response with X-Trace-ID and X-Request-ID, logs request
// and response, and records Prometheus request metrics.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path)
		defer func() {
			if rec := recover(); rec != nil {
				span.RecordError(fmt.Errorf("panic: %v", rec))
				span.SetStatus(codes.Error, "panic occurred")
				span.End()
				panic(rec)
			}
			span.End()
		}()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set(RequestIDHeader, requestID)
		}
		span.SetAttributes(attribute.String("http.request_id", requestID))
		ctx = logger.WithRequestID(ctx, requestID)

		r = r.WithContext(ctx)
		logger.Info(ctx, "HTTP", logger.LogHTTPRequest(r, "incoming::request")...)

		rw := &ResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		rw.Header().Set("X-Trace-ID", span.SpanContext().TraceID().String())
		rw.Header().Set(RequestIDHeader, requestID)

		start := time.Now()
		next.ServeHTTP(rw, r)
		duration := time.Since(start)

		switch {
		case rw.statusCode >= 500:
			span.SetStatus(codes.Error, "internal server error")
		case rw.statusCode >= 400:
			span.SetStatus(codes.Error, "client error")
		default:
			span.SetStatus(codes.Ok, "")
		}

		metrics.Observe(r.Method, r.URL.Path, rw.statusCode, duration)

		attrs := logger.LogHTTPResponse(r, rw.Header(), rw.statusCode, rw.buf.Bytes(), duration.Milliseconds(), "incoming::response")
		logger.Info(ctx, "HTTP", attrs...)
	})
}
