package middleware_grpc

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"product-stock/internal/logger"
	"product-stock/internal/metrics"
	"product-stock/internal/telemetry"
)

const (
	TraceIDTrailer = "x-trace-id"
	RequestIDKey   = "x-request-id"
)

var tracer = otel.Tracer("GrpcMiddleware")

// UnaryTracingInterceptor continues the caller's trace, logs both sides of the
// call and returns the trace id in the x-trace-id trailer.
func UnaryTracingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		start := time.Now()

		ctx, md := telemetry.ExtractIncoming(ctx)
		ctx, span := tracer.Start(ctx, info.FullMethod, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		if ids := md.Get(RequestIDKey); len(ids) > 0 {
			ctx = logger.WithRequestID(ctx, ids[0])
		}

		attrs := logger.LogGRPCRequest(info.FullMethod, md, req, "incoming")
		if p, ok := peer.FromContext(ctx); ok {
			attrs = append(attrs, slog.String("grpc.remote", p.Addr.String()))
		}
		logger.Info(ctx, "GrpcMiddleware", attrs...)

		_ = grpc.SetTrailer(ctx, metadata.Pairs(TraceIDTrailer, span.SpanContext().TraceID().String()))

		resp, err := handler(ctx, req)

		elapsed := time.Since(start)
		respAttrs := logger.LogGRPCResponse(info.FullMethod, resp, err, elapsed, "incoming")
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			logger.Warn(ctx, "GrpcMiddleware", respAttrs...)
		} else {
			span.SetStatus(otelcodes.Ok, "")
			logger.Info(ctx, "GrpcMiddleware", respAttrs...)
		}
		metrics.ObserveGRPC(info.FullMethod, status.Code(err).String(), elapsed)
		return resp, err
	}
}

// UnaryClientInterceptor injects the current trace context and request id
// into outgoing metadata.
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		ctx, span := tracer.Start(ctx, method, trace.WithSpanKind(trace.SpanKindClient))
		defer span.End()

		var kv []string
		if id := logger.RequestID(ctx); id != "" {
			kv = append(kv, RequestIDKey, id)
		}
		ctx, md := telemetry.InjectOutgoing(ctx, kv...)

		start := time.Now()
		logger.Info(ctx, "GrpcClient", logger.LogGRPCRequest(method, md, req, "outgoing")...)

		err := invoker(ctx, method, req, reply, cc, opts...)

		respAttrs := logger.LogGRPCResponse(method, reply, err, time.Since(start), "outgoing")
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			logger.Warn(ctx, "GrpcClient", respAttrs...)
			return err
		}
		logger.Info(ctx, "GrpcClient", respAttrs...)
		return nil
	}
}
