package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"product-stock/internal/utils"

	"go.opentelemetry.io/otel/trace"
)

var (
	instance *slog.Logger
	once     sync.Once
	output   io.Writer = os.Stdout
	level    slog.LevelVar
)

type requestIDKey struct{}

func Instance() *slog.Logger {
	once.Do(func() {
		instance = slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{
			Level: &level,
		}))
	})

	return instance
}

// SetLevel accepts debug, info, warn or error; anything else keeps info.
func SetLevel(name string) {
	switch strings.ToLower(name) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}
}

// WithRequestID stores the caller's request id so every record logged with ctx carries it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Stock groups the fields of a stock reduction attempt under "product".
func Stock(id string, quantity, stock int) slog.Attr {
	return slog.Group("product",
		slog.String("id", id),
		slog.Int("quantity", quantity),
		slog.Int("stock", stock),
	)
}

func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	write(ctx, slog.LevelDebug, msg, attrs)
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	write(ctx, slog.LevelInfo, msg, attrs)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	write(ctx, slog.LevelWarn, msg, attrs)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	write(ctx, slog.LevelError, msg, attrs)
}

func write(ctx context.Context, lvl slog.Level, msg string, attrs []slog.Attr) {
	if !Instance().Enabled(context.Background(), lvl) {
		return
	}
	attrs = enrich(ctx, attrs...)
	Instance().LogAttrs(context.Background(), lvl, msg, attrs...)
	sendLog(strings.ToLower(lvl.String()), msg, attrs)
}

// enrich appends request and trace correlation fields found in ctx.
func enrich(ctx context.Context, attrs ...slog.Attr) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	if id := RequestID(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
			slog.String("hostname", utils.GetHost()),
		)
	}
	return attrs
}
