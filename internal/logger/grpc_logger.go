package logger

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var allowedMD = map[string]bool{
	"content-type":  true,
	"user-agent":    true,
	"x-trace-id":    true,
	"x-request-id":  true,
	"traceparent":   true,
	"authorization": true,
}

func MetadataAttrs(md metadata.MD) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(md))
	for k, vs := range md {
		lower := strings.ToLower(k)
		if !allowedMD[lower] {
			continue
		}
		v := strings.Join(vs, ", ")
		if lower == "authorization" {
			v = "***"
		}
		attrs = append(attrs, slog.String("grpc.header."+lower, v))
	}
	return attrs
}

// methodAttrs splits "/product.v1.ProductService/ReduceStock" into service and method.
func methodAttrs(fullMethod, direction string) []slog.Attr {
	svc, method := "", strings.TrimPrefix(fullMethod, "/")
	if i := strings.LastIndex(method, "/"); i >= 0 {
		svc, method = method[:i], method[i+1:]
	}
	return []slog.Attr{
		slog.String("grpc.direction", direction),
		slog.String("grpc.service", svc),
		slog.String("grpc.method", method),
	}
}

// msgAttrs flattens a message through protojson, so a structpb.Struct logs
// as its fields. Nil messages contribute nothing.
func msgAttrs(prefix string, m any) []slog.Attr {
	if m == nil {
		return nil
	}
	pm, ok := m.(proto.Message)
	if !ok {
		return []slog.Attr{slog.String(prefix, fmt.Sprintf("%v", m))}
	}
	if !pm.ProtoReflect().IsValid() {
		return nil
	}
	b, err := protojson.Marshal(pm)
	if err != nil {
		return []slog.Attr{slog.String(prefix+".error", err.Error())}
	}
	return jsonAttrsWithPrefix(prefix, b)
}

func LogGRPCRequest(fullMethod string, md metadata.MD, req any, direction string) []slog.Attr {
	attrs := methodAttrs(fullMethod, direction)
	attrs = append(attrs, MetadataAttrs(md)...)
	return append(attrs, msgAttrs("grpc.request", req)...)
}

// LogGRPCResponse records the status derived from err and, on success, the response.
func LogGRPCResponse(fullMethod string, resp any, err error, duration time.Duration, direction string) []slog.Attr {
	st := status.Convert(err)
	attrs := methodAttrs(fullMethod, direction)
	attrs = append(attrs,
		slog.String("grpc.code", st.Code().String()),
		slog.Int64("grpc.duration_ms", duration.Milliseconds()),
	)
	if err != nil {
		return append(attrs, slog.String("grpc.error", st.Message()))
	}
	return append(attrs, msgAttrs("grpc.response", resp)...)
}
