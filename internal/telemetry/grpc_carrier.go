package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"google.golang.org/grpc/metadata"
)

// MetadataTextMapCarrier adapts gRPC metadata.MD to an OpenTelemetry TextMapCarrier.
type MetadataTextMapCarrier metadata.MD

func (c MetadataTextMapCarrier) Get(key string) string {
	v := metadata.MD(c).Get(key)
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func (c MetadataTextMapCarrier) Set(key string, value string) {
	metadata.MD(c).Set(key, value)
}

func (c MetadataTextMapCarrier) Keys() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	return out
}

// ExtractIncoming continues the trace carried by the incoming metadata, if any.
func ExtractIncoming(ctx context.Context) (context.Context, metadata.MD) {
	md, _ := metadata.FromIncomingContext(ctx)
	return otel.GetTextMapPropagator().Extract(ctx, MetadataTextMapCarrier(md)), md
}

// InjectOutgoing writes the current trace context into a copy of the outgoing
// metadata, adding extra pairs first.
func InjectOutgoing(ctx context.Context, kv ...string) (context.Context, metadata.MD) {
	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.MD{}
	}
	for i := 0; i+1 < len(kv); i += 2 {
		md.Set(kv[i], kv[i+1])
	}
	otel.GetTextMapPropagator().Inject(ctx, MetadataTextMapCarrier(md))
	return metadata.NewOutgoingContext(ctx, md), md
}
