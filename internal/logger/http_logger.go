package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// MaxBodyLogged bounds how much of a body is buffered for logging.
const MaxBodyLogged = 1 << 20

// maxTextLogged bounds plain-text bodies such as http.Error messages.
const maxTextLogged = 512

var allowedHeaders = map[string]bool{
	"content-type":   true,
	"user-agent":     true,
	"content-length": true,
	"x-trace-id":     true,
	"x-request-id":   true,
	"traceparent":    true,
	"authorization":  true,
	"set-cookie":     true,
}

var sensitiveKeys = []string{"password", "secret", "token"}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// CaptureBody reads r.Body up to MaxBodyLogged bytes and puts a copy back.
func CaptureBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyLogged))
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func HeaderAttrs(hdr http.Header) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(hdr))
	for name, values := range hdr {
		lower := strings.ToLower(name)
		if !allowedHeaders[lower] {
			continue
		}
		v := strings.Join(values, ", ")
		if lower == "authorization" || lower == "set-cookie" {
			v = "***"
		}
		attrs = append(attrs, slog.String("http.header."+lower, v))
	}
	return attrs
}

func QueryAttrs(q url.Values) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(q))
	for key, values := range q {
		if len(values) == 0 {
			continue
		}
		v := strings.Join(values, ",")
		if isSensitive(key) {
			v = "***"
		}
		attrs = append(attrs, slog.String("http.query."+key, v))
	}
	return attrs
}

// DecodeBody turns a body into http.body.* attributes. JSON is flattened,
// text is truncated and anything else is reported by size.
func DecodeBody(contentType string, body []byte) []slog.Attr {
	if len(body) == 0 {
		return nil
	}

	ct, _, _ := mime.ParseMediaType(contentType)
	switch {
	case ct == "application/json":
		return jsonAttrsWithPrefix("http.body", body)
	case strings.HasPrefix(ct, "text/"):
		text := strings.TrimSpace(string(body))
		if len(text) > maxTextLogged {
			text = text[:maxTextLogged] + "..."
		}
		return []slog.Attr{slog.String("http.body", text)}
	default:
		return []slog.Attr{
			slog.String("http.body.content_type", ct),
			slog.Int("http.body.size_bytes", len(body)),
		}
	}
}

func jsonAttrsWithPrefix(prefix string, b []byte) []slog.Attr {
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return []slog.Attr{slog.String(prefix, string(b))}
	}
	attrs := make([]slog.Attr, 0, 8)
	flattenJSON(prefix, data, &attrs)
	return attrs
}

// flattenJSON walks objects fully; arrays contribute their length plus first
// and last element, which keeps a product listing to a handful of attributes.
func flattenJSON(prefix string, v any, dst *[]slog.Attr) {
	switch t := v.(type) {
	case map[string]any:
		for k, v2 := range t {
			if isSensitive(k) {
				*dst = append(*dst, slog.String(prefix+"."+k, "***"))
				continue
			}
			flattenJSON(prefix+"."+k, v2, dst)
		}
	case []any:
		*dst = append(*dst, slog.Int(prefix+".len", len(t)))
		if len(t) == 0 {
			return
		}
		flattenJSON(prefix+".0", t[0], dst)
		if n := len(t); n > 1 {
			flattenJSON(prefix+"."+strconv.Itoa(n-1), t[n-1], dst)
		}
	case string:
		*dst = append(*dst, slog.String(prefix, t))
	case float64:
		*dst = append(*dst, slog.Float64(prefix, t))
	case bool:
		*dst = append(*dst, slog.Bool(prefix, t))
	case nil:
	default:
		*dst = append(*dst, slog.String(prefix, fmt.Sprintf("%v", t)))
	}
}

func requestLine(r *http.Request, direction string) []slog.Attr {
	return []slog.Attr{
		slog.String("http.direction", direction),
		slog.String("http.remote_addr", r.RemoteAddr),
		slog.String("http.method", r.Method),
		slog.String("http.path", r.URL.Path),
	}
}

// LogHTTPRequest builds attributes for a request. The body is read and restored.
func LogHTTPRequest(r *http.Request, direction string) []slog.Attr {
	attrs := requestLine(r, direction)
	attrs = append(attrs, HeaderAttrs(r.Header)...)
	attrs = append(attrs, QueryAttrs(r.URL.Query())...)

	body, err := CaptureBody(r)
	if err != nil {
		return append(attrs, slog.String("http.body.error", err.Error()))
	}
	return append(attrs, DecodeBody(r.Header.Get("Content-Type"), body)...)
}

// LogHTTPResponse builds attributes for a response whose body was buffered by the caller.
func LogHTTPResponse(req *http.Request, header http.Header, status int, body []byte, durationMs int64, direction string) []slog.Attr {
	attrs := requestLine(req, direction)
	attrs = append(attrs,
		slog.Int("http.status", status),
		slog.Int64("duration_ms", durationMs),
	)
	attrs = append(attrs, HeaderAttrs(header)...)
	return append(attrs, DecodeBody(header.Get("Content-Type"), body)...)
}
