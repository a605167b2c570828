package config

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_PORT", "3001")
	t.Setenv("APP_NAME", "product-stock")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_DB_NAME", "")
	t.Setenv("TRACE_EXPORTER", "")
	t.Setenv("REMOTE_TRACE_RPC_URI", "")
	t.Setenv("CLIENT_MAX_SLEEP_MS", "")
	t.Setenv("LOG_LEVEL", "")
}

func TestLoadMemoryDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppPort != "3001" || cfg.AppName != "product-stock" {
		t.Errorf("unexpected app settings: %+v", cfg)
	}
	if cfg.StoreDriver != StoreMemory {
		t.Errorf("expected memory driver, got %s", cfg.StoreDriver)
	}
	if cfg.ClientMaxSleepMs != 1000 {
		t.Errorf("expected default sleep 1000, got %d", cfg.ClientMaxSleepMs)
	}
	if cfg.TraceExporter != TraceStdout {
		t.Errorf("expected stdout exporter, got %s", cfg.TraceExporter)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected info log level, got %s", cfg.LogLevel)
	}
}

func TestLoadMongoRequiresURI(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	if !errors.Is(err, ErrMissingEnv) {
		t.Fatalf("expected ErrMissingEnv, got %v", err)
	}
	if !strings.Contains(err.Error(), "MONGO_URI") || !strings.Contains(err.Error(), "MONGO_DB_NAME") {
		t.Errorf("expected mongo variables in error, got %v", err)
	}
}

func TestLoadMissingAppSettings(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_PORT", "")
	t.Setenv("APP_NAME", "")

	_, err := Load()
	if !errors.Is(err, ErrMissingEnv) {
		t.Fatalf("expected ErrMissingEnv, got %v", err)
	}
}

func TestLoadUnknownDriver(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_DRIVER", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadTraceExporter(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REMOTE_TRACE_RPC_URI", "tempo:4317")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TraceExporter != TraceOTLP {
		t.Errorf("expected otlp exporter when a trace endpoint is set, got %s", cfg.TraceExporter)
	}

	t.Setenv("REMOTE_TRACE_RPC_URI", "")
	t.Setenv("TRACE_EXPORTER", "otlp")
	if _, err := Load(); !errors.Is(err, ErrMissingEnv) {
		t.Errorf("expected missing trace endpoint, got %v", err)
	}
}

func TestLoadInvalidSleepFallsBack(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CLIENT_MAX_SLEEP_MS", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ClientMaxSleepMs != 1000 {
		t.Errorf("expected fallback 1000, got %d", cfg.ClientMaxSleepMs)
	}

	t.Setenv("CLIENT_MAX_SLEEP_MS", "250")
	cfg, _ = Load()
	if cfg.ClientMaxSleepMs != 250 {
		t.Errorf("expected 250, got %d", cfg.ClientMaxSleepMs)
	}
}

func TestStructAttrsUsesJSONKeys(t *testing.T) {
	cfg := &Config{AppPort: "3001", MongoURI: "mongodb://user:secret@db", ClientMaxSleepMs: 10}
	attrs := StructAttrs("data", cfg.ToSafeConfig())

	keys := map[string]slog.Value{}
	for _, a := range attrs {
		keys[a.Key] = a.Value
	}
	if keys["data.app_port"].String() != "3001" {
		t.Errorf("expected data.app_port, got %v", keys)
	}
	if keys["data.client_max_sleep_ms"].Int64() != 10 {
		t.Errorf("expected data.client_max_sleep_ms")
	}
	for _, a := range attrs {
		if strings.Contains(a.Value.String(), "secret") {
			t.Fatalf("credentials leaked into %s", a.Key)
		}
	}
}

func TestToSnake(t *testing.T) {
	if got := toSnake("ClientMaxSleepMs"); got != "client_max_sleep_ms" {
		t.Errorf("unexpected snake case: %s", got)
	}
	if got := toSnake("AppPort"); got != "app_port" {
		t.Errorf("unexpected snake case: %s", got)
	}
}
