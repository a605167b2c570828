package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"product-stock/internal/logger"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	TraceOTLP   = "otlp"
	TraceStdout = "stdout"
	TraceNone   = "none"
)

var ErrMissingEnv = errors.New("missing required environment variables")

type Config struct {
	AppPort                string
	AppName                string
	Env                    string
	LogLevel               string
	StoreDriver            string
	ClientMaxSleepMs       int64
	MongoURI               string
	MongoDBName            string
	ExternalGRPC           string
	ExternalHTTP           string
	TraceExporter          string
	RemoteLogHttpURI       string
	RemoteTraceRpcURI      string
	RemoteProfilingHttpURI string
}

// SafeConfig is what gets logged: no credentials.
type SafeConfig struct {
	AppPort                string `json:"app_port"`
	AppName                string `json:"app_name"`
	Env                    string `json:"env"`
	LogLevel               string `json:"log_level"`
	StoreDriver            string `json:"store_driver"`
	ClientMaxSleepMs       int64  `json:"client_max_sleep_ms"`
	MongoDBName            string `json:"mongo_db_name"`
	ExternalGRPC           string `json:"external_grpc"`
	ExternalHTTP           string `json:"external_http"`
	TraceExporter          string `json:"trace_exporter"`
	RemoteLogHttpURI       string `json:"remote_log_http_uri"`
	RemoteTraceRpcURI      string `json:"remote_trace_rpc_uri"`
	RemoteProfilingHttpURI string `json:"remote_profiling_http_uri"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) ToSafeConfig() SafeConfig {
	return SafeConfig{
		AppPort:                c.AppPort,
		AppName:                c.AppName,
		Env:                    c.Env,
		LogLevel:               c.LogLevel,
		StoreDriver:            c.StoreDriver,
		ClientMaxSleepMs:       c.ClientMaxSleepMs,
		MongoDBName:            c.MongoDBName,
		ExternalGRPC:           c.ExternalGRPC,
		ExternalHTTP:           c.ExternalHTTP,
		TraceExporter:          c.TraceExporter,
		RemoteLogHttpURI:       c.RemoteLogHttpURI,
		RemoteTraceRpcURI:      c.RemoteTraceRpcURI,
		RemoteProfilingHttpURI: c.RemoteProfilingHttpURI,
	}
}

func toSnake(s string) string {
	var out strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && s[i-1] != '_' {
				out.WriteRune('_')
			}
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// StructAttrs("data", cfg) ➜ []slog.Attr{ slog.String("data.app_port", "3001"), ... }
func StructAttrs(prefix string, s any) []slog.Attr {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	attrs := make([]slog.Attr, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		key := prefix + "." + jsonKey(t.Field(i))

		switch v.Field(i).Kind() {
		case reflect.String:
			attrs = append(attrs, slog.String(key, v.Field(i).String()))
		case reflect.Int, reflect.Int64, reflect.Int32:
			attrs = append(attrs, slog.Int64(key, v.Field(i).Int()))
		default:
			attrs = append(attrs, slog.Any(key, v.Field(i).Interface()))
		}
	}
	return attrs
}

func jsonKey(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return toSnake(f.Name)
}

var log = logger.Instance()
var (
	configInstance *Config
	configOnce     sync.Once
)

func getInt64(varName string, fallback int64) int64 {
	val := os.Getenv(varName)
	if val == "" {
		return fallback
	}

	num, err := strconv.ParseInt(val, 10, 64)
	if err != nil || num <= 0 {
		log.Warn("Invalid integer; using fallback",
			slog.String("var", varName),
			slog.String("value", val),
			slog.Int64("fallback", fallback),
		)
		return fallback
	}
	return num
}

func getString(varName, fallback string) string {
	if val := os.Getenv(varName); val != "" {
		return val
	}
	return fallback
}

// Load reads .env (if present) and the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}

	cfg := &Config{
		AppPort:                os.Getenv("APP_PORT"),
		AppName:                os.Getenv("APP_NAME"),
		Env:                    os.Getenv("ENV"),
		LogLevel:               strings.ToLower(getString("LOG_LEVEL", "info")),
		StoreDriver:            strings.ToLower(getString("STORE_DRIVER", StoreMongo)),
		ClientMaxSleepMs:       getInt64("CLIENT_MAX_SLEEP_MS", 1000),
		MongoURI:               os.Getenv("MONGO_URI"),
		MongoDBName:            os.Getenv("MONGO_DB_NAME"),
		ExternalGRPC:           os.Getenv("EXTERNAL_GRPC"),
		ExternalHTTP:           os.Getenv("EXTERNAL_HTTP"),
		RemoteLogHttpURI:       os.Getenv("REMOTE_LOG_HTTP_URI"),
		RemoteTraceRpcURI:      os.Getenv("REMOTE_TRACE_RPC_URI"),
		RemoteProfilingHttpURI: os.Getenv("REMOTE_PROFILING_HTTP_URI"),
	}

	cfg.TraceExporter = strings.ToLower(os.Getenv("TRACE_EXPORTER"))
	if cfg.TraceExporter == "" {
		cfg.TraceExporter = TraceStdout
		if cfg.RemoteTraceRpcURI != "" {
			cfg.TraceExporter = TraceOTLP
		}
	}

	var missing []string
	if cfg.AppPort == "" {
		missing = append(missing, "APP_PORT")
	}
	if cfg.AppName == "" {
		missing = append(missing, "APP_NAME")
	}
	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
		if cfg.MongoDBName == "" {
			missing = append(missing, "MONGO_DB_NAME")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.TraceExporter == TraceOTLP && cfg.RemoteTraceRpcURI == "" {
		missing = append(missing, "REMOTE_TRACE_RPC_URI")
	}
	switch cfg.TraceExporter {
	case TraceOTLP, TraceStdout, TraceNone:
	default:
		return nil, fmt.Errorf("unknown TRACE_EXPORTER %q", cfg.TraceExporter)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}
	return cfg, nil
}

// Instance loads the configuration once and exits the process when it is invalid.
func Instance() *Config {
	configOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			log.Error("Invalid configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}

		if cfg.RemoteLogHttpURI == "" {
			log.Warn("Missing REMOTE_LOG_HTTP_URI will skip sending log")
		}
		if cfg.RemoteProfilingHttpURI == "" {
			log.Warn("Missing REMOTE_PROFILING_HTTP_URI will skip sending profiling")
		}
		logger.SetRemote(cfg.RemoteLogHttpURI, cfg.AppName)
		logger.SetLevel(cfg.LogLevel)

		attrs := StructAttrs("data", cfg.ToSafeConfig())
		anyAttrs := make([]any, len(attrs))
		for i, a := range attrs {
			anyAttrs[i] = a
		}
		log.Info("Configuration loaded successfully", anyAttrs...)

		configInstance = cfg
	})

	return configInstance
}
