package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Catalog sources.
const (
	SourceFile  = "file"
	SourceRedis = "redis"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	CORSAllowedOrigins []string

	CatalogSource      string
	CatalogPath        string
	RedisURL           string
	CatalogSnapshotKey string
	CatalogSnapshotTTL time.Duration

	BulkPromoLabel     string
	BulkPromoExclusive bool

	SecurityHeaders bool
	EnableHSTS      bool
	MaxBodyBytes    int64
	QuoteRateLimit  int
	QuoteRateWindow time.Duration
	RateLimitPrefix string
	CatalogRate     string

	LogFormat        string
	LogLevel         string
	MetricsNamespace string
	MetricsEnabled   bool
	MetricsBuckets   string
	TracingEnabled   bool
	TracingExporter  string
	OTLPEndpoint     string
	TracingSampling  float64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		CatalogSource:      strings.ToLower(valueOrDefault(k.String("CATALOG_SOURCE"), SourceFile)),
		CatalogPath:        strings.TrimSpace(k.String("CATALOG_PATH")),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CatalogSnapshotKey: valueOrDefault(k.String("CATALOG_SNAPSHOT_KEY"), "catalog:snapshot"),
		CatalogSnapshotTTL: parseDuration(k.String("CATALOG_SNAPSHOT_TTL"), "0s"),
		BulkPromoLabel:     valueOrDefault(k.String("BULK_PROMO_LABEL"), "Bulk discount"),
		BulkPromoExclusive: parseBool(k.String("BULK_PROMO_EXCLUSIVE"), true),
		SecurityHeaders:    parseBool(k.String("SECURITY_HEADERS_ENABLED"), true),
		EnableHSTS:         parseBool(k.String("SECURITY_HSTS_ENABLED"), false),
		MaxBodyBytes:       parseInt64(k.String("HTTP_MAX_BODY_BYTES"), 1<<20),
		QuoteRateLimit:     int(parseInt64(k.String("RATE_LIMIT_QUOTES_MAX"), 0)),
		QuoteRateWindow:    parseDuration(k.String("RATE_LIMIT_QUOTES_WINDOW"), "1m"),
		RateLimitPrefix:    valueOrDefault(k.String("RATE_LIMIT_PREFIX"), "ratelimit:"),
		CatalogRate:        strings.TrimSpace(k.String("RATE_LIMIT_CATALOG")),
		LogFormat:          valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
		LogLevel:           valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
		MetricsNamespace:   valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "toko_pricing"),
		MetricsEnabled:     parseBool(k.String("OBS_ENABLE_PROMETHEUS"), true),
		MetricsBuckets:     k.String("OBS_HTTP_BUCKETS_MS"),
		TracingEnabled:     parseBool(k.String("OBS_ENABLE_TRACING"), false),
		TracingExporter:    valueOrDefault(k.String("OBS_TRACING_EXPORTER"), "otlp"),
		OTLPEndpoint:       strings.TrimSpace(k.String("OBS_OTLP_ENDPOINT")),
		TracingSampling:    parseFloat(k.String("OBS_TRACING_SAMPLING_RATIO"), 1.0),
	}

	switch cfg.CatalogSource {
	case SourceFile:
		if cfg.CatalogPath == "" {
			return nil, errors.New("CATALOG_PATH is required")
		}
	case SourceRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL is required when CATALOG_SOURCE=redis")
		}
	default:
		return nil, fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", SourceFile, SourceRedis, cfg.CatalogSource)
	}

	if cfg.QuoteRateLimit > 0 && cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required when RATE_LIMIT_QUOTES_MAX is set")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseFloat(value string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt64(value string, fallback int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
