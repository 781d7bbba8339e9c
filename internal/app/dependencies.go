package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/checkout"
	"github.com/noah-isme/toko-pricing/internal/config"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/promo"
	"github.com/noah-isme/toko-pricing/internal/ratelimit"
)

// Dependencies enumerates the services shared by the HTTP server.
type Dependencies struct {
	Config          *config.Config
	Logger          zerolog.Logger
	Redis           *redis.Client
	Store           *catalog.Store
	Catalog         *catalog.Catalog
	Promotions      []promo.Promotion
	Quotes          *checkout.Service
	CatalogLimit    *ratelimit.FixedWindow
	MetricsRegistry *prometheus.Registry
	HTTPMetrics     *obs.HTTPMetrics
}

// Build connects Redis when configured, loads the catalog from its configured source
// and prepares the promotion rules.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:          cfg,
		Logger:          logger,
		MetricsRegistry: prometheus.NewRegistry(),
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		deps.Redis = redis.NewClient(opts)
		if cfg.TracingEnabled {
			if err := redisotel.InstrumentTracing(deps.Redis); err != nil {
				logger.Error().Err(err).Msg("instrument redis tracing")
			}
		}
		deps.Store = catalog.NewStore(deps.Redis, cfg.CatalogSnapshotKey, cfg.CatalogSnapshotTTL)
	}

	c, err := deps.loadCatalog(ctx)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Catalog = c
	deps.Promotions = promo.BulkRulesFor(c, cfg.BulkPromoLabel, cfg.BulkPromoExclusive)

	if cfg.CatalogRate != "" {
		store, err := ratelimit.NewStore(deps.Redis, cfg.RateLimitPrefix+"catalog:")
		if err != nil {
			deps.Close()
			return nil, err
		}
		if deps.CatalogLimit, err = ratelimit.NewFixedWindow(store, cfg.CatalogRate); err != nil {
			deps.Close()
			return nil, err
		}
	}

	var pricingMetrics *obs.PricingMetrics
	if cfg.MetricsEnabled {
		deps.MetricsRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		pricingMetrics = obs.NewPricingMetrics(cfg.MetricsNamespace, deps.MetricsRegistry)
		deps.HTTPMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, obs.ParseBucketsCSV(cfg.MetricsBuckets), deps.MetricsRegistry)
	}
	deps.Quotes = checkout.NewService(c, deps.Promotions, pricingMetrics, logger)

	logger.Info().
		Str("source", cfg.CatalogSource).
		Int("products", c.Len()).
		Int("promotions", len(deps.Promotions)).
		Msg("catalog loaded")
	return deps, nil
}

func (d *Dependencies) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	switch d.Config.CatalogSource {
	case config.SourceRedis:
		c, err := d.Store.Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("load catalog from redis: %w", err)
		}
		return c, nil
	default:
		c := catalog.New()
		if err := c.LoadFile(d.Config.CatalogPath); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		return c, nil
	}
}

// CatalogSize implements health.Checker.
func (d *Dependencies) CatalogSize() int {
	return d.Catalog.Len()
}

// PingRedis implements health.Checker. Without Redis configured there is nothing to probe.
func (d *Dependencies) PingRedis(ctx context.Context, timeout time.Duration) error {
	if d.Store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return d.Store.Ping(ctx)
}

// Close releases the Redis client.
func (d *Dependencies) Close() error {
	if d == nil || d.Redis == nil {
		return nil
	}
	if err := d.Redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
