// Package app assembles the dashboard's adapters from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	bqadapter "github.com/couchcryptid/facility-dashboard/internal/adapter/bigquery"
	"github.com/couchcryptid/facility-dashboard/internal/adapter/cache"
	"github.com/couchcryptid/facility-dashboard/internal/adapter/fixture"
	kafkaadapter "github.com/couchcryptid/facility-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/facility-dashboard/internal/adapter/mapbox"
	"github.com/couchcryptid/facility-dashboard/internal/adapter/postgres"
	"github.com/couchcryptid/facility-dashboard/internal/config"
	"github.com/couchcryptid/facility-dashboard/internal/domain"
	"github.com/couchcryptid/facility-dashboard/internal/observability"
)

// Loader is a warehouse loader that can name its query.
type Loader interface {
	Load(ctx context.Context) (domain.Dataset, error)
	Query() string
}

// Closer releases whatever a constructor opened. It is never nil.
type Closer func()

// OpenLoader builds the configured warehouse loader, wrapped in the dataset
// cache when CACHE_TTL is set.
func OpenLoader(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (Loader, Closer, error) {
	base, closeBase, err := openWarehouse(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.CacheTTL <= 0 {
		return base, closeBase, nil
	}

	switch cfg.CacheBackend {
	case config.CacheRedis:
		client, err := cache.OpenRedis(cfg.RedisURL)
		if err != nil {
			closeBase()
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if perr := client.Ping(pingCtx).Err(); perr != nil {
			logger.Warn("redis unreachable, cache will fall through to the warehouse", "error", perr)
		}
		cancel()
		logger.Info("dataset cache enabled", "backend", config.CacheRedis, "ttl", cfg.CacheTTL)
		loader := cache.NewLoader(base, cache.NewRedisStore(client, cfg.CacheTTL), logger, metrics)
		return loader, func() {
			if err := client.Close(); err != nil {
				logger.Error("redis close error", "error", err)
			}
			closeBase()
		}, nil
	default:
		logger.Info("dataset cache enabled", "backend", config.CacheMemory, "ttl", cfg.CacheTTL, "size", cfg.CacheSize)
		store := cache.NewMemoryStore(cfg.CacheSize, cfg.CacheTTL, nil)
		return cache.NewLoader(base, store, logger, metrics), closeBase, nil
	}
}

func openWarehouse(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Loader, Closer, error) {
	noop := func() {}
	switch cfg.WarehouseDriver {
	case config.DriverBigQuery:
		creds, err := cfg.ServiceAccount()
		if err != nil {
			err = fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
		} else {
			var l *bqadapter.Loader
			if l, err = bqadapter.NewLoader(cfg.BigQueryProject, cfg.BigQueryTable, creds, logger); err == nil {
				return l, noop, nil
			}
		}
		if !errors.Is(err, domain.ErrAuthentication) {
			return nil, nil, err
		}
		// Credential problems surface on every render pass, not at startup.
		logger.Error("bigquery credentials unusable", "error", err)
		return unavailable{err: err, query: "bigquery:" + cfg.BigQueryTable}, noop, nil
	case config.DriverPostgres:
		l, err := postgres.NewLoader(ctx, cfg.PostgresURL, cfg.PostgresTable, logger)
		if err != nil {
			return nil, nil, err
		}
		return l, l.Close, nil
	case config.DriverFixture:
		return fixture.NewLoader(cfg.FixturePath, logger), noop, nil
	default:
		return nil, nil, errors.New("unknown warehouse driver " + cfg.WarehouseDriver)
	}
}

// Geocoder returns the cached Mapbox geocoder, or nil when Mapbox is off.
func Geocoder(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) domain.Geocoder {
	if !cfg.MapboxEnabled {
		logger.Info("mapbox geocoding disabled")
		return nil
	}
	client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
	logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout, "place", cfg.MapCenterPlace)
	return mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, 24*time.Hour, nil, metrics)
}

// Publisher returns the Kafka render summary publisher, or nil when no
// brokers are configured.
func Publisher(cfg *config.Config, logger *slog.Logger) *kafkaadapter.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}
	logger.Info("render events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaRenderTopic)
	return kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaRenderTopic, logger)
}

// unavailable is a loader that always fails with the same error.
type unavailable struct {
	err   error
	query string
}

func (u unavailable) Load(context.Context) (domain.Dataset, error) { return domain.Dataset{}, u.err }

func (u unavailable) Query() string { return u.query }
