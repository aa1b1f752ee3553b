// Package cache decorates a dataset loader with a time-bounded cache keyed
// by the loader's query text.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
	"github.com/couchcryptid/facility-dashboard/internal/observability"
)

const keyPrefix = "facility-dashboard:dataset:"

// QueryLoader is a dataset loader that can name the query it runs.
type QueryLoader interface {
	Load(ctx context.Context) (domain.Dataset, error)
	Query() string
}

// Loader serves datasets from a Store and falls through to the inner loader
// on a miss. Failed loads are never stored. A failing store degrades to a
// direct load.
type Loader struct {
	inner   QueryLoader
	store   Store
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader wraps inner with store.
func NewLoader(inner QueryLoader, store Store, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{inner: inner, store: store, logger: logger, metrics: metrics}
}

// Query passes through the inner loader's query.
func (l *Loader) Query() string { return l.inner.Query() }

func (l *Loader) Load(ctx context.Context) (domain.Dataset, error) {
	key := Key(l.inner.Query())
	backend := l.store.Name()

	ds, ok, err := l.store.Get(ctx, key)
	switch {
	case err != nil:
		l.metrics.CacheLookups.WithLabelValues(backend, "error").Inc()
		l.logger.Warn("dataset cache read failed, loading directly", "backend", backend, "error", err)
	case ok:
		l.metrics.CacheLookups.WithLabelValues(backend, "hit").Inc()
		return ds, nil
	default:
		l.metrics.CacheLookups.WithLabelValues(backend, "miss").Inc()
	}

	ds, err = l.inner.Load(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}
	if err := l.store.Set(ctx, key, ds); err != nil {
		l.logger.Warn("dataset cache write failed", "backend", backend, "error", err)
	}
	return ds, nil
}

// Key derives the store key for a query.
func Key(query string) string {
	sum := sha256.Sum256([]byte(query))
	return keyPrefix + hex.EncodeToString(sum[:])
}
