package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
	"github.com/couchcryptid/facility-dashboard/internal/observability"
)

// --- fakes ---

type countingLoader struct {
	ds    domain.Dataset
	err   error
	calls int
}

func (c *countingLoader) Load(context.Context) (domain.Dataset, error) {
	c.calls++
	return c.ds, c.err
}

func (c *countingLoader) Query() string { return "SELECT * FROM `p.d.t`" }

type brokenStore struct {
	sets int
}

func (b *brokenStore) Get(context.Context, string) (domain.Dataset, bool, error) {
	return domain.Dataset{}, false, errors.New("connection refused")
}

func (b *brokenStore) Set(context.Context, string, domain.Dataset) error {
	b.sets++
	return errors.New("connection refused")
}

func (b *brokenStore) Name() string { return "broken" }

func sample() domain.Dataset {
	return domain.Dataset{Records: []domain.Facility{{ID: "1", ActiveFlag: 1, ElevationFt: 100}}}
}

func newLoader(inner QueryLoader, store Store) *Loader {
	return NewLoader(inner, store, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

// --- tests ---

func TestLoader_HitAfterMiss(t *testing.T) {
	inner := &countingLoader{ds: sample()}
	l := newLoader(inner, NewMemoryStore(4, time.Minute, clockwork.NewFakeClock()))

	first, err := l.Load(context.Background())
	require.NoError(t, err)
	second, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestLoader_ExpiresAfterTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	inner := &countingLoader{ds: sample()}
	l := newLoader(inner, NewMemoryStore(4, time.Minute, clock))

	_, _ = l.Load(context.Background())
	clock.Advance(59 * time.Second)
	_, _ = l.Load(context.Background())
	assert.Equal(t, 1, inner.calls)

	clock.Advance(2 * time.Second)
	_, _ = l.Load(context.Background())
	assert.Equal(t, 2, inner.calls)
}

func TestLoader_ErrorsAreNotCached(t *testing.T) {
	inner := &countingLoader{err: domain.ErrQuery}
	l := newLoader(inner, NewMemoryStore(4, time.Minute, clockwork.NewFakeClock()))

	_, err := l.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrQuery)

	inner.err = nil
	inner.ds = sample()
	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, 2, inner.calls)
}

func TestLoader_BrokenStoreDegradesToDirectLoad(t *testing.T) {
	inner := &countingLoader{ds: sample()}
	store := &brokenStore{}
	l := newLoader(inner, store)

	for range 2 {
		ds, err := l.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, ds.Len())
	}
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, store.sets)
}

func TestKey(t *testing.T) {
	k := Key("SELECT 1")
	assert.True(t, strings.HasPrefix(k, keyPrefix))
	assert.Len(t, k, len(keyPrefix)+64)
	assert.Equal(t, k, Key("SELECT 1"))
	assert.NotEqual(t, k, Key("SELECT 2"))
}
