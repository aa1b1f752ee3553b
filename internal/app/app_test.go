package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/facility-dashboard/internal/adapter/cache"
	"github.com/couchcryptid/facility-dashboard/internal/adapter/fixture"
	"github.com/couchcryptid/facility-dashboard/internal/config"
	"github.com/couchcryptid/facility-dashboard/internal/domain"
	"github.com/couchcryptid/facility-dashboard/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const fixturePath = "../adapter/fixture/testdata/facilities.json"

func TestOpenLoader_Fixture(t *testing.T) {
	cfg := &config.Config{WarehouseDriver: config.DriverFixture, FixturePath: fixturePath}

	l, closeFn, err := OpenLoader(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &fixture.Loader{}, l)
	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
}

func TestOpenLoader_MemoryCache(t *testing.T) {
	cfg := &config.Config{
		WarehouseDriver: config.DriverFixture,
		FixturePath:     fixturePath,
		CacheTTL:        time.Minute,
		CacheBackend:    config.CacheMemory,
		CacheSize:       4,
	}

	l, closeFn, err := OpenLoader(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &cache.Loader{}, l)
	assert.Equal(t, "fixture:"+fixturePath, l.Query())
}

func TestOpenLoader_BigQueryWithoutCredentials(t *testing.T) {
	cfg := &config.Config{
		WarehouseDriver: config.DriverBigQuery,
		BigQueryProject: "p",
		BigQueryTable:   "p.d.t",
	}

	l, closeFn, err := OpenLoader(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err, "credential problems are reported per render pass")
	defer closeFn()

	_, err = l.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestOpenLoader_BigQueryBadTable(t *testing.T) {
	cfg := &config.Config{
		WarehouseDriver:    config.DriverBigQuery,
		BigQueryTable:      "not a table",
		ServiceAccountJSON: []byte(`{"type":"service_account","project_id":"p","private_key":"k","client_email":"e@p"}`),
	}

	_, _, err := OpenLoader(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAuthentication)
}

func TestOpenLoader_UnknownDriver(t *testing.T) {
	_, _, err := OpenLoader(context.Background(), &config.Config{WarehouseDriver: "sqlite"}, discardLogger(), observability.NewMetricsForTesting())
	assert.Error(t, err)
}

func TestOptionalAdapters(t *testing.T) {
	cfg := &config.Config{}
	assert.Nil(t, Geocoder(cfg, discardLogger(), observability.NewMetricsForTesting()))
	assert.Nil(t, Publisher(cfg, discardLogger()))

	cfg = &config.Config{
		MapboxEnabled:    true,
		MapboxToken:      "tok",
		MapboxTimeout:    time.Second,
		MapboxCacheSize:  10,
		KafkaBrokers:     []string{"localhost:9092"},
		KafkaRenderTopic: "dashboard-render-passes",
	}
	assert.NotNil(t, Geocoder(cfg, discardLogger(), observability.NewMetricsForTesting()))
	p := Publisher(cfg, discardLogger())
	require.NotNil(t, p)
	assert.NoError(t, p.Close())
}
