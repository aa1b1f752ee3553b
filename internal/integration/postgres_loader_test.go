//go:build integration

package integration_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/facility-dashboard/internal/adapter/postgres"
	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

func seedFacilities(ctx context.Context, t *testing.T, url string) {
	t.Helper()
	conn, err := pgx.Connect(ctx, url)
	require.NoError(t, err)
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, `CREATE TABLE facilities (
		facilityid    text,
		latitude_dec  double precision,
		longitude_dec double precision,
		elevationft   numeric(8,1),
		activeflag    smallint
	)`)
	require.NoError(t, err)

	_, err = conn.Exec(ctx, `INSERT INTO facilities VALUES
		('1', 37.3301, -121.8801, 100.0, 1),
		('2', 37.3402, -121.8902, 250.5, 0),
		('3', 37.3503, -121.9003, 410.0, NULL)`)
	require.NoError(t, err)
}

func TestPostgresLoader(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	url := startPostgres(ctx, t)
	seedFacilities(ctx, t, url)

	loader, err := postgres.NewLoader(ctx, url, "facilities", discardLogger())
	require.NoError(t, err)
	defer loader.Close()

	require.NoError(t, loader.Ping(ctx))

	ds, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	assert.Equal(t, domain.Facility{ID: "1", Lat: 37.3301, Lon: -121.8801, ElevationFt: 100, ActiveFlag: 1}, ds.Records[0])
	assert.InDelta(t, 250.5, ds.Records[1].ElevationFt, 1e-9)
	assert.Equal(t, 0, ds.Records[2].ActiveFlag, "null flag becomes 0")
	assert.Equal(t, domain.ElevationRange{Min: 100, Max: 410}, ds.Bounds())
}

func TestPostgresLoader_MissingTable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	loader, err := postgres.NewLoader(ctx, startPostgres(ctx, t), "no_such_table", discardLogger())
	require.NoError(t, err)
	defer loader.Close()

	_, err = loader.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrQuery)
}

func TestPostgresLoader_BadPassword(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	url := strings.Replace(startPostgres(ctx, t), "dashboard:dashboard@", "dashboard:wrong@", 1)

	loader, err := postgres.NewLoader(ctx, url, "facilities", discardLogger())
	require.NoError(t, err)
	defer loader.Close()

	_, err = loader.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}
