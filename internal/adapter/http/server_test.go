package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/facility-dashboard/internal/adapter/http"
	"github.com/couchcryptid/facility-dashboard/internal/dashboard"
	"github.com/couchcryptid/facility-dashboard/internal/domain"
	"github.com/couchcryptid/facility-dashboard/internal/observability"
)

// --- mocks ---

type staticLoader struct {
	ds  domain.Dataset
	err error
}

func (l staticLoader) Load(context.Context) (domain.Dataset, error) { return l.ds, l.err }

// recordingRenderer runs a real render pass and remembers the last input.
type recordingRenderer struct {
	svc   *dashboard.Service
	last  dashboard.FilterInput
	calls int
}

func (r *recordingRenderer) Render(ctx context.Context, in dashboard.FilterInput) (dashboard.Page, error) {
	r.calls++
	r.last = in
	return r.svc.Render(ctx, in)
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scenarioDataset() domain.Dataset {
	return domain.Dataset{Records: []domain.Facility{
		{ID: "1", Lat: 37.33, Lon: -121.88, ActiveFlag: 1, ElevationFt: 100},
		{ID: "2", Lat: 37.34, Lon: -121.89, ActiveFlag: 0, ElevationFt: 200},
		{ID: "3", Lat: 37.35, Lon: -121.90, ActiveFlag: 1, ElevationFt: 150},
	}}
}

func newTestServer(loader staticLoader, readyErr error) (*httpadapter.Server, *recordingRenderer) {
	svc := dashboard.New(loader, dashboard.Options{Driver: "fixture"}, discardLogger(), observability.NewMetricsForTesting())
	rr := &recordingRenderer{svc: svc}
	return httpadapter.NewServer(":0", rr, &mockReadiness{err: readyErr}, discardLogger()), rr
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// --- dashboard page ---

func TestDashboardPage(t *testing.T) {
	srv, rr := newTestServer(staticLoader{ds: scenarioDataset()}, nil)

	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Facilities Data Dashboard")
	assert.Contains(t, body, "Map View")
	assert.Contains(t, body, "Elevation Distribution")
	assert.Contains(t, body, "Active vs Inactive Facilities")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "Facility ID: 3, Elevation: 150 ft")
	assert.Contains(t, body, `name="submitted"`)
	assert.False(t, rr.last.FlagsSet, "first visit selects every flag")
}

func TestDashboardPage_FilterParams(t *testing.T) {
	srv, rr := newTestServer(staticLoader{ds: scenarioDataset()}, nil)

	rec := get(t, srv, "/?submitted=1&active=1&min_elev=120&max_elev=160")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, rr.last.FlagsSet)
	assert.Equal(t, []int{1}, rr.last.Flags)
	require.NotNil(t, rr.last.Min)
	require.NotNil(t, rr.last.Max)
	assert.Equal(t, 120.0, *rr.last.Min)
	assert.Equal(t, 160.0, *rr.last.Max)
	assert.NotContains(t, rec.Body.String(), "Facility ID: 1,")
}

func TestDashboardPage_EmptySelection(t *testing.T) {
	srv, rr := newTestServer(staticLoader{ds: scenarioDataset()}, nil)

	rec := get(t, srv, "/?submitted=1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, rr.last.FlagsSet)
	assert.Empty(t, rr.last.Flags)
	assert.NotContains(t, rec.Body.String(), "Facility ID:")
}

func TestDashboardPage_BadInput(t *testing.T) {
	tests := []string{
		"/?min_elev=abc",
		"/?max_elev=NaN",
		"/?active=yes",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			srv, rr := newTestServer(staticLoader{ds: scenarioDataset()}, nil)

			rec := get(t, srv, target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid filter")
			assert.Zero(t, rr.calls)
		})
	}
}

func TestDashboardPage_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		heading string
	}{
		{"authentication", fmt.Errorf("%w: no credentials", domain.ErrAuthentication), http.StatusBadGateway, "Could not authenticate"},
		{"query", fmt.Errorf("%w: table not found", domain.ErrQuery), http.StatusBadGateway, "The facility query failed"},
		{"data shape", &domain.SchemaError{Row: 4, Column: domain.ColumnLatitude, Reason: "null value"}, http.StatusInternalServerError, "unexpected shape"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(staticLoader{err: tt.err}, nil)

			rec := get(t, srv, "/")

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, rec.Body.String(), tt.heading)
		})
	}
}

func TestDashboardPage_MarkerTextIsNotMarkup(t *testing.T) {
	ds := domain.Dataset{Records: []domain.Facility{
		{ID: `<img src=x onerror=alert(1)>`, Lat: 37.33, Lon: -121.88, ActiveFlag: 1, ElevationFt: 100},
	}}
	srv, _ := newTestServer(staticLoader{ds: ds}, nil)

	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<img src=x")
	assert.Contains(t, body, `\u003cimg src=x onerror=alert(1)\u003e`, "marker JSON is escaped in the script")
	assert.Contains(t, body, "el.textContent = s")
	assert.NotContains(t, body, ".bindPopup(m.popup)")
}

func TestDashboardPage_EmptyDataset(t *testing.T) {
	srv, _ := newTestServer(staticLoader{ds: domain.Dataset{}}, nil)

	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No flags in the dataset")
}

// --- JSON and chart endpoints ---

func TestFacilitiesAPI(t *testing.T) {
	srv, _ := newTestServer(staticLoader{ds: scenarioDataset()}, nil)

	rec := get(t, srv, "/api/facilities?active=1&min_elev=120&max_elev=160")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		PassID   string                `json:"pass_id"`
		Criteria domain.FilterCriteria `json:"criteria"`
		Total    int                   `json:"total"`
		Count    int                   `json:"count"`
		Records  []domain.Facility     `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.PassID)
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Records, 1)
	assert.Equal(t, "3", body.Records[0].ID)
	assert.Equal(t, []int{1}, body.Criteria.AcceptedFlags)
}

func TestFacilitiesAPI_Error(t *testing.T) {
	srv, _ := newTestServer(staticLoader{err: domain.ErrQuery}, nil)

	rec := get(t, srv, "/api/facilities")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "query", body["kind"])
}

func TestViewsAPI(t *testing.T) {
	srv, _ := newTestServer(staticLoader{ds: scenarioDataset()}, nil)

	rec := get(t, srv, "/api/views")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Map struct {
			Markers []map[string]any `json:"markers"`
		} `json:"map"`
		Histogram struct {
			Total int `json:"total"`
		} `json:"histogram"`
		BarChart struct {
			Bars []struct {
				Flag  int `json:"flag"`
				Count int `json:"count"`
			} `json:"bars"`
		} `json:"bar_chart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Map.Markers, 3)
	assert.Equal(t, 3, body.Histogram.Total)
	require.Len(t, body.BarChart.Bars, 2)
	assert.Equal(t, 1, body.BarChart.Bars[0].Count)
	assert.Equal(t, 2, body.BarChart.Bars[1].Count)
}

func TestChartEndpoints(t *testing.T) {
	srv, _ := newTestServer(staticLoader{ds: scenarioDataset()}, nil)

	for _, target := range []string{"/charts/elevation.svg", "/charts/active.svg", "/charts/active.svg?submitted=1"} {
		rec := get(t, srv, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "<svg")
	}
}

// --- health, readiness, metrics ---

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(staticLoader{}, nil)
	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz").Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv, _ := newTestServer(staticLoader{}, nil)
	assert.Equal(t, http.StatusOK, get(t, srv, "/readyz").Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(staticLoader{}, fmt.Errorf("not ready yet"))
	assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, "/readyz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(staticLoader{}, nil)

	rec := get(t, srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(staticLoader{}, nil)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/nope").Code)
}
