package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/facility-dashboard/internal/domain"
	"github.com/couchcryptid/facility-dashboard/internal/observability"
	"github.com/couchcryptid/facility-dashboard/internal/view"
)

// Loader pulls the full facility dataset from a warehouse.
type Loader interface {
	Load(ctx context.Context) (domain.Dataset, error)
}

// Publisher emits a summary of each successful render pass.
type Publisher interface {
	Publish(ctx context.Context, summary domain.RenderSummary) error
}

// Options configures a Service. Only Driver is required; the rest have
// usable zero values.
type Options struct {
	Driver       string
	QueryTimeout time.Duration
	Map          view.MapOptions
	CenterPlace  string
	Geocoder     domain.Geocoder
	Publisher    Publisher
	Clock        clockwork.Clock
}

// Page is everything one render pass produces.
type Page struct {
	PassID    string                `json:"pass_id"`
	Criteria  domain.FilterCriteria `json:"criteria"`
	Bounds    domain.ElevationRange `json:"bounds"`
	Flags     []int                 `json:"flags"`
	Total     int                   `json:"total"`
	Filtered  domain.Dataset        `json:"filtered"`
	Map       view.MapView          `json:"map"`
	Histogram view.Histogram        `json:"histogram"`
	BarChart  view.BarChart         `json:"bar_chart"`
	Duration  time.Duration         `json:"duration_ns"`
}

// Service runs render passes: load, filter, build views.
type Service struct {
	loader  Loader
	opts    Options
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Service around loader.
func New(loader Loader, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.Map.Center == (domain.Coordinate{}) {
		opts.Map.Center = view.DefaultCenter
	}
	return &Service{
		loader:  loader,
		opts:    opts,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a render pass has loaded data, or an error
// describing why the service is not yet ready.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no render pass has loaded data yet")
	}
	return nil
}

// Render executes one render pass for the given UI state. Any load failure
// aborts the pass; there is no retry and no partial page.
func (s *Service) Render(ctx context.Context, in FilterInput) (Page, error) {
	start := s.clock.Now()
	passID := uuid.NewString()

	ds, err := s.load(ctx)
	if err != nil {
		s.metrics.RenderPasses.WithLabelValues("error").Inc()
		s.logger.Error("render pass failed", "pass_id", passID, "error", err, "kind", domain.ErrorKind(err))
		return Page{}, err
	}
	s.ready.Store(true)
	s.metrics.DatasetRows.Set(float64(ds.Len()))

	criteria := ResolveCriteria(ds, in)
	filtered := domain.Filter(ds, criteria)
	s.metrics.FilteredRows.Set(float64(filtered.Len()))

	mapOpts := s.opts.Map
	mapOpts.Center, mapOpts.CenterSource = domain.ResolveCenter(ctx, s.opts.Geocoder, s.opts.CenterPlace, s.opts.Map.Center, s.logger)

	page := Page{
		PassID:    passID,
		Criteria:  criteria,
		Bounds:    ds.Bounds(),
		Flags:     ds.DistinctFlags(),
		Total:     ds.Len(),
		Filtered:  filtered,
		Map:       view.BuildMap(filtered, mapOpts),
		Histogram: view.BuildHistogram(filtered),
		BarChart:  view.BuildBarChart(filtered),
	}
	page.Duration = s.clock.Since(start)

	s.metrics.RenderPasses.WithLabelValues("success").Inc()
	s.metrics.RenderDuration.Observe(page.Duration.Seconds())
	s.logger.Info("render pass complete",
		"pass_id", passID,
		"total", page.Total,
		"filtered", filtered.Len(),
		"duration", page.Duration,
	)

	s.publish(ctx, page)
	return page, nil
}

func (s *Service) load(ctx context.Context) (domain.Dataset, error) {
	if s.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.QueryTimeout)
		defer cancel()
	}

	start := s.clock.Now()
	ds, err := s.loader.Load(ctx)
	s.metrics.LoadDuration.WithLabelValues(s.opts.Driver).Observe(s.clock.Since(start).Seconds())
	if err != nil {
		s.metrics.LoadErrors.WithLabelValues(domain.ErrorKind(err)).Inc()
		return domain.Dataset{}, fmt.Errorf("load dataset: %w", err)
	}
	return ds, nil
}

// publish sends the pass summary. Failures are logged and never fail the pass.
func (s *Service) publish(ctx context.Context, page Page) {
	if s.opts.Publisher == nil {
		return
	}
	summary := domain.RenderSummary{
		PassID:          page.PassID,
		RenderedAt:      s.clock.Now().UTC(),
		Driver:          s.opts.Driver,
		Criteria:        page.Criteria,
		TotalRecords:    page.Total,
		FilteredRecords: page.Filtered.Len(),
		FlagCounts:      domain.FlagCounts(page.Filtered),
		DurationMs:      float64(page.Duration) / float64(time.Millisecond),
	}
	if err := s.opts.Publisher.Publish(ctx, summary); err != nil {
		s.metrics.EventsFailed.Inc()
		s.logger.Warn("publish render summary failed", "pass_id", page.PassID, "error", err)
		return
	}
	s.metrics.EventsPublished.Inc()
}
