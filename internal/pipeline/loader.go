package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/quake-map-service/internal/adapter/feed"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/overlay"
)

const (
	feedEarthquakes = "earthquakes"
	feedPlates      = "plates"
)

// FeedFetcher returns the raw body of a feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// MarkerSink receives every freshly rendered earthquake overlay.
type MarkerSink interface {
	Publish(ctx context.Context, markers []domain.DisplayMarker) error
}

// Options are the immutable settings of a Loader.
type Options struct {
	EarthquakeURL   string
	PlateURL        string
	RadiusScale     float64
	RefreshInterval time.Duration // 0 loads once
}

// Option configures optional Loader collaborators.
type Option func(*Loader)

// WithGeocoder enables place enrichment for records without a place.
func WithGeocoder(g domain.Geocoder) Option {
	return func(l *Loader) { l.geocoder = g }
}

// WithSink publishes every rendered earthquake overlay.
func WithSink(s MarkerSink) Option {
	return func(l *Loader) { l.sink = s }
}

// WithClock overrides the refresh clock.
func WithClock(c clockwork.Clock) Option {
	return func(l *Loader) { l.clock = c }
}

// Loader fills the earthquake and plate overlays from their feeds. It is the
// only writer of both collections.
type Loader struct {
	opts         Options
	quakeFetcher FeedFetcher
	plateFetcher FeedFetcher
	quakes       *overlay.Collection[[]domain.DisplayMarker]
	plates       *overlay.Collection[domain.PlateOverlay]
	geocoder     domain.Geocoder
	sink         MarkerSink
	clock        clockwork.Clock
	logger       *slog.Logger
	metrics      *observability.Metrics
	ready        atomic.Bool
}

// New creates a Loader. Each feed gets its own fetcher so a failing feed
// cannot trip the other's circuit breaker.
func New(
	opts Options,
	quakeFetcher, plateFetcher FeedFetcher,
	quakes *overlay.Collection[[]domain.DisplayMarker],
	plates *overlay.Collection[domain.PlateOverlay],
	logger *slog.Logger,
	metrics *observability.Metrics,
	options ...Option,
) *Loader {
	l := &Loader{
		opts:         opts,
		quakeFetcher: quakeFetcher,
		plateFetcher: plateFetcher,
		quakes:       quakes,
		plates:       plates,
		clock:        clockwork.NewRealClock(),
		logger:       logger,
		metrics:      metrics,
	}
	for _, o := range options {
		o(l)
	}
	return l
}

// CheckReadiness returns nil once the first load cycle has finished,
// whether or not both feeds succeeded. The map composes with empty overlays.
func (l *Loader) CheckReadiness(_ context.Context) error {
	if !l.ready.Load() {
		return errors.New("initial feed load has not completed")
	}
	return nil
}

// Run loads both overlays, then rebuilds them on every refresh tick until
// the context is cancelled. With no refresh interval it returns after the
// first cycle.
func (l *Loader) Run(ctx context.Context) error {
	l.logger.Info("loader started", "refresh_interval", l.opts.RefreshInterval)
	l.metrics.LoaderRunning.Set(1)
	defer l.metrics.LoaderRunning.Set(0)

	_ = l.LoadOnce(ctx)

	if l.opts.RefreshInterval <= 0 {
		l.logger.Info("loader finished", "reason", "refresh disabled")
		return nil
	}

	ticker := l.clock.NewTicker(l.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("loader stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			_ = l.LoadOnce(ctx)
		}
	}
}

// LoadOnce runs one independent task per feed and waits for both. A failed
// task is logged and leaves its overlay as it was; the returned error is the
// first failure, for callers that want it.
func (l *Loader) LoadOnce(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return l.runTask(ctx, feedEarthquakes, l.loadEarthquakes) })
	g.Go(func() error { return l.runTask(ctx, feedPlates, l.loadPlates) })
	err := g.Wait()

	l.metrics.LoadCycles.Inc()
	l.ready.Store(true)
	return err
}

func (l *Loader) runTask(ctx context.Context, name string, task func(context.Context) error) error {
	start := l.clock.Now()
	err := task(ctx)
	l.metrics.FeedFetchDuration.WithLabelValues(name).Observe(l.clock.Since(start).Seconds())

	if err != nil {
		l.metrics.FeedFetches.WithLabelValues(name, "error").Inc()
		if ctx.Err() == nil {
			l.logger.Error("feed load failed, overlay left unchanged", "feed", name, "error", err)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	l.metrics.FeedFetches.WithLabelValues(name, "success").Inc()
	return nil
}

func (l *Loader) loadEarthquakes(ctx context.Context) error {
	body, err := l.quakeFetcher.Fetch(ctx, l.opts.EarthquakeURL)
	if err != nil {
		return err
	}

	records, skipped, err := feed.ParseEarthquakes(body)
	if err != nil {
		return err
	}
	if len(skipped) > 0 {
		l.metrics.RecordsSkipped.Add(float64(len(skipped)))
		l.logger.Warn("skipped malformed earthquake features",
			"count", len(skipped),
			"first_index", skipped[0].Index,
			"first_id", skipped[0].ID,
			"first_reason", skipped[0].Reason,
		)
	}

	records, filled := domain.EnrichPlaces(ctx, records, l.geocoder, l.logger)
	markers := domain.Render(records, l.opts.RadiusScale)

	l.quakes.Replace(markers)
	l.metrics.MarkersRendered.Set(float64(len(markers)))
	l.logger.Info("earthquake overlay rebuilt",
		"markers", len(markers),
		"skipped", len(skipped),
		"places_filled", filled,
	)

	l.publish(ctx, markers)
	return nil
}

// publish hands markers to the sink. A sink failure never rolls back the overlay.
func (l *Loader) publish(ctx context.Context, markers []domain.DisplayMarker) {
	if l.sink == nil {
		return
	}
	if err := l.sink.Publish(ctx, markers); err != nil {
		l.metrics.SinkPublishes.WithLabelValues("error").Inc()
		l.logger.Error("publish markers failed", "markers", len(markers), "error", err)
		return
	}
	l.metrics.SinkPublishes.WithLabelValues("success").Inc()
}

func (l *Loader) loadPlates(ctx context.Context) error {
	body, err := l.plateFetcher.Fetch(ctx, l.opts.PlateURL)
	if err != nil {
		return err
	}

	features, err := feed.ParsePlates(body)
	if err != nil {
		return err
	}

	l.plates.Replace(domain.NewPlateOverlay(body, features))
	l.metrics.PlateFeatures.Set(float64(features))
	l.logger.Info("plate overlay rebuilt", "features", features)
	return nil
}
