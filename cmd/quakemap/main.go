package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-map-service/internal/adapter/feed"
	httpadapter "github.com/couchcryptid/quake-map-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-map-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map-service/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/overlay"
	"github.com/couchcryptid/quake-map-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	quakes := overlay.New[[]domain.DisplayMarker](domain.EarthquakesOverlay, clock)
	plates := overlay.New[domain.PlateOverlay](domain.PlatesOverlay, clock)

	var opts []pipeline.Option
	opts = append(opts, pipeline.WithClock(clock))

	// Reverse geocoding is feature-flagged via MAPBOX_GEOCODING_ENABLED.
	if cfg.MapboxGeocodingEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		opts = append(opts, pipeline.WithGeocoder(mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)))
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}
	if cfg.MapboxToken == "" {
		logger.Warn("MAPBOX_TOKEN is not set, base map tiles will not load")
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, pipeline.WithSink(writer))
		logger.Info("kafka marker sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	loader := pipeline.New(
		pipeline.Options{
			EarthquakeURL:   cfg.EarthquakeFeedURL,
			PlateURL:        cfg.PlateFeedURL,
			RadiusScale:     cfg.RadiusScale,
			RefreshInterval: cfg.RefreshInterval,
		},
		feed.NewClient("earthquakes", cfg.FeedTimeout),
		feed.NewClient("plates", cfg.FeedTimeout),
		quakes, plates,
		logger, metrics,
		opts...,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, loader, httpadapter.Content{
		Earthquakes: quakes,
		Plates:      plates,
		BaseLayers:  mapbox.BaseLayers(cfg.MapboxToken),
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start feed loader.
	loaderDone := make(chan struct{})
	go func() {
		defer close(loaderDone)
		if err := loader.Run(ctx); err != nil {
			logger.Error("loader error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-loaderDone:
	case <-shutdownCtx.Done():
		logger.Warn("loader did not stop before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
