package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapboxToken = "pk.test-token"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, defaultEarthquakeFeedURL, cfg.EarthquakeFeedURL)
	assert.Equal(t, defaultPlateFeedURL, cfg.PlateFeedURL)
	assert.Equal(t, 30*time.Second, cfg.FeedTimeout)
	assert.Zero(t, cfg.RefreshInterval)
	assert.InDelta(t, 20000.0, cfg.RadiusScale, 1e-9)
	assert.Empty(t, cfg.MapboxToken)
	assert.False(t, cfg.MapboxGeocodingEnabled)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "earthquake-markers", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("EARTHQUAKE_FEED_URL", "http://feeds.local/quakes.geojson")
	t.Setenv("PLATE_FEED_URL", "http://feeds.local/plates.json")
	t.Setenv("FEED_TIMEOUT", "3s")
	t.Setenv("REFRESH_INTERVAL", "5m")
	t.Setenv("MARKER_RADIUS_SCALE", "30000")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_GEOCODING_ENABLED", "true")
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-markers")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://feeds.local/quakes.geojson", cfg.EarthquakeFeedURL)
	assert.Equal(t, "http://feeds.local/plates.json", cfg.PlateFeedURL)
	assert.Equal(t, 3*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.InDelta(t, 30000.0, cfg.RadiusScale, 1e-9)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.True(t, cfg.MapboxGeocodingEnabled)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-markers", cfg.KafkaTopic)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"FEED_TIMEOUT", "bad"},
		{"FEED_TIMEOUT", "0s"},
		{"MAPBOX_TIMEOUT", "bad"},
		{"REFRESH_INTERVAL", "soon"},
		{"REFRESH_INTERVAL", "-1m"},
		{"MARKER_RADIUS_SCALE", "abc"},
		{"MARKER_RADIUS_SCALE", "-20000"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_GeocodingWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_GEOCODING_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_TokenDoesNotImplyGeocoding(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxGeocodingEnabled)
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("MAPBOX_CACHE_SIZE", "-3")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}
