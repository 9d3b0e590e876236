package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

const feedFixture = `{"type":"FeatureCollection","features":[
  {"type":"Feature","id":"ci1","properties":{"mag":4.2,"place":"10km N of X","time":1700000000000},
   "geometry":{"type":"Point","coordinates":[-120,38,5]}},
  {"type":"Feature","id":"nc2","properties":{"mag":0.3,"place":"Geysers, CA","time":1700000000000},
   "geometry":{"type":"Point","coordinates":[-122.8,38.8,1]}}
]}`

func writeFiles(t *testing.T, markers []domain.DisplayMarker) (string, string) {
	t.Helper()
	dir := t.TempDir()
	feedPath := filepath.Join(dir, "feed.geojson")
	require.NoError(t, os.WriteFile(feedPath, []byte(feedFixture), 0o600))

	data, err := json.Marshal(markers)
	require.NoError(t, err)
	markersPath := filepath.Join(dir, "markers.json")
	require.NoError(t, os.WriteFile(markersPath, data, 0o600))
	return feedPath, markersPath
}

func rendered() []domain.DisplayMarker {
	return domain.Render([]domain.EarthquakeRecord{
		{ID: "ci1", Magnitude: 4.2, Place: "10km N of X", Latitude: 38, Longitude: -120, TimeEpochMillis: 1700000000000},
		{ID: "nc2", Magnitude: 0.3, Place: "Geysers, CA", Latitude: 38.8, Longitude: -122.8, TimeEpochMillis: 1700000000000},
	}, domain.DefaultRadiusScale)
}

func TestRun_Passes(t *testing.T) {
	feedPath, markersPath := writeFiles(t, rendered())
	var out bytes.Buffer

	assert.Equal(t, 0, run(feedPath, markersPath, domain.DefaultRadiusScale, &out))
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Contains(t, out.String(), "2 feed features kept, 0 skipped, 2 markers")
}

func TestRun_DetectsTampering(t *testing.T) {
	markers := rendered()
	markers[0].FillColor = domain.CategoryBrown
	markers[1].Radius = -1
	feedPath, markersPath := writeFiles(t, markers)
	var out bytes.Buffer

	assert.Equal(t, 1, run(feedPath, markersPath, domain.DefaultRadiusScale, &out))
	assert.Contains(t, out.String(), "ci1: fill_color brown, want red")
	assert.Contains(t, out.String(), "nc2: radius -1 must be >= 0")
	assert.Contains(t, out.String(), "Validation FAILED.")
}

func TestRun_CountMismatch(t *testing.T) {
	feedPath, markersPath := writeFiles(t, rendered()[:1])
	var out bytes.Buffer

	assert.Equal(t, 1, run(feedPath, markersPath, domain.DefaultRadiusScale, &out))
	assert.Contains(t, out.String(), "count mismatch: 2 records, 1 markers")
}

func TestRun_WrongScale(t *testing.T) {
	feedPath, markersPath := writeFiles(t, rendered())
	var out bytes.Buffer

	assert.Equal(t, 1, run(feedPath, markersPath, 1000, &out))
	assert.Contains(t, out.String(), "ci1: radius 84000, want 4200")
}

func TestRun_MissingFeed(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 1, run(filepath.Join(t.TempDir(), "absent"), "markers.json", domain.DefaultRadiusScale, &out))
	assert.Contains(t, out.String(), "FATAL: read feed")
}
