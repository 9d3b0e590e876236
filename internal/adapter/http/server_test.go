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
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/quake-map-service/internal/adapter/http"
	"github.com/couchcryptid/quake-map-service/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/overlay"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

var loadedAt = time.Date(2024, time.April, 26, 15, 0, 0, 0, time.UTC)

type testServer struct {
	*httpadapter.Server
	quakes *overlay.Collection[[]domain.DisplayMarker]
	plates *overlay.Collection[domain.PlateOverlay]
}

func newTestServer(readyErr error) *testServer {
	clock := clockwork.NewFakeClockAt(loadedAt)
	quakes := overlay.New[[]domain.DisplayMarker](domain.EarthquakesOverlay, clock)
	plates := overlay.New[domain.PlateOverlay](domain.PlatesOverlay, clock)
	srv := httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, httpadapter.Content{
		Earthquakes: quakes,
		Plates:      plates,
		BaseLayers:  mapbox.BaseLayers("pk.test"),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &testServer{Server: srv, quakes: quakes, plates: plates}
}

func get(t *testing.T, srv http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIndexServesMapPage(t *testing.T) {
	srv := newTestServer(nil)
	rec := get(t, srv, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "leaflet")
	assert.Contains(t, rec.Body.String(), "/api/earthquakes")
}

func TestUnknownPathReturns404(t *testing.T) {
	srv := newTestServer(nil)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/nope").Code)
}

func TestEarthquakesBeforeLoad(t *testing.T) {
	srv := newTestServer(nil)
	rec := get(t, srv, "/api/earthquakes")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated_at":null,"populated":false,"count":0,"markers":[]}`, rec.Body.String())
}

func TestEarthquakesAfterLoad(t *testing.T) {
	srv := newTestServer(nil)
	srv.quakes.Replace(domain.Render([]domain.EarthquakeRecord{
		{ID: "ci1", Magnitude: 4.2, Place: "10km N of X", Latitude: 38, Longitude: -120, TimeEpochMillis: 1700000000000},
	}, domain.DefaultRadiusScale))

	rec := get(t, srv, "/api/earthquakes")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		UpdatedAt time.Time              `json:"updated_at"`
		Populated bool                   `json:"populated"`
		Count     int                    `json:"count"`
		Markers   []domain.DisplayMarker `json:"markers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Populated)
	assert.Equal(t, loadedAt, body.UpdatedAt)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, domain.CategoryRed, body.Markers[0].FillColor)
	assert.InDelta(t, 84000.0, body.Markers[0].Radius, 1e-6)
	assert.Equal(t, domain.Position{Lat: 38, Lon: -120}, body.Markers[0].Position)
}

func TestPlatesBeforeLoad(t *testing.T) {
	srv := newTestServer(nil)
	rec := get(t, srv, "/api/plates")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated_at":null,"populated":false,"style":{"color":"orange"},"features":0,"data":null}`, rec.Body.String())
}

func TestPlatesForwardsGeoJSON(t *testing.T) {
	srv := newTestServer(nil)
	raw := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"Name":"NA-PA"},"geometry":{"type":"LineString","coordinates":[[-124.6,40.3],[-124.1,40.1]]}}]}`
	srv.plates.Replace(domain.NewPlateOverlay([]byte(raw), 1))

	rec := get(t, srv, "/api/plates")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Populated bool             `json:"populated"`
		Style     domain.PathStyle `json:"style"`
		Features  int              `json:"features"`
		Data      json.RawMessage  `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Populated)
	assert.Equal(t, "orange", body.Style.Color)
	assert.Equal(t, 1, body.Features)
	assert.JSONEq(t, raw, string(body.Data))
}

func TestLegendIndependentOfFeeds(t *testing.T) {
	srv := newTestServer(nil)
	rec := get(t, srv, "/api/legend")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []domain.LegendEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Equal(t, domain.Legend(), entries)
}

func TestLayers(t *testing.T) {
	srv := newTestServer(nil)
	rec := get(t, srv, "/api/layers")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Center     domain.Position    `json:"center"`
		Zoom       int                `json:"zoom"`
		BaseLayers []domain.BaseLayer `json:"base_layers"`
		Overlays   []string           `json:"overlays"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.Position{Lat: 37.09, Lon: -95.71}, body.Center)
	assert.Equal(t, 5, body.Zoom)
	require.Len(t, body.BaseLayers, 3)
	assert.Equal(t, "Satellite Map", body.BaseLayers[0].Name)
	assert.Equal(t, "pk.test", body.BaseLayers[0].AccessToken)
	assert.Equal(t, []string{"Earthquakes", "Tectonic Plates"}, body.Overlays)
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil)
	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz").Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil)
	assert.Equal(t, http.StatusOK, get(t, srv, "/readyz").Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(fmt.Errorf("initial feed load has not completed"))
	assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, "/readyz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil)
	rec := get(t, srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
