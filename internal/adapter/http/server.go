package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/overlay"
)

//go:embed static/index.html
var indexHTML []byte

// Content is what the map API serves: both overlay collections and the base
// layer catalogue.
type Content struct {
	Earthquakes *overlay.Collection[[]domain.DisplayMarker]
	Plates      *overlay.Collection[domain.PlateOverlay]
	BaseLayers  []domain.BaseLayer
}

// Server exposes the map page, the map JSON API, and health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	content    Content
	logger     *slog.Logger
}

// NewServer creates an HTTP server for the map widget and its operators.
func NewServer(addr string, ready sharedobs.ReadinessChecker, content Content, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		content: content,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/earthquakes", s.handleEarthquakes)
	mux.HandleFunc("GET /api/plates", s.handlePlates)
	mux.HandleFunc("GET /api/legend", s.handleLegend)
	mux.HandleFunc("GET /api/layers", s.handleLayers)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type earthquakesResponse struct {
	UpdatedAt *time.Time             `json:"updated_at"`
	Populated bool                   `json:"populated"`
	Count     int                    `json:"count"`
	Markers   []domain.DisplayMarker `json:"markers"`
}

type platesResponse struct {
	UpdatedAt *time.Time       `json:"updated_at"`
	Populated bool             `json:"populated"`
	Style     domain.PathStyle `json:"style"`
	Features  int              `json:"features"`
	Data      json.RawMessage  `json:"data"`
}

type layersResponse struct {
	Center     domain.Position    `json:"center"`
	Zoom       int                `json:"zoom"`
	BaseLayers []domain.BaseLayer `json:"base_layers"`
	Overlays   []string           `json:"overlays"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(indexHTML); err != nil {
		s.logger.Debug("write index page", "error", err)
	}
}

func (s *Server) handleEarthquakes(w http.ResponseWriter, _ *http.Request) {
	snap := s.content.Earthquakes.Snapshot()
	markers := snap.Items
	if markers == nil {
		markers = []domain.DisplayMarker{}
	}
	s.writeJSON(w, http.StatusOK, earthquakesResponse{
		UpdatedAt: updatedAt(snap.Populated, snap.UpdatedAt),
		Populated: snap.Populated,
		Count:     len(markers),
		Markers:   markers,
	})
}

func (s *Server) handlePlates(w http.ResponseWriter, _ *http.Request) {
	snap := s.content.Plates.Snapshot()
	resp := platesResponse{
		UpdatedAt: updatedAt(snap.Populated, snap.UpdatedAt),
		Populated: snap.Populated,
		Style:     domain.PathStyle{Color: domain.PlateStrokeColor},
	}
	if snap.Populated {
		resp.Style = snap.Items.Style
		resp.Features = snap.Items.Features
		resp.Data = snap.Items.GeoJSON
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, domain.Legend())
}

func (s *Server) handleLayers(w http.ResponseWriter, _ *http.Request) {
	base := s.content.BaseLayers
	if base == nil {
		base = []domain.BaseLayer{}
	}
	s.writeJSON(w, http.StatusOK, layersResponse{
		Center:     domain.DefaultView.Center,
		Zoom:       domain.DefaultView.Zoom,
		BaseLayers: base,
		Overlays:   []string{s.content.Earthquakes.Name(), s.content.Plates.Name()},
	})
}

// updatedAt is nil until the overlay has been populated, so clients see null
// rather than the zero time.
func updatedAt(populated bool, t time.Time) *time.Time {
	if !populated {
		return nil
	}
	return &t
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
