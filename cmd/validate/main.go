// Command validate checks a marker JSON file (as written by cmd/render or
// served at /api/earthquakes) against the earthquake feed it came from. It
// verifies marker counts and order, re-renders every record to compare color,
// radius and popup, and checks the display invariants of each marker.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -feed testdata/all_week.geojson \
//	  -markers markers.json \
//	  -scale 20000
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/couchcryptid/quake-map-service/internal/adapter/feed"
	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	feedPath := flag.String("feed", "", "path to the earthquake GeoJSON feed file")
	markersPath := flag.String("markers", "", "path to the marker JSON file")
	scale := flag.Float64("scale", domain.DefaultRadiusScale, "radius scale the markers were rendered with")
	flag.Parse()

	if *feedPath == "" || *markersPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*feedPath, *markersPath, *scale, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(feedPath, markersPath string, scale float64, w io.Writer) int {
	fmt.Fprintln(w, "=== Earthquake Marker Validation ===")

	body, err := os.ReadFile(feedPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: read feed: %v\n", err)
		return 1
	}
	records, skipped, err := feed.ParseEarthquakes(body)
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return 1
	}

	markers, err := loadMarkers(markersPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load markers: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateParity(records, markers),
		validateRendering(records, markers, scale),
		validateDisplay(markers),
	}

	fmt.Fprintln(w)
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-28s %s\n", p.name, status)
	}

	fmt.Fprintf(w, "\nRecords: %d feed features kept, %d skipped, %d markers\n",
		len(records), len(skipped), len(markers))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

func loadMarkers(path string) ([]domain.DisplayMarker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var markers []domain.DisplayMarker
	if err := json.Unmarshal(data, &markers); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return markers, nil
}

// validateParity checks there is one marker per kept record, in feed order.
func validateParity(records []domain.EarthquakeRecord, markers []domain.DisplayMarker) *phase {
	p := &phase{name: "Feed parity"}
	if len(records) != len(markers) {
		p.errorf("count mismatch: %d records, %d markers", len(records), len(markers))
	}
	for i := 0; i < min(len(records), len(markers)); i++ {
		if records[i].ID != markers[i].ID {
			p.errorf("marker %d: id %q, want %q", i, markers[i].ID, records[i].ID)
		}
	}
	return p
}

// validateRendering re-renders the feed and compares the fields the widget draws.
func validateRendering(records []domain.EarthquakeRecord, markers []domain.DisplayMarker, scale float64) *phase {
	p := &phase{name: "Rendering"}
	want := domain.Render(records, scale)
	for i := 0; i < min(len(want), len(markers)); i++ {
		got := &markers[i]
		exp := &want[i]
		if got.FillColor != exp.FillColor {
			p.errorf("%s: fill_color %s, want %s (magnitude %v)", got.ID, got.FillColor, exp.FillColor, exp.Magnitude)
		}
		if !floatEq(got.Radius, exp.Radius) {
			p.errorf("%s: radius %v, want %v", got.ID, got.Radius, exp.Radius)
		}
		if got.Position != exp.Position {
			p.errorf("%s: position %+v, want %+v", got.ID, got.Position, exp.Position)
		}
		if got.PopupHTML != exp.PopupHTML {
			p.errorf("%s: popup_html %q, want %q", got.ID, got.PopupHTML, exp.PopupHTML)
		}
	}
	return p
}

var validCategories = map[domain.Category]bool{
	domain.CategoryBrown:      true,
	domain.CategoryRed:        true,
	domain.CategoryOrange:     true,
	domain.CategoryYellow:     true,
	domain.CategoryGreen:      true,
	domain.CategoryLightGreen: true,
}

// validateDisplay checks per-marker invariants that hold for any scale.
func validateDisplay(markers []domain.DisplayMarker) *phase {
	p := &phase{name: "Display invariants"}
	for i := range markers {
		m := &markers[i]
		if !validCategories[m.FillColor] {
			p.errorf("%s: unknown fill_color %q", m.ID, m.FillColor)
		}
		if m.FillColor != domain.Classify(m.Magnitude) {
			p.errorf("%s: fill_color %s does not match magnitude %v", m.ID, m.FillColor, m.Magnitude)
		}
		if m.Radius < 0 || math.IsNaN(m.Radius) {
			p.errorf("%s: radius %v must be >= 0", m.ID, m.Radius)
		}
		if m.FillOpacity != 0.75 || m.StrokeColor != "black" || m.Weight != 1 {
			p.errorf("%s: style %v/%s/%d, want 0.75/black/1", m.ID, m.FillOpacity, m.StrokeColor, m.Weight)
		}
		if m.Position.Lat < -90 || m.Position.Lat > 90 || m.Position.Lon < -180 || m.Position.Lon > 180 {
			p.errorf("%s: position %+v out of range", m.ID, m.Position)
		}
		if m.PopupHTML == "" {
			p.errorf("%s: empty popup_html", m.ID)
		}
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
