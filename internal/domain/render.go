package domain

import (
	"html"
	"math"
	"strconv"
	"strings"
)

// DefaultRadiusScale converts magnitude to a circle radius in metres.
const DefaultRadiusScale = 20000.0

const (
	markerStrokeColor = "black"
	markerFillOpacity = 0.75
	markerWeight      = 1

	// popupTimeLayout mirrors the browser's Date.toString output in UTC.
	popupTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"
)

// Render builds one marker per record, in input order. The result is never
// nil. A non-positive scale falls back to DefaultRadiusScale.
func Render(records []EarthquakeRecord, scale float64) []DisplayMarker {
	if scale <= 0 || math.IsNaN(scale) {
		scale = DefaultRadiusScale
	}
	markers := make([]DisplayMarker, 0, len(records))
	for _, r := range records {
		markers = append(markers, renderMarker(r, scale))
	}
	return markers
}

func renderMarker(r EarthquakeRecord, scale float64) DisplayMarker {
	return DisplayMarker{
		ID:          r.ID,
		Position:    Position{Lat: r.Latitude, Lon: r.Longitude},
		Radius:      markerRadius(r.Magnitude, scale),
		FillColor:   Classify(r.Magnitude),
		FillOpacity: markerFillOpacity,
		StrokeColor: markerStrokeColor,
		Weight:      markerWeight,
		PopupHTML:   PopupHTML(r),
		Magnitude:   r.Magnitude,
		Depth:       r.Depth,
		Place:       r.Place,
		Time:        r.Time(),
	}
}

// markerRadius scales magnitude to metres and clamps the result at zero.
func markerRadius(magnitude, scale float64) float64 {
	radius := magnitude * scale
	if math.IsNaN(radius) || radius < 0 {
		return 0
	}
	return radius
}

// PopupHTML renders the popup body for a record: place, magnitude, and the
// origin time. The place string is escaped.
func PopupHTML(r EarthquakeRecord) string {
	var b strings.Builder
	b.WriteString("<h3>")
	b.WriteString(html.EscapeString(r.Place))
	b.WriteString("<hr> Magnitude: ")
	b.WriteString(FormatMagnitude(r.Magnitude))
	b.WriteString("</h3><hr><p>")
	b.WriteString(r.Time().Format(popupTimeLayout))
	b.WriteString("</p>")
	return b.String()
}

// FormatMagnitude returns the shortest decimal form, e.g. 4.2 -> "4.2".
func FormatMagnitude(magnitude float64) string {
	return strconv.FormatFloat(magnitude, 'f', -1, 64)
}
