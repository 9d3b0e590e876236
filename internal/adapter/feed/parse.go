// Package feed fetches and decodes the GeoJSON feeds behind the map overlays.
package feed

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// Skip reasons reported by ParseEarthquakes.
const (
	SkipInvalidFeature = "feature is not valid geojson"
	SkipNoPoint        = "geometry is not a point"
	SkipNoCoordinates  = "point has fewer than two coordinates"
	SkipNoMagnitude    = "magnitude is not a number"
)

// Skipped describes one feature ParseEarthquakes dropped.
type Skipped struct {
	Index  int
	ID     string
	Reason string
}

// collection is the outer FeatureCollection with its features left raw, so a
// single bad feature cannot fail the whole body.
type collection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// rawPoint reads what orb does not keep: the id as written, the coordinate
// count, and the depth.
type rawPoint struct {
	ID       any `json:"id"`
	Geometry *struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

// ParseEarthquakes decodes a USGS feature collection. Features that are not
// valid GeoJSON, lack a point geometry with at least two coordinates, or lack
// a numeric magnitude are skipped and reported; the rest keep their feed
// order. A missing place becomes "", a missing time 0, and a missing depth 0.
func ParseEarthquakes(body []byte) ([]domain.EarthquakeRecord, []Skipped, error) {
	fc, err := decodeCollection(body)
	if err != nil {
		return nil, nil, fmt.Errorf("decode earthquake feed: %w", err)
	}

	records := make([]domain.EarthquakeRecord, 0, len(fc.Features))
	var skipped []Skipped
	for i, raw := range fc.Features {
		rec, reason := parseFeature(raw)
		if reason != "" {
			skipped = append(skipped, Skipped{Index: i, ID: rec.ID, Reason: reason})
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func parseFeature(raw json.RawMessage) (domain.EarthquakeRecord, string) {
	var rp rawPoint
	if err := json.Unmarshal(raw, &rp); err != nil {
		return domain.EarthquakeRecord{}, SkipInvalidFeature
	}
	rec := domain.EarthquakeRecord{ID: featureID(rp.ID)}

	if rp.Geometry == nil {
		return rec, SkipNoPoint
	}
	var coords []float64
	if rp.Geometry.Type == "Point" {
		if err := json.Unmarshal(rp.Geometry.Coordinates, &coords); err != nil || len(coords) < 2 {
			return rec, SkipNoCoordinates
		}
	}

	f, err := geojson.UnmarshalFeature(raw)
	if err != nil {
		return rec, SkipInvalidFeature
	}
	point, ok := f.Geometry.(orb.Point)
	if !ok {
		return rec, SkipNoPoint
	}
	mag, ok := f.Properties["mag"].(float64)
	if !ok {
		return rec, SkipNoMagnitude
	}

	rec.Longitude = point.Lon()
	rec.Latitude = point.Lat()
	if len(coords) > 2 {
		rec.Depth = coords[2]
	}
	rec.Magnitude = mag
	rec.Place, _ = f.Properties["place"].(string)
	if ms, ok := f.Properties["time"].(float64); ok {
		rec.TimeEpochMillis = int64(ms)
	}
	return rec, ""
}

func featureID(id any) string {
	switch id := id.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

// ParsePlates checks that body is a GeoJSON feature collection and returns
// its feature count. The body itself is forwarded unmodified, so individual
// features are not decoded.
func ParsePlates(body []byte) (int, error) {
	fc, err := decodeCollection(body)
	if err != nil {
		return 0, fmt.Errorf("decode plate feed: %w", err)
	}
	return len(fc.Features), nil
}

func decodeCollection(body []byte) (*collection, error) {
	var fc collection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, err
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("not a feature collection: type %q", fc.Type)
	}
	return &fc, nil
}
