package domain

import "encoding/json"

// PlateStrokeColor is the fixed outline color for plate boundaries.
const PlateStrokeColor = "orange"

// PathStyle is the subset of widget path options applied to an overlay.
type PathStyle struct {
	Color string `json:"color"`
}

// PlateOverlay carries the plate-boundary feed body untouched, together with
// the style the map applies to every feature in it.
type PlateOverlay struct {
	Style    PathStyle       `json:"style"`
	Features int             `json:"features"`
	GeoJSON  json.RawMessage `json:"data"`
}

// NewPlateOverlay wraps a validated plate-boundary feature collection.
func NewPlateOverlay(raw []byte, features int) PlateOverlay {
	return PlateOverlay{
		Style:    PathStyle{Color: PlateStrokeColor},
		Features: features,
		GeoJSON:  json.RawMessage(raw),
	}
}
