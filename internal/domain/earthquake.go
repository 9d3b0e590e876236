package domain

import "time"

// EarthquakeRecord is one feature from the earthquake feed.
type EarthquakeRecord struct {
	ID              string  `json:"id"`
	Longitude       float64 `json:"longitude"`
	Latitude        float64 `json:"latitude"`
	Depth           float64 `json:"depth"` // km, third coordinate of the feed point
	Magnitude       float64 `json:"magnitude"`
	Place           string  `json:"place"`
	TimeEpochMillis int64   `json:"time"`
}

// Time returns the origin time in UTC.
func (r EarthquakeRecord) Time() time.Time {
	return time.UnixMilli(r.TimeEpochMillis).UTC()
}

// Position is a WGS-84 latitude/longitude pair in the order map widgets expect.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DisplayMarker is the render-ready circle for one earthquake.
type DisplayMarker struct {
	ID          string    `json:"id"`
	Position    Position  `json:"position"`
	Radius      float64   `json:"radius"`
	FillColor   Category  `json:"fill_color"`
	FillOpacity float64   `json:"fill_opacity"`
	StrokeColor string    `json:"stroke_color"`
	Weight      int       `json:"weight"`
	PopupHTML   string    `json:"popup_html"`
	Magnitude   float64   `json:"magnitude"`
	Depth       float64   `json:"depth_km"`
	Place       string    `json:"place"`
	Time        time.Time `json:"time"`
}
