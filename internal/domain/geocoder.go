package domain

import "context"

// GeocodingResult is the place a geocoding provider found for a coordinate.
type GeocodingResult struct {
	FormattedAddress string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder resolves coordinates to place details.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
