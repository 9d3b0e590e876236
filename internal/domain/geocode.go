package domain

import (
	"context"
	"log/slog"
)

// EnrichPlaces fills an empty Place from reverse geocoding. Records that
// already have a place, or whose lookup fails or comes back empty, are left
// as they are. The input slice is not modified. A nil geocoder is a no-op.
// It returns how many records were filled.
func EnrichPlaces(ctx context.Context, records []EarthquakeRecord, geocoder Geocoder, logger *slog.Logger) ([]EarthquakeRecord, int) {
	if geocoder == nil {
		return records, 0
	}

	out := make([]EarthquakeRecord, len(records))
	copy(out, records)

	filled := 0
	for i := range out {
		if out[i].Place != "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		result, err := geocoder.ReverseGeocode(ctx, out[i].Latitude, out[i].Longitude)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"earthquake_id", out[i].ID,
				"lat", out[i].Latitude,
				"lon", out[i].Longitude,
				"error", err,
			)
			continue
		}
		if result.FormattedAddress == "" {
			continue
		}
		logger.Debug("place filled from reverse geocoding",
			"earthquake_id", out[i].ID,
			"place", result.FormattedAddress,
			"confidence", result.Confidence,
		)
		out[i].Place = result.FormattedAddress
		filled++
	}
	return out, filled
}
