// Package domain models USGS earthquake reports and the map overlays derived
// from them.
//
// # Data Sources
//
// Earthquakes come from the USGS summary feeds, e.g.
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson.
// Each GeoJSON feature carries:
//
//	geometry.coordinates = [longitude, latitude, depth_km]
//	properties.mag       = magnitude (may be null, zero, or negative)
//	properties.place     = human-readable location, e.g. "10km N of Ridgecrest, CA"
//	properties.time      = origin time in Unix epoch milliseconds
//
// Plate boundaries come from the PB2002 model (Bird, 2003) as republished at
// https://github.com/fraxen/tectonicplates. They are forwarded to the map
// without inspection.
//
// # Magnitude Encoding
//
// Magnitude maps to a fill color through six buckets, evaluated highest
// first with an inclusive lower bound:
//
//	>= 5.0 brown | >= 4.0 red | >= 3.0 orange | >= 2.0 yellow | >= 1.0 green | else lightgreen
//
// NaN fails every comparison and lands in lightgreen. See [Classify].
//
// Marker radius is magnitude times a scale in metres ([DefaultRadiusScale]),
// clamped at zero so negative magnitudes still render as a point. See [Render].
package domain
