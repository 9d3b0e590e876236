// Command render turns a saved earthquake GeoJSON feed into the marker JSON
// served at /api/earthquakes. It runs the same parse and render steps as the
// service, so its output is useful as a fixture and for eyeballing a feed.
//
// Usage:
//
//	go run ./cmd/render \
//	  -in testdata/all_week.geojson \
//	  -out markers.json \
//	  -scale 20000
//
// Without -out the markers are written to stdout.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/couchcryptid/quake-map-service/internal/adapter/feed"
	"github.com/couchcryptid/quake-map-service/internal/domain"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "earthquake GeoJSON feed file")
	out := fs.String("out", "", "output path for marker JSON (default stdout)")
	scale := fs.Float64("scale", domain.DefaultRadiusScale, "metres of radius per unit of magnitude")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *in == "" {
		fs.Usage()
		return errors.New("missing required flag: -in")
	}
	if *scale <= 0 {
		return fmt.Errorf("invalid -scale %v: must be positive", *scale)
	}

	body, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read feed: %w", err)
	}

	records, skipped, err := feed.ParseEarthquakes(body)
	if err != nil {
		return err
	}
	for _, s := range skipped {
		fmt.Fprintf(stderr, "skipped feature %d (%s): %s\n", s.Index, s.ID, s.Reason)
	}

	markers := domain.Render(records, *scale)

	if *out == "" {
		if err := encodeJSON(stdout, markers); err != nil {
			return fmt.Errorf("write markers: %w", err)
		}
	} else {
		if err := writeJSON(*out, markers); err != nil {
			return fmt.Errorf("write markers: %w", err)
		}
		fmt.Fprintf(stderr, "wrote %d markers: %s\n", len(markers), *out)
	}

	printStats(stderr, markers, len(skipped))
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := encodeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printStats reports marker counts per legend row.
func printStats(w io.Writer, markers []domain.DisplayMarker, skipped int) {
	counts := map[domain.Category]int{}
	for i := range markers {
		counts[markers[i].FillColor]++
	}

	fmt.Fprintf(w, "\n=== %d markers, %d skipped ===\n", len(markers), skipped)
	legend := domain.Legend()
	for i := len(legend) - 1; i >= 0; i-- {
		e := legend[i]
		fmt.Fprintf(w, "  %-4s %-10s %d\n", e.Label, e.Category, counts[e.Category])
	}
}
