package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegend(t *testing.T) {
	expected := []LegendEntry{
		{Category: CategoryLightGreen, Label: "0–1"},
		{Category: CategoryGreen, Label: "1–2"},
		{Category: CategoryYellow, Label: "2–3"},
		{Category: CategoryOrange, Label: "3–4"},
		{Category: CategoryRed, Label: "4–5"},
		{Category: CategoryBrown, Label: "5+"},
	}
	if diff := cmp.Diff(expected, Legend()); diff != "" {
		t.Fatalf("legend mismatch (-want +got):\n%s", diff)
	}
}

func TestLegend_MatchesClassifierAtEachGrade(t *testing.T) {
	for i, entry := range Legend() {
		assert.Equal(t, Classify(float64(i)+0.5), entry.Category, entry.Label)
	}
}

func TestNewPlateOverlay(t *testing.T) {
	raw := []byte(`{"type":"FeatureCollection","features":[]}`)
	overlay := NewPlateOverlay(raw, 0)

	assert.Equal(t, "orange", overlay.Style.Color)
	assert.Equal(t, 0, overlay.Features)

	data, err := json.Marshal(overlay)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"style":{"color":"orange"},"features":0,"data":{"type":"FeatureCollection","features":[]}}`,
		string(data),
	)
}
