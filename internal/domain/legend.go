package domain

import "strconv"

// LegendEntry is one row of the magnitude legend.
type LegendEntry struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
}

// legendGrades are the lower bounds shown in the legend.
var legendGrades = []int{0, 1, 2, 3, 4, 5}

// Legend returns the six fixed legend rows, lowest grade first:
// "0–1", "1–2", ..., "5+". It does not depend on feed content.
func Legend() []LegendEntry {
	entries := make([]LegendEntry, 0, len(legendGrades))
	for i, g := range legendGrades {
		label := strconv.Itoa(g)
		if i+1 < len(legendGrades) {
			label += "–" + strconv.Itoa(legendGrades[i+1])
		} else {
			label += "+"
		}
		entries = append(entries, LegendEntry{
			Category: Classify(float64(g)),
			Label:    label,
		})
	}
	return entries
}
