package domain

// Category is a magnitude color bucket. The value is the CSS color name.
type Category string

const (
	CategoryBrown      Category = "brown"
	CategoryRed        Category = "red"
	CategoryOrange     Category = "orange"
	CategoryYellow     Category = "yellow"
	CategoryGreen      Category = "green"
	CategoryLightGreen Category = "lightgreen"
)

// thresholds lists the inclusive lower bound of each bucket, highest first.
var thresholds = []struct {
	min      float64
	category Category
}{
	{5, CategoryBrown},
	{4, CategoryRed},
	{3, CategoryOrange},
	{2, CategoryYellow},
	{1, CategoryGreen},
}

// Classify maps a magnitude to its color bucket. Every input, including NaN
// and negative values, yields a category; anything below 1.0 (or
// incomparable) is lightgreen.
func Classify(magnitude float64) Category {
	for _, t := range thresholds {
		if magnitude >= t.min {
			return t.category
		}
	}
	return CategoryLightGreen
}
