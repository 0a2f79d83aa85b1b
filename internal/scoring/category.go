package scoring

// Category is the three-tier risk classification.
type Category string

// Risk categories in ascending severity.
const (
	CategoryLow      Category = "Low Risk"
	CategoryModerate Category = "Moderate Risk"
	CategoryHigh     Category = "High Risk"
)

// Band thresholds. The same cutoffs apply to the standalone cognitive
// score, the standalone speech score, and the fused overall score.
const (
	moderateThreshold = 30
	highThreshold     = 60
)

// Categorize maps a bounded risk score onto its category.
func Categorize(score int) Category {
	switch {
	case score < moderateThreshold:
		return CategoryLow
	case score < highThreshold:
		return CategoryModerate
	default:
		return CategoryHigh
	}
}
