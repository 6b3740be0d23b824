package score

import (
	"github.com/montanaflynn/stats"
)

// CombineZ folds the per-variant z-scores of one trait into a trait-level
// score. Sums, not averages: with a single observed variant the result
// reduces to the single-variant path. Held as a variable so a recalibrated
// combiner can replace it without touching the aggregation loop.
var CombineZ func(stats.Float64Data) (float64, error) = stats.Sum

// VariantScore is one variant's standardized contribution to a trait.
type VariantScore struct {
	VariantID string  `json:"variant_id"`
	RsID      string  `json:"rsid"`
	Dosage    int     `json:"risk_allele_count"`
	Raw       float64 `json:"raw"`
	Z         float64 `json:"z"`
}

// Aggregate combines observed per-variant scores into the trait-level
// standardized score.
func Aggregate(contributions []VariantScore) (float64, error) {
	zs := make(stats.Float64Data, len(contributions))
	for i, c := range contributions {
		zs[i] = c.Z
	}

	return CombineZ(zs)
}
