package score

import (
	"math"

	"github.com/nutrigene/genorisk/kb"
)

// Classify maps a score to the highest tier whose lower bound it meets or
// exceeds. Boundaries are inclusive on the lower edge, so a score exactly
// at a threshold classifies into the higher tier. Thresholds must be
// ascending (enforced at catalog construction).
func Classify(baseline kb.Tier, thresholds []kb.TierThreshold, score float64) kb.Tier {
	tier := baseline
	for _, th := range thresholds {
		if score >= th.Min {
			tier = th.Tier
		}
	}

	return tier
}

// Percentile converts a z-score to a population percentile (0-100) via the
// normal CDF, rounded to two decimals.
func Percentile(z float64) float64 {
	p := 50 * (1 + math.Erf(z/math.Sqrt2))

	return math.Round(p*100) / 100
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
