// Package score computes genetic risk scores: additive single-variant
// contributions, compound (categorical) genotype resolution, polygenic
// aggregation with population-normalized standardization, and tier
// classification.
package score

import (
	"math"

	"github.com/nutrigene/genorisk/genotype"
	"github.com/nutrigene/genorisk/kb"
)

// Dosage counts risk alleles (0, 1, or 2) in the called genotype against
// the variant's designated risk allele. A genotype carrying alleles outside
// the variant's reference pair fails with GenotypeInconsistencyError.
func Dosage(v *kb.Variant, g genotype.Genotype) (int, error) {
	if !g.ConsistentWith(v.RiskAllele, v.ProtectiveAllele) {
		return 0, GenotypeInconsistencyError{
			RsID:             v.RsID,
			Genotype:         g,
			RiskAllele:       v.RiskAllele,
			ProtectiveAllele: v.ProtectiveAllele,
		}
	}

	return g.Count(v.RiskAllele), nil
}

// Contribution is the raw additive risk contribution of one called
// genotype: dosage × effect-size point estimate. Heterozygous calls
// contribute one effect-size unit, homozygous-risk calls exactly two.
func Contribution(v *kb.Variant, g genotype.Genotype) (float64, error) {
	d, err := Dosage(v, g)
	if err != nil {
		return 0, err
	}

	return float64(d) * v.Effect.Value, nil
}

// Standardize converts a raw contribution to a z-score against the
// variant's precomputed population moments. A degenerate variance falls
// back to unit scale rather than dividing by zero.
func Standardize(v *kb.Variant, raw float64) float64 {
	sd := math.Sqrt(v.ScoreVariance)
	if sd <= 0 {
		sd = 1.0
	}

	return (raw - v.ScoreMean) / sd
}
