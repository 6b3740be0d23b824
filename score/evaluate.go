package score

import (
	"github.com/carbocation/pfx"

	"github.com/nutrigene/genorisk/genotype"
	"github.com/nutrigene/genorisk/kb"
)

// Confidence labels how well-supported a trait-level score is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"

	// ConfidencePartial marks a score computed from fewer variants than
	// the pair defines as its minimum.
	ConfidencePartial Confidence = "partial"
)

// RiskScore is the computed trait-level result. Every score is traceable to
// the exact variants used; nothing is silently substituted.
type RiskScore struct {
	Trait      string         `json:"trait"`
	GeneKey    string         `json:"gene"`
	Raw        float64        `json:"raw_score"`
	Z          float64        `json:"score"`
	Percentile float64        `json:"percentile"`
	Tier       kb.Tier        `json:"risk_tier"`
	Confidence Confidence     `json:"confidence"`
	Variants   []VariantScore `json:"contributing_variants"`

	// Label is the resolved categorical genotype for compound pairs
	// (e.g. the APOE epsilon diplotype); empty otherwise.
	Label string `json:"genotype_label,omitempty"`
}

// RsIDsUsed lists the rsIDs that actually fed the score.
func (rs *RiskScore) RsIDsUsed() []string {
	out := make([]string, len(rs.Variants))
	for i, v := range rs.Variants {
		out[i] = v.RsID
	}

	return out
}

// Evaluate scores one gene-nutrient pair from the normalized genotype
// calls, dispatching on the pair's scoring mode. A nil score with no errors
// means no usable observation existed for the pair. Returned errors are the
// recoverable per-variant or per-pair conditions (genotype inconsistency,
// unresolvable compound genotype); the caller records them as gaps.
func Evaluate(c *kb.Catalog, pair kb.Pair, calls map[string]genotype.Genotype) (*RiskScore, []error) {
	switch pair.Mode {
	case kb.ModeCompoundCategorical:
		return evaluateCompound(c, pair, calls)
	case kb.ModeAdditiveSingle, kb.ModeAdditivePolygenic:
		return evaluateAdditive(c, pair, calls)
	}

	// Unknown modes are rejected at catalog construction.
	return nil, nil
}

func evaluateAdditive(c *kb.Catalog, pair kb.Pair, calls map[string]genotype.Genotype) (*RiskScore, []error) {
	var contributions []VariantScore
	var issues []error

	for _, vid := range pair.VariantIDs {
		v, _ := c.Variant(vid)

		g, observed := calls[v.RsID]
		if !observed {
			continue
		}

		dosage, err := Dosage(v, g)
		if err != nil {
			issues = append(issues, err)
			continue
		}

		raw := float64(dosage) * v.Effect.Value
		contributions = append(contributions, VariantScore{
			VariantID: vid,
			RsID:      v.RsID,
			Dosage:    dosage,
			Raw:       raw,
			Z:         Standardize(v, raw),
		})
	}

	if len(contributions) == 0 {
		return nil, issues
	}

	z, err := Aggregate(contributions)
	if err != nil {
		// Only reachable with an empty input, which is guarded above.
		issues = append(issues, pfx.Err(err))
		return nil, issues
	}

	raw := 0.0
	for _, con := range contributions {
		raw += con.Raw
	}

	result := &RiskScore{
		Trait:      pair.Trait,
		GeneKey:    pair.GeneKey,
		Raw:        round4(raw),
		Z:          round4(z),
		Percentile: Percentile(z),
		Tier:       Classify(pair.Baseline, pair.Thresholds, z),
		Confidence: confidence(c, pair, contributions),
		Variants:   contributions,
	}

	return result, issues
}

func evaluateCompound(c *kb.Catalog, pair kb.Pair, calls map[string]genotype.Genotype) (*RiskScore, []error) {
	table := kb.CompoundTables[pair.CompoundKey]

	genotypes := make([]genotype.Genotype, 0, len(pair.VariantIDs))
	contributions := make([]VariantScore, 0, len(pair.VariantIDs))

	for _, vid := range pair.VariantIDs {
		v, _ := c.Variant(vid)

		g, observed := calls[v.RsID]
		if !observed {
			// Compound labels cannot be inferred from a partial
			// combination; the pair gaps out.
			return nil, nil
		}

		genotypes = append(genotypes, g)
		contributions = append(contributions, VariantScore{VariantID: vid, RsID: v.RsID, Dosage: g.Count(v.RiskAllele)})
	}

	label, ok := table.Resolve(genotypes...)
	if !ok {
		return nil, []error{UnresolvableCompoundGenotypeError{Trait: pair.Trait, Key: kb.ComboKey(genotypes...)}}
	}

	z := table.LevelScores[table.RiskLevels[label]]

	result := &RiskScore{
		Trait:      pair.Trait,
		GeneKey:    pair.GeneKey,
		Z:          round4(z),
		Percentile: Percentile(z),
		Tier:       Classify(pair.Baseline, pair.Thresholds, z),
		Confidence: confidence(c, pair, contributions),
		Variants:   contributions,
		Label:      label,
	}

	return result, nil
}

// confidence grades a score by observation completeness first, then by the
// strongest evidence level among the variants used.
func confidence(c *kb.Catalog, pair kb.Pair, used []VariantScore) Confidence {
	if len(used) < pair.MinVariants {
		return ConfidencePartial
	}

	for _, vs := range used {
		v, _ := c.Variant(vs.VariantID)
		if v.Evidence == kb.EvidenceA || v.Evidence == kb.EvidenceB {
			return ConfidenceHigh
		}
	}

	return ConfidenceMedium
}
