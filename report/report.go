// Package report assembles per-pair scoring and recommendation results
// into the one structured object the rendering layer consumes.
package report

import (
	"sort"

	"github.com/nutrigene/genorisk/recommend"
	"github.com/nutrigene/genorisk/score"
)

// GapKind classifies why a pair or variant produced no definitive result.
type GapKind string

const (
	// GapMissingVariant: a supported variant of a scored pair had no
	// observation.
	GapMissingVariant GapKind = "missing_variant"

	// GapMissingPair: none of a pair's variants produced a usable call,
	// so the pair has no score at all.
	GapMissingPair GapKind = "missing_pair"

	// GapInconsistentGenotype: a call was dropped because its alleles do
	// not match the variant's reference alleles.
	GapInconsistentGenotype GapKind = "inconsistent_genotype"

	// GapUnresolvableCompound: a compound pair's joint genotype was not
	// in its resolution table.
	GapUnresolvableCompound GapKind = "unresolvable_compound_genotype"

	// GapDemographic: no reference-intake row matched the caller's age
	// and sex, so the pair's recommendation was omitted.
	GapDemographic GapKind = "demographic_out_of_range"
)

// Gap is an explicitly recorded evidence or calibration hole. Gaps are the
// report's guarantee that nothing was silently defaulted.
type Gap struct {
	Kind   GapKind `json:"kind"`
	Trait  string  `json:"trait,omitempty"`
	RsID   string  `json:"rsid,omitempty"`
	Detail string  `json:"detail,omitempty"`
}

// PairResult is one scored gene-nutrient pair. Pairs without a usable
// score never appear here; they are represented under Gaps only.
type PairResult struct {
	Trait          string                    `json:"trait"`
	GeneKey        string                    `json:"gene"`
	Nutrient       string                    `json:"nutrient"`
	Score          *score.RiskScore          `json:"risk_score"`
	Recommendation *recommend.Recommendation `json:"recommendation,omitempty"`
}

// Default framing text carried on every report.
var defaultLimitations = []string{
	"Genetic factors typically explain <5% of trait variance",
	"Recommendations based on population-level associations",
	"Not a substitute for clinical advice from a registered dietitian or physician",
	"Effect sizes may vary by age, sex, and environmental factors",
}

const defaultDisclaimer = "This report is for research and educational purposes only. " +
	"Consult a registered dietitian or physician before making dietary " +
	"changes based on genetic information."

// Report is the complete per-request result. It carries no timestamps or
// other request-external state: identical inputs produce identical
// reports. The caller owns it outright once returned.
type Report struct {
	SessionID       string       `json:"session_id"`
	Population      string       `json:"population"`
	Results         []PairResult `json:"results"`
	Gaps            []Gap        `json:"gaps"`
	MissingVariants []string     `json:"missing_variants"`
	Limitations     []string     `json:"limitations"`
	Disclaimer      string       `json:"disclaimer"`
}

// Recommendations returns the report's recommendations ordered by
// priority, most urgent first. Catalog order breaks ties, keeping the
// output deterministic.
func (r *Report) Recommendations() []*recommend.Recommendation {
	out := make([]*recommend.Recommendation, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Recommendation != nil {
			out = append(out, res.Recommendation)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return recommend.PriorityRank(out[i].Priority) > recommend.PriorityRank(out[j].Priority)
	})

	return out
}

// Summary condenses a report for display.
type Summary struct {
	SessionID       string   `json:"session_id"`
	ScoredPairs     int      `json:"n_risk_scores"`
	Recommendations int      `json:"n_recommendations"`
	HighPriority    []string `json:"high_priority"`
	MissingVariants []string `json:"missing_variants"`
	Gaps            int      `json:"n_gaps"`
}

// Summarize builds the display summary. High-priority nutrients are those
// with critical or high recommendation priority.
func (r *Report) Summarize() Summary {
	s := Summary{
		SessionID:       r.SessionID,
		ScoredPairs:     len(r.Results),
		MissingVariants: r.MissingVariants,
		Gaps:            len(r.Gaps),
		HighPriority:    make([]string, 0),
	}

	for _, rec := range r.Recommendations() {
		s.Recommendations++
		if recommend.PriorityRank(rec.Priority) >= recommend.PriorityRank("high") {
			s.HighPriority = append(s.HighPriority, rec.Nutrient)
		}
	}

	return s
}
