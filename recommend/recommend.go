// Package recommend selects calibrated dietary targets: it matches the
// caller's demographics to a reference-intake row and applies the
// tier-specific adjustment from the pair's recommendation rule set.
package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/nutrigene/genorisk/kb"
	"github.com/nutrigene/genorisk/score"
)

// DemographicOutOfRangeError reports that no reference-intake row matches
// the caller's age and sex for a pair's nutrient. The pair's
// recommendation is omitted and recorded as a gap; the request continues.
type DemographicOutOfRangeError struct {
	Nutrient string
	Age      int
	Sex      kb.Sex
}

func (e DemographicOutOfRangeError) Error() string {
	return fmt.Sprintf("no reference intake for %s matches age %d, sex %s", e.Nutrient, e.Age, e.Sex)
}

// Calibration records which reference-intake row produced a target.
type Calibration struct {
	Nutrient string `json:"nutrient"`
	Sex      kb.Sex `json:"sex"`
	AgeGroup string `json:"age_group"`
}

// Recommendation is the tier-adjusted dietary target for one pair.
type Recommendation struct {
	Trait       string           `json:"trait"`
	Nutrient    string           `json:"nutrient"`
	BaselineDRI float64          `json:"baseline_dri"`
	Target      float64          `json:"recommended_intake"`
	Unit        string           `json:"unit"`
	Rationale   string           `json:"adjustment_reason"`
	FoodSources []string         `json:"food_sources"`
	Priority    string           `json:"priority"`
	Evidence    kb.EvidenceLevel `json:"evidence_level"`
	Calibration Calibration      `json:"calibration"`
}

// Select derives the recommendation for a scored pair. Unknown sex falls
// back to a sex-neutral reference row when the intake table defines one;
// otherwise, or when age falls outside every defined bucket, Select fails
// with DemographicOutOfRangeError.
func Select(c *kb.Catalog, pair kb.Pair, result *score.RiskScore, age int, sex kb.Sex) (*Recommendation, error) {
	rules, _ := c.Rules(pair.RuleKey)
	rule := rules.Tiers[result.Tier]

	ageGroup, ok := kb.AgeGroupFor(age)
	if !ok {
		return nil, DemographicOutOfRangeError{Nutrient: pair.Nutrient, Age: age, Sex: sex}
	}

	row, ok := c.DRI().Lookup(pair.Nutrient, sex, ageGroup)
	if !ok {
		return nil, DemographicOutOfRangeError{Nutrient: pair.Nutrient, Age: age, Sex: sex}
	}

	return &Recommendation{
		Trait:       pair.Trait,
		Nutrient:    pair.Nutrient,
		BaselineDRI: row.Value,
		Target:      round1(row.Value * rule.DRIMultiplier),
		Unit:        row.Unit,
		Rationale:   rationale(rule),
		FoodSources: rule.FoodSources,
		Priority:    rule.Priority,
		Evidence:    evidenceFor(result.Confidence),
		Calibration: Calibration{Nutrient: row.Nutrient, Sex: row.Sex, AgeGroup: row.AgeGroup},
	}, nil
}

func rationale(rule kb.Rule) string {
	if rule.Supplementation == "" || strings.EqualFold(rule.Supplementation, "Not applicable") {
		return rule.Description
	}

	return rule.Description + " " + rule.Supplementation
}

func evidenceFor(c score.Confidence) kb.EvidenceLevel {
	switch c {
	case score.ConfidenceHigh:
		return kb.EvidenceA
	case score.ConfidenceMedium:
		return kb.EvidenceB
	}

	return kb.EvidenceC
}

// PriorityRank orders priorities for presentation, highest urgency first.
func PriorityRank(priority string) int {
	switch priority {
	case "critical":
		return 4
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	}

	return 0
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
