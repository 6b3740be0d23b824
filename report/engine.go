package report

import (
	"errors"
	"fmt"

	"github.com/carbocation/pfx"

	"github.com/nutrigene/genorisk/genotype"
	"github.com/nutrigene/genorisk/kb"
	"github.com/nutrigene/genorisk/recommend"
	"github.com/nutrigene/genorisk/score"
)

// Engine scores genetic profiles against one immutable reference catalog.
// An Engine is safe for concurrent use: each Generate call is a pure
// computation over its inputs and the shared read-only catalog.
type Engine struct {
	catalog *kb.Catalog
}

// NewEngine builds an engine over an integrity-checked catalog. Catalog
// construction is the only place a structural reference-data problem can
// surface; once an engine exists, no request can fail on catalog state.
func NewEngine(c *kb.Catalog) (*Engine, error) {
	if c == nil {
		return nil, pfx.Err(errors.New("engine requires a catalog"))
	}

	return &Engine{catalog: c}, nil
}

// Catalog exposes the engine's reference catalog.
func (e *Engine) Catalog() *kb.Catalog {
	return e.catalog
}

// Generate produces the complete risk report for one profile and
// demographic context. Per-variant and per-pair data problems are
// recovered locally and surface as gaps; Generate itself only fails on a
// nil profile or assembler misuse, never on profile content.
func (e *Engine) Generate(profile *genotype.Profile, age int, sex kb.Sex) (*Report, error) {
	if profile == nil {
		return nil, pfx.Err(errors.New("nil profile"))
	}

	calls, missing := genotype.Normalize(profile, e.catalog)

	asm := newAssembler(profile.ID, profile.Population)

	for _, pair := range e.catalog.Pairs() {
		result, issues := score.Evaluate(e.catalog, pair, calls)

		gaps := issueGaps(pair, issues)

		if result == nil {
			gaps = append(gaps, Gap{
				Kind:   GapMissingPair,
				Trait:  pair.Trait,
				Detail: "no usable genotype observations",
			})
			if err := asm.addGaps(gaps...); err != nil {
				return nil, pfx.Err(err)
			}
			continue
		}

		gaps = append(gaps, missingVariantGaps(e.catalog, pair, calls)...)

		res := PairResult{
			Trait:    pair.Trait,
			GeneKey:  pair.GeneKey,
			Nutrient: pair.Nutrient,
			Score:    result,
		}

		rec, err := recommend.Select(e.catalog, pair, result, age, sex)
		if err != nil {
			var oor recommend.DemographicOutOfRangeError
			if !errors.As(err, &oor) {
				return nil, pfx.Err(err)
			}
			gaps = append(gaps, Gap{Kind: GapDemographic, Trait: pair.Trait, Detail: oor.Error()})
		} else {
			res.Recommendation = rec
		}

		if err := asm.addResult(res); err != nil {
			return nil, pfx.Err(err)
		}
		if err := asm.addGaps(gaps...); err != nil {
			return nil, pfx.Err(err)
		}
	}

	return asm.complete(missing)
}

// issueGaps converts the scorers' recoverable errors into gap records.
func issueGaps(pair kb.Pair, issues []error) []Gap {
	gaps := make([]Gap, 0, len(issues))

	for _, err := range issues {
		var inconsistent score.GenotypeInconsistencyError
		var unresolvable score.UnresolvableCompoundGenotypeError

		switch {
		case errors.As(err, &inconsistent):
			gaps = append(gaps, Gap{
				Kind:   GapInconsistentGenotype,
				Trait:  pair.Trait,
				RsID:   inconsistent.RsID,
				Detail: inconsistent.Error(),
			})
		case errors.As(err, &unresolvable):
			gaps = append(gaps, Gap{
				Kind:   GapUnresolvableCompound,
				Trait:  pair.Trait,
				Detail: unresolvable.Error(),
			})
		default:
			gaps = append(gaps, Gap{Trait: pair.Trait, Detail: fmt.Sprintf("dropped: %v", err)})
		}
	}

	return gaps
}

// missingVariantGaps records the unobserved variants of a pair that was
// still scored from partial evidence.
func missingVariantGaps(c *kb.Catalog, pair kb.Pair, calls map[string]genotype.Genotype) []Gap {
	gaps := make([]Gap, 0)

	for _, vid := range pair.VariantIDs {
		v, _ := c.Variant(vid)
		if _, observed := calls[v.RsID]; !observed {
			gaps = append(gaps, Gap{Kind: GapMissingVariant, Trait: pair.Trait, RsID: v.RsID})
		}
	}

	return gaps
}
