package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrigene/genorisk/genotype"
	"github.com/nutrigene/genorisk/kb"
)

func pairByTrait(t *testing.T, c *kb.Catalog, trait string) kb.Pair {
	t.Helper()

	for _, pair := range c.Pairs() {
		if pair.Trait == trait {
			return pair
		}
	}

	t.Fatalf("no pair for trait %s", trait)

	return kb.Pair{}
}

func calls(pairs ...string) map[string]genotype.Genotype {
	out := make(map[string]genotype.Genotype, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out[pairs[i]] = genotype.MustParseGenotype(pairs[i+1])
	}

	return out
}

func TestEvaluateSingleVariant(t *testing.T) {
	c := builtinCatalog(t)
	pair := pairByTrait(t, c, "obesity")

	result, issues := Evaluate(c, pair, calls("rs9939609", "AA"))
	require.Empty(t, issues)
	require.NotNil(t, result)

	// FTO rs9939609: p=0.122, beta=0.39, homozygous risk
	assert.Equal(t, "obesity", result.Trait)
	assert.Equal(t, "FTO", result.GeneKey)
	assert.InDelta(t, 0.78, result.Raw, 1e-9)
	assert.InDelta(t, 3.7939, result.Z, 1e-4)
	assert.InDelta(t, 99.99, result.Percentile, 0.01)
	assert.Equal(t, kb.TierHigh, result.Tier)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Equal(t, []string{"rs9939609"}, result.RsIDsUsed())

	require.Len(t, result.Variants, 1)
	assert.Equal(t, 2, result.Variants[0].Dosage)
}

func TestEvaluatePolygenicSumsVariantScores(t *testing.T) {
	c := builtinCatalog(t)
	pair := pairByTrait(t, c, "folate_metabolism")

	result, issues := Evaluate(c, pair, calls(
		"rs1801133", "TT", // C677T homozygous risk: z 1.8493
		"rs1801131", "CC", // A1298C homozygous risk: z 3.1029
	))
	require.Empty(t, issues)
	require.NotNil(t, result)

	assert.InDelta(t, 0.84, result.Raw, 1e-9)
	assert.InDelta(t, 4.9522, result.Z, 1e-4)
	assert.Equal(t, kb.TierHigh, result.Tier)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Len(t, result.Variants, 2)
}

func TestEvaluatePolygenicPartial(t *testing.T) {
	c := builtinCatalog(t)
	pair := pairByTrait(t, c, "folate_metabolism")

	result, issues := Evaluate(c, pair, calls("rs1801133", "CT"))
	require.Empty(t, issues)
	require.NotNil(t, result)

	// With one of two variants the score reduces to the single-variant path
	assert.InDelta(t, 0.3839, result.Z, 1e-4)
	assert.Equal(t, kb.TierModerate, result.Tier)
	assert.Equal(t, ConfidencePartial, result.Confidence)
	assert.Equal(t, []string{"rs1801133"}, result.RsIDsUsed())
}

func TestEvaluateProtectiveGenotypeClassifiesLow(t *testing.T) {
	c := builtinCatalog(t)
	pair := pairByTrait(t, c, "folate_metabolism")

	result, issues := Evaluate(c, pair, calls(
		"rs1801133", "CC",
		"rs1801131", "AA",
	))
	require.Empty(t, issues)
	require.NotNil(t, result)

	assert.Equal(t, 0.0, result.Raw)
	assert.Less(t, result.Z, -0.5)
	assert.Equal(t, kb.TierLow, result.Tier)
}

func TestEvaluateNoObservations(t *testing.T) {
	c := builtinCatalog(t)
	pair := pairByTrait(t, c, "obesity")

	result, issues := Evaluate(c, pair, calls())
	assert.Nil(t, result)
	assert.Empty(t, issues)
}

func TestEvaluateInconsistentGenotype(t *testing.T) {
	c := builtinCatalog(t)
	pair := pairByTrait(t, c, "obesity")

	// FTO reference alleles are A/T
	result, issues := Evaluate(c, pair, calls("rs9939609", "CG"))
	assert.Nil(t, result)
	require.Len(t, issues, 1)

	var inconsistent GenotypeInconsistencyError
	require.ErrorAs(t, issues[0], &inconsistent)
	assert.Equal(t, "rs9939609", inconsistent.RsID)
}

func TestEvaluateInconsistentVariantDroppedFromPolygenic(t *testing.T) {
	c := builtinCatalog(t)
	pair := pairByTrait(t, c, "folate_metabolism")

	result, issues := Evaluate(c, pair, calls(
		"rs1801133", "CT",
		"rs1801131", "GG", // inconsistent; A1298C alleles are A/C
	))
	require.Len(t, issues, 1)
	require.NotNil(t, result)

	// Scored from the surviving variant only, at reduced confidence
	assert.Equal(t, []string{"rs1801133"}, result.RsIDsUsed())
	assert.Equal(t, ConfidencePartial, result.Confidence)
}

func TestEvaluateCompound(t *testing.T) {
	c := builtinCatalog(t)
	pair := pairByTrait(t, c, "lipid_metabolism")

	cases := []struct {
		name       string
		rs429358   string
		rs7412     string
		label      string
		z          float64
		tier       kb.Tier
		percentile float64
	}{
		{name: "e2/e2", rs429358: "TT", rs7412: "TT", label: "e2/e2", z: -0.8, tier: kb.TierLow, percentile: 21.19},
		{name: "e3/e3", rs429358: "TT", rs7412: "CC", label: "e3/e3", z: -0.8, tier: kb.TierLow, percentile: 21.19},
		{name: "e3/e4", rs429358: "CT", rs7412: "CC", label: "e3/e4", z: 0.0, tier: kb.TierModerate, percentile: 50.0},
		{name: "e4/e4", rs429358: "CC", rs7412: "CC", label: "e4/e4", z: 1.2, tier: kb.TierHigh, percentile: 88.49},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, issues := Evaluate(c, pair, calls("rs429358", tc.rs429358, "rs7412", tc.rs7412))
			require.Empty(t, issues)
			require.NotNil(t, result)

			assert.Equal(t, tc.label, result.Label)
			assert.InDelta(t, tc.z, result.Z, 1e-9)
			assert.Equal(t, tc.tier, result.Tier)
			assert.InDelta(t, tc.percentile, result.Percentile, 0.01)
			assert.Equal(t, ConfidenceHigh, result.Confidence)
		})
	}
}
