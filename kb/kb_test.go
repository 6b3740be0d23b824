package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig is a minimal valid catalog: one single-variant pair with full
// rule and reference-intake coverage.
func testConfig() Config {
	rule := Rule{DRIMultiplier: 1.0, Description: "ok", Supplementation: "Not applicable", Priority: "low"}

	return Config{
		Genes: []Gene{{Symbol: "GENE1", Name: "Gene one"}},
		Variants: []Variant{
			{
				ID:               "V1",
				RsID:             "rs1",
				Gene:             "GENE1",
				Chromosome:       "1",
				Position:         100,
				RiskAllele:       "T",
				ProtectiveAllele: "C",
				Evidence:         EvidenceA,
				Effect:           EffectSize{Value: 0.30, CILower: 0.22, CIUpper: 0.38},
				Freq:             map[string]float64{ReferencePopulation: 0.369},
			},
		},
		Pairs: []Pair{
			{
				Trait:       "trait1",
				GeneKey:     "GENE1",
				Nutrient:    "folate",
				Mode:        ModeAdditiveSingle,
				VariantIDs:  []string{"V1"},
				MinVariants: 1,
				Baseline:    TierLow,
				Thresholds:  DefaultThresholds(),
				RuleKey:     "GENE1",
			},
		},
		Rules: map[string]RuleSet{
			"GENE1": {
				Nutrient: "folate",
				Tiers:    map[Tier]Rule{TierLow: rule, TierModerate: rule, TierHigh: rule},
			},
		},
		DRI: []DRIRow{
			{Nutrient: "folate", Sex: SexAny, AgeGroup: AgeGroup18to49, Value: 400, Unit: "ug DFE/day"},
		},
	}
}

func TestNewComputesScoreMoments(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	v, ok := c.Variant("V1")
	require.True(t, ok)

	// p=0.369, beta=0.30 under Hardy-Weinberg equilibrium
	assert.InDelta(t, 0.2214, v.ScoreMean, 1e-9)
	assert.InDelta(t, 0.04191102, v.ScoreVariance, 1e-9)
}

func TestNewRejectsBrokenReferenceData(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{
			name: "pair references unknown variant",
			mutate: func(cfg *Config) {
				cfg.Pairs[0].VariantIDs = []string{"V_MISSING"}
			},
		},
		{
			name: "variant with unknown gene",
			mutate: func(cfg *Config) {
				cfg.Variants[0].Gene = "NOPE"
			},
		},
		{
			name: "missing reference-population frequency",
			mutate: func(cfg *Config) {
				cfg.Variants[0].Freq = map[string]float64{"han_chinese_north": 0.4}
			},
		},
		{
			name: "frequency outside (0,1)",
			mutate: func(cfg *Config) {
				cfg.Variants[0].Freq[ReferencePopulation] = 1.0
			},
		},
		{
			name: "effect outside its confidence interval",
			mutate: func(cfg *Config) {
				cfg.Variants[0].Effect = EffectSize{Value: 0.5, CILower: 0.1, CIUpper: 0.3}
			},
		},
		{
			name: "identical risk and protective alleles",
			mutate: func(cfg *Config) {
				cfg.Variants[0].ProtectiveAllele = cfg.Variants[0].RiskAllele
			},
		},
		{
			name: "duplicate variant id",
			mutate: func(cfg *Config) {
				dup := cfg.Variants[0]
				dup.RsID = "rs2"
				cfg.Variants = append(cfg.Variants, dup)
			},
		},
		{
			name: "duplicate rsID",
			mutate: func(cfg *Config) {
				dup := cfg.Variants[0]
				dup.ID = "V2"
				cfg.Variants = append(cfg.Variants, dup)
			},
		},
		{
			name: "min variants out of range",
			mutate: func(cfg *Config) {
				cfg.Pairs[0].MinVariants = 2
			},
		},
		{
			name: "unknown scoring mode",
			mutate: func(cfg *Config) {
				cfg.Pairs[0].Mode = "majority-vote"
			},
		},
		{
			name: "unknown compound table",
			mutate: func(cfg *Config) {
				cfg.Pairs[0].Mode = ModeCompoundCategorical
				cfg.Pairs[0].CompoundKey = "nope"
			},
		},
		{
			name: "thresholds not ascending",
			mutate: func(cfg *Config) {
				cfg.Pairs[0].Thresholds = []TierThreshold{
					{Tier: TierModerate, Min: 0.5},
					{Tier: TierHigh, Min: -0.5},
				}
			},
		},
		{
			name: "missing rule set",
			mutate: func(cfg *Config) {
				cfg.Pairs[0].RuleKey = "NOPE"
			},
		},
		{
			name: "rule set nutrient mismatch",
			mutate: func(cfg *Config) {
				rs := cfg.Rules["GENE1"]
				rs.Nutrient = "iron"
				cfg.Rules["GENE1"] = rs
			},
		},
		{
			name: "rule set missing a tier",
			mutate: func(cfg *Config) {
				delete(cfg.Rules["GENE1"].Tiers, TierHigh)
			},
		},
		{
			name: "nutrient without reference-intake rows",
			mutate: func(cfg *Config) {
				cfg.DRI[0].Nutrient = "iron"
			},
		},
		{
			name: "nonpositive reference intake",
			mutate: func(cfg *Config) {
				cfg.DRI[0].Value = 0
			},
		},
		{
			name: "duplicate reference-intake row",
			mutate: func(cfg *Config) {
				cfg.DRI = append(cfg.DRI, cfg.DRI[0])
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := testConfig()
			c.mutate(&cfg)

			_, err := New(cfg)
			require.Error(t, err)
			assert.IsType(t, IntegrityError{}, err)
		})
	}
}

func TestFrequencyFallback(t *testing.T) {
	cfg := testConfig()
	cfg.Variants[0].Freq["han_chinese_north"] = 0.448

	c, err := New(cfg)
	require.NoError(t, err)

	f, ok := c.Frequency("V1", "han_chinese_north")
	require.True(t, ok)
	assert.Equal(t, 0.448, f)

	// Unlisted subpopulation falls back to the reference population
	f, ok = c.Frequency("V1", "han_chinese_south")
	require.True(t, ok)
	assert.Equal(t, 0.369, f)

	_, ok = c.Frequency("V_MISSING", ReferencePopulation)
	assert.False(t, ok)
}

func TestParseSex(t *testing.T) {
	cases := []struct {
		input   string
		want    Sex
		wantErr bool
	}{
		{input: "male", want: SexMale},
		{input: " Female ", want: SexFemale},
		{input: "unknown", want: SexUnknown},
		{input: "", want: SexUnknown},
		{input: "any", wantErr: true},
		{input: "m", wantErr: true},
	}

	for _, c := range cases {
		got, err := ParseSex(c.input)
		if c.wantErr {
			assert.Error(t, err, "input %q", c.input)
			continue
		}
		require.NoError(t, err, "input %q", c.input)
		assert.Equal(t, c.want, got, "input %q", c.input)
	}
}
