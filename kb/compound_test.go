package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrigene/genorisk/genotype"
)

func TestComboKeyCanonicalizesAlleleOrder(t *testing.T) {
	a := ComboKey(genotype.NewGenotype("T", "C"), genotype.NewGenotype("C", "C"))
	b := ComboKey(genotype.NewGenotype("C", "T"), genotype.NewGenotype("C", "C"))

	assert.Equal(t, "CT|CC", a)
	assert.Equal(t, a, b)
}

func TestApoeEpsilonResolution(t *testing.T) {
	table := CompoundTables["apoe_epsilon"]
	require.NoError(t, table.check("apoe_epsilon"))

	cases := []struct {
		rs429358 string
		rs7412   string
		label    string
		level    int
	}{
		{rs429358: "TT", rs7412: "TT", label: "e2/e2", level: 0},
		{rs429358: "TT", rs7412: "CT", label: "e2/e3", level: 0},
		{rs429358: "TT", rs7412: "CC", label: "e3/e3", level: 0},
		{rs429358: "CT", rs7412: "CC", label: "e3/e4", level: 1},
		{rs429358: "CT", rs7412: "CT", label: "e2/e4", level: 1},
		{rs429358: "CC", rs7412: "CC", label: "e4/e4", level: 2},
	}

	for _, c := range cases {
		label, ok := table.Resolve(
			genotype.MustParseGenotype(c.rs429358),
			genotype.MustParseGenotype(c.rs7412),
		)
		require.True(t, ok, "%s|%s", c.rs429358, c.rs7412)
		assert.Equal(t, c.label, label)
		assert.Equal(t, c.level, table.RiskLevels[label])
	}

	// Biologically implausible joint genotype (e1 haplotype territory)
	_, ok := table.Resolve(
		genotype.MustParseGenotype("CC"),
		genotype.MustParseGenotype("TT"),
	)
	assert.False(t, ok)
}

func TestApoeLevelScores(t *testing.T) {
	table := CompoundTables["apoe_epsilon"]

	assert.Equal(t, -0.8, table.LevelScores[0])
	assert.Equal(t, 0.0, table.LevelScores[1])
	assert.Equal(t, 1.2, table.LevelScores[2])
}
