package kb

import (
	"fmt"
	"strings"

	"github.com/nutrigene/genorisk/genotype"
)

// CompoundTable resolves the joint genotypes of two or more physically
// distinct SNPs into a categorical label, and maps each label to a risk
// level with a representative standardized score. The label space is
// non-additive, so these pairs bypass the dosage formula entirely.
type CompoundTable struct {
	// RsIDs fixes the locus order for combination keys. The allele order
	// inside each genotype is canonicalized, so only the loci are ordered.
	RsIDs []string

	Labels      map[string]string
	RiskLevels  map[string]int
	LevelScores map[int]float64
}

// ComboKey builds the lookup key for one genotype per locus, given in the
// table's locus order. Each genotype is canonicalized first, so "TC" and
// "CT" calls produce the same key.
func ComboKey(genotypes ...genotype.Genotype) string {
	parts := make([]string, len(genotypes))
	for i, g := range genotypes {
		parts[i] = g.String()
	}

	return strings.Join(parts, "|")
}

// Resolve looks up the categorical label for the given genotypes.
func (ct CompoundTable) Resolve(genotypes ...genotype.Genotype) (label string, ok bool) {
	label, ok = ct.Labels[ComboKey(genotypes...)]

	return label, ok
}

func (ct CompoundTable) check(key string) error {
	if len(ct.RsIDs) < 2 {
		return IntegrityError{Detail: fmt.Sprintf("compound table %s: needs at least 2 loci", key)}
	}
	if len(ct.Labels) == 0 {
		return IntegrityError{Detail: fmt.Sprintf("compound table %s: empty resolution table", key)}
	}
	for _, label := range ct.Labels {
		level, ok := ct.RiskLevels[label]
		if !ok {
			return IntegrityError{Detail: fmt.Sprintf("compound table %s: label %s has no risk level", key, label)}
		}
		if _, ok := ct.LevelScores[level]; !ok {
			return IntegrityError{Detail: fmt.Sprintf("compound table %s: risk level %d has no score", key, level)}
		}
	}

	return nil
}

// CompoundTables registers the resolution tables compound pairs may
// reference by key.
var CompoundTables = map[string]CompoundTable{
	// The APOE epsilon alleles are defined jointly by rs429358 (T→C) and
	// rs7412 (C→T):
	//   e2: rs429358=T, rs7412=T
	//   e3: rs429358=T, rs7412=C  (reference, most common)
	//   e4: rs429358=C, rs7412=C
	// Keys use canonical genotypes in (rs429358, rs7412) locus order.
	"apoe_epsilon": {
		RsIDs: []string{"rs429358", "rs7412"},
		Labels: map[string]string{
			"TT|TT": "e2/e2",
			"TT|CT": "e2/e3",
			"TT|CC": "e3/e3",
			"CT|CC": "e3/e4",
			"CC|CC": "e4/e4",
			"CT|CT": "e2/e4",
		},
		RiskLevels: map[string]int{
			"e2/e2": 0,
			"e2/e3": 0,
			"e3/e3": 0,
			"e3/e4": 1,
			"e2/e4": 1,
			"e4/e4": 2,
		},
		LevelScores: map[int]float64{
			0: -0.8,
			1: 0.0,
			2: 1.2,
		},
	},
}
