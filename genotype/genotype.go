// Package genotype models observed genotype calls: alleles, unordered
// allele pairs, per-variant observations, and whole genetic profiles.
package genotype

import (
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
)

// Allele is one of the two sequence variants at a biallelic site.
type Allele string

// Genotype is an unordered pair of allele calls at one site. The two fields
// are stored in lexical order so that "CT" and "TC" compare equal.
type Genotype struct {
	A1 Allele
	A2 Allele
}

// NewGenotype returns the canonical (lexically ordered) genotype for the
// two allele calls. Call order does not matter.
func NewGenotype(a1, a2 Allele) Genotype {
	if a2 < a1 {
		a1, a2 = a2, a1
	}

	return Genotype{A1: a1, A2: a2}
}

// ParseGenotype parses a genotype string such as "CT" or "C/T". The allele
// order in the input is not significant.
func ParseGenotype(s string) (Genotype, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("/", "", "|", "", ",", "").Replace(s)

	if len(s) != 2 {
		return Genotype{}, pfx.Err(fmt.Errorf("genotype %q: expected exactly 2 allele calls", s))
	}

	for _, c := range s {
		switch c {
		case 'A', 'C', 'G', 'T':
		default:
			return Genotype{}, pfx.Err(fmt.Errorf("genotype %q: allele %q is not a nucleotide", s, string(c)))
		}
	}

	return NewGenotype(Allele(s[0:1]), Allele(s[1:2])), nil
}

// MustParseGenotype is ParseGenotype for static test and table data.
func MustParseGenotype(s string) Genotype {
	g, err := ParseGenotype(s)
	if err != nil {
		panic(err)
	}

	return g
}

func (g Genotype) String() string {
	return string(g.A1) + string(g.A2)
}

// Count returns how many of the two allele calls match a.
func (g Genotype) Count(a Allele) int {
	n := 0
	if g.A1 == a {
		n++
	}
	if g.A2 == a {
		n++
	}

	return n
}

// ConsistentWith reports whether both allele calls are drawn from the
// site's two reference alleles.
func (g Genotype) ConsistentWith(a1, a2 Allele) bool {
	return (g.A1 == a1 || g.A1 == a2) && (g.A2 == a1 || g.A2 == a2)
}

// Zygosity classifies a genotype relative to a site's risk allele.
type Zygosity string

const (
	HomozygousRisk       Zygosity = "homozygous_risk"
	Heterozygous         Zygosity = "heterozygous"
	HomozygousProtective Zygosity = "homozygous_protective"
	ZygosityUnknown      Zygosity = "unknown"
)

// ZygosityOf classifies g against the designated risk allele. Genotypes
// carrying alleles other than risk/protective classify as unknown.
func ZygosityOf(g Genotype, risk, protective Allele) Zygosity {
	if !g.ConsistentWith(risk, protective) {
		return ZygosityUnknown
	}

	switch g.Count(risk) {
	case 2:
		return HomozygousRisk
	case 1:
		return Heterozygous
	}

	return HomozygousProtective
}
