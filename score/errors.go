package score

import (
	"fmt"

	"github.com/nutrigene/genorisk/genotype"
)

// GenotypeInconsistencyError reports a called genotype whose alleles do not
// both belong to the variant's reference alleles. The affected variant's
// contribution is dropped and the pair's confidence downgraded; it never
// aborts a request.
type GenotypeInconsistencyError struct {
	RsID             string
	Genotype         genotype.Genotype
	RiskAllele       genotype.Allele
	ProtectiveAllele genotype.Allele
}

func (e GenotypeInconsistencyError) Error() string {
	return fmt.Sprintf("genotype %s at %s is inconsistent with reference alleles %s/%s",
		e.Genotype, e.RsID, e.RiskAllele, e.ProtectiveAllele)
}

// UnresolvableCompoundGenotypeError reports a joint genotype combination
// absent from a compound pair's resolution table. The pair is reported as a
// gap, never silently defaulted to the population-typical label.
type UnresolvableCompoundGenotypeError struct {
	Trait string
	Key   string
}

func (e UnresolvableCompoundGenotypeError) Error() string {
	return fmt.Sprintf("compound genotype %s for %s is not in the resolution table", e.Key, e.Trait)
}
