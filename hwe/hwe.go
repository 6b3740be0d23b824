// Package hwe provides expectations under Hardy-Weinberg equilibrium for a
// biallelic site with known risk-allele frequency. The scoring engine uses
// these moments to standardize additive risk contributions against a
// reference population.
package hwe

// GenotypeFreqs returns the expected population frequencies of the
// homozygous-risk (AA), heterozygous (Aa), and homozygous-protective (aa)
// genotypes for risk-allele frequency p.
func GenotypeFreqs(p float64) (AA, Aa, aa float64) {
	q := 1 - p

	return p * p, 2 * p * q, q * q
}

// DosageMean returns the expected risk-allele dosage (0, 1, or 2 copies)
// at a site with risk-allele frequency p.
func DosageMean(p float64) float64 {
	return 2 * p
}

// DosageVariance returns the variance of the risk-allele dosage at a site
// with risk-allele frequency p.
func DosageVariance(p float64) float64 {
	return 2 * p * (1 - p)
}

// ScoreMoments returns the population mean and variance of the additive
// risk contribution (dosage × beta) for a site with risk-allele frequency p
// and per-allele effect size beta.
func ScoreMoments(p, beta float64) (mean, variance float64) {
	return DosageMean(p) * beta, DosageVariance(p) * beta * beta
}
