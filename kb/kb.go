// Package kb holds the gene-nutrient reference catalog: variant
// definitions, effect sizes, population allele frequencies, gene metadata,
// pair definitions, recommendation rule sets, and dietary reference-intake
// tables. A Catalog is built once, checked for integrity, and read-only
// thereafter, so it may be shared by concurrent scoring requests without
// synchronization.
package kb

import (
	"fmt"
	"strings"

	"github.com/nutrigene/genorisk/genotype"
	"github.com/nutrigene/genorisk/hwe"
)

// ReferencePopulation is the population whose allele frequencies calibrate
// standardization. Finer-grained subpopulation frequencies may be present
// but are informational.
const ReferencePopulation = "east_asian"

// EvidenceLevel grades the literature support behind a variant-nutrient
// association. A=strong RCT, B=cohort, C=cross-sectional, D=expert opinion.
type EvidenceLevel string

const (
	EvidenceA EvidenceLevel = "A"
	EvidenceB EvidenceLevel = "B"
	EvidenceC EvidenceLevel = "C"
	EvidenceD EvidenceLevel = "D"
)

// ScoringMode selects the algorithm a pair is scored with.
type ScoringMode string

const (
	ModeAdditiveSingle      ScoringMode = "additive-single"
	ModeAdditivePolygenic   ScoringMode = "additive-polygenic"
	ModeCompoundCategorical ScoringMode = "compound-categorical"
)

// Tier is an ordinal risk category.
type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
)

// Sex is the caller-supplied demographic sex. SexAny only appears on
// reference-intake rows that apply to either sex.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
	SexAny     Sex = "any"
)

// ParseSex normalizes a caller-supplied sex string. An empty value is
// treated as unspecified.
func ParseSex(s string) (Sex, error) {
	switch Sex(strings.ToLower(strings.TrimSpace(s))) {
	case SexMale:
		return SexMale, nil
	case SexFemale:
		return SexFemale, nil
	case SexUnknown, Sex(""):
		return SexUnknown, nil
	}

	return SexUnknown, fmt.Errorf("sex %q: expected male, female, or unknown", s)
}

// EffectSize is the per-risk-allele effect under the additive model, with
// its 95% confidence interval. Direction is encoded by sign.
type EffectSize struct {
	Value      float64 `yaml:"value"`
	CILower    float64 `yaml:"ci_lower"`
	CIUpper    float64 `yaml:"ci_upper"`
	Unit       string  `yaml:"unit"`
	Population string  `yaml:"population"`
}

// Variant is one supported SNP: identity, alleles, effect size, and
// population allele frequencies, plus the precomputed population moments of
// its additive risk contribution.
type Variant struct {
	ID               string
	RsID             string
	Gene             string
	Chromosome       string
	Position         uint32
	RiskAllele       genotype.Allele
	ProtectiveAllele genotype.Allele
	Evidence         EvidenceLevel
	PubMedIDs        []string
	Effect           EffectSize
	Freq             map[string]float64

	// Population mean and variance of dosage × effect size under
	// Hardy-Weinberg equilibrium at the reference-population frequency.
	ScoreMean     float64
	ScoreVariance float64
}

// Frequency returns the risk-allele frequency for the named population,
// falling back to the reference population when no finer-grained entry
// exists.
func (v *Variant) Frequency(population string) (float64, bool) {
	if f, ok := v.Freq[population]; ok {
		return f, true
	}

	f, ok := v.Freq[ReferencePopulation]

	return f, ok
}

// TierThreshold is one ascending tier boundary: scores at or above Min
// classify as Tier (inclusive lower bound).
type TierThreshold struct {
	Tier Tier
	Min  float64
}

// DefaultThresholds are the standard z-score boundaries shared by the
// shipped pairs: below -0.5 is baseline, [-0.5, 0.5) moderate, >= 0.5 high.
func DefaultThresholds() []TierThreshold {
	return []TierThreshold{
		{Tier: TierModerate, Min: -0.5},
		{Tier: TierHigh, Min: 0.5},
	}
}

// Pair binds one supported trait to its governing variants, scoring mode,
// tier boundaries, and recommendation rule set.
type Pair struct {
	Trait       string
	GeneKey     string
	Nutrient    string
	Mode        ScoringMode
	VariantIDs  []string
	MinVariants int
	Baseline    Tier
	Thresholds  []TierThreshold
	RuleKey     string

	// CompoundKey names a registered compound resolution table; only set
	// when Mode is ModeCompoundCategorical.
	CompoundKey string
}

// Rule is the tier-specific dietary adjustment within a rule set.
type Rule struct {
	DRIMultiplier   float64  `yaml:"dri_multiplier"`
	Description     string   `yaml:"description"`
	Supplementation string   `yaml:"supplementation"`
	FoodSources     []string `yaml:"food_sources"`
	Priority        string   `yaml:"priority"`
}

// RuleSet holds the per-tier recommendation rules for one gene key.
type RuleSet struct {
	Nutrient string        `yaml:"nutrient"`
	Tiers    map[Tier]Rule `yaml:"tiers"`
}

// Gene is descriptive metadata for a gene symbol.
type Gene struct {
	Symbol   string
	Name     string `yaml:"name"`
	Function string `yaml:"function"`
}

// IntegrityError reports structurally broken reference data. It is the one
// fatal error class: it aborts catalog (and therefore engine) construction
// before any request is accepted.
type IntegrityError struct {
	Detail string
}

func (e IntegrityError) Error() string {
	return fmt.Sprintf("catalog integrity: %s", e.Detail)
}

// Config is the fully parsed input to New. The loading layer (or a test)
// produces one of these; the catalog itself never touches files.
type Config struct {
	Variants []Variant
	Genes    []Gene
	Pairs    []Pair
	Rules    map[string]RuleSet
	DRI      []DRIRow
}

// Catalog is the immutable reference catalog.
type Catalog struct {
	variantsByID   map[string]*Variant
	variantsByRsID map[string]*Variant
	pairs          []Pair
	genes          map[string]Gene
	rules          map[string]RuleSet
	dri            *DRITable
	trackedRsIDs   []string
}

// New builds and integrity-checks a catalog. Any IntegrityError here is
// fatal: broken reference data must never serve requests.
func New(cfg Config) (*Catalog, error) {
	c := &Catalog{
		variantsByID:   make(map[string]*Variant, len(cfg.Variants)),
		variantsByRsID: make(map[string]*Variant, len(cfg.Variants)),
		pairs:          make([]Pair, len(cfg.Pairs)),
		genes:          make(map[string]Gene, len(cfg.Genes)),
		rules:          make(map[string]RuleSet, len(cfg.Rules)),
	}

	for _, g := range cfg.Genes {
		c.genes[g.Symbol] = g
	}

	for i := range cfg.Variants {
		v := cfg.Variants[i]

		if _, dup := c.variantsByID[v.ID]; dup {
			return nil, IntegrityError{Detail: fmt.Sprintf("duplicate variant id %s", v.ID)}
		}
		if _, dup := c.variantsByRsID[v.RsID]; dup {
			return nil, IntegrityError{Detail: fmt.Sprintf("duplicate rsID %s", v.RsID)}
		}

		if err := checkVariant(&v, c.genes); err != nil {
			return nil, err
		}

		p := v.Freq[ReferencePopulation]
		v.ScoreMean, v.ScoreVariance = hwe.ScoreMoments(p, v.Effect.Value)

		c.variantsByID[v.ID] = &v
		c.variantsByRsID[v.RsID] = &v
	}

	copy(c.pairs, cfg.Pairs)
	tracked := make(map[string]bool)
	for i := range c.pairs {
		if err := c.checkPair(&c.pairs[i], cfg); err != nil {
			return nil, err
		}

		for _, vid := range c.pairs[i].VariantIDs {
			rsid := c.variantsByID[vid].RsID
			if !tracked[rsid] {
				tracked[rsid] = true
				c.trackedRsIDs = append(c.trackedRsIDs, rsid)
			}
		}
	}

	for key, rs := range cfg.Rules {
		c.rules[key] = rs
	}

	dri, err := NewDRITable(cfg.DRI)
	if err != nil {
		return nil, err
	}
	c.dri = dri

	for _, pair := range c.pairs {
		if !c.dri.HasNutrient(pair.Nutrient) {
			return nil, IntegrityError{Detail: fmt.Sprintf("pair %s: nutrient %s has no reference-intake rows", pair.Trait, pair.Nutrient)}
		}
	}

	return c, nil
}

func checkVariant(v *Variant, genes map[string]Gene) error {
	if v.ID == "" || v.RsID == "" {
		return IntegrityError{Detail: "variant with empty identifier"}
	}
	if _, ok := genes[v.Gene]; !ok {
		return IntegrityError{Detail: fmt.Sprintf("variant %s: unknown gene %s", v.ID, v.Gene)}
	}
	if v.RiskAllele == v.ProtectiveAllele {
		return IntegrityError{Detail: fmt.Sprintf("variant %s: risk and protective alleles are identical", v.ID)}
	}

	p, ok := v.Freq[ReferencePopulation]
	if !ok {
		return IntegrityError{Detail: fmt.Sprintf("variant %s: missing %s allele frequency", v.ID, ReferencePopulation)}
	}
	if p <= 0 || p >= 1 {
		return IntegrityError{Detail: fmt.Sprintf("variant %s: allele frequency %v outside (0, 1)", v.ID, p)}
	}

	if v.Effect.CILower > v.Effect.Value || v.Effect.CIUpper < v.Effect.Value {
		return IntegrityError{Detail: fmt.Sprintf("variant %s: effect size %v outside its own confidence interval [%v, %v]", v.ID, v.Effect.Value, v.Effect.CILower, v.Effect.CIUpper)}
	}

	return nil
}

func (c *Catalog) checkPair(pair *Pair, cfg Config) error {
	if len(pair.VariantIDs) == 0 {
		return IntegrityError{Detail: fmt.Sprintf("pair %s: no variants", pair.Trait)}
	}

	for _, vid := range pair.VariantIDs {
		if _, ok := c.variantsByID[vid]; !ok {
			return IntegrityError{Detail: fmt.Sprintf("pair %s: references unknown variant %s", pair.Trait, vid)}
		}
	}

	if pair.MinVariants < 1 || pair.MinVariants > len(pair.VariantIDs) {
		return IntegrityError{Detail: fmt.Sprintf("pair %s: min variants %d out of range", pair.Trait, pair.MinVariants)}
	}

	switch pair.Mode {
	case ModeAdditiveSingle:
		if len(pair.VariantIDs) != 1 {
			return IntegrityError{Detail: fmt.Sprintf("pair %s: single-variant mode with %d variants", pair.Trait, len(pair.VariantIDs))}
		}
	case ModeAdditivePolygenic:
	case ModeCompoundCategorical:
		table, ok := CompoundTables[pair.CompoundKey]
		if !ok {
			return IntegrityError{Detail: fmt.Sprintf("pair %s: unknown compound table %q", pair.Trait, pair.CompoundKey)}
		}
		if len(pair.VariantIDs) != len(table.RsIDs) {
			return IntegrityError{Detail: fmt.Sprintf("pair %s: compound table %s needs %d variants, pair has %d", pair.Trait, pair.CompoundKey, len(table.RsIDs), len(pair.VariantIDs))}
		}
		for i, vid := range pair.VariantIDs {
			if c.variantsByID[vid].RsID != table.RsIDs[i] {
				return IntegrityError{Detail: fmt.Sprintf("pair %s: variant %s does not match compound table position %d (%s)", pair.Trait, vid, i, table.RsIDs[i])}
			}
		}
		if err := table.check(pair.CompoundKey); err != nil {
			return err
		}
	default:
		return IntegrityError{Detail: fmt.Sprintf("pair %s: unknown scoring mode %q", pair.Trait, pair.Mode)}
	}

	if pair.Baseline == "" {
		return IntegrityError{Detail: fmt.Sprintf("pair %s: no baseline tier", pair.Trait)}
	}
	for i := 1; i < len(pair.Thresholds); i++ {
		if pair.Thresholds[i].Min <= pair.Thresholds[i-1].Min {
			return IntegrityError{Detail: fmt.Sprintf("pair %s: tier thresholds not strictly ascending", pair.Trait)}
		}
	}

	rs, ok := cfg.Rules[pair.RuleKey]
	if !ok {
		return IntegrityError{Detail: fmt.Sprintf("pair %s: missing recommendation rules %q", pair.Trait, pair.RuleKey)}
	}
	if rs.Nutrient != pair.Nutrient {
		return IntegrityError{Detail: fmt.Sprintf("pair %s: rule set %s covers nutrient %s, pair expects %s", pair.Trait, pair.RuleKey, rs.Nutrient, pair.Nutrient)}
	}
	if _, ok := rs.Tiers[pair.Baseline]; !ok {
		return IntegrityError{Detail: fmt.Sprintf("pair %s: rule set %s has no %s tier", pair.Trait, pair.RuleKey, pair.Baseline)}
	}
	for _, th := range pair.Thresholds {
		if _, ok := rs.Tiers[th.Tier]; !ok {
			return IntegrityError{Detail: fmt.Sprintf("pair %s: rule set %s has no %s tier", pair.Trait, pair.RuleKey, th.Tier)}
		}
	}

	return nil
}

// Pairs returns the pair definitions in catalog order.
func (c *Catalog) Pairs() []Pair {
	out := make([]Pair, len(c.pairs))
	copy(out, c.pairs)

	return out
}

// PairsByGene returns the pair definitions bound to a gene key, in
// catalog order.
func (c *Catalog) PairsByGene(geneKey string) []Pair {
	out := make([]Pair, 0)
	for _, pair := range c.pairs {
		if pair.GeneKey == geneKey {
			out = append(out, pair)
		}
	}

	return out
}

// Variant returns a variant definition by its catalog identifier
// (e.g. "MTHFR_C677T").
func (c *Catalog) Variant(id string) (*Variant, bool) {
	v, ok := c.variantsByID[id]

	return v, ok
}

// VariantByRsID returns a variant definition by rsID.
func (c *Catalog) VariantByRsID(rsid string) (*Variant, bool) {
	v, ok := c.variantsByRsID[rsid]

	return v, ok
}

// VariantsByGene returns all variant definitions for a gene symbol, in
// catalog order.
func (c *Catalog) VariantsByGene(gene string) []*Variant {
	out := make([]*Variant, 0)
	for _, rsid := range c.trackedRsIDs {
		if v := c.variantsByRsID[rsid]; v.Gene == gene {
			out = append(out, v)
		}
	}

	return out
}

// TrackedRsIDs returns every supported rsID, in catalog order.
func (c *Catalog) TrackedRsIDs() []string {
	out := make([]string, len(c.trackedRsIDs))
	copy(out, c.trackedRsIDs)

	return out
}

// GeneInfo returns metadata for a gene symbol.
func (c *Catalog) GeneInfo(symbol string) (Gene, bool) {
	g, ok := c.genes[symbol]

	return g, ok
}

// Rules returns the recommendation rule set for a rule key.
func (c *Catalog) Rules(key string) (RuleSet, bool) {
	rs, ok := c.rules[key]

	return rs, ok
}

// Frequency returns a variant's risk-allele frequency in the named
// population, with reference-population fallback.
func (c *Catalog) Frequency(variantID, population string) (float64, bool) {
	v, ok := c.variantsByID[variantID]
	if !ok {
		return 0, false
	}

	return v.Frequency(population)
}

// DRI returns the nutrient reference-intake table.
func (c *Catalog) DRI() *DRITable {
	return c.dri
}

// PairCount returns the number of gene-nutrient pairs.
func (c *Catalog) PairCount() int {
	return len(c.pairs)
}

// VariantCount returns the number of supported variants.
func (c *Catalog) VariantCount() int {
	return len(c.variantsByID)
}

// GeneCount returns the number of genes with metadata.
func (c *Catalog) GeneCount() int {
	return len(c.genes)
}
