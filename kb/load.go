package kb

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/nutrigene/genorisk/genotype"
)

//go:embed builtin/*
var builtinFS embed.FS

// Builtin returns the shipped reference catalog: 10 gene-nutrient pairs
// over 15 SNPs, calibrated for the East Asian population, embedded in the
// binary.
func Builtin() (*Catalog, error) {
	return loadFS(builtinFS, "builtin")
}

// LoadDir builds a catalog from a directory holding the same reference
// files the shipped catalog embeds: variants.yaml, genes.yaml,
// effect_sizes.yaml, allele_frequencies.yaml, pairs.yaml,
// recommendations.yaml, and dri.csv.
func LoadDir(dir string) (*Catalog, error) {
	return loadFS(os.DirFS(dir), ".")
}

type variantYAML struct {
	RsID             string   `yaml:"rsid"`
	Gene             string   `yaml:"gene"`
	Chromosome       string   `yaml:"chromosome"`
	Position         uint32   `yaml:"position"`
	RiskAllele       string   `yaml:"risk_allele"`
	ProtectiveAllele string   `yaml:"protective_allele"`
	Evidence         string   `yaml:"evidence_level"`
	PubMedIDs        []string `yaml:"pubmed_ids"`
}

type pairYAML struct {
	Trait       string   `yaml:"trait"`
	GeneKey     string   `yaml:"gene_key"`
	Nutrient    string   `yaml:"nutrient"`
	Mode        string   `yaml:"mode"`
	Variants    []string `yaml:"variants"`
	MinVariants int      `yaml:"min_variants"`
	RuleKey     string   `yaml:"rule_key"`
	CompoundKey string   `yaml:"compound_table"`
	Baseline    string   `yaml:"baseline"`
	Thresholds  []struct {
		Tier string  `yaml:"tier"`
		Min  float64 `yaml:"min"`
	} `yaml:"thresholds"`
}

type ruleSetYAML struct {
	Nutrient string          `yaml:"nutrient"`
	Tiers    map[string]Rule `yaml:"tiers"`
}

func loadFS(fsys fs.FS, dir string) (*Catalog, error) {
	var variants map[string]variantYAML
	if err := readYAML(fsys, path.Join(dir, "variants.yaml"), &variants); err != nil {
		return nil, err
	}

	var effects map[string]EffectSize
	if err := readYAML(fsys, path.Join(dir, "effect_sizes.yaml"), &effects); err != nil {
		return nil, err
	}

	var freqs map[string]map[string]float64
	if err := readYAML(fsys, path.Join(dir, "allele_frequencies.yaml"), &freqs); err != nil {
		return nil, err
	}

	var genes map[string]Gene
	if err := readYAML(fsys, path.Join(dir, "genes.yaml"), &genes); err != nil {
		return nil, err
	}

	var pairs []pairYAML
	if err := readYAML(fsys, path.Join(dir, "pairs.yaml"), &pairs); err != nil {
		return nil, err
	}

	var ruleSets map[string]ruleSetYAML
	if err := readYAML(fsys, path.Join(dir, "recommendations.yaml"), &ruleSets); err != nil {
		return nil, err
	}

	driRaw, err := fs.ReadFile(fsys, path.Join(dir, "dri.csv"))
	if err != nil {
		return nil, pfx.Err(err)
	}
	var driRows []DRIRow
	if err := gocsv.Unmarshal(bytes.NewReader(driRaw), &driRows); err != nil {
		return nil, pfx.Err(err)
	}

	cfg := Config{Rules: make(map[string]RuleSet, len(ruleSets)), DRI: driRows}

	for symbol, g := range genes {
		g.Symbol = symbol
		cfg.Genes = append(cfg.Genes, g)
	}

	for id, v := range variants {
		effect, ok := effects[id]
		if !ok {
			return nil, IntegrityError{Detail: fmt.Sprintf("missing effect size for variant %s", id)}
		}

		freq, ok := freqs[id]
		if !ok {
			return nil, IntegrityError{Detail: fmt.Sprintf("missing allele frequency for variant %s", id)}
		}

		cfg.Variants = append(cfg.Variants, Variant{
			ID:               id,
			RsID:             v.RsID,
			Gene:             v.Gene,
			Chromosome:       v.Chromosome,
			Position:         v.Position,
			RiskAllele:       genotype.Allele(v.RiskAllele),
			ProtectiveAllele: genotype.Allele(v.ProtectiveAllele),
			Evidence:         EvidenceLevel(v.Evidence),
			PubMedIDs:        v.PubMedIDs,
			Effect:           effect,
			Freq:             freq,
		})
	}

	for _, p := range pairs {
		pair := Pair{
			Trait:       p.Trait,
			GeneKey:     p.GeneKey,
			Nutrient:    p.Nutrient,
			Mode:        ScoringMode(p.Mode),
			VariantIDs:  p.Variants,
			MinVariants: p.MinVariants,
			RuleKey:     p.RuleKey,
			CompoundKey: p.CompoundKey,
			Baseline:    Tier(p.Baseline),
		}

		if pair.MinVariants == 0 {
			pair.MinVariants = len(pair.VariantIDs)
		}
		if pair.Baseline == "" {
			pair.Baseline = TierLow
		}
		if len(p.Thresholds) == 0 {
			pair.Thresholds = DefaultThresholds()
		} else {
			for _, th := range p.Thresholds {
				pair.Thresholds = append(pair.Thresholds, TierThreshold{Tier: Tier(th.Tier), Min: th.Min})
			}
		}

		cfg.Pairs = append(cfg.Pairs, pair)
	}

	for key, rs := range ruleSets {
		set := RuleSet{Nutrient: rs.Nutrient, Tiers: make(map[Tier]Rule, len(rs.Tiers))}
		for tier, rule := range rs.Tiers {
			set.Tiers[Tier(tier)] = rule
		}
		cfg.Rules[key] = set
	}

	return New(cfg)
}

func readYAML(fsys fs.FS, name string, out interface{}) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return pfx.Err(err)
	}

	if err := yaml.Unmarshal(raw, out); err != nil {
		return pfx.Err(fmt.Errorf("parsing %s: %w", name, err))
	}

	return nil
}
