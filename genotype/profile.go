package genotype

import (
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/google/uuid"
	"gopkg.in/guregu/null.v3"
)

// Observation is the minimal genotype call shape the scoring engine needs:
// a variant identifier and the called genotype, nothing else.
type Observation struct {
	RsID     string
	Genotype Genotype
}

// AuditObservation carries the full provenance of a call for audit trails.
// The scorer never requires any of the extra fields.
type AuditObservation struct {
	Observation

	Chromosome string
	Position   uint32
	Zygosity   Zygosity
	Quality    null.Float // Phred-scaled call quality, when the platform reports one
	DataSource string     // e.g. "WGS", "SNP_Array", "DTC"
	SubjectID  string     // anonymized subject identifier
}

// NewAuditObservation fills in an anonymized subject identifier when the
// caller does not provide one.
func NewAuditObservation(obs Observation, subjectID string) AuditObservation {
	if subjectID == "" {
		subjectID = uuid.NewString()
	}

	return AuditObservation{Observation: obs, SubjectID: subjectID}
}

// Profile is the set of genotype observations for one individual. The
// identifier is session-scoped only; nothing persistent hangs off it.
// A profile holds at most one observation per rsID.
type Profile struct {
	ID         string
	Population string

	calls map[string]Genotype
	order []string
}

// NewProfile builds a profile from observations. A duplicate rsID is an
// input error: deduplication policy belongs to the upstream validation
// layer, not here.
func NewProfile(id string, observations []Observation) (*Profile, error) {
	p := &Profile{
		ID:         id,
		Population: "east_asian",
		calls:      make(map[string]Genotype, len(observations)),
		order:      make([]string, 0, len(observations)),
	}

	for _, obs := range observations {
		if _, seen := p.calls[obs.RsID]; seen {
			return nil, pfx.Err(fmt.Errorf("profile %s: duplicate observation for %s", id, obs.RsID))
		}

		p.calls[obs.RsID] = obs.Genotype
		p.order = append(p.order, obs.RsID)
	}

	return p, nil
}

// Genotype returns the called genotype for rsid, if observed.
func (p *Profile) Genotype(rsid string) (Genotype, bool) {
	g, ok := p.calls[rsid]

	return g, ok
}

// RsIDs returns the observed rsIDs in input order.
func (p *Profile) RsIDs() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)

	return out
}

// Len returns the number of observations.
func (p *Profile) Len() int {
	return len(p.order)
}

// Tracked is the catalog surface the normalizer needs: the ordered list of
// rsIDs the reference catalog supports.
type Tracked interface {
	TrackedRsIDs() []string
}

// Normalize resolves a profile against the supported variant set. It
// returns the called genotypes restricted to tracked rsIDs, plus the
// tracked rsIDs with no observation, in catalog order. Observations for
// unknown rsIDs are dropped silently: they are out of scope, not errors.
// Pure function of its inputs.
func Normalize(p *Profile, t Tracked) (map[string]Genotype, []string) {
	tracked := t.TrackedRsIDs()

	known := make(map[string]Genotype)
	missing := make([]string, 0)

	for _, rsid := range tracked {
		if g, ok := p.Genotype(rsid); ok {
			known[rsid] = g
		} else {
			missing = append(missing, rsid)
		}
	}

	return known, missing
}

// MissingRsIDs returns the required rsIDs absent from the profile,
// preserving the order of required.
func MissingRsIDs(p *Profile, required []string) []string {
	missing := make([]string, 0)
	for _, rsid := range required {
		if _, ok := p.Genotype(rsid); !ok {
			missing = append(missing, rsid)
		}
	}

	return missing
}

// LowQuality returns the rsIDs of audit observations whose reported call
// quality falls below minQuality. Observations without a quality value are
// never flagged.
func LowQuality(observations []AuditObservation, minQuality float64) []string {
	flagged := make([]string, 0)
	for _, obs := range observations {
		if obs.Quality.Valid && obs.Quality.Float64 < minQuality {
			flagged = append(flagged, obs.RsID)
		}
	}

	return flagged
}
