// Package selection scores segmentation candidates, picks the best one, and
// flags low-quality parses.
package selection

import (
	"github.com/jkaplan/jobtrail/internal/diagnostics"
	"github.com/jkaplan/jobtrail/internal/types"
)

// Default tuning values. These are deliberate product constants, exposed so
// callers (config file, tests) can override them rather than re-deriving.
const (
	DefaultLowQualityItemFloor = 20
	defaultItemWeight          = 1.0
	defaultTagWeight           = 0.5
	defaultRoleWeight          = 2.0
	defaultCompanyWeight       = 2.0
	defaultReasonPenalty       = 25.0
)

// Tuning holds the scorer's weights and floors. The zero value means
// "use defaults".
type Tuning struct {
	// LowQualityItemFloor is the minimum structured-item count (highlights +
	// outcomes) below which a result is flagged low-quality.
	LowQualityItemFloor int
	// Priority is the tie-break order of strategy modes, most-preferred first.
	Priority []string

	ItemWeight    float64
	TagWeight     float64
	RoleWeight    float64
	CompanyWeight float64
	ReasonPenalty float64
}

// DefaultTuning returns the standard scorer configuration
func DefaultTuning() Tuning {
	return Tuning{
		LowQualityItemFloor: DefaultLowQualityItemFloor,
		Priority:            []string{"default", "headings", "bullets", "newlines"},
		ItemWeight:          defaultItemWeight,
		TagWeight:           defaultTagWeight,
		RoleWeight:          defaultRoleWeight,
		CompanyWeight:       defaultCompanyWeight,
		ReasonPenalty:       defaultReasonPenalty,
	}
}

// withDefaults fills zero-valued fields from DefaultTuning
func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.LowQualityItemFloor == 0 {
		t.LowQualityItemFloor = d.LowQualityItemFloor
	}
	if len(t.Priority) == 0 {
		t.Priority = d.Priority
	}
	if t.ItemWeight == 0 {
		t.ItemWeight = d.ItemWeight
	}
	if t.TagWeight == 0 {
		t.TagWeight = d.TagWeight
	}
	if t.RoleWeight == 0 {
		t.RoleWeight = d.RoleWeight
	}
	if t.CompanyWeight == 0 {
		t.CompanyWeight = d.CompanyWeight
	}
	if t.ReasonPenalty == 0 {
		t.ReasonPenalty = d.ReasonPenalty
	}
	return t
}

// Candidate is one strategy's full output for one input
type Candidate struct {
	Mode        string
	Draft       types.ImportDraft
	Diagnostics diagnostics.ParseDiagnostics
}

// Score computes the weighted quality score of a candidate: structured item
// volume is the primary signal, distinct roles/companies secondary, with a
// flat penalty per disqualifying reason code. The Unassigned sentinel never
// counts as a real employer.
func Score(c Candidate, tuning Tuning) float64 {
	t := tuning.withDefaults()

	structured := float64(c.Draft.CountStructuredItems())
	tags := float64(c.Draft.CountItems() - c.Draft.CountStructuredItems())
	roles := float64(detectedRoles(&c.Draft))
	companies := float64(c.Draft.CountRealCompanies())

	score := t.ItemWeight*structured + t.TagWeight*tags + t.RoleWeight*roles + t.CompanyWeight*companies
	for _, code := range c.Diagnostics.ReasonCodes {
		if diagnostics.IsCollapseReason(code) {
			score -= t.ReasonPenalty
		}
	}
	return score
}

// LowQuality reports whether a candidate's result should be flagged: either
// its structured item volume is below the floor, or a collapse reason fired.
// Low-quality results stay usable; the flag only drives the "try another
// method" affordance.
func LowQuality(c Candidate, tuning Tuning) bool {
	t := tuning.withDefaults()
	if c.Draft.CountStructuredItems() < t.LowQualityItemFloor {
		return true
	}
	return c.Diagnostics.HasCollapseReason()
}

// SelectBest scores every candidate and returns the winning index plus the
// per-candidate reports for diagnostics. Ties break by priority order; a mode
// missing from the priority list loses to any listed one.
func SelectBest(cands []Candidate, tuning Tuning) (int, []diagnostics.CandidateReport) {
	t := tuning.withDefaults()

	reports := make([]diagnostics.CandidateReport, len(cands))
	best := -1
	var bestScore float64
	for i, c := range cands {
		s := Score(c, t)
		reports[i] = diagnostics.CandidateReport{
			Mode:        c.Mode,
			Score:       s,
			ReasonCodes: c.Diagnostics.ReasonCodes,
			Counts:      c.Diagnostics.Mapping,
		}
		switch {
		case best == -1, s > bestScore:
			best, bestScore = i, s
		case s == bestScore && priorityRank(c.Mode, t.Priority) < priorityRank(cands[best].Mode, t.Priority):
			best = i
		}
	}
	return best, reports
}

// priorityRank returns the position of mode in the priority list, or its
// length when unlisted.
func priorityRank(mode string, priority []string) int {
	for i, m := range priority {
		if m == mode {
			return i
		}
	}
	return len(priority)
}

// detectedRoles counts roles that carry a real title, excluding sentinel
// placeholder roles.
func detectedRoles(d *types.ImportDraft) int {
	n := 0
	for i := range d.Companies {
		for j := range d.Companies[i].Roles {
			if !types.IsUnassignedCompany(d.Companies[i].Roles[j].Title) {
				n++
			}
		}
	}
	return n
}
