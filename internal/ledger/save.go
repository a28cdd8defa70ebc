package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/types"
)

// SaveDraft commits a reviewed import draft to the ledger. Each real
// (company, role) pair becomes one Experience claim; its outcomes, tools, and
// skills become dependent claims linked via ExperienceID. Highlights are
// re-inferred: a quantified or tool-flavored highlight becomes a dependent
// claim, everything else lands in the Experience's responsibilities. Items
// under the Unassigned sentinel are saved without a parent, except plain
// highlights, which have no Experience to hold them and stay in the draft
// until assigned. Rejected entities are skipped at every level; dedup applies
// as usual, so re-saving the same draft does not grow the ledger.
func (l *Ledger) SaveDraft(ctx context.Context, d *types.ImportDraft) ([]types.Claim, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var saved []types.Claim
	for ci := range d.Companies {
		company := &d.Companies[ci]
		if company.Status == types.StatusRejected {
			continue
		}
		for ri := range company.Roles {
			role := &company.Roles[ri]
			if role.Status == types.StatusRejected {
				continue
			}

			claims, err := l.saveRole(ctx, company, role)
			if err != nil {
				return saved, err
			}
			saved = append(saved, claims...)
		}
	}
	return saved, nil
}

// saveRole persists one (company, role) pair and its items
func (l *Ledger) saveRole(ctx context.Context, company *types.ImportDraftCompany, role *types.ImportDraftRole) ([]types.Claim, error) {
	var saved []types.Claim
	var parentID *uuid.UUID

	dependents, responsibilities := splitItems(role)

	if !company.IsUnassigned() {
		title := role.Title
		if types.IsUnassignedCompany(title) {
			title = ""
		}
		exp, err := l.add(ctx, types.ClaimInput{
			Type:             types.ClaimExperience,
			Text:             experienceText(title, company.Name),
			Confidence:       role.Confidence,
			Role:             title,
			Company:          company.Name,
			StartDate:        role.StartDate,
			EndDate:          role.EndDate,
			Responsibilities: responsibilities,
		})
		if err != nil {
			return saved, err
		}
		saved = append(saved, exp)
		parentID = &exp.ID
	}

	for _, in := range dependents {
		in.ExperienceID = parentID
		c, err := l.add(ctx, in)
		if err != nil {
			return saved, err
		}
		saved = append(saved, c)
	}
	return saved, nil
}

// splitItems partitions a role's items into dependent claim inputs and plain
// responsibility lines. Outcomes, tools, and skills keep their reviewed type;
// each highlight is re-inferred so tool mentions and quantified statements
// become claims of their own.
func splitItems(role *types.ImportDraftRole) ([]types.ClaimInput, []string) {
	var dependents []types.ClaimInput
	var responsibilities []string

	for _, item := range role.Highlights {
		if item.Status == types.StatusRejected {
			continue
		}
		in := types.ClaimInput{Text: item.Text, Confidence: item.Confidence, Metric: item.Metric}
		switch InferType(&in) {
		case types.ClaimOutcome, types.ClaimTool:
			dependents = append(dependents, in)
		default:
			responsibilities = append(responsibilities, item.Text)
		}
	}

	for _, item := range role.Outcomes {
		if item.Status == types.StatusRejected {
			continue
		}
		dependents = append(dependents, types.ClaimInput{
			Type:       types.ClaimOutcome,
			Text:       item.Text,
			Confidence: item.Confidence,
			Metric:     item.Metric,
		})
	}
	for _, item := range role.Tools {
		if item.Status == types.StatusRejected {
			continue
		}
		dependents = append(dependents, types.ClaimInput{
			Type:       types.ClaimTool,
			Text:       item.Text,
			Confidence: item.Confidence,
		})
	}
	for _, item := range role.Skills {
		if item.Status == types.StatusRejected {
			continue
		}
		dependents = append(dependents, types.ClaimInput{
			Type:       types.ClaimSkill,
			Text:       item.Text,
			Confidence: item.Confidence,
		})
	}
	return dependents, responsibilities
}

// experienceText is the display text of an Experience claim
func experienceText(title, company string) string {
	switch {
	case title != "" && company != "":
		return title + " at " + company
	case title != "":
		return title
	default:
		return company
	}
}
