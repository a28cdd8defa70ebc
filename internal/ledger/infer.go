package ledger

import (
	"github.com/jkaplan/jobtrail/internal/parsing"
	"github.com/jkaplan/jobtrail/internal/types"
)

// InferType resolves the claim type for an input that does not pin one.
// Precedence: Experience when role/company/date/responsibility fields are
// present, then Outcome for quantified accomplishments, then Tool on a
// vocabulary hit, with Skill as the fallback.
func InferType(in *types.ClaimInput) types.ClaimType {
	if in.Type.Valid() {
		return in.Type
	}
	if in.Role != "" || in.Company != "" || in.StartDate != "" || in.EndDate != "" || len(in.Responsibilities) > 0 {
		return types.ClaimExperience
	}
	if in.Metric != "" {
		return types.ClaimOutcome
	}
	if parsing.StartsWithActionVerb(in.Text) && parsing.FindMetric(in.Text) != "" {
		return types.ClaimOutcome
	}
	if parsing.MatchesToolVocabulary(in.Text) {
		return types.ClaimTool
	}
	return types.ClaimSkill
}

// sanitize strips the fields that do not belong to the claim's type, so a
// persisted claim never carries stale cross-type data. The switch is
// exhaustive over ClaimType.
func sanitize(c *types.Claim) {
	switch c.Type {
	case types.ClaimExperience:
		c.Metric = ""
		c.IsNumeric = false
		c.ExperienceID = nil
	case types.ClaimOutcome:
		clearExperienceFields(c)
		if c.Metric == "" {
			c.Metric = parsing.FindMetric(c.Text)
		}
		c.IsNumeric = c.Metric != ""
	case types.ClaimTool, types.ClaimSkill:
		clearExperienceFields(c)
		c.Metric = ""
		c.IsNumeric = false
		c.Text = parsing.NormalizeSkillName(c.Text)
	}
}

func clearExperienceFields(c *types.Claim) {
	c.Role = ""
	c.Company = ""
	c.StartDate = ""
	c.EndDate = ""
	c.Responsibilities = nil
}
