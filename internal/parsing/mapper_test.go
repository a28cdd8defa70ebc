package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jkaplan/jobtrail/internal/types"
)

func TestFindMetric(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Grew signups 40% via lifecycle email", "40%"},
		{"Closed $1.2M in new business", "$1.2M"},
		{"Improved throughput 3x", "3x"},
		{"Sold 16,000 tickets", "16,000"},
		{"Worked there from 2019 to 2021", ""},
		{"Owned HubSpot instance", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FindMetric(tt.text), "text: %q", tt.text)
	}
}

func TestClassifyItem_Outcome(t *testing.T) {
	item := ClassifyItem("Grew signups 40% via lifecycle email", true)
	assert.Equal(t, types.ItemOutcome, item.Type)
	assert.Equal(t, "40%", item.Metric)
	assert.Equal(t, types.StatusAccepted, item.Status)
	assert.GreaterOrEqual(t, item.Confidence, 0.6)
}

func TestClassifyItem_ToolTag(t *testing.T) {
	item := ClassifyItem("HubSpot, Salesforce", false)
	assert.Equal(t, types.ItemTool, item.Type)
	assert.Empty(t, item.Metric)
}

func TestClassifyItem_SkillTag(t *testing.T) {
	item := ClassifyItem("SEO and copywriting", false)
	assert.Equal(t, types.ItemSkill, item.Type)
}

func TestClassifyItem_VerbWithToolMentionIsHighlight(t *testing.T) {
	// An accomplishment sentence mentioning a tool stays a highlight; the
	// tool mention only raises confidence.
	item := ClassifyItem("Owned HubSpot instance", true)
	assert.Equal(t, types.ItemHighlight, item.Type)
	assert.Equal(t, types.StatusAccepted, item.Status)
}

func TestClassifyItem_WeakSignalNeedsAttention(t *testing.T) {
	item := ClassifyItem("various responsibilities around the office", false)
	assert.Equal(t, types.ItemHighlight, item.Type)
	assert.Equal(t, types.StatusNeedsAttention, item.Status)
}

func TestClassifyItem_LongToolSentenceIsNotTag(t *testing.T) {
	item := ClassifyItem("responsible for the company wide HubSpot migration project last year", false)
	assert.Equal(t, types.ItemHighlight, item.Type)
}

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"golang", "Go"},
		{"k8s", "Kubernetes"},
		{"hubspot", "HubSpot"},
		{"sql", "SQL"},
		{"figma", "Figma"},
		{"iOS", "iOS"},
		{"", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSkillName(tt.in), "in: %q", tt.in)
	}
}

func TestHeaderDetection(t *testing.T) {
	assert.True(t, LooksLikeCompanyHeader("Acme Inc"))
	assert.True(t, LooksLikeCompanyHeader("Festival Empire"))
	assert.False(t, LooksLikeCompanyHeader("this is a long prose sentence that describes responsibilities in detail."))
	assert.False(t, LooksLikeCompanyHeader("EXPERIENCE"))

	assert.True(t, LooksLikeRoleHeader("Growth Lead, Jan 2022 - Present"))
	assert.True(t, LooksLikeRoleHeader("Senior Software Engineer"))
	assert.False(t, LooksLikeRoleHeader("Skills:"))

	assert.True(t, IsSectionHeader("EXPERIENCE"))
	assert.True(t, IsSectionHeader("Work Experience:"))
	assert.True(t, IsSectionHeader("Skills"))
	assert.False(t, IsSectionHeader("Acme Inc"))

	assert.True(t, IsAllCapsLine("EDUCATION"))
	assert.False(t, IsAllCapsLine("Education"))
	assert.False(t, IsAllCapsLine("- x"))
}
