package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestItemType_Valid(t *testing.T) {
	for _, it := range []ItemType{ItemHighlight, ItemOutcome, ItemTool, ItemSkill} {
		assert.True(t, it.Valid(), "expected %s to be valid", it)
	}
	assert.False(t, ItemType("bullet").Valid())
	assert.False(t, ItemType("").Valid())
}

func TestReviewStatus_Valid(t *testing.T) {
	for _, s := range []ReviewStatus{StatusAccepted, StatusNeedsAttention, StatusRejected} {
		assert.True(t, s.Valid(), "expected %s to be valid", s)
	}
	assert.False(t, ReviewStatus("approved").Valid())
}

func TestIsUnassignedCompany(t *testing.T) {
	assert.True(t, IsUnassignedCompany("Unassigned"))
	assert.True(t, IsUnassignedCompany("unassigned"))
	assert.True(t, IsUnassignedCompany("  UNASSIGNED  "))
	assert.False(t, IsUnassignedCompany("Acme Inc"))
	assert.False(t, IsUnassignedCompany(""))
}

func buildDraft() ImportDraft {
	return ImportDraft{
		Companies: []ImportDraftCompany{
			{
				ID:     uuid.New(),
				Name:   "Acme Inc",
				Status: StatusAccepted,
				Roles: []ImportDraftRole{
					{
						ID:    uuid.New(),
						Title: "Growth Lead",
						Highlights: []ImportDraftItem{
							{ID: uuid.New(), Type: ItemHighlight, Text: "Owned HubSpot instance"},
						},
						Outcomes: []ImportDraftItem{
							{ID: uuid.New(), Type: ItemOutcome, Text: "Grew signups 40%", Metric: "40%"},
						},
						Tools: []ImportDraftItem{
							{ID: uuid.New(), Type: ItemTool, Text: "HubSpot"},
						},
					},
				},
			},
			{
				ID:     uuid.New(),
				Name:   UnassignedCompanyName,
				Status: StatusNeedsAttention,
				Roles: []ImportDraftRole{
					{
						ID:    uuid.New(),
						Title: UnassignedCompanyName,
						Skills: []ImportDraftItem{
							{ID: uuid.New(), Type: ItemSkill, Text: "SQL"},
						},
					},
				},
			},
		},
	}
}

func TestImportDraft_Counts(t *testing.T) {
	d := buildDraft()

	// Tools and skills are not structured items
	assert.Equal(t, 2, d.CountStructuredItems())
	assert.Equal(t, 4, d.CountItems())
	assert.Equal(t, 2, d.CountRoles())
	assert.Equal(t, 1, d.CountRealCompanies())
}

func TestImportDraft_CloneIsDeep(t *testing.T) {
	d := buildDraft()
	clone := d.Clone()

	clone.Companies[0].Name = "Changed"
	clone.Companies[0].Roles[0].Highlights[0].Text = "changed text"
	clone.Companies[0].Roles[0].Outcomes = append(clone.Companies[0].Roles[0].Outcomes, ImportDraftItem{ID: uuid.New()})

	assert.Equal(t, "Acme Inc", d.Companies[0].Name)
	assert.Equal(t, "Owned HubSpot instance", d.Companies[0].Roles[0].Highlights[0].Text)
	assert.Len(t, d.Companies[0].Roles[0].Outcomes, 1)
}

func TestRole_ItemsOrder(t *testing.T) {
	d := buildDraft()
	items := d.Companies[0].Roles[0].Items()
	assert.Len(t, items, 3)
	assert.Equal(t, ItemHighlight, items[0].Type)
	assert.Equal(t, ItemOutcome, items[1].Type)
	assert.Equal(t, ItemTool, items[2].Type)
}

func TestClaimType_Valid(t *testing.T) {
	for _, ct := range []ClaimType{ClaimExperience, ClaimOutcome, ClaimTool, ClaimSkill} {
		assert.True(t, ct.Valid(), "expected %s to be valid", ct)
	}
	assert.False(t, ClaimType("experience").Valid(), "claim types are capitalized")
	assert.False(t, ClaimType("").Valid())
}

func TestVerificationStatus_Valid(t *testing.T) {
	assert.True(t, VerificationReviewNeeded.Valid())
	assert.True(t, VerificationApproved.Valid())
	assert.False(t, VerificationStatus("Pending").Valid())
}
