package draft

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkaplan/jobtrail/internal/types"
)

// fixtureDraft builds two companies with one role each; the first role holds
// three highlights and one outcome.
func fixtureDraft(t *testing.T) (types.ImportDraft, Destination, Destination) {
	t.Helper()

	d := types.ImportDraft{}
	d, acmeID := AddCompany(d, "Acme Inc")
	d, globexID := AddCompany(d, "Globex Corp")

	d, acmeRoleID, err := AddRole(d, acmeID, "Growth Lead", "Jan 2022", "Present")
	require.NoError(t, err)
	d, globexRoleID, err := AddRole(d, globexID, "Marketing Manager", "2019", "2021")
	require.NoError(t, err)

	acme := Destination{CompanyID: acmeID, RoleID: acmeRoleID}
	globex := Destination{CompanyID: globexID, RoleID: globexRoleID}

	for _, text := range []string{"first highlight", "second highlight", "third highlight"} {
		var addErr error
		d, _, addErr = AddItem(d, acme, types.ImportDraftItem{Type: types.ItemHighlight, Text: text})
		require.NoError(t, addErr)
	}
	d, _, err = AddItem(d, acme, types.ImportDraftItem{Type: types.ItemOutcome, Text: "grew signups 40%", Metric: "40%"})
	require.NoError(t, err)

	return d, acme, globex
}

func TestAddCompany_SentinelNeedsAttention(t *testing.T) {
	d, _ := AddCompany(types.ImportDraft{}, "unassigned")

	require.Len(t, d.Companies, 1)
	assert.Equal(t, types.StatusNeedsAttention, d.Companies[0].Status)
	assert.True(t, d.Companies[0].IsUnassigned())
}

func TestMutations_NeverModifyInput(t *testing.T) {
	d, acme, _ := fixtureDraft(t)
	before := d.Clone()

	_, err := DeleteCompany(d, acme.CompanyID)
	require.NoError(t, err)
	_, _, err = AddItem(d, acme, types.ImportDraftItem{Type: types.ItemSkill, Text: "SEO"})
	require.NoError(t, err)

	assert.Equal(t, before, d)
}

func TestDeleteItem_SiblingsKeepIDsAndOrder(t *testing.T) {
	d, acme, _ := fixtureDraft(t)
	role := findRole(&d, acme)
	require.Len(t, role.Highlights, 3)
	first, second, third := role.Highlights[0], role.Highlights[1], role.Highlights[2]

	out, err := DeleteItem(d, second.ID)
	require.NoError(t, err)

	outRole := findRole(&out, acme)
	require.Len(t, outRole.Highlights, 2)
	assert.Equal(t, first.ID, outRole.Highlights[0].ID)
	assert.Equal(t, third.ID, outRole.Highlights[1].ID)
	assert.Equal(t, "first highlight", outRole.Highlights[0].Text)
	assert.Equal(t, "third highlight", outRole.Highlights[1].Text)
}

func TestDeleteItem_NotFound(t *testing.T) {
	d, _, _ := fixtureDraft(t)

	out, err := DeleteItem(d, uuid.New())

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "item", notFound.Kind)
	assert.Equal(t, d, out)
}

func TestMoveItem_RoundTripPreservesContent(t *testing.T) {
	d, acme, globex := fixtureDraft(t)
	orig := findRole(&d, acme).Outcomes[0]

	moved, err := MoveItem(d, orig.ID, globex)
	require.NoError(t, err)
	require.Empty(t, findRole(&moved, acme).Outcomes)
	require.Len(t, findRole(&moved, globex).Outcomes, 1)

	back, err := MoveItem(moved, orig.ID, acme)
	require.NoError(t, err)

	require.Empty(t, findRole(&back, globex).Outcomes)
	got := findRole(&back, acme).Outcomes
	require.Len(t, got, 1)
	assert.Equal(t, orig.ID, got[0].ID)
	assert.Equal(t, orig.Text, got[0].Text)
	assert.Equal(t, orig.Metric, got[0].Metric)
	assert.Equal(t, orig.Status, got[0].Status)
	assert.Equal(t, orig.Confidence, got[0].Confidence)
}

func TestMoveItem_MissingDestinationLeavesDraftUnchanged(t *testing.T) {
	d, acme, _ := fixtureDraft(t)
	itemID := findRole(&d, acme).Highlights[0].ID

	out, err := MoveItem(d, itemID, Destination{CompanyID: uuid.New(), RoleID: uuid.New()})

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, d, out)
}

func TestDeleteCompany_Cascades(t *testing.T) {
	d, acme, _ := fixtureDraft(t)

	out, err := DeleteCompany(d, acme.CompanyID)
	require.NoError(t, err)

	assert.Len(t, out.Companies, 1)
	assert.Equal(t, "Globex Corp", out.Companies[0].Name)
	assert.Equal(t, 0, out.CountItems())
}

func TestDeleteRole_Cascades(t *testing.T) {
	d, acme, _ := fixtureDraft(t)

	out, err := DeleteRole(d, acme.RoleID)
	require.NoError(t, err)

	assert.Len(t, out.Companies, 2)
	assert.Equal(t, 0, out.CountItems())
	assert.Empty(t, findCompany(&out, acme.CompanyID).Roles)
}

func TestAddTag_RejectsStructuredTypes(t *testing.T) {
	d, acme, _ := fixtureDraft(t)

	_, _, err := AddTag(d, acme, types.ItemOutcome, "grew things")

	var invalid *InvalidItemTypeError
	require.ErrorAs(t, err, &invalid)
}

func TestAddTag_AndDeleteTag(t *testing.T) {
	d, acme, _ := fixtureDraft(t)

	d, tagID, err := AddTag(d, acme, types.ItemTool, "HubSpot")
	require.NoError(t, err)
	require.Len(t, findRole(&d, acme).Tools, 1)

	d, err = DeleteTag(d, tagID)
	require.NoError(t, err)
	assert.Empty(t, findRole(&d, acme).Tools)
}

func TestDeleteTag_RefusesStructuredItem(t *testing.T) {
	d, acme, _ := fixtureDraft(t)
	highlightID := findRole(&d, acme).Highlights[0].ID

	out, err := DeleteTag(d, highlightID)

	var invalid *InvalidItemTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, d, out)
}

func TestSetItemStatus_MarksOverride(t *testing.T) {
	d, acme, _ := fixtureDraft(t)
	itemID := findRole(&d, acme).Highlights[0].ID

	out, err := SetItemStatus(d, itemID, types.StatusRejected)
	require.NoError(t, err)

	item := findItem(&out, itemID)
	require.NotNil(t, item)
	assert.Equal(t, types.StatusRejected, item.Status)
	assert.True(t, item.StatusOverridden)

	// The original draft is untouched.
	assert.False(t, findItem(&d, itemID).StatusOverridden)
}

func TestSetItemStatus_InvalidStatus(t *testing.T) {
	d, acme, _ := fixtureDraft(t)
	itemID := findRole(&d, acme).Highlights[0].ID

	_, err := SetItemStatus(d, itemID, types.ReviewStatus("maybe"))

	var invalid *InvalidStatusError
	require.ErrorAs(t, err, &invalid)
}
