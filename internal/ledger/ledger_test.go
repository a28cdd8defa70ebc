package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkaplan/jobtrail/internal/types"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := New(context.Background(), NewMemoryStore(), Config{})
	require.NoError(t, err)
	return l
}

func addExperience(t *testing.T, l *Ledger, role, company string, confidence float64) types.Claim {
	t.Helper()
	c, err := l.Add(context.Background(), types.ClaimInput{
		Type:       types.ClaimExperience,
		Text:       role + " at " + company,
		Role:       role,
		Company:    company,
		StartDate:  "Jan 2022",
		EndDate:    "Present",
		Confidence: confidence,
	})
	require.NoError(t, err)
	return c
}

func TestAdd_InfersTypeWhenNotPinned(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	cases := []struct {
		name string
		in   types.ClaimInput
		want types.ClaimType
	}{
		{"experience from role fields", types.ClaimInput{Text: "Growth Lead", Role: "Growth Lead", Company: "Acme Inc", Confidence: 0.8}, types.ClaimExperience},
		{"outcome from verb and metric", types.ClaimInput{Text: "Grew signups 40% via lifecycle email", Confidence: 0.7}, types.ClaimOutcome},
		{"outcome from explicit metric", types.ClaimInput{Text: "new business closed", Metric: "$1.2M", Confidence: 0.7}, types.ClaimOutcome},
		{"tool from vocabulary", types.ClaimInput{Text: "HubSpot", Confidence: 0.6}, types.ClaimTool},
		{"skill fallback", types.ClaimInput{Text: "stakeholder alignment", Confidence: 0.5}, types.ClaimSkill},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := l.Add(ctx, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.Type)
		})
	}
}

func TestAdd_SanitizesCrossTypeFields(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	c, err := l.Add(ctx, types.ClaimInput{
		Type:       types.ClaimOutcome,
		Text:       "Grew signups 40%",
		Role:       "Growth Lead",
		Company:    "Acme Inc",
		Confidence: 0.7,
	})
	require.NoError(t, err)

	assert.Empty(t, c.Role)
	assert.Empty(t, c.Company)
	assert.Equal(t, "40%", c.Metric)
	assert.True(t, c.IsNumeric)
}

func TestAdd_StartsReviewNeeded(t *testing.T) {
	l := newTestLedger(t)

	c := addExperience(t, l, "Growth Lead", "Acme Inc", 0.8)

	assert.Equal(t, types.VerificationReviewNeeded, c.Verification)
}

func TestAdd_AutoApprovesAtThreshold(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	approved, err := l.Add(ctx, types.ClaimInput{
		Type: types.ClaimSkill, Text: "SQL", Confidence: 0.95,
		Verification: types.VerificationApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, types.VerificationApproved, approved.Verification)

	held, err := l.Add(ctx, types.ClaimInput{
		Type: types.ClaimSkill, Text: "Python", Confidence: 0.5,
		Verification: types.VerificationApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, types.VerificationReviewNeeded, held.Verification)
}

func TestAdd_DedupIsDeterministic(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	first := addExperience(t, l, "Growth Lead", "Acme Inc", 0.6)
	second, err := l.Add(ctx, types.ClaimInput{
		Type:       types.ClaimExperience,
		Text:       "  growth lead AT acme inc ",
		Role:       "growth lead",
		Company:    "ACME INC",
		StartDate:  "jan 2022",
		EndDate:    "present",
		Confidence: 0.9,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.InDelta(t, 0.9, second.Confidence, 1e-9)

	all, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAdd_DifferentDatesAreDifferentExperiences(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	addExperience(t, l, "Growth Lead", "Acme Inc", 0.6)
	_, err := l.Add(ctx, types.ClaimInput{
		Type: types.ClaimExperience, Text: "Growth Lead at Acme Inc",
		Role: "Growth Lead", Company: "Acme Inc",
		StartDate: "Mar 2018", EndDate: "Dec 2021", Confidence: 0.6,
	})
	require.NoError(t, err)

	all, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAdd_DedupScopesDependentsToParent(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	expA := addExperience(t, l, "Growth Lead", "Acme Inc", 0.8)
	expB := addExperience(t, l, "Analyst", "Globex Corp", 0.8)

	_, err := l.Add(ctx, types.ClaimInput{Type: types.ClaimSkill, Text: "SQL", Confidence: 0.5, ExperienceID: &expA.ID})
	require.NoError(t, err)
	_, err = l.Add(ctx, types.ClaimInput{Type: types.ClaimSkill, Text: "SQL", Confidence: 0.5, ExperienceID: &expB.ID})
	require.NoError(t, err)

	skills, err := l.ListByType(ctx, types.ClaimSkill)
	require.NoError(t, err)
	assert.Len(t, skills, 2)
}

func TestAdd_ValidationRejectionLeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	addExperience(t, l, "Growth Lead", "Acme Inc", 0.8)
	before, err := l.List(ctx)
	require.NoError(t, err)

	_, err = l.Add(ctx, types.ClaimInput{Type: types.ClaimExperience, Text: "orphan", Confidence: 0.5})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role", verr.Field)

	missing := uuid.New()
	_, err = l.Add(ctx, types.ClaimInput{Type: types.ClaimSkill, Text: "SQL", Confidence: 0.5, ExperienceID: &missing})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "experience_id", verr.Field)

	after, err := l.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdate_PatchesAndRevalidates(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	exp := addExperience(t, l, "Growth Lead", "Acme Inc", 0.6)

	require.NoError(t, l.Update(ctx, exp.ID, types.ClaimInput{Confidence: 0.85, EndDate: "Dec 2024"}))

	got, err := l.Get(ctx, exp.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, got.Confidence, 1e-9)
	assert.Equal(t, "Dec 2024", got.EndDate)

	err = l.Update(ctx, exp.ID, types.ClaimInput{Confidence: 1.5})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdate_CollisionAutoMerges(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	survivor := addExperience(t, l, "Growth Lead", "Acme Inc", 0.6)
	other, err := l.Add(ctx, types.ClaimInput{
		Type: types.ClaimExperience, Text: "Growth Lead at Acme",
		Role: "Growth Lead", Company: "Acme", StartDate: "Jan 2022", EndDate: "Present",
		Confidence: 0.9,
	})
	require.NoError(t, err)
	dep, err := l.Add(ctx, types.ClaimInput{Type: types.ClaimTool, Text: "HubSpot", Confidence: 0.7, ExperienceID: &other.ID})
	require.NoError(t, err)

	// Renaming the company makes the two claims duplicates.
	require.NoError(t, l.Update(ctx, other.ID, types.ClaimInput{Company: "Acme Inc", Text: "Growth Lead at Acme Inc"}))

	_, err = l.Get(ctx, other.ID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	got, err := l.Get(ctx, survivor.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got.Confidence, 1e-9)

	movedDep, err := l.Get(ctx, dep.ID)
	require.NoError(t, err)
	require.NotNil(t, movedDep.ExperienceID)
	assert.Equal(t, survivor.ID, *movedDep.ExperienceID)
}

func TestDelete_CascadesToDependents(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	exp := addExperience(t, l, "Growth Lead", "Acme Inc", 0.8)
	dep, err := l.Add(ctx, types.ClaimInput{Type: types.ClaimTool, Text: "HubSpot", Confidence: 0.7, ExperienceID: &exp.ID})
	require.NoError(t, err)
	standalone, err := l.Add(ctx, types.ClaimInput{Type: types.ClaimSkill, Text: "SEO", Confidence: 0.6})
	require.NoError(t, err)

	require.NoError(t, l.Delete(ctx, exp.ID))

	var notFound *NotFoundError
	_, err = l.Get(ctx, exp.ID)
	require.ErrorAs(t, err, &notFound)
	_, err = l.Get(ctx, dep.ID)
	require.ErrorAs(t, err, &notFound)

	_, err = l.Get(ctx, standalone.ID)
	assert.NoError(t, err)
}

func TestDelete_DependentLeavesParent(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	exp := addExperience(t, l, "Growth Lead", "Acme Inc", 0.8)
	dep, err := l.Add(ctx, types.ClaimInput{Type: types.ClaimTool, Text: "HubSpot", Confidence: 0.7, ExperienceID: &exp.ID})
	require.NoError(t, err)

	require.NoError(t, l.Delete(ctx, dep.ID))

	_, err = l.Get(ctx, exp.ID)
	assert.NoError(t, err)
	assert.Empty(t, l.Dependents(exp.ID))
}

func TestMerge_ReassignsDependentsAndDeletesSource(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	target := addExperience(t, l, "Growth Lead", "Acme Inc", 0.6)
	source := addExperience(t, l, "Growth Lead", "Acme Incorporated", 0.9)

	var depIDs []uuid.UUID
	for _, text := range []string{"HubSpot", "Tableau", "Salesforce"} {
		dep, err := l.Add(ctx, types.ClaimInput{Type: types.ClaimTool, Text: text, Confidence: 0.7, ExperienceID: &source.ID})
		require.NoError(t, err)
		depIDs = append(depIDs, dep.ID)
	}

	require.NoError(t, l.Merge(ctx, target.ID, source.ID))

	var notFound *NotFoundError
	_, err := l.Get(ctx, source.ID)
	require.ErrorAs(t, err, &notFound)

	got, err := l.Get(ctx, target.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got.Confidence, 1e-9)

	for _, depID := range depIDs {
		dep, err := l.Get(ctx, depID)
		require.NoError(t, err)
		require.NotNil(t, dep.ExperienceID)
		assert.Equal(t, target.ID, *dep.ExperienceID)
	}
	assert.ElementsMatch(t, depIDs, l.Dependents(target.ID))
}

func TestMerge_RejectsNonExperience(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	exp := addExperience(t, l, "Growth Lead", "Acme Inc", 0.8)
	tool, err := l.Add(ctx, types.ClaimInput{Type: types.ClaimTool, Text: "HubSpot", Confidence: 0.7})
	require.NoError(t, err)

	err = l.Merge(ctx, exp.ID, tool.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	err = l.Merge(ctx, exp.ID, exp.ID)
	require.ErrorAs(t, err, &verr)
}

func TestApprove_SelectionAndAll(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	a := addExperience(t, l, "Growth Lead", "Acme Inc", 0.8)
	b := addExperience(t, l, "Analyst", "Globex Corp", 0.8)
	c := addExperience(t, l, "Manager", "Initech LLC", 0.8)

	n, err := l.Approve(ctx, []uuid.UUID{a.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Approving again skips the already-approved claim.
	n, err = l.Approve(ctx, []uuid.UUID{a.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = l.Approve(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []uuid.UUID{a.ID, b.ID, c.ID} {
		got, err := l.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, types.VerificationApproved, got.Verification)
	}
}

func TestNew_RebuildsDependencyIndex(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	l, err := New(ctx, store, Config{})
	require.NoError(t, err)
	exp := addExperience(t, l, "Growth Lead", "Acme Inc", 0.8)
	dep, err := l.Add(ctx, types.ClaimInput{Type: types.ClaimTool, Text: "HubSpot", Confidence: 0.7, ExperienceID: &exp.ID})
	require.NoError(t, err)

	reopened, err := New(ctx, store, Config{})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{dep.ID}, reopened.Dependents(exp.ID))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "grew signups 40%", NormalizeText("  Grew   Signups\t40% "))
	assert.Equal(t, "", NormalizeText("   "))
}
