package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkaplan/jobtrail/internal/types"
)

func createClaim(t *testing.T, s *Server, in types.ClaimInput) types.Claim {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/claims", in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var claim types.Claim
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &claim))
	return claim
}

func TestHandleCreateClaim_InfersType(t *testing.T) {
	s := newTestServer(t)

	claim := createClaim(t, s, types.ClaimInput{
		Text:       "Cut onboarding time 30%",
		Confidence: 0.8,
	})
	assert.Equal(t, types.ClaimOutcome, claim.Type)
	assert.Equal(t, "30%", claim.Metric)
	assert.True(t, claim.IsNumeric)
	assert.Equal(t, types.VerificationReviewNeeded, claim.Verification)
}

func TestHandleCreateClaim_Invalid(t *testing.T) {
	s := newTestServer(t)

	// Missing text fails request validation.
	w := doJSON(t, s, http.MethodPost, "/claims", types.ClaimInput{Confidence: 0.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Confidence out of range fails request validation.
	w = doJSON(t, s, http.MethodPost, "/claims", types.ClaimInput{Text: "x", Confidence: 1.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A dangling parent reference fails ledger validation.
	parentID := uuid.New()
	w = doJSON(t, s, http.MethodPost, "/claims", types.ClaimInput{
		Type:         types.ClaimTool,
		Text:         "Tableau",
		Confidence:   0.7,
		ExperienceID: &parentID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetAndListClaims(t *testing.T) {
	s := newTestServer(t)
	exp := createClaim(t, s, types.ClaimInput{
		Type:       types.ClaimExperience,
		Text:       "Growth Lead at Acme",
		Role:       "Growth Lead",
		Company:    "Acme",
		Confidence: 0.9,
	})
	createClaim(t, s, types.ClaimInput{Type: types.ClaimSkill, Text: "SEO", Confidence: 0.6})

	w := doJSON(t, s, http.MethodGet, "/claims/"+exp.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/claims/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, s, http.MethodGet, "/claims", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var claims []types.Claim
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &claims))
	assert.Len(t, claims, 2)

	w = doJSON(t, s, http.MethodGet, "/claims?type=Experience", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &claims))
	require.Len(t, claims, 1)
	assert.Equal(t, exp.ID, claims[0].ID)

	w = doJSON(t, s, http.MethodGet, "/claims?type=Daydream", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpdateClaim(t *testing.T) {
	s := newTestServer(t)
	claim := createClaim(t, s, types.ClaimInput{Type: types.ClaimSkill, Text: "SEO", Confidence: 0.5})

	w := doJSON(t, s, http.MethodPut, "/claims/"+claim.ID.String(), types.ClaimInput{Confidence: 0.8})
	require.Equal(t, http.StatusOK, w.Code)
	var updated types.Claim
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 0.8, updated.Confidence)

	w = doJSON(t, s, http.MethodPut, "/claims/"+uuid.New().String(), types.ClaimInput{Confidence: 0.8})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDeleteClaim(t *testing.T) {
	s := newTestServer(t)
	claim := createClaim(t, s, types.ClaimInput{Type: types.ClaimSkill, Text: "SEO", Confidence: 0.5})

	w := doJSON(t, s, http.MethodDelete, "/claims/"+claim.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, "/claims/"+claim.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, s, http.MethodDelete, "/claims/"+claim.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleMergeClaims(t *testing.T) {
	s := newTestServer(t)
	target := createClaim(t, s, types.ClaimInput{
		Type: types.ClaimExperience, Text: "Growth Lead at Acme",
		Role: "Growth Lead", Company: "Acme", Confidence: 0.9,
	})
	source := createClaim(t, s, types.ClaimInput{
		Type: types.ClaimExperience, Text: "Growth Lead at Acme Inc",
		Role: "Growth Lead", Company: "Acme Inc", Confidence: 0.6,
	})
	dep := createClaim(t, s, types.ClaimInput{
		Type: types.ClaimTool, Text: "HubSpot", Confidence: 0.7,
		ExperienceID: &source.ID,
	})

	w := doJSON(t, s, http.MethodPost, "/claims/merge", MergeClaimsRequest{
		TargetID: target.ID.String(),
		SourceID: source.ID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Source is gone and its dependent now hangs off the target.
	w = doJSON(t, s, http.MethodGet, "/claims/"+source.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, s, http.MethodGet, "/claims/"+target.ID.String()+"/dependents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deps []types.Claim
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deps))
	require.Len(t, deps, 1)
	assert.Equal(t, dep.ID, deps[0].ID)

	// Merging a claim into itself is rejected.
	w = doJSON(t, s, http.MethodPost, "/claims/merge", MergeClaimsRequest{
		TargetID: target.ID.String(),
		SourceID: target.ID.String(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleApproveClaims(t *testing.T) {
	s := newTestServer(t)
	a := createClaim(t, s, types.ClaimInput{Type: types.ClaimSkill, Text: "SEO", Confidence: 0.5})
	createClaim(t, s, types.ClaimInput{Type: types.ClaimSkill, Text: "SEM", Confidence: 0.5})

	w := doJSON(t, s, http.MethodPost, "/claims/approve", ApproveClaimsRequest{IDs: []string{a.ID.String()}})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp["approved"])

	// An empty selection approves everything still pending.
	w = doJSON(t, s, http.MethodPost, "/claims/approve", ApproveClaimsRequest{})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp["approved"])
}

func TestHandleDependents_UnknownClaim(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/claims/"+uuid.New().String()+"/dependents", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
