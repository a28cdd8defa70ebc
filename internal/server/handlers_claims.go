package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/ledger"
	"github.com/jkaplan/jobtrail/internal/types"
)

// ---------------------------------------------------------------------
// Claim Ledger Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCreateClaim(w http.ResponseWriter, r *http.Request) {
	var req types.ClaimInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	claim, err := s.ledger.Add(r.Context(), req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, claim)
}

func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request) {
	typeFilter := r.URL.Query().Get("type")
	if typeFilter == "" {
		claims, err := s.ledger.List(r.Context())
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		s.jsonResponse(w, http.StatusOK, claims)
		return
	}

	claimType := types.ClaimType(typeFilter)
	if !claimType.Valid() {
		s.errorResponse(w, http.StatusBadRequest, "Invalid claim type")
		return
	}

	claims, err := s.ledger.ListByType(r.Context(), claimType)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, claims)
}

func (s *Server) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid claim ID")
		return
	}

	claim, err := s.ledger.Get(r.Context(), claimID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, claim)
}

func (s *Server) handleUpdateClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid claim ID")
		return
	}

	var patch types.ClaimInput
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.ledger.Update(r.Context(), claimID, patch); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// The update may have merged into a surviving duplicate, so the claim
	// under this ID can be gone. Report what remains.
	claim, err := s.ledger.Get(r.Context(), claimID)
	if err != nil {
		var notFound *ledger.NotFoundError
		if errors.As(err, &notFound) {
			s.jsonResponse(w, http.StatusOK, map[string]string{"status": "merged"})
			return
		}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, claim)
}

func (s *Server) handleDeleteClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid claim ID")
		return
	}

	if err := s.ledger.Delete(r.Context(), claimID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClaimDependents(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid claim ID")
		return
	}

	if _, err := s.ledger.Get(r.Context(), claimID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	ids := s.ledger.Dependents(claimID)
	claims := make([]types.Claim, 0, len(ids))
	for _, id := range ids {
		claim, err := s.ledger.Get(r.Context(), id)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		claims = append(claims, claim)
	}

	s.jsonResponse(w, http.StatusOK, claims)
}

type MergeClaimsRequest struct {
	TargetID string `json:"target_id" validate:"required,uuid"`
	SourceID string `json:"source_id" validate:"required,uuid"`
}

func (s *Server) handleMergeClaims(w http.ResponseWriter, r *http.Request) {
	var req MergeClaimsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	targetID := uuid.MustParse(req.TargetID)
	sourceID := uuid.MustParse(req.SourceID)

	if err := s.ledger.Merge(r.Context(), targetID, sourceID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	claim, err := s.ledger.Get(r.Context(), targetID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, claim)
}

// ApproveClaimsRequest selects claims for bulk approval. An empty ID list
// approves every claim still pending review.
type ApproveClaimsRequest struct {
	IDs []string `json:"ids,omitempty" validate:"omitempty,dive,uuid"`
}

func (s *Server) handleApproveClaims(w http.ResponseWriter, r *http.Request) {
	var req ApproveClaimsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	var ids []uuid.UUID
	for _, raw := range req.IDs {
		ids = append(ids, uuid.MustParse(raw))
	}

	approved, err := s.ledger.Approve(r.Context(), ids)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]int{"approved": approved})
}
