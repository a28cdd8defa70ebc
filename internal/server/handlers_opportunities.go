package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/db"
)

// ---------------------------------------------------------------------
// Opportunity Handlers
// ---------------------------------------------------------------------

type CreateOpportunityRequest struct {
	Company    string `json:"company" validate:"required"`
	RoleTitle  string `json:"role_title" validate:"required"`
	PostingURL string `json:"posting_url,omitempty" validate:"omitempty,url"`
	Status     string `json:"status,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func (s *Server) handleCreateOpportunity(w http.ResponseWriter, r *http.Request) {
	var req CreateOpportunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if req.Status != "" && !db.ValidOpportunityStatus(req.Status) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid opportunity status")
		return
	}

	opp := &db.Opportunity{
		Company:    strings.TrimSpace(req.Company),
		RoleTitle:  strings.TrimSpace(req.RoleTitle),
		PostingURL: req.PostingURL,
		Status:     req.Status,
		Notes:      req.Notes,
	}

	id, err := s.db.CreateOpportunity(r.Context(), opp)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleGetOpportunity(w http.ResponseWriter, r *http.Request) {
	oppID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid opportunity ID")
		return
	}

	opp, err := s.db.GetOpportunity(r.Context(), oppID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if opp == nil {
		s.errorResponse(w, http.StatusNotFound, "Opportunity not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, opp)
}

func (s *Server) handleListOpportunities(w http.ResponseWriter, r *http.Request) {
	filters := db.OpportunityFilters{
		Company: r.URL.Query().Get("company"),
		Status:  r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filters.Limit = n
	}
	if filters.Status != "" && !db.ValidOpportunityStatus(filters.Status) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid opportunity status")
		return
	}

	opps, err := s.db.ListOpportunities(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, opps)
}

type UpdateOpportunityStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (s *Server) handleUpdateOpportunityStatus(w http.ResponseWriter, r *http.Request) {
	oppID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid opportunity ID")
		return
	}

	var req UpdateOpportunityStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if !db.ValidOpportunityStatus(req.Status) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid opportunity status")
		return
	}

	if err := s.db.UpdateOpportunityStatus(r.Context(), oppID, req.Status); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (s *Server) handleDeleteOpportunity(w http.ResponseWriter, r *http.Request) {
	oppID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid opportunity ID")
		return
	}

	if err := s.db.DeleteOpportunity(r.Context(), oppID); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
