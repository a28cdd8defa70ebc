package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/draft"
	"github.com/jkaplan/jobtrail/internal/types"
)

// ---------------------------------------------------------------------
// Import Session Handlers
// ---------------------------------------------------------------------

// lookupSession returns the live session for id, falling back to the
// database snapshot when one exists. The caller holds s.mu.
func (s *Server) lookupSession(ctx context.Context, id uuid.UUID) (*draft.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	if s.db != nil {
		sess, err := s.db.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess != nil {
			s.sessions[id] = sess
			return sess, nil
		}
	}
	return nil, &ErrSessionNotFound{SessionID: id}
}

// putSession registers a session and writes its snapshot through to the
// database when one is configured.
func (s *Server) putSession(ctx context.Context, sess *draft.Session) error {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	if s.db != nil {
		return s.db.SaveSession(ctx, sess)
	}
	return nil
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	s.mu.Lock()
	sess, err := s.lookupSession(r.Context(), sessionID)
	s.mu.Unlock()
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	if s.db == nil {
		s.mu.Lock()
		sessions := make([]draft.Session, 0, len(s.sessions))
		for _, sess := range s.sessions {
			sessions = append(sessions, *sess)
		}
		s.mu.Unlock()
		s.jsonResponse(w, http.StatusOK, sessions)
		return
	}

	sessions, err := s.db.ListSessions(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, sessions)
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookupSession(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if sess.State != draft.SessionParsed {
		closed := &ErrSessionClosed{SessionID: sess.ID, State: sess.State}
		s.errorResponse(w, HTTPStatus(closed), closed.Error())
		return
	}

	claims, err := s.ledger.SaveDraft(r.Context(), &sess.Draft)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sess.MarkSaved()
	if err := s.persistSessionLocked(r.Context(), sess); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store session: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"session": sess,
		"claims":  claims,
	})
}

func (s *Server) handleSkipSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookupSession(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if sess.State != draft.SessionParsed {
		closed := &ErrSessionClosed{SessionID: sess.ID, State: sess.State}
		s.errorResponse(w, HTTPStatus(closed), closed.Error())
		return
	}

	sess.MarkSkipped()
	if err := s.persistSessionLocked(r.Context(), sess); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store session: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, sess)
}

// persistSessionLocked writes the session snapshot to the database. The
// caller holds s.mu; the in-memory map already has the session.
func (s *Server) persistSessionLocked(ctx context.Context, sess *draft.Session) error {
	if s.db == nil {
		return nil
	}
	return s.db.SaveSession(ctx, sess)
}

// ---------------------------------------------------------------------
// Draft Edit Handlers
// ---------------------------------------------------------------------

// editDraft runs one pure draft operation against a live session and stores
// the edited tree back. When the operation creates an entity its ID is
// returned alongside the updated session.
func (s *Server) editDraft(w http.ResponseWriter, r *http.Request, op func(d types.ImportDraft) (types.ImportDraft, uuid.UUID, error)) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookupSession(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if sess.State != draft.SessionParsed {
		closed := &ErrSessionClosed{SessionID: sess.ID, State: sess.State}
		s.errorResponse(w, HTTPStatus(closed), closed.Error())
		return
	}

	updated, createdID, err := op(sess.Draft)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sess.SetDraft(updated)
	if err := s.persistSessionLocked(r.Context(), sess); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store session: "+err.Error())
		return
	}

	resp := map[string]any{"session": sess}
	if createdID != uuid.Nil {
		resp["created_id"] = createdID.String()
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

type AddCompanyRequest struct {
	Name string `json:"name" validate:"required"`
}

func (s *Server) handleAddCompany(w http.ResponseWriter, r *http.Request) {
	var req AddCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	s.editDraft(w, r, func(d types.ImportDraft) (types.ImportDraft, uuid.UUID, error) {
		updated, id := draft.AddCompany(d, req.Name)
		return updated, id, nil
	})
}

func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(r.PathValue("company_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	s.editDraft(w, r, func(d types.ImportDraft) (types.ImportDraft, uuid.UUID, error) {
		updated, err := draft.DeleteCompany(d, companyID)
		return updated, uuid.Nil, err
	})
}

type AddRoleRequest struct {
	Title     string `json:"title" validate:"required"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

func (s *Server) handleAddRole(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(r.PathValue("company_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	var req AddRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	s.editDraft(w, r, func(d types.ImportDraft) (types.ImportDraft, uuid.UUID, error) {
		return draft.AddRole(d, companyID, req.Title, req.StartDate, req.EndDate)
	})
}

func (s *Server) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := uuid.Parse(r.PathValue("role_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid role ID")
		return
	}

	s.editDraft(w, r, func(d types.ImportDraft) (types.ImportDraft, uuid.UUID, error) {
		updated, err := draft.DeleteRole(d, roleID)
		return updated, uuid.Nil, err
	})
}

type AddItemRequest struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
	RoleID    string `json:"role_id" validate:"required,uuid"`
	Type      string `json:"type" validate:"required"`
	Text      string `json:"text" validate:"required"`
	Status    string `json:"status,omitempty"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	dest := draft.Destination{
		CompanyID: uuid.MustParse(req.CompanyID),
		RoleID:    uuid.MustParse(req.RoleID),
	}
	item := types.ImportDraftItem{
		Type:   types.ItemType(req.Type),
		Text:   req.Text,
		Status: types.ReviewStatus(req.Status),
	}

	s.editDraft(w, r, func(d types.ImportDraft) (types.ImportDraft, uuid.UUID, error) {
		return draft.AddItem(d, dest, item)
	})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("item_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	s.editDraft(w, r, func(d types.ImportDraft) (types.ImportDraft, uuid.UUID, error) {
		updated, err := draft.DeleteItem(d, itemID)
		return updated, uuid.Nil, err
	})
}

type MoveItemRequest struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
	RoleID    string `json:"role_id" validate:"required,uuid"`
}

func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("item_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req MoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	dest := draft.Destination{
		CompanyID: uuid.MustParse(req.CompanyID),
		RoleID:    uuid.MustParse(req.RoleID),
	}

	s.editDraft(w, r, func(d types.ImportDraft) (types.ImportDraft, uuid.UUID, error) {
		updated, err := draft.MoveItem(d, itemID, dest)
		return updated, uuid.Nil, err
	})
}

type SetItemStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (s *Server) handleSetItemStatus(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("item_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req SetItemStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	s.editDraft(w, r, func(d types.ImportDraft) (types.ImportDraft, uuid.UUID, error) {
		updated, err := draft.SetItemStatus(d, itemID, types.ReviewStatus(req.Status))
		return updated, uuid.Nil, err
	})
}
