package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/diagnostics"
	"github.com/jkaplan/jobtrail/internal/draft"
	"github.com/jkaplan/jobtrail/internal/ingestion"
	"github.com/jkaplan/jobtrail/internal/parsing"
	"github.com/jkaplan/jobtrail/internal/types"
)

// ---------------------------------------------------------------------
// Import Handlers
// ---------------------------------------------------------------------

// ParseRequest is the body of a parse call. Exactly one of Text or HTML
// carries the resume; Mode forces a segmentation strategy and is ignored by
// the best-of endpoint.
type ParseRequest struct {
	Text     string `json:"text,omitempty"`
	HTML     string `json:"html,omitempty"`
	Mode     string `json:"mode,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeParseRequest(w, r)
	if !ok {
		return
	}

	mode, err := parsing.ParseMode(req.Mode)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	text, opts, meta, ok := s.prepareInput(w, req)
	if !ok {
		return
	}

	result := parsing.Parse(text, mode, opts)
	s.respondWithSession(w, r, result, meta)
}

func (s *Server) handleParseBest(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeParseRequest(w, r)
	if !ok {
		return
	}

	text, opts, meta, ok := s.prepareInput(w, req)
	if !ok {
		return
	}

	result := parsing.ParseBest(text, opts)
	s.respondWithSession(w, r, result, meta)
}

func (s *Server) decodeParseRequest(w http.ResponseWriter, r *http.Request) (ParseRequest, bool) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if req.Text == "" && req.HTML == "" {
		s.errorResponse(w, http.StatusBadRequest, "Either text or html is required")
		return req, false
	}
	if req.Text != "" && req.HTML != "" {
		s.errorResponse(w, http.StatusBadRequest, "Provide text or html, not both")
		return req, false
	}
	return req, true
}

// prepareInput resolves the request body into plain text, parse options, and
// source metadata. HTML input goes through the extractor first so layout
// collapse shows up in the diagnostics.
func (s *Server) prepareInput(w http.ResponseWriter, req ParseRequest) (string, parsing.Options, *ingestion.SourceMetadata, bool) {
	opts := parsing.Options{Tuning: s.cfg.Tuning()}

	if req.HTML != "" {
		text, stats, err := ingestion.ExtractHTML(strings.NewReader(req.HTML))
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Failed to extract HTML: "+err.Error())
			return "", opts, nil, false
		}
		opts.Extraction = &stats
		meta := ingestion.NewSourceMetadata("html", req.FileName, int64(len(req.HTML)), text)
		return text, opts, meta, true
	}

	meta := ingestion.NewSourceMetadata("plain_text", req.FileName, int64(len(req.Text)), req.Text)
	return req.Text, opts, meta, true
}

// respondWithSession wraps a parse result into a fresh import session,
// registers it, and returns it to the caller.
func (s *Server) respondWithSession(w http.ResponseWriter, r *http.Request, result parsing.Result, meta *ingestion.SourceMetadata) {
	sess := draft.NewSession(result.Draft, result.Diagnostics, result.LowQuality, result.Lines)
	sess.Source = meta

	if err := s.putSession(r.Context(), sess); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store session: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, sess)
}

func (s *Server) handleDebugReport(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("session_id")
	sessionID, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session_id")
		return
	}

	s.mu.Lock()
	sess, err := s.lookupSession(r.Context(), sessionID)
	s.mu.Unlock()
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	source := diagnostics.SourceInfo{Kind: "plain_text"}
	if sess.Source != nil {
		source = sess.Source.SourceInfo()
	}

	report := diagnostics.NewDebugReport(
		buildInfo(),
		source,
		sess.Diagnostics,
		sess.LowQuality,
		reportTotals(&sess.Draft),
	)
	s.jsonResponse(w, http.StatusOK, report)
}

// buildInfo identifies this binary in debug reports
func buildInfo() diagnostics.BuildInfo {
	return diagnostics.BuildInfo{Version: Version}
}

// Version is the build version stamped into debug reports. Overridden at
// link time via -ldflags.
var Version = "dev"

// reportTotals summarizes the draft's output volume for the debug report
func reportTotals(d *types.ImportDraft) diagnostics.ReportTotals {
	totals := diagnostics.ReportTotals{
		Companies:       len(d.Companies),
		StructuredItems: d.CountStructuredItems(),
	}
	for i := range d.Companies {
		totals.Roles += len(d.Companies[i].Roles)
		for j := range d.Companies[i].Roles {
			role := &d.Companies[i].Roles[j]
			totals.Items += len(role.Highlights) + len(role.Outcomes) + len(role.Tools) + len(role.Skills)
		}
	}
	return totals
}
