package draft

import (
	"time"

	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/diagnostics"
	"github.com/jkaplan/jobtrail/internal/ingestion"
	"github.com/jkaplan/jobtrail/internal/types"
)

// SessionState tracks where an import session is in its lifecycle
type SessionState string

// Session state constants
const (
	// SessionParsed means a draft exists and is being reviewed
	SessionParsed SessionState = "parsed"
	// SessionSaved means the draft was committed to the claim ledger
	SessionSaved SessionState = "saved"
	// SessionSkipped means the user abandoned the draft without saving
	SessionSkipped SessionState = "skipped"
)

// Valid reports whether the state is one of the known variants
func (s SessionState) Valid() bool {
	switch s {
	case SessionParsed, SessionSaved, SessionSkipped:
		return true
	default:
		return false
	}
}

// Session is one parse attempt with its editable draft and frozen
// diagnostics. A re-parse never patches a session; it replaces it wholesale,
// so draft state and diagnostics can never disagree about which attempt they
// describe.
type Session struct {
	ID          uuid.UUID                    `json:"id"`
	State       SessionState                 `json:"state"`
	Draft       types.ImportDraft            `json:"draft"`
	Diagnostics diagnostics.ParseDiagnostics `json:"diagnostics"`
	LowQuality  bool                         `json:"low_quality"`
	Prefill     Prefill                      `json:"prefill"`
	CreatedAt   time.Time                    `json:"created_at"`
	// Source describes where the parsed input came from. The caller attaches
	// it after construction; it feeds debug reports and is nil for inputs
	// with no recorded origin.
	Source *ingestion.SourceMetadata `json:"source,omitempty"`
}

// NewSession builds a fresh session around one parse result. The prefill
// suggestion is derived once here; draft edits never recompute it.
func NewSession(d types.ImportDraft, diag diagnostics.ParseDiagnostics, lowQuality bool, lines []types.SourceLine) *Session {
	return &Session{
		ID:          uuid.New(),
		State:       SessionParsed,
		Draft:       d,
		Diagnostics: diag,
		LowQuality:  lowQuality,
		Prefill:     DerivePrefill(&d, lines),
		CreatedAt:   time.Now().UTC(),
	}
}

// Replace supersedes this session with a new parse attempt, returning the
// replacement. The old session is left untouched for undo history.
func (s *Session) Replace(d types.ImportDraft, diag diagnostics.ParseDiagnostics, lowQuality bool, lines []types.SourceLine) *Session {
	return NewSession(d, diag, lowQuality, lines)
}

// MarkSaved records that the draft was committed to the ledger
func (s *Session) MarkSaved() {
	s.State = SessionSaved
}

// MarkSkipped records that the user abandoned the draft
func (s *Session) MarkSkipped() {
	s.State = SessionSkipped
}

// SetDraft replaces the session's draft with an edited copy. Mutation
// operations are pure, so callers apply an operation and store the result
// back here.
func (s *Session) SetDraft(d types.ImportDraft) {
	s.Draft = d
}
