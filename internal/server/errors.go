// Package server provides the HTTP REST API over the import pipeline,
// draft sessions, the claim ledger, and opportunity tracking.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/draft"
	"github.com/jkaplan/jobtrail/internal/ledger"
	"github.com/jkaplan/jobtrail/internal/parsing"
)

// ErrSessionNotFound indicates an import session ID that is not live
type ErrSessionNotFound struct {
	SessionID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("import session not found: %s", e.SessionID)
}

// ErrSessionClosed indicates an edit against a session already saved or skipped
type ErrSessionClosed struct {
	SessionID uuid.UUID
	State     draft.SessionState
}

func (e *ErrSessionClosed) Error() string {
	return fmt.Sprintf("import session %s is %s and no longer editable", e.SessionID, e.State)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		sessionNotFound *ErrSessionNotFound
		sessionClosed   *ErrSessionClosed
		claimNotFound   *ledger.NotFoundError
		draftNotFound   *draft.NotFoundError
		validation      *ledger.ValidationError
		itemType        *draft.InvalidItemTypeError
		status          *draft.InvalidStatusError
		mode            *parsing.UnknownModeError
	)
	switch {
	case errors.As(err, &sessionNotFound), errors.As(err, &claimNotFound), errors.As(err, &draftNotFound):
		return http.StatusNotFound
	case errors.As(err, &sessionClosed):
		return http.StatusConflict
	case errors.As(err, &validation), errors.As(err, &itemType), errors.As(err, &status), errors.As(err, &mode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
