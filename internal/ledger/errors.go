package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError indicates a claim write violated a type-specific invariant.
// It is the only error class that fails a ledger operation outright; the
// ledger is left unchanged when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("claim validation failed on %s: %s", e.Field, e.Message)
}

// NotFoundError indicates an operation referenced a claim that does not exist
type NotFoundError struct {
	ID uuid.UUID
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("claim %s not found", e.ID)
}

// StoreError wraps a persistence failure from the underlying claim store
type StoreError struct {
	Message string
	Cause   error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *StoreError) Unwrap() error {
	return e.Cause
}
