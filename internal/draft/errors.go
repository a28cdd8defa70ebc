package draft

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/types"
)

// NotFoundError indicates a mutation targeted an entity that does not exist
// in the draft tree.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found in draft", e.Kind, e.ID)
}

// InvalidItemTypeError indicates an item carried a type outside the known set,
// or a tag operation was given a non-tag type.
type InvalidItemTypeError struct {
	Type types.ItemType
}

// Error implements the error interface
func (e *InvalidItemTypeError) Error() string {
	return fmt.Sprintf("invalid item type %q", e.Type)
}

// InvalidStatusError indicates a status value outside the known set
type InvalidStatusError struct {
	Status types.ReviewStatus
}

// Error implements the error interface
func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid review status %q", e.Status)
}
