package ledger

import (
	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/types"
)

// ValidationContext gives a validator the ledger facts it needs without
// exposing the store itself.
type ValidationContext struct {
	// ExperienceExists reports whether an Experience claim with the given ID
	// is currently in the ledger.
	ExperienceExists func(id uuid.UUID) bool
}

// Validator checks a claim against type-specific invariants before every
// insert and update. Implementations return a *ValidationError on rejection.
type Validator interface {
	Validate(c *types.Claim, vctx ValidationContext) error
}

// defaultValidator enforces the core invariant set
type defaultValidator struct{}

// NewDefaultValidator returns the standard claim validator
func NewDefaultValidator() Validator {
	return defaultValidator{}
}

// Validate checks the shared invariants first, then the type-specific ones
func (defaultValidator) Validate(c *types.Claim, vctx ValidationContext) error {
	if !c.Type.Valid() {
		return &ValidationError{Field: "type", Message: "unknown claim type"}
	}
	if c.Text == "" {
		return &ValidationError{Field: "text", Message: "text is required"}
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return &ValidationError{Field: "confidence", Message: "confidence must be between 0 and 1"}
	}
	if !c.Verification.Valid() {
		return &ValidationError{Field: "verification_status", Message: "unknown verification status"}
	}

	if c.Type == types.ClaimExperience {
		return validateExperience(c)
	}
	return validateDependent(c, vctx)
}

// validateExperience requires at least one anchoring field and forbids the
// Outcome-only fields.
func validateExperience(c *types.Claim) error {
	if c.Role == "" && c.Company == "" {
		return &ValidationError{Field: "role", Message: "an Experience claim needs a role or a company"}
	}
	if c.ExperienceID != nil {
		return &ValidationError{Field: "experience_id", Message: "an Experience claim cannot depend on another Experience"}
	}
	if c.Metric != "" || c.IsNumeric {
		return &ValidationError{Field: "metric", Message: "only Outcome claims carry a metric"}
	}
	return nil
}

// validateDependent forbids Experience-only fields and checks the parent
// reference.
func validateDependent(c *types.Claim, vctx ValidationContext) error {
	if c.Role != "" || c.Company != "" || c.StartDate != "" || c.EndDate != "" || len(c.Responsibilities) > 0 {
		return &ValidationError{Field: "role", Message: "only Experience claims carry role, company, dates, or responsibilities"}
	}
	if c.Type != types.ClaimOutcome && (c.Metric != "" || c.IsNumeric) {
		return &ValidationError{Field: "metric", Message: "only Outcome claims carry a metric"}
	}
	if c.ExperienceID != nil {
		if vctx.ExperienceExists == nil || !vctx.ExperienceExists(*c.ExperienceID) {
			return &ValidationError{Field: "experience_id", Message: "referenced Experience claim does not exist"}
		}
	}
	return nil
}
