package types

import (
	"time"

	"github.com/google/uuid"
)

// ClaimType identifies the kind of a ledger claim
type ClaimType string

// Claim type constants
const (
	ClaimExperience ClaimType = "Experience"
	ClaimOutcome    ClaimType = "Outcome"
	ClaimTool       ClaimType = "Tool"
	ClaimSkill      ClaimType = "Skill"
)

// Valid reports whether the claim type is one of the known variants
func (t ClaimType) Valid() bool {
	switch t {
	case ClaimExperience, ClaimOutcome, ClaimTool, ClaimSkill:
		return true
	default:
		return false
	}
}

// VerificationStatus is the approval state of a claim
type VerificationStatus string

// Verification status constants
const (
	VerificationReviewNeeded VerificationStatus = "Review Needed"
	VerificationApproved     VerificationStatus = "Approved"
)

// Valid reports whether the verification status is one of the known variants
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationReviewNeeded, VerificationApproved:
		return true
	default:
		return false
	}
}

// Claim is a persisted, deduplicated unit of evidence consumed by fit scoring.
// An Outcome/Tool/Skill claim may carry a weak reference to its parent
// Experience claim via ExperienceID; deleting the Experience cascades to its
// dependents, deleting a dependent never affects the Experience.
type Claim struct {
	ID             uuid.UUID          `json:"id"`
	Type           ClaimType          `json:"type"`
	Text           string             `json:"text"`
	NormalizedText string             `json:"normalized_text"`
	Confidence     float64            `json:"confidence"`
	Verification   VerificationStatus `json:"verification_status"`
	ExperienceID   *uuid.UUID         `json:"experience_id,omitempty"`

	// Experience-only fields
	Role             string   `json:"role,omitempty"`
	Company          string   `json:"company,omitempty"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`

	// Outcome-only fields
	Metric    string `json:"metric,omitempty"`
	IsNumeric bool   `json:"is_numeric,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClaimInput is the caller-supplied payload for creating a claim.
// Type is optional; when empty the ledger infers it from the populated fields.
type ClaimInput struct {
	Type             ClaimType          `json:"type,omitempty"`
	Text             string             `json:"text" validate:"required"`
	Confidence       float64            `json:"confidence" validate:"gte=0,lte=1"`
	Verification     VerificationStatus `json:"verification_status,omitempty"`
	ExperienceID     *uuid.UUID         `json:"experience_id,omitempty"`
	Role             string             `json:"role,omitempty"`
	Company          string             `json:"company,omitempty"`
	StartDate        string             `json:"start_date,omitempty"`
	EndDate          string             `json:"end_date,omitempty"`
	Responsibilities []string           `json:"responsibilities,omitempty"`
	Metric           string             `json:"metric,omitempty"`
	IsNumeric        bool               `json:"is_numeric,omitempty"`
}
