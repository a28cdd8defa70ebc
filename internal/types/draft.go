// Package types provides type definitions for structured data used throughout the jobtrail system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/google/uuid"
)

// ItemType identifies the kind of a draft leaf item
type ItemType string

// Item type constants
const (
	ItemHighlight ItemType = "highlight"
	ItemOutcome   ItemType = "outcome"
	ItemTool      ItemType = "tool"
	ItemSkill     ItemType = "skill"
)

// Valid reports whether the item type is one of the known variants
func (t ItemType) Valid() bool {
	switch t {
	case ItemHighlight, ItemOutcome, ItemTool, ItemSkill:
		return true
	default:
		return false
	}
}

// ReviewStatus is the review state of a detected entity
type ReviewStatus string

// Review status constants
const (
	StatusAccepted       ReviewStatus = "accepted"
	StatusNeedsAttention ReviewStatus = "needs_attention"
	StatusRejected       ReviewStatus = "rejected"
)

// Valid reports whether the review status is one of the known variants
func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusAccepted, StatusNeedsAttention, StatusRejected:
		return true
	default:
		return false
	}
}

// UnassignedCompanyName is the reserved sentinel company holding items that
// could not be attached to a real employer. It is never scored as a real
// company and always carries needs_attention status.
const UnassignedCompanyName = "Unassigned"

// IsUnassignedCompany reports whether a company name is the reserved sentinel (case-insensitive)
func IsUnassignedCompany(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), UnassignedCompanyName)
}

// SourceLine is a single normalized line of extracted input text.
// Index is the zero-based position in the normalized line sequence and is
// stable for the lifetime of a parse attempt.
type SourceLine struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ImportDraftItem is a leaf unit of the import draft tree
type ImportDraftItem struct {
	ID               uuid.UUID    `json:"id"`
	Type             ItemType     `json:"type"`
	Text             string       `json:"text"`
	Metric           string       `json:"metric,omitempty"`
	Confidence       float64      `json:"confidence"`
	Status           ReviewStatus `json:"status"`
	StatusOverridden bool         `json:"status_overridden,omitempty"` // set once the user edits the status; it is never recomputed afterwards
	SourceRefs       []int        `json:"source_refs,omitempty"`
}

// ImportDraftRole is a role held at a company, with classified items grouped by type.
// StartDate may be empty only when no date signal was found; an empty EndDate
// means the role is current.
type ImportDraftRole struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	StartDate  string            `json:"start_date,omitempty"`
	EndDate    string            `json:"end_date,omitempty"`
	Confidence float64           `json:"confidence"`
	Status     ReviewStatus      `json:"status"`
	Highlights []ImportDraftItem `json:"highlights,omitempty"`
	Outcomes   []ImportDraftItem `json:"outcomes,omitempty"`
	Tools      []ImportDraftItem `json:"tools,omitempty"`
	Skills     []ImportDraftItem `json:"skills,omitempty"`
	SourceRefs []int             `json:"source_refs,omitempty"`
}

// Items returns all items of the role in display order (highlights, outcomes, tools, skills)
func (r *ImportDraftRole) Items() []ImportDraftItem {
	out := make([]ImportDraftItem, 0, len(r.Highlights)+len(r.Outcomes)+len(r.Tools)+len(r.Skills))
	out = append(out, r.Highlights...)
	out = append(out, r.Outcomes...)
	out = append(out, r.Tools...)
	out = append(out, r.Skills...)
	return out
}

// ImportDraftCompany is a detected employer with its roles
type ImportDraftCompany struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	Confidence float64           `json:"confidence"`
	Status     ReviewStatus      `json:"status"`
	Roles      []ImportDraftRole `json:"roles,omitempty"`
	SourceRefs []int             `json:"source_refs,omitempty"`
}

// IsUnassigned reports whether this company is the reserved sentinel
func (c *ImportDraftCompany) IsUnassigned() bool {
	return IsUnassignedCompany(c.Name)
}

// ImportDraft is the root of the editable tree produced by a parse attempt.
// Company order is the display/edit order and is preserved across mutations.
type ImportDraft struct {
	Companies []ImportDraftCompany `json:"companies"`
}

// CountStructuredItems counts highlights and outcomes across the draft.
// Tools and skills are tag-like and do not count toward structured volume.
func (d *ImportDraft) CountStructuredItems() int {
	n := 0
	for i := range d.Companies {
		for j := range d.Companies[i].Roles {
			role := &d.Companies[i].Roles[j]
			n += len(role.Highlights) + len(role.Outcomes)
		}
	}
	return n
}

// CountItems counts every item of every type across the draft
func (d *ImportDraft) CountItems() int {
	n := 0
	for i := range d.Companies {
		for j := range d.Companies[i].Roles {
			role := &d.Companies[i].Roles[j]
			n += len(role.Highlights) + len(role.Outcomes) + len(role.Tools) + len(role.Skills)
		}
	}
	return n
}

// CountRoles counts roles across all companies, including the Unassigned sentinel
func (d *ImportDraft) CountRoles() int {
	n := 0
	for i := range d.Companies {
		n += len(d.Companies[i].Roles)
	}
	return n
}

// CountRealCompanies counts companies excluding the Unassigned sentinel
func (d *ImportDraft) CountRealCompanies() int {
	n := 0
	for i := range d.Companies {
		if !d.Companies[i].IsUnassigned() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the draft. Mutation operations work on clones
// so that no operation is destructive in place.
func (d *ImportDraft) Clone() ImportDraft {
	out := ImportDraft{Companies: make([]ImportDraftCompany, len(d.Companies))}
	for i := range d.Companies {
		out.Companies[i] = cloneCompany(&d.Companies[i])
	}
	return out
}

func cloneCompany(c *ImportDraftCompany) ImportDraftCompany {
	out := *c
	out.SourceRefs = append([]int(nil), c.SourceRefs...)
	out.Roles = make([]ImportDraftRole, len(c.Roles))
	for i := range c.Roles {
		out.Roles[i] = cloneRole(&c.Roles[i])
	}
	return out
}

func cloneRole(r *ImportDraftRole) ImportDraftRole {
	out := *r
	out.SourceRefs = append([]int(nil), r.SourceRefs...)
	out.Highlights = cloneItems(r.Highlights)
	out.Outcomes = cloneItems(r.Outcomes)
	out.Tools = cloneItems(r.Tools)
	out.Skills = cloneItems(r.Skills)
	return out
}

func cloneItems(items []ImportDraftItem) []ImportDraftItem {
	if items == nil {
		return nil
	}
	out := make([]ImportDraftItem, len(items))
	for i := range items {
		out[i] = items[i]
		out[i].SourceRefs = append([]int(nil), items[i].SourceRefs...)
	}
	return out
}
