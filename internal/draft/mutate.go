// Package draft provides the editable import draft: pure mutation operations
// over the parsed tree, parse sessions, and the profile prefill suggestion.
//
// Every operation takes an ImportDraft by value and returns a new draft with
// the operation applied; the input is never modified. Entities keep their IDs
// across moves and edits so that selection state and undo snapshots held by a
// caller stay valid.
package draft

import (
	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/types"
)

// Destination addresses one (company, role) pair inside a draft
type Destination struct {
	CompanyID uuid.UUID
	RoleID    uuid.UUID
}

// AddCompany appends a company and returns the new draft plus the company's ID.
// A manually added company is accepted at full confidence; the reserved
// sentinel name keeps needs_attention so it is never confused with a real
// employer.
func AddCompany(d types.ImportDraft, name string) (types.ImportDraft, uuid.UUID) {
	out := d.Clone()
	status := types.StatusAccepted
	if types.IsUnassignedCompany(name) {
		status = types.StatusNeedsAttention
	}
	company := types.ImportDraftCompany{
		ID:         uuid.New(),
		Name:       name,
		Confidence: 1.0,
		Status:     status,
	}
	out.Companies = append(out.Companies, company)
	return out, company.ID
}

// DeleteCompany removes a company and everything nested under it
func DeleteCompany(d types.ImportDraft, companyID uuid.UUID) (types.ImportDraft, error) {
	out := d.Clone()
	for i := range out.Companies {
		if out.Companies[i].ID == companyID {
			out.Companies = append(out.Companies[:i], out.Companies[i+1:]...)
			return out, nil
		}
	}
	return d, &NotFoundError{Kind: "company", ID: companyID}
}

// AddRole appends a role to a company and returns the new draft plus the
// role's ID. Dates may be empty; an empty end date means the role is current.
func AddRole(d types.ImportDraft, companyID uuid.UUID, title, startDate, endDate string) (types.ImportDraft, uuid.UUID, error) {
	out := d.Clone()
	company := findCompany(&out, companyID)
	if company == nil {
		return d, uuid.Nil, &NotFoundError{Kind: "company", ID: companyID}
	}
	role := types.ImportDraftRole{
		ID:         uuid.New(),
		Title:      title,
		StartDate:  startDate,
		EndDate:    endDate,
		Confidence: 1.0,
		Status:     types.StatusAccepted,
	}
	company.Roles = append(company.Roles, role)
	return out, role.ID, nil
}

// DeleteRole removes a role and every item nested under it
func DeleteRole(d types.ImportDraft, roleID uuid.UUID) (types.ImportDraft, error) {
	out := d.Clone()
	for ci := range out.Companies {
		roles := out.Companies[ci].Roles
		for ri := range roles {
			if roles[ri].ID == roleID {
				out.Companies[ci].Roles = append(roles[:ri], roles[ri+1:]...)
				return out, nil
			}
		}
	}
	return d, &NotFoundError{Kind: "role", ID: roleID}
}

// AddItem appends an item to the destination role's collection for its type.
// A zero ID is assigned, an empty status defaults to accepted; everything
// else on the item is kept as given.
func AddItem(d types.ImportDraft, dest Destination, item types.ImportDraftItem) (types.ImportDraft, uuid.UUID, error) {
	if !item.Type.Valid() {
		return d, uuid.Nil, &InvalidItemTypeError{Type: item.Type}
	}
	out := d.Clone()
	role := findRole(&out, dest)
	if role == nil {
		return d, uuid.Nil, &NotFoundError{Kind: "role", ID: dest.RoleID}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Status == "" {
		item.Status = types.StatusAccepted
	}
	appendToRole(role, item)
	return out, item.ID, nil
}

// AddTag appends a tool or skill tag to the destination role. Structured item
// types are rejected; use AddItem for those.
func AddTag(d types.ImportDraft, dest Destination, tagType types.ItemType, text string) (types.ImportDraft, uuid.UUID, error) {
	if tagType != types.ItemTool && tagType != types.ItemSkill {
		return d, uuid.Nil, &InvalidItemTypeError{Type: tagType}
	}
	return AddItem(d, dest, types.ImportDraftItem{
		Type:       tagType,
		Text:       text,
		Confidence: 1.0,
		Status:     types.StatusAccepted,
	})
}

// DeleteItem removes an item wherever it lives in the tree. Sibling items keep
// their identifiers and relative order.
func DeleteItem(d types.ImportDraft, itemID uuid.UUID) (types.ImportDraft, error) {
	out := d.Clone()
	if _, ok := takeItem(&out, itemID); !ok {
		return d, &NotFoundError{Kind: "item", ID: itemID}
	}
	return out, nil
}

// DeleteTag removes a tool or skill tag. A structured item behind the same ID
// is left untouched and reported as invalid.
func DeleteTag(d types.ImportDraft, itemID uuid.UUID) (types.ImportDraft, error) {
	out := d.Clone()
	item, ok := takeItem(&out, itemID)
	if !ok {
		return d, &NotFoundError{Kind: "item", ID: itemID}
	}
	if item.Type != types.ItemTool && item.Type != types.ItemSkill {
		return d, &InvalidItemTypeError{Type: item.Type}
	}
	return out, nil
}

// MoveItem removes an item from its current role and appends it to the
// destination role's collection for its type. The item itself is unchanged:
// same ID, text, metric, confidence, and status.
func MoveItem(d types.ImportDraft, itemID uuid.UUID, dest Destination) (types.ImportDraft, error) {
	out := d.Clone()
	item, ok := takeItem(&out, itemID)
	if !ok {
		return d, &NotFoundError{Kind: "item", ID: itemID}
	}
	role := findRole(&out, dest)
	if role == nil {
		return d, &NotFoundError{Kind: "role", ID: dest.RoleID}
	}
	appendToRole(role, item)
	return out, nil
}

// SetItemStatus records a user review decision on an item. The override flag
// is set so later pipeline runs never silently recompute the status.
func SetItemStatus(d types.ImportDraft, itemID uuid.UUID, status types.ReviewStatus) (types.ImportDraft, error) {
	if !status.Valid() {
		return d, &InvalidStatusError{Status: status}
	}
	out := d.Clone()
	item := findItem(&out, itemID)
	if item == nil {
		return d, &NotFoundError{Kind: "item", ID: itemID}
	}
	item.Status = status
	item.StatusOverridden = true
	return out, nil
}

// findCompany returns a pointer into the draft, or nil
func findCompany(d *types.ImportDraft, companyID uuid.UUID) *types.ImportDraftCompany {
	for i := range d.Companies {
		if d.Companies[i].ID == companyID {
			return &d.Companies[i]
		}
	}
	return nil
}

// findRole resolves a destination to a role pointer, or nil
func findRole(d *types.ImportDraft, dest Destination) *types.ImportDraftRole {
	company := findCompany(d, dest.CompanyID)
	if company == nil {
		return nil
	}
	for i := range company.Roles {
		if company.Roles[i].ID == dest.RoleID {
			return &company.Roles[i]
		}
	}
	return nil
}

// findItem returns a pointer to an item anywhere in the tree, or nil
func findItem(d *types.ImportDraft, itemID uuid.UUID) *types.ImportDraftItem {
	for ci := range d.Companies {
		for ri := range d.Companies[ci].Roles {
			role := &d.Companies[ci].Roles[ri]
			for _, slot := range itemSlots(role) {
				for i := range *slot {
					if (*slot)[i].ID == itemID {
						return &(*slot)[i]
					}
				}
			}
		}
	}
	return nil
}

// takeItem removes an item from wherever it lives and returns it
func takeItem(d *types.ImportDraft, itemID uuid.UUID) (types.ImportDraftItem, bool) {
	for ci := range d.Companies {
		for ri := range d.Companies[ci].Roles {
			role := &d.Companies[ci].Roles[ri]
			for _, slot := range itemSlots(role) {
				for i := range *slot {
					if (*slot)[i].ID == itemID {
						item := (*slot)[i]
						*slot = append((*slot)[:i], (*slot)[i+1:]...)
						return item, true
					}
				}
			}
		}
	}
	return types.ImportDraftItem{}, false
}

// itemSlots lists a role's item collections in display order
func itemSlots(r *types.ImportDraftRole) []*[]types.ImportDraftItem {
	return []*[]types.ImportDraftItem{&r.Highlights, &r.Outcomes, &r.Tools, &r.Skills}
}

// appendToRole routes an item into the collection matching its type. The
// switch is exhaustive over ItemType; AddItem rejects unknown types before
// this point.
func appendToRole(r *types.ImportDraftRole, item types.ImportDraftItem) {
	switch item.Type {
	case types.ItemHighlight:
		r.Highlights = append(r.Highlights, item)
	case types.ItemOutcome:
		r.Outcomes = append(r.Outcomes, item)
	case types.ItemTool:
		r.Tools = append(r.Tools, item)
	case types.ItemSkill:
		r.Skills = append(r.Skills, item)
	}
}
