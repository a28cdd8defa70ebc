package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/types"
)

// Store is the persistence port of the claim ledger. The ledger owns dedup,
// inference, and the dependency index; a store only moves claims in and out
// of durable storage. Get returns (nil, nil) for an unknown ID.
//
// ApplyMerge must be atomic: reassign every listed dependent's ExperienceID
// to target.ID, persist the updated target, and delete the source claim, or
// do none of it.
type Store interface {
	Insert(ctx context.Context, c *types.Claim) error
	Update(ctx context.Context, c *types.Claim) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*types.Claim, error)
	List(ctx context.Context) ([]types.Claim, error)
	ListByType(ctx context.Context, t types.ClaimType) ([]types.Claim, error)
	ApplyMerge(ctx context.Context, target *types.Claim, sourceID uuid.UUID, dependentIDs []uuid.UUID) error
}

// MemoryStore is the in-process Store used by the CLI without a database and
// by tests. Insertion order is preserved by List.
type MemoryStore struct {
	claims map[uuid.UUID]types.Claim
	order  []uuid.UUID
}

// NewMemoryStore returns an empty in-memory claim store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{claims: make(map[uuid.UUID]types.Claim)}
}

// Insert adds a claim
func (s *MemoryStore) Insert(_ context.Context, c *types.Claim) error {
	if _, exists := s.claims[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.claims[c.ID] = *c
	return nil
}

// Update replaces a stored claim
func (s *MemoryStore) Update(_ context.Context, c *types.Claim) error {
	if _, exists := s.claims[c.ID]; !exists {
		return &NotFoundError{ID: c.ID}
	}
	s.claims[c.ID] = *c
	return nil
}

// Delete removes a claim. Deleting an unknown ID is a no-op.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, exists := s.claims[id]; !exists {
		return nil
	}
	delete(s.claims, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a copy of a claim, or nil when absent
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*types.Claim, error) {
	c, exists := s.claims[id]
	if !exists {
		return nil, nil
	}
	return &c, nil
}

// List returns all claims in insertion order
func (s *MemoryStore) List(_ context.Context) ([]types.Claim, error) {
	out := make([]types.Claim, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.claims[id])
	}
	return out, nil
}

// ListByType returns claims of one type in insertion order
func (s *MemoryStore) ListByType(_ context.Context, t types.ClaimType) ([]types.Claim, error) {
	out := make([]types.Claim, 0)
	for _, id := range s.order {
		if s.claims[id].Type == t {
			out = append(out, s.claims[id])
		}
	}
	return out, nil
}

// ApplyMerge reassigns dependents, updates the target, and deletes the
// source. All checks run before the first mutation so a failure leaves the
// store untouched.
func (s *MemoryStore) ApplyMerge(ctx context.Context, target *types.Claim, sourceID uuid.UUID, dependentIDs []uuid.UUID) error {
	if _, exists := s.claims[target.ID]; !exists {
		return &NotFoundError{ID: target.ID}
	}
	if _, exists := s.claims[sourceID]; !exists {
		return &NotFoundError{ID: sourceID}
	}
	for _, depID := range dependentIDs {
		if _, exists := s.claims[depID]; !exists {
			return &NotFoundError{ID: depID}
		}
	}

	for _, depID := range dependentIDs {
		dep := s.claims[depID]
		parentID := target.ID
		dep.ExperienceID = &parentID
		s.claims[depID] = dep
	}
	s.claims[target.ID] = *target
	return s.Delete(ctx, sourceID)
}
