// Package ledger is the claim ledger: the deduplicating store of evidence
// units (Experience, Outcome, Tool, Skill) extracted from imports or entered
// by hand. It owns type inference, canonicalization, dedup, merge, cascade
// delete, and the approval workflow; persistence is behind the Store port.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/types"
)

// DefaultAutoApproveConfidence is the confidence floor above which an
// incoming claim requesting Approved is escalated during dedup.
const DefaultAutoApproveConfidence = 0.9

// Config tunes a ledger. Zero values use defaults.
type Config struct {
	AutoApproveConfidence float64
	Validator             Validator
}

// Ledger coordinates claim mutations over a Store. Every mutation is an
// atomic unit under the ledger mutex: a dedup check is never interleaved with
// another write, and a merge is never observed half-applied.
type Ledger struct {
	mu          sync.Mutex
	store       Store
	validator   Validator
	autoApprove float64

	// deps indexes Experience ID to dependent claim IDs so cascade delete and
	// merge never scan the whole ledger.
	deps map[uuid.UUID][]uuid.UUID
}

// New builds a ledger over a store, loading the dependency index from the
// claims already persisted.
func New(ctx context.Context, store Store, cfg Config) (*Ledger, error) {
	if cfg.AutoApproveConfidence == 0 {
		cfg.AutoApproveConfidence = DefaultAutoApproveConfidence
	}
	if cfg.Validator == nil {
		cfg.Validator = NewDefaultValidator()
	}
	l := &Ledger{
		store:       store,
		validator:   cfg.Validator,
		autoApprove: cfg.AutoApproveConfidence,
		deps:        make(map[uuid.UUID][]uuid.UUID),
	}

	existing, err := store.List(ctx)
	if err != nil {
		return nil, &StoreError{Message: "loading claims", Cause: err}
	}
	for i := range existing {
		l.indexDependent(&existing[i])
	}
	return l, nil
}

// Add creates a claim from the input, inferring the type when not pinned,
// sanitizing cross-type fields, and deduplicating against existing claims.
// On a dedup hit the existing claim is returned with its confidence raised to
// the max of the two; nothing new is persisted.
func (l *Ledger) Add(ctx context.Context, in types.ClaimInput) (types.Claim, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.add(ctx, in)
}

// Update patches an existing claim, re-sanitizes, re-validates, and re-runs
// dedup. When the patched claim now collides with another one, the two are
// merged automatically with the existing claim as survivor.
func (l *Ledger) Update(ctx context.Context, id uuid.UUID, patch types.ClaimInput) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.get(ctx, id)
	if err != nil {
		return err
	}

	updated := *existing
	applyPatch(&updated, patch)
	sanitize(&updated)
	updated.NormalizedText = NormalizeText(updated.Text)
	updated.UpdatedAt = time.Now().UTC()

	if err := l.validator.Validate(&updated, l.validationContext(ctx)); err != nil {
		return err
	}

	dup, err := l.findDuplicate(ctx, &updated, id)
	if err != nil {
		return err
	}
	if dup != nil {
		return l.mergeInto(ctx, dup, &updated)
	}

	l.unindexDependent(existing)
	if err := l.store.Update(ctx, &updated); err != nil {
		l.indexDependent(existing)
		return &StoreError{Message: "updating claim", Cause: err}
	}
	l.indexDependent(&updated)
	return nil
}

// Delete removes a claim. Deleting an Experience cascades to every dependent
// claim; deleting a dependent never affects its parent.
func (l *Ledger) Delete(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.get(ctx, id)
	if err != nil {
		return err
	}

	for _, depID := range l.deps[id] {
		if err := l.store.Delete(ctx, depID); err != nil {
			return &StoreError{Message: "deleting dependent claim", Cause: err}
		}
	}
	delete(l.deps, id)

	if err := l.store.Delete(ctx, id); err != nil {
		return &StoreError{Message: "deleting claim", Cause: err}
	}
	l.unindexDependent(existing)
	return nil
}

// Merge folds the source Experience into the target: every dependent of the
// source is reassigned to the target, the source is deleted, and the target's
// confidence is raised to the max of both. The store applies all of it
// atomically; merge has no undo.
func (l *Ledger) Merge(ctx context.Context, targetID, sourceID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if targetID == sourceID {
		return &ValidationError{Field: "id", Message: "cannot merge a claim into itself"}
	}
	target, err := l.get(ctx, targetID)
	if err != nil {
		return err
	}
	source, err := l.get(ctx, sourceID)
	if err != nil {
		return err
	}
	if target.Type != types.ClaimExperience || source.Type != types.ClaimExperience {
		return &ValidationError{Field: "type", Message: "merge requires two Experience claims"}
	}

	if source.Confidence > target.Confidence {
		target.Confidence = source.Confidence
	}
	target.UpdatedAt = time.Now().UTC()

	depIDs := l.deps[sourceID]
	if err := l.store.ApplyMerge(ctx, target, sourceID, depIDs); err != nil {
		return &StoreError{Message: "merging claims", Cause: err}
	}
	l.deps[targetID] = append(l.deps[targetID], depIDs...)
	delete(l.deps, sourceID)
	return nil
}

// Approve moves the selected claims to Approved, or every Review Needed
// claim when ids is nil. Already-Approved claims are skipped. The returned
// count is the number of claims actually transitioned.
func (l *Ledger) Approve(ctx context.Context, ids []uuid.UUID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var pending []types.Claim
	if ids == nil {
		all, err := l.store.List(ctx)
		if err != nil {
			return 0, &StoreError{Message: "listing claims", Cause: err}
		}
		for _, c := range all {
			if c.Verification == types.VerificationReviewNeeded {
				pending = append(pending, c)
			}
		}
	} else {
		for _, id := range ids {
			c, err := l.get(ctx, id)
			if err != nil {
				return 0, err
			}
			if c.Verification == types.VerificationReviewNeeded {
				pending = append(pending, *c)
			}
		}
	}

	now := time.Now().UTC()
	for i := range pending {
		pending[i].Verification = types.VerificationApproved
		pending[i].UpdatedAt = now
		if err := l.store.Update(ctx, &pending[i]); err != nil {
			return i, &StoreError{Message: "approving claim", Cause: err}
		}
	}
	return len(pending), nil
}

// Get returns one claim
func (l *Ledger) Get(ctx context.Context, id uuid.UUID) (types.Claim, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.get(ctx, id)
	if err != nil {
		return types.Claim{}, err
	}
	return *c, nil
}

// List returns every claim in insertion order
func (l *Ledger) List(ctx context.Context) ([]types.Claim, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.List(ctx)
}

// ListByType returns claims of one type in insertion order
func (l *Ledger) ListByType(ctx context.Context, t types.ClaimType) ([]types.Claim, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.ListByType(ctx, t)
}

// Dependents returns the dependent claim IDs of an Experience
func (l *Ledger) Dependents(id uuid.UUID) []uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]uuid.UUID(nil), l.deps[id]...)
}

// add is the unlocked core of Add
func (l *Ledger) add(ctx context.Context, in types.ClaimInput) (types.Claim, error) {
	now := time.Now().UTC()
	claim := types.Claim{
		ID:               uuid.New(),
		Type:             InferType(&in),
		Text:             in.Text,
		Confidence:       in.Confidence,
		Verification:     types.VerificationReviewNeeded,
		ExperienceID:     in.ExperienceID,
		Role:             in.Role,
		Company:          in.Company,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		Responsibilities: in.Responsibilities,
		Metric:           in.Metric,
		IsNumeric:        in.IsNumeric,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	sanitize(&claim)
	claim.NormalizedText = NormalizeText(claim.Text)
	if in.Verification == types.VerificationApproved && claim.Confidence >= l.autoApprove {
		claim.Verification = types.VerificationApproved
	}

	if err := l.validator.Validate(&claim, l.validationContext(ctx)); err != nil {
		return types.Claim{}, err
	}

	dup, err := l.findDuplicate(ctx, &claim, uuid.Nil)
	if err != nil {
		return types.Claim{}, err
	}
	if dup != nil {
		changed := false
		if claim.Confidence > dup.Confidence {
			dup.Confidence = claim.Confidence
			changed = true
		}
		if dup.Verification != types.VerificationApproved && claim.Verification == types.VerificationApproved {
			dup.Verification = types.VerificationApproved
			changed = true
		}
		if changed {
			dup.UpdatedAt = now
			if err := l.store.Update(ctx, dup); err != nil {
				return types.Claim{}, &StoreError{Message: "updating claim", Cause: err}
			}
		}
		return *dup, nil
	}

	if err := l.store.Insert(ctx, &claim); err != nil {
		return types.Claim{}, &StoreError{Message: "inserting claim", Cause: err}
	}
	l.indexDependent(&claim)
	return claim, nil
}

// get resolves an ID or returns a NotFoundError
func (l *Ledger) get(ctx context.Context, id uuid.UUID) (*types.Claim, error) {
	c, err := l.store.Get(ctx, id)
	if err != nil {
		return nil, &StoreError{Message: "loading claim", Cause: err}
	}
	if c == nil {
		return nil, &NotFoundError{ID: id}
	}
	return c, nil
}

// findDuplicate returns the existing claim sharing the dedup key, skipping
// the given ID (used on update so a claim never collides with itself).
func (l *Ledger) findDuplicate(ctx context.Context, c *types.Claim, skip uuid.UUID) (*types.Claim, error) {
	peers, err := l.store.ListByType(ctx, c.Type)
	if err != nil {
		return nil, &StoreError{Message: "listing claims", Cause: err}
	}
	key := dedupKey(c)
	for i := range peers {
		if peers[i].ID == skip {
			continue
		}
		if dedupKey(&peers[i]) == key {
			return &peers[i], nil
		}
	}
	return nil, nil
}

// mergeInto folds the updated claim into a surviving duplicate: confidence
// and verification are escalated on the survivor, the updated claim's
// dependents move over, and the updated claim is deleted.
func (l *Ledger) mergeInto(ctx context.Context, survivor, updated *types.Claim) error {
	if updated.Confidence > survivor.Confidence {
		survivor.Confidence = updated.Confidence
	}
	if survivor.Verification != types.VerificationApproved &&
		updated.Verification == types.VerificationApproved && updated.Confidence >= l.autoApprove {
		survivor.Verification = types.VerificationApproved
	}
	survivor.UpdatedAt = time.Now().UTC()

	depIDs := l.deps[updated.ID]
	if err := l.store.ApplyMerge(ctx, survivor, updated.ID, depIDs); err != nil {
		return &StoreError{Message: "merging duplicate claims", Cause: err}
	}
	l.deps[survivor.ID] = append(l.deps[survivor.ID], depIDs...)
	delete(l.deps, updated.ID)
	l.unindexDependent(updated)
	return nil
}

// validationContext exposes ledger lookups to the validator
func (l *Ledger) validationContext(ctx context.Context) ValidationContext {
	return ValidationContext{
		ExperienceExists: func(id uuid.UUID) bool {
			c, err := l.store.Get(ctx, id)
			return err == nil && c != nil && c.Type == types.ClaimExperience
		},
	}
}

// indexDependent records a dependent claim under its parent Experience
func (l *Ledger) indexDependent(c *types.Claim) {
	if c.ExperienceID == nil {
		return
	}
	l.deps[*c.ExperienceID] = append(l.deps[*c.ExperienceID], c.ID)
}

// unindexDependent removes a claim from its parent's dependent list
func (l *Ledger) unindexDependent(c *types.Claim) {
	if c.ExperienceID == nil {
		return
	}
	ids := l.deps[*c.ExperienceID]
	for i, id := range ids {
		if id == c.ID {
			l.deps[*c.ExperienceID] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// applyPatch overlays the non-zero fields of a patch onto a claim
func applyPatch(c *types.Claim, patch types.ClaimInput) {
	if patch.Type.Valid() {
		c.Type = patch.Type
	}
	if patch.Text != "" {
		c.Text = patch.Text
	}
	if patch.Confidence != 0 {
		c.Confidence = patch.Confidence
	}
	if patch.Verification.Valid() {
		c.Verification = patch.Verification
	}
	if patch.ExperienceID != nil {
		c.ExperienceID = patch.ExperienceID
	}
	if patch.Role != "" {
		c.Role = patch.Role
	}
	if patch.Company != "" {
		c.Company = patch.Company
	}
	if patch.StartDate != "" {
		c.StartDate = patch.StartDate
	}
	if patch.EndDate != "" {
		c.EndDate = patch.EndDate
	}
	if patch.Responsibilities != nil {
		c.Responsibilities = patch.Responsibilities
	}
	if patch.Metric != "" {
		c.Metric = patch.Metric
	}
	if patch.IsNumeric {
		c.IsNumeric = true
	}
}
