package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jkaplan/jobtrail/internal/types"
)

// claimColumns is the column list shared by every claim query, ordered to
// match scanClaim.
const claimColumns = `id, type, text, normalized_text, confidence, verification_status,
	experience_id, role, company, start_date, end_date, responsibilities,
	metric, is_numeric, created_at, updated_at`

// ClaimStore persists claims in PostgreSQL. It implements ledger.Store; the
// ledger owns dedup and the dependency index, this type only moves rows.
type ClaimStore struct {
	db *DB
}

// NewClaimStore returns a claim store over an open database
func NewClaimStore(db *DB) *ClaimStore {
	return &ClaimStore{db: db}
}

// Insert adds a claim row
func (s *ClaimStore) Insert(ctx context.Context, c *types.Claim) error {
	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO claims (id, type, text, normalized_text, confidence, verification_status,
			experience_id, role, company, start_date, end_date, responsibilities,
			metric, is_numeric, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		c.ID, c.Type, c.Text, c.NormalizedText, c.Confidence, c.Verification,
		c.ExperienceID, c.Role, c.Company, c.StartDate, c.EndDate, c.Responsibilities,
		c.Metric, c.IsNumeric, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

// Update replaces a claim row
func (s *ClaimStore) Update(ctx context.Context, c *types.Claim) error {
	result, err := s.db.pool.Exec(ctx,
		`UPDATE claims SET type = $2, text = $3, normalized_text = $4, confidence = $5,
			verification_status = $6, experience_id = $7, role = $8, company = $9,
			start_date = $10, end_date = $11, responsibilities = $12, metric = $13,
			is_numeric = $14, updated_at = $15
		 WHERE id = $1`,
		c.ID, c.Type, c.Text, c.NormalizedText, c.Confidence, c.Verification,
		c.ExperienceID, c.Role, c.Company, c.StartDate, c.EndDate, c.Responsibilities,
		c.Metric, c.IsNumeric, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("claim not found: %s", c.ID)
	}
	return nil
}

// Delete removes a claim row. Deleting an unknown ID is a no-op.
func (s *ClaimStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.pool.Exec(ctx, `DELETE FROM claims WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete claim: %w", err)
	}
	return nil
}

// Get retrieves a claim by ID, or nil when absent
func (s *ClaimStore) Get(ctx context.Context, id uuid.UUID) (*types.Claim, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE id = $1`, id)
	c, err := scanClaim(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	return c, nil
}

// List retrieves every claim in insertion order
func (s *ClaimStore) List(ctx context.Context) ([]types.Claim, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT `+claimColumns+` FROM claims ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()
	return collectClaims(rows)
}

// ListByType retrieves claims of one type in insertion order
func (s *ClaimStore) ListByType(ctx context.Context, t types.ClaimType) ([]types.Claim, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE type = $1 ORDER BY position ASC`, t)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()
	return collectClaims(rows)
}

// ApplyMerge reassigns the dependents, updates the target, and deletes the
// source inside one transaction.
func (s *ClaimStore) ApplyMerge(ctx context.Context, target *types.Claim, sourceID uuid.UUID, dependentIDs []uuid.UUID) error {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin merge: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if len(dependentIDs) > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE claims SET experience_id = $1, updated_at = $2 WHERE id = ANY($3)`,
			target.ID, target.UpdatedAt, dependentIDs,
		); err != nil {
			return fmt.Errorf("failed to reassign dependents: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE claims SET confidence = $2, verification_status = $3, updated_at = $4 WHERE id = $1`,
		target.ID, target.Confidence, target.Verification, target.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to update merge target: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM claims WHERE id = $1`, sourceID)
	if err != nil {
		return fmt.Errorf("failed to delete merge source: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("merge source not found: %s", sourceID)
	}

	return tx.Commit(ctx)
}

// scanClaim reads one claim row
func scanClaim(row pgx.Row) (*types.Claim, error) {
	var c types.Claim
	err := row.Scan(
		&c.ID, &c.Type, &c.Text, &c.NormalizedText, &c.Confidence, &c.Verification,
		&c.ExperienceID, &c.Role, &c.Company, &c.StartDate, &c.EndDate, &c.Responsibilities,
		&c.Metric, &c.IsNumeric, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// collectClaims drains a result set
func collectClaims(rows pgx.Rows) ([]types.Claim, error) {
	var claims []types.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, *c)
	}
	return claims, nil
}
