package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Opportunity statuses, in rough pipeline order
const (
	OpportunitySaved        = "saved"
	OpportunityApplied      = "applied"
	OpportunityInterviewing = "interviewing"
	OpportunityOffer        = "offer"
	OpportunityClosed       = "closed"
)

// ValidOpportunityStatus reports whether status is one of the known stages
func ValidOpportunityStatus(status string) bool {
	switch status {
	case OpportunitySaved, OpportunityApplied, OpportunityInterviewing, OpportunityOffer, OpportunityClosed:
		return true
	default:
		return false
	}
}

// Opportunity is one tracked job opening
type Opportunity struct {
	ID         uuid.UUID `json:"id"`
	Company    string    `json:"company"`
	RoleTitle  string    `json:"role_title"`
	PostingURL string    `json:"posting_url,omitempty"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateOpportunity inserts a tracked opening and returns its ID
func (db *DB) CreateOpportunity(ctx context.Context, o *Opportunity) (uuid.UUID, error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OpportunitySaved
	}
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now

	_, err := db.pool.Exec(ctx,
		`INSERT INTO opportunities (id, company, role_title, posting_url, status, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.Company, o.RoleTitle, o.PostingURL, o.Status, o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create opportunity: %w", err)
	}
	return o.ID, nil
}

// GetOpportunity retrieves one opening, or nil when absent
func (db *DB) GetOpportunity(ctx context.Context, id uuid.UUID) (*Opportunity, error) {
	var o Opportunity
	err := db.pool.QueryRow(ctx,
		`SELECT id, company, role_title, posting_url, status, notes, created_at, updated_at
		 FROM opportunities WHERE id = $1`, id,
	).Scan(&o.ID, &o.Company, &o.RoleTitle, &o.PostingURL, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}
	return &o, nil
}

// UpdateOpportunityStatus moves an opening through the pipeline
func (db *DB) UpdateOpportunityStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE opportunities SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update opportunity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("opportunity not found: %s", id)
	}
	return nil
}

// DeleteOpportunity removes a tracked opening
func (db *DB) DeleteOpportunity(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM opportunities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete opportunity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("opportunity not found: %s", id)
	}
	return nil
}

// OpportunityFilters holds optional filters for listing opportunities
type OpportunityFilters struct {
	Company string
	Status  string
	Limit   int
}

// ListOpportunities retrieves openings with optional filters, newest first
func (db *DB) ListOpportunities(ctx context.Context, filters OpportunityFilters) ([]Opportunity, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, company, role_title, posting_url, status, notes, created_at, updated_at
		FROM opportunities WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Company != "" {
		query += fmt.Sprintf(" AND company ILIKE $%d", argNum)
		args = append(args, "%"+filters.Company+"%")
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	defer rows.Close()

	var opportunities []Opportunity
	for rows.Next() {
		var o Opportunity
		if err := rows.Scan(&o.ID, &o.Company, &o.RoleTitle, &o.PostingURL, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan opportunity: %w", err)
		}
		opportunities = append(opportunities, o)
	}
	return opportunities, nil
}
