package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jkaplan/jobtrail/internal/draft"
)

// SaveSession stores a snapshot of an import session. Saving an existing ID
// replaces the snapshot wholesale; a session is never patched in place.
func (db *DB) SaveSession(ctx context.Context, s *draft.Session) error {
	draftJSON, err := json.Marshal(s.Draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	diagJSON, err := json.Marshal(s.Diagnostics)
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics: %w", err)
	}
	prefillJSON, err := json.Marshal(s.Prefill)
	if err != nil {
		return fmt.Errorf("failed to marshal prefill: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO import_sessions (id, state, draft, diagnostics, low_quality, prefill, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET state = $2, draft = $3, diagnostics = $4,
			low_quality = $5, prefill = $6`,
		s.ID, s.State, draftJSON, diagJSON, s.LowQuality, prefillJSON, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession retrieves an import session by ID, or nil when absent
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*draft.Session, error) {
	var s draft.Session
	var draftJSON, diagJSON, prefillJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, state, draft, diagnostics, low_quality, prefill, created_at
		 FROM import_sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.State, &draftJSON, &diagJSON, &s.LowQuality, &prefillJSON, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := json.Unmarshal(draftJSON, &s.Draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	if err := json.Unmarshal(diagJSON, &s.Diagnostics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal diagnostics: %w", err)
	}
	if err := json.Unmarshal(prefillJSON, &s.Prefill); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prefill: %w", err)
	}
	return &s, nil
}

// ListSessions retrieves recent import sessions, newest first
func (db *DB) ListSessions(ctx context.Context, limit int) ([]draft.Session, error) {
	if limit == 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id FROM import_sessions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}

	sessions := make([]draft.Session, 0, len(ids))
	for _, id := range ids {
		s, err := db.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			sessions = append(sessions, *s)
		}
	}
	return sessions, nil
}
