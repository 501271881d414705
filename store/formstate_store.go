package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrFormStateNotFound is returned when no saved state exists for a key.
var ErrFormStateNotFound = errors.New("form state not found")

// FormStateStore persists the last-used form values as opaque JSON blobs,
// one per (user, key) pair. The console uses the keys "contactForm" and
// "activityForm".
type FormStateStore struct {
	db *sql.DB
}

func NewFormStateStore(db *sql.DB) *FormStateStore {
	return &FormStateStore{db: db}
}

// Save upserts the blob for a key.
func (s *FormStateStore) Save(ctx context.Context, userID int, key string, payload json.RawMessage) error {
	query := `
		INSERT INTO form_state (user_id, state_key, payload, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, state_key)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW();
	`
	if _, err := s.db.ExecContext(ctx, query, userID, key, payload); err != nil {
		return fmt.Errorf("failed to save form state %q: %w", key, err)
	}
	return nil
}

// Load returns the blob for a key.
func (s *FormStateStore) Load(ctx context.Context, userID int, key string) (json.RawMessage, error) {
	var payload json.RawMessage
	query := `SELECT payload FROM form_state WHERE user_id = $1 AND state_key = $2;`
	err := s.db.QueryRowContext(ctx, query, userID, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFormStateNotFound
		}
		return nil, fmt.Errorf("failed to load form state %q: %w", key, err)
	}
	return payload, nil
}
