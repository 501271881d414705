package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"smartechtool/api/models"
)

// historyLimit bounds the call history to the most recent calls, matching
// the console's 50-entry ring buffer.
const historyLimit = 50

// ErrCallNotFound is returned when a history entry does not exist.
var ErrCallNotFound = errors.New("call record not found")

// HistoryStore keeps the bounded per-user history of dispatched calls.
type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Add inserts a call record and trims everything older than the newest 50
// entries in the same transaction, so the bound holds even under failure.
func (s *HistoryStore) Add(ctx context.Context, userID int, call *models.CallRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO call_history (
			user_id, called_at, api_type, region, activity, list_id,
			attributes, identity, activity_source, activities,
			response_body, status_code
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id;
	`
	err = tx.QueryRowContext(ctx, insert,
		userID,
		call.CalledAt,
		call.APIType,
		call.Region,
		call.Activity,
		call.ListID,
		call.Attributes,
		call.Identity,
		call.ActivitySource,
		call.Activities,
		call.ResponseBody,
		call.StatusCode,
	).Scan(&call.ID)
	if err != nil {
		return fmt.Errorf("failed to insert call record: %w", err)
	}

	trim := `
		DELETE FROM call_history
		WHERE user_id = $1
		  AND id NOT IN (
			SELECT id FROM call_history
			WHERE user_id = $1
			ORDER BY id DESC
			LIMIT $2
		  );
	`
	if _, err := tx.ExecContext(ctx, trim, userID, historyLimit); err != nil {
		return fmt.Errorf("failed to trim call history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history transaction: %w", err)
	}

	log.Printf("Call recorded in history: id=%d type=%s region=%s status=%d", call.ID, call.APIType, call.Region, call.StatusCode)
	return nil
}

// List returns the user's call history, newest first.
func (s *HistoryStore) List(ctx context.Context, userID int) ([]models.CallRecord, error) {
	query := `
		SELECT id, called_at, api_type, region, activity, list_id,
		       attributes, identity, activity_source, activities,
		       response_body, status_code
		FROM call_history
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2;
	`
	rows, err := s.db.QueryContext(ctx, query, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query call history: %w", err)
	}
	defer rows.Close()

	var records []models.CallRecord
	for rows.Next() {
		var rec models.CallRecord
		if err := rows.Scan(
			&rec.ID, &rec.CalledAt, &rec.APIType, &rec.Region, &rec.Activity,
			&rec.ListID, &rec.Attributes, &rec.Identity, &rec.ActivitySource,
			&rec.Activities, &rec.ResponseBody, &rec.StatusCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan call record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during call history query: %w", err)
	}

	return records, nil
}

// Get loads one call record for restoration into the form.
func (s *HistoryStore) Get(ctx context.Context, userID int, id int64) (*models.CallRecord, error) {
	query := `
		SELECT id, called_at, api_type, region, activity, list_id,
		       attributes, identity, activity_source, activities,
		       response_body, status_code
		FROM call_history
		WHERE user_id = $1 AND id = $2;
	`
	var rec models.CallRecord
	err := s.db.QueryRowContext(ctx, query, userID, id).Scan(
		&rec.ID, &rec.CalledAt, &rec.APIType, &rec.Region, &rec.Activity,
		&rec.ListID, &rec.Attributes, &rec.Identity, &rec.ActivitySource,
		&rec.Activities, &rec.ResponseBody, &rec.StatusCode,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCallNotFound
		}
		return nil, fmt.Errorf("failed to get call record: %w", err)
	}

	return &rec, nil
}

// Clear deletes the user's entire call history.
func (s *HistoryStore) Clear(ctx context.Context, userID int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM call_history WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("failed to clear call history: %w", err)
	}
	return nil
}
