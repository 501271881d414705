package store

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"smartechtool/api/database"
	"smartechtool/api/models"
	"smartechtool/api/utils"
)

// DispatchStore records one analytics row per outbound API call in
// ClickHouse and serves the console's dispatch statistics.
type DispatchStore struct {
	DB *database.ClickHouseClient
}

type DispatchCountByTime struct {
	Time    time.Time       `json:"time"`
	APIType *models.APIType `json:"apiType,omitempty"`
	Count   uint64          `json:"count"`
}

type TopActivityResult struct {
	ActivityName string `json:"activityName"`
	Count        uint64 `json:"count"`
}

func NewDispatchStore(chClient *database.ClickHouseClient) *DispatchStore {
	return &DispatchStore{DB: chClient}
}

// InsertDispatchEvents writes a batch of dispatch events.
func (s *DispatchStore) InsertDispatchEvents(ctx context.Context, events []models.DispatchEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO dispatch_events (
			event_id, api_type, region, activity_name, status_code, success, duration_ms, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			event.EventID,
			string(event.APIType),
			event.Region,
			event.ActivityName,
			int32(event.StatusCode),
			event.Success,
			event.DurationMs,
			event.Timestamp,
		)
		if err != nil {
			log.Printf("Error appending dispatch event to batch (EventID: %s): %v", event.EventID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Recorded %d dispatch events.", len(events))
	return nil
}

// GetDispatchCountsOverTime buckets dispatches by interval, optionally
// filtered to one API type.
func (s *DispatchStore) GetDispatchCountsOverTime(ctx context.Context, interval string, start, end time.Time, apiTypeFilter string) ([]DispatchCountByTime, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	args := []interface{}{start, end}

	selectCols := fmt.Sprintf("toStartOf%s(timestamp) as time_bucket, count() as total_calls", interval)
	groupByCols := "time_bucket"
	whereClause := "WHERE timestamp >= ? AND timestamp <= ?"
	orderByCols := "time_bucket ASC"
	isFilteringByType := apiTypeFilter != ""

	if isFilteringByType {
		selectCols += ", api_type"
		groupByCols += ", api_type"
		whereClause += " AND api_type = ?"
		args = append(args, apiTypeFilter)
		orderByCols += ", api_type ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM dispatch_events
		%s
		GROUP BY %s
		ORDER BY %s
	`, selectCols, whereClause, groupByCols, orderByCols)

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatch counts over time: %w", err)
	}
	defer rows.Close()

	var results []DispatchCountByTime
	for rows.Next() {
		var (
			timeBucket time.Time
			count      uint64
			apiTypeDB  string
			current    DispatchCountByTime
		)

		if isFilteringByType {
			if err := rows.Scan(&timeBucket, &count, &apiTypeDB); err != nil {
				log.Printf("Error scanning row for dispatch counts (with type filter): %v", err)
				continue
			}
			apiType := models.APIType(apiTypeDB)
			current.APIType = &apiType
		} else {
			if err := rows.Scan(&timeBucket, &count); err != nil {
				log.Printf("Error scanning row for dispatch counts: %v", err)
				continue
			}
		}

		current.Time = timeBucket
		current.Count = count
		results = append(results, current)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during dispatch counts query: %w", err)
	}

	return results, nil
}

// GetAverageDispatchDuration returns the mean round-trip time of dispatches
// in the window, optionally filtered to one API type.
func (s *DispatchStore) GetAverageDispatchDuration(ctx context.Context, apiTypeFilter string, start, end time.Time) (float64, error) {
	query := `SELECT avg(duration_ms) FROM dispatch_events WHERE timestamp >= ? AND timestamp <= ?`
	args := []interface{}{start, end}

	if apiTypeFilter != "" {
		query += ` AND api_type = ?`
		args = append(args, apiTypeFilter)
	}

	var avgDuration float64
	err := s.DB.Conn.QueryRow(ctx, query, args...).Scan(&avgDuration)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return 0.0, nil
		}
		return 0.0, fmt.Errorf("failed to query average dispatch duration: %w", err)
	}

	if math.IsNaN(avgDuration) {
		return 0.0, nil
	}

	return avgDuration, nil
}

// GetSuccessRate returns the share of 2xx dispatches in the window.
func (s *DispatchStore) GetSuccessRate(ctx context.Context, start, end time.Time) (float64, error) {
	query := `
		SELECT countIf(success) / count() AS success_rate
		FROM dispatch_events
		WHERE timestamp >= ? AND timestamp <= ?
	`
	var rate float64
	err := s.DB.Conn.QueryRow(ctx, query, start, end).Scan(&rate)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return 0.0, nil
		}
		return 0.0, fmt.Errorf("failed to query success rate: %w", err)
	}

	if math.IsNaN(rate) {
		return 0.0, nil
	}

	return rate, nil
}

// GetTopActivities returns the most dispatched activity names in the window.
func (s *DispatchStore) GetTopActivities(ctx context.Context, start, end time.Time, limit uint64) ([]TopActivityResult, error) {
	if limit == 0 {
		limit = 10
	}

	query := `
		SELECT activity_name, count() as call_count
		FROM dispatch_events
		WHERE api_type = 'activity' AND timestamp >= ? AND timestamp <= ?
		GROUP BY activity_name
		ORDER BY call_count DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top activities: %w", err)
	}
	defer rows.Close()

	var results []TopActivityResult
	for rows.Next() {
		var name string
		var count uint64
		if err := rows.Scan(&name, &count); err != nil {
			log.Printf("Error scanning row for top activities: %v", err)
			continue
		}
		results = append(results, TopActivityResult{ActivityName: name, Count: count})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for top activities: %w", err)
	}

	return results, nil
}
