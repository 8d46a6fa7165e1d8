package database

import (
	"fmt"
)

var _ SourceStatusRepository = (*SQLSourceStatusRepository)(nil)

// SQLSourceStatusRepository records per-source sync outcomes.
type SQLSourceStatusRepository struct {
	db *DB
}

func NewSourceStatusRepository(db *DB) *SQLSourceStatusRepository {
	return &SQLSourceStatusRepository{db: db}
}

func (r *SQLSourceStatusRepository) RecordSuccess(source string, itemCount int) error {
	_, err := r.db.Exec(`
		INSERT INTO source_status (source, last_run_at, last_error, item_count, updated_at)
		VALUES (?, CURRENT_TIMESTAMP, NULL, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (source) DO UPDATE SET
			last_run_at = CURRENT_TIMESTAMP,
			last_error = NULL,
			item_count = excluded.item_count,
			updated_at = CURRENT_TIMESTAMP
	`, source, itemCount)

	if err != nil {
		return fmt.Errorf("failed to record source success: %w", err)
	}

	return nil
}

func (r *SQLSourceStatusRepository) RecordFailure(source string, reason string) error {
	_, err := r.db.Exec(`
		INSERT INTO source_status (source, last_run_at, last_error, item_count, updated_at)
		VALUES (?, CURRENT_TIMESTAMP, ?, 0, CURRENT_TIMESTAMP)
		ON CONFLICT (source) DO UPDATE SET
			last_run_at = CURRENT_TIMESTAMP,
			last_error = excluded.last_error,
			updated_at = CURRENT_TIMESTAMP
	`, source, reason)

	if err != nil {
		return fmt.Errorf("failed to record source failure: %w", err)
	}

	return nil
}

func (r *SQLSourceStatusRepository) GetAll() ([]SourceStatus, error) {
	rows, err := r.db.Query(`
		SELECT source, last_run_at, COALESCE(last_error, ''), item_count, updated_at
		FROM source_status
		ORDER BY source
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get source statuses: %w", err)
	}
	defer rows.Close()

	var statuses []SourceStatus
	for rows.Next() {
		var status SourceStatus
		err := rows.Scan(&status.Source, &status.LastRunAt, &status.LastError,
			&status.ItemCount, &status.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source status row: %w", err)
		}
		statuses = append(statuses, status)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source status rows: %w", err)
	}

	return statuses, nil
}
