package database

import (
	"database/sql"
	"fmt"
)

var _ ObituaryRepository = (*SQLObituaryRepository)(nil)

// SQLObituaryRepository handles database operations for obituary records.
type SQLObituaryRepository struct {
	db *DB
}

func NewObituaryRepository(db *DB) *SQLObituaryRepository {
	return &SQLObituaryRepository{db: db}
}

// UpsertObituary inserts or fully replaces the record for its key.
// Records are append/update-only; no delete path exists.
func (r *SQLObituaryRepository) UpsertObituary(record Obituary) error {
	_, err := r.db.Exec(`
		INSERT INTO obituaries (
			record_id, name, date_of_death, published_at, city, state,
			source, source_url, snippet, image_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (record_id) DO UPDATE SET
			name = excluded.name,
			date_of_death = excluded.date_of_death,
			published_at = excluded.published_at,
			city = excluded.city,
			state = excluded.state,
			source = excluded.source,
			source_url = excluded.source_url,
			snippet = excluded.snippet,
			image_url = excluded.image_url,
			updated_at = CURRENT_TIMESTAMP
	`, record.RecordID, record.Name, record.DateOfDeath, record.PublishedAt,
		nullable(record.City), nullable(record.State), record.Source,
		record.SourceURL, nullable(record.Snippet), nullable(record.ImageURL))

	if err != nil {
		return fmt.Errorf("failed to upsert obituary: %w", err)
	}

	return nil
}

// UpsertObituaries upserts a batch and returns the number stored.
func (r *SQLObituaryRepository) UpsertObituaries(records []Obituary) (int, error) {
	stored := 0
	for _, record := range records {
		if err := r.UpsertObituary(record); err != nil {
			return stored, fmt.Errorf("failed to upsert %s: %w", record.RecordID, err)
		}
		stored++
	}
	return stored, nil
}

func (r *SQLObituaryRepository) GetObituary(recordID string) (*Obituary, error) {
	var record Obituary
	var city, state, snippet, imageURL sql.NullString

	err := r.db.QueryRow(`
		SELECT record_id, name, date_of_death, published_at, city, state,
		       source, source_url, snippet, image_url, created_at, updated_at
		FROM obituaries
		WHERE record_id = ?
	`, recordID).Scan(
		&record.RecordID, &record.Name, &record.DateOfDeath, &record.PublishedAt,
		&city, &state, &record.Source, &record.SourceURL,
		&snippet, &imageURL, &record.CreatedAt, &record.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get obituary: %w", err)
	}

	record.City = city.String
	record.State = state.String
	record.Snippet = snippet.String
	record.ImageURL = imageURL.String

	return &record, nil
}

func (r *SQLObituaryRepository) GetObituaryCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM obituaries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get obituary count: %w", err)
	}
	return count, nil
}

func (r *SQLObituaryRepository) GetCountBySource(source string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM obituaries WHERE source = ?", source).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get count for source: %w", err)
	}
	return count, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
