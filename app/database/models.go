package database

import (
	"time"
)

// Obituary is the canonical normalized record produced by both ingestion
// paths. RecordID is the upsert key: the source URL for scraped records,
// or a synthesized "rss-" prefixed ID for feed-derived records.
type Obituary struct {
	RecordID    string
	Name        string
	DateOfDeath *time.Time
	PublishedAt *time.Time
	City        string
	State       string
	Source      string
	SourceURL   string
	Snippet     string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SourceStatus records the outcome of the most recent sync attempt for
// one source.
type SourceStatus struct {
	Source    string
	LastRunAt *time.Time
	LastError string
	ItemCount int
	UpdatedAt time.Time
}
