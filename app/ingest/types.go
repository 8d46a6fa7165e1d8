package ingest

import (
	"context"
	"time"

	"github.com/obitsync/obitsync/app/config"
	"github.com/obitsync/obitsync/app/database"
)

// SourceRunner scrapes or ingests one source end to end. Implemented by
// scrape.Scraper and feed.Ingestor.
type SourceRunner interface {
	Run(ctx context.Context, src *config.SourceConfig) ([]database.Obituary, error)
}

// SourceResult reports one attempted source: either a count or an error,
// never both empty.
type SourceResult struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

// Result aggregates one sync run.
type Result struct {
	RunID     string         `json:"run_id"`
	Sources   []SourceResult `json:"sources"`
	Total     int            `json:"total"`
	Timestamp time.Time      `json:"timestamp"`
}
