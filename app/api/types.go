package api

import (
	"context"

	"github.com/obitsync/obitsync/app/config"
	"github.com/obitsync/obitsync/app/database"
	"github.com/obitsync/obitsync/app/ingest"
)

// maxRequestBody guards the trigger endpoints themselves, not the
// scraped content.
const maxRequestBody = 50 * 1024

// Handler serves the sync trigger and status endpoints.
type Handler struct {
	driver   SyncDriver
	records  database.ObituaryRepository
	statuses database.SourceStatusRepository
	configs  map[string]*config.SourceConfig
}

// SyncDriver mirrors the ingest driver surface the handlers use.
type SyncDriver interface {
	RunScrapeSync(ctx context.Context) *ingest.Result
	RunFeedSync(ctx context.Context) *ingest.Result
}

// SyncResponse is the success shape for both trigger endpoints.
type SyncResponse struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message"`
	RunID     string                `json:"run_id"`
	Sources   []ingest.SourceResult `json:"sources"`
	Total     int                   `json:"total"`
	Timestamp string                `json:"timestamp"`
}

// ErrorResponse is the failure shape for every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
