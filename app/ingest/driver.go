package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/obitsync/obitsync/app/config"
	"github.com/obitsync/obitsync/app/database"
)

// Driver iterates configured sources sequentially, isolating per-source
// failures, upserting the produced records and recording per-source
// status. One source's total failure never aborts the run.
type Driver struct {
	configs  map[string]*config.SourceConfig
	scraper  SourceRunner
	feeder   SourceRunner
	records  database.ObituaryRepository
	statuses database.SourceStatusRepository

	sourceDelay time.Duration
	sleep       func(time.Duration)
}

func NewDriver(configs map[string]*config.SourceConfig, scraper, feeder SourceRunner,
	records database.ObituaryRepository, statuses database.SourceStatusRepository,
	sourceDelay time.Duration) *Driver {
	return &Driver{
		configs:     configs,
		scraper:     scraper,
		feeder:      feeder,
		records:     records,
		statuses:    statuses,
		sourceDelay: sourceDelay,
		sleep:       time.Sleep,
	}
}

// RunScrapeSync runs the web-scrape ingestion path over all active
// scrape sources.
func (d *Driver) RunScrapeSync(ctx context.Context) *Result {
	return d.run(ctx, config.TypeScrape, d.scraper)
}

// RunFeedSync runs the RSS ingestion path over all active feed sources.
func (d *Driver) RunFeedSync(ctx context.Context) *Result {
	return d.run(ctx, config.TypeFeed, d.feeder)
}

func (d *Driver) run(ctx context.Context, sourceType string, runner SourceRunner) *Result {
	result := &Result{
		RunID:     uuid.NewString(),
		Sources:   []SourceResult{},
		Timestamp: time.Now().UTC(),
	}

	sources := d.activeSources(sourceType)
	slog.Info("Sync run started", "run_id", result.RunID, "type", sourceType, "sources", len(sources))

	for i, src := range sources {
		if i > 0 {
			d.sleep(d.sourceDelay)
		}

		count, err := d.runSource(ctx, runner, src)
		if err != nil {
			slog.Error("Source failed", "run_id", result.RunID, "source", src.Name, "error", err)
			if statusErr := d.statuses.RecordFailure(src.Name, err.Error()); statusErr != nil {
				slog.Error("Failed to record source failure", "source", src.Name, "error", statusErr)
			}
			result.Sources = append(result.Sources, SourceResult{Source: src.Name, Error: err.Error()})
			continue
		}

		if statusErr := d.statuses.RecordSuccess(src.Name, count); statusErr != nil {
			slog.Error("Failed to record source success", "source", src.Name, "error", statusErr)
		}
		result.Sources = append(result.Sources, SourceResult{Source: src.Name, Count: count})
		result.Total += count
	}

	slog.Info("Sync run completed", "run_id", result.RunID, "type", sourceType,
		"attempted", len(result.Sources), "total", result.Total)

	return result
}

// runSource isolates one source: panics and errors are contained here.
func (d *Driver) runSource(ctx context.Context, runner SourceRunner, src *config.SourceConfig) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during source run: %v", r)
		}
	}()

	records, err := runner.Run(ctx, src)
	if err != nil {
		return 0, err
	}

	// Zero discovered items is a non-error outcome.
	if len(records) == 0 {
		return 0, nil
	}

	stored, err := d.records.UpsertObituaries(records)
	if err != nil {
		return stored, fmt.Errorf("failed to store records: %w", err)
	}

	return stored, nil
}

// activeSources returns the runnable, active sources of one type in
// stable name order. Inactive or unconfigured sources are skipped, not
// failed.
func (d *Driver) activeSources(sourceType string) []*config.SourceConfig {
	var sources []*config.SourceConfig
	for _, src := range d.configs {
		if src.Type != sourceType || !src.IsActive() {
			continue
		}
		if !src.IsRunnable() {
			slog.Debug("Source not runnable, skipping", "source", src.Name)
			continue
		}
		sources = append(sources, src)
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Name < sources[j].Name
	})

	return sources
}
