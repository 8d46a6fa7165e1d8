package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/obitsync/obitsync/app/ingest"
)

// SyncDriver is the subset of the ingest driver the scheduler needs.
type SyncDriver interface {
	RunScrapeSync(ctx context.Context) *ingest.Result
	RunFeedSync(ctx context.Context) *ingest.Result
}

// Scheduler triggers full sync runs on a fixed interval. A single
// goroutine runs the scrape path, then the feed path.
type Scheduler struct {
	driver   SyncDriver
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(driver SyncDriver, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		driver:   driver,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() {
	if s.interval <= 0 {
		slog.Info("Background scheduler disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		slog.Info("Background scheduler started", "interval", s.interval.String())

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runOnce()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) runOnce() {
	scrapeResult := s.driver.RunScrapeSync(s.ctx)
	slog.Info("Scheduled scrape sync finished", "run_id", scrapeResult.RunID, "total", scrapeResult.Total)

	feedResult := s.driver.RunFeedSync(s.ctx)
	slog.Info("Scheduled feed sync finished", "run_id", feedResult.RunID, "total", feedResult.Total)
}
