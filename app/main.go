package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/obitsync/obitsync/app/api"
	"github.com/obitsync/obitsync/app/cfg"
	"github.com/obitsync/obitsync/app/config"
	"github.com/obitsync/obitsync/app/database"
	"github.com/obitsync/obitsync/app/feed"
	"github.com/obitsync/obitsync/app/ingest"
	"github.com/obitsync/obitsync/app/scrape"
	"github.com/obitsync/obitsync/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting obitsync", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	loader := config.NewLoader(appCfg.SourcesDir)
	configs, err := loader.LoadAll()
	if err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded source configurations", "count", len(configs))

	obituaryRepo := database.NewObituaryRepository(db)
	statusRepo := database.NewSourceStatusRepository(db)

	client := scrape.NewClient(appCfg.UserAgent)
	scraper := scrape.NewScraper(client)
	ingestor := feed.NewIngestor(client)

	driver := ingest.NewDriver(configs, scraper, ingestor, obituaryRepo, statusRepo,
		time.Duration(appCfg.SourceDelayMs)*time.Millisecond)

	scheduler := tasks.NewScheduler(driver, time.Duration(appCfg.SchedulerInterval)*time.Minute)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(driver, obituaryRepo, statusRepo, configs)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:        ":" + appCfg.Port,
		Handler:     server,
		ReadTimeout: 30 * time.Second,
		// Sync runs are synchronous over HTTP and sum per-request
		// latencies and politeness sleeps across all sources.
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
