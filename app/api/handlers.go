package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obitsync/obitsync/app/config"
	"github.com/obitsync/obitsync/app/database"
	"github.com/obitsync/obitsync/app/ingest"
)

func NewHandler(driver SyncDriver, records database.ObituaryRepository,
	statuses database.SourceStatusRepository, configs map[string]*config.SourceConfig) *Handler {
	return &Handler{
		driver:   driver,
		records:  records,
		statuses: statuses,
		configs:  configs,
	}
}

// SyncScrape triggers a full web-scrape sync run. The run itself always
// completes; per-source failures surface in the sources array.
func (h *Handler) SyncScrape(c *gin.Context) {
	result := h.driver.RunScrapeSync(c.Request.Context())
	c.JSON(http.StatusOK, syncResponse("scrape", result))
}

// SyncFeeds triggers a full RSS feed sync run.
func (h *Handler) SyncFeeds(c *gin.Context) {
	result := h.driver.RunFeedSync(c.Request.Context())
	c.JSON(http.StatusOK, syncResponse("feed", result))
}

func syncResponse(kind string, result *ingest.Result) SyncResponse {
	failures := 0
	for _, src := range result.Sources {
		if src.Error != "" {
			failures++
		}
	}

	return SyncResponse{
		Success: true,
		Message: fmt.Sprintf("%s sync completed: %d records across %d sources (%d failed)",
			kind, result.Total, len(result.Sources), failures),
		RunID:     result.RunID,
		Sources:   result.Sources,
		Total:     result.Total,
		Timestamp: result.Timestamp.Format(time.RFC3339),
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources":   len(h.configs),
	}

	if count, err := h.records.GetObituaryCount(); err == nil {
		health["records"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"sources_configured": len(h.configs),
	}

	active := 0
	for _, src := range h.configs {
		if src.IsActive() {
			active++
		}
	}
	stats["sources_active"] = active

	if count, err := h.records.GetObituaryCount(); err == nil {
		stats["records_total"] = count
	}

	statuses, err := h.statuses.GetAll()
	if err != nil {
		slog.Error("Database error", "operation", "get_source_statuses", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database error"})
		return
	}

	sourceStats := make([]map[string]interface{}, 0, len(statuses))
	for _, status := range statuses {
		entry := map[string]interface{}{
			"source":     status.Source,
			"item_count": status.ItemCount,
		}
		if status.LastRunAt != nil {
			entry["last_run_at"] = status.LastRunAt.Format(time.RFC3339)
		}
		if status.LastError != "" {
			entry["last_error"] = status.LastError
		}
		sourceStats = append(sourceStats, entry)
	}
	stats["source_status"] = sourceStats

	c.JSON(http.StatusOK, stats)
}
