package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// NewServer builds the gin engine with all routes and middleware.
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())

	// CORS middleware; OPTIONS preflight is a no-op 204.
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.Use(payloadLimitMiddleware())

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)

	if apiAccessKey != "" {
		sync := r.Group("/sync")
		sync.Use(authMiddleware(apiAccessKey))
		{
			sync.POST("/scrape", handler.SyncScrape)
			sync.POST("/feeds", handler.SyncFeeds)
			sync.GET("/feeds", handler.SyncFeeds)
		}
		slog.Info("Sync endpoints enabled with authentication")
	} else {
		slog.Warn("Sync endpoints disabled (API_ACCESS_KEY not set)")
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     "obitsync",
			"description": "Obituary ingestion service: multi-source web scraper and RSS feed parser",
			"endpoints": map[string]string{
				"scrape_sync": "/sync/scrape (POST, requires API key)",
				"feed_sync":   "/sync/feeds (GET/POST, requires API key)",
				"health":      "/health",
				"stats":       "/stats",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// payloadLimitMiddleware rejects oversized trigger requests before any
// work begins.
func payloadLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxRequestBody {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				ErrorResponse{Error: "request payload too large"})
			return
		}
		c.Next()
	}
}

// authMiddleware accepts the shared secret in the X-API-Key header or as
// a bearer token.
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" || providedKey != apiAccessKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				ErrorResponse{Error: "invalid or missing API key"})
			return
		}

		c.Next()
	}
}
