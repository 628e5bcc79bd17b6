package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/allisson/piivault/internal/config"
	"github.com/allisson/piivault/internal/httputil"
)

// newCORSMiddleware returns nil unless CORS is enabled with at least one origin.
// Browsers may send the agent header and read the request id; credentials are never
// shared since the API has no cookie or bearer authentication of its own.
func newCORSMiddleware(cfg *config.Config, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.CORSEnabled {
		return nil
	}

	origins := parseOrigins(cfg.CORSAllowOrigins)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured, skipping")
		return nil
	}

	logger.Info("CORS enabled", slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:  []string{"Content-Type", httputil.ActorHeader},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	})
}

// parseOrigins splits a comma-separated origin list, dropping blanks.
func parseOrigins(originsStr string) []string {
	var origins []string
	for _, part := range strings.Split(originsStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
