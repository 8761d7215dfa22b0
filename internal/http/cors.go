package http

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/allisson/linkvault/internal/config"
)

// createCORSMiddleware returns a CORS middleware for the browser front end, or nil
// when CORS is disabled or no usable origin is configured. Credentials are always
// allowed so the session cookie travels on cross-origin calls, which rules out the
// "*" origin.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOrigins)
	if slices.Contains(origins, "*") {
		logger.Warn("CORS origin \"*\" cannot be combined with credentials and is ignored")
		origins = slices.DeleteFunc(origins, func(o string) bool { return o == "*" })
	}
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured - CORS will not be applied")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(origins)),
		slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowHeaders: []string{
			"Authorization",
			"Content-Type",
		},
		ExposeHeaders: []string{
			"Content-Disposition",
			"Retry-After",
			"X-Request-Id",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func parseOrigins(allowOrigins string) []string {
	return config.ParseList(allowOrigins)
}
