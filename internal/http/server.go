// Package http assembles the public API server and the metrics server.
package http

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/linkvault/internal/auth/http"
	authUseCase "github.com/allisson/linkvault/internal/auth/usecase"
	"github.com/allisson/linkvault/internal/config"
	"github.com/allisson/linkvault/internal/metrics"
	storageHTTP "github.com/allisson/linkvault/internal/storage/http"
)

// readinessTimeout bounds all readiness checks of one /ready request.
const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

// Server is the public API server.
type Server struct {
	server *http.Server
	router *gin.Engine
	checks map[string]ReadinessCheck
	logger *slog.Logger
}

// NewServer creates a Server. checks are run by /ready, keyed by component name.
func NewServer(
	checks map[string]ReadinessCheck,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		server: newHTTPServer(host, port, 60*time.Second),
		checks: checks,
		logger: logger,
	}
}

// SetupRouter registers middleware and routes.
func (s *Server) SetupRouter(
	cfg *config.Config,
	authHandler *authHTTP.AuthHandler,
	fileHandler *storageHTTP.FileHandler,
	sessionUseCase authUseCase.SessionUseCase,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(newRequestIDMiddleware())
	router.Use(CustomLoggerMiddleware(s.logger))
	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			metricsProvider.MeterProvider(),
			cfg.MetricsNamespace,
			"/health",
			"/ready",
		))
	}
	if cfg.UploadMaxBytes > 0 {
		router.MaxMultipartMemory = cfg.UploadMaxBytes
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	requireSession := authHTTP.SessionMiddleware(sessionUseCase, cfg.SessionCookieName, s.logger)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	{
		requestAccess := []gin.HandlerFunc{}
		if cfg.RateLimitAccessEnabled {
			requestAccess = append(requestAccess, authHTTP.RequestAccessRateLimitMiddleware(
				cfg.RateLimitAccessRequestsPerSec,
				cfg.RateLimitAccessBurst,
				s.logger,
			))
		}
		requestAccess = append(requestAccess, authHandler.RequestAccessHandler)

		auth.POST("/request-access", requestAccess...)
		auth.GET("/callback", authHandler.CallbackHandler)
		auth.POST("/logout", authHandler.LogoutHandler)
		auth.GET("/session", requireSession, authHandler.SessionHandler)
	}

	files := v1.Group("/files", requireSession)
	if cfg.RateLimitEnabled {
		files.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	{
		files.POST("/upload", fileHandler.UploadHandler)
		files.GET("/list", fileHandler.ListHandler)
		files.GET("/download", fileHandler.DownloadHandler)
		files.DELETE("/delete", fileHandler.DeleteHandler)
	}

	s.router = router
}

// GetHandler returns the router, mostly for tests.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(_ context.Context) error {
	if s.router == nil {
		return errors.New("router not initialized: call SetupRouter first")
	}
	s.server.Handler = s.router
	return listenAndServe(s.server, s.logger, "http server")
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler runs every readiness check and answers 503 when one fails.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	ready := true
	components := make(map[string]string, len(s.checks))
	for _, name := range slices.Sorted(maps.Keys(s.checks)) {
		if err := s.checks[name](ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.String("component", name), slog.Any("error", err))
			components[name] = "error"
			ready = false
			continue
		}
		components[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
