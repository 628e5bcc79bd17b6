// Package http provides the HTTP server, router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/config"
	customerHTTP "github.com/allisson/piivault/internal/customer/http"
	"github.com/allisson/piivault/internal/metrics"
	piiHTTP "github.com/allisson/piivault/internal/pii/http"
	recommendationHTTP "github.com/allisson/piivault/internal/recommendation/http"
	recruitmentHTTP "github.com/allisson/piivault/internal/recruitment/http"
	userDateHTTP "github.com/allisson/piivault/internal/userdate/http"
)

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. Call SetupRouter before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: newHTTPServer(host, port, nil),
	}
}

func newHTTPServer(host string, port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// SetupRouter registers middleware and every route.
func (s *Server) SetupRouter(
	cfg *config.Config,
	customerHandler *customerHTTP.CustomerHandler,
	recruitmentHandler *recruitmentHTTP.RecruitmentHandler,
	userDateHandler *userDateHTTP.UserDateHandler,
	recommendationHandler *recommendationHTTP.RecommendationHandler,
	peopleHandler *piiHTTP.PeopleHandler,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := newCORSMiddleware(cfg, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	customers := v1.Group("/customers")
	{
		customers.POST("", customerHandler.CreateHandler)
		customers.GET("", customerHandler.ListHandler)
		customers.GET("/search", customerHandler.SearchHandler)
		customers.GET("/:id", customerHandler.GetHandler)
		customers.PUT("/:id", customerHandler.UpdateHandler)
		customers.DELETE("/:id", customerHandler.DeleteHandler)
	}

	recruitment := v1.Group("/recruitment")
	{
		recruitment.POST("", recruitmentHandler.CreateHandler)
		recruitment.GET("", recruitmentHandler.ListHandler)
		recruitment.GET("/search", recruitmentHandler.SearchHandler)
		recruitment.GET("/:id", recruitmentHandler.GetHandler)
		recruitment.PUT("/:id", recruitmentHandler.UpdateHandler)
		recruitment.DELETE("/:id", recruitmentHandler.DeleteHandler)
	}

	userDates := v1.Group("/user-dates")
	{
		userDates.POST("", userDateHandler.CreateHandler)
		userDates.GET("", userDateHandler.ListHandler)
		userDates.GET("/search", userDateHandler.SearchHandler)
		userDates.GET("/:id", userDateHandler.GetHandler)
		userDates.PUT("/:id", userDateHandler.UpdateHandler)
		userDates.PUT("/:id/state", userDateHandler.StateHandler)
		userDates.DELETE("/:id", userDateHandler.DeleteHandler)
	}

	recommendations := v1.Group("/recommendations")
	{
		recommendations.POST("", recommendationHandler.CreateHandler)
		recommendations.GET("", recommendationHandler.ListHandler)
		recommendations.GET("/search", recommendationHandler.SearchHandler)
		recommendations.GET("/:id", recommendationHandler.GetHandler)
		recommendations.PUT("/:id", recommendationHandler.UpdateHandler)
		recommendations.DELETE("/:id", recommendationHandler.DeleteHandler)
	}

	v1.GET("/people", peopleHandler.FindHandler)

	s.router = router
}

// GetHandler returns the configured router, or nil before SetupRouter.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// Start serves requests until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
