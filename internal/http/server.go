// Package http provides the HTTP server, router assembly and shared middleware.
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
	"go.opentelemetry.io/otel/metric"

	autofillHTTP "github.com/credvault/credvault/internal/autofill/http"
	"github.com/credvault/credvault/internal/config"
	identityHTTP "github.com/credvault/credvault/internal/identity/http"
	identityUseCase "github.com/credvault/credvault/internal/identity/usecase"
	"github.com/credvault/credvault/internal/metrics"
	vaultHTTP "github.com/credvault/credvault/internal/vault/http"
)

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The router is assembled separately via
// SetupRouter once all handlers are available.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterConfig holds everything SetupRouter needs to register routes.
type RouterConfig struct {
	Config *config.Config

	// AuthUseCase backs the authentication middleware on protected routes.
	AuthUseCase identityUseCase.AuthUseCase

	AuthHandler         *identityHTTP.AuthHandler
	UserHandler         *identityHTTP.UserHandler
	OrganizationHandler *vaultHTTP.OrganizationHandler
	CollectionHandler   *vaultHTTP.CollectionHandler
	FolderHandler       *vaultHTTP.FolderHandler
	CredentialHandler   *vaultHTTP.CredentialHandler
	TrashHandler        *vaultHTTP.TrashHandler
	AutofillHandler     *autofillHTTP.AutofillHandler

	// MeterProvider enables per-request metrics when non-nil.
	MeterProvider metric.MeterProvider
}

// SetupRouter builds the Gin router and registers all routes.
//
// Middleware order matters: recovery first, then request IDs so the logger and
// every handler can correlate, then CORS (the browser extension calls the
// autofill endpoints from a chrome-extension:// origin and needs preflight
// handling before auth rejects the OPTIONS request), then metrics and logging.
func (s *Server) SetupRouter(rc RouterConfig) {
	cfg := rc.Config

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if rc.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(rc.MeterProvider, cfg.MetricsNamespace))
	}

	router.Use(CustomLoggerMiddleware(s.logger))

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// Unauthenticated endpoints, rate limited per IP to slow down credential
	// stuffing against company accounts.
	public := router.Group("/v1")
	if cfg.RateLimitLoginEnabled {
		public.Use(identityHTTP.LoginRateLimitMiddleware(
			cfg.RateLimitLoginRequestsPerSec,
			cfg.RateLimitLoginBurst,
			s.logger,
		))
	}
	public.POST("/register", rc.AuthHandler.RegisterHandler)
	public.POST("/login", rc.AuthHandler.LoginHandler)

	// Everything below requires a valid bearer token.
	authenticated := router.Group("/v1")
	authenticated.Use(identityHTTP.AuthenticationMiddleware(rc.AuthUseCase, s.logger))
	if cfg.RateLimitEnabled {
		authenticated.Use(identityHTTP.RateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		))
	}

	authenticated.POST("/users", rc.UserHandler.CreateHandler)
	authenticated.GET("/users", rc.UserHandler.ListHandler)
	authenticated.GET("/users/:id", rc.UserHandler.GetHandler)
	authenticated.PUT("/users/:id", rc.UserHandler.UpdateHandler)
	authenticated.PUT("/users/:id/permissions", rc.UserHandler.UpdatePermissionsHandler)
	authenticated.DELETE("/users/:id", rc.UserHandler.DeleteHandler)

	authenticated.POST("/organizations", rc.OrganizationHandler.CreateHandler)
	authenticated.GET("/organizations", rc.OrganizationHandler.ListHandler)
	authenticated.GET("/organizations/:id", rc.OrganizationHandler.GetHandler)
	authenticated.PUT("/organizations/:id", rc.OrganizationHandler.UpdateHandler)
	authenticated.DELETE("/organizations/:id", rc.OrganizationHandler.DeleteHandler)

	authenticated.POST("/collections", rc.CollectionHandler.CreateHandler)
	authenticated.GET("/collections", rc.CollectionHandler.ListHandler)
	authenticated.GET("/collections/:id", rc.CollectionHandler.GetHandler)
	authenticated.PUT("/collections/:id", rc.CollectionHandler.UpdateHandler)
	authenticated.DELETE("/collections/:id", rc.CollectionHandler.DeleteHandler)

	authenticated.POST("/folders", rc.FolderHandler.CreateHandler)
	authenticated.GET("/folders", rc.FolderHandler.ListHandler)
	authenticated.GET("/folders/:id", rc.FolderHandler.GetHandler)
	authenticated.PUT("/folders/:id", rc.FolderHandler.UpdateHandler)
	authenticated.DELETE("/folders/:id", rc.FolderHandler.DeleteHandler)

	authenticated.POST("/credentials", rc.CredentialHandler.CreateHandler)
	authenticated.GET("/credentials", rc.CredentialHandler.ListHandler)
	authenticated.GET("/credentials/:id", rc.CredentialHandler.GetHandler)
	authenticated.PUT("/credentials/:id", rc.CredentialHandler.UpdateHandler)
	authenticated.DELETE("/credentials/:id", rc.CredentialHandler.DeleteHandler)

	authenticated.GET("/trash", rc.TrashHandler.ListHandler)
	authenticated.POST("/trash/:id/restore", rc.TrashHandler.RestoreHandler)
	authenticated.DELETE("/trash/:id", rc.TrashHandler.PurgeHandler)

	authenticated.GET("/autofill/credentials", rc.AutofillHandler.LocateHandler)
	authenticated.PUT("/autofill/selection", rc.AutofillHandler.SetSelectionHandler)

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, which for
// this service means the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.String("error", err.Error()))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	components["database"] = "ok"
	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server. SetupRouter must have been called first.
func (s *Server) Start(ctx context.Context) error {
	if s.server.Handler == nil {
		s.server.Handler = s.router
	}

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
