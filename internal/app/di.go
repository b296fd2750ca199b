// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	accessPkg "github.com/credvault/credvault/internal/access"
	autofillHTTP "github.com/credvault/credvault/internal/autofill/http"
	autofillUseCase "github.com/credvault/credvault/internal/autofill/usecase"
	"github.com/credvault/credvault/internal/config"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	cryptoService "github.com/credvault/credvault/internal/crypto/service"
	cryptoUseCase "github.com/credvault/credvault/internal/crypto/usecase"
	"github.com/credvault/credvault/internal/database"
	"github.com/credvault/credvault/internal/http"
	identityHTTP "github.com/credvault/credvault/internal/identity/http"
	identityService "github.com/credvault/credvault/internal/identity/service"
	identityUseCase "github.com/credvault/credvault/internal/identity/usecase"
	"github.com/credvault/credvault/internal/metrics"
	vaultHTTP "github.com/credvault/credvault/internal/vault/http"
	vaultUseCase "github.com/credvault/credvault/internal/vault/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Identity
	companyRepo     identityUseCase.CompanyRepository
	userRepo        identityUseCase.UserRepository
	passwordService identityService.PasswordService
	tokenService    identityService.TokenService
	authUseCase     identityUseCase.AuthUseCase
	userUseCase     identityUseCase.UserUseCase

	// Access control
	resolver *accessPkg.Resolver

	// Crypto
	kmsService     cryptoService.KMSService
	masterKeyChain *cryptoDomain.MasterKeyChain
	aeadManager    cryptoService.AEADManager
	keyManager     cryptoService.KeyManager
	kekRepo        cryptoUseCase.KekRepository
	dekRepo        cryptoUseCase.DekRepository
	kekUseCase     cryptoUseCase.KekUseCase
	dekUseCase     cryptoUseCase.DekUseCase
	kekChain       *cryptoDomain.KekChain

	// Vault
	organizationRepo    organizationRepository
	collectionRepo      vaultUseCase.CollectionRepository
	folderRepo          vaultUseCase.FolderRepository
	credentialRepo      vaultUseCase.CredentialRepository
	trashRepo           vaultUseCase.TrashRepository
	fieldDecrypter      *vaultUseCase.FieldDecrypter
	organizationUseCase vaultUseCase.OrganizationUseCase
	collectionUseCase   vaultUseCase.CollectionUseCase
	folderUseCase       vaultUseCase.FolderUseCase
	credentialUseCase   vaultUseCase.CredentialUseCase
	trashUseCase        vaultUseCase.TrashUseCase

	// Autofill
	selectionRepo  autofillUseCase.SelectionRepository
	locatorUseCase autofillUseCase.LocatorUseCase

	// HTTP handlers
	authHandler         *identityHTTP.AuthHandler
	userHandler         *identityHTTP.UserHandler
	organizationHandler *vaultHTTP.OrganizationHandler
	collectionHandler   *vaultHTTP.CollectionHandler
	folderHandler       *vaultHTTP.FolderHandler
	credentialHandler   *vaultHTTP.CredentialHandler
	trashHandler        *vaultHTTP.TrashHandler
	autofillHandler     *autofillHTTP.AutofillHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                      sync.Mutex
	loggerInit              sync.Once
	dbInit                  sync.Once
	txManagerInit           sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	companyRepoInit         sync.Once
	userRepoInit            sync.Once
	passwordServiceInit     sync.Once
	tokenServiceInit        sync.Once
	authUseCaseInit         sync.Once
	userUseCaseInit         sync.Once
	resolverInit            sync.Once
	kmsServiceInit          sync.Once
	masterKeyChainInit      sync.Once
	aeadManagerInit         sync.Once
	keyManagerInit          sync.Once
	kekRepoInit             sync.Once
	dekRepoInit             sync.Once
	kekUseCaseInit          sync.Once
	dekUseCaseInit          sync.Once
	kekChainInit            sync.Once
	organizationRepoInit    sync.Once
	collectionRepoInit      sync.Once
	folderRepoInit          sync.Once
	credentialRepoInit      sync.Once
	trashRepoInit           sync.Once
	fieldDecrypterInit      sync.Once
	organizationUseCaseInit sync.Once
	collectionUseCaseInit   sync.Once
	folderUseCaseInit       sync.Once
	credentialUseCaseInit   sync.Once
	trashUseCaseInit        sync.Once
	selectionRepoInit       sync.Once
	locatorUseCaseInit      sync.Once
	authHandlerInit         sync.Once
	userHandlerInit         sync.Once
	organizationHandlerInit sync.Once
	collectionHandlerInit   sync.Once
	folderHandlerInit       sync.Once
	credentialHandlerInit   sync.Once
	trashHandlerInit        sync.Once
	autofillHandlerInit     sync.Once
	httpServerInit          sync.Once
	metricsServerInit       sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. When metrics are
// disabled a no-op recorder is returned so use cases never need to branch.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the HTTP server instance with the router fully assembled.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server instance.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP server if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Shutdown metrics server if initialized
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Clear key material
	if c.kekChain != nil {
		c.kekChain.Close()
	}
	if c.masterKeyChain != nil {
		c.masterKeyChain.Close()
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Shutdown metrics provider last so in-flight recordings flush
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initHTTPServer creates the HTTP server with all its dependencies and
// assembles the router.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	authUseCase, err := c.AuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for http server: %w", err)
	}

	authHandler, err := c.AuthHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth handler for http server: %w", err)
	}

	userHandler, err := c.UserHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get user handler for http server: %w", err)
	}

	organizationHandler, err := c.OrganizationHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get organization handler for http server: %w", err)
	}

	collectionHandler, err := c.CollectionHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get collection handler for http server: %w", err)
	}

	folderHandler, err := c.FolderHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get folder handler for http server: %w", err)
	}

	credentialHandler, err := c.CredentialHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential handler for http server: %w", err)
	}

	trashHandler, err := c.TrashHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get trash handler for http server: %w", err)
	}

	autofillHandler, err := c.AutofillHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get autofill handler for http server: %w", err)
	}

	routerConfig := http.RouterConfig{
		Config:              c.config,
		AuthUseCase:         authUseCase,
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		OrganizationHandler: organizationHandler,
		CollectionHandler:   collectionHandler,
		FolderHandler:       folderHandler,
		CredentialHandler:   credentialHandler,
		TrashHandler:        trashHandler,
		AutofillHandler:     autofillHandler,
	}

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
		}
		routerConfig.MeterProvider = provider.MeterProvider()
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(routerConfig)

	return server, nil
}

// initMetricsServer creates the Prometheus metrics server.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	logger := c.Logger()

	var provider *metrics.Provider
	if c.config.MetricsEnabled {
		var err error
		provider, err = c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
		}
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, logger, provider), nil
}
