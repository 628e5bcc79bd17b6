// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/piivault/internal/config"
	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	cryptoService "github.com/allisson/piivault/internal/crypto/service"
	cryptoUseCase "github.com/allisson/piivault/internal/crypto/usecase"
	customerHTTP "github.com/allisson/piivault/internal/customer/http"
	customerUseCase "github.com/allisson/piivault/internal/customer/usecase"
	"github.com/allisson/piivault/internal/database"
	"github.com/allisson/piivault/internal/http"
	"github.com/allisson/piivault/internal/metrics"
	piiDomain "github.com/allisson/piivault/internal/pii/domain"
	piiHTTP "github.com/allisson/piivault/internal/pii/http"
	piiRepository "github.com/allisson/piivault/internal/pii/repository"
	piiService "github.com/allisson/piivault/internal/pii/service"
	piiUseCase "github.com/allisson/piivault/internal/pii/usecase"
	recommendationHTTP "github.com/allisson/piivault/internal/recommendation/http"
	recommendationUseCase "github.com/allisson/piivault/internal/recommendation/usecase"
	recruitmentHTTP "github.com/allisson/piivault/internal/recruitment/http"
	recruitmentUseCase "github.com/allisson/piivault/internal/recruitment/usecase"
	userDateHTTP "github.com/allisson/piivault/internal/userdate/http"
	userDateUseCase "github.com/allisson/piivault/internal/userdate/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// Crypto
	rootKeyChain   *cryptoDomain.RootKeyChain
	kmsService     cryptoService.KMSService
	aeadManager    cryptoService.AEADManager
	keyDeriver     cryptoService.KeyDeriver
	blindIndexer   cryptoService.BlindIndexer
	keyVersionRepo cryptoUseCase.KeyVersionRepository
	keyManager     cryptoUseCase.KeyManager

	// PII
	normalizer     *piiDomain.Normalizer
	codec          *piiService.Codec
	piiRepo        *piiRepository.SQLPIIRepository
	checkpointRepo piiUseCase.CheckpointRepository
	fieldStore     piiUseCase.FieldStore
	piiService     piiUseCase.Service

	// Entities
	customerRepo          customerUseCase.CustomerRepository
	customerUseCase       customerUseCase.CustomerUseCase
	recruitmentRepo       recruitmentUseCase.RecruitmentRepository
	recruitmentUseCase    recruitmentUseCase.RecruitmentUseCase
	userDateRepo          userDateUseCase.UserDateRepository
	userDateUseCase       userDateUseCase.UserDateUseCase
	recommendationRepo    recommendationUseCase.RecommendationRepository
	recommendationUseCase recommendationUseCase.RecommendationUseCase

	// Handlers
	customerHandler       *customerHTTP.CustomerHandler
	recruitmentHandler    *recruitmentHTTP.RecruitmentHandler
	userDateHandler       *userDateHTTP.UserDateHandler
	recommendationHandler *recommendationHTTP.RecommendationHandler
	peopleHandler         *piiHTTP.PeopleHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                        sync.Mutex
	loggerInit                sync.Once
	dbInit                    sync.Once
	txManagerInit             sync.Once
	metricsProviderInit       sync.Once
	businessMetricsInit       sync.Once
	rootKeyChainInit          sync.Once
	kmsServiceInit            sync.Once
	aeadManagerInit           sync.Once
	keyDeriverInit            sync.Once
	blindIndexerInit          sync.Once
	keyVersionRepoInit        sync.Once
	keyManagerInit            sync.Once
	normalizerInit            sync.Once
	codecInit                 sync.Once
	piiRepoInit               sync.Once
	checkpointRepoInit        sync.Once
	fieldStoreInit            sync.Once
	piiServiceInit            sync.Once
	customerRepoInit          sync.Once
	customerUseCaseInit       sync.Once
	recruitmentRepoInit       sync.Once
	recruitmentUseCaseInit    sync.Once
	customerHandlerInit       sync.Once
	recruitmentHandlerInit    sync.Once
	peopleHandlerInit         sync.Once
	userDateRepoInit          sync.Once
	userDateUseCaseInit       sync.Once
	userDateHandlerInit       sync.Once
	recommendationRepoInit    sync.Once
	recommendationUseCaseInit sync.Once
	recommendationHandlerInit sync.Once
	httpServerInit            sync.Once
	metricsServerInit         sync.Once
	initErrors                map[string]error
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
	c.dbInit.Do(func() {
		db, err := c.initDB()
		c.store("db", err, func() { c.db = db })
	})
	return c.db, c.initError("db")
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		txManager, err := c.initTxManager()
		c.store("txManager", err, func() { c.txManager = txManager })
	})
	return c.txManager, c.initError("txManager")
}

// MetricsProvider returns the Prometheus backed meter provider, or nil when metrics
// are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			err = fmt.Errorf("failed to create metrics provider: %w", err)
		}
		c.store("metricsProvider", err, func() { c.metricsProvider = provider })
	})
	return c.metricsProvider, c.initError("metricsProvider")
}

// BusinessMetrics returns the operation counters. A no-op implementation is used when
// metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		bm, err := c.initBusinessMetrics()
		c.store("businessMetrics", err, func() { c.businessMetrics = bm })
	})
	return c.businessMetrics, c.initError("businessMetrics")
}

// HTTPServer returns the HTTP server instance with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		c.store("httpServer", err, func() { c.httpServer = server })
	})
	return c.httpServer, c.initError("httpServer")
}

// MetricsServer returns the Prometheus scrape server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.store("metricsServer", err, nil)
			return
		}
		if provider == nil {
			return
		}
		if err := c.registerKeyStateGauges(provider); err != nil {
			c.store("metricsServer", err, nil)
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	return c.metricsServer, c.initError("metricsServer")
}

// registerKeyStateGauges exports the active key version and re-encryption backlog.
func (c *Container) registerKeyStateGauges(provider *metrics.Provider) error {
	keyManager, err := c.KeyManager()
	if err != nil {
		return err
	}
	store, err := c.FieldStore()
	if err != nil {
		return err
	}

	_, err = metrics.RegisterKeyStateGauges(
		provider.MeterProvider(),
		c.config.MetricsNamespace,
		func(ctx context.Context) (*metrics.KeyState, error) {
			active, err := keyManager.ActiveKey()
			if err != nil {
				return nil, err
			}
			pending, err := store.PendingCount(ctx)
			if err != nil {
				return nil, err
			}
			return &metrics.KeyState{ActiveVersion: active.Version, Pending: pending}, nil
		},
	)
	if err != nil {
		return fmt.Errorf("failed to register key state gauges: %w", err)
	}
	return nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Key material is zeroed before the connection goes away.
	if c.keyManager != nil {
		c.keyManager.Close()
	}
	if c.rootKeyChain != nil {
		c.rootKeyChain.Close()
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// store records the outcome of an initializer. assign runs only on success.
func (c *Container) store(name string, err error, assign func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.initErrors[name] = err
		return
	}
	if assign != nil {
		assign()
	}
}

func (c *Container) initError(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.config.SlogLevel()}))
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

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return bm, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	customerHandler, err := c.CustomerHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get customer handler for http server: %w", err)
	}

	recruitmentHandler, err := c.RecruitmentHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get recruitment handler for http server: %w", err)
	}

	userDateHandler, err := c.UserDateHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get user date handler for http server: %w", err)
	}

	recommendationHandler, err := c.RecommendationHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation handler for http server: %w", err)
	}

	peopleHandler, err := c.PeopleHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get people handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(
		c.config,
		customerHandler,
		recruitmentHandler,
		userDateHandler,
		recommendationHandler,
		peopleHandler,
		provider,
	)

	return server, nil
}
