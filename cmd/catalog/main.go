package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tair/product-catalog/internal/config"
	"github.com/tair/product-catalog/internal/hello"
	"github.com/tair/product-catalog/internal/product"
	httpDelivery "github.com/tair/product-catalog/internal/product/delivery/http"
	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/usecase/command"
	"github.com/tair/product-catalog/internal/web"
	"github.com/tair/product-catalog/kafka"
	"github.com/tair/product-catalog/pkg/database"
	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("catalog-service", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("storage", cfg.Storage).
		Msg("Starting catalog service")

	if cfg.GeneratedCSRFKey {
		logger.Logger.Warn().Msg("CSRF_AUTH_KEY not set, using a random key; forms will not survive a restart")
	}

	tp, err := tracing.InitTracer(cfg.Tracing)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}

	ctx := context.Background()

	// Product store
	var (
		repo domain.ProductRepository
		db   httpDelivery.Pinger
	)
	switch cfg.Storage {
	case config.StorageMemory:
		repo = product.ProvideMemoryRepository()
		logger.Logger.Warn().Msg("Using in-memory storage, products are lost on exit")
	default:
		gormDB, err := database.NewGormConnection(ctx, cfg.Database)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
		}
		defer sqlDB.Close()

		if repo, err = product.ProvideGormRepository(gormDB); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		db = sqlDB

		logger.Logger.Info().Msg("Database initialized successfully")
	}

	// Product events
	publisher, err := newPublisher(cfg.KafkaBrokers)
	if err != nil {
		logger.Logger.Fatal().Err(err).Strs("brokers", cfg.KafkaBrokers).Msg("Failed to create Kafka publisher")
	}
	defer publisher.Close()

	views, err := web.NewRenderer()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// Initialize handler with Wire DI
	handler, err := product.InitializeHTTPHandler(repo, publisher, views, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	mwConfig := httpDelivery.DefaultMiddlewareConfig(views, cfg.CSRFAuthKey)
	mwConfig.TimeoutDuration = cfg.RequestTimeout
	mwConfig.CSRFSecureCookie = cfg.CSRFSecure

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           newRouter(handler, hello.NewHandler(views), views, db, mwConfig),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
		logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
	}

	logger.Logger.Info().Msg("Server stopped")
}

// eventPublisher is a product event sink that must be closed on shutdown
type eventPublisher interface {
	command.EventPublisher
	io.Closer
}

// newPublisher returns the Kafka publisher, or a no-op one when no brokers are set
func newPublisher(brokers []string) (eventPublisher, error) {
	if len(brokers) == 0 {
		logger.Logger.Info().Msg("KAFKA_BROKERS not set, product events are disabled")
		return kafka.NopPublisher{}, nil
	}
	p, err := kafka.NewPublisher(brokers)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func newRouter(
	products *httpDelivery.ProductHandler,
	greetings *hello.Handler,
	views *web.Renderer,
	db httpDelivery.Pinger,
	mwConfig *httpDelivery.MiddlewareConfig,
) http.Handler {
	router := mux.NewRouter()
	httpDelivery.RegisterMiddlewares(router, mwConfig)

	router.Handle("/", http.RedirectHandler("/products", http.StatusFound)).Methods(http.MethodGet)
	products.RegisterRoutes(router)
	greetings.RegisterRoutes(router)

	// Health check endpoint
	products.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.NotFoundHandler = views.NotFoundHandler()

	return httpDelivery.SetupCORS(mwConfig)(router)
}
