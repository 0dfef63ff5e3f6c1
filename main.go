package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cmoonthego/cmo-engine/pkg/auth"
	"github.com/cmoonthego/cmo-engine/pkg/config"
	"github.com/cmoonthego/cmo-engine/pkg/database"
	"github.com/cmoonthego/cmo-engine/pkg/handlers"
	"github.com/cmoonthego/cmo-engine/pkg/llm"
	"github.com/cmoonthego/cmo-engine/pkg/logging"
	"github.com/cmoonthego/cmo-engine/pkg/middleware"
	"github.com/cmoonthego/cmo-engine/pkg/repositories"
	"github.com/cmoonthego/cmo-engine/pkg/retry"
	"github.com/cmoonthego/cmo-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("cmo-engine stopped", zap.String("error", logging.SanitizeError(err)))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.URL())),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Bool("auth_enabled", cfg.Auth.Enabled),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification))

	// The database may still be starting when the service comes up.
	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		return database.NewConnection(ctx, &cfg.Database)
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := migrate(cfg, logger); err != nil {
			return err
		}
	}

	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		return fmt.Errorf("failed to create JWKS client: %w", err)
	}
	defer jwksClient.Close()
	authMiddleware := auth.NewMiddleware(auth.NewAuthService(jwksClient, logger.Named("auth")), cfg.Auth.Enabled, logger.Named("auth"))

	generator, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}

	// Repositories
	brandRepo := repositories.NewBrandRepository(db)
	snapshotRepo := repositories.NewSnapshotRepository(db)
	derivedRepo := repositories.NewDerivedOutputRepository(db)
	statusRepo := repositories.NewAnalysisStatusRepository(db)
	artifactRepo := repositories.NewReportArtifactRepository(db)

	// Services
	reportService := services.NewCMOReportService(
		services.NewOwnershipGate(brandRepo, logger),
		services.NewReportAggregator(brandRepo, snapshotRepo, derivedRepo, statusRepo, logger),
		services.NewReportComposer(cfg.LLM.Temperature, cfg.LLM.MaxTokens, time.Now),
		generator,
		services.NewReportPersister(db, artifactRepo, statusRepo, logger),
		artifactRepo,
		logger,
	)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, db, logger.Named("health")).RegisterRoutes(mux)
	handlers.NewCMOReportHandler(reportService, logger.Named("cmo-report-handler")).RegisterRoutes(mux, authMiddleware)

	var handler http.Handler = mux
	handler = middleware.RequestLogger(logger.Named("http"))(handler)
	handler = middleware.Recoverer(logger.Named("http"))(handler)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Covers the LLM timeout across every retry.
		WriteTimeout: cfg.LLM.RequestTimeout*time.Duration(cfg.Retry.MaxRetries+1) + time.Minute,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", server.Addr, err)
	}
	logger.Info("Starting cmo-engine", zap.String("addr", ln.Addr().String()), zap.String("version", cfg.Version))
	return serve(ctx, server, ln, cfg.ShutdownTimeout, logger)
}

// serve runs server on ln until it fails or ctx is done, then drains in-flight
// requests for up to shutdownTimeout. Request contexts are not derived from ctx,
// so a signal does not cancel a report that is already being generated or saved.
func serve(ctx context.Context, server *http.Server, ln net.Listener, shutdownTimeout time.Duration, logger *zap.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Shutdown complete")
	return nil
}

func migrate(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := database.OpenSQL(cfg.Database.URL())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger.Named("migrations")); err != nil {
		return err
	}
	return nil
}

// newGenerator builds the provider client wrapped with the circuit breaker and retries.
func newGenerator(cfg *config.Config, logger *zap.Logger) (llm.Generator, error) {
	client, err := llm.NewProviderClient(cfg.LLM.Provider, &llm.Config{
		Endpoint: cfg.LLM.BaseURL,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		Timeout:  cfg.LLM.RequestTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	breaker := llm.NewCircuitBreaker(llm.CircuitBreakerConfig{
		Threshold:  cfg.CircuitBreaker.Threshold,
		ResetAfter: cfg.CircuitBreaker.ResetAfter,
	})
	retryCfg := retry.GenerationConfig(cfg.Retry.MaxRetries, cfg.Retry.InitialDelay, cfg.Retry.MaxDelay)

	return llm.NewGuardedGenerator(client, breaker, retryCfg, logger), nil
}
