package main

import (
	_ "customer-service/docs"
	"customer-service/internal/api"
	"customer-service/internal/config"
	"customer-service/internal/domain/customer"
	"customer-service/internal/infrastructure/database/memory"
	"customer-service/internal/infrastructure/database/orm"
	"customer-service/internal/infrastructure/database/postgres"
	"customer-service/internal/infrastructure/logging"
	"customer-service/internal/infrastructure/tracing"
	"customer-service/internal/seed"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// @title Customer Service API
// @version 1.0
// @description CRUD API over customers with pluggable list, jdbc and jpa storage backends.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
func main() {
	cfg, logger := initializeApp()

	shutdownTracing, err := tracing.Setup(cfg.Tracing, os.Stdout, logger)
	if err != nil {
		logger.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	dao, closeDao, err := initializeDao(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize customer dao", "error", err)
		os.Exit(1)
	}

	customerService := customer.NewCustomerService(dao, logger)
	if err := seedCustomers(context.Background(), cfg.Seed, customerService, logger); err != nil {
		logger.Error("Failed to seed customers", "error", err)
		closeDao()
		os.Exit(1)
	}

	router := api.SetupRouter(customerService, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, shutdownChan, serverErrors, logger, closeDao, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("Tracer provider shutdown failed", "error", err)
		}
	})
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "config_source", cfg.ConfigFileUsed)

	return cfg, logger
}

// initializeDao builds the one CustomerDao selected by dao.backend and returns
// the function that releases its resources.
func initializeDao(ctx context.Context, cfg *config.Config, logger *slog.Logger) (customer.CustomerDao, func(), error) {
	backend, err := cfg.Dao.ResolveBackend()
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Initializing customer dao...", "backend", backend)

	switch backend {
	case config.BackendList:
		return memory.NewCustomerRepository(logger), func() {}, nil

	case config.BackendJDBC:
		if cfg.Database.Migrate {
			if err := migrateOnce(ctx, cfg.Database, logger); err != nil {
				return nil, nil, err
			}
		}
		dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewCustomerRepository(dbPool, logger), func() {
			logger.Info("Closing database connection pool...")
			dbPool.Close()
		}, nil

	case config.BackendJPA:
		sqlDB, err := postgres.OpenSQLDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			logger.Info("Closing database handle...")
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database handle", "error", err)
			}
		}
		if cfg.Database.Migrate {
			if err := runMigrations(ctx, sqlDB, logger); err != nil {
				closeDB()
				return nil, nil, err
			}
		}
		gormDB, err := orm.Open(sqlDB, logger, logging.ParseLevel(cfg.Logger.Level))
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		return orm.NewCustomerRepository(gormDB, logger), closeDB, nil
	}

	return nil, nil, fmt.Errorf("unsupported dao backend %q", backend)
}

// migrateOnce opens a short-lived database/sql handle for the migrator; the jdbc
// backend itself talks to pgxpool.
func migrateOnce(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) error {
	sqlDB, err := postgres.OpenSQLDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return runMigrations(ctx, sqlDB, logger)
}

func runMigrations(ctx context.Context, sqlDB *sql.DB, logger *slog.Logger) error {
	migrator := postgres.NewMigrator(sqlDB, logger)
	if err := migrator.Up(ctx, 0); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	version, count, err := migrator.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	logger.Info("Database schema is up to date", "version", version, "applied", count)
	return nil
}

func seedCustomers(ctx context.Context, cfg config.SeedConfig, svc customer.CustomerService, logger *slog.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	_, err := seed.NewSeeder(svc, logger).Run(ctx, cfg.Count)
	return err
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

// handleShutdown blocks until a signal or server failure, drains the HTTP server
// and then runs cleanups in order.
func handleShutdown(srv *http.Server, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger, cleanups ...func()) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			runCleanups(cleanups)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server graceful shutdown failed", "error", err)
		} else {
			logger.Info("HTTP server shutdown initiated.")
		}
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	if triggerReason != "server exited" {
		logger.Info("Waiting for server goroutine to confirm exit...")
		select {
		case err := <-serverErrors:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
			} else {
				logger.Info("Server goroutine confirmed exit.")
			}
		case <-time.After(5 * time.Second):
			logger.Warn("Timed out waiting for server goroutine confirmation.")
		}
	}

	runCleanups(cleanups)
	logger.Info("Application shutdown process complete.")
}

func runCleanups(cleanups []func()) {
	for _, cleanup := range cleanups {
		if cleanup != nil {
			cleanup()
		}
	}
}
