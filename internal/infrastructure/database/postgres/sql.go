package postgres

import (
	"context"
	"customer-service/internal/config"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
)

var (
	registerDriverOnce sync.Once
	tracedDriverName   string
	registerDriverErr  error
)

func tracedDriver() (string, error) {
	registerDriverOnce.Do(func() {
		tracedDriverName, registerDriverErr = otelsql.Register("pgx",
			otelsql.TraceAll(),
			otelsql.WithSystem(semconv.DBSystemPostgreSQL),
		)
	})
	return tracedDriverName, registerDriverErr
}

// OpenSQLDB opens a database/sql handle on the pgx stdlib driver wrapped with
// otelsql tracing and connection pool metrics. It is used by the jpa backend and
// the migrator.
func OpenSQLDB(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	connURL, err := cfg.ConnectionURL()
	if err != nil {
		return nil, err
	}

	driverName, err := tracedDriver()
	if err != nil {
		return nil, fmt.Errorf("failed to register traced sql driver: %w", err)
	}

	db, err := sql.Open(driverName, connURL)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	maxConns := 10
	if cfg.MaxConns > 0 {
		maxConns = int(cfg.MaxConns)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := otelsql.RecordStats(db, otelsql.WithSystem(semconv.DBSystemPostgreSQL)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to record database stats: %w", err)
	}

	if err := verifySQLConnection(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Opened database/sql handle", "driver", driverName)
	return db, nil
}

func verifySQLConnection(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	return verifyConnection(ctx, pingFunc(db.PingContext), logger)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
