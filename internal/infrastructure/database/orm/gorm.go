package orm

import (
	"customer-service/internal/infrastructure/logging"
	"database/sql"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open wraps an existing database/sql handle with gorm. The handle keeps its own
// instrumentation; gorm only builds statements and maps rows.
func Open(sqlDB *sql.DB, logger *slog.Logger, level slog.Level) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logging.NewGormLogger(logger, level),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open gorm session: %w", err)
	}
	return db, nil
}
