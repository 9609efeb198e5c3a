package logging

import (
	"log/slog"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// NewGormLogger routes gorm's statement log through slog. Statements are logged at
// Info only when the application runs at debug level.
func NewGormLogger(logger *slog.Logger, level slog.Level) gormlogger.Interface {
	gormLevel := gormlogger.Warn
	if level <= slog.LevelDebug {
		gormLevel = gormlogger.Info
	}

	writer := slog.NewLogLogger(logger.With("component", "gorm").Handler(), slog.LevelInfo)
	return gormlogger.New(writer, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLevel,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		Colorful:                  false,
	})
}
