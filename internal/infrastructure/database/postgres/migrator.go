package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	migrationsGlob    = "sql/migrations/*.sql"
	migrationLockKey  = int64(20240117)
	migrationTableDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (version BIGINT PRIMARY KEY, name TEXT NOT NULL, applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`

	advisoryLockQuery     = `SELECT pg_advisory_lock($1)`
	advisoryUnlockQuery   = `SELECT pg_advisory_unlock($1)`
	appliedVersionsQuery  = `SELECT version FROM schema_migrations`
	recordMigrationQuery  = `INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, NOW())`
	appliedVersionsDesc   = `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT $1`
	deleteMigrationRecord = `DELETE FROM schema_migrations WHERE version = $1`
	migrationStatusQuery  = `SELECT COALESCE(MAX(version), 0), COUNT(*) FROM schema_migrations`
)

var (
	//go:embed sql/migrations/*.sql
	migrationsFS embed.FS

	migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)
)

type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// Migrator applies the embedded schema migrations that create the customer table.
// Concurrent instances serialise on a Postgres advisory lock.
type Migrator struct {
	db     *sql.DB
	fsys   fs.FS
	logger *slog.Logger
}

func NewMigrator(db *sql.DB, logger *slog.Logger) *Migrator {
	return &Migrator{db: db, fsys: migrationsFS, logger: logger.With("component", "Migrator")}
}

// Up applies pending migrations. steps=0 applies all of them.
func (m *Migrator) Up(ctx context.Context, steps int) error {
	return m.withLock(ctx, func(conn *sql.Conn, migrations []migration) error {
		applied, err := loadAppliedVersions(ctx, conn)
		if err != nil {
			return err
		}

		count := 0
		for _, mig := range migrations {
			if applied[mig.Version] {
				continue
			}
			m.logger.InfoContext(ctx, "Applying migration", "version", mig.Version, "name", mig.Name)
			if err := runInTx(ctx, conn, mig.UpSQL, recordMigrationQuery, mig.Version, mig.Name); err != nil {
				return fmt.Errorf("up migration %d_%s: %w", mig.Version, mig.Name, err)
			}
			count++
			if steps > 0 && count >= steps {
				break
			}
		}

		m.logger.InfoContext(ctx, "Migrations applied", "count", count)
		return nil
	})
}

// Down rolls back the latest migrations. steps<=0 rolls back one.
func (m *Migrator) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		steps = 1
	}
	return m.withLock(ctx, func(conn *sql.Conn, migrations []migration) error {
		byVersion := make(map[int64]migration, len(migrations))
		for _, mig := range migrations {
			byVersion[mig.Version] = mig
		}

		versions, err := loadAppliedVersionsDesc(ctx, conn, steps)
		if err != nil {
			return err
		}

		for _, version := range versions {
			mig, ok := byVersion[version]
			if !ok {
				return fmt.Errorf("cannot rollback unknown migration version %d", version)
			}
			m.logger.InfoContext(ctx, "Rolling back migration", "version", mig.Version, "name", mig.Name)
			if err := runInTx(ctx, conn, mig.DownSQL, deleteMigrationRecord, mig.Version); err != nil {
				return fmt.Errorf("down migration %d_%s: %w", mig.Version, mig.Name, err)
			}
		}
		return nil
	})
}

// Status returns the current schema version and the number of applied migrations.
func (m *Migrator) Status(ctx context.Context) (int64, int, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := m.db.ExecContext(queryCtx, migrationTableDDL); err != nil {
		return 0, 0, fmt.Errorf("ensure migration table: %w", err)
	}

	var (
		version int64
		count   int
	)
	if err := m.db.QueryRowContext(queryCtx, migrationStatusQuery).Scan(&version, &count); err != nil {
		return 0, 0, fmt.Errorf("query migration status: %w", err)
	}
	return version, count, nil
}

func (m *Migrator) withLock(ctx context.Context, fn func(conn *sql.Conn, migrations []migration) error) error {
	if m == nil || m.db == nil {
		return errors.New("migrator is not initialized")
	}

	migrations, err := loadMigrationsFromFS(m.fsys)
	if err != nil {
		return err
	}

	conn, err := m.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire db connection: %w", err)
	}
	defer conn.Close()

	lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := conn.ExecContext(lockCtx, advisoryLockQuery, migrationLockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.Background(), advisoryUnlockQuery, migrationLockKey); err != nil {
			m.logger.Warn("Failed to release migration lock", "error", err)
		}
	}()

	if _, err := conn.ExecContext(ctx, migrationTableDDL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	return fn(conn, migrations)
}

func runInTx(ctx context.Context, conn *sql.Conn, body, record string, args ...any) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, body); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("execute: %w", err)
	}

	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func loadAppliedVersions(ctx context.Context, conn *sql.Conn) (map[int64]bool, error) {
	rows, err := conn.QueryContext(ctx, appliedVersionsQuery)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]bool)
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan applied migration version: %w", err)
		}
		result[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations: %w", err)
	}
	return result, nil
}

func loadAppliedVersionsDesc(ctx context.Context, conn *sql.Conn, limit int) ([]int64, error) {
	rows, err := conn.QueryContext(ctx, appliedVersionsDesc, limit)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations desc: %w", err)
	}
	defer rows.Close()

	versions := make([]int64, 0, limit)
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan applied migration desc: %w", err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations desc: %w", err)
	}
	return versions, nil
}

func loadMigrationsFromFS(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, migrationsGlob)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no migration files found")
	}

	byVersion := make(map[int64]*migration)
	for _, file := range files {
		base := filepath.Base(file)
		matches := migrationFilePattern.FindStringSubmatch(base)
		if len(matches) != 4 {
			return nil, fmt.Errorf("invalid migration file name: %s", base)
		}

		version, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", base, err)
		}
		name, direction := matches[2], matches[3]

		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read migration file %s: %w", file, err)
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("migration file is empty: %s", base)
		}

		mig, ok := byVersion[version]
		if !ok {
			mig = &migration{Version: version, Name: name}
			byVersion[version] = mig
		} else if mig.Name != name {
			return nil, fmt.Errorf("migration name mismatch for version %d: %s vs %s", version, mig.Name, name)
		}

		target := &mig.UpSQL
		if direction == "down" {
			target = &mig.DownSQL
		}
		if *target != "" {
			return nil, fmt.Errorf("duplicate %s migration for version %d", direction, version)
		}
		*target = body
	}

	migrations := make([]migration, 0, len(byVersion))
	for _, mig := range byVersion {
		if mig.UpSQL == "" || mig.DownSQL == "" {
			return nil, fmt.Errorf("migration %d_%s must have both up and down files", mig.Version, mig.Name)
		}
		migrations = append(migrations, *mig)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })

	return migrations, nil
}
