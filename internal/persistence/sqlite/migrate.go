package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migration struct {
	Version string
	SQL     string
}

// MigrationError reports the migration and statement that failed.
type MigrationError struct {
	Version   string
	Statement int
	Err       error
}

func (e *MigrationError) Error() string {
	if e.Statement > 0 {
		return fmt.Sprintf("migration %s statement %d: %v", e.Version, e.Statement, e.Err)
	}
	return fmt.Sprintf("migration %s: %v", e.Version, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

// Migrate applies every embedded migration that is not yet recorded in
// schema_migrations, in file name order. It returns the versions applied.
func (cp *ConnectionPool) Migrate(ctx context.Context, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := cp.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL,
			execution_time_ms INTEGER NOT NULL DEFAULT 0
		)`); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := cp.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	migrations, err := loadMigrations()
	if err != nil {
		return nil, err
	}

	var done []string
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		started := time.Now()
		if err := cp.apply(ctx, m, started); err != nil {
			logger.ErrorContext(ctx, "migration failed", "version", m.Version, "error", err)
			return done, err
		}
		logger.InfoContext(ctx, "migration applied", "version", m.Version, "duration", time.Since(started))
		done = append(done, m.Version)
	}
	return done, nil
}

func (cp *ConnectionPool) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := cp.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (cp *ConnectionPool) apply(ctx context.Context, m migration, started time.Time) error {
	return cp.WithTransaction(ctx, func(tx *sql.Tx) error {
		statements := splitStatements(m.SQL)
		if len(statements) == 0 {
			return &MigrationError{Version: m.Version, Err: fmt.Errorf("no SQL statements found")}
		}
		for i, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return &MigrationError{Version: m.Version, Statement: i + 1, Err: err}
			}
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, applied_at, execution_time_ms) VALUES (?, ?, ?)",
			m.Version, started.UTC().Format(time.RFC3339), time.Since(started).Milliseconds(),
		)
		if err != nil {
			return &MigrationError{Version: m.Version, Err: err}
		}
		return nil
	})
}

func loadMigrations() ([]migration, error) {
	entries, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(entries)

	migrations := make([]migration, 0, len(entries))
	for _, name := range entries {
		content, err := migrationsFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		migrations = append(migrations, migration{
			Version: strings.TrimSuffix(path.Base(name), ".sql"),
			SQL:     string(content),
		})
	}
	return migrations, nil
}

func splitStatements(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
