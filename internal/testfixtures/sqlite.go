package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/schedule-dashboard/internal/persistence"
	"github.com/example/schedule-dashboard/internal/persistence/sqlite"
	"github.com/example/schedule-dashboard/internal/schedule"
)

// SQLiteHarness provides repositories backed by a temporary, migrated SQLite
// database.
type SQLiteHarness struct {
	Pool    *sqlite.ConnectionPool
	Classes persistence.ClassRepository
	Events  persistence.EventRepository

	cleanup func()
}

// Close releases the database.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a fresh database file under tb.TempDir and applies
// all migrations. The database is closed when the test ends.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "dashboard.db")
	ctx := context.Background()

	pool, err := sqlite.Open(ctx, sqlite.TestConfig(path))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	if _, err := pool.Migrate(ctx, nil); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:    pool,
		Classes: sqlite.NewClassRepository(pool),
		Events:  sqlite.NewEventRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedClasses stores the fixtures and returns the stored records.
func (h *SQLiteHarness) SeedClasses(tb testing.TB, fixtures ...ClassFixture) []schedule.ClassRecord {
	tb.Helper()
	out := make([]schedule.ClassRecord, 0, len(fixtures))
	for _, f := range fixtures {
		rec := f.Record()
		id, err := h.Classes.AddClass(context.Background(), rec)
		if err != nil {
			tb.Fatalf("failed to seed class: %v", err)
		}
		rec.ID = id
		out = append(out, rec)
	}
	return out
}

// SeedEvents stores the fixtures and returns the stored records.
func (h *SQLiteHarness) SeedEvents(tb testing.TB, fixtures ...EventFixture) []schedule.EventRecord {
	tb.Helper()
	out := make([]schedule.EventRecord, 0, len(fixtures))
	for _, f := range fixtures {
		rec := f.Record()
		id, err := h.Events.AddEvent(context.Background(), rec)
		if err != nil {
			tb.Fatalf("failed to seed event: %v", err)
		}
		rec.ID = id
		out = append(out, rec)
	}
	return out
}
