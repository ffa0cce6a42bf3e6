package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/schedule-dashboard/internal/persistence"
	"github.com/example/schedule-dashboard/internal/schedule"
)

const eventColumns = `id, titulo, local, data, horario_inicio, horario_fim, turno`

// EventRepository implements persistence.EventRepository on SQLite.
type EventRepository struct {
	pool  *ConnectionPool
	retry RetryConfig
}

var _ persistence.EventRepository = (*EventRepository)(nil)

// NewEventRepository creates an event repository on pool.
func NewEventRepository(pool *ConnectionPool) *EventRepository {
	return &EventRepository{pool: pool, retry: DefaultRetryConfig()}
}

func scanEvent(row rowScanner) (schedule.EventRecord, error) {
	var (
		e     schedule.EventRecord
		shift string
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Location, &e.Date, &e.Start, &e.End, &shift); err != nil {
		return schedule.EventRecord{}, err
	}
	e.Shift = schedule.Shift(shift)
	return e, nil
}

// ListEvents returns all events in insertion order.
func (r *EventRepository) ListEvents(ctx context.Context) ([]schedule.EventRecord, error) {
	rows, err := r.pool.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id ASC`)
	if err != nil {
		return nil, mapReadError(err)
	}
	defer rows.Close()

	var events []schedule.EventRecord
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, mapReadError(err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadError(err)
	}
	return events, nil
}

// GetEvent returns a single event.
func (r *EventRepository) GetEvent(ctx context.Context, id int64) (schedule.EventRecord, error) {
	if id <= 0 {
		return schedule.EventRecord{}, persistence.ErrNotFound
	}
	e, err := scanEvent(r.pool.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if err != nil {
		return schedule.EventRecord{}, mapReadError(err)
	}
	return e, nil
}

// AddEvent inserts e and returns its new ID.
func (r *EventRepository) AddEvent(ctx context.Context, e schedule.EventRecord) (int64, error) {
	var id int64
	err := withRetry(ctx, r.retry, func() error {
		result, err := r.pool.db.ExecContext(ctx, `
			INSERT INTO events (titulo, local, data, horario_inicio, horario_fim, turno)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.Title, e.Location, e.Date, e.Start, e.End, string(e.Shift),
		)
		if err != nil {
			return err
		}
		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, mapWriteError(err)
	}
	return id, nil
}

// PutEvent replaces the event with e.ID.
func (r *EventRepository) PutEvent(ctx context.Context, e schedule.EventRecord) error {
	if e.ID <= 0 {
		return persistence.ErrNotFound
	}
	return execAffectingOne(ctx, r.pool, r.retry, `
		UPDATE events
		SET titulo = ?, local = ?, data = ?, horario_inicio = ?, horario_fim = ?, turno = ?
		WHERE id = ?`,
		e.Title, e.Location, e.Date, e.Start, e.End, string(e.Shift), e.ID,
	)
}

// DeleteEvent removes the event with id.
func (r *EventRepository) DeleteEvent(ctx context.Context, id int64) error {
	if id <= 0 {
		return persistence.ErrNotFound
	}
	return execAffectingOne(ctx, r.pool, r.retry, `DELETE FROM events WHERE id = ?`, id)
}

// ClearEvents removes every event.
func (r *EventRepository) ClearEvents(ctx context.Context) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
			return mapWriteError(err)
		}
		return nil
	})
}
