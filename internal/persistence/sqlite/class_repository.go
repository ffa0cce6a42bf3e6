package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/schedule-dashboard/internal/persistence"
	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/weekday"
)

const classColumns = `id, bloco, andar, sala, disciplina, turmas, professor, horario1, horario2, turno, dia_semana, sala_aberta, prioridade`

// ClassRepository implements persistence.ClassRepository on SQLite.
type ClassRepository struct {
	pool  *ConnectionPool
	retry RetryConfig
}

var _ persistence.ClassRepository = (*ClassRepository)(nil)

// NewClassRepository creates a class repository on pool.
func NewClassRepository(pool *ConnectionPool) *ClassRepository {
	return &ClassRepository{pool: pool, retry: DefaultRetryConfig()}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClass(row rowScanner) (schedule.ClassRecord, error) {
	var (
		c        schedule.ClassRecord
		shift    string
		day      string
		roomOpen int
	)
	err := row.Scan(
		&c.ID,
		&c.Building,
		&c.Floor,
		&c.Room,
		&c.Subject,
		&c.Group,
		&c.Instructor,
		&c.Start,
		&c.End,
		&shift,
		&day,
		&roomOpen,
		&c.Priority,
	)
	if err != nil {
		return schedule.ClassRecord{}, err
	}
	c.Shift = schedule.Shift(shift)
	c.Weekday = weekday.Day(day)
	c.RoomOpen = roomOpen != 0
	return c, nil
}

// ListClasses returns all classes in insertion order.
func (r *ClassRepository) ListClasses(ctx context.Context) ([]schedule.ClassRecord, error) {
	rows, err := r.pool.db.QueryContext(ctx, `SELECT `+classColumns+` FROM classes ORDER BY id ASC`)
	if err != nil {
		return nil, mapReadError(err)
	}
	defer rows.Close()

	var classes []schedule.ClassRecord
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, mapReadError(err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadError(err)
	}
	return classes, nil
}

// GetClass returns a single class.
func (r *ClassRepository) GetClass(ctx context.Context, id int64) (schedule.ClassRecord, error) {
	if id <= 0 {
		return schedule.ClassRecord{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, `SELECT `+classColumns+` FROM classes WHERE id = ?`, id)
	c, err := scanClass(row)
	if err != nil {
		return schedule.ClassRecord{}, mapReadError(err)
	}
	return c, nil
}

// AddClass inserts c and returns its new ID.
func (r *ClassRepository) AddClass(ctx context.Context, c schedule.ClassRecord) (int64, error) {
	var id int64
	err := withRetry(ctx, r.retry, func() error {
		result, err := r.pool.db.ExecContext(ctx, `
			INSERT INTO classes (bloco, andar, sala, disciplina, turmas, professor, horario1, horario2, turno, dia_semana, sala_aberta, prioridade)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Building, c.Floor, c.Room, c.Subject, c.Group, c.Instructor,
			c.Start, c.End, string(c.Shift), string(c.Weekday), boolToInt(c.RoomOpen), c.Priority,
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

// PutClass replaces the class with c.ID.
func (r *ClassRepository) PutClass(ctx context.Context, c schedule.ClassRecord) error {
	if c.ID <= 0 {
		return persistence.ErrNotFound
	}
	return r.execAffectingOne(ctx, `
		UPDATE classes
		SET bloco = ?, andar = ?, sala = ?, disciplina = ?, turmas = ?, professor = ?,
		    horario1 = ?, horario2 = ?, turno = ?, dia_semana = ?, sala_aberta = ?, prioridade = ?
		WHERE id = ?`,
		c.Building, c.Floor, c.Room, c.Subject, c.Group, c.Instructor,
		c.Start, c.End, string(c.Shift), string(c.Weekday), boolToInt(c.RoomOpen), c.Priority,
		c.ID,
	)
}

// DeleteClass removes the class with id.
func (r *ClassRepository) DeleteClass(ctx context.Context, id int64) error {
	if id <= 0 {
		return persistence.ErrNotFound
	}
	return r.execAffectingOne(ctx, `DELETE FROM classes WHERE id = ?`, id)
}

// ClearClasses removes every class.
func (r *ClassRepository) ClearClasses(ctx context.Context) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM classes`); err != nil {
			return mapWriteError(err)
		}
		return nil
	})
}

func (r *ClassRepository) execAffectingOne(ctx context.Context, query string, args ...any) error {
	return execAffectingOne(ctx, r.pool, r.retry, query, args...)
}

func execAffectingOne(ctx context.Context, pool *ConnectionPool, retry RetryConfig, query string, args ...any) error {
	var affected int64
	err := withRetry(ctx, retry, func() error {
		result, err := pool.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return mapWriteError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
