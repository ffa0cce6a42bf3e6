package persistence

import (
	"context"

	"github.com/example/schedule-dashboard/internal/schedule"
)

// ClassRepository stores class records. Add ignores any ID on the record and
// returns the one assigned by the store. Put replaces an existing record and
// returns ErrNotFound for unknown IDs.
type ClassRepository interface {
	ListClasses(ctx context.Context) ([]schedule.ClassRecord, error)
	GetClass(ctx context.Context, id int64) (schedule.ClassRecord, error)
	AddClass(ctx context.Context, class schedule.ClassRecord) (int64, error)
	PutClass(ctx context.Context, class schedule.ClassRecord) error
	DeleteClass(ctx context.Context, id int64) error
	ClearClasses(ctx context.Context) error
}

// EventRepository stores event records with the same contract as ClassRepository.
type EventRepository interface {
	ListEvents(ctx context.Context) ([]schedule.EventRecord, error)
	GetEvent(ctx context.Context, id int64) (schedule.EventRecord, error)
	AddEvent(ctx context.Context, event schedule.EventRecord) (int64, error)
	PutEvent(ctx context.Context, event schedule.EventRecord) error
	DeleteEvent(ctx context.Context, id int64) error
	ClearEvents(ctx context.Context) error
}
