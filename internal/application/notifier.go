package application

import "context"

// Action names the mutation reported in a Change.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionImported Action = "imported"
	ActionReset    Action = "reset"
)

// Change describes a committed mutation of one collection.
type Change struct {
	Collection Collection
	Action     Action
	// ID is set for single record changes.
	ID int64
	// Count is the number of records affected, when known.
	Count int
}

// ChangeNotifier is told about every committed mutation so that connected
// dashboards can refresh.
type ChangeNotifier interface {
	CollectionChanged(ctx context.Context, change Change)
}

type nopNotifier struct{}

func (nopNotifier) CollectionChanged(context.Context, Change) {}
