package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/schedule-dashboard/internal/persistence"
	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/tablequery"
)

// EventService orchestrates validation, querying and persistence for events.
type EventService struct {
	events   persistence.EventRepository
	notifier ChangeNotifier
	logger   *slog.Logger
}

// NewEventService constructs an event service with the provided dependencies.
func NewEventService(events persistence.EventRepository, notifier ChangeNotifier) *EventService {
	return NewEventServiceWithLogger(events, notifier, nil)
}

// NewEventServiceWithLogger constructs an event service with a specified logger.
func NewEventServiceWithLogger(events persistence.EventRepository, notifier ChangeNotifier, logger *slog.Logger) *EventService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &EventService{events: events, notifier: notifier, logger: defaultLogger(logger)}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

// List returns the events matching the admin table query.
func (s *EventService) List(ctx context.Context, query EventListQuery) (events []schedule.EventRecord, err error) {
	if s == nil || s.events == nil {
		return nil, fmt.Errorf("event repository not configured")
	}

	logger := s.loggerWith(ctx, "List",
		"search", query.Search,
		"date", query.Date,
		"sort_key", query.Sort.Key,
		"sort_dir", string(query.Sort.Direction),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list events", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(events)).DebugContext(ctx, "events listed")
	}()

	date := strings.TrimSpace(query.Date)
	if date != "" {
		if date, err = schedule.NormalizeDate(date); err != nil {
			vErr := &ValidationError{}
			vErr.add("data", msgInvalidDate)
			err = vErr
			return
		}
	}

	var all []schedule.EventRecord
	all, err = s.events.ListEvents(ctx)
	if err != nil {
		err = mapReadError(err)
		return
	}

	events = tablequery.Events(all, tablequery.Options{
		Search: query.Search,
		Filter: date,
		Sort:   query.Sort,
	})
	return
}

// Get returns a single event.
func (s *EventService) Get(ctx context.Context, id int64) (schedule.EventRecord, error) {
	if s == nil || s.events == nil {
		return schedule.EventRecord{}, fmt.Errorf("event repository not configured")
	}
	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		err = mapReadError(err)
		s.loggerWith(ctx, "Get", "event_id", id).ErrorContext(ctx, "failed to get event", "error", err, "error_kind", ErrorKind(err))
		return schedule.EventRecord{}, err
	}
	return event, nil
}

// Create validates input and stores a new event.
func (s *EventService) Create(ctx context.Context, input EventInput) (event schedule.EventRecord, err error) {
	if s == nil || s.events == nil {
		err = fmt.Errorf("event repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Create", "title", input.Title)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("event_id", event.ID).InfoContext(ctx, "event created")
	}()

	record, vErr := buildEvent(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	record.ID, err = s.events.AddEvent(ctx, record)
	if err != nil {
		err = mapWriteError("write", err, "horarioFim")
		return
	}

	event = record
	s.notifier.CollectionChanged(ctx, Change{Collection: CollectionEvents, Action: ActionCreated, ID: event.ID, Count: 1})
	return
}

// Update validates input and replaces the event with id.
func (s *EventService) Update(ctx context.Context, id int64, input EventInput) (event schedule.EventRecord, err error) {
	if s == nil || s.events == nil {
		err = fmt.Errorf("event repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Update", "event_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event updated")
	}()

	record, vErr := buildEvent(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	record.ID = id

	if err = s.events.PutEvent(ctx, record); err != nil {
		err = mapWriteError("write", err, "horarioFim")
		return
	}

	event = record
	s.notifier.CollectionChanged(ctx, Change{Collection: CollectionEvents, Action: ActionUpdated, ID: id, Count: 1})
	return
}

// Delete removes the event with id.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	if s == nil || s.events == nil {
		return fmt.Errorf("event repository not configured")
	}

	logger := s.loggerWith(ctx, "Delete", "event_id", id)
	if err := s.events.DeleteEvent(ctx, id); err != nil {
		err = mapWriteError("delete", err, "")
		logger.ErrorContext(ctx, "failed to delete event", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "event deleted")
	s.notifier.CollectionChanged(ctx, Change{Collection: CollectionEvents, Action: ActionDeleted, ID: id, Count: 1})
	return nil
}

// Reset removes every event.
func (s *EventService) Reset(ctx context.Context) error {
	if s == nil || s.events == nil {
		return fmt.Errorf("event repository not configured")
	}

	logger := s.loggerWith(ctx, "Reset")
	if err := s.events.ClearEvents(ctx); err != nil {
		err = mapWriteError("clear", err, "")
		logger.ErrorContext(ctx, "failed to clear events", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.WarnContext(ctx, "events cleared")
	s.notifier.CollectionChanged(ctx, Change{Collection: CollectionEvents, Action: ActionReset})
	return nil
}
