package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/schedule-dashboard/internal/persistence"
	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/tablequery"
)

// ClassService orchestrates validation, querying and persistence for classes.
type ClassService struct {
	classes  persistence.ClassRepository
	notifier ChangeNotifier
	logger   *slog.Logger
}

// NewClassService constructs a class service with the provided dependencies.
func NewClassService(classes persistence.ClassRepository, notifier ChangeNotifier) *ClassService {
	return NewClassServiceWithLogger(classes, notifier, nil)
}

// NewClassServiceWithLogger constructs a class service with a specified logger.
func NewClassServiceWithLogger(classes persistence.ClassRepository, notifier ChangeNotifier, logger *slog.Logger) *ClassService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ClassService{classes: classes, notifier: notifier, logger: defaultLogger(logger)}
}

func (s *ClassService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ClassService", operation, attrs...)
}

// List returns the classes matching the admin table query.
func (s *ClassService) List(ctx context.Context, query ClassListQuery) (classes []schedule.ClassRecord, err error) {
	if s == nil || s.classes == nil {
		return nil, fmt.Errorf("class repository not configured")
	}

	logger := s.loggerWith(ctx, "List",
		"search", query.Search,
		"day", query.Day,
		"sort_key", query.Sort.Key,
		"sort_dir", string(query.Sort.Direction),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list classes", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(classes)).DebugContext(ctx, "classes listed")
	}()

	var all []schedule.ClassRecord
	all, err = s.classes.ListClasses(ctx)
	if err != nil {
		err = mapReadError(err)
		return
	}

	classes, err = tablequery.Classes(all, tablequery.Options{
		Search: query.Search,
		Filter: query.Day,
		Sort:   query.Sort,
	})
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("dia", msgInvalidDayQuery)
		err = vErr
	}
	return
}

// Get returns a single class.
func (s *ClassService) Get(ctx context.Context, id int64) (schedule.ClassRecord, error) {
	if s == nil || s.classes == nil {
		return schedule.ClassRecord{}, fmt.Errorf("class repository not configured")
	}
	class, err := s.classes.GetClass(ctx, id)
	if err != nil {
		err = mapReadError(err)
		s.loggerWith(ctx, "Get", "class_id", id).ErrorContext(ctx, "failed to get class", "error", err, "error_kind", ErrorKind(err))
		return schedule.ClassRecord{}, err
	}
	return class, nil
}

// Create validates input and stores a new class.
func (s *ClassService) Create(ctx context.Context, input ClassInput) (class schedule.ClassRecord, err error) {
	if s == nil || s.classes == nil {
		err = fmt.Errorf("class repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Create", "subject", input.Subject)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create class", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("class_id", class.ID).InfoContext(ctx, "class created")
	}()

	record, vErr := buildClass(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	record.ID, err = s.classes.AddClass(ctx, record)
	if err != nil {
		err = mapWriteError("write", err, "horario2")
		return
	}

	class = record
	s.notifier.CollectionChanged(ctx, Change{Collection: CollectionClasses, Action: ActionCreated, ID: class.ID, Count: 1})
	return
}

// Update validates input and replaces the class with id.
func (s *ClassService) Update(ctx context.Context, id int64, input ClassInput) (class schedule.ClassRecord, err error) {
	if s == nil || s.classes == nil {
		err = fmt.Errorf("class repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Update", "class_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update class", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "class updated")
	}()

	record, vErr := buildClass(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	record.ID = id

	if err = s.classes.PutClass(ctx, record); err != nil {
		err = mapWriteError("write", err, "horario2")
		return
	}

	class = record
	s.notifier.CollectionChanged(ctx, Change{Collection: CollectionClasses, Action: ActionUpdated, ID: id, Count: 1})
	return
}

// Delete removes the class with id.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if s == nil || s.classes == nil {
		return fmt.Errorf("class repository not configured")
	}

	logger := s.loggerWith(ctx, "Delete", "class_id", id)
	if err := s.classes.DeleteClass(ctx, id); err != nil {
		err = mapWriteError("delete", err, "")
		logger.ErrorContext(ctx, "failed to delete class", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "class deleted")
	s.notifier.CollectionChanged(ctx, Change{Collection: CollectionClasses, Action: ActionDeleted, ID: id, Count: 1})
	return nil
}

// Reset removes every class.
func (s *ClassService) Reset(ctx context.Context) error {
	if s == nil || s.classes == nil {
		return fmt.Errorf("class repository not configured")
	}

	logger := s.loggerWith(ctx, "Reset")
	if err := s.classes.ClearClasses(ctx); err != nil {
		err = mapWriteError("clear", err, "")
		logger.ErrorContext(ctx, "failed to clear classes", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.WarnContext(ctx, "classes cleared")
	s.notifier.CollectionChanged(ctx, Change{Collection: CollectionClasses, Action: ActionReset})
	return nil
}

// mapReadError converts a failed store read.
func mapReadError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// mapWriteError converts a failed store write. A constraint violation can
// only come from an inverted time range slipping past validation, so it is
// reported on endField.
func mapWriteError(op string, err error, endField string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrConstraintViolation) && endField != "" {
		vErr := &ValidationError{}
		vErr.add(endField, msgEndBeforeStart)
		return vErr
	}
	return &StoreError{Op: op, Err: err}
}
