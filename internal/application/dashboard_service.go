package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/schedule-dashboard/internal/persistence"
	"github.com/example/schedule-dashboard/internal/schedule"
)

const (
	noticeClassesLoadFailed = "Não foi possível carregar as aulas."
	noticeEventsLoadFailed  = "Não foi possível carregar os eventos."
	noticeEmpty             = "Nenhuma aula ou evento encontrado para os filtros selecionados."
)

// DashboardService assembles the public dashboard from both stores.
type DashboardService struct {
	classes persistence.ClassRepository
	events  persistence.EventRepository
	now     func() time.Time
	logger  *slog.Logger
}

// NewDashboardService constructs a dashboard service with the provided dependencies.
func NewDashboardService(classes persistence.ClassRepository, events persistence.EventRepository, now func() time.Time) *DashboardService {
	return NewDashboardServiceWithLogger(classes, events, now, nil)
}

// NewDashboardServiceWithLogger constructs a dashboard service with a specified logger.
func NewDashboardServiceWithLogger(classes persistence.ClassRepository, events persistence.EventRepository, now func() time.Time, logger *slog.Logger) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{classes: classes, events: events, now: now, logger: defaultLogger(logger)}
}

func (s *DashboardService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DashboardService", operation, attrs...)
}

// ParseDashboardQuery validates the raw filters. An empty day means "auto"
// and an empty shift means "todos".
func ParseDashboardQuery(query DashboardQuery) (schedule.ShiftFilter, schedule.DayFilter, error) {
	vErr := &ValidationError{}

	shift, err := schedule.ParseShiftFilter(query.Shift)
	if err != nil {
		vErr.add("turno", msgUnknownShift)
	}

	dayToken := strings.TrimSpace(query.Day)
	if dayToken == "" {
		dayToken = schedule.FilterAuto
	}
	day, err := schedule.ParseDayFilter(dayToken)
	if err != nil {
		vErr.add("dia", msgInvalidDayQuery)
	}

	if vErr.HasErrors() {
		return schedule.ShiftFilter{}, schedule.DayFilter{}, vErr
	}
	return shift, day, nil
}

// Dashboard returns the items matching query. A store that cannot be read
// contributes no items and an error notice instead of failing the view.
func (s *DashboardService) Dashboard(ctx context.Context, query DashboardQuery) (view DashboardView, err error) {
	if s == nil {
		err = fmt.Errorf("DashboardService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Dashboard", "shift", query.Shift, "day", query.Day)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build dashboard", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(view.Items)).DebugContext(ctx, "dashboard built")
	}()

	view.Shift, view.Day, err = ParseDashboardQuery(query)
	if err != nil {
		return
	}
	view.GeneratedAt = s.now()

	loaded := s.load(ctx)
	for _, failure := range loaded.failures {
		logger.WarnContext(ctx, "dashboard degraded", "collection", failure.collection, "error", failure.err, "error_kind", ErrorKind(failure.err))
		view.Notices = append(view.Notices, errorNotice(failure.message))
	}

	view.Items = schedule.Select(loaded.items(), view.Shift, view.Day, view.GeneratedAt)
	if len(view.Items) == 0 && len(loaded.failures) == 0 {
		view.Notices = append(view.Notices, Notice{Severity: SeverityInfo, Message: noticeEmpty})
	}
	return
}

// NextItem returns today's earliest item that has not started yet. Unlike
// Dashboard it fails when either store cannot be read.
func (s *DashboardService) NextItem(ctx context.Context) (schedule.Item, bool, error) {
	if s == nil {
		return schedule.Item{}, false, fmt.Errorf("DashboardService is nil")
	}
	loaded := s.load(ctx)
	if len(loaded.failures) > 0 {
		err := loaded.failures[0].err
		s.loggerWith(ctx, "NextItem").ErrorContext(ctx, "failed to load items", "error", err, "error_kind", ErrorKind(err))
		return schedule.Item{}, false, err
	}
	item, ok := schedule.NextUpcoming(loaded.items(), s.now())
	return item, ok, nil
}

type loadFailure struct {
	collection Collection
	message    string
	err        error
}

type loadResult struct {
	classes  []schedule.ClassRecord
	events   []schedule.EventRecord
	failures []loadFailure
}

func (r loadResult) items() []schedule.Item {
	return schedule.Unify(r.classes, r.events)
}

// load reads both stores independently; a failed read leaves its collection
// empty and is recorded in failures.
func (s *DashboardService) load(ctx context.Context) loadResult {
	var out loadResult
	if s.classes != nil {
		classes, err := s.classes.ListClasses(ctx)
		if err != nil {
			out.failures = append(out.failures, loadFailure{CollectionClasses, noticeClassesLoadFailed, mapReadError(err)})
		} else {
			out.classes = classes
		}
	}
	if s.events != nil {
		events, err := s.events.ListEvents(ctx)
		if err != nil {
			out.failures = append(out.failures, loadFailure{CollectionEvents, noticeEventsLoadFailed, mapReadError(err)})
		} else {
			out.events = events
		}
	}
	return out
}
