package application

import (
	"context"
	"errors"
	"sync"

	"github.com/example/schedule-dashboard/internal/persistence"
	"github.com/example/schedule-dashboard/internal/schedule"
)

var errStoreDown = errors.New("disk on fire")

type classRepoStub struct {
	mu      sync.Mutex
	nextID  int64
	records []schedule.ClassRecord

	listErr  error
	addErr   error
	putErr   error
	clearErr error
}

func newClassRepoStub(records ...schedule.ClassRecord) *classRepoStub {
	s := &classRepoStub{}
	for _, r := range records {
		s.nextID++
		r.ID = s.nextID
		s.records = append(s.records, r)
	}
	return s
}

func (s *classRepoStub) ListClasses(context.Context) ([]schedule.ClassRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]schedule.ClassRecord(nil), s.records...), nil
}

func (s *classRepoStub) GetClass(_ context.Context, id int64) (schedule.ClassRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return schedule.ClassRecord{}, persistence.ErrNotFound
}

func (s *classRepoStub) AddClass(_ context.Context, c schedule.ClassRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return 0, s.addErr
	}
	s.nextID++
	c.ID = s.nextID
	s.records = append(s.records, c)
	return c.ID, nil
}

func (s *classRepoStub) PutClass(_ context.Context, c schedule.ClassRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	for i, r := range s.records {
		if r.ID == c.ID {
			s.records[i] = c
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *classRepoStub) DeleteClass(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *classRepoStub) ClearClasses(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearErr != nil {
		return s.clearErr
	}
	s.records = nil
	return nil
}

type eventRepoStub struct {
	mu      sync.Mutex
	nextID  int64
	records []schedule.EventRecord

	listErr error
}

func newEventRepoStub(records ...schedule.EventRecord) *eventRepoStub {
	s := &eventRepoStub{}
	for _, r := range records {
		s.nextID++
		r.ID = s.nextID
		s.records = append(s.records, r)
	}
	return s
}

func (s *eventRepoStub) ListEvents(context.Context) ([]schedule.EventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]schedule.EventRecord(nil), s.records...), nil
}

func (s *eventRepoStub) GetEvent(_ context.Context, id int64) (schedule.EventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return schedule.EventRecord{}, persistence.ErrNotFound
}

func (s *eventRepoStub) AddEvent(_ context.Context, e schedule.EventRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	s.records = append(s.records, e)
	return e.ID, nil
}

func (s *eventRepoStub) PutEvent(_ context.Context, e schedule.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == e.ID {
			s.records[i] = e
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *eventRepoStub) DeleteEvent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *eventRepoStub) ClearEvents(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

type notifierStub struct {
	mu      sync.Mutex
	changes []Change
}

func (n *notifierStub) CollectionChanged(_ context.Context, change Change) {
	n.mu.Lock()
	n.changes = append(n.changes, change)
	n.mu.Unlock()
}

func (n *notifierStub) recorded() []Change {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Change(nil), n.changes...)
}

func validClassInput() ClassInput {
	return ClassInput{
		Building:   "A",
		Floor:      "1",
		Room:       "101",
		Subject:    "Física",
		Group:      "T1",
		Instructor: "Ana",
		Start:      "08:00",
		End:        "09:40",
		Shift:      "manhã",
		Weekday:    "segunda",
		RoomOpen:   true,
	}
}

func validEventInput() EventInput {
	return EventInput{
		Title:    "Palestra",
		Location: "Auditório",
		Date:     "2025-03-04",
		Start:    "19:00",
		End:      "21:00",
		Shift:    "noite",
	}
}
