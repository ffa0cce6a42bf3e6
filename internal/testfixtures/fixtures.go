package testfixtures

import (
	"fmt"
	"sync/atomic"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/weekday"
)

var (
	classCounter uint64
	eventCounter uint64
)

// ----------------------------- Class fixtures -----------------------------

// ClassFixture is a deterministic class that can be materialised as a
// record or as service input.
type ClassFixture struct {
	Building   string
	Floor      string
	Room       string
	Subject    string
	Group      string
	Instructor string
	Start      string
	End        string
	Shift      schedule.Shift
	Weekday    weekday.Day
	RoomOpen   bool
	Priority   string
}

// ClassOption configures the generated class fixture.
type ClassOption func(*ClassFixture)

// NewClassFixture returns a Tuesday morning class. Subjects and rooms are
// numbered so fixtures stay distinguishable.
func NewClassFixture(opts ...ClassOption) ClassFixture {
	idx := atomic.AddUint64(&classCounter, 1)
	fixture := ClassFixture{
		Building:   "B",
		Floor:      "1",
		Room:       fmt.Sprintf("%02d", idx%100),
		Subject:    fmt.Sprintf("Disciplina %03d", idx),
		Group:      "T1",
		Instructor: fmt.Sprintf("Professor %03d", idx),
		Start:      "10:00",
		End:        "11:40",
		Shift:      schedule.ShiftMorning,
		Weekday:    weekday.Tuesday,
		Priority:   application.DefaultPriority,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithClassSubject overrides the subject.
func WithClassSubject(subject string) ClassOption {
	return func(f *ClassFixture) { f.Subject = subject }
}

// WithClassTimes overrides start and end.
func WithClassTimes(start, end string) ClassOption {
	return func(f *ClassFixture) {
		f.Start = start
		f.End = end
	}
}

// WithClassShift overrides the shift.
func WithClassShift(shift schedule.Shift) ClassOption {
	return func(f *ClassFixture) { f.Shift = shift }
}

// WithClassWeekday overrides the weekday.
func WithClassWeekday(day weekday.Day) ClassOption {
	return func(f *ClassFixture) { f.Weekday = day }
}

// WithClassRoom overrides building, floor and room.
func WithClassRoom(building, floor, room string) ClassOption {
	return func(f *ClassFixture) {
		f.Building = building
		f.Floor = floor
		f.Room = room
	}
}

// WithClassRoomOpen marks the room open.
func WithClassRoomOpen() ClassOption {
	return func(f *ClassFixture) { f.RoomOpen = true }
}

// Record returns the fixture as a store record without an id.
func (f ClassFixture) Record() schedule.ClassRecord {
	return schedule.ClassRecord{
		Building:   f.Building,
		Floor:      f.Floor,
		Room:       f.Room,
		Subject:    f.Subject,
		Group:      f.Group,
		Instructor: f.Instructor,
		Start:      f.Start,
		End:        f.End,
		Shift:      f.Shift,
		Weekday:    f.Weekday,
		RoomOpen:   f.RoomOpen,
		Priority:   f.Priority,
	}
}

// Input returns the fixture as service input.
func (f ClassFixture) Input() application.ClassInput {
	return application.ClassInputFromRecord(f.Record())
}

// ----------------------------- Event fixtures -----------------------------

// EventFixture is a deterministic event.
type EventFixture struct {
	Title    string
	Location string
	Date     string
	Start    string
	End      string
	Shift    schedule.Shift
}

// EventOption configures the generated event fixture.
type EventOption func(*EventFixture)

// NewEventFixture returns an afternoon event on the reference date.
func NewEventFixture(opts ...EventOption) EventFixture {
	idx := atomic.AddUint64(&eventCounter, 1)
	fixture := EventFixture{
		Title:    fmt.Sprintf("Evento %03d", idx),
		Location: "Auditório",
		Date:     ReferenceTime().Format("2006-01-02"),
		Start:    "14:00",
		End:      "16:00",
		Shift:    schedule.ShiftAfternoon,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEventTitle overrides the title.
func WithEventTitle(title string) EventOption {
	return func(f *EventFixture) { f.Title = title }
}

// WithEventDate overrides the date.
func WithEventDate(date string) EventOption {
	return func(f *EventFixture) { f.Date = date }
}

// WithEventTimes overrides start and end.
func WithEventTimes(start, end string) EventOption {
	return func(f *EventFixture) {
		f.Start = start
		f.End = end
	}
}

// WithEventShift overrides the shift.
func WithEventShift(shift schedule.Shift) EventOption {
	return func(f *EventFixture) { f.Shift = shift }
}

// Record returns the fixture as a store record without an id.
func (f EventFixture) Record() schedule.EventRecord {
	return schedule.EventRecord{
		Title:    f.Title,
		Location: f.Location,
		Date:     f.Date,
		Start:    f.Start,
		End:      f.End,
		Shift:    f.Shift,
	}
}

// Input returns the fixture as service input.
func (f EventFixture) Input() application.EventInput {
	return application.EventInputFromRecord(f.Record())
}
