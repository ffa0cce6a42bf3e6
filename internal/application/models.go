package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/tablequery"
)

// DefaultPriority is stored when a class is saved without a priority.
const DefaultPriority = "Média"

// Collection names one of the two record stores.
type Collection string

const (
	CollectionClasses Collection = "classes"
	CollectionEvents  Collection = "events"
)

// ParseCollection accepts "classes" or "events".
func ParseCollection(raw string) (Collection, error) {
	switch c := Collection(strings.ToLower(strings.TrimSpace(raw))); c {
	case CollectionClasses, CollectionEvents:
		return c, nil
	default:
		return "", fmt.Errorf("unknown collection %q", raw)
	}
}

// Principal is the admin identity carried by a valid session.
type Principal struct {
	Username  string
	SessionID string
	ExpiresAt time.Time
}

// ClassInput captures caller provided class fields. Field tags carry the
// names reported in ValidationError.
type ClassInput struct {
	Building   string `field:"bloco"`
	Floor      string `field:"andar"`
	Room       string `field:"sala"`
	Subject    string `field:"disciplina" validate:"required"`
	Group      string `field:"turmas"`
	Instructor string `field:"professor"`
	Start      string `field:"horario1" validate:"required,clock"`
	End        string `field:"horario2" validate:"omitempty,clock"`
	Shift      string `field:"turno" validate:"required"`
	Weekday    string `field:"diaSemana" validate:"required"`
	RoomOpen   bool   `field:"salaAberta"`
	Priority   string `field:"prioridade"`
}

// ClassInputFromRecord turns a decoded record back into input so that it
// goes through the same validation as a form submission.
func ClassInputFromRecord(c schedule.ClassRecord) ClassInput {
	return ClassInput{
		Building:   c.Building,
		Floor:      c.Floor,
		Room:       c.Room,
		Subject:    c.Subject,
		Group:      c.Group,
		Instructor: c.Instructor,
		Start:      c.Start,
		End:        c.End,
		Shift:      string(c.Shift),
		Weekday:    string(c.Weekday),
		RoomOpen:   c.RoomOpen,
		Priority:   c.Priority,
	}
}

// EventInput captures caller provided event fields.
type EventInput struct {
	Title    string `field:"titulo" validate:"required"`
	Location string `field:"local"`
	Date     string `field:"data" validate:"required"`
	Start    string `field:"horarioInicio" validate:"required,clock"`
	End      string `field:"horarioFim" validate:"omitempty,clock"`
	Shift    string `field:"turno" validate:"required"`
}

// EventInputFromRecord is the event counterpart of ClassInputFromRecord.
func EventInputFromRecord(e schedule.EventRecord) EventInput {
	return EventInput{
		Title:    e.Title,
		Location: e.Location,
		Date:     e.Date,
		Start:    e.Start,
		End:      e.End,
		Shift:    string(e.Shift),
	}
}

// ClassListQuery describes an admin table request for classes.
type ClassListQuery struct {
	Search string
	// Day is a weekday token, "todos" or empty.
	Day  string
	Sort tablequery.SortState
}

// EventListQuery describes an admin table request for events.
type EventListQuery struct {
	Search string
	// Date is an exact YYYY-MM-DD date or empty.
	Date string
	Sort tablequery.SortState
}

// DashboardQuery carries the raw dashboard filters.
type DashboardQuery struct {
	Shift string
	Day   string
}

// DashboardView is what the dashboard renders.
type DashboardView struct {
	Items       []schedule.Item
	Notices     []Notice
	Shift       schedule.ShiftFilter
	Day         schedule.DayFilter
	GeneratedAt time.Time
}
