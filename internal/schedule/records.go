// Package schedule holds the class and event records shown on the dashboard
// and the pipeline that merges, filters and orders them for display.
package schedule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/schedule-dashboard/internal/weekday"
)

// ErrUnknownShift is returned when a shift token is not part of the enumeration.
var ErrUnknownShift = errors.New("schedule: unknown shift")

// Shift is the period of the day an item belongs to.
type Shift string

const (
	ShiftMorning   Shift = "manhã"
	ShiftAfternoon Shift = "tarde"
	ShiftEvening   Shift = "noite"
)

// ParseShift accepts the Portuguese tokens, with or without accent, and
// their English equivalents.
func ParseShift(value string) (Shift, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "manhã", "manha", "morning":
		return ShiftMorning, nil
	case "tarde", "afternoon":
		return ShiftAfternoon, nil
	case "noite", "evening", "night":
		return ShiftEvening, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownShift, value)
	}
}

// ClassRecord is a recurring weekly class.
type ClassRecord struct {
	ID         int64
	Building   string
	Floor      string
	Room       string
	Subject    string
	Group      string
	Instructor string
	Start      string
	End        string
	Shift      Shift
	Weekday    weekday.Day
	RoomOpen   bool
	Priority   string
}

// Location concatenates building, floor and room.
func (c ClassRecord) Location() string {
	return c.Building + c.Floor + c.Room
}

// EventRecord is a one-off event on a calendar date.
type EventRecord struct {
	ID       int64
	Title    string
	Location string
	Date     string
	Start    string
	End      string
	Shift    Shift
}
