package schedule

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/example/schedule-dashboard/internal/weekday"
)

const (
	// FilterAuto selects today's remaining items.
	FilterAuto = "auto"
	// FilterAll leaves a dimension unconstrained.
	FilterAll = "todos"
)

// ErrInvalidFilter is returned by the filter parsers.
var ErrInvalidFilter = errors.New("schedule: invalid filter")

type dayMode int

const (
	dayAuto dayMode = iota
	dayAll
	dayExact
)

// DayFilter constrains items by their derived weekday.
type DayFilter struct {
	mode dayMode
	day  weekday.Day
}

// Today keeps only items on the current day that have not started yet.
func Today() DayFilter { return DayFilter{mode: dayAuto} }

// AnyDay leaves the day unconstrained.
func AnyDay() DayFilter { return DayFilter{mode: dayAll} }

// OnDay keeps only items on d.
func OnDay(d weekday.Day) DayFilter { return DayFilter{mode: dayExact, day: d} }

// ParseDayFilter reads "auto", "todos" or any token weekday.Normalize accepts.
func ParseDayFilter(token string) (DayFilter, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case FilterAuto:
		return Today(), nil
	case FilterAll:
		return AnyDay(), nil
	}
	day, err := weekday.Normalize(token)
	if err != nil {
		return DayFilter{}, fmt.Errorf("%w: day: %w", ErrInvalidFilter, err)
	}
	return OnDay(day), nil
}

func (f DayFilter) String() string {
	switch f.mode {
	case dayAll:
		return FilterAll
	case dayExact:
		return string(f.day)
	default:
		return FilterAuto
	}
}

// ShiftFilter constrains items by shift. The zero value matches every shift.
type ShiftFilter struct {
	shift Shift
}

// AnyShift matches every shift.
func AnyShift() ShiftFilter { return ShiftFilter{} }

// OnShift matches exactly s.
func OnShift(s Shift) ShiftFilter { return ShiftFilter{shift: s} }

// ParseShiftFilter reads "todos" or a shift token.
func ParseShiftFilter(token string) (ShiftFilter, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" || strings.EqualFold(trimmed, FilterAll) {
		return AnyShift(), nil
	}
	shift, err := ParseShift(trimmed)
	if err != nil {
		return ShiftFilter{}, fmt.Errorf("%w: shift: %w", ErrInvalidFilter, err)
	}
	return OnShift(shift), nil
}

func (f ShiftFilter) String() string {
	if f.shift == "" {
		return FilterAll
	}
	return string(f.shift)
}

func (f ShiftFilter) matches(item Item) bool {
	return f.shift == "" || item.Shift == f.shift
}

// Select returns the items passing both filters, ordered by start time.
// Items with equal start times keep their input order. The input slice is
// not modified.
func Select(items []Item, shift ShiftFilter, day DayFilter, now time.Time) []Item {
	today := weekday.FromTime(now)
	clock := ClockOf(now)

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if !shift.matches(item) {
			continue
		}
		switch day.mode {
		case dayAuto:
			if item.Day != today || item.Start < clock {
				continue
			}
		case dayExact:
			if item.Day != day.day {
				continue
			}
		}
		out = append(out, item)
	}

	slices.SortStableFunc(out, func(a, b Item) int {
		return strings.Compare(a.Start, b.Start)
	})
	return out
}

// NextUpcoming returns the earliest item today that starts at or after now.
func NextUpcoming(items []Item, now time.Time) (Item, bool) {
	upcoming := Select(items, AnyShift(), Today(), now)
	if len(upcoming) == 0 {
		return Item{}, false
	}
	return upcoming[0], true
}
