package schedule

import (
	"strings"
	"time"

	"github.com/example/schedule-dashboard/internal/weekday"
)

// Kind distinguishes the record an Item was built from.
type Kind string

const (
	KindClass Kind = "class"
	KindEvent Kind = "event"
)

// Item is the display-time view over a class or an event. Exactly one of
// Class and Event is set, matching Kind.
type Item struct {
	Kind    Kind
	Class   *ClassRecord
	Event   *EventRecord
	Day     weekday.Day
	Start   string
	End     string
	Shift   Shift
	SortKey string
}

// DisplayTime renders "start-end", or just the start for single-time items.
func (i Item) DisplayTime() string {
	if i.End == "" {
		return i.Start
	}
	return i.Start + "-" + i.End
}

// Unify turns classes and events into items, classes first, each group in
// the order given. Nothing is dropped or merged.
func Unify(classes []ClassRecord, events []EventRecord) []Item {
	items := make([]Item, 0, len(classes)+len(events))
	for _, class := range classes {
		rec := class
		day := weekday.Day(strings.ToLower(string(rec.Weekday)))
		items = append(items, Item{
			Kind:    KindClass,
			Class:   &rec,
			Day:     day,
			Start:   rec.Start,
			End:     rec.End,
			Shift:   rec.Shift,
			SortKey: sortKey(day, rec.Start),
		})
	}
	for _, event := range events {
		rec := event
		day := EventDay(rec.Date)
		items = append(items, Item{
			Kind:    KindEvent,
			Event:   &rec,
			Day:     day,
			Start:   rec.Start,
			End:     rec.End,
			Shift:   rec.Shift,
			SortKey: sortKey(day, rec.Start),
		})
	}
	return items
}

// EventDay returns the weekday of an ISO calendar date, or "" when the date
// does not parse.
func EventDay(date string) weekday.Day {
	t, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return ""
	}
	return weekday.FromTime(t)
}

func sortKey(day weekday.Day, start string) string {
	return string(day) + "-" + start
}
