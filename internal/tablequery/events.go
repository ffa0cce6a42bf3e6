package tablequery

import (
	"slices"
	"strings"
	"time"

	"github.com/example/schedule-dashboard/internal/schedule"
)

const (
	defaultEventDate  = "2000-01-01"
	defaultEventStart = "00:00"
)

var eventFields = map[string]func(schedule.EventRecord) string{
	"titulo":        func(e schedule.EventRecord) string { return e.Title },
	"local":         func(e schedule.EventRecord) string { return e.Location },
	"data":          func(e schedule.EventRecord) string { return e.Date },
	"horarioInicio": func(e schedule.EventRecord) string { return e.Start },
	"horarioFim":    func(e schedule.EventRecord) string { return e.End },
	"turno":         func(e schedule.EventRecord) string { return string(e.Shift) },
}

// eventInstant combines date and start time, defaulting missing parts.
// Unparseable values collapse to the zero time.
func eventInstant(e schedule.EventRecord) time.Time {
	date := e.Date
	if date == "" {
		date = defaultEventDate
	}
	start := e.Start
	if start == "" {
		start = defaultEventStart
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", date+"T"+start, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func chronological(a, b schedule.EventRecord) int {
	return eventInstant(a).Compare(eventInstant(b))
}

func eventComparator(key string) comparator[schedule.EventRecord] {
	switch key {
	case "data":
		return chronological
	case "horarioInicio", "horarioFim":
		field := eventFields[key]
		return func(a, b schedule.EventRecord) int {
			return strings.Compare(field(a), field(b))
		}
	}
	field, ok := eventFields[key]
	if !ok {
		return func(schedule.EventRecord, schedule.EventRecord) int { return 0 }
	}
	return func(a, b schedule.EventRecord) int {
		return strings.Compare(fold(field(a)), fold(field(b)))
	}
}

// Events filters and sorts event records for the admin table. The filter is
// an exact "YYYY-MM-DD" date or empty. Without a sort key events are ordered
// chronologically.
func Events(records []schedule.EventRecord, opts Options) []schedule.EventRecord {
	date := strings.TrimSpace(opts.Filter)
	term := fold(strings.TrimSpace(opts.Search))

	out := make([]schedule.EventRecord, 0, len(records))
	for _, rec := range records {
		if date != "" && rec.Date != date {
			continue
		}
		if term != "" && !containsFolded(rec.Title, term) && !containsFolded(rec.Location, term) {
			continue
		}
		out = append(out, rec)
	}

	if opts.Sort.Key == "" {
		slices.SortStableFunc(out, chronological)
		return out
	}
	slices.SortStableFunc(out, directed(eventComparator(opts.Sort.Key), opts.Sort.Direction))
	return out
}
