package tablequery

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/weekday"
)

var classFields = map[string]func(schedule.ClassRecord) string{
	"bloco":      func(c schedule.ClassRecord) string { return c.Building },
	"andar":      func(c schedule.ClassRecord) string { return c.Floor },
	"sala":       func(c schedule.ClassRecord) string { return c.Room },
	"disciplina": func(c schedule.ClassRecord) string { return c.Subject },
	"turmas":     func(c schedule.ClassRecord) string { return c.Group },
	"professor":  func(c schedule.ClassRecord) string { return c.Instructor },
	"horario1":   func(c schedule.ClassRecord) string { return c.Start },
	"horario2":   func(c schedule.ClassRecord) string { return c.End },
	"turno":      func(c schedule.ClassRecord) string { return string(c.Shift) },
	"diaSemana":  func(c schedule.ClassRecord) string { return string(c.Weekday) },
	"salaAberta": func(c schedule.ClassRecord) string { return strconv.FormatBool(c.RoomOpen) },
	"prioridade": func(c schedule.ClassRecord) string { return c.Priority },
}

func classComparator(key string) comparator[schedule.ClassRecord] {
	switch key {
	case "bloco":
		return func(a, b schedule.ClassRecord) int {
			return strings.Compare(fold(a.Location()), fold(b.Location()))
		}
	case "diaSemana":
		return func(a, b schedule.ClassRecord) int {
			return cmp.Compare(a.Weekday.Position(), b.Weekday.Position())
		}
	case "horario1", "horario2":
		field := classFields[key]
		return func(a, b schedule.ClassRecord) int {
			return strings.Compare(field(a), field(b))
		}
	}
	field, ok := classFields[key]
	if !ok {
		return func(schedule.ClassRecord, schedule.ClassRecord) int { return 0 }
	}
	return func(a, b schedule.ClassRecord) int {
		return strings.Compare(fold(field(a)), fold(field(b)))
	}
}

// Classes filters and sorts class records for the admin table. The filter is
// "todos", empty, or a weekday token. Without a sort key the store order is
// kept.
func Classes(records []schedule.ClassRecord, opts Options) ([]schedule.ClassRecord, error) {
	var day weekday.Day
	if filter := strings.TrimSpace(opts.Filter); filter != "" && !strings.EqualFold(filter, schedule.FilterAll) {
		normalized, err := weekday.Normalize(filter)
		if err != nil {
			return nil, fmt.Errorf("tablequery: class filter: %w", err)
		}
		day = normalized
	}

	term := fold(strings.TrimSpace(opts.Search))
	out := make([]schedule.ClassRecord, 0, len(records))
	for _, rec := range records {
		if day != "" && rec.Weekday != day {
			continue
		}
		if term != "" && !containsFolded(rec.Subject, term) && !containsFolded(rec.Room, term) && !containsFolded(rec.Instructor, term) {
			continue
		}
		out = append(out, rec)
	}

	if opts.Sort.Key != "" {
		slices.SortStableFunc(out, directed(classComparator(opts.Sort.Key), opts.Sort.Direction))
	}
	return out, nil
}
