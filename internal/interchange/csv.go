package interchange

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/weekday"
)

const csvSeparator = ';'

func newCSVWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = csvSeparator
	return cw
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := newCSVWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("interchange: write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("interchange: write csv: %w", err)
	}
	return nil
}

func classRow(c schedule.ClassRecord) []string {
	return []string{
		strconv.FormatInt(c.ID, 10),
		c.Building,
		c.Floor,
		c.Room,
		c.Subject,
		c.Group,
		c.Instructor,
		c.Start,
		c.End,
		string(c.Shift),
		string(c.Weekday),
		formatBool(c.RoomOpen),
		c.Priority,
	}
}

func eventRow(e schedule.EventRecord) []string {
	return []string{
		strconv.FormatInt(e.ID, 10),
		e.Title,
		e.Location,
		e.Date,
		e.Start,
		e.End,
		string(e.Shift),
	}
}

// csvRow gives access to a data row by header name.
type csvRow struct {
	columns map[string]int
	values  []string
}

func (r csvRow) get(name string) string {
	idx, ok := r.columns[strings.ToLower(name)]
	if !ok || idx >= len(r.values) {
		return ""
	}
	return r.values[idx]
}

// readCSV reads the header row and calls parse for each data row.
func readCSV[T any](r io.Reader, parse func(csvRow) (T, error)) ([]Entry[T], error) {
	cr := csv.NewReader(r)
	cr.Comma = csvSeparator
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("interchange: read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var entries []Entry[T]
	for index := 1; ; index++ {
		values, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entries, fmt.Errorf("interchange: read csv row %d: %w", index, err)
		}
		if blankRow(values) {
			index--
			continue
		}

		entry := Entry[T]{Index: index}
		entry.Record, entry.Err = parse(csvRow{columns: columns, values: values})
		if entry.Err != nil {
			entry.Err = fmt.Errorf("record %d: %w", index, entry.Err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func blankRow(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseClassRow(row csvRow) (schedule.ClassRecord, error) {
	open, err := parseBool(row.get("salaAberta"))
	if err != nil {
		return schedule.ClassRecord{}, err
	}
	return schedule.ClassRecord{
		Building:   row.get("bloco"),
		Floor:      row.get("andar"),
		Room:       row.get("sala"),
		Subject:    row.get("disciplina"),
		Group:      row.get("turmas"),
		Instructor: row.get("professor"),
		Start:      row.get("horario1"),
		End:        row.get("horario2"),
		Shift:      schedule.Shift(row.get("turno")),
		Weekday:    weekday.Day(row.get("diaSemana")),
		RoomOpen:   open,
		Priority:   row.get("prioridade"),
	}, nil
}

func parseEventRow(row csvRow) (schedule.EventRecord, error) {
	return schedule.EventRecord{
		Title:    row.get("titulo"),
		Location: row.get("local"),
		Date:     row.get("data"),
		Start:    row.get("horarioInicio"),
		End:      row.get("horarioFim"),
		Shift:    schedule.Shift(row.get("turno")),
	}, nil
}
