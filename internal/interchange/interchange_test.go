package interchange

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/weekday"
)

func sampleClasses() []schedule.ClassRecord {
	return []schedule.ClassRecord{
		{ID: 1, Building: "A", Floor: "1", Room: "101", Subject: "Física; Teórica", Group: "T1", Instructor: "Ana \"Prof\" Lima", Start: "08:00", End: "09:40", Shift: schedule.ShiftMorning, Weekday: weekday.Monday, RoomOpen: true, Priority: "Alta"},
		{ID: 2, Building: "B", Floor: "2", Room: "205", Subject: "Álgebra", Group: "T2", Instructor: "Bruno", Start: "19:00", Shift: schedule.ShiftEvening, Weekday: weekday.Saturday, RoomOpen: false, Priority: "Média"},
	}
}

func withoutIDs(classes []schedule.ClassRecord) []schedule.ClassRecord {
	out := make([]schedule.ClassRecord, len(classes))
	for i, c := range classes {
		c.ID = 0
		out[i] = c
	}
	return out
}

func TestClassesCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeClasses(&buf, FormatCSV, sampleClasses()); err != nil {
		t.Fatalf("EncodeClasses: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "id;bloco;andar;sala;disciplina;turmas;professor;horario1;horario2;turno;diaSemana;salaAberta;prioridade" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], `"Física; Teórica"`) {
		t.Fatalf("value containing the separator must be quoted: %q", lines[1])
	}
	if !strings.Contains(lines[1], `"Ana ""Prof"" Lima"`) {
		t.Fatalf("quotes must be doubled: %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], ";Sim;Alta") || !strings.HasSuffix(lines[2], ";Não;Média") {
		t.Fatalf("booleans must be written as Sim/Não: %q / %q", lines[1], lines[2])
	}

	entries, err := DecodeClasses(&buf, FormatCSV)
	if err != nil {
		t.Fatalf("DecodeClasses: %v", err)
	}
	want := withoutIDs(sampleClasses())
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.Err != nil {
			t.Fatalf("entry %d: %v", i, e.Err)
		}
		if e.Index != i+1 {
			t.Errorf("entry %d: index %d", i, e.Index)
		}
		if e.Record != want[i] {
			t.Errorf("entry %d:\n got %+v\nwant %+v", i, e.Record, want[i])
		}
	}
}

func TestEventsCSVRoundTrip(t *testing.T) {
	events := []schedule.EventRecord{
		{ID: 9, Title: "Semana\nAcadêmica", Location: "Auditório", Date: "2025-03-04", Start: "19:00", End: "21:00", Shift: schedule.ShiftEvening},
	}
	var buf bytes.Buffer
	if err := EncodeEvents(&buf, FormatCSV, events); err != nil {
		t.Fatalf("EncodeEvents: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "id;titulo;local;data;horarioInicio;horarioFim;turno\n") {
		t.Fatalf("unexpected header in %q", buf.String())
	}

	entries, err := DecodeEvents(&buf, FormatCSV)
	if err != nil {
		t.Fatalf("DecodeEvents: %v", err)
	}
	want := events[0]
	want.ID = 0
	if len(entries) != 1 || entries[0].Record != want {
		t.Fatalf("round trip mismatch: %+v", entries)
	}
}

func TestDecodeClassesCSVMapsColumnsByName(t *testing.T) {
	input := "\ufeffdisciplina;diaSemana;horario1;turno;salaAberta\n" +
		"Química;Segunda;10:00;manhã;true\n" +
		";;;;\n" +
		"Biologia;terça;14:00;tarde;talvez\n"

	entries, err := DecodeClasses(strings.NewReader(input), FormatCSV)
	if err != nil {
		t.Fatalf("DecodeClasses: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Err != nil || first.Record.Subject != "Química" || first.Record.Weekday != "Segunda" || !first.Record.RoomOpen {
		t.Fatalf("unexpected first entry %+v", first)
	}
	if entries[1].Err == nil {
		t.Fatalf("expected an error for an invalid boolean")
	}
	if entries[1].Index != 2 {
		t.Fatalf("expected blank rows to be skipped, got index %d", entries[1].Index)
	}
}

func TestDecodeClassesJSON(t *testing.T) {
	input := `[
		{"id": 77, "disciplina": "Física", "horario1": "08:00", "turno": "manhã", "diaSemana": "Monday", "salaAberta": "Sim", "sala": 101},
		{"disciplina": ["not", "a", "string"]},
		{"disciplina": "Álgebra", "horario1": "10:00", "turno": "manhã", "diaSemana": "segunda", "salaAberta": false, "horario2": null}
	]`

	entries, err := DecodeClasses(strings.NewReader(input), FormatJSON)
	if err != nil {
		t.Fatalf("DecodeClasses: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	first := entries[0].Record
	if entries[0].Err != nil {
		t.Fatalf("first entry: %v", entries[0].Err)
	}
	if first.ID != 0 {
		t.Errorf("ids must be stripped, got %d", first.ID)
	}
	if first.Room != "101" || !first.RoomOpen || first.Weekday != "Monday" {
		t.Errorf("unexpected first record %+v", first)
	}
	if entries[1].Err == nil {
		t.Errorf("expected an error for a non-scalar field")
	}
	if entries[2].Err != nil || entries[2].Record.End != "" || entries[2].Record.RoomOpen {
		t.Errorf("unexpected third entry %+v", entries[2])
	}
}

func TestDecodeJSONRequiresArray(t *testing.T) {
	if _, err := DecodeEvents(strings.NewReader(`{"titulo": "x"}`), FormatJSON); err == nil {
		t.Fatal("expected an error for a non-array document")
	}
}

func TestEncodeEventsJSON(t *testing.T) {
	var buf bytes.Buffer
	events := []schedule.EventRecord{{ID: 3, Title: "Feira", Date: "2025-05-10", Start: "09:00", Shift: schedule.ShiftMorning}}
	if err := EncodeEvents(&buf, FormatJSON, events); err != nil {
		t.Fatalf("EncodeEvents: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"[\n  {\n", `    "id": 3,`, `    "horarioInicio": "09:00",`, `    "turno": "manhã"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestEncodeEmptyJSONIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeClasses(&buf, FormatJSON, nil); err != nil {
		t.Fatalf("EncodeClasses: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatJSON},
		{in: "JSON", want: FormatJSON},
		{in: " csv ", want: FormatCSV},
		{in: "xlsx", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Fatalf("expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseFormat(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}
