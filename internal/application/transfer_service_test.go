package application

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/schedule-dashboard/internal/interchange"
	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/weekday"
)

type importObserverStub struct {
	collection    string
	added, failed int
}

func (o *importObserverStub) ObserveImport(collection string, added, failed int) {
	o.collection, o.added, o.failed = collection, added, failed
}

func TestTransferService_ImportClassesJSON(t *testing.T) {
	t.Parallel()

	classes := newClassRepoStub()
	notifier := &notifierStub{}
	observer := &importObserverStub{}
	svc := NewTransferServiceWithLogger(classes, newEventRepoStub(), notifier, observer, nil)

	input := `[
		{"id": 40, "disciplina": "Física", "horario1": "08:00", "turno": "manhã", "diaSemana": "Monday", "salaAberta": "Sim"},
		{"id": 41, "disciplina": "Química", "horario1": "08:00", "turno": "manhã", "diaSemana": "funday"},
		{"disciplina": "Álgebra", "horario1": "10:00", "horario2": "09:00", "turno": "manhã", "diaSemana": "sábado"},
		{"disciplina": {"nested": true}},
		{"disciplina": "Biologia", "horario1": "13:00", "turno": "tarde", "diaSemana": "SEXTA"}
	]`

	result, err := svc.Import(context.Background(), CollectionClasses, interchange.FormatJSON, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Added != 2 || result.Failed != 3 {
		t.Fatalf("expected 2 added and 3 failed, got %+v", result)
	}

	wantIndexes := []int{2, 3, 4}
	for i, f := range result.Failures {
		if f.Index != wantIndexes[i] {
			t.Errorf("failure %d: expected index %d, got %d", i, wantIndexes[i], f.Index)
		}
	}
	if result.Failures[0].Fields["diaSemana"] != msgUnknownWeekday {
		t.Errorf("expected weekday failure, got %#v", result.Failures[0].Fields)
	}
	if result.Failures[1].Fields["horario2"] != msgEndBeforeStart {
		t.Errorf("expected range failure, got %#v", result.Failures[1].Fields)
	}

	if classes.records[0].ID != 1 || classes.records[0].Weekday != weekday.Monday || !classes.records[0].RoomOpen {
		t.Errorf("unexpected first stored record %+v", classes.records[0])
	}
	if classes.records[1].Weekday != weekday.Friday {
		t.Errorf("expected weekday re-normalized, got %q", classes.records[1].Weekday)
	}

	changes := notifier.recorded()
	if len(changes) != 1 || changes[0].Action != ActionImported || changes[0].Count != 2 {
		t.Fatalf("unexpected notifications %#v", changes)
	}
	if observer.collection != "classes" || observer.added != 2 || observer.failed != 3 {
		t.Fatalf("unexpected observation %+v", observer)
	}
	if n := result.Notice(); n.Severity != SeverityWarning {
		t.Fatalf("expected warning notice for partial import, got %+v", n)
	}
}

func TestTransferService_ImportEventsNormalizesDates(t *testing.T) {
	t.Parallel()

	events := newEventRepoStub()
	svc := NewTransferService(newClassRepoStub(), events, nil)

	input := `[{"titulo": "Feira", "data": "2025-05-10T00:00:00.000Z", "horarioInicio": "09:00", "turno": "manhã"}]`
	result, err := svc.Import(context.Background(), CollectionEvents, interchange.FormatJSON, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Added != 1 {
		t.Fatalf("expected one event added, got %+v", result)
	}
	if events.records[0].Date != "2025-05-10" {
		t.Fatalf("expected ISO date, got %q", events.records[0].Date)
	}
}

func TestTransferService_ImportRejectsUnreadableInput(t *testing.T) {
	t.Parallel()

	notifier := &notifierStub{}
	svc := NewTransferService(newClassRepoStub(), newEventRepoStub(), notifier)
	if _, err := svc.Import(context.Background(), CollectionClasses, interchange.FormatJSON, strings.NewReader("not json")); err == nil {
		t.Fatal("expected an error for malformed input")
	}
	if len(notifier.recorded()) != 0 {
		t.Fatal("failed import must not notify")
	}
}

func TestTransferService_CSVRoundTrip(t *testing.T) {
	t.Parallel()

	source := newClassRepoStub(
		schedule.ClassRecord{Building: "A", Room: "101", Subject: "Física; I", Start: "08:00", End: "09:40", Shift: schedule.ShiftMorning, Weekday: weekday.Monday, RoomOpen: true, Priority: "Alta"},
		schedule.ClassRecord{Building: "B", Room: "202", Subject: "Álgebra", Start: "19:00", Shift: schedule.ShiftEvening, Weekday: weekday.Saturday, RoomOpen: false, Priority: "Média"},
	)
	exporter := NewTransferService(source, newEventRepoStub(), nil)

	var buf bytes.Buffer
	count, err := exporter.Export(context.Background(), CollectionClasses, interchange.FormatCSV, &buf)
	if err != nil || count != 2 {
		t.Fatalf("Export = %d, %v", count, err)
	}

	target := newClassRepoStub()
	importer := NewTransferService(target, newEventRepoStub(), nil)
	result, err := importer.Import(context.Background(), CollectionClasses, interchange.FormatCSV, &buf)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Added != 2 || result.Failed != 0 {
		t.Fatalf("expected clean import, got %+v", result)
	}
	for i := range source.records {
		if source.records[i] != target.records[i] {
			t.Errorf("record %d differs:\n got %+v\nwant %+v", i, target.records[i], source.records[i])
		}
	}
}

func TestTransferService_ExportStoreFailure(t *testing.T) {
	t.Parallel()

	events := newEventRepoStub()
	events.listErr = errStoreDown
	svc := NewTransferService(newClassRepoStub(), events, nil)

	var buf bytes.Buffer
	if _, err := svc.Export(context.Background(), CollectionEvents, interchange.FormatJSON, &buf); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing must be written on failure")
	}
}

func TestImportResult_Notice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		result ImportResult
		want   Severity
	}{
		{result: ImportResult{}, want: SeverityInfo},
		{result: ImportResult{Added: 3}, want: SeveritySuccess},
		{result: ImportResult{Added: 1, Failed: 1}, want: SeverityWarning},
		{result: ImportResult{Failed: 2}, want: SeverityError},
	}
	for _, tt := range tests {
		if got := tt.result.Notice().Severity; got != tt.want {
			t.Errorf("%+v: expected %s, got %s", tt.result, tt.want, got)
		}
	}
}
