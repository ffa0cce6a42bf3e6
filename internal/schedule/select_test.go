package schedule

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/example/schedule-dashboard/internal/weekday"
)

// 2025-03-04 is a Tuesday.
var tuesdayMorning = time.Date(2025, time.March, 4, 9, 15, 0, 0, time.Local)

func sampleClasses() []ClassRecord {
	return []ClassRecord{
		{ID: 1, Subject: "Física", Weekday: weekday.Tuesday, Start: "08:00", End: "10:00", Shift: ShiftMorning},
		{ID: 2, Subject: "Álgebra", Weekday: weekday.Monday, Start: "10:00", End: "12:00", Shift: ShiftMorning},
		{ID: 3, Subject: "Cálculo", Weekday: weekday.Tuesday, Start: "10:00", End: "12:00", Shift: ShiftMorning},
		{ID: 4, Subject: "Redes", Weekday: weekday.Tuesday, Start: "19:00", End: "22:00", Shift: ShiftEvening},
	}
}

func sampleEvents() []EventRecord {
	return []EventRecord{
		{ID: 1, Title: "Palestra", Date: "2025-03-04", Start: "14:00", Shift: ShiftAfternoon},
		{ID: 2, Title: "Defesa", Date: "2025-03-05", Start: "09:00", End: "11:00", Shift: ShiftMorning},
		{ID: 3, Title: "Abertura", Date: "2025-03-04", Start: "10:00", Shift: ShiftMorning},
	}
}

func subjects(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch item.Kind {
		case KindClass:
			out = append(out, item.Class.Subject)
		case KindEvent:
			out = append(out, item.Event.Title)
		}
	}
	return out
}

func TestUnify(t *testing.T) {
	classes := sampleClasses()
	events := sampleEvents()

	items := Unify(classes, events)
	if len(items) != len(classes)+len(events) {
		t.Fatalf("expected %d items, got %d", len(classes)+len(events), len(items))
	}

	first := items[0]
	if first.Kind != KindClass || first.Day != weekday.Tuesday || first.SortKey != "terça-feira-08:00" {
		t.Fatalf("unexpected first item: %+v", first)
	}

	palestra := items[len(classes)]
	if palestra.Kind != KindEvent || palestra.Day != weekday.Tuesday || palestra.SortKey != "terça-feira-14:00" {
		t.Fatalf("unexpected event item: %+v", palestra)
	}

	defesa := items[len(classes)+1]
	if defesa.Day != weekday.Wednesday {
		t.Fatalf("expected event on quarta-feira, got %q", defesa.Day)
	}

	items[0].Class.Subject = "changed"
	if classes[0].Subject != "Física" {
		t.Fatal("Unify must not alias the input records")
	}
}

func TestUnifyKeepsEventsWithBadDates(t *testing.T) {
	items := Unify(nil, []EventRecord{{Title: "Sem data", Date: "amanhã", Start: "08:00"}})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Day != "" {
		t.Fatalf("expected empty day, got %q", items[0].Day)
	}
}

func TestSelectAllAllReturnsEverythingSortedByStart(t *testing.T) {
	items := Unify(sampleClasses(), sampleEvents())

	got := Select(items, AnyShift(), AnyDay(), tuesdayMorning)
	if len(got) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(got))
	}

	want := []string{"Física", "Defesa", "Álgebra", "Cálculo", "Abertura", "Palestra", "Redes"}
	if !reflect.DeepEqual(subjects(got), want) {
		t.Fatalf("unexpected order:\n got %v\nwant %v", subjects(got), want)
	}

	again := Select(got, AnyShift(), AnyDay(), tuesdayMorning)
	if !reflect.DeepEqual(subjects(again), subjects(got)) {
		t.Fatalf("select is not idempotent: %v vs %v", subjects(again), subjects(got))
	}
}

func TestSelectDoesNotModifyInput(t *testing.T) {
	items := Unify(sampleClasses(), sampleEvents())
	before := subjects(items)

	_ = Select(items, AnyShift(), AnyDay(), tuesdayMorning)

	if !reflect.DeepEqual(subjects(items), before) {
		t.Fatal("select reordered its input")
	}
}

func TestSelectTodayExcludesPastAndOtherDays(t *testing.T) {
	items := Unify(sampleClasses(), sampleEvents())

	got := Select(items, AnyShift(), Today(), tuesdayMorning)

	want := []string{"Cálculo", "Abertura", "Palestra", "Redes"}
	if !reflect.DeepEqual(subjects(got), want) {
		t.Fatalf("unexpected items:\n got %v\nwant %v", subjects(got), want)
	}
	for _, item := range got {
		if item.Day != weekday.Tuesday {
			t.Fatalf("item on %q leaked into today's view", item.Day)
		}
		if item.Start < "09:15" {
			t.Fatalf("past item %q leaked into today's view", item.Start)
		}
	}
}

func TestSelectTodayIncludesItemsStartingNow(t *testing.T) {
	items := Unify([]ClassRecord{{Subject: "Agora", Weekday: weekday.Tuesday, Start: "09:15"}}, nil)

	got := Select(items, AnyShift(), Today(), tuesdayMorning)
	if len(got) != 1 {
		t.Fatalf("expected the item starting now to be kept, got %d items", len(got))
	}
}

func TestSelectSpecificDayAndShift(t *testing.T) {
	items := Unify(sampleClasses(), sampleEvents())

	filter, err := ParseDayFilter("terça")
	if err != nil {
		t.Fatalf("ParseDayFilter returned error: %v", err)
	}

	got := Select(items, OnShift(ShiftMorning), filter, tuesdayMorning)
	want := []string{"Física", "Cálculo", "Abertura"}
	if !reflect.DeepEqual(subjects(got), want) {
		t.Fatalf("unexpected items:\n got %v\nwant %v", subjects(got), want)
	}
}

func TestSelectExampleFromCatalogue(t *testing.T) {
	classes := []ClassRecord{
		{Subject: "Física", Weekday: weekday.Tuesday, Start: "08:00"},
		{Subject: "Álgebra", Weekday: weekday.Monday, Start: "10:00"},
	}

	got := Select(Unify(classes, nil), AnyShift(), AnyDay(), tuesdayMorning)
	if want := []string{"Física", "Álgebra"}; !reflect.DeepEqual(subjects(got), want) {
		t.Fatalf("got %v, want %v", subjects(got), want)
	}
}

func TestParseDayFilter(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{token: "auto", want: FilterAuto},
		{token: "AUTO", want: FilterAuto},
		{token: "todos", want: FilterAll},
		{token: "segunda", want: "segunda-feira"},
		{token: "friday", want: "sexta-feira"},
	}
	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			filter, err := ParseDayFilter(tc.token)
			if err != nil {
				t.Fatalf("ParseDayFilter(%q) returned error: %v", tc.token, err)
			}
			if filter.String() != tc.want {
				t.Fatalf("ParseDayFilter(%q) = %q, want %q", tc.token, filter.String(), tc.want)
			}
		})
	}

	_, err := ParseDayFilter("ontem")
	if !errors.Is(err, ErrInvalidFilter) || !errors.Is(err, weekday.ErrInvalidDayToken) {
		t.Fatalf("expected invalid filter wrapping ErrInvalidDayToken, got %v", err)
	}
}

func TestParseShiftFilter(t *testing.T) {
	for _, token := range []string{"", "todos", "TODOS"} {
		filter, err := ParseShiftFilter(token)
		if err != nil || filter.String() != FilterAll {
			t.Fatalf("ParseShiftFilter(%q) = %v, %v", token, filter, err)
		}
	}

	filter, err := ParseShiftFilter("manha")
	if err != nil || filter.String() != string(ShiftMorning) {
		t.Fatalf("ParseShiftFilter(manha) = %v, %v", filter, err)
	}

	if _, err := ParseShiftFilter("madrugada"); !errors.Is(err, ErrUnknownShift) {
		t.Fatalf("expected ErrUnknownShift, got %v", err)
	}
}

func TestNextUpcoming(t *testing.T) {
	items := Unify(sampleClasses(), sampleEvents())

	next, ok := NextUpcoming(items, tuesdayMorning)
	if !ok {
		t.Fatal("expected an upcoming item")
	}
	if next.Kind != KindClass || next.Class.Subject != "Cálculo" {
		t.Fatalf("unexpected next item: %+v", next)
	}

	late := time.Date(2025, time.March, 4, 23, 0, 0, 0, time.Local)
	if _, ok := NextUpcoming(items, late); ok {
		t.Fatal("expected no upcoming items late in the evening")
	}
}
