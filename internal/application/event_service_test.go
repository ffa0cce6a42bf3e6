package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/tablequery"
)

func TestEventService_CreateAndUpdate(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub()
	notifier := &notifierStub{}
	svc := NewEventService(repo, notifier)
	ctx := context.Background()

	input := validEventInput()
	input.Date = "2025-03-04T22:30:00-03:00"
	created, err := svc.Create(ctx, input)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Date != "2025-03-05" {
		t.Fatalf("expected UTC calendar date, got %q", created.Date)
	}
	if created.Shift != schedule.ShiftEvening {
		t.Fatalf("expected shift noite, got %q", created.Shift)
	}

	input = validEventInput()
	input.End = "18:00"
	_, err = svc.Update(ctx, created.ID, input)
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.FieldErrors["horarioFim"] != msgEndBeforeStart {
		t.Fatalf("expected range error on horarioFim, got %v", err)
	}

	input.End = "19:00"
	if _, err := svc.Update(ctx, created.ID, input); err != nil {
		t.Fatalf("equal start and end must be accepted, got %v", err)
	}
	if _, err := svc.Update(ctx, 404, input); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	changes := notifier.recorded()
	if len(changes) != 2 || changes[1].Action != ActionUpdated || changes[1].Collection != CollectionEvents {
		t.Fatalf("unexpected notifications %#v", changes)
	}
}

func TestEventService_RequiredFields(t *testing.T) {
	t.Parallel()

	svc := NewEventService(newEventRepoStub(), nil)
	_, err := svc.Create(context.Background(), EventInput{Start: "9:00", Date: "04/03/2025", Shift: "madrugada"})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := map[string]string{
		"titulo":        "titulo " + msgRequired,
		"horarioInicio": msgInvalidClock,
		"data":          msgInvalidDate,
		"turno":         msgUnknownShift,
	}
	for field, msg := range want {
		if vErr.FieldErrors[field] != msg {
			t.Errorf("field %s: expected %q, got %q", field, msg, vErr.FieldErrors[field])
		}
	}
}

func TestEventService_List(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub(
		schedule.EventRecord{Title: "Feira", Location: "Pátio", Date: "2025-05-10", Start: "09:00"},
		schedule.EventRecord{Title: "Palestra", Location: "Auditório", Date: "2025-03-04", Start: "19:00"},
		schedule.EventRecord{Title: "Oficina", Location: "Auditório", Date: "2025-03-04", Start: "08:00"},
	)
	svc := NewEventService(repo, nil)
	ctx := context.Background()

	got, err := svc.List(ctx, EventListQuery{Search: "auditorio"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("search is accent sensitive after case folding, got %+v", got)
	}

	got, err = svc.List(ctx, EventListQuery{Search: "AUDITÓRIO"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Oficina" || got[1].Title != "Palestra" {
		t.Fatalf("expected chronological order without a sort key, got %+v", got)
	}

	got, err = svc.List(ctx, EventListQuery{Date: "2025-05-10", Sort: tablequery.DefaultEventSort})
	if err != nil || len(got) != 1 || got[0].Title != "Feira" {
		t.Fatalf("date filter = %+v, %v", got, err)
	}

	if _, err := svc.List(ctx, EventListQuery{Date: "ontem"}); err == nil {
		t.Fatal("expected an error for an invalid date filter")
	}
}

func TestEventService_DeleteAndReset(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub(schedule.EventRecord{Title: "Feira"})
	svc := NewEventService(repo, nil)
	ctx := context.Background()

	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
}
