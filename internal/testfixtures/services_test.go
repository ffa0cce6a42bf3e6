package testfixtures

import (
	"context"
	"testing"

	"github.com/example/schedule-dashboard/internal/application"
)

func TestServiceFactoryOverSQLite(t *testing.T) {
	harness := NewSQLiteHarness(t)
	factory := NewServiceFactory()
	svc := factory.NewServices(t, harness.Classes, harness.Events, nil, nil)
	ctx := context.Background()

	class, err := svc.Classes.Create(ctx, NewClassFixture(WithClassSubject("Física")).Input())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if class.ID <= 0 {
		t.Fatalf("expected store assigned id, got %d", class.ID)
	}
	harness.SeedEvents(t, NewEventFixture(WithEventTitle("Palestra"), WithEventTimes("09:30", "")))

	view, err := svc.Dashboard.Dashboard(ctx, application.DashboardQuery{})
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if len(view.Items) != 2 || view.Items[0].Event == nil || view.Items[1].Class == nil {
		t.Fatalf("expected Palestra then Física at the reference time, got %+v", view.Items)
	}
}

func TestServiceFactorySessionIDs(t *testing.T) {
	factory := NewServiceFactory()
	auth := factory.NewAuthService(t)

	first, err := auth.Login(context.Background(), application.LoginParams{Username: AdminUsername, Password: AdminPassword})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	second, err := auth.Login(context.Background(), application.LoginParams{Username: AdminUsername, Password: AdminPassword})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if first.Principal.SessionID != "session-1" || second.Principal.SessionID != "session-2" {
		t.Fatalf("unexpected session ids %q, %q", first.Principal.SessionID, second.Principal.SessionID)
	}
}
