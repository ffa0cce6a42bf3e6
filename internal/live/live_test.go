package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/schedule"
	"github.com/example/schedule-dashboard/internal/weekday"
)

type publisherStub struct {
	mu       sync.Mutex
	messages [][]byte
}

func (p *publisherStub) Broadcast(message []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

func (p *publisherStub) decoded(t *testing.T) []map[string]any {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]map[string]any, 0, len(p.messages))
	for _, raw := range p.messages {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			t.Fatalf("invalid message %s: %v", raw, err)
		}
		out = append(out, m)
	}
	return out
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	first, second := NewClient(), NewClient()
	hub.Register(first)
	hub.Register(second)
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	hub.Broadcast([]byte("hello"))
	for _, c := range []*Client{first, second} {
		select {
		case msg := <-c.Send():
			if string(msg) != "hello" {
				t.Fatalf("unexpected message %q", msg)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("message not delivered")
		}
	}

	hub.Unregister(first)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	if _, ok := <-first.Send(); ok {
		t.Fatal("expected send channel closed after unregister")
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := NewClient()
	hub.Register(client)
	cancel()
	<-stopped

	if _, ok := <-client.Send(); ok {
		t.Fatal("expected send channel closed on shutdown")
	}
	if hub.Register(NewClient()) {
		t.Fatal("registration after shutdown must be refused")
	}
}

func TestBroadcaster_Messages(t *testing.T) {
	t.Parallel()

	pub := &publisherStub{}
	b := NewBroadcaster(pub, nil)
	ctx := context.Background()

	b.CollectionChanged(ctx, application.Change{Collection: application.CollectionClasses, Action: application.ActionCreated, ID: 4})
	b.Notice(ctx, application.Notice{Severity: application.SeverityWarning, Message: "atenção"})
	b.NextItem(ctx, schedule.Item{}, false)

	msgs := pub.decoded(t)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	wantTypes := []MessageType{TypeCatalogChanged, TypeNotice, TypeNextItem}
	for i, m := range msgs {
		if m["type"] != string(wantTypes[i]) {
			t.Errorf("message %d: expected type %s, got %v", i, wantTypes[i], m["type"])
		}
		if _, ok := m["timestamp"].(string); !ok {
			t.Errorf("message %d: missing timestamp", i)
		}
	}

	changed := msgs[0]["payload"].(map[string]any)
	if changed["collection"] != "classes" || changed["action"] != "created" || changed["id"] != float64(4) {
		t.Fatalf("unexpected catalog payload %#v", changed)
	}
	next := msgs[2]["payload"].(map[string]any)
	if next["found"] != false {
		t.Fatalf("unexpected next payload %#v", next)
	}
	if _, ok := next["item"]; ok {
		t.Fatalf("item must be omitted when nothing is next, got %#v", next)
	}
}

type sourceStub struct {
	item  schedule.Item
	found bool
	err   error
}

func (s sourceStub) NextItem(context.Context) (schedule.Item, bool, error) {
	return s.item, s.found, s.err
}

func TestNextItemJob_RunOnce(t *testing.T) {
	t.Parallel()

	items := schedule.Unify([]schedule.ClassRecord{{ID: 2, Subject: "Física", Start: "10:00", Weekday: weekday.Tuesday, Shift: schedule.ShiftMorning}}, nil)
	pub := &publisherStub{}
	job := NewNextItemJob(sourceStub{item: items[0], found: true}, NewBroadcaster(pub, nil), "", nil)

	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	msgs := pub.decoded(t)
	payload := msgs[0]["payload"].(map[string]any)
	item := payload["item"].(map[string]any)
	if payload["found"] != true || item["title"] != "Física" || item["display_time"] != "10:00" {
		t.Fatalf("unexpected payload %#v", payload)
	}

	failing := NewNextItemJob(sourceStub{err: application.ErrStoreUnavailable}, NewBroadcaster(pub, nil), "", nil)
	if err := failing.RunOnce(context.Background()); !errors.Is(err, application.ErrStoreUnavailable) {
		t.Fatalf("expected store error, got %v", err)
	}
	msgs = pub.decoded(t)
	if len(msgs) != 2 || msgs[1]["type"] != string(TypeNotice) {
		t.Fatalf("a failed tick must broadcast a notice instead of a next item, got %v", msgs)
	}
	notice := msgs[1]["payload"].(map[string]any)
	if notice["severity"] != "error" || notice["message"] != noticeNextItemFailed {
		t.Fatalf("unexpected notice payload %#v", notice)
	}
}

func TestNextItemJob_RejectsBadSpec(t *testing.T) {
	t.Parallel()

	job := NewNextItemJob(sourceStub{}, NewBroadcaster(&publisherStub{}, nil), "every now and then", nil)
	if err := job.Start(); err == nil {
		t.Fatal("expected an error for an invalid cron spec")
	}
}

func TestHandler_DeliversBroadcasts(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	srv := httptest.NewServer(Handler(hub, nil))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	NewBroadcaster(hub, nil).CollectionChanged(context.Background(), application.Change{Collection: application.CollectionEvents, Action: application.ActionReset})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Type != TypeCatalogChanged {
		t.Fatalf("unexpected message %+v", msg)
	}

	_ = conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}
