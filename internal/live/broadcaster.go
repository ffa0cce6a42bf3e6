package live

import (
	"context"
	"log/slog"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/logging"
	"github.com/example/schedule-dashboard/internal/schedule"
)

// Publisher is the part of Hub the broadcaster needs.
type Publisher interface {
	Broadcast(message []byte)
}

// Broadcaster turns application events into websocket messages.
type Broadcaster struct {
	hub    Publisher
	logger *slog.Logger
}

var _ application.ChangeNotifier = (*Broadcaster)(nil)

// NewBroadcaster wraps hub.
func NewBroadcaster(hub Publisher, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{hub: hub, logger: logger}
}

// CollectionChanged implements application.ChangeNotifier.
func (b *Broadcaster) CollectionChanged(ctx context.Context, change application.Change) {
	b.publish(ctx, NewMessage(TypeCatalogChanged, CatalogChangedPayload{
		Collection: string(change.Collection),
		Action:     string(change.Action),
		ID:         change.ID,
		Count:      change.Count,
	}))
}

// NextItem announces the next item of the day, or that there is none.
func (b *Broadcaster) NextItem(ctx context.Context, item schedule.Item, found bool) {
	payload := NextItemPayload{Found: found}
	if found {
		card := item.Card()
		payload.Item = &card
	}
	b.publish(ctx, NewMessage(TypeNextItem, payload))
}

// Notice forwards a notice to every client.
func (b *Broadcaster) Notice(ctx context.Context, notice application.Notice) {
	b.publish(ctx, NewMessage(TypeNotice, NoticePayload{
		Severity: string(notice.Severity),
		Message:  notice.Message,
	}))
}

func (b *Broadcaster) publish(ctx context.Context, msg Message) {
	data, err := msg.JSON()
	if err != nil {
		b.loggerFor(ctx).ErrorContext(ctx, "failed to encode live message", "type", msg.Type, "error", err)
		return
	}
	b.hub.Broadcast(data)
}

func (b *Broadcaster) loggerFor(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, b.logger)
}
