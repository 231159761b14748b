// Package outbox keeps a short-lived per-session feed of toasts and navigation
// requests in Redis. Clients drain their feed by polling.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = 10 * time.Minute

	keyPrefix = "outbox:"
)

type EventKind string

const (
	EventToast    EventKind = "toast"
	EventNavigate EventKind = "navigate"
)

type Event struct {
	Kind  EventKind       `json:"kind"`
	Toast *domain.Toast   `json:"toast,omitempty"`
	Page  *domain.PageRef `json:"page,omitempty"`
	At    time.Time       `json:"at"`
}

type Outbox struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

func New(client redis.UniversalClient, ttl time.Duration) *Outbox {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Outbox{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

// For returns the feed of one session.
func (o *Outbox) For(sessionID string) *Feed {
	return &Feed{
		outbox: o,
		key:    keyPrefix + sessionID,
	}
}

// Feed is a session feed. It is both the Notifier and the Navigator of the
// components mounted for that session.
type Feed struct {
	outbox *Outbox
	key    string
}

func (f *Feed) Notify(ctx context.Context, toast domain.Toast) error {
	return f.push(ctx, Event{Kind: EventToast, Toast: &toast})
}

func (f *Feed) Navigate(ctx context.Context, ref domain.PageRef) error {
	return f.push(ctx, Event{Kind: EventNavigate, Page: &ref})
}

// Drain returns the pending events in the order they were pushed and empties the feed.
func (f *Feed) Drain(ctx context.Context) ([]Event, error) {
	pipe := f.outbox.client.TxPipeline()

	lrange := pipe.LRange(ctx, f.key, 0, -1)
	pipe.Del(ctx, f.key)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("drain outbox: %w", err)
	}

	values, err := lrange.Result()
	if err != nil {
		return nil, fmt.Errorf("drain outbox: %w", err)
	}

	events := make([]Event, 0, len(values))

	for _, value := range values {
		var event Event

		err := json.Unmarshal([]byte(value), &event)
		if err != nil {
			return nil, fmt.Errorf("decode outbox event: %w", err)
		}

		events = append(events, event)
	}

	return events, nil
}

func (f *Feed) push(ctx context.Context, event Event) error {
	event.At = f.outbox.now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode outbox event: %w", err)
	}

	pipe := f.outbox.client.TxPipeline()

	pipe.RPush(ctx, f.key, data)
	pipe.Expire(ctx, f.key, f.outbox.ttl)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("push outbox event: %w", err)
	}

	return nil
}
