// README: Ride change feed published over Redis pub/sub.
package ride

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"mobiurban/internal/types"
)

const feedChannel = "mobiurban:rides"

// ChangeEvent is one entry of the change-notification feed clients subscribe
// to for live ride updates.
type ChangeEvent struct {
	RideID types.ID  `json:"ride_id"`
	Kind   string    `json:"kind"` // "created" or "status_changed"
	From   Status    `json:"from,omitempty"`
	To     Status    `json:"to"`
	At     time.Time `json:"at"`
}

// Feed publishes ride change events. Publishing is best-effort; a feed
// failure never fails the transition that produced it.
type Feed interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

type RedisFeed struct {
	client *redis.Client
}

func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{client: client}
}

func (f *RedisFeed) Publish(ctx context.Context, ev ChangeEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, feedChannel, b).Err()
}

// Subscribe returns a channel of decoded feed events. The returned cancel
// function closes the subscription.
func (f *RedisFeed) Subscribe(ctx context.Context) (<-chan ChangeEvent, func()) {
	sub := f.client.Subscribe(ctx, feedChannel)
	out := make(chan ChangeEvent)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = sub.Close() }
}

// NoopFeed is used when Redis is not configured.
type NoopFeed struct{}

func (NoopFeed) Publish(context.Context, ChangeEvent) error { return nil }
