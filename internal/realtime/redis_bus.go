package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
)

// RedisBus publishes changes on a Redis channel so every API instance sees
// writes made through any other instance. Delivery to local subscribers
// happens when the message comes back from Redis, including our own echo.
type RedisBus struct {
	client  *redis.Client
	channel string
	local   *LocalBus
}

func NewRedisBus(client *redis.Client, channel string) *RedisBus {
	return &RedisBus{
		client:  client,
		channel: channel,
		local:   NewLocalBus(),
	}
}

func (b *RedisBus) Publish(ctx context.Context, ch Change) {
	data, err := json.Marshal(ch)
	if err != nil {
		slog.Error("realtime encode failed", "err", err)
		return
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		slog.Error("realtime publish failed, delivering locally", "err", err, "table", ch.Table)
		b.local.deliver(ch)
	}
}

func (b *RedisBus) Subscribe(tables ...string) *Subscription {
	return b.local.Subscribe(tables...)
}

// Start subscribes to the Redis channel and forwards messages until ctx is
// done. It returns once the subscription is confirmed.
func (b *RedisBus) Start(ctx context.Context) error {
	ps := b.client.Subscribe(ctx, b.channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	go func() {
		defer ps.Close()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ch Change
				if err := json.Unmarshal([]byte(msg.Payload), &ch); err != nil {
					slog.Warn("realtime decode failed", "err", err)
					continue
				}
				b.local.deliver(ch)
			}
		}
	}()

	return nil
}
