package live

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/gitaufar/technoday-sub001/internal/shared/telemetry"
)

const channelPrefix = "live:"

// RedisBus fans change notifications out across instances via Redis
// pub/sub. Local subscriptions are kept on an embedded MemoryBus; Publish
// goes through Redis so every instance (including this one) sees the event.
type RedisBus struct {
	client *redis.Client
	local  *MemoryBus
	cancel context.CancelFunc
}

// NewRedisBus connects the bus to Redis and starts the receive loop.
func NewRedisBus(client *redis.Client) *RedisBus {
	ctx, cancel := context.WithCancel(context.Background())
	b := &RedisBus{
		client: client,
		local:  NewMemoryBus(),
		cancel: cancel,
	}
	go b.receive(ctx)
	return b
}

// Publish sends the event through Redis.
func (b *RedisBus) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		telemetry.Error("live.publish_marshal", map[string]any{"error": err.Error()})
		return
	}
	if err := b.client.Publish(context.Background(), channelPrefix+ev.Table, payload).Err(); err != nil {
		telemetry.Error("live.publish", map[string]any{"table": ev.Table, "error": err.Error()})
	}
}

// Subscribe registers a handler for the scope on this instance.
func (b *RedisBus) Subscribe(scope Scope, handler Handler) CancelFunc {
	return b.local.Subscribe(scope, handler)
}

// Close stops the receive loop.
func (b *RedisBus) Close() {
	b.cancel()
}

func (b *RedisBus) receive(ctx context.Context) {
	sub := b.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				telemetry.Error("live.receive_malformed", map[string]any{"payload": msg.Payload})
				continue
			}
			b.local.Publish(ev)
		}
	}
}

var _ Bus = (*RedisBus)(nil)
