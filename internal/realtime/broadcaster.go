package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// Update is the wire form of a broadcast event.
type Update struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Broadcaster publishes named change events to all connected viewers via
// Redis pub/sub. Delivery is best-effort: publish failures are logged and
// never surfaced to the mutation that triggered them.
type Broadcaster struct {
	rdb     *redis.Client
	channel string
}

func NewBroadcaster(rdb *redis.Client) *Broadcaster {
	return &Broadcaster{rdb: rdb, channel: Channel}
}

// Publish sends an event with the changed record. Fire-and-forget.
func (b *Broadcaster) Publish(ctx context.Context, event string, data interface{}) {
	if b == nil || b.rdb == nil {
		return
	}

	payload, err := json.Marshal(Update{Event: event, Data: data})
	if err != nil {
		log.Printf("broadcast: marshal %s: %v", event, err)
		return
	}

	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		log.Printf("broadcast: publish %s: %v", event, err)
	}
}
