package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestBroadcaster_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes event and payload to the channel", func(t *testing.T) {
		rdb := newTestRedis(t)
		defer rdb.Close()

		sub := rdb.Subscribe(ctx, Channel)
		defer sub.Close()
		_, err := sub.Receive(ctx)
		require.NoError(t, err)

		b := NewBroadcaster(rdb)
		b.Publish(ctx, EventClientCreated, map[string]any{"id": 1, "name": "Acme"})

		select {
		case msg := <-sub.Channel():
			var u Update
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &u))
			assert.Equal(t, EventClientCreated, u.Event)

			data, ok := u.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "Acme", data["name"])
		case <-time.After(2 * time.Second):
			t.Fatal("no message received")
		}
	})

	t.Run("nil broadcaster is a no-op", func(t *testing.T) {
		var b *Broadcaster
		assert.NotPanics(t, func() {
			b.Publish(ctx, EventClientCreated, nil)
		})
	})

	t.Run("unmarshalable payload is dropped", func(t *testing.T) {
		rdb := newTestRedis(t)
		defer rdb.Close()

		b := NewBroadcaster(rdb)
		assert.NotPanics(t, func() {
			b.Publish(ctx, EventClientCreated, make(chan int))
		})
	})
}
