package realtime

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// StreamHandler fans broadcast updates out to browser clients over
// Server-Sent Events. Each connected viewer gets its own Redis
// subscription; there is no persistence or replay.
type StreamHandler struct {
	rdb     *redis.Client
	channel string
}

func NewStreamHandler(rdb *redis.Client) *StreamHandler {
	return &StreamHandler{rdb: rdb, channel: Channel}
}

func (h *StreamHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/events", h.Stream)
}

func (h *StreamHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	ctx := c.Request.Context()

	sub := h.rdb.Subscribe(ctx, h.channel)
	defer sub.Close()

	// Confirm the subscription before telling the client we're live.
	if _, err := sub.Receive(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to subscribe"})
		return
	}

	fmt.Fprint(c.Writer, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case msg, open := <-ch:
			if !open {
				return
			}
			fmt.Fprintf(c.Writer, "event: update\ndata: %s\n\n", msg.Payload)
			flusher.Flush()
		}
	}
}
