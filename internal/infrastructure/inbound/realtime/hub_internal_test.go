package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinstack-feed-service/internal/infrastructure/logger"
	"pinstack-feed-service/internal/infrastructure/outbound/metrics/prometheus"
)

func TestHub_FullClientBufferDropsFrame(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(logger.New("test"), prometheus.NewPrometheusMetricsProvider(), 1)
	go h.Run(ctx)

	slow := &Client{hub: h, send: make(chan []byte, 1), remote: "slow"}
	h.register <- slow

	require.NoError(t, h.Deliver([]byte("first")))
	require.NoError(t, h.Deliver([]byte("second")))
	require.Eventually(t, func() bool { return len(h.broadcast) == 0 }, time.Second, time.Millisecond)
	// the run loop is single threaded, so a completed register means both frames were handled
	h.register <- &Client{hub: h, send: make(chan []byte, 1), remote: "barrier"}

	require.Len(t, slow.send, 1)
	assert.Equal(t, []byte("first"), <-slow.send)

	cancel()
	select {
	case <-h.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	_, open := <-slow.send
	assert.False(t, open)
	assert.ErrorIs(t, h.Deliver([]byte("late")), ErrHubStopped)
}
