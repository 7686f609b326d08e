package realtime_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	model "pinstack-feed-service/internal/domain/models"
	"pinstack-feed-service/internal/infrastructure/inbound/realtime"
	"pinstack-feed-service/internal/infrastructure/logger"
	"pinstack-feed-service/internal/infrastructure/outbound/metrics/prometheus"
)

func TestHub_WebsocketRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub(logger.New("test"), prometheus.NewPrometheusMetricsProvider(), 4)
	go hub.Run(ctx)

	server := httptest.NewServer(hub)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(prometheus.ActiveConnections) == 1
	}, time.Second, 5*time.Millisecond)

	err = hub.Publish(ctx, model.PostsChannel, model.PostEvent{Action: model.ActionDelete, PostID: "p1"})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	body := string(data)
	assert.Equal(t, "posts", gjson.Get(body, "event").String())
	assert.Equal(t, "delete", gjson.Get(body, "data.action").String())
	assert.Equal(t, "p1", gjson.Get(body, "data.post").String())

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(prometheus.ActiveConnections) == 0
	}, time.Second, 5*time.Millisecond)
}
