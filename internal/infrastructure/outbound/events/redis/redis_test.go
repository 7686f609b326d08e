package redis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	model "pinstack-feed-service/internal/domain/models"
	"pinstack-feed-service/internal/infrastructure/logger"
)

type fakePublisher struct {
	channel string
	message []byte
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message []byte) error {
	f.channel, f.message = channel, message
	return f.err
}

type sink struct {
	mu     sync.Mutex
	frames []string
}

func (s *sink) Deliver(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, string(frame))
	return nil
}

func TestBroadcaster_Publish(t *testing.T) {
	pub := &fakePublisher{}
	b := NewBroadcaster(pub, "feed:events", logger.New("test"))

	err := b.Publish(context.Background(), model.PostsChannel, model.PostEvent{Action: model.ActionDelete, PostID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "feed:events", pub.channel)
	assert.Equal(t, "posts", gjson.GetBytes(pub.message, "event").String())
	assert.Equal(t, "p1", gjson.GetBytes(pub.message, "data.post").String())

	pub.err = errors.New("redis down")
	assert.Error(t, b.Publish(context.Background(), model.PostsChannel, model.PostEvent{Action: model.ActionDelete, PostID: "p1"}))
}

func TestPump(t *testing.T) {
	messages := make(chan *redis.Message, 2)
	messages <- &redis.Message{Channel: "feed:events", Payload: `{"event":"posts"}`}
	messages <- &redis.Message{Channel: "feed:events", Payload: `{"event":"posts","data":1}`}
	close(messages)

	s := &sink{}
	require.NoError(t, pump(context.Background(), messages, s, logger.New("test")))
	assert.Equal(t, []string{`{"event":"posts"}`, `{"event":"posts","data":1}`}, s.frames)
}
