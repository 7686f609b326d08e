package redis

import (
	"context"
	"fmt"
	"log/slog"

	model "pinstack-feed-service/internal/domain/models"
	ports "pinstack-feed-service/internal/domain/ports/output"
)

// Publisher is the part of Client the broadcaster needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message []byte) error
}

// Broadcaster publishes encoded frames to a Redis channel. Each instance runs
// a Relay that fans them out to its own websocket clients.
type Broadcaster struct {
	publisher    Publisher
	redisChannel string
	log          ports.Logger
}

func NewBroadcaster(publisher Publisher, redisChannel string, log ports.Logger) *Broadcaster {
	return &Broadcaster{publisher: publisher, redisChannel: redisChannel, log: log}
}

func (b *Broadcaster) Publish(ctx context.Context, channel string, payload any) error {
	frame, err := model.EncodeFrame(channel, payload)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := b.publisher.Publish(ctx, b.redisChannel, frame); err != nil {
		return err
	}
	b.log.Debug("Published frame to Redis", slog.String("channel", b.redisChannel), slog.String("event", channel))
	return nil
}
