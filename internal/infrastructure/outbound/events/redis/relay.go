package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	ports "pinstack-feed-service/internal/domain/ports/output"
)

// FrameSink receives encoded frames, typically the local realtime hub.
type FrameSink interface {
	Deliver(frame []byte) error
}

// Relay forwards frames published on a Redis channel into the local sink.
type Relay struct {
	client       *Client
	redisChannel string
	sink         FrameSink
	log          ports.Logger
}

func NewRelay(client *Client, redisChannel string, sink FrameSink, log ports.Logger) *Relay {
	return &Relay{client: client, redisChannel: redisChannel, sink: sink, log: log}
}

// Run blocks until ctx is cancelled or the subscription closes.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.redisChannel)
	defer func() {
		if err := sub.Close(); err != nil {
			r.log.Warn("Failed to close Redis subscription", slog.String("error", err.Error()))
		}
	}()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	r.log.Info("Relaying realtime frames from Redis", slog.String("channel", r.redisChannel))

	return pump(ctx, sub.Channel(), r.sink, r.log)
}

func pump(ctx context.Context, messages <-chan *redis.Message, sink FrameSink, log ports.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := sink.Deliver([]byte(msg.Payload)); err != nil {
				log.Warn("Failed to deliver relayed frame", slog.String("error", err.Error()))
			}
		}
	}
}
