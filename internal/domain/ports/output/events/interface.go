package events

import "context"

// Broadcaster delivers payloads to every listener connected to a channel.
// Delivery is fire-and-forget: no acknowledgement, persistence or replay.
//
//go:generate mockery --name Broadcaster --dir . --output ../../../../../mocks/events --outpkg mocks --filename Broadcaster.go
type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload any) error
}
