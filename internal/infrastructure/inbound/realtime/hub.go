package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	model "pinstack-feed-service/internal/domain/models"
	ports "pinstack-feed-service/internal/domain/ports/output"
)

const (
	defaultClientBuffer = 16
	hubBuffer           = 256
)

// Hub fans frames out to every connected websocket client. A single run loop
// owns the client set.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	clients    map[*Client]struct{}
	done       chan struct{}
	stopOnce   sync.Once

	upgrader     websocket.Upgrader
	clientBuffer int
	log          ports.Logger
	metrics      ports.MetricsProvider
}

func NewHub(log ports.Logger, metrics ports.MetricsProvider, clientBuffer int) *Hub {
	if clientBuffer < 1 {
		clientBuffer = defaultClientBuffer
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, hubBuffer),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clientBuffer: clientBuffer,
		log:          log,
		metrics:      metrics,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			h.log.Info("Realtime hub stopped")
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.metrics.SetActiveConnections(len(h.clients))
			h.log.Debug("Realtime client connected", slog.String("remote", c.remote), slog.Int("clients", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.log.Debug("Realtime client disconnected", slog.String("remote", c.remote), slog.Int("clients", len(h.clients)))
			}
		case frame := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					h.log.Warn("Dropping frame for slow realtime client", slog.String("remote", c.remote))
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.metrics.SetActiveConnections(len(h.clients))
}

// Publish implements the events.Broadcaster port for a single instance.
func (h *Hub) Publish(ctx context.Context, channel string, payload any) error {
	frame, err := model.EncodeFrame(channel, payload)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return h.Deliver(frame)
}

// Deliver queues an already encoded frame without blocking.
func (h *Hub) Deliver(frame []byte) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}
	select {
	case h.broadcast <- frame:
		return nil
	default:
		return ErrHubBusy
	}
}

// ServeHTTP upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("Websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	c := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, h.clientBuffer),
		remote: r.RemoteAddr,
	}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}
