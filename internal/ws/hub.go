// Package ws pushes the live link list to dashboard clients over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"secure.links/internal/links"
	"secure.links/internal/models"
)

const MsgLinksSnapshot = "links.snapshot"

// Message is the only frame the server sends.
type Message struct {
	Type      string       `json:"type"`
	Links     []links.View `json:"links"`
	Timestamp time.Time    `json:"timestamp"`
}

// Client represents a WebSocket connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// initial is sent on registration when no change has been published yet.
	initial []byte
}

// Hub fans registry snapshots out to connected clients. Only the latest
// snapshot is kept; clients always converge on it.
type Hub struct {
	clients    map[*Client]bool
	changed    chan struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *slog.Logger

	mu     sync.Mutex
	latest []byte
}

var _ links.Notifier = (*Hub)(nil)

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		changed:    make(chan struct{}, 1),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// LinksChanged stores the snapshot as the latest frame and wakes Run.
// It never blocks: a pending wake-up already covers the new frame.
func (h *Hub) LinksChanged(snapshot []models.SecureLink) {
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		h.logger.Error("encoding links snapshot", slog.Any("error", err))
		return
	}

	h.mu.Lock()
	h.latest = data
	h.mu.Unlock()

	select {
	case h.changed <- struct{}{}:
	default:
	}
}

func (h *Hub) latestFrame() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Run processes registrations and broadcasts until ctx is done.
// It must be called exactly once.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			close(client.send)
			delete(h.clients, client)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			frame := h.latestFrame()
			if frame == nil {
				frame = client.initial
			}
			client.initial = nil
			if frame != nil {
				h.deliver(client, frame)
			}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case <-h.changed:
			frame := h.latestFrame()
			for client := range h.clients {
				h.deliver(client, frame)
			}
		}
	}
}

// deliver drops clients that stopped reading.
func (h *Hub) deliver(client *Client, frame []byte) {
	select {
	case client.send <- frame:
	default:
		close(client.send)
		delete(h.clients, client)
	}
}

func encodeSnapshot(snapshot []models.SecureLink) ([]byte, error) {
	return json.Marshal(Message{
		Type:      MsgLinksSnapshot,
		Links:     links.NewViews(snapshot),
		Timestamp: time.Now(),
	})
}
