package websocket

import (
	"context"
	"sync"

	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
)

const (
	MessageSnapshot = "SNAPSHOT"
	// MessageRefresh is sent by a client to ask for a refresh cycle now.
	MessageRefresh = "REFRESH"
)

// Refresher schedules a refresh cycle.
type Refresher interface {
	Trigger()
}

// Message is the envelope for everything pushed to dashboard clients.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	refresher  Refresher
	log        *logger.Logger
	mu         sync.RWMutex
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Discard()
	}
	return &Hub{
		broadcast:  make(chan Message, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

// Run services registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	h.log.Info("WebSocket Hub started")
	for {
		select {
		case <-ctx.Done():
			h.log.Info("WebSocket Hub shutting down...")
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			clientsGauge.Set(0)
			return nil
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			clientsGauge.Set(float64(total))
			h.log.Info("New WS client %s connected. Total: %d", client.id, total)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Debug("WS client %s disconnected", client.id)
			}
			clientsGauge.Set(float64(len(h.clients)))
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.log.Warn("WS client %s is not keeping up, dropping it", client.id)
					close(client.send)
					delete(h.clients, client)
				}
			}
			clientsGauge.Set(float64(len(h.clients)))
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a message for every connected client. When the queue is
// full the message is dropped; the next snapshot supersedes it.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	select {
	case h.broadcast <- Message{Type: msgType, Payload: payload}:
	default:
		h.log.Warn("WebSocket broadcast queue full, dropping %s message", msgType)
	}
}

// SetRefresher lets clients request a refresh with a REFRESH message.
// Call before Run.
func (h *Hub) SetRefresher(r Refresher) {
	h.refresher = r
}

func (h *Hub) requestRefresh(from string) {
	if h.refresher == nil {
		return
	}
	h.log.Debug("WS client %s requested a refresh", from)
	h.refresher.Trigger()
}

// Publish pushes a refresh snapshot to all clients.
func (h *Hub) Publish(snap *models.Snapshot) {
	h.Broadcast(MessageSnapshot, snap)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
