package sse

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/statesync/internal/dependencies/clock"
	"github.com/mcoot/statesync/internal/services/broadcast"
)

var (
	// ErrHubClosed is returned when broadcasting to a hub that has shut down.
	// It matches broadcast.ErrListenerClosed.
	ErrHubClosed = fmt.Errorf("sse hub closed: %w", broadcast.ErrListenerClosed)
	// ErrHubFull is returned when the hub cannot buffer another message
	ErrHubFull = errors.New("sse hub buffer full")
)

// Hub fans events out to every SSE client of one listener session
type Hub struct {
	listenerID string
	clients    map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
	clock      clock.Clock

	// last time the client count changed, used for idle cleanup
	lastActive time.Time

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a listener session
func NewHub(listenerID string, clk clock.Clock, logger *slog.Logger) *Hub {
	return &Hub{
		listenerID: listenerID,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("listener", listenerID)),
		clock:      clk,
		lastActive: clk.Now(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// ID returns the listener session the hub serves
func (h *Hub) ID() string {
	return h.listenerID
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.lastActive = h.clock.Now()
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("sse client registered",
				slog.String("client_id", client.id),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; !ok {
				h.mu.Unlock()
				continue
			}
			delete(h.clients, client)
			close(client.send)
			h.lastActive = h.clock.Now()
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("sse client unregistered",
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", h.clock.Now().Sub(client.connectedAt)),
				slog.Int("total_clients", clientCount))

		case message := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					dropped++
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Debug("sse messages dropped, client buffer full", slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("sse hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub. It reports false if the hub is closed.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a raw message for all clients
func (h *Hub) Broadcast(message []byte) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}

	select {
	case h.broadcast <- message:
		return nil
	default:
		return ErrHubFull
	}
}

// BroadcastEvent sends an SSE event with a name and data
func (h *Hub) BroadcastEvent(eventName, data string) error {
	return h.Broadcast(formatSSEMessage(eventName, data))
}

// Close shuts down the hub. It is safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Closed reports whether Close has been called
func (h *Hub) Closed() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// idleSince returns when the hub last had its client count change, and
// whether it is currently empty
func (h *Hub) idleSince() (time.Time, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastActive, len(h.clients) == 0
}

// formatSSEMessage formats an SSE message with event name and data.
// Each data line gets its own "data: " prefix.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteString("\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits on \n, dropping \r and a trailing empty line
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// HubManager owns the hubs of every listener session
type HubManager struct {
	hubs   map[string]*Hub
	mu     sync.RWMutex
	clock  clock.Clock
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(clk clock.Clock, logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[string]*Hub),
		clock:  clk,
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the hub for a listener, creating one if needed
func (m *HubManager) GetOrCreateHub(listenerID string) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[listenerID]; ok {
		return hub
	}

	hub := NewHub(listenerID, m.clock, m.logger)
	m.hubs[listenerID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a listener, or nil if it doesn't exist
func (m *HubManager) GetHub(listenerID string) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[listenerID]
}

// RemoveHub removes and closes a hub. It reports whether one existed.
func (m *HubManager) RemoveHub(listenerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	hub, ok := m.hubs[listenerID]
	if !ok {
		return false
	}
	hub.Close()
	delete(m.hubs, listenerID)
	m.logger.Info("sse hub removed", slog.String("listener", listenerID))
	return true
}

// CleanupIdleHubs closes hubs that have had no clients for at least idle.
// Broadcasters feeding a closed hub see ErrHubClosed and stop.
func (m *HubManager) CleanupIdleHubs(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	removed := 0
	for id, hub := range m.hubs {
		since, empty := hub.idleSince()
		if empty && now.Sub(since) >= idle {
			hub.Close()
			delete(m.hubs, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("sse idle hubs cleaned up", slog.Int("removed", removed))
	}
	return removed
}

// Close shuts every hub down
func (m *HubManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, id)
	}
}
