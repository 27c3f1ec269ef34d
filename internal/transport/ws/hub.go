package ws

import (
	"log/slog"
	"sync"

	"github.com/mcoot/seabattle-go/internal/dependencies/broadcast"
	"github.com/mcoot/seabattle-go/internal/model"
)

// Hub tracks connected clients and which player each one is bound to.
// Sends never block: a client whose buffer is full loses the message.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	players map[model.PlayerID]*Client
	logger  *slog.Logger
}

// Ensure Hub implements Broadcaster
var _ broadcast.Broadcaster = (*Hub)(nil)

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		players: make(map[model.PlayerID]*Client),
		logger:  logger.With(slog.String("component", "ws-hub")),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client registered",
		slog.String("conn_id", c.ID()),
		slog.Int("total_clients", count))
}

// Unregister removes a client and closes its send queue. It returns the player
// the client was bound to, if the binding had not moved to a newer connection.
func (h *Hub) Unregister(c *Client) (model.PlayerID, bool) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return "", false
	}
	delete(h.clients, c)
	close(c.send)

	playerID := c.playerID
	bound := playerID != "" && h.players[playerID] == c
	if bound {
		delete(h.players, playerID)
	}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client unregistered",
		slog.String("conn_id", c.ID()),
		slog.String("player_id", string(playerID)),
		slog.Int("total_clients", count))
	return playerID, bound
}

// Bind associates the client with a player. A previous connection for the
// same player stops receiving that player's events. If the client was bound to
// another player, that player is returned so the caller can release their seat.
func (h *Hub) Bind(c *Client, playerID model.PlayerID) (displaced model.PlayerID) {
	h.mu.Lock()
	if old, ok := h.players[playerID]; ok && old != c {
		old.playerID = ""
	}
	if c.playerID != "" && c.playerID != playerID && h.players[c.playerID] == c {
		displaced = c.playerID
		delete(h.players, displaced)
	}
	c.playerID = playerID
	h.players[playerID] = c
	h.mu.Unlock()

	if displaced != "" {
		h.logger.Info("ws client rebound",
			slog.String("conn_id", c.ID()),
			slog.String("player_id", string(playerID)),
			slog.String("displaced_player_id", string(displaced)))
	}
	return displaced
}

// PlayerOf returns the player the client is bound to
func (h *Hub) PlayerOf(c *Client) (model.PlayerID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.playerID, c.playerID != ""
}

// SendToPlayer delivers an event to the player's connection, if any
func (h *Hub) SendToPlayer(playerID model.PlayerID, event model.Event) {
	msg, err := EncodeEvent(event)
	if err != nil {
		h.logger.Error("ws failed to encode event", slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.players[playerID]
	if !ok {
		return
	}
	h.enqueue(c, msg)
}

// SendToAll delivers an event to every connected client
func (h *Hub) SendToAll(event model.Event) {
	msg, err := EncodeEvent(event)
	if err != nil {
		h.logger.Error("ws failed to encode event", slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for c := range h.clients {
		if !h.enqueue(c, msg) {
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("ws broadcast partial failure",
			slog.String("type", msg.Type),
			slog.Int("sent", len(h.clients)-dropped),
			slog.Int("dropped", dropped))
	}
}

// Send delivers a message to one client
func (h *Hub) Send(c *Client, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	h.enqueue(c, msg)
}

// enqueue requires h.mu to be held
func (h *Hub) enqueue(c *Client, msg Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		h.logger.Warn("ws message dropped - client buffer full",
			slog.String("conn_id", c.ID()),
			slog.String("player_id", string(c.playerID)),
			slog.String("type", msg.Type))
		return false
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	count := len(h.clients)
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	clear(h.players)
	h.logger.Info("ws hub stopped", slog.Int("disconnected_clients", count))
}
