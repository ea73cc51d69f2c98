// Package ws is the notification transport: a websocket hub that
// authenticates connections against the user read model and fans published
// payloads out to connected sessions.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// SessionVerifier is satisfied by the user read model.
type SessionVerifier interface {
	VerifySession(id, token string) bool
}

// Hub tracks connected sessions keyed by their authenticated user identity.
// It implements notify.Transport.
type Hub struct {
	verifier SessionVerifier
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(verifier SessionVerifier, logger *slog.Logger) *Hub {
	return &Hub{
		verifier: verifier,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the SPA origin; auth happens via
			// the session token, not the Origin header.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP handles the connection lifecycle: verify the session from the
// query parameters, upgrade, then serve until the peer goes away. A failed
// verification never reaches the open state.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("login")
	token := r.URL.Query().Get("token")

	if !h.verifier.VerifySession(identity, token) {
		h.logger.Warn("ws: rejected connection", "identity", identity)
		http.Error(w, "invalid session", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws: upgrade failed", "identity", identity, "error", err)
		return
	}

	c := &client{
		hub:      h,
		identity: identity,
		conn:     conn,
		send:     make(chan []byte, sendQueueSize),
	}

	h.register(c)
	h.logger.Info("ws: client connected", "identity", identity, "connected", h.connectionCount())
	h.broadcastPresence()

	go c.writePump()
	go c.readPump()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	h.logger.Info("ws: client disconnected", "identity", c.identity, "connected", h.connectionCount())
	h.broadcastPresence()
}

// Broadcast queues the payload for every connected session. A session whose
// queue is full is skipped rather than blocking the write path.
func (h *Hub) Broadcast(payload []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(payload)
	}
	return nil
}

// SendToIdentity queues the payload for every session authenticated as the
// given identity. No matching session means nobody to notify, not an error.
func (h *Hub) SendToIdentity(identity string, payload []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.identity == identity {
			c.enqueue(payload)
		}
	}
	return nil
}

// ListConnectedIdentities returns the distinct authenticated identities of
// the current connections. The roster is derived live, never cached.
func (h *Hub) ListConnectedIdentities() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[string]struct{}, len(h.clients))
	identities := make([]string, 0, len(h.clients))
	for c := range h.clients {
		if _, ok := seen[c.identity]; ok {
			continue
		}
		seen[c.identity] = struct{}{}
		identities = append(identities, c.identity)
	}
	return identities
}

type presenceMessage struct {
	EntityKind string   `json:"entityKind"`
	Identities []string `json:"identities"`
}

// broadcastPresence pushes the current roster to everyone. Fired on every
// successful connect and every disconnect.
func (h *Hub) broadcastPresence() {
	payload, err := json.Marshal(presenceMessage{
		EntityKind: "presence",
		Identities: h.ListConnectedIdentities(),
	})
	if err != nil {
		h.logger.Error("ws: failed to encode presence roster", "error", err)
		return
	}
	_ = h.Broadcast(payload)
}

func (h *Hub) connectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
