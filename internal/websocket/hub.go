// internal/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"khata-service/internal/pkg/jwt"
	"khata-service/internal/pkg/session"
)

// Event types pushed to connected clients. The UI keeps its customer list
// and transaction log current by applying these instead of polling.
const (
	EventCustomerCreated    = "customer.created"
	EventCustomerUpdated    = "customer.updated"
	EventCustomerDeleted    = "customer.deleted"
	EventTransactionRecorded = "transaction.recorded"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub fans ledger events out to every open connection of the owning
// shopkeeper. Connections of other shops never see them.
type Hub struct {
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *shopEvent

	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	logger         *zap.Logger
}

type shopEvent struct {
	shopkeeperID string
	payload      []byte
}

func NewHub(jwtManager *jwt.Manager, sessionManager *session.Manager, logger *zap.Logger) *Hub {
	return &Hub{
		clients:        make(map[string]map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan *shopEvent, 256),
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		logger:         logger,
	}
}

// Authenticate validates the connection token and returns the shopkeeper id
// it belongs to. The session check means a logged-out token cannot open a
// live feed.
func (h *Hub) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := h.jwtManager.Verify(token)
	if err != nil {
		return "", err
	}
	if _, err := h.sessionManager.Validate(ctx, claims.ShopkeeperID, claims.ID); err != nil {
		return "", err
	}
	return claims.ShopkeeperID, nil
}

// BroadcastLedgerEvent queues an event for every connection of the given
// shopkeeper. Safe to call from any goroutine; drops the event if the hub's
// queue is full rather than blocking a request handler.
func (h *Hub) BroadcastLedgerEvent(shopkeeperID, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal ledger event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- &shopEvent{shopkeeperID: shopkeeperID, payload: payload}:
	default:
		h.logger.Warn("ledger event dropped, broadcast queue full",
			zap.String("event", eventType))
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case ev := <-h.broadcast:
			h.deliver(ev)
		}
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.shopkeeperID] == nil {
		h.clients[c.shopkeeperID] = make(map[*Client]bool)
	}
	h.clients[c.shopkeeperID][c] = true

	h.logger.Info("websocket client connected",
		zap.String("shopkeeper_id", c.shopkeeperID),
		zap.Int("connections", len(h.clients[c.shopkeeperID])))
}

func (h *Hub) unregisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[c.shopkeeperID]
	if !ok || !conns[c] {
		return
	}

	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, c.shopkeeperID)
	}
}

func (h *Hub) deliver(ev *shopEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[ev.shopkeeperID] {
		select {
		case client.send <- ev.payload:
		default:
			// slow consumer, let its write pump die
			go client.Close()
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conns := range h.clients {
		for client := range conns {
			close(client.send)
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}

// ConnectionCount reports how many live connections a shopkeeper has.
func (h *Hub) ConnectionCount(shopkeeperID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[shopkeeperID])
}
