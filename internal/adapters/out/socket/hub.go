// Package socket maintains the realtime push channel to couriers and
// customers. Delivery is fire-and-forget: a client that is offline or slow
// simply misses the push and catches up by polling.
package socket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/notification"
	"washline/internal/core/domain/model/order"
)

// statusUpdatedMessage notifies watchers of an order that its status changed.
type statusUpdatedMessage struct {
	Event       string `json:"event"`
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
}

// legAvailableMessage notifies a courier that an order leg opened up.
type legAvailableMessage struct {
	Event            string `json:"event"`
	OrderID          string `json:"order_id"`
	OrderNumber      string `json:"order_number"`
	NotificationType string `json:"notification_type"`
}

// client is one connected websocket with its order watch list.
// Writes are serialized per connection; gorilla conns do not allow
// concurrent writers.
type client struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	orders map[string]bool
}

func (c *client) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub manages all connected websocket clients, keyed by the authenticated
// actor id. It implements the realtime side of EventPublisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	log     *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
}

// Register adds a client connection. A second connection for the same actor
// replaces the first.
func (h *Hub) Register(actorID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[actorID] = &client{
		conn:   conn,
		orders: make(map[string]bool),
	}
	h.log.Debug("websocket client registered", "actorID", actorID)
}

// Unregister removes a client connection. The entry is only removed while
// it still holds the given connection: after a reconnect the actor's entry
// belongs to the new connection, and the old connection's teardown must not
// sever it.
func (h *Hub) Unregister(actorID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[actorID]; ok && c.conn == conn {
		delete(h.clients, actorID)
		h.log.Debug("websocket client unregistered", "actorID", actorID)
	}
}

// WatchOrder subscribes a connected client to one order's status updates.
func (h *Hub) WatchOrder(actorID, orderID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[actorID]; ok {
		c.mu.Lock()
		c.orders[orderID] = true
		c.mu.Unlock()
	}
}

// PublishStatusUpdated pushes the status change to every client watching
// the order.
func (h *Hub) PublishStatusUpdated(orderID kernel.UUID, orderNumber string, status order.Status) {
	payload, err := json.Marshal(statusUpdatedMessage{
		Event:       "status_updated",
		OrderID:     orderID.String(),
		OrderNumber: orderNumber,
		Status:      status.String(),
	})
	if err != nil {
		h.log.Error("marshal status update", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for actorID, c := range h.clients {
		c.mu.Lock()
		watching := c.orders[orderID.String()]
		c.mu.Unlock()
		if !watching {
			continue
		}
		if err := c.send(payload); err != nil {
			h.log.Debug("websocket push failed", "actorID", actorID, "error", err)
		}
	}
}

// PublishLegAvailable pushes an open-leg offer to one courier. A courier
// without a live connection misses the push and finds the offer by polling
// the available orders endpoint.
func (h *Hub) PublishLegAvailable(courierID, orderID kernel.UUID, orderNumber string, t notification.Type) {
	payload, err := json.Marshal(legAvailableMessage{
		Event:            "leg_available",
		OrderID:          orderID.String(),
		OrderNumber:      orderNumber,
		NotificationType: t.String(),
	})
	if err != nil {
		h.log.Error("marshal leg offer", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[courierID.String()]
	if !ok {
		return
	}
	if err := c.send(payload); err != nil {
		h.log.Debug("websocket push failed", "actorID", courierID.String(), "error", err)
	}
}
