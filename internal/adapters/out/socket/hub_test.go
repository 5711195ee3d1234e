package socket_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"washline/internal/adapters/out/socket"
	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/notification"
	"washline/internal/core/domain/model/order"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// dialPair returns the server and client side of one live websocket
// connection backed by a test HTTP server.
func dialPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverConns <- conn
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	clientConn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-serverConns
	t.Cleanup(func() { serverConn.Close() })

	return serverConn, clientConn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(payload, &msg))
	return msg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHub_PublishStatusUpdated_ReachesWatchers(t *testing.T) {
	hub := socket.NewHub(discardLogger())
	orderID := kernel.NewUUID()

	serverConn, clientConn := dialPair(t)
	hub.Register("customer-1", serverConn)
	hub.WatchOrder("customer-1", orderID.String())

	hub.PublishStatusUpdated(orderID, "ORD-0A1B2C3D", order.PickedUp)

	msg := readMessage(t, clientConn)
	assert.Equal(t, "status_updated", msg["event"])
	assert.Equal(t, orderID.String(), msg["order_id"])
	assert.Equal(t, "ORD-0A1B2C3D", msg["order_number"])
	assert.Equal(t, "picked_up", msg["status"])
}

func TestHub_PublishStatusUpdated_SkipsNonWatchers(t *testing.T) {
	hub := socket.NewHub(discardLogger())
	watched := kernel.NewUUID()
	other := kernel.NewUUID()

	serverConn, clientConn := dialPair(t)
	hub.Register("customer-1", serverConn)
	hub.WatchOrder("customer-1", watched.String())

	hub.PublishStatusUpdated(other, "ORD-FFFFFFFF", order.Ready)
	hub.PublishStatusUpdated(watched, "ORD-0A1B2C3D", order.Ready)

	// Only the watched order's update arrives.
	msg := readMessage(t, clientConn)
	assert.Equal(t, watched.String(), msg["order_id"])
}

func TestHub_PublishLegAvailable_TargetsOneCourier(t *testing.T) {
	hub := socket.NewHub(discardLogger())
	courierID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	courierServer, courierClient := dialPair(t)
	bystanderServer, bystanderClient := dialPair(t)
	hub.Register(courierID.String(), courierServer)
	hub.Register("bystander", bystanderServer)

	hub.PublishLegAvailable(courierID, orderID, "ORD-0A1B2C3D", notification.TypePickupAvailable)

	msg := readMessage(t, courierClient)
	assert.Equal(t, "leg_available", msg["event"])
	assert.Equal(t, "pickup_available", msg["notification_type"])

	require.NoError(t, bystanderClient.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := bystanderClient.ReadMessage()
	require.Error(t, err, "bystander must not receive the offer")
}

func TestHub_PublishToAbsentCourierIsNoOp(t *testing.T) {
	hub := socket.NewHub(discardLogger())

	// Nothing connected; must not panic or block.
	hub.PublishLegAvailable(kernel.NewUUID(), kernel.NewUUID(), "ORD-0A1B2C3D", notification.TypeDeliveryAvailable)
	hub.PublishStatusUpdated(kernel.NewUUID(), "ORD-0A1B2C3D", order.Delivered)
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := socket.NewHub(discardLogger())
	orderID := kernel.NewUUID()

	serverConn, clientConn := dialPair(t)
	hub.Register("customer-1", serverConn)
	hub.WatchOrder("customer-1", orderID.String())
	hub.Unregister("customer-1", serverConn)

	hub.PublishStatusUpdated(orderID, "ORD-0A1B2C3D", order.Cleaning)

	require.NoError(t, clientConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := clientConn.ReadMessage()
	require.Error(t, err)
}

func TestHub_StaleUnregisterKeepsReconnectedClient(t *testing.T) {
	hub := socket.NewHub(discardLogger())
	orderID := kernel.NewUUID()

	// The client reconnects before the old connection's teardown runs.
	oldServerConn, _ := dialPair(t)
	newServerConn, newClientConn := dialPair(t)
	hub.Register("customer-1", oldServerConn)
	hub.Register("customer-1", newServerConn)
	hub.Unregister("customer-1", oldServerConn)

	hub.WatchOrder("customer-1", orderID.String())
	hub.PublishStatusUpdated(orderID, "ORD-0A1B2C3D", order.Ready)

	msg := readMessage(t, newClientConn)
	assert.Equal(t, "status_updated", msg["event"])
	assert.Equal(t, orderID.String(), msg["order_id"])
}
