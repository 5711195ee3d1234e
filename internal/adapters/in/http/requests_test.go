package http

import (
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"washline/internal/adapters/out/socket"
	"washline/internal/core/application/usecases/commands"
	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/order"
	"washline/internal/pkg/auth"
)

func bindJSON(t *testing.T, body string, target any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(nethttp.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := e.NewContext(req, httptest.NewRecorder())
	require.NoError(t, ctx.Bind(target))
}

func TestAcceptOrderRequest_Binding(t *testing.T) {
	t.Run("should parse the documented body shape", func(t *testing.T) {
		notificationID := kernel.NewUUID().String()
		var req AcceptOrderRequest
		bindJSON(t, `{"notification_id":"`+notificationID+`","type":"pickup_available"}`, &req)

		assert.Equal(t, notificationID, req.NotificationID)
		assert.Equal(t, "pickup_available", req.legType())
	})

	t.Run("should accept notification_type as an alias", func(t *testing.T) {
		var req AcceptOrderRequest
		bindJSON(t, `{"notification_type":"delivery_available"}`, &req)

		assert.Equal(t, "delivery_available", req.legType())
	})

	t.Run("should prefer type when both names are present", func(t *testing.T) {
		var req AcceptOrderRequest
		bindJSON(t, `{"type":"pickup_available","notification_type":"delivery_available"}`, &req)

		assert.Equal(t, "pickup_available", req.legType())
	})
}

func TestScanRequest_Binding(t *testing.T) {
	t.Run("should parse the documented body shape", func(t *testing.T) {
		var req ScanRequest
		bindJSON(t, `{"checkpoint":"picked_up","item_count":4,"signature_data":"c2ln","notes":"door code 4711"}`, &req)

		assert.Equal(t, "picked_up", req.checkpointName())
		require.NotNil(t, req.ItemCount)
		assert.Equal(t, 4, *req.ItemCount)
		require.NotNil(t, req.SignatureData)
		assert.Equal(t, "c2ln", *req.SignatureData)
		assert.Equal(t, "door code 4711", req.Notes)
	})

	t.Run("should accept checkpoint_type as an alias", func(t *testing.T) {
		var req ScanRequest
		bindJSON(t, `{"checkpoint_type":"received","item_count":4}`, &req)

		assert.Equal(t, "received", req.checkpointName())
	})
}

func TestValidateQRRequest_Binding(t *testing.T) {
	t.Run("should parse the documented body shape", func(t *testing.T) {
		var req ValidateQRRequest
		bindJSON(t, `{"qr_data":"{\"id\":\"abc\",\"num\":\"ORD-1001\"}"}`, &req)

		assert.Equal(t, `{"id":"abc","num":"ORD-1001"}`, req.label())
	})

	t.Run("should accept payload as an alias", func(t *testing.T) {
		var req ValidateQRRequest
		bindJSON(t, `{"payload":"{\"id\":\"abc\",\"num\":\"ORD-1001\"}"}`, &req)

		assert.Equal(t, `{"id":"abc","num":"ORD-1001"}`, req.label())
	})
}

func TestChangeStatusRequest_CarriesNotes(t *testing.T) {
	var req ChangeStatusRequest
	bindJSON(t, `{"status":"ready","notes":"cleaned ahead of schedule"}`, &req)

	assert.Equal(t, "ready", req.Status)
	assert.Equal(t, "cleaned ahead of schedule", req.Notes)

	next, err := order.ParseStatus(req.Status)
	require.NoError(t, err)

	cmd, err := commands.NewChangeOrderStatusCommand(kernel.NewUUID(), next, req.Notes)
	require.NoError(t, err)
	assert.Equal(t, "cleaned ahead of schedule", cmd.Notes())
}

func TestRegisterRoutes_ServesBareAndVersionedPaths(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	wsHandler := NewWebSocketHandler(socket.NewHub(logger), issuer, logger)

	server := &Server{wsHandler: wsHandler}
	e := echo.New()
	server.RegisterRoutes(e, issuer)

	registered := make(map[string]bool)
	for _, route := range e.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /qr/courier/accept/:orderId",
		"POST /qr/scan/:orderId",
		"POST /qr/validate",
		"GET /qr/courier/available",
		"PATCH /orders/:id/status",
		"POST /api/v1/qr/validate",
		"GET /api/v1/orders/:id",
	} {
		assert.True(t, registered[want], "route %s must be mounted", want)
	}
}
