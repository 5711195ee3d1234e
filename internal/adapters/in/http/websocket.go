package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"washline/internal/adapters/out/socket"
	"washline/internal/pkg/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsInbound is the only message clients send: a request to watch an order.
type wsInbound struct {
	Action  string `json:"action"`
	OrderID string `json:"order_id"`
}

// WebSocketHandler upgrades /ws connections and feeds watch requests to the
// hub. The token travels in the query string because browsers cannot set
// headers on WebSocket upgrades.
type WebSocketHandler struct {
	hub    *socket.Hub
	issuer *auth.TokenIssuer
	log    *slog.Logger
}

func NewWebSocketHandler(hub *socket.Hub, issuer *auth.TokenIssuer, log *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, issuer: issuer, log: log}
}

// ServeWs handles GET /ws?token=.
func (h *WebSocketHandler) ServeWs(ctx echo.Context) error {
	claims, err := h.issuer.Parse(ctx.QueryParam("token"))
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "unauthorized",
			Message: "invalid or missing token",
		})
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		h.log.WarnContext(ctx.Request().Context(), "websocket upgrade failed",
			slog.Any("error", err))
		return nil
	}

	h.hub.Register(claims.ActorID, conn)
	defer func() {
		h.hub.Unregister(claims.ActorID, conn)
		conn.Close()
	}()

	for {
		var msg wsInbound
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.DebugContext(ctx.Request().Context(), "websocket read failed",
					slog.String("actor", claims.ActorID),
					slog.Any("error", err))
			}
			return nil
		}

		if msg.Action == "watch_order" && msg.OrderID != "" {
			h.hub.WatchOrder(claims.ActorID, msg.OrderID)
		}
	}
}
