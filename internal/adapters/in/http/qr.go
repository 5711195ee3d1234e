package http

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"

	"washline/internal/core/application/usecases/queries"
	"washline/internal/core/domain/model/kernel"
)

const qrImageSize = 256

// qrLabel is the payload encoded into printed order labels. Scanners post it
// back verbatim to /qr/validate.
type qrLabel struct {
	ID  string `json:"id"`
	Num string `json:"num"`
}

// GetOrderQR handles GET /qr/orders/:id. Returns the order's label as
// a PNG image suitable for printing.
func (s *Server) GetOrderQR(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeBadRequest(ctx, "invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	ord, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	payload, err := json.Marshal(qrLabel{ID: ord.ID.String(), Num: ord.OrderNumber})
	if err != nil {
		return writeError(ctx, err)
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, qrImageSize)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.Blob(http.StatusOK, "image/png", png)
}
