// Package http exposes the dispatch engine's REST surface on echo.
// Handlers translate between JSON and commands/queries; every business rule
// lives below this layer.
package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"washline/internal/core/application/usecases/commands"
	"washline/internal/core/application/usecases/queries"
	"washline/internal/core/domain/model/checkpoint"
	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/notification"
	"washline/internal/core/domain/model/order"
	"washline/internal/pkg/auth"
	"washline/internal/pkg/metrics"
)

// Server wires the REST routes to command and query handlers.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	createCourierHandler    commands.CreateCourierCommandHandler
	createLocationHandler   commands.CreateLocationCommandHandler
	acceptOrderHandler      commands.AcceptOrderCommandHandler
	recordCheckpointHandler commands.RecordCheckpointCommandHandler
	changeStatusHandler     commands.ChangeOrderStatusCommandHandler

	// Query handlers
	getAvailableOrdersHandler queries.GetAvailableOrdersQueryHandler
	getOrderHandler           queries.GetOrderQueryHandler
	validateQRHandler         queries.ValidateQRQueryHandler
	getAllCouriersHandler     queries.GetAllCouriersQueryHandler
	getLocationsHandler       queries.GetLocationsQueryHandler

	wsHandler *WebSocketHandler
}

// NewServer creates the HTTP server with its command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	createCourierHandler commands.CreateCourierCommandHandler,
	createLocationHandler commands.CreateLocationCommandHandler,
	acceptOrderHandler commands.AcceptOrderCommandHandler,
	recordCheckpointHandler commands.RecordCheckpointCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	getAvailableOrdersHandler queries.GetAvailableOrdersQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	validateQRHandler queries.ValidateQRQueryHandler,
	getAllCouriersHandler queries.GetAllCouriersQueryHandler,
	getLocationsHandler queries.GetLocationsQueryHandler,
	wsHandler *WebSocketHandler,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		createCourierHandler:      createCourierHandler,
		createLocationHandler:     createLocationHandler,
		acceptOrderHandler:        acceptOrderHandler,
		recordCheckpointHandler:   recordCheckpointHandler,
		changeStatusHandler:       changeStatusHandler,
		getAvailableOrdersHandler: getAvailableOrdersHandler,
		getOrderHandler:           getOrderHandler,
		validateQRHandler:         validateQRHandler,
		getAllCouriersHandler:     getAllCouriersHandler,
		getLocationsHandler:       getLocationsHandler,
		wsHandler:                 wsHandler,
	}
}

// RegisterRoutes mounts all routes on the echo instance. The API is served
// on bare paths, the surface the mobile client calls, and again under
// /api/v1 for clients that address it by versioned prefix.
func (s *Server) RegisterRoutes(e *echo.Echo, issuer *auth.TokenIssuer) {
	e.Use(middleware.Recover())
	e.Use(measureRequests())

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/ws", s.wsHandler.ServeWs)

	s.mountAPI(e.Group("", Authenticate(issuer)))
	s.mountAPI(e.Group("/api/v1", Authenticate(issuer)))
}

func (s *Server) mountAPI(api *echo.Group) {
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/status", s.ChangeOrderStatus,
		Authorize(auth.RoleDispatcher, auth.RoleFacility))

	api.POST("/couriers", s.CreateCourier, Authorize(auth.RoleDispatcher))
	api.GET("/couriers", s.GetCouriers, Authorize(auth.RoleDispatcher))

	api.POST("/locations", s.CreateLocation)
	api.GET("/locations", s.GetLocations)

	api.GET("/qr/courier/available", s.GetAvailableOrders, Authorize(auth.RoleDriver))
	api.POST("/qr/courier/accept/:orderId", s.AcceptOrder, Authorize(auth.RoleDriver))
	api.POST("/qr/scan/:orderId", s.RecordCheckpoint,
		Authorize(auth.RoleDriver, auth.RoleFacility))
	api.POST("/qr/validate", s.ValidateQR)
	api.GET("/qr/orders/:id", s.GetOrderQR)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// NewOrderRequest is the body of POST /orders.
type NewOrderRequest struct {
	PickupLocationID   string    `json:"pickup_location_id"`
	DeliveryLocationID string    `json:"delivery_location_id"`
	ItemCount          int       `json:"item_count"`
	IsExpress          bool      `json:"is_express"`
	SubtotalCents      int64     `json:"subtotal_cents"`
	DeliveryFeeCents   int64     `json:"delivery_fee_cents"`
	ExpressFeeCents    int64     `json:"express_fee_cents"`
	TaxCents           int64     `json:"tax_cents"`
	ScheduledPickupAt  time.Time `json:"scheduled_pickup_at"`
}

// NewOrderResponse is the body returned by POST /orders.
type NewOrderResponse struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
}

// CreateOrder handles POST /orders. The authenticated actor is the
// ordering customer.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req NewOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}

	customerID, err := kernel.UUIDFromString(actorID(ctx))
	if err != nil {
		return writeBadRequest(ctx, "token does not identify a customer")
	}

	pickupLocationID, err := kernel.UUIDFromString(req.PickupLocationID)
	if err != nil {
		return writeBadRequest(ctx, "invalid pickup_location_id")
	}

	deliveryLocationID, err := kernel.UUIDFromString(req.DeliveryLocationID)
	if err != nil {
		return writeBadRequest(ctx, "invalid delivery_location_id")
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, customerID, pickupLocationID, deliveryLocationID,
		req.ItemCount, req.IsExpress,
		req.SubtotalCents, req.DeliveryFeeCents, req.ExpressFeeCents, req.TaxCents,
		req.ScheduledPickupAt,
	)
	if err != nil {
		return writeBadRequest(ctx, err.Error())
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	metrics.OrdersCreatedTotal.Inc()

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	created, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, NewOrderResponse{
		ID:          created.ID.String(),
		OrderNumber: created.OrderNumber,
		Status:      created.Status,
	})
}

// GetOrder handles GET /orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeBadRequest(ctx, "invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderJSON(response))
}

// ChangeStatusRequest is the body of PATCH /orders/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// ChangeOrderStatus handles PATCH /orders/:id/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeBadRequest(ctx, "invalid order id")
	}

	var req ChangeStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}

	next, err := order.ParseStatus(req.Status)
	if err != nil {
		return writeBadRequest(ctx, "unknown status: "+req.Status)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, next, req.Notes)
	if err != nil {
		return writeBadRequest(ctx, err.Error())
	}

	if err = s.changeStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// NewCourierRequest is the body of POST /couriers.
type NewCourierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CreateCourier handles POST /couriers.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var req NewCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}

	courierID := kernel.NewUUID()
	cmd, err := commands.NewCreateCourierCommand(courierID, req.Name, req.Phone)
	if err != nil {
		return writeBadRequest(ctx, err.Error())
	}

	if err = s.createCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": courierID.String()})
}

// CourierJSON is one courier in the GET /couriers response.
type CourierJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

// GetCouriers handles GET /couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	couriers, err := s.getAllCouriersHandler.Handle(ctx.Request().Context(), queries.NewGetAllCouriersQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]CourierJSON, len(couriers))
	for i, c := range couriers {
		response[i] = CourierJSON{
			ID:       c.ID.String(),
			Name:     c.Name,
			Phone:    c.Phone,
			IsActive: c.IsActive,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// NewLocationRequest is the body of POST /locations.
type NewLocationRequest struct {
	Label     string   `json:"label"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CreateLocation handles POST /locations. The authenticated actor is
// the owning customer.
func (s *Server) CreateLocation(ctx echo.Context) error {
	var req NewLocationRequest
	if err := ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}

	customerID, err := kernel.UUIDFromString(actorID(ctx))
	if err != nil {
		return writeBadRequest(ctx, "token does not identify a customer")
	}

	locationID := kernel.NewUUID()
	cmd, err := commands.NewCreateLocationCommand(
		locationID, customerID, req.Label, req.Address, req.Latitude, req.Longitude)
	if err != nil {
		return writeBadRequest(ctx, err.Error())
	}

	if err = s.createLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": locationID.String()})
}

// LocationJSON is one saved address in the GET /locations response.
type LocationJSON struct {
	ID        string   `json:"id"`
	Label     string   `json:"label,omitempty"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// GetLocations handles GET /locations. The authenticated customer
// sees their own address book.
func (s *Server) GetLocations(ctx echo.Context) error {
	customerID, err := kernel.UUIDFromString(actorID(ctx))
	if err != nil {
		return writeBadRequest(ctx, "token does not identify a customer")
	}

	query, err := queries.NewGetLocationsQuery(customerID)
	if err != nil {
		return writeError(ctx, err)
	}

	results, err := s.getLocationsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	locations := make([]LocationJSON, 0, len(results))
	for _, result := range results {
		locations = append(locations, LocationJSON{
			ID:        result.ID.String(),
			Label:     result.Label,
			Address:   result.Address,
			Latitude:  result.Latitude,
			Longitude: result.Longitude,
		})
	}

	return ctx.JSON(http.StatusOK, locations)
}

// AvailableOrderJSON is one open offer in the available orders response.
type AvailableOrderJSON struct {
	OrderID           string    `json:"order_id"`
	OrderNumber       string    `json:"order_number"`
	Status            string    `json:"status"`
	NotificationType  string    `json:"notification_type"`
	ItemCount         int       `json:"item_count"`
	IsExpress         bool      `json:"is_express"`
	ScheduledPickupAt time.Time `json:"scheduled_pickup_at"`
	SentAt            time.Time `json:"sent_at"`
}

// GetAvailableOrders handles GET /qr/courier/available?type=.
// The authenticated driver sees the offers they can still accept.
func (s *Server) GetAvailableOrders(ctx echo.Context) error {
	t, err := notification.ParseType(ctx.QueryParam("type"))
	if err != nil {
		return writeBadRequest(ctx, "unknown notification type: "+ctx.QueryParam("type"))
	}

	courierID, err := kernel.UUIDFromString(actorID(ctx))
	if err != nil {
		return writeBadRequest(ctx, "token does not identify a courier")
	}

	query, err := queries.NewGetAvailableOrdersQuery(courierID, t)
	if err != nil {
		return writeError(ctx, err)
	}

	offers, err := s.getAvailableOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]AvailableOrderJSON, len(offers))
	for i, offer := range offers {
		response[i] = AvailableOrderJSON{
			OrderID:           offer.OrderID.String(),
			OrderNumber:       offer.OrderNumber,
			Status:            offer.Status,
			NotificationType:  offer.NotificationType,
			ItemCount:         offer.ItemCount,
			IsExpress:         offer.IsExpress,
			ScheduledPickupAt: offer.ScheduledPickupAt,
			SentAt:            offer.SentAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// AcceptOrderRequest is the body of POST /qr/courier/accept/:orderId.
// The client sends its offer's id and the leg type. The arbiter locates the
// offer by its (order, type, courier) key, so the id is checked for form
// only. `notification_type` is accepted as an alias for `type`.
type AcceptOrderRequest struct {
	NotificationID   string `json:"notification_id"`
	Type             string `json:"type"`
	NotificationType string `json:"notification_type"`
}

func (r AcceptOrderRequest) legType() string {
	if r.Type != "" {
		return r.Type
	}
	return r.NotificationType
}

// AcceptOrder handles POST /qr/courier/accept/:orderId.
// The authenticated driver attempts to claim the leg named by the body.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return writeBadRequest(ctx, "invalid order id")
	}

	var req AcceptOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}

	if req.NotificationID != "" {
		if _, err = kernel.UUIDFromString(req.NotificationID); err != nil {
			return writeBadRequest(ctx, "invalid notification id")
		}
	}

	t, err := notification.ParseType(req.legType())
	if err != nil {
		return writeBadRequest(ctx, "unknown notification type: "+req.legType())
	}

	courierID, err := kernel.UUIDFromString(actorID(ctx))
	if err != nil {
		return writeBadRequest(ctx, "token does not identify a courier")
	}

	cmd, err := commands.NewAcceptOrderCommand(orderID, courierID, t)
	if err != nil {
		return writeBadRequest(ctx, err.Error())
	}

	if err = s.acceptOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		metrics.AcceptanceAttemptsTotal.WithLabelValues("lost").Inc()
		return writeError(ctx, err)
	}

	metrics.AcceptanceAttemptsTotal.WithLabelValues("won").Inc()
	return ctx.NoContent(http.StatusNoContent)
}

// ScanRequest is the body of POST /qr/scan/:orderId. `checkpoint_type` is
// accepted as an alias for `checkpoint`.
type ScanRequest struct {
	Checkpoint     string   `json:"checkpoint"`
	CheckpointType string   `json:"checkpoint_type"`
	ItemCount      *int     `json:"item_count"`
	SignatureData  *string  `json:"signature_data"`
	Photos         []string `json:"photos"`
	Notes          string   `json:"notes"`
}

func (r ScanRequest) checkpointName() string {
	if r.Checkpoint != "" {
		return r.Checkpoint
	}
	return r.CheckpointType
}

// ScanResponse is the body returned by a successful scan.
type ScanResponse struct {
	Status   string   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
}

// RecordCheckpoint handles POST /qr/scan/:orderId. The authenticated
// driver or facility worker records a checkpoint scan.
func (s *Server) RecordCheckpoint(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return writeBadRequest(ctx, "invalid order id")
	}

	var req ScanRequest
	if err = ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}

	t, err := checkpoint.ParseType(req.checkpointName())
	if err != nil {
		return writeBadRequest(ctx, "unknown checkpoint type: "+req.checkpointName())
	}

	actor, err := kernel.UUIDFromString(actorID(ctx))
	if err != nil {
		return writeBadRequest(ctx, "token does not identify an actor")
	}

	cmd, err := commands.NewRecordCheckpointCommand(
		orderID, actor, t, req.ItemCount, req.SignatureData, req.Photos, req.Notes)
	if err != nil {
		return writeBadRequest(ctx, err.Error())
	}

	warnings, err := s.recordCheckpointHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		metrics.CheckpointsRejectedTotal.Inc()
		return writeError(ctx, err)
	}

	metrics.CheckpointsRecordedTotal.WithLabelValues(t.String()).Inc()

	return ctx.JSON(http.StatusOK, ScanResponse{
		Status:   t.TargetStatus().String(),
		Warnings: warnings,
	})
}

// ValidateQRRequest is the body of POST /qr/validate. `payload` is accepted
// as an alias for `qr_data`.
type ValidateQRRequest struct {
	QRData  string `json:"qr_data"`
	Payload string `json:"payload"`
}

func (r ValidateQRRequest) label() string {
	if r.QRData != "" {
		return r.QRData
	}
	return r.Payload
}

// ValidateQRResponse is the verdict on a scanned label.
type ValidateQRResponse struct {
	Valid       bool   `json:"valid"`
	OrderID     string `json:"order_id,omitempty"`
	OrderNumber string `json:"order_number,omitempty"`
	Status      string `json:"status,omitempty"`
}

// ValidateQR handles POST /qr/validate. A malformed payload is an
// invalid label, not a request error.
func (s *Server) ValidateQR(ctx echo.Context) error {
	var req ValidateQRRequest
	if err := ctx.Bind(&req); err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}

	query, err := queries.NewValidateQRQuery(req.label())
	if err != nil {
		return ctx.JSON(http.StatusOK, ValidateQRResponse{Valid: false})
	}

	result, err := s.validateQRHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := ValidateQRResponse{Valid: result.Valid}
	if result.Valid {
		response.OrderID = result.OrderID.String()
		response.OrderNumber = result.OrderNumber
		response.Status = result.Status
	}

	return ctx.JSON(http.StatusOK, response)
}

// OrderJSON is the order detail representation.
type OrderJSON struct {
	ID                 string           `json:"id"`
	OrderNumber        string           `json:"order_number"`
	Status             string           `json:"status"`
	CustomerID         string           `json:"customer_id"`
	PickupLocationID   string           `json:"pickup_location_id"`
	DeliveryLocationID string           `json:"delivery_location_id"`
	ConfirmedItemCount int              `json:"confirmed_item_count"`
	PickupItemCount    *int             `json:"pickup_item_count,omitempty"`
	ReceptionItemCount *int             `json:"reception_item_count,omitempty"`
	IsExpress          bool             `json:"is_express"`
	TotalCents         int64            `json:"total_cents"`
	PickupDriverID     *string          `json:"pickup_driver_id,omitempty"`
	DeliveryDriverID   *string          `json:"delivery_driver_id,omitempty"`
	ScheduledPickupAt  time.Time        `json:"scheduled_pickup_at"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	Checkpoints        []CheckpointJSON `json:"checkpoints"`
}

// CheckpointJSON is one scan in the order's checkpoint history.
type CheckpointJSON struct {
	ID             string    `json:"id"`
	CheckpointType string    `json:"checkpoint_type"`
	ActorID        string    `json:"actor_id"`
	ItemCount      *int      `json:"item_count,omitempty"`
	HasSignature   bool      `json:"has_signature"`
	Photos         []string  `json:"photos,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	RecordedAt     time.Time `json:"recorded_at"`
}

func toOrderJSON(response queries.GetOrderQueryResponse) OrderJSON {
	checkpoints := make([]CheckpointJSON, len(response.Checkpoints))
	for i, cp := range response.Checkpoints {
		checkpoints[i] = CheckpointJSON{
			ID:             cp.ID.String(),
			CheckpointType: cp.CheckpointType,
			ActorID:        cp.ActorID.String(),
			ItemCount:      cp.ItemCount,
			HasSignature:   cp.HasSignature,
			Photos:         cp.Photos,
			Notes:          cp.Notes,
			RecordedAt:     cp.RecordedAt,
		}
	}

	return OrderJSON{
		ID:                 response.ID.String(),
		OrderNumber:        response.OrderNumber,
		Status:             response.Status,
		CustomerID:         response.CustomerID.String(),
		PickupLocationID:   response.PickupLocationID.String(),
		DeliveryLocationID: response.DeliveryLocationID.String(),
		ConfirmedItemCount: response.ConfirmedItemCount,
		PickupItemCount:    response.PickupItemCount,
		ReceptionItemCount: response.ReceptionItemCount,
		IsExpress:          response.IsExpress,
		TotalCents:         response.TotalCents,
		PickupDriverID:     optionalString(response.PickupDriverID),
		DeliveryDriverID:   optionalString(response.DeliveryDriverID),
		ScheduledPickupAt:  response.ScheduledPickupAt,
		CreatedAt:          response.CreatedAt,
		UpdatedAt:          response.UpdatedAt,
		Checkpoints:        checkpoints,
	}
}

func optionalString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
