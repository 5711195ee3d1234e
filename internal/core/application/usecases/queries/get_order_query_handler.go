package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/pkg/errs"
)

// GetOrderQueryHandler retrieves a single order with its checkpoint history.
// Signature payloads are not returned, only whether one was captured.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ErrObjectNotFound when no order
// exists with the given identifier.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	response, err := h.fetchOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.Checkpoints, err = h.fetchCheckpoints(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return response, nil
}

func (h GetOrderQueryHandler) fetchOrder(ctx context.Context, orderID kernel.UUID) (GetOrderQueryResponse, error) {
	var response GetOrderQueryResponse
	var id, customerID, pickupLocationID, deliveryLocationID uuid.UUID
	var pickupDriverID, deliveryDriverID *uuid.UUID
	var pickupItemCount, receptionItemCount sql.NullInt64

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			status,
			customer_id,
			pickup_location_id,
			delivery_location_id,
			confirmed_item_count,
			pickup_item_count,
			reception_item_count,
			is_express,
			total_cents,
			pickup_driver_id,
			delivery_driver_id,
			scheduled_pickup_at,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, orderID.String()).Row()

	err := row.Scan(
		&id,
		&response.OrderNumber,
		&response.Status,
		&customerID,
		&pickupLocationID,
		&deliveryLocationID,
		&response.ConfirmedItemCount,
		&pickupItemCount,
		&receptionItemCount,
		&response.IsExpress,
		&response.TotalCents,
		&pickupDriverID,
		&deliveryDriverID,
		&response.ScheduledPickupAt,
		&response.CreatedAt,
		&response.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", orderID.String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.PickupLocationID, err = kernel.UUIDFromBytes(pickupLocationID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.DeliveryLocationID, err = kernel.UUIDFromBytes(deliveryLocationID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.PickupDriverID, err = optionalUUID(pickupDriverID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.DeliveryDriverID, err = optionalUUID(deliveryDriverID); err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.PickupItemCount = optionalInt(pickupItemCount)
	response.ReceptionItemCount = optionalInt(receptionItemCount)

	return response, nil
}

func (h GetOrderQueryHandler) fetchCheckpoints(ctx context.Context, orderID kernel.UUID) ([]CheckpointResponse, error) {
	checkpoints := make([]CheckpointResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			checkpoint_type,
			actor_id,
			item_count,
			signature_data IS NOT NULL,
			photos,
			notes,
			recorded_at
		FROM checkpoints
		WHERE order_id = ?
		ORDER BY recorded_at
	`, orderID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cp CheckpointResponse
		var id, actorID uuid.UUID
		var itemCount sql.NullInt64
		var photos pq.StringArray

		err = rows.Scan(
			&id,
			&cp.CheckpointType,
			&actorID,
			&itemCount,
			&cp.HasSignature,
			&photos,
			&cp.Notes,
			&cp.RecordedAt,
		)
		if err != nil {
			return nil, err
		}

		if cp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if cp.ActorID, err = kernel.UUIDFromBytes(actorID[:]); err != nil {
			return nil, err
		}
		cp.ItemCount = optionalInt(itemCount)
		cp.Photos = photos

		checkpoints = append(checkpoints, cp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return checkpoints, nil
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	converted, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}

func optionalInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
