package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"washline/internal/core/domain/model/kernel"
)

// GetAvailableOrdersQueryHandler lists the open offers for a courier.
//
// An offer is open while three things hold at once: the courier holds an
// unaccepted notification, no other courier accepted the same leg, and the
// order is still in the leg's acceptance window. All three collapse into a
// single join because an accepted leg always advances the order out of the
// window status.
type GetAvailableOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableOrdersQueryHandler creates a handler for open offer queries.
// Requires a GORM database connection for query execution.
func NewGetAvailableOrdersQueryHandler(db *gorm.DB) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{db: db}
}

// Handle executes the query and returns the courier's open offers, oldest
// notification first.
func (h GetAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOrdersQuery,
) ([]GetAvailableOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	offers := make([]GetAvailableOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.order_number,
			o.status,
			o.confirmed_item_count,
			o.is_express,
			o.scheduled_pickup_at,
			n.sent_at
		FROM notifications n
		JOIN orders o ON o.id = n.order_id
		WHERE n.sent_to = ?
		  AND n.notification_type = ?
		  AND NOT n.is_accepted
		  AND o.status = ?
		ORDER BY n.sent_at
	`, query.CourierID().String(),
		query.NotificationType().String(),
		query.NotificationType().WindowStatus().String(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var offer GetAvailableOrdersQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&offer.OrderNumber,
			&offer.Status,
			&offer.ItemCount,
			&offer.IsExpress,
			&offer.ScheduledPickupAt,
			&offer.SentAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		offer.OrderID = orderID
		offer.NotificationType = query.NotificationType().String()

		offers = append(offers, offer)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return offers, nil
}
