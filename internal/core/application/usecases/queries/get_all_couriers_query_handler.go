package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"washline/internal/core/domain/model/kernel"
)

// GetAllCouriersQueryHandler retrieves the courier roster from the database.
type GetAllCouriersQueryHandler struct {
	db *gorm.DB
}

// NewGetAllCouriersQueryHandler creates a handler for roster queries.
// Requires a GORM database connection for query execution.
func NewGetAllCouriersQueryHandler(db *gorm.DB) GetAllCouriersQueryHandler {
	return GetAllCouriersQueryHandler{db: db}
}

// Handle executes the query to retrieve all couriers, sorted by name.
func (h GetAllCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAllCouriersQuery,
) ([]GetAllCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]GetAllCouriersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			phone,
			is_active
		FROM couriers
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var courierResp GetAllCouriersQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&courierResp.Name,
			&courierResp.Phone,
			&courierResp.IsActive,
		)
		if err != nil {
			return nil, err
		}

		courierID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		courierResp.ID = courierID

		couriers = append(couriers, courierResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}
