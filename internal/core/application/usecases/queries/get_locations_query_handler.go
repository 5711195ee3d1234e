package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"washline/internal/core/domain/model/kernel"
)

// GetLocationsQueryHandler retrieves a customer's saved addresses from the
// database.
type GetLocationsQueryHandler struct {
	db *gorm.DB
}

// NewGetLocationsQueryHandler creates a handler for address book queries.
func NewGetLocationsQueryHandler(db *gorm.DB) GetLocationsQueryHandler {
	return GetLocationsQueryHandler{db: db}
}

// Handle executes the query to retrieve the customer's addresses, sorted by
// label.
func (h GetLocationsQueryHandler) Handle(
	ctx context.Context,
	query GetLocationsQuery,
) ([]GetLocationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	locations := make([]GetLocationsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			label,
			address,
			latitude,
			longitude
		FROM locations
		WHERE customer_id = ?
		ORDER BY label
	`, query.CustomerID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var locationResp GetLocationsQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&locationResp.Label,
			&locationResp.Address,
			&locationResp.Latitude,
			&locationResp.Longitude,
		)
		if err != nil {
			return nil, err
		}

		locationID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		locationResp.ID = locationID

		locations = append(locations, locationResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return locations, nil
}
