package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"washline/internal/core/domain/model/kernel"
)

// ValidateQRQueryHandler checks a scanned label against the order store.
//
// A label pointing at a nonexistent order is invalid, not an error: fake
// labels are an expected input, and the caller only needs the verdict.
type ValidateQRQueryHandler struct {
	db *gorm.DB
}

// NewValidateQRQueryHandler creates a handler for QR label validation.
func NewValidateQRQueryHandler(db *gorm.DB) ValidateQRQueryHandler {
	return ValidateQRQueryHandler{db: db}
}

// Handle looks up the order named by the label and compares numbers.
func (h ValidateQRQueryHandler) Handle(ctx context.Context, query ValidateQRQuery) (ValidateQRQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ValidateQRQueryResponse{}, err
	}

	var id uuid.UUID
	var orderNumber, status string

	row := h.db.WithContext(ctx).Raw(`
		SELECT id, order_number, status
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	err := row.Scan(&id, &orderNumber, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return ValidateQRQueryResponse{Valid: false}, nil
	}
	if err != nil {
		return ValidateQRQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return ValidateQRQueryResponse{}, err
	}

	return ValidateQRQueryResponse{
		Valid:       orderNumber == query.OrderNumber(),
		OrderID:     orderID,
		OrderNumber: orderNumber,
		Status:      status,
	}, nil
}
