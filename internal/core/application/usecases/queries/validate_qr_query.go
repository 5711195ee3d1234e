package queries

import (
	"encoding/json"
	"errors"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/pkg/errs"
	"washline/internal/pkg/guard"
)

var ErrValidateQRQueryIsNotConstructed = errors.New(
	"ValidateQRQuery must be created via NewValidateQRQuery constructor",
)

// qrPayload is the JSON document encoded in an order's QR label.
type qrPayload struct {
	ID  string `json:"id"`
	Num string `json:"num"`
}

// ValidateQRQuery checks a scanned QR payload against the order store.
// The payload is the JSON document printed on the order label; it carries
// the order's identifier and its human-readable number, and both must match
// the stored order for the label to be genuine.
//
// Example:
//
//	query, err := NewValidateQRQuery(`{"id":"...","num":"ORD-1A2B3C4D"}`)
//	if err != nil {
//	    // malformed payload, not even a candidate label
//	}
//
//	result, err := handler.Handle(ctx, query)
//	if result.Valid {
//	    // genuine label for result.OrderID
//	}
type ValidateQRQuery struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	orderNumber string

	guard guard.ConstructorGuard
}

// NewValidateQRQuery parses the raw QR payload and creates the query.
// A payload that is not valid JSON, lacks either field or carries a
// malformed identifier fails with ValidationFailed.
func NewValidateQRQuery(payload string) (ValidateQRQuery, error) {
	var doc qrPayload
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return ValidateQRQuery{}, errs.NewValidationFailedErrorWithCause("payload", err)
	}
	if doc.ID == "" || doc.Num == "" {
		return ValidateQRQuery{}, errs.NewValidationFailedError("payload")
	}

	orderID, err := kernel.UUIDFromString(doc.ID)
	if err != nil {
		return ValidateQRQuery{}, errs.NewValidationFailedErrorWithCause("payload", err)
	}

	return ValidateQRQuery{
		orderID:     orderID,
		orderNumber: doc.Num,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ValidateQRQuery) Validate() error {
	return q.guard.Validate(ErrValidateQRQueryIsNotConstructed)
}

// OrderID returns the identifier claimed by the label.
func (q ValidateQRQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderNumber returns the order number claimed by the label.
func (q ValidateQRQuery) OrderNumber() string {
	return q.orderNumber
}

// ValidateQRQueryResponse is the verdict on a scanned label.
type ValidateQRQueryResponse struct {
	Valid       bool
	OrderID     kernel.UUID
	OrderNumber string
	Status      string
}
