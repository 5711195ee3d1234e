package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the order lifecycle engine. Every per-request failure the
// engine can return maps onto exactly one of these classes:
//
//   - ErrInvalidTransition: the requested status change or checkpoint is not
//     reachable from the order's current status.
//   - ErrAlreadyTaken: the caller lost the acceptance race for a leg. Expected
//     under normal concurrent operation; clients refresh and retry elsewhere.
//   - ErrConflict: the order's stored status does not match the status the
//     caller expected, typically a stale client re-issuing an applied change.
//   - ErrValidationFailed: the request payload is incomplete or malformed
//     (missing required signature, bad QR data). Surfaced to the operator.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrAlreadyTaken      = errors.New("already taken")
	ErrConflict          = errors.New("conflict")
	ErrValidationFailed  = errors.New("validation failed")
)

// InvalidTransitionError indicates a status change that the order state machine forbids.
type InvalidTransitionError struct {
	From  string
	To    string
	Cause error
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given status pair.
func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{
		From: from,
		To:   to,
	}
}

// NewInvalidTransitionErrorWithCause creates an InvalidTransitionError wrapping an underlying cause.
func NewInvalidTransitionErrorWithCause(from, to string, cause error) *InvalidTransitionError {
	return &InvalidTransitionError{
		From:  from,
		To:    to,
		Cause: cause,
	}
}

func (e *InvalidTransitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s -> %s (cause: %s)", ErrInvalidTransition, e.From, e.To, e.Cause)
	}
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// AlreadyTakenError indicates that another courier has already won the leg,
// or that the order has moved past the window in which the leg could be accepted.
type AlreadyTakenError struct {
	OrderID          string
	NotificationType string
}

// NewAlreadyTakenError creates an AlreadyTakenError for the given order and leg.
func NewAlreadyTakenError(orderID, notificationType string) *AlreadyTakenError {
	return &AlreadyTakenError{
		OrderID:          orderID,
		NotificationType: notificationType,
	}
}

func (e *AlreadyTakenError) Error() string {
	return fmt.Sprintf("%s: order %s (%s)", ErrAlreadyTaken, e.OrderID, e.NotificationType)
}

func (e *AlreadyTakenError) Unwrap() error {
	return ErrAlreadyTaken
}

// ConflictError indicates that the order's stored status differs from the
// status the caller based its request on. Retrying the same request after it
// has already applied produces this error, which makes transitions idempotent.
type ConflictError struct {
	ParamName string
	Expected  string
	Actual    string
}

// NewConflictError creates a ConflictError describing the expected and actual values.
func NewConflictError(paramName, expected, actual string) *ConflictError {
	return &ConflictError{
		ParamName: paramName,
		Expected:  expected,
		Actual:    actual,
	}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s is %s, expected %s", ErrConflict, e.ParamName, e.Actual, e.Expected)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ValidationFailedError indicates a malformed or incomplete request payload.
type ValidationFailedError struct {
	ParamName string
	Cause     error
}

// NewValidationFailedError creates a ValidationFailedError without an underlying cause.
func NewValidationFailedError(paramName string) *ValidationFailedError {
	return &ValidationFailedError{
		ParamName: paramName,
	}
}

// NewValidationFailedErrorWithCause creates a ValidationFailedError wrapping an underlying cause.
func NewValidationFailedErrorWithCause(paramName string, cause error) *ValidationFailedError {
	return &ValidationFailedError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValidationFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValidationFailed, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, e.ParamName)
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrValidationFailed
}
