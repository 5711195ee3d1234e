package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"washline/internal/pkg/errs"
)

// ErrorResponse is the JSON error body returned by every endpoint.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain error classes to HTTP statuses:
//
//	ObjectNotFound    -> 404
//	validation family -> 400
//	InvalidTransition -> 422
//	Conflict          -> 409
//	AlreadyTaken      -> 409
//
// Anything unrecognized is a 500 with a generic message so internals do not
// leak to clients.
func writeError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrAlreadyTaken):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    "already_taken",
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrConflict):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    "conflict",
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrInvalidTransition):
		return ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    "invalid_transition",
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValidationFailed),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "validation_failed",
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "internal",
			Message: "internal server error",
		})
	}
}

// writeBadRequest reports a malformed request body or parameter.
func writeBadRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    "validation_failed",
		Message: message,
	})
}
