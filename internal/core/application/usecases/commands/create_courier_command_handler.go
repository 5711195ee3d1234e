package commands

import (
	"context"

	"washline/internal/core/domain/model/courier"
)

// CreateCourierCommandHandler handles the business logic for courier registration.
// New couriers start active and immediately take part in notification fanout.
//
// Example:
//
//	handler := NewCreateCourierCommandHandler(uowFactory)
//	cmd, _ := NewCreateCourierCommand(kernel.NewUUID(), "Sam Park", "+1-555-0101")
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("courier registration failed: %w", err)
//	}
type CreateCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewCreateCourierCommandHandler creates a handler for courier registration.
// Requires a CourierUoWFactory for transactional persistence operations.
func NewCreateCourierCommandHandler(uowFactory CourierUoWFactory) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the courier registration command.
// Creates a new courier entity and persists it within a transaction.
// Automatically rolls back on any error to prevent partial data.
func (h *CreateCourierCommandHandler) Handle(ctx context.Context, cmd CreateCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierEntity, err := courier.NewCourier(cmd.CourierID(), cmd.Name(), cmd.Phone())
	if err != nil {
		return err
	}

	if err = uow.CourierRepository().Add(ctx, courierEntity); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
