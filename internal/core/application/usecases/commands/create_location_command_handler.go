package commands

import (
	"context"

	"washline/internal/core/domain/model/location"
)

// CreateLocationCommandHandler handles saving customer addresses.
type CreateLocationCommandHandler struct {
	uowFactory LocationUoWFactory
}

// NewCreateLocationCommandHandler creates a handler for address registration.
func NewCreateLocationCommandHandler(uowFactory LocationUoWFactory) CreateLocationCommandHandler {
	return CreateLocationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the address registration command.
func (h *CreateLocationCommandHandler) Handle(ctx context.Context, cmd CreateLocationCommand) error {
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

	locationEntity, err := location.NewLocation(
		cmd.LocationID(), cmd.CustomerID(), cmd.Label(), cmd.Address(), cmd.Latitude(), cmd.Longitude())
	if err != nil {
		return err
	}

	if err = uow.LocationRepository().Add(ctx, locationEntity); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
