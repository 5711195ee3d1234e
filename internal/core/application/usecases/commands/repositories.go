// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// NotificationRepoFactory provides access to the notification repository within a transaction.
	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	// CheckpointRepoFactory provides access to the checkpoint repository within a transaction.
	CheckpointRepoFactory interface {
		CheckpointRepository() ports.CheckpointRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// LocationRepoFactory provides access to the location repository within a transaction.
	LocationRepoFactory interface {
		LocationRepository() ports.LocationRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// LocationUoW manages transactions for location-only operations.
	LocationUoW interface {
		TxManager
		LocationRepoFactory
	}

	// LocationUoWFactory creates new location unit of work instances.
	LocationUoWFactory interface {
		Create() LocationUoW
	}

	// AcceptUoW manages the transaction of an acceptance attempt.
	// The order row lock taken inside this transaction is what serializes
	// competing couriers.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   ord, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   // ... flip notification, assign driver
	//
	//   err = uow.Commit(ctx)
	AcceptUoW interface {
		TxManager
		OrderRepoFactory
		NotificationRepoFactory
	}

	// AcceptUoWFactory creates new acceptance unit of work instances.
	AcceptUoWFactory interface {
		Create() AcceptUoW
	}

	// CheckpointUoW manages transactions for checkpoint recording.
	// The checkpoint row and the order's status change commit together.
	CheckpointUoW interface {
		TxManager
		OrderRepoFactory
		CheckpointRepoFactory
	}

	// CheckpointUoWFactory creates new checkpoint unit of work instances.
	CheckpointUoWFactory interface {
		Create() CheckpointUoW
	}

	// DispatchUoW manages transactions for notification fanout.
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		NotificationRepoFactory
		CourierRepoFactory
	}

	// DispatchUoWFactory creates new fanout unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}
)

// NotificationDispatcher triggers notification fanout for an order whose
// current status opens a leg for acceptance. Handlers call it after their
// own transaction commits; failures are recovered by the periodic sweep.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, orderID kernel.UUID) error
}
