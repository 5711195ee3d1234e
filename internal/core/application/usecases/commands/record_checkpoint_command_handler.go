package commands

import (
	"context"
	"log/slog"

	"washline/internal/core/domain/model/order"
	"washline/internal/core/domain/services"
	"washline/internal/core/ports"
)

// RecordCheckpointCommandHandler handles checkpoint scans. The verified
// checkpoint record and the order's status change commit in one
// transaction: there is never a checkpoint without its status effect.
//
// When the scan moves the order to "ready" the delivery leg opens up, so
// the handler triggers delivery fanout after commit.
type RecordCheckpointCommandHandler struct {
	uowFactory CheckpointUoWFactory
	verifier   services.CheckpointVerifier
	dispatcher NotificationDispatcher
	publisher  ports.EventPublisher
	producer   ports.OrderStreamProducer
	log        *slog.Logger
}

// NewRecordCheckpointCommandHandler creates a handler for checkpoint scans.
func NewRecordCheckpointCommandHandler(
	uowFactory CheckpointUoWFactory,
	verifier services.CheckpointVerifier,
	dispatcher NotificationDispatcher,
	publisher ports.EventPublisher,
	producer ports.OrderStreamProducer,
	log *slog.Logger,
) RecordCheckpointCommandHandler {
	return RecordCheckpointCommandHandler{
		uowFactory: uowFactory,
		verifier:   verifier,
		dispatcher: dispatcher,
		publisher:  publisher,
		producer:   producer,
		log:        log,
	}
}

// Handle processes a checkpoint scan.
//
// The order row is locked for the duration of the transaction, so two
// drivers scanning the same order serialize and the second one observes
// the first one's status (a duplicate scan fails with Conflict).
//
// Returns the warnings produced by verification (item count mismatches);
// warnings never fail the scan.
func (h *RecordCheckpointCommandHandler) Handle(ctx context.Context, cmd RecordCheckpointCommand) ([]string, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	scan := services.Scan{
		Type:          cmd.CheckpointType(),
		ItemCount:     cmd.ItemCount(),
		SignatureData: cmd.SignatureData(),
		Photos:        cmd.Photos(),
		Notes:         cmd.Notes(),
	}

	cp, warnings, err := h.verifier.Verify(ord, cmd.ActorID(), scan)
	if err != nil {
		return nil, err
	}

	if err = uow.CheckpointRepository().Add(ctx, cp); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.PublishStatusUpdated(ord.ID(), ord.OrderNumber(), ord.Status())

	if err = h.producer.ProduceOrderChanged(ctx, ord.ID(), ord.OrderNumber(), ord.Status()); err != nil {
		h.log.WarnContext(ctx, "order stream publish failed",
			"orderID", ord.ID().String(), "error", err)
	}

	if ord.Status() == order.Ready {
		if err = h.dispatcher.Dispatch(ctx, ord.ID()); err != nil {
			h.log.WarnContext(ctx, "delivery fanout failed, sweep will retry",
				"orderID", ord.ID().String(), "error", err)
		}
	}

	return warnings, nil
}
