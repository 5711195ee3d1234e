package commands

import (
	"errors"

	"washline/internal/core/domain/model/checkpoint"
	"washline/internal/core/domain/model/kernel"
	"washline/internal/pkg/errs"
	"washline/internal/pkg/guard"
)

var ErrRecordCheckpointCommandIsNotConstructed = errors.New(
	"RecordCheckpointCommand must be created via NewRecordCheckpointCommand constructor",
)

// RecordCheckpointCommand represents a driver or facility worker submitting
// a checkpoint scan for an order. Payload requirements (signature, item
// count) depend on the checkpoint type and are enforced when the checkpoint
// record is built.
type RecordCheckpointCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	actorID        kernel.UUID
	checkpointType checkpoint.Type
	itemCount      *int
	signatureData  *string
	photos         []string
	notes          string

	guard guard.ConstructorGuard
}

// NewRecordCheckpointCommand creates a command for a checkpoint scan.
// Validates the identifiers and the checkpoint type; the scan payload is
// validated against type requirements by the checkpoint verifier.
func NewRecordCheckpointCommand(
	orderID, actorID kernel.UUID,
	t checkpoint.Type,
	itemCount *int,
	signatureData *string,
	photos []string,
	notes string,
) (RecordCheckpointCommand, error) {
	scanCommand := RecordCheckpointCommand{
		itemCount:     itemCount,
		signatureData: signatureData,
		photos:        photos,
		notes:         notes,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		scanCommand.setOrderID(orderID),
		scanCommand.setActorID(actorID),
		scanCommand.setCheckpointType(t),
	); err != nil {
		return RecordCheckpointCommand{}, err
	}

	return scanCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordCheckpointCommand) Validate() error {
	return c.guard.Validate(ErrRecordCheckpointCommandIsNotConstructed)
}

// OrderID returns the order being scanned.
func (c RecordCheckpointCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the driver or facility worker recording the scan.
func (c RecordCheckpointCommand) ActorID() kernel.UUID {
	return c.actorID
}

// CheckpointType returns the checkpoint being recorded.
func (c RecordCheckpointCommand) CheckpointType() checkpoint.Type {
	return c.checkpointType
}

// ItemCount returns the counted items, when the scan carried a count.
func (c RecordCheckpointCommand) ItemCount() *int {
	return c.itemCount
}

// SignatureData returns the captured signature, when the scan carried one.
func (c RecordCheckpointCommand) SignatureData() *string {
	return c.signatureData
}

// Photos returns references to photos attached to the scan.
func (c RecordCheckpointCommand) Photos() []string {
	return c.photos
}

// Notes returns free-form text attached by the actor.
func (c RecordCheckpointCommand) Notes() string {
	return c.notes
}

func (c *RecordCheckpointCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RecordCheckpointCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("actorID", err)
	}

	c.actorID = actorID
	return nil
}

func (c *RecordCheckpointCommand) setCheckpointType(t checkpoint.Type) error {
	if err := t.Validate(); err != nil {
		return err
	}

	c.checkpointType = t
	return nil
}
