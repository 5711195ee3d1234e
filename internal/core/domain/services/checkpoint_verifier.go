package services

import (
	"fmt"

	"washline/internal/core/domain/model/checkpoint"
	"washline/internal/core/domain/model/kernel"
	"washline/internal/core/domain/model/order"
)

// Scan is the payload of a single checkpoint scan submitted by a driver or
// facility worker.
type Scan struct {
	// Type identifies the checkpoint being recorded.
	Type checkpoint.Type
	// ItemCount is the number of items counted at the scan, when applicable.
	ItemCount *int
	// SignatureData is the captured signature for custody handovers.
	SignatureData *string
	// Photos holds references to photos attached to the scan.
	Photos []string
	// Notes is free-form text attached by the actor.
	Notes string
}

// CheckpointVerifier is a domain service that turns a raw scan into a
// verified checkpoint record and advances the order through its lifecycle.
//
// Key responsibilities:
//   - Validating scan payload requirements per checkpoint type
//   - Enforcing the allowed source statuses for each checkpoint type
//   - Advancing the order to the checkpoint's target status
//   - Recording item counts and surfacing mismatch warnings
//
// Business rules:
//   - A scan whose target equals the current status is a duplicate and is
//     rejected with Conflict
//   - A scan from a status outside the checkpoint's source set is rejected
//     with InvalidTransition
//   - Item count mismatches do not block the scan; they produce warnings
//     so the facility can reconcile later
//
// Example usage:
//
//	verifier := services.NewCheckpointVerifier()
//	cp, warnings, err := verifier.Verify(ord, actorID, scan)
//	if err != nil {
//	    // scan rejected, order unchanged
//	    return
//	}
//	// cp is ready to persist, ord has advanced to the checkpoint's target status
type CheckpointVerifier struct{}

// NewCheckpointVerifier creates a new CheckpointVerifier instance.
func NewCheckpointVerifier() CheckpointVerifier {
	return CheckpointVerifier{}
}

// Verify validates the scan against the order's current state and, on
// success, mutates the order to the checkpoint's target status.
//
// Parameters:
//   - ord: the order being scanned (must be valid)
//   - actorID: the driver or facility worker recording the scan
//   - scan: the raw scan payload
//
// Returns:
//   - *checkpoint.Checkpoint: the verified record, ready to persist
//   - []string: non-fatal warnings (item count mismatches)
//   - error: ValidationFailed, Conflict or InvalidTransition on rejection
//
// The order is only mutated when the returned error is nil.
func (v CheckpointVerifier) Verify(ord *order.Order, actorID kernel.UUID, scan Scan) (*checkpoint.Checkpoint, []string, error) {
	if err := ord.Validate(); err != nil {
		return nil, nil, err
	}

	cp, err := checkpoint.NewCheckpoint(
		kernel.NewUUID(),
		ord.ID(),
		scan.Type,
		actorID,
		scan.ItemCount,
		scan.SignatureData,
		scan.Photos,
		scan.Notes,
	)
	if err != nil {
		return nil, nil, err
	}

	if err := ord.ApplyCheckpointTransition(scan.Type.TargetStatus(), scan.Type.SourceStatuses()...); err != nil {
		return nil, nil, err
	}

	var warnings []string
	switch scan.Type {
	case checkpoint.TypePickedUp:
		mismatch, err := ord.RecordPickupCount(*scan.ItemCount)
		if err != nil {
			return nil, nil, err
		}
		if mismatch {
			warnings = append(warnings, countMismatchWarning(ord.ConfirmedItemCount(), *scan.ItemCount))
		}
	case checkpoint.TypeReceived:
		expected := ord.ConfirmedItemCount()
		if ord.PickupItemCount() != nil {
			expected = *ord.PickupItemCount()
		}
		mismatch, err := ord.RecordReceptionCount(*scan.ItemCount)
		if err != nil {
			return nil, nil, err
		}
		if mismatch {
			warnings = append(warnings, countMismatchWarning(expected, *scan.ItemCount))
		}
	}

	return cp, warnings, nil
}

func countMismatchWarning(expected, scanned int) string {
	return fmt.Sprintf("item count mismatch: expected %d, scanned %d", expected, scanned)
}
