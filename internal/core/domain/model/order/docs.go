// Package order provides domain entities and business logic for laundry order
// management. It implements the Order aggregate root with lifecycle management
// and state transitions for the two-leg pickup/delivery workflow.
//
// The package includes:
//   - Order: the aggregate root owning status, leg assignments, and item counts
//   - Status: a state machine enforcing the monotonic order lifecycle
//   - Charges: a value object for the monetary breakdown in integer cents
//
// Key business rules:
//   - Orders must have a valid identifier, order number, customer, locations,
//     and a positive declared item count
//   - Status follows the monotonic workflow pending -> ... -> delivered, with
//     cancelled reachable from any non-terminal state
//   - A transition is only applied when the stored status equals the expected
//     predecessor; stale or duplicate requests fail with a Conflict error
//   - Driver ids are written atomically with the assigned/out_for_delivery
//     status changes and are never present before them
//   - Observed item counts may diverge from the declared count; divergences
//     are recorded as warnings, never rejected
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
