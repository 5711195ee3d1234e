// Package errs provides standardized error types for the order lifecycle engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes two families of errors:
//
// Value errors, used by domain constructors and validation:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//   - Other specialized error types for specific validation failures
//
// Engine errors, the per-request failure classes of the dispatch engine:
//   - InvalidTransitionError: status change not reachable from the current status
//   - AlreadyTakenError: lost the courier acceptance race for a leg
//   - ConflictError: stale expected-status on a transition request
//   - ValidationFailedError: incomplete or malformed request payload
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrAlreadyTaken)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// This standardized approach lets transport layers classify failures with
// errors.Is and map each class onto a stable HTTP status code.
package errs
