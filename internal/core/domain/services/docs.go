// Package services contains stateless domain services that implement
// business logic spanning multiple aggregates.
//
// CheckpointVerifier is the single source of truth for whether a scan is
// accepted: it validates the scan payload, checks the order's current
// status against the checkpoint's allowed sources and advances the order
// when the scan is legitimate.
package services
