// Package courier contains the Courier aggregate.
//
// A courier is a driver identity with an active flag controlling whether
// the notification fanout considers them when an order leg opens up.
package courier
