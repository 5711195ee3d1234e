// Package guard provides a defensive programming pattern that ensures value
// objects, entities, commands, and queries are only created through their
// designated constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is the default error returned by ConstructorGuard.Validate()
// when a nil error is passed as the validation error. This ensures that validation
// always fails with a meaningful message even if no specific error is provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard detects whether a struct was created through its constructor
// or as a zero value. Embedding a ConstructorGuard in a struct and calling
// Validate before use prevents accidental use of uninitialized domain objects.
//
// The guard works by maintaining an internal flag that is only set to true when
// the object is created through NewConstructorGuard. Any zero-value struct
// fails validation.
//
// Example usage:
//
//	var ErrOrderNotConstructed = errors.New("Order must be created via NewOrder")
//
//	type Order struct {
//	    id    kernel.UUID
//	    guard guard.ConstructorGuard
//	}
//
//	func NewOrder(id kernel.UUID) (Order, error) {
//	    return Order{id: id, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (o Order) Validate() error {
//	    return o.guard.Validate(ErrOrderNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking its owner as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the owner was created through its constructor.
// For a zero-value guard it returns err, or ErrDefaultConstructorGuard when err is nil.
func (g ConstructorGuard) Validate(err error) error {
	if g.isConstructed {
		return nil
	}
	if err == nil {
		return ErrDefaultConstructorGuard
	}
	return err
}
