package mobius

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNilHandler indicates a registration with a nil handler.
	ErrNilHandler = errors.New("mobius: nil handler")
	// ErrInterfaceVariant indicates a registration keyed by an interface
	// type. Variants must be concrete types so that every effect value
	// matches at most one branch.
	ErrInterfaceVariant = errors.New("mobius: effect variant must be a concrete type")
)

// CollisionError is returned by registration when the effect variant is
// already registered. Dispatch by variant would be ambiguous, so the
// conflicting registration is rejected and the builder is left unchanged.
type CollisionError struct {
	// New is the variant of the rejected registration.
	New reflect.Type
	// Existing is the variant of the entry it collides with.
	Existing reflect.Type
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("mobius: effect variant collision: %v conflicts with registered %v", e.New, e.Existing)
}

// UnknownEffectError terminates a subscription when an effect matches no
// registered variant. Effect holds the exact unmatched instance.
type UnknownEffectError struct {
	Effect any
}

func (e *UnknownEffectError) Error() string {
	return fmt.Sprintf("mobius: no handler for effect %v (%T)", e.Effect, e.Effect)
}

// PanicError wraps a panic recovered from an effect handler together with
// the stack trace at the point of the panic. It is reported as the handler's
// failure.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("mobius: effect handler panicked: %v", e.Value)
}
