package mobius

import (
	"context"
	"fmt"
	"reflect"
)

// branchFunc is the normalized handler form every registration reduces to:
// consume one variant's effects for the lifetime of a subscription, send
// events, and report the first failure.
type branchFunc[F, E any] func(ctx context.Context, effects <-chan F, events chan<- E) error

// entry pairs an effect variant with its normalized handler.
type entry[F, E any] struct {
	variant reflect.Type
	name    string
	run     branchFunc[F, E]
}

// variantOf resolves the registered type for V without needing a value, so
// pointer and value variants resolve to their static type rather than nil.
func variantOf[V any]() reflect.Type {
	return reflect.TypeOf((*V)(nil)).Elem()
}

// checkVariant validates a new variant against the registered entries.
// Variants form a flat set of concrete types: interface types are rejected
// outright, and registering the same type twice is a collision. A failed
// check leaves the entries untouched.
func checkVariant[F, E any](entries []entry[F, E], variant reflect.Type) error {
	if variant.Kind() == reflect.Interface {
		return fmt.Errorf("%w: %v", ErrInterfaceVariant, variant)
	}
	for _, ent := range entries {
		if ent.variant == variant {
			return &CollisionError{New: variant, Existing: ent.variant}
		}
	}
	return nil
}
