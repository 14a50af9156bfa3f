package mobius

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorObserver receives the failure that is about to terminate a routed
// subscription.
type ErrorObserver func(err error)

// FatalErrorHandler constructs the observer used when a handler failure
// terminates a subscription. It receives a description of the router whose
// failures it will observe and returns the observer to invoke, synchronously,
// with the failure before it propagates. The observer cannot suppress
// propagation.
type FatalErrorHandler func(info RouterInfo) ErrorObserver

// Builder accumulates effect variant registrations and produces immutable
// routers. A Builder is mutated by a single goroutine during setup; the
// routers it builds are snapshots, unaffected by later registrations.
//
// Registration is done through the package-level Add functions because Go
// methods cannot introduce the per-variant type parameter.
type Builder[F, E any] struct {
	entries []entry[F, E]
	fatal   FatalErrorHandler
	cfg     config
}

// NewBuilder creates an empty Builder for effect type F and event type E.
func NewBuilder[F, E any](opts ...Option) *Builder[F, E] {
	return &Builder[F, E]{cfg: parseConfig(opts)}
}

// Add registers p as the handler for effects of concrete type V. It fails
// with ErrNilHandler, ErrInterfaceVariant, or a *CollisionError if V is
// already registered; a failed Add leaves the builder unchanged and further
// registrations remain valid.
func Add[V, F, E any](b *Builder[F, E], p Performer[V, E]) error {
	if p == nil {
		return ErrNilHandler
	}
	return b.add(variantOf[V](), performStream[V, F, E](p))
}

// AddFunc registers a function producing exactly one event per effect of
// type V. A returned error fails the subscription.
func AddFunc[V, F, E any](b *Builder[F, E], fn func(ctx context.Context, effect V) (E, error)) error {
	if fn == nil {
		return ErrNilHandler
	}
	return b.add(variantOf[V](), performEach[V, F](func(ctx context.Context, effect V) ([]E, error) {
		ev, err := fn(ctx, effect)
		if err != nil {
			return nil, err
		}
		return []E{ev}, nil
	}))
}

// AddConsumer registers a function invoked once per effect of type V that
// produces no events.
func AddConsumer[V, F, E any](b *Builder[F, E], fn func(ctx context.Context, effect V) error) error {
	if fn == nil {
		return ErrNilHandler
	}
	return b.add(variantOf[V](), performEach[V, F](func(ctx context.Context, effect V) ([]E, error) {
		return nil, fn(ctx, effect)
	}))
}

// AddAction registers a function invoked once per effect of type V that
// ignores the effect's payload and produces no events. V cannot be inferred,
// so callers instantiate it explicitly: AddAction[MyEffect](b, fn).
func AddAction[V, F, E any](b *Builder[F, E], fn func(ctx context.Context) error) error {
	if fn == nil {
		return ErrNilHandler
	}
	return b.add(variantOf[V](), performEach[V, F](func(ctx context.Context, _ V) ([]E, error) {
		return nil, fn(ctx)
	}))
}

func (b *Builder[F, E]) add(variant reflect.Type, run branchFunc[F, E]) error {
	if err := checkVariant(b.entries, variant); err != nil {
		return err
	}
	b.entries = append(b.entries, entry[F, E]{
		variant: variant,
		name:    variant.String(),
		run:     run,
	})
	return nil
}

// WithFatalErrorHandler configures the factory observing handler failures.
// It replaces any previously configured factory; at most one is active when
// Build is called.
func (b *Builder[F, E]) WithFatalErrorHandler(f FatalErrorHandler) *Builder[F, E] {
	b.fatal = f
	return b
}

// Build snapshots the current registrations and fatal-error factory into an
// immutable Router. Later mutation of the builder has no effect on routers
// already built; building again after further registrations yields a new,
// independent router.
func (b *Builder[F, E]) Build() *Router[F, E] {
	entries := make([]entry[F, E], len(b.entries))
	copy(entries, b.entries)

	index := make(map[reflect.Type]int, len(entries))
	variants := make([]string, len(entries))
	for i, ent := range entries {
		index[ent.variant] = i
		variants[i] = ent.name
	}

	r := &Router[F, E]{
		info:    RouterInfo{ID: uuid.NewString(), Variants: variants},
		entries: entries,
		index:   index,
		fatal:   b.fatal,
		cfg:     b.cfg,
	}
	r.cfg.logger.Debug("router built",
		zap.String("router_id", r.info.ID),
		zap.Strings("variants", variants))
	return r
}
