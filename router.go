package mobius

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// RouterInfo describes a built router: the identity and registrations a
// fatal-error observer is constructed for.
type RouterInfo struct {
	// ID uniquely identifies the built router.
	ID string
	// Variants lists the registered effect variants in registration order.
	Variants []string
}

// Router dispatches each effect of a stream to the handler registered for
// its concrete type and merges all handler events into one output stream.
//
// A Router is an immutable snapshot taken by Builder.Build and is safe for
// concurrent use: every Route call creates an independent subscription with
// its own branch state.
type Router[F, E any] struct {
	info    RouterInfo
	entries []entry[F, E]
	index   map[reflect.Type]int
	fatal   FatalErrorHandler
	cfg     config
}

// Info returns a description of the router's registrations.
func (r *Router[F, E]) Info() RouterInfo {
	variants := make([]string, len(r.info.Variants))
	copy(variants, r.info.Variants)
	return RouterInfo{ID: r.info.ID, Variants: variants}
}

// Route applies the router to an effect stream. It spawns the subscription's
// dispatcher, branches, and merge stage, and returns immediately.
//
// The subscription ends when effects is closed and all branches have drained
// (normal completion), when an effect matches no registered variant, when a
// handler fails, or when ctx is cancelled. Cancelling ctx propagates to all
// branches and stops event delivery.
func (r *Router[F, E]) Route(ctx context.Context, effects <-chan F) *Subscription[E] {
	ctx, cancel := context.WithCancelCause(ctx)
	sub := &Subscription[E]{
		id:     uuid.NewString(),
		events: make(chan E, r.cfg.buffer),
		cancel: cancel,
	}
	eng := &engine[F, E]{
		router: r,
		sub:    sub,
		ctx:    ctx,
	}
	eng.start(effects)
	return sub
}

// Subscription is one application of a Router to an effect stream. Consume
// Events until it closes, then check Err for the terminal state, following
// the bufio.Scanner convention.
type Subscription[E any] struct {
	id     string
	events chan E
	cancel context.CancelCauseFunc

	mu           sync.Mutex
	err          error
	upstreamDone bool
}

// ID identifies this subscription in logs.
func (s *Subscription[E]) ID() string { return s.id }

// Events returns the merged event stream. It closes when the upstream effect
// channel closes and every branch has drained, or after a terminal error or
// cancellation.
func (s *Subscription[E]) Events() <-chan E { return s.events }

// Err reports how the subscription ended: nil after normal completion, the
// unknown-effect or handler error after a failure, or the cancellation cause
// if it was torn down before the upstream completed. It returns nil while
// the subscription is still active; it is meaningful once Events is closed.
func (s *Subscription[E]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Cancel stops the subscription and all of its branches. It is idempotent
// and equivalent to cancelling the context passed to Route.
func (s *Subscription[E]) Cancel() {
	s.cancel(context.Canceled)
}

// setErr records the terminal error. The first-error-wins guarantee is
// enforced by the engine; setErr itself just stores.
func (s *Subscription[E]) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// markUpstreamDone records that the effect channel closed, distinguishing
// normal completion from teardown when the terminal state is resolved.
func (s *Subscription[E]) markUpstreamDone() {
	s.mu.Lock()
	s.upstreamDone = true
	s.mu.Unlock()
}

// resolve fixes the terminal state right before Events closes: an error set
// by the engine wins; a subscription torn down before its upstream finished
// reports the cancellation cause; normal completion leaves Err nil.
func (s *Subscription[E]) resolve(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil && !s.upstreamDone {
		s.err = context.Cause(ctx)
	}
}
