package mobius

import "context"

// Performer handles every effect of one variant for the lifetime of a
// subscription. It is the most general handler shape: Perform receives the
// branch's typed effect stream and may emit any number of events, decoupled
// from effect arrival.
//
// Perform must return once effects is closed or ctx is done. The engine owns
// events: implementations must not close it, and sends should select on
// ctx.Done() so a terminated subscription never blocks the handler. A
// non-nil error fails the whole subscription, except errors returned after
// ctx is done, which are discarded as part of teardown. Returning nil before
// effects is exhausted completes the branch; any effects still dispatched to
// it are discarded.
type Performer[V, E any] interface {
	Perform(ctx context.Context, effects <-chan V, events chan<- E) error
}

// PerformerFunc adapts a function to the Performer interface.
type PerformerFunc[V, E any] func(ctx context.Context, effects <-chan V, events chan<- E) error

// Perform calls f.
func (f PerformerFunc[V, E]) Perform(ctx context.Context, effects <-chan V, events chan<- E) error {
	return f(ctx, effects, events)
}

// performEach normalizes a per-effect function into the branch form.
// Effects are processed sequentially in arrival order; processing stops at
// the first error.
func performEach[V, F, E any](fn func(context.Context, V) ([]E, error)) branchFunc[F, E] {
	return func(ctx context.Context, effects <-chan F, events chan<- E) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case eff, ok := <-effects:
				if !ok {
					return nil
				}
				out, err := fn(ctx, any(eff).(V))
				if err != nil {
					return err
				}
				for _, ev := range out {
					select {
					case events <- ev:
					case <-ctx.Done():
						return nil
					}
				}
			}
		}
	}
}

// performStream normalizes a Performer into the branch form, re-typing the
// branch input from F to V through a pump goroutine. The pump stops when the
// input closes, the subscription ends, or Perform returns.
func performStream[V, F, E any](p Performer[V, E]) branchFunc[F, E] {
	return func(ctx context.Context, effects <-chan F, events chan<- E) error {
		typed := make(chan V)
		stop := make(chan struct{})
		defer close(stop)

		go func() {
			defer close(typed)
			for {
				select {
				case <-ctx.Done():
					return
				case <-stop:
					return
				case eff, ok := <-effects:
					if !ok {
						return
					}
					select {
					case typed <- any(eff).(V):
					case <-ctx.Done():
						return
					case <-stop:
						return
					}
				}
			}
		}()

		return p.Perform(ctx, typed, events)
	}
}
