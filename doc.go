// Package mobius provides an in-process effect router: a stream operator
// that dispatches each effect value to the handler registered for its
// concrete type and merges all handlers' events into a single output stream.
//
// Effects are values describing side work to perform; events are their
// outcomes, fed back into the caller's decision logic. A router is assembled
// once from a Builder and then applied to any number of effect streams:
//
//	b := mobius.NewBuilder[Effect, Event]()
//	_ = mobius.AddFunc(b, func(ctx context.Context, e FetchUser) (Event, error) {
//		u, err := store.Lookup(ctx, e.ID)
//		if err != nil {
//			return nil, err
//		}
//		return UserFetched{User: u}, nil
//	})
//	_ = mobius.AddConsumer(b, func(ctx context.Context, e AppendAudit) error {
//		return audit.Append(ctx, e.Line)
//	})
//	router := b.Build()
//
//	sub := router.Route(ctx, effects)
//	for ev := range sub.Events() {
//		// feed events back into the decision loop
//	}
//	if err := sub.Err(); err != nil {
//		// unknown effect, handler failure, or cancellation
//	}
//
// # Dispatch
//
// Each effect is classified by its dynamic type and handed to exactly one
// branch; branches run concurrently and their events are merged in
// nondeterministic order, while order within a branch is preserved. An
// effect whose type was never registered fails the whole subscription with
// *UnknownEffectError. Variants form a flat set of concrete types:
// registering the same type twice is a *CollisionError, and interface types
// are rejected, so no effect can ever match two branches.
//
// # Handler shapes
//
// [Add] registers a [Performer], the general stream shape. [AddFunc],
// [AddConsumer], and [AddAction] register per-effect functions producing one
// event, no events, and no events while ignoring the payload, respectively.
// All shapes normalize to the same branch form.
//
// # Failure semantics
//
// The first terminal error wins: it cancels all in-flight branches, closes
// Events, and is returned verbatim by Err. A fatal-error observer configured
// with [Builder.WithFatalErrorHandler] sees a handler failure synchronously
// before it propagates and can never suppress it. Handler panics are
// recovered and reported as *PanicError failures.
package mobius
