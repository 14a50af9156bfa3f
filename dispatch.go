package mobius

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// engine runs one subscription: a dispatcher goroutine classifying effects
// into per-variant branches, one goroutine per branch running its handler,
// and per-branch forwarders merging events into the subscription channel.
type engine[F, E any] struct {
	router *Router[F, E]
	sub    *Subscription[E]
	ctx    context.Context

	terminateOnce sync.Once
}

// start wires the subscription's goroutines. Branch inputs are owned by the
// dispatcher, branch outputs by their branches, and the subscription channel
// by the finisher; each stage closes what it owns.
func (g *engine[F, E]) start(effects <-chan F) {
	n := len(g.router.entries)
	ins := make([]chan F, n)
	outs := make([]chan E, n)
	for i := range n {
		ins[i] = make(chan F, g.router.cfg.buffer)
		outs[i] = make(chan E, g.router.cfg.buffer)
	}

	var wg sync.WaitGroup
	wg.Add(n + 1)
	for i, ent := range g.router.entries {
		go g.runBranch(ent, ins[i], outs[i])
		go g.forward(outs[i], &wg)
	}
	go g.dispatch(effects, ins, &wg)
	go g.finish(&wg)

	g.router.cfg.logger.Debug("subscription started",
		zap.String("router_id", g.router.info.ID),
		zap.String("subscription_id", g.sub.id),
		zap.Int("branches", n))
}

// dispatch reads the upstream and hands each effect to exactly one branch,
// classified by the effect's dynamic type. Branch inputs close when the
// upstream closes or the subscription ends, whichever comes first.
func (g *engine[F, E]) dispatch(effects <-chan F, ins []chan F, wg *sync.WaitGroup) {
	defer wg.Done()
	defer func() {
		for _, in := range ins {
			close(in)
		}
	}()

	for {
		select {
		case <-g.ctx.Done():
			return
		case eff, ok := <-effects:
			if !ok {
				g.sub.markUpstreamDone()
				return
			}
			i, ok := g.router.index[reflect.TypeOf(eff)]
			if !ok {
				g.router.cfg.logger.Warn("unknown effect",
					zap.String("router_id", g.router.info.ID),
					zap.String("subscription_id", g.sub.id),
					zap.String("variant", fmt.Sprintf("%T", eff)))
				g.terminate(&UnknownEffectError{Effect: eff}, false)
				return
			}
			select {
			case ins[i] <- eff:
			case <-g.ctx.Done():
				return
			}
		}
	}
}

// runBranch executes one entry's handler for the lifetime of the
// subscription. Panics are recovered and reported as handler failures.
// Errors returned while the subscription is already winding down are part of
// teardown, not failures. If the handler completes before its input is
// exhausted, the remainder is drained so the dispatcher is never blocked on
// a finished branch.
func (g *engine[F, E]) runBranch(ent entry[F, E], in <-chan F, out chan<- E) {
	defer close(out)

	if err := g.runHandler(ent, in, out); err != nil {
		if g.ctx.Err() == nil {
			g.fail(ent, err)
		}
		return
	}

	discarded := 0
	for range in {
		discarded++
	}
	if discarded > 0 && g.ctx.Err() == nil {
		g.router.cfg.logger.Warn("effects discarded after handler completed",
			zap.String("router_id", g.router.info.ID),
			zap.String("subscription_id", g.sub.id),
			zap.String("variant", ent.name),
			zap.Int("discarded", discarded))
	}
}

// runHandler bounds the recover scope to the handler call.
func (g *engine[F, E]) runHandler(ent entry[F, E], in <-chan F, out chan<- E) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return ent.run(g.ctx, in, out)
}

// fail reports a handler failure: the fatal-error observer, if configured,
// sees it synchronously before the subscription terminates with the same
// error.
func (g *engine[F, E]) fail(ent entry[F, E], err error) {
	g.router.cfg.logger.Warn("effect handler failed",
		zap.String("router_id", g.router.info.ID),
		zap.String("subscription_id", g.sub.id),
		zap.String("variant", ent.name),
		zap.Error(err))
	g.terminate(err, true)
}

// terminate ends the subscription with err at most once; later errors are
// discarded. The error propagates verbatim as Subscription.Err, and the
// subscription context is cancelled with it as cause so all sibling branches
// wind down promptly.
func (g *engine[F, E]) terminate(err error, handlerFailure bool) {
	g.terminateOnce.Do(func() {
		if handlerFailure && g.router.fatal != nil {
			observer := g.router.fatal(g.router.Info())
			observer(err)
		}
		g.sub.setErr(err)
		g.sub.cancel(err)
	})
}

// forward moves one branch's events onto the subscription channel,
// preserving that branch's order.
func (g *engine[F, E]) forward(out <-chan E, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-g.ctx.Done():
			return
		case ev, ok := <-out:
			if !ok {
				return
			}
			select {
			case g.sub.events <- ev:
			case <-g.ctx.Done():
				return
			}
		}
	}
}

// finish closes the subscription channel once the dispatcher and every
// forwarder have stopped, resolving the terminal state first.
func (g *engine[F, E]) finish(wg *sync.WaitGroup) {
	wg.Wait()
	g.sub.resolve(g.ctx)
	g.sub.cancel(nil)
	close(g.sub.events)
	g.router.cfg.logger.Debug("subscription finished",
		zap.String("router_id", g.router.info.ID),
		zap.String("subscription_id", g.sub.id),
		zap.Error(g.sub.Err()))
}
