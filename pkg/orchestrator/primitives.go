package orchestrator

import (
	"context"
	"time"

	"github.com/shaban/rackless/pkg/chain"
	"github.com/shaban/rackless/pkg/dispatcher"
	"github.com/shaban/rackless/pkg/transport"
)

// suppressionTimeout bounds how long a make-before-break primitive's
// predicates remain installed before EndSuppression logs them unmatched
// (§4.5).
const suppressionTimeout = 2 * time.Second

func predicatesFor(kind transport.EventKind, conns []chain.Connection) []dispatcher.Predicate {
	preds := make([]dispatcher.Predicate, len(conns))
	for i, c := range conns {
		preds[i] = dispatcher.Predicate{Kind: kind, Src: c.Src, Dst: c.Dst}
	}
	return preds
}

func (o *Orchestrator) connectAll(ctx context.Context, conns []chain.Connection) ([]chain.Connection, error) {
	done := make([]chain.Connection, 0, len(conns))
	for _, c := range conns {
		if err := o.transport.Connect(ctx, c.Src, c.Dst); err != nil {
			return done, err
		}
		done = append(done, c)
	}
	return done, nil
}

func (o *Orchestrator) disconnectAll(ctx context.Context, conns []chain.Connection) {
	for _, c := range conns {
		if err := o.transport.Disconnect(ctx, c.Src, c.Dst); err != nil {
			o.log.Warning("disconnect failed src=%s dst=%s: %v", c.Src, c.Dst, err)
		}
	}
}

// makeBeforeBreak issues every connection in newConns (aborting and
// rolling back on the first failure), then, only once all have
// succeeded, disconnects every connection in staleConns. This is the
// single building block behind insert/extract/swap/reconnect (§4.4
// "Ordering").
func (o *Orchestrator) makeBeforeBreak(ctx context.Context, newConns, staleConns []chain.Connection) error {
	preds := predicatesFor(transport.EventConnect, newConns)
	preds = append(preds, predicatesFor(transport.EventDisconnect, staleConns)...)
	scope := o.dispatcher.BeginSuppression(preds, suppressionTimeout)
	defer o.dispatcher.EndSuppressionAfter(scope, suppressionTimeout)

	done, err := o.connectAll(ctx, newConns)
	if err != nil {
		o.log.Warning("↩ rollback: disconnecting %d partially-made connection(s)", len(done))
		o.disconnectAll(ctx, done)
		return err
	}
	o.disconnectAll(ctx, staleConns)
	return nil
}

// insertPrimitive realizes §4.4 primitive 1: connect T to its neighbors
// before disconnecting whatever direct P→N edge existed.
func (o *Orchestrator) insertPrimitive(ctx context.Context, t, prev, next *chain.Slot) error {
	newConns := append(chain.Pair(prev.Source(), t.Dest()), chain.Pair(t.Source(), next.Dest())...)
	staleConns := chain.Pair(prev.Source(), next.Dest())
	return o.makeBeforeBreak(ctx, newConns, staleConns)
}

// extractPrimitive realizes §4.4 primitive 2: connect around T before
// disconnecting T's own edges. Does not touch the Registry or request
// plugin removal; callers do that once this returns nil.
func (o *Orchestrator) extractPrimitive(ctx context.Context, t, prev, next *chain.Slot) error {
	newConns := chain.Pair(prev.Source(), next.Dest())
	staleConns := append(chain.Pair(prev.Source(), t.Dest()), chain.Pair(t.Source(), next.Dest())...)
	return o.makeBeforeBreak(ctx, newConns, staleConns)
}

// swapPrimitive realizes §4.4 primitive 3: connect tNew to the shared
// neighbors before disconnecting tOld's edges. Does not request removal
// of tOld's plugin or touch the Registry; the caller (RequestReplace)
// does that once this returns nil.
func (o *Orchestrator) swapPrimitive(ctx context.Context, tOld, tNew, prev, next *chain.Slot) error {
	newConns := append(chain.Pair(prev.Source(), tNew.Dest()), chain.Pair(tNew.Source(), next.Dest())...)
	staleConns := append(chain.Pair(prev.Source(), tOld.Dest()), chain.Pair(tOld.Source(), next.Dest())...)
	return o.makeBeforeBreak(ctx, newConns, staleConns)
}

// reconnectPass realizes a move: wires the moved slot's new neighbors
// before tearing down its old adjacency, without touching any plugin.
func (o *Orchestrator) reconnectPass(ctx context.Context, oldPrev, oldNext, newPrev, newNext, moved *chain.Slot) error {
	newConns := append(chain.Pair(newPrev.Source(), moved.Dest()), chain.Pair(moved.Source(), newNext.Dest())...)
	staleConns := append(chain.Pair(oldPrev.Source(), moved.Dest()), chain.Pair(moved.Source(), oldNext.Dest())...)
	return o.makeBeforeBreak(ctx, newConns, staleConns)
}

// reconnectAll recomputes the entire effective chain's connections in a
// single pass: disconnect everything previously known, then connect the
// full desired set. Used only where the make-before-break guarantee is
// skipped: RequestClear and ApplyConfig's reconnection pass.
func (o *Orchestrator) reconnectAll(ctx context.Context, previous []chain.Connection) []chain.Connection {
	o.disconnectAll(ctx, previous)
	desired := chain.ComputeConnections(o.effectiveSlots(), o.mode)
	done, err := o.connectAll(ctx, desired)
	if err != nil {
		o.log.Warning("reconnectAll: connect failed partway: %v", err)
	}
	return done
}
