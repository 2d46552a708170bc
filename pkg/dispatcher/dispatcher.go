// Package dispatcher serializes inbound HOST events and locally submitted
// intents onto one logical timeline (§4.5, §5) and implements the
// structural-suppression scope that absorbs events the HOST echoes back
// for a local edit still in flight.
package dispatcher

import (
	"time"

	"github.com/shaban/rackless/internal/logx"
	"github.com/shaban/rackless/pkg/transport"
)

// Predicate identifies one event the HOST is expected to echo for an
// outstanding local edit. Label is meaningful for add/remove/param_set/
// bypass events; Src/Dst are meaningful for connect/disconnect events.
type Predicate struct {
	Kind  transport.EventKind
	Label string
	Src   string
	Dst   string
}

// Reconciler is the single consumer of events that don't match any active
// suppression predicate. The Orchestrator implements this.
type Reconciler interface {
	Reconcile(ev transport.Event)
}

type scope struct {
	id         int
	predicates map[Predicate]bool // false = unmatched, true = absorbed
	deadline   time.Time
}

// ScopeHandle refers to a suppression scope installed by BeginSuppression.
type ScopeHandle struct {
	id int
}

// Dispatcher owns the single event/intent queue described by §5: one
// worker goroutine drains both locally submitted intents and HOST events,
// running each to completion before drawing the next.
type Dispatcher struct {
	log        *logx.Logger
	reconciler Reconciler

	intents chan func()
	quit    chan struct{}
	done    chan struct{}

	scopes      []*scope
	nextScopeID int
}

// New builds a Dispatcher. Call SetReconciler before Run if the
// reconciler wasn't available at construction time (it usually needs the
// Dispatcher itself, so two-phase wiring is normal).
func New(log *logx.Logger) *Dispatcher {
	return &Dispatcher{
		log:     log,
		intents: make(chan func()),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// SetReconciler wires the Orchestrator in. Must be called before Run.
func (d *Dispatcher) SetReconciler(r Reconciler) { d.reconciler = r }

// Submit enqueues a unit of work to run on the dispatcher's worker
// goroutine. Intents submitted while an edit is in flight are queued FIFO
// behind it, per §5.
func (d *Dispatcher) Submit(fn func()) {
	select {
	case d.intents <- fn:
	case <-d.quit:
	}
}

// Run drains intents and HOST events until Stop is called. It must be
// started in its own goroutine; everything the Orchestrator does happens
// on this goroutine, which is why the Orchestrator needs no locks of its
// own (§5).
func (d *Dispatcher) Run(events <-chan transport.Event) {
	defer close(d.done)
	for {
		select {
		case <-d.quit:
			return
		case fn := <-d.intents:
			fn()
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.handleEvent(ev)
		}
	}
}

// Stop signals Run to exit and waits for it to do so.
func (d *Dispatcher) Stop() {
	close(d.quit)
	<-d.done
}

func (d *Dispatcher) handleEvent(ev transport.Event) {
	pred := Predicate{Kind: ev.Kind, Label: ev.Label, Src: ev.Src, Dst: ev.Dst}
	for _, s := range d.scopes {
		if matched, ok := s.predicates[pred]; ok && !matched {
			s.predicates[pred] = true
			d.log.Debug("⤵ absorbed event kind=%s label=%s", ev.Kind, ev.Label)
			return
		}
	}
	if d.reconciler != nil {
		d.reconciler.Reconcile(ev)
	}
}

// BeginSuppression installs a new scope. Must be called from within a
// unit of work running on the dispatcher goroutine (i.e. from inside a
// Submit closure), since scopes is unguarded state shared with the event
// path on that same goroutine.
func (d *Dispatcher) BeginSuppression(predicates []Predicate, timeout time.Duration) ScopeHandle {
	d.nextScopeID++
	s := &scope{
		id:         d.nextScopeID,
		predicates: make(map[Predicate]bool, len(predicates)),
		deadline:   time.Now().Add(timeout),
	}
	for _, p := range predicates {
		s.predicates[p] = false
	}
	d.scopes = append(d.scopes, s)
	return ScopeHandle{id: s.id}
}

// EndSuppressionAfter schedules EndSuppression to run once timeout has
// elapsed, resubmitted onto the worker goroutine so the scope is never
// touched from any goroutine but this one. Callers must use this instead
// of calling EndSuppression directly from the same unit of work that
// called BeginSuppression: that unit of work runs to completion before
// Run's select loop gets another turn, so any event it just caused the
// HOST to echo is still sitting unread in the events channel — ending
// the scope synchronously would remove the predicate before the echo
// standing a chance of matching it.
func (d *Dispatcher) EndSuppressionAfter(h ScopeHandle, timeout time.Duration) {
	time.AfterFunc(timeout, func() {
		d.Submit(func() { d.EndSuppression(h) })
	})
}

// EndSuppression removes a scope and logs any predicate that never saw a
// matching echo, per §4.5's "unmatched predicates after a bounded timeout
// are logged; the Orchestrator proceeds".
func (d *Dispatcher) EndSuppression(h ScopeHandle) {
	for i, s := range d.scopes {
		if s.id != h.id {
			continue
		}
		for p, matched := range s.predicates {
			if !matched {
				d.log.Warning("⚠ suppression predicate never echoed kind=%s label=%s", p.Kind, p.Label)
			}
		}
		d.scopes = append(d.scopes[:i], d.scopes[i+1:]...)
		return
	}
}
