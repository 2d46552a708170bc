// Package orchestrator implements Component D: the state machine that
// accepts user intents, issues transport requests, reconciles HOST
// events, and drives the Routing Engine through make-before-break
// structural edits.
package orchestrator

import (
	"context"
	"time"

	"github.com/shaban/rackless/internal/logx"
	"github.com/shaban/rackless/pkg/chain"
	"github.com/shaban/rackless/pkg/dispatcher"
	"github.com/shaban/rackless/pkg/transport"
)

// Callbacks is the Core API's notification surface (§6).
type Callbacks struct {
	OnSlotAdded    func(slot SlotView)
	OnSlotRemoved  func(label string)
	OnParamChange  func(label, symbol string, value float64)
	OnBypassChange func(label string, bypassed bool)
	OnError        func(kind chain.ErrorKind, detail string)
}

// Config configures one Orchestrator instance.
type Config struct {
	Mode            chain.Mode
	ExternalPolicy  ExternalPolicy
	RequestTimeout  time.Duration
	HardwareInputs  []string
	HardwareOutputs []string
	JoinAudioInputs  bool
	JoinAudioOutputs bool
}

// Orchestrator is the only mutator of the Slot Registry (§2). Every
// exported method runs its body on the Dispatcher's single worker
// goroutine via do, so no internal locking is needed.
type Orchestrator struct {
	log        *logx.Logger
	transport  transport.Transport
	dispatcher *dispatcher.Dispatcher
	catalog    *chain.Catalog

	registry *chain.Registry
	input    *chain.Slot
	output   *chain.Slot

	mode           chain.Mode
	policy         ExternalPolicy
	requestTimeout time.Duration

	state State
	cb    Callbacks
}

// New builds an Orchestrator. The Dispatcher's reconciler must be wired to
// this instance by the caller (SetReconciler) before Run starts.
func New(log *logx.Logger, t transport.Transport, d *dispatcher.Dispatcher, catalog *chain.Catalog, cfg Config) *Orchestrator {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Orchestrator{
		log:            log,
		transport:      t,
		dispatcher:     d,
		catalog:        catalog,
		registry:       chain.NewRegistry(),
		input:          chain.NewInputTerminal(cfg.HardwareInputs, nil, cfg.JoinAudioInputs),
		output:         chain.NewOutputTerminal(cfg.HardwareOutputs, nil, cfg.JoinAudioOutputs),
		mode:           cfg.Mode,
		policy:         cfg.ExternalPolicy,
		requestTimeout: timeout,
	}
}

// SetCallbacks installs the notification callbacks (§6).
func (o *Orchestrator) SetCallbacks(cb Callbacks) { o.cb = cb }

// do runs fn on the dispatcher's worker goroutine and blocks the caller
// until it completes, giving every exported Orchestrator method the
// single-threaded-cooperative semantics §5 requires.
func (o *Orchestrator) do(fn func()) {
	done := make(chan struct{})
	o.dispatcher.Submit(func() {
		fn()
		close(done)
	})
	<-done
}

func (o *Orchestrator) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), o.requestTimeout)
}

func (o *Orchestrator) reportError(kind chain.ErrorKind, detail string) {
	o.log.Error("✖ %s: %s", kind, detail)
	if o.cb.OnError != nil {
		o.cb.OnError(kind, detail)
	}
}

func (o *Orchestrator) effectiveSlots() []*chain.Slot {
	return chain.EffectiveSlots(o.input, o.output, o.registry)
}

func (o *Orchestrator) neighbors(idx int) (prev, next *chain.Slot) {
	return chain.Neighbors(o.input, o.output, o.registry, idx)
}
