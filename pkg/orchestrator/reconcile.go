package orchestrator

import (
	"github.com/shaban/rackless/pkg/chain"
	"github.com/shaban/rackless/pkg/transport"
)

// Reconcile implements dispatcher.Reconciler: it handles every HOST event
// that didn't match an active suppression scope, i.e. every event the
// HOST originated on its own rather than echoing back a local edit
// (§4.4 "externally originated structural events").
//
// It always runs on the dispatcher's own worker goroutine (handleEvent
// calls it directly), so it needs none of the do/Submit machinery the
// exported Request* methods use.
func (o *Orchestrator) Reconcile(ev transport.Event) {
	o.state = Reconciling
	defer func() { o.state = Idle }()

	switch ev.Kind {
	case transport.EventAdd:
		o.reconcileExternalAdd(ev)
	case transport.EventRemove:
		o.reconcileExternalRemove(ev)
	case transport.EventConnect, transport.EventDisconnect:
		// Connection bookkeeping is derived, not stored; the effective
		// chain is recomputed from the Registry whenever a primitive
		// runs, so an externally originated patch-bay edit is simply
		// logged for visibility and otherwise ignored until the next
		// structural edit resynchronizes the graph.
		o.log.Debug("external %s src=%s dst=%s", ev.Kind, ev.Src, ev.Dst)
	case transport.EventParamSet:
		o.reconcileParamSet(ev)
	case transport.EventBypass:
		o.reconcileBypass(ev)
	case transport.EventHardware:
		o.reconcileHardware(ev)
	}
}

// reconcileExternalAdd handles a plugin instantiated by the HOST without
// a matching local intent: under Mirror, the new instance is absorbed
// into the Registry at the end of the chain; under Enforce, it is
// rejected by requesting its immediate removal.
func (o *Orchestrator) reconcileExternalAdd(ev transport.Event) {
	if _, exists := o.registry.LookupByLabel(ev.Label); exists {
		// Reaching Reconcile means no active suppression scope matched,
		// so this isn't a local add's own echo. A second add for a label
		// already in the Registry is a genuine HOST-side duplicate.
		o.reportError(chain.InvariantViolation, "duplicate add for existing label "+ev.Label)
		return
	}

	if o.policy == Enforce {
		o.log.Warning("✖ enforce policy: rejecting externally added %s (%s)", ev.Label, ev.URI)
		ctx, cancel := o.ctx()
		defer cancel()
		if err := o.transport.RemovePlugin(ctx, ev.Label); err != nil {
			o.log.Warning("remove_plugin(%s) failed while enforcing policy: %v", ev.Label, err)
		}
		return
	}

	plugin, err := o.catalog.Instantiate(ev.URI, ev.Label, chain.HostPorts{
		AudioInputs: ev.AudioIn, AudioOutputs: ev.AudioOut,
		MIDIInputs: ev.MIDIIn, MIDIOutputs: ev.MIDIOut,
		Controls: ev.Controls,
	})
	if err != nil {
		o.log.Warning("⚠ mirroring externally added %s: %v (leaving unmanaged)", ev.Label, err)
		return
	}

	slot := chain.NewSlot()
	slot.Label = ev.Label
	slot.Plugin = plugin
	o.registry.Append(slot)

	o.log.Info("↻ mirrored external add: %s (%s)", ev.Label, ev.URI)
	if o.cb.OnSlotAdded != nil {
		o.cb.OnSlotAdded(viewOf(slot))
	}
}

// reconcileExternalRemove handles a plugin removed by the HOST without a
// matching local intent. Mirror and Enforce behave identically here:
// the instance is already gone on the HOST side, so the only thing left
// to do is drop it from the Registry.
func (o *Orchestrator) reconcileExternalRemove(ev transport.Event) {
	if !o.registry.RemoveByLabel(ev.Label) {
		o.log.Debug("ignoring remove of unknown label %s", ev.Label)
		return
	}
	o.log.Info("↻ mirrored external remove: %s", ev.Label)
	if o.cb.OnSlotRemoved != nil {
		o.cb.OnSlotRemoved(ev.Label)
	}
}

func (o *Orchestrator) reconcileParamSet(ev transport.Event) {
	slot, ok := o.registry.LookupByLabel(ev.Label)
	if !ok || slot.Plugin == nil {
		return
	}
	if !slot.Plugin.SetControl(ev.Symbol, ev.Value) {
		o.log.Debug("param_set for unknown control %s.%s", ev.Label, ev.Symbol)
		return
	}
	if o.cb.OnParamChange != nil {
		o.cb.OnParamChange(ev.Label, ev.Symbol, ev.Value)
	}
}

func (o *Orchestrator) reconcileBypass(ev transport.Event) {
	slot, ok := o.registry.LookupByLabel(ev.Label)
	if !ok || slot.Plugin == nil {
		return
	}
	slot.Plugin.SetBypassed(ev.Bypassed)
	if o.cb.OnBypassChange != nil {
		o.cb.OnBypassChange(ev.Label, ev.Bypassed)
	}
}

// reconcileHardware replaces the known hardware port set on both
// terminals when the HOST reports a change (e.g. a device hot-plug).
// The Orchestrator does not reconnect automatically; the next structural
// edit picks up the new ports naturally, matching §4.4's scoping of
// automatic reconciliation to what the suppression scopes cover.
func (o *Orchestrator) reconcileHardware(ev transport.Event) {
	o.input = chain.NewInputTerminal(ev.HardwareInputs, nil, o.input.Source().JoinAudio)
	o.output = chain.NewOutputTerminal(ev.HardwareOutputs, nil, o.output.Dest().JoinAudio)
	o.log.Info("↻ hardware ports updated: %d in, %d out", len(ev.HardwareInputs), len(ev.HardwareOutputs))
}
