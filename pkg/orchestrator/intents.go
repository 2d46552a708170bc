package orchestrator

import (
	"github.com/shaban/rackless/pkg/chain"
	"github.com/shaban/rackless/pkg/dispatcher"
	"github.com/shaban/rackless/pkg/transport"
)

// RequestAdd instantiates uri at position (nil means append) and wires it
// into the effective chain with make-before-break (§4.4 primitive 1). On
// any failure it leaves the registry untouched and returns a typed error.
func (o *Orchestrator) RequestAdd(uri string, position *int) (SlotView, error) {
	var view SlotView
	var err error
	o.do(func() {
		if _, ok := o.catalog.Lookup(uri); !ok {
			err = chain.NewError(chain.UnsupportedPlugin, uri, nil)
			o.reportError(chain.UnsupportedPlugin, uri)
			return
		}

		o.state = Editing
		defer func() { o.state = Idle }()

		ctx, cancel := o.ctx()
		defer cancel()

		label, ports, addErr := o.transport.AddPlugin(ctx, uri)
		if addErr != nil {
			err = chain.NewError(chain.TransportFailure, "add_plugin "+uri, addErr)
			o.reportError(chain.TransportFailure, uri)
			return
		}
		// AddPlugin's own add_plugin echo must not reach Reconcile as an
		// externally originated add, or it would double-insert this label.
		addScope := o.dispatcher.BeginSuppression([]dispatcher.Predicate{{Kind: transport.EventAdd, Label: label}}, suppressionTimeout)
		defer o.dispatcher.EndSuppressionAfter(addScope, suppressionTimeout)

		if _, exists := o.registry.LookupByLabel(label); exists {
			err = chain.NewError(chain.DuplicateLabel, label, nil)
			o.reportError(chain.DuplicateLabel, label)
			return
		}

		plugin, instErr := o.catalog.Instantiate(uri, label, ports)
		if instErr != nil {
			err = instErr
			o.reportError(chain.UnsupportedPlugin, uri)
			return
		}

		slot := chain.NewSlot()
		slot.Label = label
		slot.Plugin = plugin

		idx := o.registry.Len()
		if position != nil {
			idx = *position
		}
		o.registry.InsertAt(idx, slot)

		prev, next := o.neighbors(slot.Index)
		if wireErr := o.insertPrimitive(ctx, slot, prev, next); wireErr != nil {
			o.registry.RemoveByLabel(label)
			err = chain.NewError(chain.RoutingConflict, label, wireErr)
			o.reportError(chain.RoutingConflict, label)
			return
		}

		view = viewOf(slot)
		if o.cb.OnSlotAdded != nil {
			o.cb.OnSlotAdded(view)
		}
	})
	return view, err
}

// RequestRemove extracts the slot with the given label, disconnects it
// from the chain before removing the plugin itself (§4.4 primitive 2).
func (o *Orchestrator) RequestRemove(label string) error {
	var err error
	o.do(func() {
		slot, ok := o.registry.LookupByLabel(label)
		if !ok {
			err = chain.NewError(chain.SlotNotFound, label, nil)
			o.reportError(chain.SlotNotFound, label)
			return
		}

		o.state = Editing
		defer func() { o.state = Idle }()

		ctx, cancel := o.ctx()
		defer cancel()

		prev, next := o.neighbors(slot.Index)
		if wireErr := o.extractPrimitive(ctx, slot, prev, next); wireErr != nil {
			err = chain.NewError(chain.RoutingConflict, label, wireErr)
			o.reportError(chain.RoutingConflict, label)
			return
		}

		removeScope := o.dispatcher.BeginSuppression([]dispatcher.Predicate{{Kind: transport.EventRemove, Label: label}}, suppressionTimeout)
		defer o.dispatcher.EndSuppressionAfter(removeScope, suppressionTimeout)

		if rmErr := o.transport.RemovePlugin(ctx, label); rmErr != nil {
			o.log.Warning("remove_plugin(%s) failed after extraction: %v", label, rmErr)
		}

		o.registry.RemoveByLabel(label)
		if o.cb.OnSlotRemoved != nil {
			o.cb.OnSlotRemoved(label)
		}
	})
	return err
}

// RequestReplace swaps the plugin occupying label for a freshly
// instantiated uri, wiring the new instance in before tearing down the
// old one's edges and requesting its removal (§4.4 primitive 3).
func (o *Orchestrator) RequestReplace(label, uri string) (SlotView, error) {
	var view SlotView
	var err error
	o.do(func() {
		oldSlot, ok := o.registry.LookupByLabel(label)
		if !ok {
			err = chain.NewError(chain.SlotNotFound, label, nil)
			o.reportError(chain.SlotNotFound, label)
			return
		}
		if _, ok := o.catalog.Lookup(uri); !ok {
			err = chain.NewError(chain.UnsupportedPlugin, uri, nil)
			o.reportError(chain.UnsupportedPlugin, uri)
			return
		}

		o.state = Editing
		defer func() { o.state = Idle }()

		ctx, cancel := o.ctx()
		defer cancel()

		newLabel, ports, addErr := o.transport.AddPlugin(ctx, uri)
		if addErr != nil {
			err = chain.NewError(chain.TransportFailure, "add_plugin "+uri, addErr)
			o.reportError(chain.TransportFailure, uri)
			return
		}
		addScope := o.dispatcher.BeginSuppression([]dispatcher.Predicate{{Kind: transport.EventAdd, Label: newLabel}}, suppressionTimeout)
		defer o.dispatcher.EndSuppressionAfter(addScope, suppressionTimeout)

		plugin, instErr := o.catalog.Instantiate(uri, newLabel, ports)
		if instErr != nil {
			err = instErr
			o.reportError(chain.UnsupportedPlugin, uri)
			return
		}

		newSlot := chain.NewSlot()
		newSlot.Label = newLabel
		newSlot.Plugin = plugin
		newSlot.Index = oldSlot.Index

		prev, next := o.neighbors(oldSlot.Index)
		if wireErr := o.swapPrimitive(ctx, oldSlot, newSlot, prev, next); wireErr != nil {
			rollbackScope := o.dispatcher.BeginSuppression([]dispatcher.Predicate{{Kind: transport.EventRemove, Label: newLabel}}, suppressionTimeout)
			o.transport.RemovePlugin(ctx, newLabel)
			o.dispatcher.EndSuppressionAfter(rollbackScope, suppressionTimeout)
			err = chain.NewError(chain.RoutingConflict, label, wireErr)
			o.reportError(chain.RoutingConflict, label)
			return
		}

		removeScope := o.dispatcher.BeginSuppression([]dispatcher.Predicate{{Kind: transport.EventRemove, Label: label}}, suppressionTimeout)
		defer o.dispatcher.EndSuppressionAfter(removeScope, suppressionTimeout)

		if rmErr := o.transport.RemovePlugin(ctx, label); rmErr != nil {
			o.log.Warning("remove_plugin(%s) failed after swap: %v", label, rmErr)
		}

		idx := oldSlot.Index
		o.registry.RemoveByLabel(label)
		o.registry.InsertAt(idx, newSlot)

		if o.cb.OnSlotRemoved != nil {
			o.cb.OnSlotRemoved(label)
		}
		view = viewOf(newSlot)
		if o.cb.OnSlotAdded != nil {
			o.cb.OnSlotAdded(view)
		}
	})
	return view, err
}

// RequestMove relocates the slot at registry index from to index to,
// reconnecting its new neighbors before releasing its old adjacency. No
// plugin is added or removed.
func (o *Orchestrator) RequestMove(from, to int) error {
	var err error
	o.do(func() {
		if from < 0 || from >= o.registry.Len() || to < 0 || to >= o.registry.Len() {
			err = chain.NewError(chain.SlotNotFound, "move index out of range", nil)
			o.reportError(chain.SlotNotFound, "move")
			return
		}
		ordered := o.registry.Ordered()
		moved := ordered[from]

		o.state = Editing
		defer func() { o.state = Idle }()

		ctx, cancel := o.ctx()
		defer cancel()

		oldPrev, oldNext := o.neighbors(from)
		if !o.registry.Move(from, to) {
			err = chain.NewError(chain.InvariantViolation, "registry move failed", nil)
			o.reportError(chain.InvariantViolation, "move")
			return
		}
		newPrev, newNext := o.neighbors(moved.Index)

		if wireErr := o.reconnectPass(ctx, oldPrev, oldNext, newPrev, newNext, moved); wireErr != nil {
			err = chain.NewError(chain.RoutingConflict, moved.Label, wireErr)
			o.reportError(chain.RoutingConflict, moved.Label)
			return
		}
	})
	return err
}

// RequestClear removes every slot and their plugins, reconnecting the
// terminals directly. Per §6, Clear skips the make-before-break guarantee
// and instead disconnects everything known before reconnecting the
// (now-empty) effective chain.
func (o *Orchestrator) RequestClear() error {
	var err error
	o.do(func() {
		o.state = Editing
		defer func() { o.state = Idle }()

		ctx, cancel := o.ctx()
		defer cancel()

		previous := chain.ComputeConnections(o.effectiveSlots(), o.mode)
		labels := make([]string, 0, o.registry.Len())
		for _, s := range o.registry.Ordered() {
			if !s.IsEmpty() {
				labels = append(labels, s.Label)
			}
		}

		o.registry.Clear()
		o.reconnectAll(ctx, previous)

		removePreds := make([]dispatcher.Predicate, len(labels))
		for i, label := range labels {
			removePreds[i] = dispatcher.Predicate{Kind: transport.EventRemove, Label: label}
		}
		removeScope := o.dispatcher.BeginSuppression(removePreds, suppressionTimeout)
		for _, label := range labels {
			if rmErr := o.transport.RemovePlugin(ctx, label); rmErr != nil {
				o.log.Warning("remove_plugin(%s) failed during clear: %v", label, rmErr)
			}
		}
		o.dispatcher.EndSuppressionAfter(removeScope, suppressionTimeout)

		for _, label := range labels {
			if o.cb.OnSlotRemoved != nil {
				o.cb.OnSlotRemoved(label)
			}
		}
	})
	return err
}

// RequestSetParam forwards a control change to the HOST and updates the
// local control surface as soon as the request succeeds, without waiting
// for the echo; a suppression scope absorbs the HOST's param_set echo so
// it is not reconciled as an external change.
func (o *Orchestrator) RequestSetParam(label, symbol string, value float64) error {
	var err error
	o.do(func() {
		slot, ok := o.registry.LookupByLabel(label)
		if !ok || slot.Plugin == nil {
			err = chain.NewError(chain.SlotNotFound, label, nil)
			o.reportError(chain.SlotNotFound, label)
			return
		}
		ctx, cancel := o.ctx()
		defer cancel()

		preds := []dispatcher.Predicate{{Kind: transport.EventParamSet, Label: label}}
		scope := o.dispatcher.BeginSuppression(preds, suppressionTimeout)
		defer o.dispatcher.EndSuppressionAfter(scope, suppressionTimeout)

		if setErr := o.transport.SetParam(ctx, label, symbol, value); setErr != nil {
			err = chain.NewError(chain.TransportFailure, label, setErr)
			o.reportError(chain.TransportFailure, label)
			return
		}
		slot.Plugin.SetControl(symbol, value)
		if o.cb.OnParamChange != nil {
			o.cb.OnParamChange(label, symbol, value)
		}
	})
	return err
}

// RequestSetBypass forwards a bypass toggle to the HOST and updates local
// state once the request succeeds.
func (o *Orchestrator) RequestSetBypass(label string, bypassed bool) error {
	var err error
	o.do(func() {
		slot, ok := o.registry.LookupByLabel(label)
		if !ok || slot.Plugin == nil {
			err = chain.NewError(chain.SlotNotFound, label, nil)
			o.reportError(chain.SlotNotFound, label)
			return
		}
		ctx, cancel := o.ctx()
		defer cancel()

		preds := []dispatcher.Predicate{{Kind: transport.EventBypass, Label: label}}
		scope := o.dispatcher.BeginSuppression(preds, suppressionTimeout)
		defer o.dispatcher.EndSuppressionAfter(scope, suppressionTimeout)

		if setErr := o.transport.SetBypass(ctx, label, bypassed); setErr != nil {
			err = chain.NewError(chain.TransportFailure, label, setErr)
			o.reportError(chain.TransportFailure, label)
			return
		}
		slot.Plugin.SetBypassed(bypassed)
		if o.cb.OnBypassChange != nil {
			o.cb.OnBypassChange(label, bypassed)
		}
	})
	return err
}
