package orchestrator

import (
	"github.com/google/uuid"

	"github.com/shaban/rackless/pkg/chain"
)

// SlotView is a read-only snapshot of one slot, handed to callers of the
// Core API and to notification callbacks. It never aliases internal
// state (§5 "all other components receive read-only snapshots").
type SlotView struct {
	ID    uuid.UUID
	Label string
	Index int
	Empty bool

	URI      string
	Name     string
	Bypassed bool
	Controls map[string]chain.Control
}

func viewOf(s *chain.Slot) SlotView {
	v := SlotView{ID: s.ID, Label: s.Label, Index: s.Index, Empty: s.IsEmpty()}
	if s.Plugin != nil {
		v.URI = s.Plugin.URI
		v.Name = s.Plugin.Name
		v.Bypassed = s.Plugin.Bypassed()
		v.Controls = s.Plugin.Controls()
	}
	return v
}

// GetSlotByLabel returns a snapshot of the slot with the given HOST label.
func (o *Orchestrator) GetSlotByLabel(label string) (SlotView, bool) {
	var v SlotView
	var ok bool
	o.do(func() {
		s, found := o.registry.LookupByLabel(label)
		if found {
			v, ok = viewOf(s), true
		}
	})
	return v, ok
}

// GetSlot returns a snapshot of the slot with the given local identity.
func (o *Orchestrator) GetSlot(id uuid.UUID) (SlotView, bool) {
	var v SlotView
	var ok bool
	o.do(func() {
		s, found := o.registry.LookupByUUID(id)
		if found {
			v, ok = viewOf(s), true
		}
	})
	return v, ok
}

// Slots returns an ordered snapshot of every regular slot, empty or not.
func (o *Orchestrator) Slots() []SlotView {
	var out []SlotView
	o.do(func() {
		ordered := o.registry.Ordered()
		out = make([]SlotView, len(ordered))
		for i, s := range ordered {
			out[i] = viewOf(s)
		}
	})
	return out
}

// State returns the orchestrator's current state, for debugging/tests.
func (o *Orchestrator) State() State {
	var s State
	o.do(func() { s = o.state })
	return s
}
