package chain

import "github.com/google/uuid"

// Registry is the ordered sequence of regular slots. It is mutated only by
// the Orchestrator; every other component reads it through Ordered, which
// returns the live slice and must be treated as read-only.
type Registry struct {
	slots []*Slot
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Len returns the number of slots, including empty ones.
func (r *Registry) Len() int { return len(r.slots) }

// Ordered returns the live slice backing the registry. Callers outside the
// Orchestrator must treat it as read-only.
func (r *Registry) Ordered() []*Slot { return r.slots }

// Append adds a slot at the end and reindexes it.
func (r *Registry) Append(s *Slot) {
	s.Index = len(r.slots)
	r.slots = append(r.slots, s)
}

// InsertAt inserts a slot at index idx, shifting everything after it and
// reindexing the whole registry so invariant 2 (index == position) holds.
func (r *Registry) InsertAt(idx int, s *Slot) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(r.slots) {
		idx = len(r.slots)
	}
	r.slots = append(r.slots, nil)
	copy(r.slots[idx+1:], r.slots[idx:])
	r.slots[idx] = s
	r.reindex()
}

// RemoveByLabel removes the slot with the given label, if any, and
// reindexes. Reports whether a slot was removed.
func (r *Registry) RemoveByLabel(label string) bool {
	for i, s := range r.slots {
		if s.Label == label {
			r.slots = append(r.slots[:i], r.slots[i+1:]...)
			r.reindex()
			return true
		}
	}
	return false
}

// LookupByLabel finds a slot by its HOST-assigned label.
func (r *Registry) LookupByLabel(label string) (*Slot, bool) {
	for _, s := range r.slots {
		if s.Label == label {
			return s, true
		}
	}
	return nil, false
}

// LookupByUUID finds a slot by its local identity.
func (r *Registry) LookupByUUID(id uuid.UUID) (*Slot, bool) {
	for _, s := range r.slots {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Move relocates the slot at index from to index to, shifting the slots in
// between, and reindexes.
func (r *Registry) Move(from, to int) bool {
	if from < 0 || from >= len(r.slots) || to < 0 || to >= len(r.slots) {
		return false
	}
	s := r.slots[from]
	r.slots = append(r.slots[:from], r.slots[from+1:]...)
	r.slots = append(r.slots[:to], append([]*Slot{s}, r.slots[to:]...)...)
	r.reindex()
	return true
}

// Clear removes every slot.
func (r *Registry) Clear() {
	r.slots = nil
}

func (r *Registry) reindex() {
	for i, s := range r.slots {
		s.Index = i
	}
}
