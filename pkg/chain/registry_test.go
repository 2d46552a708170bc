package chain

import "testing"

func TestRegistryAppendReindexes(t *testing.T) {
	r := NewRegistry()
	a, b, c := NewSlot(), NewSlot(), NewSlot()
	r.Append(a)
	r.Append(b)
	r.Append(c)

	if a.Index != 0 || b.Index != 1 || c.Index != 2 {
		t.Fatalf("indices = %d,%d,%d, want 0,1,2", a.Index, b.Index, c.Index)
	}
}

func TestRegistryInsertAtShiftsAndReindexes(t *testing.T) {
	r := NewRegistry()
	a, b := NewSlot(), NewSlot()
	r.Append(a)
	r.Append(b)

	mid := NewSlot()
	r.InsertAt(1, mid)

	ordered := r.Ordered()
	if len(ordered) != 3 || ordered[0] != a || ordered[1] != mid || ordered[2] != b {
		t.Fatalf("unexpected order after InsertAt: %v", ordered)
	}
	for i, s := range ordered {
		if s.Index != i {
			t.Fatalf("slot at position %d has Index %d", i, s.Index)
		}
	}
}

func TestRegistryRemoveByLabelReindexes(t *testing.T) {
	r := NewRegistry()
	a, b, c := NewSlot(), NewSlot(), NewSlot()
	a.Label, b.Label, c.Label = "a", "b", "c"
	r.Append(a)
	r.Append(b)
	r.Append(c)

	if !r.RemoveByLabel("b") {
		t.Fatal("RemoveByLabel(b) = false, want true")
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if c.Index != 1 {
		t.Fatalf("c.Index = %d, want 1 after reindex", c.Index)
	}
	if _, ok := r.LookupByLabel("b"); ok {
		t.Fatal("LookupByLabel(b) found a slot that was removed")
	}
}

func TestRegistryMove(t *testing.T) {
	r := NewRegistry()
	a, b, c := NewSlot(), NewSlot(), NewSlot()
	r.Append(a)
	r.Append(b)
	r.Append(c)

	if !r.Move(2, 0) {
		t.Fatal("Move(2, 0) = false")
	}
	ordered := r.Ordered()
	if ordered[0] != c || ordered[1] != a || ordered[2] != b {
		t.Fatalf("unexpected order after Move: %v", ordered)
	}
}

func TestRegistryLookupByUUID(t *testing.T) {
	r := NewRegistry()
	a := NewSlot()
	r.Append(a)

	found, ok := r.LookupByUUID(a.ID)
	if !ok || found != a {
		t.Fatalf("LookupByUUID(a.ID) = %v, %v, want %v, true", found, ok, a)
	}
}
