package dungeon

import "testing"

func TestAllocator_IndependentCounters(t *testing.T) {
	a := NewAllocator()

	if got := a.NewNode(); got != 1 {
		t.Errorf("NewNode() = %v, want 1", got)
	}
	if got := a.NewNode(); got != 2 {
		t.Errorf("NewNode() = %v, want 2", got)
	}
	if got := a.NewEdge(); got != 1 {
		t.Errorf("NewEdge() = %v, want 1", got)
	}
	if got := a.NewInsertion(); got != 1 {
		t.Errorf("NewInsertion() = %v, want 1", got)
	}
	if got := a.NewKey(); got != 1 {
		t.Errorf("NewKey() = %v, want 1", got)
	}
	if got := a.NewGate(); got != 1 {
		t.Errorf("NewGate() = %v, want 1", got)
	}
}

func TestAllocator_ZeroValue(t *testing.T) {
	var a Allocator
	if got := a.NewKey(); got != 1 {
		t.Errorf("zero Allocator NewKey() = %v, want 1", got)
	}
}

func TestAllocator_NeverRepeats(t *testing.T) {
	a := NewAllocator()
	seen := make(map[EdgeID]bool)
	for range 1000 {
		id := a.NewEdge()
		if seen[id] {
			t.Fatalf("NewEdge() repeated %v", id)
		}
		seen[id] = true
	}
}
