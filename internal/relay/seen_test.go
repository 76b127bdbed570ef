package relay

import "testing"

func TestSeenSetAdd(t *testing.T) {
	s := newSeenSet(3)

	for _, id := range []string{"a", "b", "c"} {
		if !s.add(id) {
			t.Errorf("add(%q) = false on first sight", id)
		}
	}
	if s.add("a") {
		t.Error("add(a) = true on second sight")
	}
	if s.len() != 3 {
		t.Errorf("len() = %d, want 3", s.len())
	}
}

func TestSeenSetEvictsOldest(t *testing.T) {
	s := newSeenSet(2)
	s.add("a")
	s.add("b")
	s.add("c") // evicts a

	if s.len() != 2 {
		t.Fatalf("len() = %d, want 2", s.len())
	}
	if s.add("b") {
		t.Error("b was evicted, want a")
	}
	if !s.add("a") {
		t.Error("a still remembered after eviction")
	}
}

func TestSeenSetDefaultCapacity(t *testing.T) {
	if got := newSeenSet(0).limit; got != defaultSeenCapacity {
		t.Errorf("limit = %d, want %d", got, defaultSeenCapacity)
	}
}

func TestSeenSetContains(t *testing.T) {
	s := newSeenSet(2)
	if s.contains("a") {
		t.Error("contains(a) = true before add")
	}
	s.add("a")
	if !s.contains("a") {
		t.Error("contains(a) = false after add")
	}
	if s.len() != 1 {
		t.Errorf("len() = %d after contains, want 1", s.len())
	}
}
