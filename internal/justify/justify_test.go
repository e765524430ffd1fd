package justify

import "testing"

func TestOfDeduplicatesAndSorts(t *testing.T) {
	s := Of(3, 1, 2, 1, 3)
	got := s.Atoms()
	want := []AtomID{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Atoms() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Atoms() = %v, want %v", got, want)
		}
	}
}

func TestUnion(t *testing.T) {
	a := Of(1, 2)
	b := Of(2, 3)
	u := a.Union(b)
	if u.Len() != 3 {
		t.Errorf("Union len = %d, want 3", u.Len())
	}
	for _, atom := range []AtomID{1, 2, 3} {
		if !u.Contains(atom) {
			t.Errorf("Union should contain %d", atom)
		}
	}
}

func TestEmptyUnionIsIdentity(t *testing.T) {
	a := Of(5)
	if got := a.Union(Empty); got.Len() != 1 || !got.Contains(5) {
		t.Errorf("Union with Empty changed the set: %v", got.Atoms())
	}
}

func TestWith(t *testing.T) {
	a := Of(1)
	got := a.With(2, 3)
	if got.Len() != 3 {
		t.Errorf("With len = %d, want 3", got.Len())
	}
}

func TestContainsOnEmpty(t *testing.T) {
	if Empty.Contains(1) {
		t.Error("Empty set should not contain anything")
	}
}
