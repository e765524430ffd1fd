// Adapted from the teacher's core_test.go subtests style (t.Run per
// scenario, plain t.Error/t.Fatal).
package partition

import (
	"testing"

	"icscore/internal/justify"
	"icscore/internal/variable"
)

func TestMergeAndCanon(t *testing.T) {
	s := variable.NewStore()
	x := s.External("x", variable.Real).ID
	y := s.External("y", variable.Real).ID
	p := New(s)

	t.Run("distinct classes before merge", func(t *testing.T) {
		cx, _ := p.Canon(x)
		cy, _ := p.Canon(y)
		if cx == cy {
			t.Fatal("x and y should be in distinct classes before merge")
		}
	})

	if err := p.Merge(x, y, justify.Of(1)); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	t.Run("same class after merge", func(t *testing.T) {
		cx, _ := p.Canon(x)
		cy, _ := p.Canon(y)
		if cx != cy {
			t.Fatal("x and y should be in the same class after merge")
		}
		if cx != x {
			t.Errorf("representative = %v, want %v (smaller ID wins)", cx, x)
		}
	})

	t.Run("IsEqual reports Yes", func(t *testing.T) {
		r := p.IsEqual(x, y)
		if !r.IsYes() {
			t.Error("IsEqual(x,y) should be Yes after merge")
		}
	})
}

func TestDismergeThenMergeIsInconsistent(t *testing.T) {
	s := variable.NewStore()
	x := s.External("x", variable.Real).ID
	y := s.External("y", variable.Real).ID
	p := New(s)

	if err := p.Dismerge(x, y, justify.Of(1)); err != nil {
		t.Fatalf("dismerge failed: %v", err)
	}
	if err := p.Merge(x, y, justify.Of(2)); err == nil {
		t.Fatal("merge after dismerge should be inconsistent")
	}
}

func TestMergeThenDismergeIsInconsistent(t *testing.T) {
	s := variable.NewStore()
	x := s.External("x", variable.Real).ID
	y := s.External("y", variable.Real).ID
	p := New(s)

	if err := p.Merge(x, y, justify.Of(1)); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if err := p.Dismerge(x, y, justify.Of(2)); err == nil {
		t.Fatal("dismerge after merge should be inconsistent")
	}
}

func TestDomainIntersectionOnMerge(t *testing.T) {
	s := variable.NewStore()
	x := s.External("x", variable.Int).ID
	y := s.External("y", variable.Real).ID
	p := New(s)

	if err := p.Merge(x, y, justify.Of(1)); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	root, _ := p.Canon(x)
	v, _ := s.Lookup(root)
	if v.Domain != variable.Int {
		t.Errorf("merged domain = %v, want Int (Real ∩ Int = Int)", v.Domain)
	}
}

func TestDiseqRenameFollowsMerge(t *testing.T) {
	// y ≠ z; then merge x,y (x, created first, becomes the root);
	// IsDiseq(x,z) must report Yes afterward since the disequality must
	// migrate from y to the surviving representative x.
	s := variable.NewStore()
	x := s.External("x", variable.Real).ID
	y := s.External("y", variable.Real).ID
	z := s.External("z", variable.Real).ID
	p := New(s)

	if err := p.Dismerge(y, z, justify.Of(1)); err != nil {
		t.Fatalf("dismerge failed: %v", err)
	}
	if err := p.Merge(x, y, justify.Of(2)); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if !p.IsDiseq(x, z).IsYes() {
		t.Error("disequality should survive merge via rename to the surviving representative")
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := variable.NewStore()
	x := s.External("x", variable.Real).ID
	y := s.External("y", variable.Real).ID
	p := New(s)

	snap := p.Snapshot()
	if err := p.Merge(x, y, justify.Of(1)); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	p.Restore(snap)

	if p.IsEqual(x, y).IsYes() {
		t.Error("restore should undo the merge")
	}
}
