// Adapted from the teacher's core_test.go style (one test function per
// scenario, plain t.Error/t.Fatal).
package simplex

import (
	"testing"

	"icscore/internal/fact"
	"icscore/internal/justify"
	"icscore/internal/partition"
	"icscore/internal/variable"
	"icscore/pkg/poly"
	"icscore/pkg/rational"
)

func newHarness() (*variable.Store, *partition.Partition, *Simplex) {
	s := variable.NewStore()
	p := partition.New(s)
	return s, p, New(s, p)
}

func rat(n int64) rational.Rational { return rational.FromInt64(n) }

func mustMerge(t *testing.T, a *Simplex, lhs, rhs poly.Polynomial, atom justify.AtomID) {
	t.Helper()
	if _, err := a.Merge(fact.Equality{A: lhs, B: rhs, Just: justify.Of(atom)}); err != nil {
		t.Fatalf("Merge(%v = %v) = %v, want nil", lhs, rhs, err)
	}
}

func mustNonneg(t *testing.T, a *Simplex, p poly.Polynomial, atom justify.AtomID) Derived {
	t.Helper()
	d, err := a.ProcessNonneg(fact.Nonneg{A: p, Just: justify.Of(atom)})
	if err != nil {
		t.Fatalf("ProcessNonneg(%v >= 0) = %v, want nil", p, err)
	}
	return d
}

// Scenario 1 of §8: x+y=3, x>=0, y>=0, x-y=1 should give x=2, y=1.
func TestLinearEqualityAndInequality(t *testing.T) {
	s, _, a := newHarness()
	x := s.External("x", variable.Real).ID
	y := s.External("y", variable.Real).ID
	px, py := poly.FromVar(x), poly.FromVar(y)

	mustMerge(t, a, px.Add(py), poly.FromConst(rat(3)), 1)
	mustNonneg(t, a, px, 2)
	mustNonneg(t, a, py, 3)
	mustMerge(t, a, px.Sub(py), poly.FromConst(rat(1)), 4)

	bx, ok := a.Find(x)
	if !ok || !bx.IsConstant() || !bx.Const().Equal(rat(2)) {
		t.Errorf("find(x) = %v, ok=%v, want constant 2", bx, ok)
	}
	by, ok := a.Find(y)
	if !ok || !by.IsConstant() || !by.Const().Equal(rat(1)) {
		t.Errorf("find(y) = %v, ok=%v, want constant 1", by, ok)
	}
	if !a.feasible() {
		t.Error("T should remain feasible (I3) after these assertions")
	}
}

// Scenario 2 of §8: x>=5, x<=2 is Inconsistent with a two-atom core.
func TestInfeasibilityFromLowerBound(t *testing.T) {
	s, _, a := newHarness()
	x := s.External("x", variable.Real).ID
	px := poly.FromVar(x)

	mustNonneg(t, a, px.Sub(poly.FromConst(rat(5))), 1) // x >= 5
	_, err := a.ProcessNonneg(fact.Nonneg{A: poly.FromConst(rat(2)).Sub(px), Just: justify.Of(2)}) // x <= 2
	if err == nil {
		t.Fatal("x>=5 and x<=2 together should be Inconsistent")
	}
	ierr, ok := err.(*InconsistentError)
	if !ok {
		t.Fatalf("error = %v (%T), want *InconsistentError", err, err)
	}
	if ierr.Just.Len() != 2 {
		t.Errorf("core size = %d, want 2 (exactly the two bounds)", ierr.Just.Len())
	}
}

// Scenario 4 of §8: x>=0, y>=0, x+y<=0 entails x=0, y=0 via zero-analysis.
func TestEntailedEqualityViaZeroAnalysis(t *testing.T) {
	s, _, a := newHarness()
	x := s.External("x", variable.Real).ID
	y := s.External("y", variable.Real).ID
	px, py := poly.FromVar(x), poly.FromVar(y)

	mustNonneg(t, a, px, 1)
	mustNonneg(t, a, py, 2)
	d := mustNonneg(t, a, poly.FromConst(rat(0)).Sub(px).Sub(py), 3) // -(x+y) >= 0

	// Acting as the propagator, install the variable equalities Infer's
	// zero-analysis derived.
	for _, e := range d.Eqs {
		if _, err := a.Merge(e); err != nil {
			t.Fatalf("installing derived equality failed: %v", err)
		}
	}

	bx, okx := a.Find(x)
	by, oky := a.Find(y)
	if !okx || !bx.IsConstant() || !bx.Const().IsZero() {
		t.Errorf("find(x) = %v, ok=%v, want constant 0", bx, okx)
	}
	if !oky || !by.IsConstant() || !by.Const().IsZero() {
		t.Errorf("find(y) = %v, ok=%v, want constant 0", by, oky)
	}
}

// Scenario 5 of §8: x>=0 alone is Unbounded.
func TestUnbounded(t *testing.T) {
	s, _, a := newHarness()
	x := s.External("x", variable.Real).ID
	px := poly.FromVar(x)

	mustNonneg(t, a, px, 1)
	_, _, err := a.Sup(px)
	if err != ErrUnbounded {
		t.Errorf("Sup(x) err = %v, want ErrUnbounded", err)
	}
}

// Scenario 6 of §8: integers 2x+3y=7, x>=0, y>=0; after the Gomory cut,
// sup(x)=3 and sup(y)=2 should be derivable.
func TestGomoryCutBoundsIntegerSolutions(t *testing.T) {
	s, _, a := newHarness()
	x := s.External("x", variable.Int).ID
	y := s.External("y", variable.Int).ID
	px, py := poly.FromVar(x), poly.FromVar(y)

	mustMerge(t, a, px.Scale(rat(2)).Add(py.Scale(rat(3))), poly.FromConst(rat(7)), 1)
	mustNonneg(t, a, px, 2)
	d := mustNonneg(t, a, py, 3)

	// A propagator would normally re-enqueue any derived nonnegativities
	// (the Gomory cut among them); here, acting as that propagator,
	// install whatever Merge/ProcessNonneg already derived so Sup reflects
	// the tightened bound.
	for _, n := range d.Nonnegs {
		if _, err := a.ProcessNonneg(n); err != nil {
			t.Fatalf("installing derived cut failed: %v", err)
		}
	}

	supX, _, errX := a.Sup(px)
	if errX != nil || !supX.Equal(rat(3)) {
		t.Errorf("sup(x) = %v, err=%v, want 3", supX, errX)
	}
	supY, _, errY := a.Sup(py)
	if errY != nil || !supY.Equal(rat(2)) {
		t.Errorf("sup(y) = %v, err=%v, want 2", supY, errY)
	}
}

// P6 of §8: the boundary sup(a)=q itself must stay satisfiable (a>=q is not
// the same as a>q), but combining a>=q with a disequality a!=q (i.e. a>q,
// per §3's "positivity is the pair (a>=0, a!=0)") must refute it.
func TestSupBoundaryIsSatButStrictExcessIsNot(t *testing.T) {
	s, part, a := newHarness()
	x := s.External("x", variable.Real).ID
	y := s.External("y", variable.Real).ID
	px, py := poly.FromVar(x), poly.FromVar(y)

	mustMerge(t, a, px.Add(py), poly.FromConst(rat(3)), 1)
	mustNonneg(t, a, px, 2)
	mustNonneg(t, a, py, 3)

	sup, _, err := a.Sup(px)
	if err != nil || !sup.Equal(rat(3)) {
		t.Fatalf("sup(x) = %v, err=%v, want 3", sup, err)
	}

	d, err := a.ProcessNonneg(fact.Nonneg{A: px.Sub(poly.FromConst(rat(3))), Just: justify.Of(4)})
	if err != nil {
		t.Errorf("x-3>=0 at the sup boundary should stay Sat (x=3,y=0), got %v", err)
	}
	bx, ok := a.Find(x)
	if !ok || !bx.Const().Equal(rat(3)) {
		t.Errorf("find(x) after pinning the boundary = %v, ok=%v, want constant 3", bx, ok)
	}

	// Acting as the propagator: install the equalities zero-analysis derived
	// at the boundary, then exclude the constant on x's canonical variable.
	for _, e := range d.Eqs {
		if _, err := a.Merge(e); err != nil {
			t.Fatalf("installing derived equality failed: %v", err)
		}
	}
	cx, _ := part.Canon(x)
	if err := a.ExcludeConst(cx, rat(3), justify.Of(5)); err == nil {
		t.Error("x!=3 on top of x-3>=0 (i.e. x>3, beyond sup(x)=3) should be Inconsistent")
	}
}

func TestSnapshotRestoreRoundTrips(t *testing.T) {
	s, _, a := newHarness()
	x := s.External("x", variable.Real).ID
	px := poly.FromVar(x)

	snap := a.Snapshot()
	mustNonneg(t, a, px, 1)
	if _, _, err := a.Sup(px); err != ErrUnbounded {
		t.Fatalf("expected unbounded before restore, got %v", err)
	}

	mustMerge(t, a, px, poly.FromConst(rat(5)), 2)
	bx, ok := a.Find(x)
	if !ok || !bx.Const().Equal(rat(5)) {
		t.Fatalf("find(x) after merge = %v, ok=%v, want 5", bx, ok)
	}

	a.Restore(snap)
	if _, ok := a.Find(x); ok {
		t.Error("restore should undo every binding installed after the snapshot")
	}
}

func TestRestrictedBranchPivotsZeroSlackRow(t *testing.T) {
	// x>=0 and y>=0 put x and y on slacks k1, k2, so x = y+2 takes the
	// restricted branch: add_to_t installs the fresh zero slack k = 2+k2-k1
	// without pivoting, and its positive constant then makes the zero-slack
	// loop pivot k1 out of k's row and compose k = 0.
	s, _, a := newHarness()
	x := s.External("x", variable.Real).ID
	y := s.External("y", variable.Real).ID
	px, py := poly.FromVar(x), poly.FromVar(y)

	mustNonneg(t, a, px, 1)
	mustNonneg(t, a, py, 2)
	mustMerge(t, a, px, py.Add(poly.FromConst(rat(2))), 3) // x = y + 2

	bx, ok := a.Find(x)
	if !ok {
		t.Fatal("find(x) should report a binding after x = y+2")
	}
	_ = bx
	if !a.feasible() {
		t.Error("T should remain feasible (I3) after the chained pivot")
	}
}
