// Adapted from the teacher's core_test.go style (one test function per
// scenario, plain t.Error/t.Fatal).
package propagate

import (
	"testing"

	"icscore/internal/fact"
	"icscore/internal/justify"
	"icscore/internal/partition"
	"icscore/internal/simplex"
	"icscore/internal/theory"
	"icscore/internal/variable"
	"icscore/pkg/poly"
	"icscore/pkg/rational"
)

func newHarness() (*variable.Store, *partition.Partition, *simplex.Simplex, *Propagator) {
	s := variable.NewStore()
	p := partition.New(s)
	sx := simplex.New(s, p)
	reg := theory.NewRegistry()
	return s, p, sx, New(s, p, sx, reg)
}

func rat(n int64) rational.Rational { return rational.FromInt64(n) }

func TestRunDrainsToSat(t *testing.T) {
	s, _, _, prop := newHarness()
	x := s.External("x", variable.Real).ID
	y := s.External("y", variable.Real).ID
	px, py := poly.FromVar(x), poly.FromVar(y)

	prop.Enqueue(fact.Equality{A: px.Add(py), B: poly.FromConst(rat(3)), Just: justify.Of(1)})
	prop.Enqueue(fact.Nonneg{A: px, Just: justify.Of(2)})
	prop.Enqueue(fact.Nonneg{A: py, Just: justify.Of(3)})
	prop.Enqueue(fact.Equality{A: px.Sub(py), B: poly.FromConst(rat(1)), Just: justify.Of(4)})

	if err := prop.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
}

func TestDisequalityBetweenEqualVarsIsInconsistent(t *testing.T) {
	s, _, _, prop := newHarness()
	x := s.External("x", variable.Real).ID
	px := poly.FromVar(x)

	prop.Enqueue(fact.Equality{A: px, B: poly.FromConst(rat(5)), Just: justify.Of(1)})
	prop.Enqueue(fact.Disequality{A: px, B: poly.FromConst(rat(5)), Just: justify.Of(2)})

	if err := prop.Run(); err == nil {
		t.Fatal("x=5 and x!=5 together should be Inconsistent")
	}
}

func TestBareVariableDisequalityGoesToPartition(t *testing.T) {
	s, part, _, prop := newHarness()
	x := s.External("x", variable.Real).ID
	y := s.External("y", variable.Real).ID
	px, py := poly.FromVar(x), poly.FromVar(y)

	prop.Enqueue(fact.Disequality{A: px, B: py, Just: justify.Of(1)})
	if err := prop.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if !part.IsDiseq(x, y).IsYes() {
		t.Error("partition should know x != y after dispatch")
	}
}

func TestIntegerDisequalitySplitsAroundExcludedValue(t *testing.T) {
	s, _, sx, prop := newHarness()
	x := s.External("x", variable.Int).ID
	px := poly.FromVar(x)

	prop.Enqueue(fact.Nonneg{A: px, Just: justify.Of(1)})
	prop.Enqueue(fact.Nonneg{A: poly.FromConst(rat(2)).Sub(px), Just: justify.Of(2)})
	prop.Enqueue(fact.Disequality{A: px, B: poly.FromConst(rat(1)), Just: justify.Of(3)})
	if err := prop.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	sup, _, err := sx.Sup(px)
	if err != nil {
		t.Fatalf("Sup(x) = %v", err)
	}
	if !sup.Equal(rat(2)) {
		t.Errorf("sup(x) = %v, want 2 (0<=x<=2, x!=1 still allows x=2)", sup)
	}
}

func TestRealDisequalityAgainstConstantIsExcludedNotBounded(t *testing.T) {
	s, _, sx, prop := newHarness()
	x := s.External("x", variable.Real).ID
	px := poly.FromVar(x)

	prop.Enqueue(fact.Disequality{A: px, B: poly.FromConst(rat(3)), Just: justify.Of(1)})
	if err := prop.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil (a real disequality alone is always Sat)", err)
	}

	if err := sx.ExcludeConst(x, rat(3), justify.Of(2)); err == nil {
		t.Error("asserting the excluded constant again should be Inconsistent")
	}
}

func TestAppEqDispatchesToSiblingSolve(t *testing.T) {
	s, _, _, prop := newHarness()
	a := s.External("a", variable.Real).ID
	b := s.External("b", variable.Real).ID
	c := s.External("c", variable.Real).ID
	d := s.External("d", variable.Real).ID

	lhs := theory.App{Func: "f", Args: []variable.ID{a, b}}
	rhs := theory.App{Func: "f", Args: []variable.ID{c, d}}
	prop.Enqueue(fact.AppEq{Tag: theory.U, LHS: lhs, RHS: rhs, Just: justify.Of(1)})
	if err := prop.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
}

func TestProtectRollsBackOnInconsistent(t *testing.T) {
	s, _, sx, prop := newHarness()
	x := s.External("x", variable.Real).ID
	px := poly.FromVar(x)

	prop.Enqueue(fact.Nonneg{A: px, Just: justify.Of(1)})
	if err := prop.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	err := prop.TryBranch(fact.Nonneg{A: poly.FromConst(rat(-1)).Sub(px), Just: justify.Of(2)})
	if err == nil {
		t.Fatal("x>=0 and x<=-1 together should be Inconsistent")
	}

	if _, _, err := sx.Sup(px); err == nil {
		t.Error("Sup(x) should still report Unbounded after the rolled-back branch")
	}
}

func TestMaxGomoryCutsBudgetDropsExcessCuts(t *testing.T) {
	_, _, _, prop := newHarness()
	prop.SetMaxGomoryCuts(1)
	prop.absorb(simplex.Derived{Nonnegs: []fact.Nonneg{
		{A: poly.FromConst(rat(0)), Just: justify.Of(1)},
		{A: poly.FromConst(rat(0)), Just: justify.Of(2)},
		{A: poly.FromConst(rat(0)), Just: justify.Of(3)},
	}})
	if len(prop.queue) != 1 {
		t.Errorf("queue len = %d, want 1 (budget of 1 Gomory cut)", len(prop.queue))
	}
}
