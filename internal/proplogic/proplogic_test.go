// Adapted from the teacher's core_test.go style (one test function per
// scenario, plain t.Error/t.Fatal).
package proplogic

import (
	"reflect"
	"testing"

	"icscore/internal/fact"
	"icscore/internal/justify"
	"icscore/internal/partition"
	"icscore/internal/propagate"
	"icscore/internal/simplex"
	"icscore/internal/theory"
	"icscore/internal/variable"
	"icscore/pkg/poly"
	"icscore/pkg/rational"
)

func newHarness() (*variable.Store, *propagate.Propagator) {
	s := variable.NewStore()
	p := partition.New(s)
	sx := simplex.New(s, p)
	reg := theory.NewRegistry()
	return s, propagate.New(s, p, sx, reg)
}

func rat(n int64) rational.Rational { return rational.FromInt64(n) }

func TestPushFlattensConjunctionOfAtoms(t *testing.T) {
	s, prop := newHarness()
	x := s.External("x", variable.Real).ID
	px := poly.FromVar(x)

	f := And{
		L: Atom{fact.Nonneg{A: px, Just: justify.Of(1)}},
		R: Atom{fact.Nonneg{A: poly.FromConst(rat(5)).Sub(px), Just: justify.Of(2)}},
	}
	pending, err := Push(prop, f)
	if err != nil {
		t.Fatalf("Push() = %v, want nil", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %v, want none (a flat conjunction of atoms fully flattens)", pending)
	}
	if err := prop.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
}

func TestPushDefersDisjunction(t *testing.T) {
	s, prop := newHarness()
	x := s.External("x", variable.Real).ID
	px := poly.FromVar(x)

	f := Or{
		L: Atom{fact.Equality{A: px, B: poly.FromConst(rat(1)), Just: justify.Of(1)}},
		R: Atom{fact.Equality{A: px, B: poly.FromConst(rat(2)), Just: justify.Of(2)}},
	}
	pending, err := Push(prop, f)
	if err != nil {
		t.Fatalf("Push() = %v, want nil", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %v, want exactly the one Or", pending)
	}
}

func TestNegateEqualityIsDisequality(t *testing.T) {
	s, _ := newHarness()
	x := s.External("x", variable.Real).ID
	px := poly.FromVar(x)

	f := Atom{fact.Equality{A: px, B: poly.FromConst(rat(1)), Just: justify.Of(1)}}
	neg, ok := negate(f)
	if !ok {
		t.Fatal("negate(Atom{Equality}) should succeed")
	}
	atom, ok := neg.(Atom)
	if !ok {
		t.Fatalf("negate(Atom{Equality}) = %T, want Atom", neg)
	}
	if _, ok := atom.Fact.(fact.Disequality); !ok {
		t.Errorf("negate(Atom{Equality}) fact = %T, want fact.Disequality", atom.Fact)
	}
}

func TestNegatePushesThroughAndOr(t *testing.T) {
	a := Atom{fact.Nonneg{}}
	b := Atom{fact.Nonneg{}}

	if _, ok := Negate(And{a, b}).(Or); !ok {
		t.Error("Negate(And) should be an Or")
	}
	if _, ok := Negate(Or{a, b}).(And); !ok {
		t.Error("Negate(Or) should be an And")
	}
	if got := Negate(Not{a}); !reflect.DeepEqual(got, Formula(a)) {
		t.Errorf("Negate(Not{a}) = %v, want a", got)
	}
}

func TestResolveCommitsFirstSurvivingDisjunct(t *testing.T) {
	s, prop := newHarness()
	x := s.External("x", variable.Real).ID
	px := poly.FromVar(x)

	prop.Enqueue(fact.Equality{A: px, B: poly.FromConst(rat(1)), Just: justify.Of(1)})
	if err := prop.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	or := Or{
		L: Atom{fact.Equality{A: px, B: poly.FromConst(rat(2)), Just: justify.Of(2)}}, // x=1 already, so x=2 branch fails
		R: Atom{fact.Nonneg{A: px, Just: justify.Of(3)}},                              // x=1 >= 0 survives
	}
	if err := Resolve(prop, []Formula{or}); err != nil {
		t.Fatalf("Resolve() = %v, want nil (second disjunct survives)", err)
	}
}

func TestResolveFailsWhenEveryDisjunctFails(t *testing.T) {
	s, prop := newHarness()
	x := s.External("x", variable.Real).ID
	px := poly.FromVar(x)

	prop.Enqueue(fact.Equality{A: px, B: poly.FromConst(rat(1)), Just: justify.Of(1)})
	if err := prop.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	or := Or{
		L: Atom{fact.Equality{A: px, B: poly.FromConst(rat(2)), Just: justify.Of(2)}},
		R: Atom{fact.Equality{A: px, B: poly.FromConst(rat(3)), Just: justify.Of(3)}},
	}
	if err := Resolve(prop, []Formula{or}); err == nil {
		t.Fatal("Resolve() should fail: x is already 1, neither disjunct can hold")
	}
}
