// Package proplogic implements the minimal propositional layer stub of
// §4.7: a formula is an atomic fact, a negation, a conjunction, or a
// disjunction. process() (the Facade's, not this package's) only ever
// pushes atoms and flat conjunctions of atoms onto the Propagator
// directly via Push; resolve() performs naive exhaustive case-splitting
// over the disjunctions Push could not flatten, trying each disjunct
// inside a Propagator.Protect scope.
//
// Grounded on the teacher's labeling.go/search.go depth-first
// case-exploration shape (try a choice, recurse, backtrack on failure),
// adapted here from FD-variable-value labeling to propositional
// case-splitting over formula disjuncts.
package proplogic

import (
	"fmt"

	"icscore/internal/fact"
	"icscore/internal/propagate"
	"icscore/pkg/poly"
	"icscore/pkg/rational"
)

// Formula is the propositional layer's AST node.
type Formula interface{ formula() }

// Atom wraps a single arithmetic or theory-level fact.
type Atom struct{ Fact fact.Fact }

// Not is the negation of a formula.
type Not struct{ Of Formula }

// And is a conjunction.
type And struct{ L, R Formula }

// Or is a disjunction — the only node Push cannot flatten on its own.
type Or struct{ L, R Formula }

func (Atom) formula() {}
func (Not) formula()  {}
func (And) formula()  {}
func (Or) formula()   {}

// Push walks f, enqueuing every atom it can resolve to a concrete fact
// (after pushing Not down through And/Or and resolving a negated atom to
// its negation per negate below) directly onto prop, and returns the list
// of Or subformulas it could not flatten — the residual work resolve()
// must case-split over. A negated Nonneg decomposes into an And of two
// atoms, both enqueued immediately. An error here means f holds a negated
// atom negate cannot rewrite or a formula type Push does not know; Push
// never calls prop.Run itself, leaving that to the caller so a caller
// pushing several top-level conjuncts gets one fixed-point pass over all
// of them.
func Push(prop *propagate.Propagator, f Formula) ([]Formula, error) {
	switch v := f.(type) {
	case Atom:
		prop.Enqueue(v.Fact)
		return nil, nil
	case Not:
		if _, isAtom := v.Of.(Atom); !isAtom {
			return Push(prop, Negate(v.Of))
		}
		neg, ok := negate(v.Of)
		if !ok {
			return nil, fmt.Errorf("proplogic: cannot negate %T", v.Of)
		}
		return Push(prop, neg)
	case And:
		left, err := Push(prop, v.L)
		if err != nil {
			return nil, err
		}
		right, err := Push(prop, v.R)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case Or:
		return []Formula{v}, nil
	default:
		return nil, fmt.Errorf("proplogic: unknown formula %T", f)
	}
}

// negate rewrites the negation of an atomic fact into an equivalent
// Formula: ¬(s=t) is s≠t and vice versa; ¬(a≥0) is a<0, represented per
// §3's "positivity a>0 is the pair (a≥0, a≠0)" as the And of (-a≥0) and
// (a≠0). AppEq has no negation in this spec's scope (the theory siblings
// never decompose a negated application equality); negating anything but
// an Atom of a §3 arithmetic fact is a formula the propositional layer
// has no representation for.
func negate(f Formula) (Formula, bool) {
	a, ok := f.(Atom)
	if !ok {
		return nil, false
	}
	switch ft := a.Fact.(type) {
	case fact.Equality:
		return Atom{fact.Disequality{A: ft.A, B: ft.B, Just: ft.Just}}, true
	case fact.Disequality:
		return Atom{fact.Equality{A: ft.A, B: ft.B, Just: ft.Just}}, true
	case fact.Nonneg:
		return And{
			Atom{fact.Nonneg{A: ft.A.Neg(), Just: ft.Just}},
			Atom{fact.Disequality{A: ft.A, B: poly.FromConst(rational.Zero), Just: ft.Just}},
		}, true
	default:
		return nil, false
	}
}

// Resolve performs §4.7's naive exhaustive case-split over pending (the
// Or subformulas Push deferred), trying each side of each disjunction
// inside a Propagator.Protect scope, committing the first side that
// survives and backtracking to the other on Inconsistent. Returns nil
// (Sat) if some assignment of every disjunct survives, or the error from
// the last-tried disjunct if every combination is Inconsistent.
func Resolve(prop *propagate.Propagator, pending []Formula) error {
	if len(pending) == 0 {
		return prop.Run()
	}
	or, ok := pending[0].(Or)
	if !ok {
		return fmt.Errorf("proplogic: resolve expects only Or formulas in pending, got %T", pending[0])
	}
	rest := pending[1:]
	errL := tryDisjunct(prop, or.L, rest)
	if errL == nil {
		return nil
	}
	errR := tryDisjunct(prop, or.R, rest)
	if errR == nil {
		return nil
	}
	return errR
}

// Negate builds ¬f by De Morgan over And/Or/Not, pushing the negation down
// to the Atom leaves where it is left as a Not (Push resolves those via the
// package-level negate above). Used by the Facade's valid() query, which
// tests the current context plus ¬φ for Inconsistent.
func Negate(f Formula) Formula {
	switch v := f.(type) {
	case Not:
		return v.Of
	case And:
		return Or{L: Negate(v.L), R: Negate(v.R)}
	case Or:
		return And{L: Negate(v.L), R: Negate(v.R)}
	default:
		return Not{Of: f}
	}
}

func tryDisjunct(prop *propagate.Propagator, disjunct Formula, rest []Formula) error {
	return prop.Protect(func() error {
		more, err := Push(prop, disjunct)
		if err != nil {
			return err
		}
		if err := prop.Run(); err != nil {
			return err
		}
		return Resolve(prop, append(more, rest...))
	})
}
