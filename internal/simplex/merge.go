package simplex

import (
	"icscore/internal/fact"
	"icscore/internal/justify"
	"icscore/internal/variable"
	"icscore/pkg/poly"
	"icscore/pkg/rational"
)

// Derived accumulates the new facts a Simplex operation produces for the
// Propagator to enqueue: new variable equalities from Infer's zero-
// analysis, and new nonnegativities from Gomory cuts.
type Derived struct {
	Eqs     []fact.Equality
	Nonnegs []fact.Nonneg
}

func (d *Derived) addEq(a, b poly.Polynomial, j justify.Set) {
	d.Eqs = append(d.Eqs, fact.Equality{A: a, B: b, Just: j})
}

func (d *Derived) addNonneg(p poly.Polynomial, j justify.Set) {
	d.Nonnegs = append(d.Nonnegs, fact.Nonneg{A: p, Just: j})
}

func (d *Derived) merge(other Derived) {
	d.Eqs = append(d.Eqs, other.Eqs...)
	d.Nonnegs = append(d.Nonnegs, other.Nonnegs...)
}

// Merge implements §4.3's merge(e): e is an arithmetic equality a=b.
// Both sides are canonicalised through R∪T, then dispatched by equate.
func (a *Simplex) Merge(e fact.Equality) (Derived, error) {
	ca, ja := a.Canon(e.A)
	cb, jb := a.Canon(e.B)
	j := e.Just.Union(ja).Union(jb)
	return a.equate(ca, cb, j)
}

// Reequate is cascade's (install.go) hook back into the merge dispatch:
// z's binding collapsed, via substitution, to the bare variable gotX;
// treat that exactly as if "z = gotX" had just been freshly asserted.
func (a *Simplex) Reequate(z variable.ID, rhsVar poly.Polynomial, j justify.Set) error {
	_, err := a.equate(poly.FromVar(z), rhsVar, j)
	return err
}

// equate is solve+resolve+dispatch of §4.3's merge, operating on two
// already-canonical terms ca, cb.
func (a *Simplex) equate(ca, cb poly.Polynomial, j justify.Set) (Derived, error) {
	var d Derived
	status, x, p := poly.Solve(a.store, ca, cb)
	switch status {
	case poly.Valid:
		return d, nil
	case poly.Inconsistent:
		return d, inconsistent("equation reduces to a false constant", j)
	}

	// resolve: if x is slack and p mentions a non-slack variable y,
	// isolate for y instead so the non-slack side leads, per §4.3.
	if a.isSlackVar(x) {
		if y, ok := firstNonSlack(a, p); ok {
			if np, ok := poly.Isolate(y, poly.FromVar(x), p); ok {
				x, p = y, np
			}
		}
	}

	switch {
	case !a.isSlackVar(x):
		// "If the left is non-slack: fuse/compose into R." A bare-variable
		// right-hand side is kept out of R (I2) by merging on V instead.
		if z, ok := p.IsVar(); ok {
			return d, a.part.Merge(x, z, j)
		}
		return a.fuseIntoR(x, p, j)

	default:
		if gotY, ok := p.IsVar(); ok && !a.isSlackVar(gotY) {
			// "both sides are variable, one restricted": merge into V and
			// fuse into R.
			if err := a.part.Merge(x, gotY, j); err != nil {
				return d, err
			}
			return a.fuseIntoR(gotY, p, j)
		}
		// Both sides restricted: the restricted branch.
		return a.restrictedBranch(x, p, j)
	}
}

func firstNonSlack(a *Simplex, p poly.Polynomial) (variable.ID, bool) {
	for _, v := range p.Vars() {
		if !a.isSlackVar(v) {
			return v, true
		}
	}
	return 0, false
}

// fuseIntoR composes x↦p into R, running cascading substitution; x must
// be non-slack.
func (a *Simplex) fuseIntoR(x variable.ID, p poly.Polynomial, j justify.Set) (Derived, error) {
	var d Derived
	if err := a.composeR(x, p, j); err != nil {
		return d, err
	}
	return d, nil
}

// restrictedBranch implements §4.3's "Restricted branch": both x and p
// are restricted (slack-only). Forms the diff d=p-FromVar(x), introduces
// a fresh zero slack bound to it, runs add_to_t/Infer/Gomory, then
// classifies the resulting binding of the fresh slack.
func (a *Simplex) restrictedBranch(x variable.ID, p poly.Polynomial, j justify.Set) (Derived, error) {
	var out Derived
	diff := p.Sub(poly.FromVar(x))
	// orient so |diff| <= 0 is not required structurally; add_to_t/pivot
	// handle either sign of the constant, matching arith.ml's practice of
	// not pre-normalizing the sign of a fresh zero-slack binding.
	k := a.store.ZeroSlack()
	dAdd, err := a.addToT(k.ID, diff, j)
	out.merge(dAdd)
	if err != nil {
		return out, err
	}
	dInfer, err := a.Infer()
	out.merge(dInfer)
	if err != nil {
		return out, err
	}
	if cut, cutJust, ok := a.maybeGomoryCut(x, p, j); ok {
		out.addNonneg(cut, cutJust)
	}

	return a.resolveZeroSlack(k.ID, j, out)
}

// resolveZeroSlack is the classification loop of §4.3's restricted
// branch, applied to the fresh zero slack k's current T binding: inferred
// equalities and Gomory cuts have already been folded into acc by the
// caller. It loops rather than recursing explicitly through the ">0,
// pivot, recurse" tail, since every pivot only ever updates k's binding
// in place.
func (a *Simplex) resolveZeroSlack(k variable.ID, j justify.Set, acc Derived) (Derived, error) {
	for {
		rhs, rj, ok := a.tBinding(k)
		if !ok {
			// k no longer heads a row of T (a pivot moved it to the
			// right-hand side of other bindings); as a zero slack it is
			// eliminated by composing k = 0.
			if err := a.composeT(k, poly.FromConst(rational.Zero), j); err != nil {
				return acc, err
			}
			return acc, nil
		}
		combined := j.Union(rj)
		switch {
		case rhs.Const().IsNegative():
			return acc, inconsistent("zero slack bound below zero", combined)
		case rhs.Const().IsZero():
			// a' = 0 is a homogeneous relation among its own monomials:
			// solve it directly for one of them, independent of k.
			y, yok := rhs.LeastPositive(a.store)
			if !yok {
				y, yok = rhs.LeastNegative(a.store)
			}
			if yok {
				if np, ok := poly.Isolate(y, rhs, poly.FromConst(rational.Zero)); ok {
					if err := a.installEq(y, np, combined, true); err != nil {
						return acc, err
					}
				}
			}
			if err := a.composeT(k, poly.FromConst(rational.Zero), combined); err != nil {
				return acc, err
			}
			return acc, nil
		default: // rhs.Const() > 0
			// Pivot the least negative variable of a'. When Pivot picks k's
			// own row (k has the smallest gain), k leaves the left-hand side
			// and the next iteration composes k = 0; otherwise the loop
			// re-examines k's updated binding.
			neg := rhs.Negative(a.store)
			if len(neg) == 0 {
				return acc, inconsistent("zero slack lower-bounded by a positive constant", combined)
			}
			if err := a.Pivot(neg[0]); err != nil {
				return acc, err
			}
		}
	}
}

// gainOf computes the gain of y in k=a (§ glossary): |a|/(-coeff(y,a)).
func gainOf(a poly.Polynomial, y variable.ID) rational.Rational {
	c := a.Coeff(y)
	return a.Const().Div(c.Neg())
}
