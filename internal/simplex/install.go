package simplex

import (
	"icscore/internal/justify"
	"icscore/internal/variable"
	"icscore/pkg/poly"
)

// indexInsert records a freshly installed binding x↦p in the dep/negDep/
// zero/const indices. Callers must have already removed any stale entry
// for x (see indexRemove) if x was previously bound.
func (a *Simplex) indexInsert(x variable.ID, p poly.Polynomial, inT bool) {
	dep := a.depR
	if inT {
		dep = a.depT
	}
	for _, v := range p.Vars() {
		addDep(dep, v, x)
	}
	if inT {
		for _, v := range p.Negative(a.store) {
			addDep(a.negDep, v, x)
		}
		if p.Const().IsZero() {
			a.zeroIdx[x] = struct{}{}
		}
	}
	if p.IsConstant() {
		a.constIdx[x] = struct{}{}
	}
}

// indexRemove undoes indexInsert for x's previous binding oldP.
func (a *Simplex) indexRemove(x variable.ID, oldP poly.Polynomial, inT bool) {
	dep := a.depR
	if inT {
		dep = a.depT
	}
	for _, v := range oldP.Vars() {
		removeDep(dep, v, x)
	}
	if inT {
		for _, v := range oldP.Negative(a.store) {
			removeDep(a.negDep, v, x)
		}
		delete(a.zeroIdx, x)
	}
	delete(a.constIdx, x)
}

// composeR installs x↦p into R with justification j, cascading the
// substitution into every existing binding (in either set) that currently
// depends on x, per the "composition" step of a Shostak-style solver: a
// newly bound variable must be eliminated everywhere else too so R/T stay
// in canonical, fully-reduced form (I1/I2).
//
// Precondition: x is non-slack, p is not a bare variable (I2), x ∉
// vars(p). If a cascaded substitution collapses some dependent's RHS to a
// bare variable, Reequate is invoked to re-run the merge dispatch for that
// pair, which is the only way I2 can be restored once broken by
// cascading.
func (a *Simplex) composeR(x variable.ID, p poly.Polynomial, j justify.Set) error {
	return a.compose(x, p, j, false)
}

// composeT is composeR's counterpart for T: x must be slack and p
// restricted (I4).
func (a *Simplex) composeT(x variable.ID, p poly.Polynomial, j justify.Set) error {
	return a.compose(x, p, j, true)
}

func (a *Simplex) compose(x variable.ID, p poly.Polynomial, j justify.Set, inT bool) error {
	if gotX, ok := p.IsVar(); ok && gotX == x {
		panic("simplex: attempted to compose x = x")
	}
	if old, ok := a.lookupBinding(x); ok {
		a.indexRemove(x, old.rhs, a.bindingInT(x))
		if a.bindingInT(x) {
			delete(a.t, x)
		} else {
			delete(a.r, x)
		}
	}
	if p.IsConstant() {
		if err := a.checkExcluded(x, p.Const(), j); err != nil {
			return err
		}
	}

	set := a.r
	if inT {
		set = a.t
	}
	set[x] = binding{rhs: p, just: j}
	a.indexInsert(x, p, inT)

	return a.cascade(x, p, j)
}

// installEq installs x ↦ p, or — if p is itself a bare variable z —
// merges x and z on the partition instead, since I2 forbids a bare-
// variable right-hand side in either R or T. Used wherever an isolate
// step's result is about to be installed directly, outside the main
// equate dispatch that otherwise guarantees this.
func (a *Simplex) installEq(x variable.ID, p poly.Polynomial, j justify.Set, inT bool) error {
	if z, ok := p.IsVar(); ok {
		return a.part.Merge(x, z, j)
	}
	if inT {
		return a.composeT(x, p, j)
	}
	return a.composeR(x, p, j)
}

// bindingInT reports whether x's current binding (if any) lives in T.
func (a *Simplex) bindingInT(x variable.ID) bool {
	_, ok := a.t[x]
	return ok
}

// cascade substitutes x↦p into every existing dependent binding (in both
// R and T, since a slack composed into T may be depended on by an R
// binding and vice versa through mixed-variable polynomials) and, if a
// dependent's RHS collapses to a bare variable as a result, re-dispatches
// that pair through Reequate to restore I2.
func (a *Simplex) cascade(x variable.ID, p poly.Polynomial, j justify.Set) error {
	depends := append(setKeys(a.depR[x]), setKeys(a.depT[x])...)
	for _, z := range depends {
		if z == x {
			continue
		}
		old, ok := a.lookupBinding(z)
		if !ok || !old.rhs.Has(x) {
			continue
		}
		inT := a.bindingInT(z)
		a.indexRemove(z, old.rhs, inT)
		newRHS := old.rhs.Subst(x, p)
		newJust := old.just.Union(j)
		if gotX, ok := newRHS.IsVar(); ok {
			// The cascade broke I2 for z: z is now equivalent to a bare
			// variable. Drop z's binding entirely and re-run the merge
			// dispatch so the pair is resolved the same way a direct
			// "z = gotX" equality would be.
			if inT {
				delete(a.t, z)
			} else {
				delete(a.r, z)
			}
			if err := a.Reequate(z, poly.FromVar(gotX), newJust); err != nil {
				return err
			}
			continue
		}
		if newRHS.IsConstant() {
			if err := a.checkExcluded(z, newRHS.Const(), newJust); err != nil {
				return err
			}
		}
		set := a.r
		if inT {
			set = a.t
		}
		set[z] = binding{rhs: newRHS, just: newJust}
		a.indexInsert(z, newRHS, inT)
	}
	return nil
}
