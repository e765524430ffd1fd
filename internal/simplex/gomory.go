package simplex

import (
	"icscore/internal/justify"
	"icscore/pkg/poly"
	"icscore/pkg/rational"

	"icscore/internal/variable"
)

// gomoryCutOf builds §4.3's Gomory cut −def(c0) + Σ frac(ci)·xi ≥ 0 for
// the equation x = c0 + Σ ci·xi, or reports false when c0 is already an
// integer (the cut would be trivially 0 ≥ 0).
func gomoryCutOf(p poly.Polynomial) (poly.Polynomial, bool) {
	c0 := p.Const()
	if c0.IsInteger() {
		return poly.Polynomial{}, false
	}
	terms := map[variable.ID]rational.Rational{}
	for _, v := range p.Vars() {
		terms[v] = p.Coeff(v).Frac()
	}
	return poly.New(c0.Deficit().Neg(), terms), true
}

// maybeGomoryCut emits a Gomory cut for the equality x = p when x and
// every variable of p are integer-domain (the Diophantine precondition of
// §4.3's merge/restricted-branch and process_nonneg).
func (a *Simplex) maybeGomoryCut(x variable.ID, p poly.Polynomial, j justify.Set) (poly.Polynomial, justify.Set, bool) {
	if !a.isIntVar(x) || !a.isDiophantine(p) {
		return poly.Polynomial{}, justify.Empty, false
	}
	cut, ok := gomoryCutOf(p)
	if !ok {
		return poly.Polynomial{}, justify.Empty, false
	}
	return cut, j, true
}
