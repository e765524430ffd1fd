package simplex

import (
	"icscore/internal/justify"
	"icscore/pkg/poly"
	"icscore/pkg/rational"

	"icscore/internal/variable"
)

// findUnboundedPositive returns a positive-coefficient variable of p that
// has no negative occurrence anywhere in T (negdep empty), i.e. an
// unbounded variable in the glossary's sense.
func (a *Simplex) findUnboundedPositive(p poly.Polynomial) (variable.ID, bool) {
	for _, y := range p.Positive(a.store) {
		if len(a.negDep[y]) == 0 {
			return y, true
		}
	}
	return 0, false
}

func (a *Simplex) isZeroSlackVar(id variable.ID) bool {
	v, ok := a.store.Lookup(id)
	return ok && v.IsZeroSlack()
}

// addToT implements §4.3's add_to_t(k = a): k is slack, a is restricted.
func (a *Simplex) addToT(k variable.ID, d poly.Polynomial, j justify.Set) (Derived, error) {
	var out Derived
	if d.Const().Sign() >= 0 {
		if err := a.composeT(k, d, j); err != nil {
			return out, err
		}
		return out, nil
	}
	if len(d.Positive(a.store)) == 0 {
		return out, inconsistent("restricted term has negative constant and no positive monomial", j)
	}
	if y, ok := a.findUnboundedPositive(d); ok {
		if np, ok := poly.Isolate(y, poly.FromVar(k), d); ok {
			if a.isZeroSlackVar(k) {
				np = np.Subst(k, poly.FromConst(rational.Zero))
			}
			if err := a.installEq(y, np, j, true); err != nil {
				return out, err
			}
			return out, nil
		}
	}
	y, _ := d.LeastPositive(a.store)
	if err := a.Pivot(y); err != nil {
		return out, err
	}
	newD, nj := a.Canon(d)
	return a.addToT(k, newD, j.Union(nj))
}
