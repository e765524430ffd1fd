package simplex

import (
	"icscore/internal/justify"
	"icscore/pkg/poly"
	"icscore/pkg/rational"
)

// Sup implements §4.3's sup(a): maximise a over the current solution sets,
// or report ErrUnbounded.
func (a *Simplex) Sup(p poly.Polynomial) (rational.Rational, justify.Set, error) {
	cur, j := a.Canon(p)
	for _, v := range cur.Vars() {
		if !a.isSlackVar(v) {
			return rational.Zero, justify.Empty, ErrUnbounded
		}
	}
	for {
		x, ok := cur.LeastPositive(a.store)
		if !ok {
			return cur.Const(), j, nil
		}
		if len(a.negDep[x]) == 0 {
			return rational.Zero, justify.Empty, ErrUnbounded
		}
		if err := a.Pivot(x); err != nil {
			return rational.Zero, justify.Empty, ErrUnbounded
		}
		newCur, nj := a.Canon(cur)
		cur, j = newCur, j.Union(nj)
	}
}

// Inf implements §4.3's inf(a) = −sup(−a).
func (a *Simplex) Inf(p poly.Polynomial) (rational.Rational, justify.Set, error) {
	v, j, err := a.Sup(p.Neg())
	if err != nil {
		return rational.Zero, justify.Empty, err
	}
	return v.Neg(), j, nil
}
