package simplex

import (
	"icscore/internal/fact"
	"icscore/pkg/poly"

	"icscore/internal/variable"
)

// ProcessNonneg implements §4.3's process_nonneg(a ≥ 0, ρ).
func (a *Simplex) ProcessNonneg(n fact.Nonneg) (Derived, error) {
	var out Derived
	p, cj := a.Canon(n.A)
	j := n.Just.Union(cj)

	if p.IsConstant() {
		if p.Const().IsNegative() {
			return out, inconsistent("nonnegativity of a negative constant", j)
		}
		return out, nil
	}

	dom := variable.Real
	if a.isDiophantine(p) {
		dom = variable.Int
	}
	k := a.store.FreshSlack(dom)

	if y, ok := firstNonSlack(a, p); ok {
		np, ok := poly.Isolate(y, poly.FromVar(k.ID), p)
		if !ok {
			return out, nil
		}
		if err := a.installEq(y, np, j, false); err != nil {
			return out, err
		}
		return out, nil
	}

	if y, ok := a.findUnboundedPositive(p); ok {
		if np, ok := poly.Isolate(y, poly.FromVar(k.ID), p); ok {
			if err := a.installEq(y, np, j, true); err != nil {
				return out, err
			}
			return out, nil
		}
	}

	dAdd, err := a.addToT(k.ID, p, j)
	out.merge(dAdd)
	if err != nil {
		return out, err
	}
	dInfer, err := a.Infer()
	out.merge(dInfer)
	if err != nil {
		return out, err
	}
	if cut, cutJust, ok := a.maybeGomoryCut(k.ID, p, j); ok {
		out.addNonneg(cut, cutJust)
	}
	return out, nil
}
