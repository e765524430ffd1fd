package simplex

import (
	"fmt"

	"icscore/pkg/poly"
	"icscore/pkg/rational"

	"icscore/internal/variable"
)

// Pivot implements §4.3's Pivot: isolate y in the T binding that minimises
// gain, tie-broken by store order on the binding's left-hand side.
func (a *Simplex) Pivot(y variable.ID) error {
	var bestK variable.ID
	var bestGain rational.Rational
	found := false
	for k := range a.negDep[y] {
		b, ok := a.t[k]
		if !ok {
			continue
		}
		g := gainOf(b.rhs, y)
		switch {
		case !found:
			bestK, bestGain, found = k, g, true
		case g.Cmp(bestGain) < 0:
			bestK, bestGain = k, g
		case g.Cmp(bestGain) == 0 && a.store.Less(k, bestK):
			bestK = k
		}
	}
	if !found {
		return fmt.Errorf("simplex: %v is unbounded, cannot pivot", y)
	}
	b := a.t[bestK]
	np, ok := poly.Isolate(y, poly.FromVar(bestK), b.rhs)
	if !ok {
		return fmt.Errorf("simplex: pivot could not isolate %v", y)
	}
	return a.composeT(y, np, b.just)
}

// Infer runs §4.3's two-phase zero-analysis fixpoint and maximises every
// zero binding it licenses, emitting the resulting variable equalities.
func (a *Simplex) Infer() (Derived, error) {
	var out Derived

	z := map[variable.ID]struct{}{}
	for k := range a.zeroIdx {
		rhs, _, ok := a.tBinding(k)
		if !ok {
			continue
		}
		for _, y := range rhs.Negative(a.store) {
			z[y] = struct{}{}
		}
	}

	for {
		removed := false
		for y := range z {
			drop := false
			for k := range a.negDep[y] {
				rhs, _, ok := a.tBinding(k)
				if !ok {
					continue
				}
				for _, v := range rhs.Positive(a.store) {
					if _, in := z[v]; !in {
						drop = true
						break
					}
				}
				if drop {
					break
				}
			}
			if drop {
				delete(z, y)
				removed = true
				break
			}
		}
		if !removed {
			break
		}
	}

	for {
		added := false
		for k := range a.t {
			if _, in := z[k]; in {
				continue
			}
			rhs, _, ok := a.tBinding(k)
			if !ok {
				continue
			}
			pos := rhs.Positive(a.store)
			if len(pos) == 0 {
				continue
			}
			allIn := true
			for _, v := range pos {
				if _, in := z[v]; !in {
					allIn = false
					break
				}
			}
			if allIn {
				z[k] = struct{}{}
				added = true
			}
		}
		if !added {
			break
		}
	}

	candidates := a.ZeroBindings()
	for _, k := range candidates {
		if err := a.maximizeZero(k, z, &out); err != nil {
			return out, err
		}
	}
	return out, nil
}

// maximizeZero implements the per-binding "maximise" loop of Infer's
// step 3.
func (a *Simplex) maximizeZero(k variable.ID, z map[variable.ID]struct{}, out *Derived) error {
	for {
		rhs, j, ok := a.tBinding(k)
		if !ok || !rhs.Const().IsZero() {
			return nil
		}
		pos := rhs.Positive(a.store)
		if len(pos) == 0 {
			for _, y := range rhs.Negative(a.store) {
				out.addEq(poly.FromVar(y), poly.FromConst(rational.Zero), j)
			}
			return nil
		}
		for _, y := range pos {
			if len(a.negDep[y]) == 0 {
				return nil
			}
			if _, in := z[y]; !in {
				return nil
			}
		}
		if err := a.Pivot(pos[0]); err != nil {
			return nil
		}
	}
}
