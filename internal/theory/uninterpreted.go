package theory

import (
	"icscore/internal/justify"
	"icscore/internal/variable"
)

// Uninterpreted is the U stand-in of §4.6: sigma always produces the
// trivial signature sigma(f, args) = f(args) (no normalisation beyond
// hash-consing), and Solve on f(x̄) = f(ȳ) emits the standard congruence-
// closure argument-wise decomposition xi = yi — no full closure table, no
// transitive congruence discovery beyond what internal/propagate's
// fixed-point loop gives for free by re-merging.
type Uninterpreted struct {
	store *basicStore
}

// NewUninterpreted constructs an empty U sibling.
func NewUninterpreted() *Uninterpreted {
	return &Uninterpreted{store: newBasicStore()}
}

func (u *Uninterpreted) Tag() Tag { return U }

// Sigma implements sigma(f, args) = f(args): reuses an existing
// representative if this exact application was already sigma'd
// (inverse-functional hash-consing), otherwise mints one via fresh and
// binds it. Emits no equalities of its own — U's axioms are all
// discovered through Solve.
func (u *Uninterpreted) Sigma(app App, fresh func() variable.ID, j justify.Set) (variable.ID, []VarEq) {
	if x, ok := u.store.inv(app); ok {
		return x, nil
	}
	x := fresh()
	u.store.bind(x, app)
	return x, nil
}

// Solve decomposes f(x̄) = f(ȳ) into xi = yi for matching function symbol
// and arity; a mismatch in symbol or arity means the two applications can
// never be equal under the uninterpreted-function axioms (ok=false).
func (u *Uninterpreted) Solve(lhs, rhs App, j justify.Set) ([]VarEq, bool) {
	if lhs.Func != rhs.Func || len(lhs.Args) != len(rhs.Args) {
		return nil, false
	}
	eqs := make([]VarEq, 0, len(lhs.Args))
	for i := range lhs.Args {
		if lhs.Args[i] == rhs.Args[i] {
			continue
		}
		eqs = append(eqs, VarEq{X: lhs.Args[i], Y: rhs.Args[i], Just: j})
	}
	return eqs, true
}

func (u *Uninterpreted) Find(x variable.ID) (App, bool) { return u.store.find(x) }
func (u *Uninterpreted) Inv(app App) (variable.ID, bool) { return u.store.inv(app) }
func (u *Uninterpreted) Map(from, to variable.ID)        { u.store.mapVar(from, to) }
