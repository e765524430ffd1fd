package theory

import (
	"icscore/internal/justify"
	"icscore/internal/variable"
)

// Tuple is the T stand-in of §4.6: sigma normalises proj(i, tuple(x̄)) to
// xi directly (a projection of a literal tuple construction needs no
// fresh variable at all), and Solve on tuple(x̄) = tuple(ȳ) emits the
// componentwise equalities xi = yi.
type Tuple struct {
	store *basicStore
}

// NewTuple constructs an empty T sibling.
func NewTuple() *Tuple { return &Tuple{store: newBasicStore()} }

func (t *Tuple) Tag() Tag { return T }

// Sigma implements sigma for both of T's two symbols:
//   - "tuple": hash-consed construction, same as Uninterpreted.Sigma.
//   - "proj<i>": if Args[0] is itself bound to a "tuple" application,
//     projection reduces immediately to that tuple's i-th argument
//     (returned directly, no fresh variable, no binding installed) —
//     this is the "proj(i, tuple(t1,...,tn)) normalises to ti" rule of
//     §4.6. Otherwise proj is hash-consed like any other application.
func (t *Tuple) Sigma(app App, fresh func() variable.ID, j justify.Set) (variable.ID, []VarEq) {
	if idx, ok := projIndex(app.Func); ok && len(app.Args) == 1 {
		if inner, ok := t.store.find(app.Args[0]); ok && inner.Func == "tuple" && idx < len(inner.Args) {
			return inner.Args[idx], nil
		}
	}
	if x, ok := t.store.inv(app); ok {
		return x, nil
	}
	x := fresh()
	t.store.bind(x, app)
	return x, nil
}

// Solve decomposes tuple(x̄) = tuple(ȳ) into xi = yi; mismatched arity is
// Inconsistent (ok=false). Only the "tuple" constructor is ever compared
// this way — equalities between two "proj" applications with unrelated
// arguments are left to the Uninterpreted-style congruence the Facade
// applies uniformly to any non-decomposable theory term (outside T's own
// axioms, per §1's scope: "Shostak-style solvers for tuples ... only
// their required interface is specified").
func (t *Tuple) Solve(lhs, rhs App, j justify.Set) ([]VarEq, bool) {
	if lhs.Func != "tuple" || rhs.Func != "tuple" || len(lhs.Args) != len(rhs.Args) {
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

func (t *Tuple) Find(x variable.ID) (App, bool)  { return t.store.find(x) }
func (t *Tuple) Inv(app App) (variable.ID, bool) { return t.store.inv(app) }
func (t *Tuple) Map(from, to variable.ID)        { t.store.mapVar(from, to) }

// projIndex parses a "proj<i>" function symbol into its index.
func projIndex(fn string) (int, bool) {
	if len(fn) < 5 || fn[:4] != "proj" {
		return 0, false
	}
	n := 0
	for _, c := range fn[4:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
