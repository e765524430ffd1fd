package theory

import (
	"icscore/internal/justify"
	"icscore/internal/variable"
)

// Array is the F stand-in of §4.6: functional arrays with exactly the two
// McCarthy axioms, rather than a full read-over-write rewrite system:
//
//  1. select(update(a,i,v), i) = v — unconditional, applied in Sigma the
//     moment select(update(...), i) is constructed by returning v as its
//     representative (no equality is emitted).
//  2. select(update(a,i,v), j) = select(a,j) when i ≠ j is known on V —
//     conditional on partition knowledge, so it is only checked from
//     Solve, when the caller is actually comparing two select
//     applications and can supply the oracle.
type Array struct {
	store   *basicStore
	isDiseq func(x, y variable.ID) bool
}

// NewArray constructs an empty F sibling. The disequality oracle consulted
// by axiom 2 defaults to "never known disequal" until SetDiseqOracle is
// called; the Facade wires it to the shared VarPartition once both exist
// (the registry is built before the partition, so this can't be a
// constructor argument without an import cycle between internal/theory
// and internal/partition's query surface).
func NewArray() *Array {
	return &Array{store: newBasicStore(), isDiseq: func(variable.ID, variable.ID) bool { return false }}
}

// SetDiseqOracle installs the partition-backed "is x known disequal from
// y" query axiom 2 needs.
func (f *Array) SetDiseqOracle(oracle func(x, y variable.ID) bool) { f.isDiseq = oracle }

func (f *Array) Tag() Tag { return F }

// Sigma implements sigma for F's three symbols ("update", "select",
// "array" for a bare uninterpreted array variable's hash-consing is
// unnecessary since arrays are always introduced as external/rename
// variables, never constructed applications): ordinary hash-consing, plus
// axiom 1 fired unconditionally whenever a "select" application's first
// argument is itself a bound "update" application with a matching index.
func (f *Array) Sigma(app App, fresh func() variable.ID, j justify.Set) (variable.ID, []VarEq) {
	var emitted []VarEq
	if app.Func == "select" && len(app.Args) == 2 {
		if upd, ok := f.store.find(app.Args[0]); ok && upd.Func == "update" && len(upd.Args) == 3 {
			updIdx, updVal := upd.Args[1], upd.Args[2]
			if updIdx == app.Args[1] {
				// select(update(a,i,v), i) = v: reduces directly, no fresh
				// variable needed, matching Tuple.Sigma's proj-of-tuple shortcut.
				return updVal, emitted
			}
		}
	}
	if x, ok := f.store.inv(app); ok {
		return x, emitted
	}
	x := fresh()
	f.store.bind(x, app)
	return x, emitted
}

// Solve decomposes select(update(a,i,v),j) = select(a,j) per axiom 2, when
// i≠j is already known on V; any other pair of F applications (two
// "update"s, two unrelated "select"s without the update-decomposable
// shape) is left undecomposed (ok=false), matching §1's "only their
// required interface is specified" scope limit — full array theory
// (extensionality, read-over-write completeness) is out of scope.
func (f *Array) Solve(lhs, rhs App, j justify.Set) ([]VarEq, bool) {
	if eqs, ok := f.axiom2(lhs, rhs, j); ok {
		return eqs, true
	}
	if eqs, ok := f.axiom2(rhs, lhs, j); ok {
		return eqs, true
	}
	return nil, false
}

// axiom2 checks the one-directional shape "select(update(a,i,v), j) =
// select(a, j)" with lhs playing the update-wrapped side.
func (f *Array) axiom2(lhs, rhs App, j justify.Set) ([]VarEq, bool) {
	if lhs.Func != "select" || rhs.Func != "select" || len(lhs.Args) != 2 || len(rhs.Args) != 2 {
		return nil, false
	}
	upd, ok := f.store.find(lhs.Args[0])
	if !ok || upd.Func != "update" || len(upd.Args) != 3 {
		return nil, false
	}
	a, i := upd.Args[0], upd.Args[1]
	jIdx := lhs.Args[1]
	if a != rhs.Args[0] || jIdx != rhs.Args[1] {
		return nil, false
	}
	if !f.isDiseq(i, jIdx) {
		return nil, false
	}
	if lhs.Args[1] == rhs.Args[1] {
		return nil, true
	}
	return []VarEq{{X: lhs.Args[1], Y: rhs.Args[1], Just: j}}, true
}

func (f *Array) Find(x variable.ID) (App, bool)  { return f.store.find(x) }
func (f *Array) Inv(app App) (variable.ID, bool) { return f.store.inv(app) }
func (f *Array) Map(from, to variable.ID)        { f.store.mapVar(from, to) }
