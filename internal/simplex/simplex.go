// Package simplex implements the linear arithmetic core of §4.3: the two
// solution sets R (regular, non-slack left-hand sides) and T (tableau,
// slack left-hand sides), pivoting, Gomory cuts, the zero-analysis
// fixpoint of Infer, and sup/inf maximisation.
//
// Grounded on original_source/src/arith.ml for algorithm shape (solve,
// isolate, the restricted-branch dispatch, Gomory/infer), and on the
// teacher's fd.go/fd_solver.go for the Go realization of its error
// taxonomy (sentinel errors plus a typed error carrying structured detail)
// and incrementally-maintained index conventions (teacher's FDStore
// maintains peer/degree indices the same way this maintains
// dep/negDep/zero/const indices: update in place on every mutation rather
// than recomputing from scratch).
package simplex

import (
	"errors"
	"fmt"

	"icscore/internal/justify"
	"icscore/internal/partition"
	"icscore/internal/variable"
	"icscore/pkg/poly"
	"icscore/pkg/rational"
)

// ErrUnbounded is returned by Sup/Inf when the objective has no finite
// bound, per §4.3's "raise Unbounded" / §7's ErrUnbounded sentinel.
var ErrUnbounded = errors.New("simplex: unbounded")

// InconsistentError reports a detected contradiction (I-violations never
// occur if the algorithm is implemented correctly; this is the expected,
// recoverable "Inconsistent(ρ)" of §7, not a bug).
type InconsistentError struct {
	Reason string
	Just   justify.Set
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("simplex: inconsistent (%s)", e.Reason)
}

func inconsistent(reason string, j justify.Set) error {
	return &InconsistentError{Reason: reason, Just: j}
}

// binding is one entry of R or T together with the justification that
// produced it.
type binding struct {
	rhs  poly.Polynomial
	just justify.Set
}

// Simplex is "A" of §2/§4.3: the pair (R, T) plus their incrementally
// maintained derived indices.
type Simplex struct {
	store *variable.Store
	part  *partition.Partition

	r map[variable.ID]binding // R: non-slack LHS
	t map[variable.ID]binding // T: slack LHS, RHS over slack vars only

	// dep index (per solution set): for variable y, the LHS whose RHS
	// mentions y, in that solution set.
	depR map[variable.ID]map[variable.ID]struct{}
	depT map[variable.ID]map[variable.ID]struct{}

	// neg-dep index: for variable y, the slacks k with k↦b∈T and y∈b⁻.
	negDep map[variable.ID]map[variable.ID]struct{}

	// zero index: bindings in T with |b|=0.
	zeroIdx map[variable.ID]struct{}

	// constant index: LHS (either set) whose RHS is a rational constant.
	constIdx map[variable.ID]struct{}

	// excluded records var ≠ constant facts that could not be turned into
	// a bound by the Diophantine contiguous-segment search (real-domain
	// disequalities, or integer ones kept open); consulted whenever a
	// variable's binding collapses to a constant. This is this repo's
	// realization of §4.4's "keep only the disequality as a non-
	// diophantine fact" for the var-vs-constant shape that the partition
	// (variable-to-variable only) cannot itself represent.
	excluded map[variable.ID][]excludedConst
}

type excludedConst struct {
	value rational.Rational
	just  justify.Set
}

// New creates an empty Simplex sharing store and part with the rest of the
// engine.
func New(store *variable.Store, part *partition.Partition) *Simplex {
	return &Simplex{
		store:    store,
		part:     part,
		r:        make(map[variable.ID]binding),
		t:        make(map[variable.ID]binding),
		depR:     make(map[variable.ID]map[variable.ID]struct{}),
		depT:     make(map[variable.ID]map[variable.ID]struct{}),
		negDep:   make(map[variable.ID]map[variable.ID]struct{}),
		zeroIdx:  make(map[variable.ID]struct{}),
		constIdx: make(map[variable.ID]struct{}),
		excluded: make(map[variable.ID][]excludedConst),
	}
}

// Find returns the binding of x in R or T (whichever holds it), matching
// §6's find(θ=A, x).
func (a *Simplex) Find(x variable.ID) (poly.Polynomial, bool) {
	cx, _ := a.part.Canon(x)
	if b, ok := a.r[cx]; ok {
		return b.rhs, true
	}
	if b, ok := a.t[cx]; ok {
		return b.rhs, true
	}
	return poly.Polynomial{}, false
}

// Inv returns the LHS of the canonical equality whose RHS equals t, per
// §6's inv(t).
func (a *Simplex) Inv(t poly.Polynomial) (variable.ID, bool) {
	ct, _ := a.Canon(t)
	for x, b := range a.r {
		if b.rhs.Equal(ct) {
			return x, true
		}
	}
	for x, b := range a.t {
		if b.rhs.Equal(ct) {
			return x, true
		}
	}
	return 0, false
}

func (a *Simplex) lookupBinding(x variable.ID) (binding, bool) {
	if b, ok := a.r[x]; ok {
		return b, true
	}
	if b, ok := a.t[x]; ok {
		return b, true
	}
	return binding{}, false
}

// Canon returns a canonical term equal to p (§6's can(t)): every variable
// resolved through the partition, then substituted through R/T to a
// fixpoint.
func (a *Simplex) Canon(p poly.Polynomial) (poly.Polynomial, justify.Set) {
	j := justify.Empty
	cur := a.resolvePartitionVars(p, &j)
	for {
		progressed := false
		for _, v := range cur.Vars() {
			if b, ok := a.lookupBinding(v); ok {
				cur = cur.Subst(v, b.rhs)
				j = j.Union(b.just)
				progressed = true
				break
			}
		}
		if !progressed {
			return cur, j
		}
		cur = a.resolvePartitionVars(cur, &j)
	}
}

// resolvePartitionVars replaces every variable of p by its partition
// canonical representative, accumulating justification into *j.
func (a *Simplex) resolvePartitionVars(p poly.Polynomial, j *justify.Set) poly.Polynomial {
	subs := map[variable.ID]poly.Polynomial{}
	for _, v := range p.Vars() {
		cv, pj := a.part.Canon(v)
		if cv != v {
			subs[v] = poly.FromVar(cv)
			*j = j.Union(pj)
		}
	}
	if len(subs) == 0 {
		return p
	}
	return p.SubstAll(subs)
}

// isSlackVar reports whether id is a slack variable, consulting store.
func (a *Simplex) isSlackVar(id variable.ID) bool {
	v, ok := a.store.Lookup(id)
	return ok && v.IsSlack()
}

// isRestricted reports whether every variable of p is a slack (§3's
// "restricted term").
func (a *Simplex) isRestricted(p poly.Polynomial) bool {
	for _, v := range p.Vars() {
		if !a.isSlackVar(v) {
			return false
		}
	}
	return true
}

// isIntVar reports whether id has Int domain.
func (a *Simplex) isIntVar(id variable.ID) bool {
	v, ok := a.store.Lookup(id)
	return ok && v.Domain == variable.Int
}

// isDiophantine reports whether every variable of p is Int-domain, the
// precondition for treating an equation/disequality as Diophantine.
func (a *Simplex) isDiophantine(p poly.Polynomial) bool {
	for _, v := range p.Vars() {
		if !a.isIntVar(v) {
			return false
		}
	}
	return p.AllInteger()
}

func addDep(idx map[variable.ID]map[variable.ID]struct{}, of variable.ID, lhs variable.ID) {
	m, ok := idx[of]
	if !ok {
		m = make(map[variable.ID]struct{})
		idx[of] = m
	}
	m[lhs] = struct{}{}
}

func removeDep(idx map[variable.ID]map[variable.ID]struct{}, of variable.ID, lhs variable.ID) {
	if m, ok := idx[of]; ok {
		delete(m, lhs)
		if len(m) == 0 {
			delete(idx, of)
		}
	}
}

// DepR returns the set of R left-hand sides whose binding mentions y.
func (a *Simplex) DepR(y variable.ID) []variable.ID {
	return setKeys(a.depR[y])
}

// NegDep returns the set of slacks k with k↦b∈T, y∈b⁻.
func (a *Simplex) NegDep(y variable.ID) []variable.ID {
	return setKeys(a.negDep[y])
}

func setKeys(m map[variable.ID]struct{}) []variable.ID {
	out := make([]variable.ID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// ZeroBindings returns the LHS of every T binding currently in the zero
// index (|b|=0), per §3's zero index.
func (a *Simplex) ZeroBindings() []variable.ID {
	return setKeys(a.zeroIdx)
}

// tBinding exposes a T binding for callers (Infer, Pivot) within this
// package's other files.
func (a *Simplex) tBinding(k variable.ID) (poly.Polynomial, justify.Set, bool) {
	b, ok := a.t[k]
	return b.rhs, b.just, ok
}

// feasible reports whether every T binding currently has a nonnegative
// constant part (I3), used by property tests (P7) and internal
// assertions.
func (a *Simplex) feasible() bool {
	for _, b := range a.t {
		if b.rhs.Const().IsNegative() {
			return false
		}
	}
	return true
}
