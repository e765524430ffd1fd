package poly

import (
	"math/big"
	"sort"

	"icscore/internal/variable"
	"icscore/pkg/rational"
)

// DioStatus classifies the outcome of SolveDiophantine.
type DioStatus int

const (
	// DioValid means the equation holds unconditionally.
	DioValid DioStatus = iota
	// DioInconsistent means no integer assignment satisfies the equation
	// (gcd of the coefficients does not divide the constant term).
	DioInconsistent
	// DioSolved means a parameterized family of integer solutions was
	// found; see DioSolution.
	DioSolved
)

// DioSolution is a parameterized integer solution of a Diophantine
// equation: Assign gives, for every original variable that the equation
// mentions, a Polynomial over the fresh integer Params (and possibly over
// other original variables that were never eliminated) equal to that
// variable's value. Every Param ranges over all of ℤ independently.
type DioSolution struct {
	Assign map[variable.ID]Polynomial
	Params []variable.ID
}

// term is a mutable working representation used only inside
// SolveDiophantine; unlike Polynomial it is never exposed to callers.
type term struct {
	v variable.ID
	c *big.Int
}

// SolveDiophantine solves eq = 0 (an AllInteger Polynomial) over the
// integers, per §4.1: "given a linear equation with integer coefficients,
// return either Valid, Inconsistent, or a parameterised solution
// introducing fresh integer parameters." Fresh parameters are minted from
// store as FreshTheoryVar(Int), matching the spec's note that integer
// solver output is "generated by theory solvers" in variable-kind terms.
//
// The algorithm is the standard single-equation elimination by repeated
// Euclidean reduction of the two smallest-magnitude coefficients: at each
// step it replaces the pair (a·x + b·y) by (a·t + r·y) with t a fresh
// integer variable and r = b mod a, recording x = t - q·y for later
// back-substitution. This strictly shrinks the minimum coefficient
// magnitude, so it terminates; when only one nonzero coefficient remains
// its magnitude is gcd(coefficients of eq), and the equation is solvable
// iff that gcd divides the constant term.
func SolveDiophantine(store *variable.Store, eq Polynomial) (DioStatus, DioSolution) {
	c0 := eq.Const().Num() // AllInteger precondition: denominator 1
	vars := sorted(store, eq.Vars())
	if len(vars) == 0 {
		if c0.Sign() == 0 {
			return DioValid, DioSolution{}
		}
		return DioInconsistent, DioSolution{}
	}

	active := make([]term, len(vars))
	for i, v := range vars {
		active[i] = term{v: v, c: eq.Coeff(v).Num()}
	}

	// substitutions[x] records that original/intermediate variable x was
	// eliminated in favor of expr (over variables still active or later
	// eliminated in turn); replayed in reverse to build final assignments.
	type elimStep struct {
		eliminated variable.ID
		expr       Polynomial // in terms of the surviving variable(s) of that step
	}
	var chain []elimStep

	rem := new(big.Int).Set(c0)

	for len(active) > 1 {
		sort.Slice(active, func(i, j int) bool {
			return new(big.Int).Abs(active[i].c).Cmp(new(big.Int).Abs(active[j].c)) < 0
		})
		a, b := active[0], active[1]
		// a·x + b·y, |a.c| <= |b.c|; write b.c = q*a.c + r, 0 <= r < |a.c|.
		q, r := new(big.Int), new(big.Int)
		q.DivMod(b.c, a.c, r)
		if new(big.Int).Abs(a.c).Sign() == 0 {
			// unreachable: zero coefficients were filtered by Polynomial's
			// own invariant (stored coefficients are always nonzero).
			break
		}
		// t := x + q*y is the fresh replacement; x = t - q*y.
		t := store.FreshTheoryVar(variable.Int)
		chain = append(chain, elimStep{
			eliminated: a.v,
			expr:       FromVar(t.ID).Sub(FromVar(b.v).Scale(rational.NewFromBigInts(q, big.NewInt(1)))),
		})
		newActive := []term{{v: t.ID, c: new(big.Int).Set(a.c)}}
		if r.Sign() != 0 {
			newActive = append(newActive, term{v: b.v, c: new(big.Int).Set(r)})
		}
		active = append(newActive, active[2:]...)
	}

	last := active[0]
	g := new(big.Int).Abs(last.c)
	q, r := new(big.Int), new(big.Int)
	q.DivMod(rem, g, r)
	if r.Sign() != 0 {
		return DioInconsistent, DioSolution{}
	}
	// last.c * lastVar + rem = 0  =>  lastVar = -rem/last.c
	lastVal := new(big.Int).Neg(rem)
	lastVal.Div(lastVal, last.c)
	finalExpr := map[variable.ID]Polynomial{last.v: FromConst(rational.NewFromBigInts(lastVal, big.NewInt(1)))}

	// Replay the elimination chain in reverse: each step's eliminated
	// variable's expr may itself mention a variable resolved by a later
	// (already-processed, since we go in reverse) step.
	for i := len(chain) - 1; i >= 0; i-- {
		step := chain[i]
		expr := step.expr
		for v, p := range finalExpr {
			if expr.Has(v) {
				expr = expr.Subst(v, p)
			}
		}
		finalExpr[step.eliminated] = expr
	}

	assign := make(map[variable.ID]Polynomial, len(vars))
	for _, v := range vars {
		assign[v] = finalExpr[v]
	}
	var params []variable.ID
	seen := map[variable.ID]bool{}
	for _, p := range assign {
		for _, v := range p.Vars() {
			if !seen[v] {
				seen[v] = true
				params = append(params, v)
			}
		}
	}
	sort.Slice(params, func(i, j int) bool { return store.Less(params[i], params[j]) })
	return DioSolved, DioSolution{Assign: assign, Params: params}
}
