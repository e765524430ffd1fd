// Package poly implements the canonical linear polynomials of §3/§4.1:
// c0 + Σ ci·xi with ci in pkg/rational and xi distinct variable.ID handles.
// A Polynomial is immutable; every operation returns a new value.
//
// Variable order (needed to pick "least positive/negative monomial" and to
// iterate deterministically) is never baked into the Polynomial itself —
// it is supplied by the caller's *variable.Store at the point of use. This
// mirrors the teacher's rational_linear_sum.go, which also keeps its terms
// in a plain map and defers ordering to the caller.
package poly

import (
	"fmt"
	"sort"

	"icscore/internal/variable"
	"icscore/pkg/rational"
)

// Polynomial is c0 + Σ ci·xi, ci never zero, xi distinct.
type Polynomial struct {
	c0    rational.Rational
	terms map[variable.ID]rational.Rational
}

// Const returns the constant part c0, |a| in the spec's notation.
func (p Polynomial) Const() rational.Rational { return p.c0 }

// FromConst builds the constant polynomial c.
func FromConst(c rational.Rational) Polynomial {
	return Polynomial{c0: c}
}

// FromVar builds the bare polynomial x (c0=0, coefficient 1 on x).
func FromVar(x variable.ID) Polynomial {
	return Polynomial{terms: map[variable.ID]rational.Rational{x: rational.One}}
}

// New builds c0 + Σ ci·xi from an explicit coefficient map. Zero
// coefficients are dropped so that the Polynomial invariant (every stored
// coefficient is nonzero) holds.
func New(c0 rational.Rational, coeffs map[variable.ID]rational.Rational) Polynomial {
	p := Polynomial{c0: c0, terms: make(map[variable.ID]rational.Rational, len(coeffs))}
	for x, c := range coeffs {
		if !c.IsZero() {
			p.terms[x] = c
		}
	}
	return p
}

// Coeff returns the coefficient of x in p, or zero if x does not occur.
func (p Polynomial) Coeff(x variable.ID) rational.Rational {
	if p.terms == nil {
		return rational.Zero
	}
	if c, ok := p.terms[x]; ok {
		return c
	}
	return rational.Zero
}

// IsConstant reports whether p has no variables.
func (p Polynomial) IsConstant() bool { return len(p.terms) == 0 }

// IsZero reports whether p is identically 0.
func (p Polynomial) IsZero() bool { return p.IsConstant() && p.c0.IsZero() }

// IsVar reports whether p is a bare variable (c0=0, single coefficient 1),
// returning that variable. Used throughout the simplex to detect "the
// right-hand side is a variable" per invariant I2.
func (p Polynomial) IsVar() (variable.ID, bool) {
	if !p.c0.IsZero() || len(p.terms) != 1 {
		return 0, false
	}
	for x, c := range p.terms {
		if c.Equal(rational.One) {
			return x, true
		}
	}
	return 0, false
}

// Vars returns the variables with a nonzero coefficient, in no particular
// order. Callers needing a deterministic order should use Positive/
// Negative/sorted below.
func (p Polynomial) Vars() []variable.ID {
	out := make([]variable.ID, 0, len(p.terms))
	for x := range p.terms {
		out = append(out, x)
	}
	return out
}

// Has reports whether x occurs in p with nonzero coefficient.
func (p Polynomial) Has(x variable.ID) bool {
	_, ok := p.terms[x]
	return ok
}

func sorted(store *variable.Store, xs []variable.ID) []variable.ID {
	out := append([]variable.ID(nil), xs...)
	sort.Slice(out, func(i, j int) bool { return store.Less(out[i], out[j]) })
	return out
}

// Positive returns the variables of a⁺ (positive coefficients), ordered
// ascending by store's variable order.
func (p Polynomial) Positive(store *variable.Store) []variable.ID {
	var out []variable.ID
	for x, c := range p.terms {
		if c.IsPositive() {
			out = append(out, x)
		}
	}
	return sorted(store, out)
}

// Negative returns the variables of a⁻ (negative coefficients), ordered
// ascending by store's variable order.
func (p Polynomial) Negative(store *variable.Store) []variable.ID {
	var out []variable.ID
	for x, c := range p.terms {
		if c.IsNegative() {
			out = append(out, x)
		}
	}
	return sorted(store, out)
}

// LeastPositive returns the least (by store order) variable with a
// positive coefficient, if any.
func (p Polynomial) LeastPositive(store *variable.Store) (variable.ID, bool) {
	xs := p.Positive(store)
	if len(xs) == 0 {
		return 0, false
	}
	return xs[0], true
}

// LeastNegative returns the least (by store order) variable with a
// negative coefficient, if any.
func (p Polynomial) LeastNegative(store *variable.Store) (variable.ID, bool) {
	xs := p.Negative(store)
	if len(xs) == 0 {
		return 0, false
	}
	return xs[0], true
}

// Add returns p + q.
func (p Polynomial) Add(q Polynomial) Polynomial {
	out := map[variable.ID]rational.Rational{}
	for x, c := range p.terms {
		out[x] = c
	}
	for x, c := range q.terms {
		out[x] = out[x].Add(c)
	}
	return New(p.c0.Add(q.c0), out)
}

// Sub returns p - q.
func (p Polynomial) Sub(q Polynomial) Polynomial {
	return p.Add(q.Scale(rational.FromInt64(-1)))
}

// Neg returns -p.
func (p Polynomial) Neg() Polynomial {
	return p.Scale(rational.FromInt64(-1))
}

// Scale returns c·p.
func (p Polynomial) Scale(c rational.Rational) Polynomial {
	if c.IsZero() {
		return FromConst(rational.Zero)
	}
	out := make(map[variable.ID]rational.Rational, len(p.terms))
	for x, cx := range p.terms {
		out[x] = cx.Mul(c)
	}
	return Polynomial{c0: p.c0.Mul(c), terms: out}
}

// WithoutVar returns p with x's monomial dropped, leaving the rest
// unchanged.
func (p Polynomial) WithoutVar(x variable.ID) Polynomial {
	if !p.Has(x) {
		return p
	}
	out := make(map[variable.ID]rational.Rational, len(p.terms))
	for y, c := range p.terms {
		if y != x {
			out[y] = c
		}
	}
	return Polynomial{c0: p.c0, terms: out}
}

// Subst substitutes variable x by polynomial by, a linear map: every
// occurrence c·x becomes c·by, and the result is re-flattened into
// canonical form (monomials combined, zero coefficients dropped).
func (p Polynomial) Subst(x variable.ID, by Polynomial) Polynomial {
	c, ok := p.terms[x]
	if !ok {
		return p
	}
	return p.WithoutVar(x).Add(by.Scale(c))
}

// SubstAll substitutes every variable in subs (a var -> polynomial map) in
// one pass, as if applying Subst for each key in turn; since the
// substitutions here are never mutually recursive (subs never contains a
// key also present in the range of another subs entry within a single
// call) the order of application does not matter.
func (p Polynomial) SubstAll(subs map[variable.ID]Polynomial) Polynomial {
	out := p
	for x, by := range subs {
		if out.Has(x) {
			out = out.Subst(x, by)
		}
	}
	return out
}

// Equal reports whether p and q denote the same polynomial (same constant,
// same nonzero coefficients).
func (p Polynomial) Equal(q Polynomial) bool {
	return p.Sub(q).IsZero()
}

// AllInteger reports whether every coefficient (including c0) is an
// integer — the precondition for treating an equation as Diophantine.
func (p Polynomial) AllInteger() bool {
	if !p.c0.IsInteger() {
		return false
	}
	for _, c := range p.terms {
		if !c.IsInteger() {
			return false
		}
	}
	return true
}

// String renders p for diagnostics as "c0 + c1*x1 + c2*x2 + ...", omitting
// zero terms, matching the teacher's terse Stringer convention.
func (p Polynomial) String(store *variable.Store) string {
	s := p.c0.String()
	for _, x := range sorted(store, p.Vars()) {
		c := p.terms[x]
		name := fmt.Sprintf("x%d", x)
		if v, ok := store.Lookup(x); ok {
			name = v.String()
		}
		if c.Sign() >= 0 {
			s += fmt.Sprintf(" + %s*%s", c, name)
		} else {
			s += fmt.Sprintf(" - %s*%s", c.Neg(), name)
		}
	}
	return s
}

// Isolate isolates x from a = b, i.e. rewrites the equation as x = p with
// x ∉ vars(p). Requires x ∈ vars(a - b); returns false otherwise, matching
// §4.1's precondition.
func Isolate(x variable.ID, a, b Polynomial) (Polynomial, bool) {
	d := a.Sub(b)
	c := d.Coeff(x)
	if c.IsZero() {
		return Polynomial{}, false
	}
	rest := d.WithoutVar(x)
	return rest.Scale(rational.FromInt64(-1).Div(c)), true
}

// SolveStatus classifies the outcome of Solve.
type SolveStatus int

const (
	// Valid means a = b holds unconditionally (reduces to 0 = 0).
	Valid SolveStatus = iota
	// Inconsistent means a = b reduces to a nonzero constant.
	Inconsistent
	// Solved means a = b is equivalent to x = p, x ∉ vars(p).
	Solved
)

// Solve classifies a = b per §4.1: Valid (0=0), Inconsistent (c=0 for
// c≠0), or Solved(x, p) with x the least (by store order) variable of
// a - b and p the isolated right-hand side.
func Solve(store *variable.Store, a, b Polynomial) (SolveStatus, variable.ID, Polynomial) {
	d := a.Sub(b)
	if d.IsConstant() {
		if d.IsZero() {
			return Valid, 0, Polynomial{}
		}
		return Inconsistent, 0, Polynomial{}
	}
	xs := sorted(store, d.Vars())
	x := xs[0]
	p, ok := Isolate(x, a, b)
	if !ok {
		// unreachable: x was just taken from vars(a-b)
		return Inconsistent, 0, Polynomial{}
	}
	return Solved, x, p
}
