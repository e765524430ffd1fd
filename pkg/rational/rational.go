// Package rational provides exact, arbitrary-precision rational arithmetic
// for the simplex and polynomial layers. Unlike the teacher package's
// machine-int Rational, coefficients and bounds encountered during pivoting
// and Gomory cuts can grow without an a priori size limit, so this type is
// built on math/big.Rat rather than fixed-width integers.
//
// Values are always normalized (reduced to lowest terms, positive
// denominator) and are treated as immutable: every operation returns a new
// Rational rather than mutating the receiver.
package rational

import (
	"fmt"
	"math/big"
)

// Rational is an exact rational number in normalized form.
type Rational struct {
	r *big.Rat
}

// Zero is the rational 0/1.
var Zero = Rational{r: new(big.Rat)}

// One is the rational 1/1.
var One = FromInt64(1)

// FromInt64 creates the rational n/1.
func FromInt64(n int64) Rational {
	return Rational{r: new(big.Rat).SetInt64(n)}
}

// New creates the rational num/den in normalized form. Panics if den is
// zero, matching the teacher's NewRational panic-on-division-by-zero
// convention.
//
// Examples:
//
//	New(6, 8)   -> 3/4
//	New(-6, 8)  -> -3/4
//	New(0, 5)   -> 0
func New(num, den int64) Rational {
	if den == 0 {
		panic("rational: division by zero")
	}
	return Rational{r: new(big.Rat).SetFrac64(num, den)}
}

// NewFromBigInts creates the rational num/den from arbitrary-precision
// integers. Panics if den is zero.
func NewFromBigInts(num, den *big.Int) Rational {
	if den.Sign() == 0 {
		panic("rational: division by zero")
	}
	return Rational{r: new(big.Rat).SetFrac(num, den)}
}

func wrap(r *big.Rat) Rational { return Rational{r: r} }

// Add returns r + other.
func (r Rational) Add(other Rational) Rational {
	return wrap(new(big.Rat).Add(r.ratOrZero(), other.ratOrZero()))
}

// Sub returns r - other.
func (r Rational) Sub(other Rational) Rational {
	return wrap(new(big.Rat).Sub(r.ratOrZero(), other.ratOrZero()))
}

// Mul returns r * other.
func (r Rational) Mul(other Rational) Rational {
	return wrap(new(big.Rat).Mul(r.ratOrZero(), other.ratOrZero()))
}

// Div returns r / other. Panics if other is zero.
func (r Rational) Div(other Rational) Rational {
	if other.IsZero() {
		panic("rational: division by zero")
	}
	return wrap(new(big.Rat).Quo(r.ratOrZero(), other.ratOrZero()))
}

// Neg returns -r.
func (r Rational) Neg() Rational {
	return wrap(new(big.Rat).Neg(r.ratOrZero()))
}

// Sign returns -1, 0, or 1 according to the sign of r.
func (r Rational) Sign() int {
	return r.ratOrZero().Sign()
}

// IsZero reports whether r is exactly zero.
func (r Rational) IsZero() bool { return r.Sign() == 0 }

// IsPositive reports whether r > 0.
func (r Rational) IsPositive() bool { return r.Sign() > 0 }

// IsNegative reports whether r < 0.
func (r Rational) IsNegative() bool { return r.Sign() < 0 }

// Cmp compares r and other, returning -1, 0, or 1.
func (r Rational) Cmp(other Rational) int {
	return r.ratOrZero().Cmp(other.ratOrZero())
}

// IsInteger reports whether r has denominator 1.
func (r Rational) IsInteger() bool {
	return r.ratOrZero().IsInt()
}

// Floor returns the greatest integer <= r, as a Rational with denominator 1.
//
// Uses Euclidean division of the normalized numerator by the (always
// positive) denominator, which coincides with floor division exactly
// because big.Rat always normalizes to a positive denominator.
func (r Rational) Floor() Rational {
	q := r.ratOrZero()
	num, den := q.Num(), q.Denom()
	quo := new(big.Int)
	mod := new(big.Int)
	quo.DivMod(num, den, mod)
	return wrap(new(big.Rat).SetInt(quo))
}

// Ceil returns the least integer >= r.
//
// ceil(q) = -floor(-q).
func (r Rational) Ceil() Rational {
	return r.Neg().Floor().Neg()
}

// Frac returns the fractional part frac(q) = q - floor(q), always in [0,1).
func (r Rational) Frac() Rational {
	return r.Sub(r.Floor())
}

// Deficit returns def(q) = ceil(q) - q, always in [0,1).
//
// def is the complement of Frac: def(q) = 0 when q is already an integer,
// and def(q) = 1 - frac(q) otherwise.
func (r Rational) Deficit() Rational {
	return r.Ceil().Sub(r)
}

// Num returns the normalized numerator.
func (r Rational) Num() *big.Int { return new(big.Int).Set(r.ratOrZero().Num()) }

// Den returns the normalized (always positive) denominator.
func (r Rational) Den() *big.Int { return new(big.Int).Set(r.ratOrZero().Denom()) }

// ToFloat returns a floating-point approximation of r. Never used for
// decision-relevant comparisons, only for diagnostics.
func (r Rational) ToFloat() float64 {
	f, _ := r.ratOrZero().Float64()
	return f
}

// String renders r as "num/den", or just "num" when den is 1, matching the
// teacher's Rational.String convention.
func (r Rational) String() string {
	q := r.ratOrZero()
	if q.IsInt() {
		return q.Num().String()
	}
	return fmt.Sprintf("%s/%s", q.Num().String(), q.Denom().String())
}

// Equal reports whether r and other denote the same rational number.
func (r Rational) Equal(other Rational) bool {
	return r.Cmp(other) == 0
}

// ratOrZero lets the Rational zero value (declared but never constructed
// through New/FromInt64) behave as 0 rather than nil-panic.
func (r Rational) ratOrZero() *big.Rat {
	if r.r == nil {
		return new(big.Rat)
	}
	return r.r
}
