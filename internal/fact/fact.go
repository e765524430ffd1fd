// Package fact defines the three kinds of input/derived facts of §3:
// equality, disequality, and nonnegativity, each carrying a justification.
// It is the vocabulary shared between the Simplex (which both consumes
// and, via zero-analysis/Gomory cuts, produces facts) and the Propagator
// (which owns the work queue that routes them).
package fact

import (
	"fmt"

	"icscore/internal/justify"
	"icscore/internal/theory"
	"icscore/internal/variable"
	"icscore/pkg/poly"
)

// Fact is implemented by every kind of work-queue item the Propagator
// drains: Equality, Disequality, Nonneg (arithmetic, routed to the
// Simplex) and AppEq (a theory-level equation, routed to a theory.Sibling
// via its Solve).
type Fact interface {
	isFact()
}

// Equality is the fact "A = B".
type Equality struct {
	A, B poly.Polynomial
	Just justify.Set
}

// Disequality is the fact "A ≠ B".
type Disequality struct {
	A, B poly.Polynomial
	Just justify.Set
}

// Nonneg is the fact "A ≥ 0".
type Nonneg struct {
	A    poly.Polynomial
	Just justify.Set
}

// AppEq is a theory-level equation between two applications of the same
// sibling theory (e.g. f(x1,...) = f(y1,...)), the non-arithmetic
// counterpart of Equality. §6's theory interface contract: a Sibling's
// Solve decomposes this into variable equalities fed back onto V.
type AppEq struct {
	Tag      theory.Tag
	LHS, RHS theory.App
	Just     justify.Set
}

func (Equality) isFact()    {}
func (Disequality) isFact() {}
func (Nonneg) isFact()      {}
func (AppEq) isFact()       {}

// String renders e for diagnostics/tracing.
func (e Equality) String(store *variable.Store) string {
	return fmt.Sprintf("%s = %s", e.A.String(store), e.B.String(store))
}

// String renders d for diagnostics/tracing.
func (d Disequality) String(store *variable.Store) string {
	return fmt.Sprintf("%s != %s", d.A.String(store), d.B.String(store))
}

// String renders n for diagnostics/tracing.
func (n Nonneg) String(store *variable.Store) string {
	return fmt.Sprintf("%s >= 0", n.A.String(store))
}

// String renders a for diagnostics/tracing.
func (a AppEq) String(store *variable.Store) string {
	return fmt.Sprintf("%s:%s = %s", a.Tag, a.LHS.String(store), a.RHS.String(store))
}
