// Package theory implements the minimal Nelson–Oppen sibling stand-ins of
// SPEC_FULL.md §4.6: U (uninterpreted congruence closure), T (tuples and
// projections), and F (functional arrays). Each is deliberately a few
// dozen lines — enough surface for internal/propagate and the Facade to
// drive the theory interface contract of §6 (sigma/solve/map, with V as
// the shared medium) end-to-end, not a production solver.
//
// Grounded on the teacher's hybrid_registry.go/hybrid.go plugin
// registration pattern: a small registry keyed by tag, each entry a
// struct satisfying Sibling, adapted here from CSP-solver plugins to
// Nelson–Oppen theory siblings.
package theory

import (
	"fmt"

	"icscore/internal/justify"
	"icscore/internal/variable"
)

// Tag identifies one of the four theories a term/variable binding belongs
// to, per §6's find(θ, x): A (arithmetic, owned by internal/simplex), U,
// T, F.
type Tag int

const (
	A Tag = iota
	U
	T
	F
)

func (g Tag) String() string {
	switch g {
	case A:
		return "A"
	case U:
		return "U"
	case T:
		return "T"
	case F:
		return "F"
	default:
		return fmt.Sprintf("theory(%d)", int(g))
	}
}

// App is a theory-tagged application — the non-arithmetic counterpart of
// poly.Polynomial. Func names the symbol ("f", "tuple", "proj0",
// "select", "update", ...); Args are variable handles, never nested Apps
// directly (an impure argument is first flattened through a fresh rename
// variable by the Facade, per §3's "rename" variable kind).
type App struct {
	Func string
	Args []variable.ID
}

// Equal reports whether two applications are syntactically identical.
func (a App) Equal(b App) bool {
	if a.Func != b.Func || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if a.Args[i] != b.Args[i] {
			return false
		}
	}
	return true
}

func (a App) String(store *variable.Store) string {
	parts := make([]string, len(a.Args))
	for i, v := range a.Args {
		if vv, ok := store.Lookup(v); ok {
			parts[i] = vv.String()
		} else {
			parts[i] = fmt.Sprintf("x%d", v)
		}
	}
	out := a.Func + "("
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out + ")"
}

// VarEq is a variable-level equality emitted by a sibling's Solve, routed
// by the caller onto V (merge) — the argument-wise decomposition that
// congruence closure / tuple / array theories reduce an equation to.
type VarEq struct {
	X, Y variable.ID
	Just justify.Set
}

// Sibling is the theory interface contract of §6: sigma normalises an
// application, Solve decomposes an equation between two applications of
// the sibling's theory into variable equalities (or reports that the
// equation cannot be decomposed), and Map substitutes variables inside
// stored terms (used when the partition merges two classes and an
// argument variable stops being a representative).
type Sibling interface {
	Tag() Tag
	// Sigma normalises app, binding it to a representative variable (reusing
	// an existing one if an equal application was already sigma'd — the
	// inverse-functional half of find/inv) and returns any equalities that
	// normalisation itself entails (none of U, T and F returns any: F's
	// select-over-update axiom reduces directly to the stored value).
	Sigma(app App, fresh func() variable.ID, j justify.Set) (variable.ID, []VarEq)
	// Solve decomposes lhs = rhs (two applications of this sibling's own
	// theory) into variable equalities, or reports ok=false if the two
	// applications can never be equal (different function symbols/arity),
	// the sibling's analogue of simplex's Inconsistent.
	Solve(lhs, rhs App, j justify.Set) ([]VarEq, bool)
	// Find returns the application bound to x, per §6's find(θ,x).
	Find(x variable.ID) (App, bool)
	// Inv returns the variable bound to app, per §6's inv(t).
	Inv(app App) (variable.ID, bool)
	// Map rewrites every stored application, replacing occurrences of
	// `from` by `to` (a partition merge collapsing `from`'s class into
	// `to`'s).
	Map(from, to variable.ID)
}

// Registry routes theory facts to the sibling that owns Tag, per the
// teacher's hybrid_registry.go plugin-by-key pattern.
type Registry struct {
	siblings map[Tag]Sibling
}

// NewRegistry builds the standard U/T/F registry SPEC_FULL.md §4.6 names.
func NewRegistry() *Registry {
	r := &Registry{siblings: make(map[Tag]Sibling)}
	r.Register(NewUninterpreted())
	r.Register(NewTuple())
	r.Register(NewArray())
	return r
}

// Register installs (or replaces) the sibling for its own Tag.
func (r *Registry) Register(s Sibling) { r.siblings[s.Tag()] = s }

// Get returns the sibling registered for tag, if any.
func (r *Registry) Get(tag Tag) (Sibling, bool) {
	s, ok := r.siblings[tag]
	return s, ok
}

// basicStore is the shared hash-consed App<->variable bookkeeping reused
// by all three stand-ins: a functional map (var -> App) and its inverse
// (App -> var), exactly the R/inverse-R shape of internal/simplex's
// solution sets, generalised to theory-tagged applications instead of
// polynomials.
type basicStore struct {
	byVar map[variable.ID]App
	order []variable.ID // insertion order, for deterministic Inv scans
}

func newBasicStore() *basicStore {
	return &basicStore{byVar: make(map[variable.ID]App)}
}

func (b *basicStore) find(x variable.ID) (App, bool) {
	a, ok := b.byVar[x]
	return a, ok
}

func (b *basicStore) inv(app App) (variable.ID, bool) {
	// Scan in insertion order so repeated queries are deterministic even
	// though byVar iteration order is not (§5's reproducibility
	// requirement applies to query results the same way it applies to
	// derived-fact ordering).
	for _, x := range b.order {
		if a, ok := b.byVar[x]; ok && a.Equal(app) {
			return x, true
		}
	}
	return 0, false
}

func (b *basicStore) bind(x variable.ID, app App) {
	if _, exists := b.byVar[x]; !exists {
		b.order = append(b.order, x)
	}
	b.byVar[x] = app
}

func (b *basicStore) mapVar(from, to variable.ID) {
	for x, app := range b.byVar {
		changed := false
		args := make([]variable.ID, len(app.Args))
		for i, v := range app.Args {
			if v == from {
				v = to
				changed = true
			}
			args[i] = v
		}
		if changed {
			b.byVar[x] = App{Func: app.Func, Args: args}
		}
	}
}

