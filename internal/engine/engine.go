// Package engine implements the Facade of §6: the single stateful object
// an embedder drives (process/resolve/can/sup/inf/find/inv/save/restore),
// wiring together the variable Store, the VarPartition, the Simplex, the
// theory Registry and the Propagator, and owning the arena of asserted-atom
// IDs that justify.Set entries refer back to.
//
// Grounded on the teacher's top-level Solver type (fd.go): one struct
// holding every component, a handful of verb methods, a save/restore stack
// realized as snapshot closures rather than data — this engine's version
// of the teacher's incremental search-tree checkpoints.
package engine

import (
	"errors"
	"fmt"

	"icscore/internal/fact"
	"icscore/internal/justify"
	"icscore/internal/partition"
	"icscore/internal/propagate"
	"icscore/internal/proplogic"
	"icscore/internal/simplex"
	"icscore/internal/status"
	"icscore/internal/theory"
	"icscore/internal/variable"
	"icscore/pkg/poly"
	"icscore/pkg/rational"
)

// Options configures a Facade at construction time, per SPEC_FULL.md §2.1.
type Options struct {
	// MaxGomoryCuts bounds the number of Gomory-cut nonnegativities a single
	// Facade will ever enqueue (0 = unlimited). A guard against a
	// pathological Diophantine problem cutting forever, not something any
	// of the §8 scenarios exercise.
	MaxGomoryCuts int
	// CompleteTests relaxes Valid to attempt non-atomic formulas (still via
	// the same single-negation-and-refute test, not full propositional
	// completeness — see Valid's doc comment).
	CompleteTests bool
}

// DefaultOptions returns the zero-value Options (unlimited cuts, Valid
// restricted to atomic formulas).
func DefaultOptions() Options { return Options{} }

// Facade is the engine's single entry point.
type Facade struct {
	store *variable.Store
	part  *partition.Partition
	simp  *simplex.Simplex
	reg   *theory.Registry
	prop  *propagate.Propagator

	opts   Options
	status status.Status

	// pending holds the Or subformulas Process's calls to proplogic.Push
	// could not flatten, carried forward until Resolve is asked to
	// case-split over them.
	pending []proplogic.Formula

	nextAtom justify.AtomID
	// asserted records, in submission order, every top-level formula handed
	// to Process, keyed by the AtomID its leaf facts were stamped with —
	// the table CoreFormulas and tracing translate an unsat core back
	// through.
	asserted      map[justify.AtomID]proplogic.Formula
	assertedOrder []justify.AtomID
}

// New builds a Facade with its own, fresh variable.Store/Partition/Simplex/
// theory.Registry/Propagator, per the standard U/T/F registry of §4.6.
func New(opts Options) *Facade {
	store := variable.NewStore()
	part := partition.New(store)
	simp := simplex.New(store, part)
	reg := theory.NewRegistry()
	if arr, ok := reg.Get(theory.F); ok {
		if a, ok := arr.(*theory.Array); ok {
			a.SetDiseqOracle(func(x, y variable.ID) bool { return part.IsDiseq(x, y).IsYes() })
		}
	}
	prop := propagate.New(store, part, simp, reg)
	if opts.MaxGomoryCuts > 0 {
		prop.SetMaxGomoryCuts(opts.MaxGomoryCuts)
	}
	return &Facade{
		store:    store,
		part:     part,
		simp:     simp,
		reg:      reg,
		prop:     prop,
		opts:     opts,
		status:   status.SatStatus(),
		asserted: make(map[justify.AtomID]proplogic.Formula),
	}
}

// SetTrace installs the ambient diagnostic hook (SPEC_FULL.md §2.1) on the
// underlying Propagator.
func (f *Facade) SetTrace(fn propagate.TraceFunc) { f.prop.SetTrace(fn) }

// Status returns the StatusEngine's current flag.
func (f *Facade) Status() status.Status { return f.status }

// --- term/variable constructors (§3's variable-creation design note) ---

// NewVar allocates a fresh external (user-introduced) variable.
func (f *Facade) NewVar(name string, dom variable.Domain) variable.ID {
	return f.store.External(name, dom).ID
}

// FreshRename allocates a fresh rename variable, used by callers flattening
// an impure term (a nested theory application) before submitting a fact
// about it — e.g. `f(g(x)) = y` becomes `t := fresh(); f(t) = y; g(x) = t`.
func (f *Facade) FreshRename(dom variable.Domain) variable.ID {
	return f.store.FreshRename(dom).ID
}

// Lookup exposes variable metadata for diagnostics/pretty-printing.
func (f *Facade) Lookup(x variable.ID) (variable.Var, bool) { return f.store.Lookup(x) }

// Render renders a polynomial using this Facade's variable names, for
// diagnostics (callers outside this package have no other way to name a
// poly.Polynomial's variables, since variable.Store is unexported here).
func (f *Facade) Render(p poly.Polynomial) string { return p.String(f.store) }

// Apply sigma-normalises a theory application, binding it to a
// representative variable (reusing one if an equal application is already
// known) and immediately running any axiom-entailed equalities the sibling
// returns to a fixed point (none of U, T and F returns any from Sigma: F's
// select-over-update and T's projection-of-tuple reduce directly to an
// argument variable).
func (f *Facade) Apply(tag theory.Tag, fn string, args []variable.ID) (variable.ID, error) {
	sib, ok := f.reg.Get(tag)
	if !ok {
		return 0, fmt.Errorf("engine: no sibling registered for theory %v", tag)
	}
	x, eqs := sib.Sigma(theory.App{Func: fn, Args: args}, func() variable.ID {
		return f.store.FreshTheoryVar(variable.Real).ID
	}, justify.Empty)
	for _, eq := range eqs {
		f.prop.Enqueue(fact.Equality{A: poly.FromVar(eq.X), B: poly.FromVar(eq.Y), Just: eq.Just})
	}
	if err := f.prop.Run(); err != nil {
		return 0, err
	}
	return x, nil
}

// --- formula constructors (free functions: no justification is stamped
// until Process assigns the enclosing assertion's AtomID) ---

// Eq builds the atomic formula a = b.
func Eq(a, b poly.Polynomial) proplogic.Formula {
	return proplogic.Atom{Fact: fact.Equality{A: a, B: b}}
}

// Diseq builds the atomic formula a ≠ b.
func Diseq(a, b poly.Polynomial) proplogic.Formula {
	return proplogic.Atom{Fact: fact.Disequality{A: a, B: b}}
}

// NonnegF builds the atomic formula a ≥ 0.
func NonnegF(a poly.Polynomial) proplogic.Formula {
	return proplogic.Atom{Fact: fact.Nonneg{A: a}}
}

// Pos builds the atomic-conjunction formula a > 0, per §3's "positivity is
// the pair (a≥0, a≠0)".
func Pos(a poly.Polynomial) proplogic.Formula {
	return proplogic.And{L: NonnegF(a), R: Diseq(a, poly.FromConst(rational.Zero))}
}

// AppEq builds the atomic formula lhs = rhs between two theory applications
// of the same sibling theory.
func AppEq(tag theory.Tag, lhs, rhs theory.App) proplogic.Formula {
	return proplogic.Atom{Fact: fact.AppEq{Tag: tag, LHS: lhs, RHS: rhs}}
}

// Not, And, Or re-export proplogic's connectives so callers need not import
// that package directly just to build formulas.
func Not(x proplogic.Formula) proplogic.Formula    { return proplogic.Not{Of: x} }
func And(l, r proplogic.Formula) proplogic.Formula { return proplogic.And{L: l, R: r} }
func Or(l, r proplogic.Formula) proplogic.Formula  { return proplogic.Or{L: l, R: r} }

// --- process / resolve (§4.5/§6) ---

// Process implements §6's process(φ): assigns φ a fresh AtomID, stamps
// every leaf fact with it, pushes it onto the Propagator, and reports the
// resulting status. Flat conjunctions of atoms resolve immediately;
// disjunctions are deferred to Resolve.
func (f *Facade) Process(phi proplogic.Formula) status.Status {
	atom := f.allocAtom()
	tagged := tagAtoms(phi, atom)
	f.asserted[atom] = tagged
	f.assertedOrder = append(f.assertedOrder, atom)

	more, err := proplogic.Push(f.prop, tagged)
	if err == nil {
		err = f.prop.Run()
	}
	if err != nil {
		f.status = f.classifyError(err)
		return f.status
	}
	if len(more) > 0 {
		f.pending = append(f.pending, more...)
	}
	if len(f.pending) > 0 {
		f.status = status.UnknownStatus()
		return f.status
	}
	f.status = status.SatStatus()
	return f.status
}

// Resolve implements §6's resolve(): naive exhaustive case-split over every
// disjunction Process deferred. Once this returns Sat or Unsat, the
// deferred work is gone — call Process again before the next Resolve if
// more formulas are asserted afterward.
func (f *Facade) Resolve() status.Status {
	pending := f.pending
	f.pending = nil
	if err := proplogic.Resolve(f.prop, pending); err != nil {
		f.status = f.classifyError(err)
		return f.status
	}
	f.status = status.SatStatus()
	return f.status
}

func (f *Facade) allocAtom() justify.AtomID {
	a := f.nextAtom
	f.nextAtom++
	return a
}

func tagAtoms(form proplogic.Formula, atom justify.AtomID) proplogic.Formula {
	switch v := form.(type) {
	case proplogic.Atom:
		return proplogic.Atom{Fact: tagFact(v.Fact, atom)}
	case proplogic.Not:
		return proplogic.Not{Of: tagAtoms(v.Of, atom)}
	case proplogic.And:
		return proplogic.And{L: tagAtoms(v.L, atom), R: tagAtoms(v.R, atom)}
	case proplogic.Or:
		return proplogic.Or{L: tagAtoms(v.L, atom), R: tagAtoms(v.R, atom)}
	default:
		return form
	}
}

func tagFact(f fact.Fact, atom justify.AtomID) fact.Fact {
	j := justify.Of(atom)
	switch v := f.(type) {
	case fact.Equality:
		v.Just = j
		return v
	case fact.Disequality:
		v.Just = j
		return v
	case fact.Nonneg:
		v.Just = j
		return v
	case fact.AppEq:
		v.Just = j
		return v
	default:
		return f
	}
}

// classifyError maps an Inconsistent from any of the three components onto
// an Unsat status, per §7. Any other error indicates a bug in this engine,
// not a reachable outcome of processing a formula — it is not swallowed
// into Unknown.
func (f *Facade) classifyError(err error) status.Status {
	var simplexErr *simplex.InconsistentError
	var partErr *partition.InconsistentError
	var propErr *propagate.InconsistentError
	switch {
	case errors.As(err, &simplexErr):
		return status.UnsatStatus(simplexErr.Just)
	case errors.As(err, &partErr):
		return status.UnsatStatus(partErr.Just)
	case errors.As(err, &propErr):
		return status.UnsatStatus(propErr.Just)
	default:
		panic(fmt.Sprintf("engine: unexpected non-Inconsistent error from propagator: %v", err))
	}
}

// CoreFormulas translates an unsat core's AtomIDs back to the top-level
// formulas Process was called with, in submission order.
func (f *Facade) CoreFormulas(core justify.Set) []proplogic.Formula {
	out := make([]proplogic.Formula, 0, core.Len())
	for _, a := range f.assertedOrder {
		if core.Contains(a) {
			out = append(out, f.asserted[a])
		}
	}
	return out
}

// --- queries (§6): none of these mutate engine state ---

// Can implements §6's can(t): the canonical term equal to t.
func (f *Facade) Can(t poly.Polynomial) poly.Polynomial {
	c, _ := f.simp.Canon(t)
	return c
}

// FindArith implements §6's find(A, x).
func (f *Facade) FindArith(x variable.ID) (poly.Polynomial, bool) {
	return f.simp.Find(x)
}

// InvArith implements §6's inv(t) for an arithmetic term.
func (f *Facade) InvArith(t poly.Polynomial) (variable.ID, bool) {
	return f.simp.Inv(t)
}

// FindTheory implements §6's find(θ, x) for θ ∈ {U,T,F}.
func (f *Facade) FindTheory(tag theory.Tag, x variable.ID) (theory.App, bool) {
	sib, ok := f.reg.Get(tag)
	if !ok {
		return theory.App{}, false
	}
	return sib.Find(x)
}

// InvTheory implements §6's inv(t) for a theory application.
func (f *Facade) InvTheory(tag theory.Tag, app theory.App) (variable.ID, bool) {
	sib, ok := f.reg.Get(tag)
	if !ok {
		return 0, false
	}
	return sib.Inv(app)
}

// Sup implements §6's sup(a): the least upper bound of a, or ok=false if
// unbounded.
func (f *Facade) Sup(a poly.Polynomial) (rational.Rational, bool) {
	v, _, err := f.simp.Sup(a)
	if err != nil {
		return rational.Zero, false
	}
	return v, true
}

// Inf implements §6's inf(a): the greatest lower bound of a, or ok=false if
// unbounded.
func (f *Facade) Inf(a poly.Polynomial) (rational.Rational, bool) {
	v, _, err := f.simp.Inf(a)
	if err != nil {
		return rational.Zero, false
	}
	return v, true
}

// Valid tests whether phi is entailed by the current context: it asserts
// ¬phi speculatively and reports whether that refutes the context,
// discarding every effect of the trial regardless of outcome. With
// Options.CompleteTests unset, Valid
// only attempts atomic phi (a single Eq/Diseq/Nonneg), where refuting the
// negation is already a complete decision procedure; with CompleteTests
// set it also attempts compound phi, but this is still the same one-shot
// negate-and-refute test, not full propositional case-split completeness —
// a compound phi entailed only by some but not all branches of a pending
// disjunction can still report false incorrectly.
func (f *Facade) Valid(phi proplogic.Formula) bool {
	if !f.opts.CompleteTests {
		if _, ok := phi.(proplogic.Atom); !ok {
			return false
		}
	}
	valid := false
	_ = f.prop.Protect(func() error {
		neg := proplogic.Negate(phi)
		more, err := proplogic.Push(f.prop, neg)
		if err == nil {
			err = proplogic.Resolve(f.prop, more)
		}
		valid = err != nil
		return errDiscardTrial
	})
	return valid
}

// errDiscardTrial is returned unconditionally from Valid's Protect thunk so
// its effects are always rolled back, whichever way the trial came out.
var errDiscardTrial = errors.New("engine: discard validity trial")

// --- save/restore (§5/§6) ---

// Snapshot is an opaque save() handle; Restore rolls every component
// (variable arena, partition, simplex, pending case-splits, status) back to
// the point Save was called. Implemented as a closure over each
// component's own opaque snapshot type rather than a data struct, since
// those types are deliberately unexported by their owning packages.
type Snapshot struct {
	restore func()
}

// Save captures the Facade's full state for a later Restore.
func (f *Facade) Save() Snapshot {
	ss := f.store.Snapshot()
	sp := f.part.Snapshot()
	sx := f.simp.Snapshot()
	pendingCopy := append([]proplogic.Formula(nil), f.pending...)
	assertedOrderCopy := append([]justify.AtomID(nil), f.assertedOrder...)
	assertedCopy := make(map[justify.AtomID]proplogic.Formula, len(f.asserted))
	for k, v := range f.asserted {
		assertedCopy[k] = v
	}
	savedStatus := f.status
	savedNextAtom := f.nextAtom

	return Snapshot{restore: func() {
		f.store.Restore(ss)
		f.part.Restore(sp)
		f.simp.Restore(sx)
		f.pending = pendingCopy
		f.asserted = assertedCopy
		f.assertedOrder = assertedOrderCopy
		f.status = savedStatus
		f.nextAtom = savedNextAtom
	}}
}

// Restore rolls the Facade back to a previously captured Snapshot. Theory
// sibling state (the U/T/F hash-consed application stores) is not part of
// this snapshot and is not rolled back.
func (f *Facade) Restore(s Snapshot) { s.restore() }
