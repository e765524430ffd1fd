// Package propagate implements the Propagator of §4.4: a work queue of
// pending equalities, disequalities and nonnegativities, drained to a
// fixed point by dispatching each to the Simplex, the VarPartition, or a
// theory.Sibling, re-enqueuing whatever new facts that dispatch produces.
// It also implements the Diophantine disequality contiguous-segment
// search.
//
// Grounded on the teacher's propagation.go fixed-point driver loop
// (drain-one-dispatch-requeue until the queue is empty or a constraint
// reports failure), generalized here from FD-domain constraint
// propagation to Nelson–Oppen cross-theory equality propagation.
package propagate

import (
	"fmt"

	"icscore/internal/fact"
	"icscore/internal/justify"
	"icscore/internal/partition"
	"icscore/internal/simplex"
	"icscore/internal/theory"
	"icscore/internal/variable"
	"icscore/pkg/poly"
	"icscore/pkg/rational"
)

// InconsistentError reports that draining the queue (or a Diophantine
// disequality's segment search) refuted the current context.
type InconsistentError struct {
	Reason string
	Just   justify.Set
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("propagate: inconsistent (%s)", e.Reason)
}

func inconsistent(reason string, j justify.Set) error {
	return &InconsistentError{Reason: reason, Just: j}
}

// TraceFunc is the engine-wide diagnostic hook of SPEC_FULL.md's ambient
// stack §2.1, modeled on the teacher's wfs_trace.go: a no-op by default;
// when the embedder sets one, each event is passed to it directly and
// nothing is written through the standard log package.
type TraceFunc func(event, detail string)

// Propagator is the fixed-point driver loop of §4.4.
type Propagator struct {
	store *variable.Store
	part  *partition.Partition
	simp  *simplex.Simplex
	reg   *theory.Registry
	queue []fact.Fact
	trace TraceFunc

	// maxGomoryCuts bounds the number of Gomory-cut nonnegativities this
	// Propagator will ever enqueue (0 = unlimited), the engine's safety
	// valve against a pathological Diophantine problem cutting forever;
	// see Options.MaxGomoryCuts in internal/engine.
	maxGomoryCuts     int
	gomoryCutsEmitted int
}

// New builds a Propagator sharing store, part, simp and reg with the rest
// of the engine.
func New(store *variable.Store, part *partition.Partition, simp *simplex.Simplex, reg *theory.Registry) *Propagator {
	return &Propagator{store: store, part: part, simp: simp, reg: reg}
}

// SetTrace installs a diagnostic hook, or clears it if fn is nil.
func (p *Propagator) SetTrace(fn TraceFunc) { p.trace = fn }

// SetMaxGomoryCuts bounds the number of Gomory-cut nonnegativities this
// Propagator will enqueue over its lifetime; n<=0 means unlimited.
func (p *Propagator) SetMaxGomoryCuts(n int) { p.maxGomoryCuts = n }

func (p *Propagator) tracef(event string, f fact.Fact) {
	if p.trace != nil {
		p.trace(event, f.(interface{ String(*variable.Store) string }).String(p.store))
	}
}

// Enqueue adds f to the tail of the pending-work queue.
func (p *Propagator) Enqueue(f fact.Fact) { p.queue = append(p.queue, f) }

// Pending reports whether the queue still holds undrained work.
func (p *Propagator) Pending() bool { return len(p.queue) > 0 }

// Run drains the queue to empty (returning nil) or to the first
// Inconsistent error, in which case the remaining queue is discarded —
// per §4.4, "run to empty queue or to Inconsistent" and §7's "Inconsistent
// propagates unwound".
func (p *Propagator) Run() error {
	for len(p.queue) > 0 {
		f := p.queue[0]
		p.queue = p.queue[1:]
		if err := p.step(f); err != nil {
			p.queue = nil
			return err
		}
	}
	return nil
}

func (p *Propagator) step(f fact.Fact) error {
	p.tracef("propagate.step", f)
	switch v := f.(type) {
	case fact.Equality:
		return p.processEquality(v)
	case fact.Disequality:
		return p.processDisequality(v)
	case fact.Nonneg:
		d, err := p.simp.ProcessNonneg(v)
		p.absorb(d)
		return err
	case fact.AppEq:
		return p.processAppEq(v)
	default:
		return fmt.Errorf("propagate: unknown fact type %T", f)
	}
}

// absorb enqueues every fact a Simplex operation derived (new variable
// equalities from Infer's zero-analysis, new nonnegativities from Gomory
// cuts), feeding them back through the same queue so the fixed point is
// reached uniformly regardless of which component produced the fact.
func (p *Propagator) absorb(d simplex.Derived) {
	for _, e := range d.Eqs {
		p.Enqueue(e)
	}
	for _, n := range d.Nonnegs {
		if p.maxGomoryCuts > 0 {
			if p.gomoryCutsEmitted >= p.maxGomoryCuts {
				continue
			}
			p.gomoryCutsEmitted++
		}
		p.Enqueue(n)
	}
}

// processEquality dispatches an arithmetic equality to the Simplex, then —
// if both sides were bare variables — rewires every theory.Sibling's
// stored applications so they reference the surviving representative
// (the partition-merge side effect the Simplex's own fuseIntoR doesn't
// know to propagate to theory-tagged state, since R/T only ever hold
// arithmetic polynomials).
func (p *Propagator) processEquality(e fact.Equality) error {
	xa, aIsVar := e.A.IsVar()
	xb, bIsVar := e.B.IsVar()
	d, err := p.simp.Merge(e)
	if err != nil {
		return err
	}
	p.absorb(d)
	if aIsVar && bIsVar {
		p.syncTheoryMaps(xa, xb)
	}
	return nil
}

func (p *Propagator) syncTheoryMaps(xa, xb variable.ID) {
	root, _ := p.part.Canon(xa)
	for _, v := range [2]variable.ID{xa, xb} {
		if v == root {
			continue
		}
		for _, tag := range [3]theory.Tag{theory.U, theory.T, theory.F} {
			if s, ok := p.reg.Get(tag); ok {
				s.Map(v, root)
			}
		}
	}
}

// processAppEq dispatches a theory-level equation to the owning sibling's
// Solve, per §6's theory interface contract, re-enqueuing the resulting
// variable equalities as ordinary Equality facts so they flow through the
// same Simplex/partition dispatch as any other equality.
func (p *Propagator) processAppEq(e fact.AppEq) error {
	sib, ok := p.reg.Get(e.Tag)
	if !ok {
		return fmt.Errorf("propagate: no sibling registered for theory %v", e.Tag)
	}
	eqs, ok := sib.Solve(e.LHS, e.RHS, e.Just)
	if !ok {
		return inconsistent(fmt.Sprintf("%v: %s and %s can never be equal", e.Tag, e.LHS.Func, e.RHS.Func), e.Just)
	}
	for _, eq := range eqs {
		p.Enqueue(fact.Equality{A: poly.FromVar(eq.X), B: poly.FromVar(eq.Y), Just: eq.Just})
	}
	return nil
}

// processDisequality implements §4.4's top-level disequality dispatch:
// two bare canonical variables go straight to the partition's DiseqSet;
// anything reducible to a single variable against a rational constant
// either drives the Diophantine segment search (integer domain) or is
// recorded via the Simplex's ExcludeConst (real domain, §8.1 scenario 7);
// a disequality between two genuinely multi-variable polynomials has no
// decomposition in this spec's scope and is left unenforced beyond the
// cheap constant-refutation check (sound but incomplete, matching the
// Non-goals' "incremental retraction" boundary).
func (p *Propagator) processDisequality(d fact.Disequality) error {
	ca, ja := p.simp.Canon(d.A)
	cb, jb := p.simp.Canon(d.B)
	j := d.Just.Union(ja).Union(jb)
	diff := ca.Sub(cb)
	if diff.IsConstant() {
		if diff.IsZero() {
			return inconsistent("disequality between two equal terms", j)
		}
		return nil
	}
	xa, aVar := ca.IsVar()
	xb, bVar := cb.IsVar()
	if aVar && bVar {
		return p.part.Dismerge(xa, xb, j)
	}
	x, c, ok := singleVarShape(diff)
	if !ok {
		return nil
	}
	if p.isIntVar(x) {
		return p.processDiophantineDiseq(x, c, j)
	}
	return p.simp.ExcludeConst(x, c, j)
}

// singleVarShape recognises diff = c0 + cx·x (exactly one variable) and
// returns (x, c) such that diff = 0 iff x = c.
func singleVarShape(diff poly.Polynomial) (variable.ID, rational.Rational, bool) {
	vars := diff.Vars()
	if len(vars) != 1 {
		return 0, rational.Zero, false
	}
	x := vars[0]
	cx := diff.Coeff(x)
	return x, diff.Const().Div(cx).Neg(), true
}

func (p *Propagator) isIntVar(x variable.ID) bool {
	v, ok := p.store.Lookup(x)
	return ok && v.Domain == variable.Int
}

// processDiophantineDiseq implements §4.4's contiguous-segment search for
// an integer disequality x ≠ n.
func (p *Propagator) processDiophantineDiseq(x variable.ID, n rational.Rational, j justify.Set) error {
	lo, hi := n, n
	for {
		cand := lo.Sub(rational.One)
		if !p.speculativeEqInconsistent(x, cand) {
			break
		}
		lo = cand
	}
	for {
		cand := hi.Add(rational.One)
		if !p.speculativeEqInconsistent(x, cand) {
			break
		}
		hi = cand
	}
	lowerBound := lo.Sub(rational.One) // candidate: x <= lo-1
	upperBound := hi.Add(rational.One) // candidate: x >= hi+1

	lowerTerm := poly.FromConst(lowerBound).Sub(poly.FromVar(x)) // (lo-1) - x >= 0
	upperTerm := poly.FromVar(x).Sub(poly.FromConst(upperBound)) // x - (hi+1) >= 0

	lowerBad := p.speculativeNonnegInconsistent(lowerTerm, j)
	upperBad := p.speculativeNonnegInconsistent(upperTerm, j)

	switch {
	case lowerBad && upperBad:
		return inconsistent("integer disequality excludes every value", j)
	case lowerBad:
		return p.commitNonneg(upperTerm, j)
	case upperBad:
		return p.commitNonneg(lowerTerm, j)
	default:
		return p.simp.ExcludeConst(x, n, j)
	}
}

func (p *Propagator) commitNonneg(a poly.Polynomial, j justify.Set) error {
	d, err := p.simp.ProcessNonneg(fact.Nonneg{A: a, Just: j})
	if err != nil {
		return err
	}
	p.absorb(d)
	return nil
}

// speculativeEqInconsistent tests whether asserting x = c would refute the
// current state, rolling back unconditionally — the "test e ≠ n+1" step
// of §4.4, implemented as a scoped snapshot per §5/§9's "exception-based
// try-commit", never touching the outer queue (this thunk calls the
// Simplex directly, so there is nothing for "with_disabled_stacks" to
// suppress).
func (p *Propagator) speculativeEqInconsistent(x variable.ID, c rational.Rational) bool {
	ss, sp, sx := p.store.Snapshot(), p.part.Snapshot(), p.simp.Snapshot()
	_, err := p.simp.Merge(fact.Equality{A: poly.FromVar(x), B: poly.FromConst(c), Just: justify.Empty})
	p.store.Restore(ss)
	p.part.Restore(sp)
	p.simp.Restore(sx)
	return err != nil
}

// speculativeNonnegInconsistent tests whether asserting a ≥ 0 would
// refute the current state, rolling back unconditionally.
func (p *Propagator) speculativeNonnegInconsistent(a poly.Polynomial, j justify.Set) bool {
	ss, sp, sx := p.store.Snapshot(), p.part.Snapshot(), p.simp.Snapshot()
	_, err := p.simp.ProcessNonneg(fact.Nonneg{A: a, Just: j})
	p.store.Restore(ss)
	p.part.Restore(sp)
	p.simp.Restore(sx)
	return err != nil
}

// Protect snapshots store/partition/simplex and the pending queue, runs
// thunk, and rolls every one of them back iff thunk returns a non-nil
// error — the "protect" primitive of §5: try a branch, roll back on
// Inconsistent, release the snapshot on every exit path. Exposed (not
// just used internally by TryBranch) so external case-split callers —
// the propositional layer's resolve(), §4.7 — can recurse through
// further Push/Enqueue/Run calls inside the protected scope without this
// package needing to know their formula representation.
func (p *Propagator) Protect(thunk func() error) error {
	ss, sp, sx := p.store.Snapshot(), p.part.Snapshot(), p.simp.Snapshot()
	savedQueue := append([]fact.Fact(nil), p.queue...)
	err := thunk()
	if err != nil {
		p.store.Restore(ss)
		p.part.Restore(sp)
		p.simp.Restore(sx)
		p.queue = savedQueue
	}
	return err
}

// TryBranch enqueues facts and runs them (and anything they derive) to a
// fixed point inside a Protect scope: committed on success, rolled back
// on the first Inconsistent.
func (p *Propagator) TryBranch(facts ...fact.Fact) error {
	return p.Protect(func() error {
		for _, f := range facts {
			p.Enqueue(f)
		}
		return p.Run()
	})
}
