package simplex

import (
	"icscore/internal/justify"
	"icscore/pkg/rational"

	"icscore/internal/variable"
)

// ExcludeConst records the fact that x must never equal c (a disequality
// against a constant, the shape the Partition's variable-to-variable
// DiseqSet cannot itself represent). If x is already bound to c this is an
// immediate contradiction.
func (a *Simplex) ExcludeConst(x variable.ID, c rational.Rational, j justify.Set) error {
	if err := a.checkExcluded(x, c, j); err != nil {
		return err
	}
	a.excluded[x] = append(a.excluded[x], excludedConst{value: c, just: j})
	return nil
}

// checkExcluded reports an inconsistency if x is already bound to c, or if
// c is already on x's excluded list with the bound just merged in, letting
// callers check either direction (asserting the bound after the
// disequality, or vice versa).
func (a *Simplex) checkExcluded(x variable.ID, c rational.Rational, j justify.Set) error {
	if b, ok := a.lookupBinding(x); ok && b.rhs.IsConstant() && b.rhs.Const().Equal(c) {
		return inconsistent("variable bound to its excluded constant", j.Union(b.just))
	}
	for _, ex := range a.excluded[x] {
		if ex.value.Equal(c) {
			return inconsistent("variable bound to its excluded constant", j.Union(ex.just))
		}
	}
	return nil
}

// snapshot is an opaque, deep-copied capture of every mutable index, used
// by the engine's save/restore (§5).
type snapshot struct {
	r, t               map[variable.ID]binding
	depR, depT, negDep map[variable.ID]map[variable.ID]struct{}
	zeroIdx, constIdx  map[variable.ID]struct{}
	excluded           map[variable.ID][]excludedConst
}

func cloneBindings(m map[variable.ID]binding) map[variable.ID]binding {
	out := make(map[variable.ID]binding, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneDepIndex(m map[variable.ID]map[variable.ID]struct{}) map[variable.ID]map[variable.ID]struct{} {
	out := make(map[variable.ID]map[variable.ID]struct{}, len(m))
	for k, set := range m {
		s2 := make(map[variable.ID]struct{}, len(set))
		for e := range set {
			s2[e] = struct{}{}
		}
		out[k] = s2
	}
	return out
}

func cloneIDSet(m map[variable.ID]struct{}) map[variable.ID]struct{} {
	out := make(map[variable.ID]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

func cloneExcluded(m map[variable.ID][]excludedConst) map[variable.ID][]excludedConst {
	out := make(map[variable.ID][]excludedConst, len(m))
	for k, v := range m {
		out[k] = append([]excludedConst(nil), v...)
	}
	return out
}

// Snapshot captures the current R, T and all derived indices.
func (a *Simplex) Snapshot() snapshot {
	return snapshot{
		r:        cloneBindings(a.r),
		t:        cloneBindings(a.t),
		depR:     cloneDepIndex(a.depR),
		depT:     cloneDepIndex(a.depT),
		negDep:   cloneDepIndex(a.negDep),
		zeroIdx:  cloneIDSet(a.zeroIdx),
		constIdx: cloneIDSet(a.constIdx),
		excluded: cloneExcluded(a.excluded),
	}
}

// Restore rolls R, T and all derived indices back to a prior Snapshot.
func (a *Simplex) Restore(s snapshot) {
	a.r, a.t = s.r, s.t
	a.depR, a.depT, a.negDep = s.depR, s.depT, s.negDep
	a.zeroIdx, a.constIdx = s.zeroIdx, s.constIdx
	a.excluded = s.excluded
}
