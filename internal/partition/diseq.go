package partition

import (
	"icscore/internal/justify"
	"icscore/internal/variable"
)

// pairKey canonicalises an unordered pair of canonical variable IDs into a
// map key, always ordering the smaller ID first so (x,y) and (y,x) hash
// the same.
type pairKey struct {
	a, b variable.ID
}

func makeKey(x, y variable.ID) pairKey {
	if x <= y {
		return pairKey{x, y}
	}
	return pairKey{y, x}
}

// DiseqSet is "D" of §4.2: disequalities between canonical variables,
// indexed both by pair (for O(1) lookup) and by endpoint (so Merge's
// rename step can retarget every edge touching a variable that stops
// being a representative).
type DiseqSet struct {
	pairs map[pairKey]justify.Set
	byEnd map[variable.ID]map[variable.ID]struct{}
}

func newDiseqSet() *DiseqSet {
	return &DiseqSet{
		pairs: make(map[pairKey]justify.Set),
		byEnd: make(map[variable.ID]map[variable.ID]struct{}),
	}
}

func (d *DiseqSet) knows(x, y variable.ID) bool {
	_, ok := d.pairs[makeKey(x, y)]
	return ok
}

func (d *DiseqSet) justOf(x, y variable.ID) justify.Set {
	return d.pairs[makeKey(x, y)]
}

func (d *DiseqSet) add(x, y variable.ID, j justify.Set) {
	if x == y {
		return
	}
	k := makeKey(x, y)
	if existing, ok := d.pairs[k]; ok {
		d.pairs[k] = existing.Union(j)
		return
	}
	d.pairs[k] = j
	d.link(x, y)
	d.link(y, x)
}

func (d *DiseqSet) link(from, to variable.ID) {
	m, ok := d.byEnd[from]
	if !ok {
		m = make(map[variable.ID]struct{})
		d.byEnd[from] = m
	}
	m[to] = struct{}{}
}

// rename retargets every disequality edge that mentioned `old` (a variable
// that just stopped being a class representative after Merge) onto `neu`
// (the surviving representative), combining justifications when both
// `old` and `neu` happened to already be disequal to the same third
// variable.
func (d *DiseqSet) rename(old, neu variable.ID) {
	peers := d.byEnd[old]
	delete(d.byEnd, old)
	for peer := range peers {
		j := d.pairs[makeKey(old, peer)]
		delete(d.pairs, makeKey(old, peer))
		if m := d.byEnd[peer]; m != nil {
			delete(m, old)
		}
		d.add(neu, peer, j)
	}
}

// clone returns a deep-enough copy for Partition.Snapshot: the maps are
// copied, but the immutable justify.Set values inside them are shared.
func (d *DiseqSet) clone() *DiseqSet {
	cp := newDiseqSet()
	for k, v := range d.pairs {
		cp.pairs[k] = v
	}
	for end, peers := range d.byEnd {
		m := make(map[variable.ID]struct{}, len(peers))
		for p := range peers {
			m[p] = struct{}{}
		}
		cp.byEnd[end] = m
	}
	return cp
}

// Pairs returns every known disequal pair and its justification, for
// callers (e.g. the propagator's Diophantine segment search) that need to
// enumerate known exclusions.
func (d *DiseqSet) Pairs() map[[2]variable.ID]justify.Set {
	out := make(map[[2]variable.ID]justify.Set, len(d.pairs))
	for k, v := range d.pairs {
		out[[2]variable.ID{k.a, k.b}] = v
	}
	return out
}
