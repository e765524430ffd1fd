// Package partition implements the shared variable-partition and
// disequality engine of §4.2: a union–find over variable.ID with per-edge
// justifications, plus a disequality set consulted by merge/dismerge. The
// union-by-smaller-representative rule and the disjoint-set shape are
// grounded on the teacher corpus's prim_kruskal union-find (path
// compression during find, union on an explicit order rule), adapted here
// from union-by-rank to the spec's "smaller variable order wins" rule;
// canonicalisation compacts paths only lazily, during query, per §4.2.
package partition

import (
	"fmt"

	"icscore/internal/justify"
	"icscore/internal/variable"
)

// InconsistentError reports that a merge/dismerge contradicts the current
// partition, carrying the combined justification (the unsat core).
type InconsistentError struct {
	Reason string
	Just   justify.Set
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("partition: inconsistent (%s)", e.Reason)
}

// edge records one union-find parent link with the justification that
// produced it, so canon() can accumulate a combined dependency set while
// walking to the root.
type edge struct {
	parent variable.ID
	just   justify.Set
}

// Partition is the union–find of §4.2 ("V" in the spec). The zero value is
// not usable; construct with New.
type Partition struct {
	store  *variable.Store
	parent map[variable.ID]edge
	diseq  *DiseqSet
}

// New creates an empty partition over store, whose variable order governs
// which representative survives a union.
func New(store *variable.Store) *Partition {
	return &Partition{
		store:  store,
		parent: make(map[variable.ID]edge),
		diseq:  newDiseqSet(),
	}
}

// Diseq exposes the disequality set that merge/dismerge consult, per §4.2
// ("D" in the spec, consulted by merge/dismerge").
func (p *Partition) Diseq() *DiseqSet { return p.diseq }

// Canon returns the canonical representative of x and the justification
// accumulated along the path to it, compacting the path as it goes (the
// "lazy, at query time" compaction required by §4.2).
func (p *Partition) Canon(x variable.ID) (variable.ID, justify.Set) {
	path := []variable.ID{}
	cur := x
	j := justify.Empty
	for {
		e, ok := p.parent[cur]
		if !ok {
			break
		}
		j = j.Union(e.just)
		path = append(path, cur)
		cur = e.parent
	}
	// Path compression: every node visited now points directly at the
	// root with the full accumulated justification, so the next Canon
	// call on any of them is O(1).
	for _, n := range path {
		p.parent[n] = edge{parent: cur, just: j}
	}
	return cur, j
}

// IsEqual reports, three-valued, whether x and y are known equal.
func (p *Partition) IsEqual(x, y variable.ID) ThreeValued {
	cx, jx := p.Canon(x)
	cy, jy := p.Canon(y)
	if cx == cy {
		return Yes(jx.Union(jy))
	}
	if p.diseq.knows(cx, cy) {
		return No(p.diseq.justOf(cx, cy))
	}
	return Unknown()
}

// IsDiseq reports, three-valued, whether x and y are known disequal.
func (p *Partition) IsDiseq(x, y variable.ID) ThreeValued {
	cx, jx := p.Canon(x)
	cy, jy := p.Canon(y)
	if cx == cy {
		return No(jx.Union(jy))
	}
	if p.diseq.knows(cx, cy) {
		return Yes(p.diseq.justOf(cx, cy))
	}
	return Unknown()
}

// Merge unions the classes of x and y under justification j. Fails with
// *InconsistentError if x and y are already known disequal. The union
// rule of §4.2: the smaller representative (by store's variable order)
// becomes the root, its domain narrowed to the intersection of both
// classes' domains (Real∩Int=Int; no domain pair in this two-point
// lattice is actually contradictory, see variable.Domain.Intersect).
func (p *Partition) Merge(x, y variable.ID, j justify.Set) error {
	cx, jx := p.Canon(x)
	cy, jy := p.Canon(y)
	if cx == cy {
		return nil
	}
	combined := j.Union(jx).Union(jy)
	if p.diseq.knows(cx, cy) {
		return &InconsistentError{
			Reason: fmt.Sprintf("merge(%v,%v) contradicts known disequality", x, y),
			Just:   combined.Union(p.diseq.justOf(cx, cy)),
		}
	}
	root, child := cx, cy
	if p.store.Less(cy, cx) {
		root, child = cy, cx
	}
	vr, _ := p.store.Lookup(root)
	vc, _ := p.store.Lookup(child)
	dom, ok := vr.Domain.Intersect(vc.Domain)
	if !ok {
		// Unreachable for the current two-point {Real,Int} lattice (see
		// variable.Domain.Intersect) but kept per §4.2's explicit mention
		// of a possible domain contradiction, should the lattice grow.
		return &InconsistentError{Reason: "incompatible variable domains", Just: combined}
	}
	p.store.SetDomain(root, dom)
	p.parent[child] = edge{parent: root, just: combined}
	p.diseq.rename(child, root)
	return nil
}

// Dismerge records x ≠ y under justification j, after canonicalising both
// sides. Fails with *InconsistentError if x and y are already known
// equal, per §4.2.
func (p *Partition) Dismerge(x, y variable.ID, j justify.Set) error {
	cx, jx := p.Canon(x)
	cy, jy := p.Canon(y)
	combined := j.Union(jx).Union(jy)
	if cx == cy {
		return &InconsistentError{
			Reason: fmt.Sprintf("dismerge(%v,%v) contradicts known equality", x, y),
			Just:   combined,
		}
	}
	p.diseq.add(cx, cy, combined)
	return nil
}

// snapshot is the opaque handle returned by Snapshot/consumed by Restore;
// a shallow copy of the parent map and disequality set, per §5's
// "snapshot is a shallow copy of the ... partition maps".
type snapshot struct {
	parent map[variable.ID]edge
	diseq  *DiseqSet
}

// Snapshot captures the current partition state for later Restore.
func (p *Partition) Snapshot() snapshot {
	cp := make(map[variable.ID]edge, len(p.parent))
	for k, v := range p.parent {
		cp[k] = v
	}
	return snapshot{parent: cp, diseq: p.diseq.clone()}
}

// Restore rolls the partition back to a previously captured Snapshot.
func (p *Partition) Restore(s snapshot) {
	p.parent = s.parent
	p.diseq = s.diseq
}
