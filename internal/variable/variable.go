// Package variable implements the four variable kinds of the arithmetic
// core and the total order over them required by the simplex engine:
// every slack variable is smaller than every non-slack variable, and the
// distinguished zero slack is smaller than any nonnegative slack.
//
// Following the arena-allocation design note of the specification,
// variables are small integer handles (ID) whose metadata lives in a
// single Store. This keeps save/restore cheap (see Store.Snapshot) and
// avoids the pointer-aliasing concerns of the teacher package's mutex-
// guarded *Var, which this engine's strictly single-threaded model
// (unlike the teacher's concurrent one) does not need.
package variable

import "fmt"

// Kind identifies which of the four variable roles a Var plays.
type Kind int

const (
	// External variables are user-introduced.
	External Kind = iota
	// Rename variables are fresh, generated when flattening impure terms.
	Rename
	// Slack variables are fresh and interpreted over the nonnegative reals
	// (or, for the distinguished zero slack, over the singleton {0}).
	Slack
	// FreshTheory variables are generated by theory solvers.
	FreshTheory
)

// String renders a Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case External:
		return "external"
	case Rename:
		return "rename"
	case Slack:
		return "slack"
	case FreshTheory:
		return "fresh-theory"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Domain constrains the interpretation of a variable.
type Domain int

const (
	// Real variables range over the rationals/reals.
	Real Domain = iota
	// Int variables are integer-constrained (Diophantine-eligible).
	Int
)

func (d Domain) String() string {
	if d == Int {
		return "int"
	}
	return "real"
}

// Intersect returns the domain that is the intersection of d and other, and
// false if the domains are contradictory. For this two-valued lattice
// (Real, Int) only Real∩Real=Real, Int∩Int=Int, Real∩Int=Int∩Real=Int are
// possible; there is no representable contradiction between Real and Int,
// matching the spec's remark that Real ∩ Int = Int.
func (d Domain) Intersect(other Domain) (Domain, bool) {
	if d == Int || other == Int {
		return Int, true
	}
	return Real, true
}

// ID is a small integer handle identifying a variable within a Store. IDs
// are handed out in increasing order; Store.Restore rewinds the counter, so
// IDs minted after a snapshot are handed out again once it is restored.
type ID int64

// Var is the immutable metadata attached to an ID.
type Var struct {
	ID     ID
	Kind   Kind
	Name   string
	Domain Domain
	// zeroSlack marks a zero slack variable: a slack whose only
	// interpretation is {0}. Every ZeroSlack() call mints a fresh one, so
	// this is a domain tag shared by a family of variables, not a marker
	// of a single distinguished instance.
	zeroSlack bool
}

// IsSlack reports whether v is any slack variable (zero or nonnegative).
func (v Var) IsSlack() bool { return v.Kind == Slack }

// IsZeroSlack reports whether v is a zero slack (interpretation {0}).
func (v Var) IsZeroSlack() bool { return v.zeroSlack }

// String renders v for diagnostics, e.g. "x3" or "k7".
func (v Var) String() string {
	if v.Name != "" {
		return v.Name
	}
	prefix := "v"
	if v.IsSlack() {
		prefix = "k"
	}
	return fmt.Sprintf("%s%d", prefix, v.ID)
}

// Store is the arena of all variables created during the lifetime of an
// engine instance (or one of its save/restore snapshots). It owns the
// monotonic ID counter described in the specification's variable-creation
// design note: snapshotting the counter alongside solution-set state
// ensures that a rolled-back speculative branch cannot mint a handle that
// remains observable to the caller afterward.
type Store struct {
	next ID
	vars map[ID]Var
}

// NewStore creates an empty variable arena.
func NewStore() *Store {
	return &Store{vars: make(map[ID]Var)}
}

func (s *Store) alloc(kind Kind, name string, dom Domain) Var {
	id := s.next
	s.next++
	v := Var{ID: id, Kind: kind, Name: name, Domain: dom}
	s.vars[id] = v
	return v
}

// External creates a new user-introduced variable.
func (s *Store) External(name string, dom Domain) Var {
	return s.alloc(External, name, dom)
}

// FreshRename creates a fresh rename variable, used when flattening impure
// terms.
func (s *Store) FreshRename(dom Domain) Var {
	return s.alloc(Rename, "", dom)
}

// FreshTheoryVar creates a fresh variable attributed to a theory solver.
func (s *Store) FreshTheoryVar(dom Domain) Var {
	return s.alloc(FreshTheory, "", dom)
}

// FreshSlack creates a fresh nonnegative slack variable.
func (s *Store) FreshSlack(dom Domain) Var {
	return s.alloc(Slack, "", dom)
}

// ZeroSlack mints a fresh zero slack, per §3/§4.3's "introduce a fresh
// zero slack k": every restricted-branch merge gets its own k, never a
// shared singleton, so a later equality's pivoting can never reach back
// into an earlier, already-resolved k's dependents. zeroSlack=true is only
// a domain marker (interpretation {0}); distinct zero slacks still order
// and canonicalize independently, like any other pair of slacks.
func (s *Store) ZeroSlack() Var {
	v := s.alloc(Slack, "0!", Int)
	v.zeroSlack = true
	s.vars[v.ID] = v
	return v
}

// Lookup returns the metadata for id.
func (s *Store) Lookup(id ID) (Var, bool) {
	v, ok := s.vars[id]
	return v, ok
}

// SetDomain narrows id's domain in place (used when the partition merges
// two classes and the intersected domain must be recorded on the surviving
// representative).
func (s *Store) SetDomain(id ID, dom Domain) {
	v := s.vars[id]
	v.Domain = dom
	s.vars[id] = v
}

// Less implements the ordering invariant of §3: slacks precede non-slacks,
// the zero slack precedes every nonnegative slack, and ties within a
// bucket are broken by creation order (ID). This total order is used
// throughout the simplex core (canonical representative choice, pivot
// candidate selection, least-monomial iteration).
func (s *Store) Less(a, b ID) bool {
	if a == b {
		return false
	}
	va, vb := s.vars[a], s.vars[b]
	if va.IsSlack() != vb.IsSlack() {
		return va.IsSlack()
	}
	if va.IsSlack() && va.IsZeroSlack() != vb.IsZeroSlack() {
		return va.IsZeroSlack()
	}
	return a < b
}

// Min returns whichever of a, b is smaller under Less.
func (s *Store) Min(a, b ID) ID {
	if s.Less(b, a) {
		return b
	}
	return a
}

// snapshotState is an opaque marker returned by Snapshot and consumed by
// Restore; it captures only the monotonic counter, not the metadata map,
// because metadata for IDs allocated before the snapshot is never mutated
// destructively (SetDomain only narrows monotonically along a single
// branch and is itself undone by the caller's own state restore).
type snapshotState struct {
	next ID
}

// Snapshot captures the counter so that Restore can roll back IDs minted
// after this point.
func (s *Store) Snapshot() snapshotState {
	return snapshotState{next: s.next}
}

// Restore rolls the counter back to a previously captured Snapshot. Any
// Var allocated after the snapshot becomes unreachable: its entry remains
// in the metadata map (arenas are monotonic, per the hash-consing design
// note) but no component holds a reference to its ID anymore once the
// caller's own solution-set/partition snapshot is also restored.
func (s *Store) Restore(snap snapshotState) {
	s.next = snap.next
}
