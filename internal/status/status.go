// Package status implements the StatusEngine of §4.5: the three-valued
// Sat/Unsat/Unknown flag the Facade reports after every process() call,
// carrying an unsat core on Unsat.
//
// Grounded on the teacher's fd_solver.go status-reporting convention
// (a small result enum plus a sentinel-error-carrying failure case) and
// its ErrInconsistent sentinel, generalized here from a single "solved/
// failed" FD result to the three-valued Sat/Unsat/Unknown of §4.5/§6.
package status

import (
	"fmt"

	"icscore/internal/justify"
)

// Kind is one of the three answers §1/§6 define.
type Kind int

const (
	// Sat means the accumulated context is satisfiable (in the arithmetic
	// core's partial sense: propagation reached a fixed point with no
	// contradiction).
	Sat Kind = iota
	// Unsat means an assertion was refuted; Core carries the unsat core.
	Unsat
	// Unknown means propagation is incomplete at this point (pending
	// propositional case-splits that resolve() would decide).
	Unknown
)

func (k Kind) String() string {
	switch k {
	case Sat:
		return "Sat"
	case Unsat:
		return "Unsat"
	default:
		return "Unknown"
	}
}

// Status is the StatusEngine's current flag.
type Status struct {
	Kind Kind
	// Core is the unsat core (§3's justification of a derived false fact)
	// when Kind==Unsat; empty otherwise.
	Core justify.Set
}

// SatStatus builds a Sat status.
func SatStatus() Status { return Status{Kind: Sat} }

// UnsatStatus builds an Unsat status carrying the given unsat core.
func UnsatStatus(core justify.Set) Status { return Status{Kind: Unsat, Core: core} }

// UnknownStatus builds an Unknown status.
func UnknownStatus() Status { return Status{Kind: Unknown} }

func (s Status) String() string {
	if s.Kind == Unsat {
		return fmt.Sprintf("Unsat(core=%v)", s.Core.Atoms())
	}
	return s.Kind.String()
}

// IsSat, IsUnsat, IsUnknown are the three-state predicates callers use
// instead of comparing Kind directly, matching §9's "never overload
// booleans with a side-channel" guidance applied to status reporting.
func (s Status) IsSat() bool     { return s.Kind == Sat }
func (s Status) IsUnsat() bool   { return s.Kind == Unsat }
func (s Status) IsUnknown() bool { return s.Kind == Unknown }
