package partition

import "icscore/internal/justify"

// threeState is the sum {Yes, No, Unknown} mandated by §9's design note:
// "never overload booleans with a side-channel justification."
type threeState int

const (
	stateUnknown threeState = iota
	stateYes
	stateNo
)

// ThreeValued is the result of IsEqual/IsDiseq: Yes and No carry the
// justification for that answer, Unknown carries none.
type ThreeValued struct {
	state threeState
	just  justify.Set
}

// Yes builds a definite positive answer with justification j.
func Yes(j justify.Set) ThreeValued { return ThreeValued{state: stateYes, just: j} }

// No builds a definite negative answer with justification j.
func No(j justify.Set) ThreeValued { return ThreeValued{state: stateNo, just: j} }

// Unknown builds the "cannot decide" answer.
func Unknown() ThreeValued { return ThreeValued{state: stateUnknown} }

// IsYes reports whether the answer is a definite Yes.
func (t ThreeValued) IsYes() bool { return t.state == stateYes }

// IsNo reports whether the answer is a definite No.
func (t ThreeValued) IsNo() bool { return t.state == stateNo }

// IsUnknown reports whether the answer could not be decided.
func (t ThreeValued) IsUnknown() bool { return t.state == stateUnknown }

// Justification returns the dependency set backing a Yes/No answer. Calling
// it on Unknown returns the empty set.
func (t ThreeValued) Justification() justify.Set { return t.just }
