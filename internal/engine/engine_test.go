// Uses github.com/stretchr/testify/assert — adopted, per DESIGN.md, for
// the property-based tests of §8 that have no teacher test-file precedent
// to imitate, the same dependency the pack's kanso-lang-kanso and
// katalvlaran-lvlath repos use for their own suites.
package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icscore/internal/engine"
	"icscore/internal/variable"
	"icscore/pkg/poly"
	"icscore/pkg/rational"
)

func rat(n int64) rational.Rational { return rational.FromInt64(n) }

// Scenario 1 of §8, through the Facade.
func TestLinearEqualityAndInequality(t *testing.T) {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	y := f.NewVar("y", variable.Real)
	px, py := poly.FromVar(x), poly.FromVar(y)

	f.Process(engine.Eq(px.Add(py), poly.FromConst(rat(3))))
	f.Process(engine.NonnegF(px))
	f.Process(engine.NonnegF(py))
	st := f.Process(engine.Eq(px.Sub(py), poly.FromConst(rat(1))))

	require.True(t, st.IsSat())
	bx, ok := f.FindArith(x)
	require.True(t, ok)
	assert.True(t, bx.IsConstant() && bx.Const().Equal(rat(2)))
	by, ok := f.FindArith(y)
	require.True(t, ok)
	assert.True(t, by.IsConstant() && by.Const().Equal(rat(1)))
}

// Scenario 2 of §8: the core is exactly the two conflicting bounds and
// shrinks Sat if either atom is dropped, per P5.
func TestUnsatCoreIsMinimalAndMonotone(t *testing.T) {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	px := poly.FromVar(x)

	lower := engine.NonnegF(px.Sub(poly.FromConst(rat(5)))) // x >= 5
	upper := engine.NonnegF(poly.FromConst(rat(2)).Sub(px)) // x <= 2

	f.Process(lower)
	st := f.Process(upper)
	require.True(t, st.IsUnsat())
	assert.Equal(t, 2, st.Core.Len())

	core := f.CoreFormulas(st.Core)
	assert.Len(t, core, 2)

	// P5: running the core alone (in either order) still reaches Unsat...
	g := engine.New(engine.DefaultOptions())
	g.Process(lower)
	gst := g.Process(upper)
	assert.True(t, gst.IsUnsat())

	// ...and removing any one element of the core yields Sat.
	h := engine.New(engine.DefaultOptions())
	hst := h.Process(lower)
	assert.True(t, hst.IsSat())
}

// Scenario 3 of §8: integer x in [0,2], x!=1 is Sat with sup=2, inf=0, and
// pinning x=1 afterward is Unsat.
func TestIntegerDisequalitySplitting(t *testing.T) {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Int)
	px := poly.FromVar(x)

	f.Process(engine.NonnegF(px))
	f.Process(engine.NonnegF(poly.FromConst(rat(2)).Sub(px)))
	st := f.Process(engine.Diseq(px, poly.FromConst(rat(1))))
	require.True(t, st.IsSat())

	sup, ok := f.Sup(px)
	require.True(t, ok)
	assert.True(t, sup.Equal(rat(2)))
	inf, ok := f.Inf(px)
	require.True(t, ok)
	assert.True(t, inf.Equal(rat(0)))

	snap := f.Save()
	eqSt := f.Process(engine.Eq(px, poly.FromConst(rat(1))))
	assert.True(t, eqSt.IsUnsat())
	f.Restore(snap)

	// Restore must put the engine back exactly where Save found it.
	sup2, ok2 := f.Sup(px)
	require.True(t, ok2)
	assert.True(t, sup2.Equal(rat(2)))
}

// Scenario 5 of §8 plus P4: a Sat assertion's negation must not also
// report Sat.
func TestUnboundedAndNegationConsistency(t *testing.T) {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	px := poly.FromVar(x)

	st := f.Process(engine.NonnegF(px))
	require.True(t, st.IsSat())
	_, ok := f.Sup(px)
	assert.False(t, ok, "sup(x) should be Unbounded with only x>=0 asserted")

	snap := f.Save()
	negSt := f.Process(engine.NonnegF(px.Neg()))
	assert.False(t, negSt.IsUnsat(), "x<=0 is not refuted by x>=0 alone (x=0 survives)")
	f.Restore(snap)
}

// P2: can(can(t)) = can(t).
func TestCanIsIdempotent(t *testing.T) {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	y := f.NewVar("y", variable.Real)
	px, py := poly.FromVar(x), poly.FromVar(y)

	f.Process(engine.Eq(px, py))
	once := f.Can(px)
	twice := f.Can(once)
	assert.True(t, once.Equal(twice))
}

// §6's find/inv round trip (P3): find(inv(t)) = t whenever inv(t) is
// defined.
func TestFindInvRoundTrip(t *testing.T) {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	y := f.NewVar("y", variable.Real)
	px, py := poly.FromVar(x), poly.FromVar(y)

	f.Process(engine.Eq(px, py.Add(poly.FromConst(rat(1)))))

	rhs, ok := f.FindArith(x)
	require.True(t, ok)
	lhs, ok := f.InvArith(rhs)
	require.True(t, ok)
	again, ok := f.FindArith(lhs)
	require.True(t, ok)
	assert.True(t, again.Equal(rhs))
}

// §6's valid(): an atomic formula already entailed by the context reports
// valid, and its negation does not.
func TestValidOnAtomicEntailment(t *testing.T) {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	px := poly.FromVar(x)

	f.Process(engine.Eq(px, poly.FromConst(rat(5))))

	assert.True(t, f.Valid(engine.Eq(px, poly.FromConst(rat(5)))))
	assert.False(t, f.Valid(engine.Eq(px, poly.FromConst(rat(6)))))

	// Valid must not mutate state: the context should still answer the same
	// way afterward.
	bx, ok := f.FindArith(x)
	require.True(t, ok)
	assert.True(t, bx.Const().Equal(rat(5)))
}

// Save/Restore also rolls back a fresh variable counter so a discarded
// branch's handles do not leak into the surviving state, per §5/§9's
// variable-creation design note.
func TestSaveRestoreRollsBackFreshVariables(t *testing.T) {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	px := poly.FromVar(x)

	snap := f.Save()
	y := f.FreshRename(variable.Real)
	py := poly.FromVar(y)
	f.Process(engine.Eq(py, poly.FromConst(rat(9))))
	f.Restore(snap)

	z := f.NewVar("z", variable.Real)
	assert.Equal(t, y, z, "the counter should rewind so a post-restore allocation reuses the rolled-back handle")
	_ = px
}

// A disjunction Process cannot flatten is deferred to Resolve.
func TestProcessDefersDisjunctionToResolve(t *testing.T) {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	px := poly.FromVar(x)

	st := f.Process(engine.Or(engine.Eq(px, poly.FromConst(rat(1))), engine.Eq(px, poly.FromConst(rat(2)))))
	assert.True(t, st.IsUnknown())

	f.Process(engine.Diseq(px, poly.FromConst(rat(1))))
	final := f.Resolve()
	assert.True(t, final.IsSat())

	bx, ok := f.FindArith(x)
	require.True(t, ok)
	assert.True(t, bx.Const().Equal(rat(2)), "the only disjunct consistent with x!=1 is x=2")
}
