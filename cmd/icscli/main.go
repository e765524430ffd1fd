// Command icscli is the non-interactive scenario runner of SPEC_FULL.md
// §6: it drives internal/engine's Facade through the literal scenarios of
// §8 and §8.1, the way a REPL's assert/resolve/can/sup/inf/find verbs
// would, without the excluded lexer/parser.
//
// Grounded on the teacher's cmd/example/main.go shape: one function per
// demonstration, each printing what it asserts and what it found, run in
// sequence from main.
package main

import (
	"fmt"
	"os"

	"icscore/internal/engine"
	"icscore/internal/variable"
	"icscore/pkg/poly"
	"icscore/pkg/rational"
)

func main() {
	fmt.Println("=== icscore scenario runner ===")
	fmt.Println()

	scenarios := []struct {
		name string
		run  func() bool
	}{
		{"1. Linear equality + inequality", scenarioLinearEqualityInequality},
		{"2. Infeasibility from lower/upper bound", scenarioInfeasibleBounds},
		{"3. Integer disequality splitting", scenarioIntegerDisequality},
		{"4. Entailed equality via zero-analysis", scenarioZeroAnalysis},
		{"5. Unbounded", scenarioUnbounded},
		{"6. Gomory cut", scenarioGomoryCut},
		{"7. Real disequality that never resolves to a bound", scenarioRealDisequality},
		{"8. Save/restore roundtrip", scenarioSaveRestore},
		{"9. Chained equalities through slacks", scenarioChainedEqualities},
	}

	allOK := true
	for _, s := range scenarios {
		fmt.Printf("%s:\n", s.name)
		ok := s.run()
		if !ok {
			allOK = false
			fmt.Println("   FAILED")
		}
		fmt.Println()
	}

	if !allOK {
		os.Exit(1)
	}
}

func rat(n int64) rational.Rational { return rational.FromInt64(n) }

func scenarioLinearEqualityInequality() bool {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	y := f.NewVar("y", variable.Real)
	px, py := poly.FromVar(x), poly.FromVar(y)

	st := f.Process(engine.Eq(px.Add(py), poly.FromConst(rat(3))))
	st = f.Process(engine.NonnegF(px))
	st = f.Process(engine.NonnegF(py))
	st = f.Process(engine.Eq(px.Sub(py), poly.FromConst(rat(1))))

	fmt.Printf("   status = %v\n", st)
	bx, _ := f.FindArith(x)
	by, _ := f.FindArith(y)
	fmt.Printf("   find(x) = %s, find(y) = %s\n", f.Render(bx), f.Render(by))
	return st.IsSat() && bx.IsConstant() && bx.Const().Equal(rat(2)) &&
		by.IsConstant() && by.Const().Equal(rat(1))
}

func scenarioInfeasibleBounds() bool {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	px := poly.FromVar(x)

	f.Process(engine.NonnegF(px.Sub(poly.FromConst(rat(5))))) // x >= 5
	st := f.Process(engine.NonnegF(poly.FromConst(rat(2)).Sub(px))) // x <= 2

	fmt.Printf("   status = %v\n", st)
	return st.IsUnsat() && st.Core.Len() == 2
}

func scenarioIntegerDisequality() bool {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Int)
	px := poly.FromVar(x)

	f.Process(engine.NonnegF(px))
	f.Process(engine.NonnegF(poly.FromConst(rat(2)).Sub(px)))
	st := f.Process(engine.Diseq(px, poly.FromConst(rat(1))))
	fmt.Printf("   status = %v\n", st)

	sup, supOK := f.Sup(px)
	inf, infOK := f.Inf(px)
	fmt.Printf("   sup(x) = %v (ok=%v), inf(x) = %v (ok=%v)\n", sup, supOK, inf, infOK)

	eqOne := f.Save()
	stEq := f.Process(engine.Eq(px, poly.FromConst(rat(1))))
	fmt.Printf("   process(x=1) = %v\n", stEq)
	f.Restore(eqOne)

	return st.IsSat() && supOK && sup.Equal(rat(2)) && infOK && inf.Equal(rat(0)) && stEq.IsUnsat()
}

func scenarioZeroAnalysis() bool {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	y := f.NewVar("y", variable.Real)
	px, py := poly.FromVar(x), poly.FromVar(y)

	f.Process(engine.NonnegF(px))
	f.Process(engine.NonnegF(py))
	st := f.Process(engine.NonnegF(poly.FromConst(rat(0)).Sub(px).Sub(py))) // -(x+y) >= 0, i.e. x+y <= 0

	fmt.Printf("   status = %v\n", st)
	bx, _ := f.FindArith(x)
	by, _ := f.FindArith(y)
	fmt.Printf("   find(x) = %s, find(y) = %s\n", f.Render(bx), f.Render(by))
	return st.IsSat() && bx.IsConstant() && bx.Const().IsZero() && by.IsConstant() && by.Const().IsZero()
}

func scenarioUnbounded() bool {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	px := poly.FromVar(x)

	st := f.Process(engine.NonnegF(px))
	_, ok := f.Sup(px)
	fmt.Printf("   status = %v, sup(x) ok = %v\n", st, ok)
	return st.IsSat() && !ok
}

func scenarioGomoryCut() bool {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Int)
	y := f.NewVar("y", variable.Int)
	px, py := poly.FromVar(x), poly.FromVar(y)

	f.Process(engine.Eq(px.Scale(rat(2)).Add(py.Scale(rat(3))), poly.FromConst(rat(7))))
	f.Process(engine.NonnegF(px))
	st := f.Process(engine.NonnegF(py))

	supX, okX := f.Sup(px)
	supY, okY := f.Sup(py)
	fmt.Printf("   status = %v, sup(x) = %v (ok=%v), sup(y) = %v (ok=%v)\n", st, supX, okX, supY, okY)
	return st.IsSat() && okX && supX.Equal(rat(3)) && okY && supY.Equal(rat(2))
}

func scenarioRealDisequality() bool {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	px := poly.FromVar(x)

	st := f.Process(engine.Diseq(px, poly.FromConst(rat(3))))
	fmt.Printf("   status = %v\n", st)
	return st.IsSat()
}

func scenarioSaveRestore() bool {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	px := poly.FromVar(x)

	f.Process(engine.NonnegF(px))
	_, okBefore := f.Sup(px)

	snap := f.Save()
	branchStatus := f.Process(engine.NonnegF(poly.FromConst(rat(-1)).Sub(px))) // x <= -1, contradicts x >= 0
	fmt.Printf("   branch status = %v\n", branchStatus)
	f.Restore(snap)

	_, okAfter := f.Sup(px)
	fmt.Printf("   sup(x) unbounded before=%v, after restore=%v\n", !okBefore, !okAfter)
	return branchStatus.IsUnsat() && !okBefore && !okAfter
}

func scenarioChainedEqualities() bool {
	f := engine.New(engine.DefaultOptions())
	x := f.NewVar("x", variable.Real)
	y := f.NewVar("y", variable.Real)
	px, py := poly.FromVar(x), poly.FromVar(y)

	f.Process(engine.Eq(px, py))
	f.Process(engine.NonnegF(py))
	st := f.Process(engine.NonnegF(poly.FromConst(rat(0)).Sub(py)))

	fmt.Printf("   status = %v\n", st)
	bx, _ := f.FindArith(x)
	fmt.Printf("   find(x) = %s\n", f.Render(bx))
	return st.IsSat() && bx.IsConstant() && bx.Const().IsZero()
}
