package jsonsubsume

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUniverse() *Universe {
	return &Universe{Keys: []string{"a", "b", "__witness_keya", "__witness_keyb"}, LMax: 4}
}

func solveFormula(t *testing.T, f Formula) SolveResult {
	t.Helper()
	return Solve(context.Background(), f, testUniverse(), NewPatternSet(), DefaultSolverConfig())
}

func TestSolveTrueIsSat(t *testing.T) {
	res := solveFormula(t, True{})
	assert.Equal(t, Sat, res.Outcome)
}

func TestSolveFalseIsUnsat(t *testing.T) {
	res := solveFormula(t, False{})
	assert.Equal(t, Unsat, res.Outcome)
}

func TestSolveContradictoryTypesIsUnsat(t *testing.T) {
	res := solveFormula(t, And{Args: []Formula{TypeIs{Tag: TagInt}, TypeIs{Tag: TagStr}}})
	assert.Equal(t, Unsat, res.Outcome)
}

func TestSolveSimpleStringConstraintProducesWitness(t *testing.T) {
	res := solveFormula(t, And{Args: []Formula{
		TypeIs{Tag: TagStr},
		StrLenCmp{Op: ">=", Bound: 3},
		StrLenCmp{Op: "<=", Bound: 5},
	}})
	require.Equal(t, Sat, res.Outcome)
	require.True(t, res.Witness.IsStr())
	l := res.Witness.Len()
	assert.True(t, l >= 3 && l <= 5)
}

func TestSolveNumericBoundsProduceWitnessWithinRange(t *testing.T) {
	res := solveFormula(t, And{Args: []Formula{
		TypeIs{Tag: TagInt},
		NumCmp{Op: ">=", Bound: big.NewRat(5, 1)},
		NumCmp{Op: "<=", Bound: big.NewRat(10, 1)},
	}})
	require.Equal(t, Sat, res.Outcome)
	require.True(t, res.Witness.IsInt())
	assert.True(t, res.Witness.Num.Cmp(big.NewRat(5, 1)) >= 0)
	assert.True(t, res.Witness.Num.Cmp(big.NewRat(10, 1)) <= 0)
}

func TestSolveContradictoryNumericBoundsIsUnsat(t *testing.T) {
	res := solveFormula(t, And{Args: []Formula{
		TypeIs{Tag: TagInt},
		NumCmp{Op: ">=", Bound: big.NewRat(10, 1)},
		NumCmp{Op: "<=", Bound: big.NewRat(5, 1)},
	}})
	assert.Equal(t, Unsat, res.Outcome)
}

func TestSolveRequiredPropertyProducesObjectWithKey(t *testing.T) {
	res := solveFormula(t, And{Args: []Formula{
		TypeIs{Tag: TagObj},
		ObjHas{Key: "a"},
		ObjVal{Key: "a", Arg: TypeIs{Tag: TagInt}},
	}})
	require.Equal(t, Sat, res.Outcome)
	require.True(t, res.Witness.IsObj())
	v, ok := res.Witness.Val("a")
	require.True(t, ok)
	assert.True(t, v.IsInt())
}

func TestSolveMissingRequiredIsUnsat(t *testing.T) {
	res := solveFormula(t, And{Args: []Formula{
		TypeIs{Tag: TagObj},
		ObjHas{Key: "a"},
		ObjHas{Key: "a", Negated: true},
	}})
	assert.Equal(t, Unsat, res.Outcome)
}

func TestSolveArrayElementConstraint(t *testing.T) {
	res := solveFormula(t, And{Args: []Formula{
		TypeIs{Tag: TagArr},
		ArrLenCmp{Op: ">=", Bound: 2},
		ArrElem{Index: 0, Arg: TypeIs{Tag: TagStr}},
	}})
	require.Equal(t, Sat, res.Outcome)
	require.True(t, res.Witness.IsArr())
	require.True(t, len(res.Witness.Arr) >= 2)
	assert.True(t, res.Witness.Arr[0].IsStr())
}

func TestSolveOrPrefersSatBranch(t *testing.T) {
	res := solveFormula(t, Or{Args: []Formula{False{}, TypeIs{Tag: TagBool}}})
	require.Equal(t, Sat, res.Outcome)
	assert.True(t, res.Witness.IsBool())
}
