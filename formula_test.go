package jsonsubsume

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMkAndFlattensAndDropsTrue(t *testing.T) {
	f := MkAnd(True{}, And{Args: []Formula{TypeIs{Tag: TagInt}, True{}}}, TypeIs{Tag: TagStr})
	and, ok := f.(And)
	assert.True(t, ok)
	assert.Len(t, and.Args, 2)
}

func TestMkAndShortCircuitsFalse(t *testing.T) {
	f := MkAnd(TypeIs{Tag: TagInt}, False{})
	assert.Equal(t, False{}, f)
}

func TestMkOrShortCircuitsTrue(t *testing.T) {
	f := MkOr(TypeIs{Tag: TagInt}, True{})
	assert.Equal(t, True{}, f)
}

func TestNegateTypeIsProducesOtherSixTags(t *testing.T) {
	f := negate(TypeIs{Tag: TagInt})
	or, ok := f.(Or)
	assert.True(t, ok)
	assert.Len(t, or.Args, 6)
}

func TestNegateDoubleNegationCancels(t *testing.T) {
	f := NNF(Not{Arg: Not{Arg: TypeIs{Tag: TagStr}}})
	assert.Equal(t, TypeIs{Tag: TagStr}, f)
}

func TestNegateDeMorgan(t *testing.T) {
	f := NNF(Not{Arg: And{Args: []Formula{TypeIs{Tag: TagInt}, TypeIs{Tag: TagStr}}}})
	or, ok := f.(Or)
	assert.True(t, ok)
	// each negated TypeIs is a six-way Or, and MkOr flattens both into one
	assert.Len(t, or.Args, 12)
}

func TestNegateNumCmpFlipsOperator(t *testing.T) {
	f := negate(NumCmp{Op: "<", Bound: big.NewRat(1, 1)})
	cmp, ok := f.(NumCmp)
	assert.True(t, ok)
	assert.Equal(t, ">=", cmp.Op)
}

func TestNegateObjHasTogglesPolarity(t *testing.T) {
	f := negate(ObjHas{Key: "x"})
	has, ok := f.(ObjHas)
	assert.True(t, ok)
	assert.True(t, has.Negated)
	assert.Equal(t, "x", has.Key)

	back := negate(has)
	has2, ok := back.(ObjHas)
	assert.True(t, ok)
	assert.False(t, has2.Negated)
}

func TestNegateArrElemAndObjValAreOpaqueAtoms(t *testing.T) {
	arrElem := ArrElem{Index: 0, Arg: TypeIs{Tag: TagInt}}
	f := negate(arrElem)
	not, ok := f.(Not)
	assert.True(t, ok)
	assert.Equal(t, arrElem, not.Arg)

	objVal := ObjVal{Key: "k", Arg: TypeIs{Tag: TagStr}}
	f2 := negate(objVal)
	not2, ok := f2.(Not)
	assert.True(t, ok)
	assert.Equal(t, objVal, not2.Arg)
}

func TestImpliesDesugarsToOrOfNegation(t *testing.T) {
	f := Implies(TypeIs{Tag: TagArr}, ArrLenCmp{Op: ">=", Bound: 1})
	or, ok := f.(Or)
	assert.True(t, ok)
	// the six other type tags, flattened, plus the consequent
	assert.Len(t, or.Args, 7)
}
