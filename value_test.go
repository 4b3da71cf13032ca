package jsonsubsume

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueEqualCrossesIntReal(t *testing.T) {
	assert.True(t, Int(1).Equal(Real(big.NewRat(1, 1))))
	assert.False(t, Int(1).Equal(Int(2)))
}

func TestValueEqualStructural(t *testing.T) {
	a := Obj(map[string]Value{"x": Int(1), "y": Arr([]Value{Str("a")})})
	b := Obj(map[string]Value{"x": Int(1), "y": Arr([]Value{Str("a")})})
	c := Obj(map[string]Value{"x": Int(2)})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestValueLenHasVal(t *testing.T) {
	o := Obj(map[string]Value{"k": Str("v")})
	assert.True(t, o.Has("k"))
	assert.False(t, o.Has("missing"))
	v, ok := o.Val("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v.Str)

	a := Arr([]Value{Int(1), Int(2)})
	assert.Equal(t, 2, a.Len())
	e, ok := a.At(1)
	assert.True(t, ok)
	assert.Equal(t, int64(2), e.Num.Num().Int64())
}

func TestValueToJSONRoundTrip(t *testing.T) {
	v := Obj(map[string]Value{
		"n": Int(5),
		"s": Str("hi"),
		"a": Arr([]Value{Bool(true), Null()}),
	})
	j := v.ToJSON()
	m, ok := j.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "hi", m["s"])
}

func TestFromJSONDisambiguatesIntVsReal(t *testing.T) {
	assert.Equal(t, TagInt, FromJSON(float64(4)).Tag)
	assert.Equal(t, TagReal, FromJSON(float64(4.5)).Tag)
}
