package jsonsubsume

import (
	"math/big"
	"sort"
)

// Tag identifies the JSON sort's recognizer, mirroring the seven disjoint
// cases of the theory: null, bool, int, real, str, arr, obj. Exactly one
// recognizer holds for any Value.
type Tag int

const (
	TagNull Tag = iota
	TagBool
	TagInt
	TagReal
	TagStr
	TagArr
	TagObj
)

// AllTags lists every recognizer, in a fixed order used wherever the theory
// needs to enumerate "the other six tags" (e.g. negating a type atom).
var AllTags = [7]Tag{TagNull, TagBool, TagInt, TagReal, TagStr, TagArr, TagObj}

func (t Tag) String() string {
	switch t {
	case TagNull:
		return "null"
	case TagBool:
		return "bool"
	case TagInt:
		return "int"
	case TagReal:
		return "real"
	case TagStr:
		return "str"
	case TagArr:
		return "arr"
	case TagObj:
		return "obj"
	default:
		return "unknown"
	}
}

// Value is a concrete element of the JSON sort J: a tag plus the payload
// the accessor for that tag would read off. Arrays and objects don't carry
// a nested algebraic payload (per the theory, §3) — they carry the
// externalized relations arr_elems and has/val directly, as Go slices and
// maps over Value, which is the natural total instantiation of those
// otherwise-partial functions.
type Value struct {
	Tag  Tag
	Bool bool
	Num  *big.Rat // payload for TagInt and TagReal
	Str  string
	Arr  []Value
	Obj  map[string]Value
}

// Null, True, False are the degenerate zero-payload constructors.
func Null() Value        { return Value{Tag: TagNull} }
func Bool(b bool) Value  { return Value{Tag: TagBool, Bool: b} }
func Int(n int64) Value  { return Value{Tag: TagInt, Num: new(big.Rat).SetInt64(n)} }
func IntR(n *big.Rat) Value {
	return Value{Tag: TagInt, Num: n}
}
func Real(n *big.Rat) Value { return Value{Tag: TagReal, Num: n} }
func Str(s string) Value    { return Value{Tag: TagStr, Str: s} }
func Arr(vs []Value) Value  { return Value{Tag: TagArr, Arr: vs} }
func Obj(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{Tag: TagObj, Obj: m}
}

// IsNull, IsBool, ... are the theory's recognizers, is_null(x) etc.
func (v Value) IsNull() bool { return v.Tag == TagNull }
func (v Value) IsBool() bool { return v.Tag == TagBool }
func (v Value) IsInt() bool  { return v.Tag == TagInt }
func (v Value) IsReal() bool { return v.Tag == TagReal }
func (v Value) IsNumber() bool { return v.Tag == TagInt || v.Tag == TagReal }
func (v Value) IsStr() bool  { return v.Tag == TagStr }
func (v Value) IsArr() bool  { return v.Tag == TagArr }
func (v Value) IsObj() bool  { return v.Tag == TagObj }

// Len is the theory's len(j), defined for str (rune count) and arr.
func (v Value) Len() int {
	switch v.Tag {
	case TagStr:
		return len([]rune(v.Str))
	case TagArr:
		return len(v.Arr)
	default:
		return 0
	}
}

// Has is the theory's has(j,k): true iff j is an object with key k present.
func (v Value) Has(key string) bool {
	if v.Tag != TagObj {
		return false
	}
	_, ok := v.Obj[key]
	return ok
}

// At is the theory's arr_elems(j)[i], total over the slice bounds.
func (v Value) At(i int) (Value, bool) {
	if v.Tag != TagArr || i < 0 || i >= len(v.Arr) {
		return Value{}, false
	}
	return v.Arr[i], true
}

// Val is the theory's val(j,k).
func (v Value) Val(key string) (Value, bool) {
	if v.Tag != TagObj {
		return Value{}, false
	}
	val, ok := v.Obj[key]
	return val, ok
}

// Equal implements the theory's equality on J, used by const/enum and
// uniqueItems. Numbers compare by rational value regardless of int/real
// tag, matching JSON Schema's "1 and 1.0 are the same value" rule for
// const/enum/uniqueItems, while type() still distinguishes int from real.
func (v Value) Equal(o Value) bool {
	if v.IsNumber() && o.IsNumber() {
		return v.Num.Cmp(o.Num) == 0
	}
	if v.Tag != o.Tag {
		return false
	}
	switch v.Tag {
	case TagNull:
		return true
	case TagBool:
		return v.Bool == o.Bool
	case TagStr:
		return v.Str == o.Str
	case TagArr:
		if len(v.Arr) != len(o.Arr) {
			return false
		}
		for i := range v.Arr {
			if !v.Arr[i].Equal(o.Arr[i]) {
				return false
			}
		}
		return true
	case TagObj:
		if len(v.Obj) != len(o.Obj) {
			return false
		}
		for k, vv := range v.Obj {
			ov, ok := o.Obj[k]
			if !ok || !vv.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// ToJSON converts a Value into the plain interface{} tree goccy/go-json
// expects, for marshaling into CLI output and witness reports.
func (v Value) ToJSON() interface{} {
	switch v.Tag {
	case TagNull:
		return nil
	case TagBool:
		return v.Bool
	case TagInt:
		if v.Num.IsInt() {
			return v.Num.Num().Int64()
		}
		f, _ := v.Num.Float64()
		return f
	case TagReal:
		f, _ := v.Num.Float64()
		return f
	case TagStr:
		return v.Str
	case TagArr:
		out := make([]interface{}, len(v.Arr))
		for i, e := range v.Arr {
			out[i] = e.ToJSON()
		}
		return out
	case TagObj:
		out := make(map[string]interface{}, len(v.Obj))
		for k, e := range v.Obj {
			out[k] = e.ToJSON()
		}
		return out
	}
	return nil
}

// FromJSON lifts a parsed interface{} (as produced by goccy/go-json) into
// the tagged Value sort, disambiguating int vs. real by whether the
// originating JSON literal carried a fractional part or exponent. Since
// goccy/go-json decodes untyped JSON numbers as float64, FromJSON accepts
// pre-separated inputs from the schema/number decoders (see rat.go); for
// generic any-trees (CLI-loaded documents) it falls back to treating
// integral float64 values as TagInt.
func FromJSON(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case string:
		return Str(t)
	case float64:
		r := new(big.Rat).SetFloat64(t)
		if r == nil {
			r = new(big.Rat)
		}
		if r.IsInt() {
			return IntR(r)
		}
		return Real(r)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case *big.Rat:
		if t.IsInt() {
			return IntR(t)
		}
		return Real(t)
	case []interface{}:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = FromJSON(e)
		}
		return Arr(out)
	case map[string]interface{}:
		out := make(map[string]Value, len(t))
		for k, e := range t {
			out[k] = FromJSON(e)
		}
		return Obj(out)
	case []Value:
		return Arr(t)
	case map[string]Value:
		return Obj(t)
	default:
		return Null()
	}
}

// SortedKeys returns an object's keys in a deterministic order, used when
// serializing or walking Values so witnesses are reproducible.
func (v Value) SortedKeys() []string {
	keys := make([]string, 0, len(v.Obj))
	for k := range v.Obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
