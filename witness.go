package jsonsubsume

// Witness is the JSON-renderable counterexample returned when a producer
// schema is not subsumed by a consumer schema: a document the producer
// accepts and the consumer rejects (§4.5). Grounded on original_source's
// witness.py, whose guiding invariant this mirrors: witness construction
// must never raise — any internal inconsistency degrades to Unknown
// further up in engine.go rather than panicking or returning a malformed
// witness.
type Witness struct {
	Value Value
	JSON  interface{}
}

// BuildWitness renders a solver-produced Value into its JSON form. This
// exists as its own step (rather than inlining ToJSON at the call site)
// because original_source's witness.py performs this as a distinct
// "reconstruction" pass, separate from the solver — kept here as the
// repo's equivalent boundary between decision procedure and presentation.
func BuildWitness(v Value) Witness {
	return Witness{Value: v, JSON: v.ToJSON()}
}

// ReasonCode names why the witness fails the consumer schema, used by
// explain.go and the CLI report. It's derived, not solved-for: engine.go
// computes it by locating the first consumer keyword the witness value
// fails, given the already-known-failing witness.
type ReasonCode string

const (
	ReasonTypeMismatch       ReasonCode = "type_mismatch"
	ReasonMissingRequired    ReasonCode = "missing_required"
	ReasonAdditionalProperty ReasonCode = "additional_property"
	ReasonConstMismatch      ReasonCode = "const_mismatch"
	ReasonEnumMismatch       ReasonCode = "enum_mismatch"
	ReasonNumericBound       ReasonCode = "numeric_bound"
	ReasonStringLength       ReasonCode = "string_length"
	ReasonStringPattern      ReasonCode = "string_pattern"
	ReasonStringFormat       ReasonCode = "string_format"
	ReasonArrayLength        ReasonCode = "array_length"
	ReasonArrayItem          ReasonCode = "array_item"
	ReasonArrayContains      ReasonCode = "array_contains"
	ReasonArrayUnique        ReasonCode = "array_unique"
	ReasonUnknown            ReasonCode = "unknown"
)

// Diagnose walks the consumer Schema c against witness value v, returning
// the first keyword violation found — a best-effort structural re-check
// rather than a re-derivation from the solver's internal state, matching
// original_source's witness.py preference for a simple, always-terminating
// post-hoc explanation over threading solver internals through the
// public API.
func Diagnose(c *Schema, v Value, patterns *PatternSet, custom CustomFormats) ReasonCode {
	if c == nil || c.IsBooleanLeaf() {
		return ReasonUnknown
	}
	if len(c.Type) > 0 && !typeMatchesAny(v, c.Type) {
		return ReasonTypeMismatch
	}
	if c.HasConst && !v.Equal(c.Const) {
		return ReasonConstMismatch
	}
	if len(c.Enum) > 0 && !valueInSet(v, c.Enum) {
		return ReasonEnumMismatch
	}
	switch v.Tag {
	case TagInt, TagReal:
		if r := diagnoseNumeric(c, v); r != "" {
			return r
		}
	case TagStr:
		if r := diagnoseString(c, v, patterns, custom); r != "" {
			return r
		}
	case TagArr:
		if r := diagnoseArray(c, v, patterns, custom); r != "" {
			return r
		}
	case TagObj:
		if r := diagnoseObject(c, v, patterns, custom); r != "" {
			return r
		}
	}
	for _, sub := range c.AllOf {
		if r := Diagnose(sub, v, patterns, custom); r != ReasonUnknown {
			return r
		}
	}
	return ReasonUnknown
}

func typeMatchesAny(v Value, types []string) bool {
	for _, t := range types {
		switch t {
		case "null":
			if v.IsNull() {
				return true
			}
		case "boolean":
			if v.IsBool() {
				return true
			}
		case "integer":
			if v.IsInt() {
				return true
			}
		case "number":
			if v.IsNumber() {
				return true
			}
		case "string":
			if v.IsStr() {
				return true
			}
		case "array":
			if v.IsArr() {
				return true
			}
		case "object":
			if v.IsObj() {
				return true
			}
		}
	}
	return false
}

func diagnoseNumeric(c *Schema, v Value) ReasonCode {
	if c.Minimum != nil && v.Num.Cmp(c.Minimum.Rat) < 0 {
		return ReasonNumericBound
	}
	if c.Maximum != nil && v.Num.Cmp(c.Maximum.Rat) > 0 {
		return ReasonNumericBound
	}
	if c.ExclusiveMinimumNum != nil && v.Num.Cmp(c.ExclusiveMinimumNum.Rat) <= 0 {
		return ReasonNumericBound
	}
	if c.ExclusiveMaximumNum != nil && v.Num.Cmp(c.ExclusiveMaximumNum.Rat) >= 0 {
		return ReasonNumericBound
	}
	return ""
}

func diagnoseString(c *Schema, v Value, patterns *PatternSet, custom CustomFormats) ReasonCode {
	if c.MinLength != nil && v.Len() < *c.MinLength {
		return ReasonStringLength
	}
	if c.MaxLength != nil && v.Len() > *c.MaxLength {
		return ReasonStringLength
	}
	if c.Pattern != nil {
		translated, err := TranslatePattern(*c.Pattern)
		if err == nil {
			id, err2 := patterns.Intern(translated)
			if err2 == nil && !patterns.MatchString(id, v.Str) {
				return ReasonStringPattern
			}
		}
	}
	if c.Format != nil && !MatchesFormat(custom, *c.Format, v.Str) {
		return ReasonStringFormat
	}
	return ""
}

func diagnoseArray(c *Schema, v Value, patterns *PatternSet, custom CustomFormats) ReasonCode {
	if c.MinItems != nil && len(v.Arr) < *c.MinItems {
		return ReasonArrayLength
	}
	if c.MaxItems != nil && len(v.Arr) > *c.MaxItems {
		return ReasonArrayLength
	}
	for i, sub := range c.PrefixItems {
		if i < len(v.Arr) && Diagnose(sub, v.Arr[i], patterns, custom) != ReasonUnknown {
			return ReasonArrayItem
		}
	}
	if c.Items != nil {
		start := len(c.PrefixItems)
		for i := start; i < len(v.Arr); i++ {
			if Diagnose(c.Items, v.Arr[i], patterns, custom) != ReasonUnknown {
				return ReasonArrayItem
			}
		}
	}
	if c.Contains != nil {
		found := false
		for _, e := range v.Arr {
			if Diagnose(c.Contains, e, patterns, custom) == ReasonUnknown {
				found = true
				break
			}
		}
		if !found {
			return ReasonArrayContains
		}
	}
	if c.UniqueItems {
		for i := 0; i < len(v.Arr); i++ {
			for j := i + 1; j < len(v.Arr); j++ {
				if v.Arr[i].Equal(v.Arr[j]) {
					return ReasonArrayUnique
				}
			}
		}
	}
	return ""
}

func diagnoseObject(c *Schema, v Value, patterns *PatternSet, custom CustomFormats) ReasonCode {
	for _, key := range c.Required {
		if !v.Has(key) {
			return ReasonMissingRequired
		}
	}
	for key, sub := range c.Properties {
		if val, ok := v.Val(key); ok {
			if Diagnose(sub, val, patterns, custom) != ReasonUnknown {
				return ReasonArrayItem
			}
		}
	}
	if c.AdditionalProperties != nil && c.AdditionalProperties.IsBooleanLeaf() && !*c.AdditionalProperties.Boolean {
		for key := range v.Obj {
			if _, known := c.Properties[key]; known {
				continue
			}
			if matchesAnyPattern(c.PatternProperties, key, patterns) {
				continue
			}
			return ReasonAdditionalProperty
		}
	}
	if c.MinProperties != nil && len(v.Obj) < *c.MinProperties {
		return ReasonArrayLength
	}
	if c.MaxProperties != nil && len(v.Obj) > *c.MaxProperties {
		return ReasonArrayLength
	}
	return ""
}

func matchesAnyPattern(patternProps map[string]*Schema, key string, patterns *PatternSet) bool {
	for pattern := range patternProps {
		translated, err := TranslatePattern(pattern)
		if err != nil {
			continue
		}
		id, err2 := patterns.Intern(translated)
		if err2 != nil {
			continue
		}
		if patterns.MatchString(id, key) {
			return true
		}
	}
	return false
}
