package jsonsubsume

import (
	"bytes"

	"github.com/goccy/go-json"
)

// annotationOnlyKeywords are keywords §6 requires the parser to ignore
// silently — they carry no validation semantics, only documentation.
var annotationOnlyKeywords = map[string]struct{}{
	"title":       {},
	"description": {},
	"default":     {},
	"$comment":    {},
	"$id":         {},
	"$schema":     {},
	"examples":    {},
	"deprecated":  {},
	"readOnly":    {},
	"writeOnly":   {},
}

// Schema is the normalized schema tree of §3: every node is a keyword
// object (a finite map from keyword name to argument), except the two
// Boolean leaves true/false. Fields are nil/zero when the keyword was
// absent, which the compiler reads as "no constraint" per §4.2's
// invariants.
type Schema struct {
	// Boolean is non-nil for the leaf schemas `true`/`false`.
	Boolean *bool

	// Reference keywords (§4.1). Ref is resolved away by the unfolder
	// before compilation; a Schema reaching the compiler with Ref != ""
	// is an internal error.
	Ref string

	Defs        map[string]*Schema
	Definitions map[string]*Schema

	// Type, §4.2.
	Type []string

	// Const / enum, §4.2. Values already normalized to the JSON sort.
	HasConst bool
	Const    Value
	Enum     []Value

	// Composition, §4.2.
	AllOf []*Schema
	AnyOf []*Schema
	OneOf []*Schema
	Not   *Schema

	// Conditional, §4.2.
	If   *Schema
	Then *Schema
	Else *Schema

	// String, §4.2.
	MinLength *int
	MaxLength *int
	Pattern   *string
	Format    *string

	// Numeric, §4.2.
	MultipleOf *Rat
	Minimum    *Rat
	Maximum    *Rat
	// ExclusiveMinimum/Maximum: Draft-7 boolean toggle XOR Draft-6 numeric
	// bound, disambiguated by JSON type at parse time (§9's third open
	// question).
	ExclusiveMinimumBool *bool
	ExclusiveMinimumNum  *Rat
	ExclusiveMaximumBool *bool
	ExclusiveMaximumNum  *Rat

	// Object, §4.2.
	Properties           map[string]*Schema
	PatternProperties    map[string]*Schema
	AdditionalProperties *Schema // nil means "no constraint"; Boolean(false) means "closed"
	Required             []string
	DependentRequired    map[string][]string
	DependentSchemas     map[string]*Schema
	MinProperties        *int
	MaxProperties        *int
	PropertyNames        *Schema

	// Array, §4.2.
	Items       *Schema
	PrefixItems []*Schema
	Contains    *Schema
	MinItems    *int
	MaxItems    *int
	UniqueItems bool
}

// ParseSchema decodes a JSON Schema document into a Schema tree, rejecting
// malformed input (§7 SchemaValidation) and validation-bearing keywords
// outside the §4.2 supported set (§7 UnsupportedFeature). Numbers are
// decoded with json.Number precision so const/enum and numeric bounds can
// be told apart as int vs. real by literal syntax (§9).
func ParseSchema(data []byte) (*Schema, error) {
	raw, err := decodeAny(data)
	if err != nil {
		return nil, &UnsupportedFeatureError{Feature: "schema", Detail: err.Error()}
	}
	return schemaFromAny(raw, 0)
}

// decodeAny decodes arbitrary JSON into nil/bool/json.Number/string/
// []interface{}/map[string]interface{}, preserving numeric literal text.
func decodeAny(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func schemaFromAny(raw interface{}, depth int) (*Schema, error) {
	if depth > maxParseDepth {
		return nil, &UnsupportedFeatureError{Feature: "nesting", Detail: "schema document nested too deeply"}
	}
	switch v := raw.(type) {
	case bool:
		b := v
		return &Schema{Boolean: &b}, nil
	case map[string]interface{}:
		return schemaFromObject(v, depth)
	case nil:
		return nil, ErrRootNotObjectOrBool
	default:
		return nil, ErrRootNotObjectOrBool
	}
}

const maxParseDepth = 200

func schemaFromObject(m map[string]interface{}, depth int) (*Schema, error) {
	s := &Schema{}

	if ref, ok := m["$ref"]; ok {
		str, ok := ref.(string)
		if !ok {
			return nil, ErrMalformedSchema
		}
		s.Ref = str
	}

	if defs, ok := m["$defs"]; ok {
		parsed, err := parseDefsMap(defs, depth)
		if err != nil {
			return nil, err
		}
		s.Defs = parsed
	}
	if defs, ok := m["definitions"]; ok {
		parsed, err := parseDefsMap(defs, depth)
		if err != nil {
			return nil, err
		}
		s.Definitions = parsed
	}

	if t, ok := m["type"]; ok {
		types, err := parseTypeField(t)
		if err != nil {
			return nil, err
		}
		s.Type = types
	}

	if c, ok := m["const"]; ok {
		val, err := literalToValue(c)
		if err != nil {
			return nil, err
		}
		s.HasConst = true
		s.Const = val
	}
	if e, ok := m["enum"]; ok {
		list, ok := e.([]interface{})
		if !ok {
			return nil, ErrMalformedSchema
		}
		for _, item := range list {
			val, err := literalToValue(item)
			if err != nil {
				return nil, err
			}
			s.Enum = append(s.Enum, val)
		}
	}

	var err error
	if s.AllOf, err = parseSchemaList(m["allOf"], depth); err != nil {
		return nil, err
	}
	if s.AnyOf, err = parseSchemaList(m["anyOf"], depth); err != nil {
		return nil, err
	}
	if s.OneOf, err = parseSchemaList(m["oneOf"], depth); err != nil {
		return nil, err
	}
	if n, ok := m["not"]; ok {
		if s.Not, err = schemaFromAny(n, depth+1); err != nil {
			return nil, err
		}
	}

	if ifs, ok := m["if"]; ok {
		if s.If, err = schemaFromAny(ifs, depth+1); err != nil {
			return nil, err
		}
	}
	if then, ok := m["then"]; ok {
		if s.Then, err = schemaFromAny(then, depth+1); err != nil {
			return nil, err
		}
	}
	if els, ok := m["else"]; ok {
		if s.Else, err = schemaFromAny(els, depth+1); err != nil {
			return nil, err
		}
	}

	if v, ok := m["minLength"]; ok {
		if s.MinLength, err = parseNonNegInt(v); err != nil {
			return nil, err
		}
	}
	if v, ok := m["maxLength"]; ok {
		if s.MaxLength, err = parseNonNegInt(v); err != nil {
			return nil, err
		}
	}
	if v, ok := m["pattern"]; ok {
		str, ok := v.(string)
		if !ok {
			return nil, ErrMalformedSchema
		}
		s.Pattern = &str
	}
	if v, ok := m["format"]; ok {
		str, ok := v.(string)
		if !ok {
			return nil, ErrMalformedSchema
		}
		s.Format = &str
	}

	if v, ok := m["multipleOf"]; ok {
		if s.MultipleOf, err = parseRatField(v); err != nil {
			return nil, err
		}
	}
	if v, ok := m["minimum"]; ok {
		if s.Minimum, err = parseRatField(v); err != nil {
			return nil, err
		}
	}
	if v, ok := m["maximum"]; ok {
		if s.Maximum, err = parseRatField(v); err != nil {
			return nil, err
		}
	}
	if v, ok := m["exclusiveMinimum"]; ok {
		if err = parseExclusiveBound(v, &s.ExclusiveMinimumBool, &s.ExclusiveMinimumNum); err != nil {
			return nil, err
		}
	}
	if v, ok := m["exclusiveMaximum"]; ok {
		if err = parseExclusiveBound(v, &s.ExclusiveMaximumBool, &s.ExclusiveMaximumNum); err != nil {
			return nil, err
		}
	}

	if v, ok := m["properties"]; ok {
		if s.Properties, err = parseSchemaMap(v, depth); err != nil {
			return nil, err
		}
	}
	if v, ok := m["patternProperties"]; ok {
		if s.PatternProperties, err = parseSchemaMap(v, depth); err != nil {
			return nil, err
		}
	}
	if v, ok := m["additionalProperties"]; ok {
		if s.AdditionalProperties, err = schemaFromAny(v, depth+1); err != nil {
			return nil, err
		}
	}
	if v, ok := m["required"]; ok {
		if s.Required, err = parseStringList(v); err != nil {
			return nil, ErrRequiredNotStringArray
		}
	}
	if v, ok := m["dependentRequired"]; ok {
		if s.DependentRequired, err = parseDependentRequired(v); err != nil {
			return nil, err
		}
	}
	if v, ok := m["dependentSchemas"]; ok {
		if s.DependentSchemas, err = parseSchemaMap(v, depth); err != nil {
			return nil, err
		}
	}
	if v, ok := m["dependencies"]; ok {
		// Legacy Draft-7 "dependencies": values are either a schema or an
		// array of property names; fold both into the Draft-2019
		// dependentRequired/dependentSchemas split (§4.2).
		if err = parseLegacyDependencies(v, depth, s); err != nil {
			return nil, err
		}
	}
	if v, ok := m["minProperties"]; ok {
		if s.MinProperties, err = parseNonNegInt(v); err != nil {
			return nil, err
		}
	}
	if v, ok := m["maxProperties"]; ok {
		if s.MaxProperties, err = parseNonNegInt(v); err != nil {
			return nil, err
		}
	}
	if v, ok := m["propertyNames"]; ok {
		if s.PropertyNames, err = schemaFromAny(v, depth+1); err != nil {
			return nil, err
		}
	}

	if v, ok := m["items"]; ok {
		if s.Items, err = schemaFromAny(v, depth+1); err != nil {
			return nil, err
		}
	}
	if v, ok := m["prefixItems"]; ok {
		if s.PrefixItems, err = parseSchemaList(v, depth); err != nil {
			return nil, err
		}
	}
	if v, ok := m["contains"]; ok {
		if s.Contains, err = schemaFromAny(v, depth+1); err != nil {
			return nil, err
		}
	}
	if v, ok := m["minItems"]; ok {
		if s.MinItems, err = parseNonNegInt(v); err != nil {
			return nil, err
		}
	}
	if v, ok := m["maxItems"]; ok {
		if s.MaxItems, err = parseNonNegInt(v); err != nil {
			return nil, err
		}
	}
	if v, ok := m["uniqueItems"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, ErrMalformedSchema
		}
		s.UniqueItems = b
	}

	for key := range m {
		if _, ok := annotationOnlyKeywords[key]; ok {
			continue
		}
		if _, ok := knownSupportedKeywords[key]; ok {
			continue
		}
		return nil, &UnsupportedFeatureError{Feature: key, Detail: "validation-bearing keyword outside the supported set"}
	}

	return s, nil
}

// knownSupportedKeywords is every keyword schemaFromObject handles above.
var knownSupportedKeywords = map[string]struct{}{
	"$ref": {}, "$defs": {}, "definitions": {}, "type": {}, "const": {}, "enum": {},
	"allOf": {}, "anyOf": {}, "oneOf": {}, "not": {}, "if": {}, "then": {}, "else": {},
	"minLength": {}, "maxLength": {}, "pattern": {}, "format": {},
	"multipleOf": {}, "minimum": {}, "maximum": {}, "exclusiveMinimum": {}, "exclusiveMaximum": {},
	"properties": {}, "patternProperties": {}, "additionalProperties": {}, "required": {},
	"dependentRequired": {}, "dependentSchemas": {}, "dependencies": {},
	"minProperties": {}, "maxProperties": {}, "propertyNames": {},
	"items": {}, "prefixItems": {}, "contains": {}, "minItems": {}, "maxItems": {}, "uniqueItems": {},
}

func parseDefsMap(v interface{}, depth int) (map[string]*Schema, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, ErrMalformedSchema
	}
	out := make(map[string]*Schema, len(m))
	for k, raw := range m {
		sub, err := schemaFromAny(raw, depth+1)
		if err != nil {
			return nil, err
		}
		out[k] = sub
	}
	return out, nil
}

func parseSchemaList(v interface{}, depth int) ([]*Schema, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, ErrMalformedSchema
	}
	out := make([]*Schema, 0, len(list))
	for _, item := range list {
		sub, err := schemaFromAny(item, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func parseSchemaMap(v interface{}, depth int) (map[string]*Schema, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, ErrMalformedSchema
	}
	out := make(map[string]*Schema, len(m))
	for k, raw := range m {
		sub, err := schemaFromAny(raw, depth+1)
		if err != nil {
			return nil, err
		}
		out[k] = sub
	}
	return out, nil
}

func parseStringList(v interface{}) ([]string, error) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, ErrRequiredNotStringArray
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		str, ok := item.(string)
		if !ok {
			return nil, ErrRequiredNotStringArray
		}
		out = append(out, str)
	}
	return out, nil
}

func parseDependentRequired(v interface{}) (map[string][]string, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, ErrMalformedSchema
	}
	out := make(map[string][]string, len(m))
	for k, raw := range m {
		list, err := parseStringList(raw)
		if err != nil {
			return nil, err
		}
		out[k] = list
	}
	return out, nil
}

func parseLegacyDependencies(v interface{}, depth int, s *Schema) error {
	m, ok := v.(map[string]interface{})
	if !ok {
		return ErrMalformedSchema
	}
	for k, raw := range m {
		if list, ok := raw.([]interface{}); ok {
			names, err := parseStringList(list)
			if err != nil {
				return err
			}
			if s.DependentRequired == nil {
				s.DependentRequired = map[string][]string{}
			}
			s.DependentRequired[k] = names
			continue
		}
		sub, err := schemaFromAny(raw, depth+1)
		if err != nil {
			return err
		}
		if s.DependentSchemas == nil {
			s.DependentSchemas = map[string]*Schema{}
		}
		s.DependentSchemas[k] = sub
	}
	return nil
}

func parseTypeField(v interface{}) ([]string, error) {
	switch t := v.(type) {
	case string:
		if !isKnownTypeName(t) {
			return nil, ErrUnknownType
		}
		return []string{t}, nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			str, ok := item.(string)
			if !ok || !isKnownTypeName(str) {
				return nil, ErrUnknownType
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, ErrMalformedSchema
	}
}

func isKnownTypeName(t string) bool {
	switch t {
	case "null", "boolean", "integer", "number", "string", "array", "object":
		return true
	}
	return false
}

func parseNonNegInt(v interface{}) (*int, error) {
	num, ok := v.(json.Number)
	if !ok {
		return nil, ErrMalformedSchema
	}
	r, isInt, err := ParseNumberLiteral(string(num))
	if err != nil || !isInt || !r.IsInt() {
		return nil, ErrMalformedSchema
	}
	n := int(r.Num().Int64())
	if n < 0 {
		return nil, ErrMalformedSchema
	}
	return &n, nil
}

func parseRatField(v interface{}) (*Rat, error) {
	num, ok := v.(json.Number)
	if !ok {
		return nil, ErrMalformedSchema
	}
	r, _, err := ParseNumberLiteral(string(num))
	if err != nil {
		return nil, err
	}
	return &Rat{r}, nil
}

func parseExclusiveBound(v interface{}, boolOut **bool, numOut **Rat) error {
	switch t := v.(type) {
	case bool:
		b := t
		*boolOut = &b
		return nil
	case json.Number:
		r, _, err := ParseNumberLiteral(string(t))
		if err != nil {
			return err
		}
		*numOut = &Rat{r}
		return nil
	default:
		return ErrMalformedSchema
	}
}

// literalToValue converts a decoded JSON literal (nil/bool/json.Number/
// string/[]interface{}/map[string]interface{}) into the JSON sort's Value,
// disambiguating int vs. real by the number's literal syntax.
func literalToValue(v interface{}) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return Str(t), nil
	case json.Number:
		r, isInt, err := ParseNumberLiteral(string(t))
		if err != nil {
			return Value{}, err
		}
		if isInt {
			return IntR(r), nil
		}
		return Real(r), nil
	case []interface{}:
		out := make([]Value, len(t))
		for i, item := range t {
			val, err := literalToValue(item)
			if err != nil {
				return Value{}, err
			}
			out[i] = val
		}
		return Arr(out), nil
	case map[string]interface{}:
		out := make(map[string]Value, len(t))
		for k, item := range t {
			val, err := literalToValue(item)
			if err != nil {
				return Value{}, err
			}
			out[k] = val
		}
		return Obj(out), nil
	default:
		return Value{}, ErrMalformedSchema
	}
}

// IsBooleanLeaf reports whether s is one of the two Boolean leaf schemas.
func (s *Schema) IsBooleanLeaf() bool { return s != nil && s.Boolean != nil }
