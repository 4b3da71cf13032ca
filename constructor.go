package jsonsubsume

import "math/big"

// Fluent Schema builder, used by tests to assemble schema trees without
// going through ParseSchema. Adapted from the teacher's constructor.go —
// the Object/String/Array/OneOf/... API shape is kept, generalized onto
// this package's Schema struct and Value-based const/enum literals.

// Keyword mutates a Schema being built; keywords are applied after the
// type-specific constructor sets the base shape, mirroring the teacher's
// Keyword function type.
type Keyword func(*Schema)

// Property pairs a property name with its schema, for use inside Object.
type Property struct {
	Name   string
	Schema *Schema
}

func Prop(name string, schema *Schema) Property { return Property{Name: name, Schema: schema} }

func Object(items ...interface{}) *Schema {
	s := &Schema{Type: []string{"object"}}
	var props []Property
	var keywords []Keyword
	for _, item := range items {
		switch v := item.(type) {
		case Property:
			props = append(props, v)
		case Keyword:
			keywords = append(keywords, v)
		}
	}
	if len(props) > 0 {
		s.Properties = make(map[string]*Schema, len(props))
		for _, p := range props {
			s.Properties[p.Name] = p.Schema
		}
	}
	for _, kw := range keywords {
		kw(s)
	}
	return s
}

func String(keywords ...Keyword) *Schema  { return withType("string", keywords) }
func Integer(keywords ...Keyword) *Schema { return withType("integer", keywords) }
func Number(keywords ...Keyword) *Schema  { return withType("number", keywords) }
func Boolean(keywords ...Keyword) *Schema { return withType("boolean", keywords) }
func NullType(keywords ...Keyword) *Schema { return withType("null", keywords) }
func Array(keywords ...Keyword) *Schema   { return withType("array", keywords) }

func withType(t string, keywords []Keyword) *Schema {
	s := &Schema{Type: []string{t}}
	for _, kw := range keywords {
		kw(s)
	}
	return s
}

func Any(keywords ...Keyword) *Schema {
	s := &Schema{}
	for _, kw := range keywords {
		kw(s)
	}
	return s
}

func BoolLeaf(v bool) *Schema { return &Schema{Boolean: &v} }

func Const(v Value) *Schema { return &Schema{HasConst: true, Const: v} }
func Enum(vs ...Value) *Schema { return &Schema{Enum: vs} }

func OneOf(schemas ...*Schema) *Schema { return &Schema{OneOf: schemas} }
func AnyOf(schemas ...*Schema) *Schema { return &Schema{AnyOf: schemas} }
func AllOf(schemas ...*Schema) *Schema { return &Schema{AllOf: schemas} }
func SchemaNot(s *Schema) *Schema       { return &Schema{Not: s} }
func Ref(ref string) *Schema           { return &Schema{Ref: ref} }

type ConditionalSchema struct {
	condition *Schema
	then      *Schema
	otherwise *Schema
}

func If(condition *Schema) *ConditionalSchema { return &ConditionalSchema{condition: condition} }

func (cs *ConditionalSchema) Then(then *Schema) *ConditionalSchema {
	cs.then = then
	return cs
}

func (cs *ConditionalSchema) Else(otherwise *Schema) *Schema {
	cs.otherwise = otherwise
	return cs.ToSchema()
}

func (cs *ConditionalSchema) ToSchema() *Schema {
	return &Schema{If: cs.condition, Then: cs.then, Else: cs.otherwise}
}

// Keyword constructors.

func WithMinLength(n int) Keyword { return func(s *Schema) { s.MinLength = &n } }
func WithMaxLength(n int) Keyword { return func(s *Schema) { s.MaxLength = &n } }
func WithPattern(p string) Keyword { return func(s *Schema) { s.Pattern = &p } }
func WithFormat(f string) Keyword  { return func(s *Schema) { s.Format = &f } }

func WithMinimum(n int64) Keyword {
	return func(s *Schema) { s.Minimum = &Rat{big.NewRat(n, 1)} }
}
func WithMaximum(n int64) Keyword {
	return func(s *Schema) { s.Maximum = &Rat{big.NewRat(n, 1)} }
}
func WithExclusiveMinimum(n int64) Keyword {
	return func(s *Schema) { s.ExclusiveMinimumNum = &Rat{big.NewRat(n, 1)} }
}
func WithExclusiveMaximum(n int64) Keyword {
	return func(s *Schema) { s.ExclusiveMaximumNum = &Rat{big.NewRat(n, 1)} }
}
func WithMultipleOf(n int64) Keyword {
	return func(s *Schema) { s.MultipleOf = &Rat{big.NewRat(n, 1)} }
}

func WithRequired(names ...string) Keyword { return func(s *Schema) { s.Required = names } }
func WithAdditionalProperties(sub *Schema) Keyword {
	return func(s *Schema) { s.AdditionalProperties = sub }
}
func WithPatternProperties(m map[string]*Schema) Keyword {
	return func(s *Schema) { s.PatternProperties = m }
}
func WithMinProperties(n int) Keyword { return func(s *Schema) { s.MinProperties = &n } }
func WithMaxProperties(n int) Keyword { return func(s *Schema) { s.MaxProperties = &n } }
func WithPropertyNames(sub *Schema) Keyword {
	return func(s *Schema) { s.PropertyNames = sub }
}

func WithItems(sub *Schema) Keyword { return func(s *Schema) { s.Items = sub } }
func WithPrefixItems(subs ...*Schema) Keyword {
	return func(s *Schema) { s.PrefixItems = subs }
}
func WithContains(sub *Schema) Keyword { return func(s *Schema) { s.Contains = sub } }
func WithMinItems(n int) Keyword       { return func(s *Schema) { s.MinItems = &n } }
func WithMaxItems(n int) Keyword       { return func(s *Schema) { s.MaxItems = &n } }
func WithUniqueItems() Keyword         { return func(s *Schema) { s.UniqueItems = true } }
