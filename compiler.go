package jsonsubsume

import "math/big"

// Compiler translates a $ref-free Schema into a Formula over the JSON
// sort, closed over a shared Universe (§4.2). Grounded on
// original_source's schema_compiler.py (compile_schema dispatch,
// compile_type_constraint, compile_const_constraint, compile_all_of/
// any_of/one_of/not) and on the teacher's per-keyword-file layout
// (properties.go, items.go, oneOf.go, ...), which this repo mirrors one
// compile function per keyword group instead of one per validator type.
type Compiler struct {
	Universe *Universe
	Patterns *PatternSet
	depth    int
}

const maxCompileDepth = 500

func NewCompiler(u *Universe) *Compiler {
	return &Compiler{Universe: u, Patterns: NewPatternSet()}
}

// Compile turns s into a Formula. s must already be $ref-free (Registry.Unfold).
func (c *Compiler) Compile(s *Schema) (Formula, error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > maxCompileDepth {
		return nil, ErrRecursionTooDeep
	}
	if s == nil {
		return True{}, nil
	}
	if s.IsBooleanLeaf() {
		if *s.Boolean {
			return True{}, nil
		}
		return False{}, nil
	}
	if s.Ref != "" {
		return nil, ErrResidualReference
	}

	parts := make([]Formula, 0, 8)

	if len(s.Type) > 0 {
		f, err := c.compileType(s.Type)
		if err != nil {
			return nil, err
		}
		parts = append(parts, f)
	}
	if s.HasConst {
		parts = append(parts, ConstEq{Value: s.Const})
	}
	if len(s.Enum) > 0 {
		parts = append(parts, EnumIn{Values: s.Enum})
	}

	if f, err := c.compileComposition(s); err != nil {
		return nil, err
	} else if f != nil {
		parts = append(parts, f)
	}
	if f, err := c.compileConditional(s); err != nil {
		return nil, err
	} else if f != nil {
		parts = append(parts, f)
	}

	strF, err := c.compileString(s)
	if err != nil {
		return nil, err
	}
	if strF != nil {
		parts = append(parts, Implies(TypeIs{Tag: TagStr}, strF))
	}

	numF, err := c.compileNumeric(s)
	if err != nil {
		return nil, err
	}
	if numF != nil {
		parts = append(parts, Implies(MkOr(TypeIs{Tag: TagInt}, TypeIs{Tag: TagReal}), numF))
	}

	arrF, err := c.compileArray(s)
	if err != nil {
		return nil, err
	}
	if arrF != nil {
		parts = append(parts, Implies(TypeIs{Tag: TagArr}, arrF))
	}

	objF, err := c.compileObject(s)
	if err != nil {
		return nil, err
	}
	if objF != nil {
		parts = append(parts, Implies(TypeIs{Tag: TagObj}, objF))
	}

	return NNF(MkAnd(parts...)), nil
}

// compileType maps the "type" keyword's names to the theory's tag
// recognizers, folding "integer"/"number" into TagInt/TagReal per §3's
// note that JSON Schema's "number" matches both.
func (c *Compiler) compileType(types []string) (Formula, error) {
	args := make([]Formula, 0, len(types)+1)
	for _, t := range types {
		switch t {
		case "null":
			args = append(args, TypeIs{Tag: TagNull})
		case "boolean":
			args = append(args, TypeIs{Tag: TagBool})
		case "integer":
			args = append(args, TypeIs{Tag: TagInt})
		case "number":
			args = append(args, TypeIs{Tag: TagInt}, TypeIs{Tag: TagReal})
		case "string":
			args = append(args, TypeIs{Tag: TagStr})
		case "array":
			args = append(args, TypeIs{Tag: TagArr})
		case "object":
			args = append(args, TypeIs{Tag: TagObj})
		default:
			return nil, ErrUnknownType
		}
	}
	return MkOr(args...), nil
}

func (c *Compiler) compileComposition(s *Schema) (Formula, error) {
	var parts []Formula
	if len(s.AllOf) > 0 {
		args := make([]Formula, len(s.AllOf))
		for i, sub := range s.AllOf {
			f, err := c.Compile(sub)
			if err != nil {
				return nil, err
			}
			args[i] = f
		}
		parts = append(parts, MkAnd(args...))
	}
	if len(s.AnyOf) > 0 {
		args := make([]Formula, len(s.AnyOf))
		for i, sub := range s.AnyOf {
			f, err := c.Compile(sub)
			if err != nil {
				return nil, err
			}
			args[i] = f
		}
		parts = append(parts, MkOr(args...))
	}
	if len(s.OneOf) > 0 {
		f, err := c.compileOneOf(s.OneOf)
		if err != nil {
			return nil, err
		}
		parts = append(parts, f)
	}
	if s.Not != nil {
		f, err := c.Compile(s.Not)
		if err != nil {
			return nil, err
		}
		parts = append(parts, NNF(Not{Arg: f}))
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return MkAnd(parts...), nil
}

// compileOneOf desugars "exactly one of F_1..F_n holds" into a disjunction
// of "F_i and not any other F_j", avoiding the need for a pseudo-boolean
// exactly-one primitive in the solver (§4.2). Grounded on
// schema_compiler.py's compile_one_of, which uses z3's PbEq([...],1); this
// repo's solver has no pseudo-boolean support, so the desugaring happens
// here instead of at solve time.
func (c *Compiler) compileOneOf(schemas []*Schema) (Formula, error) {
	compiled := make([]Formula, len(schemas))
	for i, sub := range schemas {
		f, err := c.Compile(sub)
		if err != nil {
			return nil, err
		}
		compiled[i] = f
	}
	disjuncts := make([]Formula, len(compiled))
	for i := range compiled {
		others := make([]Formula, 0, len(compiled)-1)
		for j := range compiled {
			if i == j {
				continue
			}
			others = append(others, NNF(Not{Arg: compiled[j]}))
		}
		disjuncts[i] = MkAnd(append([]Formula{compiled[i]}, others...)...)
	}
	return MkOr(disjuncts...), nil
}

func (c *Compiler) compileConditional(s *Schema) (Formula, error) {
	if s.If == nil {
		var parts []Formula
		for _, branch := range []*Schema{s.Then, s.Else} {
			if branch == nil {
				continue
			}
			f, err := c.Compile(branch)
			if err != nil {
				return nil, err
			}
			parts = append(parts, f)
		}
		if len(parts) == 0 {
			return nil, nil
		}
		return MkAnd(parts...), nil
	}
	ifF, err := c.Compile(s.If)
	if err != nil {
		return nil, err
	}
	var thenF, elseF Formula = True{}, True{}
	if s.Then != nil {
		if thenF, err = c.Compile(s.Then); err != nil {
			return nil, err
		}
	}
	if s.Else != nil {
		if elseF, err = c.Compile(s.Else); err != nil {
			return nil, err
		}
	}
	return MkAnd(Implies(ifF, thenF), Implies(NNF(Not{Arg: ifF}), elseF)), nil
}

func (c *Compiler) compileString(s *Schema) (Formula, error) {
	var parts []Formula
	if s.MinLength != nil {
		parts = append(parts, StrLenCmp{Op: ">=", Bound: *s.MinLength})
	}
	if s.MaxLength != nil {
		parts = append(parts, StrLenCmp{Op: "<=", Bound: *s.MaxLength})
	}
	if s.Pattern != nil {
		translated, err := TranslatePattern(*s.Pattern)
		if err != nil {
			return nil, err
		}
		id, err := c.Patterns.Intern(translated)
		if err != nil {
			return nil, err
		}
		parts = append(parts, StrPatternIn{PatternID: id})
	}
	if s.Format != nil {
		if !isKnownFormat(*s.Format) {
			return nil, &UnsupportedFeatureError{Feature: "format", Detail: *s.Format}
		}
		parts = append(parts, StrFormatIn{Format: *s.Format})
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return MkAnd(parts...), nil
}

// isKnownFormat lists the formats witness.go/explain.go know how to
// manufacture or check a literal value against (§9's format subset).
func isKnownFormat(f string) bool {
	switch f {
	case "date-time", "date", "time", "email", "uuid", "ipv4", "ipv6", "uri":
		return true
	}
	return false
}

func (c *Compiler) compileNumeric(s *Schema) (Formula, error) {
	var parts []Formula
	if s.Minimum != nil {
		parts = append(parts, NumCmp{Op: ">=", Bound: s.Minimum.Rat})
	}
	if s.Maximum != nil {
		parts = append(parts, NumCmp{Op: "<=", Bound: s.Maximum.Rat})
	}
	if s.ExclusiveMinimumNum != nil {
		parts = append(parts, NumCmp{Op: ">", Bound: s.ExclusiveMinimumNum.Rat})
	} else if s.ExclusiveMinimumBool != nil && *s.ExclusiveMinimumBool && s.Minimum != nil {
		// Draft-7 boolean form rewrites minimum itself to strict (§9).
		for i, p := range parts {
			if cmp, ok := p.(NumCmp); ok && cmp.Op == ">=" {
				parts[i] = NumCmp{Op: ">", Bound: cmp.Bound}
			}
		}
	}
	if s.ExclusiveMaximumNum != nil {
		parts = append(parts, NumCmp{Op: "<", Bound: s.ExclusiveMaximumNum.Rat})
	} else if s.ExclusiveMaximumBool != nil && *s.ExclusiveMaximumBool && s.Maximum != nil {
		for i, p := range parts {
			if cmp, ok := p.(NumCmp); ok && cmp.Op == "<=" {
				parts[i] = NumCmp{Op: "<", Bound: cmp.Bound}
			}
		}
	}
	if s.MultipleOf != nil {
		if s.MultipleOf.Sign() == 0 {
			return nil, ErrMalformedSchema
		}
		parts = append(parts, NumMultipleOf{Of: s.MultipleOf.Rat})
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return MkAnd(parts...), nil
}

func (c *Compiler) compileArray(s *Schema) (Formula, error) {
	var parts []Formula
	lmax := c.Universe.LMax

	for i, sub := range s.PrefixItems {
		if i >= lmax {
			break
		}
		f, err := c.Compile(sub)
		if err != nil {
			return nil, err
		}
		parts = append(parts, ArrElem{Index: i, Arg: f})
	}
	if s.Items != nil {
		f, err := c.Compile(s.Items)
		if err != nil {
			return nil, err
		}
		for i := len(s.PrefixItems); i < lmax; i++ {
			parts = append(parts, ArrElem{Index: i, Arg: f})
		}
	}
	if s.Contains != nil {
		f, err := c.Compile(s.Contains)
		if err != nil {
			return nil, err
		}
		parts = append(parts, ArrContains{Arg: f})
	}
	if s.MinItems != nil {
		parts = append(parts, ArrLenCmp{Op: ">=", Bound: *s.MinItems})
	}
	if s.MaxItems != nil {
		parts = append(parts, ArrLenCmp{Op: "<=", Bound: *s.MaxItems})
	}
	if s.UniqueItems {
		parts = append(parts, ArrUnique{UpTo: lmax})
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return MkAnd(parts...), nil
}

func (c *Compiler) compileObject(s *Schema) (Formula, error) {
	var parts []Formula
	known := map[string]bool{}

	for key, sub := range s.Properties {
		known[key] = true
		f, err := c.Compile(sub)
		if err != nil {
			return nil, err
		}
		parts = append(parts, ObjVal{Key: key, Arg: f})
	}
	for pattern, sub := range s.PatternProperties {
		translated, err := TranslatePattern(pattern)
		if err != nil {
			return nil, err
		}
		id, err := c.Patterns.Intern(translated)
		if err != nil {
			return nil, err
		}
		f, err := c.Compile(sub)
		if err != nil {
			return nil, err
		}
		for _, key := range c.Universe.Keys {
			if c.Patterns.MatchString(id, key) {
				parts = append(parts, ObjVal{Key: key, Arg: f})
			}
		}
		parts = append(parts, ObjPatternGuard{PatternID: id, Arg: f})
	}
	if s.AdditionalProperties != nil {
		if s.AdditionalProperties.IsBooleanLeaf() && !*s.AdditionalProperties.Boolean {
			parts = append(parts, ObjAdditionalGuard{Known: known, Closed: true})
		} else {
			f, err := c.Compile(s.AdditionalProperties)
			if err != nil {
				return nil, err
			}
			parts = append(parts, ObjAdditionalGuard{Known: known, Arg: f})
		}
	}
	for _, key := range s.Required {
		parts = append(parts, ObjHas{Key: key})
	}
	for key, names := range s.DependentRequired {
		var reqs []Formula
		for _, n := range names {
			reqs = append(reqs, ObjHas{Key: n})
		}
		parts = append(parts, Implies(ObjHas{Key: key}, MkAnd(reqs...)))
	}
	for key, sub := range s.DependentSchemas {
		f, err := c.Compile(sub)
		if err != nil {
			return nil, err
		}
		parts = append(parts, Implies(ObjHas{Key: key}, f))
	}
	if s.MinProperties != nil {
		parts = append(parts, ObjSizeCmp{Op: ">=", Bound: *s.MinProperties})
	}
	if s.MaxProperties != nil {
		parts = append(parts, ObjSizeCmp{Op: "<=", Bound: *s.MaxProperties})
	}
	if s.PropertyNames != nil {
		f, err := c.Compile(s.PropertyNames)
		if err != nil {
			return nil, err
		}
		parts = append(parts, ObjPropNames{Arg: f})
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return MkAnd(parts...), nil
}

// ratToFloatSafe returns a float approximation of r (0 for nil), for
// display only, never for decision-making. No file in this package calls it.
func ratToFloatSafe(r *big.Rat) float64 {
	if r == nil {
		return 0
	}
	f, _ := r.Float64()
	return f
}
