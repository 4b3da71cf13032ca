package jsonsubsume

import "errors"

// ErrorKind is the externally-visible classification from §7: exactly one
// of these (or none) is attached to a Result.
type ErrorKind string

const (
	ErrorKindNone               ErrorKind = ""
	ErrorKindUnsupportedFeature ErrorKind = "unsupported"
	ErrorKindCyclicSchema       ErrorKind = "cyclic"
	ErrorKindSolverTimeout      ErrorKind = "timeout"
	ErrorKindSchemaValidation   ErrorKind = "validation"
	ErrorKindInternal           ErrorKind = "internal"
)

// === Schema validation related errors ===
var (
	// ErrRootNotObjectOrBool is returned when a schema document's root is
	// neither a JSON object nor a boolean.
	ErrRootNotObjectOrBool = errors.New("schema root must be a JSON object or boolean")

	// ErrNonStringPropertyName is returned when a properties/patternProperties
	// map key is not a string (structurally impossible from JSON, but
	// reachable from the constructor API).
	ErrNonStringPropertyName = errors.New("property name must be a string")

	// ErrRequiredNotStringArray is returned when "required" is not an array
	// of strings.
	ErrRequiredNotStringArray = errors.New("required must be an array of strings")

	// ErrMalformedSchema is a catch-all for structurally invalid schema
	// documents caught during parsing.
	ErrMalformedSchema = errors.New("malformed schema document")
)

// === Reference resolution related errors ===
var (
	// ErrExternalReference is returned when a $ref points outside the
	// supported #, #/$defs/*, #/definitions/* forms.
	ErrExternalReference = errors.New("external $ref URIs are not supported")

	// ErrUnresolvedReference is returned when a $ref names a definition
	// that does not exist in the registry.
	ErrUnresolvedReference = errors.New("$ref does not resolve to a known definition")

	// ErrResidualReference is returned when a $ref survives unfolding and
	// reaches the compiler — an internal invariant violation.
	ErrResidualReference = errors.New("residual $ref reached the compiler")
)

// === Unsupported feature related errors ===
var (
	// ErrUnknownType is returned for a "type" value outside the seven
	// JSON Schema type names.
	ErrUnknownType = errors.New("unknown type name")

	// ErrUnsupportedKeyword is returned for a validation-bearing keyword
	// outside the §4.2 supported set.
	ErrUnsupportedKeyword = errors.New("unsupported validation keyword")

	// ErrUnsupportedPattern is returned when the regex translator cannot
	// prove a pattern safe to approximate.
	ErrUnsupportedPattern = errors.New("regex pattern not supported")

	// ErrRecursionTooDeep is returned when compilation exceeds the
	// configured depth bound.
	ErrRecursionTooDeep = errors.New("schema nesting exceeds the compile-depth bound")

	// ErrArrayTooLarge is returned when a configured max-array-length
	// bound is non-positive or unreasonably large.
	ErrArrayTooLarge = errors.New("max array length out of range")
)

// === Solver related errors ===
var (
	// ErrSolverTimeout is returned when the bounded search exceeds its
	// wall-clock budget without resolving satisfiability.
	ErrSolverTimeout = errors.New("solver did not terminate within the configured timeout")

	// ErrSolverInterrupted is returned when a query is canceled via its
	// context before the search concludes.
	ErrSolverInterrupted = errors.New("solver interrupted")
)

// === Internal invariant errors ===
var (
	// ErrSchemaIsNil is returned when a nil *Schema reaches a function
	// that requires a value.
	ErrSchemaIsNil = errors.New("schema is nil")

	// ErrModelIncomplete is returned when witness extraction cannot
	// reduce an inconsistency to a structural placeholder.
	ErrModelIncomplete = errors.New("solver model incomplete during witness extraction")

	// ErrInvariantViolated is a catch-all for conditions the engine
	// asserts can never occur for conforming inputs.
	ErrInvariantViolated = errors.New("internal invariant violated")
)

// === Numeric conversion related errors (kept from the teacher's Rat) ===
var (
	// ErrUnsupportedRatType is returned when a JSON scalar can't be
	// converted to *big.Rat.
	ErrUnsupportedRatType = errors.New("unsupported numeric literal type")

	// ErrRatConversion is returned when a numeric literal fails to parse
	// as a rational.
	ErrRatConversion = errors.New("numeric literal conversion failed")
)

// classify maps an internal error to the externally-visible ErrorKind the
// engine attaches to a Result (§7).
func classify(err error) ErrorKind {
	var cyclic *CyclicSchemaError
	var unsupported *UnsupportedFeatureError
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.As(err, &cyclic):
		return ErrorKindCyclicSchema
	case errors.As(err, &unsupported):
		return ErrorKindUnsupportedFeature
	case errors.Is(err, ErrExternalReference),
		errors.Is(err, ErrUnresolvedReference),
		errors.Is(err, ErrUnknownType),
		errors.Is(err, ErrUnsupportedKeyword),
		errors.Is(err, ErrUnsupportedPattern),
		errors.Is(err, ErrRecursionTooDeep):
		return ErrorKindUnsupportedFeature
	case errors.Is(err, ErrSolverTimeout), errors.Is(err, ErrSolverInterrupted):
		return ErrorKindSolverTimeout
	case errors.Is(err, ErrRootNotObjectOrBool),
		errors.Is(err, ErrNonStringPropertyName),
		errors.Is(err, ErrRequiredNotStringArray),
		errors.Is(err, ErrMalformedSchema),
		errors.Is(err, ErrArrayTooLarge):
		return ErrorKindSchemaValidation
	case errors.Is(err, ErrResidualReference),
		errors.Is(err, ErrSchemaIsNil),
		errors.Is(err, ErrModelIncomplete),
		errors.Is(err, ErrInvariantViolated):
		return ErrorKindInternal
	default:
		return ErrorKindInternal
	}
}

// CyclicSchemaError is the distinguished error class for §4.1/§7's
// CyclicSchema error kind. It carries the offending strongly connected
// components so the caller can report exactly which definitions cycle.
type CyclicSchemaError struct {
	SCCs [][]string
}

func (e *CyclicSchemaError) Error() string {
	if len(e.SCCs) == 0 {
		return "cyclic schema reference detected"
	}
	msg := "cyclic schema reference detected in: "
	for i, scc := range e.SCCs {
		if i > 0 {
			msg += "; "
		}
		for j, uri := range scc {
			if j > 0 {
				msg += " -> "
			}
			msg += uri
		}
	}
	return msg
}

// UnsupportedFeatureError names the specific keyword, type, or pattern a
// schema used that this compiler does not support.
type UnsupportedFeatureError struct {
	Feature string
	Detail  string
}

func (e *UnsupportedFeatureError) Error() string {
	if e.Detail == "" {
		return "unsupported feature: " + e.Feature
	}
	return "unsupported feature: " + e.Feature + ": " + e.Detail
}

func (e *UnsupportedFeatureError) Unwrap() error { return ErrUnsupportedKeyword }
