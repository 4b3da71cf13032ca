package jsonsubsume

import (
	"context"
	"time"
)

// Config bounds a single Check call (§5, §6). Each Check creates its own
// Registry, Universe, Compiler and solver context — no state crosses
// instances, matching the teacher's preference for stateless, one-shot
// validator construction per call (schema.go's NewSchema) generalized to
// this package's heavier compile step.
type Config struct {
	TimeoutSeconds     int
	MaxArrayLength     int
	RefResolutionStrategy string // "unfold" is the only supported value; reserved for a future "simulation"
	CustomFormats      CustomFormats
}

// DefaultConfig mirrors §6's defaults.
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds:        30,
		MaxArrayLength:        8,
		RefResolutionStrategy: "unfold",
	}
}

// Result is §6's single return value for Check.
type Result struct {
	Compatible     bool
	Counterexample interface{} // JSON tree, nil unless !Compatible and extraction succeeded
	SolverTimeMs   int64
	ErrorKind      ErrorKind // zero value ("") means no error
	ErrorMessage   string
	ReasonCode     ReasonCode // why the counterexample fails C, best-effort
}

// Check decides L(P) ⊆ L(C) per §4.4: unfold both schemas, compile P and
// ¬C over a shared universe, and ask the solver whether their conjunction
// is satisfiable. Grounded on original_source's subsumption.py top-level
// driver (`solver.add(phi_p); solver.add(Not(phi_c)); solver.check()`),
// reimplemented against this package's own Formula/solver since no SMT
// binding exists in the example corpus (see DESIGN.md).
func Check(producer, consumer []byte, cfg Config) Result {
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	if cfg.MaxArrayLength <= 0 {
		cfg.MaxArrayLength = 8
	}
	if cfg.RefResolutionStrategy == "" {
		cfg.RefResolutionStrategy = "unfold"
	}
	if cfg.RefResolutionStrategy != "unfold" {
		return errResult(ErrorKindUnsupportedFeature, "reference_resolution strategy '"+cfg.RefResolutionStrategy+"' is not supported")
	}

	start := nowFunc()

	pSchema, err := ParseSchema(producer)
	if err != nil {
		return classifyParseErr(err)
	}
	cSchema, err := ParseSchema(consumer)
	if err != nil {
		return classifyParseErr(err)
	}

	pUnfolded, err := NewRegistry(pSchema).Unfold()
	if err != nil {
		return classifyParseErr(err)
	}
	cUnfolded, err := NewRegistry(cSchema).Unfold()
	if err != nil {
		return classifyParseErr(err)
	}

	universe, err := ExtractUniverse(pUnfolded, cUnfolded, cfg.MaxArrayLength)
	if err != nil {
		return classifyParseErr(err)
	}

	compiler := NewCompiler(universe)
	phiP, err := compiler.Compile(pUnfolded)
	if err != nil {
		return classifyParseErr(err)
	}
	phiC, err := compiler.Compile(cUnfolded)
	if err != nil {
		return classifyParseErr(err)
	}
	notPhiC := NNF(negate(phiC))
	query := MkAnd(phiP, notPhiC)

	patterns := compiler.Patterns
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	solverCfg := DefaultSolverConfig()
	solverCfg.Custom = cfg.CustomFormats
	res := Solve(ctx, query, universe, patterns, solverCfg)
	elapsed := nowFunc().Sub(start)

	switch res.Outcome {
	case Unsat:
		return Result{Compatible: true, SolverTimeMs: elapsed.Milliseconds()}
	case Sat:
		w := BuildWitness(res.Witness)
		reason := Diagnose(cUnfolded, res.Witness, patterns, cfg.CustomFormats)
		return Result{
			Compatible:     false,
			Counterexample: w.JSON,
			SolverTimeMs:   elapsed.Milliseconds(),
			ReasonCode:     reason,
		}
	default:
		kind := ErrorKindSolverTimeout
		if ctx.Err() == nil {
			kind = ErrorKindInternal
		}
		return Result{
			Compatible:   false,
			SolverTimeMs: elapsed.Milliseconds(),
			ErrorKind:    kind,
			ErrorMessage: res.Reason,
		}
	}
}

// nowFunc is a var so it can be swapped in tests; defaults to time.Now.
var nowFunc = time.Now

func errResult(kind ErrorKind, msg string) Result {
	return Result{Compatible: false, ErrorKind: kind, ErrorMessage: msg}
}

// classifyParseErr maps a parse/unfold/compile error into a Result,
// distinguishing the error kinds §7 requires callers be able to branch on.
func classifyParseErr(err error) Result {
	kind := classify(err)
	return Result{Compatible: false, ErrorKind: kind, ErrorMessage: err.Error()}
}
