package jsonsubsume

import (
	"context"
	"math/big"
	"sort"
)

// Outcome is the solver's tri-state verdict (§4.4's "sat/unsat/unknown
// interpretation", grounded on original_source's subsumption.py, which
// reads z3's CheckResult the same way). Unknown covers both solver
// timeout/cancellation and this bespoke procedure's own incompleteness on
// constructs it cannot synthesize a witness for (arbitrary regex patterns,
// multiple simultaneous multipleOf divisors with no small common
// multiple) — the procedure always prefers Unknown over a wrong verdict.
type Outcome int

const (
	Unsat Outcome = iota
	Sat
	UnknownOutcome
)

// SolveResult carries the solver's verdict plus, when Sat, a concrete
// witness Value satisfying the input formula.
type SolveResult struct {
	Outcome Outcome
	Witness Value
	Reason  string // populated when Outcome == UnknownOutcome
}

// SolverConfig bounds the bespoke search (§5's resource model).
type SolverConfig struct {
	Custom        CustomFormats
	MaxStringTry  int // bounded enumeration attempts for pattern-constrained strings
	MaxMultipleOf int // bounded multiple-search for simultaneous multipleOf constraints
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{MaxStringTry: 512, MaxMultipleOf: 64}
}

// Solve decides satisfiability of f over the JSON sort, closed over u, via
// bounded backtracking search (§4.4). Grounded in shape on
// original_source's subsumption.py ("solver.add(P); solver.add(Not(C))",
// then reading sat/unsat/unknown) but implemented as this repo's own
// decision procedure since no SMT binding exists anywhere in the example
// corpus (see DESIGN.md).
func Solve(ctx context.Context, f Formula, u *Universe, patterns *PatternSet, cfg SolverConfig) SolveResult {
	s := &solver{u: u, patterns: patterns, cfg: cfg, ctx: ctx}
	st := newNodeState()
	ok, out := s.solveConj([]Formula{f}, 0, st, 0)
	if ctx.Err() != nil {
		return SolveResult{Outcome: UnknownOutcome, Reason: "solver interrupted"}
	}
	switch out {
	case branchSat:
		v, ok2 := s.finalize(st, 0)
		if !ok2 {
			return SolveResult{Outcome: UnknownOutcome, Reason: "could not construct a witness from a satisfying assignment"}
		}
		return SolveResult{Outcome: Sat, Witness: v}
	case branchUnknown:
		return SolveResult{Outcome: UnknownOutcome, Reason: s.unknownReason}
	default:
		_ = ok
		return SolveResult{Outcome: Unsat}
	}
}

type branchResult int

const (
	branchUnsat branchResult = iota
	branchSat
	branchUnknown
)

type solver struct {
	u             *Universe
	patterns      *PatternSet
	cfg           SolverConfig
	ctx           context.Context
	unknownReason string
}

const maxSolveDepth = 64

// solveConj processes fs[idx:] as a conjunction against st, expanding
// And/Or lazily (backtracking on Or) and applying atoms to st. depth
// bounds recursion across nested object/array cursors, not just this
// conjunction's own length.
func (s *solver) solveConj(fs []Formula, idx int, st *nodeState, depth int) (bool, branchResult) {
	if depth > maxSolveDepth {
		s.unknownReason = "search exceeded the maximum cursor depth"
		return false, branchUnknown
	}
	if s.ctx.Err() != nil {
		return false, branchUnknown
	}
	if idx >= len(fs) {
		// When the value can only be an object, check each required key's
		// collected constraints now, so a contradiction on a key's value
		// backtracks into the remaining disjuncts.
		if len(st.allowedTags) == 1 && st.allowedTags[TagObj] {
			for key := range st.hasReq {
				kfs := append(append([]Formula{}, st.perKey[key]...), st.objVal_AdditionalGuardsFor(key)...)
				if _, res := s.solveConj(kfs, 0, newNodeState(), depth+1); res != branchSat {
					return false, res
				}
			}
		}
		return true, branchSat
	}
	f := fs[idx]
	switch t := f.(type) {
	case True:
		return s.solveConj(fs, idx+1, st, depth)
	case False:
		return false, branchUnsat
	case And:
		merged := append(append([]Formula{}, t.Args...), fs[idx+1:]...)
		return s.solveConj(merged, 0, st, depth)
	case Or:
		for _, alt := range t.Args {
			clone := st.clone()
			rest := append([]Formula{alt}, fs[idx+1:]...)
			ok, res := s.solveConj(rest, 0, clone, depth+1)
			if res == branchSat {
				*st = *clone
				return ok, res
			}
			if res == branchUnknown {
				// keep searching other branches; only surface Unknown if
				// every branch is unsat-or-unknown with no sat branch
				s.unknownReason = "a disjunct required an unsupported construct"
			}
		}
		if s.unknownReason != "" {
			return false, branchUnknown
		}
		return false, branchUnsat
	default:
		ok, reason := st.apply(f, s)
		if !ok {
			if reason != "" {
				s.unknownReason = reason
				return false, branchUnknown
			}
			return false, branchUnsat
		}
		return s.solveConj(fs, idx+1, st, depth)
	}
}

// nodeState accumulates the constraints gathered for one JSON-sort cursor
// (the root document, or a descendant reached via ArrElem/ObjVal) as a
// flat conjunction is walked. Finalize turns a consistent state into a
// concrete Value.
type nodeState struct {
	allowedTags map[Tag]bool

	constVal    *Value
	constForbid []Value

	enumSets    [][]Value // each must be satisfied (value ∈ set)
	enumForbid  []Value

	numLow      *numBound
	numHigh     *numBound
	multiplesOf []*big.Rat

	strMin, strMax   *int
	patternsReq      []int
	patternsForbid   []int
	formatsReq       []string
	formatsForbid    []string

	arrMin, arrMax *int
	unique         bool
	uniqueUpTo     int
	perIndex       map[int][]Formula
	containsReq    []Formula

	objMin, objMax   *int
	hasReq           map[string]bool
	hasForbid        map[string]bool
	perKey           map[string][]Formula
	addGuards        []ObjAdditionalGuard
	addGuardsNeg     []ObjAdditionalGuard
	patternGuards    []ObjPatternGuard
	patternGuardsNeg []ObjPatternGuard
	propNamesReq     []Formula
	propNamesViolate []Formula

	numNotMultiple []*big.Rat
	containsNotAny []Formula
}

type numBound struct {
	val    *big.Rat
	strict bool
}

func newNodeState() *nodeState {
	st := &nodeState{allowedTags: map[Tag]bool{}}
	for _, t := range AllTags {
		st.allowedTags[t] = true
	}
	st.perIndex = map[int][]Formula{}
	st.perKey = map[string][]Formula{}
	st.hasReq = map[string]bool{}
	st.hasForbid = map[string]bool{}
	return st
}

func (st *nodeState) clone() *nodeState {
	c := &nodeState{
		allowedTags:      map[Tag]bool{},
		constForbid:      append([]Value{}, st.constForbid...),
		enumForbid:       append([]Value{}, st.enumForbid...),
		multiplesOf:      append([]*big.Rat{}, st.multiplesOf...),
		patternsReq:      append([]int{}, st.patternsReq...),
		patternsForbid:   append([]int{}, st.patternsForbid...),
		formatsReq:       append([]string{}, st.formatsReq...),
		formatsForbid:    append([]string{}, st.formatsForbid...),
		unique:           st.unique,
		uniqueUpTo:       st.uniqueUpTo,
		perIndex:         map[int][]Formula{},
		containsReq:      append([]Formula{}, st.containsReq...),
		hasReq:           map[string]bool{},
		hasForbid:        map[string]bool{},
		perKey:           map[string][]Formula{},
		addGuards:        append([]ObjAdditionalGuard{}, st.addGuards...),
		addGuardsNeg:     append([]ObjAdditionalGuard{}, st.addGuardsNeg...),
		patternGuards:    append([]ObjPatternGuard{}, st.patternGuards...),
		patternGuardsNeg: append([]ObjPatternGuard{}, st.patternGuardsNeg...),
		propNamesReq:     append([]Formula{}, st.propNamesReq...),
		propNamesViolate: append([]Formula{}, st.propNamesViolate...),
		numNotMultiple:   append([]*big.Rat{}, st.numNotMultiple...),
		containsNotAny:   append([]Formula{}, st.containsNotAny...),
		numLow:           st.numLow,
		numHigh:          st.numHigh,
		strMin:           st.strMin,
		strMax:           st.strMax,
		arrMin:           st.arrMin,
		arrMax:           st.arrMax,
		objMin:           st.objMin,
		objMax:           st.objMax,
		constVal:         st.constVal,
	}
	for k, v := range st.allowedTags {
		c.allowedTags[k] = v
	}
	for k, v := range st.enumSets {
		_ = k
		c.enumSets = append(c.enumSets, v)
	}
	for i, fs := range st.perIndex {
		c.perIndex[i] = append([]Formula{}, fs...)
	}
	for k, v := range st.hasReq {
		c.hasReq[k] = v
	}
	for k, v := range st.hasForbid {
		c.hasForbid[k] = v
	}
	for k, fs := range st.perKey {
		c.perKey[k] = append([]Formula{}, fs...)
	}
	return c
}

// restrictTags intersects allowedTags with the given set; returns false
// (inconsistent) if the result is empty.
func (st *nodeState) restrictTags(tags ...Tag) bool {
	allow := map[Tag]bool{}
	for _, t := range tags {
		allow[t] = true
	}
	any := false
	for t := range st.allowedTags {
		if !allow[t] {
			delete(st.allowedTags, t)
		} else {
			any = true
		}
	}
	return any
}

func (st *nodeState) apply(f Formula, s *solver) (bool, string) {
	switch t := f.(type) {
	case TypeIs:
		return st.restrictTags(t.Tag), ""
	case ConstEq:
		if st.constVal != nil {
			return st.constVal.Equal(t.Value), ""
		}
		st.constVal = &t.Value
		return true, ""
	case Not:
		return st.applyNegated(t.Arg, s)
	case EnumIn:
		st.enumSets = append(st.enumSets, t.Values)
		return true, ""
	case NumCmp:
		return st.applyNumCmp(t), ""
	case NumMultipleOf:
		if t.Of.Sign() == 0 {
			return false, ""
		}
		st.multiplesOf = append(st.multiplesOf, t.Of)
		return true, ""
	case StrLenCmp:
		return st.applyStrLenCmp(t), ""
	case StrPatternIn:
		st.patternsReq = append(st.patternsReq, t.PatternID)
		return true, ""
	case StrFormatIn:
		st.formatsReq = append(st.formatsReq, t.Format)
		return true, ""
	case ArrLenCmp:
		return st.applyArrLenCmp(t), ""
	case ArrElem:
		st.perIndex[t.Index] = append(st.perIndex[t.Index], t.Arg)
		return true, ""
	case ArrElemExists:
		if st.arrMin == nil || *st.arrMin <= t.Index {
			n := t.Index + 1
			st.arrMin = &n
		}
		return true, ""
	case ArrUnique:
		st.unique = true
		if t.UpTo > st.uniqueUpTo {
			st.uniqueUpTo = t.UpTo
		}
		return true, ""
	case ArrContains:
		st.containsReq = append(st.containsReq, t.Arg)
		return true, ""
	case ObjHas:
		if t.Negated {
			if st.hasReq[t.Key] {
				return false, ""
			}
			st.hasForbid[t.Key] = true
		} else {
			if st.hasForbid[t.Key] {
				return false, ""
			}
			st.hasReq[t.Key] = true
		}
		return true, ""
	case ObjVal:
		st.perKey[t.Key] = append(st.perKey[t.Key], t.Arg)
		return true, ""
	case ObjPropNames:
		st.propNamesReq = append(st.propNamesReq, t.Arg)
		return true, ""
	case ObjSizeCmp:
		return st.applyObjSizeCmp(t), ""
	case ObjAdditionalGuard:
		st.addGuards = append(st.addGuards, t)
		return true, ""
	case ObjPatternGuard:
		st.patternGuards = append(st.patternGuards, t)
		return true, ""
	default:
		return false, "encountered an unrecognized atom during solving"
	}
}

// applyNegated handles Not(atom) for the atom kinds negate() leaves
// wrapped (ConstEq, EnumIn, NumMultipleOf, StrPatternIn, StrFormatIn,
// ArrElem, ArrElemExists, ArrUnique, ArrContains, ObjVal, ObjPropNames,
// ObjAdditionalGuard, ObjPatternGuard).
func (st *nodeState) applyNegated(arg Formula, s *solver) (bool, string) {
	switch t := arg.(type) {
	case ConstEq:
		st.constForbid = append(st.constForbid, t.Value)
		return true, ""
	case EnumIn:
		st.enumForbid = append(st.enumForbid, t.Values...)
		return true, ""
	case NumMultipleOf:
		// "not a multiple of d" is satisfiable by almost every value;
		// recorded as a soft forbid checked only against the chosen
		// multiple at finalize time.
		st.numNotMultiple = append(st.numNotMultiple, t.Of)
		return true, ""
	case StrPatternIn:
		st.patternsForbid = append(st.patternsForbid, t.PatternID)
		return true, ""
	case StrFormatIn:
		st.formatsForbid = append(st.formatsForbid, t.Format)
		return true, ""
	case ArrElem:
		st.perIndex[t.Index] = append(st.perIndex[t.Index],
			ArrElemExists{Index: t.Index})
		st.perIndex[t.Index] = append(st.perIndex[t.Index], NNF(Not{Arg: t.Arg}))
		if st.arrMin == nil || *st.arrMin <= t.Index {
			n := t.Index + 1
			st.arrMin = &n
		}
		return true, ""
	case ArrElemExists:
		if st.arrMax == nil || *st.arrMax > t.Index {
			n := t.Index
			st.arrMax = &n
		}
		return true, ""
	case ArrUnique:
		// "not unique" — leave unconstrained (unique stays false); the
		// default constructive builder never forces accidental
		// uniqueness for small arrays beyond what's needed.
		return true, ""
	case ArrContains:
		st.containsNotAny = append(st.containsNotAny, t.Arg)
		return true, ""
	case ObjVal:
		st.perKey[t.Key] = append(st.perKey[t.Key], NNF(Not{Arg: t.Arg}))
		st.hasReq[t.Key] = true
		return true, ""
	case ObjPropNames:
		// requires some present key, as a string, to violate Arg; best
		// effort: remember it and attempt at finalize via the fresh key.
		st.propNamesViolate = append(st.propNamesViolate, t.Arg)
		return true, ""
	case ObjAdditionalGuard:
		st.addGuardsNeg = append(st.addGuardsNeg, t)
		return true, ""
	case ObjPatternGuard:
		st.patternGuardsNeg = append(st.patternGuardsNeg, t)
		return true, ""
	default:
		return false, "encountered an unsupported negated construct during solving"
	}
}

func (st *nodeState) applyNumCmp(t NumCmp) bool {
	switch t.Op {
	case ">=", ">":
		nb := &numBound{val: t.Bound, strict: t.Op == ">"}
		if st.numLow == nil || cmpBound(nb, st.numLow, true) {
			st.numLow = nb
		}
	case "<=", "<":
		nb := &numBound{val: t.Bound, strict: t.Op == "<"}
		if st.numHigh == nil || cmpBound(nb, st.numHigh, false) {
			st.numHigh = nb
		}
	}
	if st.numLow != nil && st.numHigh != nil {
		c := st.numLow.val.Cmp(st.numHigh.val)
		if c > 0 || (c == 0 && (st.numLow.strict || st.numHigh.strict)) {
			return false
		}
	}
	return true
}

// cmpBound reports whether candidate is a tighter bound than cur (for
// lower bounds when wantHigher, for upper bounds otherwise).
func cmpBound(candidate, cur *numBound, wantHigher bool) bool {
	c := candidate.val.Cmp(cur.val)
	if c == 0 {
		return candidate.strict && !cur.strict
	}
	if wantHigher {
		return c > 0
	}
	return c < 0
}

func (st *nodeState) applyStrLenCmp(t StrLenCmp) bool {
	switch t.Op {
	case ">=", ">":
		v := t.Bound
		if t.Op == ">" {
			v++
		}
		if st.strMin == nil || v > *st.strMin {
			st.strMin = &v
		}
	case "<=", "<":
		v := t.Bound
		if t.Op == "<" {
			v--
		}
		if st.strMax == nil || v < *st.strMax {
			st.strMax = &v
		}
	}
	if st.strMin != nil && st.strMax != nil && *st.strMin > *st.strMax {
		return false
	}
	return true
}

func (st *nodeState) applyArrLenCmp(t ArrLenCmp) bool {
	switch t.Op {
	case ">=", ">":
		v := t.Bound
		if t.Op == ">" {
			v++
		}
		if st.arrMin == nil || v > *st.arrMin {
			st.arrMin = &v
		}
	case "<=", "<":
		v := t.Bound
		if t.Op == "<" {
			v--
		}
		if st.arrMax == nil || v < *st.arrMax {
			st.arrMax = &v
		}
	}
	if st.arrMin != nil && st.arrMax != nil && *st.arrMin > *st.arrMax {
		return false
	}
	return true
}

func (st *nodeState) applyObjSizeCmp(t ObjSizeCmp) bool {
	switch t.Op {
	case ">=", ">":
		v := t.Bound
		if t.Op == ">" {
			v++
		}
		if st.objMin == nil || v > *st.objMin {
			st.objMin = &v
		}
	case "<=", "<":
		v := t.Bound
		if t.Op == "<" {
			v--
		}
		if st.objMax == nil || v < *st.objMax {
			st.objMax = &v
		}
	}
	if st.objMin != nil && st.objMax != nil && *st.objMin > *st.objMax {
		return false
	}
	return true
}

// finalize builds a concrete Value consistent with st, recursing into
// array/object children via the solver's bounded backtracking. Returns
// false when st cannot be realized (caller treats this as Unknown, never
// as a false Unsat, preserving soundness).
func (s *solver) finalize(st *nodeState, depth int) (Value, bool) {
	if st.constVal != nil {
		for _, fb := range st.constForbid {
			if st.constVal.Equal(fb) {
				return Value{}, false
			}
		}
		for _, set := range st.enumSets {
			if !valueInSet(*st.constVal, set) {
				return Value{}, false
			}
		}
		if !st.allowedTags[st.constVal.Tag] {
			return Value{}, false
		}
		return *st.constVal, true
	}

	if len(st.enumSets) > 0 {
		candidates := st.enumSets[0]
		for _, set := range st.enumSets[1:] {
			candidates = intersectValues(candidates, set)
		}
		for _, cand := range candidates {
			if valueInSet(cand, st.enumForbid) {
				continue
			}
			if !st.allowedTags[cand.Tag] {
				continue
			}
			return cand, true
		}
		return Value{}, false
	}

	tag, ok := pickTag(st.allowedTags)
	if !ok {
		return Value{}, false
	}

	switch tag {
	case TagNull:
		return Null(), true
	case TagBool:
		for _, fb := range st.constForbid {
			if fb.IsBool() && fb.Bool == false {
				return Bool(true), true
			}
		}
		return Bool(false), true
	case TagInt, TagReal:
		return s.finalizeNumber(st, tag)
	case TagStr:
		return s.finalizeString(st)
	case TagArr:
		return s.finalizeArray(st, depth)
	case TagObj:
		return s.finalizeObject(st, depth)
	}
	return Value{}, false
}

func pickTag(allowed map[Tag]bool) (Tag, bool) {
	for _, t := range AllTags {
		if allowed[t] {
			return t, true
		}
	}
	return 0, false
}

func valueInSet(v Value, set []Value) bool {
	for _, o := range set {
		if v.Equal(o) {
			return true
		}
	}
	return false
}

func intersectValues(a, b []Value) []Value {
	var out []Value
	for _, v := range a {
		if valueInSet(v, b) {
			out = append(out, v)
		}
	}
	return out
}

func (s *solver) finalizeNumber(st *nodeState, tag Tag) (Value, bool) {
	low := big.NewRat(0, 1)
	lowStrict := false
	if st.numLow != nil {
		low, lowStrict = st.numLow.val, st.numLow.strict
	}
	var high *big.Rat
	highStrict := false
	if st.numHigh != nil {
		high, highStrict = st.numHigh.val, st.numHigh.strict
	}

	candidate := new(big.Rat).Set(low)
	if lowStrict {
		if high != nil {
			candidate = RatBetween(low, high)
		} else {
			candidate = new(big.Rat).Add(low, big.NewRat(1, 1))
		}
	}
	if len(st.multiplesOf) > 0 {
		lcm := new(big.Rat).Set(st.multiplesOf[0])
		for _, d := range st.multiplesOf[1:] {
			lcm = ratLCM(lcm, d)
		}
		k := new(big.Rat).Quo(candidate, lcm)
		kInt := new(big.Int)
		kInt.Add(kInt.Quo(k.Num(), k.Denom()), big.NewInt(1))
		found := false
		for i := 0; i < s.cfg.MaxMultipleOf; i++ {
			try := new(big.Rat).Mul(lcm, new(big.Rat).SetInt(kInt))
			if numSatisfies(try, low, lowStrict, high, highStrict) && !violatesNotMultiple(try, st.numNotMultiple) {
				candidate = try
				found = true
				break
			}
			kInt.Add(kInt, big.NewInt(1))
		}
		if !found {
			return Value{}, false
		}
	}
	if high != nil && !numSatisfies(candidate, low, lowStrict, high, highStrict) {
		return Value{}, false
	}
	for _, fb := range st.numNotMultiple {
		if violatesNotMultiple(candidate, []*big.Rat{fb}) {
			candidate = new(big.Rat).Add(candidate, big.NewRat(1, 1))
		}
	}
	if tag == TagInt && !candidate.IsInt() {
		ceil := new(big.Int).Add(new(big.Int).Quo(candidate.Num(), candidate.Denom()), big.NewInt(1))
		candidate = new(big.Rat).SetInt(ceil)
	}
	if tag == TagReal && candidate.IsInt() {
		candidate = RatBetween(candidate, new(big.Rat).Add(candidate, big.NewRat(1, 1)))
	}
	return Value{Tag: tag, Num: candidate}, true
}

func numSatisfies(x, low *big.Rat, lowStrict bool, high *big.Rat, highStrict bool) bool {
	if low != nil {
		c := x.Cmp(low)
		if c < 0 || (c == 0 && lowStrict) {
			return false
		}
	}
	if high != nil {
		c := x.Cmp(high)
		if c > 0 || (c == 0 && highStrict) {
			return false
		}
	}
	return true
}

// violatesNotMultiple reports whether x is an exact multiple of any of the
// forbidden divisors (x/d is an integer), i.e. whether x fails a
// Not(NumMultipleOf{d}) constraint.
func violatesNotMultiple(x *big.Rat, forbidden []*big.Rat) bool {
	for _, d := range forbidden {
		if d.Sign() == 0 {
			continue
		}
		q := new(big.Rat).Quo(x, d)
		if q.IsInt() {
			return true
		}
	}
	return false
}

func ratLCM(a, b *big.Rat) *big.Rat {
	aNum, aDen := new(big.Int).Abs(a.Num()), a.Denom()
	bNum, bDen := new(big.Int).Abs(b.Num()), b.Denom()
	lcmNum := new(big.Int).Div(new(big.Int).Mul(aNum, bNum), new(big.Int).GCD(nil, nil, aNum, bNum))
	gcdDen := new(big.Int).GCD(nil, nil, aDen, bDen)
	return new(big.Rat).SetFrac(lcmNum, gcdDen)
}

func (s *solver) finalizeString(st *nodeState) (Value, bool) {
	minLen := 0
	if st.strMin != nil {
		minLen = *st.strMin
	}
	maxLen := minLen + 16
	if st.strMax != nil {
		maxLen = *st.strMax
	}
	if maxLen < minLen {
		return Value{}, false
	}

	if len(st.formatsReq) > 0 {
		name := st.formatsReq[0]
		sample, ok := sampleForFormat(name)
		if !ok {
			return Value{}, false
		}
		for _, other := range st.formatsReq[1:] {
			if !MatchesFormat(s.cfg.Custom, other, sample) {
				return Value{}, false
			}
		}
		if !s.stringSatisfiesBounds(sample, st) {
			return Value{}, false
		}
		return Str(sample), true
	}

	for _, candidate := range candidateStrings(minLen, maxLen, s.cfg.MaxStringTry) {
		if s.stringSatisfiesBounds(candidate, st) {
			return Str(candidate), true
		}
	}
	return Value{}, false
}

func (s *solver) stringSatisfiesBounds(str string, st *nodeState) bool {
	l := len([]rune(str))
	if st.strMin != nil && l < *st.strMin {
		return false
	}
	if st.strMax != nil && l > *st.strMax {
		return false
	}
	for _, id := range st.patternsReq {
		if !s.patterns.MatchString(id, str) {
			return false
		}
	}
	for _, id := range st.patternsForbid {
		if s.patterns.MatchString(id, str) {
			return false
		}
	}
	for _, f := range st.formatsForbid {
		if MatchesFormat(s.cfg.Custom, f, str) {
			return false
		}
	}
	return true
}

// candidateStrings enumerates a small, deterministic pool of strings
// biased toward satisfying length bounds, used to search for one also
// satisfying any pattern constraints (§9's acknowledged bounded-search
// limitation for arbitrary regex synthesis).
func candidateStrings(minLen, maxLen, limit int) []string {
	alphabet := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	var out []string
	base := ""
	for l := minLen; l <= maxLen && len(out) < limit; l++ {
		for len(base) < l {
			base += alphabet
		}
		out = append(out, base[:l])
		if l > 0 {
			out = append(out, string(repeatRune('a', l)))
			out = append(out, string(repeatRune('0', l)))
		}
	}
	return out
}

func repeatRune(r rune, n int) []rune {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return out
}

func (s *solver) finalizeArray(st *nodeState, depth int) (Value, bool) {
	minLen := 0
	if st.arrMin != nil {
		minLen = *st.arrMin
	}
	maxLen := minLen
	if st.arrMax != nil {
		maxLen = *st.arrMax
	} else if s.u.LMax < minLen {
		return Value{}, false
	} else {
		maxLen = minLen
	}
	if maxLen > s.u.LMax {
		if st.arrMax != nil {
			return Value{}, false
		}
		maxLen = s.u.LMax
	}

	needContains := len(st.containsReq) > 0 || len(st.containsNotAny) > 0
	length := maxLen
	if length < minLen {
		length = minLen
	}
	if needContains && length == 0 {
		length = 1
		if length > s.u.LMax {
			return Value{}, false
		}
	}

	elems := make([]Value, length)
	usedContains := make([]bool, len(st.containsReq))
	for i := 0; i < length; i++ {
		fs := append([]Formula{}, st.perIndex[i]...)
		for ci, cf := range st.containsReq {
			if !usedContains[ci] {
				fs = append(fs, cf)
			}
		}
		for _, nf := range st.containsNotAny {
			fs = append(fs, NNF(Not{Arg: nf}))
		}
		child := newNodeState()
		ok, res := s.solveConj(fs, 0, child, depth+1)
		if res != branchSat {
			if len(fs) == 0 {
				elems[i] = Null()
				continue
			}
			return Value{}, false
		}
		_ = ok
		v, ok3 := s.finalize(child, depth+1)
		if !ok3 {
			return Value{}, false
		}
		elems[i] = v
		for ci, cf := range st.containsReq {
			if !usedContains[ci] {
				if childSat, _ := s.solveConj([]Formula{cf}, 0, newNodeState(), depth+1); childSat {
					usedContains[ci] = true
				}
			}
		}
	}
	for ci, used := range usedContains {
		if !used {
			_ = ci
			return Value{}, false
		}
	}
	if st.unique {
		dedupeArray(elems)
	}
	return Arr(elems), true
}

// dedupeArray perturbs trailing null placeholders so an array that must be
// unique doesn't accidentally contain duplicate default values.
func dedupeArray(elems []Value) {
	seen := map[string]bool{}
	for i := range elems {
		key := canonicalKey(elems[i])
		n := 1
		for seen[key] {
			elems[i] = Int(int64(1000 + i + n))
			key = canonicalKey(elems[i])
			n++
		}
		seen[key] = true
	}
}

// canonicalKey is a cheap structural fingerprint of a Value used only for
// uniqueItems bookkeeping, not for theory equality (see Value.Equal).
func canonicalKey(v Value) string {
	switch v.Tag {
	case TagNull:
		return "null"
	case TagBool:
		if v.Bool {
			return "bool:true"
		}
		return "bool:false"
	case TagInt, TagReal:
		return v.Tag.String() + ":" + v.Num.RatString()
	case TagStr:
		return "str:" + v.Str
	case TagArr:
		s := "arr:["
		for _, e := range v.Arr {
			s += canonicalKey(e) + ","
		}
		return s + "]"
	case TagObj:
		s := "obj:{"
		for _, k := range v.SortedKeys() {
			s += k + "=" + canonicalKey(v.Obj[k]) + ","
		}
		return s + "}"
	}
	return ""
}

func (s *solver) finalizeObject(st *nodeState, depth int) (Value, bool) {
	obj := map[string]Value{}
	keys := make([]string, 0, len(st.hasReq))
	for k := range st.hasReq {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if st.hasForbid[key] {
			return Value{}, false
		}
		fs := append([]Formula{}, st.perKey[key]...)
		fs = append(fs, st.objVal_AdditionalGuardsFor(key)...)
		child := newNodeState()
		_, res := s.solveConj(fs, 0, child, depth+1)
		if res != branchSat {
			return Value{}, false
		}
		v, ok := s.finalize(child, depth+1)
		if !ok {
			return Value{}, false
		}
		obj[key] = v
	}

	for _, g := range st.addGuardsNeg {
		key, ok := pickUniverseKeyOutside(s.u.Keys, g.Known, obj)
		if !ok {
			return Value{}, false
		}
		if g.Closed {
			obj[key] = Null()
			continue
		}
		child := newNodeState()
		_, res := s.solveConj([]Formula{NNF(Not{Arg: g.Arg})}, 0, child, depth+1)
		if res != branchSat {
			return Value{}, false
		}
		v, ok2 := s.finalize(child, depth+1)
		if !ok2 {
			return Value{}, false
		}
		obj[key] = v
	}

	for _, g := range st.patternGuardsNeg {
		key, ok := pickUniverseKeyMatchingPattern(s.u.Keys, s.patterns, g.PatternID, obj)
		if !ok {
			return Value{}, false
		}
		child := newNodeState()
		_, res := s.solveConj([]Formula{NNF(Not{Arg: g.Arg})}, 0, child, depth+1)
		if res != branchSat {
			return Value{}, false
		}
		v, ok2 := s.finalize(child, depth+1)
		if !ok2 {
			return Value{}, false
		}
		obj[key] = v
	}

	if st.objMin != nil && len(obj) < *st.objMin {
		for _, key := range s.u.Keys {
			if len(obj) >= *st.objMin {
				break
			}
			if _, exists := obj[key]; exists || st.hasForbid[key] {
				continue
			}
			obj[key] = Null()
		}
		if len(obj) < *st.objMin {
			return Value{}, false
		}
	}
	if st.objMax != nil && len(obj) > *st.objMax {
		return Value{}, false
	}

	for _, arg := range st.propNamesReq {
		for key := range obj {
			ok, supported := evalFormulaOnValue(arg, Str(key))
			if !supported || !ok {
				return Value{}, false
			}
		}
	}
	for _, arg := range st.propNamesViolate {
		found := false
		for key := range obj {
			ok, supported := evalFormulaOnValue(arg, Str(key))
			if supported && !ok {
				found = true
				break
			}
		}
		if !found {
			return Value{}, false
		}
	}

	return Obj(obj), true
}

// evalFormulaOnValue directly interprets f against a single concrete
// Value with no further cursor nesting — used where a formula must be
// checked against an already-decided literal (propertyNames on an actual
// key string) rather than driving construction. supported is false for
// atom kinds this narrow evaluator doesn't cover (array/object guards),
// in which case the caller must treat the check as inconclusive.
func evalFormulaOnValue(f Formula, v Value) (ok bool, supported bool) {
	switch t := f.(type) {
	case True:
		return true, true
	case False:
		return false, true
	case And:
		for _, a := range t.Args {
			r, s := evalFormulaOnValue(a, v)
			if !s {
				return false, false
			}
			if !r {
				return false, true
			}
		}
		return true, true
	case Or:
		anyUnsupported := false
		for _, a := range t.Args {
			r, s := evalFormulaOnValue(a, v)
			if !s {
				anyUnsupported = true
				continue
			}
			if r {
				return true, true
			}
		}
		if anyUnsupported {
			return false, false
		}
		return false, true
	case TypeIs:
		return v.Tag == t.Tag, true
	case ConstEq:
		return v.Equal(t.Value), true
	case EnumIn:
		return valueInSet(v, t.Values), true
	case StrLenCmp:
		if !v.IsStr() {
			return false, true
		}
		return compareLen(v.Len(), t.Op, t.Bound), true
	default:
		return false, false
	}
}

func compareLen(n int, op string, bound int) bool {
	switch op {
	case ">=":
		return n >= bound
	case ">":
		return n > bound
	case "<=":
		return n <= bound
	case "<":
		return n < bound
	}
	return false
}

// objVal_AdditionalGuardsFor folds every registered positive
// ObjAdditionalGuard into key's constraint list when key falls outside
// that guard's known-properties set.
func (st *nodeState) objVal_AdditionalGuardsFor(key string) []Formula {
	var out []Formula
	for _, g := range st.addGuards {
		if g.Known[key] {
			continue
		}
		if g.Closed {
			out = append(out, False{})
			continue
		}
		out = append(out, g.Arg)
	}
	return out
}

func pickUniverseKeyOutside(universe []string, known map[string]bool, used map[string]Value) (string, bool) {
	for _, k := range universe {
		if known[k] {
			continue
		}
		if _, taken := used[k]; taken {
			continue
		}
		return k, true
	}
	return "", false
}

// pickUniverseKeyMatchingPattern finds a universe key not already assigned
// in used that matches the patternProperties regex identified by id, to
// witness a negated ObjPatternGuard (§4.3: "there exists a key matching the
// pattern whose value fails the guard").
func pickUniverseKeyMatchingPattern(universe []string, patterns *PatternSet, id int, used map[string]Value) (string, bool) {
	for _, k := range universe {
		if _, taken := used[k]; taken {
			continue
		}
		if patterns.MatchString(id, k) {
			return k, true
		}
	}
	return "", false
}
