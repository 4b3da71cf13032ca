package jsonsubsume

import "regexp"

// PatternSet interns compiled regular expressions so Formula atoms can
// refer to a pattern by a small integer id instead of embedding a
// *regexp.Regexp, keeping Formula values comparable-by-structure.
// Grounded on the teacher's format.go
// chain-of-validators approach to keyword-to-predicate translation, and on
// original_source's "_convert_regex_pattern" (schema_compiler.py), which
// performs the same ECMA-to-RE2 best-effort translation this repo makes
// explicit and named via ErrUnsupportedPattern.
type PatternSet struct {
	res []*regexp.Regexp
}

func NewPatternSet() *PatternSet { return &PatternSet{} }

// Intern compiles raw (already translated to Go regexp syntax) and returns
// its id, reusing an existing id for an identical source string.
func (p *PatternSet) Intern(raw string) (int, error) {
	for i, re := range p.res {
		if re.String() == raw {
			return i, nil
		}
	}
	re, err := regexp.Compile(raw)
	if err != nil {
		return 0, &UnsupportedFeatureError{Feature: "pattern", Detail: err.Error()}
	}
	p.res = append(p.res, re)
	return len(p.res) - 1, nil
}

func (p *PatternSet) MatchString(id int, s string) bool {
	if id < 0 || id >= len(p.res) {
		return false
	}
	return p.res[id].MatchString(s)
}

func (p *PatternSet) Source(id int) string {
	if id < 0 || id >= len(p.res) {
		return ""
	}
	return p.res[id].String()
}

// TranslatePattern best-effort translates an ECMA 262 regex (the dialect
// JSON Schema's "pattern" keyword specifies) into Go's RE2 syntax. RE2
// lacks backreferences and lookaround; a pattern using either is rejected
// as UnsupportedFeature rather than silently mismatching (§4.2's
// conservative-approximation rule for "pattern"/"format").
func TranslatePattern(ecma string) (string, error) {
	for i := 0; i < len(ecma); i++ {
		if ecma[i] == '\\' && i+1 < len(ecma) {
			switch ecma[i+1] {
			case '1', '2', '3', '4', '5', '6', '7', '8', '9':
				return "", &UnsupportedFeatureError{Feature: "pattern", Detail: "backreferences are not supported"}
			}
			i++
			continue
		}
		if ecma[i] == '(' && i+2 < len(ecma) && ecma[i+1] == '?' {
			switch ecma[i+2] {
			case '=', '!':
				return "", &UnsupportedFeatureError{Feature: "pattern", Detail: "lookahead is not supported"}
			}
			if i+3 < len(ecma) && ecma[i+2] == '<' && (ecma[i+3] == '=' || ecma[i+3] == '!') {
				return "", &UnsupportedFeatureError{Feature: "pattern", Detail: "lookbehind is not supported"}
			}
		}
	}
	return ecma, nil
}
