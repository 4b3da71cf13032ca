package jsonsubsume

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
)

// FormatChecker decides whether a string literal belongs to a named
// format's language. Grounded on the teacher's format.go
// (custom-formats-first, then global-table fallback), generalized from a
// pass/fail validator into a membership predicate the solver and witness
// extractor share, since subsumption reasons about the *language* a format
// denotes rather than validating one document.
type FormatChecker func(string) bool

// builtinFormats backs the handful of formats isKnownFormat (compiler.go)
// accepts. Unknown formats are rejected at compile time as
// UnsupportedFeature rather than silently accepted as a no-op, since a
// silently-ignored format keyword would make the subsumption check unsound
// in the direction that matters (it could wrongly report SUBSUMES).
var builtinFormats = map[string]FormatChecker{
	"email": func(s string) bool {
		_, err := mail.ParseAddress(s)
		return err == nil
	},
	"uri": func(s string) bool {
		u, err := url.Parse(s)
		return err == nil && u.IsAbs()
	},
	"ipv4": func(s string) bool {
		ip := net.ParseIP(s)
		return ip != nil && ip.To4() != nil
	},
	"ipv6": func(s string) bool {
		ip := net.ParseIP(s)
		return ip != nil && ip.To4() == nil
	},
	"uuid":      regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`).MatchString,
	"date":      regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`).MatchString,
	"time":      regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`).MatchString,
	"date-time": regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`).MatchString,
}

// CustomFormats lets a Config (engine.go) register or override format
// checkers beyond the built-in table (§E.3's supplemented feature).
type CustomFormats map[string]FormatChecker

func (c CustomFormats) lookup(name string) (FormatChecker, bool) {
	if fc, ok := c[name]; ok {
		return fc, true
	}
	fc, ok := builtinFormats[name]
	return fc, ok
}

// MatchesFormat reports whether s belongs to the named format's language,
// consulting custom first then the built-in table, matching the teacher's
// custom-then-global precedence.
func MatchesFormat(custom CustomFormats, name, s string) bool {
	fc, ok := custom.lookup(name)
	if !ok {
		return false
	}
	return fc(s)
}

// sampleForFormat returns a literal value known to belong to the named
// format's language, used by witness.go to manufacture a string value
// when a StrFormatIn atom must hold. Grounded on original_source's
// witness.py "_reconstruct_string" placeholder strategy, specialized per
// format instead of one blanket placeholder.
func sampleForFormat(name string) (string, bool) {
	switch name {
	case "email":
		return "a@example.com", true
	case "uri":
		return "https://example.com", true
	case "ipv4":
		return "0.0.0.0", true
	case "ipv6":
		return "::1", true
	case "uuid":
		return "00000000-0000-0000-0000-000000000000", true
	case "date":
		return "1970-01-01", true
	case "time":
		return "00:00:00Z", true
	case "date-time":
		return "1970-01-01T00:00:00Z", true
	default:
		return "", false
	}
}
