package jsonsubsume

import (
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// LoadSchemaDocument parses a schema document that may be JSON or YAML,
// picking the decoder by content rather than file extension so callers
// (the CLI, batch mode) don't need to inspect paths. Grounded on the
// teacher's setupMediaTypes (compiler.go), whose "application/yaml"
// media-type handler is plain yaml.Unmarshal into `any` — generalized
// here into a re-marshal through goccy/go-json so the result still flows
// through ParseSchema's json.Number-preserving decode path. A whole-number
// YAML float (`5.0`) is indistinguishable from a YAML int (`5`) once
// yaml.Unmarshal has typed it, so YAML-sourced schemas lose the int/real
// literal-syntax disambiguation rat.go relies on for JSON input; this is
// an accepted approximation for the YAML loading path only.
func LoadSchemaDocument(data []byte) (*Schema, error) {
	converted, err := ToJSONBytes(data)
	if err != nil {
		return nil, err
	}
	return ParseSchema(converted)
}

// ToJSONBytes normalizes a schema document that may be JSON or YAML into
// canonical JSON bytes, without parsing it into a Schema — the form callers
// that hand raw bytes to Check (the CLI's --batch and positional-argument
// paths) need, since Check's contract takes JSON bytes directly.
func ToJSONBytes(data []byte) ([]byte, error) {
	if looksLikeJSON(data) {
		return data, nil
	}
	var temp interface{}
	if err := yaml.Unmarshal(data, &temp); err != nil {
		return nil, &UnsupportedFeatureError{Feature: "yaml", Detail: err.Error()}
	}
	converted, err := json.Marshal(temp)
	if err != nil {
		return nil, &UnsupportedFeatureError{Feature: "yaml", Detail: err.Error()}
	}
	return converted, nil
}

// looksLikeJSON does a cheap sniff of the first non-whitespace byte: JSON
// schema documents always start with '{' or a boolean literal; YAML
// documents in practice start with a mapping key or '---'.
func looksLikeJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[':
			return true
		default:
			return b == 't' || b == 'f' // true/false boolean-leaf schema
		}
	}
	return false
}
