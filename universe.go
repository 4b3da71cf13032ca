package jsonsubsume

// Universe is the finite key set K and bounded array length LMAX the
// compiler closes the JSON theory over (§4.3). Both schemas under
// comparison are compiled against the same Universe so that "a property
// the consumer never mentions" and "an array index beyond what either
// schema constrains" have one consistent symbolic meaning for the solver.
type Universe struct {
	Keys []string
	LMax int
}

// defaultExtraKeys pads the universe so additionalProperties/closed-object
// reasoning has at least one name outside every enumerated property to
// witness against, per §4.3's note that K must contain a "fresh" key.
const defaultExtraKeys = 2

// ExtractUniverse walks both schema trees collecting every property name
// that appears in properties/patternProperties-keyed-literal/required/
// dependentRequired/dependentSchemas, and every prefixItems length, per
// §4.3. Grounded on original_source's bounds.py UniverseExtractor._extract_keys_recursive,
// which does the same properties/patternProperties key collection
// (keys.update(schema["properties"].keys()) / schema["patternProperties"].keys()).
func ExtractUniverse(p, c *Schema, maxArrayLen int) (*Universe, error) {
	if maxArrayLen <= 0 {
		return nil, ErrArrayTooLarge
	}
	keys := map[string]bool{}
	lmax := 0
	collectUniverse(p, keys, &lmax)
	collectUniverse(c, keys, &lmax)

	out := make([]string, 0, len(keys)+defaultExtraKeys)
	for k := range keys {
		out = append(out, k)
	}
	for i := 0; i < defaultExtraKeys; i++ {
		fresh := freshKeyName(keys, i)
		out = append(out, fresh)
		keys[fresh] = true
	}
	sortStrings(out)

	if lmax > maxArrayLen {
		lmax = maxArrayLen
	}
	if lmax == 0 {
		lmax = 1
	}
	return &Universe{Keys: out, LMax: lmax}, nil
}

func freshKeyName(existing map[string]bool, i int) string {
	base := "__witness_key"
	name := base
	for n := 0; existing[name]; n++ {
		name = base + string(rune('a'+n))
	}
	_ = i
	return name
}

func collectUniverse(s *Schema, keys map[string]bool, lmax *int) {
	if s == nil || s.IsBooleanLeaf() {
		return
	}
	for k, sub := range s.Properties {
		keys[k] = true
		collectUniverse(sub, keys, lmax)
	}
	for k, sub := range s.PatternProperties {
		keys[k] = true
		collectUniverse(sub, keys, lmax)
	}
	collectUniverse(s.AdditionalProperties, keys, lmax)
	for _, k := range s.Required {
		keys[k] = true
	}
	for k, names := range s.DependentRequired {
		keys[k] = true
		for _, n := range names {
			keys[n] = true
		}
	}
	for k, sub := range s.DependentSchemas {
		keys[k] = true
		collectUniverse(sub, keys, lmax)
	}
	collectUniverse(s.PropertyNames, keys, lmax)

	if n := len(s.PrefixItems); n > *lmax {
		*lmax = n
	}
	for _, sub := range s.PrefixItems {
		collectUniverse(sub, keys, lmax)
	}
	collectUniverse(s.Items, keys, lmax)
	collectUniverse(s.Contains, keys, lmax)
	if s.MinItems != nil && *s.MinItems > *lmax {
		*lmax = *s.MinItems
	}
	if s.MaxItems != nil && *s.MaxItems > *lmax {
		*lmax = *s.MaxItems
	}

	for _, sub := range s.AllOf {
		collectUniverse(sub, keys, lmax)
	}
	for _, sub := range s.AnyOf {
		collectUniverse(sub, keys, lmax)
	}
	for _, sub := range s.OneOf {
		collectUniverse(sub, keys, lmax)
	}
	collectUniverse(s.Not, keys, lmax)
	collectUniverse(s.If, keys, lmax)
	collectUniverse(s.Then, keys, lmax)
	collectUniverse(s.Else, keys, lmax)
}

// sortStrings avoids importing sort twice across files; kept local and
// trivial since the universe is small (bounded by schema size).
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
