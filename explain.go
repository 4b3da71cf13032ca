package jsonsubsume

import "fmt"

// Explanation is the output of the heuristic explainer (§9, §E.3): a
// human-readable summary plus the list of consumer-schema constraints the
// witness fails and a short set of recommendations. It calls into no
// solver and owns no state, matching original_source's
// test_enhanced_explanations.py expectations for the hint generator.
type Explanation struct {
	Text            string
	FailedConstraints []FailedConstraint
	Recommendations []string
}

// FailedConstraint names one consumer-schema keyword the witness failed,
// at the JSON Pointer path where the failure was found.
type FailedConstraint struct {
	Path   string
	Reason ReasonCode
}

// Explain walks the consumer schema against the witness, collecting the
// keyword rejections it finds along the way, and renders a message via
// catalog. Unlike Diagnose (first-match, used to populate
// Result.ReasonCode), Explain keeps walking after a rejection, for a human
// reading a report rather than for programmatic branching. It checks the
// keywords collectFailures visits; anyOf, oneOf, not and if/then/else
// subschemas are not walked.
func Explain(c *Schema, witness Value, patterns *PatternSet, custom CustomFormats, catalog *MessageCatalog) Explanation {
	var fails []FailedConstraint
	collectFailures(c, witness, "", patterns, custom, &fails)

	text := ""
	if catalog != nil {
		text = catalog.T("result.not_subsumes")
	} else {
		text = "producer schema is not subsumed by consumer schema"
	}

	recs := recommendationsFor(fails)
	return Explanation{Text: text, FailedConstraints: fails, Recommendations: recs}
}

func collectFailures(c *Schema, v Value, path string, patterns *PatternSet, custom CustomFormats, out *[]FailedConstraint) {
	if c == nil || c.IsBooleanLeaf() {
		if c != nil && c.Boolean != nil && !*c.Boolean {
			*out = append(*out, FailedConstraint{Path: path, Reason: ReasonUnknown})
		}
		return
	}
	if len(c.Type) > 0 && !typeMatchesAny(v, c.Type) {
		*out = append(*out, FailedConstraint{Path: path, Reason: ReasonTypeMismatch})
	}
	if c.HasConst && !v.Equal(c.Const) {
		*out = append(*out, FailedConstraint{Path: path, Reason: ReasonConstMismatch})
	}
	if len(c.Enum) > 0 && !valueInSet(v, c.Enum) {
		*out = append(*out, FailedConstraint{Path: path, Reason: ReasonEnumMismatch})
	}
	switch v.Tag {
	case TagInt, TagReal:
		if r := diagnoseNumeric(c, v); r != "" {
			*out = append(*out, FailedConstraint{Path: path, Reason: r})
		}
	case TagStr:
		if r := diagnoseString(c, v, patterns, custom); r != "" {
			*out = append(*out, FailedConstraint{Path: path, Reason: r})
		}
	case TagArr:
		if r := diagnoseArray(c, v, patterns, custom); r != "" {
			*out = append(*out, FailedConstraint{Path: path, Reason: r})
		}
		for i, sub := range c.PrefixItems {
			if i < len(v.Arr) {
				collectFailures(sub, v.Arr[i], fmt.Sprintf("%s[%d]", path, i), patterns, custom, out)
			}
		}
		if c.Items != nil {
			for i := len(c.PrefixItems); i < len(v.Arr); i++ {
				collectFailures(c.Items, v.Arr[i], fmt.Sprintf("%s[%d]", path, i), patterns, custom, out)
			}
		}
	case TagObj:
		if r := diagnoseObject(c, v, patterns, custom); r != "" {
			*out = append(*out, FailedConstraint{Path: path, Reason: r})
		}
		for key, sub := range c.Properties {
			if val, ok := v.Val(key); ok {
				collectFailures(sub, val, path+"/"+key, patterns, custom, out)
			}
		}
	}
	for i, sub := range c.AllOf {
		collectFailures(sub, v, fmt.Sprintf("%s#allOf[%d]", path, i), patterns, custom, out)
	}
}

// recommendationsFor turns the collected failures into short, keyword-
// specific suggestions. It is deliberately a fixed lookup rather than a
// generative step, matching the original's hint generator which picks
// from a small fixed vocabulary of phrasings per rejection kind.
func recommendationsFor(fails []FailedConstraint) []string {
	seen := map[ReasonCode]bool{}
	var recs []string
	for _, f := range fails {
		if seen[f.Reason] {
			continue
		}
		seen[f.Reason] = true
		switch f.Reason {
		case ReasonTypeMismatch:
			recs = append(recs, "widen the consumer's 'type' to include every type the producer can emit")
		case ReasonMissingRequired:
			recs = append(recs, "either drop the consumer's 'required' entry or guarantee the producer always sets it")
		case ReasonAdditionalProperty:
			recs = append(recs, "set the consumer's 'additionalProperties' to true or list the producer's extra property explicitly")
		case ReasonConstMismatch, ReasonEnumMismatch:
			recs = append(recs, "align the producer's constant/enum values with the consumer's allowed set")
		case ReasonNumericBound:
			recs = append(recs, "loosen the consumer's numeric bound or tighten the producer's")
		case ReasonStringLength:
			recs = append(recs, "reconcile the producer and consumer string length bounds")
		case ReasonStringPattern:
			recs = append(recs, "relax the consumer's 'pattern' or constrain the producer's string shape to match it")
		case ReasonStringFormat:
			recs = append(recs, "drop or relax the consumer's 'format' constraint, or validate it on the producer side")
		case ReasonArrayLength:
			recs = append(recs, "reconcile the producer and consumer array length bounds")
		case ReasonArrayItem:
			recs = append(recs, "align the producer's item schema with the consumer's")
		case ReasonArrayContains:
			recs = append(recs, "ensure the producer always includes an element matching the consumer's 'contains' schema")
		case ReasonArrayUnique:
			recs = append(recs, "deduplicate the producer's array or drop the consumer's 'uniqueItems'")
		}
	}
	return recs
}
