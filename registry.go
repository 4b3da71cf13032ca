package jsonsubsume

import (
	"fmt"
	"strings"
)

// Registry resolves $ref and $defs/definitions across a single schema
// document into a reference graph, then unfolds it into a $ref-free tree
// (§4.1). Grounded on the teacher's reference-resolution pass in schema.go
// (initializeSchemaCore's URI bookkeeping) and on original_source's
// schema_compiler.py, which assumes refs are pre-resolved — the cycle
// detection here is new scope required by spec §4.1/§7.
type Registry struct {
	root *Schema
	defs map[string]*Schema // flattened "#/$defs/x" / "#/definitions/x" -> schema
	memo map[*Schema]*Schema
}

// NewRegistry builds a Registry over root, flattening its $defs and
// definitions maps (root-level only; nested $defs are not indexed, matching
// §4.1's "definitions live at the document root" restriction).
func NewRegistry(root *Schema) *Registry {
	defs := map[string]*Schema{}
	for name, s := range root.Defs {
		defs["#/$defs/"+name] = s
	}
	for name, s := range root.Definitions {
		defs["#/definitions/"+name] = s
	}
	return &Registry{root: root, defs: defs, memo: map[*Schema]*Schema{}}
}

// resolve looks up a $ref pointer, supporting "#", "#/$defs/name", and
// "#/definitions/name" forms only (§4.1's supported reference grammar).
func (r *Registry) resolve(ref string) (*Schema, error) {
	if ref == "#" {
		return r.root, nil
	}
	if !strings.HasPrefix(ref, "#/") {
		return nil, &UnsupportedFeatureError{Feature: "$ref", Detail: ref + " is not a local fragment reference"}
	}
	if s, ok := r.defs[ref]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, ref)
}

// Unfold returns a $ref-free copy of the registry's root, after verifying
// the reference graph is acyclic via Tarjan's SCC algorithm (§4.1). A
// non-trivial SCC (size > 1, or a single node with a self-loop) is reported
// as a CyclicSchemaError naming every offending definition.
func (r *Registry) Unfold() (*Schema, error) {
	if sccs := r.findCycles(); len(sccs) > 0 {
		return nil, &CyclicSchemaError{SCCs: sccs}
	}
	return r.unfold(r.root, map[*Schema]bool{})
}

func (r *Registry) unfold(s *Schema, onPath map[*Schema]bool) (*Schema, error) {
	if s == nil {
		return nil, nil
	}
	if s.IsBooleanLeaf() {
		return s, nil
	}
	if s.Ref != "" {
		if onPath[s] {
			return nil, &CyclicSchemaError{SCCs: [][]string{{s.Ref}}}
		}
		target, err := r.resolve(s.Ref)
		if err != nil {
			return nil, err
		}
		if cached, ok := r.memo[target]; ok {
			return cached, nil
		}
		onPath[s] = true
		resolved, err := r.unfold(target, onPath)
		delete(onPath, s)
		if err != nil {
			return nil, err
		}
		r.memo[target] = resolved
		return resolved, nil
	}

	out := *s
	out.Ref = ""
	out.Defs = nil
	out.Definitions = nil

	var err error
	if out.AllOf, err = r.unfoldList(s.AllOf, onPath); err != nil {
		return nil, err
	}
	if out.AnyOf, err = r.unfoldList(s.AnyOf, onPath); err != nil {
		return nil, err
	}
	if out.OneOf, err = r.unfoldList(s.OneOf, onPath); err != nil {
		return nil, err
	}
	if out.Not, err = r.unfold(s.Not, onPath); err != nil {
		return nil, err
	}
	if out.If, err = r.unfold(s.If, onPath); err != nil {
		return nil, err
	}
	if out.Then, err = r.unfold(s.Then, onPath); err != nil {
		return nil, err
	}
	if out.Else, err = r.unfold(s.Else, onPath); err != nil {
		return nil, err
	}
	if out.Properties, err = r.unfoldMap(s.Properties, onPath); err != nil {
		return nil, err
	}
	if out.PatternProperties, err = r.unfoldMap(s.PatternProperties, onPath); err != nil {
		return nil, err
	}
	if out.AdditionalProperties, err = r.unfold(s.AdditionalProperties, onPath); err != nil {
		return nil, err
	}
	if out.DependentSchemas, err = r.unfoldMap(s.DependentSchemas, onPath); err != nil {
		return nil, err
	}
	if out.PropertyNames, err = r.unfold(s.PropertyNames, onPath); err != nil {
		return nil, err
	}
	if out.Items, err = r.unfold(s.Items, onPath); err != nil {
		return nil, err
	}
	if out.PrefixItems, err = r.unfoldList(s.PrefixItems, onPath); err != nil {
		return nil, err
	}
	if out.Contains, err = r.unfold(s.Contains, onPath); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Registry) unfoldList(list []*Schema, onPath map[*Schema]bool) ([]*Schema, error) {
	if list == nil {
		return nil, nil
	}
	out := make([]*Schema, len(list))
	for i, s := range list {
		u, err := r.unfold(s, onPath)
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}

func (r *Registry) unfoldMap(m map[string]*Schema, onPath map[*Schema]bool) (map[string]*Schema, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]*Schema, len(m))
	for k, s := range m {
		u, err := r.unfold(s, onPath)
		if err != nil {
			return nil, err
		}
		out[k] = u
	}
	return out, nil
}

// findCycles runs Tarjan's strongly-connected-components algorithm over
// the $ref graph among root-level definitions, returning every SCC of size
// greater than one plus every singleton with a self-loop (the exact
// CyclicSchema condition of §4.1).
func (r *Registry) findCycles() [][]string {
	t := &tarjan{
		edges:   r.refEdges(),
		index:   map[string]int{},
		lowlink: map[string]int{},
		onStack: map[string]bool{},
	}
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	for _, name := range names {
		if _, seen := t.index[name]; !seen {
			t.strongconnect(name)
		}
	}
	var cyclic [][]string
	for _, scc := range t.sccs {
		if len(scc) > 1 {
			cyclic = append(cyclic, scc)
			continue
		}
		node := scc[0]
		for _, e := range t.edges[node] {
			if e == node {
				cyclic = append(cyclic, scc)
				break
			}
		}
	}
	return cyclic
}

// refEdges walks every root-level definition collecting the set of other
// definitions it $refs, directly or through nested composition.
func (r *Registry) refEdges() map[string][]string {
	edges := map[string][]string{}
	for name, s := range r.defs {
		seen := map[string]bool{}
		collectRefs(s, r.defs, seen)
		out := make([]string, 0, len(seen))
		for e := range seen {
			out = append(out, e)
		}
		edges[name] = out
	}
	return edges
}

func collectRefs(s *Schema, defs map[string]*Schema, seen map[string]bool) {
	if s == nil || s.IsBooleanLeaf() {
		return
	}
	if s.Ref != "" {
		if _, ok := defs[s.Ref]; ok && !seen[s.Ref] {
			seen[s.Ref] = true
			collectRefs(defs[s.Ref], defs, seen)
		}
		return
	}
	for _, sub := range s.AllOf {
		collectRefs(sub, defs, seen)
	}
	for _, sub := range s.AnyOf {
		collectRefs(sub, defs, seen)
	}
	for _, sub := range s.OneOf {
		collectRefs(sub, defs, seen)
	}
	collectRefs(s.Not, defs, seen)
	collectRefs(s.If, defs, seen)
	collectRefs(s.Then, defs, seen)
	collectRefs(s.Else, defs, seen)
	for _, sub := range s.Properties {
		collectRefs(sub, defs, seen)
	}
	for _, sub := range s.PatternProperties {
		collectRefs(sub, defs, seen)
	}
	collectRefs(s.AdditionalProperties, defs, seen)
	for _, sub := range s.DependentSchemas {
		collectRefs(sub, defs, seen)
	}
	collectRefs(s.PropertyNames, defs, seen)
	collectRefs(s.Items, defs, seen)
	for _, sub := range s.PrefixItems {
		collectRefs(sub, defs, seen)
	}
	collectRefs(s.Contains, defs, seen)
}

// tarjan is a minimal Tarjan SCC implementation over a string-keyed graph.
type tarjan struct {
	edges   map[string][]string
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	counter int
	sccs    [][]string
}

func (t *tarjan) strongconnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.edges[v] {
		if _, seen := t.index[w]; !seen {
			t.strongconnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
