package jme

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/randalmurphal/jme/pkg/jme/parser"
	"github.com/randalmurphal/jme/pkg/jme/token"
)

// Scope holds variables, function overloads and named rulesets.
//
// Scopes are layered: a child sees everything its parent does and its own
// entries take precedence for variables. Overload lists and rulesets are
// merged across layers instead of shadowed, so a child never hides a
// parent's definitions.
//
// A Scope is built, then read. Once handed to an Evaluator it must not be
// modified; concurrent evaluations may then share it.
type Scope struct {
	parent *Scope

	variables map[string]token.Token
	functions map[string][]*FunctionDef
	rulesets  map[string]*Ruleset

	// hideVariables stops variable lookups at this layer.
	hideVariables bool
}

// NewScope composes parents from left to right into a new scope. Later
// parents win for variables. Overload lists are unioned and ordered by
// registration id. Rulesets with the same name are merged.
//
// With a single parent the new scope is a cheap child layer.
func NewScope(parents ...*Scope) *Scope {
	parents = slices.DeleteFunc(slices.Clone(parents), func(p *Scope) bool { return p == nil })
	s := newLayer(nil)
	switch len(parents) {
	case 0:
	case 1:
		s.parent = parents[0]
	default:
		base := newLayer(nil)
		for _, p := range parents {
			base.absorb(p)
		}
		s.parent = base
	}
	return s
}

func newLayer(parent *Scope) *Scope {
	return &Scope{
		parent:    parent,
		variables: make(map[string]token.Token),
		functions: make(map[string][]*FunctionDef),
		rulesets:  make(map[string]*Ruleset),
	}
}

// absorb copies everything visible from p into s.
func (s *Scope) absorb(p *Scope) {
	for name, v := range p.visibleVariables() {
		s.variables[name] = v
	}
	for _, name := range p.FunctionNames() {
		s.functions[name] = mergeOverloads(s.functions[name], p.Functions(name))
	}
	for _, name := range p.RulesetNames() {
		rs, _ := p.Ruleset(name)
		if have, ok := s.rulesets[name]; ok {
			rs = have.Merge(rs)
		}
		s.rulesets[name] = rs
	}
}

// Child returns a new layer on top of s.
func (s *Scope) Child() *Scope {
	return newLayer(s)
}

// WithoutVariables returns a layer that sees the functions and rulesets of
// s but none of its variables.
func (s *Scope) WithoutVariables() *Scope {
	c := newLayer(s)
	c.hideVariables = true
	return c
}

// SetVariable binds name in this layer. Names are case-insensitive.
func (s *Scope) SetVariable(name string, value token.Token) {
	s.variables[strings.ToLower(name)] = value
}

// Variable looks a name up through the layers.
func (s *Scope) Variable(name string) (token.Token, bool) {
	key := strings.ToLower(name)
	for l := s; l != nil; l = l.parent {
		if v, ok := l.variables[key]; ok {
			return v, true
		}
		if l.hideVariables {
			break
		}
	}
	return nil, false
}

// Variables returns a copy of every visible variable.
func (s *Scope) Variables() map[string]token.Token {
	return s.visibleVariables()
}

func (s *Scope) visibleVariables() map[string]token.Token {
	var layers []*Scope
	for l := s; l != nil; l = l.parent {
		layers = append(layers, l)
		if l.hideVariables {
			break
		}
	}
	out := make(map[string]token.Token)
	for i := len(layers) - 1; i >= 0; i-- {
		maps.Copy(out, layers[i].variables)
	}
	return out
}

// AddFunction adds an overload to this layer.
func (s *Scope) AddFunction(def *FunctionDef) {
	name := strings.ToLower(def.Name)
	s.functions[name] = mergeOverloads(s.functions[name], []*FunctionDef{def})
}

// Functions returns the overloads of name visible from s, ordered by
// registration id. Unregistered definitions (id 0) come last in the order
// they were added.
func (s *Scope) Functions(name string) []*FunctionDef {
	key := strings.ToLower(name)
	var out []*FunctionDef
	layers := 0
	for l := s; l != nil; l = l.parent {
		defs := l.functions[key]
		if len(defs) == 0 {
			continue
		}
		layers++
		if layers == 1 {
			out = defs
			continue
		}
		out = mergeOverloads(defs, out)
	}
	return out
}

// FunctionNames returns every function name visible from s, sorted.
func (s *Scope) FunctionNames() []string {
	seen := make(map[string]struct{})
	for l := s; l != nil; l = l.parent {
		for name, defs := range l.functions {
			if len(defs) > 0 {
				seen[name] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// HasFunction reports whether name has at least one overload.
func (s *Scope) HasFunction(name string) bool {
	return len(s.Functions(name)) > 0
}

// SetRuleset defines a named ruleset in this layer. Names are
// case-insensitive.
func (s *Scope) SetRuleset(name string, rs *Ruleset) {
	s.rulesets[strings.ToLower(name)] = rs
}

// Ruleset returns the named ruleset, merged across layers.
func (s *Scope) Ruleset(name string) (*Ruleset, bool) {
	key := strings.ToLower(name)
	var found []*Ruleset
	for l := s; l != nil; l = l.parent {
		if rs, ok := l.rulesets[key]; ok {
			found = append(found, rs)
		}
	}
	if len(found) == 0 {
		return nil, false
	}
	out := found[len(found)-1]
	for i := len(found) - 2; i >= 0; i-- {
		out = out.Merge(found[i])
	}
	return out, true
}

// RulesetNames returns every ruleset name visible from s, sorted.
func (s *Scope) RulesetNames() []string {
	seen := make(map[string]struct{})
	for l := s; l != nil; l = l.parent {
		for name := range l.rulesets {
			seen[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Rulesets returns every visible ruleset by name.
func (s *Scope) Rulesets() map[string]*Ruleset {
	out := make(map[string]*Ruleset)
	for _, name := range s.RulesetNames() {
		out[name], _ = s.Ruleset(name)
	}
	return out
}

// Evaluate compiles expr and evaluates it in a child of s that binds vars.
// Host values are converted with WrapValue.
func (s *Scope) Evaluate(expr string, vars map[string]any) (token.Token, error) {
	tree, err := parser.Compile(expr)
	if err != nil {
		return nil, err
	}
	scope, err := s.WithValues(vars)
	if err != nil {
		return nil, err
	}
	return NewEvaluator().Evaluate(tree, scope)
}

// WithValues returns a child of s binding each host value, converted with
// WrapValue. It returns s itself when vars is empty.
func (s *Scope) WithValues(vars map[string]any) (*Scope, error) {
	if len(vars) == 0 {
		return s, nil
	}
	c := s.Child()
	for name, v := range vars {
		tok, err := WrapValue(v, "")
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		c.SetVariable(name, tok)
	}
	return c, nil
}

// mergeOverloads unions two overload lists. Each definition appears once;
// the result is ordered by id with id 0 last.
func mergeOverloads(a, b []*FunctionDef) []*FunctionDef {
	out := slices.Clone(a)
	for _, def := range b {
		if !slices.ContainsFunc(out, func(d *FunctionDef) bool { return sameDef(d, def) }) {
			out = append(out, def)
		}
	}
	slices.SortStableFunc(out, func(x, y *FunctionDef) int {
		switch {
		case x.ID == y.ID:
			return 0
		case x.ID == 0:
			return 1
		case y.ID == 0:
			return -1
		default:
			return cmp.Compare(x.ID, y.ID)
		}
	})
	return out
}

func sameDef(a, b *FunctionDef) bool {
	if a.ID != 0 || b.ID != 0 {
		return a.ID == b.ID
	}
	return a == b
}
