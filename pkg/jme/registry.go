package jme

import (
	"strings"

	"github.com/randalmurphal/jme/pkg/jme/registry"
)

// Registry is the catalog of function definitions and named rulesets from
// which root scopes are built.
//
// Every definition added through Register gets the next id from the
// registry's own sequence. The id fixes the overload's position when
// scopes are composed, so the first definition registered for a name is
// the first one tried. Registries share no state with each other.
//
// A Registry is safe for concurrent use.
type Registry struct {
	ids       registry.Sequence
	functions *registry.Registry[string, []*FunctionDef]
	rulesets  *registry.Registry[string, *Ruleset]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		functions: registry.New[string, []*FunctionDef](),
		rulesets:  registry.New[string, *Ruleset](),
	}
}

// Register adds an overload and returns it with its id assigned. The
// definition is copied; def itself is not modified.
func (r *Registry) Register(def FunctionDef) *FunctionDef {
	def.Name = strings.ToLower(def.Name)
	def.ID = r.ids.Next()
	d := &def
	r.functions.Update(def.Name, func(defs []*FunctionDef, _ bool) []*FunctionDef {
		return append(defs[:len(defs):len(defs)], d)
	})
	return d
}

// NextID returns a fresh id from the registry's sequence, for definitions
// added directly to a Scope that must still order after registered ones.
func (r *Registry) NextID() uint64 {
	return r.ids.Next()
}

// Functions returns the overloads registered for name in registration
// order.
func (r *Registry) Functions(name string) []*FunctionDef {
	defs, _ := r.functions.Get(strings.ToLower(name))
	return defs
}

// FunctionNames returns every registered function name in the order first
// registered.
func (r *Registry) FunctionNames() []string {
	return r.functions.Keys()
}

// SetRuleset defines or replaces a named ruleset.
func (r *Registry) SetRuleset(name string, rs *Ruleset) {
	r.rulesets.Register(strings.ToLower(name), rs)
}

// Ruleset returns a named ruleset.
func (r *Registry) Ruleset(name string) (*Ruleset, bool) {
	return r.rulesets.Get(strings.ToLower(name))
}

// RulesetNames returns ruleset names in definition order.
func (r *Registry) RulesetNames() []string {
	return r.rulesets.Keys()
}

// Scope builds a root scope holding a snapshot of every registered
// function and ruleset.
func (r *Registry) Scope() *Scope {
	s := newLayer(nil)
	r.functions.Range(func(name string, defs []*FunctionDef) bool {
		s.functions[name] = defs
		return true
	})
	r.rulesets.Range(func(name string, rs *Ruleset) bool {
		s.rulesets[name] = rs
		return true
	})
	return s
}
