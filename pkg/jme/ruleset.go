package jme

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Display flags understood by CollectRuleset in addition to any passed by
// the caller.
const (
	FlagFractionNumbers = "fractionnumbers"
	FlagRowVector       = "rowvector"
)

var defaultFlags = []string{FlagFractionNumbers, FlagRowVector}

// Ruleset is an ordered list of rules plus display flags.
type Ruleset struct {
	Rules []*Rule
	Flags map[string]bool
}

// NewRuleset builds a ruleset. Both arguments may be nil.
func NewRuleset(rules []*Rule, flags map[string]bool) *Ruleset {
	if flags == nil {
		flags = make(map[string]bool)
	}
	return &Ruleset{Rules: rules, Flags: flags}
}

// Len returns the number of rules.
func (rs *Ruleset) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rules)
}

// Flag reports whether a display flag is set.
func (rs *Ruleset) Flag(name string) bool {
	return rs != nil && rs.Flags[strings.ToLower(name)]
}

// Merge returns the union of rs and o: the rules of rs followed by those
// of o it lacks, and the flags of both with o winning. Neither input is
// modified.
func (rs *Ruleset) Merge(o *Ruleset) *Ruleset {
	out := NewRuleset(nil, nil)
	for _, src := range []*Ruleset{rs, o} {
		if src == nil {
			continue
		}
		out.Rules = appendMissing(out.Rules, src.Rules)
		maps.Copy(out.Flags, src.Flags)
	}
	return out
}

func appendMissing(dst, rules []*Rule) []*Rule {
	for _, r := range rules {
		if !slices.Contains(dst, r) {
			dst = append(dst, r)
		}
	}
	return dst
}

// RulesetItem is one entry of a RulesetSpec: a name, optionally prefixed
// with `!`, or a rule.
type RulesetItem struct {
	Name string
	Rule *Rule
}

// RulesetSpec describes a ruleset by composing named rulesets, flags and
// individual rules.
type RulesetSpec []RulesetItem

// ParseRulesetSpec reads a comma-separated spec such as
// "all, !collectNumbers, fractionNumbers".
func ParseRulesetSpec(text string) RulesetSpec {
	return lo.FilterMap(strings.Split(text, ","), func(part string, _ int) (RulesetItem, bool) {
		part = strings.TrimSpace(part)
		return RulesetItem{Name: part}, part != ""
	})
}

// Names returns the named entries of the spec, as written.
func (spec RulesetSpec) Names() []string {
	return lo.FilterMap(spec, func(it RulesetItem, _ int) (string, bool) {
		return it.Name, it.Rule == nil && it.Name != ""
	})
}

// String renders the named entries back into spec text.
func (spec RulesetSpec) String() string {
	return strings.Join(spec.Names(), ",")
}

// CollectRuleset resolves spec against the named rulesets in sets.
//
// Entries are applied in order. A display flag name sets the flag, or
// clears it with `!`. A ruleset name appends the rules of that set not yet
// collected and copies its flags; with `!` it removes the set's rules
// instead. Rules are appended directly. A name that is neither a known
// flag nor a set is an *UndefinedRulesetError. The names in flags are
// accepted as display flags alongside fractionnumbers and rowvector.
func CollectRuleset(spec RulesetSpec, sets map[string]*Ruleset, flags ...string) (*Ruleset, error) {
	known := make(map[string]bool, len(defaultFlags)+len(flags))
	for _, f := range slices.Concat(defaultFlags, flags) {
		known[strings.ToLower(f)] = true
	}
	lookup := make(map[string]*Ruleset, len(sets))
	for name, rs := range sets {
		lookup[strings.ToLower(name)] = rs
	}

	out := NewRuleset(nil, nil)
	for _, item := range spec {
		if item.Rule != nil {
			out.Rules = appendMissing(out.Rules, []*Rule{item.Rule})
			continue
		}
		name := strings.TrimSpace(item.Name)
		neg := strings.HasPrefix(name, "!")
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "!")))
		switch {
		case name == "":
			continue
		case known[name]:
			out.Flags[name] = !neg
			continue
		}

		set, ok := lookup[name]
		if !ok {
			return nil, &UndefinedRulesetError{Name: name}
		}
		maps.Copy(out.Flags, set.Flags)
		if neg {
			out.Rules = slices.DeleteFunc(out.Rules, func(r *Rule) bool { return slices.Contains(set.Rules, r) })
		} else {
			out.Rules = appendMissing(out.Rules, set.Rules)
		}
	}
	return out, nil
}

// CollectRulesets resolves specs that refer to each other and to the
// already built rulesets in base. Each spec may name sets from base or
// other specs; every name resolves once. A spec that reaches itself is a
// *CircularDependencyError.
func CollectRulesets(specs map[string]RulesetSpec, base map[string]*Ruleset, flags ...string) (map[string]*Ruleset, error) {
	out := make(map[string]*Ruleset, len(base)+len(specs))
	for name, rs := range base {
		out[strings.ToLower(name)] = rs
	}
	pending := make(map[string]RulesetSpec, len(specs))
	for name, spec := range specs {
		pending[strings.ToLower(name)] = spec
	}

	var resolve func(name string, path []string) error
	resolve = func(name string, path []string) error {
		spec, ok := pending[name]
		if !ok {
			return nil
		}
		if slices.Contains(path, name) {
			return &CircularDependencyError{Name: name, Path: path}
		}
		path = append(slices.Clone(path), name)
		for _, dep := range spec.Names() {
			dep = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(dep), "!")))
			if err := resolve(dep, path); err != nil {
				return err
			}
		}
		rs, err := CollectRuleset(spec, out, flags...)
		if err != nil {
			return fmt.Errorf("ruleset %s: %w", name, err)
		}
		out[name] = rs
		delete(pending, name)
		return nil
	}

	for _, name := range slices.Sorted(maps.Keys(pending)) {
		if err := resolve(name, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CollectRuleset resolves spec against the rulesets visible from s.
func (s *Scope) CollectRuleset(spec RulesetSpec, flags ...string) (*Ruleset, error) {
	return CollectRuleset(spec, s.Rulesets(), flags...)
}
