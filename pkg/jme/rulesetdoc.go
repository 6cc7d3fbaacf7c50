package jme

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RulesetDoc is the serialized form of a named ruleset: other sets and
// flags to include, written as spec text, followed by rules of its own.
type RulesetDoc struct {
	Name    string       `yaml:"name" json:"name"`
	Include string       `yaml:"include,omitempty" json:"include,omitempty"`
	Rules   []RuleSource `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// RulesetFile is a YAML document holding ruleset definitions.
type RulesetFile struct {
	Rulesets []RulesetDoc `yaml:"rulesets"`
}

// ParseRulesetFile decodes a YAML ruleset document.
func ParseRulesetFile(data []byte) ([]RulesetDoc, error) {
	var f RulesetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rulesets: %w", err)
	}
	return f.Rulesets, nil
}

// Spec compiles the document into a RulesetSpec: the included names first,
// then the rules.
func (d RulesetDoc) Spec() (RulesetSpec, error) {
	spec := ParseRulesetSpec(d.Include)
	for i, src := range d.Rules {
		r, err := src.Compile()
		if err != nil {
			return nil, fmt.Errorf("ruleset %s rule %d: %w", d.Name, i, err)
		}
		spec = append(spec, RulesetItem{Rule: r})
	}
	return spec, nil
}

// BuildRulesets compiles docs and resolves their includes against each
// other and base. The result holds base and every document by lowercased
// name.
func BuildRulesets(docs []RulesetDoc, base map[string]*Ruleset, flags ...string) (map[string]*Ruleset, error) {
	specs := make(map[string]RulesetSpec, len(docs))
	for _, d := range docs {
		if d.Name == "" {
			return nil, &PatternError{Pattern: d.Include, Msg: "ruleset without a name"}
		}
		spec, err := d.Spec()
		if err != nil {
			return nil, err
		}
		specs[d.Name] = spec
	}
	return CollectRulesets(specs, base, flags...)
}
