package builtins

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/randalmurphal/jme/pkg/jme"
)

//go:embed rules.yaml
var rulesYAML []byte

// RulesetDocs returns the builtin rulesets as documents, in the order they
// are defined.
func RulesetDocs() ([]jme.RulesetDoc, error) {
	return jme.ParseRulesetFile(rulesYAML)
}

// Rulesets compiles the builtin rulesets, keyed by lowercased name.
func Rulesets() (map[string]*jme.Ruleset, error) {
	docs, err := RulesetDocs()
	if err != nil {
		return nil, fmt.Errorf("builtin rulesets: %w", err)
	}
	sets, err := jme.BuildRulesets(docs, nil)
	if err != nil {
		return nil, fmt.Errorf("builtin rulesets: %w", err)
	}
	return sets, nil
}

func registerRulesets(reg *jme.Registry) error {
	docs, err := RulesetDocs()
	if err != nil {
		return fmt.Errorf("builtin rulesets: %w", err)
	}
	sets, err := jme.BuildRulesets(docs, nil)
	if err != nil {
		return fmt.Errorf("builtin rulesets: %w", err)
	}
	for _, d := range docs {
		reg.SetRuleset(d.Name, sets[strings.ToLower(d.Name)])
	}
	return nil
}
