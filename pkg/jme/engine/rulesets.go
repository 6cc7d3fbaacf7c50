package engine

import (
	"context"
	"strings"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/observability"
	"github.com/randalmurphal/jme/pkg/jme/store"
)

// LoadRulesets rebuilds the engine scope from the root scope and every
// ruleset in the store. Stored rulesets may include each other and the
// root's rulesets. A stored ruleset sharing a name with a root ruleset
// adds to it.
//
// Documents that fail to decode are logged and skipped. An error is
// returned if the store cannot be listed or the documents do not resolve.
func (e *Engine) LoadRulesets() error {
	docs, err := store.Rulesets(e.store)
	if err != nil {
		if docs == nil {
			return err
		}
		observability.LogStoreError(e.logger, "load", string(store.KindRuleset), err)
	}

	layer, err := e.rulesetLayer(docs)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.scope = layer
	e.mu.Unlock()
	return nil
}

func (e *Engine) rulesetLayer(docs []jme.RulesetDoc) (*jme.Scope, error) {
	layer := e.root.Child()
	if len(docs) == 0 {
		return layer, nil
	}
	sets, err := jme.BuildRulesets(docs, e.root.Rulesets())
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		layer.SetRuleset(d.Name, sets[strings.ToLower(d.Name)])
	}
	return layer, nil
}

// SaveRuleset checks that doc compiles and resolves, stores it and makes
// it available to Simplify. It returns the stored version.
func (e *Engine) SaveRuleset(ctx context.Context, doc jme.RulesetDoc) (int, error) {
	if ctx == nil {
		return 0, ErrNilContext
	}
	docs, err := store.Rulesets(e.store)
	if err != nil && docs == nil {
		return 0, err
	}
	docs = append(replaceDoc(docs, doc.Name), doc)
	if _, err := e.rulesetLayer(docs); err != nil {
		return 0, err
	}

	version, err := store.PutRuleset(e.store, doc, e.newRunID())
	if err != nil {
		observability.LogStoreError(e.logger, "put", doc.Name, err)
		return 0, err
	}
	e.logger.Info("ruleset saved", "ruleset", strings.ToLower(doc.Name), "version", version, "rules", len(doc.Rules))
	return version, e.LoadRulesets()
}

// DeleteRuleset removes a stored ruleset. Builtin rulesets are unaffected.
func (e *Engine) DeleteRuleset(name string) error {
	if err := e.store.Delete(store.KindRuleset, strings.ToLower(name)); err != nil {
		observability.LogStoreError(e.logger, "delete", name, err)
		return err
	}
	return e.LoadRulesets()
}

// RulesetNames returns every ruleset available to Simplify, sorted.
func (e *Engine) RulesetNames() []string {
	return e.Scope().RulesetNames()
}

// StoredRulesets lists the rulesets in the store.
func (e *Engine) StoredRulesets() ([]store.Info, error) {
	return e.store.List(store.KindRuleset)
}

func replaceDoc(docs []jme.RulesetDoc, name string) []jme.RulesetDoc {
	out := docs[:0:0]
	for _, d := range docs {
		if !strings.EqualFold(d.Name, name) {
			out = append(out, d)
		}
	}
	return out
}
