package benchmarks

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/store"
)

// rulesetDoc returns a ruleset with n rules.
func rulesetDoc(n int) jme.RulesetDoc {
	doc := jme.RulesetDoc{Name: "bench", Include: "basic"}
	for i := range n {
		doc.Rules = append(doc.Rules, jme.RuleSource{
			Pattern: fmt.Sprintf("?;x+%d", i),
			Result:  fmt.Sprintf("%d+x", i),
		})
	}
	return doc
}

func createSQLiteStore(b *testing.B) *store.SQLiteStore {
	b.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = st.Close() })
	return st
}

// BenchmarkMemoryStore_PutRuleset measures an in-memory save.
func BenchmarkMemoryStore_PutRuleset(b *testing.B) {
	st := store.NewMemoryStore()
	doc := rulesetDoc(50)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.PutRuleset(st, doc, "run-1")
	}
}

// BenchmarkSQLiteStore_PutRuleset measures a SQLite save.
func BenchmarkSQLiteStore_PutRuleset(b *testing.B) {
	st := createSQLiteStore(b)
	doc := rulesetDoc(50)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.PutRuleset(st, doc, "run-1")
	}
}

// BenchmarkSQLiteStore_GetRuleset measures a SQLite load and decode.
func BenchmarkSQLiteStore_GetRuleset(b *testing.B) {
	st := createSQLiteStore(b)
	if _, err := store.PutRuleset(st, rulesetDoc(50), "run-1"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.GetRuleset(st, "bench")
	}
}

// BenchmarkBuildRulesets measures compiling a stored ruleset against the
// builtins.
func BenchmarkBuildRulesets(b *testing.B) {
	base := mustScope(b).Rulesets()
	docs := []jme.RulesetDoc{rulesetDoc(50)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := jme.BuildRulesets(docs, base); err != nil {
			b.Fatal(err)
		}
	}
}
