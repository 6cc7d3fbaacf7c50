package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/store"
	"github.com/randalmurphal/jme/pkg/jme/variables"
)

func TestRecord_MarshalUnmarshal(t *testing.T) {
	r := store.NewRecord(store.KindRuleset, "tidy", "run-1", []byte("name: tidy\n"))
	assert.Equal(t, store.Format, r.Format)
	assert.False(t, r.Saved.IsZero())

	data, err := r.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id":"run-1"`)

	got, err := store.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, r.Name, got.Name)
	assert.Equal(t, r.Body, got.Body)
	assert.True(t, r.Saved.Equal(got.Saved))
}

func TestRecord_UnmarshalErrors(t *testing.T) {
	_, err := store.Unmarshal([]byte("{"))
	assert.Error(t, err)

	_, err = store.Unmarshal([]byte(`{"format": 99}`))
	assert.Error(t, err)
}

func TestRulesets(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()

	tidy := jme.RulesetDoc{
		Name:  "Tidy",
		Rules: []jme.RuleSource{{Pattern: "?;x+0", Result: "x"}, {Pattern: "?;x*1", Conditions: []string{"true"}, Result: "x"}},
	}
	version, err := store.PutRuleset(st, tidy, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	_, err = store.PutRuleset(st, jme.RulesetDoc{Name: "all", Include: "tidy, basic"}, "run-1")
	require.NoError(t, err)

	got, err := store.GetRuleset(st, "TIDY")
	require.NoError(t, err)
	assert.Equal(t, tidy, got)

	docs, err := store.Rulesets(st)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "all", docs[0].Name)
	assert.Equal(t, "Tidy", docs[1].Name)

	_, err = store.PutRuleset(st, jme.RulesetDoc{}, "")
	assert.ErrorIs(t, err, store.ErrInvalidName)

	_, err = store.GetRuleset(st, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRulesets_ReportsBadRecords(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()

	_, err := store.PutRuleset(st, jme.RulesetDoc{Name: "good"}, "")
	require.NoError(t, err)
	_, err = st.Put(store.KindRuleset, "bad", []byte("not json"))
	require.NoError(t, err)

	docs, err := store.Rulesets(st)
	assert.Error(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good", docs[0].Name)
}

func TestVariables(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer st.Close()

	doc := variables.Document{
		Variables: map[string]string{"a": "random(1..5)", "b": "a^2"},
		Condition: "b > 3",
		Functions: []variables.FunctionSource{{
			Name:       "double",
			Parameters: []variables.ParamSource{{Name: "x", Type: "number"}},
			Definition: "2x",
		}},
	}
	_, err = store.PutVariables(st, "q1", doc, "run-7")
	require.NoError(t, err)
	version, err := store.PutVariables(st, "q1", doc, "run-8")
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	got, err := store.GetVariables(st, "q1")
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	_, err = store.GetVariables(st, "q2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
