package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/jme/pkg/jme/store"
)

// storeFactory creates a store instance for testing.
type storeFactory func(t *testing.T) store.Store

// storeContractTest runs contract tests against any Store implementation.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	t.Run(name+"/Put_and_Get", func(t *testing.T) {
		st := factory(t)
		defer st.Close()

		data := []byte("rules: []")
		version, err := st.Put(store.KindRuleset, "tidy", data)
		require.NoError(t, err)
		assert.Equal(t, 1, version)

		loaded, err := st.Get(store.KindRuleset, "tidy")
		require.NoError(t, err)
		assert.Equal(t, data, loaded)
	})

	t.Run(name+"/Get_NotFound", func(t *testing.T) {
		st := factory(t)
		defer st.Close()

		_, err := st.Get(store.KindRuleset, "nonexistent")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run(name+"/Kinds_are_separate", func(t *testing.T) {
		st := factory(t)
		defer st.Close()

		_, err := st.Put(store.KindRuleset, "shared", []byte("r"))
		require.NoError(t, err)

		_, err = st.Get(store.KindVariables, "shared")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run(name+"/Put_bumps_version", func(t *testing.T) {
		st := factory(t)
		defer st.Close()

		for i := 1; i <= 3; i++ {
			version, err := st.Put(store.KindVariables, "q1", []byte{byte(i)})
			require.NoError(t, err)
			assert.Equal(t, i, version)
		}

		loaded, err := st.Get(store.KindVariables, "q1")
		require.NoError(t, err)
		assert.Equal(t, []byte{3}, loaded)
	})

	t.Run(name+"/Put_empty_name", func(t *testing.T) {
		st := factory(t)
		defer st.Close()

		_, err := st.Put(store.KindRuleset, " ", []byte("x"))
		assert.ErrorIs(t, err, store.ErrInvalidName)
	})

	t.Run(name+"/List_Empty", func(t *testing.T) {
		st := factory(t)
		defer st.Close()

		infos, err := st.List(store.KindRuleset)
		require.NoError(t, err)
		assert.Empty(t, infos)
	})

	t.Run(name+"/List_Ordered", func(t *testing.T) {
		st := factory(t)
		defer st.Close()

		before := time.Now().UTC().Add(-time.Second)
		for _, n := range []string{"gamma", "alpha", "beta"} {
			_, err := st.Put(store.KindRuleset, n, []byte(n))
			require.NoError(t, err)
		}
		_, err := st.Put(store.KindRuleset, "beta", []byte("beta2"))
		require.NoError(t, err)
		_, err = st.Put(store.KindVariables, "other", []byte("x"))
		require.NoError(t, err)

		infos, err := st.List(store.KindRuleset)
		require.NoError(t, err)
		require.Len(t, infos, 3)

		assert.Equal(t, "alpha", infos[0].Name)
		assert.Equal(t, "beta", infos[1].Name)
		assert.Equal(t, "gamma", infos[2].Name)
		assert.Equal(t, 2, infos[1].Version)
		assert.Equal(t, int64(5), infos[1].Size)
		for _, info := range infos {
			assert.Equal(t, store.KindRuleset, info.Kind)
			assert.True(t, info.Updated.After(before), info.Name)
		}
	})

	t.Run(name+"/Delete", func(t *testing.T) {
		st := factory(t)
		defer st.Close()

		_, err := st.Put(store.KindRuleset, "tidy", []byte("x"))
		require.NoError(t, err)
		require.NoError(t, st.Delete(store.KindRuleset, "tidy"))

		_, err = st.Get(store.KindRuleset, "tidy")
		assert.ErrorIs(t, err, store.ErrNotFound)

		assert.NoError(t, st.Delete(store.KindRuleset, "tidy"), "deleting a missing entry is not an error")

		version, err := st.Put(store.KindRuleset, "tidy", []byte("y"))
		require.NoError(t, err)
		assert.Equal(t, 1, version, "versions restart after delete")
	})

	t.Run(name+"/Get_returns_copy", func(t *testing.T) {
		st := factory(t)
		defer st.Close()

		data := []byte("abc")
		_, err := st.Put(store.KindRuleset, "tidy", data)
		require.NoError(t, err)
		data[0] = 'X'

		loaded, err := st.Get(store.KindRuleset, "tidy")
		require.NoError(t, err)
		loaded[1] = 'Y'

		again, err := st.Get(store.KindRuleset, "tidy")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run(name+"/Closed", func(t *testing.T) {
		st := factory(t)
		require.NoError(t, st.Close())

		_, err := st.Put(store.KindRuleset, "tidy", []byte("x"))
		assert.ErrorIs(t, err, store.ErrStoreClosed)

		_, err = st.Get(store.KindRuleset, "tidy")
		assert.ErrorIs(t, err, store.ErrStoreClosed)

		_, err = st.List(store.KindRuleset)
		assert.ErrorIs(t, err, store.ErrStoreClosed)

		assert.ErrorIs(t, st.Delete(store.KindRuleset, "tidy"), store.ErrStoreClosed)
	})
}

// TestMemoryStore runs contract tests against MemoryStore.
func TestMemoryStore(t *testing.T) {
	factory := func(t *testing.T) store.Store {
		return store.NewMemoryStore()
	}
	storeContractTest(t, "MemoryStore", factory)
}

// TestSQLiteStore runs contract tests against SQLiteStore.
func TestSQLiteStore(t *testing.T) {
	factory := func(t *testing.T) store.Store {
		st, err := store.NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return st
	}
	storeContractTest(t, "SQLiteStore", factory)
}
