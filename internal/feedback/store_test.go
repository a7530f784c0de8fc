package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_GetUnknownReturnsNil(t *testing.T) {
	store := memStore(t)
	assert.Nil(t, store.Get("cons_missing"))
	assert.Zero(t, store.Count())
}

func TestStore_RecordAndGet(t *testing.T) {
	store := memStore(t)

	require.NoError(t, store.RecordUse("cons_a"))
	require.NoError(t, store.RecordUse("cons_a"))
	require.NoError(t, store.RecordExplicit("cons_a", true))
	require.NoError(t, store.RecordImplicit("cons_a", false))

	stats := store.Get("cons_a")
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.TotalUses)
	assert.Equal(t, 1, stats.ExplicitPos)
	assert.Equal(t, 1, stats.ImplicitNeg)
	assert.False(t, stats.LastUpdated.IsZero())
	// cached score tracks the weighted mean: (1+1)/(1+0.5+2)
	assert.InDelta(t, 2.0/3.5, stats.CachedScore, 1e-9)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := memStore(t)
	require.NoError(t, store.RecordUse("cons_a"))

	stats := store.Get("cons_a")
	stats.TotalUses = 999

	fresh := store.Get("cons_a")
	assert.Equal(t, 1, fresh.TotalUses, "mutating a returned copy must not affect the store")
}

func TestStore_Update(t *testing.T) {
	store := memStore(t)

	stats := NewConstructionStats("cons_b")
	stats.TotalUses = 10
	stats.ExplicitPos = 3
	require.NoError(t, store.Update(stats))

	stored := store.Get("cons_b")
	require.NotNil(t, stored)
	assert.Equal(t, 10, stored.TotalUses)
	assert.InDelta(t, 0.8, stored.CachedScore, 1e-9, "update should refresh the cached mean")
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.RecordUse("cons_a"))
	require.NoError(t, store.RecordExplicit("cons_a", true))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	stats := reopened.Get("cons_a")
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.TotalUses)
	assert.Equal(t, 1, stats.ExplicitPos)
}

func TestStore_Rankings(t *testing.T) {
	store := memStore(t)

	popular := NewConstructionStats("cons_popular")
	popular.TotalUses = 50
	popular.ExplicitPos = 2
	require.NoError(t, store.Update(popular))

	loved := NewConstructionStats("cons_loved")
	loved.TotalUses = 5
	loved.ExplicitPos = 10
	require.NoError(t, store.Update(loved))

	top := store.TopRated(1)
	require.Len(t, top, 1)
	assert.Equal(t, "cons_loved", top[0].ConstructionID)

	used := store.MostUsed(1)
	require.Len(t, used, 1)
	assert.Equal(t, "cons_popular", used[0].ConstructionID)
}

func TestStore_Clear(t *testing.T) {
	store := memStore(t)
	require.NoError(t, store.RecordUse("cons_a"))
	require.NoError(t, store.Clear())
	assert.Zero(t, store.Count())
	assert.Nil(t, store.Get("cons_a"))
}

func TestStore_FinalScoreHook(t *testing.T) {
	store := memStore(t)

	_, _, ok := store.FinalScore("cons_unknown", 0.7)
	assert.False(t, ok)

	stats := NewConstructionStats("cons_a")
	stats.TotalUses = 10
	stats.ExplicitNeg = 4
	require.NoError(t, store.Update(stats))

	final, metadata, ok := store.FinalScore("cons_a", 0.9)
	require.True(t, ok)
	assert.Less(t, final, 0.9, "disliked construction should be penalized")
	adjustment, isFloat := metadata["adjustment"].(float64)
	require.True(t, isFloat)
	assert.Less(t, adjustment, 1.0)
}
