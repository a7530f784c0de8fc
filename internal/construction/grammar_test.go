package construction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyGrammar() *Grammar {
	config := DefaultGrammarConfig()
	config.LoadDefaults = false
	return NewGrammar(config)
}

func surfaceConstruction(t *testing.T, act, tone string, confidence float64) *Construction {
	t.Helper()
	c, err := NewConstruction("", LevelSurface, minimalForm(), Meaning{DialogueAct: act}, confidence, "human")
	require.NoError(t, err)
	c.Extra.Tone = tone
	return c
}

func TestGrammar_Defaults(t *testing.T) {
	g := NewGrammar(DefaultGrammarConfig())

	counts := g.Counts()
	if counts[LevelDeep] != 7 {
		t.Fatalf("deep count = %d, want 7", counts[LevelDeep])
	}
	if counts[LevelMiddle] != 7 {
		t.Fatalf("middle count = %d, want 7", counts[LevelMiddle])
	}
	if counts[LevelSurface] != 46 {
		t.Fatalf("surface count = %d, want 46", counts[LevelSurface])
	}
	if g.Total() != 60 {
		t.Fatalf("total = %d, want 60", g.Total())
	}

	// Every common act should have at least one candidate.
	for _, act := range []string{"inform", "explain", "warn", "empathize", "suggest", "acknowledge", "greet", "refuse", "farewell"} {
		if len(g.GetByDialogueAct(act)) == 0 {
			t.Errorf("no constructions for act %q", act)
		}
	}
}

func TestGrammar_AddRemoveGet(t *testing.T) {
	g := emptyGrammar()
	c := surfaceConstruction(t, "inform", "", 0.6)

	require.True(t, g.Add(c))
	assert.Equal(t, c, g.Get(c.ID))
	assert.Len(t, g.GetByDialogueAct("inform"), 1)

	require.True(t, g.Remove(c.ID))
	assert.Nil(t, g.Get(c.ID))
	assert.Empty(t, g.GetByDialogueAct("inform"))
	assert.False(t, g.Remove(c.ID), "second remove should fail")
}

func TestGrammar_CapacityLimit(t *testing.T) {
	config := DefaultGrammarConfig()
	config.LoadDefaults = false
	config.MaxConstructionsPerLvl = 2
	g := NewGrammar(config)

	require.True(t, g.Add(surfaceConstruction(t, "inform", "", 0.5)))
	require.True(t, g.Add(surfaceConstruction(t, "inform", "", 0.5)))
	assert.False(t, g.Add(surfaceConstruction(t, "inform", "", 0.5)), "over-capacity add should fail")
	assert.Equal(t, 2, g.Total())
}

func TestGrammar_FindMatchingSortsAndFilters(t *testing.T) {
	g := emptyGrammar()
	low := surfaceConstruction(t, "empathize", "empathic", 0.4)
	high := surfaceConstruction(t, "empathize", "empathic", 0.9)
	offTone := surfaceConstruction(t, "empathize", "serious", 0.95)
	untoned := surfaceConstruction(t, "empathize", "", 0.7)
	for _, c := range []*Construction{low, high, offTone, untoned} {
		require.True(t, g.Add(c))
	}

	matching := g.FindMatching([]string{"empathize"}, "empathic", nil)
	require.Len(t, matching, 3, "serious-toned candidate should be filtered")
	assert.Equal(t, high.ID, matching[0].ID)
	assert.Equal(t, untoned.ID, matching[1].ID)
	assert.Equal(t, low.ID, matching[2].ID)
}

func TestGrammar_FindMatchingTiebreakBySuccessRate(t *testing.T) {
	g := emptyGrammar()
	fresh := surfaceConstruction(t, "inform", "", 0.5)
	proven := surfaceConstruction(t, "inform", "", 0.5)
	proven.SuccessCount = 9
	proven.FailureCount = 1
	require.True(t, g.Add(fresh))
	require.True(t, g.Add(proven))

	matching := g.FindMatching([]string{"inform"}, "", nil)
	require.Len(t, matching, 2)
	assert.Equal(t, proven.ID, matching[0].ID)
}

func TestGrammar_Clear(t *testing.T) {
	g := NewGrammar(DefaultGrammarConfig())
	require.NotZero(t, g.Total())

	g.Clear()
	assert.Zero(t, g.Total())
	assert.Empty(t, g.GetByDialogueAct("greet"))
}
