package construction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMVCSConstructions_Inventory(t *testing.T) {
	all := MVCSConstructions()
	if len(all) != 39 {
		t.Fatalf("seed inventory = %d constructions, want 39", len(all))
	}

	for _, c := range all {
		if !c.Extra.IsMVCS {
			t.Errorf("%s: IsMVCS not set", c.Extra.MVCSName)
		}
		if c.Level != LevelSurface {
			t.Errorf("%s: level = %s, want surface", c.Extra.MVCSName, c.Level)
		}
		if c.Confidence != mvcsDefaultConfidence {
			t.Errorf("%s: confidence = %v, want %v", c.Extra.MVCSName, c.Confidence, mvcsDefaultConfidence)
		}
		if c.Source != "human" {
			t.Errorf("%s: source = %q, want human", c.Extra.MVCSName, c.Source)
		}
	}
}

func TestMVCSConstructions_StableIDs(t *testing.T) {
	first := MVCSConstructions()
	second := MVCSConstructions()
	require.Equal(t, len(first), len(second))
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("%s: id changed between builds (%s vs %s)",
				first[i].Extra.MVCSName, first[i].ID, second[i].ID)
		}
	}
}

func TestMVCSByName(t *testing.T) {
	greet := MVCSByName("greet_simple")
	require.NotNil(t, greet)
	assert.Equal(t, "Merhaba!", greet.Form.Template)
	assert.Equal(t, "greet", greet.Meaning.DialogueAct)

	assert.Nil(t, MVCSByName("no_such_construction"))
}

func TestMVCSByCategory(t *testing.T) {
	for _, category := range MVCSCategories {
		if len(MVCSByCategory(category)) == 0 {
			t.Errorf("category %s has no constructions", category)
		}
	}

	refusals := MVCSByCategory(MVCSSafeRefusal)
	require.Len(t, refusals, 4)
	for _, c := range refusals {
		assert.Equal(t, "refuse", c.Meaning.DialogueAct)
	}
}

func TestMVCS_RefusalDefaults(t *testing.T) {
	c := MVCSByName("refuse_with_reason")
	require.NotNil(t, c)
	slot, ok := c.Form.Slots["neden"]
	require.True(t, ok)
	assert.Equal(t, "etik kurallarim geregi", slot.Default)
	assert.Contains(t, c.Extra.ValuesAlignment, "non_maleficence")
}

func TestLoadMVCS(t *testing.T) {
	g := emptyGrammar()
	n := LoadMVCS(g)
	assert.Equal(t, 39, n)
	assert.Equal(t, 39, g.Counts()[LevelSurface])

	greetings := g.GetByDialogueAct("greet")
	require.Len(t, greetings, 3)
}
