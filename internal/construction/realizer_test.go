package construction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealize_FillsTemplate(t *testing.T) {
	r := NewRealizer(DefaultRealizerConfig())
	c := MVCSByName("inform_about_topic")
	require.NotNil(t, c)

	result := r.Realize(c, map[string]string{"konu": "Go"})
	require.True(t, result.Success, "errors: %v", result.Errors)
	if result.Text != "Go hakkinda bilgi vereyim." {
		t.Fatalf("Text = %q", result.Text)
	}
	assert.Equal(t, "Go", result.FilledSlots["konu"])
	assert.Empty(t, result.MissingSlots)
}

func TestRealize_UsesSlotDefaults(t *testing.T) {
	r := NewRealizer(DefaultRealizerConfig())
	c := MVCSByName("refuse_with_reason")
	require.NotNil(t, c)

	result := r.Realize(c, nil)
	require.True(t, result.Success)
	assert.Equal(t, "Uzgunum, etik kurallarim geregi nedeniyle bu konuda yardimci olamam.", result.Text)
	assert.Equal(t, "etik kurallarim geregi", result.FilledSlots["neden"])
}

func TestRealize_MissingRequiredLenient(t *testing.T) {
	r := NewRealizer(DefaultRealizerConfig())
	c := MVCSByName("inform_about_topic")
	require.NotNil(t, c)

	result := r.Realize(c, nil)
	// Lenient mode degrades: the slot is dropped and recorded.
	require.True(t, result.Success)
	assert.Equal(t, "Hakkinda bilgi vereyim.", result.Text)
	assert.Equal(t, []string{"konu"}, result.MissingSlots)
	assert.NotEmpty(t, result.Errors)
}

func TestRealize_MissingRequiredStrict(t *testing.T) {
	config := DefaultRealizerConfig()
	config.StrictValidation = true
	r := NewRealizer(config)
	c := MVCSByName("inform_direct")
	require.NotNil(t, c)

	result := r.Realize(c, nil)
	assert.False(t, result.Success)
	assert.Empty(t, result.Text)
	assert.Equal(t, []string{"bilgi"}, result.MissingSlots)
}

func TestRealize_EmptyTextFails(t *testing.T) {
	r := NewRealizer(DefaultRealizerConfig())
	c := MVCSByName("inform_direct")
	require.NotNil(t, c)

	result := r.Realize(c, nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "empty text after template filling")
}

func TestRealize_Punctuation(t *testing.T) {
	r := NewRealizer(DefaultRealizerConfig())

	build := func(template, act, intonation string) *Construction {
		c, err := NewConstruction("", LevelSurface,
			Form{Template: template, Slots: map[string]Slot{}, Intonation: intonation},
			Meaning{DialogueAct: act}, 0.8, "human")
		require.NoError(t, err)
		return c
	}

	tests := []struct {
		template   string
		act        string
		intonation string
		want       string
	}{
		{"merhaba dunya", "inform", "", "Merhaba dunya."},
		{"neden boyle oldu", "ask", "", "Neden boyle oldu?"},
		{"soru gibi duran cumle", "inform", "rising", "Soru gibi duran cumle?"},
		{"dikkatli ol", "warn", "", "Dikkatli ol!"},
		{"Zaten noktasi var.", "inform", "", "Zaten noktasi var."},
	}
	for _, tt := range tests {
		result := r.Realize(build(tt.template, tt.act, tt.intonation), nil)
		require.True(t, result.Success)
		if result.Text != tt.want {
			t.Errorf("Realize(%q) = %q, want %q", tt.template, result.Text, tt.want)
		}
	}
}

func TestRealize_Idempotent(t *testing.T) {
	r := NewRealizer(DefaultRealizerConfig())
	c := MVCSByName("greet_simple")
	require.NotNil(t, c)

	first := r.Realize(c, nil)
	second := r.Realize(c, nil)
	require.True(t, first.Success)
	assert.Equal(t, first.Text, second.Text)
}

func TestRealize_MorphologyRules(t *testing.T) {
	r := NewRealizer(DefaultRealizerConfig())
	c, err := NewConstruction("", LevelSurface,
		Form{
			Template: "bir seyler yapabilirsin",
			Slots:    map[string]Slot{},
			MorphologyRules: []MorphologyRule{
				{ID: NewMorphologyRuleID(), Name: "soften", RuleType: "suffix_order",
					Condition: "yapabilirsin", Transformation: "deneyebilirsin", Priority: 1},
			},
		},
		Meaning{DialogueAct: "suggest"}, 0.8, "human")
	require.NoError(t, err)

	result := r.Realize(c, nil)
	require.True(t, result.Success)
	assert.Equal(t, "Bir seyler deneyebilirsin.", result.Text)
}

func TestRealizeMultiple(t *testing.T) {
	r := NewRealizer(DefaultRealizerConfig())
	greet := MVCSByName("greet_simple")
	inform := MVCSByName("inform_about_topic")
	failing := MVCSByName("inform_direct") // required slot, no default
	require.NotNil(t, greet)
	require.NotNil(t, inform)
	require.NotNil(t, failing)

	result := r.RealizeMultiple(
		[]*Construction{greet, inform, failing},
		map[string]string{"konu": "hava durumu"},
		" ",
	)
	require.True(t, result.Success)
	assert.Equal(t, "Merhaba! Hava durumu hakkinda bilgi vereyim.", result.Text)
	assert.Contains(t, result.MissingSlots, "bilgi")
}

func TestRealizeMultiple_AllFail(t *testing.T) {
	config := DefaultRealizerConfig()
	config.StrictValidation = true
	r := NewRealizer(config)
	failing := MVCSByName("inform_direct")
	require.NotNil(t, failing)

	result := r.RealizeMultiple([]*Construction{failing}, nil, " ")
	assert.False(t, result.Success)
	assert.Empty(t, result.Text)
}

func TestRequiredSlots(t *testing.T) {
	r := NewRealizer(DefaultRealizerConfig())

	direct := MVCSByName("inform_direct")
	require.NotNil(t, direct)
	assert.Equal(t, []string{"bilgi"}, r.RequiredSlots(direct))

	// Required slot with a default does not need the caller.
	reason := MVCSByName("refuse_with_reason")
	require.NotNil(t, reason)
	assert.Empty(t, r.RequiredSlots(reason))
}
