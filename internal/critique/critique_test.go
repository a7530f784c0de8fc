package critique

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soylem/internal/dialogue"
)

func newCritic() *Critic {
	return NewCritic(DefaultConfig())
}

func basicPlan(tone dialogue.Tone) *dialogue.MessagePlan {
	return &dialogue.MessagePlan{
		ID:           "plan_test",
		DialogueActs: []dialogue.Act{dialogue.ActInform},
		Tone:         tone,
	}
}

func TestCritique_DisabledPassesEverything(t *testing.T) {
	config := DefaultConfig()
	config.Enabled = false
	critic := NewCritic(config)

	result := critic.Critique("aptal", basicPlan(dialogue.ToneNeutral), nil)
	assert.True(t, result.Passed)
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, true, result.Details["skipped"])
}

func TestCritique_CleanOutputPasses(t *testing.T) {
	critic := newCritic()
	result := critic.Critique("Hava durumu hakkinda bilgi verebilirim.", basicPlan(dialogue.ToneNeutral), nil)

	assert.True(t, result.Passed)
	assert.GreaterOrEqual(t, result.Score, 0.6)
	assert.Empty(t, result.Violations)
	assert.Empty(t, result.RevisedOutput)
}

func TestCheckToneMatch(t *testing.T) {
	critic := newCritic()

	tests := []struct {
		name   string
		output string
		tone   dialogue.Tone
		want   float64
	}{
		{"empathic match", "Seni anliyorum, bu gercekten zor bir durum.", dialogue.ToneEmpathic, 0.9},
		{"empathic single match", "Seni anliyorum.", dialogue.ToneEmpathic, 0.8},
		{"empathic violation", "Sakin ol, onemli degil.", dialogue.ToneEmpathic, 0.1},
		{"neutral no keywords", "Bugun hava gunesli.", dialogue.ToneNeutral, 0.6},
		{"cautious violation", "Bu kesinlikle calisir, garanti ederim.", dialogue.ToneCautious, 0.1},
		{"cautious match", "Bu belki ise yarayabilir, muhtemelen dikkat etmek gerekir.", dialogue.ToneCautious, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := critic.checkToneMatch(tt.output, basicPlan(tt.tone))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCheckContentCoverage(t *testing.T) {
	critic := newCritic()
	plan := basicPlan(dialogue.ToneNeutral)
	plan.ContentPoints = []string{"hava durumu", "yagmur ihtimali"}

	full := critic.checkContentCoverage("Bugun hava durumu guzel, yagmur beklenmiyor.", plan)
	assert.InDelta(t, 1.0, full, 1e-9)

	half := critic.checkContentCoverage("Bugun hava durumu guzel.", plan)
	assert.InDelta(t, 0.5, half, 1e-9)

	none := critic.checkContentCoverage("Merhaba, size nasil yardimci olabilirim?", plan)
	assert.InDelta(t, 0.0, none, 1e-9)

	// short words (<= 3 chars) never count as coverage
	plan.ContentPoints = []string{"ya da ama"}
	assert.InDelta(t, 0.0, critic.checkContentCoverage("ya da ama", plan), 1e-9)
}

func TestCritique_LowCoverageAddsSuggestions(t *testing.T) {
	critic := newCritic()
	plan := basicPlan(dialogue.ToneNeutral)
	plan.ContentPoints = []string{"hava durumu", "yagmur ihtimali", "sicaklik degerleri"}

	result := critic.Critique("Merhaba, bugun gunlerden cuma.", plan, nil)

	require.NotEmpty(t, result.Violations)
	foundCoverage := false
	for _, v := range result.Violations {
		if strings.HasPrefix(v, "Dusuk icerik kapsama") {
			foundCoverage = true
		}
	}
	assert.True(t, foundCoverage)

	missing := 0
	for _, imp := range result.Improvements {
		if strings.HasPrefix(imp, "Icerik noktasi eksik:") {
			missing++
		}
	}
	assert.Equal(t, 3, missing)
}

func TestCheckConstraintViolations_Forbidden(t *testing.T) {
	critic := newCritic()
	plan := basicPlan(dialogue.ToneNeutral)
	plan.Constraints = []string{"'garanti' kelimesini kullanma"}

	violations := critic.checkConstraintViolations("Size garanti veriyorum.", plan)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "garanti")

	clean := critic.checkConstraintViolations("Size yardimci olabilirim.", plan)
	assert.Empty(t, clean)
}

func TestCheckConstraintViolations_UnquotedForbiddenWord(t *testing.T) {
	critic := newCritic()
	plan := basicPlan(dialogue.ToneNeutral)
	plan.Constraints = []string{"kesinlikle kelimesini kullanma"}

	violations := critic.checkConstraintViolations("Bu kesinlikle boyle.", plan)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "kesinlikle")
}

func TestCheckConstraintViolations_Honesty(t *testing.T) {
	critic := newCritic()
	plan := basicPlan(dialogue.ToneNeutral)
	plan.Constraints = []string{"durust ol"}

	violations := critic.checkConstraintViolations("Bu yontem garanti calisir.", plan)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "Etik kisit ihlali")
}

func TestCritique_EthicalViolationFailsRegardlessOfScore(t *testing.T) {
	critic := newCritic()
	plan := basicPlan(dialogue.ToneNeutral)
	plan.Constraints = []string{"seffaf ol"}

	result := critic.Critique("Size kesinlikle yardimci olabilecegimi dusunuyorum, cok guzel bir gun.", plan, nil)
	assert.False(t, result.Passed, "an ethical violation must fail the critique even with a high score")
	assert.True(t, result.HasCriticalViolation())
}

func TestCheckProblematicPatterns(t *testing.T) {
	issues := checkProblematicPatterns("Sen bir aptalsin ve bu kesinlikle dogru.")
	require.Len(t, issues, 2, "one violation per category")
	assert.Contains(t, issues[0], "offensive")
	assert.Contains(t, issues[1], "misleading")

	assert.Empty(t, checkProblematicPatterns("Bugun hava cok guzel."))
}

func TestCheckLength(t *testing.T) {
	plan := basicPlan(dialogue.ToneNeutral)

	ok, _ := checkLength("Merhaba, nasilsiniz?", plan)
	assert.True(t, ok)

	ok, reason := checkLength("Kisa", plan)
	assert.False(t, ok)
	assert.Contains(t, reason, "kisa")

	ok, _ = checkLength(strings.Repeat("a", 2001), plan)
	assert.False(t, ok)

	plan.ContentPoints = []string{"bir", "iki", "uc"}
	ok, reason = checkLength("Kisa bir cevap.", plan)
	assert.False(t, ok)
	assert.Contains(t, reason, "60")
}

func TestRevise_StripsProblematicPhrases(t *testing.T) {
	critic := newCritic()
	revised := critic.Revise(
		"Sen aptal degilsin, sadece yorgunsun.",
		[]string{"Problematik ifadeleri kaldir veya yeniden yaz"},
		basicPlan(dialogue.ToneNeutral),
	)
	assert.NotContains(t, revised, "aptal")
	assert.Contains(t, revised, "yorgunsun")
}

func TestRevise_PrependsEmpathy(t *testing.T) {
	critic := newCritic()
	plan := basicPlan(dialogue.ToneEmpathic)

	revised := critic.Revise("Bu gecer.", []string{"Daha anlayisli ve sicak ifadeler kullan"}, plan)
	assert.True(t, strings.HasPrefix(revised, "Anliyorum. "))

	// already empathetic text stays untouched
	already := critic.Revise("Seni anliyorum, bu gecer.", []string{"Daha anlayisli ve sicak ifadeler kullan"}, plan)
	assert.False(t, strings.HasPrefix(already, "Anliyorum. Seni"))
}

func TestRevise_ShortensLongOutput(t *testing.T) {
	critic := newCritic()
	long := strings.Repeat("Bu cumle dolgu malzemesi olarak burada duruyor. ", 15)
	long = strings.TrimSpace(long)

	revised := critic.Revise(long, []string{"Mesaji kisalt veya uzat"}, basicPlan(dialogue.ToneNeutral))
	assert.Less(t, len(revised), len(long))
	assert.True(t, strings.HasSuffix(revised, "."))
}

func TestCritique_AutoReviseProducesOutput(t *testing.T) {
	critic := newCritic()
	plan := basicPlan(dialogue.ToneEmpathic)
	plan.ContentPoints = []string{"isini kaybetmis olmasi", "gelecek kaygisi"}

	result := critic.Critique("Sakin ol, onemli degil. Sen aptal misin?", plan, nil)
	require.False(t, result.Passed)
	require.NotEmpty(t, result.Improvements)
	assert.NotEmpty(t, result.RevisedOutput)
	assert.NotContains(t, result.RevisedOutput, "aptal")
}

func TestResult_NeedsRevision(t *testing.T) {
	failed := Result{Passed: false, Improvements: []string{"Mesaji kisalt veya uzat"}}
	assert.True(t, failed.NeedsRevision())

	passed := Result{Passed: true, Improvements: []string{"x"}}
	assert.False(t, passed.NeedsRevision())

	noIdeas := Result{Passed: false}
	assert.False(t, noIdeas.NeedsRevision())
}

func TestResult_HasCriticalViolation(t *testing.T) {
	critical := Result{Violations: []string{"Etik kisit ihlali: 'garanti' yaniltici olabilir"}}
	assert.True(t, critical.HasCriticalViolation())

	benign := Result{Violations: []string{"Uzunluk sorunu: Cok kisa (< 10 karakter)"}}
	assert.False(t, benign.HasCriticalViolation())
}

func TestSummary(t *testing.T) {
	critic := newCritic()

	ok := critic.Summary(Result{Passed: true, Score: 0.85})
	assert.Equal(t, "Onaylandi (skor: 0.85)", ok)

	bad := critic.Summary(Result{Passed: false, Score: 0.4, Violations: []string{"a", "b"}, RevisedOutput: "x"})
	assert.Equal(t, "Basarisiz (skor: 0.40), 2 ihlal, revize edildi", bad)
}
