package construction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreConstruction_ExactActMatch(t *testing.T) {
	g := emptyGrammar()
	s := NewSelector(g, DefaultSelectorConfig(), nil)

	c := surfaceConstruction(t, "inform", "", 0.8)
	score := s.ScoreConstruction(c, "inform", "", nil, nil)

	assert.Equal(t, 1.0, score.DialogueActScore)
	// 1.0*0.4 + 0.5*0.25 + 0.5*0.15 + 0.8*0.2
	assert.InDelta(t, 0.76, score.TotalScore, 1e-9)
	assert.Contains(t, score.Reasons, "dialogue act match: inform")
}

func TestScoreConstruction_SimilarActPartialCredit(t *testing.T) {
	g := emptyGrammar()
	s := NewSelector(g, DefaultSelectorConfig(), nil)

	explain := surfaceConstruction(t, "explain", "", 0.8)
	score := s.ScoreConstruction(explain, "inform", "", nil, nil)
	assert.InDelta(t, 0.6, score.DialogueActScore, 1e-9)

	// warn softens into advise but advise never hardens into warn
	advise := surfaceConstruction(t, "advise", "", 0.8)
	assert.InDelta(t, 0.6, s.ScoreConstruction(advise, "warn", "", nil, nil).DialogueActScore, 1e-9)
	warn := surfaceConstruction(t, "warn", "", 0.8)
	assert.Zero(t, s.ScoreConstruction(warn, "advise", "", nil, nil).DialogueActScore)
}

func TestScoreConstruction_ToneMatching(t *testing.T) {
	g := emptyGrammar()
	s := NewSelector(g, DefaultSelectorConfig(), nil)

	tests := []struct {
		constructionTone string
		requested        string
		want             float64
	}{
		{"empathic", "empathic", 1.0},
		{"supportive", "empathic", 0.7},
		{"serious", "empathic", 0.3},
		{"", "empathic", 0.5},
	}
	for _, tt := range tests {
		c := surfaceConstruction(t, "empathize", tt.constructionTone, 0.8)
		score := s.ScoreConstruction(c, "empathize", tt.requested, nil, nil)
		if score.ToneScore != tt.want {
			t.Errorf("tone %q vs %q: ToneScore = %v, want %v",
				tt.constructionTone, tt.requested, score.ToneScore, tt.want)
		}
	}
}

func TestScoreConstruction_MVCSBoost(t *testing.T) {
	g := emptyGrammar()
	s := NewSelector(g, DefaultSelectorConfig(), nil)

	c := surfaceConstruction(t, "greet", "", 0.6)
	plain := s.ScoreConstruction(c, "greet", "", nil, nil)

	c.Extra.IsMVCS = true
	c.Extra.MVCSCategory = string(MVCSGreet)
	boosted := s.ScoreConstruction(c, "greet", "", nil, nil)
	assert.InDelta(t, 0.15, boosted.TotalScore-plain.TotalScore, 1e-9)

	withIntent := s.ScoreConstruction(c, "greet", "", nil, map[string]interface{}{"intent": "greeting"})
	assert.InDelta(t, 0.25, withIntent.TotalScore-plain.TotalScore, 1e-9)
	assert.Contains(t, withIntent.Reasons, "category match: greet")
}

func TestScoreConstruction_ConstraintBonus(t *testing.T) {
	g := emptyGrammar()
	s := NewSelector(g, DefaultSelectorConfig(), nil)

	c := surfaceConstruction(t, "empathize", "empathic", 0.8)
	score := s.ScoreConstruction(c, "empathize", "", []string{"Empatik ve anlayisli ol"}, nil)
	// no declared constraints on the construction: 0.3 base + 0.2 tone keyword bonus
	assert.InDelta(t, 0.5, score.ConstraintScore, 1e-9)

	c.Extra.Constraints = []string{"Empatik ve anlayisli ol"}
	score = s.ScoreConstruction(c, "empathize", "", []string{"Empatik ve anlayisli ol"}, nil)
	// full match ratio 1.0 + 0.2 bonus, clamped
	assert.InDelta(t, 1.0, score.ConstraintScore, 1e-9)
}

func TestSelect_RanksSeedGreetingsFirst(t *testing.T) {
	g := NewGrammar(DefaultGrammarConfig())
	s := NewSelector(g, DefaultSelectorConfig(), nil)

	result := s.Select([]string{"greet"}, "friendly", nil, map[string]interface{}{"intent": "greeting"})
	require.NotNil(t, result.Best())
	best := result.Best()
	assert.True(t, best.Construction.Extra.IsMVCS, "seed construction should win for greet")
	assert.Equal(t, "greet", best.Construction.Meaning.DialogueAct)
	assert.NotZero(t, result.LevelCounts[LevelSurface])
}

func TestSelect_ThresholdFiltersWeakCandidates(t *testing.T) {
	g := emptyGrammar()
	weak := surfaceConstruction(t, "inform", "serious", 0.0)
	require.True(t, g.Add(weak))

	config := DefaultSelectorConfig()
	config.MinScoreThreshold = 0.9
	s := NewSelector(g, config, nil)

	result := s.Select([]string{"inform"}, "casual", nil, nil)
	assert.Empty(t, result.Selected)
	assert.Len(t, result.AllScores, 1, "scoring trace should still carry the candidate")
}

func TestSelect_DeduplicatesAcrossActs(t *testing.T) {
	g := emptyGrammar()
	c := surfaceConstruction(t, "inform", "", 0.9)
	require.True(t, g.Add(c))
	s := NewSelector(g, DefaultSelectorConfig(), nil)

	// "inform" matches exactly and "explain" matches by similarity.
	result := s.Select([]string{"inform", "explain"}, "", nil, nil)
	require.Len(t, result.Selected, 1)
	assert.Equal(t, c.ID, result.Selected[0].Construction.ID)
}

func TestBestForAct(t *testing.T) {
	g := NewGrammar(DefaultGrammarConfig())
	s := NewSelector(g, DefaultSelectorConfig(), nil)

	best := s.BestForAct("refuse", "polite")
	require.NotNil(t, best)
	assert.Equal(t, "refuse", best.Construction.Meaning.DialogueAct)

	assert.Nil(t, s.BestForAct("no_such_act", ""))
}

type stubFeedback struct {
	adjustments map[string]float64
	means       map[string]float64
}

func (f *stubFeedback) FinalScore(id string, base float64) (float64, map[string]interface{}, bool) {
	adj, ok := f.adjustments[id]
	if !ok {
		return 0, nil, false
	}
	final := base * adj
	return final, map[string]interface{}{
		"feedback_mean": f.means[id],
		"adjustment":    adj,
		"base_score":    base,
		"final_score":   final,
		"total_uses":    10,
	}, true
}

func TestSelect_FeedbackRerank(t *testing.T) {
	g := emptyGrammar()
	liked := surfaceConstruction(t, "inform", "", 0.6)
	disliked := surfaceConstruction(t, "inform", "", 0.8)
	require.True(t, g.Add(liked))
	require.True(t, g.Add(disliked))

	feedback := &stubFeedback{
		adjustments: map[string]float64{liked.ID: 1.4, disliked.ID: 0.6},
		means:       map[string]float64{liked.ID: 0.9, disliked.ID: 0.1},
	}
	s := NewSelector(g, DefaultSelectorConfig(), feedback)

	result := s.Select([]string{"inform"}, "", nil, nil)
	require.Len(t, result.Selected, 2)
	assert.Equal(t, liked.ID, result.Selected[0].Construction.ID,
		"well-rated construction should outrank the higher-confidence one")

	var boostSeen, penaltySeen bool
	for _, reason := range result.Selected[0].Reasons {
		if strings.HasPrefix(reason, "feedback boost") {
			boostSeen = true
		}
	}
	for _, reason := range result.Selected[1].Reasons {
		if strings.HasPrefix(reason, "feedback penalty") {
			penaltySeen = true
		}
	}
	assert.True(t, boostSeen, "boost reason missing: %v", result.Selected[0].Reasons)
	assert.True(t, penaltySeen, "penalty reason missing: %v", result.Selected[1].Reasons)
}

func TestSelect_FeedbackMetadataWithoutStats(t *testing.T) {
	g := emptyGrammar()
	c := surfaceConstruction(t, "inform", "", 0.8)
	require.True(t, g.Add(c))

	s := NewSelector(g, DefaultSelectorConfig(), &stubFeedback{})
	result := s.Select([]string{"inform"}, "", nil, nil)
	require.Len(t, result.Selected, 1)

	metadata := result.Selected[0].FeedbackMetadata
	require.NotNil(t, metadata)
	assert.Equal(t, 1.0, metadata["adjustment"])
	assert.Equal(t, 0, metadata["total_uses"])
}
