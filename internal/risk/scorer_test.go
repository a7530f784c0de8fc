package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soylem/internal/dialogue"
)

func benignPlan() *dialogue.MessagePlan {
	return &dialogue.MessagePlan{
		ID:            dialogue.NewPlanID(),
		DialogueActs:  []dialogue.Act{dialogue.ActGreet},
		Tone:          dialogue.ToneNeutral,
		ContentPoints: []string{"Selamla"},
		Confidence:    0.7,
	}
}

func benignSituation() *dialogue.SituationModel {
	return &dialogue.SituationModel{
		ID:                 dialogue.NewSituationID(),
		UnderstandingScore: 0.5,
	}
}

func TestAssess_BenignPlanIsLow(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	assessment := s.Assess(benignPlan(), benignSituation(), nil)
	require.NoError(t, assessment.Validate())
	// Only the neutral trust term contributes: 0.25 * 0.5
	assert.InDelta(t, 0.125, assessment.OverallScore, 1e-9)
	assert.Equal(t, LevelLow, assessment.Level)
	assert.Equal(t, "approve", assessment.Recommendation)
}

func TestAssess_EthicalRiskRaisesScore(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	situation := benignSituation()
	situation.Risks = []dialogue.Risk{
		{Category: "ethical", Level: 0.8, Description: "hile ifadesi"},
	}
	plan := benignPlan()
	plan.Constraints = []string{"Etik sinirlari asma, alternatif oner"}
	plan.DialogueActs = []dialogue.Act{dialogue.ActWarn}

	assessment := s.Assess(plan, situation, nil)
	// ethical = 0.8*0.5 + 0.2 constraints + 0.1 sensitive act = 0.7
	assert.InDelta(t, 0.7, assessment.EthicalScore, 1e-9)
	assert.NotEmpty(t, assessment.FactorsByCategory(CategoryEthical))
	assert.Greater(t, assessment.OverallScore, 0.25)
}

func TestAssess_TrustPenalties(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	situation := benignSituation()
	situation.UnderstandingScore = 0.3
	situation.Emotion = &dialogue.EmotionalState{Valence: -0.7}
	plan := benignPlan()
	plan.Confidence = 0.4
	plan.Tone = dialogue.ToneSerious

	assessment := s.Assess(plan, situation, nil)
	// -0.3 valence -0.2 understanding -0.2 confidence -0.1 serious tone
	assert.InDelta(t, -0.8, assessment.TrustImpact, 1e-9)
}

func TestAssess_SafetyEscalatesToCritical(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	situation := benignSituation()
	situation.Risks = []dialogue.Risk{
		{Category: "safety", Level: 0.9, Description: "intihar ifadesi algilandi"},
	}
	situation.Context = map[string]interface{}{
		"summary": "Kullanici mesaji: intihar etmek istiyorum",
	}

	assessment := s.Assess(benignPlan(), situation, nil)
	assert.Equal(t, LevelCritical, assessment.Level)
	assert.Equal(t, "reject", assessment.Recommendation)
	require.NotEmpty(t, assessment.FactorsByCategory(CategorySafety))
	assert.Contains(t, assessment.Reasoning, "Guvenlik oncelikli")
}

func TestAssess_StructuralConflicts(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	plan := benignPlan()
	plan.DialogueActs = []dialogue.Act{
		dialogue.ActRefuse, dialogue.ActSuggest, dialogue.ActComfort, dialogue.ActWarn,
	}
	plan.ContentPoints = []string{"a", "b", "c", "d", "e"}

	assessment := s.Assess(plan, benignSituation(), nil)
	// 0.2 too many acts + 0.3 refuse/suggest + 0.3 comfort/warn + 0.1 points
	assert.InDelta(t, 0.9, assessment.StructuralImpact, 1e-9)
}

func TestAssess_ScoresStayBounded(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	situation := benignSituation()
	situation.UnderstandingScore = 0.1
	situation.Emotion = &dialogue.EmotionalState{Valence: -1.0}
	situation.Risks = []dialogue.Risk{
		{Category: "safety", Level: 1.0, Description: "x"},
		{Category: "ethical", Level: 1.0, Description: "y"},
	}
	situation.KeyEntities = []string{"intihar"}
	plan := benignPlan()
	plan.Confidence = 0.1
	plan.Tone = dialogue.ToneSerious
	plan.DialogueActs = []dialogue.Act{
		dialogue.ActRefuse, dialogue.ActSuggest, dialogue.ActComfort,
		dialogue.ActWarn, dialogue.ActEncourage,
	}
	plan.Constraints = []string{"etik"}
	plan.ContentPoints = []string{"a", "b", "c", "d", "e"}

	assessment := s.Assess(plan, situation, nil)
	require.NoError(t, assessment.Validate())
	assert.LessOrEqual(t, assessment.OverallScore, 1.0)
	assert.GreaterOrEqual(t, assessment.EthicalScore, 0.0)
	assert.LessOrEqual(t, assessment.EthicalScore, 1.0)
	assert.GreaterOrEqual(t, assessment.TrustImpact, -1.0)
}

func TestAssess_ContextCarriesSafetyScore(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	assessment := s.Assess(benignPlan(), benignSituation(), map[string]interface{}{"turn": 3})
	assert.Equal(t, 3, assessment.Context["turn"])
	assert.Contains(t, assessment.Context, "safety_score")
	assert.Contains(t, assessment.Context, "situation_id")
}
