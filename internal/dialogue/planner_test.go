package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectionOf(acts ...Act) ActSelection {
	scored := make([]ScoredAct, len(acts))
	for i, a := range acts {
		scored[i] = ScoredAct{Act: a, Score: 0.8}
	}
	return ActSelection{Acts: scored, Confidence: 0.7}
}

func TestPlan_Basic(t *testing.T) {
	p := NewMessagePlanner(DefaultMessagePlannerConfig())

	situation := greetingSituation(0.9)
	plan := p.Plan(selectionOf(ActGreet), situation, nil)

	require.NoError(t, plan.Validate())
	assert.Equal(t, []Act{ActGreet}, plan.DialogueActs)
	assert.Equal(t, situation.ID, plan.SituationID)
	assert.Contains(t, plan.PrimaryIntent, "greeting")
	assert.Equal(t, ToneNeutral, plan.Tone)
	assert.NotEmpty(t, plan.ContentPoints)
	assert.Contains(t, plan.Constraints, "Durust ve seffaf ol")
}

func TestPlan_CautiousToneOnHighRisk(t *testing.T) {
	p := NewMessagePlanner(DefaultMessagePlannerConfig())

	situation := &SituationModel{
		ID:                 NewSituationID(),
		Risks:              []Risk{{Category: "safety", Level: 0.9}},
		UnderstandingScore: 0.5,
	}
	plan := p.Plan(selectionOf(ActWarn), situation, nil)
	assert.Equal(t, ToneCautious, plan.Tone)
	assert.InDelta(t, 0.9, plan.RiskLevel, 1e-9)
	assert.Contains(t, plan.ContentPoints, "Risk konusunda dikkatli ol: safety")
}

func TestPlan_ToneFromEmotion(t *testing.T) {
	p := NewMessagePlanner(DefaultMessagePlannerConfig())

	tests := []struct {
		valence float64
		tone    Tone
	}{
		{-0.7, ToneSupportive},
		{-0.3, ToneEmpathic},
		{0.6, ToneEnthusiastic},
		{0.3, ToneCasual},
	}
	for _, tt := range tests {
		situation := &SituationModel{
			ID:                 NewSituationID(),
			Emotion:            &EmotionalState{Valence: tt.valence},
			UnderstandingScore: 0.5,
		}
		plan := p.Plan(selectionOf(ActAcknowledge), situation, nil)
		if plan.Tone != tt.tone {
			t.Errorf("valence %v: Tone = %q, want %q", tt.valence, plan.Tone, tt.tone)
		}
	}
}

func TestPlan_ToneFromAct(t *testing.T) {
	p := NewMessagePlanner(DefaultMessagePlannerConfig())
	situation := &SituationModel{ID: NewSituationID(), UnderstandingScore: 0.5}

	tests := []struct {
		act  Act
		tone Tone
	}{
		{ActEmpathize, ToneEmpathic},
		{ActWarn, ToneSerious},
		{ActRefuse, ToneFormal},
	}
	for _, tt := range tests {
		plan := p.Plan(selectionOf(tt.act), situation, nil)
		if plan.Tone != tt.tone {
			t.Errorf("act %s: Tone = %q, want %q", tt.act, plan.Tone, tt.tone)
		}
	}
}

func TestPlan_FormalToneForFormalTopics(t *testing.T) {
	p := NewMessagePlanner(DefaultMessagePlannerConfig())

	situation := &SituationModel{
		ID:                 NewSituationID(),
		TopicDomain:        "health",
		UnderstandingScore: 0.5,
	}
	plan := p.Plan(selectionOf(ActInform), situation, nil)
	assert.Equal(t, ToneFormal, plan.Tone)
}

func TestPlan_EmotionalSupportFollowsLeadPoint(t *testing.T) {
	p := NewMessagePlanner(DefaultMessagePlannerConfig())

	situation := &SituationModel{
		ID:                 NewSituationID(),
		Emotion:            &EmotionalState{Valence: -0.4, PrimaryEmotion: "negative"},
		UnderstandingScore: 0.5,
	}
	plan := p.Plan(selectionOf(ActInform), situation, nil)
	require.GreaterOrEqual(t, len(plan.ContentPoints), 2)
	assert.Equal(t, "Istenen bilgiyi ver", plan.ContentPoints[0])
	assert.Equal(t, "Kullanicinin duygusal durumunu kabul et", plan.ContentPoints[1])
}

func TestPlan_SecondaryActsBecomeOptionalPoints(t *testing.T) {
	p := NewMessagePlanner(DefaultMessagePlannerConfig())

	selection := ActSelection{
		Acts: []ScoredAct{{Act: ActInform, Score: 0.7}},
		SecondaryActs: []ScoredAct{
			{Act: ActExplain, Score: 0.4},
			{Act: ActInform, Score: 0.35},
		},
		Confidence: 0.6,
	}
	plan := p.Plan(selection, &SituationModel{ID: NewSituationID(), UnderstandingScore: 0.5}, nil)

	assert.Equal(t, []string{"Istenen bilgiyi ver"}, plan.ContentPoints)
	// the duplicate inform point is skipped, explain survives
	assert.Equal(t, []string{"Konuyu detayli acikla"}, plan.OptionalPoints)
}

func TestPlan_ActsNeverEmpty(t *testing.T) {
	p := NewMessagePlanner(DefaultMessagePlannerConfig())

	plan := p.Plan(ActSelection{}, &SituationModel{ID: NewSituationID()}, nil)
	require.NoError(t, plan.Validate())
	assert.Equal(t, []Act{ActAcknowledge}, plan.DialogueActs)
}

func TestUpdatePlan_Immutable(t *testing.T) {
	p := NewMessagePlanner(DefaultMessagePlannerConfig())

	original := p.Plan(selectionOf(ActInform), greetingSituation(0.8), nil)
	originalTone := original.Tone
	originalPoints := len(original.ContentPoints)

	updated := p.UpdatePlan(original, ToneFormal, []string{"Ek nokta"}, nil, nil)

	assert.NotEqual(t, original.ID, updated.ID)
	assert.Equal(t, ToneFormal, updated.Tone)
	assert.Equal(t, original.ID, updated.Context["original_plan_id"])
	assert.Len(t, updated.ContentPoints, originalPoints+1)

	// Original untouched
	assert.Equal(t, originalTone, original.Tone)
	assert.Len(t, original.ContentPoints, originalPoints)
	_, hadKey := original.Context["original_plan_id"]
	assert.False(t, hadKey)
}

func TestPlan_ConfidenceBounded(t *testing.T) {
	p := NewMessagePlanner(DefaultMessagePlannerConfig())

	situation := &SituationModel{
		ID:                 NewSituationID(),
		Risks:              []Risk{{Category: "safety", Level: 0.9}},
		UnderstandingScore: 1.0,
	}
	selection := selectionOf(ActWarn, ActEmpathize)
	selection.Confidence = 1.0
	plan := p.Plan(selection, situation, nil)
	assert.GreaterOrEqual(t, plan.Confidence, 0.0)
	assert.LessOrEqual(t, plan.Confidence, 1.0)
}
