package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assessmentAt(level Level, factors ...Factor) *Assessment {
	return &Assessment{
		ID:           NewAssessmentID(),
		Level:        level,
		OverallScore: 0.4,
		Factors:      factors,
	}
}

func TestApprove_AutoForLow(t *testing.T) {
	a := NewApprover(DefaultApproverConfig())

	result := a.Approve(assessmentAt(LevelLow))
	assert.Equal(t, DecisionApproved, result.Decision)
	assert.Equal(t, "auto", result.Approver)
	assert.True(t, result.Approved())
	assert.Empty(t, result.Modifications)
}

func TestApprove_SelfForMedium(t *testing.T) {
	a := NewApprover(DefaultApproverConfig())

	// No factors above 0.5: plain self approval
	result := a.Approve(assessmentAt(LevelMedium))
	assert.Equal(t, DecisionApproved, result.Decision)
	assert.Equal(t, "self", result.Approver)
}

func TestApprove_SelfSuggestsModifications(t *testing.T) {
	a := NewApprover(DefaultApproverConfig())

	assessment := assessmentAt(LevelMedium,
		Factor{ID: NewFactorID(), Category: CategoryEmotional, Score: 0.6},
		Factor{ID: NewFactorID(), Category: CategoryEmotional, Score: 0.8},
		Factor{ID: NewFactorID(), Category: CategorySafety, Score: 0.7},
		Factor{ID: NewFactorID(), Category: CategoryFactual, Score: 0.3},
	)
	result := a.Approve(assessment)
	assert.Equal(t, DecisionApprovedWithMods, result.Decision)
	assert.Equal(t, "self", result.Approver)
	// Deduplicated per category, low-scoring factual factor skipped
	require.Len(t, result.Modifications, 2)
	assert.Contains(t, result.Modifications, "Tonu yumusat")
	assert.Contains(t, result.Modifications, "Profesyonel yardim bilgisi ekle")
}

func TestApprove_StructuralReviewForHigh(t *testing.T) {
	a := NewApprover(DefaultApproverConfig())

	withSuggestions := a.Approve(assessmentAt(LevelHigh,
		Factor{ID: NewFactorID(), Category: CategoryEthical, Score: 0.8},
	))
	assert.Equal(t, DecisionApprovedWithMods, withSuggestions.Decision)
	assert.Equal(t, "metamind", withSuggestions.Approver)

	withoutSuggestions := a.Approve(assessmentAt(LevelHigh))
	assert.Equal(t, DecisionNeedsReview, withoutSuggestions.Decision)
	assert.Equal(t, "metamind", withoutSuggestions.Approver)
}

func TestApprove_RejectsCritical(t *testing.T) {
	a := NewApprover(DefaultApproverConfig())

	result := a.Approve(assessmentAt(LevelCritical))
	assert.Equal(t, DecisionRejected, result.Decision)
	assert.False(t, result.Approved())
}

func TestApprove_StrictThresholds(t *testing.T) {
	config := DefaultApproverConfig()
	config.AutoApproveThreshold = LevelLow
	config.SelfApproveThreshold = LevelLow
	a := NewApprover(config)

	// Medium now goes to structural review instead of self approval
	result := a.Approve(assessmentAt(LevelMedium))
	assert.Equal(t, "metamind", result.Approver)
}

func TestOverride(t *testing.T) {
	a := NewApprover(DefaultApproverConfig())

	assessment := assessmentAt(LevelCritical)
	rejected := a.Approve(assessment)
	require.Equal(t, DecisionRejected, rejected.Decision)

	overridden := a.Override(assessment, DecisionApproved, "operator onayi")
	assert.Equal(t, DecisionApproved, overridden.Decision)
	assert.Equal(t, "human", overridden.Approver)
	assert.Contains(t, overridden.Reasoning, "operator onayi")
}

func TestFlow(t *testing.T) {
	a := NewApprover(DefaultApproverConfig())

	tests := []struct {
		level Level
		flow  string
	}{
		{LevelLow, "auto"},
		{LevelMedium, "self"},
		{LevelHigh, "metamind"},
		{LevelCritical, "human"},
	}
	for _, tt := range tests {
		if got := a.Flow(tt.level); got != tt.flow {
			t.Errorf("Flow(%s) = %q, want %q", tt.level, got, tt.flow)
		}
	}
}
