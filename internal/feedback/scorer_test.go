package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean_NeutralWithoutFeedback(t *testing.T) {
	stats := NewConstructionStats("cons_x")
	wins, losses := WinsLosses(stats)
	if wins != 0 || losses != 0 {
		t.Fatalf("wins, losses = %v, %v, want 0, 0", wins, losses)
	}
	if got := Mean(wins, losses); got != 0.5 {
		t.Fatalf("Mean = %v, want 0.5 prior", got)
	}
}

func TestWinsLosses_Weights(t *testing.T) {
	stats := NewConstructionStats("cons_x")
	stats.ExplicitPos = 2
	stats.ExplicitNeg = 1
	stats.ImplicitPos = 2
	stats.ImplicitNeg = 2

	wins, losses := WinsLosses(stats)
	// explicit full weight, implicit 0.3 positive / 0.5 negative
	assert.InDelta(t, 2.6, wins, 1e-9)
	assert.InDelta(t, 2.0, losses, 1e-9)
}

func TestInfluence_RampsUp(t *testing.T) {
	tests := []struct {
		uses int
		want float64
	}{
		{0, 0.0},
		{1, 0.1},
		{5, 0.5},
		{10, 1.0},
		{25, 1.0},
	}
	for _, tt := range tests {
		if got := Influence(tt.uses); got != tt.want {
			t.Errorf("Influence(%d) = %v, want %v", tt.uses, got, tt.want)
		}
	}
}

func TestAdjustment_LikedConstruction(t *testing.T) {
	stats := NewConstructionStats("cons_x")
	stats.TotalUses = 10
	stats.ExplicitPos = 3

	// mean = 4/5 = 0.8, factor = 1.3, full influence
	assert.InDelta(t, 1.3, Adjustment(stats), 1e-9)
}

func TestAdjustment_DislikedConstruction(t *testing.T) {
	stats := NewConstructionStats("cons_x")
	stats.TotalUses = 10
	stats.ExplicitNeg = 4

	// mean = 1/6, factor = 2/3, full influence
	adjustment := Adjustment(stats)
	assert.Less(t, adjustment, 1.0)
	assert.InDelta(t, 2.0/3.0, adjustment, 1e-9)
}

func TestAdjustment_LowDataStaysNeutral(t *testing.T) {
	stats := NewConstructionStats("cons_x")
	stats.TotalUses = 1
	stats.ExplicitNeg = 1

	// mean = 1/3, factor = 5/6, influence 0.1
	adjustment := Adjustment(stats)
	assert.InDelta(t, 1.0+0.1*(5.0/6.0-1.0), adjustment, 1e-9)
	assert.Greater(t, adjustment, 0.95, "a single bad vote should barely move the score")
}

func TestAdjustment_Bounds(t *testing.T) {
	loved := NewConstructionStats("cons_loved")
	loved.TotalUses = 100
	loved.ExplicitPos = 100
	assert.LessOrEqual(t, Adjustment(loved), 1.5)

	hated := NewConstructionStats("cons_hated")
	hated.TotalUses = 100
	hated.ExplicitNeg = 100
	assert.GreaterOrEqual(t, Adjustment(hated), 0.5)
}

func TestFinalScore_Metadata(t *testing.T) {
	stats := NewConstructionStats("cons_x")
	stats.TotalUses = 10
	stats.ExplicitPos = 3

	final, metadata := FinalScore(0.8, stats)
	assert.InDelta(t, 1.04, final, 1e-9)
	assert.Equal(t, 0.8, metadata["feedback_mean"])
	assert.Equal(t, 1.3, metadata["adjustment"])
	assert.Equal(t, 0.8, metadata["base_score"])
	assert.Equal(t, 10, metadata["total_uses"])
}

func TestSignificant(t *testing.T) {
	fresh := NewConstructionStats("cons_x")
	assert.False(t, Significant(fresh, 0.1))

	lowData := NewConstructionStats("cons_y")
	lowData.TotalUses = 1
	lowData.ExplicitNeg = 1
	assert.False(t, Significant(lowData, 0.1), "single use should not be significant")

	disliked := NewConstructionStats("cons_z")
	disliked.TotalUses = 10
	disliked.ExplicitNeg = 4
	assert.True(t, Significant(disliked, 0.1))
}

func TestSentiment(t *testing.T) {
	positive := NewConstructionStats("cons_a")
	positive.TotalUses = 10
	positive.ExplicitPos = 5
	assert.Equal(t, "positive", Sentiment(positive))

	negative := NewConstructionStats("cons_b")
	negative.TotalUses = 10
	negative.ExplicitNeg = 5
	assert.Equal(t, "negative", Sentiment(negative))

	assert.Equal(t, "neutral", Sentiment(NewConstructionStats("cons_c")))
}

func TestRatios(t *testing.T) {
	stats := NewConstructionStats("cons_x")
	assert.Equal(t, 0.5, stats.ExplicitRatio())
	assert.Equal(t, 0.5, stats.ImplicitRatio())

	stats.ExplicitPos = 3
	stats.ExplicitNeg = 1
	assert.InDelta(t, 0.75, stats.ExplicitRatio(), 1e-9)
	assert.Equal(t, 4, stats.TotalFeedback())
}
