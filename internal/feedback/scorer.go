package feedback

import "math"

// Feedback weights. Explicit feedback counts in full; implicit
// positives are weak signals and implicit negatives slightly stronger,
// since a rephrase usually means the reply missed.
const (
	winExplicit  = 1.0
	lossExplicit = 1.0
	winImplicit  = 0.3
	lossImplicit = 0.5

	// Beta prior, keeps cold-start constructions neutral.
	priorWins   = 1.0
	priorLosses = 1.0

	// Uses needed before feedback reaches full influence.
	minSamplesForFullInfluence = 10
)

// WinsLosses returns the weighted positive and negative feedback mass.
func WinsLosses(stats *ConstructionStats) (wins, losses float64) {
	wins = float64(stats.ExplicitPos)*winExplicit + float64(stats.ImplicitPos)*winImplicit
	losses = float64(stats.ExplicitNeg)*lossExplicit + float64(stats.ImplicitNeg)*lossImplicit
	return wins, losses
}

// Mean computes the Beta posterior mean for the weighted counts.
// 0.5 is neutral, 1.0 strongly liked, 0.0 strongly disliked.
func Mean(wins, losses float64) float64 {
	alpha := wins + priorWins
	beta := losses + priorLosses
	return alpha / (alpha + beta)
}

// Influence ramps feedback impact from 0 at no uses to full impact at
// minSamplesForFullInfluence uses.
func Influence(totalUses int) float64 {
	if totalUses <= 0 {
		return 0.0
	}
	return math.Min(1.0, float64(totalUses)/float64(minSamplesForFullInfluence))
}

// Adjustment converts the feedback history into a base-score
// multiplier in [0.5, 1.5]. Little data keeps it near 1.0.
func Adjustment(stats *ConstructionStats) float64 {
	wins, losses := WinsLosses(stats)
	mean := Mean(wins, losses)
	influence := Influence(stats.TotalUses)

	// mean 0.0 -> factor 0.5, mean 0.5 -> 1.0, mean 1.0 -> 1.5
	factor := 0.5 + mean
	return 1.0 + influence*(factor-1.0)
}

// FinalScore applies the adjustment to a base score and returns the
// intermediate values so the decision stays explainable.
func FinalScore(base float64, stats *ConstructionStats) (float64, map[string]interface{}) {
	wins, losses := WinsLosses(stats)
	mean := Mean(wins, losses)
	influence := Influence(stats.TotalUses)
	adjustment := Adjustment(stats)
	final := base * adjustment

	metadata := map[string]interface{}{
		"base_score":    round4(base),
		"wins":          round2(wins),
		"losses":        round2(losses),
		"feedback_mean": round4(mean),
		"influence":     round4(influence),
		"adjustment":    round4(adjustment),
		"final_score":   round4(final),
		"total_uses":    stats.TotalUses,
		"explicit_pos":  stats.ExplicitPos,
		"explicit_neg":  stats.ExplicitNeg,
		"implicit_pos":  stats.ImplicitPos,
		"implicit_neg":  stats.ImplicitNeg,
	}
	return final, metadata
}

// Significant reports whether the feedback deviates enough from
// neutral, with enough data, to be worth acting on.
func Significant(stats *ConstructionStats, threshold float64) bool {
	wins, losses := WinsLosses(stats)
	mean := Mean(wins, losses)
	influence := Influence(stats.TotalUses)
	return math.Abs(mean-0.5) >= threshold && influence >= 0.3
}

// Sentiment buckets the feedback mean for display.
func Sentiment(stats *ConstructionStats) string {
	wins, losses := WinsLosses(stats)
	mean := Mean(wins, losses)
	switch {
	case mean >= 0.7:
		return "positive"
	case mean <= 0.3:
		return "negative"
	default:
		return "neutral"
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
