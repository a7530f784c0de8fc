// Package feedback tracks how users receive each construction and
// turns that history into score adjustments for the selector.
// Explicit signals come from /good and /bad commands; implicit ones
// from behavior such as thanking, rephrasing or abruptly leaving.
package feedback

import "time"

// ConstructionStats holds the feedback counters for one construction.
type ConstructionStats struct {
	ConstructionID string
	TotalUses      int
	ExplicitPos    int // /good
	ExplicitNeg    int // /bad
	ImplicitPos    int // user_thanked, conversation_continued
	ImplicitNeg    int // user_rephrased, user_complained, session_ended_abruptly
	CachedScore    float64
	LastUpdated    time.Time
}

// NewConstructionStats returns neutral stats for a construction.
func NewConstructionStats(constructionID string) *ConstructionStats {
	return &ConstructionStats{ConstructionID: constructionID, CachedScore: 0.5}
}

// TotalExplicit returns the explicit feedback count.
func (s *ConstructionStats) TotalExplicit() int { return s.ExplicitPos + s.ExplicitNeg }

// TotalImplicit returns the implicit feedback count.
func (s *ConstructionStats) TotalImplicit() int { return s.ImplicitPos + s.ImplicitNeg }

// TotalFeedback returns the combined feedback count.
func (s *ConstructionStats) TotalFeedback() int { return s.TotalExplicit() + s.TotalImplicit() }

// ExplicitRatio is the positive share of explicit feedback, 0.5 when
// none has arrived yet.
func (s *ConstructionStats) ExplicitRatio() float64 {
	if s.TotalExplicit() == 0 {
		return 0.5
	}
	return float64(s.ExplicitPos) / float64(s.TotalExplicit())
}

// ImplicitRatio is the positive share of implicit feedback, 0.5 when
// none has arrived yet.
func (s *ConstructionStats) ImplicitRatio() float64 {
	if s.TotalImplicit() == 0 {
		return 0.5
	}
	return float64(s.ImplicitPos) / float64(s.TotalImplicit())
}
