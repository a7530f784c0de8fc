// Package risk scores a message plan for ethical, trust, safety and
// structural risk and gates it through a tiered internal approval
// process before anything is said out loud.
package risk

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Level is a discrete risk severity.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

var levelOrder = map[Level]int{
	LevelLow:      0,
	LevelMedium:   1,
	LevelHigh:     2,
	LevelCritical: 3,
}

// Order returns the ordinal of the level, LOW < MEDIUM < HIGH < CRITICAL.
func (l Level) Order() int {
	return levelOrder[l]
}

// AtMost reports whether l is at or below the other level.
func (l Level) AtMost(other Level) bool {
	return l.Order() <= other.Order()
}

// LevelFromScore maps an overall score to a level. Boundary values
// fall into the higher level: 0.25 is MEDIUM, 0.50 HIGH, 0.75 CRITICAL.
func LevelFromScore(score float64) Level {
	switch {
	case score < 0.25:
		return LevelLow
	case score < 0.50:
		return LevelMedium
	case score < 0.75:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// Category is the source domain of a risk factor.
type Category string

const (
	CategoryEthical   Category = "ethical"   // value violations
	CategoryEmotional Category = "emotional" // emotional harm potential
	CategoryFactual   Category = "factual"   // wrong or misleading content
	CategorySafety    Category = "safety"    // physical or digital safety
	CategoryPrivacy   Category = "privacy"   // personal data exposure
	CategoryBoundary  Category = "boundary"  // role or competence overstep
)

// Factor is one contributing risk signal.
type Factor struct {
	ID          string
	Category    Category
	Description string
	Score       float64 // 0.0-1.0
	Source      string  // "situation" or "plan"
}

// Assessment is the full risk evaluation of one message plan.
type Assessment struct {
	ID               string
	Level            Level
	OverallScore     float64 // 0.0-1.0
	EthicalScore     float64 // 0.0-1.0
	TrustImpact      float64 // -1.0-1.0, negative means trust loss risk
	StructuralImpact float64 // 0.0-1.0
	Factors          []Factor
	Recommendation   string // approve, review, modify, reject
	Reasoning        string
	MessagePlanID    string
	Context          map[string]interface{}
}

// Validate checks assessment invariants.
func (a *Assessment) Validate() error {
	if a.OverallScore < 0.0 || a.OverallScore > 1.0 {
		return fmt.Errorf("assessment %s overall score %v out of [0,1]", a.ID, a.OverallScore)
	}
	if a.TrustImpact < -1.0 || a.TrustImpact > 1.0 {
		return fmt.Errorf("assessment %s trust impact %v out of [-1,1]", a.ID, a.TrustImpact)
	}
	return nil
}

// FactorsByCategory returns factors filtered by category.
func (a *Assessment) FactorsByCategory(category Category) []Factor {
	var out []Factor
	for _, f := range a.Factors {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

// HighestFactor returns the top-scoring factor, or nil when none exist.
func (a *Assessment) HighestFactor() *Factor {
	var highest *Factor
	for i := range a.Factors {
		if highest == nil || a.Factors[i].Score > highest.Score {
			highest = &a.Factors[i]
		}
	}
	return highest
}

// Decision is the approval outcome for one assessment.
type Decision string

const (
	DecisionApproved         Decision = "approved"
	DecisionApprovedWithMods Decision = "approved_with_modifications"
	DecisionNeedsReview      Decision = "needs_review"
	DecisionRejected         Decision = "rejected"
)

// ApprovalResult carries the gate decision and any suggested changes.
type ApprovalResult struct {
	Decision      Decision
	Approver      string // auto, self, metamind, human
	Modifications []string
	Reasoning     string
	AssessmentID  string
}

// Approved reports whether the plan may proceed, with or without changes.
func (r ApprovalResult) Approved() bool {
	return r.Decision == DecisionApproved || r.Decision == DecisionApprovedWithMods
}

// Rejected reports whether the plan was refused outright.
func (r ApprovalResult) Rejected() bool {
	return r.Decision == DecisionRejected
}

func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// NewAssessmentID returns a fresh assessment id.
func NewAssessmentID() string { return newID("risk") }

// NewFactorID returns a fresh risk factor id.
func NewFactorID() string { return newID("rf") }
