package pipeline

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"soylem/internal/construction"
	"soylem/internal/critique"
	"soylem/internal/dialogue"
	"soylem/internal/risk"
)

// NewResultID returns a fresh pipeline result id.
func NewResultID() string {
	return "pr_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Result is the outcome of one pipeline run. On failure Output still
// holds a usable fallback reply.
type Result struct {
	Success           bool
	Output            string
	Situation         *dialogue.SituationModel
	ActSelection      *dialogue.ActSelection
	MessagePlan       *dialogue.MessagePlan
	RiskAssessment    *risk.Assessment
	Approval          *risk.ApprovalResult
	ConstructionsUsed []*construction.Construction
	CritiqueResult    *critique.Result
	Metadata          map[string]interface{}
	Error             string
	CreatedAt         time.Time
}

// ID returns the result id from metadata.
func (r *Result) ID() string {
	if id, ok := r.Metadata["id"].(string); ok {
		return id
	}
	return ""
}

// IsApproved reports whether the risk gate let the plan through.
func (r *Result) IsApproved() bool {
	return r.Approval != nil && r.Approval.Approved()
}

// RiskLevel returns the assessed level, empty when risk assessment
// was skipped.
func (r *Result) RiskLevel() risk.Level {
	if r.RiskAssessment == nil {
		return ""
	}
	return r.RiskAssessment.Level
}

// WasRevised reports whether self-critique rewrote the output.
func (r *Result) WasRevised() bool {
	return r.CritiqueResult != nil && r.CritiqueResult.RevisedOutput != ""
}

// Failure builds an error result carrying a fallback reply.
func Failure(errMsg, fallbackOutput string) *Result {
	return &Result{
		Success:   false,
		Output:    fallbackOutput,
		Error:     errMsg,
		Metadata:  map[string]interface{}{"id": NewResultID()},
		CreatedAt: time.Now(),
	}
}
