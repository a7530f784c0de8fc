package risk

import (
	"fmt"
	"sort"

	"soylem/internal/logging"
)

// ApproverConfig sets the gate thresholds.
type ApproverConfig struct {
	AutoApproveThreshold Level // at or below: approve without looking
	SelfApproveThreshold Level // at or below: self-evaluate with modifications
	RequireHumanAbove    Level // at or above: reject, a human must decide
	EnableModifications  bool
}

// DefaultApproverConfig returns the standard approval thresholds.
func DefaultApproverConfig() ApproverConfig {
	return ApproverConfig{
		AutoApproveThreshold: LevelLow,
		SelfApproveThreshold: LevelMedium,
		RequireHumanAbove:    LevelCritical,
		EnableModifications:  true,
	}
}

// Approver is the tiered internal gate between a risk assessment and
// speaking: auto for low risk, self-evaluation for medium, structural
// review for high, rejection where a human would be required.
type Approver struct {
	config ApproverConfig
}

// NewApprover builds an internal approver.
func NewApprover(config ApproverConfig) *Approver {
	return &Approver{config: config}
}

// Approve runs the assessment through the gate tiers in order.
func (a *Approver) Approve(assessment *Assessment) ApprovalResult {
	level := assessment.Level

	var result ApprovalResult
	switch {
	case level.AtMost(a.config.AutoApproveThreshold):
		result = ApprovalResult{
			Decision:     DecisionApproved,
			Approver:     "auto",
			Reasoning:    fmt.Sprintf("Dusuk risk (%.2f), otomatik onay", assessment.OverallScore),
			AssessmentID: assessment.ID,
		}
	case level.AtMost(a.config.SelfApproveThreshold):
		result = a.selfApprove(assessment)
	case level.Order() >= a.config.RequireHumanAbove.Order():
		result = ApprovalResult{
			Decision:     DecisionRejected,
			Approver:     "system",
			Reasoning:    fmt.Sprintf("Kritik risk (%.2f), insan onayi gerekli", assessment.OverallScore),
			AssessmentID: assessment.ID,
		}
	default:
		result = a.structuralReview(assessment)
	}

	a.audit(result)
	logging.ApprovalDebug("assessment %s: decision=%s approver=%s mods=%d",
		assessment.ID, result.Decision, result.Approver, len(result.Modifications))
	return result
}

// Flow names the tier that would handle the given level.
func (a *Approver) Flow(level Level) string {
	switch {
	case level.AtMost(a.config.AutoApproveThreshold):
		return "auto"
	case level.AtMost(a.config.SelfApproveThreshold):
		return "self"
	case level.Order() >= a.config.RequireHumanAbove.Order():
		return "human"
	default:
		return "metamind"
	}
}

// Override forces a decision past the gate, recorded as a human call.
func (a *Approver) Override(assessment *Assessment, decision Decision, reason string) ApprovalResult {
	result := ApprovalResult{
		Decision:     decision,
		Approver:     "human",
		Reasoning:    "Manuel override: " + reason,
		AssessmentID: assessment.ID,
	}
	logging.Audit(logging.AuditApprovalOverride, assessment.ID, reason,
		map[string]interface{}{"decision": string(decision)})
	return result
}

func (a *Approver) selfApprove(assessment *Assessment) ApprovalResult {
	var modifications []string
	if a.config.EnableModifications {
		modifications = a.suggestModifications(assessment)
	}

	if len(modifications) > 0 {
		return ApprovalResult{
			Decision:      DecisionApprovedWithMods,
			Approver:      "self",
			Modifications: modifications,
			Reasoning:     fmt.Sprintf("Orta risk, %d modifikasyonla onaylandi", len(modifications)),
			AssessmentID:  assessment.ID,
		}
	}
	return ApprovalResult{
		Decision:     DecisionApproved,
		Approver:     "self",
		Reasoning:    fmt.Sprintf("Self onayi, risk skoru: %.2f", assessment.OverallScore),
		AssessmentID: assessment.ID,
	}
}

func (a *Approver) structuralReview(assessment *Assessment) ApprovalResult {
	modifications := a.suggestModifications(assessment)

	if assessment.Level == LevelHigh && len(modifications) > 0 {
		return ApprovalResult{
			Decision:      DecisionApprovedWithMods,
			Approver:      "metamind",
			Modifications: modifications,
			Reasoning:     "Yuksek risk, yapisal inceleme modifikasyonlarla onayladi",
			AssessmentID:  assessment.ID,
		}
	}
	return ApprovalResult{
		Decision:      DecisionNeedsReview,
		Approver:      "metamind",
		Modifications: modifications,
		Reasoning:     fmt.Sprintf("Risk seviyesi %s inceleme gerektiriyor", assessment.Level),
		AssessmentID:  assessment.ID,
	}
}

var modificationByCategory = map[Category]string{
	CategoryEmotional: "Tonu yumusat",
	CategoryEthical:   "Etik sinirlari vurgula",
	CategorySafety:    "Profesyonel yardim bilgisi ekle",
	CategoryFactual:   "Mesaji sadelestir",
	CategoryPrivacy:   "Gizlilik uyarisi ekle",
	CategoryBoundary:  "Kapsam sinirlarini belirt",
}

// suggestModifications derives one deduplicated suggestion per factor
// category scoring above 0.5.
func (a *Approver) suggestModifications(assessment *Assessment) []string {
	seen := make(map[string]struct{})
	var modifications []string
	for _, f := range assessment.Factors {
		if f.Score <= 0.5 {
			continue
		}
		mod, ok := modificationByCategory[f.Category]
		if !ok {
			continue
		}
		if _, dup := seen[mod]; dup {
			continue
		}
		seen[mod] = struct{}{}
		modifications = append(modifications, mod)
	}
	sort.Strings(modifications)
	return modifications
}

func (a *Approver) audit(result ApprovalResult) {
	eventType := logging.AuditApprovalGranted
	switch result.Decision {
	case DecisionApprovedWithMods:
		eventType = logging.AuditApprovalModified
	case DecisionRejected, DecisionNeedsReview:
		eventType = logging.AuditApprovalRejected
	}
	logging.Audit(eventType, result.AssessmentID, result.Reasoning,
		map[string]interface{}{"approver": result.Approver, "decision": string(result.Decision)})
}
