package risk

import (
	"fmt"
	"strings"

	"soylem/internal/dialogue"
	"soylem/internal/logging"
	"soylem/internal/textutil"
)

// ScorerConfig sets the sub-score weights.
type ScorerConfig struct {
	EthicalWeight         float64
	TrustWeight           float64
	SafetyWeight          float64
	StructuralWeight      float64
	EnableDetailedFactors bool
}

// DefaultScorerConfig returns the standard scorer weights.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		EthicalWeight:         0.35,
		TrustWeight:           0.25,
		SafetyWeight:          0.25,
		StructuralWeight:      0.15,
		EnableDetailedFactors: true,
	}
}

// Scorer evaluates a message plan against its situation and produces a
// leveled risk assessment, independently of how the plan was built.
type Scorer struct {
	config ScorerConfig
}

// NewScorer builds a risk scorer.
func NewScorer(config ScorerConfig) *Scorer {
	return &Scorer{config: config}
}

var emergencyKeywords = []string{"intihar", "kendine zarar", "olmek", "acil"}

var conflictingActPairs = [][2]dialogue.Act{
	{dialogue.ActRefuse, dialogue.ActSuggest},
	{dialogue.ActComfort, dialogue.ActWarn},
	{dialogue.ActEncourage, dialogue.ActRefuse},
}

// Assess computes the weighted risk assessment for a plan.
func (s *Scorer) Assess(plan *dialogue.MessagePlan, situation *dialogue.SituationModel, extra map[string]interface{}) *Assessment {
	timer := logging.StartTimer(logging.CategoryRisk, "assess")
	defer timer.Stop()

	ethicalScore, ethicalFactors := s.assessEthical(plan, situation)
	trustImpact, trustFactors := s.assessTrust(plan, situation)
	safetyScore, safetyFactors := s.assessSafety(situation)
	structuralImpact, structuralFactors := s.assessStructural(plan)

	factors := append(ethicalFactors, trustFactors...)
	factors = append(factors, safetyFactors...)
	factors = append(factors, structuralFactors...)

	overall := s.overallScore(ethicalScore, trustImpact, safetyScore, structuralImpact)
	level := LevelFromScore(overall)

	// A strong safety signal escalates the level regardless of the
	// weighted score; self-harm markers must never pass as medium risk.
	for _, f := range factors {
		if f.Category == CategorySafety && f.Score > 0.7 {
			level = LevelCritical
			break
		}
	}

	ctx := map[string]interface{}{
		"situation_id": situation.ID,
		"safety_score": safetyScore,
	}
	for k, v := range extra {
		ctx[k] = v
	}

	assessment := &Assessment{
		ID:               NewAssessmentID(),
		Level:            level,
		OverallScore:     overall,
		EthicalScore:     ethicalScore,
		TrustImpact:      trustImpact,
		StructuralImpact: structuralImpact,
		Recommendation:   s.recommendation(level, factors),
		Reasoning:        s.reasoning(level, factors, overall),
		MessagePlanID:    plan.ID,
		Context:          ctx,
	}
	if s.config.EnableDetailedFactors {
		assessment.Factors = factors
	}

	if level == LevelCritical || assessment.Recommendation == "reject" {
		logging.RiskWarn("assessment %s: level=%s score=%.2f recommendation=%s",
			assessment.ID, level, overall, assessment.Recommendation)
		logging.Audit(logging.AuditRiskCritical, assessment.ID, assessment.Reasoning,
			map[string]interface{}{"score": overall, "plan_id": plan.ID})
	} else {
		logging.RiskDebug("assessment %s: level=%s score=%.2f", assessment.ID, level, overall)
		logging.Audit(logging.AuditRiskAssessed, assessment.ID, string(level),
			map[string]interface{}{"score": overall, "plan_id": plan.ID})
	}
	return assessment
}

func (s *Scorer) assessEthical(plan *dialogue.MessagePlan, situation *dialogue.SituationModel) (float64, []Factor) {
	score := 0.0
	var factors []Factor

	for _, r := range situation.Risks {
		if r.Category == "ethical" {
			score += r.Level * 0.5
			factors = append(factors, Factor{
				ID:          NewFactorID(),
				Category:    CategoryEthical,
				Description: "Etik risk: " + r.Description,
				Score:       r.Level,
				Source:      "situation",
			})
		}
	}

	for _, c := range plan.Constraints {
		lower := strings.ToLower(c)
		if strings.Contains(lower, "etik") || strings.Contains(lower, "ethical") {
			score += 0.2
			factors = append(factors, Factor{
				ID:          NewFactorID(),
				Category:    CategoryEthical,
				Description: "Etik kisitlar mevcut",
				Score:       0.3,
				Source:      "plan",
			})
			break
		}
	}

	if plan.HasAct(dialogue.ActRefuse) || plan.HasAct(dialogue.ActLimit) || plan.HasAct(dialogue.ActWarn) {
		score += 0.1
		factors = append(factors, Factor{
			ID:          NewFactorID(),
			Category:    CategoryEthical,
			Description: "Hassas konusma eylemi",
			Score:       0.2,
			Source:      "plan",
		})
	}

	return clamp(score, 0.0, 1.0), factors
}

// assessTrust starts neutral and accumulates penalties; negative means
// the reply risks costing trust.
func (s *Scorer) assessTrust(plan *dialogue.MessagePlan, situation *dialogue.SituationModel) (float64, []Factor) {
	impact := 0.0
	var factors []Factor

	if e := situation.Emotion; e != nil && e.Valence < -0.5 {
		impact -= 0.3
		factors = append(factors, Factor{
			ID:          NewFactorID(),
			Category:    CategoryEmotional,
			Description: "Kullanici negatif duygusal durumda",
			Score:       0.3,
			Source:      "situation",
		})
	}

	if situation.UnderstandingScore < 0.4 {
		impact -= 0.2
		factors = append(factors, Factor{
			ID:          NewFactorID(),
			Category:    CategoryFactual,
			Description: "Dusuk anlama skoru, yanlis anlasilma riski",
			Score:       0.2,
			Source:      "situation",
		})
	}

	if plan.Confidence < 0.5 {
		impact -= 0.2
		factors = append(factors, Factor{
			ID:          NewFactorID(),
			Category:    CategoryFactual,
			Description: "Dusuk plan guveni",
			Score:       0.2,
			Source:      "plan",
		})
	}

	if plan.Tone == dialogue.ToneSerious {
		impact -= 0.1
		factors = append(factors, Factor{
			ID:          NewFactorID(),
			Category:    CategoryEmotional,
			Description: "Ciddi ton guven iliskisini etkileyebilir",
			Score:       0.15,
			Source:      "plan",
		})
	}

	return clamp(impact, -1.0, 1.0), factors
}

func (s *Scorer) assessSafety(situation *dialogue.SituationModel) (float64, []Factor) {
	score := 0.0
	var factors []Factor

	for _, r := range situation.Risks {
		if r.Category == "safety" || r.Category == "physical" {
			score += r.Level * 0.8
			factors = append(factors, Factor{
				ID:          NewFactorID(),
				Category:    CategorySafety,
				Description: "Guvenlik riski: " + r.Description,
				Score:       r.Level,
				Source:      "situation",
			})
		}
	}

	// Emergency markers may hide in the context summary or entities
	searchText := textutil.NormalizeTurkish(fmt.Sprintf("%v", situation.Context) + " " + strings.Join(situation.KeyEntities, " "))
	for _, keyword := range emergencyKeywords {
		if strings.Contains(searchText, keyword) {
			score += 0.5
			factors = append(factors, Factor{
				ID:          NewFactorID(),
				Category:    CategorySafety,
				Description: "Acil durum belirteci: " + keyword,
				Score:       0.8,
				Source:      "situation",
			})
			break
		}
	}

	return clamp(score, 0.0, 1.0), factors
}

func (s *Scorer) assessStructural(plan *dialogue.MessagePlan) (float64, []Factor) {
	score := 0.0
	var factors []Factor

	if len(plan.DialogueActs) > 3 {
		score += 0.2
		factors = append(factors, Factor{
			ID:          NewFactorID(),
			Category:    CategoryFactual,
			Description: "Cok fazla konusma eylemi, karmasiklik riski",
			Score:       0.2,
			Source:      "plan",
		})
	}

	for _, pair := range conflictingActPairs {
		if plan.HasAct(pair[0]) && plan.HasAct(pair[1]) {
			score += 0.3
			factors = append(factors, Factor{
				ID:          NewFactorID(),
				Category:    CategoryFactual,
				Description: fmt.Sprintf("Celiskili eylemler: %s ve %s", pair[0], pair[1]),
				Score:       0.3,
				Source:      "plan",
			})
		}
	}

	if len(plan.ContentPoints) > 4 {
		score += 0.1
		factors = append(factors, Factor{
			ID:          NewFactorID(),
			Category:    CategoryFactual,
			Description: "Cok fazla icerik noktasi",
			Score:       0.1,
			Source:      "plan",
		})
	}

	return clamp(score, 0.0, 1.0), factors
}

func (s *Scorer) overallScore(ethical, trustImpact, safety, structural float64) float64 {
	// Remap trust from [-1,1] to [0,1]: worst trust loss scores 1.0
	normalizedTrust := (1.0 - trustImpact) / 2.0

	score := ethical*s.config.EthicalWeight +
		normalizedTrust*s.config.TrustWeight +
		safety*s.config.SafetyWeight +
		structural*s.config.StructuralWeight
	return clamp(score, 0.0, 1.0)
}

func (s *Scorer) recommendation(level Level, factors []Factor) string {
	rec := map[Level]string{
		LevelLow:      "approve",
		LevelMedium:   "review",
		LevelHigh:     "modify",
		LevelCritical: "reject",
	}[level]

	// A strong safety signal always escalates to reject
	for _, f := range factors {
		if f.Category == CategorySafety && f.Score > 0.7 {
			return "reject"
		}
	}
	return rec
}

func (s *Scorer) reasoning(level Level, factors []Factor, overall float64) string {
	desc := map[Level]string{
		LevelLow:      "Dusuk risk",
		LevelMedium:   "Orta risk",
		LevelHigh:     "Yuksek risk",
		LevelCritical: "Kritik risk",
	}[level]

	base := fmt.Sprintf("%s (skor: %.2f)", desc, overall)

	var highest *Factor
	for i := range factors {
		if highest == nil || factors[i].Score > highest.Score {
			highest = &factors[i]
		}
	}
	if highest != nil {
		base += " - " + highest.Description
	}

	if level == LevelHigh || level == LevelCritical {
		for _, f := range factors {
			if f.Category == CategorySafety {
				base += " - Guvenlik oncelikli"
				break
			}
		}
	}
	return base
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
