package construction

import (
	"fmt"
	"sort"
	"strings"

	"soylem/internal/logging"
)

// FeedbackStatsProvider reranks candidates by observed user feedback.
// Implementations return the adjusted score plus explanation metadata;
// ok is false when no stats exist for the construction.
type FeedbackStatsProvider interface {
	FinalScore(constructionID string, base float64) (final float64, metadata map[string]interface{}, ok bool)
}

// Score is one scored candidate with its component breakdown.
type Score struct {
	Construction     *Construction
	TotalScore       float64
	DialogueActScore float64
	ToneScore        float64
	ConstraintScore  float64
	ConfidenceScore  float64
	Reasons          []string
	FeedbackMetadata map[string]interface{}
}

// SelectionResult carries the chosen candidates and the full scoring
// trace for debugging.
type SelectionResult struct {
	Selected    []*Score
	AllScores   []*Score
	LevelCounts map[Level]int
}

// Best returns the top candidate, or nil when nothing qualified.
func (r *SelectionResult) Best() *Score {
	if len(r.Selected) == 0 {
		return nil
	}
	return r.Selected[0]
}

// SelectorConfig weights the scoring components.
type SelectorConfig struct {
	DialogueActWeight    float64
	ToneWeight           float64
	ConstraintWeight     float64
	ConfidenceWeight     float64
	MinScoreThreshold    float64
	MaxSelectionsPerAct  int
	PreferHighConfidence bool
	MVCSBoost            float64
	PreferMVCS           bool
}

// DefaultSelectorConfig returns the standard weights.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		DialogueActWeight:    0.40,
		ToneWeight:           0.25,
		ConstraintWeight:     0.15,
		ConfidenceWeight:     0.20,
		MinScoreThreshold:    0.3,
		MaxSelectionsPerAct:  3,
		PreferHighConfidence: true,
		MVCSBoost:            0.15,
		PreferMVCS:           true,
	}
}

// similarActs gives partial credit when a construction expresses a
// neighbouring act. warn->advise is deliberately one-directional: a
// warning may soften into advice, advice must not harden into warning.
var similarActs = map[string][]string{
	"inform":    {"explain", "clarify"},
	"explain":   {"inform", "clarify"},
	"empathize": {"comfort", "encourage"},
	"comfort":   {"empathize", "encourage"},
	"suggest":   {"advise"},
	"advise":    {"suggest"},
	"warn":      {"advise"},
}

var similarTones = map[string][]string{
	"neutral":      {"formal", "casual"},
	"empathic":     {"supportive", "casual"},
	"supportive":   {"empathic", "casual"},
	"formal":       {"neutral", "serious"},
	"serious":      {"formal", "cautious"},
	"cautious":     {"serious", "formal"},
	"casual":       {"neutral", "supportive"},
	"enthusiastic": {"supportive", "casual"},
}

// intentMVCSMap routes a recognized intent to the seed category that
// best answers it, for the extra selection bonus.
var intentMVCSMap = map[string]MVCSCategory{
	"greeting":         MVCSGreet,
	"ask_wellbeing":    MVCSRespondWellbeing,
	"ask_identity":     MVCSSelfIntro,
	"express_negative": MVCSEmpathizeBasic,
	"express_positive": MVCSAcknowledgePositive,
	"request_help":     MVCSClarifyRequest,
	"request_info":     MVCSSimpleInform,
	"thank":            MVCSReceiveThanks,
	"smalltalk":        MVCSLightChitchat,
	"farewell":         MVCSCloseConversation,
	"complain":         MVCSEmpathizeBasic,
	"communicate":      MVCSSimpleInform,
}

// Selector picks the constructions that best realize a message plan.
type Selector struct {
	grammar  *Grammar
	config   SelectorConfig
	feedback FeedbackStatsProvider
}

// NewSelector builds a selector over the given store. feedback may be
// nil; pass a provider to enable experience-driven reranking.
func NewSelector(grammar *Grammar, config SelectorConfig, feedback FeedbackStatsProvider) *Selector {
	return &Selector{grammar: grammar, config: config, feedback: feedback}
}

// SetFeedbackProvider swaps the rerank source at runtime.
func (s *Selector) SetFeedbackProvider(p FeedbackStatsProvider) {
	s.feedback = p
}

// Select scores every candidate for the given acts and returns the
// qualifying ones best-first. tone and constraints narrow the match;
// context may carry an "intent" key for the seed-category bonus.
func (s *Selector) Select(dialogueActs []string, tone string, constraints []string, context map[string]interface{}) *SelectionResult {
	timer := logging.StartTimer(logging.CategorySelector, "select")
	defer timer.Stop()

	var allScores []*Score
	var selected []*Score

	for _, act := range dialogueActs {
		candidates := s.grammar.GetByDialogueAct(act)

		actScores := make([]*Score, 0, len(candidates))
		for _, c := range candidates {
			score := s.ScoreConstruction(c, act, tone, constraints, context)
			actScores = append(actScores, score)
			allScores = append(allScores, score)
		}

		sort.SliceStable(actScores, func(i, j int) bool {
			return actScores[i].TotalScore > actScores[j].TotalScore
		})
		limit := s.config.MaxSelectionsPerAct
		if limit > len(actScores) {
			limit = len(actScores)
		}
		for _, score := range actScores[:limit] {
			if score.TotalScore >= s.config.MinScoreThreshold {
				selected = append(selected, score)
			}
		}
	}

	// Drop duplicates picked through multiple acts.
	seen := map[string]struct{}{}
	unique := selected[:0]
	for _, score := range selected {
		if _, dup := seen[score.Construction.ID]; dup {
			continue
		}
		seen[score.Construction.ID] = struct{}{}
		unique = append(unique, score)
	}
	selected = unique

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].TotalScore > selected[j].TotalScore
	})

	selected = s.applyFeedbackRerank(selected)

	levelCounts := map[Level]int{}
	for _, score := range selected {
		levelCounts[score.Construction.Level]++
	}

	logging.SelectorDebug("selection done: acts=%v candidates=%d selected=%d",
		dialogueActs, len(allScores), len(selected))

	return &SelectionResult{Selected: selected, AllScores: allScores, LevelCounts: levelCounts}
}

// ScoreConstruction computes the weighted score of one candidate for
// one target act.
func (s *Selector) ScoreConstruction(c *Construction, dialogueAct, tone string, constraints []string, context map[string]interface{}) *Score {
	var reasons []string

	actScore := matchDialogueAct(c, dialogueAct)
	if actScore > 0 {
		reasons = append(reasons, "dialogue act match: "+dialogueAct)
	}

	toneScore := 0.5
	if tone != "" {
		toneScore = matchTone(c, tone)
		if toneScore > 0.5 {
			reasons = append(reasons, "tone match: "+tone)
		}
	}

	constraintScore := 0.5
	if len(constraints) > 0 {
		constraintScore = matchConstraints(c, constraints)
		if constraintScore > 0.5 {
			reasons = append(reasons, "constraint match")
		}
	}

	confidenceScore := c.Confidence
	if s.config.PreferHighConfidence && confidenceScore > 0.7 {
		reasons = append(reasons, "high confidence")
	}

	mvcsBonus := 0.0
	if s.config.PreferMVCS && c.Extra.IsMVCS {
		mvcsBonus = s.config.MVCSBoost
		reasons = append(reasons, "core construction set")

		if context != nil {
			if intent, ok := context["intent"].(string); ok && intent != "" {
				if want, known := intentMVCSMap[intent]; known && string(want) == c.Extra.MVCSCategory {
					mvcsBonus += 0.1
					reasons = append(reasons, "category match: "+c.Extra.MVCSCategory)
				}
			}
		}
	}

	total := actScore*s.config.DialogueActWeight +
		toneScore*s.config.ToneWeight +
		constraintScore*s.config.ConstraintWeight +
		confidenceScore*s.config.ConfidenceWeight +
		mvcsBonus

	return &Score{
		Construction:     c,
		TotalScore:       clamp01(total),
		DialogueActScore: actScore,
		ToneScore:        toneScore,
		ConstraintScore:  constraintScore,
		ConfidenceScore:  confidenceScore,
		Reasons:          reasons,
	}
}

// SelectByLevel narrows a full selection down to one layer.
func (s *Selector) SelectByLevel(dialogueActs []string, level Level, tone string) []*Score {
	result := s.Select(dialogueActs, tone, nil, nil)
	var out []*Score
	for _, score := range result.Selected {
		if score.Construction.Level == level {
			out = append(out, score)
		}
	}
	return out
}

// BestForAct returns the single best candidate for one act, or nil.
func (s *Selector) BestForAct(dialogueAct, tone string) *Score {
	return s.Select([]string{dialogueAct}, tone, nil, nil).Best()
}

func matchDialogueAct(c *Construction, dialogueAct string) float64 {
	if c.Meaning.DialogueAct == dialogueAct {
		return 1.0
	}
	for _, similar := range similarActs[dialogueAct] {
		if c.Meaning.DialogueAct == similar {
			return 0.6
		}
	}
	return 0.0
}

func matchTone(c *Construction, tone string) float64 {
	ctone := c.Extra.Tone
	if ctone == "" {
		return 0.5
	}
	if ctone == tone {
		return 1.0
	}
	for _, similar := range similarTones[tone] {
		if ctone == similar {
			return 0.7
		}
	}
	return 0.3
}

func matchConstraints(c *Construction, constraints []string) float64 {
	matches := 0
	for _, want := range constraints {
		for _, have := range c.Extra.Constraints {
			if want == have {
				matches++
				break
			}
		}
	}

	bonus := 0.0
	for _, constraint := range constraints {
		lower := strings.ToLower(constraint)
		switch {
		case strings.Contains(lower, "empatik") || strings.Contains(lower, "empathic"):
			if c.Extra.Tone == "empathic" {
				bonus += 0.2
			}
		case strings.Contains(lower, "destekleyici") || strings.Contains(lower, "supportive"):
			if c.Extra.Tone == "supportive" {
				bonus += 0.2
			}
		case strings.Contains(lower, "resmi") || strings.Contains(lower, "formal"):
			if c.Extra.Tone == "formal" {
				bonus += 0.2
			}
		case strings.Contains(lower, "ciddi") || strings.Contains(lower, "serious"):
			if c.Extra.Tone == "serious" {
				bonus += 0.2
			}
		}
	}

	if matches > 0 {
		return clamp01(float64(matches)/float64(len(constraints)) + bonus)
	}
	return clamp01(0.3 + bonus)
}

func (s *Selector) applyFeedbackRerank(candidates []*Score) []*Score {
	if s.feedback == nil || len(candidates) == 0 {
		return candidates
	}

	for _, candidate := range candidates {
		base := candidate.TotalScore
		final, metadata, ok := s.feedback.FinalScore(candidate.Construction.ID, base)
		if !ok {
			candidate.FeedbackMetadata = map[string]interface{}{
				"feedback_mean": 0.5,
				"adjustment":    1.0,
				"base_score":    base,
				"final_score":   base,
				"total_uses":    0,
			}
			continue
		}
		candidate.TotalScore = final
		candidate.FeedbackMetadata = metadata

		adjustment, _ := metadata["adjustment"].(float64)
		mean, _ := metadata["feedback_mean"].(float64)
		if adjustment > 1.05 {
			candidate.Reasons = append(candidate.Reasons,
				fmt.Sprintf("feedback boost: %.2fx (mean=%.2f)", adjustment, mean))
		} else if adjustment < 0.95 {
			candidate.Reasons = append(candidate.Reasons,
				fmt.Sprintf("feedback penalty: %.2fx (mean=%.2f)", adjustment, mean))
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalScore > candidates[j].TotalScore
	})
	return candidates
}
