package dialogue

import (
	"sort"

	"soylem/internal/logging"
)

// Strategy biases act selection.
type Strategy string

const (
	StrategyConservative Strategy = "conservative" // safe acts preferred
	StrategyBalanced     Strategy = "balanced"
	StrategyExpressive   Strategy = "expressive" // empathic acts preferred
)

// ActSelectorConfig controls dialogue act selection.
type ActSelectorConfig struct {
	MaxActs               int
	MaxSecondaryActs      int
	MinScoreThreshold     float64
	Strategy              Strategy
	EnableEthicsCheck     bool
	EnableAffectInfluence bool
}

// DefaultActSelectorConfig returns the standard selector settings.
func DefaultActSelectorConfig() ActSelectorConfig {
	return ActSelectorConfig{
		MaxActs:               3,
		MaxSecondaryActs:      2,
		MinScoreThreshold:     0.3,
		Strategy:              StrategyBalanced,
		EnableEthicsCheck:     true,
		EnableAffectInfluence: true,
	}
}

// SelectionContext carries cross-turn hints into act selection.
type SelectionContext struct {
	LastAssistantAct Act
	SentimentTrend   string // "negative", "positive", ""
	IsFollowup       bool
}

// ActSelector scores every dialogue act against a situation and picks
// the best ones. Ethics, affect and strategy adjustments run on top of
// the base scores.
type ActSelector struct {
	config ActSelectorConfig
}

// NewActSelector builds an act selector.
func NewActSelector(config ActSelectorConfig) *ActSelector {
	if config.MaxActs <= 0 {
		config.MaxActs = 3
	}
	return &ActSelector{config: config}
}

var allActs = []Act{
	ActInform, ActAsk, ActConfirm, ActDeny, ActClarify, ActEmpathize,
	ActComfort, ActEncourage, ActWarn, ActAdvise, ActSuggest, ActRefuse,
	ActLimit, ActDeflect, ActApologize, ActThank, ActAcknowledge, ActExplain, ActGreet,
	ActRespondWellbeing, ActReceiveThanks, ActLightChitchat,
	ActAcknowledgePositive, ActFarewell,
}

// intentActMap lists candidate acts per intent goal, best first.
var intentActMap = map[string][]Act{
	"greeting":         {ActGreet, ActAcknowledge},
	"farewell":         {ActFarewell, ActAcknowledge},
	"ask_wellbeing":    {ActRespondWellbeing, ActInform},
	"ask_identity":     {ActInform},
	"express_positive": {ActAcknowledgePositive, ActAcknowledge, ActEncourage},
	"express_negative": {ActEmpathize, ActComfort, ActEncourage},
	"request_help":     {ActClarify, ActAdvise, ActSuggest},
	"request_info":     {ActInform, ActExplain, ActClarify},
	"thank":            {ActReceiveThanks, ActAcknowledge},
	"apologize":        {ActAcknowledge, ActComfort},
	"agree":            {ActAcknowledge, ActConfirm},
	"disagree":         {ActAcknowledge, ActClarify},
	"clarify":          {ActClarify, ActExplain},
	"complain":         {ActEmpathize, ActAcknowledge, ActApologize},
	"meta_question":    {ActExplain, ActInform},
	"smalltalk":        {ActLightChitchat, ActAcknowledge, ActInform},
	"communicate":      {ActAcknowledge, ActInform},
}

var riskActMap = map[string][]Act{
	"safety":     {ActWarn, ActEmpathize, ActAdvise},
	"emotional":  {ActEmpathize, ActComfort, ActEncourage},
	"ethical":    {ActWarn, ActRefuse, ActDeflect},
	"relational": {ActEmpathize, ActClarify, ActAdvise},
}

// SelectActs scores all acts and returns those above threshold, never empty.
func (s *ActSelector) SelectActs(situation *SituationModel, selCtx *SelectionContext) ActSelection {
	timer := logging.StartTimer(logging.CategoryActs, "select")
	defer timer.Stop()

	scores := make([]ScoredAct, 0, len(allActs))
	reasonSet := make(map[string]struct{})
	var reasons []string
	addReason := func(r string) {
		if _, ok := reasonSet[r]; !ok {
			reasonSet[r] = struct{}{}
			reasons = append(reasons, r)
		}
	}

	for _, act := range allActs {
		score := s.baseScore(act, situation, addReason)
		scores = append(scores, ScoredAct{Act: act, Score: score})
	}

	if selCtx != nil {
		s.applyContext(scores, selCtx, addReason)
	}
	if s.config.EnableEthicsCheck {
		s.applyEthics(scores, situation, addReason)
	}
	if s.config.EnableAffectInfluence {
		s.applyAffect(scores, situation, addReason)
	}
	s.applyStrategy(scores, addReason)

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	valid := scores[:0:0]
	for _, sa := range scores {
		if sa.Score >= s.config.MinScoreThreshold {
			valid = append(valid, sa)
		}
	}

	confidence := s.confidence(valid, situation)

	if len(valid) == 0 {
		// Fallback so the planner always has something to say
		fallback := ActAcknowledge
		for _, in := range situation.Intentions {
			if in.Goal == "greeting" {
				fallback = ActGreet
				break
			}
		}
		addReason("fallback: no act above threshold")
		valid = []ScoredAct{{Act: fallback, Score: 0.3}}
		confidence = 0.3
	}

	// Everything above threshold past the primary cut becomes a
	// secondary act, up to MaxSecondaryActs.
	var secondary []ScoredAct
	if len(valid) > s.config.MaxActs {
		secondary = valid[s.config.MaxActs:]
		if len(secondary) > s.config.MaxSecondaryActs {
			secondary = secondary[:s.config.MaxSecondaryActs]
		}
		valid = valid[:s.config.MaxActs]
	}

	logging.ActsDebug("selected %v secondary=%v confidence=%.2f", actsOf(valid), actsOf(secondary), confidence)
	return ActSelection{Acts: valid, SecondaryActs: secondary, Confidence: confidence, Reasoning: reasons}
}

func actsOf(scored []ScoredAct) []Act {
	acts := make([]Act, len(scored))
	for i, sa := range scored {
		acts[i] = sa.Act
	}
	return acts
}

func (s *ActSelector) baseScore(act Act, situation *SituationModel, addReason func(string)) float64 {
	score := 0.0

	// Intent fit (40%)
	intentScore := 0.0
	for _, in := range situation.Intentions {
		candidates, ok := intentActMap[in.Goal]
		if !ok {
			continue
		}
		for _, c := range candidates {
			if c != act {
				continue
			}
			if candidates[0] == act {
				intentScore += in.Confidence * 1.1
			} else {
				intentScore += in.Confidence * 0.7
			}
			addReason("intent " + in.Goal + " matches " + string(act))
			break
		}
	}
	score += clamp(intentScore, 0.0, 1.0) * 0.4

	// Risk fit (30%)
	riskScore := 0.0
	for _, r := range situation.Risks {
		candidates, ok := riskActMap[r.Category]
		if !ok {
			continue
		}
		for _, c := range candidates {
			if c == act {
				riskScore += r.Level * 0.5
				addReason("risk " + r.Category + " suggests " + string(act))
				break
			}
		}
	}
	score += clamp(riskScore, 0.0, 1.0) * 0.3

	// Emotion fit (20%)
	emotionScore := 0.0
	if e := situation.Emotion; e != nil {
		if e.Valence <= -0.2 && (act == ActEmpathize || act == ActComfort || act == ActEncourage) {
			emotionScore += 0.7
			addReason("negative emotion, empathy needed")
		} else if e.Valence > 0.3 && (act == ActAcknowledgePositive || act == ActEncourage) {
			emotionScore += 0.3
			addReason("positive emotion, acknowledge it")
		}
		if e.Arousal > 0.5 && (act == ActComfort || act == ActClarify) {
			emotionScore += 0.3
			addReason("high arousal, calming response")
		}
	}
	score += clamp(emotionScore, 0.0, 1.0) * 0.2

	// Understanding bonus (10%)
	score += situation.UnderstandingScore * 0.1

	return clamp(score, 0.0, 1.0)
}

func (s *ActSelector) applyContext(scores []ScoredAct, selCtx *SelectionContext, addReason func(string)) {
	for i := range scores {
		if selCtx.LastAssistantAct != "" && scores[i].Act == selCtx.LastAssistantAct {
			scores[i].Score *= 0.7
			addReason("avoiding repetition of " + string(scores[i].Act))
		}
		if selCtx.SentimentTrend == "negative" && isEmpathic(scores[i].Act) {
			scores[i].Score = clamp(scores[i].Score*1.15, 0.0, 1.0)
			addReason("negative sentiment trend")
		}
		if selCtx.IsFollowup {
			switch scores[i].Act {
			case ActClarify, ActExplain, ActInform:
				scores[i].Score = clamp(scores[i].Score*1.1, 0.0, 1.0)
				addReason("followup question")
			}
		}
	}
}

// applyEthics restrains deflecting acts and pushes protective ones when
// the situation carries a high risk.
func (s *ActSelector) applyEthics(scores []ScoredAct, situation *SituationModel, addReason func(string)) {
	highRisk := false
	for _, r := range situation.Risks {
		if r.Level > 0.7 {
			highRisk = true
			break
		}
	}
	if !highRisk {
		return
	}
	for i := range scores {
		switch scores[i].Act {
		case ActRefuse, ActDeflect:
			scores[i].Score *= 0.5
			addReason("ethics: restrained in high risk situation")
		case ActWarn, ActEmpathize, ActComfort:
			scores[i].Score = clamp(scores[i].Score*1.3, 0.0, 1.0)
			addReason("ethics: boosted for high risk situation")
		}
	}
}

func (s *ActSelector) applyAffect(scores []ScoredAct, situation *SituationModel, addReason func(string)) {
	if situation.Emotion == nil || situation.Emotion.Valence >= -0.5 {
		return
	}
	for i := range scores {
		if isEmpathic(scores[i].Act) {
			scores[i].Score = clamp(scores[i].Score*1.2, 0.0, 1.0)
			addReason("strong negative emotion boost")
		}
	}
}

func (s *ActSelector) applyStrategy(scores []ScoredAct, addReason func(string)) {
	switch s.config.Strategy {
	case StrategyConservative:
		for i := range scores {
			switch scores[i].Act {
			case ActAcknowledge, ActClarify, ActInform:
				scores[i].Score = clamp(scores[i].Score*1.2, 0.0, 1.0)
				addReason("conservative strategy boost")
			}
		}
	case StrategyExpressive:
		for i := range scores {
			if isEmpathic(scores[i].Act) {
				scores[i].Score = clamp(scores[i].Score*1.2, 0.0, 1.0)
				addReason("expressive strategy boost")
			}
		}
	}
}

func isEmpathic(act Act) bool {
	return act == ActEmpathize || act == ActComfort || act == ActEncourage
}

// confidence rewards a clear winner and a well understood situation.
func (s *ActSelector) confidence(valid []ScoredAct, situation *SituationModel) float64 {
	if len(valid) == 0 {
		return 0.0
	}
	top := valid[0].Score

	diffFactor := 0.5
	if len(valid) >= 2 {
		diffFactor = clamp((valid[0].Score-valid[1].Score)*2, 0.0, 1.0)
	}

	return clamp(top*0.4+situation.UnderstandingScore*0.3+diffFactor*0.3, 0.0, 1.0)
}
