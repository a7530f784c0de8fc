package dialogue

import (
	"fmt"
	"strings"
	"time"

	"soylem/internal/intent"
	"soylem/internal/logging"
	"soylem/internal/textutil"
)

// Turn is one entry of the conversation history.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
	Act     Act // leading act of an assistant turn, when known
}

// TrendOf reads the recent emotional direction from the last user
// turns, for the act selector's sentiment-trend adjustment.
func TrendOf(history []Turn) string {
	var pos, neg int
	seen := 0
	for i := len(history) - 1; i >= 0 && seen < 3; i-- {
		if history[i].Role != "user" {
			continue
		}
		seen++
		normalized := textutil.NormalizeTurkish(history[i].Content)
		for _, w := range positiveWords {
			if strings.Contains(normalized, w) {
				pos++
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(normalized, w) {
				neg++
			}
		}
	}
	switch {
	case neg > pos:
		return "negative"
	case pos > neg:
		return "positive"
	default:
		return ""
	}
}

// SituationBuilderConfig bounds situation extraction.
type SituationBuilderConfig struct {
	MaxActors              int
	MaxIntentions          int
	MaxRisks               int
	EnableEmotionDetection bool
	EnableRiskDetection    bool
}

// DefaultSituationBuilderConfig returns the standard builder settings.
func DefaultSituationBuilderConfig() SituationBuilderConfig {
	return SituationBuilderConfig{
		MaxActors:              10,
		MaxIntentions:          20,
		MaxRisks:               10,
		EnableEmotionDetection: true,
		EnableRiskDetection:    true,
	}
}

// SituationBuilder turns an utterance plus conversation history into a
// SituationModel: who is involved, what they want, what risks the
// message carries and how well we understood it.
type SituationBuilder struct {
	config     SituationBuilderConfig
	recognizer *intent.Recognizer
}

// NewSituationBuilder builds a situation builder with its own intent recognizer.
func NewSituationBuilder(config SituationBuilderConfig) *SituationBuilder {
	return &SituationBuilder{
		config:     config,
		recognizer: intent.NewRecognizer(intent.DefaultRecognizerConfig()),
	}
}

var thirdPartyIndicators = []string{
	"arkadasim", "annem", "babam", "kardesim", "esim",
	"mudurum", "ogretmenim", "doktorum", "komsum",
	"o ", "onlar", "onun", "ona",
}

type riskPattern struct {
	category   string
	level      float64
	keywords   []string
	mitigation string
}

var riskPatterns = []riskPattern{
	{"safety", 0.9, []string{"intihar", "kendine zarar", "olmek", "yaralanma", "kaza"},
		"Profesyonel yardim oner"},
	{"emotional", 0.7, []string{"depresyon", "anksiyete", "panik", "cok kotu", "dayanamiyorum"},
		"Empati kur"},
	{"ethical", 0.8, []string{"yasadisi", "hile", "dolandir", "cal", "hackle"},
		"Etik sinirlari belirt"},
	{"relational", 0.5, []string{"ayrilik", "bosanma", "kavga", "terk"},
		"Tarafsiz kal"},
}

var (
	positiveWords    = []string{"mutlu", "harika", "guzel", "tesekkur", "seviyorum", "super"}
	negativeWords    = []string{"uzgun", "kotu", "sinirli", "kizgin", "nefret", "berbat"}
	highArousalWords = []string{"heyecan", "panik", "acil", "cok", "asiri"}
	lowArousalWords  = []string{"sakin", "huzur", "rahat", "yavas"}
)

var topicPatterns = []struct {
	topic    string
	keywords []string
}{
	{"technology", []string{"bilgisayar", "yazilim", "kod", "program", "internet"}},
	{"health", []string{"saglik", "hastalik", "doktor", "ilac", "agri"}},
	{"relationships", []string{"iliski", "aile", "arkadas", "sevgili"}},
	// education before work so "ders calisma" reads as education
	{"education", []string{"okul", "ders", "sinav", "ogren", "egitim"}},
	{"work", []string{"is ", "kariyer", "maas", "patron", "calisma"}},
	{"emotions", []string{"hissediyorum", "duygu", "mutlu", "uzgun"}},
	{"help", []string{"yardim", "nasil yap", "ne yapmali"}},
}

var followupIndicators = []string{"peki", "ya", "o zaman", "ee", "bunun", "onun"}

// Build extracts a SituationModel from one utterance in context.
func (b *SituationBuilder) Build(utterance string, history []Turn, metadata map[string]interface{}) *SituationModel {
	timer := logging.StartTimer(logging.CategorySituation, "build")
	defer timer.Stop()

	normalized := textutil.NormalizeTurkish(utterance)

	actors := b.extractActors(normalized)
	intentions := b.extractIntentions(utterance, normalized, actors, history)

	var risks []Risk
	if b.config.EnableRiskDetection {
		risks = b.detectRisks(normalized)
	}
	var emotion *EmotionalState
	if b.config.EnableEmotionDetection {
		emotion = b.detectEmotion(normalized)
	}

	topic := b.determineTopic(normalized)
	understanding := b.understanding(actors, intentions, risks, emotion)

	ctx := map[string]interface{}{
		"summary": summarizeContext(utterance, history),
	}
	for k, v := range metadata {
		ctx[k] = v
	}

	situation := &SituationModel{
		ID:                 NewSituationID(),
		Actors:             actors,
		Intentions:         intentions,
		Risks:              risks,
		Emotion:            emotion,
		TopicDomain:        topic,
		UnderstandingScore: understanding,
		Context:            ctx,
		CreatedAt:          time.Now(),
	}
	logging.SituationDebug("built %s: topic=%s understanding=%.2f intentions=%d risks=%d",
		situation.ID, topic, understanding, len(intentions), len(risks))
	return situation
}

func (b *SituationBuilder) extractActors(normalized string) []Actor {
	actors := []Actor{
		{ID: "user", Role: "user"},
		{ID: "assistant", Role: "assistant", Name: "soylem"},
	}
	for i, indicator := range thirdPartyIndicators {
		if strings.Contains(normalized, indicator) {
			actors = append(actors, Actor{
				ID:     fmt.Sprintf("third_party_%d", i),
				Role:   "third_party",
				Name:   strings.TrimSpace(indicator),
				Traits: map[string]interface{}{"mentioned_as": indicator},
			})
			if len(actors) >= b.config.MaxActors {
				break
			}
		}
	}
	if len(actors) > b.config.MaxActors {
		actors = actors[:b.config.MaxActors]
	}
	return actors
}

func (b *SituationBuilder) extractIntentions(utterance, normalized string, actors []Actor, history []Turn) []Intention {
	var intentions []Intention

	result := b.recognizer.Recognize(utterance)

	// Follow-up messages inherit confidence from the ongoing exchange
	if len(history) >= 2 {
		for _, ind := range followupIndicators {
			if strings.Contains(normalized, ind) {
				result.Confidence = clamp(result.Confidence*1.1, 0.0, 1.0)
				break
			}
		}
	}

	if result.Primary != intent.Unknown {
		intentions = append(intentions, Intention{
			ID:         newID("int"),
			ActorID:    "user",
			Goal:       string(result.Primary),
			Confidence: result.Confidence,
			Evidence:   []string{"intent matched: " + string(result.Primary)},
		})
	}
	if result.Secondary != "" {
		intentions = append(intentions, Intention{
			ID:         newID("int"),
			ActorID:    "user",
			Goal:       string(result.Secondary),
			Confidence: result.Confidence * 0.8,
			Evidence:   []string{"intent matched (secondary): " + string(result.Secondary)},
		})
	}
	if remaining := b.config.MaxIntentions - len(intentions); remaining > 0 && len(result.AllMatches) > 2 {
		extra := result.AllMatches[2:]
		if len(extra) > remaining {
			extra = extra[:remaining]
		}
		for _, m := range extra {
			if m.Category == intent.Unknown {
				continue
			}
			intentions = append(intentions, Intention{
				ID:         newID("int"),
				ActorID:    "user",
				Goal:       string(m.Category),
				Confidence: m.Confidence * 0.7,
				Evidence:   []string{"intent matched: " + m.MatchedPattern},
			})
		}
	}

	if len(intentions) == 0 {
		intentions = append(intentions, Intention{
			ID:         newID("int"),
			ActorID:    "user",
			Goal:       "communicate",
			Confidence: 0.5,
			Evidence:   []string{"default intention, nothing specific recognized"},
		})
	}
	if len(intentions) > b.config.MaxIntentions {
		intentions = intentions[:b.config.MaxIntentions]
	}
	return intentions
}

func (b *SituationBuilder) detectRisks(normalized string) []Risk {
	var risks []Risk
	for _, rp := range riskPatterns {
		for _, keyword := range rp.keywords {
			if strings.Contains(normalized, keyword) {
				risks = append(risks, Risk{
					Category:    rp.category,
					Level:       rp.level,
					Description: fmt.Sprintf("%q ifadesi algilandi", keyword),
					Mitigation:  rp.mitigation,
				})
				break
			}
		}
		if len(risks) >= b.config.MaxRisks {
			break
		}
	}
	return risks
}

// detectEmotion is a coarse valence/arousal reading from word lists.
func (b *SituationBuilder) detectEmotion(normalized string) *EmotionalState {
	var valence, arousal float64
	var primary string

	for _, w := range positiveWords {
		if strings.Contains(normalized, w) {
			valence += 0.3
			if primary == "" {
				primary = "positive"
			}
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(normalized, w) {
			valence -= 0.3
			if primary == "" {
				primary = "negative"
			}
		}
	}
	for _, w := range highArousalWords {
		if strings.Contains(normalized, w) {
			arousal += 0.2
		}
	}
	for _, w := range lowArousalWords {
		if strings.Contains(normalized, w) {
			arousal -= 0.2
		}
	}

	return &EmotionalState{
		Valence:        clamp(valence, -1.0, 1.0),
		Arousal:        clamp(arousal, -1.0, 1.0),
		PrimaryEmotion: primary,
		Confidence:     0.5,
	}
}

func (b *SituationBuilder) determineTopic(normalized string) string {
	for _, tp := range topicPatterns {
		for _, keyword := range tp.keywords {
			if strings.Contains(normalized, keyword) {
				return tp.topic
			}
		}
	}
	return "general"
}

func summarizeContext(utterance string, history []Turn) string {
	if len(history) == 0 {
		truncated := utterance
		if len(truncated) > 100 {
			truncated = truncated[:100] + "..."
		}
		return "Kullanici mesaji: " + truncated
	}
	start := len(history) - 3
	if start < 0 {
		start = 0
	}
	var parts []string
	for _, turn := range history[start:] {
		content := turn.Content
		if len(content) > 50 {
			content = content[:50]
		}
		parts = append(parts, turn.Role+": "+content+"...")
	}
	return strings.Join(parts, " | ")
}

// understanding scores how well the situation was grasped.
func (b *SituationBuilder) understanding(actors []Actor, intentions []Intention, risks []Risk, emotion *EmotionalState) float64 {
	score := 0.3

	if len(actors) > 2 {
		score += 0.1
	}
	if len(intentions) > 0 {
		sum := 0.0
		for _, in := range intentions {
			sum += in.Confidence
		}
		score += 0.2 * (sum / float64(len(intentions)))
	}
	if len(risks) > 0 {
		score += 0.1
	}
	if emotion != nil && emotion.PrimaryEmotion != "" {
		score += 0.1
	}
	for _, in := range intentions {
		if in.Confidence > 0.7 {
			score += 0.1
			break
		}
	}
	return clamp(score, 0.0, 1.0)
}
