// Package dialogue models the conversational situation and plans the
// reply: who is involved, what they want, what risks the utterance
// carries, which dialogue acts to respond with, and in what tone.
package dialogue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Act is a dialogue act the reply can perform.
type Act string

const (
	ActInform      Act = "inform"
	ActAsk         Act = "ask"
	ActConfirm     Act = "confirm"
	ActDeny        Act = "deny"
	ActClarify     Act = "clarify"
	ActEmpathize   Act = "empathize"
	ActComfort     Act = "comfort"
	ActEncourage   Act = "encourage"
	ActWarn        Act = "warn"
	ActAdvise      Act = "advise"
	ActSuggest     Act = "suggest"
	ActRefuse      Act = "refuse"
	ActLimit       Act = "limit"
	ActDeflect     Act = "deflect"
	ActApologize   Act = "apologize"
	ActThank       Act = "thank"
	ActAcknowledge Act = "acknowledge"
	ActExplain     Act = "explain"
	ActGreet       Act = "greet"

	// Social acts for everyday conversational moves
	ActRespondWellbeing    Act = "respond_wellbeing"
	ActReceiveThanks       Act = "receive_thanks"
	ActLightChitchat       Act = "light_chitchat"
	ActAcknowledgePositive Act = "acknowledge_positive"
	ActFarewell            Act = "farewell"
)

// Tone is the overall register of the reply.
type Tone string

const (
	ToneNeutral      Tone = "neutral"
	ToneEmpathic     Tone = "empathic"
	ToneFormal       Tone = "formal"
	ToneCasual       Tone = "casual"
	ToneSupportive   Tone = "supportive"
	ToneCautious     Tone = "cautious"
	ToneSerious      Tone = "serious"
	ToneEnthusiastic Tone = "enthusiastic"
)

// Actor is a participant in the conversation.
type Actor struct {
	ID      string
	Role    string // "user", "assistant", "third_party"
	Name    string
	Traits  map[string]interface{}
	Context map[string]interface{}
}

// Intention is a detected goal of an actor.
type Intention struct {
	ID         string
	ActorID    string
	Goal       string
	SubGoals   []string
	Confidence float64
	Evidence   []string
}

// Risk is a hazard detected while reading the situation.
type Risk struct {
	Category    string // "ethical", "emotional", "safety", "relational"
	Level       float64
	Description string
	Mitigation  string
}

// Relationship describes the standing between two actors.
type Relationship struct {
	FromActorID string
	ToActorID   string
	Type        string  // "trust", "rapport", "conflict", "neutral"
	Strength    float64 // -1.0 to 1.0
}

// TemporalContext captures conversation timing state.
type TemporalContext struct {
	ConversationStart time.Time
	CurrentTime       time.Time
	TurnCount         int
	TimeSinceLastTurn time.Duration
}

// EmotionalState is a valence/arousal/dominance reading of the user.
type EmotionalState struct {
	Valence          float64 // -1.0 (negative) to 1.0 (positive)
	Arousal          float64 // -1.0 (calm) to 1.0 (agitated)
	Dominance        float64 // -1.0 (powerless) to 1.0 (in control)
	PrimaryEmotion   string
	SecondaryEmotion []string
	Confidence       float64
}

// SituationModel is the structured understanding of one utterance in context.
type SituationModel struct {
	ID                 string
	Actors             []Actor
	Intentions         []Intention
	Risks              []Risk
	Relationships      []Relationship
	Temporal           *TemporalContext
	Emotion            *EmotionalState
	TopicDomain        string
	UnderstandingScore float64
	KeyEntities        []string
	Context            map[string]interface{}
	CreatedAt          time.Time
}

// HighestRisk returns the most severe risk, or nil when none were found.
func (s *SituationModel) HighestRisk() *Risk {
	var highest *Risk
	for i := range s.Risks {
		if highest == nil || s.Risks[i].Level > highest.Level {
			highest = &s.Risks[i]
		}
	}
	return highest
}

// RisksByCategory returns risks filtered by category.
func (s *SituationModel) RisksByCategory(category string) []Risk {
	var out []Risk
	for _, r := range s.Risks {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// PrimaryIntention returns the highest-confidence intention, or nil.
func (s *SituationModel) PrimaryIntention() *Intention {
	var best *Intention
	for i := range s.Intentions {
		if best == nil || s.Intentions[i].Confidence > best.Confidence {
			best = &s.Intentions[i]
		}
	}
	return best
}

// MessagePlan is what to say: acts, tone, content and constraints.
// Plans are immutable; UpdatePlan on the planner derives a new one.
type MessagePlan struct {
	ID            string
	DialogueActs  []Act // never empty
	PrimaryIntent string
	Tone          Tone
	ContentPoints []string
	// OptionalPoints come from secondary acts; they may flavor the
	// reply but are not required to be covered by it.
	OptionalPoints []string
	Constraints    []string
	RiskLevel      float64
	Confidence     float64
	SituationID    string
	Context        map[string]interface{}
	CreatedAt      time.Time
}

// Validate checks plan invariants.
func (p *MessagePlan) Validate() error {
	if len(p.DialogueActs) == 0 {
		return fmt.Errorf("message plan %s has no dialogue acts", p.ID)
	}
	if p.RiskLevel < 0.0 || p.RiskLevel > 1.0 {
		return fmt.Errorf("message plan %s risk level %v out of [0,1]", p.ID, p.RiskLevel)
	}
	if p.Confidence < 0.0 || p.Confidence > 1.0 {
		return fmt.Errorf("message plan %s confidence %v out of [0,1]", p.ID, p.Confidence)
	}
	return nil
}

// HasAct reports whether the plan contains the given act.
func (p *MessagePlan) HasAct(act Act) bool {
	for _, a := range p.DialogueActs {
		if a == act {
			return true
		}
	}
	return false
}

// ActStrings returns the dialogue acts as plain strings.
func (p *MessagePlan) ActStrings() []string {
	out := make([]string, len(p.DialogueActs))
	for i, a := range p.DialogueActs {
		out[i] = string(a)
	}
	return out
}

// ScoredAct is a dialogue act with its selection score.
type ScoredAct struct {
	Act   Act
	Score float64
}

// ActSelection is the outcome of dialogue act selection. Acts carry
// the reply; SecondaryActs are the runners-up that may color it.
type ActSelection struct {
	Acts          []ScoredAct // sorted by score, never empty
	SecondaryActs []ScoredAct // next-best acts above threshold, may be empty
	Confidence    float64
	Reasoning     []string
}

// TopAct returns the best-scoring act.
func (s ActSelection) TopAct() Act {
	return s.Acts[0].Act
}

// ActList returns the selected acts in score order.
func (s ActSelection) ActList() []Act {
	acts := make([]Act, len(s.Acts))
	for i, sa := range s.Acts {
		acts[i] = sa.Act
	}
	return acts
}

// SecondaryActList returns the runner-up acts in score order.
func (s ActSelection) SecondaryActList() []Act {
	acts := make([]Act, len(s.SecondaryActs))
	for i, sa := range s.SecondaryActs {
		acts[i] = sa.Act
	}
	return acts
}

func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// NewSituationID returns a fresh situation model id.
func NewSituationID() string { return newID("sit") }

// NewPlanID returns a fresh message plan id.
func NewPlanID() string { return newID("plan") }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
