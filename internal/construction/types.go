// Package construction implements the three-layer construction grammar
// behind reply generation: deep constructions carry intent, middle ones
// carry sentence skeletons, surface ones carry concrete Turkish forms.
// A store indexes them, a selector scores them against a message plan
// and a realizer turns the winner into text.
package construction

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Level is the grammar layer of a construction.
type Level string

const (
	LevelDeep    Level = "deep"    // semantic/pragmatic
	LevelMiddle  Level = "middle"  // syntactic
	LevelSurface Level = "surface" // morphological
)

// Levels lists all layers, most abstract first.
var Levels = []Level{LevelDeep, LevelMiddle, LevelSurface}

// SlotType classifies a template variable.
type SlotType string

const (
	SlotEntity    SlotType = "entity"
	SlotVerb      SlotType = "verb"
	SlotAdjective SlotType = "adjective"
	SlotAdverb    SlotType = "adverb"
	SlotNumber    SlotType = "number"
	SlotTime      SlotType = "time"
	SlotPlace     SlotType = "place"
	SlotReason    SlotType = "reason"
	SlotConnector SlotType = "connector"
	SlotFiller    SlotType = "filler"
)

// SlotConstraints bounds the values a slot accepts.
type SlotConstraints struct {
	MinLength     int
	MaxLength     int
	AllowedValues []string
}

// Slot is a named variable inside a template.
type Slot struct {
	ID          string
	Name        string
	Type        SlotType
	Required    bool
	Default     string
	Constraints SlotConstraints
	Description string
}

// ValidateValue reports whether the value satisfies the slot.
func (s Slot) ValidateValue(value string) bool {
	if value == "" {
		return !s.Required || s.Default != ""
	}
	if s.Constraints.MinLength > 0 && len(value) < s.Constraints.MinLength {
		return false
	}
	if s.Constraints.MaxLength > 0 && len(value) > s.Constraints.MaxLength {
		return false
	}
	if len(s.Constraints.AllowedValues) > 0 {
		for _, allowed := range s.Constraints.AllowedValues {
			if value == allowed {
				return true
			}
		}
		return false
	}
	return true
}

// Value returns the provided value or falls back to the default.
func (s Slot) Value(provided string) string {
	if provided != "" {
		return provided
	}
	return s.Default
}

// MorphologyRule is a surface-layer suffix rule, applied by priority.
type MorphologyRule struct {
	ID             string
	Name           string
	RuleType       string // "vowel_harmony", "consonant_softening", "suffix_order"
	Condition      string // substring that triggers the rule
	Transformation string // replacement text
	Priority       int    // higher runs first
}

// Form is the surface shape: template, slots and morphology.
type Form struct {
	Template        string
	Slots           map[string]Slot
	MorphologyRules []MorphologyRule
	WordOrder       string // "SOV", "SVO", "free"
	Intonation      string // "rising", "falling", "neutral"
}

// RequiredSlots returns the slots that must be filled.
func (f Form) RequiredSlots() []Slot {
	var required []Slot
	for _, s := range f.Slots {
		if s.Required {
			required = append(required, s)
		}
	}
	return required
}

// ValidateSlots checks values against the slot definitions.
func (f Form) ValidateSlots(values map[string]string) []string {
	var errs []string
	for name, slot := range f.Slots {
		value := values[name]
		switch {
		case slot.Required && value == "" && slot.Default == "":
			errs = append(errs, "missing required slot: "+name)
		case value != "" && !slot.ValidateValue(value):
			errs = append(errs, fmt.Sprintf("invalid value for slot %s: %q", name, value))
		}
	}
	return errs
}

// Meaning binds a construction to a dialogue act and its conditions.
type Meaning struct {
	DialogueAct         string
	SemanticRoles       map[string]string
	Preconditions       []string
	Effects             []string
	IllocutionaryForce  string // "assertion", "question", "command", "promise"
	ContextRequirements map[string]interface{}
}

// MatchesContext reports whether all context requirements hold.
func (m Meaning) MatchesContext(ctx map[string]interface{}) bool {
	for key, want := range m.ContextRequirements {
		got, ok := ctx[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Extra carries the closed set of optional tags a construction may
// declare; selection reads tone and the seed-set markers from here.
type Extra struct {
	Tone            string
	Formality       string // "formal", "informal", "neutral"
	IsMVCS          bool
	MVCSCategory    string
	MVCSName        string
	ValuesAlignment []string
	Constraints     []string
}

// Construction is one form-meaning pairing with usage counters.
// Counters feed a derived success rate and an asymmetric confidence:
// success earns +0.05, failure costs 0.1, clamped to [0,1].
type Construction struct {
	ID           string
	Level        Level
	Form         Form
	Meaning      Meaning
	SuccessCount int
	FailureCount int
	Confidence   float64
	Source       string // "human", "learned", "generated"
	ParentID     string
	ChildrenIDs  []string
	CreatedAt    time.Time
	LastUsed     time.Time
	Extra        Extra
}

var validSources = map[string]struct{}{"human": {}, "learned": {}, "generated": {}}

// NewConstruction builds a validated construction. Malformed data
// fails fast here rather than surfacing mid-pipeline.
func NewConstruction(id string, level Level, form Form, meaning Meaning, confidence float64, source string) (*Construction, error) {
	if confidence < 0.0 || confidence > 1.0 {
		return nil, fmt.Errorf("construction %s: confidence %v out of [0,1]", id, confidence)
	}
	if _, ok := validSources[source]; !ok {
		return nil, fmt.Errorf("construction %s: unknown source %q", id, source)
	}
	if meaning.DialogueAct == "" {
		return nil, fmt.Errorf("construction %s: empty dialogue act", id)
	}
	if id == "" {
		id = NewConstructionID()
	}
	return &Construction{
		ID:         id,
		Level:      level,
		Form:       form,
		Meaning:    meaning,
		Confidence: confidence,
		Source:     source,
		CreatedAt:  time.Now(),
	}, nil
}

// SuccessRate returns the observed success ratio, 0.5 when unused.
func (c *Construction) SuccessRate() float64 {
	total := c.SuccessCount + c.FailureCount
	if total == 0 {
		return 0.5
	}
	return float64(c.SuccessCount) / float64(total)
}

// TotalUses returns the combined usage count.
func (c *Construction) TotalUses() int {
	return c.SuccessCount + c.FailureCount
}

// IsReliable requires at least 3 uses with a 70% success rate.
func (c *Construction) IsReliable() bool {
	return c.TotalUses() >= 3 && c.SuccessRate() >= 0.7
}

// RecordSuccess bumps the counters and nudges confidence up.
func (c *Construction) RecordSuccess() {
	c.SuccessCount++
	c.LastUsed = time.Now()
	c.Confidence = clamp01(c.Confidence + 0.05)
}

// RecordFailure bumps the counters and pulls confidence down harder.
func (c *Construction) RecordFailure() {
	c.FailureCount++
	c.LastUsed = time.Now()
	c.Confidence = clamp01(c.Confidence - 0.1)
}

// MatchesDialogueAct reports whether this construction expresses act.
func (c *Construction) MatchesDialogueAct(act string) bool {
	return c.Meaning.DialogueAct == act
}

func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// NewConstructionID returns a fresh construction id.
func NewConstructionID() string { return newID("cons") }

// NewSlotID returns a fresh slot id.
func NewSlotID() string { return newID("slot") }

// NewMorphologyRuleID returns a fresh morphology rule id.
func NewMorphologyRuleID() string { return newID("morph") }

// DeterministicID derives a stable construction id from a seed name,
// so the built-in set keeps the same ids across restarts.
func DeterministicID(name string) string {
	sum := sha256.Sum256([]byte(name))
	return "cons_" + hex.EncodeToString(sum[:])[:12]
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
