package construction

import (
	"sort"
	"sync"

	"soylem/internal/logging"
)

// GrammarConfig controls the construction store.
type GrammarConfig struct {
	LoadDefaults           bool
	MaxConstructionsPerLvl int
}

// DefaultGrammarConfig returns the standard store settings.
func DefaultGrammarConfig() GrammarConfig {
	return GrammarConfig{
		LoadDefaults:           true,
		MaxConstructionsPerLvl: 100,
	}
}

// Grammar stores constructions across the three layers and indexes
// them by dialogue act for fast lookup during selection.
type Grammar struct {
	config GrammarConfig

	mu            sync.RWMutex
	byLevel       map[Level]map[string]*Construction
	byDialogueAct map[string][]string
}

// NewGrammar builds a store and seeds it when configured.
func NewGrammar(config GrammarConfig) *Grammar {
	g := &Grammar{
		config: config,
		byLevel: map[Level]map[string]*Construction{
			LevelDeep:    {},
			LevelMiddle:  {},
			LevelSurface: {},
		},
		byDialogueAct: map[string][]string{},
	}
	if config.LoadDefaults {
		n := g.LoadDefaults()
		n += LoadMVCS(g)
		logging.GrammarDebug("loaded %d default constructions", n)
	}
	return g
}

// Add inserts a construction, respecting the per-level capacity.
func (g *Grammar) Add(c *Construction) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	level := g.byLevel[c.Level]
	if level == nil {
		return false
	}
	if len(level) >= g.config.MaxConstructionsPerLvl {
		return false
	}
	level[c.ID] = c

	act := c.Meaning.DialogueAct
	for _, id := range g.byDialogueAct[act] {
		if id == c.ID {
			return true
		}
	}
	g.byDialogueAct[act] = append(g.byDialogueAct[act], c.ID)
	return true
}

// Remove deletes a construction by id from whichever layer holds it.
func (g *Grammar) Remove(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, level := range Levels {
		c, ok := g.byLevel[level][id]
		if !ok {
			continue
		}
		act := c.Meaning.DialogueAct
		ids := g.byDialogueAct[act]
		for i, cid := range ids {
			if cid == id {
				g.byDialogueAct[act] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		delete(g.byLevel[level], id)
		return true
	}
	return false
}

// Get returns a construction by id, or nil.
func (g *Grammar) Get(id string) *Construction {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.getLocked(id)
}

func (g *Grammar) getLocked(id string) *Construction {
	for _, level := range Levels {
		if c, ok := g.byLevel[level][id]; ok {
			return c
		}
	}
	return nil
}

// GetByLevel returns every construction in one layer.
func (g *Grammar) GetByLevel(level Level) []*Construction {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Construction, 0, len(g.byLevel[level]))
	for _, c := range g.byLevel[level] {
		out = append(out, c)
	}
	return out
}

// GetByDialogueAct returns the constructions expressing one act.
func (g *Grammar) GetByDialogueAct(act string) []*Construction {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []*Construction
	for _, id := range g.byDialogueAct[act] {
		if c := g.getLocked(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// FindMatching returns constructions for the given acts, filtered by
// tone when one is requested and sorted best-first by confidence then
// observed success rate. A construction with no declared tone passes
// any tone filter.
func (g *Grammar) FindMatching(acts []string, tone string, constraints []string) []*Construction {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := map[string]struct{}{}
	var matching []*Construction
	for _, act := range acts {
		for _, id := range g.byDialogueAct[act] {
			if _, dup := seen[id]; dup {
				continue
			}
			c := g.getLocked(id)
			if c == nil {
				continue
			}
			if tone != "" && c.Extra.Tone != "" && c.Extra.Tone != tone {
				continue
			}
			seen[id] = struct{}{}
			matching = append(matching, c)
		}
	}

	sort.SliceStable(matching, func(i, j int) bool {
		if matching[i].Confidence != matching[j].Confidence {
			return matching[i].Confidence > matching[j].Confidence
		}
		return matching[i].SuccessRate() > matching[j].SuccessRate()
	})
	return matching
}

// All returns every stored construction, deep layer first.
func (g *Grammar) All() []*Construction {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []*Construction
	for _, level := range Levels {
		for _, c := range g.byLevel[level] {
			out = append(out, c)
		}
	}
	return out
}

// Counts reports how many constructions each layer holds.
func (g *Grammar) Counts() map[Level]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	counts := make(map[Level]int, len(Levels))
	for _, level := range Levels {
		counts[level] = len(g.byLevel[level])
	}
	return counts
}

// Total returns the overall construction count.
func (g *Grammar) Total() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	total := 0
	for _, level := range Levels {
		total += len(g.byLevel[level])
	}
	return total
}

// Clear empties the store, indexes included.
func (g *Grammar) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, level := range Levels {
		g.byLevel[level] = map[string]*Construction{}
	}
	g.byDialogueAct = map[string][]string{}
}

// LoadDefaults seeds the built-in Turkish constructions and returns
// how many were added.
func (g *Grammar) LoadDefaults() int {
	count := 0
	for _, c := range defaultConstructions() {
		if g.Add(c) {
			count++
		}
	}
	return count
}

func seed(name string, level Level, form Form, meaning Meaning, extra Extra) *Construction {
	c, err := NewConstruction(DeterministicID(name), level, form, meaning, 0.8, "human")
	if err != nil {
		// Seed data is static; a failure here is a programming error.
		panic(err)
	}
	c.Extra = extra
	return c
}

func entitySlot(name, description string) Slot {
	return Slot{ID: NewSlotID(), Name: name, Type: SlotEntity, Required: true, Description: description}
}

func defaultConstructions() []*Construction {
	var out []*Construction

	// Deep layer: speech-act level intents.
	out = append(out,
		seed("deep_inform", LevelDeep,
			Form{
				Template: "{konu} hakkinda bilgi ver",
				Slots:    map[string]Slot{"konu": entitySlot("konu", "Bilgi verilecek konu")},
			},
			Meaning{
				DialogueAct:   "inform",
				SemanticRoles: map[string]string{"theme": "konu"},
				Effects:       []string{"user_informed"},
			},
			Extra{Tone: "neutral"}),
		seed("deep_explain", LevelDeep,
			Form{
				Template: "{konu} konusunu acikla",
				Slots:    map[string]Slot{"konu": entitySlot("konu", "")},
			},
			Meaning{
				DialogueAct:   "explain",
				SemanticRoles: map[string]string{"theme": "konu"},
				Effects:       []string{"user_understands"},
			},
			Extra{Tone: "neutral"}),
		seed("deep_warn", LevelDeep,
			Form{
				Template: "{tehlike} konusunda uyar",
				Slots:    map[string]Slot{"tehlike": entitySlot("tehlike", "Uyarilacak tehlike")},
			},
			Meaning{
				DialogueAct:        "warn",
				SemanticRoles:      map[string]string{"theme": "tehlike"},
				Effects:            []string{"user_warned"},
				IllocutionaryForce: "directive",
			},
			Extra{Tone: "serious"}),
		seed("deep_empathize", LevelDeep,
			Form{
				Template: "{duygu} duygusunu anla ve paylas",
				Slots:    map[string]Slot{"duygu": entitySlot("duygu", "")},
			},
			Meaning{
				DialogueAct:   "empathize",
				SemanticRoles: map[string]string{"experiencer": "user", "theme": "duygu"},
				Effects:       []string{"user_feels_understood"},
			},
			Extra{Tone: "empathic"}),
		seed("deep_ask", LevelDeep,
			Form{
				Template: "{konu} hakkinda sor",
				Slots:    map[string]Slot{"konu": entitySlot("konu", "")},
			},
			Meaning{
				DialogueAct:        "ask",
				SemanticRoles:      map[string]string{"theme": "konu"},
				Effects:            []string{"information_requested"},
				IllocutionaryForce: "question",
			},
			Extra{Tone: "neutral"}),
		seed("deep_suggest", LevelDeep,
			Form{
				Template: "{oneri} secenegini oner",
				Slots:    map[string]Slot{"oneri": entitySlot("oneri", "")},
			},
			Meaning{
				DialogueAct:   "suggest",
				SemanticRoles: map[string]string{"theme": "oneri"},
				Effects:       []string{"suggestion_made"},
			},
			Extra{Tone: "supportive"}),
		seed("deep_acknowledge", LevelDeep,
			Form{Template: "anladigini goster", Slots: map[string]Slot{}},
			Meaning{
				DialogueAct: "acknowledge",
				Effects:     []string{"user_acknowledged"},
			},
			Extra{Tone: "neutral"}),
	)

	// Middle layer: sentence skeletons.
	out = append(out,
		seed("middle_subject_verb", LevelMiddle,
			Form{
				Template: "{ozne} {yuklem}",
				Slots: map[string]Slot{
					"ozne":   entitySlot("ozne", "Cumlenin oznesi"),
					"yuklem": {ID: NewSlotID(), Name: "yuklem", Type: SlotVerb, Required: true, Description: "Cumlenin yuklemi"},
				},
				WordOrder: "SOV",
			},
			Meaning{
				DialogueAct:   "inform",
				SemanticRoles: map[string]string{"agent": "ozne", "action": "yuklem"},
			},
			Extra{}),
		seed("middle_subject_object_verb", LevelMiddle,
			Form{
				Template: "{ozne} {nesne} {yuklem}",
				Slots: map[string]Slot{
					"ozne":   entitySlot("ozne", ""),
					"nesne":  entitySlot("nesne", ""),
					"yuklem": {ID: NewSlotID(), Name: "yuklem", Type: SlotVerb, Required: true},
				},
				WordOrder: "SOV",
			},
			Meaning{
				DialogueAct:   "inform",
				SemanticRoles: map[string]string{"agent": "ozne", "patient": "nesne", "action": "yuklem"},
			},
			Extra{}),
		seed("middle_cause_effect", LevelMiddle,
			Form{
				Template: "{neden} icin {sonuc}",
				Slots: map[string]Slot{
					"neden": {ID: NewSlotID(), Name: "neden", Type: SlotReason, Required: true},
					"sonuc": entitySlot("sonuc", ""),
				},
			},
			Meaning{
				DialogueAct:   "explain",
				SemanticRoles: map[string]string{"cause": "neden", "effect": "sonuc"},
			},
			Extra{}),
		seed("middle_because", LevelMiddle,
			Form{
				Template: "{sonuc}, cunku {neden}",
				Slots: map[string]Slot{
					"sonuc": entitySlot("sonuc", ""),
					"neden": {ID: NewSlotID(), Name: "neden", Type: SlotReason, Required: true},
				},
			},
			Meaning{
				DialogueAct:   "explain",
				SemanticRoles: map[string]string{"effect": "sonuc", "cause": "neden"},
			},
			Extra{}),
		seed("middle_question", LevelMiddle,
			Form{
				Template: "{soru_kelimesi} {konu}?",
				Slots: map[string]Slot{
					"soru_kelimesi": {
						ID: NewSlotID(), Name: "soru_kelimesi", Type: SlotFiller, Required: true,
						Constraints: SlotConstraints{AllowedValues: []string{"ne", "nasil", "neden", "nerede", "ne zaman", "kim"}},
					},
					"konu": entitySlot("konu", ""),
				},
				Intonation: "rising",
			},
			Meaning{
				DialogueAct:        "ask",
				IllocutionaryForce: "question",
			},
			Extra{}),
		seed("middle_suggestion", LevelMiddle,
			Form{
				Template: "{oneri} yapabilirsin",
				Slots:    map[string]Slot{"oneri": entitySlot("oneri", "")},
			},
			Meaning{DialogueAct: "suggest"},
			Extra{}),
		seed("middle_maybe", LevelMiddle,
			Form{
				Template: "Belki {oneri}",
				Slots:    map[string]Slot{"oneri": entitySlot("oneri", "")},
			},
			Meaning{DialogueAct: "suggest"},
			Extra{Tone: "cautious"}),
	)

	// Surface layer: concrete sentences.
	out = append(out,
		seed("surface_inform", LevelSurface,
			Form{
				Template: "{konu} {bilgi}.",
				Slots: map[string]Slot{
					"konu":  entitySlot("konu", ""),
					"bilgi": entitySlot("bilgi", ""),
				},
			},
			Meaning{DialogueAct: "inform"},
			Extra{}),
		seed("surface_warn", LevelSurface,
			Form{
				Template: "Dikkat! {uyari}.",
				Slots:    map[string]Slot{"uyari": entitySlot("uyari", "")},
			},
			Meaning{DialogueAct: "warn"},
			Extra{Tone: "serious"}),
		seed("surface_empathy", LevelSurface,
			Form{
				Template: "Seni anliyorum, {duygu} hissetmen normal.",
				Slots:    map[string]Slot{"duygu": entitySlot("duygu", "")},
			},
			Meaning{DialogueAct: "empathize"},
			Extra{Tone: "empathic"}),
		seed("surface_empathy_alt", LevelSurface,
			Form{
				Template: "Bu durumda {duygu} hissetmen cok dogal.",
				Slots:    map[string]Slot{"duygu": entitySlot("duygu", "")},
			},
			Meaning{DialogueAct: "empathize"},
			Extra{Tone: "supportive"}),
		seed("surface_acknowledge", LevelSurface,
			Form{Template: "Anliyorum.", Slots: map[string]Slot{}},
			Meaning{DialogueAct: "acknowledge"},
			Extra{}),
		seed("surface_acknowledge_alt", LevelSurface,
			Form{
				Template: "Evet, {onay}.",
				Slots: map[string]Slot{
					"onay": {ID: NewSlotID(), Name: "onay", Type: SlotEntity, Required: false, Default: "anladim"},
				},
			},
			Meaning{DialogueAct: "acknowledge"},
			Extra{}),
		seed("surface_suggest", LevelSurface,
			Form{
				Template: "{oneri} deneyebilirsin.",
				Slots:    map[string]Slot{"oneri": entitySlot("oneri", "")},
			},
			Meaning{DialogueAct: "suggest"},
			Extra{Tone: "supportive"}),
	)

	return out
}
