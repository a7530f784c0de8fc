package construction

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"soylem/internal/logging"
)

// RealizationResult is the outcome of turning a construction into text.
type RealizationResult struct {
	Success        bool
	Text           string
	ConstructionID string
	FilledSlots    map[string]string
	MissingSlots   []string
	Errors         []string
}

// RealizerConfig controls template filling and post-processing.
type RealizerConfig struct {
	ApplyMorphology  bool
	UseDefaults      bool
	StrictValidation bool
	CapitalizeFirst  bool
	AddPunctuation   bool
}

// DefaultRealizerConfig returns the lenient settings used in the
// pipeline: missing optional slots degrade, they do not fail.
func DefaultRealizerConfig() RealizerConfig {
	return RealizerConfig{
		ApplyMorphology: true,
		UseDefaults:     true,
		CapitalizeFirst: true,
		AddPunctuation:  true,
	}
}

// Realizer fills construction templates into concrete Turkish text.
type Realizer struct {
	config RealizerConfig
}

// NewRealizer builds a realizer.
func NewRealizer(config RealizerConfig) *Realizer {
	return &Realizer{config: config}
}

// Realize fills the construction template with the given slot values,
// applies morphology and post-processing, and reports what happened.
// In strict mode missing required slots fail the realization; in
// lenient mode they are dropped and recorded as errors.
func (r *Realizer) Realize(c *Construction, slotValues map[string]string) RealizationResult {
	missing, errs := r.validateSlots(c, slotValues)
	if len(missing) > 0 && r.config.StrictValidation {
		return RealizationResult{
			ConstructionID: c.ID,
			MissingSlots:   missing,
			Errors:         errs,
		}
	}

	text, filled, unfilledRequired := r.fillTemplate(c, slotValues)

	if len(unfilledRequired) > 0 {
		missing = mergeUnique(missing, unfilledRequired)
		for _, name := range unfilledRequired {
			errs = append(errs, "required slot not filled: "+name)
		}
		if r.config.StrictValidation {
			return RealizationResult{
				ConstructionID: c.ID,
				FilledSlots:    filled,
				MissingSlots:   missing,
				Errors:         errs,
			}
		}
	}

	if strings.TrimSpace(text) == "" {
		return RealizationResult{
			ConstructionID: c.ID,
			FilledSlots:    filled,
			MissingSlots:   missing,
			Errors:         append(errs, "empty text after template filling"),
		}
	}

	if r.config.ApplyMorphology {
		text = r.applyMorphology(text, c)
	}
	text = r.postProcess(text, c)

	logging.RealizerDebug("realized %s: %d chars, %d missing slots", c.ID, len(text), len(missing))

	return RealizationResult{
		Success:        true,
		Text:           text,
		ConstructionID: c.ID,
		FilledSlots:    filled,
		MissingSlots:   missing,
		Errors:         errs,
	}
}

// RealizeMultiple realizes each construction with the shared slot
// values and joins the successful ones. It succeeds when at least one
// construction produced text.
func (r *Realizer) RealizeMultiple(constructions []*Construction, slotValues map[string]string, separator string) RealizationResult {
	var texts []string
	var ids []string
	filled := map[string]string{}
	var missing []string
	var errs []string

	for _, c := range constructions {
		ids = append(ids, c.ID)
		result := r.Realize(c, slotValues)
		if result.Success {
			texts = append(texts, result.Text)
			for k, v := range result.FilledSlots {
				filled[k] = v
			}
		}
		missing = mergeUnique(missing, result.MissingSlots)
		errs = append(errs, result.Errors...)
	}

	return RealizationResult{
		Success:        len(texts) > 0,
		Text:           strings.Join(texts, separator),
		ConstructionID: strings.Join(ids, ","),
		FilledSlots:    filled,
		MissingSlots:   missing,
		Errors:         errs,
	}
}

// RequiredSlots lists the slots the caller must fill: required ones
// without a default.
func (r *Realizer) RequiredSlots(c *Construction) []string {
	var out []string
	for _, slot := range c.Form.Slots {
		if slot.Required && slot.Default == "" {
			out = append(out, slot.Name)
		}
	}
	sort.Strings(out)
	return out
}

// SlotTypes maps each slot name to its type.
func (r *Realizer) SlotTypes(c *Construction) map[string]SlotType {
	out := make(map[string]SlotType, len(c.Form.Slots))
	for name, slot := range c.Form.Slots {
		out[name] = slot.Type
	}
	return out
}

func (r *Realizer) validateSlots(c *Construction, slotValues map[string]string) (missing, errs []string) {
	for name, slot := range c.Form.Slots {
		value := slotValues[name]
		if slot.Required && value == "" {
			if r.config.UseDefaults && slot.Default != "" {
				continue
			}
			missing = append(missing, name)
			errs = append(errs, "missing required slot: "+name)
			continue
		}
		if value != "" && !slot.ValidateValue(value) {
			errs = append(errs, "invalid value for slot "+name+": "+value)
		}
	}
	sort.Strings(missing)
	return missing, errs
}

func (r *Realizer) fillTemplate(c *Construction, slotValues map[string]string) (text string, filled map[string]string, unfilledRequired []string) {
	text = c.Form.Template
	filled = map[string]string{}

	for name, slot := range c.Form.Slots {
		value := slotValues[name]
		if value == "" && r.config.UseDefaults {
			value = slot.Default
		}

		placeholder := "{" + name + "}"
		if value != "" {
			text = strings.ReplaceAll(text, placeholder, value)
			filled[name] = value
		} else {
			if slot.Required {
				unfilledRequired = append(unfilledRequired, name)
			}
			text = strings.ReplaceAll(text, placeholder, "")
		}
	}
	sort.Strings(unfilledRequired)

	return strings.Join(strings.Fields(text), " "), filled, unfilledRequired
}

func (r *Realizer) applyMorphology(text string, c *Construction) string {
	rules := make([]MorphologyRule, len(c.Form.MorphologyRules))
	copy(rules, c.Form.MorphologyRules)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority > rules[j].Priority })

	for _, rule := range rules {
		text = applyRule(text, rule)
	}
	return text
}

// applyRule handles one explicit morphology rule. Condition is the
// trigger substring and Transformation its replacement. Full Turkish
// morphology is out of reach here; rules stay conservative and leave
// the text alone when they cannot apply cleanly.
func applyRule(text string, rule MorphologyRule) string {
	if rule.Condition == "" || rule.Transformation == "" {
		return text
	}
	return strings.ReplaceAll(text, rule.Condition, rule.Transformation)
}

func (r *Realizer) postProcess(text string, c *Construction) string {
	text = strings.Join(strings.Fields(text), " ")

	if r.config.CapitalizeFirst && text != "" {
		first, size := utf8.DecodeRuneInString(text)
		text = string(unicode.ToUpper(first)) + text[size:]
	}

	if r.config.AddPunctuation {
		text = addPunctuation(text, c)
	}
	return text
}

func addPunctuation(text string, c *Construction) string {
	if text == "" {
		return text
	}
	if strings.ContainsRune(".!?", rune(text[len(text)-1])) {
		return text
	}

	if c.Form.Intonation == "rising" {
		return text + "?"
	}
	switch c.Meaning.DialogueAct {
	case "ask":
		return text + "?"
	case "warn":
		return text + "!"
	}
	return text + "."
}

func mergeUnique(dst, src []string) []string {
	for _, s := range src {
		found := false
		for _, existing := range dst {
			if existing == s {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}
