package dialogue

import (
	"time"

	"soylem/internal/logging"
)

// MessagePlannerConfig controls plan generation.
type MessagePlannerConfig struct {
	MaxContentPoints        int
	MaxConstraints          int
	DefaultTone             Tone
	EnableConstraints       bool
	RiskThresholdForCaution float64
}

// DefaultMessagePlannerConfig returns the standard planner settings.
func DefaultMessagePlannerConfig() MessagePlannerConfig {
	return MessagePlannerConfig{
		MaxContentPoints:        10,
		MaxConstraints:          5,
		DefaultTone:             ToneNeutral,
		EnableConstraints:       true,
		RiskThresholdForCaution: 0.5,
	}
}

// MessagePlanner turns an act selection plus a situation into a full
// MessagePlan: what to say, in which tone, under which constraints.
type MessagePlanner struct {
	config MessagePlannerConfig
}

// NewMessagePlanner builds a message planner.
func NewMessagePlanner(config MessagePlannerConfig) *MessagePlanner {
	if config.MaxContentPoints <= 0 {
		config.MaxContentPoints = 10
	}
	if config.MaxConstraints <= 0 {
		config.MaxConstraints = 5
	}
	if config.DefaultTone == "" {
		config.DefaultTone = ToneNeutral
	}
	return &MessagePlanner{config: config}
}

var actContentMap = map[Act]string{
	ActInform:              "Istenen bilgiyi ver",
	ActExplain:             "Konuyu detayli acikla",
	ActClarify:             "Belirsiz noktalari netlestir",
	ActAsk:                 "Gerekli soruyu sor",
	ActConfirm:             "Dogrulama iste",
	ActEmpathize:           "Duygularini anladigini goster",
	ActEncourage:           "Cesaretlendirici mesaj ver",
	ActComfort:             "Teselli et ve rahatlat",
	ActSuggest:             "Oneri sun",
	ActWarn:                "Risk konusunda uyar",
	ActAdvise:              "Tavsiye ver",
	ActRefuse:              "Nazikce reddet ve nedenini acikla",
	ActLimit:               "Kapsami ve sinirlari belirt",
	ActDeflect:             "Konuyu uygun sekilde yonlendir",
	ActAcknowledge:         "Mesaji anladigini goster",
	ActApologize:           "Uygun durumda ozur dile",
	ActThank:               "Tesekkur et",
	ActGreet:               "Selamla",
	ActRespondWellbeing:    "Hal hatir sorusuna karsilik ver",
	ActReceiveThanks:       "Tesekkuru kabul et",
	ActLightChitchat:       "Sohbeti surdur",
	ActAcknowledgePositive: "Olumlu durumu takdir et",
	ActFarewell:            "Vedalas",
}

var actIntentMap = map[Act]string{
	ActInform:              "Kullaniciyi bilgilendir",
	ActExplain:             "Kullaniciya acikla",
	ActClarify:             "Belirsizligi gider",
	ActAsk:                 "Kullaniciya soru sor",
	ActConfirm:             "Dogrulama al",
	ActEmpathize:           "Empati kur",
	ActEncourage:           "Kullaniciyi cesaretlendir",
	ActComfort:             "Kullaniciyi teselli et",
	ActSuggest:             "Oneri sun",
	ActWarn:                "Kullaniciyi uyar",
	ActAdvise:              "Tavsiye ver",
	ActRefuse:              "Istegi reddet",
	ActLimit:               "Kapsami sinirla",
	ActDeflect:             "Konuyu yonlendir",
	ActAcknowledge:         "Kullanici mesajini kabul et",
	ActApologize:           "Ozur dile",
	ActThank:               "Tesekkur et",
	ActGreet:               "Kullaniciyi selamla",
	ActRespondWellbeing:    "Hal hatir bildir",
	ActReceiveThanks:       "Tesekkuru karsila",
	ActLightChitchat:       "Sohbet et",
	ActAcknowledgePositive: "Olumlu durumu kabul et",
	ActFarewell:            "Vedalas",
}

var riskConstraintMap = map[string]string{
	"safety":     "Guvenlik oncelikli, profesyonel yardim yonlendir",
	"emotional":  "Duygusal hassasiyet ile yaklas",
	"ethical":    "Etik sinirlari asma, alternatif oner",
	"relational": "Tarafsiz ve dengeli ol",
}

// Plan builds a MessagePlan from the selection and the situation.
func (p *MessagePlanner) Plan(selection ActSelection, situation *SituationModel, extra map[string]interface{}) *MessagePlan {
	timer := logging.StartTimer(logging.CategoryPlanner, "plan")
	defer timer.Stop()

	acts := selection.ActList()
	if len(acts) == 0 {
		acts = []Act{ActAcknowledge}
	}

	riskLevel := 0.0
	if highest := situation.HighestRisk(); highest != nil {
		riskLevel = highest.Level
	}

	ctx := map[string]interface{}{
		"act_selection_confidence": selection.Confidence,
	}
	for k, v := range extra {
		ctx[k] = v
	}

	var constraints []string
	if p.config.EnableConstraints {
		constraints = p.constraints(acts, situation)
	}

	points := p.contentPoints(acts, situation)
	plan := &MessagePlan{
		ID:             NewPlanID(),
		DialogueActs:   acts,
		PrimaryIntent:  p.primaryIntent(acts, situation),
		Tone:           p.tone(acts, situation, riskLevel),
		ContentPoints:  points,
		OptionalPoints: p.optionalPoints(selection.SecondaryActList(), points),
		Constraints:    constraints,
		RiskLevel:      riskLevel,
		Confidence:     p.confidence(selection, situation, riskLevel),
		SituationID:    situation.ID,
		Context:        ctx,
		CreatedAt:      time.Now(),
	}
	logging.PlannerDebug("plan %s: acts=%v tone=%s risk=%.2f conf=%.2f",
		plan.ID, acts, plan.Tone, riskLevel, plan.Confidence)
	return plan
}

// UpdatePlan derives a new plan without mutating the original.
func (p *MessagePlanner) UpdatePlan(original *MessagePlan, newTone Tone, extraPoints, extraConstraints []string, newContext map[string]interface{}) *MessagePlan {
	tone := original.Tone
	if newTone != "" {
		tone = newTone
	}

	points := append([]string(nil), original.ContentPoints...)
	points = append(points, extraPoints...)
	if len(points) > p.config.MaxContentPoints {
		points = points[:p.config.MaxContentPoints]
	}

	constraints := append([]string(nil), original.Constraints...)
	constraints = append(constraints, extraConstraints...)
	if len(constraints) > p.config.MaxConstraints {
		constraints = constraints[:p.config.MaxConstraints]
	}

	ctx := make(map[string]interface{}, len(original.Context)+1+len(newContext))
	for k, v := range original.Context {
		ctx[k] = v
	}
	ctx["original_plan_id"] = original.ID
	for k, v := range newContext {
		ctx[k] = v
	}

	return &MessagePlan{
		ID:             NewPlanID(),
		DialogueActs:   append([]Act(nil), original.DialogueActs...),
		PrimaryIntent:  original.PrimaryIntent,
		Tone:           tone,
		ContentPoints:  points,
		OptionalPoints: append([]string(nil), original.OptionalPoints...),
		Constraints:    constraints,
		RiskLevel:      original.RiskLevel,
		Confidence:     original.Confidence,
		SituationID:    original.SituationID,
		Context:        ctx,
		CreatedAt:      time.Now(),
	}
}

func (p *MessagePlanner) primaryIntent(acts []Act, situation *SituationModel) string {
	desc, ok := actIntentMap[acts[0]]
	if !ok {
		desc = "Kullaniciyla etkilesim kur"
	}
	if len(situation.Intentions) > 0 {
		desc += " (" + situation.Intentions[0].Goal + " istegi icin)"
	}
	return desc
}

// tone picks the register: risk first, then emotion, then the leading
// act, then topic formality, then the configured default.
func (p *MessagePlanner) tone(acts []Act, situation *SituationModel, riskLevel float64) Tone {
	if riskLevel > p.config.RiskThresholdForCaution {
		return ToneCautious
	}

	if e := situation.Emotion; e != nil {
		switch {
		case e.Valence < -0.5:
			return ToneSupportive
		case e.Valence < -0.2:
			return ToneEmpathic
		case e.Valence > 0.5:
			return ToneEnthusiastic
		case e.Valence > 0.2:
			return ToneCasual
		}
	}

	switch acts[0] {
	case ActEmpathize, ActComfort, ActEncourage:
		return ToneEmpathic
	case ActWarn:
		return ToneSerious
	case ActRefuse, ActLimit, ActDeflect:
		return ToneFormal
	}

	switch situation.TopicDomain {
	case "work", "health", "education":
		return ToneFormal
	}

	return p.config.DefaultTone
}

func (p *MessagePlanner) contentPoints(acts []Act, situation *SituationModel) []string {
	var points []string
	for _, act := range acts {
		if v, ok := actContentMap[act]; ok {
			points = append(points, v)
		}
	}

	if highest := situation.HighestRisk(); highest != nil && highest.Level > 0.5 {
		points = append(points, "Risk konusunda dikkatli ol: "+highest.Category)
	}

	if e := situation.Emotion; e != nil && e.Valence < -0.3 {
		hasEmpathy := false
		for _, act := range acts {
			if isEmpathic(act) {
				hasEmpathy = true
				break
			}
		}
		if !hasEmpathy {
			// Emotional support slots in right after the lead point
			support := "Kullanicinin duygusal durumunu kabul et"
			if len(points) == 0 {
				points = append(points, support)
			} else {
				out := make([]string, 0, len(points)+1)
				out = append(out, points[0], support)
				out = append(out, points[1:]...)
				points = out
			}
		}
	}

	if len(points) > p.config.MaxContentPoints {
		points = points[:p.config.MaxContentPoints]
	}
	return points
}

// optionalPoints derives non-required points from the secondary acts,
// skipping anything the primary acts already cover.
func (p *MessagePlanner) optionalPoints(secondary []Act, covered []string) []string {
	seen := make(map[string]struct{}, len(covered))
	for _, pt := range covered {
		seen[pt] = struct{}{}
	}

	var points []string
	for _, act := range secondary {
		v, ok := actContentMap[act]
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		points = append(points, v)
	}
	if len(points) > p.config.MaxContentPoints {
		points = points[:p.config.MaxContentPoints]
	}
	return points
}

func (p *MessagePlanner) constraints(acts []Act, situation *SituationModel) []string {
	var constraints []string

	for _, r := range situation.Risks {
		if desc, ok := riskConstraintMap[r.Category]; ok {
			constraints = append(constraints, desc)
		}
	}

	for _, act := range acts {
		switch act {
		case ActRefuse:
			constraints = append(constraints, "Nazik ve aciklayici bir sekilde reddet")
		case ActWarn:
			constraints = append(constraints, "Uyariyi net ve anlasilir yap")
		case ActEmpathize:
			constraints = append(constraints, "Samimi ve anlayisli ol")
		}
	}

	constraints = append(constraints, "Durust ve seffaf ol")
	constraints = append(constraints, "Deger sistemine uygun davran")

	if len(constraints) > p.config.MaxConstraints {
		constraints = constraints[:p.config.MaxConstraints]
	}
	return constraints
}

func (p *MessagePlanner) confidence(selection ActSelection, situation *SituationModel, riskLevel float64) float64 {
	confidence := selection.Confidence*0.4 +
		situation.UnderstandingScore*0.3 +
		(1.0-riskLevel)*0.2
	if len(selection.Acts) > 0 {
		confidence += 0.1
	}
	return clamp(confidence, 0.0, 1.0)
}
