package construction

// The minimum viable construction set covers the cold-start problem:
// a small inventory of ready surface forms so the system can hold a
// basic conversation before anything has been learned.

// MVCSCategory groups the seed constructions by communicative job.
type MVCSCategory string

const (
	MVCSGreet               MVCSCategory = "greet"
	MVCSSelfIntro           MVCSCategory = "self_intro"
	MVCSAskWellbeing        MVCSCategory = "ask_wellbeing"
	MVCSSimpleInform        MVCSCategory = "simple_inform"
	MVCSEmpathizeBasic      MVCSCategory = "empathize_basic"
	MVCSClarifyRequest      MVCSCategory = "clarify_request"
	MVCSSafeRefusal         MVCSCategory = "safe_refusal"
	MVCSRespondWellbeing    MVCSCategory = "respond_wellbeing"
	MVCSReceiveThanks       MVCSCategory = "receive_thanks"
	MVCSLightChitchat       MVCSCategory = "light_chitchat"
	MVCSAcknowledgePositive MVCSCategory = "acknowledge_positive"
	MVCSCloseConversation   MVCSCategory = "close_conversation"
)

// MVCSCategories lists every seed category.
var MVCSCategories = []MVCSCategory{
	MVCSGreet, MVCSSelfIntro, MVCSAskWellbeing, MVCSSimpleInform,
	MVCSEmpathizeBasic, MVCSClarifyRequest, MVCSSafeRefusal,
	MVCSRespondWellbeing, MVCSReceiveThanks, MVCSLightChitchat,
	MVCSAcknowledgePositive, MVCSCloseConversation,
}

const mvcsDefaultConfidence = 0.8

type mvcsSpec struct {
	name          string
	category      MVCSCategory
	template      string
	dialogueAct   string
	slots         map[string]Slot
	effects       []string
	semanticRoles map[string]string
	preconditions []string
	force         string
	tone          string
	formality     string
	values        []string
}

func buildMVCS(spec mvcsSpec) *Construction {
	c, err := NewConstruction(
		DeterministicID(spec.name),
		LevelSurface,
		Form{Template: spec.template, Slots: spec.slots},
		Meaning{
			DialogueAct:        spec.dialogueAct,
			SemanticRoles:      spec.semanticRoles,
			Effects:            spec.effects,
			Preconditions:      spec.preconditions,
			IllocutionaryForce: spec.force,
		},
		mvcsDefaultConfidence,
		"human",
	)
	if err != nil {
		panic(err)
	}
	c.Extra = Extra{
		Tone:            spec.tone,
		Formality:       spec.formality,
		IsMVCS:          true,
		MVCSCategory:    string(spec.category),
		MVCSName:        spec.name,
		ValuesAlignment: spec.values,
	}
	return c
}

// LoadMVCS seeds the store with the full minimum viable set and
// returns how many constructions were added.
func LoadMVCS(g *Grammar) int {
	count := 0
	for _, c := range MVCSConstructions() {
		if g.Add(c) {
			count++
		}
	}
	return count
}

// MVCSByName finds one seed construction by its stable name.
func MVCSByName(name string) *Construction {
	for _, c := range MVCSConstructions() {
		if c.Extra.MVCSName == name {
			return c
		}
	}
	return nil
}

// MVCSByCategory returns the seed constructions of one category.
func MVCSByCategory(category MVCSCategory) []*Construction {
	var out []*Construction
	for _, c := range MVCSConstructions() {
		if c.Extra.MVCSCategory == string(category) {
			out = append(out, c)
		}
	}
	return out
}

// MVCSConstructions builds the complete seed inventory. IDs derive
// from the names, so the same construction keeps its id across runs.
func MVCSConstructions() []*Construction {
	specs := []mvcsSpec{
		// Greetings
		{
			name: "greet_simple", category: MVCSGreet,
			template: "Merhaba!", dialogueAct: "greet",
			effects: []string{"user_greeted"},
			tone:    "friendly", formality: "neutral",
		},
		{
			name: "greet_casual", category: MVCSGreet,
			template: "Selam, nasilsin?", dialogueAct: "greet",
			effects: []string{"user_greeted", "wellbeing_asked"},
			tone:    "casual", formality: "informal",
		},
		{
			name: "greet_with_offer", category: MVCSGreet,
			template: "Merhaba! Size nasil yardimci olabilirim?", dialogueAct: "greet",
			effects: []string{"user_greeted", "help_offered"},
			tone:    "helpful", formality: "formal",
		},

		// Self introduction
		{
			name: "self_intro_basic", category: MVCSSelfIntro,
			template: "Ben Soylem, yapay zeka asistanizim.", dialogueAct: "inform",
			effects:       []string{"self_introduced"},
			semanticRoles: map[string]string{"agent": "self", "identity": "ai_assistant"},
			tone:          "neutral", formality: "neutral",
		},
		{
			name: "self_intro_helpful", category: MVCSSelfIntro,
			template: "Ben bir yapay zeka asistaniyim, size yardimci olmak icin buradayim.", dialogueAct: "inform",
			effects: []string{"self_introduced", "purpose_stated"},
			tone:    "helpful", formality: "neutral",
		},
		{
			name: "self_intro_short", category: MVCSSelfIntro,
			template: "Ben Soylem, yapay zeka destekli bir asistan.", dialogueAct: "inform",
			effects: []string{"self_introduced"},
			tone:    "neutral", formality: "informal",
		},

		// Wellbeing answers (inform-act variants)
		{
			name: "wellbeing_reciprocal", category: MVCSAskWellbeing,
			template: "Iyiyim, tesekkur ederim! Siz nasilsiniz?", dialogueAct: "inform",
			effects: []string{"wellbeing_answered", "wellbeing_asked"},
			tone:    "friendly", formality: "neutral",
		},
		{
			name: "wellbeing_with_offer", category: MVCSAskWellbeing,
			template: "Tesekkurler, iyiyim. Size nasil yardimci olabilirim?", dialogueAct: "inform",
			effects: []string{"wellbeing_answered", "help_offered"},
			tone:    "helpful", formality: "neutral",
		},
		{
			name: "wellbeing_casual", category: MVCSAskWellbeing,
			template: "Gayet iyiyim, sordugun icin tesekkurler! Sen nasil hissediyorsun?", dialogueAct: "inform",
			effects: []string{"wellbeing_answered", "wellbeing_asked"},
			tone:    "casual", formality: "informal",
		},

		// Simple inform
		{
			name: "inform_about_topic", category: MVCSSimpleInform,
			template: "{konu} hakkinda bilgi vereyim.", dialogueAct: "inform",
			slots: map[string]Slot{
				"konu": {ID: NewSlotID(), Name: "konu", Type: SlotEntity, Required: true, Description: "Bilgi verilecek konu"},
			},
			semanticRoles: map[string]string{"theme": "konu"},
			effects:       []string{"information_provided"},
			tone:          "neutral", formality: "neutral",
		},
		{
			name: "inform_direct", category: MVCSSimpleInform,
			template: "{bilgi}", dialogueAct: "inform",
			slots: map[string]Slot{
				"bilgi": {ID: NewSlotID(), Name: "bilgi", Type: SlotEntity, Required: true, Description: "Verilecek bilgi"},
			},
			semanticRoles: map[string]string{"content": "bilgi"},
			effects:       []string{"information_provided"},
			tone:          "neutral", formality: "neutral",
		},
		{
			name: "inform_with_explanation", category: MVCSSimpleInform,
			template: "{konu} su sekilde calisiyor: {aciklama}", dialogueAct: "explain",
			slots: map[string]Slot{
				"konu":     {ID: NewSlotID(), Name: "konu", Type: SlotEntity, Required: true},
				"aciklama": {ID: NewSlotID(), Name: "aciklama", Type: SlotEntity, Required: true},
			},
			semanticRoles: map[string]string{"theme": "konu", "content": "aciklama"},
			effects:       []string{"information_provided", "explanation_given"},
			tone:          "educational", formality: "neutral",
		},

		// Basic empathy
		{
			name: "empathy_understand", category: MVCSEmpathizeBasic,
			template: "Sizi anliyorum, bu zor bir durum.", dialogueAct: "empathize",
			effects: []string{"empathy_expressed", "user_validated"},
			tone:    "empathic", formality: "neutral",
		},
		{
			name: "empathy_feelings", category: MVCSEmpathizeBasic,
			template: "Duygularinizi anliyorum.", dialogueAct: "empathize",
			effects: []string{"empathy_expressed"},
			tone:    "empathic", formality: "neutral",
		},
		{
			name: "empathy_normalize", category: MVCSEmpathizeBasic,
			template: "Bu durumda kendinizi boyle hissetmeniz normal.", dialogueAct: "empathize",
			effects: []string{"empathy_expressed", "feeling_normalized"},
			tone:    "supportive", formality: "neutral",
		},
		{
			name: "empathy_specific", category: MVCSEmpathizeBasic,
			template: "{duygu} hissetmen cok anlasilir.", dialogueAct: "empathize",
			slots: map[string]Slot{
				"duygu": {ID: NewSlotID(), Name: "duygu", Type: SlotEntity, Required: true, Description: "Kullanicinin hissettigi duygu"},
			},
			semanticRoles: map[string]string{"experiencer": "user", "emotion": "duygu"},
			effects:       []string{"empathy_expressed", "feeling_validated"},
			tone:          "empathic", formality: "informal",
		},

		// Clarification requests
		{
			name: "clarify_simple", category: MVCSClarifyRequest,
			template: "Biraz daha aciklar misiniz?", dialogueAct: "ask",
			effects: []string{"clarification_requested"},
			force:   "question",
			tone:    "polite", formality: "formal",
		},
		{
			name: "clarify_confused", category: MVCSClarifyRequest,
			template: "Ne demek istediginizi tam anlayamadim, detay verebilir misiniz?", dialogueAct: "ask",
			effects: []string{"clarification_requested", "confusion_expressed"},
			force:   "question",
			tone:    "honest", formality: "neutral",
		},
		{
			name: "clarify_specific", category: MVCSClarifyRequest,
			template: "{konu} hakkinda daha fazla bilgi verebilir misiniz?", dialogueAct: "ask",
			slots: map[string]Slot{
				"konu": {ID: NewSlotID(), Name: "konu", Type: SlotEntity, Required: true, Description: "Netlestirme istenen konu"},
			},
			semanticRoles: map[string]string{"theme": "konu"},
			effects:       []string{"clarification_requested"},
			force:         "question",
			tone:          "polite", formality: "formal",
		},

		// Safe refusal
		{
			name: "refuse_simple", category: MVCSSafeRefusal,
			template: "Bu konuda size yardimci olamiyorum.", dialogueAct: "refuse",
			effects:       []string{"request_declined"},
			preconditions: []string{"request_is_harmful"},
			tone:          "polite", formality: "formal",
			values: []string{"non_maleficence"},
		},
		{
			name: "refuse_with_alternative", category: MVCSSafeRefusal,
			template: "Bu isteginizi yerine getiremiyorum, ancak baska bir konuda yardimci olabilirim.", dialogueAct: "refuse",
			effects: []string{"request_declined", "alternative_offered"},
			tone:    "helpful", formality: "formal",
			values: []string{"non_maleficence", "autonomy_respect"},
		},
		{
			name: "refuse_with_reason", category: MVCSSafeRefusal,
			template: "Uzgunum, {neden} nedeniyle bu konuda yardimci olamam.", dialogueAct: "refuse",
			slots: map[string]Slot{
				"neden": {ID: NewSlotID(), Name: "neden", Type: SlotReason, Required: true, Default: "etik kurallarim geregi", Description: "Reddetme nedeni"},
			},
			semanticRoles: map[string]string{"reason": "neden"},
			effects:       []string{"request_declined", "reason_explained"},
			tone:          "apologetic", formality: "formal",
			values: []string{"transparency", "non_maleficence"},
		},
		{
			name: "refuse_limitation", category: MVCSSafeRefusal,
			template: "Bu benim yeteneklerimin disinda, ancak {alternatif} onerebilirim.", dialogueAct: "refuse",
			slots: map[string]Slot{
				"alternatif": {ID: NewSlotID(), Name: "alternatif", Type: SlotEntity, Required: false, Default: "baska konularda yardim", Description: "Onerilebilecek alternatif"},
			},
			semanticRoles: map[string]string{"alternative": "alternatif"},
			effects:       []string{"limitation_expressed", "alternative_offered"},
			tone:          "honest", formality: "neutral",
			values: []string{"transparency"},
		},

		// Responding to "how are you"
		{
			name: "wellbeing_good_reciprocal", category: MVCSRespondWellbeing,
			template: "Iyiyim, tesekkur ederim! Siz nasilsiniz?", dialogueAct: "respond_wellbeing",
			effects: []string{"wellbeing_shared", "reciprocal_interest_shown"},
			tone:    "friendly", formality: "neutral",
		},
		{
			name: "wellbeing_good_help", category: MVCSRespondWellbeing,
			template: "Tesekkurler, ben de iyiyim. Size nasil yardimci olabilirim?", dialogueAct: "respond_wellbeing",
			effects: []string{"wellbeing_shared", "help_offered"},
			tone:    "helpful", formality: "neutral",
		},
		{
			name: "wellbeing_okay", category: MVCSRespondWellbeing,
			template: "Fena degilim, sordugunuz icin tesekkurler.", dialogueAct: "respond_wellbeing",
			effects: []string{"wellbeing_shared"},
			tone:    "casual", formality: "informal",
		},

		// Receiving thanks
		{
			name: "thanks_simple", category: MVCSReceiveThanks,
			template: "Rica ederim!", dialogueAct: "receive_thanks",
			effects: []string{"thanks_acknowledged"},
			tone:    "friendly", formality: "informal",
		},
		{
			name: "thanks_pleasure", category: MVCSReceiveThanks,
			template: "Ne demek, memnun oldum.", dialogueAct: "receive_thanks",
			effects: []string{"thanks_acknowledged", "pleasure_expressed"},
			tone:    "warm", formality: "neutral",
		},
		{
			name: "thanks_continue_help", category: MVCSReceiveThanks,
			template: "Rica ederim, baska nasil yardimci olabilirim?", dialogueAct: "receive_thanks",
			effects: []string{"thanks_acknowledged", "continued_help_offered"},
			tone:    "helpful", formality: "neutral",
		},

		// Light chitchat
		{
			name: "chitchat_casual_reciprocal", category: MVCSLightChitchat,
			template: "Fena degilim, sen nasilsin?", dialogueAct: "light_chitchat",
			effects: []string{"chitchat_engaged", "reciprocal_question"},
			tone:    "casual", formality: "informal",
		},
		{
			name: "chitchat_whats_up", category: MVCSLightChitchat,
			template: "Iyidir, neler oluyor?", dialogueAct: "light_chitchat",
			effects: []string{"chitchat_engaged", "interest_shown"},
			tone:    "casual", formality: "informal",
		},
		{
			name: "chitchat_present_ready", category: MVCSLightChitchat,
			template: "Buradayim, hazirim. Nasil yardimci olabilirim?", dialogueAct: "light_chitchat",
			effects: []string{"presence_confirmed", "help_offered"},
			tone:    "friendly", formality: "informal",
		},

		// Acknowledging positive news
		{
			name: "positive_glad", category: MVCSAcknowledgePositive,
			template: "Iyi olmaniza sevindim!", dialogueAct: "acknowledge_positive",
			effects: []string{"positive_acknowledged", "joy_shared"},
			tone:    "warm", formality: "neutral",
		},
		{
			name: "positive_nice_to_hear", category: MVCSAcknowledgePositive,
			template: "Guzel, bunu duymak iyi geldi.", dialogueAct: "acknowledge_positive",
			effects: []string{"positive_acknowledged"},
			tone:    "friendly", formality: "informal",
		},
		{
			name: "positive_happy", category: MVCSAcknowledgePositive,
			template: "Ne guzel, mutlu oldum.", dialogueAct: "acknowledge_positive",
			effects: []string{"positive_acknowledged", "happiness_expressed"},
			tone:    "enthusiastic", formality: "informal",
		},

		// Closing the conversation
		{
			name: "farewell_see_you", category: MVCSCloseConversation,
			template: "Gorusuruz, iyi gunler!", dialogueAct: "farewell",
			effects: []string{"farewell", "well_wishes"},
			tone:    "friendly", formality: "neutral",
		},
		{
			name: "farewell_see_you_again", category: MVCSCloseConversation,
			template: "Hosca kal, tekrar beklerim.", dialogueAct: "farewell",
			effects: []string{"farewell", "invitation_to_return"},
			tone:    "warm", formality: "informal",
		},
		{
			name: "farewell_take_care", category: MVCSCloseConversation,
			template: "Kendine iyi bak, gorusmek uzere!", dialogueAct: "farewell",
			effects: []string{"farewell", "care_expressed"},
			tone:    "caring", formality: "informal",
		},
		{
			name: "farewell_always_available", category: MVCSCloseConversation,
			template: "Iyi gunler, her zaman yazabilirsin.", dialogueAct: "farewell",
			effects: []string{"farewell", "availability_expressed"},
			tone:    "supportive", formality: "informal",
		},
	}

	out := make([]*Construction, 0, len(specs))
	for _, spec := range specs {
		out = append(out, buildMVCS(spec))
	}
	return out
}
