// Package intent recognizes user intent from Turkish utterances using a
// normalized pattern database with confidence scoring and compound
// intent detection.
package intent

// Category is a recognized user intent class.
type Category string

const (
	Greeting        Category = "greeting"         // merhaba, selam, naber, hey, slm
	Farewell        Category = "farewell"         // hoscakal, gorusuruz, bb, bye
	AskWellbeing    Category = "ask_wellbeing"    // nasilsin, naber, keyifler nasil
	AskIdentity     Category = "ask_identity"     // sen kimsin, adin ne, nesin
	ExpressPositive Category = "express_positive" // iyiyim, harika, super, mukemmel
	ExpressNegative Category = "express_negative" // kotuyum, uzgunum, berbat, mutsuz
	RequestHelp     Category = "request_help"     // yardim et, yardimci ol, help
	RequestInfo     Category = "request_info"     // bilgi ver, anlat, acikla, nedir
	Thank           Category = "thank"            // tesekkurler, sagol, eyvallah, tsk
	Apologize       Category = "apologize"        // ozur dilerim, pardon, kusura bakma
	Agree           Category = "agree"            // evet, tamam, ok, olur, kabul
	Disagree        Category = "disagree"         // hayir, yok, olmaz, istemiyorum
	Clarify         Category = "clarify"          // anlamadim, ne demek, tekrar et
	Complain        Category = "complain"         // sikayet, sorun var, calismiyor
	MetaQuestion    Category = "meta_question"    // neden boyle dedin, nasil calisiyorsun
	Smalltalk       Category = "smalltalk"        // hava nasil, ne yapiyorsun
	Unknown         Category = "unknown"
)

// Match is a single pattern hit in an utterance.
type Match struct {
	Category       Category
	Confidence     float64
	MatchedPattern string
	NormalizedText string
}

// Result is the outcome of recognizing one utterance.
type Result struct {
	Primary         Category
	Secondary       Category // empty if single intent
	Confidence      float64
	MatchedPatterns []string
	IsCompound      bool
	AllMatches      []Match
}

// HasIntent reports whether the primary or secondary intent matches category.
func (r Result) HasIntent(category Category) bool {
	return r.Primary == category || r.Secondary == category
}

// Categories returns the primary and (if present) secondary category.
func (r Result) Categories() []Category {
	categories := []Category{r.Primary}
	if r.Secondary != "" {
		categories = append(categories, r.Secondary)
	}
	return categories
}
