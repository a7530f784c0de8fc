package intent

// Pattern database. Every pattern is stored in normalized form
// (lowercase, Turkish characters folded to ASCII) and covers standard
// phrasing, abbreviations, common misspellings and English variants.
var intentPatterns = map[Category][]string{
	Greeting: {
		"merhaba", "selam", "selamlar", "hey", "hi", "hello",
		"gunaydin", "iyi gunler", "iyi aksam", "iyi aksamlar", "iyi geceler",
		"selamun aleykum", "selamunaleykum", "aleykum selam", "sa",
		"slm", "mrb", "mrhb", "selam as",
		"good morning", "good evening", "good night", "howdy", "hiya",
	},
	Farewell: {
		"hoscakal", "hosca kal", "gule gule", "gorusuruz", "sonra gorusuruz",
		"yine gorusuruz", "kendine iyi bak", "iyi gunler", "iyi geceler", "iyi aksamlar",
		"bye", "goodbye", "see you", "see ya", "later", "cya", "take care",
		"bb", "bay bay", "bbye",
		"ben gidiyorum", "gitmem lazim", "sonra konusalim", "simdilik gorusuruz",
	},
	AskWellbeing: {
		"nasilsin", "nasil hissediyorsun", "keyifler nasil", "iyi misin",
		"nasil gidiyor", "ne haber", "naber", "keyifler", "her sey yolunda mi",
		"iyisin dimi", "iyi misiniz", "ne var ne yok",
		"nbr", "n'aber", "nslsn",
		"ne yapiyorsun", "ne durumdasin", "napiyorsun", "napiyosun", "napiyon",
		"keyfin nasil", "nasilsiniz",
	},
	AskIdentity: {
		"sen kimsin", "kimsin", "kimsiniz", "kim bu", "nesin", "sen nesin",
		"adin ne", "adiniz ne", "ismin ne", "isminiz ne",
		"gorevin ne", "gorevleriniz neler", "neler yapabilirsin",
		"ne is yapiyorsun", "ne yapabiliyorsun", "yeteneklerin neler",
		"who are you", "what are you", "what's your name", "what can you do",
		"sen necisin", "kim oldugunu soyler misin",
	},
	ExpressPositive: {
		"iyiyim", "iyi", "harika", "harikayim", "super", "mukemmel",
		"cok iyi", "gayet iyi", "fena degil", "idare eder", "eh iste",
		"guzel", "mutluyum", "cok mutluyum", "keyifliyim", "sahane",
		"great", "awesome", "perfect", "excellent", "good", "fine",
		"bomba gibiyim", "super iyiyim", "cok cok iyiyim",
	},
	ExpressNegative: {
		"kotuyum", "kotu", "kotu hissediyorum", "berbat", "cok kotu",
		"uzgunum", "uzgun", "uzgun hissediyorum", "mutsuzum", "mutsuz",
		"iyi degilim", "fena", "moralim bozuk", "moralim yok", "canim sikkin",
		"depresif", "depresyondayim", "stresli", "stresliyim",
		"yorgunum", "yorgun", "biktim", "biktim artik", "yeter artik", "dayanamiyorum",
		"sad", "bad", "terrible", "awful", "depressed", "stressed", "tired",
		"hic iyi degilim", "berbat hissediyorum", "cok kotu durumdayim", "psikolojim bozuk",
	},
	RequestHelp: {
		"yardim", "yardim et", "yardimci ol", "yardim eder misin",
		"yardim edebilir misin", "yardimina ihtiyacim var", "bana yardim et",
		"yardima ihtiyacim var", "destek", "destege ihtiyacim var",
		"help", "help me", "can you help", "need help", "assistance",
		"bir sorunum var", "sorun yasiyorum", "problem var", "sikinti var",
		"ne yapmam lazim", "ne yapmaliyim", "nasil yapacagim",
		"yardm", "hlp",
	},
	RequestInfo: {
		"bilgi ver", "bilgi verir misin", "anlat", "acikla", "aciklar misin",
		"bu ne demek", "nedir", "ne demek", "nasil yapilir",
		"ogrenmek istiyorum",
		"bana soyle", "bana anlat", "bana acikla", "soyler misin",
		"anlatir misin", "ogretir misin",
		"tell me", "explain", "what is", "how to", "teach me", "show me",
		"detay ver", "detayli anlat", "daha fazla bilgi", "ek bilgi",
	},
	Thank: {
		"tesekkurler", "tesekkur ederim", "tesekkur", "sagol", "sag ol",
		"cok sagol", "cok tesekkur ederim", "cok tesekkurler",
		"eyvallah", "eyv", "tsk", "tskkrler",
		"thanks", "thank you", "thank you very much", "thx", "ty", "many thanks",
		"minnettarim", "size tesekkur ederim", "tesekkurlerimi sunarim",
	},
	Apologize: {
		"ozur dilerim", "ozur", "pardon", "kusura bakma", "kusura bakmayin",
		"affedersin", "affedersiniz", "cok uzgunum",
		"sorry", "i'm sorry", "so sorry", "apologies", "my apologies", "excuse me",
		"yanlis anladim", "benim hatam",
	},
	Agree: {
		"evet", "tamam", "tamamdir", "olur", "oldu", "peki", "kabul",
		"kabul ediyorum", "anlasildi", "anlastik",
		"yes", "yeah", "yep", "yup", "okay", "ok", "okey", "alright", "sure", "agreed",
		"aynen", "aynen oyle", "kesinlikle", "tabii", "tabii ki", "elbette",
		"hadi bakalim", "yapalim",
	},
	Disagree: {
		"hayir", "yok", "olmaz", "olmuyor", "istemiyorum", "istemem",
		"kabul etmiyorum", "razi degilim", "katilmiyorum",
		"no", "nope", "nah", "not really", "i don't think so",
		"yok ya", "yok canim", "hayatta olmaz", "asla", "imkansiz",
		"oyle olmaz", "yanlis biliyorsun",
	},
	Clarify: {
		"anlamadim", "anlamiyorum", "ne demek istiyorsun",
		"tekrar eder misin", "tekrar soyle", "tekrarlar misin", "aciklayin",
		"nasil yani", "yani", "ne alaka", "biraz daha acikla",
		"what do you mean", "i dont understand", "i don't get it",
		"can you clarify", "explain please", "repeat",
		"ne diyorsun", "ne diyon", "bi daha soyle",
	},
	Complain: {
		"sikayet", "sikayet ediyorum", "sikayetim var", "sorun var",
		"bir sorun var", "calismiyor", "bozuk", "hata var",
		"dogru degil", "rezalet", "olmamis", "hic iyi degil", "boyle olmamali",
		"bu ne ya", "bu ne bicim", "nasil boyle olabilir", "inanilmaz",
		"kabul edilemez", "memnun degilim",
		"complaint", "not working", "broken", "error", "wrong",
	},
	MetaQuestion: {
		"neden", "neden boyle dedin", "niye oyle soyledin",
		"nasil calisiyorsun", "nasil yapiyorsun", "nasil ogreniyorsun",
		"nasil dusunuyorsun",
		"neleri biliyorsun", "sinirlarin ne", "sinirlarin neler", "yapamazsin dimi",
		"bu karari nasil verdin", "neden bu cevabi verdin", "hangi bilgiye gore",
		"nereden biliyorsun", "emin misin",
		"how do you work", "why did you say that", "how do you know",
		"what are your limits",
	},
	Smalltalk: {
		"hava nasil", "hava durumu", "bugun gunlerden ne", "saat kac", "tarih ne",
		"nelerden hoslanirsin", "hobilerin neler", "ne seversin", "sevdigin seyler",
		"gunun nasil gecti", "gunun nasil", "ne yaptin bugun", "planlarin ne",
		"sikildim", "canim sikildi", "biraz sohbet edelim", "konusalim mi", "sohbet",
		"how's the weather", "what's up", "let's chat", "tell me something",
	},
}

// Per-pattern confidence multipliers. Specific multiword patterns are
// trusted more, very short abbreviations less. Default is 0.8.
var patternWeights = map[string]float64{
	// High confidence - specific and unambiguous
	"yardim et":        1.0,
	"yardimci ol":      1.0,
	"tesekkur ederim":  1.0,
	"cok tesekkurler":  1.0,
	"ozur dilerim":     1.0,
	"sen kimsin":       1.0,
	"adin ne":          1.0,

	// Medium confidence - common but possibly ambiguous
	"merhaba":  0.8,
	"nasilsin": 0.8,
	"iyiyim":   0.8,
	"kotuyum":  0.8,

	// Low confidence - very short or vague
	"slm":   0.6,
	"mrb":   0.6,
	"tsk":   0.6,
	"bb":    0.6,
	"nbr":   0.6,
	"ok":    0.6,
	"yok":   0.6,
	"naber": 0.7,
	"hey":   0.7,
	"evet":  0.7,
	"hayir": 0.7,
}

const defaultPatternWeight = 0.8

// PatternWeight returns the confidence multiplier for a pattern.
func PatternWeight(pattern string) float64 {
	if w, ok := patternWeights[pattern]; ok {
		return w
	}
	return defaultPatternWeight
}

// PatternsFor returns the pattern list for a category.
func PatternsFor(category Category) []string {
	return intentPatterns[category]
}

// PatternCount returns the number of unique patterns in the database.
func PatternCount() int {
	seen := make(map[string]struct{})
	for _, patterns := range intentPatterns {
		for _, p := range patterns {
			seen[p] = struct{}{}
		}
	}
	return len(seen)
}
