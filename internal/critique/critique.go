// Package critique evaluates generated replies before they ship: tone
// fit, content coverage, constraint violations, problematic phrasing
// and length. A failing reply gets one bounded revision pass.
package critique

import (
	"fmt"
	"strings"

	"soylem/internal/dialogue"
	"soylem/internal/logging"
	"soylem/internal/textutil"
)

// Config controls which checks run and when a reply passes.
type Config struct {
	Enabled                   bool
	CheckToneMatch            bool
	CheckContentCoverage      bool
	CheckConstraintViolations bool
	MinScoreThreshold         float64
	AutoRevise                bool
	// MaxRevisionAttempts is advisory: revision is a single bounded
	// pass, a second run over already-revised text has nothing new to
	// apply.
	MaxRevisionAttempts int
}

// DefaultConfig returns the standard critique settings.
func DefaultConfig() Config {
	return Config{
		Enabled:                   true,
		CheckToneMatch:            true,
		CheckContentCoverage:      true,
		CheckConstraintViolations: true,
		MinScoreThreshold:         0.6,
		AutoRevise:                true,
		MaxRevisionAttempts:       1,
	}
}

// Result is the outcome of one critique pass.
type Result struct {
	Passed        bool
	Score         float64
	Violations    []string
	Improvements  []string
	RevisedOutput string
	Details       map[string]interface{}
}

// NeedsRevision reports whether a revision would help.
func (r Result) NeedsRevision() bool {
	return !r.Passed && len(r.Improvements) > 0
}

// HasCriticalViolation reports whether any violation names an
// ethical or safety problem.
func (r Result) HasCriticalViolation() bool {
	critical := []string{"etik", "guvenlik", "tehlike", "kritik"}
	for _, v := range r.Violations {
		lower := textutil.NormalizeTurkish(v)
		for _, kw := range critical {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

type toneKeywords struct {
	positive []string
	negative []string
}

var toneKeywordMap = map[dialogue.Tone]toneKeywords{
	dialogue.ToneEmpathic: {
		positive: []string{"anliyorum", "hissediyorsun", "zor", "yanindayim", "destek", "buradayim"},
		negative: []string{"sakin ol", "abartma", "onemli degil"},
	},
	dialogue.ToneSupportive: {
		positive: []string{"basarabilirsin", "inaniyorum", "guclusun", "yalniz degilsin", "birlikte"},
		negative: []string{"yapamazsin", "imkansiz"},
	},
	dialogue.ToneFormal: {
		positive: []string{"saygilarimla", "belirtmek", "bildirmek", "tarafimizdan", "degerlendirmek"},
		negative: []string{" ya ", " iste ", " bak ", " hadi "},
	},
	dialogue.ToneCasual: {
		positive: []string{"bak", "ya", "hadi", "gel", "tamam"},
		negative: []string{"saygilarimla", "bildirmek", "tarafimizdan"},
	},
	dialogue.ToneCautious: {
		positive: []string{"dikkat", "olabilir", "belki", "muhtemelen", "emin olmak"},
		negative: []string{"kesinlikle", "garanti", "mutlaka"},
	},
	dialogue.ToneSerious: {
		positive: []string{"ciddi", "onemli", "kritik", "dikkat"},
		negative: []string{"saka", "eglenceli", "komik"},
	},
	dialogue.ToneEnthusiastic: {
		positive: []string{"harika", "muhtesem", "super", "heyecanli", "cok guzel"},
		negative: []string{"sikici", "kotu", "uzucu"},
	},
	dialogue.ToneNeutral: {},
}

// problematicCategories is ordered so violations come out stable.
var problematicCategories = []struct {
	name     string
	patterns []string
}{
	{"offensive", []string{"aptal", "salak", "gerizekali"}},
	{"harmful", []string{"kendine zarar ver", "intihar et", "oldur"}},
	{"misleading", []string{"kesinlikle dogru", "asla yanilmam", "her zaman isler"}},
	{"boundary", []string{"ben bir doktorum", "tedavi edebilirim", "ilac yazabilirim"}},
}

var misleadingPhrases = []string{"kesinlikle", "garanti", "mutlaka dogru"}

// Critic runs the checks and the revision pass.
type Critic struct {
	config Config
}

// NewCritic builds a critic.
func NewCritic(config Config) *Critic {
	return &Critic{config: config}
}

// Critique evaluates an output against its plan. Disabled critique
// passes everything unchanged.
func (c *Critic) Critique(output string, plan *dialogue.MessagePlan, situation *dialogue.SituationModel) Result {
	if !c.config.Enabled {
		return Result{
			Passed:  true,
			Score:   1.0,
			Details: map[string]interface{}{"skipped": true, "reason": "critique disabled"},
		}
	}

	timer := logging.StartTimer(logging.CategoryCritique, "critique")
	defer timer.Stop()

	var violations, improvements []string
	var scores []float64
	details := map[string]interface{}{}

	if c.config.CheckToneMatch {
		toneScore, toneReason := c.checkToneMatch(output, plan)
		scores = append(scores, toneScore)
		details["tone_score"] = toneScore
		if toneScore < 0.5 {
			violations = append(violations, "Ton uyumsuzlugu: "+toneReason)
			improvements = append(improvements, suggestToneFix(plan.Tone))
		}
	}

	if c.config.CheckContentCoverage {
		coverage := c.checkContentCoverage(output, plan)
		scores = append(scores, coverage)
		details["content_coverage"] = coverage
		if coverage < 0.5 {
			violations = append(violations, fmt.Sprintf("Dusuk icerik kapsama: %.0f%%", coverage*100))
			improvements = append(improvements, c.suggestContentAdditions(output, plan)...)
		}
	}

	if c.config.CheckConstraintViolations {
		constraintViolations := c.checkConstraintViolations(output, plan)
		details["constraint_violations"] = constraintViolations
		if len(constraintViolations) > 0 {
			violations = append(violations, constraintViolations...)
			scores = append(scores, max0(1.0-float64(len(constraintViolations))*0.2))
			improvements = append(improvements, suggestConstraintFixes(constraintViolations)...)
		} else {
			scores = append(scores, 1.0)
		}
	}

	patternIssues := checkProblematicPatterns(output)
	if len(patternIssues) > 0 {
		violations = append(violations, patternIssues...)
		scores = append(scores, max0(1.0-float64(len(patternIssues))*0.3))
		improvements = append(improvements, "Problematik ifadeleri kaldir veya yeniden yaz")
	} else {
		scores = append(scores, 1.0)
	}

	lengthOK, lengthReason := checkLength(output, plan)
	details["length_ok"] = lengthOK
	if !lengthOK {
		violations = append(violations, "Uzunluk sorunu: "+lengthReason)
		improvements = append(improvements, "Mesaji kisalt veya uzat")
		scores = append(scores, 0.7)
	} else {
		scores = append(scores, 1.0)
	}

	overall := 1.0
	if len(scores) > 0 {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		overall = sum / float64(len(scores))
	}

	passed := overall >= c.config.MinScoreThreshold
	// Ethical and safety violations are never outvoted by the mean.
	for _, v := range violations {
		lower := textutil.NormalizeTurkish(v)
		if strings.Contains(lower, "kritik") || strings.Contains(lower, "guvenlik") || strings.Contains(lower, "etik") {
			passed = false
			break
		}
	}

	revised := ""
	if !passed && c.config.AutoRevise {
		revised = c.Revise(output, improvements, plan)
	}

	logging.CritiqueDebug("critique done: score=%.2f passed=%v violations=%d", overall, passed, len(violations))

	return Result{
		Passed:        passed,
		Score:         overall,
		Violations:    violations,
		Improvements:  improvements,
		RevisedOutput: revised,
		Details:       details,
	}
}

// Summary renders a short human-readable result line.
func (c *Critic) Summary(result Result) string {
	if result.Passed {
		return fmt.Sprintf("Onaylandi (skor: %.2f)", result.Score)
	}
	summary := fmt.Sprintf("Basarisiz (skor: %.2f)", result.Score)
	if len(result.Violations) > 0 {
		summary += fmt.Sprintf(", %d ihlal", len(result.Violations))
	}
	if result.RevisedOutput != "" {
		summary += ", revize edildi"
	}
	return summary
}

func (c *Critic) checkToneMatch(output string, plan *dialogue.MessagePlan) (float64, string) {
	keywords, ok := toneKeywordMap[plan.Tone]
	if !ok {
		return 0.5, "Bilinmeyen ton tipi"
	}
	lower := textutil.NormalizeTurkish(output)

	violations := 0
	for _, kw := range keywords.negative {
		if strings.Contains(lower, kw) {
			violations++
		}
	}
	if violations > 0 {
		return max0(0.5 - float64(violations)*0.2), fmt.Sprintf("Uyumsuz ifade bulundu (%d adet)", violations)
	}

	matches := 0
	for _, kw := range keywords.positive {
		if strings.Contains(lower, kw) {
			matches++
		}
	}
	if matches > 0 {
		score := 0.7 + float64(matches)*0.1
		if score > 1.0 {
			score = 1.0
		}
		return score, "Ton uyumlu"
	}
	return 0.6, "Belirgin ton bulunamadi"
}

func (c *Critic) checkContentCoverage(output string, plan *dialogue.MessagePlan) float64 {
	if len(plan.ContentPoints) == 0 {
		return 1.0
	}
	lower := textutil.NormalizeTurkish(output)

	covered := 0
	for _, point := range plan.ContentPoints {
		if pointCovered(lower, point) {
			covered++
		}
	}
	return float64(covered) / float64(len(plan.ContentPoints))
}

func pointCovered(normalizedOutput, point string) bool {
	for _, kw := range strings.Fields(textutil.NormalizeTurkish(point)) {
		if len(kw) > 3 && strings.Contains(normalizedOutput, kw) {
			return true
		}
	}
	return false
}

func (c *Critic) checkConstraintViolations(output string, plan *dialogue.MessagePlan) []string {
	var violations []string
	lower := textutil.NormalizeTurkish(output)

	for _, constraint := range plan.Constraints {
		constraintLower := textutil.NormalizeTurkish(constraint)

		if strings.Contains(constraintLower, "yapma") || strings.Contains(constraintLower, "etme") || strings.Contains(constraintLower, "kullanma") {
			for _, word := range extractForbiddenWords(constraint) {
				if strings.Contains(lower, word) {
					violations = append(violations, fmt.Sprintf("Kisit ihlali: '%s' kullanilmamali", word))
				}
			}
		}

		// Honesty constraints flag overclaiming language.
		if strings.Contains(constraintLower, "durust") || strings.Contains(constraintLower, "seffaf") {
			for _, phrase := range misleadingPhrases {
				if strings.Contains(lower, phrase) {
					violations = append(violations, fmt.Sprintf("Etik kisit ihlali: '%s' yaniltici olabilir", phrase))
				}
			}
		}
	}
	return violations
}

func checkProblematicPatterns(output string) []string {
	var issues []string
	lower := textutil.NormalizeTurkish(output)

	for _, category := range problematicCategories {
		for _, pattern := range category.patterns {
			if strings.Contains(lower, pattern) {
				issues = append(issues, fmt.Sprintf("Problematik ifade (%s): '%s'", category.name, pattern))
				break
			}
		}
	}
	return issues
}

func checkLength(output string, plan *dialogue.MessagePlan) (bool, string) {
	length := len([]rune(output))
	if length < 10 {
		return false, "Cok kisa (< 10 karakter)"
	}
	if length > 2000 {
		return false, "Cok uzun (> 2000 karakter)"
	}
	if len(plan.ContentPoints) > 0 {
		expectedMin := len(plan.ContentPoints) * 20
		if length < expectedMin {
			return false, fmt.Sprintf("Icerik icin cok kisa (beklenen min: %d)", expectedMin)
		}
	}
	return true, "Uzunluk uygun"
}

func suggestToneFix(tone dialogue.Tone) string {
	suggestions := map[dialogue.Tone]string{
		dialogue.ToneEmpathic:     "Daha anlayisli ve sicak ifadeler kullan",
		dialogue.ToneFormal:       "Daha resmi ve profesyonel dil kullan",
		dialogue.ToneCasual:       "Daha samimi ve gundelik ifadeler kullan",
		dialogue.ToneSupportive:   "Daha destekleyici ve cesaretlendirici ol",
		dialogue.ToneCautious:     "Daha dikkatli ve olculu ifadeler kullan",
		dialogue.ToneSerious:      "Daha ciddi ve agir basli ol",
		dialogue.ToneEnthusiastic: "Daha coskulu ve heyecanli ol",
		dialogue.ToneNeutral:      "Daha notr ve tarafsiz ol",
	}
	if s, ok := suggestions[tone]; ok {
		return s
	}
	return "Tonu ayarla"
}

func (c *Critic) suggestContentAdditions(output string, plan *dialogue.MessagePlan) []string {
	var suggestions []string
	lower := textutil.NormalizeTurkish(output)

	for _, point := range plan.ContentPoints {
		if !pointCovered(lower, point) {
			truncated := point
			if len([]rune(truncated)) > 50 {
				truncated = string([]rune(truncated)[:50])
			}
			suggestions = append(suggestions, "Icerik noktasi eksik: "+truncated+"...")
		}
		if len(suggestions) == 3 {
			break
		}
	}
	return suggestions
}

func suggestConstraintFixes(violations []string) []string {
	var fixes []string
	for _, v := range violations {
		fixes = append(fixes, "Duzelt: "+strings.TrimPrefix(v, "Kisit ihlali: "))
		if len(fixes) == 3 {
			break
		}
	}
	return fixes
}

// extractForbiddenWords pulls the banned words out of a negative
// constraint, preferring quoted words.
func extractForbiddenWords(constraint string) []string {
	var quoted []string
	rest := constraint
	for {
		start := strings.IndexByte(rest, '\'')
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start+1:], '\'')
		if end < 0 {
			break
		}
		quoted = append(quoted, textutil.NormalizeTurkish(rest[start+1:start+1+end]))
		rest = rest[start+1+end+1:]
	}
	if len(quoted) > 0 {
		return quoted
	}

	lower := textutil.NormalizeTurkish(constraint)
	for _, indicator := range []string{"kullanma", "yapma", "etme", "soyleme"} {
		idx := strings.Index(lower, indicator)
		if idx <= 0 {
			continue
		}
		before := strings.Fields(strings.TrimSpace(lower[:idx]))
		// skip "X kelimesini kullanma" filler to reach the word itself
		for len(before) > 1 && (before[len(before)-1] == "kelimesini" || before[len(before)-1] == "ifadesini") {
			before = before[:len(before)-1]
		}
		if len(before) > 0 {
			return []string{before[len(before)-1]}
		}
	}
	return nil
}

// Revise applies the suggested improvements in a single pass: strip
// problematic phrasing, soften the opening when empathy was asked
// for, trim an overlong reply.
func (c *Critic) Revise(output string, improvements []string, plan *dialogue.MessagePlan) string {
	revised := output

	for _, improvement := range improvements {
		lower := textutil.NormalizeTurkish(improvement)

		if strings.Contains(lower, "problematik") {
			for _, category := range problematicCategories {
				for _, pattern := range category.patterns {
					revised = strings.ReplaceAll(revised, pattern, "")
					revised = strings.ReplaceAll(revised, capitalizeASCII(pattern), "")
				}
			}
		}

		if strings.Contains(lower, "anlayisli") || strings.Contains(lower, "sicak") {
			revisedLower := textutil.NormalizeTurkish(revised)
			hasEmpathy := false
			for _, word := range []string{"anliyorum", "hissediyorsun", "zor"} {
				if strings.Contains(revisedLower, word) {
					hasEmpathy = true
					break
				}
			}
			if !hasEmpathy {
				revised = "Anliyorum. " + revised
			}
		}

		if strings.Contains(lower, "kisalt") && len([]rune(revised)) > 500 {
			sentences := strings.Split(revised, ". ")
			if len(sentences) > 2 {
				revised = strings.Join(sentences[:len(sentences)-1], ". ") + "."
			}
		}
	}

	revised = strings.Join(strings.Fields(revised), " ")
	revised = strings.ReplaceAll(revised, "..", ".")
	return revised
}

func capitalizeASCII(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
