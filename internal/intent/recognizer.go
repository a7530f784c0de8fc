package intent

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"soylem/internal/logging"
	"soylem/internal/textutil"
)

// RecognizerConfig controls recognition behavior.
type RecognizerConfig struct {
	MinConfidence     float64 // matches below this are dropped
	CompoundDetection bool    // report multiple intents per utterance
	MaxIntents        int     // cap on reported matches
	Normalize         bool    // apply Turkish normalization before matching
}

// DefaultRecognizerConfig returns the standard recognizer settings.
func DefaultRecognizerConfig() RecognizerConfig {
	return RecognizerConfig{
		MinConfidence:     0.3,
		CompoundDetection: true,
		MaxIntents:        3,
		Normalize:         true,
	}
}

type compiledPattern struct {
	text string
	re   *regexp.Regexp // nil for multiword patterns (substring match)
}

// Recognizer extracts intents from user utterances.
// Supports Turkish variants, abbreviations and misspellings, compound
// intent detection and confidence scoring.
type Recognizer struct {
	config     RecognizerConfig
	categories []Category
	patterns   map[Category][]compiledPattern
}

// NewRecognizer builds a recognizer with a precompiled pattern cache.
func NewRecognizer(config RecognizerConfig) *Recognizer {
	r := &Recognizer{
		config:   config,
		patterns: make(map[Category][]compiledPattern),
	}
	for category, patterns := range intentPatterns {
		r.categories = append(r.categories, category)
		compiled := make([]compiledPattern, 0, len(patterns))
		for _, p := range patterns {
			cp := compiledPattern{text: p}
			if !strings.Contains(p, " ") {
				// Word boundaries so "merhaba" does not match "merhabalar"
				cp.re = regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)
			}
			compiled = append(compiled, cp)
		}
		r.patterns[category] = compiled
	}
	// Fixed iteration order keeps results deterministic
	sort.Slice(r.categories, func(i, j int) bool { return r.categories[i] < r.categories[j] })
	logging.IntentDebug("pattern cache built: %d categories", len(r.patterns))
	return r
}

// Recognize extracts the primary and secondary intent from a message.
func (r *Recognizer) Recognize(message string) Result {
	if strings.TrimSpace(message) == "" {
		return Result{Primary: Unknown, Confidence: 0.0}
	}

	normalized := r.normalize(message)
	allMatches := r.matchPatterns(normalized)

	if len(allMatches) == 0 {
		// A message exists but nothing matched
		return Result{Primary: Unknown, Confidence: 0.2}
	}

	valid := allMatches[:0:0]
	for _, m := range allMatches {
		if m.Confidence >= r.config.MinConfidence {
			valid = append(valid, m)
		}
	}
	if len(valid) == 0 {
		return Result{Primary: Unknown, Confidence: 0.2}
	}

	isCompound := len(valid) > 1 && r.config.CompoundDetection

	var secondary Category
	if len(valid) > 1 {
		secondary = valid[1].Category
	}

	max := r.config.MaxIntents
	if max <= 0 || max > len(valid) {
		max = len(valid)
	}
	matchedPatterns := make([]string, 0, max)
	for _, m := range valid[:max] {
		matchedPatterns = append(matchedPatterns, m.MatchedPattern)
	}

	return Result{
		Primary:         valid[0].Category,
		Secondary:       secondary,
		Confidence:      overallConfidence(valid),
		MatchedPatterns: matchedPatterns,
		IsCompound:      isCompound,
		AllMatches:      valid[:max],
	}
}

// AllMatches returns every intent match in the message, sorted by confidence.
func (r *Recognizer) AllMatches(message string) []Match {
	return r.matchPatterns(r.normalize(message))
}

// HasIntent reports whether the message carries the given intent.
func (r *Recognizer) HasIntent(message string, category Category) bool {
	return r.Recognize(message).HasIntent(category)
}

// ConfidenceFor returns the confidence for a specific category, 0 if absent.
func (r *Recognizer) ConfidenceFor(message string, category Category) float64 {
	for _, m := range r.AllMatches(message) {
		if m.Category == category {
			return m.Confidence
		}
	}
	return 0.0
}

// RecognizeBatch recognizes several messages concurrently, preserving order.
func (r *Recognizer) RecognizeBatch(ctx context.Context, messages []string) ([]Result, error) {
	results := make([]Result, len(messages))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, msg := range messages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.Recognize(msg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Stats reports pattern database dimensions.
func (r *Recognizer) Stats() map[string]int {
	total := 0
	for _, patterns := range r.patterns {
		total += len(patterns)
	}
	avg := 0
	if len(r.patterns) > 0 {
		avg = total / len(r.patterns)
	}
	return map[string]int{
		"total_categories":         len(r.patterns),
		"total_patterns":           total,
		"avg_patterns_per_category": avg,
	}
}

func (r *Recognizer) normalize(text string) string {
	if r.config.Normalize {
		return strings.TrimSpace(textutil.NormalizeTurkish(text))
	}
	return strings.TrimSpace(strings.ToLower(text))
}

func (r *Recognizer) matchPatterns(normalized string) []Match {
	var matches []Match

	for _, category := range r.categories {
		for _, cp := range r.patterns[category] {
			pos := patternPosition(cp, normalized)
			if pos < 0 {
				continue
			}
			matches = append(matches, Match{
				Category:       category,
				Confidence:     r.confidence(cp.text, normalized, category, pos),
				MatchedPattern: cp.text,
				NormalizedText: normalized,
			})
			// Only the first matching pattern per category counts
			break
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].Category < matches[j].Category
	})
	return matches
}

func patternPosition(cp compiledPattern, text string) int {
	if cp.re != nil {
		loc := cp.re.FindStringIndex(text)
		if loc == nil {
			return -1
		}
		return loc[0]
	}
	return strings.Index(text, cp.text)
}

// confidence scores a single pattern match. Factors: pattern weight,
// pattern specificity (length), exact match, message length, question
// mark for ask categories, and position in the message.
func (r *Recognizer) confidence(pattern, text string, category Category, position int) float64 {
	confidence := 0.7 * PatternWeight(pattern)

	switch {
	case len(pattern) > 15:
		confidence += 0.15
	case len(pattern) > 8:
		confidence += 0.10
	case len(pattern) < 4:
		confidence -= 0.10
	}

	if strings.TrimSpace(text) == strings.TrimSpace(pattern) {
		confidence += 0.15
	}

	wordCount := len(strings.Fields(text))
	if wordCount <= 3 {
		confidence += 0.05
	} else if wordCount > 15 {
		confidence -= 0.05
	}

	if strings.Contains(text, "?") && strings.Contains(string(category), "ask") {
		confidence += 0.05
	}

	// Patterns earlier in the message get priority for compound intents
	if position >= 0 && len(text) > len(pattern) {
		span := len(text) - len(pattern)
		if span < 1 {
			span = 1
		}
		ratio := float64(position) / float64(span)
		confidence += (1.0 - ratio) * 0.10
	}

	return clamp01(confidence)
}

func overallConfidence(matches []Match) float64 {
	if len(matches) == 0 {
		return 0.0
	}
	top := matches[0].Confidence
	// Multiple matches mean ambiguity
	if len(matches) > 2 {
		top *= 0.9
	} else if len(matches) > 1 {
		top *= 0.95
	}
	if top > 1.0 {
		top = 1.0
	}
	return top
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
