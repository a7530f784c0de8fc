// Package textutil provides Turkish text normalization shared by all
// language components. Patterns and inputs must pass through the same
// normalization before any matching.
package textutil

import "strings"

var turkishReplacer = strings.NewReplacer(
	"ü", "u", "Ü", "U",
	"ö", "o", "Ö", "O",
	"ş", "s", "Ş", "S",
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ç", "c", "Ç", "C",
)

// NormalizeTurkish converts Turkish characters to their ASCII equivalents
// and lowercases the result.
func NormalizeTurkish(text string) string {
	if text == "" {
		return ""
	}
	return strings.ToLower(turkishReplacer.Replace(text))
}

// NormalizeForMatching is an alias for NormalizeTurkish, for use in
// pattern matching contexts.
func NormalizeForMatching(text string) string {
	return NormalizeTurkish(text)
}
