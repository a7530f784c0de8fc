package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognize_Greeting(t *testing.T) {
	r := NewRecognizer(DefaultRecognizerConfig())

	res := r.Recognize("Merhaba")
	if res.Primary != Greeting {
		t.Fatalf("Primary = %q, want %q", res.Primary, Greeting)
	}
	if res.Confidence < 0.3 {
		t.Fatalf("Confidence = %v, want >= 0.3", res.Confidence)
	}
}

func TestRecognize_CompoundGreetingWellbeing(t *testing.T) {
	r := NewRecognizer(DefaultRecognizerConfig())

	res := r.Recognize("Merhaba, nasılsın?")
	require.True(t, res.IsCompound, "expected compound intent")
	assert.Equal(t, Greeting, res.Primary)
	assert.Equal(t, AskWellbeing, res.Secondary)
	assert.True(t, res.HasIntent(AskWellbeing))
}

func TestRecognize_EmptyMessage(t *testing.T) {
	r := NewRecognizer(DefaultRecognizerConfig())

	res := r.Recognize("   ")
	if res.Primary != Unknown {
		t.Fatalf("Primary = %q, want unknown", res.Primary)
	}
	if res.Confidence != 0.0 {
		t.Fatalf("Confidence = %v, want 0.0", res.Confidence)
	}
}

func TestRecognize_UnmatchedMessage(t *testing.T) {
	r := NewRecognizer(DefaultRecognizerConfig())

	res := r.Recognize("xyzzy plugh qwertzuiop")
	if res.Primary != Unknown {
		t.Fatalf("Primary = %q, want unknown", res.Primary)
	}
	if res.Confidence != 0.2 {
		t.Fatalf("Confidence = %v, want 0.2", res.Confidence)
	}
}

func TestRecognize_WordBoundary(t *testing.T) {
	r := NewRecognizer(DefaultRecognizerConfig())

	// "merhabalar" must not match the single-word pattern "merhaba"
	res := r.Recognize("merhabalar diyorum herkese buradan uzun uzun")
	for _, m := range res.AllMatches {
		if m.MatchedPattern == "merhaba" {
			t.Fatalf("pattern %q matched inside a longer word", m.MatchedPattern)
		}
	}
}

func TestRecognize_NormalizesTurkish(t *testing.T) {
	r := NewRecognizer(DefaultRecognizerConfig())

	res := r.Recognize("TEŞEKKÜRLER")
	if res.Primary != Thank {
		t.Fatalf("Primary = %q, want %q", res.Primary, Thank)
	}
}

func TestRecognize_NegativeExpression(t *testing.T) {
	r := NewRecognizer(DefaultRecognizerConfig())

	res := r.Recognize("çok kötü hissediyorum, moralim bozuk")
	if !res.HasIntent(ExpressNegative) {
		t.Fatalf("expected express_negative, got %q / %q", res.Primary, res.Secondary)
	}
}

func TestRecognize_ConfidenceBounds(t *testing.T) {
	r := NewRecognizer(DefaultRecognizerConfig())

	messages := []string{
		"merhaba", "slm", "yardım eder misin", "neden böyle dedin",
		"evet", "hayır", "bu ne biçim bir şey böyle", "tşk",
	}
	for _, msg := range messages {
		res := r.Recognize(msg)
		if res.Confidence < 0.0 || res.Confidence > 1.0 {
			t.Errorf("Recognize(%q) confidence = %v, out of [0,1]", msg, res.Confidence)
		}
		for _, m := range res.AllMatches {
			if m.Confidence < 0.0 || m.Confidence > 1.0 {
				t.Errorf("match %q confidence = %v, out of [0,1]", m.MatchedPattern, m.Confidence)
			}
		}
	}
}

func TestRecognize_ExactMatchBeatsPartial(t *testing.T) {
	r := NewRecognizer(DefaultRecognizerConfig())

	exact := r.Recognize("teşekkür ederim")
	inSentence := r.Recognize("her şey için çok ama çok teşekkür ederim sana dostum")
	if exact.Confidence <= inSentence.Confidence {
		t.Fatalf("exact %.3f should score above long sentence %.3f",
			exact.Confidence, inSentence.Confidence)
	}
}

func TestConfidenceFor(t *testing.T) {
	r := NewRecognizer(DefaultRecognizerConfig())

	if c := r.ConfidenceFor("merhaba", Greeting); c <= 0 {
		t.Fatalf("ConfidenceFor(greeting) = %v, want > 0", c)
	}
	if c := r.ConfidenceFor("merhaba", Complain); c != 0 {
		t.Fatalf("ConfidenceFor(complain) = %v, want 0", c)
	}
}

func TestRecognizeBatch(t *testing.T) {
	r := NewRecognizer(DefaultRecognizerConfig())

	messages := []string{"merhaba", "görüşürüz", "yardım et"}
	results, err := r.RecognizeBatch(context.Background(), messages)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, Greeting, results[0].Primary)
	assert.Equal(t, Farewell, results[1].Primary)
	assert.Equal(t, RequestHelp, results[2].Primary)
}

func TestStats(t *testing.T) {
	r := NewRecognizer(DefaultRecognizerConfig())

	stats := r.Stats()
	if stats["total_categories"] != 16 {
		t.Errorf("total_categories = %d, want 16", stats["total_categories"])
	}
	if stats["total_patterns"] < 300 {
		t.Errorf("total_patterns = %d, want >= 300", stats["total_patterns"])
	}
}
