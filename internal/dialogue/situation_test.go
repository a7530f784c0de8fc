package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Greeting(t *testing.T) {
	b := NewSituationBuilder(DefaultSituationBuilderConfig())

	situation := b.Build("Merhaba, nasılsın?", nil, nil)
	if situation.ID == "" {
		t.Fatal("situation has no id")
	}
	if len(situation.Actors) != 2 {
		t.Fatalf("Actors = %d, want 2 (user + assistant)", len(situation.Actors))
	}
	if len(situation.Intentions) == 0 {
		t.Fatal("no intentions extracted")
	}
	if situation.Intentions[0].Goal != "greeting" {
		t.Fatalf("primary goal = %q, want greeting", situation.Intentions[0].Goal)
	}
	if len(situation.Risks) != 0 {
		t.Fatalf("Risks = %v, want none", situation.Risks)
	}
	if situation.TopicDomain != "general" {
		t.Fatalf("TopicDomain = %q, want general", situation.TopicDomain)
	}
	if situation.UnderstandingScore < 0.3 || situation.UnderstandingScore > 1.0 {
		t.Fatalf("UnderstandingScore = %v, out of range", situation.UnderstandingScore)
	}
}

func TestBuild_ThirdPartyActor(t *testing.T) {
	b := NewSituationBuilder(DefaultSituationBuilderConfig())

	situation := b.Build("Annem ile kavga ettim, çok üzgünüm", nil, nil)
	foundThirdParty := false
	for _, a := range situation.Actors {
		if a.Role == "third_party" {
			foundThirdParty = true
		}
	}
	if !foundThirdParty {
		t.Fatal("expected a third_party actor for 'annem'")
	}
	// "kavga" is a relational risk keyword
	if len(situation.RisksByCategory("relational")) == 0 {
		t.Fatal("expected a relational risk")
	}
}

func TestBuild_SafetyRisk(t *testing.T) {
	b := NewSituationBuilder(DefaultSituationBuilderConfig())

	situation := b.Build("intihar etmeyi düşünüyorum", nil, nil)
	highest := situation.HighestRisk()
	require.NotNil(t, highest)
	assert.Equal(t, "safety", highest.Category)
	assert.InDelta(t, 0.9, highest.Level, 1e-9)
	assert.NotEmpty(t, highest.Mitigation)
}

func TestBuild_EmotionDetection(t *testing.T) {
	b := NewSituationBuilder(DefaultSituationBuilderConfig())

	negative := b.Build("çok kötü hissediyorum, her şey berbat", nil, nil)
	require.NotNil(t, negative.Emotion)
	assert.Less(t, negative.Emotion.Valence, 0.0)
	assert.Equal(t, "negative", negative.Emotion.PrimaryEmotion)

	positive := b.Build("bugün harika bir gün, çok mutluyum", nil, nil)
	require.NotNil(t, positive.Emotion)
	assert.Greater(t, positive.Emotion.Valence, 0.0)
	assert.Equal(t, "positive", positive.Emotion.PrimaryEmotion)
}

func TestBuild_TopicDetection(t *testing.T) {
	b := NewSituationBuilder(DefaultSituationBuilderConfig())

	tests := []struct {
		message string
		topic   string
	}{
		{"bilgisayarım bozuldu, yazılım hatası veriyor", "technology"},
		{"doktora gitmem gerekiyor mu", "health"},
		{"okulda sınav haftası başladı", "education"},
		{"bana yardım eder misin", "help"},
		{"bugün nasılsın", "general"},
	}
	for _, tt := range tests {
		situation := b.Build(tt.message, nil, nil)
		if situation.TopicDomain != tt.topic {
			t.Errorf("Build(%q).TopicDomain = %q, want %q", tt.message, situation.TopicDomain, tt.topic)
		}
	}
}

func TestBuild_DefaultIntention(t *testing.T) {
	b := NewSituationBuilder(DefaultSituationBuilderConfig())

	situation := b.Build("xyzzy plugh", nil, nil)
	require.Len(t, situation.Intentions, 1)
	assert.Equal(t, "communicate", situation.Intentions[0].Goal)
	assert.InDelta(t, 0.5, situation.Intentions[0].Confidence, 1e-9)
}

func TestBuild_ContextSummary(t *testing.T) {
	b := NewSituationBuilder(DefaultSituationBuilderConfig())

	history := []Turn{
		{Role: "user", Content: "Bir sorunum var"},
		{Role: "assistant", Content: "Dinliyorum"},
	}
	situation := b.Build("Peki ne yapmalıyım?", history, nil)
	summary, ok := situation.Context["summary"].(string)
	require.True(t, ok, "context summary missing")
	assert.Contains(t, summary, "user: Bir sorunum var")
}

func TestBuild_DisabledDetection(t *testing.T) {
	config := DefaultSituationBuilderConfig()
	config.EnableRiskDetection = false
	config.EnableEmotionDetection = false
	b := NewSituationBuilder(config)

	situation := b.Build("intihar etmek istiyorum, çok kötüyüm", nil, nil)
	assert.Empty(t, situation.Risks)
	assert.Nil(t, situation.Emotion)
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name    string
		history []Turn
		want    string
	}{
		{"empty", nil, ""},
		{"negative run", []Turn{
			{Role: "user", Content: "Bugun cok kotu hissediyorum"},
			{Role: "assistant", Content: "Sizi anliyorum."},
			{Role: "user", Content: "Her sey berbat gidiyor"},
		}, "negative"},
		{"positive run", []Turn{
			{Role: "user", Content: "Harika bir gun"},
			{Role: "user", Content: "Cok mutluyum"},
		}, "positive"},
		{"assistant words ignored", []Turn{
			{Role: "assistant", Content: "Bu cok kotu bir durum"},
			{Role: "user", Content: "Peki"},
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrendOf(tt.history); got != tt.want {
				t.Fatalf("TrendOf = %q, want %q", got, tt.want)
			}
		})
	}
}
