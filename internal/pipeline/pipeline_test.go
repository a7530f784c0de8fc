package pipeline

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"soylem/internal/config"
	"soylem/internal/construction"
	"soylem/internal/dialogue"
	"soylem/internal/risk"
)

func TestMain(m *testing.M) {
	// database/sql winds down its opener goroutine asynchronously
	// after Close.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))
}

func newTestPipeline(t *testing.T, cfg *config.PipelineConfig, opts ...Option) *Pipeline {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	p, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxOutputLength = 0

	_, err := New(cfg)
	require.Error(t, err)
}

func TestProcess_Greeting(t *testing.T) {
	p := newTestPipeline(t, nil)

	result := p.Process(context.Background(), "Merhaba!", nil, nil)

	require.True(t, result.Success, "error: %s", result.Error)
	assert.NotEmpty(t, result.Output)
	assert.True(t, strings.HasPrefix(result.ID(), "pr_"))

	require.NotNil(t, result.Situation)
	assert.Equal(t, "general", result.Situation.TopicDomain)

	require.NotNil(t, result.ActSelection)
	assert.Equal(t, dialogue.ActGreet, result.ActSelection.TopAct())

	assert.Equal(t, risk.LevelLow, result.RiskLevel())
	assert.True(t, result.IsApproved())

	require.Len(t, result.ConstructionsUsed, 1)
	assert.Equal(t, "greet", result.ConstructionsUsed[0].Extra.MVCSCategory)
}

func TestProcess_SafetyRiskIsRejected(t *testing.T) {
	cfg := config.Default()
	p := newTestPipeline(t, cfg)

	result := p.Process(context.Background(), "Intihar etmek istiyorum, dayanamiyorum", nil, nil)

	assert.False(t, result.Success)
	assert.Equal(t, "Mesaj onaylanmadi", result.Error)
	assert.Equal(t, cfg.FallbackResponse, result.Output)
	assert.Equal(t, risk.LevelCritical, result.RiskLevel())

	require.NotNil(t, result.Approval)
	assert.True(t, result.Approval.Rejected())
	assert.Equal(t, "rejected", result.Metadata["approval"])

	assert.Empty(t, result.ConstructionsUsed)
	assert.Nil(t, result.CritiqueResult, "critique must not run on a rejected plan")
}

func TestProcess_EmptyGrammarUsesCannedFallback(t *testing.T) {
	empty := construction.NewGrammar(construction.GrammarConfig{LoadDefaults: false, MaxConstructionsPerLvl: 100})
	p := newTestPipeline(t, nil, WithGrammar(empty))

	result := p.Process(context.Background(), "Bana bilgi verir misin?", nil, nil)

	require.True(t, result.Success, "error: %s", result.Error)
	assert.Equal(t, "Anliyorum, bilgi vereyim.", result.Output)
	assert.Empty(t, result.ConstructionsUsed)
	assert.Equal(t, 0, result.Metadata["construction_count"])
}

func TestProcess_EmptyGrammarSocialActFallback(t *testing.T) {
	empty := construction.NewGrammar(construction.GrammarConfig{LoadDefaults: false, MaxConstructionsPerLvl: 100})
	p := newTestPipeline(t, nil, WithGrammar(empty))

	result := p.Process(context.Background(), "Tesekkurler", nil, nil)

	require.True(t, result.Success, "error: %s", result.Error)
	assert.Equal(t, "Rica ederim!", result.Output)
}

func TestSelectionContext_DerivedFromHistory(t *testing.T) {
	assert.Nil(t, selectionContext(nil))

	history := []dialogue.Turn{
		{Role: "user", Content: "Bugun cok kotu hissediyorum"},
		{Role: "assistant", Content: "Sizi anliyorum.", Act: dialogue.ActEmpathize},
		{Role: "user", Content: "Her sey berbat gidiyor"},
	}
	selCtx := selectionContext(history)
	require.NotNil(t, selCtx)
	assert.True(t, selCtx.IsFollowup)
	assert.Equal(t, dialogue.ActEmpathize, selCtx.LastAssistantAct)
	assert.Equal(t, "negative", selCtx.SentimentTrend)
}

func TestProcess_MinimalPresetSkipsGates(t *testing.T) {
	p := newTestPipeline(t, config.Minimal())

	result := p.Process(context.Background(), "Merhaba!", nil, nil)

	require.True(t, result.Success)
	assert.Nil(t, result.RiskAssessment)
	assert.Nil(t, result.Approval)
	assert.Nil(t, result.CritiqueResult)
	assert.Equal(t, risk.Level(""), result.RiskLevel())
	assert.False(t, result.IsApproved(), "no approval ran, so nothing was approved")
}

func TestProcess_TruncatesLongOutput(t *testing.T) {
	cfg := config.Default()
	cfg.MaxOutputLength = 10
	cfg.EnableSelfCritique = false
	p := newTestPipeline(t, cfg)

	result := p.Process(context.Background(), "Sen kimsin?", nil, nil)

	require.True(t, result.Success)
	assert.Equal(t, 10, utf8.RuneCountInString(result.Output))
	assert.True(t, strings.HasSuffix(result.Output, "..."))
}

func TestProcess_CancelledContext(t *testing.T) {
	p := newTestPipeline(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := p.Process(ctx, "Merhaba!", nil, nil)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Equal(t, p.config.FallbackResponse, result.Output)
}

func TestProcess_RecordsConstructionUse(t *testing.T) {
	p := newTestPipeline(t, nil)

	result := p.Process(context.Background(), "Merhaba!", nil, nil)
	require.True(t, result.Success)
	require.NotEmpty(t, result.ConstructionsUsed)

	id := result.ConstructionsUsed[0].ID
	stats := p.FeedbackStore().Get(id)
	require.NotNil(t, stats)
	assert.GreaterOrEqual(t, stats.TotalUses, 1)

	ids := []string{id}
	require.NoError(t, p.RecordExplicitFeedback(ids, false))
	require.NoError(t, p.RecordImplicitFeedback(ids, true))

	stats = p.FeedbackStore().Get(id)
	assert.Equal(t, 1, stats.ExplicitNeg)
	assert.Equal(t, 1, stats.ImplicitPos)
}

func TestProcess_HistoryMarksFollowup(t *testing.T) {
	p := newTestPipeline(t, nil)

	history := []dialogue.Turn{
		{Role: "user", Content: "Merhaba"},
		{Role: "assistant", Content: "Merhaba! Size nasil yardimci olabilirim?"},
	}
	result := p.Process(context.Background(), "Peki bunun nasil yapildigini anlatir misin?", history, nil)

	require.True(t, result.Success, "error: %s", result.Error)
	assert.NotEmpty(t, result.Output)
}

func TestProcessWithRetry_ReturnsFirstSuccess(t *testing.T) {
	p := newTestPipeline(t, nil)

	result := p.ProcessWithRetry(context.Background(), "Merhaba!", nil, 2)
	require.True(t, result.Success)
	assert.NotEmpty(t, result.Output)
}

func TestProcessWithRetry_KeepsLastFailure(t *testing.T) {
	p := newTestPipeline(t, nil)

	result := p.ProcessWithRetry(context.Background(), "Intihar etmek istiyorum", nil, 1)
	assert.False(t, result.Success)
	assert.Equal(t, "Mesaj onaylanmadi", result.Error)
}

func TestProcessBatch(t *testing.T) {
	p := newTestPipeline(t, nil)

	messages := []string{"Merhaba!", "Tesekkurler", "Gorusuruz"}
	results, err := p.ProcessBatch(context.Background(), messages)
	require.NoError(t, err)
	require.Len(t, results, len(messages))

	for i, result := range results {
		require.NotNil(t, result, "result %d", i)
		assert.True(t, result.Success, "message %q failed: %s", messages[i], result.Error)
		assert.NotEmpty(t, result.Output)
	}
}

func TestInfo(t *testing.T) {
	p := newTestPipeline(t, nil)

	info := p.Info()
	cfgInfo, ok := info["config"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, cfgInfo["self_critique_enabled"])
	assert.Equal(t, "medium", cfgInfo["min_approval_level"])
	assert.Greater(t, info["construction_count"].(int), 0)
}

func TestDebugInfo(t *testing.T) {
	p := newTestPipeline(t, nil)

	result := p.Process(context.Background(), "Merhaba!", nil, nil)
	require.True(t, result.Success)

	info := p.DebugInfo(result)
	assert.Equal(t, result.Output, info["output"])
	assert.Contains(t, info, "situation")
	assert.Contains(t, info, "acts")
	assert.Contains(t, info, "plan")
	assert.Contains(t, info, "risk")
	assert.Contains(t, info, "constructions")
	assert.Contains(t, info, "critique")
}

func TestFailure(t *testing.T) {
	result := Failure("bir seyler ters gitti", "Anlayamadim.")
	assert.False(t, result.Success)
	assert.Equal(t, "Anlayamadim.", result.Output)
	assert.Equal(t, "bir seyler ters gitti", result.Error)
	assert.True(t, strings.HasPrefix(result.ID(), "pr_"))
}
