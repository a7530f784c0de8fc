// Package pipeline orchestrates the full reply flow: utterance ->
// situation -> dialogue acts -> message plan -> risk gate ->
// construction -> realization -> self-critique -> output.
package pipeline

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"soylem/internal/config"
	"soylem/internal/construction"
	"soylem/internal/critique"
	"soylem/internal/dialogue"
	"soylem/internal/feedback"
	"soylem/internal/logging"
	"soylem/internal/risk"
)

// Pipeline wires all stages together. Every stage is replaceable via
// an Option, defaults cover the rest.
type Pipeline struct {
	config *config.PipelineConfig

	situationBuilder *dialogue.SituationBuilder
	actSelector      *dialogue.ActSelector
	planner          *dialogue.MessagePlanner
	scorer           *risk.Scorer
	approver         *risk.Approver
	grammar          *construction.Grammar
	selector         *construction.Selector
	realizer         *construction.Realizer
	critic           *critique.Critic
	feedback         *feedback.Store

	ownsFeedback bool
}

// Option customizes pipeline construction.
type Option func(*Pipeline)

// WithSituationBuilder replaces the situation builder.
func WithSituationBuilder(b *dialogue.SituationBuilder) Option {
	return func(p *Pipeline) { p.situationBuilder = b }
}

// WithActSelector replaces the dialogue act selector.
func WithActSelector(s *dialogue.ActSelector) Option {
	return func(p *Pipeline) { p.actSelector = s }
}

// WithPlanner replaces the message planner.
func WithPlanner(m *dialogue.MessagePlanner) Option {
	return func(p *Pipeline) { p.planner = m }
}

// WithScorer replaces the risk scorer.
func WithScorer(s *risk.Scorer) Option {
	return func(p *Pipeline) { p.scorer = s }
}

// WithApprover replaces the internal approver.
func WithApprover(a *risk.Approver) Option {
	return func(p *Pipeline) { p.approver = a }
}

// WithGrammar replaces the construction grammar.
func WithGrammar(g *construction.Grammar) Option {
	return func(p *Pipeline) { p.grammar = g }
}

// WithRealizer replaces the surface realizer.
func WithRealizer(r *construction.Realizer) Option {
	return func(p *Pipeline) { p.realizer = r }
}

// WithCritic replaces the self-critique stage.
func WithCritic(c *critique.Critic) Option {
	return func(p *Pipeline) { p.critic = c }
}

// WithFeedbackStore injects an externally owned feedback store. The
// pipeline will not close it.
func WithFeedbackStore(s *feedback.Store) Option {
	return func(p *Pipeline) { p.feedback = s }
}

// New builds a pipeline from the config, creating default components
// for anything not injected.
func New(cfg *config.PipelineConfig, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{config: cfg}
	for _, opt := range opts {
		opt(p)
	}

	if p.situationBuilder == nil {
		p.situationBuilder = dialogue.NewSituationBuilder(dialogue.DefaultSituationBuilderConfig())
	}
	if p.actSelector == nil {
		p.actSelector = dialogue.NewActSelector(dialogue.DefaultActSelectorConfig())
	}
	if p.planner == nil {
		p.planner = dialogue.NewMessagePlanner(dialogue.DefaultMessagePlannerConfig())
	}
	if p.scorer == nil {
		p.scorer = risk.NewScorer(risk.DefaultScorerConfig())
	}
	if p.approver == nil {
		approverCfg := risk.DefaultApproverConfig()
		// min_approval_level caps what may pass without structural
		// review; strict presets lower it to LOW.
		approverCfg.SelfApproveThreshold = cfg.MinApprovalLevel
		p.approver = risk.NewApprover(approverCfg)
	}
	if p.grammar == nil {
		grammarCfg := construction.DefaultGrammarConfig()
		grammarCfg.LoadDefaults = cfg.UseDefaultConstructions
		p.grammar = construction.NewGrammar(grammarCfg)
	}
	if p.feedback == nil && cfg.EnableFeedback {
		store, err := feedback.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open feedback store: %w", err)
		}
		p.feedback = store
		p.ownsFeedback = true
	}

	var provider construction.FeedbackStatsProvider
	if p.feedback != nil {
		provider = p.feedback
	}
	p.selector = construction.NewSelector(p.grammar, construction.DefaultSelectorConfig(), provider)

	if p.realizer == nil {
		p.realizer = construction.NewRealizer(construction.DefaultRealizerConfig())
	}
	if p.critic == nil {
		p.critic = critique.NewCritic(cfg.Critique.Critique())
	}

	return p, nil
}

// Close releases resources the pipeline owns.
func (p *Pipeline) Close() error {
	if p.ownsFeedback && p.feedback != nil {
		return p.feedback.Close()
	}
	return nil
}

// Grammar exposes the construction store, for learning and inspection.
func (p *Pipeline) Grammar() *construction.Grammar {
	return p.grammar
}

// FeedbackStore exposes the feedback store, nil when disabled.
func (p *Pipeline) FeedbackStore() *feedback.Store {
	return p.feedback
}

// Process turns one user utterance into a reply. It never panics: any
// stage failure yields a Result carrying the fallback response.
func (p *Pipeline) Process(ctx context.Context, userMessage string, history []dialogue.Turn, metadata map[string]interface{}) (result *Result) {
	timer := logging.StartTimer(logging.CategoryPipeline, "process")
	defer timer.Stop()

	defer func() {
		if r := recover(); r != nil {
			logging.PipelineError("recovered from panic: %v", r)
			result = Failure(fmt.Sprintf("panic: %v", r), p.config.FallbackResponse)
		}
	}()

	if err := ctx.Err(); err != nil {
		return Failure(err.Error(), p.config.FallbackResponse)
	}

	resultMeta := map[string]interface{}{}
	for k, v := range metadata {
		resultMeta[k] = v
	}
	resultMeta["id"] = NewResultID()

	situation := p.situationBuilder.Build(userMessage, history, metadata)
	resultMeta["situation_id"] = situation.ID

	selection := p.actSelector.SelectActs(situation, selectionContext(history))
	resultMeta["act_count"] = len(selection.Acts)

	plan := p.planner.Plan(selection, situation, nil)
	resultMeta["plan_id"] = plan.ID

	var assessment *risk.Assessment
	var approval *risk.ApprovalResult
	if p.config.EnableRiskAssessment {
		assessment = p.scorer.Assess(plan, situation, nil)
		resultMeta["risk_level"] = string(assessment.Level)

		if p.config.EnableApprovalCheck {
			decision := p.approver.Approve(assessment)
			approval = &decision
			resultMeta["approval"] = string(decision.Decision)

			if decision.Rejected() {
				logging.Pipeline("plan %s rejected at level %s", plan.ID, assessment.Level)
				return &Result{
					Success:        false,
					Output:         p.config.FallbackResponse,
					Situation:      situation,
					ActSelection:   &selection,
					MessagePlan:    plan,
					RiskAssessment: assessment,
					Approval:       approval,
					Error:          "Mesaj onaylanmadi",
					Metadata:       resultMeta,
					CreatedAt:      time.Now(),
				}
			}
		}
	}

	constructions := p.selectConstructions(ctx, plan, situation)
	resultMeta["construction_count"] = len(constructions)

	output, used := p.realize(constructions, plan)
	if output == "" {
		output = p.fallbackOutput(plan)
		used = nil
	}

	var critiqueResult *critique.Result
	if p.config.EnableSelfCritique {
		cr := p.critic.Critique(output, plan, situation)
		critiqueResult = &cr
		resultMeta["critique_score"] = cr.Score

		if cr.RevisedOutput != "" {
			output = cr.RevisedOutput
			resultMeta["was_revised"] = true
		}
	}

	output = p.truncate(output)
	p.recordUse(used)

	return &Result{
		Success:           true,
		Output:            output,
		Situation:         situation,
		ActSelection:      &selection,
		MessagePlan:       plan,
		RiskAssessment:    assessment,
		Approval:          approval,
		ConstructionsUsed: used,
		CritiqueResult:    critiqueResult,
		Metadata:          resultMeta,
		CreatedAt:         time.Now(),
	}
}

// ProcessWithRetry reruns a failed process when critique says a
// revision could help.
func (p *Pipeline) ProcessWithRetry(ctx context.Context, userMessage string, history []dialogue.Turn, maxRetries int) *Result {
	var last *Result

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result := p.Process(ctx, userMessage, history, nil)
		if result.Success {
			return result
		}
		last = result

		if result.CritiqueResult != nil && result.CritiqueResult.NeedsRevision() && attempt < maxRetries {
			logging.PipelineDebug("retrying after failed critique, attempt %d", attempt+1)
			continue
		}
		break
	}

	if last == nil {
		return Failure("Maksimum deneme sayisi asildi", p.config.FallbackResponse)
	}
	return last
}

// ProcessBatch runs independent utterances concurrently. Order of
// results matches the input order.
func (p *Pipeline) ProcessBatch(ctx context.Context, messages []string) ([]*Result, error) {
	results := make([]*Result, len(messages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, msg := range messages {
		g.Go(func() error {
			results[i] = p.Process(ctx, msg, nil, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RecordExplicitFeedback registers a user verdict on the constructions
// that produced a reply.
func (p *Pipeline) RecordExplicitFeedback(constructionIDs []string, positive bool) error {
	if p.feedback == nil {
		return nil
	}
	for _, id := range constructionIDs {
		if err := p.feedback.RecordExplicit(id, positive); err != nil {
			return err
		}
	}
	return nil
}

// RecordImplicitFeedback registers a behavioral signal (rephrase,
// thanks, abrupt exit) on the constructions behind a reply.
func (p *Pipeline) RecordImplicitFeedback(constructionIDs []string, positive bool) error {
	if p.feedback == nil {
		return nil
	}
	for _, id := range constructionIDs {
		if err := p.feedback.RecordImplicit(id, positive); err != nil {
			return err
		}
	}
	return nil
}

// Info describes the pipeline setup.
func (p *Pipeline) Info() map[string]interface{} {
	return map[string]interface{}{
		"config": map[string]interface{}{
			"self_critique_enabled":   p.config.EnableSelfCritique,
			"risk_assessment_enabled": p.config.EnableRiskAssessment,
			"approval_check_enabled":  p.config.EnableApprovalCheck,
			"feedback_enabled":        p.feedback != nil,
			"max_revisions":           p.config.MaxRevisionAttempts,
			"min_approval_level":      string(p.config.MinApprovalLevel),
			"max_output_length":       p.config.MaxOutputLength,
		},
		"construction_count": p.grammar.Total(),
		"feedback_count": func() int {
			if p.feedback == nil {
				return 0
			}
			return p.feedback.Count()
		}(),
	}
}

// DebugInfo flattens one result into a stage-by-stage trace.
func (p *Pipeline) DebugInfo(result *Result) map[string]interface{} {
	info := map[string]interface{}{
		"id":      result.ID(),
		"success": result.Success,
		"output":  result.Output,
		"error":   result.Error,
	}

	if result.Situation != nil {
		info["situation"] = map[string]interface{}{
			"id":            result.Situation.ID,
			"topic":         result.Situation.TopicDomain,
			"understanding": result.Situation.UnderstandingScore,
			"risk_count":    len(result.Situation.Risks),
		}
	}
	if result.ActSelection != nil {
		acts := make([]string, 0, len(result.ActSelection.Acts))
		for _, sa := range result.ActSelection.Acts {
			acts = append(acts, string(sa.Act))
		}
		info["acts"] = acts
	}
	if result.MessagePlan != nil {
		info["plan"] = map[string]interface{}{
			"id":              result.MessagePlan.ID,
			"tone":            string(result.MessagePlan.Tone),
			"primary_intent":  result.MessagePlan.PrimaryIntent,
			"content_points":  result.MessagePlan.ContentPoints,
			"optional_points": result.MessagePlan.OptionalPoints,
			"constraints":     result.MessagePlan.Constraints,
		}
	}
	if result.RiskAssessment != nil {
		info["risk"] = map[string]interface{}{
			"level": string(result.RiskAssessment.Level),
			"score": result.RiskAssessment.OverallScore,
		}
	}
	if result.Approval != nil {
		info["approval"] = string(result.Approval.Decision)
	}
	if len(result.ConstructionsUsed) > 0 {
		ids := make([]string, 0, len(result.ConstructionsUsed))
		for _, c := range result.ConstructionsUsed {
			ids = append(ids, c.ID)
		}
		info["constructions"] = ids
	}
	if result.CritiqueResult != nil {
		info["critique"] = map[string]interface{}{
			"score":      result.CritiqueResult.Score,
			"passed":     result.CritiqueResult.Passed,
			"violations": result.CritiqueResult.Violations,
			"revised":    result.WasRevised(),
		}
	}
	return info
}

func selectionContext(history []dialogue.Turn) *dialogue.SelectionContext {
	if len(history) == 0 {
		return nil
	}
	selCtx := &dialogue.SelectionContext{
		IsFollowup:     true,
		SentimentTrend: dialogue.TrendOf(history),
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "assistant" {
			selCtx.LastAssistantAct = history[i].Act
			break
		}
	}
	return selCtx
}

// selectConstructions runs the selector under the configured timeout.
// A timed-out selection degrades to the canned fallback.
func (p *Pipeline) selectConstructions(ctx context.Context, plan *dialogue.MessagePlan, situation *dialogue.SituationModel) []*construction.Construction {
	tone := plan.Tone
	if tone == "" {
		tone = p.config.DefaultTone
	}

	acts := make([]string, 0, len(plan.DialogueActs))
	for _, act := range plan.DialogueActs {
		acts = append(acts, string(act))
	}

	// The recognized intent category routes the selector to the right
	// seed constructions.
	selCtx := map[string]interface{}{}
	if len(situation.Intentions) > 0 {
		selCtx["intent"] = situation.Intentions[0].Goal
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.ConstructionTimeoutDuration())
	defer cancel()

	done := make(chan *construction.SelectionResult, 1)
	go func() {
		done <- p.selector.Select(acts, string(tone), plan.Constraints, selCtx)
	}()

	select {
	case selResult := <-done:
		constructions := make([]*construction.Construction, 0, len(selResult.Selected))
		for _, score := range selResult.Selected {
			constructions = append(constructions, score.Construction)
		}
		return constructions
	case <-ctx.Done():
		logging.PipelineWarn("construction selection timed out: %v", ctx.Err())
		return nil
	}
}

// realize renders the best candidate. Surface constructions win over
// deeper levels since they produce direct output.
func (p *Pipeline) realize(constructions []*construction.Construction, plan *dialogue.MessagePlan) (string, []*construction.Construction) {
	if len(constructions) == 0 {
		return "", nil
	}

	var surface []*construction.Construction
	for _, c := range constructions {
		if c.Level == construction.LevelSurface {
			surface = append(surface, c)
		}
	}
	targets := constructions
	if len(surface) > 0 {
		targets = surface
	}

	slotValues := p.prepareSlotValues(plan)
	best := targets[0]

	result := p.realizer.Realize(best, slotValues)
	if !result.Success {
		return "", nil
	}
	return result.Text, []*construction.Construction{best}
}

func (p *Pipeline) prepareSlotValues(plan *dialogue.MessagePlan) map[string]string {
	slots := map[string]string{}

	slots["konu"] = truncateRunes(plan.PrimaryIntent, 50)

	if len(plan.ContentPoints) > 0 {
		slots["bilgi"] = truncateRunes(plan.ContentPoints[0], 100)
		if len(plan.ContentPoints) > 1 {
			slots["ek_bilgi"] = truncateRunes(plan.ContentPoints[1], 100)
		}
	}

	if slots["mesaj"] == "" {
		slots["mesaj"] = "Anliyorum"
	}
	if slots["duygu"] == "" {
		slots["duygu"] = "anlayis"
	}
	return slots
}

var actFallbacks = map[dialogue.Act]string{
	dialogue.ActInform:      "Anliyorum, bilgi vereyim.",
	dialogue.ActExplain:     "Size aciklamak isterim.",
	dialogue.ActClarify:     "Bunu netlestirelim.",
	dialogue.ActAsk:         "Sormak istedigim bir sey var.",
	dialogue.ActConfirm:     "Dogrulamak istiyorum.",
	dialogue.ActEmpathize:   "Sizi anliyorum, zor bir durum.",
	dialogue.ActEncourage:   "Yapabilirsiniz, inaniyorum.",
	dialogue.ActComfort:     "Buradayim, her sey duzelebilir.",
	dialogue.ActSuggest:     "Bir onerim var.",
	dialogue.ActWarn:        "Dikkat etmeniz gereken bir sey var.",
	dialogue.ActAdvise:      "Size tavsiyem su olacaktir.",
	dialogue.ActRefuse:      "Maalesef bu konuda yardimci olamiyorum.",
	dialogue.ActLimit:       "Bu konuda sinirlarim var.",
	dialogue.ActDeflect:     "Baska bir konuya bakalim mi?",
	dialogue.ActAcknowledge: "Anliyorum.",
	dialogue.ActApologize:   "Ozur dilerim.",
	dialogue.ActThank:       "Tesekkur ederim.",
	dialogue.ActGreet:       "Merhaba!",
	dialogue.ActFarewell:    "Gorusuruz, iyi gunler!",
	dialogue.ActDeny:        "Hayir, oyle degil.",

	dialogue.ActRespondWellbeing:    "Iyiyim, tesekkur ederim. Siz nasilsiniz?",
	dialogue.ActReceiveThanks:       "Rica ederim!",
	dialogue.ActLightChitchat:       "Sohbet etmek guzel.",
	dialogue.ActAcknowledgePositive: "Buna sevindim!",
}

func (p *Pipeline) fallbackOutput(plan *dialogue.MessagePlan) string {
	if len(plan.DialogueActs) > 0 {
		if text, ok := actFallbacks[plan.DialogueActs[0]]; ok {
			return text
		}
	}
	return p.config.FallbackResponse
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func (p *Pipeline) truncate(output string) string {
	limit := p.config.MaxOutputLength
	if utf8.RuneCountInString(output) <= limit {
		return output
	}
	runes := []rune(output)
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

func (p *Pipeline) recordUse(used []*construction.Construction) {
	if p.feedback == nil {
		return
	}
	for _, c := range used {
		if err := p.feedback.RecordUse(c.ID); err != nil {
			logging.PipelineWarn("failed to record construction use: %v", err)
		}
	}
}
