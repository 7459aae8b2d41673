package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
	"smmaa-bot/internal/infra/metrics"
	"smmaa-bot/internal/usecase/intelligence"
)

// minPatternScore este scorul minim de succes al unui șablon pentru a fi
// propus scriitorului ca inspirație.
const minPatternScore = 0.7

// SimilarityDetector detectează conținut repetitiv față de istoricul recent.
type SimilarityDetector interface {
	Detect(content string) domain.SimilarityReport
}

// Orchestrator secvențiază întregul pipeline de generare și persistă
// rezultatele. Implementează domain.Generator.
type Orchestrator struct {
	aggregator *Aggregator
	vision     domain.MediaAnalyzer
	researcher *Researcher
	strategist *Strategist
	writer     *Writer
	editor     *Editor
	optimizer  *Optimizer
	detector   SimilarityDetector
	history    domain.PostHistoryRepo
	patterns   domain.PatternRepo
	now        func() time.Time
	log        zerolog.Logger
}

// OrchestratorDeps grupează dependențele orchestratorului.
type OrchestratorDeps struct {
	Aggregator *Aggregator
	Vision     domain.MediaAnalyzer
	Researcher *Researcher
	Strategist *Strategist
	Writer     *Writer
	Editor     *Editor
	Optimizer  *Optimizer
	Detector   SimilarityDetector
	History    domain.PostHistoryRepo
	Patterns   domain.PatternRepo
	Logger     zerolog.Logger
}

// NewOrchestrator creează orchestratorul.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		aggregator: deps.Aggregator,
		vision:     deps.Vision,
		researcher: deps.Researcher,
		strategist: deps.Strategist,
		writer:     deps.Writer,
		editor:     deps.Editor,
		optimizer:  deps.Optimizer,
		detector:   deps.Detector,
		history:    deps.History,
		patterns:   deps.Patterns,
		now:        time.Now,
		log:        deps.Logger,
	}
}

// Generate rulează pipeline-ul complet: viziune (dacă există media), context,
// cercetare, strategie, scriere, redactare, optimizare, similaritate și
// persistare. Eșecul unei etape LLM întoarce Success=false cu diagnosticul;
// eșecul de persistare doar lasă postarea fără identificator.
func (o *Orchestrator) Generate(ctx context.Context, request domain.GenerationRequest) domain.GenerationResult {
	start := o.now()
	defer func() {
		metrics.PipelineDuration.WithLabelValues("full").Observe(time.Since(start).Seconds())
	}()

	o.analyzeMedia(ctx, &request)

	bundle := o.aggregator.Gather()

	findings, err := o.researcher.Execute(ctx, request, bundle)
	if err != nil {
		return o.failure(request, start, err)
	}

	strategy, err := o.strategist.Execute(ctx, request, findings)
	if err != nil {
		return o.failure(request, start, err)
	}

	variants, err := o.writer.Execute(ctx, WriterInput{
		Request:      request,
		Strategy:     strategy,
		Knowledge:    findings.Knowledge,
		HookPatterns: o.hookPatterns(request),
	})
	if err != nil {
		return o.failure(request, start, err)
	}

	review, err := o.editor.Execute(ctx, request, variants)
	if err != nil {
		return o.failure(request, start, err)
	}

	optimization, err := o.optimizer.Execute(ctx, request, review.ImprovedVariants)
	if err != nil {
		return o.failure(request, start, err)
	}

	allHashtags := optimization.Hashtags.All()
	postTime := o.now()

	posts := make([]domain.GeneratedPost, 0, len(review.ImprovedVariants))
	similarity := domain.SimilarityReport{}
	for _, variant := range review.ImprovedVariants {
		report := o.detector.Detect(variant.Content)
		if report.IsSimilar && !similarity.IsSimilar {
			similarity = report
		}

		engagement := intelligence.PredictEngagement(variant.Content, request.Platform, allHashtags, &postTime)
		tip := optimization.Tip
		if len(engagement.Suggestions) > 0 {
			tip = engagement.Suggestions[0]
		}

		posts = append(posts, domain.GeneratedPost{
			Variant:          variant,
			Hashtags:         allHashtags,
			Tip:              tip,
			EngagementScore:  engagement.Prediction.Score,
			VisualSuggestion: optimization.VisualRecommendation,
			BestPostingTime:  bestPostingTime(optimization.PostingSuggestion),
		})
	}

	o.persist(request, posts)

	metrics.GenerationRequestsTotal.WithLabelValues(string(request.Platform), "success").Inc()
	return domain.GenerationResult{
		Success:    true,
		Posts:      posts,
		Similarity: similarity,
		Metadata:   o.metadata(request, start),
	}
}

// QuickGenerate sare peste cercetare, strategie și redactarea LLM: strategia
// implicită merge direct la scriitor, apoi optimizare și o verificare locală
// de vocabular.
func (o *Orchestrator) QuickGenerate(ctx context.Context, request domain.GenerationRequest) domain.GenerationResult {
	start := o.now()
	defer func() {
		metrics.PipelineDuration.WithLabelValues("quick").Observe(time.Since(start).Seconds())
	}()

	bundle := o.aggregator.Gather()

	variants, err := o.writer.Execute(ctx, WriterInput{
		Request:   request,
		Strategy:  quickStrategy(request.PostType),
		Knowledge: bundle.Knowledge,
	})
	if err != nil {
		return o.failure(request, start, err)
	}

	optimization, err := o.optimizer.Execute(ctx, request, variants)
	if err != nil {
		return o.failure(request, start, err)
	}

	posts := make([]domain.GeneratedPost, 0, len(variants))
	for _, variant := range variants {
		tip := optimization.Tip
		if issues := o.editor.QuickCheck(variant.Content); len(issues) > 0 {
			tip = issues[0].Suggestion
		}
		posts = append(posts, domain.GeneratedPost{
			Variant:          variant,
			Hashtags:         optimization.Hashtags.Primary,
			Tip:              tip,
			EngagementScore:  optimization.EngagementPrediction.Score,
			VisualSuggestion: optimization.VisualRecommendation,
			BestPostingTime:  bestPostingTime(optimization.PostingSuggestion),
		})
	}

	metrics.GenerationRequestsTotal.WithLabelValues(string(request.Platform), "success").Inc()
	return domain.GenerationResult{
		Success:  true,
		Posts:    posts,
		Metadata: o.metadata(request, start),
	}
}

// analyzeMedia atașează analiza vizuală când există media fără analiză
// precalculată. Un eșec al analizei nu oprește generarea.
func (o *Orchestrator) analyzeMedia(ctx context.Context, request *domain.GenerationRequest) {
	if len(request.Media) == 0 || request.MediaAnalysis != nil || o.vision == nil {
		return
	}
	analysis, err := o.vision.Analyze(ctx, request.Media, request.MediaMIME)
	if err != nil {
		o.log.Warn().Err(err).Msg("analiza media a eșuat, continui fără")
		return
	}
	request.MediaAnalysis = &analysis
}

// hookPatterns citește șabloanele de hook reușite pentru platformă și tip.
func (o *Orchestrator) hookPatterns(request domain.GenerationRequest) []string {
	if o.patterns == nil {
		return nil
	}
	stored, err := o.patterns.TopPatterns(domain.PatternHook, request.Platform, request.PostType, minPatternScore, 5)
	if err != nil {
		o.log.Warn().Err(err).Msg("nu am putut citi șabloanele de hook")
		return nil
	}
	hooks := make([]string, 0, len(stored))
	for _, pattern := range stored {
		hooks = append(hooks, pattern.Pattern)
	}
	return hooks
}

// persist salvează fiecare postare; un eșec lasă postarea fără ID, dar în
// răspuns.
func (o *Orchestrator) persist(request domain.GenerationRequest, posts []domain.GeneratedPost) {
	if o.history == nil {
		return
	}
	for i := range posts {
		id, err := o.history.SavePost(domain.PostRecord{
			Platform:     request.Platform,
			PostType:     request.PostType,
			Tone:         request.Tone,
			VariantKind:  posts[i].Variant.Kind,
			Content:      posts[i].Variant.Content,
			Hashtags:     posts[i].Hashtags,
			CustomPrompt: request.CustomPrompt,
			Tip:          posts[i].Tip,
			Engagement:   posts[i].EngagementScore,
			GeneratedAt:  o.now(),
		})
		if err != nil {
			o.log.Warn().Err(err).Str("variant", string(posts[i].Variant.Kind)).Msg("nu am putut salva postarea")
			continue
		}
		posts[i].ID = id
	}
}

func (o *Orchestrator) failure(request domain.GenerationRequest, start time.Time, err error) domain.GenerationResult {
	o.log.Error().Err(err).Msg("pipeline-ul de generare a eșuat")
	metrics.GenerationRequestsTotal.WithLabelValues(string(request.Platform), "error").Inc()
	return domain.GenerationResult{
		Success:  false,
		Posts:    []domain.GeneratedPost{},
		Metadata: o.metadata(request, start),
		Error:    err.Error(),
	}
}

func (o *Orchestrator) metadata(request domain.GenerationRequest, start time.Time) domain.GenerationMetadata {
	return domain.GenerationMetadata{
		Platform:         request.Platform,
		PostType:         request.PostType,
		Tone:             request.Tone,
		GeneratedAt:      start,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
}

func bestPostingTime(suggestion domain.PostingSuggestion) string {
	if len(suggestion.BestTimes) > 0 {
		return suggestion.BestTimes[0]
	}
	return "18:00-20:00"
}

// quickStrategy este strategia implicită a modului rapid, fără apel LLM.
func quickStrategy(postType domain.PostType) domain.Strategy {
	return domain.Strategy{
		Objective:           string(postType),
		EmotionalApproach:   "Cald și empatic",
		PersuasionPrinciple: "Autoritate",
		ContentStructure:    "hook-story-lesson-close",
		ServiceMention:      domain.MentionNone,
		Temperatures:        defaultTemperatures(),
		CTAs:                []string{"Suntem aici pentru dumneavoastră."},
	}
}
