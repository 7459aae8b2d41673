package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	GenerationRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_requests_total",
		Help: "Numărul de cereri de generare, pe platformă și rezultat",
	}, []string{"platform", "status"})

	PipelineDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_duration_seconds",
		Help:    "Durata unei rulări complete a pipeline-ului",
		Buckets: []float64{1, 2.5, 5, 10, 20, 30, 45, 60, 90, 120, 180, 240, 300},
	}, []string{"mode"})

	StageFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stage_fallbacks_total",
		Help: "Numărul de răspunsuri LLM nevalide recuperate local, pe etapă",
	}, []string{"stage"})

	ThrottleWaitSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "throttle_wait_seconds",
		Help:    "Timpul petrecut în așteptarea limitatorului global",
		Buckets: prometheus.DefBuckets,
	})

	GatewayRetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Numărul de reîncercări după 429/503",
	})

	SimilarityWarningsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "similarity_warnings_total",
		Help: "Numărul de rulări cu conținut similar detectat",
	})

	FeedbackEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_events_total",
		Help: "Numărul de evenimente de feedback procesate",
	}, []string{"outcome"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Durata cererilor de rețea",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60, 90, 120},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Numărul cererilor de rețea",
	}, []string{"component", "operation", "target", "status"})

	LLMGenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_generation_duration_seconds",
		Help:    "Durata generării unui răspuns LLM",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Numărul de tokeni folosiți de LLM",
	}, []string{"model", "type"})
)

// MustRegister înregistrează metricile.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		GenerationRequestsTotal,
		PipelineDuration,
		StageFallbacksTotal,
		ThrottleWaitSeconds,
		GatewayRetriesTotal,
		SimilarityWarningsTotal,
		FeedbackEventsTotal,
		NetworkRequestDuration,
		NetworkRequestTotal,
		LLMGenerationDuration,
		LLMTokensTotal,
	)
}

// ObserveNetworkRequest înregistrează durata și statusul unei cereri de rețea.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveLLMGeneration înregistrează durata și tokenii unei generări LLM.
func ObserveLLMGeneration(model string, duration time.Duration, promptTokens, completionTokens, totalTokens int) {
	if model == "" {
		model = "unknown"
	}
	LLMGenerationDuration.WithLabelValues(model).Observe(duration.Seconds())
	if promptTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
	if totalTokens <= 0 {
		totalTokens = promptTokens + completionTokens
	}
	if totalTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "total").Add(float64(totalTokens))
	}
}

// IncStageFallback marchează o recuperare locală pentru o etapă.
func IncStageFallback(stage string) {
	StageFallbacksTotal.WithLabelValues(stage).Inc()
}
