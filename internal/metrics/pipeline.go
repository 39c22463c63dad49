package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion and LLM provider Prometheus metrics.
var (
	IngestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "ingest_total",
			Help:      "Total number of ingestion attempts by outcome",
		},
		[]string{"outcome"}, // accepted, invalid_format, ready, error
	)

	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Name:      "ingest_duration_seconds",
			Help:      "Background index materialization duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "llm_requests_total",
			Help:      "Total number of LLM provider requests",
		},
		[]string{"kind", "model", "status"}, // kind: embedding, chat
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Name:      "llm_request_duration_seconds",
			Help:      "LLM provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind", "model"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "llm_tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"kind", "model", "type"}, // type: prompt, total
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)
)

// RegisterPipelineMetrics registers ingestion and LLM metrics explicitly (no init()).
func RegisterPipelineMetrics() {
	prometheus.MustRegister(
		IngestTotal,
		IngestDuration,
		LLMRequestsTotal,
		LLMRequestDuration,
		LLMTokensTotal,
		EmbeddingCacheTotal,
	)
}
