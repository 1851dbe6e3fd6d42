package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	DocumentsProcessed   *prometheus.CounterVec
	ExtractionDuration   *prometheus.HistogramVec
	CitationsExtracted   *prometheus.CounterVec
	PatternFailures      *prometheus.CounterVec
	ExtractorFailures    *prometheus.CounterVec
	ResolutionsAttempted *prometheus.CounterVec
	AnnotationsSkipped   prometheus.Counter

	QueueDepth        *prometheus.GaugeVec
	QueueEnqueueTotal *prometheus.CounterVec
	QueueDequeueTotal *prometheus.CounterVec
	WorkerJobDuration *prometheus.HistogramVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	CorpusOperations *prometheus.CounterVec
	CorpusLatency    *prometheus.HistogramVec

	GraphNodes prometheus.Gauge
	GraphEdges prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citelink_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "citelink_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "citelink_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),
		DocumentsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citelink_documents_processed_total",
				Help: "Total number of documents run through the pipeline",
			},
			[]string{"status"},
		),
		ExtractionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "citelink_extraction_duration_seconds",
				Help:    "Time to extract citations from a document",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"resolved"},
		),
		CitationsExtracted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citelink_citations_extracted_total",
				Help: "Total number of citations extracted, by type",
			},
			[]string{"type"},
		),
		PatternFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citelink_pattern_failures_total",
				Help: "Total number of pattern execution failures",
			},
			[]string{"pattern_id"},
		),
		ExtractorFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citelink_extractor_failures_total",
				Help: "Total number of extractor parse failures",
			},
			[]string{"type"},
		),
		ResolutionsAttempted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citelink_resolutions_total",
				Help: "Total number of short-form resolution attempts",
			},
			[]string{"type", "status"},
		),
		AnnotationsSkipped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "citelink_annotations_skipped_total",
				Help: "Total number of citations skipped during annotation",
			},
		),
		QueueDepth: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "citelink_queue_depth",
				Help: "Current async queue depth",
			},
			[]string{"queue_name"},
		),
		QueueEnqueueTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citelink_queue_enqueue_total",
				Help: "Total number of jobs enqueued",
			},
			[]string{"queue_name"},
		),
		QueueDequeueTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citelink_queue_dequeue_total",
				Help: "Total number of jobs dequeued",
			},
			[]string{"queue_name"},
		),
		WorkerJobDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "citelink_worker_job_duration_seconds",
				Help:    "Async worker job duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"job_type"},
		),
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citelink_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache_name"},
		),
		CacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citelink_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache_name"},
		),
		CorpusOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citelink_corpus_operations_total",
				Help: "Total number of corpus storage operations",
			},
			[]string{"operation", "status"},
		),
		CorpusLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "citelink_corpus_latency_seconds",
				Help:    "Corpus storage operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		GraphNodes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "citelink_graph_nodes",
				Help: "Number of nodes in the citation graph",
			},
		),
		GraphEdges: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "citelink_graph_edges",
				Help: "Number of edges in the citation graph",
			},
		),
	}
}

// RecordHTTPRequest records an HTTP request metric.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordExtraction records a full pipeline invocation.
func (m *Metrics) RecordExtraction(resolved bool, duration time.Duration, citationsByType map[string]int) {
	m.DocumentsProcessed.WithLabelValues("ok").Inc()
	m.ExtractionDuration.WithLabelValues(boolLabel(resolved)).Observe(duration.Seconds())
	for t, n := range citationsByType {
		m.CitationsExtracted.WithLabelValues(t).Add(float64(n))
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Handler returns the Prometheus metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
