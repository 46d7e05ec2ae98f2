// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scrapesTotal           *prometheus.CounterVec
	llmCallsTotal          *prometheus.CounterVec
	llmCallDurationSeconds *prometheus.HistogramVec
	postsAssembledTotal    *prometheus.CounterVec
	postsPublishedTotal    prometheus.Counter
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scrapesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mdx_scrapes_total",
				Help: "Total number of scrape requests, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		llmCallsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mdx_llm_calls_total",
				Help: "Total number of LLM completion calls, labeled by model and outcome.",
			},
			[]string{"model", "outcome"},
		)

		llmCallDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mdx_llm_call_duration_seconds",
				Help:    "Histogram of LLM call latencies, labeled by model.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"model"},
		)

		postsAssembledTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mdx_posts_assembled_total",
				Help: "Total number of post assembly attempts, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		postsPublishedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mdx_posts_published_total",
				Help: "Total number of posts published to the CMS.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveScrape increments the scrape counter for the given outcome.
func ObserveScrape(outcome string) {
	Init()
	scrapesTotal.WithLabelValues(outcome).Inc()
}

// ObserveLLMCall records one completion call.
func ObserveLLMCall(model string, duration time.Duration, ok bool) {
	Init()
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	llmCallsTotal.WithLabelValues(model, outcome).Inc()
	llmCallDurationSeconds.WithLabelValues(model).Observe(duration.Seconds())
}

// ObservePostAssembly increments the assembly counter for the given outcome.
func ObservePostAssembly(outcome string) {
	Init()
	postsAssembledTotal.WithLabelValues(outcome).Inc()
}

// ObservePublish increments the published-posts counter.
func ObservePublish() {
	Init()
	postsPublishedTotal.Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
