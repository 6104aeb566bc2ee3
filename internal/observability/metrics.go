package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "stylist"

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"route", "code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"route"},
	)

	llmRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Duration of LLM completion calls in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"backend", "status"}, // status: success, error
	)

	talkOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "talk_outcomes_total",
			Help:      "Chat turns by outcome",
		},
		[]string{"outcome"}, // text, search_results, error
	)

	upstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Non-success responses from collaborator APIs",
		},
		[]string{"api"},
	)
)

// Registry holds every collector of the service.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		llmRequestDuration,
		talkOutcomesTotal,
		upstreamErrorsTotal,
		collectors.NewGoCollector(),
	)
}

func ObserveHTTPRequest(route string, code int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func ObserveLLMRequest(backend string, err error, elapsed time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	llmRequestDuration.WithLabelValues(backend, status).Observe(elapsed.Seconds())
}

func CountTalkOutcome(outcome string) {
	talkOutcomesTotal.WithLabelValues(outcome).Inc()
}

func CountUpstreamError(api string) {
	upstreamErrorsTotal.WithLabelValues(api).Inc()
}
