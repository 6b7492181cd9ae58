package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	toolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dayplan_tool_calls_total",
			Help: "Total number of tool calls executed by the assistant",
		},
		[]string{"tool", "status"},
	)

	toolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dayplan_tool_call_duration_seconds",
			Help:    "Tool call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	llmCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dayplan_llm_calls_total",
			Help: "Total number of chat completion requests",
		},
		[]string{"status"},
	)

	llmCallDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dayplan_llm_call_duration_seconds",
			Help:    "Chat completion request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dayplan_turns_total",
			Help: "Total number of conversation turns by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	turnSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dayplan_turn_steps",
			Help:    "Agent loop steps taken per conversation turn",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	initOnce sync.Once
)

// InitMetrics registers the Prometheus collectors. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			toolCallsTotal,
			toolCallDuration,
			llmCallsTotal,
			llmCallDuration,
			turnsTotal,
			turnSteps,
		)
	})
}

// MetricsHandler returns an HTTP handler for Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordToolCall records one tool execution.
func RecordToolCall(tool, status string, duration time.Duration) {
	toolCallsTotal.WithLabelValues(tool, status).Inc()
	toolCallDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordLLMCall records one chat completion request.
func RecordLLMCall(status string, duration time.Duration) {
	llmCallsTotal.WithLabelValues(status).Inc()
	llmCallDuration.Observe(duration.Seconds())
}

// RecordTurn records the outcome of one conversation turn.
func RecordTurn(mode, outcome string, steps int) {
	turnsTotal.WithLabelValues(mode, outcome).Inc()
	turnSteps.Observe(float64(steps))
}
