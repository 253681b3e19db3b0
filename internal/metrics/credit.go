package metrics

import "github.com/prometheus/client_golang/prometheus"

// Credit accounting and tutor completion Prometheus metrics.
var (
	CreditAdmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutorbase",
			Name:      "credit_admissions_total",
			Help:      "Total admission checks by outcome",
		},
		[]string{"outcome"}, // "admitted" / "rejected"
	)

	CreditsSettledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tutorbase",
			Name:      "credits_settled_total",
			Help:      "Total credits debited at settlement",
		},
	)

	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutorbase",
			Name:      "completion_requests_total",
			Help:      "Total chat completion requests",
		},
		[]string{"model", "status"},
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tutorbase",
			Name:      "completion_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"model"},
	)

	CompletionTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tutorbase",
			Name:      "completion_tokens_total",
			Help:      "Total completion tokens consumed",
		},
		[]string{"model", "type"}, // "prompt" / "completion" / "total"
	)
)

var creditMetricsRegistered bool

// RegisterCreditMetrics registers Prometheus credit metrics. Must be called once from main.
func RegisterCreditMetrics() {
	if creditMetricsRegistered {
		return
	}
	prometheus.MustRegister(CreditAdmissionsTotal)
	prometheus.MustRegister(CreditsSettledTotal)
	prometheus.MustRegister(CompletionRequestsTotal)
	prometheus.MustRegister(CompletionRequestDuration)
	prometheus.MustRegister(CompletionTokensTotal)
	creditMetricsRegistered = true
}
