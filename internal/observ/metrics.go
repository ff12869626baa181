package observ

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for API calls.
const (
	OutcomeOK        = "ok"
	OutcomeNoToken   = "no_token"
	OutcomeTransport = "transport_error"
	OutcomeRejected  = "rejected"
)

// Metrics records client-side API call statistics. Each instance owns its
// registry so several clients (and tests) never collide on registration.
type Metrics struct {
	Registry *prometheus.Registry

	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Status   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pgdesk_api_requests_total",
				Help: "Total number of remote API calls by resource, operation and outcome",
			},
			[]string{"resource", "op", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pgdesk_api_request_duration_seconds",
				Help:    "Duration of remote API calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource", "op"},
		),
		Status: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pgdesk_api_status_total",
				Help: "Remote API responses by HTTP status code",
			},
			[]string{"resource", "status"},
		),
	}
	m.Registry.MustRegister(m.Requests, m.Duration, m.Status)
	return m
}

// Observe records one finished call. status is 0 when no response arrived.
func (m *Metrics) Observe(resource, op, outcome string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(resource, op, outcome).Inc()
	if outcome == OutcomeNoToken {
		return
	}
	m.Duration.WithLabelValues(resource, op).Observe(elapsed.Seconds())
	if status > 0 {
		m.Status.WithLabelValues(resource, strconv.Itoa(status)).Inc()
	}
}
