package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the account flows.
type Metrics struct {
	// Attempts by flow and outcome ("success" or an error code)
	AuthAttempts *prometheus.CounterVec

	// Submissions answered by an identical in-flight call
	DeduplicatedCalls *prometheus.CounterVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AuthAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "poltem_auth_attempts_total",
			Help: "Account flow attempts by flow and outcome",
		}, []string{"flow", "outcome"}),
		DeduplicatedCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "poltem_auth_deduplicated_total",
			Help: "Duplicate account submissions that shared an in-flight collaborator call",
		}, []string{"flow"}),
	}
}

func (m *Metrics) IncAttempt(flow, outcome string) {
	if m != nil {
		m.AuthAttempts.WithLabelValues(flow, outcome).Inc()
	}
}

func (m *Metrics) IncDeduplicated(flow string) {
	if m != nil {
		m.DeduplicatedCalls.WithLabelValues(flow).Inc()
	}
}
