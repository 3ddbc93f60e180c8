package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Transitions by the step reached
	Transitions *prometheus.CounterVec

	// Verification attempts by result ("verified", "code_mismatch", ...)
	Verifications *prometheus.CounterVec

	// Flows opened without a usable survey
	MissingSurvey prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "poltem_participation_transitions_total",
			Help: "Participation flow step transitions by the step reached",
		}, []string{"step"}),
		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "poltem_participation_verifications_total",
			Help: "Completion code checks by result",
		}, []string{"result"}),
		MissingSurvey: f.NewCounter(prometheus.CounterOpts{
			Name: "poltem_participation_missing_survey_total",
			Help: "Participation flows opened without a usable survey record",
		}),
	}
}

func (m *Metrics) IncTransition(step string) {
	if m != nil {
		m.Transitions.WithLabelValues(step).Inc()
	}
}

func (m *Metrics) IncVerification(result string) {
	if m != nil {
		m.Verifications.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncMissingSurvey() {
	if m != nil {
		m.MissingSurvey.Inc()
	}
}
