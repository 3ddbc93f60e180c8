package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for audit publishing.
type Metrics struct {
	Emitted         *prometheus.CounterVec
	BufferDropped   prometheus.Counter
	Persisted       prometheus.Counter
	PersistFailures prometheus.Counter
	CircuitDropped  prometheus.Counter
	CircuitState    prometheus.Gauge
}

// NewMetrics registers the audit metrics on the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the audit metrics on reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Emitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "poltem_audit_events_emitted_total",
			Help: "Audit events accepted by the publisher by category",
		}, []string{"category"}),
		BufferDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "poltem_audit_buffer_dropped_total",
			Help: "Audit events dropped because the async buffer was full",
		}),
		Persisted: f.NewCounter(prometheus.CounterOpts{
			Name: "poltem_audit_events_persisted_total",
			Help: "Audit events written to the sink",
		}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "poltem_audit_persist_failures_total",
			Help: "Audit sink write failures",
		}),
		CircuitDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "poltem_audit_circuit_dropped_total",
			Help: "Audit events dropped while the sink circuit was open",
		}),
		CircuitState: f.NewGauge(prometheus.GaugeOpts{
			Name: "poltem_audit_circuit_state",
			Help: "Audit sink circuit state (0=closed/healthy, 1=open/unhealthy)",
		}),
	}
}

func (m *Metrics) IncEmitted(category string) {
	if m != nil {
		m.Emitted.WithLabelValues(category).Inc()
	}
}

func (m *Metrics) IncBufferDropped() {
	if m != nil {
		m.BufferDropped.Inc()
	}
}

func (m *Metrics) IncPersisted() {
	if m != nil {
		m.Persisted.Inc()
	}
}

func (m *Metrics) IncPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) IncCircuitDropped() {
	if m != nil {
		m.CircuitDropped.Inc()
	}
}

func (m *Metrics) SetCircuitState(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitState.Set(1)
	} else {
		m.CircuitState.Set(0)
	}
}
