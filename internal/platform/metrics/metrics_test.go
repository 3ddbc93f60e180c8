package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())
	m.ObserveRequest("/v1/surveys/{id}", "GET", 200, 20*time.Millisecond)
	m.ObserveRequest("/v1/surveys/{id}", "GET", 404, 5*time.Millisecond)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.RequestsTotal.WithLabelValues("/v1/surveys/{id}", "GET", "200")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.RequestsTotal.WithLabelValues("/v1/surveys/{id}", "GET", "404")))

	var nilMetrics *Metrics
	nilMetrics.ObserveRequest("/", "GET", 200, time.Millisecond)
}
