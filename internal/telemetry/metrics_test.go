package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"basislab/internal/basis"
)

func TestMetrics_ObserveByClass(t *testing.T) {
	m := NewMetrics()

	m.Observe(basis.Result{Class: basis.ClassRotation}, time.Microsecond)
	m.Observe(basis.Result{Class: basis.ClassRotation}, time.Microsecond)
	m.Observe(basis.Result{Class: basis.ClassLinearDependence}, time.Microsecond)
	m.Failed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("ROTATION")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("LINEAR_DEPENDENCE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Evaluations))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Observe(basis.Result{Class: basis.ClassSkewed}, time.Second)
		m.Failed()
	})
}
