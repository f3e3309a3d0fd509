package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"basislab/internal/basis"
	"basislab/internal/logging"
)

// Metrics groups the collectors recorded around engine evaluations.
type Metrics struct {
	Registry    *prometheus.Registry
	Evaluations *prometheus.CounterVec
	Errors      prometheus.Counter
	Duration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "basis_evaluations_total",
			Help: "Evaluations by frame classification.",
		}, []string{"class"}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "basis_evaluation_errors_total",
			Help: "Evaluations that could not reach the engine.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "basis_evaluation_duration_seconds",
			Help:    "Time spent per evaluation including transport.",
			Buckets: prometheus.ExponentialBuckets(1e-7, 10, 8),
		}),
	}
	m.Registry.MustRegister(
		m.Evaluations, m.Errors, m.Duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one evaluation. A nil receiver is a no-op.
func (m *Metrics) Observe(res basis.Result, took time.Duration) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(string(res.Class)).Inc()
	m.Duration.Observe(took.Seconds())
}

func (m *Metrics) Failed() {
	if m == nil {
		return
	}
	m.Errors.Inc()
}

// Expose serves /metrics on port until ctx is done.
func Expose(ctx context.Context, port int, m *Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Error("metrics listener stopped", zap.Int("port", port), zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
}
