// SPDX-License-Identifier: MIT

package solver

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "ntransport"
	metricsSubsystem = "within_group"
)

// Result labels of SolvesTotal.
const (
	resultConverged = "converged"
	resultWarning   = "warning"
	resultError     = "error"
)

// Outcome labels of ExtrapolationsTotal.
const (
	outcomeApplied = "applied"
	outcomeSkipped = "skipped"
)

// Metrics holds the Prometheus collectors of the within-group solvers.
//
// Thread Safety: safe for concurrent use.
type Metrics struct {
	// SolvesTotal counts Solve calls by kind and result.
	SolvesTotal *prometheus.CounterVec

	// Iterations observes the iteration count of each Solve by kind.
	Iterations *prometheus.HistogramVec

	// WarningsTotal counts non-converged solves by kind.
	WarningsTotal *prometheus.CounterVec

	// ExtrapolationsTotal counts Livolant extrapolations by outcome.
	ExtrapolationsTotal *prometheus.CounterVec

	// KrylovFallbacksTotal counts GMRES breakdowns recovered by source iteration.
	KrylovFallbacksTotal prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		SolvesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "solves_total",
				Help:      "Within-group solves by kind and result",
			},
			[]string{"kind", "result"},
		),
		Iterations: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "iterations",
				Help:      "Iterations per within-group solve",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"kind"},
		),
		WarningsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "warnings_total",
				Help:      "Solves that reached the iteration cap above tolerance",
			},
			[]string{"kind"},
		),
		ExtrapolationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "livolant_extrapolations_total",
				Help:      "Livolant extrapolation attempts by outcome",
			},
			[]string{"outcome"},
		),
		KrylovFallbacksTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "krylov_fallbacks_total",
				Help:      "GMRES breakdowns recovered by source iteration",
			},
		),
	}
}

var (
	defaultMetricsOnce sync.Once
	defaultMetrics     *Metrics
)

// DefaultMetrics returns the process-wide collectors registered with
// prometheus.DefaultRegisterer.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})

	return defaultMetrics
}

func (m *Metrics) observe(kind Kind, res Result, err error) {
	if m == nil {
		return
	}
	k := kind.String()
	switch {
	case err != nil:
		m.SolvesTotal.WithLabelValues(k, resultError).Inc()
		return
	case res.Warning != nil:
		m.SolvesTotal.WithLabelValues(k, resultWarning).Inc()
		m.WarningsTotal.WithLabelValues(k).Inc()
	default:
		m.SolvesTotal.WithLabelValues(k, resultConverged).Inc()
	}
	m.Iterations.WithLabelValues(k).Observe(float64(res.Iterations))
}

func (m *Metrics) extrapolation(applied bool) {
	if m == nil {
		return
	}
	if applied {
		m.ExtrapolationsTotal.WithLabelValues(outcomeApplied).Inc()
		return
	}
	m.ExtrapolationsTotal.WithLabelValues(outcomeSkipped).Inc()
}

func (m *Metrics) fallback() {
	if m == nil {
		return
	}
	m.KrylovFallbacksTotal.Inc()
}
