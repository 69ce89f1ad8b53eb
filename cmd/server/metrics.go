package main

import (
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Simplici0/digiquote/internal/pricing"
	"github.com/Simplici0/digiquote/internal/project"
)

const (
	metricsNamespace = "digiquote"
	otherTierLabel   = "other"
)

// engineMetrics counts pricing evaluations served over HTTP.
type engineMetrics struct {
	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	warnings    *prometheus.CounterVec
}

func newEngineMetrics(reg prometheus.Registerer) *engineMetrics {
	m := &engineMetrics{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "evaluations_total",
			Help:      "Pricing evaluations by operation and tier.",
		}, []string{"op", "tier"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent evaluating a project.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "evaluation_warnings_total",
			Help:      "Warnings attached to evaluation results.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.evaluations, m.duration, m.warnings)
	return m
}

func (m *engineMetrics) observe(op string, start time.Time, results ...pricing.CalcResult) {
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	for _, res := range results {
		m.evaluations.WithLabelValues(op, tierLabel(res.Tier)).Inc()
		if n := len(res.Warnings); n > 0 {
			m.warnings.WithLabelValues(op).Add(float64(n))
		}
	}
}

// tierLabel folds tiers outside the known set into one label value.
func tierLabel(t project.Tier) string {
	if slices.Contains(project.AllTiers(), t) {
		return string(t)
	}
	return otherTierLabel
}
