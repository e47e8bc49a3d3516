package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the engine's Prometheus instruments on a private
// registry so the /metrics endpoint exposes only what we register.
type Collector struct {
	registry *prometheus.Registry

	evaluationsTotal  *prometheus.CounterVec
	evaluationSeconds prometheus.Histogram
	leadScores        prometheus.Histogram
	plansTotal        *prometheus.CounterVec
	planSeconds       prometheus.Histogram
}

// Evaluation outcome label values.
const (
	OutcomeMatched = "matched"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		evaluationsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "branch_evaluations_total",
			Help: "Branch selector invocations by outcome",
		}, []string{"outcome"}),
		evaluationSeconds: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "branch_evaluation_duration_seconds",
			Help:    "Time taken to select a branch",
			Buckets: prometheus.DefBuckets,
		}),
		leadScores: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "lead_score_distribution",
			Help:    "Distribution of computed lead scores",
			Buckets: []float64{0, 20, 40, 60, 80, 100},
		}),
		plansTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_plans_total",
			Help: "Batch schedule computations by completeness",
		}, []string{"complete"}),
		planSeconds: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "schedule_plan_duration_seconds",
			Help:    "Time taken to compute a day-by-day schedule",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (c *Collector) RecordEvaluation(outcome string, duration time.Duration) {
	c.evaluationsTotal.WithLabelValues(outcome).Inc()
	c.evaluationSeconds.Observe(duration.Seconds())
}

func (c *Collector) RecordLeadScore(score int) {
	c.leadScores.Observe(float64(score))
}

func (c *Collector) RecordPlan(complete bool, duration time.Duration) {
	label := "true"
	if !complete {
		label = "false"
	}
	c.plansTotal.WithLabelValues(label).Inc()
	c.planSeconds.Observe(duration.Seconds())
}

// Handler serves the registry in Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
