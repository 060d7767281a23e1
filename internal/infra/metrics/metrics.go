package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the notifier.
type Metrics struct {
	SendAttempts *prometheus.CounterVec
	DedupSkips   *prometheus.CounterVec
	PassDuration prometheus.Histogram
	PassTotal    *prometheus.CounterVec
}

// New registers the notifier metrics on the given registerer. Tests pass
// a fresh registry to avoid duplicate-registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SendAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "office_notifier",
				Name:      "send_attempts_total",
				Help:      "Total reminder send attempts",
			},
			[]string{"channel", "category", "outcome"},
		),
		DedupSkips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "office_notifier",
				Name:      "dedup_skips_total",
				Help:      "Sends skipped because a log entry already existed for the day",
			},
			[]string{"channel", "category"},
		),
		PassDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "office_notifier",
				Name:      "pass_duration_seconds",
				Help:      "Duration of one evaluate-and-dispatch pass",
				Buckets:   prometheus.DefBuckets,
			},
		),
		PassTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "office_notifier",
				Name:      "passes_total",
				Help:      "Total evaluation passes",
			},
			[]string{"outcome"},
		),
	}
}

// ObservePass records the outcome and duration of one pass.
func (m *Metrics) ObservePass(start time.Time, err error) {
	m.PassDuration.Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.PassTotal.WithLabelValues(outcome).Inc()
}
