// Package telemetry records Prometheus counters/gauges mirroring
// pairing.SummaryStatistics. Handler returns a scrape endpoint for a
// registry; the ghbackup command registers the metrics with the
// default registerer and does not serve a scrape endpoint.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SierraSoftworks/ghbackup/pairing"
)

// Metrics holds the counters/gauge updated after every pairing run.
type Metrics struct {
	outcomes     *prometheus.CounterVec
	runDuration  prometheus.Histogram
	lastRunEnded prometheus.Gauge
}

// NewMetrics registers its collectors against reg and returns the
// handle used to record pairing outcomes.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghbackup",
			Name:      "backup_outcomes_total",
			Help:      "Count of backup outcomes by policy kind and result.",
		}, []string{"kind", "outcome"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ghbackup",
			Name:      "policy_run_duration_seconds",
			Help:      "Wall-clock duration of one policy's pairing run.",
			Buckets:   prometheus.DefBuckets,
		}),
		lastRunEnded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ghbackup",
			Name:      "last_run_ended_timestamp_seconds",
			Help:      "Unix timestamp when the most recent pairing run finished.",
		}),
	}
}

// Observe records one policy's completed SummaryStatistics under kind.
func (m *Metrics) Observe(kind string, summary pairing.SummaryStatistics) {
	m.outcomes.WithLabelValues(kind, "new").Add(float64(summary.New))
	m.outcomes.WithLabelValues(kind, "updated").Add(float64(summary.Updated))
	m.outcomes.WithLabelValues(kind, "unchanged").Add(float64(summary.Unchanged))
	m.outcomes.WithLabelValues(kind, "skipped").Add(float64(summary.Skipped))
	m.outcomes.WithLabelValues(kind, "error").Add(float64(summary.Error))
	m.runDuration.Observe(summary.Duration().Seconds())
	m.lastRunEnded.Set(float64(summary.EndedAt.Unix()))
}

// Handler returns the /metrics scrape endpoint for reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
