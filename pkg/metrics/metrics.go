package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActiveJournals tracks the number of resource-available entries in a set.
	ActiveJournals = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "journalset_active_journals",
			Help: "Number of journal entries currently resource-available",
		},
	)

	// DisabledJournals tracks entries latched disabled by the Health Arbiter.
	DisabledJournals = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "journalset_disabled_journals",
			Help: "Number of journal entries currently disabled",
		},
	)

	// QuorumLostTotal counts operations that failed with QuorumLost.
	QuorumLostTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "journalset_quorum_lost_total",
			Help: "Total number of operations that raised QuorumLost",
		},
	)

	// DirectoryErrorsTotal counts per-directory error notifications sent to the registry.
	DirectoryErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journalset_directory_errors_total",
			Help: "Total number of directory errors reported to the storage registry",
		},
		[]string{"directory"},
	)

	// FanoutDuration tracks how long a fan-out (sequential or parallel) took per operation.
	FanoutDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journalset_fanout_duration_seconds",
			Help:    "Fan-out duration in seconds by operation and execution mode",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op", "mode"},
	)

	// ManifestGapsTotal counts gaps discovered while building a manifest.
	ManifestGapsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "journalset_manifest_gaps_total",
			Help: "Total number of gaps discovered while merging segment listings into a manifest",
		},
	)

	// InputSelectionsTotal counts Input Selector outcomes by result.
	InputSelectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journalset_input_selections_total",
			Help: "Total number of input stream selections by outcome",
		},
		[]string{"outcome"}, // selected, none, corrupt
	)
)

func init() {
	prometheus.MustRegister(ActiveJournals)
	prometheus.MustRegister(DisabledJournals)
	prometheus.MustRegister(QuorumLostTotal)
	prometheus.MustRegister(DirectoryErrorsTotal)
	prometheus.MustRegister(FanoutDuration)
	prometheus.MustRegister(ManifestGapsTotal)
	prometheus.MustRegister(InputSelectionsTotal)
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the elapsed duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
