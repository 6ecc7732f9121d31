package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PollerMetrics tracks event-log polling activity.
type PollerMetrics struct {
	// PollRunsTotal counts poll cycles by status (success/failure).
	PollRunsTotal *prometheus.CounterVec

	// PollDurationSeconds measures the duration of a poll cycle.
	PollDurationSeconds prometheus.Histogram

	// PollEventsFetchedTotal counts open events returned by the event log
	// before dedup.
	PollEventsFetchedTotal prometheus.Counter

	// PollLastSuccessTimestamp records the last successful poll completion.
	PollLastSuccessTimestamp prometheus.Gauge
}

// NewPollerMetrics creates and registers the poller metrics.
func NewPollerMetrics() *PollerMetrics {
	return &PollerMetrics{
		PollRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leadpulse_poll_runs_total",
			Help: "Total number of event-log poll cycles by status.",
		}, []string{"status"}),

		PollDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "leadpulse_poll_duration_seconds",
			Help:    "Duration of one event-log poll cycle in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60},
		}),

		PollEventsFetchedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadpulse_poll_events_fetched_total",
			Help: "Open events returned by the event log before dedup.",
		}),

		PollLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "leadpulse_poll_last_success_timestamp",
			Help: "Unix timestamp of the last successful poll cycle.",
		}),
	}
}

// RecordRun increments the run counter for the given status.
func (m *PollerMetrics) RecordRun(status string) {
	m.PollRunsTotal.WithLabelValues(status).Inc()
}

// RecordDuration observes one poll cycle duration in seconds.
func (m *PollerMetrics) RecordDuration(seconds float64) {
	m.PollDurationSeconds.Observe(seconds)
}

// RecordEventsFetched adds the number of events one cycle fetched.
func (m *PollerMetrics) RecordEventsFetched(count int) {
	m.PollEventsFetchedTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the last successful cycle.
func (m *PollerMetrics) RecordLastSuccess() {
	m.PollLastSuccessTimestamp.SetToCurrentTime()
}
