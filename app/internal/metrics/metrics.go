package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeAccepted labels heartbeats that were validated and stored.
	OutcomeAccepted = "accepted"
	// OutcomeRejected labels heartbeats that failed authentication.
	OutcomeRejected = "rejected"
	// OutcomeError labels heartbeats that failed on the store side.
	OutcomeError = "error"
)

var (
	heartbeatsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "statuspage",
			Name:      "heartbeats_total",
			Help:      "Total number of heartbeat submissions, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	samplesWrittenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "statuspage",
			Name:      "samples_written_total",
			Help:      "Total number of status samples upserted into the store.",
		},
	)

	uptimeQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "statuspage",
			Name:      "uptime_queries_total",
			Help:      "Total number of aggregated uptime queries served.",
		},
	)

	uptimeQuerySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "statuspage",
			Name:      "uptime_query_seconds",
			Help:      "Uptime query latency in seconds (store reads plus interpolation).",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
	)
)

// Register attaches the statuspage collectors to the supplied registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		heartbeatsTotal,
		samplesWrittenTotal,
		uptimeQueriesTotal,
		uptimeQuerySeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveHeartbeat records one heartbeat submission outcome.
func ObserveHeartbeat(outcome string) {
	heartbeatsTotal.WithLabelValues(outcome).Inc()
}

// ObserveSampleWritten records one successful sample upsert.
func ObserveSampleWritten() {
	samplesWrittenTotal.Inc()
}

// ObserveUptimeQuery records an uptime query and its duration.
func ObserveUptimeQuery(duration time.Duration) {
	uptimeQueriesTotal.Inc()
	if duration < 0 {
		duration = 0
	}
	uptimeQuerySeconds.Observe(duration.Seconds())
}
