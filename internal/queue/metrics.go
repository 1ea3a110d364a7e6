package queue

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks queue depth and applier throughput.
var (
	updatesEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searchcore_updates_enqueued_total",
			Help: "Total updates enqueued, by kind.",
		},
		[]string{"kind"},
	)

	updatesProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searchcore_updates_processed_total",
			Help: "Total updates the applier finished, by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "searchcore_queue_depth",
			Help: "Updates currently enqueued and not yet processed.",
		},
	)

	applyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "searchcore_update_apply_duration_seconds",
			Help:    "Time spent applying one update, by kind.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(updatesEnqueuedTotal, updatesProcessedTotal, queueDepth, applyDuration)
}
