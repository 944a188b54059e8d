package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EntriesConsumedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_alerts_entries_consumed_total",
			Help: "Total number of account entries read from the entry stream",
		},
	)

	AlertsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_alerts_alerts_generated_total",
			Help: "Total number of addressed alert messages generated",
		},
		[]string{"message_type"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_alerts_messages_published_total",
			Help: "Total number of messages published per channel",
		},
		[]string{"channel", "status"}, // status: success, failed
	)

	ProcessingErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_alerts_processing_errors_total",
			Help: "Total number of entry processing errors",
		},
		[]string{"stage"}, // stage: read, lookup, settings, generate, publish
	)

	EntryProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "balance_alerts_entry_processing_duration_seconds",
			Help:    "Time taken to turn one account entry into published alerts",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)
)
