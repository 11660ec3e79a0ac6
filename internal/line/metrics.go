package line

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSent     = "sent"
	outcomeRejected = "rejected"
	outcomeIgnored  = "ignored"
	outcomeError    = "error"
)

var (
	// messagesTotal counts Send calls by outcome.
	messagesTotal *prometheus.CounterVec

	// pushDuration tracks the latency of push requests.
	pushDuration prometheus.Histogram

	metricsOnce sync.Once

	metricsRegistered atomic.Bool
)

// InitMetrics registers the sender metrics with the default registry.
// It is called by NewSender and is idempotent.
func InitMetrics() {
	metricsOnce.Do(func() {
		messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "linepush_messages_total",
			Help: "Total number of outbound messages by outcome",
		}, []string{"outcome"})

		pushDuration = promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "linepush_push_duration_seconds",
			Help:    "Duration of LINE push requests",
			Buckets: prometheus.DefBuckets,
		})

		metricsRegistered.Store(true)
	})
}

func recordOutcome(outcome string) {
	if metricsRegistered.Load() {
		messagesTotal.WithLabelValues(outcome).Inc()
	}
}

func observeDuration(d time.Duration) {
	if metricsRegistered.Load() {
		pushDuration.Observe(d.Seconds())
	}
}

// GetMessagesCounter returns the outcome counter for testing.
// Returns nil if metrics have not been initialized.
func GetMessagesCounter() *prometheus.CounterVec {
	return messagesTotal
}
