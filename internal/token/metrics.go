package token

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	lookupFound  = "found"
	lookupAbsent = "absent"
	lookupError  = "error"
)

var (
	// lookupsTotal counts token resolutions that reached the underlying provider.
	lookupsTotal *prometheus.CounterVec

	metricsOnce sync.Once

	metricsRegistered atomic.Bool
)

// InitMetrics registers the token lookup counter with the default registry
func InitMetrics() {
	metricsOnce.Do(func() {
		lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "linepush_token_lookups_total",
			Help: "Total number of channel access token lookups by result",
		}, []string{"result"})
		metricsRegistered.Store(true)
	})
}

// recordLookup is safe to call even if metrics have not been initialized.
func recordLookup(result string) {
	if metricsRegistered.Load() {
		lookupsTotal.WithLabelValues(result).Inc()
	}
}

// GetLookupsCounter returns the lookup counter for testing.
// Returns nil if metrics have not been initialized.
func GetLookupsCounter() *prometheus.CounterVec {
	return lookupsTotal
}
