package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookmarks_store_duration_seconds",
		Help:    "Latency of bookmark store calls.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"op"})

	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmarks_requests_total",
		Help: "Bookmark API requests by operation and response status.",
	}, []string{"op", "status"})

	ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmarks_validation_failures_total",
		Help: "Rejected bookmark payloads by failure kind.",
	}, []string{"kind"})

	UnauthorizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmarks_unauthorized_total",
		Help: "Requests rejected for a missing or wrong bearer token.",
	})
)

// RegisterBookmarkCount exposes bookmarks_total, evaluated on every scrape.
// It returns an error if the gauge is already registered.
func RegisterBookmarkCount(count func() float64) error {
	return prometheus.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "bookmarks_total",
		Help: "Total number of bookmarks in the database.",
	}, count))
}
