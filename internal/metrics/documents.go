package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Mock server domain metrics.
var (
	DocumentsIndexedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swiftype",
			Subsystem: "server",
			Name:      "documents_indexed_total",
			Help:      "Documents processed by index calls",
		},
		[]string{"status"}, // "ok" / "rejected"
	)

	DocumentsDeletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swiftype",
			Subsystem: "server",
			Name:      "documents_deleted_total",
			Help:      "Document ids processed by delete calls",
		},
		[]string{"status"}, // "ok" / "missing"
	)

	SearchHits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "swiftype",
			Subsystem: "server",
			Name:      "search_hits",
			Help:      "Total hits per search request",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		},
	)
)

var registerOnce sync.Once

// Register registers the server metrics with the default registry. Must be called once from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequestDuration)
		prometheus.MustRegister(httpRequestsTotal)
		prometheus.MustRegister(DocumentsIndexedTotal)
		prometheus.MustRegister(DocumentsDeletedTotal)
		prometheus.MustRegister(SearchHits)
	})
}
