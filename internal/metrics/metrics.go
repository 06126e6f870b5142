package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Cache lookup results
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	providerRequests *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	exports          *prometheus.CounterVec
	exportDuration   prometheus.Histogram
	alignmentRows    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sporttery_provider_requests_total",
			Help: "Upstream odds provider requests by provider, operation and status.",
		}, []string{"provider", "operation", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sporttery_cache_lookups_total",
			Help: "Cache lookups by kind and result.",
		}, []string{"kind", "result"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sporttery_exports_total",
			Help: "Workbook exports by status.",
		}, []string{"status"}),
		exportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sporttery_export_duration_seconds",
			Help:    "Time spent building and writing an export workbook.",
			Buckets: prometheus.DefBuckets,
		}),
		alignmentRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sporttery_alignment_rows",
			Help:    "Delta rows produced per match by origin.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}, []string{"origin"}),
	}

	reg.MustRegister(
		m.providerRequests,
		m.cacheLookups,
		m.exports,
		m.exportDuration,
		m.alignmentRows,
	)

	return m
}

// ObserveProviderRequest counts one upstream call
func (m *Metrics) ObserveProviderRequest(provider, operation string, err error) {
	if m == nil {
		return
	}
	m.providerRequests.WithLabelValues(provider, operation, status(err)).Inc()
}

// ObserveCacheLookup counts one cache lookup
func (m *Metrics) ObserveCacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.cacheLookups.WithLabelValues(kind, result).Inc()
}

// ObserveExport records an export's outcome and duration
func (m *Metrics) ObserveExport(start time.Time, err error) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(status(err)).Inc()
	m.exportDuration.Observe(time.Since(start).Seconds())
}

// ObserveAlignmentRows records how many rows of each origin one match produced
func (m *Metrics) ObserveAlignmentRows(counts map[string]int) {
	if m == nil {
		return
	}
	for origin, n := range counts {
		m.alignmentRows.WithLabelValues(origin).Observe(float64(n))
	}
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
