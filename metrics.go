package hashlife

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics wraps a Universe's counters as Prometheus collectors: population
// and generation as gauges sampled on demand, cache size/hit/miss as
// gauges and counters, and step latency as a histogram. Registered against
// the default registry at construction, so at most one Metrics per process
// should be created per metric name (server.go creates exactly one).
type Metrics struct {
	StepsTotal      prometheus.Counter
	StepDuration    prometheus.Histogram
	GenerationGauge prometheus.Gauge
	PopulationGauge prometheus.Gauge
	CacheSizeGauge  prometheus.Gauge
	CacheHitsTotal  prometheus.Counter
	CacheMissTotal  prometheus.Counter
	RequestsTotal   *prometheus.CounterVec
	ErrorsTotal     prometheus.Counter
}

// NewMetrics registers and returns a fresh set of collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		StepsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hashlife_steps_total",
			Help: "Total number of generations advanced.",
		}),
		StepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "hashlife_step_duration_seconds",
			Help: "Latency of a single Step call.",
		}),
		GenerationGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hashlife_generation",
			Help: "Current generation counter of the universe.",
		}),
		PopulationGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hashlife_population",
			Help: "Current live cell count.",
		}),
		CacheSizeGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hashlife_cache_size",
			Help: "Number of canonical inner nodes currently cached.",
		}),
		CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hashlife_cache_hits_total",
			Help: "Total NodeCache.GetInner calls resolved from the cache.",
		}),
		CacheMissTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hashlife_cache_misses_total",
			Help: "Total NodeCache.GetInner calls that allocated a new node.",
		}),
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hashlife_http_requests_total",
			Help: "HTTP requests served, by route and status class.",
		}, []string{"route", "status"}),
		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hashlife_http_errors_total",
			Help: "Total HTTP requests that returned an error response.",
		}),
	}
}

// Observe samples u's counters into m's gauges and advances the cumulative
// hit/miss counters by however much they grew since the last Observe call.
// Call it after every mutating operation the server performs.
func (m *Metrics) Observe(u *Universe, lastStats CacheStats) CacheStats {
	m.GenerationGauge.Set(float64(u.Generation()))
	m.PopulationGauge.Set(float64(u.Population()))

	stats := u.CacheStats()
	m.CacheSizeGauge.Set(float64(stats.Size))
	if stats.Hits > lastStats.Hits {
		m.CacheHitsTotal.Add(float64(stats.Hits - lastStats.Hits))
	}
	if stats.Misses > lastStats.Misses {
		m.CacheMissTotal.Add(float64(stats.Misses - lastStats.Misses))
	}
	return stats
}

// ObserveStep records the wall-clock duration of a single Step call.
func (m *Metrics) ObserveStep(d time.Duration) {
	m.StepsTotal.Inc()
	m.StepDuration.Observe(d.Seconds())
}
