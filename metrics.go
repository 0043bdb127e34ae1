package spanav

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of a router. A nil *Metrics records
// nothing.
type Metrics struct {
	loads        *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	cacheHits    *prometheus.CounterVec
	navigations  *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. A nil reg creates unregistered
// collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spanav",
			Name:      "view_loads_total",
			Help:      "Lazy view loads by route and result",
		}, []string{"route", "result"}),
		loadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spanav",
			Name:      "view_load_duration_seconds",
			Help:      "Lazy view load duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spanav",
			Name:      "view_cache_hits_total",
			Help:      "Resolutions answered from the view cache",
		}, []string{"route"}),
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spanav",
			Name:      "navigations_total",
			Help:      "Navigations by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeLoad(route string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.loads.WithLabelValues(route, result).Inc()
	m.loadDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) cacheHit(route string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(route).Inc()
}

func (m *Metrics) navigation(o Outcome) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(o.String()).Inc()
}
