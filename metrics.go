package pluggable_cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors a cache reports to.
type Metrics struct {
	Hits        prometheus.Counter
	Misses      prometheus.Counter
	Evictions   prometheus.Counter
	Expirations prometheus.Counter
	Size        prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hits_total",
			Help:      "Total number of Get calls that found a live entry",
		}),
		Misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "misses_total",
			Help:      "Total number of Get calls that found nothing",
		}),
		Evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Total number of entries evicted to make room",
		}),
		Expirations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expirations_total",
			Help:      "Total number of entries dropped after their ttl",
		}),
		Size: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries",
			Help:      "Current number of live entries",
		}),
	}
}

func (m *Metrics) recordGet(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.Hits.Inc()
	} else {
		m.Misses.Inc()
	}
}

func (m *Metrics) recordEviction() {
	if m == nil {
		return
	}
	m.Evictions.Inc()
}

func (m *Metrics) recordExpiration() {
	if m == nil {
		return
	}
	m.Expirations.Inc()
	m.Size.Dec()
}

func (m *Metrics) updateSize(size int) {
	if m == nil {
		return
	}
	m.Size.Set(float64(size))
}
