package reconcile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments reconciliation. A nil *Metrics records nothing.
type Metrics struct {
	mutations    *prometheus.CounterVec
	anchors      prometheus.Gauge
	tickDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spatialnotes",
			Name:      "scene_mutations_total",
			Help:      "Scene mutations issued by the reconciler, by operation.",
		}, []string{"op"}),
		anchors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spatialnotes",
			Name:      "anchors",
			Help:      "Note anchors currently in the scene.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spatialnotes",
			Name:      "tick_duration_seconds",
			Help:      "Wall time of one reconciliation tick.",
			Buckets:   []float64{.0001, .0005, .001, .002, .004, .008, .016, .033},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.mutations, m.anchors, m.tickDuration)
	}
	return m
}

func (m *Metrics) observe(rep Report, anchors int, d time.Duration) {
	if m == nil {
		return
	}
	m.add("create", rep.Created)
	m.add("move", rep.Moved)
	m.add("remove", rep.Removed)
	m.add("render", rep.Rendered)
	m.add("rebuild", rep.Rebuilt)
	m.add("defer", rep.Deferred)
	m.anchors.Set(float64(anchors))
	m.tickDuration.Observe(d.Seconds())
}

func (m *Metrics) interaction(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) add(op string, n int) {
	if n > 0 {
		m.mutations.WithLabelValues(op).Add(float64(n))
	}
}
