package comparison

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Adds         prometheus.Counter
	Evictions    prometheus.Counter
	LoadFailures prometheus.Counter
	SaveFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Adds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "comparison_adds_total",
			Help: "Products added to comparison sets",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "comparison_evictions_total",
			Help: "Oldest entries evicted from full comparison sets",
		}),
		LoadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "comparison_load_failures_total",
			Help: "Stored comparison sets discarded as unreadable",
		}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "comparison_save_failures_total",
			Help: "Comparison set writes rejected by storage",
		}),
	}

	reg.MustRegister(m.Adds, m.Evictions, m.LoadFailures, m.SaveFailures)
	return m
}

func (m *Metrics) added(evicted bool) {
	if m == nil {
		return
	}
	m.Adds.Inc()
	if evicted {
		m.Evictions.Inc()
	}
}

func (m *Metrics) loadFailed() {
	if m != nil {
		m.LoadFailures.Inc()
	}
}

func (m *Metrics) saveFailed() {
	if m != nil {
		m.SaveFailures.Inc()
	}
}
