package input

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records dispatch activity. A nil *Metrics records nothing.
type Metrics struct {
	dispatches      *prometheus.CounterVec
	rebuilds        prometheus.Counter
	rebuildDuration prometheus.Histogram
	rules           prometheus.Gauge
}

// NewMetrics creates dispatch metrics registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		// Labels: outcome (no_match, await_chord, invoke), handled (true, false)
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "keychord",
			Subsystem: "input",
			Name:      "dispatches_total",
			Help:      "Key presses dispatched by outcome",
		}, []string{"outcome", "handled"}),

		rebuilds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "keychord",
			Subsystem: "input",
			Name:      "resolver_rebuilds_total",
			Help:      "Resolver index rebuilds",
		}),

		rebuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "keychord",
			Subsystem: "input",
			Name:      "resolver_rebuild_seconds",
			Help:      "Time to rebuild the resolver index",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),

		rules: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "keychord",
			Subsystem: "input",
			Name:      "rules",
			Help:      "Rules in the current resolver index",
		}),
	}
}

func (m *Metrics) observeDispatch(outcome Outcome, handled bool) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(outcome.String(), strconv.FormatBool(handled)).Inc()
}

func (m *Metrics) observeRebuild(d time.Duration, rules int) {
	if m == nil {
		return
	}
	m.rebuilds.Inc()
	m.rebuildDuration.Observe(d.Seconds())
	m.rules.Set(float64(rules))
}
