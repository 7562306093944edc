package command

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Execution statuses used as metric labels.
const (
	statusOK      = "ok"
	statusError   = "error"
	statusUnknown = "unknown"
)

// Metrics records command executions. A nil *Metrics records nothing.
type Metrics struct {
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates execution metrics registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		// Labels: command, status (ok, error, unknown)
		executions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "keychord",
			Subsystem: "command",
			Name:      "executions_total",
			Help:      "Command executions by status",
		}, []string{"command", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "keychord",
			Subsystem: "command",
			Name:      "execution_seconds",
			Help:      "Command execution time",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"command"}),
	}
}

func (m *Metrics) observe(command, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(command, status).Inc()
	m.duration.WithLabelValues(command).Observe(d.Seconds())
}
