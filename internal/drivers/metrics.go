package drivers

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	driverRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qchemd",
			Subsystem: "driver",
			Name:      "runs_total",
			Help:      "Total number of driver runs by outcome",
		},
		[]string{"driver", "status"},
	)

	driverRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "qchemd",
			Subsystem: "driver",
			Name:      "run_duration_seconds",
			Help:      "Duration of driver runs in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"driver"},
	)
)

func init() {
	prometheus.MustRegister(driverRunsTotal, driverRunDuration)
}

// statusLabel buckets err into a low-cardinality outcome label.
func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsDependencyUnavailable(err):
		return "dependency_unavailable"
	case IsConfigError(err):
		return "config_error"
	case IsLookup(err):
		return "lookup_error"
	case IsUnknownDriver(err):
		return "unknown_driver"
	default:
		return "error"
	}
}
