package metrics

import "github.com/prometheus/client_golang/prometheus"

// Command Prometheus metrics, labelled by wire command name.
var (
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ftwire",
			Name:      "commands_total",
			Help:      "Total number of search commands sent",
		},
		[]string{"command", "status"}, // status: "ok" / "error"
	)

	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ftwire",
			Name:      "command_duration_seconds",
			Help:      "Search command round-trip duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"command"},
	)

	BuildErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ftwire",
			Name:      "build_errors_total",
			Help:      "Commands rejected before sending because arguments could not be built",
		},
		[]string{"command"},
	)
)

var cmdMetricsRegistered bool

// RegisterCommandMetrics registers Prometheus command metrics. Must be called once from main.
func RegisterCommandMetrics() {
	if cmdMetricsRegistered {
		return
	}
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(CommandDuration)
	prometheus.MustRegister(BuildErrorsTotal)
	cmdMetricsRegistered = true
}

// ObserveCommand records one completed round trip.
func ObserveCommand(command string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	CommandsTotal.WithLabelValues(command, status).Inc()
	CommandDuration.WithLabelValues(command).Observe(seconds)
}

// ObserveBuildError counts a command rejected before sending.
func ObserveBuildError(command string) {
	if command == "" {
		command = "unknown"
	}
	BuildErrorsTotal.WithLabelValues(command).Inc()
}
