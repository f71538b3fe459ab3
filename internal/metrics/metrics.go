package metrics

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	processRunning = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "procwatch",
		Name:      "process_running",
		Help:      "Whether the supervised process is currently running (1=running, 0=exited).",
	}, []string{"job"})

	processStarts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procwatch",
		Name:      "process_starts_total",
		Help:      "Total number of processes launched.",
	}, []string{"job"})

	startFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procwatch",
		Name:      "start_failures_total",
		Help:      "Total number of launch attempts that failed before a handle was produced.",
	}, []string{"job"})

	terminations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "procwatch",
		Name:      "terminations_total",
		Help:      "Kill escalation outcomes by the action that confirmed death.",
	}, []string{"job", "outcome"})

	supervisedSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "procwatch",
		Name:      "process_runtime_seconds",
		Help:      "Wall-clock lifetime of supervised processes in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 4, 10),
	}, []string{"job"})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "procwatch",
		Name:      "build_info",
		Help:      "Build metadata for the running procwatch binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(processRunning, processStarts, startFailures, terminations, supervisedSeconds, buildInfo)
}

// Registry returns the Prometheus registry containing all procwatch metrics.
func Registry() *prometheus.Registry {
	return registry
}

// ObserveStart records a successful process launch.
func ObserveStart(job string) {
	if job == "" {
		job = "unknown"
	}
	processStarts.WithLabelValues(job).Inc()
	processRunning.WithLabelValues(job).Set(1)
}

// ObserveStartFailure records a launch attempt that produced no handle.
func ObserveStartFailure(job string) {
	if job == "" {
		job = "unknown"
	}
	startFailures.WithLabelValues(job).Inc()
}

// ObserveExit records a reaped process and its supervised lifetime.
func ObserveExit(job string, lifetime time.Duration) {
	if job == "" {
		job = "unknown"
	}
	processRunning.WithLabelValues(job).Set(0)
	if lifetime > 0 {
		supervisedSeconds.WithLabelValues(job).Observe(lifetime.Seconds())
	}
}

// ObserveTermination records the outcome of a kill escalation run. Outcome
// is "confirmed" when the process was verified dead and "unconfirmed" when
// the sequence was exhausted without confirmation.
func ObserveTermination(job string, confirmed bool) {
	if job == "" {
		job = "unknown"
	}
	outcome := "confirmed"
	if !confirmed {
		outcome = "unconfirmed"
	}
	terminations.WithLabelValues(job, outcome).Inc()
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}
