package metrics

import (
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "benchrun"
)

var (
	Debug bool = false

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "commands_total",
		Help:      "Count of executed external commands",
	}, []string{
		"result",
	})

	validationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "validation_failures_total",
		Help:      "Count of command output validation failures",
	}, []string{
		"validator",
	})

	testDurationSeconds = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "test_duration_seconds",
		Help:      "Mean measured duration per benchmark test",
	}, []string{
		"run_id",
		"repo",
		"suite",
		"test",
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "runs_total",
		Help:      "Count of benchmark runs",
	}, []string{
		"result",
	})

	runDurationSeconds = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of the whole benchmark run",
	}, []string{
		"run_id",
		"result",
	})
)

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

func RecordCommand(result string) {
	if Debug {
		log.Debug("metric inc",
			"m", "commands_total",
			"result", result,
		)
	}
	commandsTotal.WithLabelValues(result).Inc()
}

func RecordValidationFailure(validator string) {
	if Debug {
		log.Debug("metric inc",
			"m", "validation_failures_total",
			"validator", validator,
		)
	}
	validationFailuresTotal.WithLabelValues(validator).Inc()
}

func RecordTestDuration(runID string, repo string, suite string, test string, duration time.Duration) {
	testDurationSeconds.WithLabelValues(runID, repo, suite, test).Set(duration.Seconds())
}

func RecordRun(runID string, result string, duration time.Duration) {
	runsTotal.WithLabelValues(result).Inc()
	runDurationSeconds.WithLabelValues(runID, result).Set(duration.Seconds())
}
