// Package bench wires a benchmark plan into a run: it loads the plan through
// the registry, executes it with the runner, and reports the results as a
// console table and a CSV file.
package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/benchkit/benchrun/metrics"
	"github.com/benchkit/benchrun/registry"
	"github.com/benchkit/benchrun/reporting"
	"github.com/benchkit/benchrun/runner"
)

// Service runs one benchmark invocation end to end.
type Service struct {
	config   *Config
	version  string
	registry *registry.Registry
	runner   *runner.Runner
}

// New loads the benchmark plan and prepares the runner.
func New(config *Config, version string) (*Service, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating benchmark service",
		"plan", config.PlanFile,
		"reposRoot", config.ReposRoot,
		"repetitions", config.Repetitions)

	reg, err := registry.NewRegistry(registry.Config{
		Log:      config.Log,
		PlanFile: config.PlanFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	benchRunner, err := runner.NewRunner(runner.Config{
		Repos:       reg.Repos(),
		ReposRoot:   config.ReposRoot,
		Suites:      reg.Suites(),
		Repetitions: config.Repetitions,
		Log:         config.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Service{
		config:   config,
		version:  version,
		registry: reg,
		runner:   benchRunner,
	}, nil
}

// Run executes the whole plan and writes the CSV report. A failure anywhere
// aborts the run and no report is written.
func (s *Service) Run(ctx context.Context) error {
	start := time.Now()
	s.config.Log.Info("Starting benchrun", "version", s.version, "run_id", s.runner.RunID())

	results, err := s.runner.Run(ctx)
	if err != nil {
		metrics.RecordError("benchmark run failed")
		metrics.RecordRun(s.runner.RunID(), "fail", time.Since(start))
		return err
	}

	if err := reporting.RenderTable(os.Stdout, results); err != nil {
		return err
	}
	if err := reporting.WriteCSV(results, s.config.Output); err != nil {
		return err
	}
	s.config.Log.Info("Wrote results", "path", s.config.Output)

	metrics.RecordRun(s.runner.RunID(), "pass", time.Since(start))
	s.config.Log.Info("Benchrun finished", "run_id", s.runner.RunID(), "duration", time.Since(start))
	return nil
}
