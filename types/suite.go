package types

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
)

// TestSuiteResult holds one result per contained test, in test order.
type TestSuiteResult struct {
	Name        string
	TestResults []TestResult
}

// TestSuite is an ordered group of tests sharing a set of environment
// variable overrides. The overrides are passed to every spawned process for
// the duration of the suite's run; the harness's own environment is never
// modified, so nothing can leak past the call on any exit path.
type TestSuite struct {
	Name  string
	Tests []Test
	Env   Env
}

// Run executes every test in order against the same repo root and working
// directory. The first test failure aborts the suite: later tests are
// skipped, not marked failed, and the error propagates annotated with the
// suite's name.
func (s TestSuite) Run(ctx context.Context, logger log.Logger, repoRoot, workDir string) (TestSuiteResult, error) {
	logger.Info("Running suite", "suite", s.Name, "tests", len(s.Tests), "workDir", workDir)

	results := make([]TestResult, 0, len(s.Tests))
	for _, test := range s.Tests {
		result, err := test.Run(ctx, logger, repoRoot, workDir, s.Env)
		if err != nil {
			logger.Error("Suite failed", "suite", s.Name)
			return TestSuiteResult{}, fmt.Errorf("suite %s: %w", s.Name, err)
		}
		results = append(results, result)
	}

	return TestSuiteResult{Name: s.Name, TestResults: results}, nil
}
