package types

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// TestResult records one measured invocation of a test's command.
type TestResult struct {
	Name     string
	Duration time.Duration
	// Output is the captured stdout of the measured command, retained so
	// callers can inspect it (environment echo tests, for example). It is
	// empty for averaged results, since no single invocation represents
	// an average.
	Output string
}

// Test binds a named scenario to a repo-level setup command, a working
// directory setup command, and the one command whose wall-clock time is
// measured. A Test is static configuration: Run may be invoked many times
// against different directories, and setup commands are re-bound to their
// target directory on every call so runs never share state.
type Test struct {
	Name       string
	RootSetup  Command // defaults to NullCommand
	LocalSetup Command // defaults to NullCommand
	Command    Command // the measured command, required
}

// Run executes the test lifecycle: root setup, local setup, then exactly one
// timed invocation of the measured command followed by its validation. Empty
// directory arguments default to the harness's current directory. Any
// failure is annotated with the test's name and propagated; a test never
// swallows a failure.
func (t Test) Run(ctx context.Context, logger log.Logger, repoRoot, workDir string, env Env) (TestResult, error) {
	logger.Info("Running test", "test", t.Name, "workDir", workDir)

	if repoRoot == "" {
		repoRoot = defaultWorkingDirectory()
	}
	if workDir == "" {
		workDir = defaultWorkingDirectory()
	}

	result, err := t.run(ctx, logger, repoRoot, workDir, env)
	if err != nil {
		logger.Error("Test failed", "test", t.Name)
		return TestResult{}, fmt.Errorf("test %s: %w", t.Name, err)
	}

	logger.Info("Test finished", "test", t.Name, "duration", result.Duration)
	return result, nil
}

func (t Test) run(ctx context.Context, logger log.Logger, repoRoot, workDir string, env Env) (TestResult, error) {
	if t.Command == nil {
		return TestResult{}, fmt.Errorf("%w: test has no command", ErrInvariant)
	}

	rootSetup := t.rootSetup().WithWorkingDirectory(repoRoot)
	output, err := rootSetup.Run(ctx, logger, env)
	if err != nil {
		return TestResult{}, err
	}
	if err := rootSetup.Validate(logger, output); err != nil {
		return TestResult{}, err
	}

	localSetup := t.localSetup().WithWorkingDirectory(workDir)
	output, err = localSetup.Run(ctx, logger, env)
	if err != nil {
		return TestResult{}, err
	}
	if err := localSetup.Validate(logger, output); err != nil {
		return TestResult{}, err
	}

	command := t.Command.WithWorkingDirectory(workDir)

	start := time.Now()
	output, err = command.Run(ctx, logger, env)
	elapsed := time.Since(start)
	if err != nil {
		return TestResult{}, err
	}
	if err := command.Validate(logger, output); err != nil {
		return TestResult{}, err
	}

	return TestResult{Name: t.Name, Duration: elapsed, Output: output}, nil
}

func (t Test) rootSetup() Command {
	if t.RootSetup == nil {
		return NewNullCommand()
	}
	return t.RootSetup
}

func (t Test) localSetup() Command {
	if t.LocalSetup == nil {
		return NewNullCommand()
	}
	return t.LocalSetup
}
