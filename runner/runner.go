package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/benchkit/benchrun/metrics"
	"github.com/benchkit/benchrun/types"
)

// RepoResults aggregates the suite results for one benchmarked repository
// sub-directory. Name is "<repo>/<sub-directory>".
type RepoResults struct {
	Name             string
	TestSuiteResults []types.TestSuiteResult
}

// Config holds everything a Runner needs for one benchmark run.
type Config struct {
	Repos       []types.RepoSpec
	ReposRoot   string
	Suites      []types.TestSuite
	Repetitions int
	Log         log.Logger
}

// Runner executes every configured suite against every configured repository
// sub-directory, strictly sequentially. Benchmarked builds contend for the
// repository working tree, so at most one command ever runs at a time.
type Runner struct {
	cfg   Config
	runID string
}

// NewRunner validates the configuration and creates a runner. Empty repo or
// suite lists, a missing repos root, or a repetition count below one are
// configuration errors and fail immediately.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if len(cfg.Repos) == 0 {
		return nil, fmt.Errorf("%w: at least one repo is required", types.ErrInvariant)
	}
	if len(cfg.Suites) == 0 {
		return nil, fmt.Errorf("%w: at least one suite is required", types.ErrInvariant)
	}
	if cfg.Repetitions < 1 {
		return nil, fmt.Errorf("%w: repetitions must be at least 1, got %d", types.ErrInvariant, cfg.Repetitions)
	}
	info, err := os.Stat(cfg.ReposRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: repos root %s: %v", types.ErrInvariant, cfg.ReposRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: repos root %s is not a directory", types.ErrInvariant, cfg.ReposRoot)
	}

	return &Runner{
		cfg:   cfg,
		runID: uuid.New().String(),
	}, nil
}

// RunID identifies this runner's benchmark run in logs and metrics.
func (r *Runner) RunID() string {
	return r.runID
}

// Run benchmarks every repo sub-directory against every suite, in declared
// order, and returns one RepoResults entry per sub-directory. Any failure
// anywhere aborts the entire run; there is no continue-on-error mode and no
// partial result.
func (r *Runner) Run(ctx context.Context) ([]RepoResults, error) {
	start := time.Now()
	r.cfg.Log.Info("Starting benchmark run",
		"run_id", r.runID,
		"repos", len(r.cfg.Repos),
		"suites", len(r.cfg.Suites),
		"repetitions", r.cfg.Repetitions)

	rootedRepos := make([]types.RootedRepo, 0, len(r.cfg.Repos))
	for _, repo := range r.cfg.Repos {
		rooted, err := repo.WithBaseRoot(r.cfg.ReposRoot)
		if err != nil {
			return nil, err
		}
		rootedRepos = append(rootedRepos, rooted)
	}

	var repoResults []RepoResults
	for _, repo := range rootedRepos {
		for _, subDir := range repo.SubDirectories {
			name := displayName(r.cfg.ReposRoot, repo, subDir)
			r.cfg.Log.Info("Benchmarking", "target", name)

			suiteResults := make([]types.TestSuiteResult, 0, len(r.cfg.Suites))
			for _, suite := range r.cfg.Suites {
				merged, err := Repeat(r.cfg.Log, func(int) (types.TestSuiteResult, error) {
					return suite.Run(ctx, r.cfg.Log, repo.Root, subDir)
				}, r.cfg.Repetitions)
				if err != nil {
					return nil, fmt.Errorf("benchmarking %s: %w", name, err)
				}

				for _, testResult := range merged.TestResults {
					metrics.RecordTestDuration(r.runID, name, merged.Name, testResult.Name, testResult.Duration)
				}
				suiteResults = append(suiteResults, merged)
			}

			repoResults = append(repoResults, RepoResults{
				Name:             name,
				TestSuiteResults: suiteResults,
			})
		}
	}

	r.cfg.Log.Info("Benchmark run finished", "run_id", r.runID, "duration", time.Since(start))
	return repoResults, nil
}

func displayName(reposRoot string, repo types.RootedRepo, subDir string) string {
	name, err := filepath.Rel(reposRoot, subDir)
	if err != nil {
		return filepath.Join(repo.Spec.Name, filepath.Base(subDir))
	}
	return filepath.ToSlash(name)
}
