package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchkit/benchrun/types"
)

func twoTestSuite(name string) types.TestSuite {
	return types.TestSuite{
		Name: name,
		Tests: []types.Test{
			{Name: "t1", Command: types.NewShellCommand("true")},
			{Name: "t2", Command: types.NewShellCommand("true")},
		},
	}
}

func makeRepo(t *testing.T, reposRoot, name string, subDirs ...string) {
	t.Helper()
	for _, sub := range subDirs {
		require.NoError(t, os.MkdirAll(filepath.Join(reposRoot, name, sub), 0o755))
	}
}

func TestNewRunner(t *testing.T) {
	validConfig := func(t *testing.T) Config {
		reposRoot := t.TempDir()
		makeRepo(t, reposRoot, "repo1", "sub1")
		return Config{
			Repos:       []types.RepoSpec{{Name: "repo1", SubDirectories: []string{"sub1"}}},
			ReposRoot:   reposRoot,
			Suites:      []types.TestSuite{twoTestSuite("suite")},
			Repetitions: 1,
			Log:         testLogger(),
		}
	}

	t.Run("accepts a valid config", func(t *testing.T) {
		runner, err := NewRunner(validConfig(t))

		require.NoError(t, err)
		assert.NotEmpty(t, runner.RunID())
	})

	t.Run("requires at least one repo", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Repos = nil

		_, err := NewRunner(cfg)

		require.ErrorIs(t, err, types.ErrInvariant)
	})

	t.Run("requires at least one suite", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Suites = nil

		_, err := NewRunner(cfg)

		require.ErrorIs(t, err, types.ErrInvariant)
	})

	t.Run("requires an existing repos root", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.ReposRoot = filepath.Join(cfg.ReposRoot, "does-not-exist")

		_, err := NewRunner(cfg)

		require.ErrorIs(t, err, types.ErrInvariant)
	})

	t.Run("requires at least one repetition", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Repetitions = 0

		_, err := NewRunner(cfg)

		require.ErrorIs(t, err, types.ErrInvariant)
	})
}

func TestRunnerRun(t *testing.T) {
	t.Run("produces one entry per repo sub-directory in declared order", func(t *testing.T) {
		reposRoot := t.TempDir()
		makeRepo(t, reposRoot, "repo1", "sub1", "sub2")

		runner, err := NewRunner(Config{
			Repos:       []types.RepoSpec{{Name: "repo1", SubDirectories: []string{"sub1", "sub2"}}},
			ReposRoot:   reposRoot,
			Suites:      []types.TestSuite{twoTestSuite("suite")},
			Repetitions: 3,
			Log:         testLogger(),
		})
		require.NoError(t, err)

		results, err := runner.Run(context.Background())

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "repo1/sub1", results[0].Name)
		assert.Equal(t, "repo1/sub2", results[1].Name)
		for _, repoResult := range results {
			require.Len(t, repoResult.TestSuiteResults, 1)
			suiteResult := repoResult.TestSuiteResults[0]
			assert.Equal(t, "suite", suiteResult.Name)
			require.Len(t, suiteResult.TestResults, 2)
			assert.Equal(t, "t1", suiteResult.TestResults[0].Name)
			assert.Equal(t, "t2", suiteResult.TestResults[1].Name)
		}
	})

	t.Run("preserves suite order within each entry", func(t *testing.T) {
		reposRoot := t.TempDir()
		makeRepo(t, reposRoot, "repo1", "sub1")

		runner, err := NewRunner(Config{
			Repos:       []types.RepoSpec{{Name: "repo1", SubDirectories: []string{"sub1"}}},
			ReposRoot:   reposRoot,
			Suites:      []types.TestSuite{twoTestSuite("alpha"), twoTestSuite("beta")},
			Repetitions: 1,
			Log:         testLogger(),
		})
		require.NoError(t, err)

		results, err := runner.Run(context.Background())

		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Len(t, results[0].TestSuiteResults, 2)
		assert.Equal(t, "alpha", results[0].TestSuiteResults[0].Name)
		assert.Equal(t, "beta", results[0].TestSuiteResults[1].Name)
	})

	t.Run("fails fast when a configured repo is missing", func(t *testing.T) {
		reposRoot := t.TempDir()
		makeRepo(t, reposRoot, "repo1", "sub1")

		runner, err := NewRunner(Config{
			Repos: []types.RepoSpec{
				{Name: "repo1", SubDirectories: []string{"sub1"}},
				{Name: "ghost", SubDirectories: []string{"sub1"}},
			},
			ReposRoot:   reposRoot,
			Suites:      []types.TestSuite{twoTestSuite("suite")},
			Repetitions: 1,
			Log:         testLogger(),
		})
		require.NoError(t, err)

		_, err = runner.Run(context.Background())

		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("a failing command aborts the whole run with context", func(t *testing.T) {
		reposRoot := t.TempDir()
		makeRepo(t, reposRoot, "repo1", "sub1")

		failing := types.TestSuite{
			Name:  "failing",
			Tests: []types.Test{{Name: "t1", Command: types.NewShellCommand("exit 7")}},
		}
		runner, err := NewRunner(Config{
			Repos:       []types.RepoSpec{{Name: "repo1", SubDirectories: []string{"sub1"}}},
			ReposRoot:   reposRoot,
			Suites:      []types.TestSuite{failing},
			Repetitions: 2,
			Log:         testLogger(),
		})
		require.NoError(t, err)

		_, err = runner.Run(context.Background())

		require.Error(t, err)
		var processErr *types.ProcessError
		require.ErrorAs(t, err, &processErr)
		assert.Contains(t, err.Error(), "repo1/sub1")
		assert.Contains(t, err.Error(), "repetition 0")
		assert.Contains(t, err.Error(), "suite failing")
		assert.Contains(t, err.Error(), "test t1")
	})
}
