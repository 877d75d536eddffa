package reporting

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchkit/benchrun/runner"
	"github.com/benchkit/benchrun/types"
)

func sampleResults() []runner.RepoResults {
	return []runner.RepoResults{
		{
			Name: "repo1/sub1",
			TestSuiteResults: []types.TestSuiteResult{
				{
					Name: "cache",
					TestResults: []types.TestResult{
						{Name: "clean_build", Duration: 1500 * time.Millisecond},
						{Name: "incremental_build", Duration: 250 * time.Millisecond},
					},
				},
				{
					Name: "baseline",
					TestResults: []types.TestResult{
						{Name: "clean_build", Duration: 3 * time.Second},
					},
				},
			},
		},
		{
			Name: "repo1/sub2",
			TestSuiteResults: []types.TestSuiteResult{
				{
					Name: "cache",
					TestResults: []types.TestResult{
						{Name: "clean_build", Duration: 2 * time.Second},
						{Name: "incremental_build", Duration: 500 * time.Millisecond},
					},
				},
				{
					Name: "baseline",
					TestResults: []types.TestResult{
						{Name: "clean_build", Duration: 4 * time.Second},
					},
				},
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Run("writes one column per suite/test and one row per repo", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.csv")
		require.NoError(t, WriteCSV(sampleResults(), path))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, []string{
			"repo",
			"cache_clean_build",
			"cache_incremental_build",
			"baseline_clean_build",
		}, records[0])
		assert.Equal(t, []string{"repo1/sub1", "1.5", "0.25", "3"}, records[1])
		assert.Equal(t, []string{"repo1/sub2", "2", "0.5", "4"}, records[2])
	})

	t.Run("rejects empty results", func(t *testing.T) {
		err := WriteCSV(nil, filepath.Join(t.TempDir(), "results.csv"))
		require.ErrorIs(t, err, types.ErrInvariant)
	})

	t.Run("rejects entries with mismatched schemas", func(t *testing.T) {
		results := sampleResults()
		results[1].TestSuiteResults = results[1].TestSuiteResults[:1]

		path := filepath.Join(t.TempDir(), "results.csv")
		err := WriteCSV(results, path)
		require.ErrorIs(t, err, types.ErrInvariant)
		assert.ErrorContains(t, err, "repo1/sub2")
		assert.NoFileExists(t, path, "nothing should be written on a schema mismatch")
	})
}

func TestRenderTable(t *testing.T) {
	t.Run("renders every repo with durations in seconds", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderTable(&buf, sampleResults()))

		out := buf.String()
		assert.Contains(t, out, "Benchmark Results")
		assert.Contains(t, out, "repo1/sub1")
		assert.Contains(t, out, "repo1/sub2")
		assert.Contains(t, strings.ToUpper(out), "CACHE_CLEAN_BUILD")
		assert.Contains(t, out, "1.5s")
		assert.Contains(t, out, "0.25s")
	})

	t.Run("rejects empty results", func(t *testing.T) {
		var buf bytes.Buffer
		require.ErrorIs(t, RenderTable(&buf, nil), types.ErrInvariant)
	})
}
