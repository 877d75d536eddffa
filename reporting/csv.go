// Package reporting flattens benchmark results into tabular form: a CSV
// file for downstream analysis and a console table for the operator.
package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/benchkit/benchrun/runner"
	"github.com/benchkit/benchrun/types"
)

// WriteCSV writes one header row plus one data row per benchmarked repo
// sub-directory:
//
//	repo            | <suite>_<test>  | ...
//	<repo>/<subdir> | time in seconds | ...
//
// Every entry must share the first entry's suite/test schema; a mismatch
// would silently misalign columns, so it is rejected instead.
func WriteCSV(results []runner.RepoResults, path string) error {
	header, rows, err := flatten(results)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write results header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write results rows: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close results file: %w", err)
	}
	return nil
}

func flatten(results []runner.RepoResults) (header []string, rows [][]string, err error) {
	if len(results) == 0 {
		return nil, nil, fmt.Errorf("%w: no results to report", types.ErrInvariant)
	}

	schema := columns(results[0])
	header = append([]string{"repo"}, schema...)

	rows = make([][]string, 0, len(results))
	for _, repoResult := range results {
		if cols := columns(repoResult); !slices.Equal(cols, schema) {
			return nil, nil, fmt.Errorf("%w: result schema for %s does not match %s: %v != %v",
				types.ErrInvariant, repoResult.Name, results[0].Name, cols, schema)
		}

		row := make([]string, 0, len(schema)+1)
		row = append(row, repoResult.Name)
		for _, suiteResult := range repoResult.TestSuiteResults {
			for _, testResult := range suiteResult.TestResults {
				row = append(row, strconv.FormatFloat(testResult.Duration.Seconds(), 'f', -1, 64))
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// columns flattens one entry's suite/test names into "<suite>_<test>"
// column labels, in order.
func columns(repoResult runner.RepoResults) []string {
	var cols []string
	for _, suiteResult := range repoResult.TestSuiteResults {
		for _, testResult := range suiteResult.TestResults {
			cols = append(cols, suiteResult.Name+"_"+testResult.Name)
		}
	}
	return cols
}
