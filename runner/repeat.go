package runner

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/benchkit/benchrun/types"
)

// Repeat runs a suite the given number of times and merges same-named test
// results into a single result carrying the mean duration. Merged results
// keep the order in which test names were first seen, which equals the first
// repetition's order since a failing repetition aborts the whole operation
// and discards everything already completed.
//
// A suite-name change between repetitions, or a test appearing in some
// repetitions but not all, is a programming error and fails with
// types.ErrInvariant.
func Repeat(logger log.Logger, run func(repetition int) (types.TestSuiteResult, error), repetitions int) (types.TestSuiteResult, error) {
	if repetitions < 1 {
		return types.TestSuiteResult{}, fmt.Errorf("%w: repetitions must be at least 1, got %d", types.ErrInvariant, repetitions)
	}

	var (
		suiteName string
		first     = true
		order     []string
		buckets   = make(map[string][]types.TestResult)
	)

	for repetition := 0; repetition < repetitions; repetition++ {
		logger.Info("Starting repetition", "repetition", repetition, "of", repetitions)

		result, err := run(repetition)
		if err != nil {
			logger.Error("Repetition failed", "repetition", repetition)
			return types.TestSuiteResult{}, fmt.Errorf("repetition %d: %w", repetition, err)
		}

		if first {
			suiteName = result.Name
			first = false
		} else if suiteName != result.Name {
			return types.TestSuiteResult{}, fmt.Errorf("%w: suite name changed between repetitions: %q != %q",
				types.ErrInvariant, suiteName, result.Name)
		}

		for _, testResult := range result.TestResults {
			if _, seen := buckets[testResult.Name]; !seen {
				order = append(order, testResult.Name)
			}
			buckets[testResult.Name] = append(buckets[testResult.Name], testResult)
		}
	}

	merged := make([]types.TestResult, 0, len(order))
	for _, name := range order {
		results := buckets[name]
		if len(results) != repetitions {
			return types.TestSuiteResult{}, fmt.Errorf("%w: test %q appeared in %d of %d repetitions",
				types.ErrInvariant, name, len(results), repetitions)
		}

		var total time.Duration
		for _, result := range results {
			total += result.Duration
		}
		// Averaging destroys command identity, so merged results carry
		// no captured output.
		merged = append(merged, types.TestResult{
			Name:     name,
			Duration: total / time.Duration(repetitions),
		})
	}

	return types.TestSuiteResult{Name: suiteName, TestResults: merged}, nil
}
