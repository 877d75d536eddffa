// Package exitcodes defines the standard exit codes used by benchrun.
package exitcodes

// Exit code constants used by the binary:
//
// * Success (0): the whole plan ran and validated
// * BenchFailure (1): a command exited non-zero or failed validation
// * RuntimeErr (2): configuration or runtime errors
const (
	Success      = 0
	BenchFailure = 1
	RuntimeErr   = 2
)
