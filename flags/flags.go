package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "BENCHRUN"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	Plan = &cli.StringFlag{
		Name:     "plan",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("PLAN"),
		Usage:    "Path to the benchmark plan file (eg. 'plan.yaml')",
	}
	ReposRoot = &cli.StringFlag{
		Name:     "repos-root",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("REPOS_ROOT"),
		Usage:    "Directory containing the repository checkouts to benchmark",
	}
	Output = &cli.StringFlag{
		Name:    "output",
		Value:   "repo_results.csv",
		EnvVars: prefixEnvVars("OUTPUT"),
		Usage:   "Path of the CSV results file",
	}
	Repetitions = &cli.IntFlag{
		Name:    "repetitions",
		Value:   1,
		EnvVars: prefixEnvVars("REPETITIONS"),
		Usage:   "Number of times to run each suite; durations are averaged",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Lowest log level that will be output",
	}
	MetricsAddr = &cli.StringFlag{
		Name:    "metrics-addr",
		Value:   "",
		EnvVars: prefixEnvVars("METRICS_ADDR"),
		Usage:   "Address to serve Prometheus metrics on (disabled when empty)",
	}
)

var requiredFlags = []cli.Flag{
	Plan,
	ReposRoot,
}

var optionalFlags = []cli.Flag{
	Output,
	Repetitions,
	LogLevel,
	MetricsAddr,
}

// Flags contains the list of configuration options available to the binary.
var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

// CheckRequired verifies that every required flag is set.
func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
