package bench

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/benchkit/benchrun/flags"
)

// Config carries everything one benchmark invocation needs.
type Config struct {
	PlanFile    string
	ReposRoot   string
	Output      string
	Repetitions int
	MetricsAddr string

	Log log.Logger
}

// NewConfig creates a new Config instance from CLI flags.
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	planFile := ctx.String(flags.Plan.Name)
	reposRoot := ctx.String(flags.ReposRoot.Name)
	output := ctx.String(flags.Output.Name)
	repetitions := ctx.Int(flags.Repetitions.Name)

	if planFile == "" {
		return nil, errors.New("plan file is required")
	}
	if reposRoot == "" {
		return nil, errors.New("repos root is required")
	}
	if output == "" {
		return nil, errors.New("output path is required")
	}
	if repetitions < 1 {
		return nil, fmt.Errorf("repetitions must be at least 1, got %d", repetitions)
	}

	absPlanFile, err := filepath.Abs(planFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for plan file: %w", err)
	}
	absReposRoot, err := filepath.Abs(reposRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for repos root: %w", err)
	}
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for output: %w", err)
	}

	return &Config{
		PlanFile:    absPlanFile,
		ReposRoot:   absReposRoot,
		Output:      absOutput,
		Repetitions: repetitions,
		MetricsAddr: ctx.String(flags.MetricsAddr.Name),
		Log:         logger,
	}, nil
}
