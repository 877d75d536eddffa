package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	bench "github.com/benchkit/benchrun"
	"github.com/benchkit/benchrun/exitcodes"
	"github.com/benchkit/benchrun/flags"
	"github.com/benchkit/benchrun/service"
	"github.com/benchkit/benchrun/types"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "benchrun"
	app.Usage = "Build Command Benchmarking Harness"
	app.Description = "benchrun times configured build commands across repository checkouts and reports the averages as CSV"
	app.Flags = flags.Flags
	app.Action = run

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error("Benchmark run failed", "err", err)
		os.Exit(exitCode(err))
	}
}

func run(ctx *cli.Context) error {
	logger, err := newLogger(ctx.String(flags.LogLevel.Name))
	if err != nil {
		return err
	}
	log.SetDefault(logger)

	cfg, err := bench.NewConfig(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	svc := service.New(cfg.MetricsAddr, logger)
	svc.Start(ctx.Context)
	defer svc.Shutdown()

	benchService, err := bench.New(cfg, Version)
	if err != nil {
		return fmt.Errorf("failed to create benchmark service: %w", err)
	}

	return benchService.Run(ctx.Context)
}

func newLogger(level string) (log.Logger, error) {
	logLevel, err := log.LvlFromString(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, logLevel, true)), nil
}

// exitCode distinguishes benchmark failures (a command exited non-zero or
// its output failed validation) from configuration and runtime errors.
func exitCode(err error) int {
	var processErr *types.ProcessError
	if errors.As(err, &processErr) || errors.Is(err, types.ErrValidation) {
		return exitcodes.BenchFailure
	}
	return exitcodes.RuntimeErr
}
