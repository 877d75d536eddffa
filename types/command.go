package types

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"

	"github.com/benchkit/benchrun/metrics"
)

// Command is a unit of executable work bound to a working directory, with
// optional validators over its captured output.
//
// All override methods are pure: they return a new command and leave the
// receiver (and every previously returned copy) untouched. Working directory
// and environment are passed explicitly to the spawned process, never applied
// to the harness's own process state.
type Command interface {
	// Run executes the command and returns its captured stdout.
	Run(ctx context.Context, logger log.Logger, env Env) (string, error)

	// Validate checks output, as returned by Run, against the command's
	// validators in attachment order. It fails fast on the first failing
	// validator and logs the raw output for diagnosis.
	Validate(logger log.Logger, output string) error

	// WithWorkingDirectory returns a copy of the command bound to dir.
	WithWorkingDirectory(dir string) Command

	// WithValidators returns a copy with checks appended after any
	// existing ones.
	WithValidators(checks ...Validator) Command

	// WorkingDirectory reports the directory the command will run in.
	WorkingDirectory() string

	fmt.Stringer
}

// defaultWorkingDirectory is the harness's current directory at command
// construction time.
func defaultWorkingDirectory() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func validateOutput(logger log.Logger, checks []Validator, output string) error {
	// Build tools colorize their output; validators match on plain text.
	clean := stripansi.Strip(output)
	for _, check := range checks {
		if check.Validate(clean) {
			continue
		}
		logger.Error("Validation failed", "validator", check.String())
		logger.Error("Command output", "output", output)
		metrics.RecordValidationFailure(check.String())
		return fmt.Errorf("%w: %s", ErrValidation, check)
	}
	return nil
}

// NullCommand is a no-op command producing empty output. It is the default
// for unset test setup commands.
type NullCommand struct {
	workDir string
	checks  []Validator
}

var _ Command = &NullCommand{}

func NewNullCommand() *NullCommand {
	return &NullCommand{workDir: defaultWorkingDirectory()}
}

func (c *NullCommand) Run(ctx context.Context, logger log.Logger, env Env) (string, error) {
	logger.Debug("Running command", "cmd", c.String())
	return "", nil
}

func (c *NullCommand) Validate(logger log.Logger, output string) error {
	return validateOutput(logger, c.checks, output)
}

func (c *NullCommand) WithWorkingDirectory(dir string) Command {
	return &NullCommand{workDir: dir, checks: slices.Clone(c.checks)}
}

func (c *NullCommand) WithValidators(checks ...Validator) Command {
	return &NullCommand{
		workDir: c.workDir,
		checks:  append(slices.Clone(c.checks), checks...),
	}
}

func (c *NullCommand) WorkingDirectory() string {
	return c.workDir
}

func (c *NullCommand) String() string {
	return c.workDir + " > NullCommand"
}

// ProcessCommand spawns an external process with a fixed argument vector,
// waits for it, and captures its stdout. A non-zero exit status is an error
// carrying the argument vector and both captured streams.
type ProcessCommand struct {
	args    []string
	workDir string
	checks  []Validator
}

var _ Command = &ProcessCommand{}

func NewProcessCommand(args ...string) *ProcessCommand {
	return &ProcessCommand{
		args:    slices.Clone(args),
		workDir: defaultWorkingDirectory(),
	}
}

func (c *ProcessCommand) Run(ctx context.Context, logger log.Logger, env Env) (string, error) {
	logger.Info("Running command", "cmd", c.String())

	if len(c.args) == 0 {
		return "", fmt.Errorf("%w: process command has no arguments", ErrInvariant)
	}

	cmd := exec.CommandContext(ctx, c.args[0], c.args[1:]...)
	cmd.Dir = c.workDir
	cmd.Env = env.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.Error("Command failed", "cmd", c.String(), "err", err, "stderr", stderr.String())
		metrics.RecordCommand("fail")
		return "", &ProcessError{
			Args:   slices.Clone(c.args),
			Stdout: stdout.String(),
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	metrics.RecordCommand("pass")
	return stdout.String(), nil
}

func (c *ProcessCommand) Validate(logger log.Logger, output string) error {
	return validateOutput(logger, c.checks, output)
}

func (c *ProcessCommand) WithWorkingDirectory(dir string) Command {
	return &ProcessCommand{
		args:    slices.Clone(c.args),
		workDir: dir,
		checks:  slices.Clone(c.checks),
	}
}

func (c *ProcessCommand) WithValidators(checks ...Validator) Command {
	return &ProcessCommand{
		args:    slices.Clone(c.args),
		workDir: c.workDir,
		checks:  append(slices.Clone(c.checks), checks...),
	}
}

func (c *ProcessCommand) WorkingDirectory() string {
	return c.workDir
}

func (c *ProcessCommand) String() string {
	return c.workDir + " > " + strings.Join(c.args, " ")
}

// shellArgs are the fixed interpreter arguments prefixed to every shell
// script: non-interactive, fail on errors and on unset variables.
var shellArgs = []string{"sh", "-e", "-u", "-c"}

// ShellCommand runs a script through the system shell. It follows the
// ProcessCommand contract, with the interpreter and its flags prefixed ahead
// of the script text.
type ShellCommand struct {
	proc   *ProcessCommand
	script string
}

var _ Command = &ShellCommand{}

func NewShellCommand(script string) *ShellCommand {
	args := append(slices.Clone(shellArgs), script)
	return &ShellCommand{
		proc:   NewProcessCommand(args...),
		script: script,
	}
}

func (c *ShellCommand) Run(ctx context.Context, logger log.Logger, env Env) (string, error) {
	return c.proc.Run(ctx, logger, env)
}

func (c *ShellCommand) Validate(logger log.Logger, output string) error {
	return c.proc.Validate(logger, output)
}

func (c *ShellCommand) WithWorkingDirectory(dir string) Command {
	return &ShellCommand{
		proc:   c.proc.WithWorkingDirectory(dir).(*ProcessCommand),
		script: c.script,
	}
}

func (c *ShellCommand) WithValidators(checks ...Validator) Command {
	return &ShellCommand{
		proc:   c.proc.WithValidators(checks...).(*ProcessCommand),
		script: c.script,
	}
}

func (c *ShellCommand) WorkingDirectory() string {
	return c.proc.WorkingDirectory()
}

func (c *ShellCommand) String() string {
	return c.proc.WorkingDirectory() + " > shell: " + c.script
}

// Commands runs an ordered, fixed sequence of child commands to completion.
// Each child is run and then validated before the next one starts; the first
// failure aborts the remainder and propagates.
type Commands struct {
	children []Command
	workDir  string
}

var _ Command = &Commands{}

func NewCommands(children ...Command) *Commands {
	return &Commands{
		children: slices.Clone(children),
		workDir:  defaultWorkingDirectory(),
	}
}

func (c *Commands) Run(ctx context.Context, logger log.Logger, env Env) (string, error) {
	logger.Debug("Running command", "cmd", c.String())
	for _, child := range c.children {
		output, err := child.Run(ctx, logger, env)
		if err != nil {
			return "", err
		}
		if err := child.Validate(logger, output); err != nil {
			return "", err
		}
	}
	return "", nil
}

// Validate is a no-op: every child validates its own output during Run.
func (c *Commands) Validate(logger log.Logger, output string) error {
	return nil
}

// WithWorkingDirectory retargets every child to dir.
func (c *Commands) WithWorkingDirectory(dir string) Command {
	children := make([]Command, len(c.children))
	for i, child := range c.children {
		children[i] = child.WithWorkingDirectory(dir)
	}
	return &Commands{children: children, workDir: dir}
}

// WithValidators appends checks to every child.
func (c *Commands) WithValidators(checks ...Validator) Command {
	children := make([]Command, len(c.children))
	for i, child := range c.children {
		children[i] = child.WithValidators(checks...)
	}
	return &Commands{children: children, workDir: c.workDir}
}

func (c *Commands) WorkingDirectory() string {
	return c.workDir
}

func (c *Commands) String() string {
	return fmt.Sprintf("Composite(%d)", len(c.children))
}
