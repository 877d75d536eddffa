package types

import (
	"context"
	"slices"

	"github.com/ethereum/go-ethereum/log"
)

func testLogger() log.Logger {
	return log.NewLogger(log.DiscardHandler())
}

// fakeCommand records its invocations. Counters are shared across clones so
// tests can observe runs made through WithWorkingDirectory copies.
type fakeCommand struct {
	name    string
	output  string
	err     error
	workDir string
	checks  []Validator

	runs    *int
	runDirs *[]string
	runEnvs *[]Env
	seq     *[]string // shared across commands to record execution order
}

var _ Command = &fakeCommand{}

func newFakeCommand(name string, seq *[]string) *fakeCommand {
	return &fakeCommand{
		name:    name,
		runs:    new(int),
		runDirs: &[]string{},
		runEnvs: &[]Env{},
		seq:     seq,
	}
}

func (c *fakeCommand) Run(ctx context.Context, logger log.Logger, env Env) (string, error) {
	*c.runs++
	*c.runDirs = append(*c.runDirs, c.workDir)
	*c.runEnvs = append(*c.runEnvs, env)
	if c.seq != nil {
		*c.seq = append(*c.seq, c.name)
	}
	if c.err != nil {
		return "", c.err
	}
	return c.output, nil
}

func (c *fakeCommand) Validate(logger log.Logger, output string) error {
	return validateOutput(logger, c.checks, output)
}

func (c *fakeCommand) WithWorkingDirectory(dir string) Command {
	clone := *c
	clone.workDir = dir
	clone.checks = slices.Clone(c.checks)
	return &clone
}

func (c *fakeCommand) WithValidators(checks ...Validator) Command {
	clone := *c
	clone.checks = append(slices.Clone(c.checks), checks...)
	return &clone
}

func (c *fakeCommand) WorkingDirectory() string {
	return c.workDir
}

func (c *fakeCommand) String() string {
	return c.workDir + " > fake:" + c.name
}
