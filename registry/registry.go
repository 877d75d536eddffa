// Package registry loads benchmark plans. A plan is a YAML file declaring
// the repositories to benchmark, a set of named reusable commands, and the
// test suites that bind those commands into measured scenarios.
package registry

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"

	"github.com/benchkit/benchrun/types"
)

// Registry holds the repos and suites resolved from a benchmark plan.
type Registry struct {
	config Config
	repos  []types.RepoSpec
	suites []types.TestSuite
	mu     sync.RWMutex
}

// Config contains registry configuration.
type Config struct {
	Log      log.Logger
	PlanFile string
}

// NewRegistry loads and validates the plan file.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.PlanFile == "" {
		return nil, fmt.Errorf("plan file is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	r := &Registry{config: cfg}
	if err := r.loadPlan(cfg.PlanFile); err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	cfg.Log.Debug("Registry loaded", "repos", len(r.repos), "suites", len(r.suites))
	return r, nil
}

// Repos returns the declared repositories in plan order.
func (r *Registry) Repos() []types.RepoSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.repos)
}

// Suites returns the declared suites in plan order.
func (r *Registry) Suites() []types.TestSuite {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.suites)
}

type planConfig struct {
	Repos    []repoConfig             `yaml:"repos"`
	Commands map[string]commandConfig `yaml:"commands"`
	Suites   []suiteConfig            `yaml:"suites"`
	// Env applies to every suite; suite-level overrides win.
	Env map[string]string `yaml:"env"`
}

type repoConfig struct {
	Name           string   `yaml:"name"`
	SubDirectories []string `yaml:"sub-directories"`
}

// commandConfig declares one named command. Exactly one of args, shell, or
// commands must be set.
type commandConfig struct {
	Args     []string `yaml:"args"`     // external process argument vector
	Shell    string   `yaml:"shell"`    // script run through the system shell
	Commands []string `yaml:"commands"` // names of commands run in sequence
	Include  []string `yaml:"include"`  // output must contain each string
	Exclude  []string `yaml:"exclude"`  // output must contain none
}

type suiteConfig struct {
	Name  string            `yaml:"name"`
	Env   map[string]string `yaml:"env"`
	Tests []testConfig      `yaml:"tests"`
}

type testConfig struct {
	Name      string `yaml:"name"`
	RootSetup string `yaml:"root-setup"`
	Setup     string `yaml:"setup"`
	Command   string `yaml:"command"`
}

func (r *Registry) loadPlan(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read plan file: %w", err)
	}

	var plan planConfig
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return fmt.Errorf("failed to parse plan file: %w", err)
	}

	repos, err := buildRepos(plan)
	if err != nil {
		return err
	}
	suites, err := buildSuites(plan)
	if err != nil {
		return err
	}

	r.repos = repos
	r.suites = suites
	return nil
}

func buildRepos(plan planConfig) ([]types.RepoSpec, error) {
	if len(plan.Repos) == 0 {
		return nil, fmt.Errorf("plan declares no repos")
	}

	repos := make([]types.RepoSpec, 0, len(plan.Repos))
	for _, repo := range plan.Repos {
		if repo.Name == "" {
			return nil, fmt.Errorf("repo without a name")
		}
		if len(repo.SubDirectories) == 0 {
			return nil, fmt.Errorf("repo %s declares no sub-directories", repo.Name)
		}
		repos = append(repos, types.RepoSpec{
			Name:           repo.Name,
			SubDirectories: slices.Clone(repo.SubDirectories),
		})
	}
	return repos, nil
}

func buildSuites(plan planConfig) ([]types.TestSuite, error) {
	if len(plan.Suites) == 0 {
		return nil, fmt.Errorf("plan declares no suites")
	}

	suites := make([]types.TestSuite, 0, len(plan.Suites))
	for _, suite := range plan.Suites {
		if suite.Name == "" {
			return nil, fmt.Errorf("suite without a name")
		}
		if len(suite.Tests) == 0 {
			return nil, fmt.Errorf("suite %s declares no tests", suite.Name)
		}

		tests := make([]types.Test, 0, len(suite.Tests))
		for _, test := range suite.Tests {
			built, err := buildTest(plan, test)
			if err != nil {
				return nil, fmt.Errorf("suite %s: %w", suite.Name, err)
			}
			tests = append(tests, built)
		}

		suites = append(suites, types.TestSuite{
			Name:  suite.Name,
			Tests: tests,
			Env:   types.Env(plan.Env).Merge(types.Env(suite.Env)),
		})
	}
	return suites, nil
}

func buildTest(plan planConfig, cfg testConfig) (types.Test, error) {
	if cfg.Name == "" {
		return types.Test{}, fmt.Errorf("test without a name")
	}
	if cfg.Command == "" {
		return types.Test{}, fmt.Errorf("test %s has no command", cfg.Name)
	}

	command, err := buildCommand(plan, cfg.Command, nil)
	if err != nil {
		return types.Test{}, fmt.Errorf("test %s: %w", cfg.Name, err)
	}

	test := types.Test{Name: cfg.Name, Command: command}
	if cfg.RootSetup != "" {
		test.RootSetup, err = buildCommand(plan, cfg.RootSetup, nil)
		if err != nil {
			return types.Test{}, fmt.Errorf("test %s: %w", cfg.Name, err)
		}
	}
	if cfg.Setup != "" {
		test.LocalSetup, err = buildCommand(plan, cfg.Setup, nil)
		if err != nil {
			return types.Test{}, fmt.Errorf("test %s: %w", cfg.Name, err)
		}
	}
	return test, nil
}

// buildCommand resolves a named command, following composite references.
// visiting tracks the resolution path to reject reference cycles.
func buildCommand(plan planConfig, name string, visiting map[string]bool) (types.Command, error) {
	if visiting[name] {
		return nil, fmt.Errorf("command reference cycle detected at %q", name)
	}

	cfg, ok := plan.Commands[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}

	declared := 0
	if len(cfg.Args) > 0 {
		declared++
	}
	if cfg.Shell != "" {
		declared++
	}
	if len(cfg.Commands) > 0 {
		declared++
	}
	if declared != 1 {
		return nil, fmt.Errorf("command %q must declare exactly one of args, shell, or commands", name)
	}

	var command types.Command
	switch {
	case len(cfg.Args) > 0:
		command = types.NewProcessCommand(cfg.Args...)
	case cfg.Shell != "":
		command = types.NewShellCommand(cfg.Shell)
	default:
		if visiting == nil {
			visiting = make(map[string]bool)
		}
		visiting[name] = true
		defer delete(visiting, name)

		children := make([]types.Command, 0, len(cfg.Commands))
		for _, childName := range cfg.Commands {
			child, err := buildCommand(plan, childName, visiting)
			if err != nil {
				return nil, fmt.Errorf("command %q: %w", name, err)
			}
			children = append(children, child)
		}
		command = types.NewCommands(children...)
	}

	checks := make([]types.Validator, 0, len(cfg.Include)+len(cfg.Exclude))
	for _, s := range cfg.Include {
		checks = append(checks, types.Include(s))
	}
	for _, s := range cfg.Exclude {
		checks = append(checks, types.Exclude(s))
	}
	if len(checks) > 0 {
		command = command.WithValidators(checks...)
	}
	return command, nil
}
