package flags

import (
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

// TestUniqueFlags asserts that no two flags share a name or env var.
func TestUniqueFlags(t *testing.T) {
	seenNames := map[string]struct{}{}
	seenEnvVars := map[string]struct{}{}
	for _, flag := range Flags {
		name := flag.Names()[0]
		if _, ok := seenNames[name]; ok {
			t.Errorf("duplicate flag name %s", name)
		}
		seenNames[name] = struct{}{}

		envFlag, ok := flag.(interface{ GetEnvVars() []string })
		if !ok {
			t.Errorf("flag %s has no env vars", name)
			continue
		}
		for _, envVar := range envFlag.GetEnvVars() {
			if _, ok := seenEnvVars[envVar]; ok {
				t.Errorf("duplicate flag env var %s", envVar)
			}
			seenEnvVars[envVar] = struct{}{}
		}
	}
}

// TestCorrectEnvVarPrefix asserts the BENCHRUN_ naming convention.
func TestCorrectEnvVarPrefix(t *testing.T) {
	for _, flag := range Flags {
		envFlag, ok := flag.(interface{ GetEnvVars() []string })
		if !ok {
			continue
		}
		for _, envVar := range envFlag.GetEnvVars() {
			if !strings.HasPrefix(envVar, EnvVarPrefix+"_") {
				t.Errorf("flag %s env var %s does not start with %s_", flag.Names()[0], envVar, EnvVarPrefix)
			}
			if strings.Contains(envVar, "__") {
				t.Errorf("flag %s env var %s has a double underscore", flag.Names()[0], envVar)
			}
		}
	}
}

func TestCheckRequired(t *testing.T) {
	app := cli.NewApp()
	app.Flags = Flags
	app.Action = func(ctx *cli.Context) error {
		return CheckRequired(ctx)
	}

	if err := app.Run([]string{"benchrun", "--plan", "plan.yaml", "--repos-root", "/srv/repos"}); err != nil {
		t.Errorf("expected required flags to be accepted, got %v", err)
	}
}
