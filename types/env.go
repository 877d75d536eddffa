package types

import (
	"os"
	"sort"
	"strings"
)

// Env holds environment variable overrides for spawned processes. Overrides
// are threaded explicitly into every command invocation instead of mutating
// the harness's own environment, so a failing command can never leak
// variables into whatever runs next.
type Env map[string]string

// Merge returns a copy of e with overrides applied on top of it. Neither
// input is modified.
func (e Env) Merge(overrides Env) Env {
	if len(e) == 0 && len(overrides) == 0 {
		return nil
	}
	merged := make(Env, len(e)+len(overrides))
	for k, v := range e {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// Environ builds the full environment for a spawned process: the current
// process environment with e merged over it. A nil or empty Env returns nil,
// which makes os/exec inherit the harness environment unchanged.
func (e Env) Environ() []string {
	if len(e) == 0 {
		return nil
	}
	environ := os.Environ()
	out := make([]string, 0, len(environ)+len(e))
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := e[key]; overridden {
			continue
		}
		out = append(out, kv)
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+e[k])
	}
	return out
}
