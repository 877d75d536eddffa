package types

import (
	"fmt"
	"os"
	"path/filepath"
)

// RepoSpec declares a repository checkout by name together with the relative
// sub-directories to benchmark independently.
type RepoSpec struct {
	Name           string
	SubDirectories []string
}

// WithBaseRoot resolves the spec against a base root directory. It fails
// fast when the resolved repository root does not exist or is not a
// directory.
func (r RepoSpec) WithBaseRoot(baseRoot string) (RootedRepo, error) {
	root := filepath.Join(baseRoot, r.Name)
	info, err := os.Stat(root)
	if err != nil {
		return RootedRepo{}, fmt.Errorf("repo root %s: %w", root, err)
	}
	if !info.IsDir() {
		return RootedRepo{}, fmt.Errorf("repo root %s is not a directory", root)
	}

	subDirs := make([]string, len(r.SubDirectories))
	for i, sub := range r.SubDirectories {
		subDirs[i] = filepath.Join(root, sub)
	}
	return RootedRepo{Spec: r, Root: root, SubDirectories: subDirs}, nil
}

// RootedRepo is a RepoSpec resolved against a concrete filesystem root, with
// absolute sub-directory paths derived from it.
type RootedRepo struct {
	Spec           RepoSpec
	Root           string
	SubDirectories []string
}

func (r RootedRepo) String() string {
	return fmt.Sprintf("%s (%d sub-directories)", r.Root, len(r.SubDirectories))
}

func (r RepoSpec) String() string {
	return fmt.Sprintf("%s %v", r.Name, r.SubDirectories)
}
