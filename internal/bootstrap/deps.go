package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DepsStep installs the companion app's Python dependencies from a
// manifest file in quiet mode. A missing package manager or a failed
// install is fatal; pip itself makes the install idempotent.
type DepsStep struct {
	// Managers are the executables tried in order (default pip3, pip).
	Managers []string
	// Manifest is the requirements file path.
	Manifest string

	LookPath func(file string) (string, error)
	Exec     CommandRunner
	Stat     func(name string) (os.FileInfo, error)
}

// NewDepsStep returns a DepsStep with host defaults.
func NewDepsStep(manifest string) *DepsStep {
	return &DepsStep{
		Managers: []string{"pip3", "pip"},
		Manifest: manifest,
		LookPath: exec.LookPath,
		Exec:     execCommand,
		Stat:     os.Stat,
	}
}

func (s *DepsStep) Name() string { return "python dependencies" }

func (s *DepsStep) Run(ctx context.Context) Result {
	var manager string
	for _, m := range s.Managers {
		if path, err := s.LookPath(m); err == nil {
			manager = path
			break
		}
	}
	if manager == "" {
		return fatal(
			fmt.Errorf("no package manager found (tried %s)", strings.Join(s.Managers, ", ")),
			"pip is required to install the assistant's dependencies — install Python 3 first",
		)
	}

	if _, err := s.Stat(s.Manifest); err != nil {
		return fatal(err, "dependency manifest %s not found", s.Manifest)
	}

	out, err := s.Exec(ctx, manager, "install", "-q", "-r", s.Manifest)
	if err != nil {
		return fatal(fmt.Errorf("pip install: %w", err), "dependency install failed:\n%s", tail(out, 5))
	}
	return ok("installed dependencies from %s", s.Manifest)
}
