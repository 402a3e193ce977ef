package bootstrap

import (
	"context"
	"os/exec"
)

// BinaryStep verifies that the Ollama binary is resolvable on PATH and
// records its version string for display. A missing binary is fatal:
// nothing downstream can work without it.
type BinaryStep struct {
	// Binary is the executable name to resolve (default "ollama").
	Binary string

	// LookPath resolves an executable; overridable in tests.
	LookPath func(file string) (string, error)
	// Exec runs the version query; overridable in tests.
	Exec CommandRunner
}

// NewBinaryStep returns a BinaryStep with host defaults.
func NewBinaryStep(binary string) *BinaryStep {
	return &BinaryStep{
		Binary:   binary,
		LookPath: exec.LookPath,
		Exec:     execCommand,
	}
}

func (s *BinaryStep) Name() string { return "ollama binary" }

func (s *BinaryStep) Run(ctx context.Context) Result {
	path, err := s.LookPath(s.Binary)
	if err != nil {
		return fatal(err, "%s not found on PATH — install it from https://ollama.com/download and re-run", s.Binary)
	}

	// "ollama --version" prints e.g. "ollama version is 0.5.7".
	// A failed query is not fatal; the binary itself resolved.
	out, err := s.Exec(ctx, path, "--version")
	if err != nil || out == "" {
		return ok("found %s (version unknown)", path)
	}
	return ok("%s at %s", out, path)
}
