// Package bootstrap implements the ordered environment-setup pipeline:
// verify the ollama binary, ensure the server is up, ensure the target
// model is pulled, install the companion app's Python dependencies, and
// materialize a default .env file. Each step is idempotent and reports
// a tri-state result; the runner halts on the first fatal one.
package bootstrap

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Status is the outcome class of a single step.
type Status int

const (
	// StatusOK — the step performed its action (or its check passed).
	StatusOK Status = iota
	// StatusSkipped — the goal state already held; nothing was done.
	StatusSkipped
	// StatusFatal — unrecoverable; the pipeline must halt.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusFatal:
		return "fatal"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of one step.
type Result struct {
	Status Status
	// Detail is a one-line, user-facing summary.
	Detail string
	// Warning marks a skipped result that still deserves attention
	// (e.g. an existing .env that was left untouched).
	Warning bool
	// Err is set for fatal results.
	Err error
}

// Step is one stage of the bootstrap pipeline.
type Step interface {
	Name() string
	Run(ctx context.Context) Result
}

func ok(format string, args ...any) Result {
	return Result{Status: StatusOK, Detail: fmt.Sprintf(format, args...)}
}

func skipped(format string, args ...any) Result {
	return Result{Status: StatusSkipped, Detail: fmt.Sprintf(format, args...)}
}

func fatal(err error, format string, args ...any) Result {
	return Result{Status: StatusFatal, Detail: fmt.Sprintf(format, args...), Err: err}
}

// CommandRunner executes a subprocess and returns its trimmed combined
// output. Steps take it as a seam so tests never touch the host.
type CommandRunner func(ctx context.Context, name string, args ...string) (string, error)

func execCommand(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// tail returns the last few lines of subprocess output for error
// messages, so a long pip trace doesn't flood the terminal.
func tail(out string, n int) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
