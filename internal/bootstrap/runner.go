package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Runner executes steps in order, printing one status line per step,
// and halts on the first fatal result. It returns nil only when every
// step ended ok or skipped.
type Runner struct {
	Steps []Step
	// Out receives the human-readable progress lines (default stdout).
	Out io.Writer

	log *zap.Logger
}

// NewRunner builds a Runner. A nil logger is replaced with a no-op one.
func NewRunner(log *zap.Logger, steps ...Step) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Steps: steps, Out: os.Stdout, log: log}
}

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	skipMark = color.New(color.FgCyan).Sprint("·")
	warnMark = color.New(color.FgYellow).Sprint("!")
	failMark = color.New(color.FgRed).Sprint("✗")
)

// Run drives the pipeline. The returned error describes the first
// fatal step, wrapped so callers can unwrap the underlying cause.
func (r *Runner) Run(ctx context.Context) error {
	for i, step := range r.Steps {
		res := step.Run(ctx)

		r.log.Debug("step finished",
			zap.String("step", step.Name()),
			zap.Stringer("status", res.Status),
			zap.Error(res.Err),
		)

		mark := okMark
		switch {
		case res.Status == StatusFatal:
			mark = failMark
		case res.Warning:
			mark = warnMark
		case res.Status == StatusSkipped:
			mark = skipMark
		}
		fmt.Fprintf(r.Out, "[%d/%d] %s %s — %s\n", i+1, len(r.Steps), mark, step.Name(), res.Detail)

		if res.Status == StatusFatal {
			if res.Err != nil {
				return fmt.Errorf("%s: %s: %w", step.Name(), res.Detail, res.Err)
			}
			return fmt.Errorf("%s: %s", step.Name(), res.Detail)
		}
	}
	return nil
}
