package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/marrowlane/preflight/internal/ollama"
)

// ModelClient is the subset of the Ollama API the model step needs.
type ModelClient interface {
	HasModel(ctx context.Context, target string) (bool, error)
	PullStream(ctx context.Context, name string) (<-chan ollama.PullStatus, <-chan error)
}

// ModelStep ensures the target model weight is present locally,
// pulling it synchronously when absent. No checksum verification
// happens beyond what the server itself does; a clean stream end
// means success.
type ModelStep struct {
	Client ModelClient
	// Model is the target tag, e.g. "qwen3:4b".
	Model string
	// Progress receives in-place pull progress lines (default stdout).
	Progress io.Writer
}

// NewModelStep returns a ModelStep reporting progress to stdout.
func NewModelStep(client ModelClient, model string) *ModelStep {
	return &ModelStep{Client: client, Model: model, Progress: os.Stdout}
}

func (s *ModelStep) Name() string { return "model weights" }

func (s *ModelStep) Run(ctx context.Context) Result {
	present, err := s.Client.HasModel(ctx, s.Model)
	if err != nil {
		return fatal(err, "could not list local models")
	}
	if present {
		return skipped("model %s already present", s.Model)
	}

	ch, errCh := s.Client.PullStream(ctx, s.Model)
	var last string
	for st := range ch {
		line := st.Status
		if st.Total > 0 {
			line = fmt.Sprintf("%s %3.0f%%", st.Status, float64(st.Completed)/float64(st.Total)*100)
		}
		if line != "" && line != last {
			fmt.Fprintf(s.Progress, "\r    pulling %s: %-50s", s.Model, line)
			last = line
		}
	}
	if last != "" {
		fmt.Fprintln(s.Progress)
	}

	if err := <-errCh; err != nil {
		return fatal(err, "pull of %s failed", s.Model)
	}
	return ok("pulled %s", s.Model)
}
