package bootstrap_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marrowlane/preflight/internal/bootstrap"
	"github.com/marrowlane/preflight/internal/ollama"
)

// fakeModelClient serves HasModel from a flag and PullStream from a
// canned status slice.
type fakeModelClient struct {
	present  bool
	listErr  error
	statuses []ollama.PullStatus
	pullErr  error
	pulled   []string
}

func (c *fakeModelClient) HasModel(_ context.Context, _ string) (bool, error) {
	return c.present, c.listErr
}

func (c *fakeModelClient) PullStream(_ context.Context, name string) (<-chan ollama.PullStatus, <-chan error) {
	c.pulled = append(c.pulled, name)
	ch := make(chan ollama.PullStatus)
	errCh := make(chan error, 1)
	go func() {
		defer close(ch)
		defer close(errCh)
		for _, st := range c.statuses {
			ch <- st
		}
		if c.pullErr != nil {
			errCh <- c.pullErr
		}
	}()
	return ch, errCh
}

func TestModelStep(t *testing.T) {
	ctx := context.Background()

	t.Run("PresentModelIsNotPulled", func(t *testing.T) {
		client := &fakeModelClient{present: true}
		step := bootstrap.NewModelStep(client, "qwen3:4b")
		step.Progress = &bytes.Buffer{}

		res := step.Run(ctx)

		assert.Equal(t, bootstrap.StatusSkipped, res.Status)
		assert.Contains(t, res.Detail, "qwen3:4b")
		assert.Empty(t, client.pulled)
	})

	t.Run("AbsentModelIsPulled", func(t *testing.T) {
		client := &fakeModelClient{
			statuses: []ollama.PullStatus{
				{Status: "pulling manifest"},
				{Status: "downloading", Total: 200, Completed: 100},
				{Status: "success"},
			},
		}
		var out bytes.Buffer
		step := bootstrap.NewModelStep(client, "qwen3:4b")
		step.Progress = &out

		res := step.Run(ctx)

		assert.Equal(t, bootstrap.StatusOK, res.Status)
		require.Equal(t, []string{"qwen3:4b"}, client.pulled)
		assert.Contains(t, out.String(), "pulling qwen3:4b")
		assert.Contains(t, out.String(), "50%")
	})

	t.Run("ListFailureIsFatal", func(t *testing.T) {
		client := &fakeModelClient{listErr: errors.New("connection reset")}
		step := bootstrap.NewModelStep(client, "qwen3:4b")
		step.Progress = &bytes.Buffer{}

		res := step.Run(ctx)

		assert.Equal(t, bootstrap.StatusFatal, res.Status)
		assert.Empty(t, client.pulled)
	})

	t.Run("PullFailureIsFatal", func(t *testing.T) {
		client := &fakeModelClient{pullErr: errors.New("manifest not found")}
		step := bootstrap.NewModelStep(client, "nope:1b")
		step.Progress = &bytes.Buffer{}

		res := step.Run(ctx)

		assert.Equal(t, bootstrap.StatusFatal, res.Status)
		require.ErrorContains(t, res.Err, "manifest not found")
	})
}
