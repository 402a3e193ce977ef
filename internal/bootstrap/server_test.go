package bootstrap_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marrowlane/preflight/internal/bootstrap"
)

// fakeProber returns its queued errors in order, then nil.
type fakeProber struct {
	errs  []error
	calls int
}

func (p *fakeProber) Ping(context.Context) error {
	p.calls++
	if len(p.errs) == 0 {
		return nil
	}
	err := p.errs[0]
	p.errs = p.errs[1:]
	return err
}

func newServerStep(probe *fakeProber) (*bootstrap.ServerStep, *int, *[]time.Duration) {
	launches := 0
	var sleeps []time.Duration
	step := bootstrap.NewServerStep(probe, "ollama", "http://localhost:11434", 3*time.Second)
	step.Launch = func() (int, error) {
		launches++
		return 4242, nil
	}
	step.Sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return step, &launches, &sleeps
}

func TestServerStep(t *testing.T) {
	ctx := context.Background()
	down := errors.New("connection refused")

	t.Run("AlreadyRunningSpawnsNothing", func(t *testing.T) {
		probe := &fakeProber{}
		step, launches, sleeps := newServerStep(probe)

		res := step.Run(ctx)

		assert.Equal(t, bootstrap.StatusSkipped, res.Status)
		assert.Equal(t, 0, *launches, "no process may be spawned when the probe succeeds")
		assert.Empty(t, *sleeps)
		assert.Equal(t, 1, probe.calls)
	})

	t.Run("StartsAndComesUp", func(t *testing.T) {
		probe := &fakeProber{errs: []error{down}}
		step, launches, sleeps := newServerStep(probe)

		res := step.Run(ctx)

		assert.Equal(t, bootstrap.StatusOK, res.Status)
		assert.Contains(t, res.Detail, "4242")
		assert.Equal(t, 1, *launches)
		require.Len(t, *sleeps, 1)
		assert.Equal(t, 3*time.Second, (*sleeps)[0])
		assert.Equal(t, 2, probe.calls, "exactly one re-probe after the wait")
	})

	t.Run("StillDownAfterRetryIsFatal", func(t *testing.T) {
		probe := &fakeProber{errs: []error{down, down}}
		step, launches, _ := newServerStep(probe)

		res := step.Run(ctx)

		assert.Equal(t, bootstrap.StatusFatal, res.Status)
		assert.Equal(t, 1, *launches)
		assert.Equal(t, 2, probe.calls, "single-retry policy, no backoff loop")
	})

	t.Run("LaunchFailureIsFatal", func(t *testing.T) {
		probe := &fakeProber{errs: []error{down}}
		step, _, sleeps := newServerStep(probe)
		step.Launch = func() (int, error) { return 0, errors.New("fork: resource unavailable") }

		res := step.Run(ctx)

		assert.Equal(t, bootstrap.StatusFatal, res.Status)
		assert.Empty(t, *sleeps, "no wait when the spawn itself failed")
	})
}
