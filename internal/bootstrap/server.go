package bootstrap

import (
	"context"
	"os/exec"
	"time"
)

// Prober reports whether the Ollama server answers on its base URL.
type Prober interface {
	Ping(ctx context.Context) error
}

// ServerStep ensures the Ollama server is reachable. If the initial
// probe fails it spawns "ollama serve" as a detached, fire-and-forget
// background process, sleeps a fixed startup wait, and re-probes
// exactly once. The single delayed re-check (no backoff loop, no
// supervision, no PID tracking) is a deliberate fidelity decision:
// the original setup flow behaves the same way.
type ServerStep struct {
	// Probe checks liveness.
	Probe Prober
	// URL is the probed base URL, used only in messages.
	URL string
	// Wait is the fixed sleep between spawn and re-probe.
	Wait time.Duration

	// Launch spawns the detached server and returns its PID;
	// overridable in tests.
	Launch func() (int, error)
	// Sleep is the clock seam; overridable in tests.
	Sleep func(d time.Duration)
}

// NewServerStep returns a ServerStep that launches binary with the
// "serve" argument.
func NewServerStep(probe Prober, binary, url string, wait time.Duration) *ServerStep {
	return &ServerStep{
		Probe:  probe,
		URL:    url,
		Wait:   wait,
		Launch: launchDetached(binary),
		Sleep:  time.Sleep,
	}
}

// launchDetached starts "<binary> serve" with no attached stdio and
// releases the process handle immediately. The server outlives the
// bootstrapper and is never waited on.
func launchDetached(binary string) func() (int, error) {
	return func() (int, error) {
		cmd := exec.Command(binary, "serve")
		if err := cmd.Start(); err != nil {
			return 0, err
		}
		pid := cmd.Process.Pid
		_ = cmd.Process.Release()
		return pid, nil
	}
}

func (s *ServerStep) Name() string { return "ollama server" }

func (s *ServerStep) Run(ctx context.Context) Result {
	if err := s.Probe.Ping(ctx); err == nil {
		return skipped("server already running at %s", s.URL)
	}

	pid, err := s.Launch()
	if err != nil {
		return fatal(err, "could not start ollama serve")
	}

	s.Sleep(s.Wait)

	if err := s.Probe.Ping(ctx); err != nil {
		return fatal(err, "server did not come up at %s within %s (pid %d) — it may need longer; try again or raise --startup-wait", s.URL, s.Wait, pid)
	}
	return ok("started ollama serve (pid %d), reachable at %s", pid, s.URL)
}
