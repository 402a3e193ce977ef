package bootstrap_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marrowlane/preflight/internal/bootstrap"
)

// TestFreshMachine drives the full five-step pipeline against fakes:
// binary present, server not running, model absent, pip present, no
// config file. Expect one spawn, one pull, one install, one written
// .env, and a clean exit.
func TestFreshMachine(t *testing.T) {
	dir := t.TempDir()
	down := errors.New("connection refused")

	binary := bootstrap.NewBinaryStep("ollama")
	binary.LookPath = func(string) (string, error) { return "/usr/bin/ollama", nil }
	binary.Exec = func(context.Context, string, ...string) (string, error) {
		return "ollama version is 0.5.7", nil
	}

	probe := &fakeProber{errs: []error{down}}
	spawns := 0
	server := bootstrap.NewServerStep(probe, "ollama", "http://localhost:11434", 3*time.Second)
	server.Launch = func() (int, error) { spawns++; return 101, nil }
	server.Sleep = func(time.Duration) {}

	client := &fakeModelClient{}
	model := bootstrap.NewModelStep(client, "qwen3:4b")
	model.Progress = &bytes.Buffer{}

	installs := 0
	deps := bootstrap.NewDepsStep(filepath.Join(dir, "requirements.txt"))
	deps.LookPath = func(string) (string, error) { return "/usr/bin/pip3", nil }
	deps.Stat = func(string) (os.FileInfo, error) { return nil, nil }
	deps.Exec = func(context.Context, string, ...string) (string, error) {
		installs++
		return "", nil
	}

	envfile := bootstrap.NewEnvFileStep(
		filepath.Join(dir, ".env"), "ollama", "qwen3:4b", "http://localhost:11434")

	r := bootstrap.NewRunner(nil, binary, server, model, deps, envfile)
	var out bytes.Buffer
	r.Out = &out

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, 1, spawns, "exactly one server spawn")
	assert.Equal(t, []string{"qwen3:4b"}, client.pulled, "exactly one pull")
	assert.Equal(t, 1, installs, "exactly one install")

	raw, err := os.ReadFile(envfile.Path)
	require.NoError(t, err)
	assert.Len(t, activeLines(string(raw)), 3)
	assert.Contains(t, out.String(), "[5/5]")
}

// TestMissingBinaryHaltsEverything checks step 1's fatal result stops
// the pipeline before any probe, pull, install, or file write.
func TestMissingBinaryHaltsEverything(t *testing.T) {
	dir := t.TempDir()

	binary := bootstrap.NewBinaryStep("ollama")
	binary.LookPath = func(string) (string, error) { return "", errors.New("not found") }

	probe := &fakeProber{}
	server := bootstrap.NewServerStep(probe, "ollama", "http://localhost:11434", time.Second)
	server.Launch = func() (int, error) {
		t.Fatal("launch must not be reached")
		return 0, nil
	}

	client := &fakeModelClient{}
	model := bootstrap.NewModelStep(client, "qwen3:4b")
	model.Progress = &bytes.Buffer{}

	envfile := bootstrap.NewEnvFileStep(
		filepath.Join(dir, ".env"), "ollama", "qwen3:4b", "http://localhost:11434")

	r := bootstrap.NewRunner(nil, binary, server, model, envfile)
	r.Out = &bytes.Buffer{}

	err := r.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, 0, probe.calls, "no network probe after a missing binary")
	assert.Empty(t, client.pulled)
	_, statErr := os.Stat(envfile.Path)
	assert.True(t, os.IsNotExist(statErr), "no file writes after a missing binary")
}
