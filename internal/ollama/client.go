// Package ollama provides a typed HTTP client for the Ollama API.
// Preflight uses it to probe server liveness and manage model weights.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client wraps the parts of the Ollama HTTP API the bootstrapper needs.
type Client struct {
	BaseURL string

	// probeClient serves liveness checks and must fail fast.
	probeClient *http.Client
	// httpClient serves everything else; pulls can run for many
	// minutes, so it carries no timeout.
	httpClient *http.Client
}

// NewClient creates a client for baseURL (e.g. "http://localhost:11434").
// probeTimeout bounds Ping only.
func NewClient(baseURL string, probeTimeout time.Duration) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		probeClient: &http.Client{Timeout: probeTimeout},
		httpClient:  &http.Client{},
	}
}

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// Model is a single entry from GET /api/tags.
type Model struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
	Details    struct {
		Format            string `json:"format"`
		Family            string `json:"family"`
		ParameterSize     string `json:"parameter_size"`
		QuantizationLevel string `json:"quantization_level"`
	} `json:"details"`
}

// PullRequest maps to POST /api/pull.
type PullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

// PullStatus is one NDJSON event from POST /api/pull.
type PullStatus struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`
}

// VersionResponse maps to GET /api/version.
type VersionResponse struct {
	Version string `json:"version"`
}

// ---------------------------------------------------------------------------
// Methods
// ---------------------------------------------------------------------------

// Ping reports whether the server answers at all on BaseURL. Any HTTP
// response counts as alive — the root endpoint just returns "Ollama is
// running" and we only care about connection success.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.probeClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", c.BaseURL, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// Version fetches the Ollama server version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var v VersionResponse
	if err := c.getJSON(ctx, "/api/version", &v); err != nil {
		return "", err
	}
	return v.Version, nil
}

// ListModels returns all locally available models.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var resp struct {
		Models []Model `json:"models"`
	}
	if err := c.getJSON(ctx, "/api/tags", &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// HasModel reports whether target is already present locally.
// A target with an explicit tag ("qwen3:4b") must match exactly; a bare
// repo name ("qwen3") matches any local tag of that repo. Plain
// substring matching is deliberately avoided so "llama3" cannot match
// an unrelated "codellama3" variant.
func (c *Client) HasModel(ctx context.Context, target string) (bool, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range models {
		if matchesTarget(m.Name, target) {
			return true, nil
		}
	}
	return false, nil
}

func matchesTarget(name, target string) bool {
	if name == target {
		return true
	}
	if !strings.Contains(target, ":") {
		repo, _, _ := strings.Cut(name, ":")
		return repo == target
	}
	// Ollama lists bare pulls as "<repo>:latest".
	return name == target+":latest" || target == name+":latest"
}

// PullStream pulls a model and streams progress events. The caller must
// drain the status channel; both channels close when the stream ends or
// ctx is cancelled.
func (c *Client) PullStream(ctx context.Context, name string) (<-chan PullStatus, <-chan error) {
	ch := make(chan PullStatus)
	errCh := make(chan error, 1)

	go func() {
		defer close(ch)
		defer close(errCh)

		body, _ := json.Marshal(PullRequest{Name: name, Stream: true})
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/pull", bytes.NewReader(body))
		if err != nil {
			errCh <- err
			return
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			errCh <- err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			errCh <- fmt.Errorf("ollama %d: %s", resp.StatusCode, string(b))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var status PullStatus
			if err := json.Unmarshal(line, &status); err != nil {
				continue
			}
			select {
			case ch <- status:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("scan: %w", err)
		}
	}()

	return ch, errCh
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ollama %d: %s", resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
