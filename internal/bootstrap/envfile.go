package bootstrap

import (
	"context"
	"fmt"
	"os"
)

// EnvFileStep materializes the companion app's .env file. An existing
// file is never touched — first run wins, byte for byte — so user
// edits survive every later bootstrap.
type EnvFileStep struct {
	// Path is the config file location.
	Path string
	// Provider, Model and BaseURL fill the active keys of the template.
	Provider string
	Model    string
	BaseURL  string
}

// NewEnvFileStep returns an EnvFileStep for path.
func NewEnvFileStep(path, provider, model, baseURL string) *EnvFileStep {
	return &EnvFileStep{Path: path, Provider: provider, Model: model, BaseURL: baseURL}
}

func (s *EnvFileStep) Name() string { return "config file" }

func (s *EnvFileStep) Run(_ context.Context) Result {
	if _, err := os.Stat(s.Path); err == nil {
		r := skipped("%s already exists — leaving it untouched", s.Path)
		r.Warning = true
		return r
	}

	content := buildEnvFile(s.Provider, s.Model, s.BaseURL)
	if err := os.WriteFile(s.Path, []byte(content), 0o644); err != nil {
		return fatal(err, "could not write %s", s.Path)
	}
	return ok("wrote default config to %s", s.Path)
}

// buildEnvFile returns the KEY=VALUE content of the default .env.
// Exactly three keys are active; the optional integrations ship as
// commented placeholders the user can enable by hand.
func buildEnvFile(provider, model, baseURL string) string {
	out := "# Assistant configuration — written once by preflight, never overwritten.\n"
	out += fmt.Sprintf("LLM_PROVIDER=%s\n", provider)
	out += fmt.Sprintf("OLLAMA_MODEL=%s\n", model)
	out += fmt.Sprintf("OLLAMA_BASE_URL=%s\n", baseURL)
	out += "\n"
	out += "# Optional: web search via Tavily.\n"
	out += "# TAVILY_API_KEY=your_tavily_key_here\n"
	out += "\n"
	out += "# Optional: LangSmith tracing.\n"
	out += "# LANGCHAIN_TRACING_V2=true\n"
	out += "# LANGCHAIN_API_KEY=your_langsmith_key\n"
	out += "# LANGCHAIN_PROJECT=qa-assistant\n"
	return out
}
