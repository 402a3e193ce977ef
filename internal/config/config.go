// Package config defines the runtime configuration for preflight.
//
// Values resolve in ascending priority: struct-tag defaults, the
// working directory's .env file (so a machine that was already set up
// keeps driving later runs with its own model/base-URL choices),
// process environment variables, then CLI flags applied by the caller.
package config

import (
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all settings for a bootstrap run. The env var name for
// each field is the mapstructure key upper-cased (ollama_model →
// OLLAMA_MODEL), which makes the keys line up with the .env file the
// tool itself writes.
type Config struct {
	// Provider is the LLM provider name written to the config file.
	Provider string `mapstructure:"llm_provider" default:"ollama"`

	// Model is the Ollama model tag to ensure locally (e.g. "qwen3:4b").
	Model string `mapstructure:"ollama_model" default:"qwen3:4b"`

	// BaseURL is the Ollama server base URL probed for liveness.
	BaseURL string `mapstructure:"ollama_base_url" default:"http://localhost:11434"`

	// Manifest is the Python dependency manifest, relative to WorkDir
	// unless absolute.
	Manifest string `mapstructure:"manifest" default:"requirements.txt"`

	// EnvFile is the config file to materialize, relative to WorkDir
	// unless absolute.
	EnvFile string `mapstructure:"env_file" default:".env"`

	// StartupWait is how long to sleep after spawning "ollama serve"
	// before the single re-probe. The 3s default mirrors the original
	// setup flow and was never tuned.
	StartupWait time.Duration `mapstructure:"startup_wait" default:"3s"`

	// ProbeTimeout bounds each liveness probe.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" default:"2s"`

	// LogLevel is the zap log level ("debug" enables development mode).
	LogLevel string `mapstructure:"log_level" default:"info"`

	// LogFormat selects the zap encoding ("console" or "json").
	LogFormat string `mapstructure:"log_format" default:"console"`

	// WorkDir anchors relative paths. Set by Load, not read from the
	// environment.
	WorkDir string `mapstructure:"-"`
}

// Load resolves the configuration for a run rooted at workdir.
// A missing .env file is not an error — first runs start from defaults.
func Load(workdir string) (*Config, error) {
	if workdir == "" {
		workdir = "."
	}

	// Overlay an existing .env onto the process environment so a
	// previously bootstrapped machine keeps its own choices.
	_ = godotenv.Overload(filepath.Join(workdir, ".env"))

	v := viper.New()
	bindDefaults(v, Config{})
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.WorkDir = workdir
	return &cfg, nil
}

// ManifestPath returns the manifest location, anchored at WorkDir when
// relative.
func (c *Config) ManifestPath() string {
	return c.anchor(c.Manifest)
}

// EnvPath returns the config-file location, anchored at WorkDir when
// relative.
func (c *Config) EnvPath() string {
	return c.anchor(c.EnvFile)
}

func (c *Config) anchor(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.WorkDir, path)
}

// bindDefaults registers each field's 'default' tag under its
// mapstructure key so AutomaticEnv can see the key and Unmarshal can
// fill the struct.
func bindDefaults(v *viper.Viper, iface any) {
	t := reflect.TypeOf(iface)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := field.Tag.Get("mapstructure")
		if key == "" || key == "-" {
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
