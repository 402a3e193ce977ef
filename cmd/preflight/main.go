// Preflight — environment bootstrapper for the local Q&A assistant.
//
// Brings a machine from "nothing installed" to "ready to run the
// assistant": ollama binary, running server, pulled model, Python
// dependencies, default .env. Every step is idempotent.
//
// Usage:
//
//	preflight            # same as "preflight up"
//	preflight up --model qwen3:4b --base-url http://localhost:11434
//	preflight doctor
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marrowlane/preflight/internal/bootstrap"
	"github.com/marrowlane/preflight/internal/config"
	"github.com/marrowlane/preflight/internal/logging"
	"github.com/marrowlane/preflight/internal/ollama"
	"github.com/marrowlane/preflight/internal/sysinfo"
)

const banner = `
 ___  ___  ___  ___  _    _  ___  _  _  ___
| _ \| _ \| __|| __|| |  | || __|| || ||_ _|
|  _/|   /| _| | _| | |__| || (_ | __ | | |
|_|  |_|_\|___||_|  |____|_| \___||_||_| |_|

  Local Q&A assistant bootstrapper
`

const serverBinary = "ollama"

func main() {
	var workdir string

	root := &cobra.Command{
		Use:   "preflight",
		Short: "Preflight — set up the local Q&A assistant environment",
		Long:  banner,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(cmd, workdir)
		},
	}
	root.PersistentFlags().StringVarP(&workdir, "workdir", "C", ".",
		"Directory holding requirements.txt and .env")

	up := &cobra.Command{
		Use:   "up",
		Short: "Run all bootstrap steps (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(cmd, workdir)
		},
	}
	addOverrideFlags(up)
	addOverrideFlags(root)

	doctor := &cobra.Command{
		Use:   "doctor",
		Short: "Report environment readiness without changing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, workdir)
		},
	}
	addOverrideFlags(doctor)

	root.AddCommand(up, doctor)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// addOverrideFlags registers the per-run overrides shared by up and
// doctor. Defaults come from config.Load; only changed flags override.
func addOverrideFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("model", "m", "", "Target model tag (default from .env / OLLAMA_MODEL)")
	f.String("base-url", "", "Ollama base URL (default from .env / OLLAMA_BASE_URL)")
	f.String("manifest", "", "Dependency manifest path (default requirements.txt)")
	f.Duration("startup-wait", 0, "Wait after spawning ollama serve before the re-probe (default 3s)")
	f.String("log-level", "", "Log level (default info)")
}

// loadConfig resolves configuration for workdir and applies any flags
// the user actually set.
func loadConfig(cmd *cobra.Command, workdir string) (*config.Config, error) {
	cfg, err := config.Load(workdir)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("model") {
		cfg.Model, _ = f.GetString("model")
	}
	if f.Changed("base-url") {
		cfg.BaseURL, _ = f.GetString("base-url")
	}
	if f.Changed("manifest") {
		cfg.Manifest, _ = f.GetString("manifest")
	}
	if f.Changed("startup-wait") {
		cfg.StartupWait, _ = f.GetDuration("startup-wait")
	}
	if f.Changed("log-level") {
		cfg.LogLevel, _ = f.GetString("log-level")
	}
	return cfg, nil
}

func runUp(cmd *cobra.Command, workdir string) error {
	cfg, err := loadConfig(cmd, workdir)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	fmt.Print(banner)
	printHostReport(cfg)

	log.Debug("configuration resolved",
		zap.String("model", cfg.Model),
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("startup_wait", cfg.StartupWait),
	)

	client := ollama.NewClient(cfg.BaseURL, cfg.ProbeTimeout)
	runner := bootstrap.NewRunner(log,
		bootstrap.NewBinaryStep(serverBinary),
		bootstrap.NewServerStep(client, serverBinary, cfg.BaseURL, cfg.StartupWait),
		bootstrap.NewModelStep(client, cfg.Model),
		bootstrap.NewDepsStep(cfg.ManifestPath()),
		bootstrap.NewEnvFileStep(cfg.EnvPath(), cfg.Provider, cfg.Model, cfg.BaseURL),
	)

	if err := runner.Run(cmd.Context()); err != nil {
		return err
	}

	fmt.Println()
	color.Green("Environment ready — start the assistant with: python main.py")
	return nil
}

func runDoctor(cmd *cobra.Command, workdir string) error {
	cfg, err := loadConfig(cmd, workdir)
	if err != nil {
		return err
	}

	client := ollama.NewClient(cfg.BaseURL, cfg.ProbeTimeout)
	doc := bootstrap.NewDoctor(client, serverBinary, cfg.Model, cfg.ManifestPath(), cfg.EnvPath())

	checks := doc.Collect(cmd.Context())
	bootstrap.PrintReport(os.Stdout, checks)

	if bootstrap.Failed(checks) {
		return fmt.Errorf("environment not ready — fix the failed checks above")
	}
	return nil
}

// printHostReport shows what kind of machine we are bootstrapping and
// warns when the target model looks too big for the available RAM.
func printHostReport(cfg *config.Config) {
	host := sysinfo.Collect()
	if host.CPUModel != "" {
		fmt.Printf("CPU:   %s\n", host.CPUModel)
	}
	fmt.Printf("Cores: %d physical / %d logical\n", host.PhysicalCores, host.LogicalCores)
	fmt.Printf("RAM:   %.1f GB\n\n", host.RAMGB)

	if need, known := sysinfo.EstimateModelRAMGB(cfg.Model); known && host.RAMGB < need {
		color.Yellow("Note: %s wants roughly %.0f GB of RAM but only %.1f GB is available — expect swapping or a smaller quant.\n",
			cfg.Model, need, host.RAMGB)
	}
}
