package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/joho/godotenv"
)

// Check statuses. "warn" marks a gap that "preflight up" can repair;
// "fail" marks one it cannot.
const (
	CheckPass = "pass"
	CheckWarn = "warn"
	CheckFail = "fail"
)

// Check is one line of a doctor report.
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// DoctorClient is the Ollama API surface the doctor needs.
type DoctorClient interface {
	Ping(ctx context.Context) error
	Version(ctx context.Context) (string, error)
	HasModel(ctx context.Context, target string) (bool, error)
}

// Doctor collects a read-only environment report: same conditions as
// the bootstrap pipeline, zero mutations.
type Doctor struct {
	Binary   string
	Client   DoctorClient
	Model    string
	Manifest string
	EnvPath  string

	LookPath func(file string) (string, error)
	Stat     func(name string) (os.FileInfo, error)
	ReadEnv  func(filenames ...string) (map[string]string, error)
}

// NewDoctor returns a Doctor with host defaults.
func NewDoctor(client DoctorClient, binary, model, manifest, envPath string) *Doctor {
	return &Doctor{
		Binary:   binary,
		Client:   client,
		Model:    model,
		Manifest: manifest,
		EnvPath:  envPath,
		LookPath: exec.LookPath,
		Stat:     os.Stat,
		ReadEnv:  godotenv.Read,
	}
}

// Collect runs every check and returns the report.
func (d *Doctor) Collect(ctx context.Context) []Check {
	checks := []Check{d.checkBinary()}

	// Without the binary the remaining probes are noise, but the
	// report stays complete so the user sees the whole picture.
	checks = append(checks,
		d.checkServer(ctx),
		d.checkModel(ctx),
		d.checkManifest(),
		d.checkEnvFile(),
		d.checkPip(),
	)
	return checks
}

// Failed reports whether any check has fail status.
func Failed(checks []Check) bool {
	for _, c := range checks {
		if c.Status == CheckFail {
			return true
		}
	}
	return false
}

func (d *Doctor) checkBinary() Check {
	path, err := d.LookPath(d.Binary)
	if err != nil {
		return Check{"binary", CheckFail, d.Binary + " not found on PATH"}
	}
	return Check{"binary", CheckPass, path}
}

func (d *Doctor) checkServer(ctx context.Context) Check {
	if err := d.Client.Ping(ctx); err != nil {
		return Check{"server", CheckWarn, "not reachable — 'preflight up' will start it"}
	}
	if v, err := d.Client.Version(ctx); err == nil {
		return Check{"server", CheckPass, "running, version " + v}
	}
	return Check{"server", CheckPass, "running"}
}

func (d *Doctor) checkModel(ctx context.Context) Check {
	present, err := d.Client.HasModel(ctx, d.Model)
	if err != nil {
		return Check{"model", CheckWarn, "could not list models: " + err.Error()}
	}
	if !present {
		return Check{"model", CheckWarn, d.Model + " not pulled yet"}
	}
	return Check{"model", CheckPass, d.Model + " present"}
}

func (d *Doctor) checkManifest() Check {
	if _, err := d.Stat(d.Manifest); err != nil {
		return Check{"manifest", CheckFail, d.Manifest + " not found"}
	}
	return Check{"manifest", CheckPass, d.Manifest}
}

func (d *Doctor) checkEnvFile() Check {
	if _, err := d.Stat(d.EnvPath); err != nil {
		return Check{"config", CheckWarn, d.EnvPath + " absent — 'preflight up' will write defaults"}
	}
	vals, err := d.ReadEnv(d.EnvPath)
	if err != nil {
		return Check{"config", CheckWarn, d.EnvPath + " present but unreadable: " + err.Error()}
	}
	return Check{"config", CheckPass,
		fmt.Sprintf("%s (provider=%s model=%s)", d.EnvPath, vals["LLM_PROVIDER"], vals["OLLAMA_MODEL"])}
}

func (d *Doctor) checkPip() Check {
	for _, m := range []string{"pip3", "pip"} {
		if path, err := d.LookPath(m); err == nil {
			return Check{"pip", CheckPass, path}
		}
	}
	return Check{"pip", CheckFail, "no pip3/pip on PATH"}
}

// PrintReport writes the report to w, one colored line per check.
func PrintReport(w io.Writer, checks []Check) {
	marks := map[string]string{
		CheckPass: okMark,
		CheckWarn: warnMark,
		CheckFail: failMark,
	}
	for _, c := range checks {
		fmt.Fprintf(w, "%s %-8s %s\n", marks[c.Status], c.Name, c.Detail)
	}
}
