// Package sysinfo reports best-effort host facts for the bootstrap
// banner: CPU model, core counts, and the RAM actually available to
// this process (container limits included). It also estimates whether
// the target model tag will fit in that RAM. Every probe degrades
// gracefully — a failed read never blocks the bootstrap.
package sysinfo

import (
	"regexp"
	"runtime"
	"strconv"
)

// Info describes the host machine.
type Info struct {
	// CPUModel is the human-readable CPU model string, or "" if unknown.
	CPUModel string

	// PhysicalCores is the physical core count (logical count when the
	// split cannot be determined).
	PhysicalCores int

	// LogicalCores is the total logical CPU count.
	LogicalCores int

	// RAMGB is the RAM available to this process in gigabytes.
	RAMGB float64
}

// Collect gathers host facts. It never fails; unknown values fall back
// to runtime defaults.
func Collect() *Info {
	i := &Info{
		LogicalCores:  runtime.NumCPU(),
		PhysicalCores: runtime.NumCPU(),
	}
	detectPlatformCPU(i)
	i.RAMGB = AvailableRAMGB()

	if i.PhysicalCores <= 0 || i.PhysicalCores > i.LogicalCores {
		i.PhysicalCores = i.LogicalCores
	}
	return i
}

var paramSizeRe = regexp.MustCompile(`(\d+(?:\.\d+)?)[bB]\b`)

// EstimateModelRAMGB estimates the resident footprint of an Ollama
// model tag from its parameter-size suffix ("qwen3:4b" → ~4 GB). The
// estimate assumes a 4-bit quant plus KV-cache headroom. ok is false
// when the tag carries no parseable size.
func EstimateModelRAMGB(tag string) (gb float64, ok bool) {
	m := paramSizeRe.FindStringSubmatch(tag)
	if m == nil {
		return 0, false
	}
	params, err := strconv.ParseFloat(m[1], 64)
	if err != nil || params <= 0 {
		return 0, false
	}
	// ~0.75 GB per billion params at Q4, plus ~1 GB runtime overhead.
	return params*0.75 + 1, true
}
