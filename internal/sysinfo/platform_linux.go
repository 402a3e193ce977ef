//go:build linux

package sysinfo

import (
	"bufio"
	"os"
	"strings"
)

// detectPlatformCPU reads /proc/cpuinfo for the CPU model string and a
// physical-core estimate (symmetric multi-socket assumed).
func detectPlatformCPU(i *Info) {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return
	}
	defer f.Close()

	physicalIDs := map[string]struct{}{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, val, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch key {
		case "model name":
			if i.CPUModel == "" {
				i.CPUModel = val
			}
		case "physical id":
			physicalIDs[val] = struct{}{}
		}
	}

	if len(physicalIDs) > 0 {
		i.PhysicalCores = i.LogicalCores / len(physicalIDs)
	}
}

// detectSysRAMGB has no Linux implementation; /proc/meminfo covers it.
func detectSysRAMGB() float64 { return 0 }
