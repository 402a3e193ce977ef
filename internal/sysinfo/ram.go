package sysinfo

import (
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// AvailableRAMGB returns the RAM available to the current process in
// gigabytes.
//
// Priority order (highest to lowest):
//  1. cgroup v2 memory limit (/sys/fs/cgroup/memory.max) — containers
//  2. cgroup v1 memory limit (/sys/fs/cgroup/memory/memory.limit_in_bytes)
//  3. /proc/meminfo MemTotal — Linux host RAM
//  4. Platform sysctl (macOS hw.memsize)
//  5. Go runtime Sys bytes or 8 GB default
//
// Reading the cgroup limit before /proc/meminfo means a container with
// --memory=1g correctly reports 1 GB instead of the host's 64 GB.
func AvailableRAMGB() float64 {
	if gb := readCgroupV2MemLimit(); gb > 0 {
		return gb
	}
	if gb := readCgroupV1MemLimit(); gb > 0 {
		return gb
	}
	if gb := readProcMeminfo(); gb > 0 {
		return gb
	}
	if gb := detectSysRAMGB(); gb > 0 {
		return gb
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	gb := float64(ms.Sys) / 1e9
	if gb < 1 {
		return 8
	}
	return gb
}

// readCgroupV2MemLimit reads the memory limit from cgroup v2.
// Returns 0 if the file is absent, "max" (unlimited), or unparseable.
func readCgroupV2MemLimit() float64 {
	data, err := os.ReadFile("/sys/fs/cgroup/memory.max")
	if err != nil {
		return 0
	}
	s := strings.TrimSpace(string(data))
	if s == "max" || s == "" {
		return 0
	}
	bytes, err := strconv.ParseInt(s, 10, 64)
	if err != nil || bytes <= 0 {
		return 0
	}
	return float64(bytes) / 1e9
}

// readCgroupV1MemLimit reads the memory limit from cgroup v1.
// Returns 0 if absent, at the kernel's "no limit" sentinel, or
// unparseable.
func readCgroupV1MemLimit() float64 {
	data, err := os.ReadFile("/sys/fs/cgroup/memory/memory.limit_in_bytes")
	if err != nil {
		return 0
	}
	bytes, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || bytes <= 0 {
		return 0
	}
	// Anything above 4 PiB is effectively unlimited.
	const maxSentinel = 4 * 1024 * 1024 * 1024 * 1024 * 1024
	if bytes >= maxSentinel {
		return 0
	}
	return float64(bytes) / 1e9
}

// readProcMeminfo reads MemTotal from /proc/meminfo (Linux / Docker).
func readProcMeminfo() float64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return float64(kb) / (1024 * 1024)
	}
	return 0
}
