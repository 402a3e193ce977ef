//go:build !linux && !darwin

package sysinfo

// detectPlatformCPU is a no-op on platforms without a cheap probe;
// runtime defaults stand.
func detectPlatformCPU(_ *Info) {}

func detectSysRAMGB() float64 { return 0 }
