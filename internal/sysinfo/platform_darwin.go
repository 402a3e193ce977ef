//go:build darwin

package sysinfo

import "golang.org/x/sys/unix"

// detectPlatformCPU reads the CPU brand string and physical core count
// via sysctl.
func detectPlatformCPU(i *Info) {
	if brand, err := unix.Sysctl("machdep.cpu.brand_string"); err == nil && brand != "" {
		i.CPUModel = brand
	}
	if n, err := unix.SysctlUint32("hw.physicalcpu"); err == nil && n > 0 {
		i.PhysicalCores = int(n)
	}
}

// detectSysRAMGB reads total physical RAM on macOS via sysctl hw.memsize.
func detectSysRAMGB() float64 {
	b, err := unix.SysctlRaw("hw.memsize")
	if err != nil || len(b) < 8 {
		return 0
	}
	// hw.memsize is a uint64 in native byte order.
	var bytes uint64
	for i := 0; i < 8; i++ {
		bytes |= uint64(b[i]) << (8 * i)
	}
	return float64(bytes) / 1e9
}
