// Package sysprobe reads process and system level metrics from the proc
// filesystem, with runtime fallbacks where a probe is unavailable.
package sysprobe

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

const (
	procSelfStatus = "/proc/self/status"
	procLoadAvg    = "/proc/loadavg"
)

// PeakRSSBytes returns the peak resident set size of the current process in
// bytes. It prefers the kernel's VmHWM accounting and falls back to the Go
// runtime's reserved memory when the proc filesystem is unavailable.
func PeakRSSBytes() uint64 {
	if data, err := os.ReadFile(procSelfStatus); err == nil {
		if peak, err := parseVmHWM(data); err == nil {
			return peak
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	return memStats.Sys
}

// Load1 returns the one minute system load average. The boolean is false when
// the value cannot be determined (non-Linux hosts, restricted containers).
func Load1() (float64, bool) {
	data, err := os.ReadFile(procLoadAvg)
	if err != nil {
		return 0, false
	}
	load, err := parseLoadAvg(data)
	if err != nil {
		return 0, false
	}
	return load, true
}

// parseVmHWM extracts the VmHWM value from /proc/self/status content and
// converts it from kB to bytes.
func parseVmHWM(data []byte) (uint64, error) {
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "VmHWM:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, fmt.Errorf("malformed VmHWM line: %q", line)
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed VmHWM value: %q", fields[1])
		}
		return kb * 1024, nil
	}
	return 0, fmt.Errorf("VmHWM not present")
}

// parseLoadAvg extracts the first field of /proc/loadavg.
func parseLoadAvg(data []byte) (float64, error) {
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty loadavg")
	}
	load, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed loadavg value: %q", fields[0])
	}
	if load < 0 {
		return 0, fmt.Errorf("negative loadavg value: %v", load)
	}
	return load, nil
}
