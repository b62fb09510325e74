package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"printwatch-v0/internal/registry"
)

// SystemProbe reads host resource gauges: load average, memory and
// disk usage, and the SoC temperature. Each reading is independent;
// a missing sensor fails that reading only and the rest of the batch
// is still returned alongside the joined error.
type SystemProbe struct {
	LoadavgPath string
	MeminfoPath string
	ThermalPath string
	DiskPath    string

	// statfs is swappable for tests.
	statfs func(path string, st *syscall.Statfs_t) error
}

// NewSystemProbe creates a probe with the usual procfs/sysfs paths.
// thermalPath may be empty on boards without a thermal zone, which
// disables the temperature reading.
func NewSystemProbe(diskPath, thermalPath string) *SystemProbe {
	return &SystemProbe{
		LoadavgPath: "/proc/loadavg",
		MeminfoPath: "/proc/meminfo",
		ThermalPath: thermalPath,
		DiskPath:    diskPath,
		statfs:      syscall.Statfs,
	}
}

func (p *SystemProbe) Name() string {
	return "system"
}

func (p *SystemProbe) Collect(ctx context.Context) ([]registry.Sample, error) {
	var samples []registry.Sample
	var errs []error

	if load, err := p.readLoadAvg(); err != nil {
		errs = append(errs, fmt.Errorf("loadavg: %w", err))
	} else {
		samples = append(samples, registry.Sample{
			Name:  "cpu_load1",
			Kind:  registry.Gauge,
			Value: load,
			Help:  "1-minute load average.",
		})
	}

	if used, err := p.readMemoryUsedPercent(); err != nil {
		errs = append(errs, fmt.Errorf("meminfo: %w", err))
	} else {
		samples = append(samples, registry.Sample{
			Name:  "memory_used_percent",
			Kind:  registry.Gauge,
			Value: used,
			Help:  "Percentage of memory in use.",
		})
	}

	if p.DiskPath != "" {
		if used, err := p.readDiskUsedPercent(); err != nil {
			errs = append(errs, fmt.Errorf("statfs %s: %w", p.DiskPath, err))
		} else {
			samples = append(samples, registry.Sample{
				Name:   "disk_used_percent",
				Kind:   registry.Gauge,
				Labels: map[string]string{"path": p.DiskPath},
				Value:  used,
				Help:   "Percentage of disk space in use.",
			})
		}
	}

	if p.ThermalPath != "" {
		if temp, err := p.readTemperature(); err != nil {
			errs = append(errs, fmt.Errorf("thermal: %w", err))
		} else {
			samples = append(samples, registry.Sample{
				Name:  "cpu_temperature_celsius",
				Kind:  registry.Gauge,
				Value: temp,
				Help:  "SoC temperature in degrees Celsius.",
			})
		}
	}

	return samples, errors.Join(errs...)
}

// readLoadAvg reads the 1-minute load average from /proc/loadavg
func (p *SystemProbe) readLoadAvg() (float64, error) {
	contents, err := os.ReadFile(p.LoadavgPath)
	if err != nil {
		return 0, err
	}

	values := strings.Fields(string(contents))
	if len(values) == 0 {
		return 0, fmt.Errorf("invalid format in %s", p.LoadavgPath)
	}

	return strconv.ParseFloat(values[0], 64)
}

// readMemoryUsedPercent derives usage from MemTotal and MemAvailable
// in /proc/meminfo.
func (p *SystemProbe) readMemoryUsedPercent() (float64, error) {
	contents, err := os.ReadFile(p.MeminfoPath)
	if err != nil {
		return 0, err
	}

	var total, available float64
	for _, line := range strings.Split(string(contents), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = value
		case "MemAvailable:":
			available = value
		}
	}

	if total <= 0 {
		return 0, fmt.Errorf("MemTotal missing in %s", p.MeminfoPath)
	}
	return (total - available) / total * 100, nil
}

func (p *SystemProbe) readDiskUsedPercent() (float64, error) {
	var st syscall.Statfs_t
	if err := p.statfs(p.DiskPath, &st); err != nil {
		return 0, err
	}
	if st.Blocks == 0 {
		return 0, fmt.Errorf("filesystem reports zero blocks")
	}
	used := float64(st.Blocks-st.Bavail) / float64(st.Blocks) * 100
	return used, nil
}

// readTemperature reads a sysfs thermal zone, which reports
// millidegrees.
func (p *SystemProbe) readTemperature() (float64, error) {
	contents, err := os.ReadFile(p.ThermalPath)
	if err != nil {
		return 0, err
	}

	milli, err := strconv.ParseFloat(strings.TrimSpace(string(contents)), 64)
	if err != nil {
		return 0, err
	}
	return milli / 1000, nil
}
