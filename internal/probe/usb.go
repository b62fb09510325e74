package probe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"printwatch-v0/internal/registry"
)

// DefaultSysfsUSBPath is where the kernel exposes enumerated USB
// devices.
const DefaultSysfsUSBPath = "/sys/bus/usb/devices"

// USBProbe reports whether a specific USB device (the printer) is
// present on the bus, identified by its vendor:product id as printed
// by lsusb.
type USBProbe struct {
	deviceID string // "04a9:220e"
	root     string
}

// NewUSBProbe creates a probe looking for deviceID under root
// (DefaultSysfsUSBPath outside tests).
func NewUSBProbe(deviceID, root string) *USBProbe {
	if root == "" {
		root = DefaultSysfsUSBPath
	}
	return &USBProbe{
		deviceID: strings.ToLower(deviceID),
		root:     root,
	}
}

func (p *USBProbe) Name() string {
	return "usb"
}

func (p *USBProbe) Collect(ctx context.Context) ([]registry.Sample, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		return nil, fmt.Errorf("scan usb devices: %w", err)
	}

	present := 0.0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vendor, err := readSysfsValue(filepath.Join(p.root, entry.Name(), "idVendor"))
		if err != nil {
			// Interfaces and hubs without idVendor are expected here.
			continue
		}
		product, err := readSysfsValue(filepath.Join(p.root, entry.Name(), "idProduct"))
		if err != nil {
			continue
		}

		if strings.ToLower(vendor+":"+product) == p.deviceID {
			present = 1
			break
		}
	}

	return []registry.Sample{
		{
			Name:   "device_present",
			Kind:   registry.Gauge,
			Labels: map[string]string{"device": p.deviceID},
			Value:  present,
			Help:   "Whether the printer USB device is present on the bus (1) or not (0).",
		},
	}, nil
}

func readSysfsValue(path string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(contents)), nil
}
