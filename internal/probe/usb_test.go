package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeSysfsDevice(t *testing.T, root, name, vendor, product string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "idVendor"), []byte(vendor+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "idProduct"), []byte(product+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestUSBProbe_Collect(t *testing.T) {
	tests := []struct {
		name     string
		deviceID string
		expected float64
	}{
		{
			name:     "device present",
			deviceID: "04a9:220e",
			expected: 1,
		},
		{
			name:     "device absent",
			deviceID: "ffff:0000",
			expected: 0,
		},
		{
			name:     "case insensitive match",
			deviceID: "04A9:220E",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeSysfsDevice(t, root, "1-1", "1d6b", "0002")
			writeSysfsDevice(t, root, "1-1.2", "04a9", "220e")
			// Interface entries have no idVendor/idProduct.
			if err := os.MkdirAll(filepath.Join(root, "1-1.2:1.0"), 0755); err != nil {
				t.Fatal(err)
			}

			p := NewUSBProbe(tt.deviceID, root)
			samples, err := p.Collect(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			sample, ok := findSample(samples, "device_present", nil)
			if !ok {
				t.Fatal("device_present sample missing")
			}
			if sample.Value != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, sample.Value)
			}
		})
	}
}

func TestUSBProbe_CollectMissingSysfs(t *testing.T) {
	p := NewUSBProbe("04a9:220e", filepath.Join(t.TempDir(), "does-not-exist"))
	if _, err := p.Collect(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
