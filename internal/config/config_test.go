package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9628" {
		t.Errorf("expected default port 9628, got %q", cfg.Port)
	}
	if cfg.Interval != 30*time.Second {
		t.Errorf("expected default interval 30s, got %v", cfg.Interval)
	}
	if cfg.ProbeTimeout != 5*time.Second {
		t.Errorf("expected default probe timeout 5s, got %v", cfg.ProbeTimeout)
	}
	if cfg.ServiceUnit != "cups" {
		t.Errorf("expected default service unit cups, got %q", cfg.ServiceUnit)
	}
	if cfg.DBPath != "" {
		t.Errorf("expected history disabled by default, got %q", cfg.DBPath)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("PRINTWATCH_PORT", "9999")
	t.Setenv("PRINTWATCH_INTERVAL", "10s")
	t.Setenv("PRINTWATCH_SERVICE_UNIT", "cupsd")

	cfg, err := Load([]string{"-port", "8081", "-interval", "15s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8081" {
		t.Errorf("flag should override env: expected 8081, got %q", cfg.Port)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("flag should override env: expected 15s, got %v", cfg.Interval)
	}
	if cfg.ServiceUnit != "cupsd" {
		t.Errorf("env should override default: expected cupsd, got %q", cfg.ServiceUnit)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	if _, err := Load([]string{"-interval", "soon"}); err == nil {
		t.Fatal("expected error for unparseable interval")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:         "9628",
			Interval:     30 * time.Second,
			ProbeTimeout: 5 * time.Second,
			ServiceUnit:  "cups",
		}
	}

	tests := []struct {
		name          string
		mutate        func(*Config)
		expectedField string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:          "missing port",
			mutate:        func(c *Config) { c.Port = "" },
			expectedField: "port",
		},
		{
			name:          "zero interval",
			mutate:        func(c *Config) { c.Interval = 0 },
			expectedField: "interval",
		},
		{
			name:          "zero probe timeout",
			mutate:        func(c *Config) { c.ProbeTimeout = 0 },
			expectedField: "probe-timeout",
		},
		{
			name:          "probe timeout not shorter than interval",
			mutate:        func(c *Config) { c.ProbeTimeout = c.Interval },
			expectedField: "probe-timeout",
		},
		{
			name:          "missing service unit",
			mutate:        func(c *Config) { c.ServiceUnit = "" },
			expectedField: "service-unit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectedField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.expectedField {
				t.Errorf("expected field %q, got %q", tt.expectedField, cfgErr.Field)
			}
		})
	}
}
