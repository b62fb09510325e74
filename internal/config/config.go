// Package config resolves the exporter's static runtime configuration.
// Precedence: CLI flags > environment variables (PRINTWATCH_*) > .env
// file > defaults. Configuration is read once at startup and never
// re-read.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Config holds all runtime configuration from CLI flags, environment
// variables, and a .env file.
type Config struct {
	// Server
	Port   string
	APIKey string

	// Collection
	Interval     time.Duration
	ProbeTimeout time.Duration

	// Probe targets
	ServiceUnit string
	USBDevice   string // "vendor:product"; empty disables the USB probe
	DiskPath    string
	ThermalZone string // sysfs temp path; empty disables the reading

	// Persistence
	DBPath string // empty disables history recording

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Load parses flags from args (excluding the program name) and merges
// them with environment and defaults.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("printwatch", flag.ContinueOnError)

	envFile := fs.String("env-file", "", "path to a .env file (default: ./.env if present)")
	port := fs.String("port", "", "listen port for the metrics endpoint")
	apiKey := fs.String("api-key", "", "API key guarding /api/v1 (empty leaves it open)")
	interval := fs.String("interval", "", "sampling interval, e.g. 30s")
	probeTimeout := fs.String("probe-timeout", "", "per-probe timeout, e.g. 5s")
	serviceUnit := fs.String("service-unit", "", "systemd unit to watch")
	usbDevice := fs.String("usb-device", "", "printer USB id as vendor:product")
	diskPath := fs.String("disk-path", "", "mount point for the disk usage gauge")
	thermalZone := fs.String("thermal-zone", "", "sysfs thermal zone temp file")
	dbPath := fs.String("db-path", "", "SQLite file for sample history (empty disables)")
	logLevel := fs.String("log-level", "", "log level: DEBUG, INFO, WARN, ERROR")
	logFormat := fs.String("log-format", "", "log format: text or json")
	logOutput := fs.String("log-output", "", "log output: stdout, stderr, or file path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	LoadEnvFile(*envFile)

	cfg := &Config{
		Port:        getValue(*port, "PRINTWATCH_PORT", "9628"),
		APIKey:      getValue(*apiKey, "PRINTWATCH_API_KEY", ""),
		ServiceUnit: getValue(*serviceUnit, "PRINTWATCH_SERVICE_UNIT", "cups"),
		USBDevice:   getValue(*usbDevice, "PRINTWATCH_USB_DEVICE", ""),
		DiskPath:    getValue(*diskPath, "PRINTWATCH_DISK_PATH", "/"),
		ThermalZone: getValue(*thermalZone, "PRINTWATCH_THERMAL_ZONE", "/sys/class/thermal/thermal_zone0/temp"),
		DBPath:      getValue(*dbPath, "PRINTWATCH_DB_PATH", ""),
		LogLevel:    getValue(*logLevel, "PRINTWATCH_LOG_LEVEL", "INFO"),
		LogFormat:   getValue(*logFormat, "PRINTWATCH_LOG_FORMAT", "text"),
		LogOutput:   getValue(*logOutput, "PRINTWATCH_LOG_OUTPUT", "stdout"),
	}

	var err error
	cfg.Interval, err = getDuration(*interval, "PRINTWATCH_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid interval: %w", err)
	}
	cfg.ProbeTimeout, err = getDuration(*probeTimeout, "PRINTWATCH_PROBE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid probe-timeout: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present and coherent.
func (c *Config) Validate() error {
	if c.Port == "" {
		return &ConfigError{Field: "port", Message: "listen port is required"}
	}
	if c.Interval <= 0 {
		return &ConfigError{Field: "interval", Message: "sampling interval must be positive"}
	}
	if c.ProbeTimeout <= 0 {
		return &ConfigError{Field: "probe-timeout", Message: "probe timeout must be positive"}
	}
	if c.ProbeTimeout >= c.Interval {
		return &ConfigError{Field: "probe-timeout", Message: "probe timeout must be shorter than the sampling interval"}
	}
	if c.ServiceUnit == "" {
		return &ConfigError{Field: "service-unit", Message: "service unit is required"}
	}
	return nil
}

// getValue returns the first non-empty value from CLI flag, env var, or default
func getValue(cliValue, envKey, defaultValue string) string {
	if cliValue != "" {
		return cliValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getDuration resolves a duration with the same precedence as getValue.
func getDuration(cliValue, envKey string, defaultValue time.Duration) (time.Duration, error) {
	raw := getValue(cliValue, envKey, "")
	if raw == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(raw)
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
