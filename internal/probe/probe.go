// Package probe implements the individual measurements the collector
// runs each cycle. Every probe is an independent failure domain: it
// queries read-only external state (a subprocess, sysfs, procfs) and
// returns samples or an error, never touching the registry itself.
package probe

import (
	"context"
	"os/exec"

	"printwatch-v0/internal/registry"
)

// Probe is one named measurement with its own failure boundary.
type Probe interface {
	// Name identifies the probe in logs and failure counters.
	Name() string
	// Collect queries external state and returns the resulting
	// samples. A probe may return partial samples together with an
	// error when only some of its readings failed.
	Collect(ctx context.Context) ([]registry.Sample, error)
}

// Runner abstracts subprocess execution so probes can be tested
// without the underlying commands installed.
type Runner interface {
	// Run executes the command and returns its stdout. The command is
	// killed when ctx expires.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
