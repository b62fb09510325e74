package probe

import (
	"context"
	"strings"

	"printwatch-v0/internal/registry"
)

// ServiceProbe reports whether a systemd unit is active.
type ServiceProbe struct {
	unit   string
	runner Runner
}

// NewServiceProbe creates a probe for the given systemd unit.
func NewServiceProbe(unit string, runner Runner) *ServiceProbe {
	return &ServiceProbe{
		unit:   unit,
		runner: runner,
	}
}

func (p *ServiceProbe) Name() string {
	return "service"
}

// Collect runs `systemctl is-active <unit>`. systemctl exits non-zero
// for every state except "active", so a non-zero exit with output is a
// valid "down" answer, not a probe failure.
func (p *ServiceProbe) Collect(ctx context.Context) ([]registry.Sample, error) {
	out, err := p.runner.Run(ctx, "systemctl", "is-active", p.unit)
	state := strings.TrimSpace(string(out))

	if err != nil && state == "" {
		return nil, err
	}

	var up float64
	if state == "active" {
		up = 1
	}

	return []registry.Sample{
		{
			Name:  "service_up",
			Kind:  registry.Gauge,
			Value: up,
			Help:  "Whether the print service unit is active (1) or not (0).",
		},
	}, nil
}
