package probe

import (
	"bufio"
	"context"
	"strings"

	"printwatch-v0/internal/registry"
)

// PrinterProbe reports per-printer availability from `lpstat -p`.
type PrinterProbe struct {
	runner Runner
}

// NewPrinterProbe creates a probe over the CUPS printer list.
func NewPrinterProbe(runner Runner) *PrinterProbe {
	return &PrinterProbe{runner: runner}
}

func (p *PrinterProbe) Name() string {
	return "printer"
}

func (p *PrinterProbe) Collect(ctx context.Context) ([]registry.Sample, error) {
	out, err := p.runner.Run(ctx, "lpstat", "-p")
	if err != nil {
		return nil, err
	}

	var samples []registry.Sample
	for name, up := range parsePrinters(string(out)) {
		value := 0.0
		if up {
			value = 1
		}
		samples = append(samples, registry.Sample{
			Name:   "printer_up",
			Kind:   registry.Gauge,
			Labels: map[string]string{"printer": name},
			Value:  value,
			Help:   "Whether the printer is enabled in CUPS (1) or disabled (0).",
		})
	}
	return samples, nil
}

// parsePrinters reads `lpstat -p` output. Each printer produces a line
// like "printer HP_LaserJet is idle.  enabled since ..." or
// "printer HP_LaserJet disabled since ...". Continuation lines (the
// reason a printer is disabled) are indented and skipped.
func parsePrinters(out string) map[string]bool {
	printers := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "printer" {
			continue
		}
		name := fields[1]
		printers[name] = !strings.Contains(line, "disabled")
	}
	return printers
}

// QueueProbe reports the number of queued print jobs from `lpstat -o`.
type QueueProbe struct {
	runner Runner
}

// NewQueueProbe creates a probe over the CUPS job queue.
func NewQueueProbe(runner Runner) *QueueProbe {
	return &QueueProbe{runner: runner}
}

func (p *QueueProbe) Name() string {
	return "queue"
}

func (p *QueueProbe) Collect(ctx context.Context) ([]registry.Sample, error) {
	out, err := p.runner.Run(ctx, "lpstat", "-o")
	if err != nil {
		return nil, err
	}

	// One line per queued job; an empty queue prints nothing.
	count := 0
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}

	return []registry.Sample{
		{
			Name:  "queue_length",
			Kind:  registry.Gauge,
			Value: float64(count),
			Help:  "Number of jobs currently queued in CUPS.",
		},
	}, nil
}
