// Package collector drives the periodic sampling cycle: run every
// probe, apply the resulting batch to the registry atomically, fan the
// batch out to optional sinks, sleep, repeat.
package collector

import (
	"context"
	"fmt"
	"time"

	"printwatch-v0/internal/infrastructure/logger"
	"printwatch-v0/internal/probe"
	"printwatch-v0/internal/registry"
)

// Sink receives every applied sample batch, for recording history
// outside the registry. Sink failures are logged and never stop the
// loop.
type Sink interface {
	Emit(ctx context.Context, at time.Time, batch []registry.Sample) error
}

// Collector owns the single collection loop of the process.
type Collector struct {
	logger       *logger.Logger
	reg          *registry.Registry
	probes       []probe.Probe
	sinks        []Sink
	interval     time.Duration
	probeTimeout time.Duration
	backoff      time.Duration
}

// New creates a collector. probeTimeout bounds each probe's external
// queries so a hung command cannot stall the cycle.
func New(log *logger.Logger, reg *registry.Registry, probes []probe.Probe, sinks []Sink, interval, probeTimeout time.Duration) *Collector {
	backoff := interval / 4
	if backoff > 5*time.Second {
		backoff = 5 * time.Second
	}
	return &Collector{
		logger:       log,
		reg:          reg,
		probes:       probes,
		sinks:        sinks,
		interval:     interval,
		probeTimeout: probeTimeout,
		backoff:      backoff,
	}
}

// Run executes collection passes until ctx is cancelled. One pass runs
// immediately so the registry has data before the first tick; after
// that passes are spaced by the configured interval. A pass that
// overruns the interval simply delays the next one, there is no
// catch-up burst and never more than one pass in flight. A failed pass
// is followed by a short backoff instead of killing the loop.
func (c *Collector) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	if err := c.runOnce(ctx); err != nil {
		c.logger.Error("Collection pass failed", "err", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := c.runOnce(ctx); err != nil {
				c.logger.Error("Collection pass failed", "err", err)
				if !c.sleep(ctx, c.backoff) {
					return
				}
			}
		case <-ctx.Done():
			c.logger.Info("Collection loop stopped")
			return
		}
	}
}

// runOnce executes one full pass. Panics are recovered here so a
// single bad iteration cannot take the process down.
func (c *Collector) runOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collection pass panicked: %v", r)
		}
	}()

	start := time.Now()
	batch := make([]registry.Sample, 0, len(c.probes)*2)

	for _, p := range c.probes {
		samples, perr := c.collectOne(ctx, p)
		batch = append(batch, samples...)
		if perr != nil {
			c.logger.Warn("Probe failed", "probe", p.Name(), "err", perr)
			batch = append(batch, registry.Sample{
				Name:   "probe_failures_total",
				Kind:   registry.Counter,
				Labels: map[string]string{"probe": p.Name()},
				Value:  1,
				Help:   "Number of times a probe failed to collect.",
			})
		}
		if ctx.Err() != nil {
			// Shutting down mid-pass; abandon the batch rather than
			// publish readings cut short by cancellation.
			return nil
		}
	}

	batch = append(batch, registry.Sample{
		Name:  "samples_collected_total",
		Kind:  registry.Counter,
		Value: float64(len(batch)),
		Help:  "Total number of samples collected.",
	})

	if aerr := c.reg.Apply(batch); aerr != nil {
		c.logger.Error("Failed to apply sample batch", "err", aerr)
	}

	for _, sink := range c.sinks {
		if serr := sink.Emit(ctx, start, batch); serr != nil {
			c.logger.Warn("Sink rejected batch", "err", serr)
		}
	}

	c.logger.Debug("Collection pass complete",
		"samples", len(batch),
		"elapsed", time.Since(start),
	)
	return nil
}

// collectOne runs a single probe under its own timeout.
func (c *Collector) collectOne(ctx context.Context, p probe.Probe) ([]registry.Sample, error) {
	pctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()
	return p.Collect(pctx)
}

// sleep waits for d, returning false if ctx was cancelled first.
func (c *Collector) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
