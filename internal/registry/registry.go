// Package registry holds the current value of every exported metric.
//
// The registry is the only shared mutable state between the collection
// loop and the HTTP scrape handler. Writers apply whole sample batches
// under one lock, so a concurrent Snapshot sees either all of a batch's
// updates or none of them.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind represents the kind of metric
type Kind string

const (
	Gauge   Kind = "gauge"
	Counter Kind = "counter"
)

// ErrInvalidDelta is returned when a counter is incremented by a
// negative amount. The stored value is left unchanged.
var ErrInvalidDelta = errors.New("counter delta must not be negative")

// Sample is a single metric update produced by one collection pass.
// For gauges Value is the new reading; for counters it is the amount
// to add to the accumulated total.
type Sample struct {
	Name   string
	Kind   Kind
	Labels map[string]string
	Value  float64
	Help   string
}

// Metric is the current state of one (name, labels) series.
type Metric struct {
	Name   string
	Kind   Kind
	Labels map[string]string
	Value  float64
	Help   string
}

// Registry is a thread-safe store of current metric values keyed by
// (name, label set). Series are never removed; a series whose source
// stopped reporting keeps its last value.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Metric
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*Metric),
	}
}

// Set overwrites or creates a gauge series.
func (r *Registry) Set(name string, labels map[string]string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setUnsynced(Sample{Name: name, Kind: Gauge, Labels: labels, Value: value})
}

// Add accumulates delta onto a counter series, creating it at zero
// first if needed. A negative delta is rejected with ErrInvalidDelta.
func (r *Registry) Add(name string, labels map[string]string, delta float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addUnsynced(Sample{Name: name, Kind: Counter, Labels: labels, Value: delta})
}

// Apply applies a whole sample batch under one lock. Gauge samples
// overwrite, counter samples accumulate. Invalid samples (negative
// counter deltas) are skipped and reported in the returned error; the
// remaining samples are still applied. Readers never observe a
// partially-applied batch.
func (r *Registry) Apply(batch []Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, s := range batch {
		switch s.Kind {
		case Counter:
			if err := r.addUnsynced(s); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			}
		default:
			r.setUnsynced(s)
		}
	}
	return errors.Join(errs...)
}

// Snapshot returns a consistent copy of every series, sorted by name
// then label set. The result is detached from the registry and safe to
// use without locking.
func (r *Registry) Snapshot() []Metric {
	r.mu.RLock()
	out := make([]Metric, 0, len(r.entries))
	for _, m := range r.entries {
		out = append(out, Metric{
			Name:   m.Name,
			Kind:   m.Kind,
			Labels: copyLabels(m.Labels),
			Value:  m.Value,
			Help:   m.Help,
		})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return labelKey(out[i].Labels) < labelKey(out[j].Labels)
	})
	return out
}

func (r *Registry) setUnsynced(s Sample) {
	key := seriesKey(s.Name, s.Labels)
	m, ok := r.entries[key]
	if !ok {
		m = &Metric{
			Name:   s.Name,
			Kind:   s.Kind,
			Labels: copyLabels(s.Labels),
			Help:   s.Help,
		}
		r.entries[key] = m
	}
	m.Value = s.Value
	if m.Help == "" {
		m.Help = s.Help
	}
}

func (r *Registry) addUnsynced(s Sample) error {
	if s.Value < 0 {
		return ErrInvalidDelta
	}
	key := seriesKey(s.Name, s.Labels)
	m, ok := r.entries[key]
	if !ok {
		m = &Metric{
			Name:   s.Name,
			Kind:   Counter,
			Labels: copyLabels(s.Labels),
			Help:   s.Help,
		}
		r.entries[key] = m
	}
	m.Value += s.Value
	if m.Help == "" {
		m.Help = s.Help
	}
	return nil
}

// seriesKey builds the map key for a (name, labels) pair. Labels are
// sorted so the key does not depend on map iteration order.
func seriesKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	return name + "{" + labelKey(labels) + "}"
}

func labelKey(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
	}
	return b.String()
}

func copyLabels(labels map[string]string) map[string]string {
	if len(labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}
