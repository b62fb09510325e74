package probe

import (
	"context"

	"printwatch-v0/internal/registry"
)

// fakeRunner returns canned output per command name.
type fakeRunner struct {
	output map[string][]byte
	err    map[string]error
	calls  []string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	key := name
	if len(args) > 0 {
		key = name + " " + args[0]
	}
	r.calls = append(r.calls, key)
	return r.output[key], r.err[key]
}

func findSample(samples []registry.Sample, name string, labels map[string]string) (registry.Sample, bool) {
	for _, s := range samples {
		if s.Name != name {
			continue
		}
		match := true
		for k, v := range labels {
			if s.Labels[k] != v {
				match = false
				break
			}
		}
		if match {
			return s, true
		}
	}
	return registry.Sample{}, false
}
