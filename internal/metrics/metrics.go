// Package metrics computes summary figures over recorded run samples.
package metrics

import "github.com/kestrel-sim/kestrel/internal/world"

// Metric accumulates one figure over a stream of run samples.
type Metric interface {
	Name() string
	Observe(s world.Sample)
	Value() float64
	Reset()
}

// Compute resets the metrics, feeds every sample through them and returns
// the results keyed by name.
func Compute(samples []world.Sample, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for i := range samples {
		for _, m := range ms {
			m.Observe(samples[i])
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
