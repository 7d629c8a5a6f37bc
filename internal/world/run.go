package world

import (
	"context"
	"fmt"

	"github.com/kestrel-sim/kestrel/internal/fdm"
)

// RunConfig controls a recorded simulation run.
type RunConfig struct {
	Dt            float64
	Duration      float64
	ValidateState bool

	// PreStep, when set, runs before every tick. Control loops hook in
	// here to write surfaces the upcoming step will see.
	PreStep func(dt float64)
}

// Sample is one recorded tick of a tracked entity.
type Sample struct {
	Time     float64
	Spatial  fdm.SpatialState
	Air      fdm.AirData
	Controls fdm.ControlSurfaces
	FuelFlow float64 // total across engines, kg/s
}

// RunResult collects the recorded samples of one entity over a run.
type RunResult struct {
	Samples    []Sample
	StepsTaken int
}

// Run ticks the whole world for the configured duration, recording the
// tracked entity each step. Stops early on context cancellation or, when
// validation is on, the first non-finite state.
func (w *World) Run(ctx context.Context, track EntityID, cfg RunConfig) (*RunResult, error) {
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("world: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("world: duration must be positive, got %f", cfg.Duration)
	}
	if !w.Alive(track) {
		return nil, ErrDeadEntity
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &RunResult{Samples: make([]Sample, 0, steps+1)}
	result.Samples = append(result.Samples, w.sample(track, 0))

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if cfg.PreStep != nil {
			cfg.PreStep(cfg.Dt)
		}
		w.Step(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState && !w.Spatial(track).IsFinite() {
			return result, fmt.Errorf("world: non-finite state at t=%.4f", t)
		}
		result.Samples = append(result.Samples, w.sample(track, t))
	}
	return result, nil
}

func (w *World) sample(id EntityID, t float64) Sample {
	e := w.get(id)
	fuel := 0.0
	for i := range e.engines {
		fuel += e.engines[i].FuelFlow
	}
	return Sample{
		Time:     t,
		Spatial:  e.spatial,
		Air:      e.air,
		Controls: e.controls,
		FuelFlow: fuel,
	}
}
