package world

import (
	"github.com/kestrel-sim/kestrel/internal/airdata"
	"github.com/kestrel-sim/kestrel/internal/trim"
)

// Trim solves the longitudinal trim problem for an entity at its current
// altitude and applies the result atomically on success. It is a
// synchronous, long-running call; the entity's controls are left unmodified
// when the solve fails.
func (w *World) Trim(id EntityID, target trim.Target) (trim.Result, error) {
	e := w.get(id)
	if e == nil {
		return trim.Result{}, ErrDeadEntity
	}

	density := w.environment.DensityAt(e.spatial.Position)
	solver := trim.NewSolver(e.aircraft.TrimProblem(density), e.aircraft.Trim)

	res, err := solver.Solve(target, nil)
	if err != nil {
		return trim.Result{}, err
	}

	trim.Apply(res, &e.spatial, &e.controls, e.engines)

	// Refresh air data so observers see the post-trim condition without
	// waiting for the next tick.
	wind := w.environment.WindAt(e.spatial.Position)
	e.air = airdata.Compute(&e.spatial, wind, density, e.aircraft.Limits.MinAirspeed)

	return res, nil
}
