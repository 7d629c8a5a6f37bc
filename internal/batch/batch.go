// Package batch runs independent trim solves in parallel, one worker per
// flight condition. Each point gets its own solver, so the workers share
// nothing but the airframe definition they read.
package batch

import (
	"context"
	"sync"

	"github.com/kestrel-sim/kestrel/internal/config"
	"github.com/kestrel-sim/kestrel/internal/env"
	"github.com/kestrel-sim/kestrel/internal/trim"
)

// Point is one solved condition of a sweep.
type Point struct {
	Airspeed float64
	Result   trim.Result
	Err      error
}

// Range builds n evenly spaced values from lo to hi inclusive.
func Range(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	vals := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range vals {
		vals[i] = lo + float64(i)*step
	}
	return vals
}

// TrimSweep solves the trim problem at ISA density for the given altitude
// across a set of airspeeds. Points are returned in input order; a
// cancelled context marks the remaining points with the context error.
func TrimSweep(ctx context.Context, ac *config.Aircraft, altitude float64, airspeeds []float64) []Point {
	density := env.ISADensity(altitude)
	points := make([]Point, len(airspeeds))

	var wg sync.WaitGroup
	for i, v := range airspeeds {
		wg.Add(1)
		go func(idx int, airspeed float64) {
			defer wg.Done()

			points[idx].Airspeed = airspeed
			select {
			case <-ctx.Done():
				points[idx].Err = ctx.Err()
				return
			default:
			}

			solver := trim.NewSolver(ac.TrimProblem(density), ac.Trim)
			points[idx].Result, points[idx].Err = solver.Solve(trim.Target{Airspeed: airspeed}, nil)
		}(i, v)
	}
	wg.Wait()

	return points
}
