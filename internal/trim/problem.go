// Package trim searches for the longitudinal control/attitude combination
// that zeroes net force and moment for a target flight condition.
package trim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kestrel-sim/kestrel/internal/aero"
	"github.com/kestrel-sim/kestrel/internal/airdata"
	"github.com/kestrel-sim/kestrel/internal/dynamics"
	"github.com/kestrel-sim/kestrel/internal/fdm"
	"github.com/kestrel-sim/kestrel/internal/propulsion"
)

// Target is the steady flight condition to trim for: straight and level at
// Airspeed, or a steady climb when FlightPathAngle is nonzero (rad,
// positive up).
type Target struct {
	Airspeed        float64
	FlightPathAngle float64
}

// Bounds are the clamp ranges for the trim parameters, [lo, hi].
type Bounds struct {
	Alpha    [2]float64 `yaml:"alpha"`    // rad
	Elevator [2]float64 `yaml:"elevator"` // normalized
	Throttle [2]float64 `yaml:"throttle"` // normalized
	Theta    [2]float64 `yaml:"theta"`    // rad
}

// DefaultBounds covers the usual longitudinal envelope.
func DefaultBounds() Bounds {
	return Bounds{
		Alpha:    [2]float64{-0.3, 0.35},
		Elevator: [2]float64{-1, 1},
		Throttle: [2]float64{0, 1},
		Theta:    [2]float64{-0.5, 0.5},
	}
}

// Config tunes the solver.
type Config struct {
	Bounds        Bounds     `yaml:"bounds"`
	MaxIterations int        `yaml:"max_iterations"`
	CostTolerance float64    `yaml:"cost_tolerance"`
	InitialGuess  [3]float64 `yaml:"initial_guess"` // alpha, elevator, power lever
}

// DefaultConfig returns solver settings that converge for conventional
// fixed-wing configurations.
func DefaultConfig() Config {
	return Config{
		Bounds:        DefaultBounds(),
		MaxIterations: 200,
		CostTolerance: 0.01,
		InitialGuess:  [3]float64{0.05, 0, 0.4},
	}
}

// Problem wraps the force pipeline as a cost function over the parameter
// vector [alpha, elevator, power lever].
type Problem struct {
	Aero        aero.Model
	Engines     []propulsion.EngineConfig
	Mass        float64
	Gravity     mgl64.Vec3
	Density     float64 // at the trim altitude
	MinAirspeed float64
	Bounds      Bounds
	Target      Target
}

// Residual cost weights. Empirical tuning constants, not physical units.
const (
	pitchMomentScale = 10000.0
	verticalScale    = 10000.0
	horizontalScale  = 5000.0
)

func clampTo(v float64, r [2]float64) float64 {
	if v < r[0] {
		return r[0]
	}
	if v > r[1] {
		return r[1]
	}
	return v
}

// clampParams limits the parameter vector into the configured bounds.
func (p *Problem) clampParams(x []float64) (alpha, elevator, lever float64) {
	alpha = clampTo(x[0], p.Bounds.Alpha)
	elevator = clampTo(x[1], p.Bounds.Elevator)
	lever = clampTo(x[2], p.Bounds.Throttle)
	return alpha, elevator, lever
}

// theta derives the pitch attitude for a candidate alpha, clamped into the
// configured range.
func (p *Problem) theta(alpha float64) float64 {
	return clampTo(alpha+p.Target.FlightPathAngle, p.Bounds.Theta)
}

// evaluate runs one closed-form pass of the force pipeline for a candidate
// parameter vector and returns the net force (world) and moment (body).
func (p *Problem) evaluate(x []float64) (netForce, netMoment mgl64.Vec3) {
	alpha, elevator, lever := p.clampParams(x)

	gamma := p.Target.FlightPathAngle
	v := p.Target.Airspeed
	spatial := fdm.SpatialState{
		Velocity: mgl64.Vec3{v * math.Cos(gamma), 0, -v * math.Sin(gamma)},
		Attitude: fdm.QuatFromEuler(0, p.theta(alpha), 0),
	}

	ad := airdata.Compute(&spatial, mgl64.Vec3{}, p.Density, p.MinAirspeed)

	ctl := fdm.ControlSurfaces{Elevator: elevator, PowerLever: lever}

	body := fdm.RigidBodyState{Mass: p.Mass}
	aeroForce, aeroMoment := p.Aero.Compute(ad, spatial.AngularVelocity, ctl)
	body.AddForce(aeroForce, fdm.FrameBody, fdm.CategoryAerodynamic)
	body.AddMoment(aeroMoment, fdm.FrameBody, fdm.CategoryAerodynamic)

	// Engines evaluated in steady state: thrust fraction tracks the lever
	// directly, bypassing spool lag.
	for _, cfg := range p.Engines {
		var es fdm.EngineState
		body.Forces = append(body.Forces, propulsion.Steady(&es, cfg, lever, p.Density, ad.TrueAirspeed))
	}

	dynamics.Accumulate(&body, spatial.Attitude, p.Gravity)
	return body.NetForce, body.NetMoment
}

// Cost is the weighted sum of squared equilibrium residuals: pitch moment,
// vertical force and horizontal force.
func (p *Problem) Cost(x []float64) float64 {
	f, m := p.evaluate(x)
	cm := m.Y() / pitchMomentScale
	cz := f.Z() / verticalScale
	cx := f.X() / horizontalScale
	return cm*cm + cz*cz + cx*cx
}

// Gradient approximates dCost/dx by central finite differences.
func (p *Problem) Gradient(x []float64) []float64 {
	const eps = 1e-7
	g := make([]float64, len(x))
	xp := make([]float64, len(x))
	for i := range x {
		copy(xp, x)
		xp[i] = x[i] + eps
		fp := p.Cost(xp)
		xp[i] = x[i] - eps
		fm := p.Cost(xp)
		g[i] = (fp - fm) / (2 * eps)
	}
	return g
}
