// Package propulsion advances per-engine spool-lag state and converts
// throttle plus air data into thrust and fuel flow.
package propulsion

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/kestrel-sim/kestrel/internal/fdm"
)

// SeaLevelDensity is the ISA sea-level air density used as the reference
// for thrust lapse, kg/m^3.
const SeaLevelDensity = 1.225

// speedOfSound is a fixed reference for the Mach thrust correction, m/s.
const speedOfSound = 340.3

// EngineConfig is the static description of one engine.
type EngineConfig struct {
	Position      mgl64.Vec3 `yaml:"position"`        // body frame, m
	MaxThrust     float64    `yaml:"max_thrust"`      // sea-level static, N
	MinThrust     float64    `yaml:"min_thrust"`      // sea-level idle, N
	TSFC          float64    `yaml:"tsfc"`            // kg/s per N
	SpoolUpTime   float64    `yaml:"spool_up_time"`   // s
	SpoolDownTime float64    `yaml:"spool_down_time"` // s
	MachLapse     float64    `yaml:"mach_lapse"`      // thrust loss per unit Mach
}

// available returns the density/Mach-corrected thrust limits.
func (c EngineConfig) available(density, airspeed float64) (min, max float64) {
	factor := density / SeaLevelDensity * (1 - c.MachLapse*airspeed/speedOfSound)
	if factor < 0 {
		factor = 0
	}
	return c.MinThrust * factor, c.MaxThrust * factor
}

// thrust interpolates the corrected thrust limits by spool fraction.
func (c EngineConfig) thrust(fraction, density, airspeed float64) float64 {
	min, max := c.available(density, airspeed)
	return min + fraction*(max-min)
}

// Step advances one engine by dt toward the commanded power lever and
// returns the resulting body-frame thrust force, applied at the engine's
// configured position.
//
// The spool model is a first-order exponential lag with asymmetric up/down
// time constants; thrust fraction moves monotonically toward its target and
// stays in [0, 1] for any dt > 0.
func Step(s *fdm.EngineState, cfg EngineConfig, lever, density, airspeed, dt float64) fdm.Force {
	s.PowerLever = lever
	s.Running = lever > 0

	target := 0.0
	if s.Running {
		target = lever
	}

	tc := cfg.SpoolDownTime
	if target > s.ThrustFraction {
		tc = cfg.SpoolUpTime
	}
	if tc > 0 {
		step := (dt / tc) * (target - s.ThrustFraction)
		// dt larger than the time constant would overshoot; land on target.
		if dt >= tc {
			step = target - s.ThrustFraction
		}
		s.ThrustFraction += step
	} else {
		s.ThrustFraction = target
	}
	if s.ThrustFraction < 0 {
		s.ThrustFraction = 0
	} else if s.ThrustFraction > 1 {
		s.ThrustFraction = 1
	}

	thrust := cfg.thrust(s.ThrustFraction, density, airspeed)
	if s.Running {
		s.FuelFlow = thrust * cfg.TSFC * (1 + 0.2*s.ThrustFraction)
	} else {
		s.FuelFlow = 0
	}

	return thrustForce(thrust, cfg.Position)
}

// Steady snapshots the engine directly to the steady state implied by the
// commanded lever, bypassing spool lag. The trim solver evaluates engines
// this way and applies the snapshot when a solve succeeds.
func Steady(s *fdm.EngineState, cfg EngineConfig, lever, density, airspeed float64) fdm.Force {
	s.PowerLever = lever
	s.Running = lever > 0
	if s.Running {
		s.ThrustFraction = lever
	} else {
		s.ThrustFraction = 0
	}

	thrust := cfg.thrust(s.ThrustFraction, density, airspeed)
	if s.Running {
		s.FuelFlow = thrust * cfg.TSFC * (1 + 0.2*s.ThrustFraction)
	} else {
		s.FuelFlow = 0
	}
	return thrustForce(thrust, cfg.Position)
}

func thrustForce(thrust float64, position mgl64.Vec3) fdm.Force {
	return fdm.Force{
		Vector:   mgl64.Vec3{thrust, 0, 0},
		Point:    position,
		HasPoint: true,
		Frame:    fdm.FrameBody,
		Category: fdm.CategoryPropulsive,
	}
}
