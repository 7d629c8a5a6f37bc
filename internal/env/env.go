// Package env supplies the atmospheric environment consumed by the
// flight-dynamics pipeline: wind and air density as functions of position.
package env

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Environment provides local wind and density. Positions are NED world
// coordinates; altitude is -z. Implementations must be deterministic for a
// given position so ticks stay reproducible.
type Environment interface {
	WindAt(position mgl64.Vec3) mgl64.Vec3
	DensityAt(position mgl64.Vec3) float64
}

// ISADensity returns the International Standard Atmosphere density for an
// altitude in meters, valid through the troposphere. Altitudes below zero
// clamp to sea level.
func ISADensity(altitude float64) float64 {
	if altitude < 0 {
		altitude = 0
	}
	const (
		rho0  = 1.225    // kg/m^3
		lapse = 2.2558e-5 // combined lapse term, 1/m
		expo  = 4.2559
	)
	base := 1 - lapse*altitude
	if base < 0 {
		base = 0
	}
	return rho0 * math.Pow(base, expo)
}

// Calm is still air with ISA density.
type Calm struct{}

func (Calm) WindAt(mgl64.Vec3) mgl64.Vec3 { return mgl64.Vec3{} }

func (Calm) DensityAt(p mgl64.Vec3) float64 { return ISADensity(-p.Z()) }
