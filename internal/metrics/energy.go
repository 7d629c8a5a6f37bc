package metrics

import (
	"math"

	"github.com/kestrel-sim/kestrel/internal/world"
)

const g0 = 9.80665

// SpecificEnergy reports the mean specific energy of a run, J/kg: kinetic
// from inertial speed plus potential from altitude.
type SpecificEnergy struct {
	name    string
	total   float64
	samples int
}

func NewSpecificEnergy() *SpecificEnergy {
	return &SpecificEnergy{name: "specific_energy"}
}

func (e *SpecificEnergy) Name() string { return e.name }

func (e *SpecificEnergy) Observe(s world.Sample) {
	v := s.Spatial.Velocity.Len()
	e.total += 0.5*v*v + g0*s.Spatial.Altitude()
	e.samples++
}

func (e *SpecificEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *SpecificEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift reports the largest relative excursion of specific energy
// from its initial value. A trimmed hands-off run should stay small.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s world.Sample) {
	v := s.Spatial.Velocity.Len()
	energy := 0.5*v*v + g0*s.Spatial.Altitude()

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
