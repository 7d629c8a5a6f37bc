package metrics

import (
	"math"

	"github.com/kestrel-sim/kestrel/internal/world"
)

// ControlEffort reports the mean absolute surface deflection across
// elevator, aileron and rudder.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{name: "control_effort"}
}

func (c *ControlEffort) Name() string { return c.name }

func (c *ControlEffort) Observe(s world.Sample) {
	c.sum += math.Abs(s.Controls.Elevator) +
		math.Abs(s.Controls.Aileron) +
		math.Abs(s.Controls.Rudder)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// FuelBurn integrates fuel flow over the run, kg. Needs the sample spacing
// to convert flow to mass.
type FuelBurn struct {
	name  string
	dt    float64
	total float64
}

func NewFuelBurn(dt float64) *FuelBurn {
	return &FuelBurn{name: "fuel_burn", dt: dt}
}

func (f *FuelBurn) Name() string { return f.name }

func (f *FuelBurn) Observe(s world.Sample) {
	f.total += s.FuelFlow * f.dt
}

func (f *FuelBurn) Value() float64 { return f.total }

func (f *FuelBurn) Reset() { f.total = 0 }
