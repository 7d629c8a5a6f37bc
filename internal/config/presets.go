package config

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/kestrel-sim/kestrel/internal/aero"
	"github.com/kestrel-sim/kestrel/internal/propulsion"
	"github.com/kestrel-sim/kestrel/internal/trim"
)

// Trainer is a single-engine piston trainer, roughly a light four-seater.
func Trainer() *Aircraft {
	return &Aircraft{
		Name: "trainer",
		Mass: 1100,
		Inertia: Inertia{
			Ixx: 1285, Iyy: 1825, Izz: 2667, Ixz: 0,
		},
		Geometry: aero.Geometry{WingArea: 16.2, WingSpan: 11.0, Chord: 1.49},
		Coefficients: aero.Coefficients{
			Lift: aero.CoefficientSet{
				Alpha:    aero.Polynomial{0.25, 4.8},
				Q:        3.9,
				Elevator: 0.35,
			},
			Drag: aero.CoefficientSet{
				Alpha: aero.Polynomial{0.032, 0, 0.8},
			},
			Side: aero.CoefficientSet{Beta: -0.31, Rudder: 0.187},
			Roll: aero.CoefficientSet{
				Beta: -0.089, P: -0.47, R: 0.096,
				Aileron: 0.178, Rudder: 0.0147,
			},
			Pitch: aero.CoefficientSet{
				Alpha:    aero.Polynomial{0, -0.9},
				Q:        -12.4,
				Elevator: -0.27,
			},
			Yaw: aero.CoefficientSet{Beta: 0.065, R: -0.099, Rudder: -0.053},
		},
		Engines: []propulsion.EngineConfig{
			{
				Position:      mgl64.Vec3{1.2, 0, 0},
				MaxThrust:     2200,
				MinThrust:     40,
				TSFC:          1.2e-5,
				SpoolUpTime:   0.5,
				SpoolDownTime: 0.8,
				MachLapse:     0.6,
			},
		},
		Limits: Limits{
			MaxVelocity:        150,
			MaxAngularVelocity: 6,
			MinAirspeed:        1,
			AlphaLimit:         0.55,
		},
		Trim: trim.DefaultConfig(),
	}
}

// Twinprop is a twin-turboprop utility aircraft at 4875 kg, the standard
// trim validation configuration.
func Twinprop() *Aircraft {
	return &Aircraft{
		Name: "twinprop",
		Mass: 4875,
		Inertia: Inertia{
			Ixx: 12875, Iyy: 23385, Izz: 34900, Ixz: 1600,
		},
		Geometry: aero.Geometry{WingArea: 26.0, WingSpan: 14.0, Chord: 1.98},
		Coefficients: aero.Coefficients{
			Lift: aero.CoefficientSet{
				Alpha:    aero.Polynomial{0.25, 5.0},
				Q:        4.1,
				Elevator: 0.4,
			},
			Drag: aero.CoefficientSet{
				Alpha: aero.Polynomial{0.03, 0, 1.5},
			},
			Side: aero.CoefficientSet{Beta: -0.59, Rudder: 0.22},
			Roll: aero.CoefficientSet{
				Beta: -0.13, P: -0.50, R: 0.14,
				Aileron: 0.156, Rudder: 0.011,
			},
			Pitch: aero.CoefficientSet{
				Alpha:    aero.Polynomial{0.05, -1.2},
				Q:        -24.0,
				Elevator: -0.55,
			},
			Yaw: aero.CoefficientSet{Beta: 0.073, R: -0.095, Rudder: -0.052},
		},
		Engines: []propulsion.EngineConfig{
			{
				Position:      mgl64.Vec3{0.4, -2.3, 0},
				MaxThrust:     8000,
				MinThrust:     200,
				TSFC:          1.0e-5,
				SpoolUpTime:   2.5,
				SpoolDownTime: 1.2,
				MachLapse:     0.25,
			},
			{
				Position:      mgl64.Vec3{0.4, 2.3, 0},
				MaxThrust:     8000,
				MinThrust:     200,
				TSFC:          1.0e-5,
				SpoolUpTime:   2.5,
				SpoolDownTime: 1.2,
				MachLapse:     0.25,
			},
		},
		Limits: Limits{
			MaxVelocity:        200,
			MaxAngularVelocity: 6,
			MinAirspeed:        1,
			AlphaLimit:         0.55,
		},
		Trim: trim.DefaultConfig(),
	}
}

// Presets maps preset names to their constructors.
var Presets = map[string]func() *Aircraft{
	"trainer":  Trainer,
	"twinprop": Twinprop,
}

// GetPreset returns a fresh copy of a named preset, or nil when unknown.
func GetPreset(name string) *Aircraft {
	ctor, ok := Presets[name]
	if !ok {
		return nil
	}
	return ctor()
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
