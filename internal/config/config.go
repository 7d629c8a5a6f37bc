// Package config loads and validates aircraft definitions. The
// flight-dynamics packages assume a validated configuration: finite values,
// positive mass, sane engine constants. That contract is enforced here, at
// the boundary, so the models stay total functions.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/kestrel-sim/kestrel/internal/aero"
	"github.com/kestrel-sim/kestrel/internal/dynamics"
	"github.com/kestrel-sim/kestrel/internal/fdm"
	"github.com/kestrel-sim/kestrel/internal/propulsion"
	"github.com/kestrel-sim/kestrel/internal/trim"
)

// Inertia holds the body-frame moments of inertia, kg·m^2.
type Inertia struct {
	Ixx float64 `yaml:"ixx"`
	Iyy float64 `yaml:"iyy"`
	Izz float64 `yaml:"izz"`
	Ixz float64 `yaml:"ixz"`
}

// Matrix assembles the symmetric inertia tensor with the Ixz cross term.
func (i Inertia) Matrix() mgl64.Mat3 {
	return fdm.InertiaMatrix(i.Ixx, i.Iyy, i.Izz, i.Ixz)
}

// Limits bounds the integrator and air-data computation.
type Limits struct {
	MaxVelocity        float64 `yaml:"max_velocity"`         // m/s
	MaxAngularVelocity float64 `yaml:"max_angular_velocity"` // rad/s
	MinAirspeed        float64 `yaml:"min_airspeed"`         // m/s, low-speed guard
	AlphaLimit         float64 `yaml:"alpha_limit"`          // rad, polynomial envelope clamp
}

// Aircraft is one complete airframe definition.
type Aircraft struct {
	Name         string                    `yaml:"name"`
	Mass         float64                   `yaml:"mass"` // kg
	Inertia      Inertia                   `yaml:"inertia"`
	Geometry     aero.Geometry             `yaml:"geometry"`
	Coefficients aero.Coefficients         `yaml:"coefficients"`
	Engines      []propulsion.EngineConfig `yaml:"engines"`
	Limits       Limits                    `yaml:"limits"`
	Trim         trim.Config               `yaml:"trim"`
}

// Load reads and validates an aircraft definition from a YAML file.
func Load(path string) (*Aircraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ac Aircraft
	if err := yaml.Unmarshal(data, &ac); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	ac.Trim = mergeTrimDefaults(ac.Trim)
	if err := ac.Validate(); err != nil {
		return nil, err
	}
	return &ac, nil
}

// Save writes an aircraft definition as YAML.
func Save(path string, ac *Aircraft) error {
	data, err := yaml.Marshal(ac)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func mergeTrimDefaults(t trim.Config) trim.Config {
	def := trim.DefaultConfig()
	if t.MaxIterations == 0 {
		t.MaxIterations = def.MaxIterations
	}
	if t.CostTolerance == 0 {
		t.CostTolerance = def.CostTolerance
	}
	if t.Bounds == (trim.Bounds{}) {
		t.Bounds = def.Bounds
	}
	if t.InitialGuess == ([3]float64{}) {
		t.InitialGuess = def.InitialGuess
	}
	return t
}

// Validate checks the invariants the dynamics packages rely on.
func (a *Aircraft) Validate() error {
	if a.Mass <= 0 || !isFinite(a.Mass) {
		return fmt.Errorf("config: aircraft %q: mass must be positive and finite", a.Name)
	}
	for _, v := range []float64{a.Inertia.Ixx, a.Inertia.Iyy, a.Inertia.Izz, a.Inertia.Ixz} {
		if !isFinite(v) {
			return fmt.Errorf("config: aircraft %q: inertia must be finite", a.Name)
		}
	}
	if a.Geometry.WingArea <= 0 || a.Geometry.WingSpan <= 0 || a.Geometry.Chord <= 0 {
		return fmt.Errorf("config: aircraft %q: geometry must be positive", a.Name)
	}
	if len(a.Engines) == 0 {
		return fmt.Errorf("config: aircraft %q: at least one engine required", a.Name)
	}
	for i, e := range a.Engines {
		if e.MaxThrust <= 0 || e.MaxThrust < e.MinThrust {
			return fmt.Errorf("config: aircraft %q: engine %d thrust limits invalid", a.Name, i)
		}
		if e.SpoolUpTime <= 0 || e.SpoolDownTime <= 0 {
			return fmt.Errorf("config: aircraft %q: engine %d spool times must be positive", a.Name, i)
		}
	}
	if a.Limits.MinAirspeed <= 0 {
		return fmt.Errorf("config: aircraft %q: min_airspeed must be positive", a.Name)
	}
	return nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// AeroModel builds the configured aerodynamic model.
func (a *Aircraft) AeroModel() aero.Model {
	return aero.Model{
		Geometry:     a.Geometry,
		Coefficients: a.Coefficients,
		MinAirspeed:  a.Limits.MinAirspeed,
		AlphaLimit:   a.Limits.AlphaLimit,
	}
}

// RigidBody builds a fresh rigid-body state with precomputed inertia
// inverse.
func (a *Aircraft) RigidBody() *fdm.RigidBodyState {
	return fdm.NewRigidBody(a.Mass, a.Inertia.Matrix())
}

// TrimProblem builds the trim cost problem for the given air density.
func (a *Aircraft) TrimProblem(density float64) trim.Problem {
	return trim.Problem{
		Aero:        a.AeroModel(),
		Engines:     a.Engines,
		Mass:        a.Mass,
		Gravity:     dynamics.Gravity,
		Density:     density,
		MinAirspeed: a.Limits.MinAirspeed,
		Bounds:      a.Trim.Bounds,
	}
}
