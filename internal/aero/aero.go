// Package aero converts air data and control surface positions into a
// body-frame aerodynamic force and moment using polynomial
// stability-derivative coefficients.
package aero

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kestrel-sim/kestrel/internal/fdm"
)

// Geometry holds the reference dimensions of the airframe.
type Geometry struct {
	WingArea float64 `yaml:"wing_area"` // m^2
	WingSpan float64 `yaml:"wing_span"` // m
	Chord    float64 `yaml:"chord"`     // mean aerodynamic chord, m
}

// Polynomial is a coefficient polynomial in ascending powers,
// evaluated by Horner's rule. An empty polynomial evaluates to zero.
type Polynomial []float64

// Eval evaluates the polynomial at x.
func (p Polynomial) Eval(x float64) float64 {
	v := 0.0
	for i := len(p) - 1; i >= 0; i-- {
		v = v*x + p[i]
	}
	return v
}

// CoefficientSet is one non-dimensional coefficient in classical
// stability-derivative form: a polynomial in alpha plus linear derivatives
// against sideslip, the non-dimensional body rates and the controls.
type CoefficientSet struct {
	Alpha    Polynomial `yaml:"alpha"` // polynomial in alpha, rad
	Beta     float64    `yaml:"beta"`  // per rad
	P        float64    `yaml:"p"`     // per unit p-hat
	Q        float64    `yaml:"q"`     // per unit q-hat
	R        float64    `yaml:"r"`     // per unit r-hat
	Elevator float64    `yaml:"elevator"`
	Aileron  float64    `yaml:"aileron"`
	Rudder   float64    `yaml:"rudder"`
}

// Eval assembles the coefficient value for the given flow state.
func (c CoefficientSet) Eval(alpha, beta, pHat, qHat, rHat float64, ctl fdm.ControlSurfaces) float64 {
	return c.Alpha.Eval(alpha) +
		c.Beta*beta +
		c.P*pHat + c.Q*qHat + c.R*rHat +
		c.Elevator*ctl.Elevator + c.Aileron*ctl.Aileron + c.Rudder*ctl.Rudder
}

// Coefficients is the full aerodynamic coefficient table: three wind-axis
// force coefficients and three body-axis moment coefficients.
type Coefficients struct {
	Drag  CoefficientSet `yaml:"drag"`
	Lift  CoefficientSet `yaml:"lift"`
	Side  CoefficientSet `yaml:"side"`
	Roll  CoefficientSet `yaml:"roll"`
	Pitch CoefficientSet `yaml:"pitch"`
	Yaw   CoefficientSet `yaml:"yaw"`
}

// Model is a configured aerodynamic model for one airframe.
type Model struct {
	Geometry     Geometry
	Coefficients Coefficients

	// MinAirspeed floors the airspeed used for the non-dimensional rates,
	// matching the air-data low-speed threshold.
	MinAirspeed float64

	// AlphaLimit clamps alpha before polynomial evaluation, keeping the
	// fitted polynomials inside their modeled envelope. Zero disables the
	// clamp and extreme-alpha values propagate unguarded.
	AlphaLimit float64
}

// Compute returns the body-frame aerodynamic force and moment for the
// current air data, angular velocity and control positions.
func (m *Model) Compute(ad fdm.AirData, omega mgl64.Vec3, ctl fdm.ControlSurfaces) (force, moment mgl64.Vec3) {
	g := m.Geometry

	v := ad.TrueAirspeed
	if v < m.MinAirspeed {
		v = m.MinAirspeed
	}

	// Non-dimensional body rates.
	pHat := omega.X() * g.WingSpan / (2 * v)
	qHat := omega.Y() * g.Chord / (2 * v)
	rHat := omega.Z() * g.WingSpan / (2 * v)

	alpha := ad.Alpha
	if m.AlphaLimit > 0 {
		if alpha > m.AlphaLimit {
			alpha = m.AlphaLimit
		} else if alpha < -m.AlphaLimit {
			alpha = -m.AlphaLimit
		}
	}
	beta := ad.Beta

	qS := ad.DynamicPressure * g.WingArea

	drag := qS * m.Coefficients.Drag.Eval(alpha, beta, pHat, qHat, rHat, ctl)
	lift := qS * m.Coefficients.Lift.Eval(alpha, beta, pHat, qHat, rHat, ctl)
	side := qS * m.Coefficients.Side.Eval(alpha, beta, pHat, qHat, rHat, ctl)

	// Wind axes to body axes: drag opposes the relative wind, lift is
	// normal to it, side force completes the triad.
	sinA, cosA := math.Sin(ad.Alpha), math.Cos(ad.Alpha)
	sinB, cosB := math.Sin(ad.Beta), math.Cos(ad.Beta)

	force = mgl64.Vec3{
		-drag*cosA*cosB - side*cosA*sinB + lift*sinA,
		-drag*sinB + side*cosB,
		-drag*sinA*cosB - side*sinA*sinB - lift*cosA,
	}

	moment = mgl64.Vec3{
		qS * g.WingSpan * m.Coefficients.Roll.Eval(alpha, beta, pHat, qHat, rHat, ctl),
		qS * g.Chord * m.Coefficients.Pitch.Eval(alpha, beta, pHat, qHat, rHat, ctl),
		qS * g.WingSpan * m.Coefficients.Yaw.Eval(alpha, beta, pHat, qHat, rHat, ctl),
	}

	return force, moment
}
