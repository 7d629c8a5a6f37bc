package fdm

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Frame tags the reference frame a Force or Moment vector is expressed in.
type Frame uint8

const (
	// FrameBody is the vehicle-fixed frame, x forward, z down.
	FrameBody Frame = iota
	// FrameInertial is the NED world frame.
	FrameInertial
	// FrameWind is the wind-axes frame. Accumulation currently treats wind
	// axes as body axes; callers that need exact wind-axis handling rotate
	// into the body frame themselves before tagging.
	FrameWind
)

func (f Frame) String() string {
	switch f {
	case FrameBody:
		return "body"
	case FrameInertial:
		return "inertial"
	case FrameWind:
		return "wind"
	}
	return "unknown"
}

// Category records what produced a force or moment.
type Category uint8

const (
	CategoryAerodynamic Category = iota
	CategoryPropulsive
	CategoryGravitational
)

// Force is a tagged force vector, optionally applied at a body-frame point.
type Force struct {
	Vector   mgl64.Vec3
	Point    mgl64.Vec3
	HasPoint bool
	Frame    Frame
	Category Category
}

// ToInertial returns the force vector expressed in the world frame.
func (f Force) ToInertial(attitude mgl64.Quat) mgl64.Vec3 {
	switch f.Frame {
	case FrameInertial:
		return f.Vector
	default: // FrameBody, FrameWind
		return attitude.Rotate(f.Vector)
	}
}

// ToBody returns the force vector expressed in the body frame.
func (f Force) ToBody(attitude mgl64.Quat) mgl64.Vec3 {
	switch f.Frame {
	case FrameInertial:
		return attitude.Inverse().Rotate(f.Vector)
	default:
		return f.Vector
	}
}

// Moment is a tagged pure moment vector.
type Moment struct {
	Vector   mgl64.Vec3
	Frame    Frame
	Category Category
}

// ToBody returns the moment vector expressed in the body frame.
func (m Moment) ToBody(attitude mgl64.Quat) mgl64.Vec3 {
	switch m.Frame {
	case FrameInertial:
		return attitude.Inverse().Rotate(m.Vector)
	default:
		return m.Vector
	}
}

// SpatialState is the kinematic state of one entity.
//
// Attitude is kept unit-norm; the integrator renormalizes it every step.
type SpatialState struct {
	Position        mgl64.Vec3 // world NED, m
	Velocity        mgl64.Vec3 // world NED, m/s
	Attitude        mgl64.Quat // body -> world, unit
	AngularVelocity mgl64.Vec3 // body frame, rad/s
}

// Altitude returns height above the NED origin in meters.
func (s *SpatialState) Altitude() float64 { return -s.Position.Z() }

// IsFinite reports whether every component of the state is finite.
func (s *SpatialState) IsFinite() bool {
	vals := []float64{
		s.Position.X(), s.Position.Y(), s.Position.Z(),
		s.Velocity.X(), s.Velocity.Y(), s.Velocity.Z(),
		s.Attitude.W, s.Attitude.V.X(), s.Attitude.V.Y(), s.Attitude.V.Z(),
		s.AngularVelocity.X(), s.AngularVelocity.Y(), s.AngularVelocity.Z(),
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// RigidBodyState holds mass properties and the tick-scoped force/moment
// accumulators for one entity.
type RigidBodyState struct {
	Mass       float64    // kg, > 0
	Inertia    mgl64.Mat3 // body frame, symmetric with Ixz cross term
	InertiaInv mgl64.Mat3 // zero matrix when Inertia is singular

	NetForce  mgl64.Vec3 // world frame, valid after accumulation
	NetMoment mgl64.Vec3 // body frame, valid after accumulation

	Forces  []Force
	Moments []Moment
}

// NewRigidBody builds a RigidBodyState, precomputing the inertia inverse.
// A singular inertia matrix degrades to a zero inverse: angular response is
// disabled rather than failing. The singularity check uses the same
// tolerance as Inv, so every zeroed inverse is warned about.
func NewRigidBody(mass float64, inertia mgl64.Mat3) *RigidBodyState {
	inv := inertia.Inv()
	if mgl64.FloatEqual(inertia.Det(), 0) {
		log.Printf("fdm: singular inertia matrix, angular response disabled")
	}
	return &RigidBodyState{Mass: mass, Inertia: inertia, InertiaInv: inv}
}

// InertiaMatrix builds the body-frame inertia tensor from the principal
// moments and the Ixz cross product of inertia.
func InertiaMatrix(ixx, iyy, izz, ixz float64) mgl64.Mat3 {
	return mgl64.Mat3{
		ixx, 0, -ixz,
		0, iyy, 0,
		-ixz, 0, izz,
	}
}

// ResetAccumulators drains the tick-scoped force/moment lists and zeroes
// the net accumulators. Call once per tick before repopulating.
func (b *RigidBodyState) ResetAccumulators() {
	b.Forces = b.Forces[:0]
	b.Moments = b.Moments[:0]
	b.NetForce = mgl64.Vec3{}
	b.NetMoment = mgl64.Vec3{}
}

// AddForce appends a force acting through the center of gravity.
func (b *RigidBodyState) AddForce(v mgl64.Vec3, frame Frame, cat Category) {
	b.Forces = append(b.Forces, Force{Vector: v, Frame: frame, Category: cat})
}

// AddForceAt appends a force applied at a body-frame point, which
// contributes a moment during accumulation.
func (b *RigidBodyState) AddForceAt(v, point mgl64.Vec3, frame Frame, cat Category) {
	b.Forces = append(b.Forces, Force{Vector: v, Point: point, HasPoint: true, Frame: frame, Category: cat})
}

// AddMoment appends a pure moment.
func (b *RigidBodyState) AddMoment(v mgl64.Vec3, frame Frame, cat Category) {
	b.Moments = append(b.Moments, Moment{Vector: v, Frame: frame, Category: cat})
}

// AirData holds derived air-data quantities. Ephemeral: fully recomputed
// each tick from spatial state and environment.
type AirData struct {
	TrueAirspeed     float64
	Alpha            float64 // angle of attack, rad
	Beta             float64 // sideslip, rad
	DynamicPressure  float64 // Pa
	Density          float64 // kg/m^3
	RelativeVelocity mgl64.Vec3 // body frame
	WindVelocity     mgl64.Vec3 // world frame
}

// ControlSurfaces holds normalized control positions. Elevator, aileron and
// rudder are in [-1, 1]; the power lever is in [0, 1].
type ControlSurfaces struct {
	Elevator   float64
	Aileron    float64
	Rudder     float64
	PowerLever float64
}

// Clamp limits every control to its valid range.
func (c *ControlSurfaces) Clamp() {
	c.Elevator = clamp(c.Elevator, -1, 1)
	c.Aileron = clamp(c.Aileron, -1, 1)
	c.Rudder = clamp(c.Rudder, -1, 1)
	c.PowerLever = clamp(c.PowerLever, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EngineState is the per-engine spool state, advanced each tick toward the
// commanded power lever with asymmetric time constants.
type EngineState struct {
	PowerLever     float64 // last commanded lever, [0, 1]
	ThrustFraction float64 // lagged response, [0, 1]
	FuelFlow       float64 // kg/s
	Running        bool
}
