package dynamics

import (
	"github.com/kestrel-sim/kestrel/internal/fdm"
)

// Limits bounds the integrated velocity norms. The clamp is
// direction-preserving; a non-positive limit disables it.
type Limits struct {
	MaxVelocity        float64 `yaml:"max_velocity"`         // m/s
	MaxAngularVelocity float64 `yaml:"max_angular_velocity"` // rad/s
}

// Advance steps the spatial state by one fixed dt from the body's net force
// and moment, mutating spatial in place. Semi-implicit Euler: velocities
// are updated first and the new velocity moves the position. The attitude
// update is the quaternion exponential of the scaled rotation vector,
// renormalized to hold the unit-norm invariant against float drift.
//
// Exactly one step per call; the caller owns dt stability.
func Advance(body *fdm.RigidBodyState, spatial *fdm.SpatialState, dt float64, lim Limits) {
	linAcc := body.NetForce.Mul(1 / body.Mass)
	angAcc := body.InertiaInv.Mul3x1(body.NetMoment)

	spatial.Velocity = fdm.ClampNorm(spatial.Velocity.Add(linAcc.Mul(dt)), lim.MaxVelocity)
	spatial.AngularVelocity = fdm.ClampNorm(spatial.AngularVelocity.Add(angAcc.Mul(dt)), lim.MaxAngularVelocity)

	spatial.Position = spatial.Position.Add(spatial.Velocity.Mul(dt))

	if spatial.AngularVelocity.Len() > 0 {
		dq := fdm.QuatExp(spatial.AngularVelocity.Mul(dt))
		spatial.Attitude = dq.Mul(spatial.Attitude).Normalize()
	}
}
