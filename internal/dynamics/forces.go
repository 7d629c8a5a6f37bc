// Package dynamics accumulates tagged forces and moments across reference
// frames and advances rigid-body state over a fixed timestep.
package dynamics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/kestrel-sim/kestrel/internal/fdm"
)

// Gravity is the standard NED gravity vector, m/s^2.
var Gravity = mgl64.Vec3{0, 0, 9.80665}

// Accumulate sums the body's tick-scoped force and moment lists into net
// force (world frame) and net moment (body frame), writing both back to the
// body. The net force is seeded with weight (mass times gravity); forces
// carrying an application point contribute point cross force to the moment.
// Returns gravity expressed in the body frame.
//
// Call exactly once per tick, after the lists are freshly populated: there
// is no idempotence guard, and a second call double-counts.
func Accumulate(body *fdm.RigidBodyState, attitude mgl64.Quat, gravity mgl64.Vec3) mgl64.Vec3 {
	net := gravity.Mul(body.Mass)
	moment := mgl64.Vec3{}

	for _, f := range body.Forces {
		net = net.Add(f.ToInertial(attitude))
		if f.HasPoint {
			moment = moment.Add(f.Point.Cross(f.ToBody(attitude)))
		}
	}
	for _, m := range body.Moments {
		moment = moment.Add(m.ToBody(attitude))
	}

	body.NetForce = net
	body.NetMoment = moment
	return attitude.Inverse().Rotate(gravity)
}
