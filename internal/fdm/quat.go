package fdm

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// QuatFromEuler builds a body->world attitude quaternion from aerospace
// Euler angles: yaw about z, then pitch about y, then roll about x.
func QuatFromEuler(roll, pitch, yaw float64) mgl64.Quat {
	qz := mgl64.QuatRotate(yaw, mgl64.Vec3{0, 0, 1})
	qy := mgl64.QuatRotate(pitch, mgl64.Vec3{0, 1, 0})
	qx := mgl64.QuatRotate(roll, mgl64.Vec3{1, 0, 0})
	return qz.Mul(qy).Mul(qx)
}

// EulerFromQuat extracts (roll, pitch, yaw) from a body->world attitude
// quaternion, inverse of [QuatFromEuler]. Pitch is clamped at the
// gimbal-lock singularity.
func EulerFromQuat(q mgl64.Quat) (roll, pitch, yaw float64) {
	w, x, y, z := q.W, q.V.X(), q.V.Y(), q.V.Z()

	roll = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))

	sinPitch := 2 * (w*y - z*x)
	if sinPitch > 1 {
		sinPitch = 1
	} else if sinPitch < -1 {
		sinPitch = -1
	}
	pitch = math.Asin(sinPitch)

	yaw = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return roll, pitch, yaw
}

// QuatExp returns the unit quaternion for the rotation vector v (axis
// scaled by angle in radians). Near-zero rotations return identity.
func QuatExp(v mgl64.Vec3) mgl64.Quat {
	angle := v.Len()
	if angle < 1e-12 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(angle, v.Mul(1/angle))
}

// ClampNorm rescales v so its norm does not exceed max, preserving
// direction. A non-positive max leaves v unchanged.
func ClampNorm(v mgl64.Vec3, max float64) mgl64.Vec3 {
	if max <= 0 {
		return v
	}
	n := v.Len()
	if n > max {
		return v.Mul(max / n)
	}
	return v
}
