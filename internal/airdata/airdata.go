// Package airdata derives airspeed, flow angles and dynamic pressure from
// spatial state and the local environment.
package airdata

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kestrel-sim/kestrel/internal/fdm"
)

// Compute rotates world velocity and wind into the body frame and derives
// true airspeed, alpha, beta and dynamic pressure. Below minAirspeed the
// flow angles are forced to zero to guard the singular low-speed regime.
// Pure and total: never fails, deterministic for a given input.
func Compute(spatial *fdm.SpatialState, wind mgl64.Vec3, density, minAirspeed float64) fdm.AirData {
	inv := spatial.Attitude.Inverse()
	velBody := inv.Rotate(spatial.Velocity)
	windBody := inv.Rotate(wind)
	rel := velBody.Sub(windBody)

	airspeed := rel.Len()

	var alpha, beta float64
	if airspeed > minAirspeed {
		alpha = math.Atan2(rel.Z(), rel.X())
		beta = math.Asin(rel.Y() / airspeed)
	}

	return fdm.AirData{
		TrueAirspeed:     airspeed,
		Alpha:            alpha,
		Beta:             beta,
		DynamicPressure:  0.5 * density * airspeed * airspeed,
		Density:          density,
		RelativeVelocity: rel,
		WindVelocity:     wind,
	}
}
