package airdata

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kestrel-sim/kestrel/internal/fdm"
)

const density = 1.225

func TestComputeSymmetry(t *testing.T) {
	// Velocity along body x, zero attitude, zero wind.
	sp := &fdm.SpatialState{
		Velocity: mgl64.Vec3{50, 0, 0},
		Attitude: mgl64.QuatIdent(),
	}

	ad := Compute(sp, mgl64.Vec3{}, density, 1)

	if ad.Alpha != 0 || ad.Beta != 0 {
		t.Errorf("expected zero flow angles, got alpha=%f beta=%f", ad.Alpha, ad.Beta)
	}
	if math.Abs(ad.TrueAirspeed-50) > 1e-12 {
		t.Errorf("airspeed %f, want 50", ad.TrueAirspeed)
	}
	wantQ := 0.5 * density * 2500
	if math.Abs(ad.DynamicPressure-wantQ) > 1e-9 {
		t.Errorf("dynamic pressure %f, want %f", ad.DynamicPressure, wantQ)
	}
}

func TestComputeLowSpeedGuard(t *testing.T) {
	// Straight-down velocity below the threshold would give alpha=pi/2
	// without the guard.
	sp := &fdm.SpatialState{
		Velocity: mgl64.Vec3{0, 0, 0.5},
		Attitude: mgl64.QuatIdent(),
	}

	ad := Compute(sp, mgl64.Vec3{}, density, 1)

	if ad.Alpha != 0 || ad.Beta != 0 {
		t.Errorf("low-speed regime must force zero flow angles, got alpha=%f beta=%f", ad.Alpha, ad.Beta)
	}
	if math.Abs(ad.TrueAirspeed-0.5) > 1e-12 {
		t.Errorf("airspeed still reported: got %f, want 0.5", ad.TrueAirspeed)
	}
}

func TestComputeAlphaFromVerticalFlow(t *testing.T) {
	sp := &fdm.SpatialState{
		Velocity: mgl64.Vec3{50, 0, 5},
		Attitude: mgl64.QuatIdent(),
	}

	ad := Compute(sp, mgl64.Vec3{}, density, 1)

	wantAlpha := math.Atan2(5, 50)
	if math.Abs(ad.Alpha-wantAlpha) > 1e-12 {
		t.Errorf("alpha %f, want %f", ad.Alpha, wantAlpha)
	}
	if math.Abs(ad.Beta) > 1e-12 {
		t.Errorf("beta should be zero, got %f", ad.Beta)
	}
}

func TestComputeBetaFromSideFlow(t *testing.T) {
	sp := &fdm.SpatialState{
		Velocity: mgl64.Vec3{50, 5, 0},
		Attitude: mgl64.QuatIdent(),
	}

	ad := Compute(sp, mgl64.Vec3{}, density, 1)

	wantBeta := math.Asin(5 / ad.TrueAirspeed)
	if math.Abs(ad.Beta-wantBeta) > 1e-12 {
		t.Errorf("beta %f, want %f", ad.Beta, wantBeta)
	}
}

func TestComputeHeadwind(t *testing.T) {
	sp := &fdm.SpatialState{
		Velocity: mgl64.Vec3{50, 0, 0},
		Attitude: mgl64.QuatIdent(),
	}
	wind := mgl64.Vec3{-10, 0, 0}

	ad := Compute(sp, wind, density, 1)

	if math.Abs(ad.TrueAirspeed-60) > 1e-12 {
		t.Errorf("headwind should raise airspeed to 60, got %f", ad.TrueAirspeed)
	}
}

func TestComputePitchedAttitude(t *testing.T) {
	// Pitched up 0.1 rad while flying level: the relative wind arrives
	// from below the body x axis, so alpha equals the pitch angle.
	pitch := 0.1
	sp := &fdm.SpatialState{
		Velocity: mgl64.Vec3{60, 0, 0},
		Attitude: fdm.QuatFromEuler(0, pitch, 0),
	}

	ad := Compute(sp, mgl64.Vec3{}, density, 1)

	if math.Abs(ad.Alpha-pitch) > 1e-9 {
		t.Errorf("alpha %f, want %f", ad.Alpha, pitch)
	}
	if math.Abs(ad.TrueAirspeed-60) > 1e-9 {
		t.Errorf("airspeed %f, want 60", ad.TrueAirspeed)
	}
}
