package trim

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kestrel-sim/kestrel/internal/aero"
	"github.com/kestrel-sim/kestrel/internal/fdm"
	"github.com/kestrel-sim/kestrel/internal/propulsion"
)

// twinProblem mirrors the twin-engine turboprop preset. Kept local so the
// package does not import config.
func twinProblem(density float64) Problem {
	return Problem{
		Aero: aero.Model{
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
				Pitch: aero.CoefficientSet{
					Alpha:    aero.Polynomial{0.05, -1.2},
					Q:        -24,
					Elevator: -0.55,
				},
			},
			MinAirspeed: 1.0,
			AlphaLimit:  0.45,
		},
		Engines: []propulsion.EngineConfig{
			{Position: mgl64.Vec3{0.4, -2.3, 0}, MaxThrust: 8000, MinThrust: 200, TSFC: 1e-5, SpoolUpTime: 2.5, SpoolDownTime: 1.2, MachLapse: 0.25},
			{Position: mgl64.Vec3{0.4, 2.3, 0}, MaxThrust: 8000, MinThrust: 200, TSFC: 1e-5, SpoolUpTime: 2.5, SpoolDownTime: 1.2, MachLapse: 0.25},
		},
		Mass:        4875,
		Gravity:     mgl64.Vec3{0, 0, 9.80665},
		Density:     density,
		MinAirspeed: 1.0,
		Bounds:      DefaultBounds(),
	}
}

func TestLBFGSQuadratic(t *testing.T) {
	// f(x) = (x0-1)^2 + 10(x1+2)^2 + 0.5 x2^2
	cost := func(x []float64) float64 {
		return (x[0]-1)*(x[0]-1) + 10*(x[1]+2)*(x[1]+2) + 0.5*x[2]*x[2]
	}
	grad := func(x []float64) []float64 {
		return []float64{2 * (x[0] - 1), 20 * (x[1] + 2), x[2]}
	}

	res, err := minimizeLBFGS(cost, grad, []float64{5, 5, 5}, lbfgsOptions{
		maxIterations: 100,
		memory:        8,
		acceptCost:    1e-12,
		gradTolerance: 1e-10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.accepted {
		t.Fatalf("quadratic should be solved to acceptance, final cost %g", res.cost)
	}
	want := []float64{1, -2, 0}
	for i, w := range want {
		if math.Abs(res.x[i]-w) > 1e-4 {
			t.Errorf("x[%d] = %f, want %f", i, res.x[i], w)
		}
	}
	if res.iterations == 0 {
		t.Error("iteration count should be reported")
	}
}

func TestLBFGSRosenbrock(t *testing.T) {
	cost := func(x []float64) float64 {
		a := 1 - x[0]
		b := x[1] - x[0]*x[0]
		return a*a + 100*b*b
	}
	grad := func(x []float64) []float64 {
		b := x[1] - x[0]*x[0]
		return []float64{
			-2*(1-x[0]) - 400*x[0]*b,
			200 * b,
		}
	}

	res, err := minimizeLBFGS(cost, grad, []float64{-1.2, 1}, lbfgsOptions{
		maxIterations: 500,
		memory:        8,
		acceptCost:    1e-8,
		gradTolerance: 1e-12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.x[0]-1) > 1e-2 || math.Abs(res.x[1]-1) > 1e-2 {
		t.Errorf("minimum (%f, %f), want (1, 1), cost %g", res.x[0], res.x[1], res.cost)
	}
}

func TestSolveTwinpropLevelFlight(t *testing.T) {
	density := 1.1117 // ISA at 1000 m
	s := NewSolver(twinProblem(density), DefaultConfig())

	res, err := s.Solve(Target{Airspeed: 70}, nil)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !res.Converged {
		t.Fatalf("expected convergence, cost %g after %d iterations", res.Cost, res.Iterations)
	}
	if s.Phase() != PhaseComplete {
		t.Errorf("phase %v, want complete", s.Phase())
	}

	// Level flight: theta equals alpha and both sit inside the envelope.
	if math.Abs(res.State.Theta-res.State.Alpha) > 1e-12 {
		t.Errorf("theta %f should equal alpha %f for zero flight path angle", res.State.Theta, res.State.Alpha)
	}
	if res.State.Alpha <= 0 || res.State.Alpha > 0.2 {
		t.Errorf("trim alpha %f outside plausible range", res.State.Alpha)
	}
	if res.State.Elevator <= -1 || res.State.Elevator >= 1 {
		t.Errorf("trim elevator %f pinned to bound", res.State.Elevator)
	}
	if res.State.PowerLever <= 0 || res.State.PowerLever >= 1 {
		t.Errorf("trim power lever %f pinned to bound", res.State.PowerLever)
	}

	// Residuals small relative to weight (~47.8 kN).
	weight := 4875 * 9.80665
	if res.ResidualForce.Len() > 0.02*weight {
		t.Errorf("residual force %v too large", res.ResidualForce)
	}
	if math.Abs(res.ResidualMoment.Y()) > 1000 {
		t.Errorf("residual pitch moment %f too large", res.ResidualMoment.Y())
	}
}

func TestSolveClimbRaisesTheta(t *testing.T) {
	density := 1.1117
	s := NewSolver(twinProblem(density), DefaultConfig())

	level, err := s.Solve(Target{Airspeed: 70}, nil)
	if err != nil {
		t.Fatalf("level solve failed: %v", err)
	}
	climb, err := s.Solve(Target{Airspeed: 70, FlightPathAngle: 0.05}, nil)
	if err != nil {
		t.Fatalf("climb solve failed: %v", err)
	}

	if climb.State.Theta <= level.State.Theta {
		t.Errorf("climb theta %f should exceed level theta %f", climb.State.Theta, level.State.Theta)
	}
	if climb.State.PowerLever <= level.State.PowerLever {
		t.Errorf("climb power %f should exceed level power %f", climb.State.PowerLever, level.State.PowerLever)
	}
}

func TestSolveRespectsBoundsFromBadGuess(t *testing.T) {
	s := NewSolver(twinProblem(1.1117), DefaultConfig())

	res, err := s.Solve(Target{Airspeed: 70}, []float64{5, -9, 4})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	b := s.Config.Bounds
	if res.State.Alpha < b.Alpha[0] || res.State.Alpha > b.Alpha[1] {
		t.Errorf("alpha %f outside bounds %v", res.State.Alpha, b.Alpha)
	}
	if res.State.Elevator < b.Elevator[0] || res.State.Elevator > b.Elevator[1] {
		t.Errorf("elevator %f outside bounds %v", res.State.Elevator, b.Elevator)
	}
	if res.State.PowerLever < b.Throttle[0] || res.State.PowerLever > b.Throttle[1] {
		t.Errorf("power lever %f outside bounds %v", res.State.PowerLever, b.Throttle)
	}
}

func TestSolveBadGuessLength(t *testing.T) {
	s := NewSolver(twinProblem(1.1117), DefaultConfig())

	_, err := s.Solve(Target{Airspeed: 70}, []float64{0.05, 0})
	if !errors.Is(err, fdm.ErrTrimFailed) {
		t.Fatalf("want ErrTrimFailed, got %v", err)
	}
	if s.Phase() != PhaseIdle {
		t.Errorf("failed solve should return to idle, phase %v", s.Phase())
	}
}

func TestGradientMatchesCostSlope(t *testing.T) {
	p := twinProblem(1.1117)
	p.Target = Target{Airspeed: 70}
	x := []float64{0.05, -0.05, 0.3}

	g := p.Gradient(x)
	const h = 1e-5
	for i := range x {
		xp := append([]float64(nil), x...)
		xp[i] += h
		xm := append([]float64(nil), x...)
		xm[i] -= h
		slope := (p.Cost(xp) - p.Cost(xm)) / (2 * h)
		scale := math.Max(math.Abs(slope), 1)
		if math.Abs(g[i]-slope)/scale > 1e-2 {
			t.Errorf("gradient[%d] = %g, coarse slope %g", i, g[i], slope)
		}
	}
}

func TestApplyAtomic(t *testing.T) {
	res := Result{
		State: State{Alpha: 0.06, Theta: 0.06, Elevator: -0.12, PowerLever: 0.35},
	}
	spatial := &fdm.SpatialState{
		Attitude: fdm.QuatFromEuler(0.2, -0.1, 1.3),
	}
	ctl := &fdm.ControlSurfaces{Aileron: 0.5, Rudder: -0.2}
	engines := []fdm.EngineState{{}, {ThrustFraction: 0.9, Running: true}}

	Apply(res, spatial, ctl, engines)

	if ctl.Elevator != -0.12 || ctl.PowerLever != 0.35 {
		t.Errorf("controls not applied: %+v", ctl)
	}
	if ctl.Aileron != 0.5 || ctl.Rudder != -0.2 {
		t.Errorf("lateral controls must be untouched: %+v", ctl)
	}

	roll, pitch, yaw := fdm.EulerFromQuat(spatial.Attitude)
	if math.Abs(roll) > 1e-9 {
		t.Errorf("roll should be zeroed, got %f", roll)
	}
	if math.Abs(pitch-0.06) > 1e-9 {
		t.Errorf("pitch %f, want trim theta 0.06", pitch)
	}
	if math.Abs(yaw-1.3) > 1e-9 {
		t.Errorf("yaw %f should be preserved", yaw)
	}

	for i, e := range engines {
		if !e.Running || e.PowerLever != 0.35 || e.ThrustFraction != 0.35 {
			t.Errorf("engine %d not snapshotted: %+v", i, e)
		}
	}
}

func TestApplyZeroLeverShutsDown(t *testing.T) {
	res := Result{State: State{Theta: 0.02}}
	spatial := &fdm.SpatialState{Attitude: mgl64.QuatIdent()}
	ctl := &fdm.ControlSurfaces{}
	engines := []fdm.EngineState{{Running: true, ThrustFraction: 0.6}}

	Apply(res, spatial, ctl, engines)

	if engines[0].Running || engines[0].ThrustFraction != 0 {
		t.Errorf("zero lever should shut the engine down: %+v", engines[0])
	}
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		PhaseIdle:         "idle",
		PhaseLongitudinal: "longitudinal",
		PhaseLateral:      "lateral",
		PhaseComplete:     "complete",
		Phase(42):         "unknown",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}
