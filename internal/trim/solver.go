package trim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kestrel-sim/kestrel/internal/fdm"
)

// Phase is the per-entity trim state machine. Lateral trim is declared but
// never entered: only the longitudinal stage is implemented.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseLongitudinal
	PhaseLateral
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLongitudinal:
		return "longitudinal"
	case PhaseLateral:
		return "lateral"
	case PhaseComplete:
		return "complete"
	}
	return "unknown"
}

// State is one longitudinal equilibrium candidate.
type State struct {
	Alpha      float64
	Theta      float64
	Elevator   float64
	PowerLever float64
}

// Result is the solver output. Not persisted beyond the call.
type Result struct {
	State          State
	Converged      bool
	Cost           float64
	Iterations     int
	ResidualForce  mgl64.Vec3 // world frame
	ResidualMoment mgl64.Vec3 // body frame
}

// Solver wraps a Problem with solver configuration and the trim phase.
type Solver struct {
	Problem Problem
	Config  Config

	phase Phase
}

// NewSolver builds a solver in the idle phase.
func NewSolver(problem Problem, cfg Config) *Solver {
	return &Solver{Problem: problem, Config: cfg}
}

// Phase reports the current stage of the trim state machine.
func (s *Solver) Phase() Phase { return s.phase }

// Solve searches for the longitudinal trim point from the given initial
// guess (nil selects the configured default). The acceptance band is
// cost_tolerance squared times ten, deliberately looser than the nominal
// tolerance used for residual reporting.
//
// On optimizer failure an error is returned and the caller must not apply
// anything: trim never silently no-ops into a false success.
func (s *Solver) Solve(target Target, guess []float64) (Result, error) {
	s.phase = PhaseLongitudinal
	s.Problem.Target = target
	s.Problem.Bounds = s.Config.Bounds

	x0 := guess
	if x0 == nil {
		x0 = s.Config.InitialGuess[:]
	}
	if len(x0) != 3 {
		s.phase = PhaseIdle
		return Result{}, fmt.Errorf("%w: want 3 parameters, got %d", fdm.ErrTrimFailed, len(x0))
	}

	tol := s.Config.CostTolerance
	opt := lbfgsOptions{
		maxIterations: s.Config.MaxIterations,
		memory:        8,
		acceptCost:    tol * tol * 10,
		gradTolerance: 1e-12,
	}

	min, err := minimizeLBFGS(s.Problem.Cost, s.Problem.Gradient, x0, opt)
	if err != nil {
		s.phase = PhaseIdle
		return Result{}, fmt.Errorf("%w: %v", fdm.ErrTrimFailed, err)
	}
	if min.x == nil {
		s.phase = PhaseIdle
		return Result{}, fmt.Errorf("%w: no best parameter found", fdm.ErrTrimFailed)
	}

	// Re-clamp the best vector and decode it the same way the cost does.
	alpha, elevator, lever := s.Problem.clampParams(min.x)
	st := State{
		Alpha:      alpha,
		Theta:      s.Problem.theta(alpha),
		Elevator:   elevator,
		PowerLever: lever,
	}
	f, m := s.Problem.evaluate([]float64{alpha, elevator, lever})

	s.phase = PhaseComplete
	return Result{
		State:          st,
		Converged:      min.accepted,
		Cost:           min.cost,
		Iterations:     min.iterations,
		ResidualForce:  f,
		ResidualMoment: m,
	}, nil
}

// Apply writes a trim result back to live entity state atomically: controls
// take the trimmed elevator and power lever, the attitude is rebuilt from
// the trimmed pitch with roll zeroed and yaw untouched, and each engine is
// snapshotted to the steady thrust fraction implied by the power lever.
func Apply(res Result, spatial *fdm.SpatialState, ctl *fdm.ControlSurfaces, engines []fdm.EngineState) {
	ctl.Elevator = res.State.Elevator
	ctl.PowerLever = res.State.PowerLever

	_, _, yaw := fdm.EulerFromQuat(spatial.Attitude)
	spatial.Attitude = fdm.QuatFromEuler(0, res.State.Theta, yaw)

	for i := range engines {
		engines[i].PowerLever = res.State.PowerLever
		engines[i].Running = res.State.PowerLever > 0
		if engines[i].Running {
			engines[i].ThrustFraction = res.State.PowerLever
		} else {
			engines[i].ThrustFraction = 0
		}
	}
}
