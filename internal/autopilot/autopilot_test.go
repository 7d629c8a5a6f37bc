package autopilot

import (
	"math"
	"testing"

	"github.com/kestrel-sim/kestrel/internal/config"
	"github.com/kestrel-sim/kestrel/internal/fdm"
	"github.com/kestrel-sim/kestrel/internal/trim"
	"github.com/kestrel-sim/kestrel/internal/world"
)

func TestPIDProportional(t *testing.T) {
	p := NewPID(2, 0, 0, 10)
	if got := p.Update(7, 0.01); math.Abs(got-6) > 1e-12 {
		t.Errorf("output %f, want 6", got)
	}
}

func TestPIDIntegralAccumulates(t *testing.T) {
	p := NewPID(0, 1, 0, 10)
	p.Update(8, 0.5) // first call primes state, no integral yet
	got := p.Update(8, 0.5)
	if math.Abs(got-1) > 1e-12 {
		t.Errorf("integral output %f, want 1", got)
	}
}

func TestPIDDerivativeOnError(t *testing.T) {
	p := NewPID(0, 0, 1, 0)
	p.Update(0, 0.1)
	// Measurement jumps by 1, error falls by 1 over 0.1 s.
	got := p.Update(1, 0.1)
	if math.Abs(got+10) > 1e-9 {
		t.Errorf("derivative output %f, want -10", got)
	}
}

func TestPIDReset(t *testing.T) {
	p := NewPID(1, 1, 1, 5)
	p.Update(0, 0.1)
	p.Update(0, 0.1)
	p.Reset()

	if got := p.Update(0, 0.1); math.Abs(got-5) > 1e-12 {
		t.Errorf("after reset first update should be pure P, got %f", got)
	}
}

func TestStepCorrectsTowardTargets(t *testing.T) {
	w := world.New(nil)
	id := w.Spawn(config.Trainer(), world.LevelFlight(950, 50, 0), fdm.ControlSurfaces{})
	w.Step(0.01) // populate air data

	// Below the target altitude and slow: expect nose-up elevator below
	// the trim deflection and extra power above the trim lever.
	ap := New(1000, 55, -0.1, 0.3)
	ap.Step(w, id, 0.01)

	ctl := w.Controls(id)
	if ctl.Elevator >= -0.1 {
		t.Errorf("elevator %f should move below trim for a climb", ctl.Elevator)
	}
	if ctl.PowerLever <= 0.3 {
		t.Errorf("power lever %f should move above trim to accelerate", ctl.PowerLever)
	}
}

func TestStepDeadEntityNoOp(t *testing.T) {
	w := world.New(nil)
	id := w.Spawn(config.Trainer(), world.LevelFlight(1000, 55, 0), fdm.ControlSurfaces{})
	w.Despawn(id)

	ap := New(1000, 55, -0.1, 0.3)
	ap.Step(w, id, 0.01) // must not panic
}

// Closed loop over a trimmed twinprop: the holds must keep the state finite
// and clamped for an extended run.
func TestClosedLoopStaysSane(t *testing.T) {
	w := world.New(nil)
	id := w.Spawn(config.Twinprop(), world.LevelFlight(1000, 70, 0), fdm.ControlSurfaces{})

	res, err := w.Trim(id, trim.Target{Airspeed: 70})
	if err != nil {
		t.Fatalf("trim failed: %v", err)
	}

	ap := New(1000, 70, res.State.Elevator, res.State.PowerLever)
	for i := 0; i < 2000; i++ {
		ap.Step(w, id, 0.01)
		w.Step(0.01)

		sp := w.Spatial(id)
		if !sp.IsFinite() {
			t.Fatalf("non-finite state at tick %d", i)
		}
	}

	ctl := w.Controls(id)
	if math.Abs(ctl.Elevator) > 1 || ctl.PowerLever < 0 || ctl.PowerLever > 1 {
		t.Errorf("controls left the clamp range: %+v", ctl)
	}
	if math.Abs(w.Spatial(id).Altitude()-1000) > 200 {
		t.Errorf("altitude %f drifted far from hold target", w.Spatial(id).Altitude())
	}
}
