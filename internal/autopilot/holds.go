package autopilot

import "github.com/kestrel-sim/kestrel/internal/world"

// Autopilot holds altitude with the elevator and airspeed with the power
// lever. Engage from a trimmed condition: the loops correct around trim,
// they do not find it.
type Autopilot struct {
	altitude *PID
	airspeed *PID

	trimElevator float64
	trimLever    float64
}

// New builds hold loops for a target altitude (m) and airspeed (m/s) with
// gains tuned for the bundled airframes. trimElevator and trimLever anchor
// the outputs at the trimmed deflections.
func New(altitude, airspeed, trimElevator, trimLever float64) *Autopilot {
	return &Autopilot{
		altitude:     NewPID(0.0020, 0.0001, 0.0080, altitude),
		airspeed:     NewPID(0.0500, 0.0080, 0, airspeed),
		trimElevator: trimElevator,
		trimLever:    trimLever,
	}
}

// Step reads the entity's state and writes corrected controls. A dead id is
// a no-op.
func (a *Autopilot) Step(w *world.World, id world.EntityID, dt float64) {
	sp := w.Spatial(id)
	air := w.Air(id)
	ctl := w.Controls(id)
	if sp == nil || air == nil || ctl == nil {
		return
	}

	// Below target altitude the error is positive and the nose must come
	// up, which takes negative elevator.
	ctl.Elevator = a.trimElevator - a.altitude.Update(sp.Altitude(), dt)
	ctl.PowerLever = a.trimLever + a.airspeed.Update(air.TrueAirspeed, dt)
	ctl.Clamp()
}

// Reset clears both loops, for re-engaging after manual flight.
func (a *Autopilot) Reset() {
	a.altitude.Reset()
	a.airspeed.Reset()
}
