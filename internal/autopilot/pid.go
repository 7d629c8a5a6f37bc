// Package autopilot provides simple hold modes that drive the control
// surfaces between ticks. The loops are deliberately plain PID: the point
// is keeping a trimmed aircraft on condition, not flying aggressive
// maneuvers.
package autopilot

// PID is a textbook proportional-integral-derivative loop on a scalar
// measurement. Derivative acts on the error, so step changes of the target
// kick the output.
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64

	integral float64
	prevErr  float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, Target: target, first: true}
}

// Update advances the loop by dt and returns the new output.
func (p *PID) Update(measurement, dt float64) float64 {
	err := p.Target - measurement

	if p.first || dt <= 0 {
		p.prevErr = err
		p.first = false
		return p.Kp * err
	}

	p.integral += err * dt
	derivative := (err - p.prevErr) / dt
	p.prevErr = err

	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative
}

// Reset clears integral and derivative state.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}
