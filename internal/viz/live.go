package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/kestrel-sim/kestrel/internal/fdm"
	"github.com/kestrel-sim/kestrel/internal/trim"
	"github.com/kestrel-sim/kestrel/internal/world"
)

const (
	frameRate       = 30
	historyCapacity = 600
)

// TickMsg drives the simulation clock.
type TickMsg time.Time

// Live is the bubbletea model for an interactive cockpit view of one
// entity.
type Live struct {
	world   *world.World
	id      world.EntityID
	dt      float64
	t       float64
	running bool
	status  string

	altHistory   []float64
	speedHistory []float64
}

// NewLive builds the live view around an already-spawned entity.
func NewLive(w *world.World, id world.EntityID, dt float64) Live {
	return Live{world: w, id: id, dt: dt, running: true}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Live) Init() tea.Cmd { return tick() }

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		ctl := m.world.Controls(m.id)
		if ctl == nil {
			return m, tea.Quit
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "up":
			ctl.Elevator -= 0.02
		case "down":
			ctl.Elevator += 0.02
		case "left":
			ctl.Aileron -= 0.02
		case "right":
			ctl.Aileron += 0.02
		case "+", "=":
			ctl.PowerLever += 0.05
		case "-":
			ctl.PowerLever -= 0.05
		case "t":
			sp := m.world.Spatial(m.id)
			target := trim.Target{Airspeed: sp.Velocity.Len()}
			if res, err := m.world.Trim(m.id, target); err != nil {
				m.status = fmt.Sprintf("trim failed: %v", err)
			} else {
				m.status = fmt.Sprintf("trimmed: cost %.2e in %d iterations", res.Cost, res.Iterations)
			}
		}
		ctl.Clamp()
		return m, nil

	case TickMsg:
		if m.running {
			// Advance sim time in lockstep with the frame clock.
			steps := int(1 / (float64(frameRate) * m.dt))
			if steps < 1 {
				steps = 1
			}
			for i := 0; i < steps; i++ {
				m.world.Step(m.dt)
				m.t += m.dt
			}
			sp := m.world.Spatial(m.id)
			air := m.world.Air(m.id)
			m.altHistory = appendCapped(m.altHistory, sp.Altitude())
			m.speedHistory = appendCapped(m.speedHistory, air.TrueAirspeed)
		}
		return m, tick()
	}
	return m, nil
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[len(s)-historyCapacity:]
	}
	return s
}

func (m Live) View() string {
	sp := m.world.Spatial(m.id)
	air := m.world.Air(m.id)
	ctl := m.world.Controls(m.id)
	if sp == nil {
		return warnStyle.Render("entity despawned")
	}

	roll, pitch, yaw := fdm.EulerFromQuat(sp.Attitude)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("kestrel  t=%7.2fs", m.t)))
	b.WriteString("\n")

	rows := []struct {
		label string
		value string
	}{
		{"altitude", fmt.Sprintf("%8.1f m", sp.Altitude())},
		{"airspeed", fmt.Sprintf("%8.1f m/s", air.TrueAirspeed)},
		{"alpha", fmt.Sprintf("%8.2f deg", deg(air.Alpha))},
		{"beta", fmt.Sprintf("%8.2f deg", deg(air.Beta))},
		{"attitude", fmt.Sprintf("r %6.1f  p %6.1f  y %6.1f deg", deg(roll), deg(pitch), deg(yaw))},
		{"elevator", fmt.Sprintf("%+6.2f", ctl.Elevator)},
		{"power", fmt.Sprintf("%6.0f %%", ctl.PowerLever*100)},
	}
	var panel strings.Builder
	for _, r := range rows {
		panel.WriteString(labelStyle.Render(r.label))
		panel.WriteString(valueStyle.Render(r.value))
		panel.WriteString("\n")
	}
	b.WriteString(panelStyle.Render(strings.TrimRight(panel.String(), "\n")))
	b.WriteString("\n")

	if len(m.altHistory) > 1 {
		b.WriteString(asciigraph.Plot(m.altHistory,
			asciigraph.Height(8), asciigraph.Width(70),
			asciigraph.Caption("altitude, m")))
		b.WriteString("\n")
	}
	if len(m.speedHistory) > 1 {
		b.WriteString(asciigraph.Plot(m.speedHistory,
			asciigraph.Height(6), asciigraph.Width(70),
			asciigraph.Caption("airspeed, m/s")))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(warnStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("arrows: elevator/aileron  +/-: power  t: trim  space: pause  q: quit"))
	return b.String()
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }
