package batch

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kestrel-sim/kestrel/internal/config"
)

func TestRange(t *testing.T) {
	vals := Range(60, 80, 5)
	want := []float64{60, 65, 70, 75, 80}
	if len(vals) != len(want) {
		t.Fatalf("got %d values, want %d", len(vals), len(want))
	}
	for i, w := range want {
		if math.Abs(vals[i]-w) > 1e-12 {
			t.Errorf("vals[%d] = %f, want %f", i, vals[i], w)
		}
	}
}

func TestRangeSinglePoint(t *testing.T) {
	vals := Range(70, 90, 1)
	if len(vals) != 1 || vals[0] != 70 {
		t.Errorf("got %v, want [70]", vals)
	}
}

func TestTrimSweepTwinprop(t *testing.T) {
	ac := config.Twinprop()
	speeds := Range(62, 80, 4)

	points := TrimSweep(context.Background(), ac, 1000, speeds)
	if len(points) != len(speeds) {
		t.Fatalf("got %d points, want %d", len(points), len(speeds))
	}

	for i, p := range points {
		if p.Airspeed != speeds[i] {
			t.Errorf("point %d at airspeed %f, want input order %f", i, p.Airspeed, speeds[i])
		}
		if p.Err != nil {
			t.Errorf("point %.0f m/s failed: %v", p.Airspeed, p.Err)
			continue
		}
		if !p.Result.Converged {
			t.Errorf("point %.0f m/s did not converge, cost %g", p.Airspeed, p.Result.Cost)
		}
	}

	// Faster flight needs a lower angle of attack.
	if points[0].Err == nil && points[len(points)-1].Err == nil {
		if points[len(points)-1].Result.State.Alpha >= points[0].Result.State.Alpha {
			t.Errorf("alpha should fall with airspeed: %f at %.0f vs %f at %.0f",
				points[0].Result.State.Alpha, points[0].Airspeed,
				points[len(points)-1].Result.State.Alpha, points[len(points)-1].Airspeed)
		}
	}
}

func TestTrimSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	points := TrimSweep(ctx, config.Twinprop(), 1000, Range(60, 80, 3))
	for _, p := range points {
		if !errors.Is(p.Err, context.Canceled) {
			t.Errorf("point %.0f should carry the context error, got %v", p.Airspeed, p.Err)
		}
	}
}
