package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kestrel-sim/kestrel/internal/fdm"
	"github.com/kestrel-sim/kestrel/internal/world"
)

func sampleRun() *world.RunResult {
	res := &world.RunResult{StepsTaken: 2}
	for i := 0; i <= 2; i++ {
		t := float64(i) * 0.01
		res.Samples = append(res.Samples, world.Sample{
			Time: t,
			Spatial: fdm.SpatialState{
				Position: mgl64.Vec3{t * 55, 0, -1000},
				Velocity: mgl64.Vec3{55, 0, 0},
				Attitude: fdm.QuatFromEuler(0, 0.03, 0),
			},
			Air:      fdm.AirData{TrueAirspeed: 55, Alpha: 0.03},
			Controls: fdm.ControlSurfaces{Elevator: -0.1, PowerLever: 0.3},
			FuelFlow: 0.008,
		})
	}
	return res
}

func TestSaveAndList(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := s.Save("trainer", 0.01, sampleRun())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	meta := runs[0]
	if meta.ID != runID || meta.Aircraft != "trainer" || meta.Steps != 2 {
		t.Errorf("metadata wrong: %+v", meta)
	}
	if math.Abs(meta.Duration-0.02) > 1e-12 {
		t.Errorf("duration %f, want 0.02", meta.Duration)
	}
}

func TestListEmptyBaseDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := s.List()
	if err != nil {
		t.Fatalf("list on missing dir should not error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs, want 0", len(runs))
	}
}

func TestLoadSeries(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	runID, err := s.Save("trainer", 0.01, sampleRun())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	speeds, err := s.LoadSeries(runID, "airspeed")
	if err != nil {
		t.Fatalf("load series: %v", err)
	}
	if len(speeds) != 3 {
		t.Fatalf("got %d values, want 3", len(speeds))
	}
	for i, v := range speeds {
		if math.Abs(v-55) > 1e-6 {
			t.Errorf("airspeed[%d] = %f, want 55", i, v)
		}
	}

	pitches, err := s.LoadSeries(runID, "pitch")
	if err != nil {
		t.Fatalf("load pitch: %v", err)
	}
	if math.Abs(pitches[0]-0.03) > 1e-6 {
		t.Errorf("pitch %f, want 0.03", pitches[0])
	}

	if _, err := s.LoadSeries(runID, "no_such_column"); err == nil {
		t.Error("unknown column should error")
	}
}

func TestExport(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	runID, err := s.Save("twinprop", 0.01, sampleRun())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	out := filepath.Join(t.TempDir(), "run.json")
	if err := s.Export(runID, out); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(data) == 0 {
		t.Error("exported metadata is empty")
	}
}
