// Package storage persists recorded simulation runs: one directory per run
// with JSON metadata and a CSV state trace.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/kestrel-sim/kestrel/internal/fdm"
	"github.com/kestrel-sim/kestrel/internal/world"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one persisted run.
type RunMetadata struct {
	ID        string    `json:"id"`
	Aircraft  string    `json:"aircraft"`
	Timestamp time.Time `json:"timestamp"`
	Dt        float64   `json:"dt"`
	Duration  float64   `json:"duration"`
	Steps     int       `json:"steps"`
}

var csvHeader = []string{
	"time",
	"north", "east", "down",
	"vn", "ve", "vd",
	"roll", "pitch", "yaw",
	"airspeed", "alpha", "beta",
	"elevator", "aileron", "rudder", "power_lever",
	"fuel_flow",
}

// Save writes a run directory with metadata.json and states.csv, returning
// the run id.
func (s *Store) Save(aircraft string, dt float64, result *world.RunResult) (string, error) {
	runID := fmt.Sprintf("%s_%d", aircraft, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Aircraft:  aircraft,
		Timestamp: time.Now(),
		Dt:        dt,
		Duration:  dt * float64(result.StepsTaken),
		Steps:     result.StepsTaken,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for i := range result.Samples {
		if err := w.Write(sampleRow(&result.Samples[i])); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func sampleRow(s *world.Sample) []string {
	roll, pitch, yaw := fdm.EulerFromQuat(s.Spatial.Attitude)
	vals := []float64{
		s.Time,
		s.Spatial.Position.X(), s.Spatial.Position.Y(), s.Spatial.Position.Z(),
		s.Spatial.Velocity.X(), s.Spatial.Velocity.Y(), s.Spatial.Velocity.Z(),
		roll, pitch, yaw,
		s.Air.TrueAirspeed, s.Air.Alpha, s.Air.Beta,
		s.Controls.Elevator, s.Controls.Aileron, s.Controls.Rudder, s.Controls.PowerLever,
		s.FuelFlow,
	}
	row := make([]string, len(vals))
	for i, v := range vals {
		row[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return row
}

// List returns metadata for every stored run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.loadMeta(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// Meta returns the metadata of one stored run.
func (s *Store) Meta(runID string) (RunMetadata, error) {
	return s.loadMeta(runID)
}

func (s *Store) loadMeta(runID string) (RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return RunMetadata{}, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return RunMetadata{}, err
	}
	return meta, nil
}

// LoadSeries reads one named column of a stored run's CSV trace.
func (s *Store) LoadSeries(runID, column string) ([]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	col := -1
	for i, name := range header {
		if name == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("storage: run %s has no column %q", runID, column)
	}

	var series []float64
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			return nil, err
		}
		series = append(series, v)
	}
	return series, nil
}

// Export writes a stored run's metadata as indented JSON to path.
func (s *Store) Export(runID, path string) error {
	meta, err := s.loadMeta(runID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
