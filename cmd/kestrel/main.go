package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kestrel-sim/kestrel/internal/analysis"
	"github.com/kestrel-sim/kestrel/internal/autopilot"
	"github.com/kestrel-sim/kestrel/internal/batch"
	"github.com/kestrel-sim/kestrel/internal/config"
	"github.com/kestrel-sim/kestrel/internal/env"
	"github.com/kestrel-sim/kestrel/internal/fdm"
	"github.com/kestrel-sim/kestrel/internal/metrics"
	"github.com/kestrel-sim/kestrel/internal/storage"
	"github.com/kestrel-sim/kestrel/internal/trim"
	"github.com/kestrel-sim/kestrel/internal/viz"
	"github.com/kestrel-sim/kestrel/internal/world"
)

var (
	dataDir    string
	configFile string
	preset     string

	dt       float64
	duration float64
	altitude float64
	airspeed float64

	elevator   float64
	powerLever float64

	windSpeed float64
	windDir   float64

	trimAirspeed float64
	climbAngle   float64

	hold bool

	sweepFrom   float64
	sweepTo     float64
	sweepPoints int

	plotColumn    string
	analyzeColumn string
	exportPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kestrel",
		Short: "rigid-body flight dynamics simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kestrel", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "aircraft config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "trainer", "aircraft preset")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a recorded simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep, s")
	runCmd.Flags().Float64Var(&duration, "time", 60, "duration, s")
	runCmd.Flags().Float64Var(&altitude, "altitude", 1000, "initial altitude, m")
	runCmd.Flags().Float64Var(&airspeed, "airspeed", 55, "initial airspeed, m/s")
	runCmd.Flags().Float64Var(&elevator, "elevator", 0, "elevator position [-1,1]")
	runCmd.Flags().Float64Var(&powerLever, "power", 0.3, "power lever [0,1]")
	runCmd.Flags().Float64Var(&windSpeed, "wind-speed", 0, "wind speed, m/s")
	runCmd.Flags().Float64Var(&windDir, "wind-dir", 0, "wind direction FROM, deg")
	runCmd.Flags().BoolVar(&hold, "hold", false, "trim first, then hold altitude and airspeed")

	trimCmd := &cobra.Command{
		Use:   "trim",
		Short: "solve a trim point and print it",
		RunE:  solveTrim,
	}
	trimCmd.Flags().Float64Var(&trimAirspeed, "airspeed", 70, "target airspeed, m/s")
	trimCmd.Flags().Float64Var(&climbAngle, "gamma", 0, "flight path angle, deg")
	trimCmd.Flags().Float64Var(&altitude, "altitude", 1000, "trim altitude, m")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run column",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotColumn, "column", "airspeed", "csv column to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportPath, "out", "run.json", "output path")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "fly interactively in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep, s")
	liveCmd.Flags().Float64Var(&altitude, "altitude", 1000, "initial altitude, m")
	liveCmd.Flags().Float64Var(&airspeed, "airspeed", 55, "initial airspeed, m/s")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "trim across an airspeed range",
		RunE:  sweepTrim,
	}
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 60, "lowest airspeed, m/s")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 85, "highest airspeed, m/s")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 10, "number of conditions")
	sweepCmd.Flags().Float64Var(&altitude, "altitude", 1000, "trim altitude, m")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "identify the dominant oscillation of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeColumn, "column", "pitch", "csv column to analyze")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list aircraft presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, trimCmd, sweepCmd, analyzeCmd, listCmd, plotCmd, exportCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadAircraft() (*config.Aircraft, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	ac := config.GetPreset(preset)
	if ac == nil {
		return nil, fmt.Errorf("unknown preset %q (have: %v)", preset, config.ListPresets())
	}
	return ac, nil
}

func buildWorld() *world.World {
	if windSpeed > 0 {
		return world.New(env.FromSpeedAndDir(windSpeed, windDir))
	}
	return world.New(env.Calm{})
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ac, err := loadAircraft()
	if err != nil {
		return err
	}

	w := buildWorld()
	id := w.Spawn(ac, world.LevelFlight(altitude, airspeed, 0), fdm.ControlSurfaces{
		Elevator:   elevator,
		PowerLever: powerLever,
	})

	cfg := world.RunConfig{
		Dt:            dt,
		Duration:      duration,
		ValidateState: true,
	}
	if hold {
		res, err := w.Trim(id, trim.Target{Airspeed: airspeed})
		if err != nil {
			return err
		}
		ap := autopilot.New(altitude, airspeed, res.State.Elevator, res.State.PowerLever)
		cfg.PreStep = func(dt float64) { ap.Step(w, id, dt) }
	}

	result, err := w.Run(context.Background(), id, cfg)
	if err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(ac.Name, dt, result)
	if err != nil {
		return err
	}

	last := result.Samples[len(result.Samples)-1]
	fmt.Printf("run %s: %d steps, final altitude %.1f m, airspeed %.1f m/s\n",
		runID, result.StepsTaken, last.Spatial.Altitude(), last.Air.TrueAirspeed)

	figures := metrics.Compute(result.Samples,
		metrics.NewEnergyDrift(),
		metrics.NewAltitudeDeviation(),
		metrics.NewControlEffort(),
		metrics.NewFuelBurn(dt),
	)
	fmt.Printf("energy drift %.2f%%, max altitude deviation %.1f m, control effort %.3f, fuel %.3f kg\n",
		figures["energy_drift"]*100, figures["altitude_deviation"],
		figures["control_effort"], figures["fuel_burn"])
	return nil
}

func solveTrim(cmd *cobra.Command, args []string) error {
	ac, err := loadAircraft()
	if err != nil {
		return err
	}

	density := env.ISADensity(altitude)
	solver := trim.NewSolver(ac.TrimProblem(density), ac.Trim)
	res, err := solver.Solve(trim.Target{
		Airspeed:        trimAirspeed,
		FlightPathAngle: climbAngle * math.Pi / 180,
	}, nil)
	if err != nil {
		return err
	}

	fmt.Printf("aircraft:   %s at %.0f m, %.1f m/s\n", ac.Name, altitude, trimAirspeed)
	fmt.Printf("converged:  %v (cost %.3e, %d iterations)\n", res.Converged, res.Cost, res.Iterations)
	fmt.Printf("alpha:      %7.3f deg\n", res.State.Alpha*180/math.Pi)
	fmt.Printf("theta:      %7.3f deg\n", res.State.Theta*180/math.Pi)
	fmt.Printf("elevator:   %+7.3f\n", res.State.Elevator)
	fmt.Printf("power:      %7.1f %%\n", res.State.PowerLever*100)
	fmt.Printf("residual F: (%.1f, %.1f, %.1f) N\n",
		res.ResidualForce.X(), res.ResidualForce.Y(), res.ResidualForce.Z())
	fmt.Printf("residual M: (%.1f, %.1f, %.1f) N m\n",
		res.ResidualMoment.X(), res.ResidualMoment.Y(), res.ResidualMoment.Z())
	return nil
}

func sweepTrim(cmd *cobra.Command, args []string) error {
	ac, err := loadAircraft()
	if err != nil {
		return err
	}

	points := batch.TrimSweep(context.Background(), ac, altitude,
		batch.Range(sweepFrom, sweepTo, sweepPoints))

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AIRSPEED\tALPHA\tELEVATOR\tPOWER\tCOST")
	levers := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(tw, "%.1f\tfailed: %v\n", p.Airspeed, p.Err)
			continue
		}
		fmt.Fprintf(tw, "%.1f\t%.2f deg\t%+.3f\t%.1f %%\t%.2e\n",
			p.Airspeed, p.Result.State.Alpha*180/math.Pi,
			p.Result.State.Elevator, p.Result.State.PowerLever*100, p.Result.Cost)
		levers = append(levers, p.Result.State.PowerLever*100)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(levers) > 1 {
		fmt.Println()
		fmt.Println(viz.Plot("trim power [%] vs airspeed", levers))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Meta(args[0])
	if err != nil {
		return err
	}
	series, err := store.LoadSeries(args[0], analyzeColumn)
	if err != nil {
		return err
	}

	mode := analysis.IdentifyMode(series, meta.Dt)
	fmt.Printf("run %s, column %s over %.1f s\n", meta.ID, analyzeColumn, meta.Duration)
	if mode.Frequency == 0 {
		fmt.Println("no dominant oscillation found")
		return nil
	}
	fmt.Printf("dominant mode: %.3f Hz (period %.1f s)\n", mode.Frequency, mode.Period)
	if !math.IsNaN(mode.DampingRatio) {
		fmt.Printf("damping ratio: %.3f\n", mode.DampingRatio)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAIRCRAFT\tSTEPS\tDURATION\tDATE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1fs\t%s\n",
			r.ID, r.Aircraft, r.Steps, r.Duration, r.Timestamp.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	series, err := store.LoadSeries(args[0], plotColumn)
	if err != nil {
		return err
	}
	fmt.Println(viz.Plot(plotColumn, series))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	if err := store.Export(args[0], exportPath); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", args[0], exportPath)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	ac, err := loadAircraft()
	if err != nil {
		return err
	}

	w := buildWorld()
	id := w.Spawn(ac, world.LevelFlight(altitude, airspeed, 0), fdm.ControlSurfaces{
		PowerLever: 0.3,
	})

	program := tea.NewProgram(viz.NewLive(w, id, dt))
	_, err = program.Run()
	return err
}
