package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/vehlab/internal/analysis"
	"github.com/san-kum/vehlab/internal/config"
	"github.com/san-kum/vehlab/internal/export"
	"github.com/san-kum/vehlab/internal/live"
	"github.com/san-kum/vehlab/internal/optim"
	"github.com/san-kum/vehlab/internal/registry"
	"github.com/san-kum/vehlab/internal/scenario"
	"github.com/san-kum/vehlab/internal/session"
	"github.com/san-kum/vehlab/internal/store"
	"github.com/san-kum/vehlab/internal/theory"
	"github.com/san-kum/vehlab/internal/validation"
	"github.com/san-kum/vehlab/internal/vdyn"
	"github.com/san-kum/vehlab/internal/vparam"
)

var (
	dataDir    string
	configFile string
	preset     string
	modelID    string
	dt         float64
	duration   float64
	speed      float64
	seed       int64
	noiseStd   float64
	// scenario inputs
	steerDeg   float64
	stepTime   float64
	radius     float64
	rampRate   float64
	freqsArg   string
	ampDeg     float64
	kp, ki, kd float64
	// bode
	bodeFrom float64
	bodeTo   float64
	bodeN    int
	// live
	scenarioID string
	speedMult  float64
	// export-svg
	svgOut    string
	svgWidth  int
	svgHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vehlab",
		Short: "vehicle dynamics simulation and validation lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vehlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a canonical scenario and grade it against theory",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&modelID, "model", "bicycle", "model id")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration")
	runCmd.Flags().Float64Var(&speed, "speed", 0, "forward speed m/s")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for process noise")
	runCmd.Flags().Float64Var(&noiseStd, "noise", 0, "yaw-rate noise std dev")
	runCmd.Flags().Float64Var(&steerDeg, "delta", 0, "steer angle, degrees (step_steer)")
	runCmd.Flags().Float64Var(&stepTime, "t-step", 0, "step time, s (step_steer)")
	runCmd.Flags().Float64Var(&radius, "radius", 0, "circle radius, m (skidpad)")
	runCmd.Flags().Float64Var(&rampRate, "ramp-rate", 0, "steer ramp rate, deg/s (ramp_to_limit)")
	runCmd.Flags().StringVar(&freqsArg, "freqs", "", "comma-separated frequencies, Hz (frequency_response)")
	runCmd.Flags().Float64Var(&ampDeg, "amplitude", 0, "sine amplitude, degrees (frequency_response)")
	runCmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "skidpad pid kp")
	runCmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "skidpad pid ki")
	runCmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "skidpad pid kd")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	validateCmd := &cobra.Command{
		Use:   "validate [case]",
		Short: "run validation cases against closed-form expectations",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runValidation,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list registered models",
		RunE:  listModels,
	}

	bodeCmd := &cobra.Command{
		Use:   "bode",
		Short: "plot the closed-form yaw-rate frequency response",
		RunE:  plotBode,
	}
	bodeCmd.Flags().Float64Var(&speed, "speed", 20, "forward speed m/s")
	bodeCmd.Flags().Float64Var(&bodeFrom, "from", 0.1, "start frequency, Hz")
	bodeCmd.Flags().Float64Var(&bodeTo, "to", 3.0, "end frequency, Hz")
	bodeCmd.Flags().IntVar(&bodeN, "points", 60, "number of points")
	bodeCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	theoryCmd := &cobra.Command{
		Use:   "theory",
		Short: "print the linear-theory summary for a vehicle",
		RunE:  printTheory,
	}
	theoryCmd.Flags().Float64Var(&speed, "speed", 20, "forward speed m/s")
	theoryCmd.Flags().Float64Var(&radius, "radius", 30, "skidpad radius, m")
	theoryCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "drive a model interactively in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&scenarioID, "scenario", scenario.StepSteer, "input scenario")
	liveCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	liveCmd.Flags().Float64Var(&speed, "speed", 0, "forward speed m/s")
	liveCmd.Flags().Float64Var(&speedMult, "speed-mult", 1, "wall clock speed multiplier")
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			sort.Strings(names)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range names {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored run's telemetry as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a stored run as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored run's trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "trajectory.svg", "output file")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "frequency analysis of a stored run's yaw rate",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeSpectrum,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search skidpad pid gains",
		RunE:  tunePID,
	}
	tuneCmd.Flags().StringVar(&modelID, "model", "bicycle", "model id")
	tuneCmd.Flags().Float64Var(&speed, "speed", 15, "forward speed m/s")
	tuneCmd.Flags().Float64Var(&radius, "radius", 30, "circle radius, m")
	tuneCmd.Flags().Float64Var(&duration, "time", 12, "duration per candidate")

	rootCmd.AddCommand(runCmd, validateCmd, modelsCmd, bodeCmd, theoryCmd,
		liveCmd, presetsCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, spectrumCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadRunConfig resolves preset, config file and flags into one Config.
// Precedence: flags > config file > preset > defaults.
func loadRunConfig(cmd *cobra.Command, scenarioID string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Scenario = scenarioID

	if preset != "" {
		p := config.GetPreset(scenarioID, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)",
				preset, config.ListPresets(scenarioID))
		}
		base := *cfg
		*cfg = *p
		if cfg.PID == (config.PIDConfig{}) {
			cfg.PID = base.PID
		}
		if cfg.Integrator == "" {
			cfg.Integrator = base.Integrator
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		cfg.Scenario = scenarioID
	}

	if cmd.Flags().Changed("model") {
		cfg.Model = modelID
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("speed") {
		cfg.Speed = speed
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("noise") {
		cfg.NoiseStd = noiseStd
	}
	if cmd.Flags().Changed("kp") {
		cfg.PID.Kp = kp
	}
	if cmd.Flags().Changed("ki") {
		cfg.PID.Ki = ki
	}
	if cmd.Flags().Changed("kd") {
		cfg.PID.Kd = kd
	}
	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenarioName := args[0]

	cfg, err := loadRunConfig(cmd, scenarioName)
	if err != nil {
		return err
	}
	params, err := cfg.SimParams()
	if err != nil {
		return err
	}

	reg := registry.Default()
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s on %s at %.1f m/s...\n", scenarioName, cfg.Model, cfg.Speed)
	start := time.Now()

	var result *scenario.Result
	switch scenarioName {
	case scenario.StepSteer:
		c := scenario.StepSteerConfig{
			ModelID: cfg.Model, Params: &params, Speed: cfg.Speed,
			Dt: cfg.Dt, Duration: cfg.Duration,
			SteerAngle: deg2rad(steerDeg), StepTime: stepTime,
		}
		result, err = scenario.RunStepSteer(reg, c)

	case scenario.Skidpad:
		r := radius
		if r == 0 {
			r = cfg.Overrides["radius"]
		}
		c := scenario.SkidpadConfig{
			ModelID: cfg.Model, Params: &params, Speed: cfg.Speed,
			Dt: cfg.Dt, Duration: cfg.Duration, Radius: r,
			PID: scenario.PIDGains{Kp: cfg.PID.Kp, Ki: cfg.PID.Ki, Kd: cfg.PID.Kd, OutMax: cfg.PID.OutMax},
		}
		result, err = scenario.RunSkidpad(reg, c)

	case scenario.FrequencyResponse:
		freqs, ferr := parseFreqs(freqsArg)
		if ferr != nil {
			return ferr
		}
		c := scenario.FrequencyConfig{
			ModelID: cfg.Model, Params: &params, Speed: cfg.Speed,
			Dt: cfg.Dt, Frequencies: freqs, Amplitude: deg2rad(ampDeg),
		}
		result, err = scenario.RunFrequencyResponse(reg, c)

	case scenario.RampToLimit:
		c := scenario.RampConfig{
			ModelID: cfg.Model, Params: &params, Speed: cfg.Speed,
			Dt: cfg.Dt, Duration: cfg.Duration, RampRate: deg2rad(rampRate),
		}
		result, err = scenario.RunRampToLimit(reg, c)

	default:
		return fmt.Errorf("unknown scenario: %s (available: %v)", scenarioName, scenario.List())
	}
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	runID, err := st.Save(result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.Telemetry))

	printResult(result)
	return nil
}

func printResult(result *scenario.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "\nMETRIC\tVALUE\tGRADE")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		grade := "-"
		if pass, ok := result.Grades[name]; ok {
			grade = "PASS"
			if !pass {
				grade = "FAIL"
			}
		}
		fmt.Fprintf(w, "%s\t%.6f\t%s\n", name, result.Metrics[name], grade)
	}

	fmt.Fprintln(w, "\nFLAG\tSET")
	flagNames := make([]string, 0, len(result.Flags))
	for name := range result.Flags {
		flagNames = append(flagNames, name)
	}
	sort.Strings(flagNames)
	for _, name := range flagNames {
		fmt.Fprintf(w, "%s\t%v\n", name, result.Flags[name])
	}
	w.Flush()

	if len(result.Telemetry) > 1 {
		data := make([]float64, len(result.Telemetry))
		for i, tel := range result.Telemetry {
			data[i] = tel.YawRate
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10), asciigraph.Width(80),
			asciigraph.Caption("yaw rate (rad/s)")))
	}
}

func runValidation(cmd *cobra.Command, args []string) error {
	reg := registry.Default()

	defs := validation.Cases()
	ids := make([]string, 0, len(defs))
	if len(args) == 1 {
		if _, err := validation.Lookup(args[0]); err != nil {
			return fmt.Errorf("%w: %s", err, args[0])
		}
		ids = append(ids, args[0])
	} else {
		for id := range defs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CASE\tCHANNEL\tRMSE\tMEAN\tMAX\tRESULT")

	allPass := true
	for _, id := range ids {
		report, err := validation.Run(reg, defs[id], nil)
		if err != nil {
			return err
		}
		channels := make([]string, 0, len(report.Channels))
		for name := range report.Channels {
			channels = append(channels, name)
		}
		sort.Strings(channels)
		for _, name := range channels {
			s := report.Channels[name]
			verdict := "PASS"
			if pass, graded := report.Pass[name]; graded && !pass {
				verdict = "FAIL"
				allPass = false
			}
			fmt.Fprintf(w, "%s\t%s\t%.6f\t%+.6f\t%.6f\t%s\n",
				id, name, s.RMSE, s.MeanErr, s.MaxErr, verdict)
		}
	}
	w.Flush()

	if len(args) == 0 {
		fmt.Println("\nbaselines:")
		baselines := []func(*registry.Registry) (*validation.BaselineResult, error){
			validation.UnicycleCircleBaseline,
			validation.BicycleStepBaseline,
		}
		for _, run := range baselines {
			res, err := run(reg)
			if err != nil {
				return err
			}
			verdict := "PASS"
			if !res.Passed {
				verdict = "FAIL"
				allPass = false
			}
			fmt.Printf("  %-18s metric=%.4f bound=%.4f  %s\n", res.Name, res.Metric, res.Bound, verdict)
		}
	}

	if !allPass {
		return fmt.Errorf("validation failed")
	}
	fmt.Println("\nall checks passed")
	return nil
}

func listModels(cmd *cobra.Command, args []string) error {
	reg := registry.Default()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE DIM\tWHEELBASE\tDEFAULT SPEED")
	for _, id := range reg.List() {
		m, err := reg.Get(id)
		if err != nil {
			return err
		}
		p := m.Defaults()
		dim := len(m.Init(p))
		fmt.Fprintf(w, "%s\t%d\t%.2fm\t%.1f m/s\n", id, dim, p.Vehicle.Wheelbase(), p.Speed)
	}
	return w.Flush()
}

func theoryVehicle() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	return config.DefaultConfig(), nil
}

func plotBode(cmd *cobra.Command, args []string) error {
	cfg, err := theoryVehicle()
	if err != nil {
		return err
	}
	v, err := cfg.VehicleParams()
	if err != nil {
		return err
	}

	if bodeN < 2 || bodeTo <= bodeFrom {
		return fmt.Errorf("bad frequency range")
	}
	freqs := make([]float64, bodeN)
	for i := range freqs {
		freqs[i] = bodeFrom + (bodeTo-bodeFrom)*float64(i)/float64(bodeN-1)
	}

	sys := theory.NewSystem(vparam.LinearBicycleCoeffs(v, speed))
	points, err := sys.FrequencyResponse(freqs)
	if err != nil {
		return err
	}

	gains := make([]float64, len(points))
	for i, pt := range points {
		gains[i] = pt.YawGain
	}

	fmt.Printf("yaw-rate gain, %.1f m/s, %.2f-%.2f Hz\n\n", speed, bodeFrom, bodeTo)
	fmt.Println(asciigraph.Plot(gains,
		asciigraph.Height(12), asciigraph.Width(80),
		asciigraph.Caption("|r/delta| (rad/s)/rad")))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nFREQ HZ\tYAW GAIN\tYAW PHASE\tAY GAIN\tAY PHASE")
	step := len(points) / 12
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(points); i += step {
		pt := points[i]
		fmt.Fprintf(w, "%.2f\t%.4f\t%+.1f°\t%.4f\t%+.1f°\n",
			pt.FreqHz, pt.YawGain, rad2deg(pt.YawPhase), pt.AyGain, rad2deg(pt.AyPhase))
	}
	return w.Flush()
}

func printTheory(cmd *cobra.Command, args []string) error {
	cfg, err := theoryVehicle()
	if err != nil {
		return err
	}
	v, err := cfg.VehicleParams()
	if err != nil {
		return err
	}

	sys := theory.NewSystem(vparam.LinearBicycleCoeffs(v, speed))
	gain, err := sys.SteadyStateGain()
	if err != nil {
		return err
	}
	skid, err := theory.SkidpadSteadyState(v, speed, radius)
	if err != nil {
		return err
	}
	limit, err := theory.FrictionLimitPrediction(v, speed)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "speed\t%.1f m/s\n", speed)
	fmt.Fprintf(w, "wheelbase\t%.2f m\n", v.Wheelbase())
	fmt.Fprintf(w, "yaw gain\t%.4f (rad/s)/rad\n", gain.Y)
	fmt.Fprintf(w, "natural freq\t%.3f rad/s\n", sys.NaturalFrequency())
	fmt.Fprintf(w, "damping\t%.3f\n", sys.DampingRatio())
	fmt.Fprintf(w, "understeer\t%.5f rad/g\n", skid.UndersteerGradient)
	fmt.Fprintf(w, "skidpad R=%.0fm\tr=%.4f rad/s  ay=%.2f m/s²  steer=%.4f rad\n",
		radius, skid.YawRate, skid.LatAccel, skid.SteerAngle)
	fmt.Fprintf(w, "friction limit\tay=%.2f m/s²  steer=%.4f rad\n", limit.AyMax, limit.SteerAtLimit)
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	model := "bicycle"
	if len(args) == 1 {
		model = args[0]
	}

	reg := registry.Default()
	sess := session.New(reg)

	var params *vdyn.Params
	if m, err := reg.Get(model); err == nil && speed > 0 {
		p := m.Defaults()
		p.Speed = speed
		params = &p
	}

	err := sess.Start(session.StartRequest{
		ModelID:         model,
		Params:          params,
		ScenarioID:      scenarioID,
		Dt:              dt,
		Seed:            seed,
		SpeedMultiplier: speedMult,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(live.NewModel(sess, model, scenarioID), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tMODEL\tTIME\tGRADES")
	for _, run := range runs {
		passed, total := 0, 0
		for _, ok := range run.Grades {
			total++
			if ok {
				passed++
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\n",
			run.ID, run.Scenario, run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"), passed, total)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadTelemetry(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\nscenario: %s  model: %s  samples: %d\n\n",
		meta.ID, meta.Scenario, meta.Model, len(series))

	channels := []struct {
		name    string
		extract func(t vdyn.Telemetry) float64
	}{
		{"yaw rate (rad/s)", func(t vdyn.Telemetry) float64 { return t.YawRate }},
		{"lateral accel (m/s²)", func(t vdyn.Telemetry) float64 { return t.LatAccel }},
		{"sideslip (rad)", func(t vdyn.Telemetry) float64 { return t.Sideslip }},
	}
	for _, ch := range channels {
		data := make([]float64, len(series))
		for i, tel := range series {
			data[i] = ch.extract(tel)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(8), asciigraph.Width(80),
			asciigraph.Caption(ch.name)))
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	series, err := st.LoadTelemetry(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "x", "y", "heading", "yawRate", "latAccel", "sideslip"}); err != nil {
		return err
	}
	for _, tel := range series {
		row := []string{
			strconv.FormatFloat(tel.T, 'f', 6, 64),
			strconv.FormatFloat(tel.X, 'f', 6, 64),
			strconv.FormatFloat(tel.Y, 'f', 6, 64),
			strconv.FormatFloat(tel.Heading, 'f', 6, 64),
			strconv.FormatFloat(tel.YawRate, 'f', 6, 64),
			strconv.FormatFloat(tel.LatAccel, 'f', 6, 64),
			strconv.FormatFloat(tel.Sideslip, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadTelemetry(args[0])
	if err != nil {
		return err
	}

	result := &scenario.Result{
		Scenario:  meta.Scenario,
		Model:     meta.Model,
		Telemetry: series,
		Metrics:   meta.Metrics,
		Grades:    meta.Grades,
		Flags:     meta.Flags,
	}
	return store.ExportJSONStdout(result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	series, err := st.LoadTelemetry(args[0])
	if err != nil {
		return err
	}
	if err := export.WriteTrajectorySVG(svgOut, series, svgWidth, svgHeight); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d samples)\n", svgOut, len(series))
	return nil
}

func analyzeSpectrum(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadTelemetry(args[0])
	if err != nil {
		return err
	}
	if len(series) < 4 {
		return fmt.Errorf("not enough samples")
	}

	data := make([]float64, len(series))
	for i, tel := range series {
		data[i] = tel.YawRate
	}
	sampleDt := (series[len(series)-1].T - series[0].T) / float64(len(series)-1)

	spec, err := analysis.Analyze(data, sampleDt)
	if err != nil {
		return err
	}

	fmt.Printf("spectrum: %s (%s / %s)\n\n", meta.ID, meta.Scenario, meta.Model)

	plotBins := len(spec.Power) / 4
	if plotBins < 8 {
		plotBins = len(spec.Power)
	}
	fmt.Println(asciigraph.Plot(spec.Power[:plotBins],
		asciigraph.Height(12), asciigraph.Width(80),
		asciigraph.Caption("yaw-rate magnitude spectrum")))

	fmt.Printf("\ndominant frequency: %.3f Hz\n", spec.DominantHz)
	if spec.DominantHz > 0 {
		fmt.Printf("period: %.3f s\n", 1/spec.DominantHz)
	}
	return nil
}

func tunePID(cmd *cobra.Command, args []string) error {
	base := scenario.SkidpadConfig{
		ModelID:  modelID,
		Speed:    speed,
		Radius:   radius,
		Duration: duration,
	}
	kpRange := []float64{0.1, 0.2, 0.3, 0.5, 0.8}
	kiRange := []float64{0.1, 0.3, 0.6, 1.0}

	fmt.Printf("searching %d candidates...\n", len(kpRange)*len(kiRange))
	start := time.Now()

	gains, score, err := optim.TuneSkidpadPID(registry.Default(), base, kpRange, kiRange)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))
	fmt.Printf("best gains: kp=%.2f ki=%.2f (out max %.2f rad)\n", gains.Kp, gains.Ki, gains.OutMax)
	fmt.Printf("steady yaw-rate error: %.5f\n", score)
	return nil
}

func parseFreqs(arg string) ([]float64, error) {
	if arg == "" {
		return nil, nil
	}
	parts := strings.Split(arg, ",")
	freqs := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("bad frequency: %q", part)
		}
		freqs = append(freqs, f)
	}
	return freqs, nil
}

func deg2rad(deg float64) float64 { return deg * math.Pi / 180 }
func rad2deg(rad float64) float64 { return rad * 180 / math.Pi }
