package main

import (
	"fmt"
	"os"

	"github.com/san-kum/dpend/internal/config"
	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/integrators"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string

	theta1, omega1 float64
	theta2, omega2 float64
	m1, m2         float64
	gravity        float64
	l1, l2         float64
	dt             float64

	ticks         int
	sampleEvery   int
	stepsPerFrame int
	fps           int

	gifPath   string
	svgSize   int
	delta     float64
	duration  float64
	sweepOver string
	sweepFrom float64
	sweepTo   float64
	sweepN    int
	workers   int
	transient float64
)

func newStepper() dynamo.Stepper { return integrators.NewRK4() }

// main registers the dpend commands and exits with status 1 if the chosen
// command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "dpend",
		Short:        "double pendulum simulator",
		SilenceUsage: true,
		RunE:         runGUI,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dpend", "data directory")
	addModelFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the pendulum in the terminal",
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	liveCmd.Flags().StringVar(&gifPath, "gif", "dpend.gif", "where the v key saves a recording")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the desktop window",
		RunE:  runGUI,
	}
	addModelFlags(guiCmd)

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "pick a preset and animate it in the terminal",
		RunE:  runInteractive,
	}

	consoleCmd := &cobra.Command{
		Use:   "console",
		Short: "run in real time and edit the pendulum from stdin",
		RunE:  runConsole,
	}
	addModelFlags(consoleCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a fixed number of ticks and store the result",
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot angles and energy of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency content and Poincare section of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write run frames as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write run metadata and frames as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write the lower bob trace as SVG to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 600, "image width and height in pixels")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest Lyapunov exponent",
		RunE:  runLyapunov,
	}
	addModelFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&delta, "delta", 1e-8, "initial separation in radians")
	lyapunovCmd.Flags().Float64Var(&duration, "time", 20, "simulated seconds")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter in parallel and draw a bifurcation diagram",
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepOver, "param", "g", "parameter to sweep: g, m1, m2, l1, l2, theta1 or theta2")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 5, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 15, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "count", 40, "number of values")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent simulations, 0 for no limit")
	sweepCmd.Flags().Float64Var(&transient, "transient", 5, "seconds to discard before sampling")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure tick throughput",
		RunE:  benchTicks,
	}
	addModelFlags(benchCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %-12s %s\n", name, config.Presets[name].Description)
			}
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, guiCmd, interactiveCmd, consoleCmd, runCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, lyapunovCmd, sweepCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addModelFlags registers the flags every simulating command shares. Each
// flag only overrides the preset or config file when given explicitly.
func addModelFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a named preset")
	f.Float64Var(&theta1, "theta1", def.Initial.Theta1, "upper arm angle in degrees")
	f.Float64Var(&omega1, "omega1", def.Initial.Omega1, "upper arm angular velocity in rad/s")
	f.Float64Var(&theta2, "theta2", def.Initial.Theta2, "lower arm angle in degrees")
	f.Float64Var(&omega2, "omega2", def.Initial.Omega2, "lower arm angular velocity in rad/s")
	f.Float64Var(&m1, "m1", def.Params.M1, "upper mass")
	f.Float64Var(&m2, "m2", def.Params.M2, "lower mass")
	f.Float64Var(&gravity, "g", def.Params.Gravity, "gravitational acceleration")
	f.Float64Var(&l1, "l1", def.Params.L1, "upper arm length")
	f.Float64Var(&l2, "l2", def.Params.L2, "lower arm length")
	f.Float64Var(&dt, "dt", def.StepSize, "step size in seconds")
	f.IntVar(&ticks, "ticks", def.Ticks, "ticks to run")
	f.IntVar(&sampleEvery, "sample", def.SampleEvery, "keep every nth frame")
	f.IntVar(&stepsPerFrame, "steps-per-frame", def.StepsPerFrame, "ticks per displayed frame")
	f.IntVar(&fps, "fps", def.FPS, "display frame rate")
}

// resolveConfig layers defaults, then the preset, then the config file, then
// explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	overrides := []struct {
		name string
		dst  *float64
		src  float64
	}{
		{"theta1", &cfg.Initial.Theta1, theta1},
		{"omega1", &cfg.Initial.Omega1, omega1},
		{"theta2", &cfg.Initial.Theta2, theta2},
		{"omega2", &cfg.Initial.Omega2, omega2},
		{"m1", &cfg.Params.M1, m1},
		{"m2", &cfg.Params.M2, m2},
		{"g", &cfg.Params.Gravity, gravity},
		{"l1", &cfg.Params.L1, l1},
		{"l2", &cfg.Params.L2, l2},
		{"dt", &cfg.StepSize, dt},
	}
	for _, o := range overrides {
		if flags.Changed(o.name) {
			*o.dst = o.src
		}
	}

	ints := []struct {
		name string
		dst  *int
		src  int
	}{
		{"ticks", &cfg.Ticks, ticks},
		{"sample", &cfg.SampleEvery, sampleEvery},
		{"steps-per-frame", &cfg.StepsPerFrame, stepsPerFrame},
		{"fps", &cfg.FPS, fps},
	}
	for _, o := range ints {
		if flags.Changed(o.name) {
			*o.dst = o.src
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
