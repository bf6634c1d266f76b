package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dpend/internal/analysis"
	"github.com/san-kum/dpend/internal/export"
	"github.com/san-kum/dpend/internal/gui"
	"github.com/san-kum/dpend/internal/input"
	"github.com/san-kum/dpend/internal/metrics"
	"github.com/san-kum/dpend/internal/sim"
	"github.com/san-kum/dpend/internal/storage"
	"github.com/san-kum/dpend/internal/viz"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.NewSimulator(newStepper())
	if err != nil {
		return err
	}
	gui.Run(gui.NewApp(s, cfg.Initial.Conditions(), cfg.LoopConfig()))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.NewSimulator(newStepper())
	if err != nil {
		return err
	}
	return viz.Run(viz.NewModel(s, cfg.Initial.Conditions(), cfg.LoopConfig()).WithGIFPath(gifPath))
}

func runInteractive(cmd *cobra.Command, args []string) error {
	return viz.RunInteractive()
}

// runConsole ticks in real time while stdin edits are queued for the
// simulator. It stops on "q", end of input or an interrupt.
func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.NewSimulator(newStepper())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Println(input.About)
	fmt.Println()

	var last sim.Frame
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.RunWithCallback(gctx, cfg.LoopConfig(), func(f sim.Frame) bool {
			last = f
			return true
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer cancel()
		err := input.NewConsole(os.Stdin, os.Stdout, s).Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("\nstopped at tick %d, t=%.3fs\n", last.Tick, last.Time)
	printFrame(last)
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := cfg.NewSimulator(newStepper())
	if err != nil {
		return err
	}
	s.AddMetric(metrics.NewEnergy())
	s.AddMetric(metrics.NewEnergyDrift())
	s.AddMetric(metrics.NewStability(100))
	s.AddMetric(metrics.NewNonFinite())
	s.AddMetric(metrics.NewFlips())

	fmt.Printf("running %d ticks at dt=%g...\n", cfg.Ticks, cfg.StepSize)
	start := time.Now()

	result, err := s.Run(cmd.Context(), cfg.RunConfig())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunInfo{Preset: preset, Config: cfg}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Frames))
	if result.DivergedAt >= 0 {
		fmt.Printf("state became non-finite at tick %d\n", result.DivergedAt)
	}
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for name, val := range result.Metrics {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, val)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tTICKS\tDT\tTHETA1\tTHETA2\tDIVERGED")
	for _, run := range runs {
		diverged := "-"
		if run.DivergedAt >= 0 {
			diverged = fmt.Sprintf("tick %d", run.DivergedAt)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%g\t%g\t%s\n",
			run.ID,
			orDash(run.Preset),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.StepSize,
			run.Initial.Theta1,
			run.Initial.Theta2,
			diverged,
		)
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

// finitePrefix cuts frames at the first non-finite one; asciigraph cannot
// scale a series containing NaN.
func finitePrefix(frames []sim.Frame) []sim.Frame {
	for i, f := range frames {
		if !f.IsFinite() {
			return frames[:i]
		}
	}
	return frames
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	frames = finitePrefix(frames)
	if len(frames) < 2 {
		return fmt.Errorf("no finite data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(frames))

	angles := asciigraph.PlotMany(
		[][]float64{
			analysis.Series(frames, func(f sim.Frame) float64 { return analysis.Wrap(f.Arm1.Angle) }),
			analysis.Series(frames, func(f sim.Frame) float64 { return analysis.Wrap(f.Arm2.Angle) }),
		},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Yellow, asciigraph.White),
		asciigraph.Caption("theta1 (yellow) and theta2 (white), wrapped to [-pi, pi)"),
	)
	fmt.Println(angles)
	fmt.Println()

	energy := asciigraph.Plot(
		analysis.Series(frames, func(f sim.Frame) float64 { return f.Energy }),
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	)
	fmt.Println(energy)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	frames = finitePrefix(frames)
	dt := analysis.SampleInterval(frames)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d, interval %gs\n\n", len(frames), dt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tPEAK HZ\tMAGNITUDE")
	series := []struct {
		name string
		fn   func(sim.Frame) float64
	}{
		{"theta1", func(f sim.Frame) float64 { return f.Arm1.Angle }},
		{"theta2", func(f sim.Frame) float64 { return f.Arm2.Angle }},
		{"omega1", func(f sim.Frame) float64 { return f.Arm1.AngularSpeed }},
		{"omega2", func(f sim.Frame) float64 { return f.Arm2.AngularSpeed }},
	}
	for _, s := range series {
		peak, err := analysis.DominantFrequency(analysis.Series(frames, s.fn), dt)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", s.name, peak.Frequency, peak.Magnitude)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	section := analysis.PoincareSection(frames)
	fmt.Printf("\npoincare section (theta1 = 0 upward): %d crossings\n", len(section))
	if len(section) > 0 {
		fmt.Println("x: theta2, y: omega2")
		fmt.Println(analysis.ScatterToASCII(section, 70, 20))
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, export.TraceToSVG(frames, meta.Params, svgSize))
	return err
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	lc := analysis.LyapunovConfig{
		Params:       cfg.Params,
		Initial:      cfg.Initial.Conditions(),
		StepSize:     cfg.StepSize,
		Duration:     duration,
		Perturbation: delta,
	}
	start := time.Now()
	lambda, err := analysis.LyapunovExponent(lc, newStepper)
	if err != nil {
		return err
	}

	fmt.Printf("largest lyapunov exponent: %.4f per second\n", lambda)
	fmt.Printf("computed over %gs of simulated time in %v\n", duration, time.Since(start))
	if lambda > 0.05 {
		fmt.Printf("nearby trajectories separate by a factor e every %.2fs\n", 1/lambda)
	}
	return nil
}

// sweepValues returns n evenly spaced values from lo to hi inclusive.
func sweepValues(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// sweepMember applies value to the named parameter of a copy of base.
func sweepMember(base sim.Member, name string, value float64) (sim.Member, error) {
	m := base
	switch name {
	case "g":
		m.Params.Gravity = value
	case "m1":
		m.Params.M1 = value
	case "m2":
		m.Params.M2 = value
	case "l1":
		m.Params.L1 = value
	case "l2":
		m.Params.L2 = value
	case "theta1":
		m.Initial.Angle1 = value
	case "theta2":
		m.Initial.Angle2 = value
	default:
		return sim.Member{}, fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return m, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if sweepN < 1 {
		return fmt.Errorf("count must be positive, got %d", sweepN)
	}

	values := sweepValues(sweepFrom, sweepTo, sweepN)
	members := make([]sim.Member, len(values))
	for i, v := range values {
		if members[i], err = sweepMember(cfg.Member(), sweepOver, v); err != nil {
			return err
		}
	}

	fmt.Printf("sweeping %s over [%g, %g] with %d simulations of %d ticks...\n", sweepOver, sweepFrom, sweepTo, sweepN, cfg.Ticks)
	start := time.Now()

	flips := make([]*metrics.Flips, len(members))
	ensemble := sim.NewEnsemble(members, workers, newStepper).WithMetrics(func(idx int) []sim.Metric {
		flips[idx] = metrics.NewFlips()
		return []sim.Metric{flips[idx]}
	})
	results, err := ensemble.Run(cmd.Context(), cfg.RunConfig())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	diagram := analysis.BifurcationDiagram(values, results, transient)
	fmt.Printf("x: %s, y: theta2 at theta1 = 0 upward\n", sweepOver)
	fmt.Println(analysis.BifurcationToASCII(diagram, 80, 24))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCROSSINGS\tFLIPS\tFIRST FLIP\tDIVERGED\n", sweepOver)
	for i, d := range diagram {
		diverged := "-"
		if results[i].DivergedAt >= 0 {
			diverged = fmt.Sprintf("tick %d", results[i].DivergedAt)
		}
		fmt.Fprintf(w, "%g\t%d\t%g\t%s\t%s\n", d.Param, len(d.Values), results[i].Metrics["flips"], firstFlip(flips[i]), diverged)
	}
	return w.Flush()
}

func firstFlip(fl *metrics.Flips) string {
	if fl == nil || fl.FirstFlip() < 0 {
		return "-"
	}
	return fmt.Sprintf("%.2fs", fl.FirstFlip())
}

func benchTicks(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.NewSimulator(newStepper())
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %d ticks...\n", cfg.Ticks)
	start := time.Now()
	for i := 0; i < cfg.Ticks; i++ {
		s.Tick()
	}
	elapsed := time.Since(start)

	perTick := elapsed / time.Duration(cfg.Ticks)
	fmt.Printf("total: %v\n", elapsed)
	fmt.Printf("per tick: %v\n", perTick)
	fmt.Printf("ticks/sec: %.0f\n", float64(cfg.Ticks)/elapsed.Seconds())
	fmt.Printf("realtime factor: %.1fx\n", s.Clock().Elapsed/elapsed.Seconds())
	printFrame(s.Frame())
	return nil
}

func printFrame(f sim.Frame) {
	fmt.Printf("theta1=%.4f omega1=%.4f theta2=%.4f omega2=%.4f energy=%.6f\n",
		f.Arm1.Angle, f.Arm1.AngularSpeed, f.Arm2.Angle, f.Arm2.AngularSpeed, f.Energy)
	if math.IsNaN(f.Energy) || math.IsInf(f.Energy, 0) {
		fmt.Println("state is no longer finite")
	}
}
