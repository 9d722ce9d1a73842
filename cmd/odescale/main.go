package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/odescale/internal/config"
	"github.com/san-kum/odescale/internal/deq"
	"github.com/san-kum/odescale/internal/expr"
	"github.com/san-kum/odescale/internal/report"
	"github.com/san-kum/odescale/internal/scale"
	"github.com/san-kum/odescale/internal/solve"
)

var (
	preset      string
	method      string
	rtol        float64
	atol        float64
	maxStep     float64
	scaleFactor float64
	timeout     time.Duration
	// rescale command
	outFile   string
	verify    bool
	maximaArg string
	// maxima command
	showPlot bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "odescale",
		Short: "rescale differential equation systems into the unit range",
		Long: "odescale integrates a system of ordinary differential equations,\n" +
			"finds the peak magnitude of every state variable, and emits an\n" +
			"equivalent system whose trajectories stay within [-1, 1].",
	}

	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use a built-in system instead of a problem file")
	rootCmd.PersistentFlags().StringVar(&method, "method", "", "integration method (rk45, rk4)")
	rootCmd.PersistentFlags().Float64Var(&rtol, "rtol", 0, "relative tolerance")
	rootCmd.PersistentFlags().Float64Var(&atol, "atol", 0, "absolute tolerance")
	rootCmd.PersistentFlags().Float64Var(&maxStep, "max-step", 0, "maximum step size")
	rootCmd.PersistentFlags().Float64Var(&scaleFactor, "scale-factor", 0, "safety margin applied to maxima (>= 1)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "abort integration after this long")

	showCmd := &cobra.Command{
		Use:   "show [problem.yaml]",
		Short: "print a problem file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShow,
	}

	maximaCmd := &cobra.Command{
		Use:   "maxima [problem.yaml]",
		Short: "integrate and report the peak magnitude of each state variable",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMaxima,
	}
	maximaCmd.Flags().BoolVar(&showPlot, "plot", false, "plot each state variable")

	rescaleCmd := &cobra.Command{
		Use:   "rescale [problem.yaml]",
		Short: "emit an equivalent system whose trajectories fit [-1, 1]",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRescale,
	}
	rescaleCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the rescaled problem to this file")
	rescaleCmd.Flags().BoolVar(&verify, "verify", false, "re-integrate the rescaled system and report its peaks")
	rescaleCmd.Flags().StringVar(&maximaArg, "maxima", "", "use these maxima instead of integrating (e.g. x=12,y=11,z=2.7)")

	plotCmd := &cobra.Command{
		Use:   "plot [problem.yaml]",
		Short: "integrate and plot each state variable",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlot,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in systems",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(showCmd, maximaCmd, rescaleCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadProblem resolves the problem from a positional file argument or
// the --preset flag, then layers any changed solver flags on top.
func loadProblem(cmd *cobra.Command, args []string) (*deq.Problem, error) {
	var p *deq.Problem
	var err error

	switch {
	case len(args) == 1:
		p, err = config.Load(args[0])
	case preset != "":
		doc := config.GetPreset(preset)
		if doc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		p, err = doc.Problem()
	default:
		return nil, fmt.Errorf("a problem file or --preset is required")
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("method") {
		p.Opts.Method = method
	}
	if cmd.Flags().Changed("rtol") {
		p.Opts.Rtol = rtol
	}
	if cmd.Flags().Changed("atol") {
		p.Opts.Atol = atol
	}
	if cmd.Flags().Changed("max-step") {
		p.Opts.MaxStep = maxStep
	}
	if cmd.Flags().Changed("scale-factor") {
		if scaleFactor < 1 {
			return nil, fmt.Errorf("scale-factor must be >= 1, got %v", scaleFactor)
		}
		p.MaxScaleFactor = scaleFactor
	}
	return p, nil
}

func runContext() (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.Background(), func() {}
}

func runShow(cmd *cobra.Command, args []string) error {
	p, err := loadProblem(cmd, args)
	if err != nil {
		return err
	}
	report.ShowProblem(os.Stdout, p)
	return nil
}

func runMaxima(cmd *cobra.Command, args []string) error {
	p, err := loadProblem(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := runContext()
	defer cancel()

	start := time.Now()
	traj, err := solve.Solve(ctx, p)
	if err != nil {
		return err
	}
	maxima, err := scale.DetermineMax(p.Model, traj)
	if err != nil {
		return err
	}

	fmt.Printf("integrated %d steps in %v\n\n", traj.Len(), time.Since(start).Round(time.Millisecond))
	report.ShowMaxima(os.Stdout, p, maxima)

	if showPlot {
		fmt.Println()
		return report.PlotTrajectory(os.Stdout, p, traj)
	}
	return nil
}

func runRescale(cmd *cobra.Command, args []string) error {
	p, err := loadProblem(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := runContext()
	defer cancel()

	var maxima scale.MaximaMap
	if maximaArg != "" {
		maxima, err = parseMaxima(p, maximaArg)
		if err != nil {
			return err
		}
	} else {
		if maxima, err = scale.ComputeMaxima(ctx, p); err != nil {
			return err
		}
	}
	report.ShowMaxima(os.Stdout, p, maxima)

	factors, err := scale.Factors(p.Model, maxima, p.MaxScaleFactor)
	if err != nil {
		return err
	}
	fmt.Println()
	report.ShowFactors(os.Stdout, p, factors)

	rescaled, err := scale.Rescale(ctx, p, maxima)
	if err != nil {
		return err
	}
	fmt.Println()
	report.ShowProblem(os.Stdout, rescaled)

	if verify {
		check, err := scale.ComputeMaxima(ctx, rescaled)
		if err != nil {
			return err
		}
		fmt.Println()
		report.ShowMaxima(os.Stdout, rescaled, check)
	}

	if outFile != "" {
		if err := config.Save(outFile, rescaled); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", outFile)
	}
	return nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	p, err := loadProblem(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := runContext()
	defer cancel()

	traj, err := solve.Solve(ctx, p)
	if err != nil {
		return err
	}
	return report.PlotTrajectory(os.Stdout, p, traj)
}

// parseMaxima decodes "x=12,y=11,z=2.7" against the problem's state
// variables.
func parseMaxima(p *deq.Problem, arg string) (scale.MaximaMap, error) {
	maxima := make(scale.MaximaMap)
	for _, pair := range strings.Split(arg, ",") {
		name, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("bad maxima entry %q, want name=value", pair)
		}
		s := expr.Symbol(strings.TrimSpace(name))
		if p.Model.StateIndex(s) < 0 {
			return nil, fmt.Errorf("maxima entry %q is not a state variable", name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("bad maxima value %q: %w", val, err)
		}
		maxima[s] = v
	}
	return maxima, nil
}
