package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pulselab/filament/internal/config"
	"github.com/pulselab/filament/internal/diag"
	"github.com/pulselab/filament/internal/field"
	"github.com/pulselab/filament/internal/grid"
	"github.com/pulselab/filament/internal/ionization"
	"github.com/pulselab/filament/internal/medium"
	"github.com/pulselab/filament/internal/scheme"
	"github.com/pulselab/filament/internal/solver"
	"github.com/pulselab/filament/internal/tui"
)

var Version = "dev"

var (
	configFile string
	dataDir    string
	mediumName string
	steps      int
	ionModel   string
	tolerance  float64
	ramanOn    bool
	live       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "filament",
		Short: "ultrashort-pulse filamentation solver",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".filament", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "propagate a pulse",
		RunE:  runPropagation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "YAML config file")
	runCmd.Flags().StringVar(&mediumName, "medium", "", "medium preset")
	runCmd.Flags().IntVar(&steps, "steps", 0, "propagation steps")
	runCmd.Flags().StringVar(&ionModel, "model", "", "ionization model (MPI or PPT)")
	runCmd.Flags().Float64Var(&tolerance, "tolerance", 0, "ionization series tolerance")
	runCmd.Flags().BoolVar(&ramanOn, "raman", false, "enable delayed Raman response")
	runCmd.Flags().BoolVar(&live, "live", false, "live terminal view")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list medium presets",
		Run:   listPresets,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version)
		},
	}

	rootCmd.AddCommand(runCmd, presetsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("medium") {
		cfg.Medium = mediumName
	}
	if cmd.Flags().Changed("steps") {
		cfg.Grid.Steps = steps
	}
	if cmd.Flags().Changed("model") {
		cfg.Ionization.Model = ionModel
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Ionization.Tolerance = tolerance
	}
	if cmd.Flags().Changed("raman") {
		cfg.Effects.Raman = ramanOn
	}
	if cmd.Flags().Changed("data") {
		cfg.Output.Dir = dataDir
	}

	return cfg, nil
}

func buildSolver(cfg *config.Config) (*solver.Solver, *grid.Grid, error) {
	med, err := medium.ByName(cfg.Medium)
	if err != nil {
		return nil, nil, err
	}

	g, err := grid.New(cfg.Grid)
	if err != nil {
		return nil, nil, err
	}

	model, err := ionization.ParseModel(cfg.Ionization.Model)
	if err != nil {
		return nil, nil, err
	}

	densitySch, err := scheme.Parse(cfg.Methods.Density)
	if err != nil {
		return nil, nil, err
	}
	ramanSch, err := scheme.Parse(cfg.Methods.Raman)
	if err != nil {
		return nil, nil, err
	}
	nonlinearSch, err := scheme.Parse(cfg.Methods.Nonlinear)
	if err != nil {
		return nil, nil, err
	}

	beam := medium.NewBeam(cfg.Laser, med)
	coef := medium.NewCoefficients(med, beam, cfg.Effects.Raman)

	s, err := solver.New(solver.Config{
		Grid:                g,
		Medium:              med,
		Beam:                beam,
		Coef:                coef,
		IonizationModel:     model,
		IonizationTolerance: cfg.Ionization.Tolerance,
		DensityScheme:       densitySch,
		RamanScheme:         ramanSch,
		NonlinearScheme:     nonlinearSch,
		Effects: solver.Effects{
			Plasma: cfg.Effects.Plasma,
			MPA:    cfg.Effects.MPA,
			Kerr:   cfg.Effects.Kerr,
			Raman:  cfg.Effects.Raman,
		},
	}, field.GaussianBeam(g, beam))
	if err != nil {
		return nil, nil, err
	}

	return s, g, nil
}

func runPropagation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, g, err := buildSolver(cfg)
	if err != nil {
		return err
	}

	rec := diag.NewRecorder(g, cfg.Output.SnapshotEvery)
	s.AddObserver(rec)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("medium=%s grid=%dx%d steps=%d model=%s",
		cfg.Medium, g.Nr, g.Nt, g.Steps, cfg.Ionization.Model)

	start := time.Now()
	if live {
		err = runLive(ctx, s, rec, g.Steps)
	} else {
		err = runPlain(ctx, s, g)
	}
	elapsed := time.Since(start)

	store := diag.NewStore(cfg.Output.Dir)
	if initErr := store.Init(); initErr != nil {
		return initErr
	}
	runID, saveErr := store.Save(cfg, rec, elapsed)
	if saveErr != nil {
		return saveErr
	}
	log.Printf("run saved: %s (%.1fs)", runID, elapsed.Seconds())

	if len(rec.PeakIntensity) > 1 {
		fmt.Println(diag.TerminalPlot(rec.PeakIntensity, "on-axis peak intensity vs step"))
		fmt.Println(diag.TerminalPlot(rec.Radius, "beam radius vs step"))
	}

	if cfg.Output.Plots && len(rec.Z) > 1 {
		if plotErr := diag.SavePlots(filepath.Join(cfg.Output.Dir, runID), rec); plotErr != nil {
			log.Printf("plots: %v", plotErr)
		}
	}

	return err
}

func runPlain(ctx context.Context, s *solver.Solver, g *grid.Grid) error {
	logEvery := g.Steps / 10
	if logEvery < 1 {
		logEvery = 1
	}

	for s.StepCount() < g.Steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.Step(); err != nil {
			return err
		}
		if s.StepCount()%logEvery == 0 {
			log.Printf("step %d/%d z=%.4g radius=%.4g",
				s.StepCount(), g.Steps, s.Z(), s.Radius())
		}
	}
	return nil
}

// liveObserver forwards committed steps to the TUI. It reads the recorder's
// latest scalars, so it must be registered after the recorder.
type liveObserver struct {
	rec *diag.Recorder
	p   *tea.Program
}

func (o *liveObserver) OnStep(snap solver.Snapshot) {
	n := len(o.rec.PeakIntensity)
	o.p.Send(tui.StepMsg{
		Step:          snap.Step,
		Z:             snap.Z,
		PeakIntensity: o.rec.PeakIntensity[n-1],
		PeakDensity:   o.rec.PeakDensity[n-1],
		Radius:        snap.Radius,
	})
}

func runLive(ctx context.Context, s *solver.Solver, rec *diag.Recorder, totalSteps int) error {
	p := tea.NewProgram(tui.NewModel(totalSteps))

	errCh := make(chan error, 1)
	s.AddObserver(&liveObserver{rec: rec, p: p})

	go func() {
		err := s.Run(ctx)
		errCh <- err
		p.Send(tui.DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil {
		return err
	}
	return <-errCh
}

func listPresets(cmd *cobra.Command, args []string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tn0\tn2\tK\tU_i [J]\tN_n [1/m^3]")
	for _, m := range medium.Presets() {
		fmt.Fprintf(w, "%s\t%g\t%g\t%d\t%g\t%g\n",
			m.Name, m.RefractiveIndex, m.NonlinearIndex,
			m.PhotonCount, m.IonizationEnergy, m.NeutralDensity)
	}
	w.Flush()
}
