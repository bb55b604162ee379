package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/orbitviz/core"
	"github.com/signalsfoundry/orbitviz/ephemeris"
	"github.com/signalsfoundry/orbitviz/internal/logging"
	"github.com/signalsfoundry/orbitviz/internal/observability"
	"github.com/signalsfoundry/orbitviz/internal/stateapi"
	"github.com/signalsfoundry/orbitviz/model"
	"github.com/signalsfoundry/orbitviz/tle"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "orbitviz",
		Short:         "Orbit determination and reference-frame transformation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

type runFlags struct {
	tleFiles     []string
	tablePath    string
	source       string
	displayFrame string
	freeRunning  bool
	kepler       bool
	warp         bool
	warpRate     float64
	tick         time.Duration
	duration     time.Duration
	listen       string
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the per-frame propagation loop and serve frame output",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd.Context(), f)
		},
	}

	cmd.Flags().StringSliceVar(&f.tleFiles, "tle", nil, "TLE file path (repeatable; multiple files form a time-sliced set)")
	cmd.Flags().StringVar(&f.tablePath, "table", "", "ephemeris table path (for --source ephemeris-table)")
	cmd.Flags().StringVar(&f.source, "source", "tle", "primary data source: telemetry | ephemeris-table | tle | manual")
	cmd.Flags().StringVar(&f.displayFrame, "display-frame", "inertial", "display frame: inertial | earth-fixed")
	cmd.Flags().BoolVar(&f.freeRunning, "free-running", false, "keep the clock on the wall clock instead of locking to the TLE epoch")
	cmd.Flags().BoolVar(&f.kepler, "kepler-override", false, "propagate the primary with derived Keplerian elements")
	cmd.Flags().BoolVar(&f.warp, "warp", false, "enable time warp")
	cmd.Flags().Float64Var(&f.warpRate, "warp-rate", 60, "simulated seconds added per frame while warping")
	cmd.Flags().DurationVar(&f.tick, "tick", 100*time.Millisecond, "frame interval")
	cmd.Flags().DurationVar(&f.duration, "duration", 0, "total run time (0 = until interrupted)")
	cmd.Flags().StringVar(&f.listen, "listen", ":8080", "HTTP listen address for state and metrics")

	return cmd
}

func runEngine(ctx context.Context, f runFlags) error {
	log := logging.NewFromEnv()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	metrics, err := observability.NewEngineCollector(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	source, ok := model.ParseDataSource(f.source)
	if !ok {
		return fmt.Errorf("unknown data source %q", f.source)
	}
	frame, ok := model.ParseFrame(f.displayFrame)
	if !ok {
		return fmt.Errorf("unknown display frame %q", f.displayFrame)
	}

	sim := core.NewSimulationContext(log, metrics)
	sim.Opts = core.Options{
		Source:         source,
		DisplayFrame:   frame,
		KeplerOverride: f.kepler,
		FreeRunning:    f.freeRunning,
	}

	engine := core.NewEngine(sim)

	if len(f.tleFiles) > 0 {
		files := make([]tle.File, 0, len(f.tleFiles))
		for _, path := range f.tleFiles {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			file, err := tle.FileFromContent(path, string(content), log)
			if err != nil {
				return err
			}
			files = append(files, file)
		}
		if err := engine.LoadFileSet(ctx, files); err != nil {
			return err
		}
	} else {
		sim.Clock.SetFreeRunning()
	}

	if f.tablePath != "" {
		tf, err := os.Open(f.tablePath)
		if err != nil {
			return fmt.Errorf("opening table %s: %w", f.tablePath, err)
		}
		table, err := ephemeris.ParseTable(tf)
		tf.Close()
		if err != nil {
			return err
		}
		sim.Table = table
	}

	sim.Clock.SetWarp(f.warp, f.warpRate)

	api := stateapi.NewServer(metrics)
	httpSrv := &http.Server{Addr: f.listen, Handler: api.Router()}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "state server failed", logging.String("error", err.Error()))
		}
	}()
	defer httpSrv.Shutdown(context.Background())

	log.Info(ctx, "engine started",
		logging.String("source", source.String()),
		logging.String("display_frame", frame.String()),
		logging.String("listen", f.listen),
	)

	ticker := time.NewTicker(f.tick)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if f.duration > 0 {
		timer := time.NewTimer(f.duration)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			log.Info(ctx, "interrupted; shutting down")
			return nil
		case <-deadline:
			log.Info(ctx, "run duration reached; shutting down")
			return nil
		case <-ticker.C:
			out, err := engine.Update(ctx)
			if err != nil {
				return fmt.Errorf("frame update: %w", err)
			}
			api.Publish(out)
		}
	}
}
