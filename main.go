package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/backdrop/app"
	"github.com/pthm-cable/backdrop/config"
)

// flags shared by every run mode
type runFlags struct {
	configPath  string
	profile     string
	seed        int64
	fps         int
	maxFrames   uint64
	logStats    bool
	outputDir   string
	snapshotDir string
	watchConfig bool
	verbose     bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &runFlags{}

	root := &cobra.Command{
		Use:           "backdrop",
		Short:         "Animated grid and particle background",
		Long:          "Renders a drifting, pulsing particle field over a faint grid, in a window, a terminal or headless.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWindow(cmd.Context(), f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	pf.StringVar(&f.profile, "profile", "", "Density profile: "+fmt.Sprint(config.Profiles()))
	pf.Int64Var(&f.seed, "seed", 0, "RNG seed (0 = time-based)")
	pf.IntVar(&f.fps, "fps", 0, "Frames per second (0 = screen.target_fps)")
	pf.Uint64Var(&f.maxFrames, "max-frames", 0, "Stop after N frames (0 = unlimited)")
	pf.BoolVar(&f.logStats, "log-stats", false, "Output window stats via slog")
	pf.StringVar(&f.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	pf.StringVar(&f.snapshotDir, "snapshot-dir", "", "Directory for snapshot files (a final snapshot is written on exit)")
	pf.BoolVar(&f.watchConfig, "watch-config", false, "Reload --config when it changes")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "window",
			Short: "Render in a resizable raylib window",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runWindow(cmd.Context(), f)
			},
		},
		&cobra.Command{
			Use:   "terminal",
			Short: "Render in the terminal with truecolor cells",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runTerminal(cmd.Context(), f)
			},
		},
		newHeadlessCmd(f),
	)
	return root
}

func newHeadlessCmd(f *runFlags) *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Animate without drawing, for telemetry and snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(os.Stdout, false, f.verbose)
			return run(cmd.Context(), f, func(ctx context.Context, a *app.App, cfg *config.Config) error {
				w, h := width, height
				if w <= 0 {
					w = cfg.Screen.Width
				}
				if h <= 0 {
					h = cfg.Screen.Height
				}
				return a.RunHeadless(ctx, w, h)
			})
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "Surface width in pixels (0 = screen.width)")
	cmd.Flags().IntVar(&height, "height", 0, "Surface height in pixels (0 = screen.height)")
	return cmd
}

func runWindow(ctx context.Context, f *runFlags) error {
	setupLogging(os.Stdout, false, f.verbose)
	return run(ctx, f, func(ctx context.Context, a *app.App, _ *config.Config) error {
		return a.RunWindow(ctx)
	})
}

func runTerminal(ctx context.Context, f *runFlags) error {
	// The screen owns stdout, so logs go to a file or nowhere.
	cfg, err := config.Load(f.configPath, f.profile)
	if err != nil {
		return report(fmt.Errorf("loading config: %w", err))
	}
	logOut := io.Discard
	if cfg.Terminal.LogFile != "" {
		lf, err := os.OpenFile(cfg.Terminal.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return report(fmt.Errorf("opening log file: %w", err))
		}
		defer lf.Close()
		logOut = lf
	}
	setupLogging(logOut, true, f.verbose)

	screen, err := tcell.NewScreen()
	if err != nil {
		return report(fmt.Errorf("creating screen: %w", err))
	}
	return run(ctx, f, func(ctx context.Context, a *app.App, _ *config.Config) error {
		return a.RunTerminal(ctx, screen)
	})
}

// run loads the config, starts the optional watcher and hands an app to
// mode until it returns.
func run(parent context.Context, f *runFlags, mode func(context.Context, *app.App, *config.Config) error) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(f.configPath, f.profile)
	if err != nil {
		return report(fmt.Errorf("loading config: %w", err))
	}

	opts := app.Options{
		Seed:        f.seed,
		FPS:         f.fps,
		MaxFrames:   f.maxFrames,
		LogStats:    f.logStats,
		OutputDir:   f.outputDir,
		SnapshotDir: f.snapshotDir,
	}

	if f.watchConfig {
		if f.configPath == "" {
			return report(fmt.Errorf("--watch-config needs --config"))
		}
		debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
		w, err := config.NewWatcher(f.configPath, f.profile, debounce)
		if err != nil {
			return report(err)
		}
		wctx, cancel := context.WithCancel(ctx)
		go w.Run(wctx)
		defer func() {
			cancel()
			<-w.Done()
		}()
		opts.ConfigUpdates = w.Updates()
		slog.Info("watching config", "path", f.configPath)
	}

	a, err := app.New(cfg, opts)
	if err != nil {
		return report(err)
	}
	if err := mode(ctx, a, cfg); err != nil {
		return report(err)
	}
	return nil
}

func report(err error) error {
	slog.Error("backdrop failed", "error", err)
	fmt.Fprintln(os.Stderr, "backdrop:", err)
	return err
}

// setupLogging installs the default logger: JSON for stdout, text for the
// terminal log file.
func setupLogging(w io.Writer, text bool, verbose bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if text {
		h = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}
