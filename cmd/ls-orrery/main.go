// Command ls-orrery is an animated scale model of a star system in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/controls"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/observability"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/selection"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/ui"
	"github.com/litescript/ls-orrery/internal/version"
)

// CLI flags for headless mode
var (
	headlessMode bool
	ticks        int
	summaryMode  bool
	snapshotPath string
)

// app is the wired simulation.
type app struct {
	cfg       config.Config
	store     *orbit.Store
	graph     *scene.Graph
	camera    *scene.PerspectiveCamera
	selection *selection.Machine
	surface   *controls.Surface
	loop      *sim.Loop
	metrics   *observability.Collector
}

func main() {
	os.Exit(run())
}

// run is the program body. Deferred cleanup runs before the exit code is
// returned to main.
func run() int {
	configPath := flag.String("config", "", "YAML configuration file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to this file (TUI mode discards logs otherwise)")
	fps := flag.Int("fps", 0, "Display refresh rate in frames per second")
	timeMode := flag.String("time-mode", "", "Time stepping: frame or wallclock")
	theme := flag.String("theme", "", "Initial theme: dark or light")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.BoolVar(&headlessMode, "headless", false, "Run without the TUI")
	flag.IntVar(&ticks, "ticks", 0, "Headless: run this many frames then exit (0 = until interrupted)")
	flag.BoolVar(&summaryMode, "summary", false, "Headless: print a text summary")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Headless: export JSON snapshot to file (use - for stdout)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ls-orrery v%s\n", version.Version)
		return 0
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	// Flags override the file.
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *fps > 0 {
		cfg.Loop.FPS = *fps
	}
	if *timeMode != "" {
		cfg.Loop.TimeMode = *timeMode
	}
	if *theme != "" {
		cfg.Theme = *theme
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	// The TUI owns the terminal, so it needs one.
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	headless := headlessMode || summaryMode || snapshotPath != ""
	if !headless && !isTTY {
		headless = true
		summaryMode = true
	}

	// Set up logging
	logger, closeLog, err := setupLogging(cfg.Log, headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog.Close()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	a, err := build(cfg, logger, prometheus.NewRegistry())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.Metrics.Addr != "" {
		go serveMetrics(ctx, cfg.Metrics.Addr, a.metrics, logger.Named("metrics"))
	}

	if headless {
		if err := runHeadless(ctx, a, os.Stdout, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	// Create TUI model
	model := ui.New(ui.Deps{
		Catalog:   cfg.Catalog(),
		Loop:      a.loop,
		Store:     a.store,
		Graph:     a.graph,
		Camera:    a.camera,
		Selection: a.selection,
		Controls:  a.surface,
		Home:      cfg.HomePosition(),
		Interval:  cfg.FrameInterval(),
		Picks:     a.metrics,
		Logger:    logger.Named("ui"),
	})

	// Create Bubble Tea program
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return 1
	}
	return 0
}

// setupLogging sends logs to the configured file. Without a file, headless
// runs log to stderr and the TUI discards logs so they cannot corrupt the
// screen.
func setupLogging(cfg config.LogConfig, headless bool) (*logging.Logger, io.Closer, error) {
	level := logging.ParseLevel(cfg.Level)
	if cfg.File != "" {
		return logging.OpenFile(cfg.File, level)
	}
	if headless {
		return logging.New(level), io.NopCloser(nil), nil
	}
	return logging.Discard(), io.NopCloser(nil), nil
}

// build wires the simulation from the configuration.
func build(cfg config.Config, logger *logging.Logger, reg prometheus.Registerer) (*app, error) {
	catalog := cfg.Catalog()

	store, err := orbit.NewStoreFromCatalog(catalog)
	if err != nil {
		return nil, fmt.Errorf("initialize orbital state: %w", err)
	}

	metrics, err := observability.NewCollector(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	metrics.SetBodies(store.Len())

	graph := scene.NewGraph()
	camera := cfg.NewCamera(1)

	sel := selection.NewMachine(camera, cfg.SelectionConfig())
	sel.SetRecorder(metrics)

	surface := controls.NewSurface(store, catalog.Bodies, logger.Named("controls"))
	surface.SetRecorder(metrics)

	loop := sim.NewLoop(sim.Deps{
		Catalog:   catalog,
		Store:     store,
		Scene:     graph,
		Camera:    camera,
		Selection: sel,
		Logger:    logger.Named("sim"),
		Recorder:  metrics,
	}, cfg.SimConfig())
	if catalog.OrphanSatellite() {
		logger.Warn("satellite %q: parent %q is not an orbiting body; it will not move", catalog.Satellite.Name, catalog.Satellite.Parent)
	}
	if cfg.Loop.StartPaused {
		loop.Pause()
	}

	logger.Info("orrery ready: %d bodies, %s stepping at %d fps", store.Len(), loop.Mode(), cfg.Loop.FPS)

	return &app{
		cfg:       cfg,
		store:     store,
		graph:     graph,
		camera:    camera,
		selection: sel,
		surface:   surface,
		loop:      loop,
		metrics:   metrics,
	}, nil
}

// runHeadless drives the loop without a terminal UI and reports the final
// state.
func runHeadless(ctx context.Context, a *app, out io.Writer, logger *logging.Logger) error {
	if ticks > 0 {
		for i := 0; i < ticks && ctx.Err() == nil; i++ {
			a.loop.Tick()
		}
	} else {
		logger.Info("running headless until interrupted")
		if err := a.loop.Run(ctx, a.cfg.FrameInterval()); err != nil {
			return err
		}
	}
	logger.Debug("headless run finished after %d frames", a.loop.Frames())

	export := a.loop.Export(time.Now())

	if snapshotPath != "" {
		if snapshotPath == "-" {
			if err := export.WriteJSON(out); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(snapshotPath)
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			defer f.Close()
			if err := export.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	if summaryMode || snapshotPath == "" {
		export.WriteSummaryTable(out)
	}
	return nil
}

// serveMetrics exposes /metrics until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string, metrics *observability.Collector, logger *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server: %v", err)
	}
}
