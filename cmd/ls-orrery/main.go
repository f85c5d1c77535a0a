// Command ls-orrery is a terminal orrery: it flies a camera through a scaled
// model of a planetary system.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/texture"
	"github.com/litescript/ls-orrery/internal/ui"
	"github.com/litescript/ls-orrery/internal/version"
)

// CLI flags for headless mode
var (
	summaryMode  bool
	frameMode    bool
	eventsMode   bool
	snapshotPath string
	frames       int
	width        int
	height       int
	plain        bool
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	maxFrames     = 100000
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Parse flags; environment values are the defaults.
	flag.StringVar(&cfg.Data, "data", cfg.Data, "Dataset: demo name ("+strings.Join(catalog.DemoNames(), ", ")+") or YAML/JSON file")
	flag.StringVar(&cfg.Subject, "subject", cfg.Subject, "Body to focus at start (overrides the dataset subject)")
	flag.StringVar(&cfg.Layout, "layout", cfg.Layout, "Keyboard layout (qwerty, azerty, qwertz)")
	flag.Float64Var(&cfg.Speed, "speed", cfg.Speed, "Simulation speed in days per second")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Append logs to this file")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address (e.g., :9090)")
	flag.DurationVar(&cfg.FrameInterval, "frame-interval", cfg.FrameInterval, "Frame interval (e.g., 16ms)")
	flag.BoolVar(&summaryMode, "summary", false, "Print body table instead of TUI")
	flag.BoolVar(&frameMode, "frame", false, "Print one rendered frame instead of TUI")
	flag.BoolVar(&eventsMode, "events", false, "Show event log")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.IntVar(&frames, "frames", 0, "Simulated frames to run before headless output")
	flag.IntVar(&width, "width", 0, "Headless frame width in cells (default: terminal width)")
	flag.IntVar(&height, "height", 0, "Headless frame height in cells (default: terminal height)")
	flag.BoolVar(&plain, "plain", false, "Headless frame without colours")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("ls-orrery", version.Version)
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Clamp()
	if frames < 0 {
		frames = 0
	} else if frames > maxFrames {
		frames = maxFrames
	}

	headless := summaryMode || frameMode || eventsMode || snapshotPath != ""

	// Set up logging. The TUI owns the terminal, so it logs to a file or
	// nowhere.
	logger, closer, err := setupLogging(cfg, headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}

	ds, err := loadDataset(cfg.Data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	subject := ds.Subject
	if cfg.Subject != "" {
		subject = cfg.Subject
	}

	// Handle signals
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize components
	rec := metrics.New()
	opts := sim.DefaultOptions()
	opts.Camera = cfg.Camera()
	opts.Rings = cfg.Rings()
	opts.Speed = cfg.Speed
	opts.MinRevolutionSeconds = cfg.MinRevolutionSeconds
	opts.Loader = texture.NewLoader(logger.Named("texture"))
	opts.Log = logger
	opts.Metrics = rec
	engine := sim.New(opts)
	defer engine.Close()

	stats := engine.Load(ds.Bodies, subject)
	logger.Info("Loaded %s: %d bodies, %d roots, generation %s", cfg.Data, stats.Bodies, stats.Roots, stats.Generation)

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, rec.Handler()); err != nil {
				logger.Error("Metrics server: %v", err)
			}
		}()
	}

	if headless {
		if err := runHeadless(engine, cfg.FrameInterval); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Create TUI model
	model := ui.New(engine, ui.Options{
		Layout:        cfg.KeyLayout(),
		FrameInterval: cfg.FrameInterval,
		Dataset:       cfg.Data,
		Render:        render.DefaultOptions(),
	})

	// Create Bubble Tea program
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(cfg config.Config, headless bool) (*logging.Logger, io.Closer, error) {
	level := logging.ParseLevel(cfg.LogLevel)
	switch {
	case cfg.LogFile != "":
		return logging.OpenFile(cfg.LogFile, level)
	case headless:
		return logging.New(level), nil, nil
	default:
		return logging.Discard(), nil, nil
	}
}

// loadDataset resolves a demo name or reads a dataset file.
func loadDataset(name string) (catalog.Dataset, error) {
	if ds, ok := catalog.Demo(name); ok {
		return ds, nil
	}
	ds, err := catalog.LoadFile(name)
	if err != nil {
		return catalog.Dataset{}, fmt.Errorf("dataset %q: %w", name, err)
	}
	return ds, nil
}

// runHeadless simulates the requested frames and prints the outputs.
func runHeadless(engine *sim.Engine, interval time.Duration) error {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	cols, rows := width, height
	if isTTY && (cols <= 0 || rows <= 0) {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if cols <= 0 {
				cols = w
			}
			if rows <= 0 {
				rows = h - 1
			}
		}
	}
	if cols <= 0 {
		cols = defaultWidth
	}
	if rows <= 0 {
		rows = defaultHeight
	}
	engine.Resize(cols, rows*render.CellAspect)

	// Simulated frames use a synthetic clock so output is reproducible.
	start := time.Now()
	for i := 0; i < frames; i++ {
		engine.Tick(start.Add(time.Duration(i) * interval))
	}
	engine.Refresh()

	snap := sim.ExportSnapshot(engine, time.Now())

	if snapshotPath != "" {
		if err := writeSnapshot(snap); err != nil {
			return err
		}
	}

	if summaryMode {
		sim.WriteSummaryTable(os.Stdout, snap)
	}

	if frameMode {
		if summaryMode {
			fmt.Println()
		}
		r := render.New(render.DefaultOptions())
		canvas := r.Draw(engine.Camera(), engine.Registry(), engine.Controller().Focus(), cols, rows)
		if plain || !isTTY {
			fmt.Println(canvas.Plain())
		} else {
			fmt.Println(canvas.String())
		}
	}

	if eventsMode {
		fmt.Println()
		sim.WriteEvents(os.Stdout, engine.State().RecentEvents(10), 10)
	}
	return nil
}

func writeSnapshot(snap *sim.SnapshotExport) error {
	if snapshotPath == "-" {
		if err := snap.WriteJSON(os.Stdout); err != nil {
			return fmt.Errorf("write JSON to stdout: %w", err)
		}
		return nil
	}
	f, err := os.Create(snapshotPath)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()
	if err := snap.WriteJSON(f); err != nil {
		return fmt.Errorf("write JSON to file: %w", err)
	}
	return nil
}
