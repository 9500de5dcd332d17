package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/Rodrun/sugarscape/config"
	"github.com/Rodrun/sugarscape/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Uint64("seed", 0, "Master RNG seed (0 = use config)")
	until := flag.Float64("until", 0, "Stop once the next event is later than this (0 = config horizon)")
	headless := flag.Bool("headless", false, "Run without graphics")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, snapshots and config")
	tracePath := flag.String("trace", "", "Write a compressed event trace to this file")
	archivePath := flag.String("archive", "", "Record the run in this SQLite archive")
	pause := flag.Bool("pause", false, "Open the console after every event (headless)")
	animate := flag.Bool("animate", false, "Print the map after every event")
	compare := flag.Bool("compare", false, "Print the initial and final maps side by side")
	terrain := flag.Bool("terrain", false, "Print the terrain map at the end")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	progress := flag.Bool("progress", false, "Show a progress bar (headless)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "json", "Log format: json or text")

	flag.Parse()

	setupLogging(*logLevel, *logFormat)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		Config:      cfg,
		Seed:        *seed,
		Until:       *until,
		OutputDir:   *outputDir,
		TracePath:   *tracePath,
		ArchivePath: *archivePath,
		LogStats:    *logStats,
		Progress:    *progress,
		Pause:       *pause,
		Animate:     *animate,
		Compare:     *compare,
		Terrain:     *terrain,
		Headless:    *headless,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("failed to create simulation", "error", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		runErr := g.RunHeadless(ctx)
		stop()
		if err := g.Unload(); err != nil {
			slog.Error("failed to write run output", "error", err)
			os.Exit(1)
		}
		if runErr != nil {
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Derived.ScreenWidth), int32(cfg.Derived.ScreenHeight), "Sugarscape")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(0) // Escape clears the selection

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		rl.CloseWindow()
		os.Exit(1)
	}
	defer func() {
		if err := g.Unload(); err != nil {
			slog.Error("failed to write run output", "error", err)
		}
	}()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
	slog.Info("window closed", "time", g.Sim().Now(), "events", g.Events(), "population", g.Sim().Population().Len())
}

// setupLogging installs the default slog logger.
func setupLogging(level, format string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
}
