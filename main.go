package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/scenesim/config"
)

func main() {
	configPath := flag.String("config", "", "config YAML file (embedded defaults when empty)")
	sceneName := flag.String("scene", "", "scene file in prefabs/ (overrides viewer.scene)")
	debug := flag.Bool("debug", false, "enable debug logging")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *debug {
		cfg.Derived.LogLevel = slog.LevelDebug
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	scene := cfg.Viewer.Scene
	if *sceneName != "" {
		scene = *sceneName
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowTitle(cfg.Viewer.Title)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(cfg.Viewer.TPS)

	game, err := NewGame(cfg, logger, scene)
	if err != nil {
		logger.Error("load scene", "scene", scene, "err", err)
		os.Exit(1)
	}

	runErr := ebiten.RunGame(game)
	if err := game.Close(); err != nil {
		logger.Warn("close watcher", "err", err)
	}
	if runErr != nil {
		logger.Error("viewer stopped", "err", runErr)
		os.Exit(1)
	}
}
