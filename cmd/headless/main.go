// Command headless steps a scene without a window and optionally writes a
// CSV trajectory trace.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/milk9111/scenesim/config"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/system"
	"github.com/milk9111/scenesim/prefabs"
	"github.com/milk9111/scenesim/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	sceneName := flag.String("scene", "", "Scene file in prefabs/ (empty = viewer.scene)")
	frames := flag.Int("frames", 600, "Number of frames to simulate")
	dt := flag.Float64("dt", 0, "Frame delta in seconds (0 = physics.fixed_dt)")
	tracePath := flag.String("trace", "", "Write a CSV trace to this file (- = stdout)")
	inputs := flag.String("input", "", "Scripted key events, e.g. 10:a:press,40:a:release")
	dumpConfig := flag.String("dump-config", "", "Write the effective config to this file and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	if *dumpConfig != "" {
		if err := cfg.WriteYAML(*dumpConfig); err != nil {
			logger.Error("dumping config", "error", err)
			os.Exit(1)
		}
		logger.Info("config written", "path", *dumpConfig)
		return
	}

	opts := runOptions{
		scene:  cfg.Viewer.Scene,
		frames: *frames,
		dt:     cfg.Physics.FixedDT,
	}
	if *sceneName != "" {
		opts.scene = *sceneName
	}
	if *dt > 0 {
		opts.dt = *dt
	}
	if opts.inputs, err = parseInputs(*inputs); err != nil {
		logger.Error("bad -input", "error", err)
		os.Exit(1)
	}

	if _, err := runSceneTo(cfg, logger, opts, *tracePath); err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// runSceneTo runs the scene with its trace sent to path: empty for none, "-"
// for stdout, otherwise a file that is closed before returning.
func runSceneTo(cfg *config.Config, logger *slog.Logger, opts runOptions, path string) (res runResult, err error) {
	switch path {
	case "":
		return runScene(cfg, logger, opts, nil)
	case "-":
		return runScene(cfg, logger, opts, os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return res, fmt.Errorf("creating trace: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing trace: %w", cerr))
		}
	}()
	return runScene(cfg, logger, opts, f)
}

type runOptions struct {
	scene  string
	frames int
	dt     float64
	inputs []scriptedInput
}

type runResult struct {
	frames int
	claims int
	rows   int
}

// runScene loads the scene and steps it, stopping at the first failed frame.
func runScene(cfg *config.Config, logger *slog.Logger, opts runOptions, trace io.Writer) (runResult, error) {
	var res runResult

	scene, err := prefabs.LoadScene(opts.scene)
	if err != nil {
		return res, err
	}

	var rec *telemetry.Recorder
	systems := []ecs.System{system.NewInstanceSystem()}
	if trace != nil {
		rec = telemetry.NewRecorder(trace, cfg.Telemetry.Every)
		systems = append(systems, system.NewTraceSystem(rec))
	}

	w := prefabs.NewWorld(cfg, ecs.WithLogger(logger), ecs.WithSystems(systems...))
	if _, err := prefabs.Populate(w, scene, cfg); err != nil {
		return res, err
	}

	logger.Info("starting headless simulation",
		"scene", opts.scene,
		"frames", opts.frames,
		"dt", opts.dt,
		"bodies", w.Bodies().Live(),
	)

	next := 0
	for frame := 0; frame < opts.frames; frame++ {
		for next < len(opts.inputs) && opts.inputs[next].frame <= frame {
			res.claims += w.Input(opts.inputs[next].event)
			next++
		}
		if err := w.Update(opts.dt); err != nil {
			rec.Discard()
			return res, fmt.Errorf("frame %d: %w", frame, err)
		}
		if err := rec.Flush(); err != nil {
			return res, err
		}
		w.Events().Drain()
		res.frames++
	}
	res.rows = rec.Rows()

	logger.Info("simulation finished",
		"frames", res.frames,
		"claims", res.claims,
		"trace_rows", res.rows,
	)
	return res, nil
}
