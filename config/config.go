// Package config loads simulator settings from YAML over embedded defaults.
package config

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/input"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Physics   PhysicsConfig   `yaml:"physics"`
	Behaviors BehaviorsConfig `yaml:"behaviors"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

type PhysicsConfig struct {
	Gravity []float64 `yaml:"gravity"`
	FixedDT float64   `yaml:"fixed_dt"`
	MaxDT   float64   `yaml:"max_dt"`
}

type BehaviorsConfig struct {
	Controller ControllerConfig `yaml:"controller"`
	Bounce     BounceConfig     `yaml:"bounce"`
	Deflect    DeflectConfig    `yaml:"deflect"`
}

type ControllerConfig struct {
	Speed float64     `yaml:"speed"`
	Keys  []input.Key `yaml:"keys"` // forward, backward, left, right
}

type BounceConfig struct {
	InitialForce []float64 `yaml:"initial_force"`
}

type DeflectConfig struct {
	Axis []float64 `yaml:"axis"`
}

type ViewerConfig struct {
	Title         string  `yaml:"title"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
	TPS           int     `yaml:"tps"`
	Scene         string  `yaml:"scene"`
	HotReload     bool    `yaml:"hot_reload"`
}

type LoggingConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

type TelemetryConfig struct {
	Every uint64 `yaml:"every"`
}

// DerivedConfig holds parsed forms of the raw YAML values.
type DerivedConfig struct {
	Gravity        mgl64.Vec3
	BounceForce    mgl64.Vec3
	DeflectAxis    mgl64.Vec3
	ControllerKeys [4]input.Key
	LogLevel       slog.Level
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

func (c *Config) computeDerived() error {
	var err error
	if c.Derived.Gravity, err = common.Vec3(c.Physics.Gravity); err != nil {
		return fmt.Errorf("config: physics.gravity: %w", err)
	}
	if c.Derived.BounceForce, err = common.Vec3(c.Behaviors.Bounce.InitialForce); err != nil {
		return fmt.Errorf("config: behaviors.bounce.initial_force: %w", err)
	}
	if c.Derived.DeflectAxis, err = common.Vec3(c.Behaviors.Deflect.Axis); err != nil {
		return fmt.Errorf("config: behaviors.deflect.axis: %w", err)
	}

	if len(c.Behaviors.Controller.Keys) != len(c.Derived.ControllerKeys) {
		return fmt.Errorf("config: behaviors.controller.keys needs %d keys, got %d",
			len(c.Derived.ControllerKeys), len(c.Behaviors.Controller.Keys))
	}
	copy(c.Derived.ControllerKeys[:], c.Behaviors.Controller.Keys)

	if c.Physics.FixedDT <= 0 {
		return fmt.Errorf("config: physics.fixed_dt must be positive, got %v", c.Physics.FixedDT)
	}
	if c.Physics.MaxDT < 0 {
		return fmt.Errorf("config: physics.max_dt must not be negative, got %v", c.Physics.MaxDT)
	}
	if c.Viewer.TPS <= 0 {
		c.Viewer.TPS = 60
	}
	if c.Telemetry.Every == 0 {
		c.Telemetry.Every = 1
	}

	if err := c.Derived.LogLevel.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("config: logging.level: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// NewLogger builds a slog logger writing to out in the configured format.
func (c *Config) NewLogger(out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Derived.LogLevel}
	if strings.EqualFold(c.Logging.Format, "json") {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
