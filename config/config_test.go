package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/scenesim/input"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Derived.Gravity != (mgl64.Vec3{}) {
		t.Fatalf("gravity = %v, want zero", cfg.Derived.Gravity)
	}
	if cfg.Behaviors.Controller.Speed != 10 {
		t.Fatalf("controller speed = %v", cfg.Behaviors.Controller.Speed)
	}
	wantKeys := [4]input.Key{input.KeyW, input.KeyS, input.KeyA, input.KeyD}
	if cfg.Derived.ControllerKeys != wantKeys {
		t.Fatalf("keys = %v, want %v", cfg.Derived.ControllerKeys, wantKeys)
	}
	if cfg.Derived.BounceForce != (mgl64.Vec3{0, 10, 0}) || cfg.Derived.DeflectAxis != (mgl64.Vec3{0, 0, 1}) {
		t.Fatalf("behavior defaults = %v %v", cfg.Derived.BounceForce, cfg.Derived.DeflectAxis)
	}
	if cfg.Viewer.Scene != "pong.yaml" || cfg.Viewer.TPS != 60 {
		t.Fatalf("viewer = %+v", cfg.Viewer)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeFile(t, `
physics:
  gravity: [0, -9.8, 0]
behaviors:
  controller:
    keys: [up, down, left, right]
logging:
  format: json
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Derived.Gravity != (mgl64.Vec3{0, -9.8, 0}) {
		t.Fatalf("gravity = %v", cfg.Derived.Gravity)
	}
	if cfg.Derived.ControllerKeys[2] != input.KeyLeft {
		t.Fatalf("left binding = %v", cfg.Derived.ControllerKeys[2])
	}
	// untouched keys keep their defaults
	if cfg.Physics.MaxDT != 0.25 || cfg.Behaviors.Controller.Speed != 10 {
		t.Fatalf("defaults lost: max_dt=%v speed=%v", cfg.Physics.MaxDT, cfg.Behaviors.Controller.Speed)
	}

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Debug("hello", "n", 1)
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("expected json debug line, got %q", buf.String())
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"short_gravity", "physics:\n  gravity: [1, 2]\n", "physics.gravity"},
		{"three_keys", "behaviors:\n  controller:\n    keys: [w, s, a]\n", "controller.keys"},
		{"unknown_key", "behaviors:\n  controller:\n    keys: [w, s, a, f13]\n", "f13"},
		{"zero_fixed_dt", "physics:\n  fixed_dt: 0\n", "fixed_dt"},
		{"negative_max_dt", "physics:\n  max_dt: -1\n", "max_dt"},
		{"bad_level", "logging:\n  level: loud\n", "logging.level"},
		{"bad_format", "logging:\n  format: xml\n", "logging.format"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeFile(t, c.body))
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected error mentioning %q, got %v", c.want, err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Behaviors.Controller.Keys[0] = input.KeyUp
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Derived.ControllerKeys[0] != input.KeyUp {
		t.Fatalf("forward key = %v, want up", back.Derived.ControllerKeys[0])
	}
}
