package prefabs

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/input"
	"github.com/milk9111/scenesim/physics"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SceneSpec is a scene file: entities placed on load, plus templates the
// viewer offers in its spawn panel.
type SceneSpec struct {
	Name      string       `yaml:"name"`
	Entities  []EntitySpec `yaml:"entities"`
	Templates []EntitySpec `yaml:"templates"`
}

func LoadScene(name string) (SceneSpec, error) {
	scene, err := LoadSpec[SceneSpec](name)
	if err != nil {
		return SceneSpec{}, err
	}
	for i, e := range scene.Entities {
		if err := e.validate(); err != nil {
			return SceneSpec{}, fmt.Errorf("prefabs: %s: entities[%d]: %w", name, i, err)
		}
	}
	for i, e := range scene.Templates {
		if err := e.validate(); err != nil {
			return SceneSpec{}, fmt.Errorf("prefabs: %s: templates[%d]: %w", name, i, err)
		}
	}
	return scene, nil
}

// EntitySpec places one model instance.
type EntitySpec struct {
	Model    string        `yaml:"model"`
	Position []float64     `yaml:"position"`
	Rotation []float64     `yaml:"rotation"` // Euler degrees
	Shape    ShapeSpec     `yaml:"shape"`
	Mass     float64       `yaml:"mass"`
	Behavior *BehaviorSpec `yaml:"behavior"`
}

func (e EntitySpec) validate() error {
	if e.Model == "" {
		return fmt.Errorf("missing model")
	}
	if _, err := common.Vec3(e.Position); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if _, err := common.Vec3(e.Rotation); err != nil {
		return fmt.Errorf("rotation: %w", err)
	}
	if _, err := e.Shape.Shape(); err != nil {
		return err
	}
	if e.Mass < 0 || math.IsNaN(e.Mass) || math.IsInf(e.Mass, 0) {
		return fmt.Errorf("%w: %v", physics.ErrInvalidMass, e.Mass)
	}
	return nil
}

// ShapeSpec is a sphere (radius) or a box (full extents). An empty kind means
// the default unit box.
type ShapeSpec struct {
	Kind    string    `yaml:"kind"`
	Radius  float64   `yaml:"radius"`
	Extents []float64 `yaml:"extents"`
}

func (s ShapeSpec) Shape() (physics.Shape, error) {
	switch strings.ToLower(s.Kind) {
	case "":
		return physics.Shape{}, nil
	case "sphere":
		shape := physics.Sphere(s.Radius)
		if err := shape.Validate(); err != nil {
			return physics.Shape{}, err
		}
		return shape, nil
	case "box":
		if len(s.Extents) == 0 {
			return physics.UnitBox(), nil
		}
		ext, err := common.Vec3(s.Extents)
		if err != nil {
			return physics.Shape{}, fmt.Errorf("%w: box extents: %v", physics.ErrInvalidShape, err)
		}
		shape := physics.Box(ext)
		if err := shape.Validate(); err != nil {
			return physics.Shape{}, err
		}
		return shape, nil
	default:
		return physics.Shape{}, fmt.Errorf("%w: %q", physics.ErrUnsupportedShape, s.Kind)
	}
}

// BehaviorSpec selects and parameterizes a behavior. Unset vectors fall back
// to the configured defaults.
type BehaviorSpec struct {
	Kind            component.Kind `yaml:"kind"`
	Keys            []input.Key    `yaml:"keys"`
	Speed           float64        `yaml:"speed"`
	InitialVelocity []float64      `yaml:"initial_velocity"`
	InitialForce    []float64      `yaml:"initial_force"`
	Axis            []float64      `yaml:"axis"`
	Script          string         `yaml:"script"`
}

func vecOr(v []float64, fallback mgl64.Vec3) (mgl64.Vec3, error) {
	if v == nil {
		return fallback, nil
	}
	return common.Vec3(v)
}
