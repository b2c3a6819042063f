package prefabs

import (
	"fmt"

	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/config"
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/ecs/component"
)

// Builder turns specs into behaviors, compiling each script once.
type Builder struct {
	cfg      *config.Config
	programs map[string]*component.ScriptProgram
}

func NewBuilder(cfg *config.Config) *Builder {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Builder{cfg: cfg, programs: make(map[string]*component.ScriptProgram)}
}

// BuildBehavior builds a single behavior without sharing compiled scripts.
func BuildBehavior(spec BehaviorSpec, cfg *config.Config) (component.Behavior, error) {
	return NewBuilder(cfg).Behavior(spec)
}

// Behavior returns nil for KindNone.
func (b *Builder) Behavior(spec BehaviorSpec) (component.Behavior, error) {
	switch spec.Kind {
	case component.KindNone:
		return nil, nil
	case component.KindController:
		keys := b.cfg.Derived.ControllerKeys
		if len(spec.Keys) > 0 {
			if len(spec.Keys) != len(keys) {
				return nil, fmt.Errorf("prefabs: controller needs %d keys, got %d", len(keys), len(spec.Keys))
			}
			copy(keys[:], spec.Keys)
		}
		speed := spec.Speed
		if speed == 0 {
			speed = b.cfg.Behaviors.Controller.Speed
		}
		return component.NewController(keys, speed), nil
	case component.KindBounce:
		launch, err := b.launch(spec)
		if err != nil {
			return nil, err
		}
		return component.NewBounce(launch), nil
	case component.KindDeflect:
		launch, err := b.launch(spec)
		if err != nil {
			return nil, err
		}
		axis, err := vecOr(spec.Axis, b.cfg.Derived.DeflectAxis)
		if err != nil {
			return nil, fmt.Errorf("prefabs: deflect axis: %w", err)
		}
		return component.NewDeflect(launch, axis), nil
	case component.KindScript:
		prog, err := b.program(spec.Script)
		if err != nil {
			return nil, err
		}
		return prog.Instantiate(), nil
	default:
		return nil, fmt.Errorf("%w: %v", component.ErrUnknownKind, spec.Kind)
	}
}

func (b *Builder) launch(spec BehaviorSpec) (component.Launch, error) {
	v, err := common.Vec3(spec.InitialVelocity)
	if err != nil {
		return component.Launch{}, fmt.Errorf("prefabs: initial_velocity: %w", err)
	}
	f, err := vecOr(spec.InitialForce, b.cfg.Derived.BounceForce)
	if err != nil {
		return component.Launch{}, fmt.Errorf("prefabs: initial_force: %w", err)
	}
	return component.Launch{InitialVelocity: v, InitialForce: f}, nil
}

func (b *Builder) program(path string) (*component.ScriptProgram, error) {
	clean := cleanScriptPath(path)
	if prog, ok := b.programs[clean]; ok {
		return prog, nil
	}
	src, err := LoadScript(clean)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %q: %w", path, err)
	}
	prog, err := component.CompileScript(clean, src)
	if err != nil {
		return nil, err
	}
	b.programs[clean] = prog
	return prog, nil
}

// Spawn places one entity into w.
func (b *Builder) Spawn(w *ecs.World, spec EntitySpec) (ecs.Entity, error) {
	if err := spec.validate(); err != nil {
		return 0, fmt.Errorf("prefabs: %s: %w", spec.Model, err)
	}
	shape, _ := spec.Shape.Shape()
	pos, _ := common.Vec3(spec.Position)
	rot, _ := common.Vec3(spec.Rotation)

	var behavior component.Behavior
	if spec.Behavior != nil {
		var err error
		if behavior, err = b.Behavior(*spec.Behavior); err != nil {
			return 0, fmt.Errorf("prefabs: %s: %w", spec.Model, err)
		}
	}

	return w.Spawn(spec.Model, ecs.SpawnSpec{
		Position:        pos,
		RotationDegrees: rot,
		Shape:           shape,
		Mass:            spec.Mass,
		Behavior:        behavior,
	})
}

// Populate spawns every entity of scene into w, stopping at the first error.
func Populate(w *ecs.World, scene SceneSpec, cfg *config.Config) ([]ecs.Entity, error) {
	b := NewBuilder(cfg)
	ents := make([]ecs.Entity, 0, len(scene.Entities))
	for _, spec := range scene.Entities {
		e, err := b.Spawn(w, spec)
		if err != nil {
			return ents, err
		}
		ents = append(ents, e)
	}
	return ents, nil
}

// NewWorld builds a world configured from cfg with the given systems.
func NewWorld(cfg *config.Config, opts ...ecs.Option) *ecs.World {
	base := []ecs.Option{
		ecs.WithGravity(cfg.Derived.Gravity),
		ecs.WithMaxDelta(cfg.Physics.MaxDT),
	}
	return ecs.NewWorld(append(base, opts...)...)
}
