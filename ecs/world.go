package ecs

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/input"
	"github.com/milk9111/scenesim/physics"
)

var (
	ErrInvalidDelta  = errors.New("ecs: invalid frame delta")
	ErrEmptyModel    = errors.New("ecs: empty model name")
	ErrUnknownEntity = errors.New("ecs: unknown entity")
	ErrDespawned     = errors.New("ecs: entity despawned")
	ErrFrameActive   = errors.New("ecs: world is mid-frame")
)

// SpawnSpec describes a new Instance. A zero Shape means a unit box and a
// zero Mass means 1.
type SpawnSpec struct {
	Position        mgl64.Vec3
	RotationDegrees mgl64.Vec3
	Shape           physics.Shape
	Mass            float64
	Behavior        component.Behavior
}

// World owns the body store, model groups, and system order.
type World struct {
	bodies    *physics.Store
	groups    []*ModelGroup
	byModel   map[string]int
	scheduler *Scheduler
	events    EventQueue
	logger    *slog.Logger

	gravity  mgl64.Vec3
	maxDelta float64
	frame    uint64
	staging  bool
}

type Option func(*World)

func WithLogger(l *slog.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithGravity seeds the acceleration of every spawned body.
func WithGravity(g mgl64.Vec3) Option {
	return func(w *World) {
		w.gravity = g
	}
}

// WithMaxDelta clamps frame deltas above d. Zero disables clamping.
func WithMaxDelta(d float64) Option {
	return func(w *World) {
		w.maxDelta = d
	}
}

func WithSystems(systems ...System) Option {
	return func(w *World) {
		for _, s := range systems {
			w.scheduler.Add(s)
		}
	}
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	w := &World{
		bodies:    physics.NewStore(),
		byModel:   make(map[string]int),
		scheduler: NewScheduler(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	w.scheduler.Add(s)
}

func (w *World) Scheduler() *Scheduler {
	return w.scheduler
}

// Bodies returns the store systems should act on. During Update this is the
// working copy for the current frame.
func (w *World) Bodies() *physics.Store {
	return w.bodies
}

// Frame is the number of committed frames.
func (w *World) Frame() uint64 {
	return w.frame
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	return &w.events
}

func (w *World) Logger() *slog.Logger {
	return w.logger
}

// Groups returns the model groups in creation order.
func (w *World) Groups() []*ModelGroup {
	out := make([]*ModelGroup, len(w.groups))
	copy(out, w.groups)
	return out
}

// Spawn creates an Instance of model with a freshly added body.
func (w *World) Spawn(model string, spec SpawnSpec) (Entity, error) {
	if w.staging {
		return 0, ErrFrameActive
	}
	if model == "" {
		return 0, ErrEmptyModel
	}

	mass := spec.Mass
	if mass == 0 {
		mass = 1
	}
	if mass < 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return 0, fmt.Errorf("%w: spawn %s with mass %v", physics.ErrInvalidMass, model, spec.Mass)
	}
	if !common.Finite(spec.Position) || !common.Finite(spec.RotationDegrees) {
		return 0, fmt.Errorf("%w: spawn %s at %v rotated %v", physics.ErrNonFinite, model, spec.Position, spec.RotationDegrees)
	}
	shape := spec.Shape
	if shape.Kind == physics.ShapeNone {
		shape = physics.UnitBox()
	}
	if err := shape.Validate(); err != nil {
		return 0, fmt.Errorf("spawn %s: %w", model, err)
	}

	body := physics.NewRigidBody(spec.Position, common.EulerDegreesToQuat(spec.RotationDegrees))
	body.Mass = mass
	body.Shape = shape
	body.Acceleration = w.gravity
	h := w.bodies.Add(body)

	gi, ok := w.byModel[model]
	if !ok {
		gi = len(w.groups)
		w.groups = append(w.groups, &ModelGroup{Model: model})
		w.byModel[model] = gi
	}
	group := w.groups[gi]
	group.Instances = append(group.Instances, &Instance{
		Position: body.Position,
		Rotation: body.Rotation,
		Body:     h,
		Behavior: spec.Behavior,
		Model:    model,
	})

	e := makeEntity(gi, len(group.Instances)-1)
	w.events.Push(Event{Type: EventSpawn, Data: SpawnEvent{Entity: e, Model: model, Body: h}})
	w.logger.Debug("spawned", "entity", e.String(), "model", model, "shape", shape.String(), "body", int(h))
	return e, nil
}

// Despawn tombstones the Instance and its body. Other handles are unaffected.
func (w *World) Despawn(e Entity) error {
	if w.staging {
		return ErrFrameActive
	}
	inst, err := w.lookup(e)
	if err != nil {
		return err
	}
	if inst.removed {
		return fmt.Errorf("%w: %v", ErrDespawned, e)
	}
	if err := w.bodies.Remove(inst.Body); err != nil {
		return err
	}
	inst.removed = true
	w.events.Push(Event{Type: EventDespawn, Data: DespawnEvent{Entity: e, Model: inst.Model}})
	w.logger.Debug("despawned", "entity", e.String(), "model", inst.Model)
	return nil
}

// Instance returns the live Instance for e.
func (w *World) Instance(e Entity) (*Instance, error) {
	inst, err := w.lookup(e)
	if err != nil {
		return nil, err
	}
	if inst.removed {
		return nil, fmt.Errorf("%w: %v", ErrDespawned, e)
	}
	return inst, nil
}

// Body returns a copy of the committed body bound to e.
func (w *World) Body(e Entity) (physics.RigidBody, error) {
	inst, err := w.Instance(e)
	if err != nil {
		return physics.RigidBody{}, err
	}
	b, err := w.bodies.Body(inst.Body)
	if err != nil {
		return physics.RigidBody{}, err
	}
	return *b, nil
}

func (w *World) lookup(e Entity) (*Instance, error) {
	gi, ii := e.group(), e.index()
	if !e.Valid() || gi < 0 || gi >= len(w.groups) {
		return nil, fmt.Errorf("%w: %v", ErrUnknownEntity, e)
	}
	group := w.groups[gi]
	if ii >= len(group.Instances) {
		return nil, fmt.Errorf("%w: %v", ErrUnknownEntity, e)
	}
	return group.Instances[ii], nil
}

// ForEach visits live instances in group order, then spawn order, stopping
// at the first error.
func (w *World) ForEach(fn func(e Entity, inst *Instance) error) error {
	for gi, group := range w.groups {
		for ii, inst := range group.Instances {
			if inst.removed {
				continue
			}
			if err := fn(makeEntity(gi, ii), inst); err != nil {
				return err
			}
		}
	}
	return nil
}

// Input delivers evt to every live behavior and returns how many claimed it.
// A claim does not stop delivery.
func (w *World) Input(evt input.Event) int {
	claims := 0
	_ = w.ForEach(func(e Entity, inst *Instance) error {
		if inst.Behavior == nil {
			return nil
		}
		if inst.Behavior.Input(evt) {
			claims++
			w.events.Push(Event{Type: EventInputClaim, Data: InputClaimEvent{Entity: e, Input: evt}})
		}
		return nil
	})
	if claims > 0 {
		w.logger.Debug("input claimed", "kind", evt.Kind.String(), "key", evt.Key.String(), "claims", claims)
	}
	return claims
}

// Update runs every system against a copy of the body store and commits it
// only if all of them succeed. On failure bodies and instance caches are
// left as they were before the call; behavior-internal state is not.
func (w *World) Update(dt float64) error {
	if w.staging {
		return ErrFrameActive
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}
	if w.maxDelta > 0 && dt > w.maxDelta {
		dt = w.maxDelta
	}

	committed := w.bodies
	saved := w.saveInstances()
	w.bodies = committed.Clone()
	w.staging = true
	err := w.scheduler.Update(w, dt)
	w.staging = false

	if err != nil {
		w.bodies = committed
		w.restoreInstances(saved)
		w.logger.Error("frame discarded", "frame", w.frame, "err", err)
		return err
	}
	w.frame++
	return nil
}

func (w *World) saveInstances() [][]instanceState {
	saved := make([][]instanceState, len(w.groups))
	for gi, group := range w.groups {
		states := make([]instanceState, len(group.Instances))
		for ii, inst := range group.Instances {
			states[ii] = instanceState{position: inst.Position, rotation: inst.Rotation, started: inst.started}
		}
		saved[gi] = states
	}
	return saved
}

func (w *World) restoreInstances(saved [][]instanceState) {
	for gi, states := range saved {
		for ii, st := range states {
			inst := w.groups[gi].Instances[ii]
			inst.Position = st.position
			inst.Rotation = st.rotation
			inst.started = st.started
		}
	}
}
