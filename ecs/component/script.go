package component

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/scenesim/input"
	"github.com/milk9111/scenesim/physics"
)

// scriptDispatch is appended to every behavior script. Scripts must define
// start(engine, state), update(engine, state, dt) and input(engine, state, event).
const scriptDispatch = `
if __phase == "start" {
	start(__engine, __state)
} else if __phase == "update" {
	update(__engine, __state, __dt)
} else if __phase == "input" {
	__claimed = input(__engine, __state, __event)
}
`

// ScriptProgram is a compiled behavior script. Instances share the bytecode but
// not their globals or state.
type ScriptProgram struct {
	name     string
	compiled *tengo.Compiled
}

// CompileScript compiles src with the tengo stdlib available for import.
func CompileScript(name string, src []byte) (*ScriptProgram, error) {
	full := string(src) + "\n" + scriptDispatch
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__dt", 0.0)
	_ = script.Add("__event", map[string]any{})
	_ = script.Add("__claimed", false)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: compile %s: %v", ErrScriptFailed, name, err)
	}
	return &ScriptProgram{name: name, compiled: compiled}, nil
}

func (p *ScriptProgram) Name() string {
	return p.name
}

// Instantiate returns a fresh behavior running this program.
func (p *ScriptProgram) Instantiate() *Script {
	return &Script{
		name:     p.name,
		compiled: p.compiled.Clone(),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
}

// Script is a behavior implemented in tengo.
type Script struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	inputErr error
}

func (s *Script) Name() string {
	return s.name
}

func (s *Script) Start(bodies *physics.Store, h physics.Handle) error {
	return s.run("start", buildScriptEngine(bodies, h), 0, nil)
}

// Update also surfaces any error raised by an earlier Input call, since Input
// has no way to report one.
func (s *Script) Update(dt float64, bodies *physics.Store, h physics.Handle) error {
	if err := s.inputErr; err != nil {
		s.inputErr = nil
		return err
	}
	return s.run("update", buildScriptEngine(bodies, h), dt, nil)
}

// Input runs the script's input function with an engine that exposes no bodies.
func (s *Script) Input(evt input.Event) bool {
	event := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"kind":   &tengo.String{Value: evt.Kind.String()},
		"key":    &tengo.String{Value: evt.Key.String()},
		"x":      &tengo.Float{Value: evt.X},
		"y":      &tengo.Float{Value: evt.Y},
		"width":  &tengo.Int{Value: int64(evt.Width)},
		"height": &tengo.Int{Value: int64(evt.Height)},
	}}
	if err := s.run("input", &tengo.ImmutableMap{Value: map[string]tengo.Object{}}, 0, event); err != nil {
		if s.inputErr == nil {
			s.inputErr = err
		}
		return false
	}
	return s.compiled.Get("__claimed").Bool()
}

func (s *Script) run(phase string, engine *tengo.ImmutableMap, dt float64, event *tengo.ImmutableMap) error {
	if event == nil {
		event = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	vars := []struct {
		name  string
		value any
	}{
		{"__phase", phase},
		{"__engine", engine},
		{"__state", s.state},
		{"__dt", dt},
		{"__event", event},
		{"__claimed", false},
	}
	for _, v := range vars {
		if err := s.compiled.Set(v.name, v.value); err != nil {
			return fmt.Errorf("%w: %s: set %s: %v", ErrScriptFailed, s.name, v.name, err)
		}
	}
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrScriptFailed, s.name, phase, err)
	}
	return nil
}

// buildScriptEngine exposes the body at h to the script. The snapshot used by
// first_overlap is taken on first use within the call; only the script's own
// body can change before that, and it is skipped by the overlap scan.
func buildScriptEngine(bodies *physics.Store, h physics.Handle) *tengo.ImmutableMap {
	var snap *physics.Snapshot

	body := func() (*physics.RigidBody, error) {
		return bodies.Body(h)
	}
	getter := func(name string, get func(b *physics.RigidBody) mgl64.Vec3) *tengo.UserFunction {
		return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			b, err := body()
			if err != nil {
				return nil, err
			}
			return vecObject(get(b)), nil
		}}
	}
	setter := func(name string, set func(b *physics.RigidBody, v mgl64.Vec3) error) *tengo.UserFunction {
		return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			v, err := vecArgs(name, args)
			if err != nil {
				return nil, err
			}
			b, err := body()
			if err != nil {
				return nil, err
			}
			if err := set(b, v); err != nil {
				return nil, err
			}
			return tengo.UndefinedValue, nil
		}}
	}

	values := map[string]tengo.Object{
		"handle": &tengo.Int{Value: int64(h)},

		"get_position":         getter("get_position", func(b *physics.RigidBody) mgl64.Vec3 { return b.Position }),
		"get_velocity":         getter("get_velocity", func(b *physics.RigidBody) mgl64.Vec3 { return b.Velocity }),
		"get_angular_velocity": getter("get_angular_velocity", func(b *physics.RigidBody) mgl64.Vec3 { return b.AngularVelocity }),

		"set_position": setter("set_position", func(b *physics.RigidBody, v mgl64.Vec3) error {
			b.Position = v
			return nil
		}),
		"set_velocity": setter("set_velocity", func(b *physics.RigidBody, v mgl64.Vec3) error {
			b.Velocity = v
			return nil
		}),
		"set_angular_velocity": setter("set_angular_velocity", func(b *physics.RigidBody, v mgl64.Vec3) error {
			b.AngularVelocity = v
			return nil
		}),
		"add_force": setter("add_force", func(b *physics.RigidBody, v mgl64.Vec3) error {
			return b.AddForce(v)
		}),
		"add_torque_impulse": setter("add_torque_impulse", func(b *physics.RigidBody, v mgl64.Vec3) error {
			return b.AddTorqueImpulse(v)
		}),

		"get_rotation": &tengo.UserFunction{Name: "get_rotation", Value: func(args ...tengo.Object) (tengo.Object, error) {
			b, err := body()
			if err != nil {
				return nil, err
			}
			q := b.Rotation
			return &tengo.Array{Value: []tengo.Object{
				&tengo.Float{Value: q.W},
				&tengo.Float{Value: q.V[0]},
				&tengo.Float{Value: q.V[1]},
				&tengo.Float{Value: q.V[2]},
			}}, nil
		}},

		"first_overlap": &tengo.UserFunction{Name: "first_overlap", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if snap == nil {
				s := bodies.Snapshot()
				snap = &s
			}
			b, err := body()
			if err != nil {
				return nil, err
			}
			other, err := snap.FirstOverlap(b, h)
			if err != nil {
				return nil, err
			}
			return &tengo.Int{Value: int64(other)}, nil
		}},
	}

	return &tengo.ImmutableMap{Value: values}
}

func vecObject(v mgl64.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v[0]},
		&tengo.Float{Value: v[1]},
		&tengo.Float{Value: v[2]},
	}}
}

// vecArgs accepts either three numbers or a single three element array.
func vecArgs(name string, args []tengo.Object) (mgl64.Vec3, error) {
	if len(args) == 1 {
		if arr, ok := args[0].(*tengo.Array); ok {
			args = arr.Value
		}
	}
	if len(args) != 3 {
		return mgl64.Vec3{}, tengo.ErrWrongNumArguments
	}
	var v mgl64.Vec3
	for i, arg := range args {
		f, ok := tengo.ToFloat64(arg)
		if !ok {
			return mgl64.Vec3{}, tengo.ErrInvalidArgumentType{
				Name:     fmt.Sprintf("%s[%d]", name, i),
				Expected: "float",
				Found:    arg.TypeName(),
			}
		}
		v[i] = f
	}
	return v, nil
}
