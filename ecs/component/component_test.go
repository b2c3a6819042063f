package component

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/scenesim/input"
	"github.com/milk9111/scenesim/physics"
)

func newStore(bodies ...physics.RigidBody) *physics.Store {
	s := physics.NewStore()
	for _, b := range bodies {
		s.Add(b)
	}
	return s
}

func boxAt(pos mgl64.Vec3) physics.RigidBody {
	return physics.NewRigidBody(pos, mgl64.QuatIdent())
}

func velocity(t *testing.T, s *physics.Store, h physics.Handle) mgl64.Vec3 {
	t.Helper()
	b, err := s.Body(h)
	if err != nil {
		t.Fatalf("body %d: %v", h, err)
	}
	return b.Velocity
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindNone, false},
		{"none", KindNone, false},
		{"Controller", KindController, false},
		{"bounce", KindBounce, false},
		{"deflect", KindDeflect, false},
		{"script", KindScript, false},
		{"paddle", KindNone, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseKind(c.in)
			if (err != nil) != c.wantErr {
				t.Fatalf("ParseKind(%q) err = %v", c.in, err)
			}
			if c.wantErr && !errors.Is(err, ErrUnknownKind) {
				t.Fatalf("expected ErrUnknownKind, got %v", err)
			}
			if got != c.want {
				t.Fatalf("ParseKind(%q) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestControllerMovesOnLeftRight(t *testing.T) {
	s := newStore(boxAt(mgl64.Vec3{}))
	c := NewController([4]input.Key{input.KeyW, input.KeyS, input.KeyA, input.KeyD}, 0)

	steps := []struct {
		name  string
		event *input.Event
		wantX float64
	}{
		{"idle", nil, 0},
		{"press_left", &input.Event{Kind: input.KindKeyPressed, Key: input.KeyA}, -DefaultControllerSpeed},
		{"hold_left", nil, -DefaultControllerSpeed},
		{"release_left", &input.Event{Kind: input.KindKeyReleased, Key: input.KeyA}, 0},
		{"press_right", &input.Event{Kind: input.KindKeyPressed, Key: input.KeyD}, DefaultControllerSpeed},
		{"left_wins_over_right", &input.Event{Kind: input.KindKeyPressed, Key: input.KeyA}, -DefaultControllerSpeed},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			if step.event != nil && !c.Input(*step.event) {
				t.Fatalf("bound key not claimed")
			}
			if err := c.Update(1.0/60, s, 0); err != nil {
				t.Fatalf("update: %v", err)
			}
			if got := velocity(t, s, 0).X(); got != step.wantX {
				t.Fatalf("velocity.x = %v, want %v", got, step.wantX)
			}
		})
	}
}

func TestControllerInputClaims(t *testing.T) {
	c := NewController([4]input.Key{input.KeyUp, input.KeyDown, input.KeyLeft, input.KeyRight}, 4)

	if c.Input(input.KeyPressed(input.KeyQ)) {
		t.Fatalf("unbound key claimed")
	}
	if c.Input(input.PointerMoved(3, 4)) {
		t.Fatalf("pointer event claimed")
	}
	if !c.Input(input.KeyPressed(input.KeyUp)) || !c.Pressed(BindForward) {
		t.Fatalf("forward not tracked")
	}
	if !c.Input(input.KeyReleased(input.KeyUp)) || c.Pressed(BindForward) {
		t.Fatalf("forward release not tracked")
	}

	// forward/backward do not move the body
	s := newStore(boxAt(mgl64.Vec3{}))
	c.Input(input.KeyPressed(input.KeyDown))
	if err := c.Update(1.0/60, s, 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	if v := velocity(t, s, 0); v != (mgl64.Vec3{}) {
		t.Fatalf("velocity = %v, want zero", v)
	}
}

func TestLaunchStart(t *testing.T) {
	s := newStore(boxAt(mgl64.Vec3{}))
	b := NewBounce(Launch{InitialVelocity: mgl64.Vec3{0, -1, 0}, InitialForce: mgl64.Vec3{0, 10, 0}})
	if err := b.Start(s, 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	body, _ := s.Body(0)
	if body.Velocity != (mgl64.Vec3{0, -1, 0}) || body.Acceleration != (mgl64.Vec3{0, 10, 0}) {
		t.Fatalf("velocity %v acceleration %v", body.Velocity, body.Acceleration)
	}

	body.Mass = 0
	if err := b.Start(s, 0); !errors.Is(err, physics.ErrInvalidMass) {
		t.Fatalf("expected ErrInvalidMass, got %v", err)
	}
}

func TestBounceNegatesOnFirstOverlap(t *testing.T) {
	ball := boxAt(mgl64.Vec3{0, 0.9, 0})
	ball.Velocity = mgl64.Vec3{1, -2, 0}
	s := newStore(ball, boxAt(mgl64.Vec3{0, 0, 0}), boxAt(mgl64.Vec3{0.5, 0.5, 0}))

	b := NewBounce(Launch{})
	if err := b.Update(1.0/60, s, 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	if v := velocity(t, s, 0); v != (mgl64.Vec3{-1, 2, 0}) {
		t.Fatalf("velocity = %v, want negated once", v)
	}
	if b.Hits != 1 || b.LastHit != 1 {
		t.Fatalf("hits=%d last=%d, want 1 and 1", b.Hits, b.LastHit)
	}
}

func TestBounceNoOverlap(t *testing.T) {
	ball := boxAt(mgl64.Vec3{0, 5, 0})
	ball.Velocity = mgl64.Vec3{0, -1, 0}
	s := newStore(ball, boxAt(mgl64.Vec3{}))

	b := NewBounce(Launch{})
	if err := b.Update(1.0/60, s, 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	if v := velocity(t, s, 0); v != (mgl64.Vec3{0, -1, 0}) {
		t.Fatalf("velocity changed without contact: %v", v)
	}
	if b.LastHit != physics.NoHandle {
		t.Fatalf("last hit = %d", b.LastHit)
	}
}

func TestDeflect(t *testing.T) {
	cases := []struct {
		name string
		v    mgl64.Vec3
		axis mgl64.Vec3
		want mgl64.Vec3
	}{
		// (0,-2,0) x (0,0,1) = (-2,0,0)
		{"down_about_z", mgl64.Vec3{0, -2, 0}, mgl64.Vec3{}, mgl64.Vec3{-2, 0, 0}},
		// (3,0,0) x (0,0,1) = (0,-3,0)
		{"right_about_z", mgl64.Vec3{3, 0, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, -3, 0}},
		{"parallel_to_axis", mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, -2}},
		{"keeps_speed", mgl64.Vec3{3, 4, 0}, mgl64.Vec3{0, 0, 5}, mgl64.Vec3{4, -3, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ball := boxAt(mgl64.Vec3{})
			ball.Velocity = c.v
			s := newStore(ball, boxAt(mgl64.Vec3{0.5, 0, 0}))

			d := NewDeflect(Launch{}, c.axis)
			if err := d.Update(1.0/60, s, 0); err != nil {
				t.Fatalf("update: %v", err)
			}
			got := velocity(t, s, 0)
			for i := range got {
				if math.Abs(got[i]-c.want[i]) > 1e-12 {
					t.Fatalf("velocity = %v, want %v", got, c.want)
				}
			}
		})
	}
}

func TestReactiveUnsupportedShape(t *testing.T) {
	ball := boxAt(mgl64.Vec3{})
	prop := boxAt(mgl64.Vec3{})
	prop.Shape = physics.Shape{}
	s := newStore(ball, prop)

	if err := NewBounce(Launch{}).Update(1.0/60, s, 0); !errors.Is(err, physics.ErrUnsupportedShapePair) {
		t.Fatalf("expected ErrUnsupportedShapePair, got %v", err)
	}
}
