package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/scenesim/input"
	"github.com/milk9111/scenesim/physics"
)

// Launch is the start step shared by the collision-reactive behaviors: an
// optional initial velocity, then an optional one-off force. Zero vectors are skipped.
type Launch struct {
	InitialVelocity mgl64.Vec3
	InitialForce    mgl64.Vec3
}

func (l Launch) Start(bodies *physics.Store, h physics.Handle) error {
	b, err := bodies.Body(h)
	if err != nil {
		return err
	}
	if l.InitialVelocity != (mgl64.Vec3{}) {
		b.Velocity = l.InitialVelocity
	}
	if l.InitialForce != (mgl64.Vec3{}) {
		return b.AddForce(l.InitialForce)
	}
	return nil
}

// Contacts records what a reactive behavior has hit so far.
type Contacts struct {
	Hits    int
	LastHit physics.Handle
}

// react tests the body at h against a snapshot of every other body taken at
// the start of the call and calls respond on the first overlap. Bodies updated
// later in the same frame are seen at their position as of this call.
func (c *Contacts) react(bodies *physics.Store, h physics.Handle, respond func(b *physics.RigidBody)) error {
	snap := bodies.Snapshot()
	b, err := bodies.Body(h)
	if err != nil {
		return err
	}
	other, err := snap.FirstOverlap(b, h)
	if err != nil {
		return err
	}
	if other == physics.NoHandle {
		return nil
	}
	c.Hits++
	c.LastHit = other
	respond(b)
	return nil
}

// Bounce negates its velocity on contact.
type Bounce struct {
	Launch
	Contacts
}

func NewBounce(l Launch) *Bounce {
	return &Bounce{Launch: l, Contacts: Contacts{LastHit: physics.NoHandle}}
}

func (c *Bounce) Update(dt float64, bodies *physics.Store, h physics.Handle) error {
	return c.react(bodies, h, func(b *physics.RigidBody) {
		b.Velocity = b.Velocity.Mul(-1)
	})
}

func (c *Bounce) Input(evt input.Event) bool {
	return false
}

// Deflect turns its velocity perpendicular to both the current velocity and
// Axis on contact, keeping the speed. A velocity parallel to Axis is negated.
type Deflect struct {
	Launch
	Contacts
	Axis mgl64.Vec3
}

var defaultDeflectAxis = mgl64.Vec3{0, 0, 1}

func NewDeflect(l Launch, axis mgl64.Vec3) *Deflect {
	if axis == (mgl64.Vec3{}) {
		axis = defaultDeflectAxis
	}
	return &Deflect{Launch: l, Contacts: Contacts{LastHit: physics.NoHandle}, Axis: axis}
}

func (c *Deflect) Update(dt float64, bodies *physics.Store, h physics.Handle) error {
	return c.react(bodies, h, func(b *physics.RigidBody) {
		b.Velocity = deflect(b.Velocity, c.Axis)
	})
}

func (c *Deflect) Input(evt input.Event) bool {
	return false
}

func deflect(v, axis mgl64.Vec3) mgl64.Vec3 {
	if axis == (mgl64.Vec3{}) {
		axis = defaultDeflectAxis
	}
	perp := v.Cross(axis)
	if perp.Len() < 1e-12 {
		return v.Mul(-1)
	}
	return perp.Normalize().Mul(v.Len())
}
