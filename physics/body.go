// Package physics holds rigid-body state, integration and shape overlap tests.
package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// machineEpsilon is the float64 spacing at 1.0.
const machineEpsilon = 2.220446049250313e-16

// RigidBody is the physical state of one entity.
type RigidBody struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	Velocity        mgl64.Vec3
	Acceleration    mgl64.Vec3
	AngularVelocity mgl64.Vec3 // body space, radians per second
	Mass            float64
	Shape           Shape
}

// NewRigidBody returns a body at rest with a unit box shape and mass 1.
func NewRigidBody(position mgl64.Vec3, rotation mgl64.Quat) RigidBody {
	return RigidBody{
		Position: position,
		Rotation: rotation,
		Mass:     1,
		Shape:    UnitBox(),
	}
}

// Update advances the body by dt seconds with semi-implicit Euler.
// The rotation step is skipped when the unnormalized result collapses to zero.
// On ErrNonFinite the body is left untouched.
func (b *RigidBody) Update(dt float64) error {
	vel := b.Velocity.Add(b.Acceleration.Mul(dt))
	pos := b.Position.Add(vel.Mul(dt))

	rot := b.Rotation
	half := mgl64.Quat{W: 0, V: b.AngularVelocity.Mul(0.5 * dt)}
	next := rot.Add(rot.Mul(half))
	if next.Len() >= machineEpsilon {
		rot = next.Normalize()
	}

	if !finiteVec(vel) || !finiteVec(pos) || !finiteQuat(rot) {
		return fmt.Errorf("%w: update with dt=%g", ErrNonFinite, dt)
	}

	b.Velocity = vel
	b.Position = pos
	b.Rotation = rot
	return nil
}

// AddForce accumulates f/mass into the acceleration. The acceleration is
// never reset, so repeated calls compound.
func (b *RigidBody) AddForce(f mgl64.Vec3) error {
	if !(b.Mass > 0) {
		return fmt.Errorf("%w: add force with mass %g", ErrInvalidMass, b.Mass)
	}
	b.Acceleration = b.Acceleration.Add(f.Mul(1 / b.Mass))
	return nil
}

// AddTorqueImpulse adds I⁻¹·t to the angular velocity, I being the
// shape's inertia tensor scaled by mass.
func (b *RigidBody) AddTorqueImpulse(t mgl64.Vec3) error {
	inv, err := InverseInertia(b.Shape, b.Mass)
	if err != nil {
		return err
	}
	b.AngularVelocity = b.AngularVelocity.Add(inv.Mul3x1(t))
	return nil
}

func finiteVec(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func finiteQuat(q mgl64.Quat) bool {
	return !math.IsNaN(q.W) && !math.IsInf(q.W, 0) && finiteVec(q.V)
}
