package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Intersecting reports whether two bodies overlap. Rotation is ignored: boxes are
// tested as world axis-aligned. Touching at exactly the boundary is not an overlap.
// Shape pairs without a test return ErrUnsupportedShapePair.
func Intersecting(a, b *RigidBody) (bool, error) {
	switch {
	case a.Shape.Kind == ShapeSphere && b.Shape.Kind == ShapeSphere:
		return sphereSphere(a.Position, a.Shape.Radius, b.Position, b.Shape.Radius), nil
	case a.Shape.Kind == ShapeBox && b.Shape.Kind == ShapeBox:
		return boxBox(a.Position, a.Shape.HalfExtents(), b.Position, b.Shape.HalfExtents()), nil
	case a.Shape.Kind == ShapeSphere && b.Shape.Kind == ShapeBox:
		return sphereBox(a.Position, a.Shape.Radius, b.Position, b.Shape.HalfExtents()), nil
	case a.Shape.Kind == ShapeBox && b.Shape.Kind == ShapeSphere:
		return Intersecting(b, a)
	default:
		return false, fmt.Errorf("%w: %s vs %s", ErrUnsupportedShapePair, a.Shape.Kind, b.Shape.Kind)
	}
}

func sphereSphere(ca mgl64.Vec3, ra float64, cb mgl64.Vec3, rb float64) bool {
	return ca.Sub(cb).Len() < ra+rb
}

func boxBox(ca, ha, cb, hb mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(ca[i]-cb[i]) >= ha[i]+hb[i] {
			return false
		}
	}
	return true
}

func sphereBox(sc mgl64.Vec3, r float64, bc, half mgl64.Vec3) bool {
	offset := sc.Sub(bc)
	var closest mgl64.Vec3
	for i := 0; i < 3; i++ {
		closest[i] = mgl64.Clamp(offset[i], -half[i], half[i])
	}
	return offset.Sub(closest).Len() < r
}
