package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Inertia returns the body-space inertia tensor of a solid shape with the given mass.
func Inertia(s Shape, mass float64) (mgl64.Mat3, error) {
	if !(mass > 0) {
		return mgl64.Mat3{}, fmt.Errorf("%w: inertia with mass %g", ErrInvalidMass, mass)
	}
	switch s.Kind {
	case ShapeSphere:
		i := 0.4 * mass * s.Radius * s.Radius
		return mgl64.Diag3(mgl64.Vec3{i, i, i}), nil
	case ShapeBox:
		w, h, d := s.Extents[0], s.Extents[1], s.Extents[2]
		k := mass / 12
		return mgl64.Diag3(mgl64.Vec3{
			k * (h*h + d*d),
			k * (w*w + d*d),
			k * (w*w + h*h),
		}), nil
	default:
		return mgl64.Mat3{}, fmt.Errorf("%w: inertia of %s", ErrUnsupportedShape, s)
	}
}

// InverseInertia inverts the shape's inertia tensor. Degenerate shapes such as a
// zero radius sphere or a flat box yield ErrSingularInertia.
func InverseInertia(s Shape, mass float64) (mgl64.Mat3, error) {
	tensor, err := Inertia(s, mass)
	if err != nil {
		return mgl64.Mat3{}, err
	}

	a := mat.NewDense(3, 3, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			a.Set(r, c, tensor.At(r, c))
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return mgl64.Mat3{}, fmt.Errorf("%w: %s mass %g: %v", ErrSingularInertia, s, mass, err)
	}

	return mgl64.Mat3FromRows(
		mgl64.Vec3{inv.At(0, 0), inv.At(0, 1), inv.At(0, 2)},
		mgl64.Vec3{inv.At(1, 0), inv.At(1, 1), inv.At(1, 2)},
		mgl64.Vec3{inv.At(2, 0), inv.At(2, 1), inv.At(2, 2)},
	), nil
}
