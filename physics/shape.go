package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind tags the active variant of a Shape.
type ShapeKind uint8

const (
	ShapeNone ShapeKind = iota
	ShapeSphere
	ShapeBox
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	default:
		return "none"
	}
}

// Shape is the collision volume of a body. Only the field matching Kind is read.
// Extents are full width/height/depth, not half extents.
type Shape struct {
	Kind    ShapeKind
	Radius  float64
	Extents mgl64.Vec3
}

func Sphere(radius float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

func Box(extents mgl64.Vec3) Shape {
	return Shape{Kind: ShapeBox, Extents: extents}
}

// UnitBox is the shape given to spawned bodies that do not ask for one.
func UnitBox() Shape {
	return Box(mgl64.Vec3{1, 1, 1})
}

// Validate rejects a sphere whose radius, or a box whose extents, are not
// finite and positive. ShapeNone is valid.
func (s Shape) Validate() error {
	switch s.Kind {
	case ShapeNone:
		return nil
	case ShapeSphere:
		if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
			return fmt.Errorf("%w: sphere radius %v", ErrInvalidShape, s.Radius)
		}
	case ShapeBox:
		for _, e := range s.Extents {
			if !(e > 0) || math.IsInf(e, 0) {
				return fmt.Errorf("%w: box extents %v", ErrInvalidShape, s.Extents)
			}
		}
	default:
		return fmt.Errorf("%w: kind %d", ErrUnsupportedShape, s.Kind)
	}
	return nil
}

// HalfExtents returns half of the box extents.
func (s Shape) HalfExtents() mgl64.Vec3 {
	return s.Extents.Mul(0.5)
}

func (s Shape) String() string {
	switch s.Kind {
	case ShapeSphere:
		return fmt.Sprintf("sphere(r=%g)", s.Radius)
	case ShapeBox:
		return fmt.Sprintf("box(%g x %g x %g)", s.Extents[0], s.Extents[1], s.Extents[2])
	default:
		return "none"
	}
}
