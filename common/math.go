package common

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// EulerDegreesToQuat converts rotations about X, Y and Z in degrees to a unit
// quaternion, composed in mgl64.XYZ order.
func EulerDegreesToQuat(deg mgl64.Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(
		mgl64.DegToRad(deg[0]),
		mgl64.DegToRad(deg[1]),
		mgl64.DegToRad(deg[2]),
		mgl64.XYZ,
	).Normalize()
}

// Vec3 converts a three element slice, as decoded from YAML, into a vector.
// A nil slice is the zero vector. NaN and Inf components are rejected.
func Vec3(v []float64) (mgl64.Vec3, error) {
	switch len(v) {
	case 0:
		return mgl64.Vec3{}, nil
	case 3:
		out := mgl64.Vec3{v[0], v[1], v[2]}
		if !Finite(out) {
			return mgl64.Vec3{}, fmt.Errorf("vector has non-finite component: %v", v)
		}
		return out, nil
	default:
		return mgl64.Vec3{}, fmt.Errorf("vector needs 3 components, got %d", len(v))
	}
}

// Finite reports whether no component of v is NaN or Inf.
func Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
