package physics

import "errors"

var (
	ErrUnsupportedShapePair = errors.New("physics: unsupported shape pair")
	ErrUnsupportedShape     = errors.New("physics: unsupported shape")
	ErrInvalidShape         = errors.New("physics: invalid shape dimensions")
	ErrInvalidMass          = errors.New("physics: mass must be positive")
	ErrSingularInertia      = errors.New("physics: inertia tensor is singular")
	ErrNonFinite            = errors.New("physics: non-finite body state")
	ErrHandleOutOfRange     = errors.New("physics: handle out of range")
	ErrBodyRemoved          = errors.New("physics: body removed")
)
