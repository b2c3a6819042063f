package component

import (
	"github.com/milk9111/scenesim/input"
	"github.com/milk9111/scenesim/physics"
)

// Binding indexes the four controller key bindings.
type Binding int

const (
	BindForward Binding = iota
	BindBackward
	BindLeft
	BindRight
)

// DefaultControllerSpeed is the horizontal speed used when none is configured.
const DefaultControllerSpeed = 10.0

// Controller moves its body left and right while the bound keys are held.
// Forward and backward are tracked but do not move the body.
type Controller struct {
	Keys    [4]input.Key
	Speed   float64
	pressed [4]bool
}

func NewController(keys [4]input.Key, speed float64) *Controller {
	if speed == 0 {
		speed = DefaultControllerSpeed
	}
	return &Controller{Keys: keys, Speed: speed}
}

func (c *Controller) Start(bodies *physics.Store, h physics.Handle) error {
	return nil
}

func (c *Controller) Update(dt float64, bodies *physics.Store, h physics.Handle) error {
	b, err := bodies.Body(h)
	if err != nil {
		return err
	}

	switch {
	case c.pressed[BindLeft]:
		b.Velocity[0] = -c.Speed
	case c.pressed[BindRight]:
		b.Velocity[0] = c.Speed
	default:
		b.Velocity[0] = 0
	}
	return nil
}

// Input claims presses and releases of the bound keys. When a key is bound
// twice the earlier binding wins.
func (c *Controller) Input(evt input.Event) bool {
	if !evt.IsKey() {
		return false
	}
	for i, k := range c.Keys {
		if k == input.KeyUnknown || evt.Key != k {
			continue
		}
		c.pressed[i] = evt.Kind == input.KindKeyPressed
		return true
	}
	return false
}

// Pressed reports the tracked state of a binding.
func (c *Controller) Pressed(b Binding) bool {
	return c.pressed[b]
}
