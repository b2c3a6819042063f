package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/physics"
)

// Instance is one placed copy of a model. Position and Rotation mirror the
// bound body as of the last committed frame.
type Instance struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Body     physics.Handle
	Behavior component.Behavior
	Model    string

	started bool
	removed bool
}

func (i *Instance) Started() bool {
	return i.started
}

func (i *Instance) Removed() bool {
	return i.removed
}

// Step advances the instance by one frame: start the behavior once, update
// it, integrate the body and refresh the cached transform. Instances without
// a behavior are still integrated.
func (i *Instance) Step(dt float64, bodies *physics.Store) error {
	if i.removed {
		return nil
	}

	if !i.started {
		if i.Behavior != nil {
			if err := i.Behavior.Start(bodies, i.Body); err != nil {
				return err
			}
		}
		i.started = true
	}

	if i.Behavior != nil {
		if err := i.Behavior.Update(dt, bodies, i.Body); err != nil {
			return err
		}
	}

	body, err := bodies.Body(i.Body)
	if err != nil {
		return err
	}
	if err := body.Update(dt); err != nil {
		return err
	}

	i.Position = body.Position
	i.Rotation = body.Rotation
	return nil
}

// ModelGroup holds every Instance drawn with the same model, in spawn order.
type ModelGroup struct {
	Model     string
	Instances []*Instance
}

// Live counts instances that have not been despawned.
func (g *ModelGroup) Live() int {
	n := 0
	for _, inst := range g.Instances {
		if !inst.removed {
			n++
		}
	}
	return n
}

type instanceState struct {
	position mgl64.Vec3
	rotation mgl64.Quat
	started  bool
}
