package system

import (
	"fmt"

	"github.com/milk9111/scenesim/ecs"
)

// InstanceSystem runs the per-frame lifecycle of every live Instance: start
// once, update, integrate, refresh the cached transform.
type InstanceSystem struct{}

func NewInstanceSystem() *InstanceSystem {
	return &InstanceSystem{}
}

func (s *InstanceSystem) Update(w *ecs.World, dt float64) error {
	if w == nil {
		return nil
	}

	bodies := w.Bodies()
	return w.ForEach(func(e ecs.Entity, inst *ecs.Instance) error {
		if err := inst.Step(dt, bodies); err != nil {
			return fmt.Errorf("ecs: entity %v (%s): %w", e, inst.Model, err)
		}
		return nil
	})
}
