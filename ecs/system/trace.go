package system

import (
	"github.com/milk9111/scenesim/ecs"
	"github.com/milk9111/scenesim/telemetry"
)

// TraceSystem samples every live body into a telemetry recorder. It must run
// after InstanceSystem so it sees integrated positions.
type TraceSystem struct {
	rec *telemetry.Recorder
}

func NewTraceSystem(rec *telemetry.Recorder) *TraceSystem {
	return &TraceSystem{rec: rec}
}

func (s *TraceSystem) Update(w *ecs.World, dt float64) error {
	if w == nil || !s.rec.Wants(w.Frame()) {
		return nil
	}

	bodies := w.Bodies()
	return w.ForEach(func(e ecs.Entity, inst *ecs.Instance) error {
		body, err := bodies.Body(inst.Body)
		if err != nil {
			return err
		}
		s.rec.Add(telemetry.Sample{
			Frame:  w.Frame(),
			Entity: e.String(),
			Model:  inst.Model,
			X:      body.Position[0],
			Y:      body.Position[1],
			Z:      body.Position[2],
			QW:     body.Rotation.W,
			QX:     body.Rotation.V[0],
			QY:     body.Rotation.V[1],
			QZ:     body.Rotation.V[2],
			VX:     body.Velocity[0],
			VY:     body.Velocity[1],
			VZ:     body.Velocity[2],
		})
		return nil
	})
}
