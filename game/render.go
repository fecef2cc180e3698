package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/components"
	"github.com/pthm-cable/simmer/devices"
	"github.com/pthm-cable/simmer/geom"
	"github.com/pthm-cable/simmer/maze"
)

// BodyView is a body as drawn.
type BodyView struct {
	Outline  []r2.Vec
	Pose     components.Pose
	Collided bool
}

// DeviceView is a visible device outline in maze coordinates.
type DeviceView struct {
	ID      string
	Outline []r2.Vec
}

// SensorTrace is the displayed geometry of one sensor reading.
type SensorTrace struct {
	ID string
	devices.Trace
}

// RenderState is a read-only snapshot of one frame for the viewer. Walls,
// Floor and Trail are shared with the simulation and must not be modified.
type RenderState struct {
	Tick          int32
	Width, Height float64 // maze extent, inches

	Walls []geom.Segment
	Floor *maze.Floor
	Trail []components.TrailPoint

	Robot   BodyView
	Block   *BodyView
	Devices []DeviceView
	Traces  []SensorTrace

	Input Input
	Busy  bool
}

func bodyView(b *components.Body) BodyView {
	return BodyView{
		Outline:  append([]r2.Vec(nil), b.Outline()...),
		Pose:     b.Pose(),
		Collided: b.Collided,
	}
}

func (s *Simulation) renderState(input Input) RenderState {
	rs := RenderState{
		Tick:   s.tick,
		Width:  s.maze.Width,
		Height: s.maze.Height,
		Walls:  s.walls,
		Floor:  s.maze.Floor,
		Trail:  s.trail,
		Robot:  bodyView(s.robot),
		Input:  input,
		Busy:   s.train.Busy(),
	}
	if s.block != nil {
		bv := bodyView(s.block)
		rs.Block = &bv
	}

	pose := s.robot.Pose()
	for _, d := range s.registry.All() {
		if m, ok := d.(devices.Mounted); ok && m.Mounting().Visible {
			rs.Devices = append(rs.Devices, DeviceView{ID: d.ID(), Outline: m.Mounting().WorldOutline(pose)})
		}
		if t, ok := d.(devices.Tracer); ok {
			if tr, shown := t.Trace(); shown || s.preview[d.ID()] {
				rs.Traces = append(rs.Traces, SensorTrace{ID: d.ID(), Trace: tr})
			}
		}
	}
	return rs
}
