package devices

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/components"
	"github.com/pthm-cable/simmer/systems"
)

// InfraredSpec defines a downward-facing floor pattern sensor.
type InfraredSpec struct {
	ID          string
	Position    r2.Vec
	Height      float64
	FOV         float64 // degrees
	Threshold   float64 // bright fraction needed to report on-pattern
	Error       float64
	Visible     bool
	TraceFrames int
}

// Infrared reports 1 when enough of its view lies on bright floor tiles.
type Infrared struct {
	Mount
	id        string
	radius    float64
	threshold float64
	errPct    float64

	center r2.Vec
	timer  traceTimer
}

// NewInfrared builds a floor sensor.
func NewInfrared(spec InfraredSpec) *Infrared {
	return &Infrared{
		Mount: Mount{
			Local:   components.Pose{Position: spec.Position},
			Height:  spec.Height,
			Outline: components.RectOutline(1, 1),
			Visible: spec.Visible,
		},
		id:        spec.ID,
		radius:    systems.ViewRadius(spec.Height, spec.FOV),
		threshold: spec.Threshold,
		errPct:    spec.Error,
		timer:     traceTimer{frames: spec.TraceFrames},
	}
}

func (s *Infrared) ID() string { return s.id }

func (s *Infrared) Mounting() Mount { return s.Mount }

// ViewRadius returns the radius of the floor patch in view.
func (s *Infrared) ViewRadius() float64 { return s.radius }

// Overlap returns the bright fraction of the view before error.
func (s *Infrared) Overlap(env *Environment) float64 {
	s.center = s.World(env.Robot.Pose()).Position
	return systems.FloorOverlap(s.center, s.radius, env.Maze.Floor)
}

// Simulate answers 1 on pattern, 0 off.
func (s *Infrared) Simulate(_ float64, env *Environment) Response {
	frac := env.Noise.ApplyClamped(s.Overlap(env), s.errPct, 0, 1)
	s.timer.show()
	if frac >= s.threshold {
		return Response{ID: s.id, Value: 1}
	}
	return Response{ID: s.id, Value: 0}
}

// Update ages the on-screen trace.
func (s *Infrared) Update(_ *Environment) { s.timer.tick() }

// Trace returns the view disc of the last reading while it is displayed.
func (s *Infrared) Trace() (Trace, bool) {
	return Trace{Center: s.center, Radius: s.radius}, s.timer.visible()
}
