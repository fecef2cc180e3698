package devices

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/components"
	"github.com/pthm-cable/simmer/geom"
	"github.com/pthm-cable/simmer/systems"
)

// UltrasonicSpec defines a ranging sensor.
type UltrasonicSpec struct {
	ID        string
	Position  r2.Vec
	Height    float64
	Rotation  float64
	Beamwidth float64 // degrees
	Rays      int
	MaxRange  float64
	Error     float64 // fractional error, 0-1
	Visible   bool

	// TraceFrames is how long the rays stay on screen after a reading.
	TraceFrames int
}

// Ultrasonic casts a fan of rays and reports the median range.
type Ultrasonic struct {
	Mount
	id        string
	beamwidth float64
	rays      int
	maxRange  float64
	errPct    float64

	last  []geom.Segment
	timer traceTimer
}

// NewUltrasonic builds a ranging sensor.
func NewUltrasonic(spec UltrasonicSpec) *Ultrasonic {
	return &Ultrasonic{
		Mount: Mount{
			Local:   components.Pose{Position: spec.Position, Rotation: spec.Rotation},
			Height:  spec.Height,
			Outline: components.RectOutline(2, 1),
			Visible: spec.Visible,
		},
		id:        spec.ID,
		beamwidth: spec.Beamwidth,
		rays:      spec.Rays,
		maxRange:  spec.MaxRange,
		errPct:    spec.Error,
		timer:     traceTimer{frames: spec.TraceFrames},
	}
}

func (u *Ultrasonic) ID() string { return u.id }

func (u *Ultrasonic) Mounting() Mount { return u.Mount }

// Range casts the fan from the current robot pose and returns the median
// distance before error. The block is included only when it is within the
// vertical extent of the beam.
func (u *Ultrasonic) Range(env *Environment) float64 {
	pose := u.World(env.Robot.Pose())
	fan := systems.RayFan(pose.Position, pose.Rotation, u.beamwidth, u.rays, u.maxRange)

	obstacles := [][]geom.Segment{env.Walls}
	if env.Block != nil && systems.BlockVisible(pose.Position, u.Height, env.Block.Position(), env.Block.Height, u.beamwidth) {
		obstacles = append(obstacles, env.Block.Segments())
	}
	hits := systems.CastRays(fan, obstacles...)

	u.last = u.last[:0]
	for _, h := range hits {
		u.last = append(u.last, geom.Segment{A: pose.Position, B: h.Point})
	}
	return systems.Median(systems.Distances(hits))
}

// Simulate returns the measured range in inches.
func (u *Ultrasonic) Simulate(_ float64, env *Environment) Response {
	r := u.Range(env)
	u.timer.show()
	return Response{ID: u.id, Value: env.Noise.Apply(r, u.errPct)}
}

// Update ages the on-screen trace.
func (u *Ultrasonic) Update(_ *Environment) { u.timer.tick() }

// Trace returns the rays of the last reading while it is still displayed.
func (u *Ultrasonic) Trace() (Trace, bool) {
	return Trace{Rays: append([]geom.Segment(nil), u.last...)}, u.timer.visible()
}
