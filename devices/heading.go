package devices

import (
	"github.com/pthm-cable/simmer/components"
)

// HeadingSpec defines a gyroscope or compass.
type HeadingSpec struct {
	ID    string
	Error float64
	Bias  float64 // gyroscope: drift in degrees/second; compass: fixed offset in degrees
}

// Gyroscope integrates the robot's rotation every frame, drifting with its
// bias.
type Gyroscope struct {
	id    string
	error float64
	bias  float64

	previous float64
	value    float64
	started  bool
}

// NewGyroscope builds a gyroscope.
func NewGyroscope(spec HeadingSpec) *Gyroscope {
	return &Gyroscope{id: spec.ID, error: spec.Error, bias: spec.Bias}
}

func (g *Gyroscope) ID() string { return g.id }

// Simulate returns the integrated heading in [0, 360).
func (g *Gyroscope) Simulate(_ float64, _ *Environment) Response {
	return Response{ID: g.id, Value: g.value}
}

// Update adds the rotation since the last frame, plus drift and error.
func (g *Gyroscope) Update(env *Environment) {
	current := env.Robot.Pose().Rotation
	if !g.started {
		g.previous, g.started = current, true
	}
	change := current - g.previous + g.bias/env.FrameRate
	g.value = components.WrapDegrees(g.value + env.Noise.Apply(change, g.error))
	g.previous = current
}

// Reset zeroes the reading. The next update takes the robot's rotation as
// the new reference unless Reference is called first.
func (g *Gyroscope) Reset() {
	g.value = 0
	g.started = false
}

// Reference sets the rotation the next update measures change from.
func (g *Gyroscope) Reference(rotation float64) {
	g.previous = rotation
	g.started = true
}

// Compass reports the robot's absolute heading with a fixed bias.
type Compass struct {
	id    string
	error float64
	bias  float64
}

// NewCompass builds a compass.
func NewCompass(spec HeadingSpec) *Compass {
	return &Compass{id: spec.ID, error: spec.Error, bias: spec.Bias}
}

func (c *Compass) ID() string { return c.id }

// Simulate returns the heading in [0, 360). The error scales with a full
// turn, not with the heading itself.
func (c *Compass) Simulate(_ float64, env *Environment) Response {
	heading := env.Robot.Pose().Rotation + c.bias
	noisy := heading + env.Noise.Apply(360, c.error) - 360
	return Response{ID: c.id, Value: components.WrapDegrees(noisy)}
}
