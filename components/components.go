// Package components defines the rigid-body data the simulation moves around:
// poses, outlines, and the trail a body leaves behind.
package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/geom"
)

// Pose places a body in the maze.
type Pose struct {
	Position r2.Vec  // inches
	Rotation float64 // degrees, counter-clockwise, unwrapped
}

// ToWorld maps a body-frame point into maze coordinates.
func (p Pose) ToWorld(local r2.Vec) r2.Vec {
	return r2.Add(p.Position, geom.Rotate(local, p.Rotation))
}

// Advance returns the pose after a body-frame displacement and a rotation.
// The displacement is taken in the frame of the current heading.
func (p Pose) Advance(delta r2.Vec, rotation float64) Pose {
	return Pose{
		Position: r2.Add(p.Position, geom.Rotate(delta, p.Rotation)),
		Rotation: p.Rotation + rotation,
	}
}

// Heading returns the rotation wrapped into [0, 360).
func (p Pose) Heading() float64 {
	return WrapDegrees(p.Rotation)
}

// WrapDegrees wraps an angle into [0, 360).
func WrapDegrees(deg float64) float64 {
	w := math.Mod(deg, 360)
	if w < 0 {
		w += 360
	}
	return w
}

// TrailPoint is one frame of a body's history.
type TrailPoint struct {
	Tick      int32   `csv:"tick"`
	X         float64 `csv:"x"`
	Y         float64 `csv:"y"`
	Rotation  float64 `csv:"rotation"`
	Collision bool    `csv:"collision"`
}
