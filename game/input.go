package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/components"
)

// Input is the observer's control state for one frame. Movement keys drive
// the robot, or the block in block mode, directly and take priority over
// buffered drive commands.
type Input struct {
	Forward     bool // W: body +Y
	Backward    bool // S: body -Y
	StrafeLeft  bool // Q: body +X
	StrafeRight bool // E: body -X
	TurnLeft    bool // A: negative rotation
	TurnRight   bool // D: positive rotation

	BlockMode bool
	Reset     bool

	// Teleport places the controlled body at a pose, subject to the maze
	// bounds and wall cells.
	Teleport *components.Pose
}

// Moving reports whether any movement key is held.
func (in Input) Moving() bool {
	return in.Forward || in.Backward || in.StrafeLeft || in.StrafeRight || in.TurnLeft || in.TurnRight
}

// Motion returns the body-frame displacement and rotation for one frame,
// given the per-frame step and turn.
func (in Input) Motion(step, turn float64) (r2.Vec, float64) {
	var delta r2.Vec
	var rotation float64
	if in.Forward {
		delta.Y += step
	}
	if in.Backward {
		delta.Y -= step
	}
	if in.StrafeLeft {
		delta.X += step
	}
	if in.StrafeRight {
		delta.X -= step
	}
	if in.TurnRight {
		rotation += turn
	}
	if in.TurnLeft {
		rotation -= turn
	}
	return delta, rotation
}
