package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/camera"
	"github.com/pthm-cable/simmer/components"
	"github.com/pthm-cable/simmer/game"
)

// Controller turns raylib keyboard and mouse state into simulation input.
type Controller struct {
	cam       *camera.Camera
	blockMode bool
}

// NewController creates a controller for the given view.
func NewController(cam *camera.Camera) *Controller {
	return &Controller{cam: cam}
}

// Read samples the input for one frame. placing is the pose of the body a
// right click would move; its rotation is kept.
func (c *Controller) Read(act Actions, placing components.Pose) game.Input {
	if rl.IsKeyPressed(rl.KeyB) || act.ToggleBlockMode {
		c.blockMode = !c.blockMode
	}

	in := game.Input{
		Forward:     rl.IsKeyDown(rl.KeyW),
		Backward:    rl.IsKeyDown(rl.KeyS),
		StrafeLeft:  rl.IsKeyDown(rl.KeyQ),
		StrafeRight: rl.IsKeyDown(rl.KeyE),
		TurnLeft:    rl.IsKeyDown(rl.KeyA),
		TurnRight:   rl.IsKeyDown(rl.KeyD),
		BlockMode:   c.blockMode,
		Reset:       rl.IsKeyPressed(rl.KeyR) || act.Reset,
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		m := rl.GetMousePosition()
		wx, wy := c.cam.ScreenToWorld(m.X, m.Y)
		in.Teleport = &components.Pose{
			Position: r2.Vec{X: float64(wx), Y: float64(wy)},
			Rotation: placing.Rotation,
		}
	}

	c.handleCamera()
	return in
}

// BlockMode reports whether manual input moves the block.
func (c *Controller) BlockMode() bool { return c.blockMode }

func (c *Controller) handleCamera() {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		m := rl.GetMousePosition()
		factor := float32(1.1)
		if wheel < 0 {
			factor = 1 / factor
		}
		c.cam.ZoomAt(factor, m.X, m.Y)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		c.cam.Pan(d.X, d.Y)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		c.cam.Reset()
	}
}
