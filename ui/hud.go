package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/simmer/game"
)

// PanelWidth is the width of the status panel beside the maze.
const PanelWidth = 240

// HUDData holds what the status panel shows.
type HUDData struct {
	Render    *game.RenderState
	FPS       int32
	Seed      uint64
	Listening string // comm addresses, empty when the server is off
}

// Actions are the HUD buttons pressed this frame.
type Actions struct {
	Reset           bool
	ToggleBlockMode bool
}

// HUD renders the heads-up display.
type HUD struct {
	renderer  *Renderer
	indicator uint8
	x, y      int32
}

// NewHUD creates a HUD whose status panel starts at (x, y).
func NewHUD(x, y int32) *HUD {
	return &HUD{renderer: NewRenderer(), indicator: 255, x: x, y: y}
}

// DrawFrameIndicator draws a square in the border whose shade steps once per
// frame, so a stalled loop is visible at a glance.
func (h *HUD) DrawFrameIndicator(border int32) {
	h.indicator--
	c := rl.Color{R: h.indicator, G: h.indicator, B: h.indicator, A: 255}
	rl.DrawRectangle(border/4, border/4, border/2, border/2, c)
}

// Draw renders the status panel and returns the buttons pressed.
func (h *HUD) Draw(data HUDData) Actions {
	r := h.renderer
	t := r.Theme
	rs := data.Render
	x := h.x + t.Padding
	y := h.y + t.Padding

	r.DrawPanel(h.x, h.y, PanelWidth, int32(rl.GetScreenHeight())-h.y)

	y = r.DrawSectionHeader(x, y, "SimMeR")
	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%d", rs.Tick), t.ValueColor)
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS), t.ValueColor)
	y = r.DrawLabelValue(x, y, "Seed", fmt.Sprintf("%d", data.Seed), t.ValueColor)
	if data.Listening != "" {
		y = r.DrawLabelValue(x, y, "Comm", data.Listening, t.ValueColor)
	}
	y += t.Padding

	y = r.DrawSectionHeader(x, y, "Robot")
	pose := rs.Robot.Pose
	y = r.DrawLabelValue(x, y, "X", fmt.Sprintf("%.2f in", pose.Position.X), t.ValueColor)
	y = r.DrawLabelValue(x, y, "Y", fmt.Sprintf("%.2f in", pose.Position.Y), t.ValueColor)
	y = r.DrawLabelValue(x, y, "Heading", fmt.Sprintf("%.1f deg", pose.Heading()), t.ValueColor)

	drive, driveColor := "idle", t.ValueColor
	if rs.Busy {
		drive, driveColor = "moving", t.SectionHeader
	}
	y = r.DrawLabelValue(x, y, "Drive", drive, driveColor)
	if rs.Robot.Collided {
		y = r.DrawLabelValue(x, y, "Contact", "collision", t.WarnColor)
	}
	y += t.Padding

	mode := "robot"
	if rs.Input.BlockMode {
		mode = "block"
	}
	y = r.DrawSectionHeader(x, y, "Manual ("+mode+")")
	y = h.drawKeys(x, y, rs.Input)
	y += t.Padding

	var act Actions
	bw := float32(PanelWidth-3*t.Padding) / 2
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: bw, Height: 28}, "Reset") {
		act.Reset = true
	}
	if gui.Toggle(rl.Rectangle{X: float32(x) + bw + float32(t.Padding), Y: float32(y), Width: bw, Height: 28}, "Block mode", rs.Input.BlockMode) != rs.Input.BlockMode {
		act.ToggleBlockMode = true
	}
	return act
}

// drawKeys draws the Q W E / A S D cluster.
func (h *HUD) drawKeys(x, y int32, in game.Input) int32 {
	r := h.renderer
	step := r.Theme.KeySize + 4
	r.DrawKey(x, y, "Q", in.StrafeLeft)
	r.DrawKey(x+step, y, "W", in.Forward)
	r.DrawKey(x+2*step, y, "E", in.StrafeRight)
	r.DrawKey(x, y+step, "A", in.TurnLeft)
	r.DrawKey(x+step, y+step, "S", in.Backward)
	r.DrawKey(x+2*step, y+step, "D", in.TurnRight)
	return y + 2*step
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText("WASD/QE: drive | B: block mode | R: reset | Right click: place | Wheel: zoom | Home: view",
		10, screenHeight-20, 12, rl.LightGray)
}
