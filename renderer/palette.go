// Package renderer draws a simulation frame with raylib.
package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// Palette holds the scene colors.
type Palette struct {
	Background rl.Color
	FloorDark  rl.Color
	FloorLight rl.Color
	Wall       rl.Color
	Robot      rl.Color
	Collided   rl.Color
	Block      rl.Color
	Device     rl.Color
	Ray        rl.Color
	View       rl.Color
	Trail      rl.Color
}

// DefaultPalette returns the standard colors.
func DefaultPalette() Palette {
	return Palette{
		Background: rl.Color{R: 43, G: 122, B: 120, A: 255},
		FloorDark:  rl.Black,
		FloorLight: rl.White,
		Wall:       rl.Color{R: 255, G: 0, B: 0, A: 255},
		Robot:      rl.Color{R: 0, G: 0, B: 255, A: 255},
		Collided:   rl.Color{R: 255, G: 140, B: 0, A: 255},
		Block:      rl.Color{R: 127, G: 127, B: 0, A: 255},
		Device:     rl.Color{R: 127, G: 127, B: 127, A: 255},
		Ray:        rl.Color{R: 0, G: 255, B: 0, A: 200},
		View:       rl.Color{R: 255, G: 0, B: 255, A: 255},
		Trail:      rl.Color{R: 0, G: 160, B: 255, A: 120},
	}
}

// Line widths in inches, scaled with the camera.
const (
	WallThickness   = 0.25
	BodyThickness   = 0.25
	DeviceThickness = 0.1
	RayThickness    = 0.05
)

// trailFrames is how much of the trail is drawn.
const trailFrames = 600
