// Package ui draws the heads-up display and turns keyboard and mouse state
// into simulation input.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds the HUD styling.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	WarnColor     rl.Color
	KeyIdle       rl.Color
	KeyHeld       rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	FontSize       int32
	HeaderFontSize int32
	KeySize        int32
}

// DefaultTheme returns the default HUD theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		WarnColor:      rl.Color{R: 255, G: 140, B: 0, A: 255},
		KeyIdle:        rl.Color{R: 60, G: 60, B: 60, A: 255},
		KeyHeld:        rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     80,
		FontSize:       14,
		HeaderFontSize: 16,
		KeySize:        28,
	}
}

// Renderer handles HUD drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 4
}

// DrawLabelValue draws a label and value on the same line and returns the
// new Y position.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string, color rl.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, color)
	return y + r.Theme.LineHeight
}

// DrawKey draws one key cap, lit while held.
func (r *Renderer) DrawKey(x, y int32, label string, held bool) {
	bg := r.Theme.KeyIdle
	if held {
		bg = r.Theme.KeyHeld
	}
	size := r.Theme.KeySize
	rl.DrawRectangle(x, y, size, size, bg)
	rl.DrawRectangleLines(x, y, size, size, r.Theme.PanelBorder)
	tw := rl.MeasureText(label, r.Theme.FontSize)
	rl.DrawText(label, x+(size-tw)/2, y+(size-r.Theme.FontSize)/2, r.Theme.FontSize, r.Theme.ValueColor)
}
