package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/camera"
	"github.com/pthm-cable/simmer/game"
	"github.com/pthm-cable/simmer/geom"
	"github.com/pthm-cable/simmer/maze"
)

// Scene draws render states through a camera.
type Scene struct {
	cam     *camera.Camera
	Palette Palette
}

// NewScene creates a scene with the default palette.
func NewScene(cam *camera.Camera) *Scene {
	return &Scene{cam: cam, Palette: DefaultPalette()}
}

// Draw renders one frame, back to front. It must be called between
// rl.BeginDrawing and rl.EndDrawing.
func (s *Scene) Draw(rs *game.RenderState) {
	rl.ClearBackground(s.Palette.Background)

	s.drawFloor(rs.Floor, rs.Width, rs.Height)
	s.drawTrail(rs)
	for _, w := range rs.Walls {
		s.line(w, WallThickness, s.Palette.Wall)
	}
	s.drawTraces(rs.Traces)

	if rs.Block != nil {
		s.polygon(rs.Block.Outline, BodyThickness, s.Palette.Block)
	}
	robot := s.Palette.Robot
	if rs.Robot.Collided {
		robot = s.Palette.Collided
	}
	s.polygon(rs.Robot.Outline, BodyThickness, robot)
	for _, d := range rs.Devices {
		s.polygon(d.Outline, DeviceThickness, s.Palette.Device)
	}
}

func (s *Scene) point(p r2.Vec) rl.Vector2 {
	x, y := s.cam.WorldToScreen(float32(p.X), float32(p.Y))
	return rl.NewVector2(x, y)
}

func (s *Scene) line(seg geom.Segment, thickness float32, color rl.Color) {
	rl.DrawLineEx(s.point(seg.A), s.point(seg.B), s.cam.Length(thickness), color)
}

// polygon draws a closed outline.
func (s *Scene) polygon(pts []r2.Vec, thickness float32, color rl.Color) {
	for i := range pts {
		s.line(geom.Segment{A: pts[i], B: pts[(i+1)%len(pts)]}, thickness, color)
	}
}

func (s *Scene) drawFloor(floor *maze.Floor, width, height float64) {
	origin := s.point(r2.Vec{})
	size := rl.NewVector2(s.cam.Length(float32(width)), s.cam.Length(float32(height)))
	rl.DrawRectangleV(origin, size, s.Palette.FloorDark)
	if floor == nil {
		return
	}

	tile := s.cam.Length(float32(floor.TileSize))
	for _, b := range floor.BrightTiles() {
		rl.DrawRectangleV(s.point(r2.Vec{X: b.Min[0], Y: b.Min[1]}), rl.NewVector2(tile, tile), s.Palette.FloorLight)
	}
}

func (s *Scene) drawTrail(rs *game.RenderState) {
	trail := rs.Trail
	if len(trail) > trailFrames {
		trail = trail[len(trail)-trailFrames:]
	}
	for i := 1; i < len(trail); i++ {
		a := r2.Vec{X: trail[i-1].X, Y: trail[i-1].Y}
		b := r2.Vec{X: trail[i].X, Y: trail[i].Y}
		s.line(geom.Segment{A: a, B: b}, RayThickness, s.Palette.Trail)
	}
}

func (s *Scene) drawTraces(traces []game.SensorTrace) {
	for _, tr := range traces {
		for _, ray := range tr.Rays {
			s.line(ray, RayThickness, s.Palette.Ray)
		}
		if tr.Radius > 0 {
			c := s.point(tr.Center)
			rl.DrawCircleLines(int32(c.X), int32(c.Y), s.cam.Length(float32(tr.Radius)), s.Palette.View)
		}
	}
}
