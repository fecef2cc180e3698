package systems

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/geom"
	"github.com/pthm-cable/simmer/maze"
)

// DiscVertices is the number of vertices used to approximate a view disc.
const DiscVertices = 64

// ViewRadius is the radius of the floor patch seen by a downward sensor
// mounted height inches up with a fov-degree field of view.
func ViewRadius(height, fov float64) float64 {
	return height * math.Cos(geom.Radians(fov/2))
}

// Disc returns a closed ring approximating a circle.
func Disc(center r2.Vec, radius float64) orb.Polygon {
	ring := make(orb.Ring, DiscVertices+1)
	for i := 0; i < DiscVertices; i++ {
		a := 2 * math.Pi * float64(i) / DiscVertices
		ring[i] = orb.Point{center.X + radius*math.Cos(a), center.Y + radius*math.Sin(a)}
	}
	ring[DiscVertices] = ring[0]
	return orb.Polygon{ring}
}

// FloorOverlap returns the fraction of the view disc at center that lies over
// bright floor tiles, in [0, 1]. A zero radius returns 0.
func FloorOverlap(center r2.Vec, radius float64, floor *maze.Floor) float64 {
	if radius <= 0 {
		return 0
	}
	disc := Disc(center, radius)
	total := math.Abs(planar.Area(disc))
	if total == 0 {
		return 0
	}
	discBound := disc.Bound()

	var bright float64
	for _, tile := range floor.BrightTiles() {
		if !tile.Intersects(discBound) {
			continue
		}
		clipped := clip.Polygon(tile, disc.Clone())
		if len(clipped) == 0 {
			continue
		}
		bright += math.Abs(planar.Area(clipped))
	}
	return math.Min(bright/total, 1)
}
