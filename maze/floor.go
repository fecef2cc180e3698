package maze

import (
	"math/rand/v2"

	"github.com/paulmach/orb"
)

// Floor is the checkered floor pattern. Each tile is either bright or dark;
// the infrared sensor measures how much of its view lands on bright tiles.
type Floor struct {
	TileSize   float64
	Cols, Rows int

	bright []bool // row-major
	bounds []orb.Bound
}

// NewFloor covers width x height inches with tiles of side tile, each bright
// with probability one half.
func NewFloor(width, height, tile float64, rng *rand.Rand) *Floor {
	cols := int(width / tile)
	rows := int(height / tile)
	pattern := make([]bool, cols*rows)
	for i := range pattern {
		pattern[i] = rng.IntN(2) == 1
	}
	return NewFloorFromPattern(cols, rows, tile, pattern)
}

// NewFloorFromPattern builds a floor from an explicit row-major pattern.
func NewFloorFromPattern(cols, rows int, tile float64, pattern []bool) *Floor {
	f := &Floor{
		TileSize: tile,
		Cols:     cols,
		Rows:     rows,
		bright:   make([]bool, cols*rows),
	}
	copy(f.bright, pattern)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if !f.bright[row*cols+col] {
				continue
			}
			f.bounds = append(f.bounds, orb.Bound{
				Min: orb.Point{float64(col) * tile, float64(row) * tile},
				Max: orb.Point{float64(col+1) * tile, float64(row+1) * tile},
			})
		}
	}
	return f
}

// IsBright reports whether the tile at (col, row) is bright.
func (f *Floor) IsBright(col, row int) bool {
	if col < 0 || row < 0 || col >= f.Cols || row >= f.Rows {
		return false
	}
	return f.bright[row*f.Cols+col]
}

// BrightTiles returns the bounds of every bright tile. The slice is shared.
func (f *Floor) BrightTiles() []orb.Bound {
	return f.bounds
}

// BrightPolygon returns the bright region as a multipolygon, one square per
// tile.
func (f *Floor) BrightPolygon() orb.MultiPolygon {
	mp := make(orb.MultiPolygon, 0, len(f.bounds))
	for _, b := range f.bounds {
		mp = append(mp, b.ToPolygon())
	}
	return mp
}
