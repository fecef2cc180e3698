package maze

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// Options controls how a grid is turned into a maze.
type Options struct {
	WallValue   int     // grid value that marks a wall cell
	WallLength  float64 // side of one grid cell, inches
	FloorLength float64 // side of one floor tile, inches
}

// Maze is the static environment: grid, reduced walls, floor pattern.
type Maze struct {
	Grid  Grid
	Walls WallSet
	Floor *Floor

	Width, Height float64 // inches

	opts Options
}

// New builds the maze from a validated grid. rng decides the floor pattern.
func New(grid Grid, opts Options, rng *rand.Rand) (*Maze, error) {
	if grid.Rows() == 0 || grid.Cols() == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrMalformedGrid)
	}
	if opts.WallLength <= 0 {
		return nil, fmt.Errorf("wall segment length must be positive, got %v", opts.WallLength)
	}
	if opts.FloorLength <= 0 {
		return nil, fmt.Errorf("floor segment length must be positive, got %v", opts.FloorLength)
	}

	m := &Maze{
		Grid:   grid,
		Walls:  BuildWalls(grid, opts.WallValue, opts.WallLength),
		Width:  float64(grid.Cols()) * opts.WallLength,
		Height: float64(grid.Rows()) * opts.WallLength,
		opts:   opts,
	}
	m.Floor = NewFloor(m.Width, m.Height, opts.FloorLength, rng)
	return m, nil
}

// Contains reports whether p lies within the maze extent.
func (m *Maze) Contains(p r2.Vec) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= m.Width && p.Y <= m.Height
}

// IsWall reports whether p lies inside a wall cell. Points outside the maze
// are not walls; use Contains for the extent check.
func (m *Maze) IsWall(p r2.Vec) bool {
	if !m.Contains(p) {
		return false
	}
	col := int(math.Floor(p.X / m.opts.WallLength))
	row := int(math.Floor(p.Y / m.opts.WallLength))
	if col == m.Grid.Cols() {
		col--
	}
	if row == m.Grid.Rows() {
		row--
	}
	return m.Grid.At(row, col) == m.opts.WallValue
}
