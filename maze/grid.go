// Package maze loads the occupancy grid and derives the wall geometry and
// floor pattern the simulation queries every frame.
package maze

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedGrid is returned for grids that cannot describe a maze.
var ErrMalformedGrid = errors.New("malformed occupancy grid")

// Grid is a rectangular occupancy grid, row-major. Row 0 is the row nearest
// y = 0.
type Grid struct {
	cells [][]int
	cols  int
}

// NewGrid validates rows and wraps them in a Grid. Rows are copied.
func NewGrid(rows [][]int) (Grid, error) {
	if len(rows) == 0 {
		return Grid{}, fmt.Errorf("%w: no rows", ErrMalformedGrid)
	}
	cols := len(rows[0])
	if cols == 0 {
		return Grid{}, fmt.Errorf("%w: row 0 is empty", ErrMalformedGrid)
	}
	cells := make([][]int, len(rows))
	for r, row := range rows {
		if len(row) != cols {
			return Grid{}, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrMalformedGrid, r, len(row), cols)
		}
		cells[r] = append([]int(nil), row...)
	}
	return Grid{cells: cells, cols: cols}, nil
}

// MustGrid is NewGrid for literals in tests and defaults. Panics on error.
func MustGrid(rows [][]int) Grid {
	g, err := NewGrid(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return len(g.cells) }

// Cols returns the number of columns.
func (g Grid) Cols() int { return g.cols }

// At returns the raw cell value.
func (g Grid) At(row, col int) int { return g.cells[row][col] }

// ParseGrid reads a comma-separated grid of integers. Blank lines are skipped
// and surrounding whitespace in a cell is ignored.
func ParseGrid(r io.Reader) (Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return Grid{}, fmt.Errorf("%w: %v", ErrMalformedGrid, err)
	}

	rows := make([][]int, 0, len(records))
	for r, rec := range records {
		row := make([]int, len(rec))
		for c, field := range rec {
			v, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return Grid{}, fmt.Errorf("%w: row %d column %d: %q is not an integer", ErrMalformedGrid, r, c, field)
			}
			row[c] = v
		}
		rows = append(rows, row)
	}
	return NewGrid(rows)
}

// LoadGrid reads a grid file from disk.
func LoadGrid(path string) (Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return Grid{}, fmt.Errorf("opening maze file: %w", err)
	}
	defer f.Close()

	g, err := ParseGrid(f)
	if err != nil {
		return Grid{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
