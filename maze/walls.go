package maze

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/pthm-cable/simmer/geom"
)

// WallSet is the reduced wall set: interior edges shared by two wall cells are
// removed and collinear runs are merged. It is immutable once built.
type WallSet struct {
	segs []geom.Segment
}

// Segments returns a copy of the wall segments.
func (w WallSet) Segments() []geom.Segment {
	return slices.Clone(w.segs)
}

// Len returns the number of segments.
func (w WallSet) Len() int { return len(w.segs) }

// Fingerprint hashes the segment list. Equal grids produce equal fingerprints.
func (w WallSet) Fingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 32)
	for _, s := range w.segs {
		buf = buf[:0]
		for _, f := range [4]float64{s.A.X, s.A.Y, s.B.X, s.B.Y} {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
		}
		d.Write(buf)
	}
	return d.Sum64()
}

// unitSquare returns the four edges of the cell at (col, row), scaled.
func unitSquare(col, row int, length float64) [4]geom.Segment {
	x0, y0 := float64(col)*length, float64(row)*length
	x1, y1 := float64(col+1)*length, float64(row+1)*length
	return [4]geom.Segment{
		geom.Seg(x0, y0, x1, y0),
		geom.Seg(x1, y0, x1, y1),
		geom.Seg(x1, y1, x0, y1),
		geom.Seg(x0, y1, x0, y0),
	}
}

// BuildWalls reduces the wall cells of grid into a WallSet. A cell is a wall
// when its value equals wallValue; length is the side of one cell in inches.
func BuildWalls(grid Grid, wallValue int, length float64) WallSet {
	width := float64(grid.Cols()) * length
	height := float64(grid.Rows()) * length

	var cells []geom.Segment
	for col := 0; col < grid.Cols(); col++ {
		for row := 0; row < grid.Rows(); row++ {
			if grid.At(row, col) != wallValue {
				continue
			}
			sq := unitSquare(col, row, length)
			cells = append(cells, sq[:]...)
		}
	}

	survivors := removeShared(cells)

	// The boundary is added after the shared-edge pass so a wall cell on the
	// maze edge cannot cancel it out.
	survivors = append(survivors,
		geom.Seg(0, 0, width, 0),
		geom.Seg(width, 0, width, height),
		geom.Seg(width, height, 0, height),
		geom.Seg(0, height, 0, 0),
	)

	return WallSet{segs: MergeSegments(survivors)}
}

// removeShared normalizes and sorts segs, then drops every segment that
// occurs exactly twice. Those are edges between two adjacent wall cells.
func removeShared(segs []geom.Segment) []geom.Segment {
	norm := make([]geom.Segment, len(segs))
	for i, s := range segs {
		norm[i] = s.Normalized()
	}
	slices.SortFunc(norm, geom.Compare)

	out := make([]geom.Segment, 0, len(norm))
	for i := 0; i < len(norm); {
		j := i + 1
		for j < len(norm) && norm[j] == norm[i] {
			j++
		}
		if j-i != 2 {
			out = append(out, norm[i])
		}
		i = j
	}
	return out
}

// MergeSegments merges collinear touching or overlapping segments into
// maximal runs. Non-vertical runs come first, then vertical runs. Merging an
// already merged set returns the same set.
func MergeSegments(segs []geom.Segment) []geom.Segment {
	var vertical, other []geom.Segment
	for _, s := range segs {
		s = s.Normalized()
		if s.Vertical() {
			vertical = append(vertical, s)
		} else {
			other = append(other, s)
		}
	}
	slices.SortFunc(other, geom.Compare)
	slices.SortFunc(vertical, geom.Compare)

	return append(mergeNonVertical(other), mergeVertical(vertical)...)
}

// mergeNonVertical expects normalized segments sorted by (x1, y1, x2, y2).
// Segments on the same line (identical slope and intercept) whose left end
// does not pass the right end of the current run are absorbed into it.
func mergeNonVertical(segs []geom.Segment) []geom.Segment {
	used := make([]bool, len(segs))
	out := make([]geom.Segment, 0, len(segs))

	for i, seg := range segs {
		if used[i] {
			continue
		}
		run := seg
		slope, intercept := run.Slope(), run.Intercept()

		for j := i + 1; j < len(segs); j++ {
			cand := segs[j]
			if cand.A.X > run.B.X {
				break
			}
			if used[j] || cand.Slope() != slope || cand.Intercept() != intercept {
				continue
			}
			if geom.Less(run.B, cand.B) {
				run.B = cand.B
			}
			used[j] = true
		}
		out = append(out, run)
	}
	return out
}

// mergeVertical expects normalized vertical segments sorted by (x, bottom y).
func mergeVertical(segs []geom.Segment) []geom.Segment {
	used := make([]bool, len(segs))
	out := make([]geom.Segment, 0, len(segs))

	for i, seg := range segs {
		if used[i] {
			continue
		}
		run := seg

		for j := i + 1; j < len(segs); j++ {
			cand := segs[j]
			if cand.A.X != run.A.X || cand.A.Y > run.B.Y {
				break
			}
			if cand.B.Y > run.B.Y {
				run.B = cand.B
			}
			used[j] = true
		}
		out = append(out, run)
	}
	return out
}
