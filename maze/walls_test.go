package maze

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/simmer/geom"
)

// TestCorridor builds a 4x4 grid of wall cells with one open cell and checks
// the reduced set is the outer boundary plus the four corridor walls.
func TestCorridor(t *testing.T) {
	grid := MustGrid([][]int{
		{0, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	got := BuildWalls(grid, 0, 12).Segments()

	want := []geom.Segment{
		geom.Seg(0, 0, 48, 0),
		geom.Seg(0, 48, 48, 48),
		geom.Seg(12, 12, 24, 12),
		geom.Seg(12, 24, 24, 24),
		geom.Seg(0, 0, 0, 48),
		geom.Seg(12, 12, 12, 24),
		geom.Seg(24, 12, 24, 24),
		geom.Seg(48, 0, 48, 48),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("corridor walls mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildWallsEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		grid [][]int
		want []geom.Segment
	}{
		{
			name: "open grid is just the boundary",
			grid: [][]int{{1, 1}, {1, 1}},
			want: []geom.Segment{
				geom.Seg(0, 0, 24, 0),
				geom.Seg(0, 24, 24, 24),
				geom.Seg(0, 0, 0, 24),
				geom.Seg(24, 0, 24, 24),
			},
		},
		{
			name: "single wall cell keeps the boundary",
			grid: [][]int{{0}},
			want: []geom.Segment{
				geom.Seg(0, 0, 12, 0),
				geom.Seg(0, 12, 12, 12),
				geom.Seg(0, 0, 0, 12),
				geom.Seg(12, 0, 12, 12),
			},
		},
		{
			name: "free standing pillar",
			grid: [][]int{{1, 1, 1}, {1, 0, 1}, {1, 1, 1}},
			want: []geom.Segment{
				geom.Seg(0, 0, 36, 0),
				geom.Seg(0, 36, 36, 36),
				geom.Seg(12, 12, 24, 12),
				geom.Seg(12, 24, 24, 24),
				geom.Seg(0, 0, 0, 36),
				geom.Seg(12, 12, 12, 24),
				geom.Seg(24, 12, 24, 24),
				geom.Seg(36, 0, 36, 36),
			},
		},
		{
			name: "two cell bar merges its long sides",
			grid: [][]int{{1, 1, 1, 1}, {1, 0, 0, 1}, {1, 1, 1, 1}},
			want: []geom.Segment{
				geom.Seg(0, 0, 48, 0),
				geom.Seg(0, 36, 48, 36),
				geom.Seg(12, 12, 36, 12),
				geom.Seg(12, 24, 36, 24),
				geom.Seg(0, 0, 0, 36),
				geom.Seg(12, 12, 12, 24),
				geom.Seg(36, 12, 36, 24),
				geom.Seg(48, 0, 48, 36),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildWalls(MustGrid(tc.grid), 0, 12).Segments()
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("walls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// overlap returns the length two collinear axis-aligned segments share.
// Non-collinear pairs return 0.
func overlap(a, b geom.Segment) float64 {
	a, b = a.Normalized(), b.Normalized()
	switch {
	case a.Vertical() && b.Vertical() && a.A.X == b.A.X:
		return math.Max(0, math.Min(a.B.Y, b.B.Y)-math.Max(a.A.Y, b.A.Y))
	case !a.Vertical() && !b.Vertical() && a.A.Y == a.B.Y && b.A.Y == b.B.Y && a.A.Y == b.A.Y:
		return math.Max(0, math.Min(a.B.X, b.B.X)-math.Max(a.A.X, b.A.X))
	}
	return 0
}

func randomGrid(rng *rand.Rand, rows, cols int) Grid {
	cells := make([][]int, rows)
	for r := range cells {
		cells[r] = make([]int, cols)
		for c := range cells[r] {
			cells[r][c] = rng.IntN(2)
		}
	}
	return MustGrid(cells)
}

// TestSharedEdgesRemoved checks no reduced wall lies along an edge between two
// adjacent wall cells.
func TestSharedEdgesRemoved(t *testing.T) {
	const length = 12.0
	rng := rand.New(rand.NewPCG(7, 11))

	for trial := 0; trial < 50; trial++ {
		grid := randomGrid(rng, 5, 7)
		walls := BuildWalls(grid, 0, length).Segments()

		var shared []geom.Segment
		for r := 0; r < grid.Rows(); r++ {
			for c := 0; c < grid.Cols(); c++ {
				if grid.At(r, c) != 0 {
					continue
				}
				x0, y0 := float64(c)*length, float64(r)*length
				if c+1 < grid.Cols() && grid.At(r, c+1) == 0 {
					shared = append(shared, geom.Seg(x0+length, y0, x0+length, y0+length))
				}
				if r+1 < grid.Rows() && grid.At(r+1, c) == 0 {
					shared = append(shared, geom.Seg(x0, y0+length, x0+length, y0+length))
				}
			}
		}

		for _, edge := range shared {
			for _, w := range walls {
				require.Zerof(t, overlap(edge, w), "trial %d: shared edge %v overlaps wall %v", trial, edge, w)
			}
		}
	}
}

func TestMergeSegments(t *testing.T) {
	tests := []struct {
		name string
		in   []geom.Segment
		want []geom.Segment
	}{
		{
			name: "touching horizontal run",
			in:   []geom.Segment{geom.Seg(1, 0, 3, 0), geom.Seg(0, 0, 1, 0), geom.Seg(5, 0, 2, 0)},
			want: []geom.Segment{geom.Seg(0, 0, 5, 0)},
		},
		{
			name: "gap keeps runs apart",
			in:   []geom.Segment{geom.Seg(0, 0, 1, 0), geom.Seg(2, 0, 3, 0)},
			want: []geom.Segment{geom.Seg(0, 0, 1, 0), geom.Seg(2, 0, 3, 0)},
		},
		{
			name: "contained segment",
			in:   []geom.Segment{geom.Seg(0, 0, 10, 0), geom.Seg(2, 0, 3, 0)},
			want: []geom.Segment{geom.Seg(0, 0, 10, 0)},
		},
		{
			name: "vertical run",
			in:   []geom.Segment{geom.Seg(4, 12, 4, 0), geom.Seg(4, 24, 4, 12), geom.Seg(5, 0, 5, 1)},
			want: []geom.Segment{geom.Seg(4, 0, 4, 24), geom.Seg(5, 0, 5, 1)},
		},
		{
			name: "sloped run",
			in:   []geom.Segment{geom.Seg(0, 0, 1, 1), geom.Seg(1, 1, 2, 2), geom.Seg(0, 1, 1, 2)},
			want: []geom.Segment{geom.Seg(0, 0, 2, 2), geom.Seg(0, 1, 1, 2)},
		},
		{
			name: "parallel lines stay separate",
			in:   []geom.Segment{geom.Seg(0, 0, 2, 0), geom.Seg(0, 1, 2, 1)},
			want: []geom.Segment{geom.Seg(0, 0, 2, 0), geom.Seg(0, 1, 2, 1)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MergeSegments(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("merge mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(got, MergeSegments(got)); diff != "" {
				t.Errorf("merge not idempotent (-first +second):\n%s", diff)
			}
		})
	}
}

func TestBuildWallsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for trial := 0; trial < 20; trial++ {
		grid := randomGrid(rng, 4, 8)
		a := BuildWalls(grid, 0, 12)
		b := BuildWalls(grid, 0, 12)
		require.Equal(t, a.Segments(), b.Segments())
		require.Equal(t, a.Fingerprint(), b.Fingerprint())

		merged := MergeSegments(a.Segments())
		if diff := cmp.Diff(a.Segments(), merged); diff != "" {
			t.Fatalf("trial %d: reduced set not idempotent:\n%s", trial, diff)
		}
	}

	// mirror images: interior edge at x=12 against x=24
	a := BuildWalls(MustGrid([][]int{{0, 1, 1}}), 0, 12)
	b := BuildWalls(MustGrid([][]int{{1, 1, 0}}), 0, 12)
	assert.NotEqual(t, a.Segments(), b.Segments())
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	// a lone wall cell on either side of a two-cell row leaves the same edge
	c := BuildWalls(MustGrid([][]int{{0, 1}}), 0, 12)
	d := BuildWalls(MustGrid([][]int{{1, 0}}), 0, 12)
	assert.Equal(t, c.Segments(), d.Segments())
	assert.Equal(t, c.Fingerprint(), d.Fingerprint())
}

func TestWallSetIsImmutable(t *testing.T) {
	ws := BuildWalls(MustGrid([][]int{{1}}), 0, 12)
	segs := ws.Segments()
	segs[0] = geom.Seg(99, 99, 99, 99)
	assert.NotEqual(t, segs[0], ws.Segments()[0])
}
