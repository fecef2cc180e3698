package systems

import (
	"math"
	"testing"

	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/maze"
)

func TestViewRadius(t *testing.T) {
	got := ViewRadius(1.5, 60)
	want := 1.5 * math.Sqrt(3) / 2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ViewRadius(1.5, 60) = %v, want %v", got, want)
	}
}

func TestDiscIsClosed(t *testing.T) {
	d := Disc(r2.Vec{X: 3, Y: 4}, 2)
	ring := d[0]
	if len(ring) != DiscVertices+1 {
		t.Fatalf("ring has %d points, want %d", len(ring), DiscVertices+1)
	}
	if ring[0] != ring[len(ring)-1] {
		t.Errorf("ring not closed: %v != %v", ring[0], ring[len(ring)-1])
	}
	area := math.Abs(planar.Area(d))
	if area <= 0 || area > math.Pi*4 {
		t.Errorf("disc area %v outside (0, 4π]", area)
	}
}

func TestFloorOverlap(t *testing.T) {
	allBright := maze.NewFloorFromPattern(4, 4, 3, []bool{
		true, true, true, true,
		true, true, true, true,
		true, true, true, true,
		true, true, true, true,
	})
	allDark := maze.NewFloorFromPattern(4, 4, 3, make([]bool, 16))
	halves := maze.NewFloorFromPattern(2, 1, 3, []bool{true, false})

	tests := []struct {
		name   string
		floor  *maze.Floor
		center r2.Vec
		radius float64
		want   float64
		tol    float64
	}{
		{"fully bright across tile corners", allBright, r2.Vec{X: 6, Y: 6}, 1.299, 1, 1e-9},
		{"fully dark", allDark, r2.Vec{X: 6, Y: 6}, 1.299, 0, 0},
		{"split down the middle", halves, r2.Vec{X: 3, Y: 1.5}, 1, 0.5, 1e-9},
		{"zero radius", allBright, r2.Vec{X: 6, Y: 6}, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FloorOverlap(tc.center, tc.radius, tc.floor)
			if math.Abs(got-tc.want) > tc.tol {
				t.Errorf("FloorOverlap = %v, want %v", got, tc.want)
			}
		})
	}
}
