package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/geom"
)

func TestRayFan(t *testing.T) {
	rays := RayFan(r2.Vec{X: 1, Y: 2}, 90, 15, 7, 433)
	require.Len(t, rays, 7)

	assert.InDelta(t, 90-3.0/7*15, rays[0].Angle, 1e-12)
	assert.Equal(t, 90.0, rays[3].Angle)
	assert.InDelta(t, 90+3.0/7*15, rays[6].Angle, 1e-12)
	for _, r := range rays {
		assert.Equal(t, r2.Vec{X: 1, Y: 2}, r.Origin)
		assert.Equal(t, 433.0, r.Length)
	}
}

func TestUltrasonicOpenSpace(t *testing.T) {
	walls := []geom.Segment{
		geom.Seg(0, 0, 1000, 0),
		geom.Seg(1000, 0, 1000, 1000),
		geom.Seg(1000, 1000, 0, 1000),
		geom.Seg(0, 1000, 0, 0),
	}
	hits := CastRays(RayFan(r2.Vec{X: 500, Y: 500}, 0, 15, 7, 433), walls)

	for _, h := range hits {
		assert.False(t, h.Hit)
	}
	assert.Equal(t, 433.0, Median(Distances(hits)))
}

func TestUltrasonicWallAhead(t *testing.T) {
	wall := []geom.Segment{geom.Seg(-100, 20, 100, 20)}
	hits := CastRays(RayFan(r2.Vec{}, 0, 15, 7, 433), wall)

	d := Distances(hits)
	assert.InDelta(t, 20, d[3], 1e-12, "centre ray hits head on")
	for i := range hits {
		assert.True(t, hits[i].Hit)
		assert.InDelta(t, d[i], d[6-i], 1e-9, "fan is symmetric")
	}

	// Sorted: 20, then pairs at 1, 2 and 3 steps off centre. The fourth
	// value is the pair two steps out.
	want := 20 / math.Cos(geom.Radians(2*15.0/7))
	assert.InDelta(t, want, Median(d), 1e-9)
}

func TestUltrasonicNearestWall(t *testing.T) {
	walls := []geom.Segment{
		geom.Seg(-100, 50, 100, 50),
		geom.Seg(-100, 30, 100, 30),
	}
	hits := CastRays(RayFan(r2.Vec{}, 0, 0, 1, 433), walls)
	require.Len(t, hits, 1)
	assert.InDelta(t, 30, hits[0].Distance(), 1e-12)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"single", []float64{5}, 5},
		{"odd", []float64{1, 3, 2}, 2},
		{"even averages middle pair", []float64{4, 1, 3, 2}, 2.5},
		{"outlier ignored", []float64{10, 10, 433, 10, 11}, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := append([]float64(nil), tc.in...)
			assert.Equal(t, tc.want, Median(in))
			assert.Equal(t, tc.in, in, "input must not be reordered")
		})
	}
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestBlockVisible(t *testing.T) {
	tests := []struct {
		name         string
		sensorHeight float64
		blockHeight  float64
		distance     float64
		want         bool
	}{
		{"same height", 2, 2, 10, true},
		{"tall sensor close block", 6, 2, 10, false},
		{"tall sensor far block", 6, 2, 40, true},
		{"low sensor tall block close", 1, 4, 5, true},
		{"block far above the sensor", 2, 20, 5, true},
		{"block just above the sensor", 2, 2.5, 1, true},
		{"on top of the block", 6, 2, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BlockVisible(r2.Vec{}, tc.sensorHeight, r2.Vec{Y: tc.distance}, tc.blockHeight, 15)
			assert.Equal(t, tc.want, got)
		})
	}
}
