package systems

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/simmer/geom"
)

// RayFan spreads n rays across beamwidth degrees centred on rotation. Ray i
// is offset by ((i - (n-1)/2) / n) * beamwidth.
func RayFan(origin r2.Vec, rotation, beamwidth float64, n int, maxRange float64) []geom.Ray {
	rays := make([]geom.Ray, n)
	for i := range rays {
		offset := (float64(i) - float64(n-1)/2) / float64(n) * beamwidth
		rays[i] = geom.Ray{Origin: origin, Angle: rotation + offset, Length: maxRange}
	}
	return rays
}

// CastRays finds the nearest hit of every ray. Rays that hit nothing end at
// full length.
func CastRays(rays []geom.Ray, obstacles ...[]geom.Segment) []geom.RayHit {
	hits := make([]geom.RayHit, len(rays))
	for i, r := range rays {
		hits[i] = geom.Cast(r, obstacles...)
	}
	return hits
}

// Distances returns the length of every hit.
func Distances(hits []geom.RayHit) []float64 {
	out := make([]float64, len(hits))
	for i, h := range hits {
		out[i] = h.Distance()
	}
	return out
}

// Median returns the median of xs, averaging the middle pair for even
// lengths. An empty slice returns NaN.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	lower := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if n%2 == 1 {
		return lower
	}
	return (lower + sorted[n/2]) / 2
}

// BlockVisible reports whether a block lies inside a ranging beam vertically.
// A block at or above the sensor's mount height always stands in the beam.
// For a shorter block, the drop to its top over the planar distance gives a
// depression angle; the block is seen when that angle is within half the
// beamwidth.
func BlockVisible(sensorPos r2.Vec, sensorHeight float64, blockPos r2.Vec, blockHeight, beamwidth float64) bool {
	dh := sensorHeight - blockHeight
	if dh <= 0 {
		return true
	}
	dist := r2.Norm(r2.Sub(blockPos, sensorPos))
	elevation := geom.Degrees(math.Atan2(dh, dist))
	return elevation <= beamwidth/2
}
