package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rotate rotates v about the origin by deg degrees (counter-clockwise).
func Rotate(v r2.Vec, deg float64) r2.Vec {
	return r2.Rotate(v, Radians(deg), r2.Vec{})
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Ray is a finite ray. Angle is the world rotation in degrees applied to the
// body-forward (+Y) direction.
type Ray struct {
	Origin r2.Vec
	Angle  float64
	Length float64
}

// End returns the point at full length.
func (r Ray) End() r2.Vec {
	return r2.Add(r.Origin, Rotate(r2.Vec{Y: r.Length}, r.Angle))
}

// Segment returns the ray as a segment from origin to end.
func (r Ray) Segment() Segment {
	return Segment{A: r.Origin, B: r.End()}
}

// RayHit is the closest intersection along a ray.
type RayHit struct {
	Point r2.Vec
	Dist2 float64
	Hit   bool
}

// Distance returns the Euclidean distance to the hit.
func (h RayHit) Distance() float64 {
	return math.Sqrt(h.Dist2)
}

// Cast intersects the ray with every obstacle and keeps the nearest point.
// With no hit the result is the ray end at full length.
func Cast(r Ray, obstacles ...[]Segment) RayHit {
	seg := r.Segment()
	maxD2 := r.Length * r.Length
	best := RayHit{Point: seg.B, Dist2: maxD2}
	for _, set := range obstacles {
		for _, o := range set {
			pts := Intersect(seg, o)
			if len(pts) == 0 {
				continue
			}
			p, d2 := Nearest(r.Origin, pts)
			if !best.Hit || d2 < best.Dist2 {
				best = RayHit{Point: p, Dist2: math.Min(d2, maxD2), Hit: true}
			}
		}
	}
	return best
}
