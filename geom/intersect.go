package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Orientation of an ordered triplet of points.
type Orientation int8

const (
	Collinear        Orientation = 0
	Clockwise        Orientation = 1
	CounterClockwise Orientation = 2
)

func orientation(p, q, r r2.Vec) Orientation {
	val := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
	switch {
	case val > 0:
		return Clockwise
	case val < 0:
		return CounterClockwise
	default:
		return Collinear
	}
}

// onSegment reports whether q lies inside the bounding box of p and r.
// Only meaningful when p, q, r are already known to be collinear.
func onSegment(p, q, r r2.Vec) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

func det(a, b r2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// classification is the outcome of the orientation tests. general is set
// when the segments straddle each other; contact holds collinear endpoints
// found on the other segment.
type classification struct {
	general bool
	div     float64
	contact [4]r2.Vec
	n       int
}

// classify runs the orientation tests shared by Intersect and Intersects.
func classify(s1, s2 Segment) classification {
	p1, q1, p2, q2 := s1.A, s1.B, s2.A, s2.B

	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	var c classification
	if o1 != o2 && o3 != o4 {
		c.general = true
		dx := r2.Vec{X: p1.X - q1.X, Y: p2.X - q2.X}
		dy := r2.Vec{X: p1.Y - q1.Y, Y: p2.Y - q2.Y}
		c.div = det(dx, dy)
		return c
	}

	if o1 == Collinear && onSegment(p1, p2, q1) {
		c.contact[c.n] = p2
		c.n++
	}
	if o2 == Collinear && onSegment(p1, q2, q1) {
		c.contact[c.n] = q2
		c.n++
	}
	if o3 == Collinear && onSegment(p2, p1, q2) {
		c.contact[c.n] = p1
		c.n++
	}
	if o4 == Collinear && onSegment(p2, q1, q2) {
		c.contact[c.n] = q1
		c.n++
	}
	return c
}

// Intersect returns the intersection points of two segments.
//
// A proper crossing yields one point computed from the line determinants.
// Collinear contact yields the endpoints lying on the other segment, at most
// two distinct points. No intersection yields an empty slice.
func Intersect(s1, s2 Segment) []r2.Vec {
	c := classify(s1, s2)
	if c.general {
		if c.div == 0 {
			return nil
		}
		dx := r2.Vec{X: s1.A.X - s1.B.X, Y: s2.A.X - s2.B.X}
		dy := r2.Vec{X: s1.A.Y - s1.B.Y, Y: s2.A.Y - s2.B.Y}
		d := r2.Vec{X: det(s1.A, s1.B), Y: det(s2.A, s2.B)}
		return []r2.Vec{{X: det(d, dx) / c.div, Y: det(d, dy) / c.div}}
	}
	if c.n == 0 {
		return nil
	}
	return dedupe(c.contact[:c.n])
}

// Intersects reports whether two segments touch, without computing where.
// It agrees with len(Intersect(s1, s2)) > 0 for every input.
func Intersects(s1, s2 Segment) bool {
	c := classify(s1, s2)
	if c.general {
		return c.div != 0
	}
	return c.n > 0
}

// dedupe keeps the first occurrence of each point. Overlapping collinear
// segments report shared endpoints twice.
func dedupe(pts []r2.Vec) []r2.Vec {
	out := make([]r2.Vec, 0, 2)
	for _, p := range pts {
		seen := false
		for _, q := range out {
			if p == q {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, p)
		}
	}
	return out
}

// Nearest returns the candidate closest to origin and its squared distance.
// An empty candidate list returns the zero point and NaN.
func Nearest(origin r2.Vec, candidates []r2.Vec) (r2.Vec, float64) {
	if len(candidates) == 0 {
		return r2.Vec{}, math.NaN()
	}
	best := candidates[0]
	bestD2 := r2.Norm2(r2.Sub(best, origin))
	for _, c := range candidates[1:] {
		if d2 := r2.Norm2(r2.Sub(c, origin)); d2 < bestD2 {
			best, bestD2 = c, d2
		}
	}
	return best, bestD2
}
