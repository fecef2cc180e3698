// Package geom provides the 2D line-segment primitives used for collision and
// ranging queries against the maze walls.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Segment is an ordered pair of points in maze inches.
type Segment struct {
	A, B r2.Vec
}

// Seg is a shorthand constructor used heavily by tests and the wall builder.
func Seg(x1, y1, x2, y2 float64) Segment {
	return Segment{A: r2.Vec{X: x1, Y: y1}, B: r2.Vec{X: x2, Y: y2}}
}

// Vertical reports whether both endpoints share an x coordinate.
func (s Segment) Vertical() bool {
	return s.A.X == s.B.X
}

// Slope returns dy/dx. Vertical segments return +Inf.
func (s Segment) Slope() float64 {
	if s.Vertical() {
		return math.Inf(1)
	}
	return (s.B.Y - s.A.Y) / (s.B.X - s.A.X)
}

// Intercept returns the y-intercept of the supporting line.
// Vertical segments return NaN.
func (s Segment) Intercept() float64 {
	if s.Vertical() {
		return math.NaN()
	}
	return s.A.Y - s.Slope()*s.A.X
}

// Len returns the Euclidean length.
func (s Segment) Len() float64 {
	return r2.Norm(r2.Sub(s.B, s.A))
}

// Normalized returns the segment with its endpoints in canonical order:
// lowest x first, ties broken by lowest y.
func (s Segment) Normalized() Segment {
	if Less(s.B, s.A) {
		return Segment{A: s.B, B: s.A}
	}
	return s
}

// Less orders points lexicographically by (x, y).
func Less(p, q r2.Vec) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// Compare orders segments lexicographically by (x1, y1, x2, y2).
func Compare(s, t Segment) int {
	for _, d := range [4][2]float64{
		{s.A.X, t.A.X},
		{s.A.Y, t.A.Y},
		{s.B.X, t.B.X},
		{s.B.Y, t.B.Y},
	} {
		switch {
		case d[0] < d[1]:
			return -1
		case d[0] > d[1]:
			return 1
		}
	}
	return 0
}

// Outline converts a closed polygon into its edge segments, starting with the
// edge that closes the polygon (last vertex to first).
func Outline(points []r2.Vec) []Segment {
	n := len(points)
	if n < 2 {
		return nil
	}
	segs := make([]Segment, 0, n)
	for i := -1; i < n-1; i++ {
		prev := points[(i+n)%n]
		segs = append(segs, Segment{A: prev, B: points[i+1]})
	}
	return segs
}
