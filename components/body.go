package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/geom"
)

// Body is a rigid body with a polygonal outline. The world outline and its
// segments are recomputed on every pose change and never cached across one.
type Body struct {
	Name   string
	Height float64 // inches above the floor, used for sensor visibility

	// Collided is set when the last proposed move was rejected.
	Collided bool

	local []r2.Vec
	pose  Pose
	world []r2.Vec
	segs  []geom.Segment
}

// NewBody builds a body from a local-frame outline, counter-clockwise.
func NewBody(name string, outline []r2.Vec, height float64, pose Pose) *Body {
	b := &Body{
		Name:   name,
		Height: height,
		local:  append([]r2.Vec(nil), outline...),
		world:  make([]r2.Vec, len(outline)),
	}
	b.SetPose(pose)
	return b
}

// NewRect builds a width x length rectangle centred on the body origin.
// Length runs along the body's forward (+Y) axis.
func NewRect(name string, width, length, height float64, pose Pose) *Body {
	return NewBody(name, RectOutline(width, length), height, pose)
}

// RectOutline returns the counter-clockwise corners of a centred rectangle.
func RectOutline(width, length float64) []r2.Vec {
	w, l := width/2, length/2
	return []r2.Vec{
		{X: -w, Y: -l},
		{X: w, Y: -l},
		{X: w, Y: l},
		{X: -w, Y: l},
	}
}

// Pose returns the current pose.
func (b *Body) Pose() Pose { return b.pose }

// Position returns the current centre.
func (b *Body) Position() r2.Vec { return b.pose.Position }

// SetPose moves the body and recomputes its world outline.
func (b *Body) SetPose(p Pose) {
	b.pose = p
	for i, v := range b.local {
		b.world[i] = p.ToWorld(v)
	}
	b.segs = geom.Outline(b.world)
}

// Outline returns the world-space outline. Callers must not modify it.
func (b *Body) Outline() []r2.Vec { return b.world }

// Segments returns the world-space outline edges. Callers must not modify it.
func (b *Body) Segments() []geom.Segment { return b.segs }

// LocalOutline returns a copy of the body-frame outline.
func (b *Body) LocalOutline() []r2.Vec {
	return append([]r2.Vec(nil), b.local...)
}

// Trail returns the body's current state as a trail point.
func (b *Body) Trail(tick int32) TrailPoint {
	return TrailPoint{
		Tick:      tick,
		X:         b.pose.Position.X,
		Y:         b.pose.Position.Y,
		Rotation:  b.pose.Rotation,
		Collision: b.Collided,
	}
}
