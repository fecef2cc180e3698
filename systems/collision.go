// Package systems implements the per-frame geometric systems: the collision
// gate that commits or rejects body moves, and the ranging and
// field-of-view queries sensors run against the maze.
package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/components"
	"github.com/pthm-cable/simmer/geom"
	"github.com/pthm-cable/simmer/maze"
)

// GateState is the collision gate phase of one body.
type GateState uint8

const (
	Settled GateState = iota
	Proposed
)

func (s GateState) String() string {
	if s == Proposed {
		return "proposed"
	}
	return "settled"
}

// Gate applies speculative moves to a body and undoes them on contact.
// A rejected move restores the settled pose exactly; there is no sliding or
// partial move.
type Gate struct {
	body  *components.Body
	state GateState
	saved components.Pose
}

// NewGate wraps body. The body starts settled at its current pose.
func NewGate(body *components.Body) *Gate {
	return &Gate{body: body, saved: body.Pose()}
}

// Body returns the gated body.
func (g *Gate) Body() *components.Body { return g.body }

// State returns the current phase. Outside Move it is always Settled.
func (g *Gate) State() GateState { return g.state }

// Move proposes a body-frame displacement and a rotation in degrees, tests the
// resulting outline against every obstacle set and commits or rolls back.
// It reports whether the move was committed.
func (g *Gate) Move(delta r2.Vec, rotation float64, obstacles ...[]geom.Segment) bool {
	if delta == (r2.Vec{}) && rotation == 0 {
		return true
	}

	g.propose(g.body.Pose().Advance(delta, rotation))
	if Collides(g.body.Segments(), obstacles...) {
		g.rollback()
		g.body.Collided = true
		return false
	}
	g.commit()
	g.body.Collided = false
	return true
}

// Teleport places the body directly at target. The target position must be
// inside the maze and outside every wall cell; otherwise the previous pose is
// kept and Teleport returns false.
func (g *Gate) Teleport(target components.Pose, m *maze.Maze) bool {
	g.propose(target)
	if !m.Contains(target.Position) || m.IsWall(target.Position) {
		g.rollback()
		return false
	}
	g.commit()
	return true
}

// Reset forces the body to pose without any checks.
func (g *Gate) Reset(pose components.Pose) {
	g.body.SetPose(pose)
	g.body.Collided = false
	g.saved = pose
	g.state = Settled
}

func (g *Gate) propose(p components.Pose) {
	g.saved = g.body.Pose()
	g.state = Proposed
	g.body.SetPose(p)
}

func (g *Gate) rollback() {
	g.body.SetPose(g.saved)
	g.state = Settled
}

func (g *Gate) commit() {
	g.saved = g.body.Pose()
	g.state = Settled
}

// Collides reports whether any segment touches any obstacle segment.
func Collides(segs []geom.Segment, obstacles ...[]geom.Segment) bool {
	for _, s := range segs {
		for _, set := range obstacles {
			for _, o := range set {
				if geom.Intersects(s, o) {
					return true
				}
			}
		}
	}
	return false
}
