package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/components"
	"github.com/pthm-cable/simmer/maze"
)

func openMaze(t *testing.T, rows [][]int) *maze.Maze {
	t.Helper()
	m, err := maze.New(maze.MustGrid(rows), maze.Options{WallValue: 0, WallLength: 12, FloorLength: 3}, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	return m
}

func TestGateCommitsFreeMove(t *testing.T) {
	m := openMaze(t, [][]int{{1, 1, 1, 1}, {1, 1, 1, 1}})
	robot := components.NewRect("robot", 6, 6, 1, components.Pose{Position: r2.Vec{X: 8, Y: 12}})
	gate := NewGate(robot)

	ok := gate.Move(r2.Vec{Y: 5}, 0, m.Walls.Segments())
	require.True(t, ok)
	assert.Equal(t, Settled, gate.State())
	assert.Equal(t, r2.Vec{X: 8, Y: 17}, robot.Position())
	assert.False(t, robot.Collided)
}

func TestGateRollbackIsExact(t *testing.T) {
	m := openMaze(t, [][]int{{1, 1, 1, 1}, {1, 1, 1, 1}})
	walls := m.Walls.Segments()

	start := components.Pose{Position: r2.Vec{X: 8.1234567, Y: 12.7654321}, Rotation: 33.3}
	robot := components.NewRect("robot", 6, 6, 1, start)
	before := append([]r2.Vec(nil), robot.Outline()...)
	gate := NewGate(robot)

	ok := gate.Move(r2.Vec{Y: 10}, 7.77, walls)
	require.False(t, ok)
	assert.Equal(t, Settled, gate.State())
	assert.True(t, robot.Collided)

	// Bit-for-bit, not approximately.
	assert.True(t, robot.Pose() == start, "pose %+v != %+v", robot.Pose(), start)
	assert.Equal(t, before, robot.Outline())

	// The path is still blocked on the next frame.
	ok = gate.Move(r2.Vec{Y: 10}, 7.77, walls)
	assert.False(t, ok)
	assert.True(t, robot.Pose() == start)
}

func TestGateBlockObstacle(t *testing.T) {
	m := openMaze(t, [][]int{{1, 1, 1, 1}, {1, 1, 1, 1}})
	walls := m.Walls.Segments()
	robot := components.NewRect("robot", 6, 6, 1, components.Pose{Position: r2.Vec{X: 8, Y: 12}})
	block := components.NewRect("block", 3, 3, 2, components.Pose{Position: r2.Vec{X: 8, Y: 20}})
	gate := NewGate(robot)

	assert.False(t, gate.Move(r2.Vec{Y: 4}, 0, walls, block.Segments()), "robot must not pass through the block")
	assert.True(t, gate.Move(r2.Vec{Y: 4}, 0, walls), "walls alone leave room")
}

func TestGateZeroMove(t *testing.T) {
	robot := components.NewRect("robot", 6, 6, 1, components.Pose{Position: r2.Vec{X: 8, Y: 12}})
	robot.Collided = true
	gate := NewGate(robot)

	assert.True(t, gate.Move(r2.Vec{}, 0))
	assert.True(t, robot.Collided, "a zero move leaves the collision flag alone")
}

func TestGateTeleport(t *testing.T) {
	m := openMaze(t, [][]int{
		{1, 0},
		{1, 1},
	})
	start := components.Pose{Position: r2.Vec{X: 6, Y: 6}}
	robot := components.NewRect("robot", 6, 6, 1, start)
	gate := NewGate(robot)

	tests := []struct {
		name   string
		target r2.Vec
		want   bool
	}{
		{"outside maze", r2.Vec{X: -5, Y: 5}, false},
		{"inside wall cell", r2.Vec{X: 18, Y: 6}, false},
		{"open cell", r2.Vec{X: 6, Y: 18}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := robot.Pose()
			got := gate.Teleport(components.Pose{Position: tc.target, Rotation: 45}, m)
			assert.Equal(t, tc.want, got)
			if tc.want {
				assert.Equal(t, tc.target, robot.Position())
			} else {
				assert.Equal(t, before, robot.Pose())
			}
			assert.Equal(t, Settled, gate.State())
		})
	}
}

func TestGateReset(t *testing.T) {
	robot := components.NewRect("robot", 6, 6, 1, components.Pose{Position: r2.Vec{X: 8, Y: 12}})
	robot.Collided = true
	gate := NewGate(robot)

	home := components.Pose{Position: r2.Vec{X: 1, Y: 2}, Rotation: 3}
	gate.Reset(home)
	assert.Equal(t, home, robot.Pose())
	assert.False(t, robot.Collided)
}
