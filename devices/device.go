// Package devices models the hardware mounted on the robot: motors, drives
// and sensors. Every device is addressed by a two-character id and answers a
// command value with a single float.
package devices

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/components"
	"github.com/pthm-cable/simmer/geom"
	"github.com/pthm-cable/simmer/maze"
)

// ErrConfig marks a device definition that cannot be loaded.
var ErrConfig = errors.New("invalid device configuration")

// IDLength is the fixed length of a device id on the wire.
const IDLength = 2

// Device is anything the control program can address.
type Device interface {
	ID() string
	Simulate(value float64, env *Environment) Response
}

// Updater is implemented by devices that integrate state every frame.
type Updater interface {
	Update(env *Environment)
}

// Response is a device's reply to one command.
type Response struct {
	ID    string
	Value float64
}

// Environment is the world a device observes while simulating.
type Environment struct {
	Robot     *components.Body
	Block     *components.Body
	Maze      *maze.Maze
	Walls     []geom.Segment // reduced wall set, shared read-only
	FrameRate float64
	Noise     *Noise // nil disables measurement error
}

// Mount places a device on the robot.
type Mount struct {
	Local   components.Pose // relative to the robot centre
	Height  float64
	Outline []r2.Vec // device-frame outline for display
	Visible bool
}

// World returns the device pose for a given robot pose.
func (m Mount) World(robot components.Pose) components.Pose {
	return components.Pose{
		Position: robot.ToWorld(m.Local.Position),
		Rotation: robot.Rotation + m.Local.Rotation,
	}
}

// WorldOutline returns the device outline in maze coordinates.
func (m Mount) WorldOutline(robot components.Pose) []r2.Vec {
	w := m.World(robot)
	out := make([]r2.Vec, len(m.Outline))
	for i, p := range m.Outline {
		out[i] = w.ToWorld(p)
	}
	return out
}

// Mounted is implemented by devices with a physical placement.
type Mounted interface {
	Device
	Mounting() Mount
}

// Trace is the geometry of a sensor's last measurement, for display.
type Trace struct {
	Rays   []geom.Segment
	Center r2.Vec
	Radius float64
}

// Tracer is implemented by sensors that can show their last measurement.
type Tracer interface {
	Trace() (Trace, bool)
}

// traceTimer counts down the frames a measurement stays on screen.
type traceTimer struct {
	frames int
	left   int
}

func (t *traceTimer) show() { t.left = t.frames }

func (t *traceTimer) tick() {
	if t.left > 0 {
		t.left--
	}
}

func (t *traceTimer) visible() bool { return t.left > 0 }

func validID(id string) error {
	if len(id) != IDLength {
		return fmt.Errorf("%w: id %q must be %d characters", ErrConfig, id, IDLength)
	}
	return nil
}
