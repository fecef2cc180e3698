package devices

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/components"
	"github.com/pthm-cable/simmer/geom"
)

// Motor is a driven wheel. Its odometer accumulates the distance the wheel
// turned, including slip, and is read back by the control program.
type Motor struct {
	Mount
	id       string
	pointing r2.Vec // unit vector, robot frame

	Odometer float64
}

// NewMotor builds a motor at a robot-frame position. rotation is the wheel's
// heading relative to robot forward, in degrees.
func NewMotor(id string, position r2.Vec, rotation float64, visible bool) *Motor {
	return &Motor{
		Mount: Mount{
			Local:   components.Pose{Position: position, Rotation: rotation},
			Outline: []r2.Vec{{X: -0.5, Y: -0.5}, {Y: 1}, {X: 0.5, Y: -0.5}},
			Visible: visible,
		},
		id:       id,
		pointing: geom.Rotate(r2.Vec{Y: 1}, rotation),
	}
}

func (m *Motor) ID() string { return m.id }

// Pointing returns the wheel's rolling direction in the robot frame.
func (m *Motor) Pointing() r2.Vec { return m.pointing }

func (m *Motor) Mounting() Mount { return m.Mount }

// Simulate returns the odometer reading.
func (m *Motor) Simulate(_ float64, _ *Environment) Response {
	return Response{ID: m.id, Value: m.Odometer}
}

// MotorArena owns every motor. Drives refer to motors by arena index so an
// odometer driven by several drives is shared between them.
type MotorArena struct {
	motors []*Motor
	index  map[string]int
}

// NewMotorArena returns an empty arena.
func NewMotorArena() *MotorArena {
	return &MotorArena{index: make(map[string]int)}
}

// Add stores m and returns its index.
func (a *MotorArena) Add(m *Motor) (int, error) {
	if err := validID(m.id); err != nil {
		return 0, err
	}
	if _, dup := a.index[m.id]; dup {
		return 0, fmt.Errorf("%w: duplicate motor id %q", ErrConfig, m.id)
	}
	a.motors = append(a.motors, m)
	a.index[m.id] = len(a.motors) - 1
	return len(a.motors) - 1, nil
}

// Lookup returns the index of the motor with the given id.
func (a *MotorArena) Lookup(id string) (int, bool) {
	i, ok := a.index[id]
	return i, ok
}

// At returns the motor at index i.
func (a *MotorArena) At(i int) *Motor { return a.motors[i] }

// Len returns the number of motors.
func (a *MotorArena) Len() int { return len(a.motors) }

// Motors returns every motor in index order. The slice is shared.
func (a *MotorArena) Motors() []*Motor { return a.motors }

// ResetOdometers zeroes every odometer.
func (a *MotorArena) ResetOdometers() {
	for _, m := range a.motors {
		m.Odometer = 0
	}
}
