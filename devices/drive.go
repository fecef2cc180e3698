package devices

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/geom"
)

// MoveResidue is the largest move buffer remainder left for a later frame.
// A smaller remainder is folded into the current frame so float rounding in
// the per-frame subtraction never costs an extra, near-empty frame.
const MoveResidue = 1e-9

// SlipCosine is the smallest |cos θ| between a wheel and the direction it is
// asked to move in that still counts as driving it. Below it the wheel is
// treated as perpendicular and its odometer multiplier is 0.
const SlipCosine = 1e-9

// Offsets are per-axis terms for a drive: body-frame x and y, and rotation.
type Offsets struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

// DriveSpec defines a drive. Exactly one of Velocity and AngularVelocity is
// non-zero.
type DriveSpec struct {
	ID              string
	Velocity        r2.Vec  // inches/second, robot frame
	AngularVelocity float64 // degrees/second
	Motors          []string
	Directions      []float64
	Bias            Offsets
	Error           Offsets
}

// Drive converts a commanded distance (inches) or angle (degrees) into
// per-frame robot motion and motor odometer increments.
type Drive struct {
	id          string
	arena       *MotorArena
	train       *DriveTrain
	motors      []int
	multipliers []float64

	rotational bool
	direction  r2.Vec  // unit, translational drives
	turn       float64 // +1 or -1, rotational drives
	step       float64 // per-frame magnitude

	bias   Offsets
	errors Offsets

	buffer float64
}

// NewDrive validates spec against the arena and precomputes the odometer
// multipliers.
func NewDrive(spec DriveSpec, frameRate float64, arena *MotorArena) (*Drive, error) {
	if err := validID(spec.ID); err != nil {
		return nil, err
	}
	if frameRate <= 0 {
		return nil, fmt.Errorf("%w: drive %s: frame rate must be positive", ErrConfig, spec.ID)
	}
	if len(spec.Motors) != len(spec.Directions) {
		return nil, fmt.Errorf("%w: drive %s: %d motors but %d directions",
			ErrConfig, spec.ID, len(spec.Motors), len(spec.Directions))
	}
	speed := r2.Norm(spec.Velocity)
	if (speed == 0) == (spec.AngularVelocity == 0) {
		return nil, fmt.Errorf("%w: drive %s: exactly one of velocity and angular velocity must be non-zero",
			ErrConfig, spec.ID)
	}

	d := &Drive{
		id:     spec.ID,
		arena:  arena,
		bias:   spec.Bias,
		errors: spec.Error,
	}
	if speed != 0 {
		d.direction = r2.Scale(1/speed, spec.Velocity)
		d.step = speed / frameRate
	} else {
		d.rotational = true
		d.turn = math.Copysign(1, spec.AngularVelocity)
		d.step = math.Abs(spec.AngularVelocity) / frameRate
	}

	for i, id := range spec.Motors {
		idx, ok := arena.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: drive %s: unknown motor %q", ErrConfig, spec.ID, id)
		}
		d.motors = append(d.motors, idx)
		d.multipliers = append(d.multipliers, d.multiplier(arena.At(idx), spec.Directions[i]))
	}
	return d, nil
}

// multiplier is the odometer increment per unit of drive movement. Wheels
// angled away from the motion slip and must turn further.
func (d *Drive) multiplier(m *Motor, sign float64) float64 {
	if !d.rotational {
		cos := math.Abs(r2.Cos(d.direction, m.pointing))
		if cos < SlipCosine {
			return 0
		}
		return sign / cos
	}

	radius := r2.Norm(m.Local.Position)
	if radius == 0 {
		return 0
	}
	tangent := geom.Rotate(m.Local.Position, 90)
	cos := math.Abs(r2.Cos(tangent, m.pointing))
	if cos < SlipCosine {
		return 0
	}
	return 2 * math.Pi * radius / 360 * sign / cos
}

func (d *Drive) ID() string { return d.id }

// Rotational reports whether the drive turns the robot in place.
func (d *Drive) Rotational() bool { return d.rotational }

// Multipliers returns the odometer multiplier of each driven motor.
func (d *Drive) Multipliers() []float64 {
	return append([]float64(nil), d.multipliers...)
}

// Buffer returns the movement still owed.
func (d *Drive) Buffer() float64 { return d.buffer }

// Moving reports whether the drive still owes movement.
func (d *Drive) Moving() bool { return d.buffer != 0 }

// Command loads value into the move buffer with error injected. It does not
// check other drives; use Simulate for the busy check.
func (d *Drive) Command(value float64, noise *Noise) {
	d.buffer = noise.Apply(value, d.errorTotal())
}

// errorTotal weights the per-axis error terms by the drive direction.
func (d *Drive) errorTotal() float64 {
	if d.rotational {
		return d.errors.Rotation
	}
	return d.direction.X*d.errors.X + d.direction.Y*d.errors.Y
}

// Simulate accepts a movement command unless any drive on the robot is still
// moving. Accepted commands answer +Inf, rejected ones 0.
func (d *Drive) Simulate(value float64, env *Environment) Response {
	if d.train != nil && d.train.Busy() {
		return Response{ID: d.id, Value: 0}
	}
	var noise *Noise
	if env != nil {
		noise = env.Noise
	}
	d.Command(value, noise)
	return Response{ID: d.id, Value: math.Inf(1)}
}

// MoveUpdate executes one frame of the buffered move. It returns the robot
// frame displacement and the rotation in degrees, including bias.
func (d *Drive) MoveUpdate() (r2.Vec, float64) {
	if d.buffer == 0 {
		return r2.Vec{}, 0
	}

	amount := math.Copysign(math.Min(math.Abs(d.buffer), d.step), d.buffer)
	if math.Abs(d.buffer-amount) < MoveResidue {
		amount = d.buffer
	}

	for i, idx := range d.motors {
		d.arena.At(idx).Odometer += amount * d.multipliers[i]
	}
	d.buffer -= amount

	var delta r2.Vec
	var rotation float64
	if d.rotational {
		rotation = d.turn * amount
	} else {
		delta = r2.Scale(amount, d.direction)
	}

	delta.X += amount * d.bias.X
	delta.Y += amount * d.bias.Y
	rotation += amount * d.bias.Rotation
	return delta, rotation
}

// Stop drops any buffered movement.
func (d *Drive) Stop() { d.buffer = 0 }

// DriveTrain groups the drives of one robot. Only one drive may be moving at a
// time.
type DriveTrain struct {
	drives []*Drive
}

// Add attaches d to the train.
func (t *DriveTrain) Add(d *Drive) {
	d.train = t
	t.drives = append(t.drives, d)
}

// Drives returns the drives in load order. The slice is shared.
func (t *DriveTrain) Drives() []*Drive { return t.drives }

// Busy reports whether any drive still owes movement.
func (t *DriveTrain) Busy() bool {
	for _, d := range t.drives {
		if d.Moving() {
			return true
		}
	}
	return false
}

// Step runs one frame of every drive and sums the resulting motion.
func (t *DriveTrain) Step() (r2.Vec, float64) {
	var delta r2.Vec
	var rotation float64
	for _, d := range t.drives {
		dp, dr := d.MoveUpdate()
		delta = r2.Add(delta, dp)
		rotation += dr
	}
	return delta, rotation
}

// Stop drops the buffered movement of every drive.
func (t *DriveTrain) Stop() {
	for _, d := range t.drives {
		d.Stop()
	}
}
