package game

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/simmer/config"
	"github.com/pthm-cable/simmer/devices"
)

// loadout is everything mounted on the robot.
type loadout struct {
	arena    *devices.MotorArena
	train    *devices.DriveTrain
	registry *devices.Registry
	preview  map[string]bool
}

func vec(p [2]float64) r2.Vec { return r2.Vec{X: p[0], Y: p[1]} }

// buildLoadout creates the motors, drives and sensors in configuration order.
// Any bad definition is a configuration error.
func buildLoadout(cfg *config.Config) (*loadout, error) {
	l := &loadout{
		arena:    devices.NewMotorArena(),
		train:    &devices.DriveTrain{},
		registry: devices.NewRegistry(),
		preview:  make(map[string]bool),
	}

	for _, mc := range cfg.Motors {
		m := devices.NewMotor(mc.ID, vec(mc.Position), mc.Rotation, mc.Visible)
		if _, err := l.arena.Add(m); err != nil {
			return nil, err
		}
		if err := l.registry.Register(m); err != nil {
			return nil, err
		}
	}

	for _, dc := range cfg.Drives {
		d, err := devices.NewDrive(devices.DriveSpec{
			ID:              dc.ID,
			Velocity:        vec(dc.Velocity),
			AngularVelocity: dc.AngularVelocity,
			Motors:          dc.Motors,
			Directions:      dc.Directions,
			Bias:            devices.Offsets{X: dc.Bias.X, Y: dc.Bias.Y, Rotation: dc.Bias.Rotation},
			Error:           devices.Offsets{X: dc.Error.X, Y: dc.Error.Y, Rotation: dc.Error.Rotation},
		}, cfg.Simulation.FrameRate, l.arena)
		if err != nil {
			return nil, fmt.Errorf("drive %s: %w", dc.ID, err)
		}
		l.train.Add(d)
		if err := l.registry.Register(d); err != nil {
			return nil, err
		}
	}

	for _, uc := range cfg.Sensors.Ultrasonic {
		u := devices.NewUltrasonic(devices.UltrasonicSpec{
			ID:          uc.ID,
			Position:    vec(uc.Position),
			Height:      uc.Height,
			Rotation:    uc.Rotation,
			Beamwidth:   uc.Beamwidth,
			Rays:        uc.Rays,
			MaxRange:    uc.MaxRange,
			Error:       uc.Error,
			Visible:     uc.Visible,
			TraceFrames: cfg.TraceFrames(uc.TraceTime),
		})
		if err := l.registry.Register(u); err != nil {
			return nil, err
		}
	}

	for _, ic := range cfg.Sensors.Infrared {
		s := devices.NewInfrared(devices.InfraredSpec{
			ID:          ic.ID,
			Position:    vec(ic.Position),
			Height:      ic.Height,
			FOV:         ic.FOV,
			Threshold:   ic.Threshold,
			Error:       ic.Error,
			Visible:     ic.Visible,
			TraceFrames: cfg.TraceFrames(ic.TraceTime),
		})
		if err := l.registry.Register(s); err != nil {
			return nil, err
		}
	}

	for _, hc := range cfg.Sensors.Gyroscope {
		g := devices.NewGyroscope(devices.HeadingSpec{ID: hc.ID, Error: hc.Error, Bias: hc.Bias})
		if err := l.registry.Register(g); err != nil {
			return nil, err
		}
	}
	for _, hc := range cfg.Sensors.Compass {
		c := devices.NewCompass(devices.HeadingSpec{ID: hc.ID, Error: hc.Error, Bias: hc.Bias})
		if err := l.registry.Register(c); err != nil {
			return nil, err
		}
	}

	for _, id := range cfg.Simulation.PreviewSensors {
		d, ok := l.registry.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: preview sensor %q is not defined", devices.ErrConfig, id)
		}
		switch d.(type) {
		case *devices.Ultrasonic, *devices.Infrared:
			l.preview[id] = true
		default:
			return nil, fmt.Errorf("%w: preview sensor %q is not an ultrasonic or infrared sensor", devices.ErrConfig, id)
		}
	}

	return l, nil
}
