// Package config provides configuration loading for the simulator.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/simmer/maze"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed maze.csv
var defaultMaze []byte

// ErrInvalid marks a configuration that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every simulator parameter. It is built once at startup and
// passed to the components that need it; there is no global instance.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Maze       MazeConfig       `yaml:"maze"`
	Robot      RobotConfig      `yaml:"robot"`
	Block      BlockConfig      `yaml:"block"`
	Manual     ManualConfig     `yaml:"manual"`
	Network    NetworkConfig    `yaml:"network"`
	Motors     []MotorConfig    `yaml:"motors"`
	Drives     []DriveConfig    `yaml:"drives"`
	Sensors    SensorsConfig    `yaml:"sensors"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	PPI int `yaml:"ppi"` // pixels per maze inch
}

// SimulationConfig holds the step rate and error generation settings.
type SimulationConfig struct {
	FrameRate      float64  `yaml:"frame_rate"`   // ticks per second
	RandomError    bool     `yaml:"random_error"` // false: repeatable errors from error_seed
	ErrorSeed      uint64   `yaml:"error_seed"`
	PreviewSensors []string `yaml:"preview_sensors"` // sensors traced every frame for display
}

// MazeConfig holds maze geometry.
type MazeConfig struct {
	File               string  `yaml:"file"`       // empty: embedded default maze
	WallValue          int     `yaml:"wall_value"` // grid value that marks a wall cell
	WallSegmentLength  float64 `yaml:"wall_segment_length"`
	FloorSegmentLength float64 `yaml:"floor_segment_length"`
}

// RobotConfig holds the robot body and start pose.
type RobotConfig struct {
	StartPosition [2]float64 `yaml:"start_position"`
	StartRotation float64    `yaml:"start_rotation"` // degrees
	Width         float64    `yaml:"width"`
	Length        float64    `yaml:"length"`
	Height        float64    `yaml:"height"`
}

// BlockConfig holds the movable block.
type BlockConfig struct {
	Enabled  bool       `yaml:"enabled"`
	Position [2]float64 `yaml:"position"`
	Rotation float64    `yaml:"rotation"`
	Size     float64    `yaml:"size"`
	Height   float64    `yaml:"height"`
}

// ManualConfig holds keyboard driving speeds.
type ManualConfig struct {
	Speed         float64 `yaml:"speed"`          // inches/second
	RotationSpeed float64 `yaml:"rotation_speed"` // degrees/second
}

// NetworkConfig holds the control program interface.
type NetworkConfig struct {
	Host        string  `yaml:"host"`
	PortRx      int     `yaml:"port_rx"`
	PortTx      int     `yaml:"port_tx"`
	Timeout     float64 `yaml:"timeout"` // seconds per connection
	PacketBytes int     `yaml:"packet_bytes"`
	FrameStart  string  `yaml:"frame_start"`
	FrameEnd    string  `yaml:"frame_end"`
	RoundDigits int     `yaml:"round_digits"`
	Binary      bool    `yaml:"binary"`
}

// MotorConfig defines one wheel.
type MotorConfig struct {
	ID       string     `yaml:"id"`
	Position [2]float64 `yaml:"position"`
	Rotation float64    `yaml:"rotation"`
	Visible  bool       `yaml:"visible"`
}

// AxisConfig holds per-axis drive terms.
type AxisConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

// DriveConfig defines one drive. Exactly one of velocity and ang_velocity
// must be non-zero.
type DriveConfig struct {
	ID              string     `yaml:"id"`
	Velocity        [2]float64 `yaml:"velocity"`     // inches/second
	AngularVelocity float64    `yaml:"ang_velocity"` // degrees/second
	Motors          []string   `yaml:"motors"`
	Directions      []float64  `yaml:"motor_direction"`
	Bias            AxisConfig `yaml:"bias"`
	Error           AxisConfig `yaml:"error"`
}

// SensorsConfig lists the sensors by kind.
type SensorsConfig struct {
	Ultrasonic []UltrasonicConfig `yaml:"ultrasonic"`
	Infrared   []InfraredConfig   `yaml:"infrared"`
	Gyroscope  []HeadingConfig    `yaml:"gyroscope"`
	Compass    []HeadingConfig    `yaml:"compass"`
}

// UltrasonicConfig defines a ranging sensor.
type UltrasonicConfig struct {
	ID        string     `yaml:"id"`
	Position  [2]float64 `yaml:"position"`
	Height    float64    `yaml:"height"`
	Rotation  float64    `yaml:"rotation"`
	Beamwidth float64    `yaml:"beamwidth"` // degrees
	Rays      int        `yaml:"rays"`
	MaxRange  float64    `yaml:"max_range"`
	Error     float64    `yaml:"error"`
	Visible   bool       `yaml:"visible"`
	TraceTime float64    `yaml:"trace_seconds"`
}

// InfraredConfig defines a floor pattern sensor.
type InfraredConfig struct {
	ID        string     `yaml:"id"`
	Position  [2]float64 `yaml:"position"`
	Height    float64    `yaml:"height"`
	FOV       float64    `yaml:"fov"`
	Threshold float64    `yaml:"threshold"`
	Error     float64    `yaml:"error"`
	Visible   bool       `yaml:"visible"`
	TraceTime float64    `yaml:"trace_seconds"`
}

// HeadingConfig defines a gyroscope or compass.
type HeadingConfig struct {
	ID    string  `yaml:"id"`
	Error float64 `yaml:"error"`
	Bias  float64 `yaml:"bias"`
}

// TelemetryConfig holds output parameters.
type TelemetryConfig struct {
	TrailInterval int     `yaml:"trail_interval"` // ticks between trail points
	StatsWindow   float64 `yaml:"stats_window"`   // seconds between perf logs
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameDuration time.Duration // one tick
	BorderPixels  int           // margin around the maze, one floor tile
	Timeout       time.Duration
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file; lists replace wholesale.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FrameDuration = time.Duration(float64(time.Second) / c.Simulation.FrameRate)
	c.Derived.BorderPixels = int(c.Maze.FloorSegmentLength * float64(c.Screen.PPI))
	c.Derived.Timeout = time.Duration(c.Network.Timeout * float64(time.Second))
}

// Validate checks the values the simulation cannot run without. Device
// definitions are checked again when the devices are built.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Simulation.FrameRate > 0, "simulation.frame_rate must be positive, got %v", c.Simulation.FrameRate)
	check(c.Screen.PPI > 0, "screen.ppi must be positive, got %d", c.Screen.PPI)
	check(c.Maze.WallSegmentLength > 0, "maze.wall_segment_length must be positive")
	check(c.Maze.FloorSegmentLength > 0, "maze.floor_segment_length must be positive")
	check(c.Robot.Width > 0 && c.Robot.Length > 0, "robot.width and robot.length must be positive")
	check(!c.Block.Enabled || c.Block.Size > 0, "block.size must be positive")
	check(validPort(c.Network.PortRx) && validPort(c.Network.PortTx), "network ports must be in [0, 65535]")
	check(c.Network.PortRx == 0 || c.Network.PortRx != c.Network.PortTx, "network.port_rx and network.port_tx must differ")
	check(len(c.Network.FrameStart) == 1 && len(c.Network.FrameEnd) == 1,
		"network.frame_start and network.frame_end must be single characters")
	check(c.Network.FrameStart != c.Network.FrameEnd, "network.frame_start and network.frame_end must differ")
	check(c.Network.RoundDigits >= 0 && c.Network.RoundDigits <= 15, "network.round_digits must be in [0, 15]")
	check(c.Telemetry.TrailInterval >= 0, "telemetry.trail_interval must not be negative")

	for _, u := range c.Sensors.Ultrasonic {
		check(u.Rays > 0, "ultrasonic %s: rays must be positive", u.ID)
		check(u.MaxRange > 0, "ultrasonic %s: max_range must be positive", u.ID)
	}
	for _, s := range c.Sensors.Infrared {
		check(s.Threshold >= 0 && s.Threshold <= 1, "infrared %s: threshold must be in [0, 1]", s.ID)
	}
	return errors.Join(errs...)
}

func validPort(p int) bool { return p >= 0 && p <= 65535 }

// Framing returns the packet markers as bytes. Only valid after Validate.
func (c *Config) Framing() (start, end byte) {
	return c.Network.FrameStart[0], c.Network.FrameEnd[0]
}

// LoadGrid reads the configured maze file, or the embedded default maze when
// none is set.
func (c *Config) LoadGrid() (maze.Grid, error) {
	if c.Maze.File == "" {
		return maze.ParseGrid(bytes.NewReader(defaultMaze))
	}
	return maze.LoadGrid(c.Maze.File)
}

// TraceFrames converts a display time into a whole number of ticks.
func (c *Config) TraceFrames(seconds float64) int {
	return int(seconds * c.Simulation.FrameRate)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
