package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60.0, cfg.Simulation.FrameRate)
	assert.Equal(t, uint64(5489), cfg.Simulation.ErrorSeed)
	assert.Equal(t, 16, cfg.Screen.PPI)
	assert.Equal(t, 48, cfg.Derived.BorderPixels)
	assert.Equal(t, time.Second/60, cfg.Derived.FrameDuration)
	assert.Equal(t, 180*time.Second, cfg.Derived.Timeout)

	assert.Len(t, cfg.Motors, 2)
	require.Len(t, cfg.Drives, 3)
	assert.Equal(t, "w0", cfg.Drives[0].ID)
	assert.Equal(t, [2]float64{6, 0}, cfg.Drives[1].Velocity)
	assert.Equal(t, []string{"m0", "m1"}, cfg.Drives[2].Motors)
	assert.Equal(t, []float64{1, -1}, cfg.Drives[2].Directions)
	assert.Len(t, cfg.Sensors.Ultrasonic, 2)
	assert.Len(t, cfg.Sensors.Infrared, 1)

	start, end := cfg.Framing()
	assert.Equal(t, byte('['), start)
	assert.Equal(t, byte(']'), end)
	assert.Equal(t, 30, cfg.TraceFrames(0.5))
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.yaml")
	overlay := []byte(`
simulation:
  frame_rate: 30
network:
  port_rx: 0
  port_tx: 0
drives:
  - id: w0
    velocity: [0, 3]
    motors: [m0, m1]
    motor_direction: [1, 1]
`)
	require.NoError(t, os.WriteFile(path, overlay, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30.0, cfg.Simulation.FrameRate)
	assert.Equal(t, time.Second/30, cfg.Derived.FrameDuration)
	assert.Equal(t, 16, cfg.Screen.PPI, "fields absent from the overlay keep their defaults")
	require.Len(t, cfg.Drives, 1, "lists replace the defaults")
	assert.Equal(t, [2]float64{0, 3}, cfg.Drives[0].Velocity)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation: [oops"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero frame rate", func(c *Config) { c.Simulation.FrameRate = 0 }},
		{"zero ppi", func(c *Config) { c.Screen.PPI = 0 }},
		{"zero wall length", func(c *Config) { c.Maze.WallSegmentLength = 0 }},
		{"negative floor length", func(c *Config) { c.Maze.FloorSegmentLength = -3 }},
		{"flat robot", func(c *Config) { c.Robot.Width = 0 }},
		{"port out of range", func(c *Config) { c.Network.PortTx = 70000 }},
		{"same ports", func(c *Config) { c.Network.PortTx = c.Network.PortRx }},
		{"long frame marker", func(c *Config) { c.Network.FrameStart = "<<" }},
		{"same frame markers", func(c *Config) { c.Network.FrameEnd = c.Network.FrameStart }},
		{"too many digits", func(c *Config) { c.Network.RoundDigits = 20 }},
		{"no rays", func(c *Config) { c.Sensors.Ultrasonic[0].Rays = 0 }},
		{"threshold above one", func(c *Config) { c.Sensors.Infrared[0].Threshold = 1.5 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tc.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "error should wrap ErrInvalid: %v", err)
		})
	}
}

func TestLoadGrid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	grid, err := cfg.LoadGrid()
	require.NoError(t, err)
	assert.Equal(t, 4, grid.Rows())
	assert.Equal(t, 8, grid.Cols())
	assert.Equal(t, 0, grid.At(0, 4))

	path := filepath.Join(t.TempDir(), "maze.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,0\n0,1\n"), 0644))
	cfg.Maze.File = path
	grid, err = cfg.LoadGrid()
	require.NoError(t, err)
	assert.Equal(t, 2, grid.Rows())
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Simulation.FrameRate = 24

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 24.0, again.Simulation.FrameRate)
	assert.Equal(t, cfg.Drives, again.Drives)
}
