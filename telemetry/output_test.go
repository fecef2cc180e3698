package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/simmer/components"
	"github.com/pthm-cable/simmer/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	require.NoError(t, err)
	assert.Nil(t, om)

	// nil receivers are no-ops
	assert.NoError(t, om.WriteTrail(components.TrailPoint{Tick: 1}))
	assert.NoError(t, om.WritePerf(PerfStats{}, 1))
	assert.NoError(t, om.WriteConfig(nil))
	assert.NoError(t, om.Close())
	assert.Equal(t, "", om.Dir())
}

func TestOutputManagerWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, om.Dir())

	require.NoError(t, om.WriteTrail(
		components.TrailPoint{Tick: 0, X: 12, Y: 6, Rotation: 0},
		components.TrailPoint{Tick: 1, X: 12, Y: 6.1, Rotation: 0},
	))
	require.NoError(t, om.WriteTrail(components.TrailPoint{Tick: 2, X: 12, Y: 6.2, Collision: true}))
	require.NoError(t, om.WriteTrail())

	stats := PerfStats{
		Ticks:           10,
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct:        map[Phase]float64{PhaseSensors: 50},
	}
	require.NoError(t, om.WritePerf(stats, 60))
	require.NoError(t, om.WritePerf(stats, 120))

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.NoError(t, om.WriteConfig(cfg))
	require.NoError(t, om.Close())

	trail, err := os.ReadFile(filepath.Join(dir, "trail.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(trail)), "\n")
	require.Len(t, lines, 4, "one header and three rows")
	assert.Equal(t, "tick,x,y,rotation,collision", lines[0])
	assert.Equal(t, "2,12,6.2,0,true", lines[3])

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(perf)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "60,"), "row starts with tick: %q", lines[1])

	_, err = config.Load(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err, "written config loads back")
}
