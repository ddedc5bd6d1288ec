package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrasim/internal/config"
	"terrasim/internal/grid"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.World.GridSize = 24
	cfg.World.NumberOfSprings = 3
	return cfg
}

func TestNew_GeneratesWorld(t *testing.T) {
	e, err := New(testConfig(), 1)
	require.NoError(t, err)

	snap := e.Snapshot()
	assert.Equal(t, uint64(0), snap.Tick)
	assert.Equal(t, 0, snap.Time.Hour)
}

func TestTick_AdvancesClockAndCounter(t *testing.T) {
	e, err := New(testConfig(), 1)
	require.NoError(t, err)

	require.NoError(t, e.Tick())
	snap := e.Snapshot()

	assert.Equal(t, uint64(1), snap.Tick)
	assert.Equal(t, 1, snap.Time.Hour)
}

func TestTick_RunsFullPipelineWithoutPanicking(t *testing.T) {
	e, err := New(testConfig(), 2)
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		require.NoError(t, e.Tick())
	}

	snap := e.Snapshot()
	assert.Equal(t, uint64(12), snap.Tick)
}

func TestSnapshot_IsIsolatedFromLaterTicks(t *testing.T) {
	e, err := New(testConfig(), 3)
	require.NoError(t, err)
	require.NoError(t, e.Tick())

	snap := e.Snapshot()
	before := snap.World.Cell(0, 0).Temperature

	require.NoError(t, e.Tick())
	require.NoError(t, e.Tick())

	assert.Equal(t, before, snap.World.Cell(0, 0).Temperature)
}

func TestRegenerate_ResetsTickCounterAndHydrology(t *testing.T) {
	e, err := New(testConfig(), 4)
	require.NoError(t, err)
	require.NoError(t, e.Tick())
	require.NoError(t, e.Tick())

	require.NoError(t, e.Regenerate(nil, 5))

	snap := e.Snapshot()
	assert.Equal(t, uint64(0), snap.Tick)
}

func TestRegenerate_FailureLeavesPriorWorldIntact(t *testing.T) {
	e, err := New(testConfig(), 6)
	require.NoError(t, err)
	require.NoError(t, e.Tick())
	before := e.Snapshot()

	badCfg := testConfig()
	badCfg.World.SpringMinHeight = badCfg.World.MaxHeight + 100
	badCfg.World.SpringMaxHeight = badCfg.World.MaxHeight + 200

	err = e.Regenerate(badCfg, 7)
	require.Error(t, err)

	after := e.Snapshot()
	assert.Equal(t, before.Tick, after.Tick)
}

func TestTick_RejectsOverlap(t *testing.T) {
	e, err := New(testConfig(), 8)
	require.NoError(t, err)

	e.running.Lock()
	defer e.running.Unlock()

	err = e.Tick()
	assert.Error(t, err)
}

func TestTick_MoistureMirrorsBaseMoisture(t *testing.T) {
	e, err := New(testConfig(), 10)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		require.NoError(t, e.Tick())
	}

	snap := e.Snapshot()
	width, height := snap.World.Dim()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := snap.World.Cell(x, y)
			assert.Equal(t, c.BaseMoisture, c.Moisture, "cell (%d,%d): moisture must mirror base_moisture outside propagation", x, y)
		}
	}
}

func TestTick_CellsStayOnTorus(t *testing.T) {
	e, err := New(testConfig(), 9)
	require.NoError(t, err)
	require.NoError(t, e.Tick())

	snap := e.Snapshot()
	width, height := snap.World.Dim()
	assert.Equal(t, grid.Wrap(width, width), 0)
	assert.Equal(t, grid.Wrap(height, height), 0)
}
