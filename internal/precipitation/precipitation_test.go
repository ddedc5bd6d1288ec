package precipitation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"terrasim/internal/config"
	"terrasim/internal/grid"
)

func TestApply_RainsOutDenseClouds(t *testing.T) {
	cfg := config.Default()
	w := grid.New(2, 2)
	c := w.Cell(0, 0)
	c.CloudDensity = 0.9
	c.AirHumidity = 0.8
	c.Temperature = 10
	startCloud := c.CloudDensity

	Apply(w, cfg)

	assert.Less(t, c.CloudDensity, startCloud)
	assert.Greater(t, c.PrecipitationRate, 0.0)
	assert.Greater(t, c.BaseMoisture, 0.0)
	assert.Less(t, c.Temperature, 10.0)
}

func TestApply_RainsIntoWaterRaisesWaterHeight(t *testing.T) {
	cfg := config.Default()
	w := grid.New(2, 2)
	c := w.Cell(0, 0)
	c.Type = grid.River
	c.CloudDensity = 0.9
	c.AirHumidity = 0.7
	c.WaterHeight = 1.0
	c.TerrainHeight = 5

	Apply(w, cfg)

	assert.Greater(t, c.WaterHeight, 1.0)
	assert.InDelta(t, c.TerrainHeight+c.WaterHeight, c.Altitude, 1e-9)
}

func TestApply_DecaysWhenNotRaining(t *testing.T) {
	cfg := config.Default()
	w := grid.New(2, 2)
	c := w.Cell(0, 0)
	c.CloudDensity = 0.1
	c.PrecipitationRate = 0.4

	Apply(w, cfg)

	assert.Less(t, c.PrecipitationRate, 0.4)
	assert.GreaterOrEqual(t, c.PrecipitationRate, 0.0)
}

func TestApply_MoistureNeverExceedsMax(t *testing.T) {
	cfg := config.Default()
	w := grid.New(2, 2)
	c := w.Cell(0, 0)
	c.CloudDensity = 1.0
	c.AirHumidity = 1.0
	c.BaseMoisture = cfg.Moisture.MaxLandMoisture

	Apply(w, cfg)

	assert.LessOrEqual(t, c.BaseMoisture, cfg.Moisture.MaxLandMoisture)
}
