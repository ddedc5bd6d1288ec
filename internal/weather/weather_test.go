package weather

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"terrasim/internal/clock"
	"terrasim/internal/config"
	"terrasim/internal/grid"
)

func TestUpdateTemperature_WarmerAtWarmLatitude(t *testing.T) {
	cfg := config.Default()
	w := grid.New(16, 16)
	gt := clock.New()
	gt.Month = 6
	gt.Hour = 12

	UpdateTemperature(w, gt, cfg)

	// y/height = 0.25 -> theta = pi/2 -> z = sin(pi) = 0 (boundary);
	// pick a row clearly in the warm band: z = sin(2*theta) > 0.
	warmRow := w.Cell(0, 2) // theta = pi/4, 2*theta = pi/2, sin = 1 (warm peak)
	coldRow := w.Cell(0, 6) // past the first warm peak into a cold band
	assert.Greater(t, warmRow.Temperature, coldRow.Temperature)
}

func TestUpdateTemperature_AltitudeCoolsCells(t *testing.T) {
	cfg := config.Default()
	w := grid.New(8, 8)
	gt := clock.New()

	lowland := w.Cell(0, 0)
	lowland.TerrainHeight = 0

	highland := w.Cell(1, 0)
	highland.TerrainHeight = 2000

	UpdateTemperature(w, gt, cfg)

	assert.Less(t, w.Cell(1, 0).Temperature, w.Cell(0, 0).Temperature)
}

func TestVectorWindRoundTrip(t *testing.T) {
	speed, dir := 12.5, 135.0
	vx, vy := vectorFromWind(speed, dir)
	gotSpeed, gotDir := windFromVector(vx, vy)

	assert.InDelta(t, speed, gotSpeed, 1e-9)
	assert.InDelta(t, dir, gotDir, 1e-9)
}

func TestUpdateWind_DirectionInRange(t *testing.T) {
	cfg := config.Default()
	w := grid.New(20, 20)
	gt := clock.New()
	UpdateTemperature(w, gt, cfg)

	// Seed some humidity/temperature variance so the pressure field isn't flat.
	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		c.AirHumidity = math.Mod(float64(i)*0.013, 1.0)
	}

	UpdateWind(w, cfg)

	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		assert.GreaterOrEqual(t, c.WindDirection, 0.0)
		assert.Less(t, c.WindDirection, 360.0)
		assert.GreaterOrEqual(t, c.WindSpeed, 0.0)
		assert.LessOrEqual(t, c.WindSpeed, cfg.Weather.MaxWindSpeed+1e-9)
	}
}

func TestUpdateWind_FlatFieldProducesNoWind(t *testing.T) {
	cfg := config.Default()
	w := grid.New(10, 10)
	// Every cell identical -> zero pressure gradient everywhere.
	UpdateWind(w, cfg)

	for i := 0; i < w.Len(); i++ {
		assert.InDelta(t, 0.0, w.At(i).WindSpeed, 1e-9)
	}
}
