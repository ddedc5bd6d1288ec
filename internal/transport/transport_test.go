package transport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"terrasim/internal/config"
	"terrasim/internal/grid"
)

func TestUpwindOffset_Cardinals(t *testing.T) {
	cases := []struct {
		deg    float64
		dx, dy int
	}{
		{0, 0, -1},
		{90, 1, 0},
		{180, 0, 1},
		{270, -1, 0},
		{360, 0, -1},
	}
	for _, c := range cases {
		dx, dy := upwindOffset(c.deg)
		assert.Equal(t, c.dx, dx, "deg %v dx", c.deg)
		assert.Equal(t, c.dy, dy, "deg %v dy", c.deg)
	}
}

func TestAdvect_NoWindNoChange(t *testing.T) {
	cfg := config.Default()
	w := grid.New(6, 6)
	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		c.AirHumidity = 0.5
		c.Temperature = 10
	}

	Advect(w, cfg)

	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		assert.InDelta(t, 0.5, c.AirHumidity, 1e-9)
		assert.InDelta(t, 10.0, c.Temperature, 1e-9)
	}
}

func TestAdvect_ConservesTotalHumidityAndHeat(t *testing.T) {
	cfg := config.Default()
	w := grid.New(10, 10)

	totalHumidityBefore, totalHeatBefore := 0.0, 0.0
	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		c.AirHumidity = math.Mod(float64(i)*0.037, 1.0)
		c.Temperature = float64(i%7) - 3
		c.WindSpeed = 5 + math.Mod(float64(i)*0.91, 20)
		c.WindDirection = math.Mod(float64(i)*17, 360)
		totalHumidityBefore += c.AirHumidity
		totalHeatBefore += c.Temperature
	}

	Advect(w, cfg)

	totalHumidityAfter, totalHeatAfter := 0.0, 0.0
	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		totalHumidityAfter += c.AirHumidity
		totalHeatAfter += c.Temperature
		assert.GreaterOrEqual(t, c.AirHumidity, 0.0)
	}

	assert.InDelta(t, totalHeatBefore, totalHeatAfter, 1e-6)
	// Humidity is clamped at zero, so it is conserved exactly only when
	// nothing was driven negative (the clamp adds mass when it fires);
	// these inputs drive no cell negative, so the total must not grow.
	assert.LessOrEqual(t, totalHumidityAfter, totalHumidityBefore+1e-9)
}

func TestAdvect_BelowMinWindIsSkipped(t *testing.T) {
	cfg := config.Default()
	w := grid.New(4, 4)
	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		c.AirHumidity = float64(i)
		c.Temperature = float64(i)
		c.WindSpeed = cfg.WindTransport.MinWindForTransport - 0.1
	}

	Advect(w, cfg)

	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		assert.InDelta(t, float64(i), c.AirHumidity, 1e-9)
		assert.InDelta(t, float64(i), c.Temperature, 1e-9)
	}
}
