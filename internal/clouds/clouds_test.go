package clouds

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"terrasim/internal/config"
	"terrasim/internal/grid"
)

func TestFormAndDissipate_FormsAboveThreshold(t *testing.T) {
	cfg := config.Default()
	w := grid.New(3, 3)
	c := w.Cell(1, 1)
	c.AirHumidity = 1.0
	c.CloudDensity = 0.1

	FormAndDissipate(w, cfg)

	assert.Greater(t, c.CloudDensity, 0.1)
	assert.Less(t, c.AirHumidity, 1.0)
}

func TestFormAndDissipate_DissipatesBelowThreshold(t *testing.T) {
	cfg := config.Default()
	w := grid.New(3, 3)
	c := w.Cell(1, 1)
	c.AirHumidity = 0.0
	c.CloudDensity = 0.5

	FormAndDissipate(w, cfg)

	assert.Less(t, c.CloudDensity, 0.5)
	assert.GreaterOrEqual(t, c.CloudDensity, 0.0)
}

func TestFormAndDissipate_ClampsToUnitRange(t *testing.T) {
	cfg := config.Default()
	w := grid.New(2, 2)
	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		c.AirHumidity = 5.0
		c.CloudDensity = 0.99
	}

	for i := 0; i < 50; i++ {
		FormAndDissipate(w, cfg)
	}

	for i := 0; i < w.Len(); i++ {
		assert.LessOrEqual(t, w.At(i).CloudDensity, 1.0)
	}
}

func TestAdvect_ConservesTotalCloudDensity(t *testing.T) {
	cfg := config.Default()
	w := grid.New(8, 8)

	total := 0.0
	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		c.CloudDensity = float64(i%5) / 10
		c.WindSpeed = 4 + float64(i%3)
		c.WindDirection = float64((i * 23) % 360)
		total += c.CloudDensity
	}

	Advect(w, cfg)

	after := 0.0
	for i := 0; i < w.Len(); i++ {
		after += w.At(i).CloudDensity
	}
	assert.InDelta(t, total, after, 1e-6)
}

func TestAdvect_NoWindNoChange(t *testing.T) {
	cfg := config.Default()
	w := grid.New(4, 4)
	for i := 0; i < w.Len(); i++ {
		w.At(i).CloudDensity = 0.3
	}

	Advect(w, cfg)

	for i := 0; i < w.Len(); i++ {
		assert.InDelta(t, 0.3, w.At(i).CloudDensity, 1e-9)
	}
}
