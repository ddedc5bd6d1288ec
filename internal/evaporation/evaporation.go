// Package evaporation moves water from standing water and damp ground
// back into the air (spec §4.J).
package evaporation

import (
	"math"

	"terrasim/internal/config"
	"terrasim/internal/grid"
)

// Apply runs the water-cell evaporation formula and the non-water
// evapotranspiration formula over every cell. Both are purely local, so
// no double buffer is required.
func Apply(w *grid.World, cfg *config.Config) {
	ec := cfg.Evaporation

	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		if c.WaterHeight > 0 {
			if c.Temperature >= 0 {
				evaporateWater(c, ec)
			}
			continue
		}
		if c.BaseMoisture >= ec.MinGroundMoisture {
			evapotranspire(c, ec)
		}
	}
}

func evaporateWater(c *grid.Cell, ec config.Evaporation) {
	kT := math.Max(0, 1+ec.TempCoeff*c.Temperature)
	kA := math.Min(1, c.WaterHeight/ec.MaxDepth)
	kDef := math.Max(0, 1-c.AirHumidity)

	dW := math.Min(c.WaterHeight, ec.BaseRate*kT*kA*kDef)

	c.WaterHeight -= dW
	c.RecomputeAltitude()
	c.AirHumidity = math.Min(1.5, c.AirHumidity+dW*ec.WaterToHumidityFactor)
}

func evapotranspire(c *grid.Cell, ec config.Evaporation) {
	kDef := math.Max(0, 1-c.AirHumidity)
	dW := math.Min(c.BaseMoisture, ec.BaseEvapotranspiration*c.BaseMoisture*kDef)

	c.BaseMoisture -= dW
	c.Moisture = c.BaseMoisture
	c.AirHumidity = math.Min(1.5, c.AirHumidity+dW*ec.WaterToHumidityFactor)
}
