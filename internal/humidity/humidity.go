// Package humidity diffuses air humidity across neighbors subject to
// temperature- and altitude-dependent saturation capacity, and
// condenses oversaturated air onto the ground (spec §4.K, §4.L).
package humidity

import (
	"math"

	"terrasim/internal/config"
	"terrasim/internal/grid"
)

// capacity returns the absolute-humidity capacity of a cell given its
// temperature and terrain height (spec §4.K). The base-saturation
// constant is shared with internal/clouds' threshold formula — both
// describe the same underlying "how much moisture can air near this
// terrain hold" quantity.
func capacity(c *grid.Cell, cfg *config.Config) float64 {
	dc := cfg.Diffusion
	return cfg.Cloud.BaseSaturation *
		math.Exp(dc.TempCoefficient*c.Temperature) *
		math.Exp(-math.Max(0, c.TerrainHeight)/dc.ScaleHeight)
}

// Diffuse runs DIFFUSION_ITERATIONS double-buffered passes of
// saturation-aware humidity transfer (spec §4.K). Each pass converts
// relative humidity to absolute, pushes bounded transfers to neighbors
// from a fixed source snapshot, then converts back. Each single transfer
// is bounded by the destination's headroom at the start of the pass;
// transfers from several sources into one cell are bounded separately,
// so together they can push that cell above its capacity.
func Diffuse(w *grid.World, cfg *config.Config) {
	dc := cfg.Diffusion
	width, height := w.Dim()
	n := w.Len()

	capacities := make([]float64, n)
	for i := 0; i < n; i++ {
		capacities[i] = capacity(w.At(i), cfg)
	}

	for iter := 0; iter < dc.Iterations; iter++ {
		delta := make([]float64, n)
		processed := 0

		for y := 0; y < height && processed < dc.MaxCellsProcessedPerTick; y++ {
			for x := 0; x < width && processed < dc.MaxCellsProcessedPerTick; x++ {
				c := w.Cell(x, y)
				if c.AirHumidity < dc.MinTransferThreshold {
					continue
				}
				processed++

				srcIdx := w.WrappedIndex(x, y)
				srcCap := capacities[srcIdx]
				aSource := c.AirHumidity * srcCap

				for _, nb := range w.NeighborCoords(x, y) {
					dstIdx := w.WrappedIndex(nb.X, nb.Y)
					neighbor := w.Cell(nb.X, nb.Y)

					dAlt := neighbor.Altitude - c.Altitude
					k := dc.DiffusionRate
					if dAlt > 0 {
						k += math.Min(dc.UpwardBiasMax, dAlt*dc.UpwardBiasCoeff)
					} else if dAlt < 0 {
						k -= math.Min(dc.DownwardPenaltyMax, -dAlt*dc.DownwardPenaltyCoeff)
						if k < 0 {
							k = 0
						}
					}

					aDest := neighbor.AirHumidity * capacities[dstIdx]
					headroom := capacities[dstIdx] - aDest
					if headroom <= 0 {
						continue
					}

					dA := math.Min(k*aSource, headroom)
					if dA <= 0 {
						continue
					}

					delta[srcIdx] -= dA
					delta[dstIdx] += dA
				}
			}
		}

		for i := 0; i < n; i++ {
			c := w.At(i)
			absolute := c.AirHumidity*capacities[i] + delta[i]
			if capacities[i] > 0 {
				c.AirHumidity = math.Max(0, absolute/capacities[i])
			}
		}
	}
}

// Condense moves oversaturated air humidity onto the ground, with an
// additional smaller dew transfer once humidity crosses the dew
// threshold (spec §4.L).
func Condense(w *grid.World, cfg *config.Config) {
	cc := cfg.Condensation
	mc := cfg.Moisture

	for i := 0; i < w.Len(); i++ {
		c := w.At(i)

		if c.AirHumidity > 1 {
			d := cc.Rate * (c.AirHumidity - 1)
			c.AirHumidity -= d
			c.BaseMoisture = math.Min(mc.MaxLandMoisture, c.BaseMoisture+d*cc.AirToGroundFactor)
			c.Moisture = c.BaseMoisture
		}

		if c.AirHumidity > cc.DewThreshold {
			d := cc.DewRate * (c.AirHumidity - cc.DewThreshold)
			c.AirHumidity -= d
			c.BaseMoisture = math.Min(mc.MaxLandMoisture, c.BaseMoisture+d*cc.AirToGroundFactor)
			c.Moisture = c.BaseMoisture
		}
	}
}
