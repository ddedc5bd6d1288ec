// Package clouds forms, dissipates and advects cloud cover (spec §4.G).
package clouds

import (
	"math"

	"terrasim/internal/config"
	"terrasim/internal/grid"
)

// altitudeNorm normalizes terrain height into [0,1] against the config's
// configured height range, for the saturation-threshold formula.
func altitudeNorm(terrainHeight float64, cfg *config.Config) float64 {
	span := cfg.World.MaxHeight - cfg.World.MinHeight
	if span <= 0 {
		return 0
	}
	n := (terrainHeight - cfg.World.MinHeight) / span
	switch {
	case n < 0:
		return 0
	case n > 1:
		return 1
	default:
		return n
	}
}

// FormAndDissipate grows or shrinks each cell's cloud cover against its
// altitude-adjusted saturation threshold (spec §4.G). Every cell is
// independent this phase, so no double buffer is needed.
func FormAndDissipate(w *grid.World, cfg *config.Config) {
	cc := cfg.Cloud
	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		threshold := cc.BaseSaturation * (1 - cc.AltitudeSaturationFactor*altitudeNorm(c.TerrainHeight, cfg))

		if c.AirHumidity > threshold {
			delta := (c.AirHumidity - threshold) * cc.FormationRate
			c.CloudDensity = math.Min(1, c.CloudDensity+delta)
			c.AirHumidity -= delta
		} else {
			delta := (threshold - c.AirHumidity) * cc.DissipationRate
			c.CloudDensity = math.Max(0, c.CloudDensity-delta)
		}
	}
}

// octantOffsets mirrors internal/transport's upwind octant table.
var octantOffsets = [8][2]int{
	{0, -1}, // N
	{1, -1}, // NE
	{1, 0},  // E
	{1, 1},  // SE
	{0, 1},  // S
	{-1, 1}, // SW
	{-1, 0}, // W
	{-1, -1}, // NW
}

func upwindOffset(directionDeg float64) (dx, dy int) {
	octant := int(math.Round(directionDeg/45)) % 8
	if octant < 0 {
		octant += 8
	}
	return octantOffsets[octant][0], octantOffsets[octant][1]
}

// Advect moves cloud density downwind using the same upwind scheme as
// wind transport (spec §4.G, §4.F), double-buffered so the pass stays
// iteration-order independent.
func Advect(w *grid.World, cfg *config.Config) {
	width, height := w.Dim()
	n := w.Len()
	rate := cfg.Cloud.AdvectionRate

	delta := make([]float64, n)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := w.Cell(x, y)
			if c.WindSpeed <= 0 {
				continue
			}

			dx, dy := upwindOffset(c.WindDirection)
			src := w.Cell(x+dx, y+dy)

			dstIdx := w.WrappedIndex(x, y)
			srcIdx := w.WrappedIndex(x+dx, y+dy)
			speedFactor := math.Min(1, c.WindSpeed/cfg.Weather.MaxWindSpeed)

			// Donor-cell (pure upwind copy), not a gradient, matching
			// internal/transport's humidity formula.
			d := rate * speedFactor * src.CloudDensity
			delta[dstIdx] += d
			delta[srcIdx] -= d
		}
	}

	for i := 0; i < n; i++ {
		c := w.At(i)
		v := c.CloudDensity + delta[i]
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		c.CloudDensity = v
	}
}
