// Package transport carries humidity and heat downwind from each cell's
// upwind neighbor (spec §4.F).
package transport

import (
	"math"

	"terrasim/internal/config"
	"terrasim/internal/grid"
)

// octantOffsets maps a wind direction's nearest compass octant to the
// (dx, dy) of the neighbor that direction points at, in angular order
// starting from north and going clockwise.
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

// upwindOffset snaps a wind_direction (degrees, direction wind blows
// FROM) to the nearest octant and returns the offset of the upwind
// neighbor that air at this cell arrived from.
func upwindOffset(directionDeg float64) (dx, dy int) {
	octant := int(math.Round(directionDeg/45)) % 8
	if octant < 0 {
		octant += 8
	}
	return octantOffsets[octant][0], octantOffsets[octant][1]
}

// Advect moves humidity and heat from each cell's upwind neighbor
// toward it, proportional to wind strength (spec §4.F). Deltas are
// accumulated into a pair of buffers before anything is written back,
// and each exchange is applied antisymmetrically to both ends of the
// pair it moves between — so the pass is order-independent and
// conserves the grid's total heat. Total humidity is conserved as long
// as no cell is driven below zero; where one is, the clamp at zero adds
// the difference back.
func Advect(w *grid.World, cfg *config.Config) {
	width, height := w.Dim()
	n := w.Len()
	wt := cfg.WindTransport

	humidityDelta := make([]float64, n)
	heatDelta := make([]float64, n)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := w.Cell(x, y)
			if c.WindSpeed < wt.MinWindForTransport {
				continue
			}

			dx, dy := upwindOffset(c.WindDirection)
			src := w.Cell(x+dx, y+dy)

			dstIdx := w.WrappedIndex(x, y)
			srcIdx := w.WrappedIndex(x+dx, y+dy)
			speedFactor := math.Min(1, c.WindSpeed/cfg.Weather.MaxWindSpeed)

			// Donor-cell (pure upwind copy), not a gradient: spec §4.F
			// defines Δh = h[sx,sy]·k_h, unlike heat's difference formula.
			dHumidity := wt.HumidityRate * speedFactor * src.AirHumidity
			humidityDelta[dstIdx] += dHumidity
			humidityDelta[srcIdx] -= dHumidity

			dHeat := wt.HeatRate * speedFactor * (src.Temperature - c.Temperature)
			heatDelta[dstIdx] += dHeat
			heatDelta[srcIdx] -= dHeat
		}
	}

	for i := 0; i < n; i++ {
		c := w.At(i)
		c.AirHumidity = math.Max(0, c.AirHumidity+humidityDelta[i])
		c.Temperature += heatDelta[i]
	}
}
