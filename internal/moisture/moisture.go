// Package moisture spreads ground moisture outward from every water
// cell by breadth-first search, then lets it decay and (optionally)
// smooth into the surrounding terrain (spec §4.M).
package moisture

import (
	"math"

	"github.com/rs/zerolog/log"

	"terrasim/internal/config"
	"terrasim/internal/grid"
)

const sqrtHalf = 0.70710678118

// Propagate reseeds every water cell to full saturation, floods
// base_moisture outward by BFS up to MAX_MOISTURE_PROPAGATION_DISTANCE,
// applies a grid-wide evaporative decay, optionally smooths the result,
// and recomputes each land cell's Type from the result (spec §4.M).
func Propagate(w *grid.World, cfg *config.Config) {
	pc := cfg.Propagation
	width, height := w.Dim()

	queue := make([]grid.Coord, 0, w.Len())

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := w.Cell(x, y)
			if c.IsWaterBody() {
				c.BaseMoisture = 1
				c.Moisture = 1
				c.DistanceFromWater = 0
				queue = append(queue, grid.Coord{X: x, Y: y})
			} else {
				c.DistanceFromWater = grid.Unreached
			}
		}
	}

	processed := 0
	capped := false
	for head := 0; head < len(queue); head++ {
		if processed >= pc.MaxCellsProcessed {
			capped = true
			break
		}

		co := queue[head]
		cell := w.Cell(co.X, co.Y)
		d := cell.DistanceFromWater

		for _, nbCoord := range w.NeighborCoords(co.X, co.Y) {
			neighbor := w.Cell(nbCoord.X, nbCoord.Y)
			if neighbor.IsWaterBody() || neighbor.DistanceFromWater != grid.Unreached {
				continue
			}

			dNext := d + 1
			if dNext > pc.MaxDistance {
				continue
			}

			decay := math.Exp(-float64(dNext) * pc.DistanceDecayRate)
			waterBoost := 1 + math.Min(cell.WaterHeight*pc.WaterVolumeBoostFactor, pc.MaxWaterVolumeBoost)
			base := decay * pc.TransferRate * waterBoost
			if base < pc.MinTransfer {
				continue
			}

			dAlt := neighbor.Altitude - cell.Altitude
			mult := 1.0
			switch {
			case dAlt > 0:
				mult = 1 - dAlt*pc.UphillPenaltyPercent
			case dAlt < 0:
				mult = 1 + (-dAlt)*pc.DownhillBonusPercent
			}
			mult -= math.Max(0, neighbor.TerrainHeight) * pc.AltitudeDrynessPercent
			mult = clamp(mult, 0.05, 1.5)

			saturation := math.Pow(1-neighbor.BaseMoisture/cfg.Moisture.MaxLandMoisture, pc.SaturationExponent)

			increment := base * mult * saturation
			if increment <= 1e-5 {
				continue
			}

			neighbor.BaseMoisture = math.Min(cfg.Moisture.MaxLandMoisture, neighbor.BaseMoisture+increment)
			neighbor.Moisture = neighbor.BaseMoisture
			neighbor.DistanceFromWater = dNext
			processed++
			queue = append(queue, nbCoord)
		}
	}

	if capped {
		log.Warn().
			Int("maxCellsProcessed", pc.MaxCellsProcessed).
			Msg("ground moisture propagation hit its processing cap; continuing next tick")
	}

	applyDecay(w, pc.BaseDecay)

	for i := 0; i < pc.SmoothingIterations; i++ {
		smooth(w)
	}

	recomputeTypes(w, cfg)
}

func applyDecay(w *grid.World, baseDecay float64) {
	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		if c.IsWaterBody() {
			continue
		}
		c.BaseMoisture = math.Max(1e-6, c.BaseMoisture*baseDecay)
		c.Moisture = c.BaseMoisture
	}
}

// smooth runs one Laplacian-smoothing pass over non-water cells using
// a diagonal weight of 1/sqrt(2), for organic moisture gradients.
func smooth(w *grid.World) {
	width, height := w.Dim()
	n := w.Len()
	next := make([]float64, n)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := w.WrappedIndex(x, y)
			c := w.Cell(x, y)
			if c.IsWaterBody() {
				next[idx] = c.BaseMoisture
				continue
			}

			neighbors := w.Neighbors(x, y)
			sum := c.BaseMoisture
			weight := 1.0
			for _, dir := range []grid.Direction{grid.North, grid.South, grid.West, grid.East} {
				sum += neighbors[dir].BaseMoisture
				weight += 1.0
			}
			for _, dir := range []grid.Direction{grid.Northwest, grid.Northeast, grid.Southwest, grid.Southeast} {
				sum += neighbors[dir].BaseMoisture * sqrtHalf
				weight += sqrtHalf
			}
			next[idx] = sum / weight
		}
	}

	for i := 0; i < n; i++ {
		c := w.At(i)
		if !c.IsWaterBody() {
			c.BaseMoisture = next[i]
			c.Moisture = next[i]
		}
	}
}

func recomputeTypes(w *grid.World, cfg *config.Config) {
	mc := cfg.Moisture
	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		if c.IsWaterBody() {
			continue
		}
		c.Type = grid.ClassifyType(c.BaseMoisture, mc.MudThreshold, mc.EarthThreshold)
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
