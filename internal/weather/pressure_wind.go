package weather

import (
	"math"

	"terrasim/internal/config"
	"terrasim/internal/grid"
)

// cellPressure computes a transient pressure value for one cell.
// Pressure itself is not part of the Cell entity (spec §3) — it only
// exists to derive wind — so it never touches grid state directly.
func cellPressure(c *grid.Cell, cfg *config.Config) float64 {
	wc := cfg.Weather
	altitude := math.Max(0, c.TerrainHeight)
	return wc.BasePressure -
		wc.PressureLapseRate*altitude +
		wc.TempPressureFactor*(wc.TempRef-c.Temperature) +
		wc.HumidityPressureFactor*(wc.HumidityRef-c.AirHumidity)
}

// vectorFromWind converts a meteorological (speed, direction-from)
// reading into a Cartesian velocity vector, where north is -Y and east
// is +X to match grid.North/grid.East.
func vectorFromWind(speed, directionDeg float64) (vx, vy float64) {
	rad := directionDeg * math.Pi / 180
	vx = -speed * math.Sin(rad)
	vy = speed * math.Cos(rad)
	return
}

// windFromVector is the inverse of vectorFromWind.
func windFromVector(vx, vy float64) (speed, directionDeg float64) {
	speed = math.Hypot(vx, vy)
	if speed == 0 {
		return 0, 0
	}
	deg := math.Atan2(-vx, vy) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return speed, deg
}

// UpdateWind computes the pressure field from current temperature/
// humidity, derives a wind vector from its gradient, and smooths it
// against the previous tick's wind (spec §4.E). Pressure has no
// neighbor-to-neighbor feedback within a tick, so a single read-only
// buffer suffices — no double-buffer swap is needed the way diffusion
// and advection require one.
func UpdateWind(w *grid.World, cfg *config.Config) {
	width, height := w.Dim()
	wc := cfg.Weather

	pressure := make([]float64, w.Len())
	for i := 0; i < w.Len(); i++ {
		pressure[i] = cellPressure(w.At(i), cfg)
	}

	at := func(x, y int) float64 {
		return pressure[w.WrappedIndex(x, y)]
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := w.Cell(x, y)

			gx := (at(x+1, y) - at(x-1, y)) / 2
			gy := (at(x, y+1) - at(x, y-1)) / 2

			vx := -gx * wc.WindGenerationFactor
			vy := -gy * wc.WindGenerationFactor
			clampMagnitude(&vx, &vy, wc.MaxWindSpeed)

			prevVx, prevVy := vectorFromWind(c.WindSpeed, c.WindDirection)
			alpha := wc.WindSmoothingFactor
			newVx := (1-alpha)*prevVx + alpha*vx
			newVy := (1-alpha)*prevVy + alpha*vy
			clampMagnitude(&newVx, &newVy, wc.MaxWindSpeed)

			c.WindSpeed, c.WindDirection = windFromVector(newVx, newVy)
		}
	}
}

func clampMagnitude(vx, vy *float64, max float64) {
	speed := math.Hypot(*vx, *vy)
	if speed > max && speed > 0 {
		scale := max / speed
		*vx *= scale
		*vy *= scale
	}
}
