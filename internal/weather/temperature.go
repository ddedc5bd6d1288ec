// Package weather implements the temperature and pressure/wind
// subsystems (spec §4.D, §4.E).
package weather

import (
	"math"

	"terrasim/internal/clock"
	"terrasim/internal/config"
	"terrasim/internal/grid"
)

// monthlyTemp is one entry of the fixed day/night baseline table
// consulted for the diurnal offset (spec §4.D).
type monthlyTemp struct {
	day   float64
	night float64
}

// monthlyTemps is indexed by month-1, Northern-hemisphere-like: coldest
// around month 1/12, warmest around month 6/7.
var monthlyTemps = [12]monthlyTemp{
	{day: -2, night: -10},
	{day: 2, night: -6},
	{day: 8, night: 0},
	{day: 14, night: 5},
	{day: 20, night: 10},
	{day: 24, night: 14},
	{day: 26, night: 16},
	{day: 24, night: 14},
	{day: 18, night: 9},
	{day: 10, night: 2},
	{day: 2, night: -5},
	{day: -4, night: -11},
}

// seasonCosine returns the once-per-tick season factor S, peaking at
// yearProgress=0.5 (spec §4.D).
func seasonCosine(yearProgress float64) float64 {
	return math.Cos(2 * math.Pi * (yearProgress - 0.5))
}

// UpdateTemperature computes per-cell temperature from latitude-zone,
// altitude, season and hour (spec §4.D). Per-row quantities (theta, z,
// d, the zone sign, the seasonal amplitude) are precomputed once per
// row so the whole pass stays O(W·H).
func UpdateTemperature(w *grid.World, gt *clock.GameTime, cfg *config.Config) {
	width, height := w.Dim()

	monthIdx := ((gt.Month - 1) % 12 + 12) % 12
	mt := monthlyTemps[monthIdx]
	diurnalOffset := mt.night
	if gt.IsDay {
		diurnalOffset = mt.day
	}

	season := seasonCosine(gt.YearProgress(cfg))
	tc := cfg.Temperature

	for y := 0; y < height; y++ {
		theta := (float64(y) / float64(height)) * 2 * math.Pi
		z := math.Sin(2 * theta)
		d := math.Abs(z)
		warm := z > 0

		sign := -1.0
		extreme := tc.ColdZoneC
		if warm {
			sign = 1.0
			extreme = tc.WarmZoneC
		}

		tBase := extreme * d
		amplitude := tc.SeasonAmpMin + (tc.SeasonAmpMax-tc.SeasonAmpMin)*d
		tSeason := amplitude * season * sign

		for x := 0; x < width; x++ {
			c := w.Cell(x, y)
			tAlt := tc.LapseRate * math.Max(0, c.TerrainHeight)
			c.Temperature = tBase + tAlt + tSeason + diurnalOffset
		}
	}
}
