// Package precipitation rains out dense clouds onto the ground or into
// standing water (spec §4.H).
package precipitation

import (
	"math"

	"terrasim/internal/config"
	"terrasim/internal/grid"
)

// rateFromCloud derives precipitation_rate from cloud density and air
// humidity: monotone in both, bounded to [0,1]. Humidity amplifies the
// rate a saturated sky produces since moisture-laden clouds rain out
// faster than dry ones at the same density.
func rateFromCloud(cloudDensity, airHumidity float64) float64 {
	rate := cloudDensity * math.Min(1, 0.5+0.5*airHumidity)
	if rate > 1 {
		return 1
	}
	if rate < 0 {
		return 0
	}
	return rate
}

// Apply rains out every cell whose cloud density exceeds the
// precipitation threshold, and decays precipitation_rate toward zero
// everywhere else (spec §4.H). Cells are independent this phase.
func Apply(w *grid.World, cfg *config.Config) {
	pc := cfg.Precipitation
	mc := cfg.Moisture

	for i := 0; i < w.Len(); i++ {
		c := w.At(i)

		if c.CloudDensity <= pc.Threshold {
			c.PrecipitationRate = math.Max(0, c.PrecipitationRate-pc.DecayPerTick)
			continue
		}

		c.PrecipitationRate = rateFromCloud(c.CloudDensity, c.AirHumidity)
		c.CloudDensity -= c.PrecipitationRate
		if c.CloudDensity < 0 {
			c.CloudDensity = 0
		}

		if c.IsWaterBody() {
			c.WaterHeight += c.PrecipitationRate
			c.RecomputeAltitude()
		} else {
			c.BaseMoisture = math.Min(mc.MaxLandMoisture, c.BaseMoisture+c.PrecipitationRate)
			c.Moisture = math.Min(mc.MaxLandMoisture, c.Moisture+c.PrecipitationRate)
		}

		c.Temperature -= pc.CoolPerRate * c.PrecipitationRate
	}
}
