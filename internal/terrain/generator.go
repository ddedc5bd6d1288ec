// Package terrain builds the initial grid: a tileable coherent-noise
// elevation field plus a seeded set of springs (spec §4.B).
package terrain

import (
	"math/rand"

	"terrasim/internal/config"
	"terrasim/internal/engerr"
	"terrasim/internal/grid"
)

// Generate builds a fresh World from cfg using seed as the sole source
// of randomness — noise field and spring sampling both derive from it,
// never from ambient global randomness (spec §9 "Randomness", needed
// for the determinism property in spec §8.6).
func Generate(cfg *config.Config, seed int64) (*grid.World, error) {
	size := cfg.World.GridSize
	w := grid.New(size, size)

	noise := newTileableNoise(seed, cfg.World.NoiseScale, size, size)
	minH, maxH := cfg.World.MinHeight, cfg.World.MaxHeight

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := w.Cell(x, y)
			n := noise.sample(x, y)
			c.TerrainHeight = n*(maxH-minH) + minH
			c.RecomputeAltitude()
		}
	}

	if err := seedSprings(w, cfg, seed); err != nil {
		return nil, err
	}

	return w, nil
}

// seedSprings samples cfg.World.NumberOfSprings cells without
// replacement from the elevation-band candidates and turns them into
// spring sources (spec §4.B step 4).
func seedSprings(w *grid.World, cfg *config.Config, seed int64) error {
	springMin, springMax := cfg.World.SpringMinHeight, cfg.World.SpringMaxHeight

	var candidates []*grid.Cell
	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		if c.TerrainHeight >= springMin && c.TerrainHeight <= springMax {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return engerr.New(engerr.KindTerrainGeneration, "no spring candidates in elevation band")
	}

	rng := rand.New(rand.NewSource(seed ^ springSeedSalt))
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	n := cfg.World.NumberOfSprings
	if n > len(candidates) {
		n = len(candidates)
	}

	for i := 0; i < n; i++ {
		c := candidates[i]
		c.Type = grid.Spring
		c.WaterHeight = 1
		c.BaseMoisture = 1
		c.Moisture = 1
		c.DistanceFromWater = 0
		c.RecomputeAltitude()
	}

	return nil
}

// springSeedSalt decorrelates spring sampling from the noise field so
// changing NumberOfSprings doesn't reshuffle the terrain itself.
const springSeedSalt = 0x5372696e67 // ASCII "Sring" in hex, arbitrary
