// Package hydrology runs the per-tick water-cell state machine: erosion,
// downhill flow, river creation and merging (spec §4.I).
package hydrology

import (
	"math"

	"github.com/google/uuid"

	"terrasim/internal/config"
	"terrasim/internal/grid"
)

// waterHeightSeepage is the small fixed per-tick water loss applied
// during the erosion pass, distinct from the physical evaporation model
// in internal/evaporation (spec §4.J), which already accounts for the
// bulk of water loss to the air.
const waterHeightSeepage = 0.01

// State is the hydrology engine's carried-forward memory: the active
// water set and the river-name merge ledger. Both must persist across
// ticks, so callers keep one State per world for its lifetime.
type State struct {
	active   []grid.Coord
	inActive map[grid.Coord]bool
	mergeMap map[string]string
}

// NewState scans the world for existing spring/river cells and seeds the
// active water set from them (spec §4.I). Call this once after terrain
// generation, before the first Tick.
func NewState(w *grid.World) *State {
	s := &State{
		inActive: make(map[grid.Coord]bool),
		mergeMap: make(map[string]string),
	}
	width, height := w.Dim()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := w.Cell(x, y)
			if c.IsWaterBody() {
				s.add(grid.Coord{X: x, Y: y})
			}
		}
	}
	return s
}

func (s *State) add(co grid.Coord) {
	if s.inActive[co] {
		return
	}
	s.inActive[co] = true
	s.active = append(s.active, co)
}

// resolve follows the merge chain for a river name until it reaches a
// name with no further mapping, guarding against (unexpected) cycles.
func (s *State) resolve(name string) string {
	seen := 0
	for {
		next, ok := s.mergeMap[name]
		if !ok || seen > len(s.mergeMap) {
			return name
		}
		name = next
		seen++
	}
}

// Tick runs one hydrology pass over a snapshot of the active water set
// taken at the start of the tick; cells created mid-tick are appended to
// the set for future ticks but are not visited until then (spec §4.I,
// "append-only during a tick; iteration uses a snapshot taken at start").
func (s *State) Tick(w *grid.World, cfg *config.Config) {
	hc := cfg.Hydrology
	snapshot := make([]grid.Coord, len(s.active))
	copy(snapshot, s.active)

	flowEvents := 0

	for _, co := range snapshot {
		cell := w.Cell(co.X, co.Y)
		if !cell.IsWaterBody() {
			continue
		}

		cell.TerrainHeight = math.Max(cfg.World.MinHeight, cell.TerrainHeight-hc.ErosionRateWater*cell.WaterHeight)
		cell.WaterHeight = math.Max(0, cell.WaterHeight-waterHeightSeepage)
		cell.RecomputeAltitude()

		neighbors := w.Neighbors(co.X, co.Y)
		coords := w.NeighborCoords(co.X, co.Y)

		best := -1
		waterNeighborCount := 0
		for i, n := range neighbors {
			if n.IsWaterBody() {
				waterNeighborCount++
			}
			if best == -1 || neighbors[i].Altitude < neighbors[best].Altitude {
				best = i
			}
		}

		lowest := neighbors[best]
		lowestCoord := coords[best]

		if waterNeighborCount >= 2 && lowest.IsWaterBody() {
			continue
		}

		// Compare against the cell's bare terrain, not its full altitude:
		// a water cell's own standing water must not count as a downhill
		// slope toward flat-but-dry neighbors, or a lone spring on flat
		// ground would spuriously spawn a river (spec §8 scenario E3).
		if lowest.Altitude < cell.TerrainHeight {
			flowEvents++
			if lowest.IsWaterBody() {
				lowest.WaterHeight += hc.PourAmount
				lowest.RecomputeAltitude()
				s.mergeRivers(cell, lowest)
			} else {
				s.createRiver(cell, lowest, lowestCoord)
			}
		} else {
			cell.WaterHeight += hc.PourAmount
			cell.RecomputeAltitude()
		}
	}

	if flowEvents == 0 {
		s.bumpLowestActive(w, hc.PourAmount/2)
	}
}

// mergeRivers resolves the two cells' river names and, if they differ,
// records that the upstream (higher-altitude) name is absorbed into the
// downstream one (spec §4.I, "downstream name wins").
func (s *State) mergeRivers(upstream, downstream *grid.Cell) {
	up := s.resolve(upstream.RiverName)
	down := s.resolve(downstream.RiverName)
	if up == "" || down == "" || up == down {
		return
	}
	s.mergeMap[up] = down
}

// createRiver turns a non-water neighbor into a new river cell,
// inheriting (or minting) the upstream cell's river name, and appends it
// to the active water set.
func (s *State) createRiver(upstream, target *grid.Cell, targetCoord grid.Coord) {
	name := upstream.RiverName
	if name == "" {
		name = uuid.NewString()
		upstream.RiverName = name
	}

	target.Type = grid.River
	target.WaterHeight = 0.5
	target.BaseMoisture = 1
	target.Moisture = 1
	target.DistanceFromWater = 0
	target.RiverName = s.resolve(name)
	target.RecomputeAltitude()

	s.add(targetCoord)
}

// bumpLowestActive adds a small nudge to the lowest-altitude cell in the
// active water set so a tick with no flow events doesn't stall forever
// (spec §4.I, "no-progress guard").
func (s *State) bumpLowestActive(w *grid.World, amount float64) {
	if len(s.active) == 0 {
		return
	}
	lowestIdx := 0
	lowest := w.Cell(s.active[0].X, s.active[0].Y)
	for i, co := range s.active {
		c := w.Cell(co.X, co.Y)
		if c.Altitude < lowest.Altitude {
			lowest = c
			lowestIdx = i
		}
	}
	target := w.Cell(s.active[lowestIdx].X, s.active[lowestIdx].Y)
	target.WaterHeight += amount
	target.RecomputeAltitude()
}
