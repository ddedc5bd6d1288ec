// Package grid owns the toroidal world grid: the Cell value, the World
// store, and wrap-aware neighbor lookup. No other package may index a
// World's backing slice directly (spec §4.A, §9 "Toroidal indexing
// everywhere").
package grid

// Type classifies a cell's ground cover, derived from moisture and
// water state (spec §3 invariant 4).
type Type string

const (
	Rock   Type = "rock"
	Earth  Type = "earth"
	Mud    Type = "mud"
	Spring Type = "spring"
	River  Type = "river"
)

// Unreached is the sentinel distance for a cell the ground-moisture BFS
// has not yet visited this tick (spec §3, "+∞ sentinel").
const Unreached = -1

// Cell is one grid site. All fields are exported so subsystems can
// mutate them directly; Type and Altitude are derived values recomputed
// by the owning subsystem rather than stored independently of their
// inputs.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`

	TerrainHeight float64 `json:"terrain_height"`
	WaterHeight   float64 `json:"water_height"`
	Altitude      float64 `json:"altitude"`

	BaseMoisture float64 `json:"base_moisture"`
	Moisture     float64 `json:"moisture"`

	DistanceFromWater int  `json:"distance_from_water"`
	Type              Type `json:"type"`

	Temperature float64 `json:"temperature"`

	AirHumidity       float64 `json:"air_humidity"`
	CloudDensity      float64 `json:"cloud_density"`
	PrecipitationRate float64 `json:"precipitation_rate"`

	WindSpeed     float64 `json:"wind_speed"`
	WindDirection float64 `json:"wind_direction"`

	RiverName string `json:"river_name,omitempty"`
}

// RecomputeAltitude restores invariant 1 (spec §3): altitude is always
// terrain plus standing water.
func (c *Cell) RecomputeAltitude() {
	c.Altitude = c.TerrainHeight + c.WaterHeight
}

// IsWaterBody reports whether the cell is a persistent water source or
// flow (spring or river), per spec §3 invariant 2.
func (c *Cell) IsWaterBody() bool {
	return c.Type == Spring || c.Type == River
}

// ClassifyType derives a cell's Type from its current moisture and water
// state, per spec §3 invariant 4. Cells already flagged Spring or River
// are left untouched by callers — this only decides among
// rock/earth/mud for ordinary land.
func ClassifyType(moisture, mudThreshold, earthThreshold float64) Type {
	switch {
	case moisture > mudThreshold:
		return Mud
	case moisture > earthThreshold:
		return Earth
	default:
		return Rock
	}
}
