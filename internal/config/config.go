// Package config provides externalized simulation configuration so the
// physics pipeline can be tuned without recompilation, the way combat
// balancing is externalized elsewhere in this stack.
package config

import (
	"encoding/json"
	"os"

	"terrasim/internal/engerr"
)

// World controls terrain generation (spec §4.B).
type World struct {
	GridSize         int     `json:"gridSize"`
	NoiseScale       float64 `json:"noiseScale"`
	NumberOfSprings  int     `json:"numberOfSprings"`
	MinHeight        float64 `json:"minHeight"`
	MaxHeight        float64 `json:"maxHeight"`
	SpringMinHeight  float64 `json:"springMinHeight"`
	SpringMaxHeight  float64 `json:"springMaxHeight"`
}

// Time controls the clock's calendar cadence (spec §4.C).
type Time struct {
	HoursPerDay   int `json:"hoursPerDay"`
	DaysPerMonth  int `json:"daysPerMonth"`
	MonthsPerYear int `json:"monthsPerYear"`
}

// Moisture holds the thresholds that derive a cell's Type from its
// moisture state (spec §3 invariant 4).
type Moisture struct {
	MaxLandMoisture float64 `json:"maxLandMoisture"`
	MudThreshold    float64 `json:"mudThreshold"`
	EarthThreshold  float64 `json:"earthThreshold"`
}

// Temperature holds the coefficients of the per-cell temperature model
// (spec §4.D).
type Temperature struct {
	WarmZoneC    float64 `json:"warmZoneC"`
	ColdZoneC    float64 `json:"coldZoneC"`
	LapseRate    float64 `json:"lapseRate"`
	SeasonAmpMin float64 `json:"seasonAmpMin"`
	SeasonAmpMax float64 `json:"seasonAmpMax"`
}

// Weather holds the pressure/wind coefficients (spec §4.E).
type Weather struct {
	BasePressure           float64 `json:"basePressure"`
	PressureLapseRate      float64 `json:"pressureLapseRate"`
	TempPressureFactor     float64 `json:"tempPressureFactor"`
	HumidityPressureFactor float64 `json:"humidityPressureFactor"`
	TempRef                float64 `json:"tempRef"`
	HumidityRef            float64 `json:"humidityRef"`
	WindGenerationFactor   float64 `json:"windGenerationFactor"`
	MaxWindSpeed           float64 `json:"maxWindSpeed"`
	WindSmoothingFactor    float64 `json:"windSmoothingFactor"`
}

// WindTransport holds the upwind-advection coefficients (spec §4.F).
type WindTransport struct {
	MinWindForTransport float64 `json:"minWindForTransport"`
	HumidityRate        float64 `json:"humidityRate"`
	HeatRate            float64 `json:"heatRate"`
}

// Cloud holds the cloud formation/advection coefficients (spec §4.G).
type Cloud struct {
	BaseSaturation          float64 `json:"baseSaturation"`
	AltitudeSaturationFactor float64 `json:"altitudeSaturationFactor"`
	FormationRate           float64 `json:"formationRate"`
	DissipationRate         float64 `json:"dissipationRate"`
	AdvectionRate           float64 `json:"advectionRate"`
}

// Precipitation holds the rain-out coefficients (spec §4.H).
type Precipitation struct {
	Threshold    float64 `json:"threshold"`
	CoolPerRate  float64 `json:"coolPerRate"`
	DecayPerTick float64 `json:"decayPerTick"`
}

// Hydrology holds the river-flow/erosion coefficients (spec §4.I).
type Hydrology struct {
	ErosionRateWater     float64 `json:"erosionRateWater"`
	PourAmount           float64 `json:"pourAmount"`
	MaxRiverFlowIterations int   `json:"maxRiverFlowIterations"`
}

// Evaporation holds the water/ground evaporation coefficients (spec §4.J).
type Evaporation struct {
	TempCoeff                float64 `json:"tempCoeff"`
	MaxDepth                 float64 `json:"maxDepth"`
	BaseRate                 float64 `json:"baseRate"`
	WaterToHumidityFactor    float64 `json:"waterToHumidityFactor"`
	MinGroundMoisture        float64 `json:"minGroundMoisture"`
	BaseEvapotranspiration   float64 `json:"baseEvapotranspiration"`
}

// Diffusion holds the saturation-aware humidity diffusion coefficients
// (spec §4.K).
type Diffusion struct {
	TempCoefficient          float64 `json:"tempCoefficient"`
	ScaleHeight              float64 `json:"scaleHeight"`
	Iterations               int     `json:"iterations"`
	MinTransferThreshold     float64 `json:"minTransferThreshold"`
	DiffusionRate            float64 `json:"diffusionRate"`
	UpwardBiasMax            float64 `json:"upwardBiasMax"`
	UpwardBiasCoeff          float64 `json:"upwardBiasCoeff"`
	DownwardPenaltyMax       float64 `json:"downwardPenaltyMax"`
	DownwardPenaltyCoeff     float64 `json:"downwardPenaltyCoeff"`
	MaxCellsProcessedPerTick int     `json:"maxCellsProcessedPerTick"`
}

// Condensation holds the oversaturation-to-ground coefficients (spec §4.L).
type Condensation struct {
	Rate              float64 `json:"rate"`
	AirToGroundFactor float64 `json:"airToGroundFactor"`
	DewThreshold      float64 `json:"dewThreshold"`
	DewRate           float64 `json:"dewRate"`
}

// Propagation holds the ground-moisture BFS coefficients (spec §4.M).
type Propagation struct {
	MaxDistance            int     `json:"maxDistance"`
	DistanceDecayRate      float64 `json:"distanceDecayRate"`
	TransferRate           float64 `json:"transferRate"`
	WaterVolumeBoostFactor float64 `json:"waterVolumeBoostFactor"`
	MaxWaterVolumeBoost    float64 `json:"maxWaterVolumeBoost"`
	MinTransfer            float64 `json:"minTransfer"`
	UphillPenaltyPercent   float64 `json:"uphillPenaltyPercent"`
	DownhillBonusPercent   float64 `json:"downhillBonusPercent"`
	AltitudeDrynessPercent float64 `json:"altitudeDrynessPercent"`
	SaturationExponent     float64 `json:"saturationExponent"`
	BaseDecay              float64 `json:"baseDecay"`
	SmoothingIterations    int     `json:"smoothingIterations"`
	MaxCellsProcessed      int     `json:"maxCellsProcessed"`
}

// Performance holds the operational guardrails named in spec §6/§7.
type Performance struct {
	MaxViewportSize         int  `json:"maxViewportSize"`
	TickTimeWarningMs       int  `json:"tickTimeWarningMs"`
	EnablePerformanceLogging bool `json:"enablePerformanceLogging"`
}

// Config is the full set of tunables recognized by the engine (spec §6).
type Config struct {
	World         World         `json:"world"`
	Time          Time          `json:"time"`
	Moisture      Moisture      `json:"moisture"`
	Temperature   Temperature   `json:"temperature"`
	Weather       Weather       `json:"weather"`
	WindTransport WindTransport `json:"windTransport"`
	Cloud         Cloud         `json:"cloud"`
	Precipitation Precipitation `json:"precipitation"`
	Hydrology     Hydrology     `json:"hydrology"`
	Evaporation   Evaporation   `json:"evaporation"`
	Diffusion     Diffusion     `json:"diffusion"`
	Condensation  Condensation  `json:"condensation"`
	Propagation   Propagation   `json:"propagation"`
	Performance   Performance   `json:"performance"`
}

// Default returns a Config with values matching the constants named
// throughout spec.md §4 and §6.
func Default() *Config {
	return &Config{
		World: World{
			GridSize:        256,
			NoiseScale:      0.05,
			NumberOfSprings: 24,
			MinHeight:       -200,
			MaxHeight:       2200,
			SpringMinHeight: 900,
			SpringMaxHeight: 1800,
		},
		Time: Time{
			HoursPerDay:   24,
			DaysPerMonth:  30,
			MonthsPerYear: 12,
		},
		Moisture: Moisture{
			MaxLandMoisture: 1.0,
			MudThreshold:    0.78,
			EarthThreshold:  0.22,
		},
		Temperature: Temperature{
			WarmZoneC:    25,
			ColdZoneC:    -8,
			LapseRate:    -0.006,
			SeasonAmpMin: 2,
			SeasonAmpMax: 12,
		},
		Weather: Weather{
			BasePressure:           1013.25,
			PressureLapseRate:      0.08,
			TempPressureFactor:     0.4,
			HumidityPressureFactor: 6.0,
			TempRef:                15.0,
			HumidityRef:            0.3,
			WindGenerationFactor:   0.6,
			MaxWindSpeed:           35.0,
			WindSmoothingFactor:    0.35,
		},
		WindTransport: WindTransport{
			MinWindForTransport: 1.0,
			HumidityRate:        0.35,
			HeatRate:            0.15,
		},
		Cloud: Cloud{
			BaseSaturation:           0.8,
			AltitudeSaturationFactor: 0.3,
			FormationRate:            0.4,
			DissipationRate:          0.1,
			AdvectionRate:            0.5,
		},
		Precipitation: Precipitation{
			Threshold:    0.5,
			CoolPerRate:  1.5,
			DecayPerTick: 0.2,
		},
		Hydrology: Hydrology{
			ErosionRateWater:       0.002,
			PourAmount:             0.35,
			MaxRiverFlowIterations: 4,
		},
		Evaporation: Evaporation{
			TempCoeff:              0.02,
			MaxDepth:               5.0,
			BaseRate:               0.03,
			WaterToHumidityFactor:  0.6,
			MinGroundMoisture:      0.1,
			BaseEvapotranspiration: 0.01,
		},
		Diffusion: Diffusion{
			TempCoefficient:          0.05,
			ScaleHeight:              8000,
			Iterations:               2,
			MinTransferThreshold:     0.02,
			DiffusionRate:            0.25,
			UpwardBiasMax:            0.2,
			UpwardBiasCoeff:          0.0005,
			DownwardPenaltyMax:       0.15,
			DownwardPenaltyCoeff:     0.0003,
			MaxCellsProcessedPerTick: 2_000_000,
		},
		Condensation: Condensation{
			Rate:              0.5,
			AirToGroundFactor: 0.3,
			DewThreshold:      0.9,
			DewRate:           0.1,
		},
		Propagation: Propagation{
			MaxDistance:            40,
			DistanceDecayRate:      0.12,
			TransferRate:           0.8,
			WaterVolumeBoostFactor: 0.3,
			MaxWaterVolumeBoost:    1.0,
			MinTransfer:            1e-5,
			UphillPenaltyPercent:   0.15,
			DownhillBonusPercent:   0.1,
			AltitudeDrynessPercent: 0.0003,
			SaturationExponent:     2.0,
			BaseDecay:              0.995,
			SmoothingIterations:    1,
			MaxCellsProcessed:      2_000_000,
		},
		Performance: Performance{
			MaxViewportSize:          256,
			TickTimeWarningMs:        5000,
			EnablePerformanceLogging: false,
		},
	}
}

// LoadFromFile overlays a JSON document onto Default(), so a partial
// config file only needs to name the fields it wants to change.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, engerr.Wrap(engerr.KindConfig, "failed to read config file", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, engerr.Wrap(engerr.KindConfig, "failed to parse config file", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the structural invariants a Config must satisfy before
// it can be used to build a World. Numeric guardrails inside the tick
// (clamps, floors) are the engine's job; Validate only catches the
// config-time invalidities that are fatal per spec §7.
func (c *Config) Validate() error {
	if c.World.GridSize < 1 {
		return engerr.New(engerr.KindConfig, "gridSize must be >= 1")
	}
	if c.World.SpringMinHeight > c.World.SpringMaxHeight {
		return engerr.New(engerr.KindConfig, "springMinHeight must be <= springMaxHeight")
	}
	if c.World.MinHeight >= c.World.MaxHeight {
		return engerr.New(engerr.KindConfig, "minHeight must be < maxHeight")
	}
	if c.World.NumberOfSprings < 1 {
		return engerr.New(engerr.KindConfig, "numberOfSprings must be >= 1")
	}
	if c.Moisture.EarthThreshold >= c.Moisture.MudThreshold {
		return engerr.New(engerr.KindConfig, "moisture.earthThreshold must be < moisture.mudThreshold")
	}
	if c.Moisture.MaxLandMoisture <= 0 {
		return engerr.New(engerr.KindConfig, "moisture.maxLandMoisture must be > 0")
	}
	if c.Time.HoursPerDay < 1 || c.Time.DaysPerMonth < 1 || c.Time.MonthsPerYear < 1 {
		return engerr.New(engerr.KindConfig, "time fields must be >= 1")
	}
	return nil
}
