// Package engine owns the tick counter and runs the fixed A-M pipeline
// in order each tick under a write lock; Snapshot copies the world under
// the read lock, so readers never observe partial state (spec §4.N, §5).
package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"terrasim/internal/clock"
	"terrasim/internal/clouds"
	"terrasim/internal/config"
	"terrasim/internal/engerr"
	"terrasim/internal/evaporation"
	"terrasim/internal/grid"
	"terrasim/internal/humidity"
	"terrasim/internal/hydrology"
	"terrasim/internal/metrics"
	"terrasim/internal/moisture"
	"terrasim/internal/precipitation"
	"terrasim/internal/terrain"
	"terrasim/internal/transport"
	"terrasim/internal/weather"
)

// Snapshot is an immutable point-in-time view of the world, safe to
// read concurrently with the next tick once handed out (spec §5,
// "readers see either the state before tick N or after").
type Snapshot struct {
	World *grid.World
	Time  clock.GameTime
	Tick  uint64
}

// Engine wires components A-M behind a single reader/writer lock: the
// tick holds the write lock for its whole duration, and the query
// surface takes the read lock for the duration of one read (spec §5,
// "exactly one writer, many readers").
type Engine struct {
	mu     sync.RWMutex
	cfg    *config.Config
	world  *grid.World
	time   *clock.GameTime
	hydro  *hydrology.State
	ticks  uint64
	seed   int64

	running sync.Mutex
}

// New builds an Engine from cfg, generating fresh terrain with seed as
// the sole source of randomness (spec §9).
func New(cfg *config.Config, seed int64) (*Engine, error) {
	world, err := terrain.Generate(cfg, seed)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:   cfg,
		world: world,
		time:  clock.New(),
		hydro: hydrology.NewState(world),
		seed:  seed,
	}, nil
}

// Tick advances the simulation by one in-game hour, running every
// pipeline stage in the fixed §2 order. Concurrent ticks are forbidden
// (spec §5); a caller that invokes Tick while one is already running
// gets an engerr.KindTickBudgetExceeded error back immediately rather
// than being queued.
func (e *Engine) Tick() error {
	if !e.running.TryLock() {
		metrics.RecordTickSkipped()
		return engerr.New(engerr.KindTickBudgetExceeded, "tick already in progress, skipped")
	}
	defer e.running.Unlock()

	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.time.Advance(e.cfg)

	e.runStage("temperature", func() { weather.UpdateTemperature(e.world, e.time, e.cfg) })
	e.runStage("wind", func() { weather.UpdateWind(e.world, e.cfg) })
	e.runStage("transport", func() { transport.Advect(e.world, e.cfg) })
	e.runStage("clouds", func() {
		clouds.FormAndDissipate(e.world, e.cfg)
		clouds.Advect(e.world, e.cfg)
	})
	e.runStage("precipitation", func() { precipitation.Apply(e.world, e.cfg) })
	e.runStage("hydrology", func() { e.hydro.Tick(e.world, e.cfg) })
	e.runStage("evaporation", func() { evaporation.Apply(e.world, e.cfg) })
	e.runStage("humidity_diffusion", func() { humidity.Diffuse(e.world, e.cfg) })
	e.runStage("condensation", func() { humidity.Condense(e.world, e.cfg) })
	e.runStage("moisture_propagation", func() { moisture.Propagate(e.world, e.cfg) })

	e.ticks++

	elapsed := time.Since(start)
	metrics.RecordTickDuration(elapsed)
	if e.cfg.Performance.EnablePerformanceLogging {
		log.Info().Uint64("tick", e.ticks).Dur("duration", elapsed).Msg("tick completed")
	}
	if ms := elapsed.Milliseconds(); int(ms) > e.cfg.Performance.TickTimeWarningMs {
		log.Warn().Uint64("tick", e.ticks).Dur("duration", elapsed).Msg("tick exceeded warning threshold")
	}

	return nil
}

// runStage runs fn and, when per-stage timing is enabled, records its
// duration under the given stage name (spec §4.N, "emits optional
// per-stage timing").
func (e *Engine) runStage(name string, fn func()) {
	if !e.cfg.Performance.EnablePerformanceLogging {
		fn()
		return
	}
	start := time.Now()
	fn()
	metrics.RecordStageDuration(name, time.Since(start))
}

// Regenerate rebuilds terrain from scratch with a fresh seed, resetting
// the tick counter and hydrology state but leaving cfg in place unless
// newCfg is non-nil (spec §6, "regenerate(config?)"). If generation
// fails the prior world is left completely intact.
func (e *Engine) Regenerate(newCfg *config.Config, seed int64) error {
	cfg := e.cfg
	if newCfg != nil {
		cfg = newCfg
	}

	world, err := terrain.Generate(cfg, seed)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg = cfg
	e.world = world
	e.time = clock.New()
	e.hydro = hydrology.NewState(world)
	e.ticks = 0
	e.seed = seed

	return nil
}

// Snapshot returns an immutable, consistent view of the world and
// clock. The grid is deep-copied under the read lock so the caller can
// hold and read it after the lock is released without racing the next
// tick (spec §5).
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{World: e.world.Clone(), Time: *e.time, Tick: e.ticks}
}

// Config returns the engine's active configuration.
func (e *Engine) Config() *config.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}
