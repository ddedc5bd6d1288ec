// Package api adapts the engine to HTTP: the query surface named in
// spec §6, mapped onto chi routes.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"terrasim/internal/cache"
	"terrasim/internal/config"
	"terrasim/internal/engerr"
	"terrasim/internal/engine"
	"terrasim/internal/logging"
	"terrasim/internal/metrics"
)

// Server holds everything the query-surface handlers need to read from
// the engine and, optionally, serve cached responses.
type Server struct {
	engine *engine.Engine
	env    config.AdapterEnv
	cache  *cache.QueryCache // nil disables caching
}

// New builds a Server. cache may be nil.
func New(e *engine.Engine, env config.AdapterEnv, qc *cache.QueryCache) *Server {
	return &Server{engine: e, env: env, cache: qc}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(r.Context(), err, "request failed", nil)
	w.Header().Set("X-Correlation-ID", logging.GetCorrelationID(r.Context()))

	if appErr, ok := err.(*engerr.Error); ok {
		writeJSON(w, appErr.HTTPStatus(), map[string]string{"error": appErr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// GetTime handles GET /api/time.
func (s *Server) GetTime(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	writeJSON(w, http.StatusOK, snap.Time)
}

// GetTerrain handles GET /api/terrain: the full grid as a row-major 2D
// array of cell records.
func (s *Server) GetTerrain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	const cacheKey = "terrain:full"

	rows := make([][]any, 0)
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &rows); err == nil {
			metrics.RecordCacheHit()
			writeJSON(w, http.StatusOK, rows)
			return
		}
		metrics.RecordCacheMiss()
	}

	snap := s.engine.Snapshot()
	width, height := snap.World.Dim()
	grid := make([][]any, height)
	for y := 0; y < height; y++ {
		row := make([]any, width)
		for x := 0; x < width; x++ {
			row[x] = snap.World.Cell(x, y)
		}
		grid[y] = row
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, grid)
	}

	writeJSON(w, http.StatusOK, grid)
}

// viewportResponse is the JSON shape returned by GetViewport (spec §6).
type viewportResponse struct {
	Viewport  [][]any `json:"viewport"`
	WorldSize int     `json:"worldSize"`
	Timestamp int64   `json:"timestamp"`
}

// GetViewport handles GET /api/viewport?x=&y=&width=&height=: a
// toroidal window into the grid, with width/height clamped to
// MAX_VIEWPORT_SIZE and coordinates wrapped (spec §6).
func (s *Server) GetViewport(w http.ResponseWriter, r *http.Request) {
	x, errX := parseIntParam(r, "x")
	y, errY := parseIntParam(r, "y")
	width, errW := parseIntParam(r, "width")
	height, errH := parseIntParam(r, "height")
	if errX != nil || errY != nil || errW != nil || errH != nil {
		writeError(w, r, engerr.New(engerr.KindQueryArgument, "x, y, width and height must all be integers"))
		return
	}

	snap := s.engine.Snapshot()
	cfg := s.engine.Config()

	maxSize := cfg.Performance.MaxViewportSize
	if width > maxSize {
		width = maxSize
	}
	if height > maxSize {
		height = maxSize
	}
	if width <= 0 || height <= 0 {
		writeError(w, r, engerr.New(engerr.KindQueryArgument, "width and height must be positive"))
		return
	}

	viewport := make([][]any, height)
	for row := 0; row < height; row++ {
		cells := make([]any, width)
		for col := 0; col < width; col++ {
			cells[col] = snap.World.Cell(x+col, y+row)
		}
		viewport[row] = cells
	}

	worldWidth, _ := snap.World.Dim()
	writeJSON(w, http.StatusOK, viewportResponse{
		Viewport:  viewport,
		WorldSize: worldWidth,
		Timestamp: int64(snap.Tick),
	})
}

func parseIntParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, engerr.New(engerr.KindQueryArgument, name+" is required")
	}
	return strconv.Atoi(raw)
}

// configResponse is the JSON shape returned by GetConfig (spec §6).
type configResponse struct {
	UpdateInterval int64 `json:"updateInterval"`
	WorldSize      int   `json:"worldSize"`
}

// GetConfig handles GET /api/config.
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.engine.Config()
	writeJSON(w, http.StatusOK, configResponse{
		UpdateInterval: s.env.SimulationInterval.Milliseconds(),
		WorldSize:      cfg.World.GridSize,
	})
}

// GetWorldSize handles GET /api/world-size, for callers that only need
// the world size from /api/config's payload.
func (s *Server) GetWorldSize(w http.ResponseWriter, r *http.Request) {
	cfg := s.engine.Config()
	writeJSON(w, http.StatusOK, map[string]int{"worldSize": cfg.World.GridSize})
}
