package grid

// Direction names a Moore-neighborhood offset in the fixed compass order
// used to break ties in hydrology flow (spec §4.I: "N,S,W,E,NW,NE,SW,SE").
type Direction int

const (
	North Direction = iota
	South
	West
	East
	Northwest
	Northeast
	Southwest
	Southeast
)

// compassOffsets is indexed by Direction and lists (dx, dy) in the
// canonical tie-break order. Y increases southward.
var compassOffsets = [8][2]int{
	North:     {0, -1},
	South:     {0, 1},
	West:      {-1, 0},
	East:      {1, 0},
	Northwest: {-1, -1},
	Northeast: {1, -1},
	Southwest: {-1, 1},
	Southeast: {1, 1},
}

// Coord is a wrapped grid coordinate.
type Coord struct {
	X, Y int
}

// World is a toroidal H×W grid of cells stored row-major in a single
// contiguous slice (spec §9: "prefer contiguous row-major storage").
type World struct {
	width, height int
	cells         []Cell
}

// New allocates a width×height World with every cell zero-valued. The
// terrain generator (internal/terrain) is responsible for populating it
// per spec §4.B step 3.
func New(width, height int) *World {
	w := &World{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := w.index(x, y)
			w.cells[idx] = Cell{X: x, Y: y, Type: Rock, DistanceFromWater: Unreached}
		}
	}
	return w
}

// Dim returns the grid's (width, height).
func (w *World) Dim() (int, int) {
	return w.width, w.height
}

// Wrap folds v into [0, max) using a branchless double-modulo so
// negative inputs wrap correctly (spec §9: "branchless ((x % W) + W) % W").
func Wrap(v, max int) int {
	return ((v % max) + max) % max
}

func (w *World) index(x, y int) int {
	return y*w.width + x
}

// Cell returns a pointer to the cell at (x, y), wrapping both
// coordinates onto the torus first. This is the only sanctioned way to
// address a cell — no raw indexing at call sites (spec §4.A).
func (w *World) Cell(x, y int) *Cell {
	wx := Wrap(x, w.width)
	wy := Wrap(y, w.height)
	return &w.cells[w.index(wx, wy)]
}

// At returns the cell at 1D row-major index idx, for callers iterating
// the whole grid without recomputing (x, y) each time.
func (w *World) At(idx int) *Cell {
	return &w.cells[idx]
}

// WrappedIndex returns the row-major index of (x, y) after wrapping both
// coordinates onto the torus — for subsystems that maintain their own
// parallel buffers (pressure fields, double-buffered diffusion) indexed
// the same way as the cell slice.
func (w *World) WrappedIndex(x, y int) int {
	return w.index(Wrap(x, w.width), Wrap(y, w.height))
}

// Clone returns a deep copy of the world, safe for a reader to hold
// indefinitely while the original continues to be mutated by later
// ticks (spec §5, "readers see either the state before tick N or
// after — never mid-tick").
func (w *World) Clone() *World {
	cells := make([]Cell, len(w.cells))
	copy(cells, w.cells)
	return &World{width: w.width, height: w.height, cells: cells}
}

// Len returns the total cell count, width*height.
func (w *World) Len() int {
	return len(w.cells)
}

// Neighbors returns the 8 Moore neighbors of (x, y) in the fixed compass
// order N,S,W,E,NW,NE,SW,SE, wrapped on both axes (spec §4.A, §8
// property 1: toroidal neighbor symmetry).
func (w *World) Neighbors(x, y int) [8]*Cell {
	var out [8]*Cell
	for i, off := range compassOffsets {
		out[i] = w.Cell(x+off[0], y+off[1])
	}
	return out
}

// NeighborCoords is like Neighbors but returns wrapped coordinates
// instead of cell pointers, for callers that need to know positions
// (e.g. the BFS visited-set in ground moisture propagation).
func (w *World) NeighborCoords(x, y int) [8]Coord {
	var out [8]Coord
	for i, off := range compassOffsets {
		out[i] = Coord{Wrap(x+off[0], w.width), Wrap(y+off[1], w.height)}
	}
	return out
}

// Each calls fn for every cell in row-major order. Subsystems that need
// per-row parallelism (spec §5) iterate rows themselves instead of using
// this helper.
func (w *World) Each(fn func(c *Cell)) {
	for i := range w.cells {
		fn(&w.cells[i])
	}
}
