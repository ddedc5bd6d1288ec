package terrain

import "github.com/aquilax/go-perlin"

// tileableNoise wraps a Perlin field and samples it so that opposite
// edges of a width×height tile match up, which the toroidal grid
// requires (spec §4.B step 1).
//
// go-perlin only exposes fixed-arity Noise2D/Noise3D, so we can't sample
// directly on a 4D torus. Instead we blend four copies of the same 2D
// field, each shifted by one full tile period along an axis, weighted
// by how far the sample point is from that axis's far edge — the
// "blending mirrored samples" alternative spec.md §4.B names explicitly.
// At x=0 (or y=0) the blend collapses onto the unshifted/shifted pair
// for that axis alone, and the shifted copy at x=width lines up with the
// unshifted copy at x=0, so the two edges agree.
type tileableNoise struct {
	p      *perlin.Perlin
	scale  float64
	width  int
	height int
}

func newTileableNoise(seed int64, scale float64, width, height int) *tileableNoise {
	// alpha=2, beta=2, n=3 octaves: matches the teacher's PerlinGenerator defaults.
	p := perlin.NewPerlin(2, 2, 3, seed)
	return &tileableNoise{p: p, scale: scale, width: width, height: height}
}

// sample returns a value in [0, 1] for grid position (x, y).
func (n *tileableNoise) sample(x, y int) float64 {
	fx := float64(x) / float64(n.width)
	fy := float64(y) / float64(n.height)

	n00 := n.raw(x, y)
	n10 := n.raw(x-n.width, y)
	n01 := n.raw(x, y-n.height)
	n11 := n.raw(x-n.width, y-n.height)

	blended := n00*(1-fx)*(1-fy) +
		n10*fx*(1-fy) +
		n01*(1-fx)*fy +
		n11*fx*fy

	return clamp01((blended + 1) / 2)
}

func (n *tileableNoise) raw(x, y int) float64 {
	return n.p.Noise2D(float64(x)*n.scale, float64(y)*n.scale)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
