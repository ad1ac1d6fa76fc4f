package mesh

import (
	"fmt"

	"github.com/phil-mansfield/goretarget/geom"
)

// SampleOptions controls point extraction from a mesh.
type SampleOptions struct {
	// Mask selects the participating vertices. nil means all vertices.
	// Must have one flag per vertex otherwise.
	Mask []bool
	// Stride emits every Stride-th masked vertex. Must be positive.
	Stride int
	// Layer names an alternate coordinate layer to read instead of the
	// base coordinates. Empty means base coordinates.
	Layer string
	// Matrix is applied to every point before it is returned.
	Matrix geom.Mat4
}

// DefaultSampleOptions returns options that sample every vertex's base
// coordinate untransformed.
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{Stride: 1, Matrix: geom.Identity()}
}

// Points extracts an ordered point sequence from the mesh. Vertices are
// visited in ascending index order and every opt.Stride-th vertex passing
// the mask is emitted, so the output order always matches vertex order and
// repeated calls with equal options return equal results.
//
// Bad strides and mask lengths are caller bugs and panic; an unknown layer
// name is an input error and is returned.
func (m *Mesh) Points(opt SampleOptions) ([]geom.Vec, error) {
	if opt.Stride <= 0 {
		panic("Stride must be positive.")
	} else if opt.Mask != nil && len(opt.Mask) != len(m.Verts) {
		panic(fmt.Sprintf(
			"Mask has %d flags for %d vertices.", len(opt.Mask), len(m.Verts),
		))
	}

	coords := m.Verts
	if opt.Layer != "" {
		layer, ok := m.Layers[opt.Layer]
		if !ok {
			return nil, fmt.Errorf(
				"mesh %q has no coordinate layer %q", m.Name, opt.Layer,
			)
		}
		coords = layer
	}

	var pts []geom.Vec
	masked := 0
	for i, pt := range coords {
		if opt.Mask != nil && !opt.Mask[i] {
			continue
		}
		if masked%opt.Stride == 0 {
			pts = append(pts, opt.Matrix.Transform(pt))
		}
		masked++
	}
	return pts, nil
}

// Stride returns the sub-sampling stride needed to keep masked vertices
// under cap points, ceil(masked/cap). The dense solve downstream is
// O(n^3)-ish, so the correspondence count has to stay bounded. Panics if
// cap isn't positive.
func Stride(masked, cap int) int {
	if cap <= 0 {
		panic("cap must be positive.")
	}
	if masked <= 0 {
		return 1
	}
	return (masked + cap - 1) / cap
}
