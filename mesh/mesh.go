/*package mesh models the mesh data handed to the retargeter as plain value
types: a base coordinate array, optional named alternate coordinate layers
over the same vertices, an optional per-vertex selection, and the object's
local-to-world transform. Vertex order is meaningful everywhere in this
package: retargeting assumes index i of one mesh corresponds to index i of
another, so nothing here ever reorders or deduplicates vertices.
*/
package mesh

import (
	"fmt"

	"github.com/phil-mansfield/goretarget/geom"
)

// Mesh is an immutable-by-convention mesh snapshot. The retargeter only
// reads from it; writing results back is the caller's explicit step.
type Mesh struct {
	Name   string
	Verts  []geom.Vec
	Layers map[string][]geom.Vec
	// Select flags the vertices participating in selection-limited
	// sampling. nil means no selection information.
	Select []bool
	// Matrix is the object's local-to-world transform.
	Matrix geom.Mat4
}

// New returns a mesh with the given base coordinates and an identity
// transform.
func New(name string, verts []geom.Vec) *Mesh {
	return &Mesh{Name: name, Verts: verts, Matrix: geom.Identity()}
}

// NumVerts returns the vertex count of the base coordinates.
func (m *Mesh) NumVerts() int { return len(m.Verts) }

// AddLayer attaches an alternate coordinate layer. The layer must cover
// every vertex. An existing layer with the same name is replaced.
func (m *Mesh) AddLayer(name string, pts []geom.Vec) error {
	if len(pts) != len(m.Verts) {
		return fmt.Errorf(
			"layer %q has %d points, but mesh %q has %d vertices",
			name, len(pts), m.Name, len(m.Verts),
		)
	}
	if m.Layers == nil {
		m.Layers = map[string][]geom.Vec{}
	}
	m.Layers[name] = pts
	return nil
}

// Layer returns the named alternate coordinate layer.
func (m *Mesh) Layer(name string) ([]geom.Vec, bool) {
	pts, ok := m.Layers[name]
	return pts, ok
}

// NumSelected returns the number of selected vertices, or the full vertex
// count if the mesh carries no selection.
func (m *Mesh) NumSelected() int {
	if m.Select == nil {
		return len(m.Verts)
	}
	n := 0
	for _, sel := range m.Select {
		if sel {
			n++
		}
	}
	return n
}
