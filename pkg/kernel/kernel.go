// Package kernel defines the render-facing mesh buffers and the exporter
// interface for quad meshes. Implementations (sdfx) convert the editable
// quad mesh into a backend representation for bounds queries and file
// output, so the rest of the system can swap backends freely.
package kernel

import "github.com/chazu/quadmodel/pkg/quadmesh"

// Exporter converts quad meshes into a geometry backend.
type Exporter interface {
	// BoundingBox returns the axis-aligned bounding box of every vertex
	// referenced by a quad.
	BoundingBox(m *quadmesh.Mesh) (min, max [3]float64)

	// TriangleCount returns how many triangles the backend produces for m.
	TriangleCount(m *quadmesh.Mesh) int

	// SaveSTL writes m as an STL file at path.
	SaveSTL(m *quadmesh.Mesh, path string) error
}
