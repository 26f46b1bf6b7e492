// Package tessellate turns a quad mesh into render buffers and keeps them
// current. Adapter subscribes to a mesh and pushes a fresh kernel.Mesh to
// its sink after every change; the renderer never reads the quad mesh
// directly.
package tessellate

import (
	"fmt"

	"github.com/chazu/quadmodel/pkg/kernel"
	"github.com/chazu/quadmodel/pkg/quadmesh"
	"github.com/go-gl/mathgl/mgl64"
)

// Tessellate converts m into render buffers: vertex positions, per-vertex
// normals, the triangle list and the unique edge list. The tessellator is
// read-only and never mutates the mesh.
func Tessellate(m *quadmesh.Mesh) (*kernel.Mesh, error) {
	if m == nil {
		return &kernel.Mesh{}, nil
	}

	nv := m.VertexCount()
	quads := m.QuadIndices()
	for i, vi := range quads {
		if vi < 0 || vi >= nv {
			return nil, fmt.Errorf("tessellate: quad %d references vertex %d of %d: %w",
				i/4, vi, nv, quadmesh.ErrVertexIndex)
		}
	}

	vertices := make([]float32, 0, nv*3)
	for _, v := range m.Vertices() {
		vertices = append(vertices, float32(v.X()), float32(v.Y()), float32(v.Z()))
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  vertexNormals(m, quads),
		Indices:  toUint32(quadmesh.QuadsToTriangles(quads)),
		Edges:    toUint32(quadmesh.QuadsToEdges(quads)),
	}, nil
}

// vertexNormals averages the area-weighted normals of the quads around
// each vertex. Vertices used by no (non-degenerate) quad get a zero
// normal.
func vertexNormals(m *quadmesh.Mesh, quads []int) []float32 {
	acc := make([]mgl64.Vec3, m.VertexCount())
	for q := 0; q < len(quads)/4; q++ {
		n, err := m.QuadNormal(q)
		if err != nil {
			continue
		}
		area, _ := m.QuadArea(q)
		weighted := n.Mul(area)
		for _, vi := range quads[q*4 : q*4+4] {
			acc[vi] = acc[vi].Add(weighted)
		}
	}

	out := make([]float32, 0, len(acc)*3)
	for _, n := range acc {
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		} else {
			n = mgl64.Vec3{}
		}
		out = append(out, float32(n.X()), float32(n.Y()), float32(n.Z()))
	}
	return out
}

func toUint32(idx []int) []uint32 {
	out := make([]uint32, len(idx))
	for i, v := range idx {
		out[i] = uint32(v)
	}
	return out
}
