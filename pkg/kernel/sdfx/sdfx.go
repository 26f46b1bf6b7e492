// Package sdfx implements the kernel.Exporter interface using the
// github.com/deadsy/sdfx CAD library: quads become sdf.Triangle3 values
// that sdfx can bound and write as STL.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/quadmodel/pkg/kernel"
	"github.com/chazu/quadmodel/pkg/quadmesh"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Exporter = (*SdfxKernel)(nil)

// SdfxKernel implements kernel.Exporter using sdfx. Every vertex is mapped
// through transform before it reaches sdfx.
type SdfxKernel struct {
	transform sdf.M44
}

// New returns a kernel that exports coordinates unchanged.
func New() *SdfxKernel {
	return &SdfxKernel{transform: sdf.Identity3d()}
}

// NewZUp returns a kernel that converts the editor's Y-up coordinates to
// the Z-up convention used by slicers, rotating 90 degrees about X.
func NewZUp() *SdfxKernel {
	return &SdfxKernel{transform: sdf.RotateX(math.Pi / 2)}
}

func (k *SdfxKernel) position(p [3]float64) v3.Vec {
	return k.transform.MulPosition(v3.Vec{X: p[0], Y: p[1], Z: p[2]})
}

// ToTriangles converts every quad of m into two sdf triangles, split the
// same way the renderer splits them.
func (k *SdfxKernel) ToTriangles(m *quadmesh.Mesh) ([]*sdf.Triangle3, error) {
	tris := m.Triangles()
	out := make([]*sdf.Triangle3, 0, len(tris)/3)
	for i := 0; i+2 < len(tris); i += 3 {
		var t sdf.Triangle3
		for j := 0; j < 3; j++ {
			vi := tris[i+j]
			if vi < 0 || vi >= m.VertexCount() {
				return nil, fmt.Errorf("sdfx: triangle %d references vertex %d of %d: %w",
					i/3, vi, m.VertexCount(), quadmesh.ErrVertexIndex)
			}
			t[j] = k.position(m.Vertex(vi))
		}
		out = append(out, &t)
	}
	return out, nil
}

// bounds returns the bounding box of all quad corners of m.
func (k *SdfxKernel) bounds(m *quadmesh.Mesh) sdf.Box3 {
	var bb sdf.Box3
	first := true
	for _, vi := range m.QuadIndices() {
		if vi < 0 || vi >= m.VertexCount() {
			continue
		}
		p := k.position(m.Vertex(vi))
		if first {
			bb = sdf.Box3{Min: p, Max: p}
			first = false
			continue
		}
		bb.Min = v3.Vec{X: math.Min(bb.Min.X, p.X), Y: math.Min(bb.Min.Y, p.Y), Z: math.Min(bb.Min.Z, p.Z)}
		bb.Max = v3.Vec{X: math.Max(bb.Max.X, p.X), Y: math.Max(bb.Max.Y, p.Y), Z: math.Max(bb.Max.Z, p.Z)}
	}
	return bb
}

// BoundingBox returns the axis-aligned bounding box of the quad corners.
// Orphaned vertices are ignored. An empty mesh has a zero box.
func (k *SdfxKernel) BoundingBox(m *quadmesh.Mesh) (min, max [3]float64) {
	bb := k.bounds(m)
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// TriangleCount returns the number of triangles written by SaveSTL.
func (k *SdfxKernel) TriangleCount(m *quadmesh.Mesh) int {
	return len(m.Triangles()) / 3
}

// SaveSTL writes m to path as an STL file.
func (k *SdfxKernel) SaveSTL(m *quadmesh.Mesh, path string) error {
	tris, err := k.ToTriangles(m)
	if err != nil {
		return err
	}
	if len(tris) == 0 {
		return fmt.Errorf("sdfx: nothing to export, mesh has no quads")
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}
