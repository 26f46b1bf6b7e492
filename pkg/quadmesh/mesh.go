package quadmesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrQuadIndex is returned when a quad index is outside [0, QuadCount()).
	ErrQuadIndex = errors.New("quad index out of range")

	// ErrVertexIndex is returned when a quad references a vertex that does
	// not exist.
	ErrVertexIndex = errors.New("vertex index out of range")

	// ErrDegenerateQuad is returned when a quad has (near) zero area, so its
	// normal and local frame are undefined.
	ErrDegenerateQuad = errors.New("degenerate quad")
)

// Quad holds the four vertex indices of a quad, corners A, B, C, D in
// counter-clockwise order seen from the outward side.
type Quad [4]int

// Mesh is an indexed quad mesh. Vertices are only ever appended, so a
// vertex index stays valid for the lifetime of the mesh (until Clear).
// Quads are stored as four consecutive entries of a flat index slice.
//
// A Mesh is not safe for concurrent use.
type Mesh struct {
	vertices  []mgl64.Vec3
	quads     []int
	listeners []*subscription
	revision  uint64
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// Clear removes all vertices and quads. Subscribers are kept.
func (m *Mesh) Clear() {
	m.vertices = m.vertices[:0]
	m.quads = m.quads[:0]
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(p mgl64.Vec3) int {
	m.vertices = append(m.vertices, p)
	return len(m.vertices) - 1
}

// AddQuad appends a quad. The indices are not validated here; queries and
// edits on the quad report ErrVertexIndex if they turn out to be invalid.
func (m *Mesh) AddQuad(i1, i2, i3, i4 int) {
	m.quads = append(m.quads, i1, i2, i3, i4)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.vertices)
}

// QuadCount returns the number of quads.
func (m *Mesh) QuadCount() int {
	return len(m.quads) / 4
}

// Vertex returns the position of vertex i. It panics if i is out of range.
func (m *Mesh) Vertex(i int) mgl64.Vec3 {
	return m.vertices[i]
}

// Vertices returns a copy of the vertex positions.
func (m *Mesh) Vertices() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(m.vertices))
	copy(out, m.vertices)
	return out
}

// QuadIndices returns a copy of the flat quad index slice.
func (m *Mesh) QuadIndices() []int {
	out := make([]int, len(m.quads))
	copy(out, m.quads)
	return out
}

// Quad returns the vertex indices of quad q.
func (m *Mesh) Quad(q int) (Quad, error) {
	if q < 0 || q >= m.QuadCount() {
		return Quad{}, fmt.Errorf("quad %d of %d: %w", q, m.QuadCount(), ErrQuadIndex)
	}
	var out Quad
	copy(out[:], m.quads[q*4:q*4+4])
	return out, nil
}

// Corners returns the positions of the four corners of quad q.
func (m *Mesh) Corners(q int) ([4]mgl64.Vec3, error) {
	var out [4]mgl64.Vec3
	idx, err := m.Quad(q)
	if err != nil {
		return out, err
	}
	for k, i := range idx {
		if i < 0 || i >= len(m.vertices) {
			return out, fmt.Errorf("quad %d corner %d references vertex %d of %d: %w",
				q, k, i, len(m.vertices), ErrVertexIndex)
		}
		out[k] = m.vertices[i]
	}
	return out, nil
}

// setQuad overwrites the indices of quad q. q must be valid.
func (m *Mesh) setQuad(q int, idx Quad) {
	copy(m.quads[q*4:q*4+4], idx[:])
}

// Clone returns a deep copy of the mesh geometry. Subscribers are not
// copied.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		vertices: m.Vertices(),
		quads:    m.QuadIndices(),
	}
}

// Assign replaces the geometry of m with a copy of src's and notifies
// m's subscribers. It is how an edited clone is committed back.
func (m *Mesh) Assign(src *Mesh) {
	m.vertices = append(m.vertices[:0], src.vertices...)
	m.quads = append(m.quads[:0], src.quads...)
	m.Changed()
}

// CreateCube replaces the mesh contents with a cube spanning [-1,1] on
// every axis (8 vertices, 6 outward-facing quads) and notifies
// subscribers.
func (m *Mesh) CreateCube() {
	m.Clear()

	a := m.AddVertex(mgl64.Vec3{-1, -1, 1})
	b := m.AddVertex(mgl64.Vec3{1, -1, 1})
	c := m.AddVertex(mgl64.Vec3{1, -1, -1})
	d := m.AddVertex(mgl64.Vec3{-1, -1, -1})
	e := m.AddVertex(mgl64.Vec3{-1, 1, -1})
	f := m.AddVertex(mgl64.Vec3{-1, 1, 1})
	g := m.AddVertex(mgl64.Vec3{1, 1, 1})
	h := m.AddVertex(mgl64.Vec3{1, 1, -1})

	m.AddQuad(a, d, c, b)
	m.AddQuad(e, f, g, h)
	m.AddQuad(h, c, d, e)
	m.AddQuad(e, d, a, f)
	m.AddQuad(f, a, b, g)
	m.AddQuad(g, b, c, h)

	m.Changed()
}
