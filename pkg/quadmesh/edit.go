package quadmesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Edit operators read the current corners of a quad, compute new geometry
// and write it back by vertex index. A rejected edit leaves the mesh
// unchanged; an applied edit notifies subscribers once.

// Extrude pushes quad q out along its normal by sqrt(area). Four new
// vertices are appended for the top face, four side quads join the old
// edges to the new ones, and quad q is rewritten to reference the top
// vertices. The old corners stay in the mesh, used by the side quads.
func (m *Mesh) Extrude(q int) error {
	idx, err := m.Quad(q)
	if err != nil {
		return fmt.Errorf("extrude: %w", err)
	}
	c, err := m.Corners(q)
	if err != nil {
		return fmt.Errorf("extrude: %w", err)
	}
	n, err := Normal(c[0], c[1], c[2], c[3])
	if err != nil {
		Logger().Warn("quadmesh: extrude rejected", "quad", q, "err", err)
		return fmt.Errorf("extrude quad %d: %w", q, err)
	}
	offset := n.Mul(math.Sqrt(Area(c[0], c[1], c[2], c[3])))

	var top Quad
	for k := range c {
		top[k] = m.AddVertex(c[k].Add(offset))
	}
	a, b, cc, d := idx[0], idx[1], idx[2], idx[3]
	a2, b2, c2, d2 := top[0], top[1], top[2], top[3]

	m.AddQuad(d2, c2, cc, d)
	m.AddQuad(c2, b2, b, cc)
	m.AddQuad(b2, a2, a, b)
	m.AddQuad(a2, d2, d, a)
	m.setQuad(q, top)

	Logger().Debug("quadmesh: extrude", "quad", q,
		"vertices", m.VertexCount(), "quads", m.QuadCount())
	m.Changed()
	return nil
}

// Offset moves the corners of quad q along its normal by
// distance*sqrt(area). Vertices shared with neighbouring quads move too.
func (m *Mesh) Offset(q int, distance float64) error {
	idx, err := m.Quad(q)
	if err != nil {
		return fmt.Errorf("offset: %w", err)
	}
	c, err := m.Corners(q)
	if err != nil {
		return fmt.Errorf("offset: %w", err)
	}
	n, err := Normal(c[0], c[1], c[2], c[3])
	if err != nil {
		Logger().Warn("quadmesh: offset rejected", "quad", q, "err", err)
		return fmt.Errorf("offset quad %d: %w", q, err)
	}
	delta := n.Mul(distance * math.Sqrt(Area(c[0], c[1], c[2], c[3])))

	for k, i := range idx {
		m.vertices[i] = c[k].Add(delta)
	}

	Logger().Debug("quadmesh: offset", "quad", q, "distance", distance)
	m.Changed()
	return nil
}

// Shrink moves every corner of quad q along (corner - centroid) by
// factor. Factors in (-1,0) shrink the quad, positive factors grow it.
func (m *Mesh) Shrink(q int, factor float64) error {
	idx, err := m.Quad(q)
	if err != nil {
		return fmt.Errorf("shrink: %w", err)
	}
	c, err := m.Corners(q)
	if err != nil {
		return fmt.Errorf("shrink: %w", err)
	}
	center := Centroid(c[0], c[1], c[2], c[3])

	for k, i := range idx {
		m.vertices[i] = c[k].Add(c[k].Sub(center).Mul(factor))
	}

	Logger().Debug("quadmesh: shrink", "quad", q, "factor", factor)
	m.Changed()
	return nil
}

// Rotate turns quad q by angle radians about its own normal through its
// centroid, applying LocalFrame * RotZ(angle) * LocalFrame^-1 to each
// corner.
func (m *Mesh) Rotate(q int, angle float64) error {
	idx, err := m.Quad(q)
	if err != nil {
		return fmt.Errorf("rotate: %w", err)
	}
	c, err := m.Corners(q)
	if err != nil {
		return fmt.Errorf("rotate: %w", err)
	}
	frame, err := m.LocalFrame(q)
	if err != nil {
		Logger().Warn("quadmesh: rotate rejected", "quad", q, "err", err)
		return fmt.Errorf("rotate: %w", err)
	}
	t := frame.Mul4(mgl64.HomogRotate3DZ(angle)).Mul4(frame.Inv())

	for k, i := range idx {
		m.vertices[i] = t.Mul4x1(c[k].Vec4(1)).Vec3()
	}

	Logger().Debug("quadmesh: rotate", "quad", q, "angle", angle)
	m.Changed()
	return nil
}
