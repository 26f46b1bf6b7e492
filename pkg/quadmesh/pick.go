package quadmesh

import "github.com/go-gl/mathgl/mgl64"

// NoQuad is returned by NearestQuad when the ray hits nothing.
const NoQuad = -1

// Hit describes a ray/quad intersection.
type Hit struct {
	Quad     int
	Point    mgl64.Vec3
	Distance float64 // from the ray origin to Point
}

// Pick returns the quad whose intersection with r lies closest to the ray
// origin. On equal distances the lowest quad index wins. Quads that
// reference missing vertices or are degenerate are skipped.
func (m *Mesh) Pick(r Ray) (Hit, bool) {
	best := Hit{Quad: NoQuad}
	found := false
	for q := 0; q < m.QuadCount(); q++ {
		p, ok, err := m.IntersectRay(r, q)
		if err != nil || !ok {
			continue
		}
		dist := p.Sub(r.Origin).Len()
		if !found || dist < best.Distance {
			best = Hit{Quad: q, Point: p, Distance: dist}
			found = true
		}
	}
	return best, found
}

// NearestQuad returns the index of the quad picked by r, or NoQuad.
func (m *Mesh) NearestQuad(r Ray) int {
	h, ok := m.Pick(r)
	if !ok {
		return NoQuad
	}
	return h.Quad
}
