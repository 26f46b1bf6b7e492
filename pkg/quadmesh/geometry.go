package quadmesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Epsilon is the relative threshold below which a quad counts as
	// degenerate, and the absolute threshold below which the denominator
	// of a ray/plane intersection (a unit normal against the ray
	// direction) counts as zero.
	Epsilon = 1e-12

	// PlaneTolerance is the relative tolerance of the plane membership check
	// applied to ray intersection points.
	PlaneTolerance = 1e-9
)

// Ray is a half-line starting at Origin. Direction need not be unit length.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns Origin + t*Direction.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// triangleNormals returns the unnormalized normals of the triangles (A,B,D)
// and (C,D,B), both wound like the quad.
func triangleNormals(a, b, c, d mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	abd := b.Sub(a).Cross(d.Sub(a))
	cdb := d.Sub(c).Cross(b.Sub(c))
	return abd, cdb
}

// Normal returns the unit normal of quad ABCD: the normalized sum of the
// normals of its two triangles. For a non-planar quad this is the best
// effort average. ErrDegenerateQuad is returned when the sum is (near)
// zero relative to the squared edge lengths, so the test does not depend
// on the scale of the quad.
func Normal(a, b, c, d mgl64.Vec3) (mgl64.Vec3, error) {
	n1, n2 := triangleNormals(a, b, c, d)
	sum := n1.Add(n2)
	l := sum.Len()
	if l <= Epsilon*edgeScale(a, b, c, d) || math.IsNaN(l) {
		return mgl64.Vec3{}, ErrDegenerateQuad
	}
	return sum.Mul(1 / l), nil
}

// edgeScale is the sum of the squared edge lengths of ABCD, the natural
// unit of a cross product of two edges.
func edgeScale(a, b, c, d mgl64.Vec3) float64 {
	return b.Sub(a).LenSqr() + c.Sub(b).LenSqr() + d.Sub(c).LenSqr() + a.Sub(d).LenSqr()
}

// Area returns the area of quad ABCD as the sum of the areas of triangles
// (A,B,D) and (C,B,D).
func Area(a, b, c, d mgl64.Vec3) float64 {
	n1, n2 := triangleNormals(a, b, c, d)
	return 0.5*n1.Len() + 0.5*n2.Len()
}

// Centroid returns the arithmetic mean of the four corners.
func Centroid(a, b, c, d mgl64.Vec3) mgl64.Vec3 {
	return a.Add(b).Add(c).Add(d).Mul(0.25)
}

// PointInQuad reports whether p lies strictly inside quad ABCD, testing p
// against the inward half-plane of every edge. The quad must be convex
// and p must already lie in (or near) its plane. Degenerate quads contain
// no points.
func PointInQuad(p, a, b, c, d mgl64.Vec3) bool {
	n, err := Normal(a, b, c, d)
	if err != nil {
		return false
	}
	corners := [4]mgl64.Vec3{a, b, c, d}
	for k := 0; k < 4; k++ {
		e1, e2 := corners[k], corners[(k+1)%4]
		inward := n.Cross(e2.Sub(e1))
		if inward.Dot(p) <= inward.Dot(e1) {
			return false
		}
	}
	return true
}

// IntersectRayQuad intersects ray r with quad ABCD. It reports no hit when
// the ray is parallel to the quad's plane, when the plane lies behind the
// ray origin, when the computed point fails the plane membership check,
// or when the point lies outside the quad.
func IntersectRayQuad(r Ray, a, b, c, d mgl64.Vec3) (mgl64.Vec3, bool) {
	n, err := Normal(a, b, c, d)
	if err != nil {
		return mgl64.Vec3{}, false
	}
	denom := n.Dot(r.Direction)
	if math.Abs(denom) < Epsilon {
		return mgl64.Vec3{}, false
	}
	plane := n.Dot(a)
	alpha := (plane - n.Dot(r.Origin)) / denom
	if alpha < 0 {
		return mgl64.Vec3{}, false
	}
	p := r.At(alpha)

	scale := math.Max(1, math.Max(math.Abs(plane), p.Len()))
	if math.Abs(n.Dot(p)-plane) > PlaneTolerance*scale {
		return mgl64.Vec3{}, false
	}
	if !PointInQuad(p, a, b, c, d) {
		return mgl64.Vec3{}, false
	}
	return p, true
}

// QuadNormal returns the unit normal of quad q.
func (m *Mesh) QuadNormal(q int) (mgl64.Vec3, error) {
	c, err := m.Corners(q)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	n, err := Normal(c[0], c[1], c[2], c[3])
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("quad %d: %w", q, err)
	}
	return n, nil
}

// QuadArea returns the area of quad q.
func (m *Mesh) QuadArea(q int) (float64, error) {
	c, err := m.Corners(q)
	if err != nil {
		return 0, err
	}
	return Area(c[0], c[1], c[2], c[3]), nil
}

// QuadCentroid returns the centroid of quad q.
func (m *Mesh) QuadCentroid(q int) (mgl64.Vec3, error) {
	c, err := m.Corners(q)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return Centroid(c[0], c[1], c[2], c[3]), nil
}

// IntersectRay intersects ray r with quad q. An invalid quad index is an
// error; a miss is not.
func (m *Mesh) IntersectRay(r Ray, q int) (mgl64.Vec3, bool, error) {
	c, err := m.Corners(q)
	if err != nil {
		return mgl64.Vec3{}, false, err
	}
	p, ok := IntersectRayQuad(r, c[0], c[1], c[2], c[3])
	return p, ok, nil
}
