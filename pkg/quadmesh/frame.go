package quadmesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LocalFrame returns the local coordinate frame of quad q as a 4x4
// transform with columns (X,0), (Y,0), (Z,0), (origin,1), post-multiplied
// by a uniform scale of |AB|/2. X points along AB, Z is the quad normal,
// Y = Z x X, and the origin is the centroid. The basis is only orthonormal
// for planar quads.
func (m *Mesh) LocalFrame(q int) (mgl64.Mat4, error) {
	c, err := m.Corners(q)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	a, b := c[0], c[1]

	n, err := Normal(c[0], c[1], c[2], c[3])
	if err != nil {
		return mgl64.Mat4{}, fmt.Errorf("local frame of quad %d: %w", q, err)
	}
	ab := b.Sub(a)
	size := ab.Len()
	if size < Epsilon {
		return mgl64.Mat4{}, fmt.Errorf("local frame of quad %d: zero length edge AB: %w", q, ErrDegenerateQuad)
	}
	x := ab.Mul(1 / size)
	y := n.Cross(x)
	origin := Centroid(c[0], c[1], c[2], c[3])

	basis := mgl64.Mat4FromCols(x.Vec4(0), y.Vec4(0), n.Vec4(0), origin.Vec4(1))
	if det := basis.Det(); math.Abs(det) < Epsilon || math.IsNaN(det) {
		return mgl64.Mat4{}, fmt.Errorf("local frame of quad %d: edge AB parallel to normal: %w", q, ErrDegenerateQuad)
	}
	half := size / 2
	return basis.Mul4(mgl64.Scale3D(half, half, half)), nil
}
